// Package spectrum derives amplitude, power and phase spectra from complex
// FFT bins and reconstructs spectra from amplitude/phase pairs.
//
// Analyzer bundles a windowed forward transform and its inverse over a fixed
// length with preallocated scratch, so the per-cycle analysis path does not
// allocate beyond its outputs.
package spectrum
