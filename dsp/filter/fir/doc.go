// Package fir provides a direct-form FIR filter runtime and the first-order
// pre-emphasis filter used ahead of spectral analysis.
package fir
