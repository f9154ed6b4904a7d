// Package fft wraps the complex FFT implementations the effector can run on
// behind one Transformer interface.
//
// Three backends are available:
//   - algofft: github.com/cwbudde/algo-fft precomputed plans (default).
//   - gonum: gonum.org/v1/gonum/dsp/fourier.
//   - godsp: github.com/mjibson/go-dsp/fft.
//
// All backends produce unscaled forward transforms and 1/N-normalised
// inverse transforms, so Inverse(Forward(x)) == x up to rounding.
package fft
