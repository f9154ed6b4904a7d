// Package cepstrum computes the real cepstrum of a power spectrum: the
// inverse transform of its decibel-scaled log.
//
// The log stage raises every bin to a configurable floor first, so silent or
// degenerate input yields a finite cepstrum instead of -Inf or NaN.
package cepstrum
