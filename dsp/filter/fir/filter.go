package fir

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// DefaultPreEmphasis is the conventional pre-emphasis coefficient.
const DefaultPreEmphasis = 0.97

// Filter is a direct-form FIR filter. Not safe for concurrent use.
type Filter struct {
	taps    []float64
	history []float64 // x[n-1], x[n-2], ...
}

// New returns a filter with a copy of taps.
func New(taps []float64) (*Filter, error) {
	if len(taps) == 0 {
		return nil, errors.New("fir: taps must not be empty")
	}

	return &Filter{
		taps:    append([]float64(nil), taps...),
		history: make([]float64, len(taps)-1),
	}, nil
}

// NewPreEmphasis returns the two-tap filter y[n] = x[n] - alpha*x[n-1].
func NewPreEmphasis(alpha float64) (*Filter, error) {
	if math.IsNaN(alpha) || alpha < 0 || alpha >= 1 {
		return nil, fmt.Errorf("fir: pre-emphasis coefficient must be in [0, 1): %v", alpha)
	}
	return New([]float64{1, -alpha})
}

// ProcessSample filters one sample.
func (f *Filter) ProcessSample(x float64) float64 {
	y := f.taps[0]*x + floats.Dot(f.taps[1:], f.history)
	if len(f.history) > 0 {
		copy(f.history[1:], f.history)
		f.history[0] = x
	}
	return y
}

// ProcessBlock filters buf in place.
func (f *Filter) ProcessBlock(buf []float64) {
	for i, x := range buf {
		buf[i] = f.ProcessSample(x)
	}
}

// Reset clears the history.
func (f *Filter) Reset() {
	clear(f.history)
}
