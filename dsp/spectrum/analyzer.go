package spectrum

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-effector/dsp/fft"
	"github.com/cwbudde/algo-effector/dsp/window"
)

// ErrLengthMismatch reports buffers whose lengths disagree with the analyzer
// or with each other. It is a programming error, not a runtime condition.
var ErrLengthMismatch = errors.New("spectrum: length mismatch")

func lengthError(what string, got, want int) error {
	return fmt.Errorf("%w: %s %d != %d", ErrLengthMismatch, what, got, want)
}

// Option configures an Analyzer.
type Option func(*analyzerConfig)

type analyzerConfig struct {
	backend fft.Backend
}

// WithBackend selects the FFT backend.
func WithBackend(b fft.Backend) Option {
	return func(c *analyzerConfig) {
		if b != "" {
			c.backend = b
		}
	}
}

// Analyzer performs windowed forward transforms, inverse transforms and
// amplitude/power/phase derivation over a fixed length. Not safe for
// concurrent use.
type Analyzer struct {
	n        int
	tr       fft.Transformer
	windowed []float64
	scratch  []complex128
	re, im   []float64
}

// NewAnalyzer returns an Analyzer for sequences of length n.
func NewAnalyzer(n int, opts ...Option) (*Analyzer, error) {
	cfg := analyzerConfig{backend: fft.DefaultBackend}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	tr, err := fft.New(cfg.backend, n)
	if err != nil {
		return nil, fmt.Errorf("spectrum: %w", err)
	}

	return &Analyzer{
		n:        n,
		tr:       tr,
		windowed: make([]float64, n),
		scratch:  make([]complex128, n),
		re:       make([]float64, n),
		im:       make([]float64, n),
	}, nil
}

// Len returns the transform length.
func (a *Analyzer) Len() int {
	return a.n
}

// Backend returns the FFT backend in use.
func (a *Analyzer) Backend() fft.Backend {
	return a.tr.Backend()
}

// Transform multiplies x by windowFn element-wise and forward-transforms the
// result into dst. A nil windowFn means a rectangular window.
func (a *Analyzer) Transform(dst []complex128, x, windowFn []float64) error {
	if len(x) != a.n {
		return lengthError("input", len(x), a.n)
	}
	if windowFn != nil && len(windowFn) != a.n {
		return lengthError("window", len(windowFn), a.n)
	}
	if len(dst) != a.n {
		return lengthError("spectrum", len(dst), a.n)
	}

	if windowFn == nil {
		copy(a.windowed, x)
	} else if err := window.ApplyCoefficients(a.windowed, x, windowFn); err != nil {
		return fmt.Errorf("spectrum: %w", err)
	}

	return fft.ForwardReal(a.tr, dst, a.scratch, a.windowed)
}

// InverseTransform inverse-transforms spectrum into dst, keeping only the
// real component.
func (a *Analyzer) InverseTransform(dst []float64, spectrum []complex128) error {
	if len(spectrum) != a.n {
		return lengthError("spectrum", len(spectrum), a.n)
	}
	if len(dst) != a.n {
		return lengthError("output", len(dst), a.n)
	}

	return fft.InverseReal(a.tr, dst, a.scratch, spectrum)
}

// Amplitude writes |X[k]| into dst.
func (a *Analyzer) Amplitude(dst []float64, spectrum []complex128) error {
	if err := a.checkBins(dst, spectrum); err != nil {
		return err
	}

	split(spectrum, a.re, a.im)
	vecmath.Magnitude(dst, a.re, a.im)

	return nil
}

// Power writes |X[k]|^2 into dst.
func (a *Analyzer) Power(dst []float64, spectrum []complex128) error {
	if err := a.checkBins(dst, spectrum); err != nil {
		return err
	}

	split(spectrum, a.re, a.im)
	vecmath.Power(dst, a.re, a.im)

	return nil
}

// Phase writes atan2(im, re) into dst, in (-pi, pi].
func (a *Analyzer) Phase(dst []float64, spectrum []complex128) error {
	if err := a.checkBins(dst, spectrum); err != nil {
		return err
	}

	phaseInto(dst, spectrum)

	return nil
}

// Reconstruct rebuilds dst from amplitude and phase spectra.
func (a *Analyzer) Reconstruct(dst []complex128, amp, phase []float64) error {
	if len(amp) != a.n || len(phase) != a.n {
		return lengthError("amplitude/phase", len(amp)+len(phase), 2*a.n)
	}
	if len(dst) != a.n {
		return lengthError("spectrum", len(dst), a.n)
	}

	reconstructInto(dst, amp, phase)

	return nil
}

func (a *Analyzer) checkBins(dst []float64, spectrum []complex128) error {
	if len(spectrum) != a.n {
		return lengthError("spectrum", len(spectrum), a.n)
	}
	if len(dst) != a.n {
		return lengthError("output", len(dst), a.n)
	}
	return nil
}
