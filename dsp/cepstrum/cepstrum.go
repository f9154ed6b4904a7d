package cepstrum

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-effector/dsp/core"
	"github.com/cwbudde/algo-effector/dsp/fft"
)

// DefaultFloor is the linear power floor applied before the log (-240 dB).
const DefaultFloor = 1e-12

var (
	// ErrLength is returned when power or dst does not match the Computer length.
	ErrLength = errors.New("cepstrum: length mismatch")

	// ErrQuefrencyRange is returned by PeakQuefrency for an empty or
	// out-of-bounds search range.
	ErrQuefrencyRange = errors.New("cepstrum: invalid quefrency range")
)

// Option configures a Computer.
type Option func(*config) error

type config struct {
	floor   float64
	backend fft.Backend
}

// WithFloor sets the linear floor applied to power bins before the log.
func WithFloor(floor float64) Option {
	return func(c *config) error {
		if floor <= 0 || math.IsNaN(floor) || math.IsInf(floor, 0) {
			return fmt.Errorf("cepstrum: floor must be > 0 and finite: %v", floor)
		}
		c.floor = floor
		return nil
	}
}

// WithBackend selects the FFT backend used for the inverse transform.
func WithBackend(b fft.Backend) Option {
	return func(c *config) error {
		if _, err := fft.ParseBackend(string(b)); err != nil {
			return fmt.Errorf("cepstrum: %w", err)
		}
		if b != "" {
			c.backend = b
		}
		return nil
	}
}

// Computer turns power spectra of a fixed length into real cepstra.
// Not safe for concurrent use.
type Computer struct {
	n       int
	floor   float64
	tr      fft.Transformer
	logSpec []complex128
	scratch []complex128
}

// New returns a Computer for spectra of length n.
func New(n int, opts ...Option) (*Computer, error) {
	cfg := config{floor: DefaultFloor, backend: fft.DefaultBackend}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	tr, err := fft.New(cfg.backend, n)
	if err != nil {
		return nil, fmt.Errorf("cepstrum: %w", err)
	}

	return &Computer{
		n:       n,
		floor:   cfg.floor,
		tr:      tr,
		logSpec: make([]complex128, n),
		scratch: make([]complex128, n),
	}, nil
}

// Len returns the spectrum length.
func (c *Computer) Len() int {
	return c.n
}

// Floor returns the linear power floor.
func (c *Computer) Floor() float64 {
	return c.floor
}

// Compute writes real(IFFT(20*log10(max(power, floor)))) into dst.
func (c *Computer) Compute(dst, power []float64) error {
	if len(power) != c.n || len(dst) != c.n {
		return fmt.Errorf("%w: power %d, dst %d, want %d", ErrLength, len(power), len(dst), c.n)
	}

	for i, p := range power {
		c.logSpec[i] = complex(core.LinearToDBFloor(p, c.floor), 0)
	}

	return fft.InverseReal(c.tr, dst, c.scratch, c.logSpec)
}

// PeakQuefrency returns the index in [minQ, maxQ) holding the largest
// cepstral value. Ties resolve to the lowest index.
func PeakQuefrency(cepstrum []float64, minQ, maxQ int) (int, error) {
	if minQ < 0 || maxQ > len(cepstrum) || minQ >= maxQ {
		return 0, fmt.Errorf("%w: [%d, %d) of %d", ErrQuefrencyRange, minQ, maxQ, len(cepstrum))
	}

	return minQ + floats.MaxIdx(cepstrum[minQ:maxQ]), nil
}

// PitchRange converts a fundamental frequency range in Hz to the quefrency
// search range [minQ, maxQ) for PeakQuefrency, clipped to n/2.
func PitchRange(sampleRate, minHz, maxHz float64, n int) (minQ, maxQ int) {
	if sampleRate <= 0 || minHz <= 0 || maxHz <= minHz || n <= 0 {
		return 0, 0
	}

	minQ = int(math.Floor(sampleRate / maxHz))
	maxQ = int(math.Ceil(sampleRate/minHz)) + 1
	if maxQ > n/2 {
		maxQ = n / 2
	}
	if minQ < 1 {
		minQ = 1
	}

	return minQ, maxQ
}
