package effects

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-effector/dsp/fft"
	"github.com/cwbudde/algo-effector/dsp/spectrum"
)

const (
	// phaserDepth scales the shift control into radians of phase offset.
	phaserDepth = 200 * math.Pi

	// DefaultPhaserSweepCycles makes one sweep last about a second at
	// 44.1 kHz with 1024-sample blocks.
	DefaultPhaserSweepCycles = 43
)

// PhaserOption mutates phaser construction parameters.
type PhaserOption func(*phaserConfig) error

type phaserConfig struct {
	backend     fft.Backend
	sweepCycles uint64
}

// WithPhaserBackend selects the FFT backend.
func WithPhaserBackend(b fft.Backend) PhaserOption {
	return func(cfg *phaserConfig) error {
		if _, err := fft.ParseBackend(string(b)); err != nil {
			return fmt.Errorf("phaser: %w", err)
		}
		if b != "" {
			cfg.backend = b
		}
		return nil
	}
}

// WithPhaserSweepCycles sets how many cycles one sweep of the counter-driven
// phase offset spans. One disables the sweep.
func WithPhaserSweepCycles(cycles int) PhaserOption {
	return func(cfg *phaserConfig) error {
		if cycles < 1 {
			return fmt.Errorf("phaser sweep cycles must be >= 1: %d", cycles)
		}
		cfg.sweepCycles = uint64(cycles)
		return nil
	}
}

// Phaser is a block-based spectral phaser. Each block is transformed, every
// bin's phase is advanced by a triangular profile over frequency plus a
// sweep driven by the cycle counter, and the re-synthesised block is mixed
// 50/50 with the input.
//
// This processor is mono, fixed-size, and not thread-safe.
type Phaser struct {
	n           int
	sweepCycles uint64

	analyzer *spectrum.Analyzer
	profile  []float64

	spec  []complex128
	amp   []float64
	phase []float64
	wet   []float64
}

// NewPhaser returns a Phaser for blocks of blockSize samples. blockSize must
// be even.
func NewPhaser(blockSize int, opts ...PhaserOption) (*Phaser, error) {
	if blockSize < 2 || blockSize%2 != 0 {
		return nil, fmt.Errorf("phaser block size must be even and >= 2: %d", blockSize)
	}

	cfg := phaserConfig{backend: fft.DefaultBackend, sweepCycles: DefaultPhaserSweepCycles}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	a, err := spectrum.NewAnalyzer(blockSize, spectrum.WithBackend(cfg.backend))
	if err != nil {
		return nil, fmt.Errorf("phaser: %w", err)
	}

	return &Phaser{
		n:           blockSize,
		sweepCycles: cfg.sweepCycles,
		analyzer:    a,
		profile:     triangleProfile(blockSize),
		spec:        make([]complex128, blockSize),
		amp:         make([]float64, blockSize),
		phase:       make([]float64, blockSize),
		wet:         make([]float64, blockSize),
	}, nil
}

// triangleProfile rises linearly from 0 over the first half of the bins and
// falls back towards 0 over the second half. The peak bin n/2 is 1.
func triangleProfile(n int) []float64 {
	half := n / 2
	out := make([]float64, n)
	for k := range half {
		out[k] = float64(k) / float64(half)
		out[half+k] = 1 - float64(k)/float64(half)
	}
	return out
}

// BlockSize returns the block length.
func (p *Phaser) BlockSize() int { return p.n }

// SweepCycles returns the sweep period in cycles.
func (p *Phaser) SweepCycles() int { return int(p.sweepCycles) }

// Offset returns the phase offset in [0, pi) applied to bin k for the given
// shift and counter.
func (p *Phaser) Offset(k int, shift float64, counter uint64) float64 {
	return wrapPi(phaserDepth * shift * (p.profile[k] + p.sweep(counter)))
}

func (p *Phaser) sweep(counter uint64) float64 {
	return float64(counter%p.sweepCycles) / float64(p.sweepCycles)
}

func wrapPi(x float64) float64 {
	r := math.Mod(x, math.Pi)
	if r < 0 {
		r += math.Pi
	}
	return r
}

// ProcessInPlace applies the phaser to buf.
func (p *Phaser) ProcessInPlace(buf []float64, shift float64, counter uint64) error {
	return p.Process(buf, buf, shift, counter)
}

// Process writes the phased src into dst. dst may alias src.
func (p *Phaser) Process(dst, src []float64, shift float64, counter uint64) error {
	if len(src) != p.n || len(dst) != p.n {
		return fmt.Errorf("phaser: block length src=%d dst=%d, want %d", len(src), len(dst), p.n)
	}

	if err := p.analyzer.Transform(p.spec, src, nil); err != nil {
		return err
	}
	if err := p.analyzer.Amplitude(p.amp, p.spec); err != nil {
		return err
	}
	if err := p.analyzer.Phase(p.phase, p.spec); err != nil {
		return err
	}

	for k := range p.phase {
		p.phase[k] += p.Offset(k, shift, counter)
	}

	if err := p.analyzer.Reconstruct(p.spec, p.amp, p.phase); err != nil {
		return err
	}
	if err := p.analyzer.InverseTransform(p.wet, p.spec); err != nil {
		return err
	}

	vecmath.AddBlockInPlace(p.wet, src)
	floats.ScaleTo(dst, 0.5, p.wet)

	return nil
}
