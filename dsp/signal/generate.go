// Package signal generates deterministic test signals block by block, with
// phase continuity across blocks.
package signal

import (
	"fmt"
	"math"
	"math/rand"
	"strings"

	"github.com/cwbudde/algo-effector/dsp/core"
)

// Kind selects the generated waveform.
type Kind int

const (
	KindSilence Kind = iota
	KindSine
	KindSquare
	KindNoise
)

var kindNames = map[Kind]string{
	KindSilence: "silence",
	KindSine:    "sine",
	KindSquare:  "square",
	KindNoise:   "noise",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind resolves a waveform name.
func ParseKind(name string) (Kind, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for k, s := range kindNames {
		if s == n {
			return k, nil
		}
	}
	return KindSilence, fmt.Errorf("signal: unknown waveform %q", name)
}

// Generator produces consecutive blocks of one waveform.
// Not safe for concurrent use.
type Generator struct {
	cfg       core.ProcessorConfig
	kind      Kind
	freqHz    float64
	amplitude float64
	seed      int64

	phase float64
	rng   *rand.Rand
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed sets the noise seed.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// WithFrequency sets the oscillator frequency in Hz.
func WithFrequency(freqHz float64) Option {
	return func(g *Generator) {
		if freqHz > 0 && !math.IsInf(freqHz, 0) {
			g.freqHz = freqHz
		}
	}
}

// WithAmplitude sets the peak amplitude in the caller's sample units.
func WithAmplitude(amplitude float64) Option {
	return func(g *Generator) {
		if amplitude >= 0 && !math.IsInf(amplitude, 0) {
			g.amplitude = amplitude
		}
	}
}

// NewGenerator creates a generator for kind. Defaults: 440 Hz, amplitude 1,
// seed 1.
func NewGenerator(kind Kind, coreOpts []core.ProcessorOption, opts ...Option) (*Generator, error) {
	if _, ok := kindNames[kind]; !ok {
		return nil, fmt.Errorf("signal: invalid waveform: %d", int(kind))
	}

	g := &Generator{
		cfg:       core.ApplyProcessorOptions(coreOpts...),
		kind:      kind,
		freqHz:    440,
		amplitude: 1,
		seed:      1,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	if g.cfg.SampleRate <= 0 {
		return nil, fmt.Errorf("signal: sample rate must be > 0: %f", g.cfg.SampleRate)
	}
	g.rng = rand.New(rand.NewSource(g.seed))

	return g, nil
}

// Config returns the generator processor configuration.
func (g *Generator) Config() core.ProcessorConfig {
	return g.cfg
}

// Kind returns the waveform.
func (g *Generator) Kind() Kind {
	return g.kind
}

// Fill writes the next len(dst) samples into dst.
func (g *Generator) Fill(dst []float64) {
	step := 2 * math.Pi * g.freqHz / g.cfg.SampleRate

	switch g.kind {
	case KindSine:
		for i := range dst {
			dst[i] = g.amplitude * math.Sin(g.phase)
			g.advance(step)
		}
	case KindSquare:
		for i := range dst {
			if g.phase < math.Pi {
				dst[i] = g.amplitude
			} else {
				dst[i] = -g.amplitude
			}
			g.advance(step)
		}
	case KindNoise:
		for i := range dst {
			dst[i] = (g.rng.Float64()*2 - 1) * g.amplitude
		}
	default:
		clear(dst)
	}
}

func (g *Generator) advance(step float64) {
	g.phase += step
	if g.phase >= 2*math.Pi {
		g.phase = math.Mod(g.phase, 2*math.Pi)
	}
}

// Reset restarts the oscillator phase and noise sequence.
func (g *Generator) Reset() {
	g.phase = 0
	g.rng = rand.New(rand.NewSource(g.seed))
}
