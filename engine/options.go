package engine

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-effector/dsp/cepstrum"
	"github.com/cwbudde/algo-effector/dsp/codec"
	"github.com/cwbudde/algo-effector/dsp/core"
	"github.com/cwbudde/algo-effector/dsp/effectchain"
	"github.com/cwbudde/algo-effector/dsp/fft"
	"github.com/cwbudde/algo-effector/dsp/window"
)

// Defaults for a new Engine.
const (
	DefaultAnalysisBlocks = 8
	DefaultPitchMinHz     = 60.0
	DefaultPitchMaxHz     = 1000.0
)

// Option configures an Engine.
type Option func(*config) error

type config struct {
	proc           core.ProcessorConfig
	analysisBlocks int
	sampleKind     codec.SampleKind
	monoChannel    codec.Channel
	state          effectchain.State
	controls       *effectchain.Controls
	window         window.Type
	backend        fft.Backend
	cepstrumFloor  float64
	sweepCycles    int
	interval       time.Duration
	intervalSet    bool
	preEmphasis    float64
	pitchMinHz     float64
	pitchMaxHz     float64
	logger         *logrus.Entry
	clock          Clock
}

func defaultConfig() config {
	return config{
		proc:           core.DefaultProcessorConfig(),
		analysisBlocks: DefaultAnalysisBlocks,
		sampleKind:     codec.SampleInt16,
		monoChannel:    codec.ChannelRight,
		state:          effectchain.DefaultState(),
		window:         window.TypeHann,
		backend:        fft.DefaultBackend,
		cepstrumFloor:  cepstrum.DefaultFloor,
		pitchMinHz:     DefaultPitchMinHz,
		pitchMaxHz:     DefaultPitchMaxHz,
		clock:          realClock{},
	}
}

// tickInterval is the real-time budget of one block unless overridden.
func (c config) tickInterval() time.Duration {
	if c.intervalSet {
		return c.interval
	}
	return time.Duration(float64(c.proc.BlockSize) / c.proc.SampleRate * float64(time.Second))
}

func (c config) analysisSize() int {
	return c.proc.BlockSize * c.analysisBlocks
}

func (c config) validate() error {
	if c.monoChannel < 0 || (c.proc.Channels > 1 && int(c.monoChannel) >= c.proc.Channels) {
		return fmt.Errorf("engine: mono channel %d out of range for %d channels", c.monoChannel, c.proc.Channels)
	}
	if c.proc.BlockSize%2 != 0 {
		return fmt.Errorf("engine: chunk size must be even: %d", c.proc.BlockSize)
	}
	if c.pitchMaxHz <= c.pitchMinHz {
		return fmt.Errorf("engine: pitch range [%v, %v] is empty", c.pitchMinHz, c.pitchMaxHz)
	}
	return nil
}

// WithSampleRate sets the stream sample rate in Hz.
func WithSampleRate(sampleRate float64) Option {
	return func(c *config) error {
		if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
			return fmt.Errorf("engine: sample rate must be > 0: %v", sampleRate)
		}
		core.WithSampleRate(sampleRate)(&c.proc)
		return nil
	}
}

// WithChunk sets the block length in frames.
func WithChunk(frames int) Option {
	return func(c *config) error {
		if frames <= 0 {
			return fmt.Errorf("engine: chunk must be > 0: %d", frames)
		}
		core.WithBlockSize(frames)(&c.proc)
		return nil
	}
}

// WithChannels sets the interleaved channel count of the stream.
func WithChannels(channels int) Option {
	return func(c *config) error {
		if channels <= 0 {
			return fmt.Errorf("engine: channels must be > 0: %d", channels)
		}
		core.WithChannels(channels)(&c.proc)
		return nil
	}
}

// WithAnalysisBlocks sets the analysis window length as a multiple of the
// chunk.
func WithAnalysisBlocks(blocks int) Option {
	return func(c *config) error {
		if blocks <= 0 {
			return fmt.Errorf("engine: analysis blocks must be > 0: %d", blocks)
		}
		c.analysisBlocks = blocks
		return nil
	}
}

// WithSampleKind selects the raw sample encoding of the stream.
func WithSampleKind(kind codec.SampleKind) Option {
	return func(c *config) error {
		if kind != codec.SampleInt16 && kind != codec.SampleFloat32 {
			return fmt.Errorf("engine: unsupported sample kind %v", kind)
		}
		c.sampleKind = kind
		return nil
	}
}

// WithMonoChannel selects which input channel is processed.
func WithMonoChannel(ch codec.Channel) Option {
	return func(c *config) error {
		c.monoChannel = ch
		return nil
	}
}

// WithInitialState sets the effect parameters the engine starts with. It is
// ignored when WithControls is also given.
func WithInitialState(s effectchain.State) Option {
	return func(c *config) error {
		c.state = s
		return nil
	}
}

// WithControls shares an existing control surface with the engine.
func WithControls(ctrl *effectchain.Controls) Option {
	return func(c *config) error {
		c.controls = ctrl
		return nil
	}
}

// WithWindow selects the analysis window function.
func WithWindow(t window.Type) Option {
	return func(c *config) error {
		if _, err := window.ParseType(t.String()); err != nil {
			return fmt.Errorf("engine: %w", err)
		}
		c.window = t
		return nil
	}
}

// WithBackend selects the FFT backend for analysis and the phaser.
func WithBackend(b fft.Backend) Option {
	return func(c *config) error {
		parsed, err := fft.ParseBackend(string(b))
		if err != nil {
			return fmt.Errorf("engine: %w", err)
		}
		c.backend = parsed
		return nil
	}
}

// WithCepstrumFloor sets the linear power floor applied before the cepstral
// log.
func WithCepstrumFloor(floor float64) Option {
	return func(c *config) error {
		if floor <= 0 || math.IsNaN(floor) || math.IsInf(floor, 0) {
			return fmt.Errorf("engine: cepstrum floor must be > 0: %v", floor)
		}
		c.cepstrumFloor = floor
		return nil
	}
}

// WithPhaserSweepCycles sets the phaser sweep period in cycles.
func WithPhaserSweepCycles(cycles int) Option {
	return func(c *config) error {
		if cycles < 1 {
			return fmt.Errorf("engine: phaser sweep cycles must be >= 1: %d", cycles)
		}
		c.sweepCycles = cycles
		return nil
	}
}

// WithInterval overrides the cycle period used by Run. Zero runs cycles back
// to back, which suits file processing.
func WithInterval(d time.Duration) Option {
	return func(c *config) error {
		if d < 0 {
			return fmt.Errorf("engine: interval must be >= 0: %v", d)
		}
		c.interval = d
		c.intervalSet = true
		return nil
	}
}

// WithPreEmphasis enables y[n] = x[n] - alpha*x[n-1] on the analysis window
// before windowing. Zero disables it.
func WithPreEmphasis(alpha float64) Option {
	return func(c *config) error {
		if alpha < 0 || alpha >= 1 || math.IsNaN(alpha) {
			return fmt.Errorf("engine: pre-emphasis must be in [0, 1): %v", alpha)
		}
		c.preEmphasis = alpha
		return nil
	}
}

// WithPitchRange bounds the cepstral pitch search in Hz.
func WithPitchRange(minHz, maxHz float64) Option {
	return func(c *config) error {
		if minHz <= 0 || maxHz <= minHz || math.IsInf(maxHz, 0) {
			return fmt.Errorf("engine: invalid pitch range [%v, %v]", minHz, maxHz)
		}
		c.pitchMinHz = minHz
		c.pitchMaxHz = maxHz
		return nil
	}
}

// WithLogger sets the log entry used by the engine.
func WithLogger(entry *logrus.Entry) Option {
	return func(c *config) error {
		c.logger = entry
		return nil
	}
}

// WithClock replaces the wall clock used for cycle timing and pacing.
func WithClock(clock Clock) Option {
	return func(c *config) error {
		if clock == nil {
			return errors.New("engine: nil clock")
		}
		c.clock = clock
		return nil
	}
}
