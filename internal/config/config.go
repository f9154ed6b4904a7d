// Package config loads effector settings from YAML and turns them into engine
// options.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-effector/dsp/cepstrum"
	"github.com/cwbudde/algo-effector/dsp/codec"
	"github.com/cwbudde/algo-effector/dsp/core"
	"github.com/cwbudde/algo-effector/dsp/effectchain"
	"github.com/cwbudde/algo-effector/dsp/effects"
	"github.com/cwbudde/algo-effector/dsp/fft"
	"github.com/cwbudde/algo-effector/dsp/signal"
	"github.com/cwbudde/algo-effector/dsp/window"
	"github.com/cwbudde/algo-effector/engine"
)

// Config is the complete file configuration.
type Config struct {
	Stream   Stream            `yaml:"stream"`
	Analysis Analysis          `yaml:"analysis"`
	Engine   Engine            `yaml:"engine"`
	Effects  effectchain.State `yaml:"effects"`
	Signal   Signal            `yaml:"signal"`
	Log      Log               `yaml:"log"`
}

// Stream describes the raw frame format.
type Stream struct {
	SampleRate  float64 `yaml:"sample_rate"`
	Chunk       int     `yaml:"chunk"`
	Channels    int     `yaml:"channels"`
	SampleKind  string  `yaml:"sample_kind"`  // int16 | float32
	MonoChannel string  `yaml:"mono_channel"` // left | right
}

// Analysis configures the spectral and cepstral chain.
type Analysis struct {
	Blocks        int     `yaml:"blocks"`
	Window        string  `yaml:"window"`
	Backend       string  `yaml:"backend"`
	CepstrumFloor float64 `yaml:"cepstrum_floor"`
	PreEmphasis   float64 `yaml:"pre_emphasis"`
	PitchMinHz    float64 `yaml:"pitch_min_hz"`
	PitchMaxHz    float64 `yaml:"pitch_max_hz"`
}

// Engine configures cycle pacing.
type Engine struct {
	// Interval overrides the real-time tick; nil derives it from chunk and
	// sample rate, 0 runs back to back.
	Interval          *time.Duration `yaml:"interval"`
	PhaserSweepCycles int            `yaml:"phaser_sweep_cycles"`
}

// Signal configures the built-in test-signal source.
type Signal struct {
	Kind      string  `yaml:"kind"`
	Frequency float64 `yaml:"frequency"`
	Amplitude float64 `yaml:"amplitude"` // int16 units
	Blocks    int     `yaml:"blocks"`    // 0 = unbounded
	Seed      int64   `yaml:"seed"`
}

// Log configures logrus.
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text | json
}

// Default returns the built-in configuration.
func Default() Config {
	proc := core.DefaultProcessorConfig()

	return Config{
		Stream: Stream{
			SampleRate:  proc.SampleRate,
			Chunk:       proc.BlockSize,
			Channels:    proc.Channels,
			SampleKind:  codec.SampleInt16.String(),
			MonoChannel: "right",
		},
		Analysis: Analysis{
			Blocks:        engine.DefaultAnalysisBlocks,
			Window:        window.TypeHann.String(),
			Backend:       string(fft.DefaultBackend),
			CepstrumFloor: cepstrum.DefaultFloor,
			PitchMinHz:    engine.DefaultPitchMinHz,
			PitchMaxHz:    engine.DefaultPitchMaxHz,
		},
		Engine: Engine{
			PhaserSweepCycles: effects.DefaultPhaserSweepCycles,
		},
		Effects: effectchain.DefaultState(),
		Signal: Signal{
			Kind:      signal.KindSine.String(),
			Frequency: 440,
			Amplitude: 0.25 * core.MaxLevel,
			Seed:      1,
		},
		Log: Log{
			Level:  logrus.InfoLevel.String(),
			Format: "text",
		},
	}
}

// Load reads path and overlays it on Default.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}

	return cfg, nil
}

// Parse decodes YAML over Default and validates the result. Unknown keys are
// rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks every field that the engine would otherwise reject later.
func (c Config) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("config: "+format, args...))
	}

	s := c.Stream
	if !(s.SampleRate > 0) || math.IsInf(s.SampleRate, 0) {
		add("stream.sample_rate must be > 0: %v", s.SampleRate)
	}
	if s.Chunk <= 0 || s.Chunk%2 != 0 {
		add("stream.chunk must be a positive even number: %d", s.Chunk)
	}
	if s.Channels <= 0 {
		add("stream.channels must be > 0: %d", s.Channels)
	}
	if _, err := codec.ParseSampleKind(s.SampleKind); err != nil {
		errs = append(errs, err)
	}
	if ch, err := ParseChannel(s.MonoChannel); err != nil {
		errs = append(errs, err)
	} else if s.Channels > 1 && int(ch) >= s.Channels {
		add("stream.mono_channel %q needs at least %d channels", s.MonoChannel, int(ch)+1)
	}

	a := c.Analysis
	if a.Blocks <= 0 {
		add("analysis.blocks must be > 0: %d", a.Blocks)
	}
	if _, err := window.ParseType(a.Window); err != nil {
		errs = append(errs, err)
	}
	if _, err := fft.ParseBackend(a.Backend); err != nil {
		errs = append(errs, err)
	}
	if !(a.CepstrumFloor > 0) || math.IsInf(a.CepstrumFloor, 0) {
		add("analysis.cepstrum_floor must be > 0: %v", a.CepstrumFloor)
	}
	if !(a.PreEmphasis >= 0 && a.PreEmphasis < 1) {
		add("analysis.pre_emphasis must be in [0, 1): %v", a.PreEmphasis)
	}
	if !(a.PitchMinHz > 0) || !(a.PitchMaxHz > a.PitchMinHz) || math.IsInf(a.PitchMaxHz, 0) {
		add("analysis pitch range [%v, %v] is invalid", a.PitchMinHz, a.PitchMaxHz)
	}

	if d := c.Engine.Interval; d != nil && *d < 0 {
		add("engine.interval must be >= 0: %v", *d)
	}
	if c.Engine.PhaserSweepCycles < 1 {
		add("engine.phaser_sweep_cycles must be >= 1: %d", c.Engine.PhaserSweepCycles)
	}

	if _, err := signal.ParseKind(c.Signal.Kind); err != nil {
		errs = append(errs, err)
	}

	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		add("log.level: %w", err)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		add("log.format must be text or json: %q", c.Log.Format)
	}

	return errors.Join(errs...)
}

// ParseChannel resolves "left"/"0" and "right"/"1".
func ParseChannel(name string) (codec.Channel, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "left", "l", "0":
		return codec.ChannelLeft, nil
	case "right", "r", "1", "":
		return codec.ChannelRight, nil
	default:
		return codec.ChannelRight, fmt.Errorf("config: unknown channel %q", name)
	}
}

// Format returns the raw frame format of the stream.
func (c Config) Format() (codec.Format, error) {
	kind, err := codec.ParseSampleKind(c.Stream.SampleKind)
	if err != nil {
		return codec.Format{}, err
	}
	return codec.Format{Kind: kind, Channels: c.Stream.Channels}, nil
}

// EngineOptions converts c into engine options. The caller adds the logger.
func (c Config) EngineOptions() ([]engine.Option, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	kind, _ := codec.ParseSampleKind(c.Stream.SampleKind)
	ch, _ := ParseChannel(c.Stream.MonoChannel)
	win, _ := window.ParseType(c.Analysis.Window)
	backend, _ := fft.ParseBackend(c.Analysis.Backend)

	opts := []engine.Option{
		engine.WithSampleRate(c.Stream.SampleRate),
		engine.WithChunk(c.Stream.Chunk),
		engine.WithChannels(c.Stream.Channels),
		engine.WithSampleKind(kind),
		engine.WithMonoChannel(ch),
		engine.WithAnalysisBlocks(c.Analysis.Blocks),
		engine.WithWindow(win),
		engine.WithBackend(backend),
		engine.WithCepstrumFloor(c.Analysis.CepstrumFloor),
		engine.WithPreEmphasis(c.Analysis.PreEmphasis),
		engine.WithPitchRange(c.Analysis.PitchMinHz, c.Analysis.PitchMaxHz),
		engine.WithPhaserSweepCycles(c.Engine.PhaserSweepCycles),
		engine.WithInitialState(c.Effects.Sanitized(effectchain.DefaultState())),
	}
	if c.Engine.Interval != nil {
		opts = append(opts, engine.WithInterval(*c.Engine.Interval))
	}

	return opts, nil
}

// Generator builds the test-signal generator described by c.Signal.
func (c Config) Generator() (*signal.Generator, error) {
	kind, err := signal.ParseKind(c.Signal.Kind)
	if err != nil {
		return nil, err
	}

	return signal.NewGenerator(kind,
		[]core.ProcessorOption{
			core.WithSampleRate(c.Stream.SampleRate),
			core.WithBlockSize(c.Stream.Chunk),
			core.WithChannels(c.Stream.Channels),
		},
		signal.WithFrequency(c.Signal.Frequency),
		signal.WithAmplitude(c.Signal.Amplitude),
		signal.WithSeed(c.Signal.Seed),
	)
}

// ConfigureLogger applies c.Log to logger.
func (c Config) ConfigureLogger(logger *logrus.Logger, colors bool) error {
	level, err := logrus.ParseLevel(c.Log.Level)
	if err != nil {
		return fmt.Errorf("config: log.level: %w", err)
	}
	logger.SetLevel(level)

	if c.Log.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			ForceColors:   colors,
			DisableColors: !colors,
			FullTimestamp: true,
		})
	}

	return nil
}
