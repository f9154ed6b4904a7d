package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-effector/dsp/buffer"
	"github.com/cwbudde/algo-effector/dsp/cepstrum"
	"github.com/cwbudde/algo-effector/dsp/codec"
	"github.com/cwbudde/algo-effector/dsp/core"
	"github.com/cwbudde/algo-effector/dsp/effectchain"
	"github.com/cwbudde/algo-effector/dsp/filter/fir"
	"github.com/cwbudde/algo-effector/dsp/spectrum"
	"github.com/cwbudde/algo-effector/dsp/window"
	"github.com/cwbudde/algo-effector/stats/frequency"
	timestats "github.com/cwbudde/algo-effector/stats/time"
)

// Counters are cumulative engine statistics.
type Counters struct {
	Cycles     uint64 // cycles that reached Analyzing
	Dropped    uint64 // blocks rejected as malformed
	ShortReads uint64 // blocks padded with silence
	Overruns   uint64 // cycles that exceeded the tick interval
}

// Engine runs the effect and analysis cycle over one Stream. Cycle and Run
// must be called from a single goroutine; Latest, State, Counters and the
// Controls setters are safe to use concurrently.
type Engine struct {
	cfg      config
	log      *logrus.Entry
	stream   Stream
	codec    *codec.Codec
	controls *effectchain.Controls
	chain    *effectchain.Chain

	ring        *buffer.Ring
	coeffs      []float64
	analyzer    *spectrum.Analyzer
	cepstrum    *cepstrum.Computer
	preEmphasis *fir.Filter
	session     *timestats.Session
	freqs       []float64
	pitchMinQ   int
	pitchMaxQ   int

	interleaved []float64
	mono        []float64
	upmixed     []float64
	windowBuf   []float64
	spec        []complex128

	state      atomic.Int32
	latest     atomic.Pointer[Snapshot]
	cycles     atomic.Uint64
	dropped    atomic.Uint64
	shortReads atomic.Uint64
	overruns   atomic.Uint64

	closeOnce sync.Once
	closeErr  error
}

// New builds an Engine around stream. The engine takes ownership of the
// stream and closes it on Close, on fatal errors and when Run returns.
func New(stream Stream, opts ...Option) (*Engine, error) {
	if stream == nil {
		return nil, errors.New("engine: nil stream")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	log := cfg.logger
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	log = log.WithField("component", "engine")

	chunk := cfg.proc.BlockSize
	channels := cfg.proc.Channels
	n := cfg.analysisSize()

	cd, err := codec.New(codec.Format{Kind: cfg.sampleKind, Channels: channels})
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}

	chain, err := effectchain.New(effectchain.Context{
		SampleRate:  cfg.proc.SampleRate,
		BlockSize:   chunk,
		Backend:     cfg.backend,
		SweepCycles: cfg.sweepCycles,
	})
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}

	ring, err := buffer.NewRing(chunk, cfg.analysisBlocks)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}

	analyzer, err := spectrum.NewAnalyzer(n, spectrum.WithBackend(cfg.backend))
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}

	ceps, err := cepstrum.New(n, cepstrum.WithFloor(cfg.cepstrumFloor), cepstrum.WithBackend(cfg.backend))
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}

	var pre *fir.Filter
	if cfg.preEmphasis > 0 {
		if pre, err = fir.NewPreEmphasis(cfg.preEmphasis); err != nil {
			return nil, fmt.Errorf("engine: %w", err)
		}
	}

	controls := cfg.controls
	if controls == nil {
		controls = effectchain.NewControls(cfg.state)
	}

	minQ, maxQ := cepstrum.PitchRange(cfg.proc.SampleRate, cfg.pitchMinHz, cfg.pitchMaxHz, n)

	e := &Engine{
		cfg:         cfg,
		log:         log,
		stream:      stream,
		codec:       cd,
		controls:    controls,
		chain:       chain,
		ring:        ring,
		coeffs:      window.Generate(cfg.window, n),
		analyzer:    analyzer,
		cepstrum:    ceps,
		preEmphasis: pre,
		session:     timestats.NewSession(core.MaxLevel, core.MaxInt16Sample),
		freqs:       spectrum.BinFrequencies(n, cfg.proc.SampleRate),
		pitchMinQ:   minQ,
		pitchMaxQ:   maxQ,
		interleaved: make([]float64, chunk*channels),
		mono:        make([]float64, chunk),
		upmixed:     make([]float64, chunk*channels),
		windowBuf:   make([]float64, n),
		spec:        make([]complex128, n),
	}

	log.WithFields(logrus.Fields{
		"function":      "New",
		"sample_rate":   cfg.proc.SampleRate,
		"chunk":         chunk,
		"channels":      channels,
		"analysis_size": n,
		"sample_kind":   cfg.sampleKind.String(),
		"window":        cfg.window.String(),
		"backend":       string(cfg.backend),
		"interval":      cfg.tickInterval().String(),
	}).Debug("Engine created")

	return e, nil
}

// Controls returns the control surface read by the chain every cycle.
func (e *Engine) Controls() *effectchain.Controls {
	return e.controls
}

// Format returns the raw stream format.
func (e *Engine) Format() codec.Format {
	return e.codec.Format()
}

// Chunk returns the block length in frames.
func (e *Engine) Chunk() int {
	return e.cfg.proc.BlockSize
}

// AnalysisSize returns the analysis window length in samples.
func (e *Engine) AnalysisSize() int {
	return e.cfg.analysisSize()
}

// Interval returns the cycle period used by Run.
func (e *Engine) Interval() time.Duration {
	return e.cfg.tickInterval()
}

// State returns the current cycle phase.
func (e *Engine) State() State {
	return State(e.state.Load())
}

func (e *Engine) setState(s State) {
	for {
		cur := e.state.Load()
		if State(cur) == StateClosed || e.state.CompareAndSwap(cur, int32(s)) {
			return
		}
	}
}

// Latest returns the most recently published snapshot, or nil before the
// first completed cycle.
func (e *Engine) Latest() *Snapshot {
	return e.latest.Load()
}

// Counters returns a copy of the cumulative statistics.
func (e *Engine) Counters() Counters {
	return Counters{
		Cycles:     e.cycles.Load(),
		Dropped:    e.dropped.Load(),
		ShortReads: e.shortReads.Load(),
		Overruns:   e.overruns.Load(),
	}
}

// Close releases the stream. It is safe to call more than once and returns
// the first close error on every call.
func (e *Engine) Close() error {
	e.closeOnce.Do(func() {
		e.state.Store(int32(StateClosed))
		e.closeErr = e.stream.Close()

		e.log.WithFields(logrus.Fields{
			"function": "Close",
			"cycles":   e.cycles.Load(),
			"dropped":  e.dropped.Load(),
			"overruns": e.overruns.Load(),
		}).Info("Engine closed")
	})

	return e.closeErr
}

// Cycle runs one read, process, write and analyze pass. A malformed block
// ends the cycle early and returns nil. Stream errors and contract
// violations close the engine and are returned.
func (e *Engine) Cycle(ctx context.Context) error {
	if e.State() == StateClosed {
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	clock := e.cfg.clock
	start := clock.Now()
	var t Timings

	e.setState(StateReading)
	raw, err := e.stream.Read(e.cfg.proc.BlockSize)
	if err != nil {
		return e.fail("Cycle", streamError("read block", err))
	}
	mark := clock.Now()
	t.Read = mark.Sub(start)

	e.setState(StateProcessing)
	ok, err := e.process(raw)
	if err != nil {
		return e.fail("Cycle", err)
	}
	if !ok {
		e.setState(StateIdle)
		return nil
	}
	now := clock.Now()
	t.Process, mark = now.Sub(mark), now

	e.setState(StateWriting)
	if err := e.write(); err != nil {
		return e.fail("Cycle", err)
	}
	now = clock.Now()
	t.Write, mark = now.Sub(mark), now

	e.setState(StateAnalyzing)
	snap, err := e.analyze()
	if err != nil {
		return e.fail("Cycle", err)
	}
	now = clock.Now()
	t.Analyze = now.Sub(mark)
	t.Total = now.Sub(start)

	snap.Cycle = e.cycles.Add(1)
	snap.Counter = e.chain.Counter()
	snap.Timings = t
	e.latest.Store(snap)

	e.setState(StateIdle)

	e.log.WithFields(logrus.Fields{
		"function": "Cycle",
		"cycle":    snap.Cycle,
		"elapsed":  t.Total.String(),
	}).Debug("Cycle complete")

	return nil
}

func (e *Engine) fail(function string, err error) error {
	entry := e.log.WithFields(logrus.Fields{
		"function": function,
		"error":    err.Error(),
	})
	if errors.Is(err, ErrStreamClosed) {
		entry.Debug("Stream ended, closing")
	} else {
		entry.Error("Fatal engine error, closing stream")
	}

	if cerr := e.Close(); cerr != nil {
		e.log.WithFields(logrus.Fields{
			"function": function,
			"error":    cerr.Error(),
		}).Warn("Stream close failed")
	}

	return err
}

// process decodes raw into e.mono and runs the chain. It reports false when
// the block was dropped.
func (e *Engine) process(raw []byte) (bool, error) {
	chunk := e.cfg.proc.BlockSize
	channels := e.cfg.proc.Channels
	full := chunk * channels

	samples, err := e.codec.Decode(e.interleaved[:0], raw)
	if err == nil && len(samples) > full {
		err = fmt.Errorf("%w: read %d frames, want at most %d", codec.ErrFormat, len(samples)/channels, chunk)
	}
	if err != nil {
		if errors.Is(err, codec.ErrFormat) {
			e.dropped.Add(1)
			e.log.WithFields(logrus.Fields{
				"function": "process",
				"bytes":    len(raw),
				"error":    err.Error(),
			}).Warn("Dropping malformed block")
			return false, nil
		}
		return false, contractError("decode", err)
	}

	if n := len(samples); n < full {
		e.shortReads.Add(1)
		samples = e.interleaved[:full]
		clear(samples[n:])
	}

	mono, err := codec.Downmix(e.mono[:0], samples, channels, e.cfg.monoChannel)
	if err != nil {
		return false, contractError("downmix", err)
	}
	e.mono = mono

	if err := e.chain.Process(e.mono, e.controls.Load()); err != nil {
		return false, contractError("effect chain", err)
	}

	return true, nil
}

func (e *Engine) write() error {
	out, err := codec.Upmix(e.upmixed[:0], e.mono, e.cfg.proc.Channels)
	if err != nil {
		return contractError("upmix", err)
	}
	e.upmixed = out

	if err := e.stream.Write(e.codec.Encode(out)); err != nil {
		return streamError("write block", err)
	}

	e.session.Update(e.mono)

	return nil
}

func (e *Engine) analyze() (*Snapshot, error) {
	if err := e.ring.Push(e.mono); err != nil {
		return nil, contractError("analysis window", err)
	}
	e.ring.CopyTo(e.windowBuf)

	if e.preEmphasis != nil {
		e.preEmphasis.Reset()
		e.preEmphasis.ProcessBlock(e.windowBuf)
	}

	if err := e.analyzer.Transform(e.spec, e.windowBuf, e.coeffs); err != nil {
		return nil, contractError("transform", err)
	}

	n := len(e.spec)
	snap := &Snapshot{
		Block:       make([]float64, len(e.mono)),
		Frequencies: e.freqs,
		Amplitude:   make([]float64, n),
		Power:       make([]float64, n),
		Phase:       make([]float64, n),
		Cepstrum:    make([]float64, n),
	}

	floats.ScaleTo(snap.Block, 1/core.MaxLevel, e.mono)

	if err := e.analyzer.Amplitude(snap.Amplitude, e.spec); err != nil {
		return nil, contractError("amplitude", err)
	}
	if err := e.analyzer.Power(snap.Power, e.spec); err != nil {
		return nil, contractError("power", err)
	}
	if err := e.analyzer.Phase(snap.Phase, e.spec); err != nil {
		return nil, contractError("phase", err)
	}
	if err := e.cepstrum.Compute(snap.Cepstrum, snap.Power); err != nil {
		return nil, contractError("cepstrum", err)
	}

	e.summarize(snap)

	return snap, nil
}

func (e *Engine) summarize(snap *Snapshot) {
	sr := e.cfg.proc.SampleRate
	s := &snap.Summary

	s.Levels = timestats.Calculate(e.mono, core.MaxLevel)
	s.Session = e.session.Result()
	s.Spectral = frequency.Calculate(frequency.OneSided(snap.Amplitude), sr)

	if s.Spectral.Energy == 0 || e.pitchMaxQ <= e.pitchMinQ {
		return
	}
	q, err := cepstrum.PeakQuefrency(snap.Cepstrum, e.pitchMinQ, e.pitchMaxQ)
	if err != nil || q == 0 {
		return
	}
	s.PitchQuefrency = q
	s.PitchHz = sr / float64(q)
}
