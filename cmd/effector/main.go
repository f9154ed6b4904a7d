// Command effector runs the effect chain and the spectral analysis over an
// audio stream and logs a summary of the analysis while it runs.
//
// Usage:
//
//	effector [flags]
//
// Input is raw interleaved PCM on stdin ("-"), a WAV file, or the built-in
// test signal ("gen"). Output is raw PCM on stdout ("-"), a WAV file, or
// "null". Logs go to stderr.
//
// Examples:
//
//	effector -in guitar.wav -out boosted.wav
//	effector -config live.yaml -in - -out - < capture.raw > play.raw
//	effector -in gen -out null -display 250ms -log-level debug
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/term"

	"github.com/cwbudde/algo-effector/engine"
	"github.com/cwbudde/algo-effector/internal/config"
	"github.com/cwbudde/algo-effector/stream"
)

func main() {
	configPath := flag.String("config", "", "YAML configuration file")
	in := flag.String("in", "gen", `input: "-" for raw PCM on stdin, a .wav path, or "gen"`)
	out := flag.String("out", "null", `output: "-" for raw PCM on stdout, a .wav path, or "null"`)
	logLevel := flag.String("log-level", "", "override log.level (debug, info, warn, error)")
	display := flag.Duration("display", time.Second, "summary log period, 0 disables it")
	realtime := flag.Bool("realtime", false, "pace file and generator input at the stream rate")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: effector [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Runs the booster, distortion and phaser chain over a stream and\n")
		fmt.Fprintf(os.Stderr, "logs spectral and cepstral analysis of the processed signal.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  effector -in guitar.wav -out boosted.wav\n")
		fmt.Fprintf(os.Stderr, "  effector -config live.yaml -in - -out - < capture.raw > play.raw\n")
		fmt.Fprintf(os.Stderr, "  effector -in gen -display 250ms\n")
	}
	flag.Parse()

	if err := run(*configPath, *in, *out, *logLevel, *display, *realtime); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, in, out, logLevel string, display time.Duration, realtime bool) error {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	if err := cfg.ConfigureLogger(logger, term.IsTerminal(int(os.Stderr.Fd()))); err != nil {
		return err
	}
	log := logrus.NewEntry(logger)

	src, err := openSource(&cfg, in)
	if err != nil {
		return err
	}
	sink, err := openSink(cfg, out)
	if err != nil {
		_ = src.Close()
		return err
	}
	duplex, err := stream.NewDuplex(src, sink)
	if err != nil {
		return err
	}

	// Files and the generator have no device clock to keep up with.
	if in != "-" && !realtime && cfg.Engine.Interval == nil {
		zero := time.Duration(0)
		cfg.Engine.Interval = &zero
	}

	opts, err := cfg.EngineOptions()
	if err != nil {
		_ = duplex.Close()
		return err
	}
	e, err := engine.New(duplex, append(opts, engine.WithLogger(log))...)
	if err != nil {
		_ = duplex.Close()
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	done := make(chan struct{})
	if display > 0 {
		go reportLoop(ctx, done, e, log, display)
	}

	err = e.Run(ctx)
	close(done)

	logSummary(log, e, e.Latest())

	return err
}

func openSource(cfg *config.Config, name string) (stream.Source, error) {
	format, err := cfg.Format()
	if err != nil {
		return nil, err
	}

	switch {
	case name == "-":
		return stream.NewPipe(os.Stdin, io.Discard, format)
	case name == "gen":
		gen, err := cfg.Generator()
		if err != nil {
			return nil, err
		}
		return stream.NewGeneratorSource(gen, format, cfg.Signal.Blocks)
	case strings.HasSuffix(strings.ToLower(name), ".wav"):
		src, err := stream.OpenWAV(name, stream.WithWAVSampleKind(format.Kind))
		if err != nil {
			return nil, err
		}
		// The file decides the stream format.
		cfg.Stream.SampleRate = float64(src.SampleRate())
		cfg.Stream.Channels = src.Format().Channels
		return src, nil
	default:
		return nil, fmt.Errorf("unsupported input %q", name)
	}
}

func openSink(cfg config.Config, name string) (stream.Sink, error) {
	format, err := cfg.Format()
	if err != nil {
		return nil, err
	}

	switch {
	case name == "-":
		return stream.NewPipe(strings.NewReader(""), os.Stdout, format)
	case name == "null" || name == "":
		return &stream.Discard{}, nil
	case strings.HasSuffix(strings.ToLower(name), ".wav"):
		return stream.CreateWAV(name, int(cfg.Stream.SampleRate), format.Channels,
			stream.WithWAVSampleKind(format.Kind))
	default:
		return nil, fmt.Errorf("unsupported output %q", name)
	}
}

// reportLoop stands in for a graphical display: it polls the latest
// snapshot and logs it.
func reportLoop(ctx context.Context, done <-chan struct{}, e *engine.Engine, log *logrus.Entry, period time.Duration) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	var last uint64
	for {
		select {
		case <-ctx.Done():
			return
		case <-done:
			return
		case <-ticker.C:
			snap := e.Latest()
			if snap == nil || snap.Cycle == last {
				continue
			}
			last = snap.Cycle
			logSnapshot(log, snap)
		}
	}
}

func logSnapshot(log *logrus.Entry, snap *engine.Snapshot) {
	s := snap.Summary
	log.WithFields(logrus.Fields{
		"function":    "reportLoop",
		"cycle":       snap.Cycle,
		"rms_db":      fmt.Sprintf("%.1f", s.Levels.RMSdB),
		"peak_db":     fmt.Sprintf("%.1f", s.Levels.PeakdB),
		"dominant_hz": fmt.Sprintf("%.1f", s.Spectral.Dominant),
		"centroid_hz": fmt.Sprintf("%.1f", s.Spectral.Centroid),
		"flatness":    fmt.Sprintf("%.3f", s.Spectral.Flatness),
		"pitch_hz":    fmt.Sprintf("%.1f", s.PitchHz),
		"cycle_time":  snap.Timings.Total.String(),
	}).Info("Analysis")
}

func logSummary(log *logrus.Entry, e *engine.Engine, snap *engine.Snapshot) {
	c := e.Counters()
	fields := logrus.Fields{
		"function":    "run",
		"cycles":      c.Cycles,
		"dropped":     c.Dropped,
		"short_reads": c.ShortReads,
		"overruns":    c.Overruns,
	}
	if snap != nil {
		fields["session_rms_db"] = fmt.Sprintf("%.1f", snap.Summary.Session.RMSdB)
		fields["session_peak_db"] = fmt.Sprintf("%.1f", snap.Summary.Session.PeakdB)
		fields["clipped"] = snap.Summary.Session.Clipped
	}
	log.WithFields(fields).Info("Done")
}
