package stream

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/cwbudde/algo-effector/dsp/codec"
	"github.com/cwbudde/algo-effector/engine"
)

// ErrWAV is returned for files the WAV source cannot play.
var ErrWAV = errors.New("stream: unsupported wav file")

const wavFormatPCM = 1

// WAVOption configures a WAVSource or WAVSink.
type WAVOption func(*wavConfig)

type wavConfig struct {
	kind codec.SampleKind
}

// WithWAVSampleKind selects the raw sample encoding exchanged with the engine.
// The file itself is always 16-bit PCM on write.
func WithWAVSampleKind(kind codec.SampleKind) WAVOption {
	return func(c *wavConfig) {
		c.kind = kind
	}
}

func applyWAVOptions(opts []WAVOption) wavConfig {
	cfg := wavConfig{kind: codec.SampleInt16}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WAVSource reads PCM frames from a WAV file and serves them as raw blocks.
// Files of any integer bit depth are rescaled to 16-bit units.
type WAVSource struct {
	dec        *wav.Decoder
	closer     io.Closer
	codec      *codec.Codec
	sampleRate int
	channels   int

	buf     *audio.IntBuffer
	samples []float64

	closeOnce sync.Once
	closeErr  error
}

// OpenWAV opens path as a WAVSource.
func OpenWAV(path string, opts ...WAVOption) (*WAVSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("stream: %w", err)
	}

	src, err := NewWAVSource(f, opts...)
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	return src, nil
}

// NewWAVSource decodes r. r is closed by Close when it is an io.Closer.
func NewWAVSource(r io.ReadSeeker, opts ...WAVOption) (*WAVSource, error) {
	cfg := applyWAVOptions(opts)

	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%w: not a valid wav stream", ErrWAV)
	}
	if dec.WavAudioFormat != wavFormatPCM {
		return nil, fmt.Errorf("%w: audio format %d is not PCM", ErrWAV, dec.WavAudioFormat)
	}

	channels := int(dec.NumChans)
	cd, err := codec.New(codec.Format{Kind: cfg.kind, Channels: channels})
	if err != nil {
		return nil, fmt.Errorf("stream: %w", err)
	}

	src := &WAVSource{
		dec:        dec,
		codec:      cd,
		sampleRate: int(dec.SampleRate),
		channels:   channels,
		buf:        &audio.IntBuffer{Format: dec.Format()},
	}
	if c, ok := r.(io.Closer); ok {
		src.closer = c
	}

	return src, nil
}

// SampleRate returns the file sample rate in Hz.
func (s *WAVSource) SampleRate() int {
	return s.sampleRate
}

// Format returns the raw frame format served by Read.
func (s *WAVSource) Format() codec.Format {
	return s.codec.Format()
}

// Read returns up to frames frames. The last block of a file may be short.
// engine.ErrStreamClosed marks the end of the data chunk. The returned slice
// is reused by the next Read.
func (s *WAVSource) Read(frames int) ([]byte, error) {
	need := frames * s.channels
	if cap(s.buf.Data) < need {
		s.buf.Data = make([]int, need)
	}
	s.buf.Data = s.buf.Data[:need]

	n, err := s.dec.PCMBuffer(s.buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, fmt.Errorf("stream: read wav: %w", err)
	}

	n -= n % s.channels
	if n == 0 {
		return nil, engine.ErrStreamClosed
	}

	s.samples = codec.FromIntBuffer(s.samples, s.buf, n)

	return s.codec.Encode(s.samples), nil
}

// Close closes the underlying reader. Later calls return the first result.
func (s *WAVSource) Close() error {
	s.closeOnce.Do(func() {
		if s.closer != nil {
			s.closeErr = s.closer.Close()
		}
	})
	return s.closeErr
}

// WAVSink writes raw blocks to a 16-bit PCM WAV file.
type WAVSink struct {
	enc        *wav.Encoder
	closer     io.Closer
	codec      *codec.Codec
	sampleRate int
	channels   int

	buf     *audio.IntBuffer
	samples []float64
	frames  int

	closeOnce sync.Once
	closeErr  error
}

// CreateWAV creates path and returns a sink writing to it.
func CreateWAV(path string, sampleRate, channels int, opts ...WAVOption) (*WAVSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("stream: %w", err)
	}

	sink, err := NewWAVSink(f, sampleRate, channels, opts...)
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	return sink, nil
}

// NewWAVSink encodes to w. The header is finalised by Close, which also
// closes w when it is an io.Closer.
func NewWAVSink(w io.WriteSeeker, sampleRate, channels int, opts ...WAVOption) (*WAVSink, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("stream: sample rate must be > 0: %d", sampleRate)
	}

	cfg := applyWAVOptions(opts)
	cd, err := codec.New(codec.Format{Kind: cfg.kind, Channels: channels})
	if err != nil {
		return nil, fmt.Errorf("stream: %w", err)
	}

	sink := &WAVSink{
		enc:        wav.NewEncoder(w, sampleRate, codec.PCMBitDepth, channels, wavFormatPCM),
		codec:      cd,
		sampleRate: sampleRate,
		channels:   channels,
	}
	if c, ok := w.(io.Closer); ok {
		sink.closer = c
	}

	return sink, nil
}

// Frames returns the number of frames written so far.
func (s *WAVSink) Frames() int {
	return s.frames
}

// Write appends raw frames to the file.
func (s *WAVSink) Write(raw []byte) error {
	samples, err := s.codec.Decode(s.samples[:0], raw)
	if err != nil {
		return fmt.Errorf("stream: write wav: %w", err)
	}
	s.samples = samples

	s.buf = codec.ToIntBuffer(s.buf, samples, s.channels, s.sampleRate)
	if err := s.enc.Write(s.buf); err != nil {
		return fmt.Errorf("stream: write wav: %w", err)
	}
	s.frames += len(samples) / s.channels

	return nil
}

// Close finalises the WAV header and closes the writer.
func (s *WAVSink) Close() error {
	s.closeOnce.Do(func() {
		var errs []error
		if err := s.enc.Close(); err != nil {
			errs = append(errs, fmt.Errorf("stream: finalise wav: %w", err))
		}
		if s.closer != nil {
			errs = append(errs, s.closer.Close())
		}
		s.closeErr = errors.Join(errs...)
	})
	return s.closeErr
}
