package stream

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-effector/dsp/codec"
	"github.com/cwbudde/algo-effector/dsp/signal"
	"github.com/cwbudde/algo-effector/engine"
)

// GeneratorSource renders a signal.Generator into raw frames. The same
// waveform is written to every channel.
type GeneratorSource struct {
	gen    *signal.Generator
	codec  *codec.Codec
	blocks int
	served int

	mono        []float64
	interleaved []float64
}

// NewGeneratorSource serves blocks blocks of gen in format, then reports
// engine.ErrStreamClosed. blocks <= 0 never ends. gen produces int16-unit
// samples, so its amplitude should be given on that scale.
func NewGeneratorSource(gen *signal.Generator, format codec.Format, blocks int) (*GeneratorSource, error) {
	if gen == nil {
		return nil, errors.New("stream: nil generator")
	}

	cd, err := codec.New(format)
	if err != nil {
		return nil, fmt.Errorf("stream: %w", err)
	}

	return &GeneratorSource{gen: gen, codec: cd, blocks: blocks}, nil
}

// Read renders the next block. The returned slice is reused by the next Read.
func (g *GeneratorSource) Read(frames int) ([]byte, error) {
	if g.blocks > 0 && g.served >= g.blocks {
		return nil, engine.ErrStreamClosed
	}
	g.served++

	if cap(g.mono) < frames {
		g.mono = make([]float64, frames)
	}
	g.mono = g.mono[:frames]
	g.gen.Fill(g.mono)

	out, err := codec.Upmix(g.interleaved[:0], g.mono, g.codec.Format().Channels)
	if err != nil {
		return nil, fmt.Errorf("stream: %w", err)
	}
	g.interleaved = out

	return g.codec.Encode(out), nil
}

// Close is a no-op.
func (g *GeneratorSource) Close() error {
	return nil
}
