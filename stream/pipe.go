package stream

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/cwbudde/algo-effector/dsp/codec"
	"github.com/cwbudde/algo-effector/engine"
)

// Pipe carries raw interleaved PCM frames over a reader and a writer, for
// example stdin and stdout.
type Pipe struct {
	r      io.Reader
	w      io.Writer
	format codec.Format
	buf    []byte

	closeOnce sync.Once
	closeErr  error
	closed    atomic.Bool
}

// NewPipe returns a Pipe reading frames of format from r and writing to w.
// Either side may implement io.Closer and is then closed by Close.
func NewPipe(r io.Reader, w io.Writer, format codec.Format) (*Pipe, error) {
	if r == nil || w == nil {
		return nil, errors.New("stream: pipe needs a reader and a writer")
	}
	if format.Channels <= 0 {
		return nil, fmt.Errorf("stream: invalid channel count %d", format.Channels)
	}

	return &Pipe{r: r, w: w, format: format}, nil
}

// Format returns the frame format of the pipe.
func (p *Pipe) Format() codec.Format {
	return p.format
}

// Read reads up to frames frames. A truncated final read is returned as is;
// the next call reports engine.ErrStreamClosed. The returned slice is reused
// by the next Read.
func (p *Pipe) Read(frames int) ([]byte, error) {
	if p.closed.Load() {
		return nil, engine.ErrStreamClosed
	}

	need := frames * p.format.FrameBytes()
	if cap(p.buf) < need {
		p.buf = make([]byte, need)
	}
	buf := p.buf[:need]

	n, err := io.ReadFull(p.r, buf)
	switch {
	case err == nil:
		return buf, nil
	case errors.Is(err, io.ErrUnexpectedEOF):
		return buf[:n], nil
	case errors.Is(err, io.EOF):
		return nil, engine.ErrStreamClosed
	default:
		return nil, fmt.Errorf("stream: read: %w", err)
	}
}

// Write writes raw in full.
func (p *Pipe) Write(raw []byte) error {
	if p.closed.Load() {
		return engine.ErrStreamClosed
	}
	if _, err := p.w.Write(raw); err != nil {
		return fmt.Errorf("stream: write: %w", err)
	}
	return nil
}

// Close closes the reader and writer if they are closers. Later calls return
// the first result.
func (p *Pipe) Close() error {
	p.closeOnce.Do(func() {
		p.closed.Store(true)
		p.closeErr = errors.Join(closeIfCloser(p.r), closeIfCloser(p.w))
	})
	return p.closeErr
}

func closeIfCloser(v any) error {
	if c, ok := v.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
