package stream

import (
	"errors"
	"sync"
)

// Source produces raw blocks.
type Source interface {
	Read(frames int) ([]byte, error)
	Close() error
}

// Sink consumes raw blocks.
type Sink interface {
	Write(raw []byte) error
	Close() error
}

// Duplex joins a Source and a Sink into one engine.Stream.
type Duplex struct {
	src  Source
	sink Sink

	closeOnce sync.Once
	closeErr  error
}

// NewDuplex returns a Stream reading from src and writing to sink.
func NewDuplex(src Source, sink Sink) (*Duplex, error) {
	if src == nil || sink == nil {
		return nil, errors.New("stream: duplex needs a source and a sink")
	}
	return &Duplex{src: src, sink: sink}, nil
}

func (d *Duplex) Read(frames int) ([]byte, error) { return d.src.Read(frames) }
func (d *Duplex) Write(raw []byte) error          { return d.sink.Write(raw) }

// Close closes the sink, then the source. Both are closed even if one fails.
func (d *Duplex) Close() error {
	d.closeOnce.Do(func() {
		d.closeErr = errors.Join(d.sink.Close(), d.src.Close())
	})
	return d.closeErr
}

// Discard is a Sink that drops every block and counts the bytes.
type Discard struct {
	mu    sync.Mutex
	bytes int64
}

func (d *Discard) Write(raw []byte) error {
	d.mu.Lock()
	d.bytes += int64(len(raw))
	d.mu.Unlock()
	return nil
}

func (d *Discard) Close() error { return nil }

// Bytes returns the number of bytes written so far.
func (d *Discard) Bytes() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.bytes
}
