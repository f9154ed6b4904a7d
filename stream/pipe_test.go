package stream

import (
	"bytes"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-effector/dsp/codec"
	"github.com/cwbudde/algo-effector/engine"
	"github.com/cwbudde/algo-effector/internal/testutil"
)

var stereo16 = codec.Format{Kind: codec.SampleInt16, Channels: 2}

type closeRecorder struct {
	io.Reader
	io.Writer
	closes int
	err    error
}

func (c *closeRecorder) Close() error {
	c.closes++
	return c.err
}

type failingReader struct{ err error }

func (f failingReader) Read([]byte) (int, error) { return 0, f.err }

func TestPipeReadsWholeBlocks(t *testing.T) {
	in := append(testutil.ConstantPCM16(1, 4, 2), testutil.ConstantPCM16(2, 4, 2)...)
	p, err := NewPipe(bytes.NewReader(in), io.Discard, stereo16)
	require.NoError(t, err)

	first, err := p.Read(4)
	require.NoError(t, err)
	assert.Equal(t, testutil.ConstantPCM16(1, 4, 2), first)

	second, err := p.Read(4)
	require.NoError(t, err)
	assert.Equal(t, testutil.ConstantPCM16(2, 4, 2), second)

	_, err = p.Read(4)
	assert.ErrorIs(t, err, engine.ErrStreamClosed)
}

func TestPipeShortFinalRead(t *testing.T) {
	in := testutil.ConstantPCM16(3, 3, 2)
	p, err := NewPipe(bytes.NewReader(in), io.Discard, stereo16)
	require.NoError(t, err)

	got, err := p.Read(4)
	require.NoError(t, err)
	assert.Len(t, got, 12)

	_, err = p.Read(4)
	assert.ErrorIs(t, err, engine.ErrStreamClosed)
}

func TestPipeReadError(t *testing.T) {
	boom := errors.New("boom")
	p, err := NewPipe(failingReader{err: boom}, io.Discard, stereo16)
	require.NoError(t, err)

	_, err = p.Read(4)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, engine.ErrStreamClosed)
}

func TestPipeWriteAndClose(t *testing.T) {
	var out bytes.Buffer
	r := &closeRecorder{Reader: bytes.NewReader(nil)}
	w := &closeRecorder{Writer: &out}

	p, err := NewPipe(r, w, stereo16)
	require.NoError(t, err)

	require.NoError(t, p.Write([]byte{1, 2, 3, 4}))
	assert.Equal(t, []byte{1, 2, 3, 4}, out.Bytes())

	require.NoError(t, p.Close())
	require.NoError(t, p.Close())
	assert.Equal(t, 1, r.closes)
	assert.Equal(t, 1, w.closes)

	assert.ErrorIs(t, p.Write([]byte{0, 0}), engine.ErrStreamClosed)
	_, err = p.Read(1)
	assert.ErrorIs(t, err, engine.ErrStreamClosed)
}

type zeroReader struct{}

func (zeroReader) Read(b []byte) (int, error) {
	clear(b)
	return len(b), nil
}

func TestPipeCloseWhileStreaming(t *testing.T) {
	p, err := NewPipe(zeroReader{}, io.Discard, stereo16)
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			raw, err := p.Read(64)
			if err != nil {
				assert.ErrorIs(t, err, engine.ErrStreamClosed)
				return
			}
			if err := p.Write(raw); err != nil {
				assert.ErrorIs(t, err, engine.ErrStreamClosed)
				return
			}
		}
	}()

	require.NoError(t, p.Close())
	wg.Wait()
}

func TestNewPipeValidation(t *testing.T) {
	_, err := NewPipe(nil, io.Discard, stereo16)
	assert.Error(t, err)

	_, err = NewPipe(bytes.NewReader(nil), io.Discard, codec.Format{Channels: 0})
	assert.Error(t, err)
}
