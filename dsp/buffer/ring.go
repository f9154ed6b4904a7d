package buffer

import (
	"errors"
	"fmt"
)

// ErrBlockSize is returned when a pushed block does not match the ring's
// block length.
var ErrBlockSize = errors.New("buffer: block length mismatch")

// Ring is a sliding window of blocks*blockLen samples. It starts zero-filled
// and each Push drops exactly one block from the front.
type Ring struct {
	data     []float64
	blockLen int
	writePos int
}

// NewRing returns a zero-filled ring holding blocks blocks of blockLen samples.
func NewRing(blockLen, blocks int) (*Ring, error) {
	if blockLen <= 0 {
		return nil, fmt.Errorf("buffer: block length must be > 0: %d", blockLen)
	}
	if blocks <= 0 {
		return nil, fmt.Errorf("buffer: block count must be > 0: %d", blocks)
	}
	return &Ring{
		data:     make([]float64, blockLen*blocks),
		blockLen: blockLen,
	}, nil
}

// Len returns the total window length.
func (r *Ring) Len() int {
	return len(r.data)
}

// BlockLen returns the block length accepted by Push.
func (r *Ring) BlockLen() int {
	return r.blockLen
}

// Push appends block at the end of the window and discards the oldest
// BlockLen samples.
func (r *Ring) Push(block []float64) error {
	if len(block) != r.blockLen {
		return fmt.Errorf("%w: got %d, want %d", ErrBlockSize, len(block), r.blockLen)
	}

	copy(r.data[r.writePos:r.writePos+r.blockLen], block)

	r.writePos += r.blockLen
	if r.writePos >= len(r.data) {
		r.writePos = 0
	}

	return nil
}

// At returns the i-th sample, oldest first.
func (r *Ring) At(i int) float64 {
	idx := r.writePos + i
	if idx >= len(r.data) {
		idx -= len(r.data)
	}
	return r.data[idx]
}

// CopyTo writes the window oldest-first into dst and returns the number of
// samples copied.
func (r *Ring) CopyTo(dst []float64) int {
	n := copy(dst, r.data[r.writePos:])
	if n < len(dst) {
		n += copy(dst[n:], r.data[:r.writePos])
	}
	return n
}

// Snapshot returns a freshly allocated oldest-first copy of the window.
func (r *Ring) Snapshot() []float64 {
	out := make([]float64, len(r.data))
	r.CopyTo(out)
	return out
}

// Reset zeroes the window.
func (r *Ring) Reset() {
	for i := range r.data {
		r.data[i] = 0
	}
	r.writePos = 0
}
