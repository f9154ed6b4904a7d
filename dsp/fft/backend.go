package fft

import (
	"errors"
	"fmt"
	"strings"
)

// Backend selects an FFT implementation.
type Backend string

const (
	BackendAlgoFFT Backend = "algofft"
	BackendGonum   Backend = "gonum"
	BackendGoDSP   Backend = "godsp"
)

// DefaultBackend is used when no backend is configured.
const DefaultBackend = BackendAlgoFFT

var (
	// ErrLength is returned when dst or src does not match the transform length.
	ErrLength = errors.New("fft: buffer length mismatch")

	errUnknownBackend = errors.New("fft: unknown backend")
)

// Transformer computes forward and inverse complex transforms of a fixed length.
// Implementations are not safe for concurrent use.
type Transformer interface {
	Len() int
	Backend() Backend
	Forward(dst, src []complex128) error
	Inverse(dst, src []complex128) error
}

// ParseBackend resolves a configuration name to a Backend.
func ParseBackend(name string) (Backend, error) {
	switch b := Backend(strings.ToLower(strings.TrimSpace(name))); b {
	case "":
		return DefaultBackend, nil
	case BackendAlgoFFT, BackendGonum, BackendGoDSP:
		return b, nil
	default:
		return DefaultBackend, fmt.Errorf("%w: %q", errUnknownBackend, name)
	}
}

// Backends lists every supported backend.
func Backends() []Backend {
	return []Backend{BackendAlgoFFT, BackendGonum, BackendGoDSP}
}

// New returns a Transformer of length n for the given backend.
func New(backend Backend, n int) (Transformer, error) {
	if n <= 0 {
		return nil, fmt.Errorf("fft: length must be > 0: %d", n)
	}

	switch backend {
	case "", BackendAlgoFFT:
		return newAlgoFFT(n)
	case BackendGonum:
		return newGonum(n), nil
	case BackendGoDSP:
		return newGoDSP(n), nil
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownBackend, backend)
	}
}

// ForwardReal widens a real sequence into scratch and transforms it into dst.
// scratch must have the transform length.
func ForwardReal(t Transformer, dst, scratch []complex128, x []float64) error {
	if len(x) != t.Len() || len(scratch) != t.Len() {
		return fmt.Errorf("%w: input %d, scratch %d, want %d", ErrLength, len(x), len(scratch), t.Len())
	}

	for i, v := range x {
		scratch[i] = complex(v, 0)
	}

	return t.Forward(dst, scratch)
}

// InverseReal inverse-transforms spectrum into scratch and keeps the real part in dst.
func InverseReal(t Transformer, dst []float64, scratch, spectrum []complex128) error {
	if len(dst) != t.Len() {
		return fmt.Errorf("%w: output %d, want %d", ErrLength, len(dst), t.Len())
	}

	if err := t.Inverse(scratch, spectrum); err != nil {
		return err
	}

	for i := range dst {
		dst[i] = real(scratch[i])
	}

	return nil
}

func checkLen(n int, dst, src []complex128) error {
	if len(dst) != n || len(src) != n {
		return fmt.Errorf("%w: dst %d, src %d, want %d", ErrLength, len(dst), len(src), n)
	}
	return nil
}
