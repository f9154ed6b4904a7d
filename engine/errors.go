package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrStream wraps every failure reported by the Stream. It is fatal.
	ErrStream = errors.New("engine: stream failure")

	// ErrStreamClosed is returned by streams whose input is exhausted or that
	// were closed by the other side. Run treats it as a normal end.
	ErrStreamClosed = errors.New("engine: stream closed")

	// ErrContractViolation marks broken internal invariants such as
	// mismatched buffer lengths. It is fatal and indicates a programming error.
	ErrContractViolation = errors.New("engine: contract violation")

	// ErrClosed is returned by Cycle and Run after Close.
	ErrClosed = errors.New("engine: closed")
)

func streamError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStream, op, err)
}

func contractError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrContractViolation, op, err)
}
