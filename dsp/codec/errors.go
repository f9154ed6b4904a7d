package codec

import (
	"errors"
	"fmt"
)

// ErrFormat is the sentinel matched by every FormatError.
var ErrFormat = errors.New("codec: malformed frame")

var (
	errChannelCount  = errors.New("codec: channel count must be > 0")
	errChannelSelect = errors.New("codec: selected channel out of range")
)

// FormatError reports a raw frame whose length is not a whole number of
// samples (or frames) for the configured format.
type FormatError struct {
	Length int
	Width  int
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("codec: frame length %d is not a multiple of %d bytes", e.Length, e.Width)
}

// Is makes errors.Is(err, ErrFormat) succeed for any FormatError.
func (e *FormatError) Is(target error) bool {
	return target == ErrFormat
}

func checkWidth(raw []byte, width int) error {
	if len(raw)%width != 0 {
		return &FormatError{Length: len(raw), Width: width}
	}
	return nil
}
