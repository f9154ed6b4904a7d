package window

import "errors"

// ErrMismatchedLength is returned when samples and coefficients differ in length.
var ErrMismatchedLength = errors.New("window: samples and coefficients must have same length")

var errUnknownType = errors.New("window: unknown window type")
