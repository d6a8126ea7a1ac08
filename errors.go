package rmq

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfRange is returned by checked queries whose range does not lie
	// inside [0, Len()).
	ErrOutOfRange = errors.New("range out of bounds")

	// ErrUnordered is returned by New when a value does not take part in the
	// total order (NaN).
	ErrUnordered = errors.New("value is not ordered")

	// ErrClosed is returned by a catalog that has been closed.
	ErrClosed = errors.New("catalog is closed")
)

// RangeError describes a rejected query range.
//
// It satisfies errors.Is(err, ErrOutOfRange).
type RangeError struct {
	L, R int
	Len  int
}

func (e *RangeError) Error() string {
	if e.L == e.R {
		return fmt.Sprintf("position %d out of bounds for length %d", e.L, e.Len)
	}
	return fmt.Sprintf("range [%d, %d] out of bounds for length %d", e.L, e.R, e.Len)
}

func (e *RangeError) Unwrap() error { return ErrOutOfRange }
