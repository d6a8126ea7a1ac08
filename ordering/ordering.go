// Package ordering defines the element types an index can hold and the two
// orientations (minimum and maximum) the block algorithm is run in.
//
// Comparisons are strict: an element never dominates an equal element. The
// block encoder depends on this to keep tie handling deterministic.
package ordering

import "fmt"

// Element is the set of types with a built-in total order (NaN excluded) and a
// fixed in-memory width, which the persisted layout requires.
type Element interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Direction selects which extreme a comparison is seeking.
type Direction uint8

const (
	// Min prefers smaller elements.
	Min Direction = iota
	// Max prefers larger elements.
	Max
)

func (d Direction) String() string {
	switch d {
	case Min:
		return "min"
	case Max:
		return "max"
	default:
		return fmt.Sprintf("Direction(%d)", uint8(d))
	}
}

// Dominates reports whether a is strictly better than b in direction d.
func Dominates[T Element](d Direction, a, b T) bool {
	if d == Max {
		return a > b
	}
	return a < b
}

// Lesser returns the smaller of a and b, keeping a on ties.
func Lesser[T Element](a, b T) T {
	if b < a {
		return b
	}
	return a
}

// Greater returns the larger of a and b, keeping a on ties.
func Greater[T Element](a, b T) T {
	if b > a {
		return b
	}
	return a
}

// Valid reports whether v takes part in the total order. Only NaN fails.
func Valid[T Element](v T) bool {
	return v == v //nolint:gocritic // NaN check
}

// Pair is the (min, max) aggregate of a non-empty run of elements.
type Pair[T Element] struct {
	Min T
	Max T
}

// PairOf returns the aggregate of the single element v.
func PairOf[T Element](v T) Pair[T] {
	return Pair[T]{Min: v, Max: v}
}

// Combine merges two aggregates. It is associative and idempotent, so
// overlapping runs may be combined freely.
func (p Pair[T]) Combine(o Pair[T]) Pair[T] {
	return Pair[T]{
		Min: Lesser(p.Min, o.Min),
		Max: Greater(p.Max, o.Max),
	}
}

// Get returns the side of the aggregate selected by d.
func (p Pair[T]) Get(d Direction) T {
	if d == Max {
		return p.Max
	}
	return p.Min
}

// Overlaps reports whether [p.Min, p.Max] intersects [lo, hi].
func (p Pair[T]) Overlaps(lo, hi T) bool {
	return p.Max >= lo && p.Min <= hi
}

// Within reports whether [p.Min, p.Max] lies inside [lo, hi].
func (p Pair[T]) Within(lo, hi T) bool {
	return p.Min >= lo && p.Max <= hi
}
