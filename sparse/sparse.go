// Package sparse implements a sparse table: O(1) range aggregates over a
// static sequence using overlapping power-of-two windows.
//
// Level d holds one aggregate per window [s, s+2^d). A query [l, r] combines
// the level-d windows starting at l and ending at r, where 2^d is the largest
// power of two not exceeding r-l+1. The two windows may overlap, which is
// harmless because Combine is idempotent.
package sparse

import (
	"errors"
	"fmt"

	"github.com/hupe1980/rmq/internal/bitscan"
	"github.com/hupe1980/rmq/internal/unchecked"
)

var (
	// ErrOutOfRange is returned by Query for ranges outside [0, Len()).
	ErrOutOfRange = errors.New("sparse: range out of bounds")
	// ErrShape is returned by FromParts when entries or heads do not describe
	// a sparse table.
	ErrShape = errors.New("sparse: invalid table shape")
)

// Combiner is an associative, idempotent aggregate.
type Combiner[A any] interface {
	Combine(A) A
}

// Source is anything that reduces to one aggregate.
type Source[A any] interface {
	Aggregate() A
}

// Table is an immutable sparse table over aggregates of type A.
type Table[A Combiner[A]] struct {
	n       int
	entries []A
	heads   []uint64
}

// Build builds a table over src, using each element's aggregate as level 0.
func Build[A Combiner[A], S any, PS interface {
	*S
	Source[A]
}](src []S) Table[A] {
	_, total := Shape(len(src))
	entries := make([]A, 0, total)
	for i := range src {
		entries = append(entries, PS(&src[i]).Aggregate())
	}
	return grow(entries, len(src))
}

// New builds a table whose level 0 is a copy of aggs.
func New[A Combiner[A]](aggs []A) Table[A] {
	_, total := Shape(len(aggs))
	entries := make([]A, len(aggs), total)
	copy(entries, aggs)
	return grow(entries, len(aggs))
}

// grow appends levels 1.. to entries, which holds the n level-0 aggregates.
func grow[A Combiner[A]](entries []A, n int) Table[A] {
	levels, _ := Shape(n)
	heads := make([]uint64, levels)
	for d := 1; d < levels; d++ {
		prev := int(heads[d-1])
		heads[d] = uint64(len(entries))
		half := 1 << (d - 1)
		count := n - (1 << d) + 1
		for j := 0; j < count; j++ {
			entries = append(entries, entries[prev+j].Combine(entries[prev+j+half]))
		}
	}
	return Table[A]{n: n, entries: entries, heads: heads}
}

// FromParts wraps existing entries and heads without copying, after checking
// that they have the shape Build produces for some length.
func FromParts[A Combiner[A]](entries []A, heads []uint64) (Table[A], error) {
	n := 0
	switch len(heads) {
	case 0:
	case 1:
		n = len(entries)
	default:
		n = int(min(heads[1], uint64(len(entries))))
	}
	levels, total := Shape(n)
	if levels != len(heads) || total != len(entries) {
		return Table[A]{}, fmt.Errorf("%w: %d entries and %d levels", ErrShape, len(entries), len(heads))
	}
	for d := range heads {
		if heads[d] != Head(n, d) {
			return Table[A]{}, fmt.Errorf("%w: level %d starts at %d, want %d", ErrShape, d, heads[d], Head(n, d))
		}
	}
	return Table[A]{n: n, entries: entries, heads: heads}, nil
}

// Shape returns the number of levels and the total number of entries of a
// table over n elements.
func Shape(n int) (levels, entries int) {
	if n <= 0 {
		return 0, 0
	}
	levels = bitscan.Log2(uint64(n)) + 1
	for d := 0; d < levels; d++ {
		entries += n - (1 << d) + 1
	}
	return levels, entries
}

// Head returns the offset of level d in a table over n elements.
func Head(n, d int) uint64 {
	var off uint64
	for k := 0; k < d; k++ {
		off += uint64(n - (1 << k) + 1)
	}
	return off
}

// Len returns the number of level-0 elements.
func (t *Table[A]) Len() int { return t.n }

// Levels returns the number of levels.
func (t *Table[A]) Levels() int { return len(t.heads) }

// Entries returns the flattened entries of all levels. Do not modify.
func (t *Table[A]) Entries() []A { return t.entries }

// Heads returns the level offsets into Entries. Do not modify.
func (t *Table[A]) Heads() []uint64 { return t.heads }

// Query returns the aggregate of elements [l, r].
func (t *Table[A]) Query(l, r int) (A, error) {
	if l < 0 || l > r || r >= t.n {
		var zero A
		return zero, fmt.Errorf("%w: [%d, %d] of %d", ErrOutOfRange, l, r, t.n)
	}
	return t.QueryUnchecked(l, r), nil
}

// QueryUnchecked is Query without validation. The caller guarantees
// 0 <= l <= r < Len(); other input reads outside the table.
func (t *Table[A]) QueryUnchecked(l, r int) A {
	d := bitscan.Log2(uint64(r - l + 1))
	head := int(unchecked.At(t.heads, d))
	a := unchecked.Ptr(t.entries, head+l)
	b := unchecked.Ptr(t.entries, head+r+1-(1<<d))
	return (*a).Combine(*b)
}
