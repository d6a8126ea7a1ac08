package rmq

import (
	"github.com/hupe1980/rmq/block"
	"github.com/hupe1980/rmq/internal/unchecked"
	"github.com/hupe1980/rmq/ordering"
	"github.com/hupe1980/rmq/persistence"
	"github.com/hupe1980/rmq/sparse"
)

const (
	blockShift = 4 // log2(block.Size)
	blockMask  = block.Size - 1
)

// core implements every query over blocks and the sparse table above them.
// RMQ owns its slices; View borrows them from a validated buffer.
type core[T ordering.Element] struct {
	length int
	blocks []block.Block[T]
	table  sparse.Table[ordering.Pair[T]]
}

// Len returns the number of elements.
func (c *core[T]) Len() int {
	return c.length
}

func (c *core[T]) checkRange(l, r int) error {
	if l < 0 || l > r || r >= c.length {
		return &RangeError{L: l, R: r, Len: c.length}
	}
	return nil
}

// At returns the element at position i.
func (c *core[T]) At(i int) (T, error) {
	if err := c.checkRange(i, i); err != nil {
		var zero T
		return zero, err
	}
	return c.AtUnchecked(i), nil
}

// AtUnchecked returns the element at position i without validation.
// i must be in [0, Len()); other input reads arbitrary memory.
func (c *core[T]) AtUnchecked(i int) T {
	return unchecked.Ptr(c.blocks, i>>blockShift).GetUnchecked(i & blockMask)
}

// Query returns the minimum and maximum of positions [l, r].
func (c *core[T]) Query(l, r int) (ordering.Pair[T], error) {
	if err := c.checkRange(l, r); err != nil {
		return ordering.Pair[T]{}, err
	}
	return c.QueryUnchecked(l, r), nil
}

// QueryUnchecked is Query without validation. The caller guarantees
// 0 <= l <= r < Len(); other input is undefined behavior and may read
// outside the index.
func (c *core[T]) QueryUnchecked(l, r int) ordering.Pair[T] {
	lb, lo := l>>blockShift, l&blockMask
	rb, ro := r>>blockShift, r&blockMask

	if lb == rb {
		return unchecked.Ptr(c.blocks, lb).QueryUnchecked(lo, ro)
	}

	res := unchecked.Ptr(c.blocks, lb).QueryUnchecked(lo, blockMask).
		Combine(unchecked.Ptr(c.blocks, rb).QueryUnchecked(0, ro))
	if lb+1 < rb {
		res = res.Combine(c.table.QueryUnchecked(lb+1, rb-1))
	}
	return res
}

// Min returns the minimum of positions [l, r].
func (c *core[T]) Min(l, r int) (T, error) {
	p, err := c.Query(l, r)
	return p.Min, err
}

// Max returns the maximum of positions [l, r].
func (c *core[T]) Max(l, r int) (T, error) {
	p, err := c.Query(l, r)
	return p.Max, err
}

func (c *core[T]) layout() persistence.Layout[T] {
	return persistence.Layout[T]{
		Length:  c.length,
		Blocks:  c.blocks,
		Entries: c.table.Entries(),
		Heads:   c.table.Heads(),
	}
}
