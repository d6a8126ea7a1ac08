// Package block implements the fixed-capacity leaf of the range index.
//
// A Block holds up to Size raw values plus one ancestor table per orientation.
// Each table packs, for every position r, the chain of strictly dominating
// positions to the left of r (the left spine of the Cartesian tree) into
// 8 uint16 words. Any query [l, r] inside the block is answered with one
// shift, one mask and one leading-zero count.
//
// The layout of Block is part of the persisted format: Size values followed
// by the minimum table and then the maximum table, with no implicit padding.
package block

import (
	"errors"
	"fmt"

	"github.com/hupe1980/rmq/ordering"
)

const (
	// Size is the number of value slots in a block.
	Size = 16
	// TableWords is the number of uint16 words per orientation table.
	TableWords = Size / 2
)

var (
	// ErrTooManyValues is returned when a block is built from more than Size values.
	ErrTooManyValues = errors.New("block: too many values")
	// ErrOutOfRange is returned by checked accessors for positions outside [0, Size).
	ErrOutOfRange = errors.New("block: position out of range")
)

// Table is the packed ancestor table of one orientation.
type Table [TableWords]uint16

// Block is an immutable run of at most Size elements.
//
// Positions past the real length are padding and hold the zero value; they are
// never selected by a query whose r lies inside the real length.
type Block[T ordering.Element] struct {
	Values   [Size]T
	MinTable Table
	MaxTable Table
}

// New builds a block from values.
func New[T ordering.Element](values []T) (*Block[T], error) {
	b := new(Block[T])
	if err := Build(b, values); err != nil {
		return nil, err
	}
	return b, nil
}

// Build fills dst from values, overwriting its previous content.
func Build[T ordering.Element](dst *Block[T], values []T) error {
	if len(values) > Size {
		return fmt.Errorf("%w: got %d, max %d", ErrTooManyValues, len(values), Size)
	}
	n := copy(dst.Values[:], values)
	clear(dst.Values[n:])
	dst.MinTable = encode(values, ordering.Min)
	dst.MaxTable = encode(values, ordering.Max)
	return nil
}

// Table returns the ancestor table for direction d.
func (b *Block[T]) Table(d ordering.Direction) *Table {
	if d == ordering.Max {
		return &b.MaxTable
	}
	return &b.MinTable
}

// Get returns the value at position i.
func (b *Block[T]) Get(i int) (T, error) {
	if i < 0 || i >= Size {
		var zero T
		return zero, fmt.Errorf("%w: %d", ErrOutOfRange, i)
	}
	return b.Values[i], nil
}

// GetUnchecked returns the value at position i. i must be in [0, Size).
func (b *Block[T]) GetUnchecked(i int) T {
	return b.Values[i&(Size-1)]
}

// Query returns the (min, max) aggregate over positions [l, r].
func (b *Block[T]) Query(l, r int) (ordering.Pair[T], error) {
	if err := checkRange(l, r); err != nil {
		return ordering.Pair[T]{}, err
	}
	return b.QueryUnchecked(l, r), nil
}

// QueryUnchecked is Query without validation. The caller guarantees
// 0 <= l <= r < Size; other input yields an arbitrary answer.
func (b *Block[T]) QueryUnchecked(l, r int) ordering.Pair[T] {
	return ordering.Pair[T]{
		Min: b.Values[b.MinTable.decode(l, r)&(Size-1)],
		Max: b.Values[b.MaxTable.decode(l, r)&(Size-1)],
	}
}

// Position returns the position holding the extreme of [l, r] in direction d.
// For ties any of the equal positions may be reported.
func (b *Block[T]) Position(d ordering.Direction, l, r int) (int, error) {
	if err := checkRange(l, r); err != nil {
		return 0, err
	}
	return b.Table(d).decode(l, r), nil
}

// Aggregate returns the (min, max) of the whole block. Padding is never
// selected, so the result covers exactly the real values.
func (b *Block[T]) Aggregate() ordering.Pair[T] {
	return b.QueryUnchecked(0, Size-1)
}

func checkRange(l, r int) error {
	if l < 0 || l > r || r >= Size {
		return fmt.Errorf("%w: [%d, %d]", ErrOutOfRange, l, r)
	}
	return nil
}
