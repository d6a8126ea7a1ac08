package block

import (
	"math/bits"

	"github.com/hupe1980/rmq/internal/bitscan"
	"github.com/hupe1980/rmq/ordering"
)

// encode builds the packed ancestor table of values for direction d.
//
// ancestors[i] has bit j set iff j < i lies on the dominator chain of i, the
// chain of successively strictly better positions to the left of i. Entry i
// and entry Size-1-i use disjoint bit ranges, so each pair shares one word:
// word[i] = reverse16(ancestors[i] << (15-i) | ancestors[15-i]) >> 1.
func encode[T ordering.Element](values []T, d ordering.Direction) Table {
	n := len(values)

	var dom [Size]int8
	var stack [Size]int8
	top := 0
	for i := 0; i < n; i++ {
		for top > 0 && !ordering.Dominates(d, values[stack[top-1]], values[i]) {
			top--
		}
		if top == 0 {
			dom[i] = -1
		} else {
			dom[i] = stack[top-1]
		}
		stack[top] = int8(i)
		top++
	}
	// Padding hangs off the last real position.
	for i := n; i < Size; i++ {
		dom[i] = int8(n - 1)
	}

	var ancestors [Size]uint16
	for i := 1; i < Size; i++ {
		if g := dom[i]; g >= 0 {
			ancestors[i] = ancestors[g] | 1<<uint(g)
		}
	}

	var t Table
	for i := 0; i < TableWords; i++ {
		x := ancestors[i]<<(Size-1-i) | ancestors[Size-1-i]
		t[i] = bits.Reverse16(x) >> 1
	}
	return t
}

// decode returns the winning position of [l, r].
//
// After the shift, ancestor j of r sits at bit r-1-j; the mask keeps j in
// [l, r-1]. The highest surviving bit is the leftmost chain member inside the
// range, which dominates all of [l, r]. With no surviving bit r itself wins.
// The result is always inside [l, r].
func (t *Table) decode(l, r int) int {
	idx, shift := r, 0
	if r >= TableWords {
		idx = Size - 1 - r
		shift = idx
	}
	mask := uint16(0x7fff) >> (Size - 1 - (r - l))
	word := (t[idx&(TableWords-1)] >> shift) & mask
	return bitscan.LeadingZeros(uint64(word)) - (64 - r)
}
