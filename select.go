package rmq

import (
	"github.com/RoaringBitmap/roaring/v2/roaring64"

	"github.com/hupe1980/rmq/block"
)

// Select returns the positions in [l, r] whose values lie in [lo, hi].
//
// Whole runs of blocks are accepted or skipped using their aggregates, so
// the cost depends on how many blocks straddle the band rather than on r-l.
func (c *core[T]) Select(l, r int, lo, hi T) (*roaring64.Bitmap, error) {
	if err := c.checkRange(l, r); err != nil {
		return nil, err
	}
	out := roaring64.New()
	if !(lo <= hi) {
		return out, nil
	}

	lb, rb := l>>blockShift, r>>blockShift
	if lb == rb {
		c.selectBlock(out, lb, l&blockMask, r&blockMask, lo, hi)
		return out, nil
	}

	c.selectBlock(out, lb, l&blockMask, blockMask, lo, hi)
	if lb+1 < rb {
		c.selectBlocks(out, lb+1, rb-1, lo, hi)
	}
	c.selectBlock(out, rb, 0, r&blockMask, lo, hi)
	return out, nil
}

// selectBlocks handles the full blocks [a, b], splitting the run until its
// aggregate is decisive.
func (c *core[T]) selectBlocks(out *roaring64.Bitmap, a, b int, lo, hi T) {
	agg := c.table.QueryUnchecked(a, b)
	switch {
	case !agg.Overlaps(lo, hi):
		return
	case agg.Within(lo, hi):
		out.AddRange(uint64(a)<<blockShift, uint64(b+1)<<blockShift)
		return
	case a == b:
		c.selectBlock(out, a, 0, blockMask, lo, hi)
		return
	}
	mid := a + (b-a)/2
	c.selectBlocks(out, a, mid, lo, hi)
	c.selectBlocks(out, mid+1, b, lo, hi)
}

// selectBlock handles positions [from, to] of block i.
func (c *core[T]) selectBlock(out *roaring64.Bitmap, i, from, to int, lo, hi T) {
	blk := &c.blocks[i]
	agg := blk.QueryUnchecked(from, to)
	base := uint64(i) << blockShift

	switch {
	case !agg.Overlaps(lo, hi):
		return
	case agg.Within(lo, hi):
		out.AddRange(base+uint64(from), base+uint64(to)+1)
		return
	}

	var hits [block.Size]uint64
	n := 0
	for j := from; j <= to; j++ {
		if v := blk.Values[j]; v >= lo && v <= hi {
			hits[n] = base + uint64(j)
			n++
		}
	}
	out.AddMany(hits[:n])
}
