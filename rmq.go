package rmq

import (
	"context"
	"fmt"
	"time"

	"github.com/hupe1980/rmq/block"
	"github.com/hupe1980/rmq/ordering"
	"github.com/hupe1980/rmq/sparse"
)

// RMQ is an immutable range minimum/maximum index that owns its memory.
//
// All methods are safe for concurrent use.
type RMQ[T ordering.Element] struct {
	core[T]
}

// New builds an index over values. values is copied; the caller may reuse it.
//
// It returns an error wrapping ErrUnordered if values contains NaN. An empty
// input yields an empty index on which every query is out of range.
func New[T ordering.Element](values []T, opts ...Option) (*RMQ[T], error) {
	o := applyOptions(opts)

	start := time.Now()
	idx, err := build(values)
	elapsed := time.Since(start)

	o.metricsCollector.RecordBuild(len(values), elapsed, err)
	o.logger.LogBuild(context.Background(), len(values), elapsed, err)

	if err != nil {
		return nil, err
	}
	return idx, nil
}

func build[T ordering.Element](values []T) (*RMQ[T], error) {
	for i, v := range values {
		if !ordering.Valid(v) {
			return nil, fmt.Errorf("%w: NaN at position %d", ErrUnordered, i)
		}
	}

	blocks := make([]block.Block[T], (len(values)+block.Size-1)/block.Size)
	for i := range blocks {
		end := min((i+1)*block.Size, len(values))
		if err := block.Build(&blocks[i], values[i*block.Size:end]); err != nil {
			return nil, err
		}
	}

	return &RMQ[T]{core: core[T]{
		length: len(values),
		blocks: blocks,
		table:  sparse.Build[ordering.Pair[T]](blocks),
	}}, nil
}
