package rmq

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/hupe1980/rmq/internal/mmap"
	"github.com/hupe1980/rmq/ordering"
	"github.com/hupe1980/rmq/persistence"
	"github.com/hupe1980/rmq/sparse"
)

// View is a read-only index over a serialized buffer. It answers every query
// exactly like the RMQ it was serialized from, reading the buffer in place.
//
// The buffer must outlive the view and must not be modified while the view
// is in use. All methods are safe for concurrent use; Close must not race
// with queries.
type View[T ordering.Element] struct {
	core[T]
	buf     []byte
	release func() error
	closed  atomic.Bool
}

// Open validates buf and returns a view aliasing it. Validation is a single
// linear pass (checksum and, for float kinds, NaN scan); nothing is copied.
//
// buf must start on an 8-byte boundary; see persistence.AlignedBuffer.
func Open[T ordering.Element](buf []byte, opts ...Option) (*View[T], error) {
	return open[T](context.Background(), buf, nil, applyOptions(opts))
}

// OpenFile maps the file at path read-only and opens a view over it.
// Close unmaps the file.
func OpenFile[T ordering.Element](path string, opts ...Option) (*View[T], error) {
	m, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}
	_ = m.Advise(mmap.AccessRandom)

	v, err := open[T](context.Background(), m.Bytes(), m.Close, applyOptions(opts))
	if err != nil {
		_ = m.Close()
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return v, nil
}

func open[T ordering.Element](ctx context.Context, buf []byte, release func() error, o options) (*View[T], error) {
	start := time.Now()
	v, err := decodeView[T](buf, o)
	elapsed := time.Since(start)

	o.metricsCollector.RecordOpen(len(buf), elapsed, err)
	o.logger.LogOpen(ctx, len(buf), elapsed, err)

	if err != nil {
		return nil, err
	}
	v.release = release
	return v, nil
}

func decodeView[T ordering.Element](buf []byte, o options) (*View[T], error) {
	layout, _, err := persistence.Decode[T](buf, persistence.DecodeOptions{SkipChecksum: !o.verifyChecksum})
	if err != nil {
		return nil, err
	}
	table, err := sparse.FromParts(layout.Entries, layout.Heads)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", persistence.ErrCorrupt, err)
	}
	if table.Len() != len(layout.Blocks) {
		return nil, fmt.Errorf("%w: table covers %d blocks, have %d", persistence.ErrCorrupt, table.Len(), len(layout.Blocks))
	}
	return &View[T]{
		core: core[T]{
			length: layout.Length,
			blocks: layout.Blocks,
			table:  table,
		},
		buf: buf,
	}, nil
}

// Bytes returns the buffer the view reads from.
func (v *View[T]) Bytes() []byte {
	return v.buf
}

// Close releases the resources backing the view, such as a file mapping.
// The view must not be used afterwards. Close is idempotent.
func (v *View[T]) Close() error {
	if v.closed.Swap(true) {
		return nil
	}
	if v.release != nil {
		return v.release()
	}
	return nil
}
