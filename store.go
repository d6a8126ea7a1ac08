package rmq

import (
	"context"
	"fmt"
	"time"

	"github.com/hupe1980/rmq/blobstore"
	"github.com/hupe1980/rmq/internal/conv"
	"github.com/hupe1980/rmq/ordering"
	"github.com/hupe1980/rmq/persistence"
)

// Save stores idx in store under name, compressed as configured with
// WithCompression. Uncompressed indexes are streamed; the blob only appears
// once it is complete.
func Save[T ordering.Element](ctx context.Context, store blobstore.BlobStore, name string, idx *RMQ[T], opts ...Option) error {
	o := applyOptions(opts)

	start := time.Now()
	n, err := save(ctx, store, name, idx, o)
	elapsed := time.Since(start)

	o.metricsCollector.RecordSave(n, elapsed, err)
	o.logger.LogSave(ctx, name, n, elapsed, err)

	if err != nil {
		return fmt.Errorf("save %s: %w", name, err)
	}
	return nil
}

func save[T ordering.Element](ctx context.Context, store blobstore.BlobStore, name string, idx *RMQ[T], o options) (int64, error) {
	if o.compression == persistence.CompressionNone {
		w, err := store.Create(ctx, name)
		if err != nil {
			return 0, err
		}
		n, err := idx.WriteTo(w)
		if err != nil {
			abort(w)
			return n, err
		}
		return n, w.Close()
	}

	buf, err := idx.MarshalBinary()
	if err != nil {
		return 0, err
	}
	data, err := persistence.Compress(buf, o.compression)
	if err != nil {
		return 0, err
	}
	return int64(len(data)), store.Put(ctx, name, data)
}

func abort(w blobstore.WritableBlob) {
	if a, ok := w.(blobstore.Abortable); ok {
		_ = a.Abort()
		return
	}
	_ = w.Close()
}

// Load opens the index stored under name.
//
// Raw blobs whose content is already in memory (blobstore.Mappable, e.g.
// LocalStore mappings) are opened in place and released by View.Close.
// Everything else, including compressed blobs, is read into an aligned
// buffer first.
func Load[T ordering.Element](ctx context.Context, store blobstore.BlobStore, name string, opts ...Option) (*View[T], error) {
	o := applyOptions(opts)

	start := time.Now()
	v, n, err := load[T](ctx, store, name, o)
	elapsed := time.Since(start)

	o.metricsCollector.RecordLoad(n, elapsed, err)
	o.logger.LogLoad(ctx, name, n, elapsed, err)

	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	return v, nil
}

func load[T ordering.Element](ctx context.Context, store blobstore.BlobStore, name string, o options) (*View[T], int64, error) {
	blob, err := store.Open(ctx, name)
	if err != nil {
		return nil, 0, err
	}
	size := blob.Size()

	if m, ok := blob.(blobstore.Mappable); ok {
		data, err := m.Bytes()
		if err != nil {
			_ = blob.Close()
			return nil, size, err
		}
		if !persistence.IsCompressed(data) && persistence.IsAligned(data) {
			v, err := open[T](ctx, data, blob.Close, o)
			if err != nil {
				_ = blob.Close()
				return nil, size, err
			}
			return v, size, nil
		}
	}

	n, err := conv.Int64ToInt(size)
	if err != nil {
		_ = blob.Close()
		return nil, size, err
	}
	buf := persistence.AlignedBuffer(n)
	err = blobstore.ReadFull(ctx, blob, buf)
	_ = blob.Close()
	if err != nil {
		return nil, size, err
	}

	raw, err := persistence.Decompress(buf)
	if err != nil {
		return nil, size, err
	}
	v, err := open[T](ctx, raw, nil, o)
	return v, size, err
}
