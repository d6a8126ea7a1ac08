package catalog

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/rmq"
	"github.com/hupe1980/rmq/blobstore"
	"github.com/hupe1980/rmq/internal/resource"
	"github.com/hupe1980/rmq/testutil"
)

// countingStore counts Open calls.
type countingStore struct {
	blobstore.BlobStore
	opens atomic.Int64
}

func (s *countingStore) Open(ctx context.Context, name string) (blobstore.Blob, error) {
	s.opens.Add(1)
	return s.BlobStore.Open(ctx, name)
}

func seed(t *testing.T, store blobstore.BlobStore, names ...string) map[string][]int64 {
	t.Helper()
	rng := testutil.NewRNG(4711)
	out := make(map[string][]int64, len(names))
	for _, name := range names {
		values := rng.Ints(500, -1000, 1000)
		idx, err := rmq.New(values)
		require.NoError(t, err)
		require.NoError(t, rmq.Save(context.Background(), store, name, idx))
		out[name] = values
	}
	return out
}

func TestCatalog_Get(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewLocalStore(t.TempDir())
	data := seed(t, store, "a", "b")

	cat := New[int64](store, Options{})
	defer cat.Close()

	for name, values := range data {
		v, release, err := cat.Get(ctx, name)
		require.NoError(t, err)

		lo, hi := testutil.BruteMinMax(values, 17, 444)
		got, err := v.Query(17, 444)
		require.NoError(t, err)
		assert.Equal(t, lo, got.Min)
		assert.Equal(t, hi, got.Max)

		release()
		release()
	}
	assert.Equal(t, []string{"a", "b"}, cat.Names())
	assert.Positive(t, cat.MemoryUsage())
}

func TestCatalog_LoadsOnce(t *testing.T) {
	ctx := context.Background()
	store := &countingStore{BlobStore: blobstore.NewMemoryStore()}
	seed(t, store, "shared")

	cat := New[int64](store, Options{})
	defer cat.Close()

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, release, err := cat.Get(ctx, "shared")
			if assert.NoError(t, err) {
				assert.Equal(t, 500, v.Len())
				release()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), store.opens.Load())
}

func TestCatalog_NotFound(t *testing.T) {
	cat := New[int64](blobstore.NewMemoryStore(), Options{})
	defer cat.Close()

	_, _, err := cat.Get(context.Background(), "missing")
	require.ErrorIs(t, err, blobstore.ErrNotFound)
	assert.Empty(t, cat.Names())
}

func TestCatalog_MemoryLimit(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	seed(t, store, "a", "b")

	blob, err := store.Open(ctx, "a")
	require.NoError(t, err)
	size := blob.Size()
	require.NoError(t, blob.Close())

	cat := New[int64](store, Options{MemoryLimitBytes: size + size/2})
	defer cat.Close()

	_, release, err := cat.Get(ctx, "a")
	require.NoError(t, err)
	release()

	_, _, err = cat.Get(ctx, "b")
	require.ErrorIs(t, err, resource.ErrMemoryLimitExceeded)

	cat.Evict("a")
	assert.Zero(t, cat.MemoryUsage())

	_, release, err = cat.Get(ctx, "b")
	require.NoError(t, err)
	release()
	assert.Equal(t, []string{"b"}, cat.Names())
}

func TestCatalog_EvictWhileHeld(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewLocalStore(t.TempDir())
	data := seed(t, store, "held")

	cat := New[int64](store, Options{})
	defer cat.Close()

	v, release, err := cat.Get(ctx, "held")
	require.NoError(t, err)

	cat.Evict("held")
	assert.Empty(t, cat.Names())

	// Still readable until released.
	got, err := v.At(3)
	require.NoError(t, err)
	assert.Equal(t, data["held"][3], got)
	assert.Positive(t, cat.MemoryUsage())

	release()
	assert.Zero(t, cat.MemoryUsage())

	cat.Evict("held")
}

func TestCatalog_Preload(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	seed(t, store, "x", "y", "z")

	cat := New[int64](store, Options{MaxConcurrentLoads: 2, IOLimitBytesPerSec: 1 << 30})
	defer cat.Close()

	require.NoError(t, cat.Preload(ctx, "x", "y", "z"))
	assert.Equal(t, []string{"x", "y", "z"}, cat.Names())

	err := cat.Preload(ctx, "x", "nope")
	require.ErrorIs(t, err, blobstore.ErrNotFound)
}

func TestCatalog_Close(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	seed(t, store, "a")

	cat := New[int64](store, Options{})
	_, release, err := cat.Get(ctx, "a")
	require.NoError(t, err)

	require.NoError(t, cat.Close())
	require.NoError(t, cat.Close())
	assert.Positive(t, cat.MemoryUsage())
	release()
	assert.Zero(t, cat.MemoryUsage())

	_, _, err = cat.Get(ctx, "a")
	require.ErrorIs(t, err, rmq.ErrClosed)
}

func TestCatalog_WrongKind(t *testing.T) {
	store := blobstore.NewMemoryStore()
	seed(t, store, "ints")

	cat := New[float32](store, Options{})
	defer cat.Close()

	_, _, err := cat.Get(context.Background(), "ints")
	require.Error(t, err)
	assert.Zero(t, cat.MemoryUsage())
}
