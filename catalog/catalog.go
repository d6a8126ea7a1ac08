package catalog

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/hupe1980/rmq"
	"github.com/hupe1980/rmq/blobstore"
	"github.com/hupe1980/rmq/internal/conv"
	"github.com/hupe1980/rmq/internal/resource"
	"github.com/hupe1980/rmq/ordering"
)

// Options configures a Catalog.
type Options struct {
	// MemoryLimitBytes caps the total size of resident indexes.
	// If 0, no limit is enforced.
	MemoryLimitBytes int64

	// IOLimitBytesPerSec caps the rate at which blobs are read.
	// If 0, unlimited.
	IOLimitBytesPerSec int64

	// MaxConcurrentLoads bounds loads in flight, including Preload.
	// If 0, defaults to 4.
	MaxConcurrentLoads int64

	// Logger receives load and eviction events. Default: rmq.NoopLogger().
	Logger *rmq.Logger

	// OpenOptions are passed to rmq.Load.
	OpenOptions []rmq.Option
}

type entry[T ordering.Element] struct {
	name    string
	view    *rmq.View[T]
	size    int64
	refs    int
	evicted bool
}

// Catalog caches views loaded from a blob store by name.
// It is safe for concurrent use.
type Catalog[T ordering.Element] struct {
	store       blobstore.BlobStore
	rc          *resource.Controller
	logger      *rmq.Logger
	openOpts    []rmq.Option
	concurrency int

	flight singleflight.Group

	mu      sync.Mutex
	entries map[string]*entry[T]
	closed  bool
}

// New creates a catalog over store.
func New[T ordering.Element](store blobstore.BlobStore, opts Options) *Catalog[T] {
	rc := resource.NewController(resource.Config{
		MemoryLimitBytes:   opts.MemoryLimitBytes,
		MaxConcurrentLoads: opts.MaxConcurrentLoads,
		IOLimitBytesPerSec: opts.IOLimitBytesPerSec,
	})

	logger := opts.Logger
	if logger == nil {
		logger = rmq.NoopLogger()
	}

	concurrency := int(opts.MaxConcurrentLoads)
	if concurrency <= 0 {
		concurrency = 4
	}

	return &Catalog[T]{
		store:       &throttledStore{BlobStore: store, rc: rc},
		rc:          rc,
		logger:      logger,
		openOpts:    append([]rmq.Option{rmq.WithLogger(logger)}, opts.OpenOptions...),
		concurrency: concurrency,
		entries:     make(map[string]*entry[T]),
	}
}

// Get returns the index stored under name, loading it on first use.
//
// The view stays valid until release is called; release is idempotent.
// Callers must not Close the view themselves. Concurrent calls for a name that
// is not yet resident share one load, which runs under the first caller's
// context.
func (c *Catalog[T]) Get(ctx context.Context, name string) (*rmq.View[T], func(), error) {
	for {
		e, err := c.acquire(name)
		if err != nil {
			return nil, nil, err
		}
		if e != nil {
			return e.view, c.releaser(e), nil
		}

		res, err, _ := c.flight.Do(name, func() (any, error) {
			return c.load(ctx, name)
		})
		if err != nil {
			return nil, nil, err
		}

		loaded, _ := res.(*entry[T])
		c.mu.Lock()
		if !loaded.evicted {
			loaded.refs++
			c.mu.Unlock()
			return loaded.view, c.releaser(loaded), nil
		}
		// Evicted between load and pickup; try again.
		c.mu.Unlock()
	}
}

func (c *Catalog[T]) acquire(name string) (*entry[T], error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, rmq.ErrClosed
	}
	e, ok := c.entries[name]
	if !ok {
		return nil, nil
	}
	e.refs++
	return e, nil
}

func (c *Catalog[T]) releaser(e *entry[T]) func() {
	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()

			e.refs--
			if e.evicted && e.refs == 0 {
				c.dispose(e)
			}
		})
	}
}

func (c *Catalog[T]) load(ctx context.Context, name string) (*entry[T], error) {
	c.mu.Lock()
	if e, ok := c.entries[name]; ok {
		c.mu.Unlock()
		return e, nil
	}
	c.mu.Unlock()

	if err := c.rc.AcquireLoad(ctx); err != nil {
		return nil, err
	}
	defer c.rc.ReleaseLoad()

	v, err := rmq.Load[T](ctx, c.store, name, c.openOpts...)
	if err != nil {
		return nil, err
	}

	size := int64(len(v.Bytes()))
	if err := c.rc.AcquireMemory(size); err != nil {
		_ = v.Close()
		c.logger.WarnContext(ctx, "index rejected",
			"name", name,
			"bytes", size,
			"usage", c.rc.MemoryUsage(),
			"limit", c.rc.MemoryLimit(),
		)
		return nil, fmt.Errorf("catalog: %s: %w", name, err)
	}

	e := &entry[T]{name: name, view: v, size: size}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		c.dispose(e)
		return nil, rmq.ErrClosed
	}
	c.entries[name] = e
	return e, nil
}

// dispose closes the view and returns its memory. c.mu must be held.
func (c *Catalog[T]) dispose(e *entry[T]) {
	_ = e.view.Close()
	c.rc.ReleaseMemory(e.size)
	c.logger.LogEvict(context.Background(), e.name, e.size)
}

// Preload loads names in parallel, bounded by MaxConcurrentLoads, and
// leaves them resident. It returns the first error.
func (c *Catalog[T]) Preload(ctx context.Context, names ...string) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)

	for _, name := range names {
		g.Go(func() error {
			_, release, err := c.Get(ctx, name)
			if err != nil {
				return err
			}
			release()
			return nil
		})
	}
	return g.Wait()
}

// Evict drops name from the catalog. Its view is closed once the last
// outstanding Get is released. Evicting an absent name is a no-op.
func (c *Catalog[T]) Evict(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[name]; ok {
		c.evict(e)
	}
}

func (c *Catalog[T]) evict(e *entry[T]) {
	delete(c.entries, e.name)
	e.evicted = true
	if e.refs == 0 {
		c.dispose(e)
	}
}

// Names returns the resident index names in sorted order.
func (c *Catalog[T]) Names() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	names := make([]string, 0, len(c.entries))
	for name := range c.entries {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// MemoryUsage returns the bytes held by resident indexes.
func (c *Catalog[T]) MemoryUsage() int64 {
	return c.rc.MemoryUsage()
}

// Close evicts every index and rejects further Gets with rmq.ErrClosed.
// Views still held by callers are closed when released.
func (c *Catalog[T]) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	for _, e := range c.entries {
		c.evict(e)
	}
	return nil
}

// throttledStore charges every opened blob against the IO limit.
type throttledStore struct {
	blobstore.BlobStore
	rc *resource.Controller
}

func (s *throttledStore) Open(ctx context.Context, name string) (blobstore.Blob, error) {
	b, err := s.BlobStore.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	n, err := conv.Int64ToInt(b.Size())
	if err == nil {
		err = s.rc.AcquireIO(ctx, n)
	}
	if err != nil {
		_ = b.Close()
		return nil, err
	}
	return b, nil
}
