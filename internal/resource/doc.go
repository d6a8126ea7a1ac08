// Package resource bounds the resources shared by concurrently loaded
// indexes.
//
// A Controller manages three resource types:
//
//   - Memory: bytes held by resident indexes (non-blocking, fail-fast)
//   - Load slots: concurrent fetches from a blob store
//   - IO: read throughput of those fetches (token bucket)
//
// Example:
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes:   1 << 30,
//	    IOLimitBytesPerSec: 100 << 20,
//	})
//
//	if err := rc.AcquireMemory(size); err != nil {
//	    // ErrMemoryLimitExceeded - caller decides what to evict
//	}
//	defer rc.ReleaseMemory(size)
//
// All methods are safe for concurrent use, and all of them are no-ops on a
// nil *Controller.
package resource
