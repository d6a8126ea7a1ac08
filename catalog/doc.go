// Package catalog serves named indexes from a blob store.
//
// A Catalog loads each index at most once, even when many goroutines ask for
// it at the same time, and keeps it resident until it is evicted. Loads are
// admitted against a memory budget and paced by an IO rate limit.
//
//	cat := catalog.New[int64](blobstore.NewLocalStore(dir), catalog.Options{
//	    MemoryLimitBytes: 1 << 30,
//	})
//	defer cat.Close()
//
//	v, release, err := cat.Get(ctx, "prices/2024")
//	if err != nil {
//	    return err
//	}
//	defer release()
//	lo, _ := v.Min(l, r)
package catalog
