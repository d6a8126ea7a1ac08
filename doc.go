// Package rmq provides a static range minimum/maximum query index.
//
// An index is built once from a slice of numbers and then answers, for any
// closed range [l, r], the smallest and largest value in constant time.
//
// Values are grouped into blocks of 16. Each block stores its values plus a
// compact ancestor table per direction, which answers queries inside the
// block with a shift, a mask and a leading-zero count. A sparse table over
// per-block aggregates answers the part of a query that spans whole blocks.
//
// Quick start:
//
//	idx, err := rmq.New([]int32{3, 5, 8, 4, 10, 1, 2, 9})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	res, _ := idx.Query(1, 4)
//	fmt.Println(res.Min, res.Max) // 4 10
//
// Persistence:
//
// MarshalBinary and WriteTo produce a single contiguous buffer that Open
// validates and then reads in place, without copying. OpenFile does the same
// over a read-only memory mapping. Save and Load move indexes through a
// blobstore.BlobStore (local disk, memory, S3 or MinIO), optionally wrapped in
// an LZ4 or Zstandard envelope.
//
// Checked methods return an error wrapping ErrOutOfRange for invalid ranges.
// The Unchecked variants skip validation; calling them with an invalid range
// is a programming error.
package rmq
