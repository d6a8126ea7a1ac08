// Package s3 provides an S3 implementation of the blobstore.BlobStore interface.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("indexes/"),
//	    s3.WithRegion("us-east-1"),
//	)
//
//	err = rmq.Save(ctx, store, "prices.rmq", idx)
//	view, err := rmq.Load[float64](ctx, store, "prices.rmq")
//
// # Features
//
//   - Range reads for partial fetches
//   - Multipart uploads for large indexes
//   - CRC32C upload checksums
//   - Automatic pagination for listing
//   - Configurable prefix for multi-tenant isolation
package s3
