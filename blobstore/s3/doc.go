// Package s3 provides an S3 implementation of the blobstore.BlobStore interface.
//
// # Usage
//
//	cfg, err := config.LoadDefaultConfig(ctx)
//	store := s3.NewStore(awss3.NewFromConfig(cfg), "my-bucket", "graphs/")
//
//	err = snapshot.Publish(ctx, store, "graphs-0001.jldb", db.Triples())
//
// CommitStore adds a DynamoDB table holding the CURRENT pointer, which turns
// Publish into a compare-and-swap so concurrent publishers never lose an
// update silently.
//
// # Features
//
//   - Range reads for partial fetches
//   - CRC32C-checked single-part puts for small blobs
//   - Multipart uploads for large snapshots
//   - Automatic pagination for listing
//   - Configurable prefix for multi-tenant isolation
package s3
