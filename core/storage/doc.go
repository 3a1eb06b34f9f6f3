// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client so that input and output tables can live in a
// bucket instead of on the local disk. Tables in a bucket are addressed with
// s3://bucket/key locations. Both AWS S3 and self-hosted MinIO are supported.
//
// # Client Interface
//
// The Client interface abstracts the underlying storage provider, making it easier
// to mock storage interactions for unit testing (as seen in core/storage/mocks).
//
// # Operations
//
//   - BucketExists: Verifies access to the target bucket.
//   - PutObject: Uploads content (with size and options).
//   - GetObject: Retrieves content as a stream.
//
// # Usage
//
//	client, err := storage.NewClient(config)
//	bucket, key, err := storage.ParseObjectURI("s3://datasets/links.csv")
//	rc, err := client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
package storage
