// Package blobstore provides the storage abstraction the persistence layer
// writes namespace blobs through.
//
// # Built-in Implementations
//
//   - MemoryStore: in-memory, for tests and throwaway stores
//   - LocalStore: local filesystem with mmap reads and atomic rename writes
//   - s3.Store: Amazon S3 with range reads and streaming uploads
//   - minio.Store: MinIO and other S3-compatible object stores
//
// # Custom Implementations
//
// Implement the BlobStore interface to support custom storage backends:
//
//	type BlobStore interface {
//	    Open(ctx, name) (Blob, error)            // Open for reading
//	    Create(ctx, name) (WritableBlob, error)  // Create for streaming writes
//	    Put(ctx, name, data) error               // Atomic write
//	    Delete(ctx, name) error
//	    List(ctx, prefix) ([]string, error)
//	}
package blobstore
