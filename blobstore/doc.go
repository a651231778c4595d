// Package blobstore provides the storage abstraction used to persist split
// plans.
//
// Store is the interface for reading and writing whole blobs (manifests,
// fold files). Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - LocalStore: Local filesystem with atomic rename
//   - MemoryStore: In-memory, for tests
//   - CachingStore: LRU read cache in front of any Store
//   - s3.Store: Amazon S3 with multipart uploads
//   - minio.Store: MinIO and other S3-compatible services
//
// # Custom Implementations
//
//	type Store interface {
//	    Put(ctx, name, data) error         // Atomic write
//	    Get(ctx, name) ([]byte, error)     // ErrNotFound if missing
//	    Delete(ctx, name) error
//	    List(ctx, prefix) ([]string, error)
//	}
//
// Stores that can create a blob only if it is absent should also implement
// ConditionalStore; plan manifests are written that way.
package blobstore
