package blobstore

import (
	"context"
	"os"
)

// ErrNotFound is returned when a blob does not exist.
//
// Implementations should return an error that satisfies `errors.Is(err, ErrNotFound)`.
// The default maps to `os.ErrNotExist`.
var ErrNotFound = os.ErrNotExist

// ErrExists is returned by PutIfNotExists when the blob is already present.
var ErrExists = os.ErrExist

// Store is an abstraction for reading and writing whole blobs by name.
//
// Names are slash-separated relative paths ("plan/folds/000001.json").
// Implementations must be safe for concurrent use.
type Store interface {
	// Put writes a blob atomically, replacing any previous content.
	Put(ctx context.Context, name string, data []byte) error
	// Get returns the content of a blob or ErrNotFound.
	Get(ctx context.Context, name string) ([]byte, error)
	// Delete removes a blob. Deleting a missing blob is not an error.
	Delete(ctx context.Context, name string) error
	// List returns the sorted names of all blobs with the given prefix.
	List(ctx context.Context, prefix string) ([]string, error)
}

// ConditionalStore is implemented by stores that can create a blob only if
// it does not exist yet.
type ConditionalStore interface {
	Store
	// PutIfNotExists writes a blob unless one with the same name exists, in
	// which case it returns ErrExists.
	PutIfNotExists(ctx context.Context, name string, data []byte) error
}
