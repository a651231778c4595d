package minio

import (
	"context"
	"errors"
	"testing"

	"github.com/hupe1980/groupcv/blobstore"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapError(t *testing.T) {
	assert.ErrorIs(t, mapError(minio.ErrorResponse{Code: "NoSuchKey"}), blobstore.ErrNotFound)
	assert.ErrorIs(t, mapError(minio.ErrorResponse{Code: "NotFound"}), blobstore.ErrNotFound)

	other := errors.New("connection reset")
	assert.Equal(t, other, mapError(other))
}

func TestStore_Key(t *testing.T) {
	s := NewStore(nil, "bucket", "plans/")
	assert.Equal(t, "plans/loso/manifest.json", s.key("loso/manifest.json"))
}

// TestMinioStore_Integration requires a running MinIO instance.
// Skip if not available.
func TestMinioStore_Integration(t *testing.T) {
	bucket := "test-groupcv"

	store, err := Dial("localhost:9000", "minioadmin", "minioadmin", false, bucket, "test-prefix/")
	if err != nil {
		t.Skipf("MinIO client creation failed: %v", err)
	}

	ctx := context.Background()

	// Check if MinIO is reachable
	if _, err := store.client.ListBuckets(ctx); err != nil {
		t.Skipf("MinIO not available: %v", err)
	}

	exists, err := store.client.BucketExists(ctx, bucket)
	require.NoError(t, err)
	if !exists {
		require.NoError(t, store.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}))
	}

	data := []byte("hello minio world")
	require.NoError(t, store.Put(ctx, "plan/manifest.json", data))

	got, err := store.Get(ctx, "plan/manifest.json")
	require.NoError(t, err)
	assert.Equal(t, data, got)

	names, err := store.List(ctx, "plan/")
	require.NoError(t, err)
	assert.Equal(t, []string{"plan/manifest.json"}, names)

	require.NoError(t, store.Delete(ctx, "plan/manifest.json"))

	_, err = store.Get(ctx, "plan/manifest.json")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}
