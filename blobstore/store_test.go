package blobstore

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T, st ConditionalStore) {
	t.Helper()
	ctx := context.Background()

	t.Run("PutGet", func(t *testing.T) {
		require.NoError(t, st.Put(ctx, "a/b/blob.json", []byte("hello")))

		data, err := st.Get(ctx, "a/b/blob.json")
		require.NoError(t, err)
		assert.Equal(t, []byte("hello"), data)

		require.NoError(t, st.Put(ctx, "a/b/blob.json", []byte("world")))
		data, err = st.Get(ctx, "a/b/blob.json")
		require.NoError(t, err)
		assert.Equal(t, []byte("world"), data)
	})

	t.Run("NotFound", func(t *testing.T) {
		_, err := st.Get(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("PutIfNotExists", func(t *testing.T) {
		require.NoError(t, st.PutIfNotExists(ctx, "once", []byte("1")))
		assert.ErrorIs(t, st.PutIfNotExists(ctx, "once", []byte("2")), ErrExists)

		data, err := st.Get(ctx, "once")
		require.NoError(t, err)
		assert.Equal(t, []byte("1"), data)
	})

	t.Run("List", func(t *testing.T) {
		require.NoError(t, st.Put(ctx, "plan/folds/000001.json", []byte("{}")))
		require.NoError(t, st.Put(ctx, "plan/folds/000000.json", []byte("{}")))
		require.NoError(t, st.Put(ctx, "plan/manifest.json", []byte("{}")))
		require.NoError(t, st.Put(ctx, "other/manifest.json", []byte("{}")))

		names, err := st.List(ctx, "plan/")
		require.NoError(t, err)
		assert.Equal(t, []string{
			"plan/folds/000000.json",
			"plan/folds/000001.json",
			"plan/manifest.json",
		}, names)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, st.Put(ctx, "gone", []byte("x")))
		require.NoError(t, st.Delete(ctx, "gone"))
		require.NoError(t, st.Delete(ctx, "gone"))

		_, err := st.Get(ctx, "gone")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("ConcurrentConditionalPut", func(t *testing.T) {
		var (
			wg      sync.WaitGroup
			mu      sync.Mutex
			winners int
		)
		for range 8 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if st.PutIfNotExists(ctx, "race", []byte("x")) == nil {
					mu.Lock()
					winners++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, 1, winners)
	})
}

func TestLocalStore(t *testing.T) {
	dir := t.TempDir()
	st := NewLocalStore(dir)

	testStore(t, st)

	entries, err := os.ReadDir(filepath.Join(dir, "plan"))
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".tmp-")
	}
}

func TestLocalStore_ListMissingRoot(t *testing.T) {
	st := NewLocalStore(filepath.Join(t.TempDir(), "nope"))

	names, err := st.List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestMemoryStore(t *testing.T) {
	st := NewMemoryStore()

	testStore(t, st)

	data := []byte("abc")
	require.NoError(t, st.Put(context.Background(), "copy", data))
	data[0] = 'z'
	got, err := st.Get(context.Background(), "copy")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), got)
}

func TestCachingStore(t *testing.T) {
	ctx := context.Background()
	inner := NewMemoryStore()
	st := NewCachingStore(inner, 8)

	testStore(t, NewCachingStore(NewMemoryStore(), 1024))

	require.NoError(t, inner.Put(ctx, "a", []byte("aaaa")))
	require.NoError(t, inner.Put(ctx, "b", []byte("bbbb")))
	require.NoError(t, inner.Put(ctx, "c", []byte("cccc")))
	require.NoError(t, inner.Put(ctx, "big", []byte("0123456789")))

	_, err := st.Get(ctx, "a")
	require.NoError(t, err)
	_, err = st.Get(ctx, "a")
	require.NoError(t, err)

	hits, misses := st.Stats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(1), misses)
	assert.Equal(t, int64(4), st.Size())

	_, err = st.Get(ctx, "b")
	require.NoError(t, err)
	_, err = st.Get(ctx, "c") // evicts "a"
	require.NoError(t, err)
	assert.Equal(t, int64(8), st.Size())

	_, err = st.Get(ctx, "big")
	require.NoError(t, err)
	assert.Equal(t, int64(8), st.Size())

	_, err = st.Get(ctx, "a")
	require.NoError(t, err)
	hits, misses = st.Stats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(5), misses)

	require.NoError(t, st.Put(ctx, "a", []byte("AAAA")))
	got, err := st.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []byte("AAAA"), got)
}

// plainStore hides the conditional methods of a MemoryStore.
type plainStore struct{ Store }

func TestPutIfNotExists_Fallback(t *testing.T) {
	ctx := context.Background()
	st := plainStore{NewMemoryStore()}

	require.NoError(t, PutIfNotExists(ctx, st, "x", []byte("1")))
	assert.ErrorIs(t, PutIfNotExists(ctx, st, "x", []byte("2")), ErrExists)
}
