package blobstore

import (
	"container/list"
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

// CachingStore wraps a Store and keeps recently read blobs in an LRU cache
// bounded by total size in bytes.
//
// Writes and deletes through the CachingStore invalidate the cached copy.
// Writes that bypass it are not observed.
type CachingStore struct {
	inner Store

	mu        sync.Mutex
	capacity  int64
	size      int64
	items     map[string]*list.Element
	evictList *list.List

	hits   atomic.Int64
	misses atomic.Int64
}

type cacheEntry struct {
	name  string
	value []byte
}

// NewCachingStore creates a new CachingStore holding at most capacity bytes.
func NewCachingStore(inner Store, capacity int64) *CachingStore {
	return &CachingStore{
		inner:     inner,
		capacity:  capacity,
		items:     make(map[string]*list.Element),
		evictList: list.New(),
	}
}

// Get returns a cached blob or reads it from the inner store.
func (s *CachingStore) Get(ctx context.Context, name string) ([]byte, error) {
	if data, ok := s.lookup(name); ok {
		s.hits.Add(1)
		return clone(data), nil
	}
	s.misses.Add(1)

	data, err := s.inner.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	s.add(name, clone(data))
	return data, nil
}

// Put writes through to the inner store and invalidates the cached copy.
func (s *CachingStore) Put(ctx context.Context, name string, data []byte) error {
	s.invalidate(name)
	return s.inner.Put(ctx, name, data)
}

// PutIfNotExists writes through if the inner store supports conditional
// writes. Otherwise it checks for the blob first, which is not atomic.
func (s *CachingStore) PutIfNotExists(ctx context.Context, name string, data []byte) error {
	s.invalidate(name)
	if cs, ok := s.inner.(ConditionalStore); ok {
		return cs.PutIfNotExists(ctx, name, data)
	}
	return PutIfNotExists(ctx, s.inner, name, data)
}

// Delete removes the blob from the inner store and the cache.
func (s *CachingStore) Delete(ctx context.Context, name string) error {
	s.invalidate(name)
	return s.inner.Delete(ctx, name)
}

// List is passed through uncached.
func (s *CachingStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.inner.List(ctx, prefix)
}

// Stats returns the cache hit and miss counts.
func (s *CachingStore) Stats() (hits, misses int64) {
	return s.hits.Load(), s.misses.Load()
}

// Size returns the current size of the cache in bytes.
func (s *CachingStore) Size() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.size
}

func (s *CachingStore) lookup(name string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ent, ok := s.items[name]; ok {
		s.evictList.MoveToFront(ent)
		return ent.Value.(*cacheEntry).value, true
	}
	return nil, false
}

func (s *CachingStore) add(name string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	itemSize := int64(len(data))
	// Blobs larger than the whole cache are not cached.
	if itemSize > s.capacity {
		return
	}

	if ent, ok := s.items[name]; ok {
		s.removeElement(ent)
	}

	for s.size+itemSize > s.capacity {
		ent := s.evictList.Back()
		if ent == nil {
			break
		}
		s.removeElement(ent)
	}

	s.items[name] = s.evictList.PushFront(&cacheEntry{name: name, value: data})
	s.size += itemSize
}

func (s *CachingStore) invalidate(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ent, ok := s.items[name]; ok {
		s.removeElement(ent)
	}
}

func (s *CachingStore) removeElement(e *list.Element) {
	s.evictList.Remove(e)
	kv := e.Value.(*cacheEntry)
	delete(s.items, kv.name)
	s.size -= int64(len(kv.value))
}

// PutIfNotExists writes a blob through st unless it already exists. Stores
// implementing ConditionalStore do this atomically; for others the check and
// the write are separate calls.
func PutIfNotExists(ctx context.Context, st Store, name string, data []byte) error {
	if cs, ok := st.(ConditionalStore); ok {
		return cs.PutIfNotExists(ctx, name, data)
	}

	_, err := st.Get(ctx, name)
	switch {
	case err == nil:
		return ErrExists
	case !errors.Is(err, ErrNotFound):
		return err
	}
	return st.Put(ctx, name, data)
}
