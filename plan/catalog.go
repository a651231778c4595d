package plan

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Entry is a catalog record of a saved plan.
type Entry struct {
	Name      string    `json:"name"`
	Manifest  string    `json:"manifest"`
	Folds     int       `json:"folds"`
	Samples   int       `json:"samples"`
	CreatedAt time.Time `json:"created_at"`
}

// Catalog is a registry of saved plans.
//
// Writers claim a name with Register before uploading any blob, so a Catalog
// with atomic registration serializes concurrent writers of the same name.
type Catalog interface {
	// Register records e. It returns ErrPlanExists if the name is taken.
	Register(ctx context.Context, e Entry) error
	// Lookup returns the entry for name or ErrPlanNotFound.
	Lookup(ctx context.Context, name string) (Entry, error)
	// Remove deletes the entry for name. Removing a missing entry is not an error.
	Remove(ctx context.Context, name string) error
	// List returns all entries sorted by name.
	List(ctx context.Context) ([]Entry, error)
}

// MemoryCatalog is an in-memory Catalog for tests and single-process use.
type MemoryCatalog struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewMemoryCatalog creates an empty MemoryCatalog.
func NewMemoryCatalog() *MemoryCatalog {
	return &MemoryCatalog{entries: make(map[string]Entry)}
}

// Register implements Catalog.
func (c *MemoryCatalog) Register(_ context.Context, e Entry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[e.Name]; ok {
		return ErrPlanExists
	}
	c.entries[e.Name] = e
	return nil
}

// Lookup implements Catalog.
func (c *MemoryCatalog) Lookup(_ context.Context, name string) (Entry, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[name]
	if !ok {
		return Entry{}, ErrPlanNotFound
	}
	return e, nil
}

// Remove implements Catalog.
func (c *MemoryCatalog) Remove(_ context.Context, name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, name)
	return nil
}

// List implements Catalog.
func (c *MemoryCatalog) List(_ context.Context) ([]Entry, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Entry, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
