package table

import (
	"fmt"
	"maps"
	"slices"

	"github.com/hupe1980/groupcv/metadata"
)

// Columns is a column-oriented in-memory table.
type Columns struct {
	n    int
	cols map[string][]metadata.Value
}

// NewColumns creates a table from named columns. All columns must have the
// same length. A table with no columns has zero rows.
func NewColumns(cols map[string][]metadata.Value) (*Columns, error) {
	n := -1
	for _, name := range slices.Sorted(maps.Keys(cols)) {
		values := cols[name]
		if n < 0 {
			n = len(values)
			continue
		}
		if len(values) != n {
			return nil, fmt.Errorf("table: column %q has %d rows, expected %d", name, len(values), n)
		}
	}
	if n < 0 {
		n = 0
	}
	return &Columns{n: n, cols: maps.Clone(cols)}, nil
}

// Len returns the number of rows.
func (c *Columns) Len() int { return c.n }

// Column returns the values of the named column.
func (c *Columns) Column(name string) ([]metadata.Value, bool) {
	values, ok := c.cols[name]
	return values, ok
}

// Names returns the column names in sorted order.
func (c *Columns) Names() []string {
	return slices.Sorted(maps.Keys(c.cols))
}

// Rows is a row-oriented table. A column exists if at least one row carries
// the key; rows without the key read as null.
type Rows []metadata.Document

// Len returns the number of rows.
func (r Rows) Len() int { return len(r) }

// Column returns the values of the named column.
func (r Rows) Column(name string) ([]metadata.Value, bool) {
	found := false
	values := make([]metadata.Value, len(r))
	for i, doc := range r {
		v, ok := doc[name]
		if !ok {
			values[i] = metadata.Null()
			continue
		}
		values[i] = v
		found = true
	}
	if !found {
		return nil, false
	}
	return values, true
}

// Take returns the values at the given positions, in order.
func Take(values []metadata.Value, indices []int) []metadata.Value {
	out := make([]metadata.Value, len(indices))
	for i, idx := range indices {
		out[i] = values[idx]
	}
	return out
}
