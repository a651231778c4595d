package table

import (
	"fmt"
	"slices"

	"github.com/hupe1980/groupcv/metadata"
	"gonum.org/v1/gonum/mat"
)

// Matrix adapts a numeric gonum matrix with named columns to Table.
// Every cell reads as a Float value.
type Matrix struct {
	m     mat.Matrix
	names []string
}

// NewMatrix wraps m. names must hold one unique name per column.
func NewMatrix(m mat.Matrix, names []string) (*Matrix, error) {
	_, c := m.Dims()
	if len(names) != c {
		return nil, fmt.Errorf("table: matrix has %d columns, got %d names", c, len(names))
	}
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("table: duplicate column name %q", name)
		}
		seen[name] = struct{}{}
	}
	return &Matrix{m: m, names: slices.Clone(names)}, nil
}

// Len returns the number of rows.
func (t *Matrix) Len() int {
	r, _ := t.m.Dims()
	return r
}

// Column returns the values of the named column.
func (t *Matrix) Column(name string) ([]metadata.Value, bool) {
	j := slices.Index(t.names, name)
	if j < 0 {
		return nil, false
	}
	r, _ := t.m.Dims()
	values := make([]metadata.Value, r)
	for i := range r {
		values[i] = metadata.Float(t.m.At(i, j))
	}
	return values, true
}

// Rows returns a dense copy of the given rows, in order.
func (t *Matrix) Rows(indices []int) *mat.Dense {
	_, c := t.m.Dims()
	if len(indices) == 0 {
		return &mat.Dense{}
	}
	out := mat.NewDense(len(indices), c, nil)
	for i, idx := range indices {
		for j := range c {
			out.Set(i, j, t.m.At(idx, j))
		}
	}
	return out
}
