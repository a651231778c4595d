package metadata

import (
	"github.com/RoaringBitmap/roaring/v2"
)

// Index is an inverted index from a value to the positions that carry it.
//
// Architecture:
//   - Postings: map[valueKey]*roaring.Bitmap (compressed position lists)
//   - Values: distinct values sorted with Compare
//
// An Index is immutable once built and safe for concurrent reads.
type Index struct {
	size     int
	values   []Value
	postings map[string]*roaring.Bitmap
}

// BuildIndex indexes values by position: position i is added to the posting
// list of values[i].
func BuildIndex(values []Value) *Index {
	ix := &Index{
		size:     len(values),
		postings: make(map[string]*roaring.Bitmap),
	}

	for i, v := range values {
		key := v.Key()
		bitmap, ok := ix.postings[key]
		if !ok {
			bitmap = roaring.New()
			ix.postings[key] = bitmap
			ix.values = append(ix.values, v)
		}
		bitmap.Add(uint32(i))
	}

	for _, bitmap := range ix.postings {
		bitmap.RunOptimize()
	}

	Sort(ix.values)

	return ix
}

// Size returns the number of indexed positions.
func (ix *Index) Size() int {
	return ix.size
}

// Len returns the number of distinct values.
func (ix *Index) Len() int {
	return len(ix.values)
}

// Values returns the distinct values, sorted with Compare.
// The returned slice must not be modified.
func (ix *Index) Values() []Value {
	return ix.values
}

// Postings returns the positions carrying v, or nil if v is absent.
// The returned bitmap must not be modified.
func (ix *Index) Postings(v Value) *roaring.Bitmap {
	return ix.postings[v.Key()]
}

// Union returns a new bitmap holding every position whose value is one of vs.
func (ix *Index) Union(vs ...Value) *roaring.Bitmap {
	result := roaring.New()
	for _, v := range vs {
		if bitmap := ix.postings[v.Key()]; bitmap != nil {
			result.Or(bitmap)
		}
	}
	return result
}

// Stats returns statistics about the index.
type Stats struct {
	Positions   int    // Indexed positions
	Distinct    int    // Number of distinct values
	MemoryBytes uint64 // Serialized size of all posting lists
}

// GetStats returns statistics about the index.
func (ix *Index) GetStats() Stats {
	stats := Stats{
		Positions: ix.size,
		Distinct:  len(ix.values),
	}
	for _, bitmap := range ix.postings {
		stats.MemoryBytes += bitmap.GetSizeInBytes()
	}
	return stats
}
