package groupcv

import (
	"github.com/RoaringBitmap/roaring/v2"
	"github.com/bits-and-blooms/bitset"
)

// Mask is a fixed-length boolean test mask: position i is true iff sample i
// belongs to the held-out groups.
type Mask struct {
	bits *bitset.BitSet
	n    int
}

// newMask materializes positions into a dense mask of length n.
func newMask(n int, positions *roaring.Bitmap) *Mask {
	bits := bitset.New(uint(n))
	it := positions.Iterator()
	for it.HasNext() {
		bits.Set(uint(it.Next()))
	}
	return &Mask{bits: bits, n: n}
}

// Len returns the mask length (the number of samples).
func (m *Mask) Len() int { return m.n }

// Test reports whether position i is in the test set.
func (m *Mask) Test(i int) bool {
	if i < 0 || i >= m.n {
		return false
	}
	return m.bits.Test(uint(i))
}

// Count returns the number of test positions.
func (m *Mask) Count() int { return int(m.bits.Count()) }

// Bools returns the mask as a []bool of length Len.
func (m *Mask) Bools() []bool {
	out := make([]bool, m.n)
	for i, ok := m.bits.NextSet(0); ok && int(i) < m.n; i, ok = m.bits.NextSet(i + 1) {
		out[i] = true
	}
	return out
}

// Indices returns the true positions in ascending order (the test indices).
func (m *Mask) Indices() []int {
	out := make([]int, 0, m.Count())
	for i, ok := m.bits.NextSet(0); ok && int(i) < m.n; i, ok = m.bits.NextSet(i + 1) {
		out = append(out, int(i))
	}
	return out
}

// InverseIndices returns the false positions in ascending order (the train
// indices).
func (m *Mask) InverseIndices() []int {
	out := make([]int, 0, m.n-m.Count())
	for i := range m.n {
		if !m.bits.Test(uint(i)) {
			out = append(out, i)
		}
	}
	return out
}
