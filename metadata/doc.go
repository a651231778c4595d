// Package metadata provides the typed values used as group labels, targets and
// table cells, plus a Roaring Bitmap inverted index from value to positions.
//
// # Values
//
// Values can be:
//
//   - Null: metadata.Null()
//   - String: metadata.String("site-a")
//   - Int: metadata.Int(2024)
//   - Float: metadata.Float(3.14)
//   - Bool: metadata.Bool(true)
//   - Array: metadata.Array([]metadata.Value{...})
//
// Two values are the same label iff their Key is equal. Compare defines a total
// order consistent with Key, so sorting distinct labels is reproducible across
// runs and processes.
//
// # Index
//
// BuildIndex maps each distinct value to the compressed set of positions that
// carry it:
//
//	ix := metadata.BuildIndex(groups)
//	for _, g := range ix.Values() { // sorted
//	    rows := ix.Postings(g)
//	}
//	heldOut := ix.Union(a, b) // rows of group a or b
package metadata
