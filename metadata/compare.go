package metadata

import (
	"cmp"
	"slices"
	"strings"
)

// Compare returns -1, 0 or +1 under a total order over all values.
//
// Values are ordered by Kind (null < bool < int < float < string < array),
// then by their natural order within the kind. Arrays compare
// element-wise, shorter prefix first. Compare(a, b) == 0 iff a.Key() == b.Key().
func Compare(a, b Value) int {
	if c := cmp.Compare(a.Kind, b.Kind); c != 0 {
		return c
	}

	var c int
	switch a.Kind {
	case KindBool:
		c = cmp.Compare(boolRank(a.B), boolRank(b.B))
	case KindInt:
		c = cmp.Compare(a.I64, b.I64)
	case KindFloat:
		c = cmp.Compare(a.F64, b.F64)
	case KindString:
		c = strings.Compare(a.s.Value(), b.s.Value())
	case KindArray:
		c = slices.CompareFunc(a.A, b.A, Compare)
	}
	if c != 0 {
		return c
	}

	// cmp.Compare treats all NaNs and both zeros as equal; the key breaks the tie.
	return strings.Compare(a.Key(), b.Key())
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Sort sorts values in place using Compare.
func Sort(values []Value) {
	slices.SortFunc(values, Compare)
}

// Distinct returns the distinct values of vs (by Key), sorted with Compare.
func Distinct(vs []Value) []Value {
	seen := make(map[string]struct{}, len(vs))
	out := make([]Value, 0)
	for _, v := range vs {
		k := v.Key()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, v)
	}
	Sort(out)
	return out
}
