package groupcv

import "github.com/hupe1980/groupcv/metadata"

// Fold is one train/test partition produced by a Splitter.
//
// Train and Test are disjoint and together hold every position in [0, N).
type Fold struct {
	// Key identifies the held-out combination. With one held-out group it is
	// the group value itself, otherwise an array of the held-out groups.
	Key metadata.Value `json:"key"`
	// Groups lists the held-out groups in enumeration order.
	Groups []metadata.Value `json:"groups"`
	Train  []int            `json:"train"`
	Test   []int            `json:"test"`
}

// combinationKey builds the key of a combination.
func combinationKey(groups []metadata.Value) metadata.Value {
	if len(groups) == 1 {
		return groups[0]
	}
	return metadata.Array(groups)
}
