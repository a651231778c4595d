// Package groupcv provides group-aware cross-validation splits for Go.
//
// A Splitter holds out every combination of P distinct groups (for example
// acquisition sites) as the test set of one fold and trains on the remaining
// samples. Folds whose test targets carry a single class can be rejected so
// that every evaluated fold yields a meaningful metric.
//
// # Quick Start
//
//	groups := metadata.MustValues([]string{"A", "A", "B", "B", "C", "C"})
//	target := metadata.MustValues([]int{0, 1, 0, 0, 1, 1})
//
//	s, _ := groupcv.New(1) // leave one group out, robust filtering on
//	folds, err := s.Split(nil, target, groups)
//	if err != nil {
//	    return err
//	}
//	for train, test := range folds {
//	    fmt.Println(train, test) // [2 3 4 5] [0 1]
//	}
//
// Groups can also be read from a dataset column (default "site"):
//
//	df, _ := table.ReadCSV(f)
//	s, _ := groupcv.New(2, groupcv.WithColumn("site"))
//	n, _ := s.NSplits(df, nil, nil)
//
// # Keyed Output
//
// SplitKeyed yields Fold values that also carry the held-out combination.
// With P == 1 the key is the group value itself:
//
//	folds, _ := s.SplitKeyed(df, target, nil)
//	for f := range folds {
//	    fmt.Println(f.Key, len(f.Train), len(f.Test))
//	}
//
// # Ordering
//
// Distinct groups are sorted with metadata.Compare and combinations are
// enumerated in lexicographic order, so two calls with identical inputs
// produce identical folds in identical order. With WithShuffle the indices
// within each side of a fold are permuted; use WithSeed for reproducible
// permutations and WithShuffleMode to choose how the seed is reused.
//
// # Errors
//
// Validation happens before any fold is produced:
//
//   - *MissingGroupsError: no groups and no matching column
//   - *InsufficientGroupsError: not more distinct groups than P
//   - *ShapeMismatchError: dataset, target and groups lengths disagree
package groupcv
