// Package testutil provides testing utilities for groupcv.
//
// This package is intended for use in tests and benchmarks only.
// It provides a seeded RNG, a synthetic grouped-dataset generator and a
// partition checker for produced folds.
//
// # Synthetic Data
//
//	rng := testutil.NewRNG(42)
//	ds := rng.GroupedDataset(testutil.DatasetSpec{Groups: 5, PerGroup: 20, Classes: 2})
//	s, _ := groupcv.New(2)
//	folds, _ := s.Split(ds.Table, ds.Target, nil)
//
// # Partition Checks
//
//	for train, test := range folds {
//	    if err := testutil.CheckPartition(len(ds.Groups), train, test); err != nil {
//	        t.Fatal(err)
//	    }
//	}
package testutil
