package groupcv

import (
	"errors"
	"slices"
	"testing"

	"github.com/hupe1980/groupcv/metadata"
	"github.com/hupe1980/groupcv/table"
	"github.com/hupe1980/groupcv/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat/combin"
)

var (
	sites   = metadata.MustValues([]string{"A", "A", "B", "B", "C", "C"})
	classes = metadata.MustValues([]int{0, 1, 0, 0, 1, 1})
)

func collect(t *testing.T, s *Splitter, data table.Table, target, groups []metadata.Value) []Fold {
	t.Helper()

	seq, err := s.SplitKeyed(data, target, groups)
	require.NoError(t, err)

	var folds []Fold
	for f := range seq {
		folds = append(folds, f)
	}
	return folds
}

func TestSplitter(t *testing.T) {
	t.Run("LeaveOneSiteOutRobust", func(t *testing.T) {
		s, err := New(1)
		require.NoError(t, err)

		folds := collect(t, s, nil, classes, sites)
		require.Len(t, folds, 1)

		assert.Equal(t, metadata.String("A"), folds[0].Key)
		assert.Equal(t, []int{0, 1}, folds[0].Test)
		assert.Equal(t, []int{2, 3, 4, 5}, folds[0].Train)
	})

	t.Run("LeaveOneSiteOutNotRobust", func(t *testing.T) {
		s, err := New(1, WithRobust(false))
		require.NoError(t, err)

		folds := collect(t, s, nil, classes, sites)
		require.Len(t, folds, 3)

		assert.Equal(t, metadata.String("A"), folds[0].Key)
		assert.Equal(t, metadata.String("B"), folds[1].Key)
		assert.Equal(t, metadata.String("C"), folds[2].Key)
		assert.Equal(t, []int{2, 3}, folds[1].Test)
		assert.Equal(t, []int{0, 1, 4, 5}, folds[1].Train)
	})

	t.Run("LeaveTwoSitesOut", func(t *testing.T) {
		s, err := New(2)
		require.NoError(t, err)

		folds := collect(t, s, nil, classes, sites)
		require.Len(t, folds, 3)

		want := [][]string{{"A", "B"}, {"A", "C"}, {"B", "C"}}
		for i, f := range folds {
			assert.Equal(t, metadata.Array(metadata.MustValues(want[i])), f.Key)
			assert.Equal(t, metadata.MustValues(want[i]), f.Groups)
			assert.Len(t, f.Train, 2)
			assert.Len(t, f.Test, 4)
		}
	})

	t.Run("UnsortedGroupsAreEnumeratedInOrder", func(t *testing.T) {
		groups := metadata.MustValues([]string{"C", "A", "B", "A", "C", "B"})

		s, err := New(1)
		require.NoError(t, err)

		folds := collect(t, s, nil, nil, groups)
		require.Len(t, folds, 3)
		assert.Equal(t, metadata.String("A"), folds[0].Key)
		assert.Equal(t, []int{1, 3}, folds[0].Test)
		assert.Equal(t, []int{2, 5}, folds[1].Test)
		assert.Equal(t, []int{0, 4}, folds[2].Test)
	})

	t.Run("NoTargetDisablesFilter", func(t *testing.T) {
		s, err := New(1)
		require.NoError(t, err)

		folds := collect(t, s, nil, nil, sites)
		assert.Len(t, folds, 3)
	})

	t.Run("AllCombinationsRejected", func(t *testing.T) {
		target := metadata.MustValues([]int{0, 0, 1, 1, 2, 2})

		s, err := New(1)
		require.NoError(t, err)

		folds := collect(t, s, nil, target, sites)
		assert.Empty(t, folds)

		n, err := s.NSplits(nil, target, sites)
		require.NoError(t, err)
		assert.Equal(t, 0, n)
	})

	t.Run("EmptyDataset", func(t *testing.T) {
		s, err := New(1)
		require.NoError(t, err)

		_, err = s.Split(nil, nil, []metadata.Value{})
		assert.ErrorIs(t, err, ErrInsufficientGroups)
	})
}

func TestSplitter_ColumnGroups(t *testing.T) {
	t.Run("DefaultColumn", func(t *testing.T) {
		data, err := table.NewColumns(map[string][]metadata.Value{"site": sites})
		require.NoError(t, err)

		s, err := New(1)
		require.NoError(t, err)

		folds := collect(t, s, data, classes, nil)
		require.Len(t, folds, 1)
		assert.Equal(t, []int{0, 1}, folds[0].Test)
	})

	t.Run("CustomColumn", func(t *testing.T) {
		data, err := table.NewColumns(map[string][]metadata.Value{"scanner": sites})
		require.NoError(t, err)

		s, err := New(1, WithColumn("scanner"), WithRobust(false))
		require.NoError(t, err)

		n, err := s.NSplits(data, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, 3, n)
	})

	t.Run("ExplicitGroupsWin", func(t *testing.T) {
		data, err := table.NewColumns(map[string][]metadata.Value{
			"site": metadata.MustValues([]string{"X", "X", "X", "Y", "Y", "Y"}),
		})
		require.NoError(t, err)

		s, err := New(1, WithRobust(false))
		require.NoError(t, err)

		distinct, err := s.Groups(data, sites)
		require.NoError(t, err)
		assert.Equal(t, metadata.MustValues([]string{"A", "B", "C"}), distinct)
	})

	t.Run("GeneratedDataset", func(t *testing.T) {
		ds := testutil.NewRNG(1).GroupedDataset(testutil.DatasetSpec{Groups: 4, PerGroup: 3, Classes: 2})

		s, err := New(1)
		require.NoError(t, err)

		n, err := s.NSplits(ds.Table, ds.Target, nil)
		require.NoError(t, err)
		assert.Equal(t, 4, n)
	})
}

func TestSplitter_Errors(t *testing.T) {
	t.Run("InvalidNGroups", func(t *testing.T) {
		_, err := New(0)
		assert.ErrorIs(t, err, ErrInvalidNGroups)
	})

	t.Run("InvalidColumn", func(t *testing.T) {
		_, err := New(1, WithColumn(""))
		assert.ErrorIs(t, err, ErrInvalidColumn)
	})

	t.Run("InvalidShuffleMode", func(t *testing.T) {
		_, err := New(1, WithShuffleMode(ShuffleMode(7)))
		assert.ErrorIs(t, err, ErrInvalidShuffleMode)
	})

	t.Run("MissingGroups", func(t *testing.T) {
		s, err := New(1)
		require.NoError(t, err)

		_, err = s.Split(nil, nil, nil)
		var mge *MissingGroupsError
		require.True(t, errors.As(err, &mge))
		assert.Equal(t, "site", mge.Column)

		data, err := table.NewColumns(map[string][]metadata.Value{"scanner": sites})
		require.NoError(t, err)
		_, err = s.NSplits(data, nil, nil)
		assert.ErrorIs(t, err, ErrMissingGroups)
	})

	t.Run("InsufficientGroups", func(t *testing.T) {
		s, err := New(3)
		require.NoError(t, err)

		_, err = s.Split(nil, classes, sites)
		var ige *InsufficientGroupsError
		require.True(t, errors.As(err, &ige))
		assert.Equal(t, 3, ige.Requested)
		assert.Equal(t, 3, ige.Available)
		assert.Equal(t, "cannot hold out 3 groups when the total number of groups is 3", err.Error())

		_, err = s.MaxSplits(nil, sites)
		assert.ErrorIs(t, err, ErrInsufficientGroups)
	})

	t.Run("ShapeMismatch", func(t *testing.T) {
		s, err := New(1)
		require.NoError(t, err)

		_, err = s.Split(nil, classes[:5], sites)
		var sme *ShapeMismatchError
		require.True(t, errors.As(err, &sme))
		assert.Equal(t, "target", sme.Name)
		assert.Equal(t, 6, sme.Expected)
		assert.Equal(t, 5, sme.Actual)

		data, err := table.NewColumns(map[string][]metadata.Value{"x": classes[:4]})
		require.NoError(t, err)
		_, err = s.Masks(data, nil, sites)
		require.True(t, errors.As(err, &sme))
		assert.Equal(t, "groups", sme.Name)
	})

	t.Run("ErrorsAreEager", func(t *testing.T) {
		s, err := New(1)
		require.NoError(t, err)

		seq, err := s.Split(nil, nil, metadata.MustValues([]string{"A"}))
		assert.Nil(t, seq)
		assert.Error(t, err)
	})
}

func TestSplitter_Properties(t *testing.T) {
	rng := testutil.NewRNG(4711)

	for _, p := range []int{1, 2, 3} {
		ds := rng.GroupedDataset(testutil.DatasetSpec{
			Groups:   6,
			PerGroup: 7,
			Classes:  2,
			Pure:     3,
			Shuffled: true,
		})
		n := len(ds.Groups)

		t.Run("Partition", func(t *testing.T) {
			s, err := New(p)
			require.NoError(t, err)

			for _, f := range collect(t, s, nil, ds.Target, ds.Groups) {
				require.NoError(t, testutil.CheckPartition(n, f.Train, f.Test))
				assert.True(t, slices.IsSorted(f.Train))
				assert.True(t, slices.IsSorted(f.Test))

				held := make(map[string]bool)
				for _, g := range f.Groups {
					held[g.Key()] = true
				}
				for _, i := range f.Test {
					assert.True(t, held[ds.Groups[i].Key()])
				}
				for _, i := range f.Train {
					assert.False(t, held[ds.Groups[i].Key()])
				}
			}
		})

		t.Run("CountConsistency", func(t *testing.T) {
			for _, robust := range []bool{true, false} {
				s, err := New(p, WithRobust(robust))
				require.NoError(t, err)

				folds := collect(t, s, nil, ds.Target, ds.Groups)
				count, err := s.NSplits(nil, ds.Target, ds.Groups)
				require.NoError(t, err)
				assert.Equal(t, len(folds), count)

				maxSplits, err := s.MaxSplits(nil, ds.Groups)
				require.NoError(t, err)
				assert.Equal(t, combin.Binomial(6, p), maxSplits)
				assert.LessOrEqual(t, count, maxSplits)
				if !robust {
					assert.Equal(t, maxSplits, count)
				}
			}
		})

		t.Run("Robustness", func(t *testing.T) {
			s, err := New(p)
			require.NoError(t, err)

			for _, f := range collect(t, s, nil, ds.Target, ds.Groups) {
				distinct := metadata.Distinct(table.Take(ds.Target, f.Test))
				assert.GreaterOrEqual(t, len(distinct), 2)
			}
		})

		t.Run("Determinism", func(t *testing.T) {
			s, err := New(p)
			require.NoError(t, err)

			assert.Equal(t,
				collect(t, s, nil, ds.Target, ds.Groups),
				collect(t, s, nil, ds.Target, ds.Groups),
			)
		})
	}
}

func TestSplitter_Restartable(t *testing.T) {
	s, err := New(1, WithRobust(false))
	require.NoError(t, err)

	seq, err := s.Split(nil, nil, sites)
	require.NoError(t, err)

	var first, second [][]int
	for _, test := range seq {
		first = append(first, test)
	}
	for _, test := range seq {
		second = append(second, test)
	}
	assert.Equal(t, first, second)
	assert.Len(t, first, 3)
}

func TestSplitter_EarlyBreak(t *testing.T) {
	metrics := &BasicMetricsCollector{}

	s, err := New(1, WithRobust(false), WithMetricsCollector(metrics))
	require.NoError(t, err)

	seq, err := s.Split(nil, nil, sites)
	require.NoError(t, err)

	for range seq {
		break
	}

	stats := metrics.GetStats()
	assert.Equal(t, int64(1), stats.Combinations)
	assert.Equal(t, int64(1), stats.FoldsYielded)
	assert.Equal(t, int64(1), stats.Enumerations)
}

func TestSplitter_Masks(t *testing.T) {
	s, err := New(1)
	require.NoError(t, err)

	seq, err := s.Masks(nil, classes, sites)
	require.NoError(t, err)

	var keys []metadata.Value
	for key, mask := range seq {
		keys = append(keys, key)
		assert.Equal(t, 6, mask.Len())
		assert.Equal(t, []bool{true, true, false, false, false, false}, mask.Bools())
	}
	assert.Equal(t, []metadata.Value{metadata.String("A")}, keys)
}

func TestSplitter_Shuffle(t *testing.T) {
	t.Run("SharedSeed", func(t *testing.T) {
		s, err := New(1, WithRobust(false), WithShuffle(true), WithSeed(42))
		require.NoError(t, err)

		a := collect(t, s, nil, nil, sites)
		b := collect(t, s, nil, nil, sites)
		assert.Equal(t, a, b)

		// Equal-length slices get the same permutation from a shared seed.
		var offsets [][]int
		for _, f := range a {
			require.NoError(t, testutil.CheckPartition(6, f.Train, f.Test))
			lo := slices.Min(f.Test)
			offsets = append(offsets, []int{f.Test[0] - lo, f.Test[1] - lo})
		}
		assert.Equal(t, offsets[0], offsets[1])
		assert.Equal(t, offsets[0], offsets[2])
	})

	t.Run("Independent", func(t *testing.T) {
		s, err := New(1, WithRobust(false), WithShuffle(true), WithSeed(42), WithShuffleMode(ShuffleIndependent))
		require.NoError(t, err)

		a := collect(t, s, nil, nil, sites)
		b := collect(t, s, nil, nil, sites)
		assert.Equal(t, a, b)

		for _, f := range a {
			require.NoError(t, testutil.CheckPartition(6, f.Train, f.Test))
		}
	})

	t.Run("Unseeded", func(t *testing.T) {
		ds := testutil.NewRNG(3).GroupedDataset(testutil.DatasetSpec{Groups: 3, PerGroup: 50})

		s, err := New(1, WithShuffle(true))
		require.NoError(t, err)

		for _, f := range collect(t, s, nil, nil, ds.Groups) {
			require.NoError(t, testutil.CheckPartition(150, f.Train, f.Test))
			sorted := slices.Sorted(slices.Values(f.Test))
			assert.Len(t, sorted, 50)
		}
	})
}

func TestSplitter_Config(t *testing.T) {
	s, err := New(2, WithColumn("scanner"), WithSeed(7), WithShuffle(true))
	require.NoError(t, err)

	cfg := s.Config()
	assert.Equal(t, 2, cfg.NGroups)
	assert.Equal(t, "scanner", cfg.Column)
	assert.True(t, cfg.Robust)
	assert.True(t, cfg.Shuffle)
	require.NotNil(t, cfg.Seed)
	assert.Equal(t, int64(7), *cfg.Seed)
	assert.Equal(t, ShuffleSharedSeed, cfg.ShuffleMode)
}

func TestSplitter_MixedLabelKinds(t *testing.T) {
	groups := []metadata.Value{
		metadata.Int(1), metadata.Float(1), metadata.String("1"), metadata.Int(1),
	}

	s, err := New(1, WithRobust(false))
	require.NoError(t, err)

	distinct, err := s.Groups(nil, groups)
	require.NoError(t, err)
	assert.Equal(t, []metadata.Value{metadata.Int(1), metadata.Float(1), metadata.String("1")}, distinct)

	folds := collect(t, s, nil, nil, groups)
	require.Len(t, folds, 3)
	assert.Equal(t, []int{0, 3}, folds[0].Test)
}
