package groupcv

import (
	"context"
	"iter"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/groupcv/metadata"
	"github.com/hupe1980/groupcv/table"
	"gonum.org/v1/gonum/stat/combin"
)

// Splitter is a leave-P-groups-out cross-validator.
//
// Each fold holds out every sample of exactly P distinct groups as the test
// set and trains on the rest. Combinations are enumerated in lexicographic
// order over the sorted distinct groups, so output is reproducible.
//
// A Splitter is immutable and safe for concurrent use. Every call recomputes
// its sequence from scratch; the returned sequences may be ranged over more
// than once.
type Splitter struct {
	nGroups int
	opts    options
}

// Config is a snapshot of a Splitter's configuration.
type Config struct {
	NGroups     int         `json:"n_groups"`
	Column      string      `json:"column"`
	Robust      bool        `json:"robust"`
	Shuffle     bool        `json:"shuffle"`
	Seed        *int64      `json:"seed,omitempty"`
	ShuffleMode ShuffleMode `json:"shuffle_mode"`
}

// New creates a Splitter that holds out nGroups groups per fold.
func New(nGroups int, optFns ...Option) (*Splitter, error) {
	if nGroups < 1 {
		return nil, ErrInvalidNGroups
	}

	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.column == "" {
		return nil, ErrInvalidColumn
	}
	if opts.shuffleMode != ShuffleSharedSeed && opts.shuffleMode != ShuffleIndependent {
		return nil, ErrInvalidShuffleMode
	}

	opts.logger = opts.logger.WithNGroups(nGroups)

	return &Splitter{nGroups: nGroups, opts: opts}, nil
}

// Config returns the splitter configuration.
func (s *Splitter) Config() Config {
	cfg := Config{
		NGroups:     s.nGroups,
		Column:      s.opts.column,
		Robust:      s.opts.robust,
		Shuffle:     s.opts.shuffle,
		ShuffleMode: s.opts.shuffleMode,
	}
	if s.opts.seed != nil {
		seed := *s.opts.seed
		cfg.Seed = &seed
	}
	return cfg
}

// ResolveGroups returns the effective group labels: groups if non-nil,
// otherwise the configured column of data.
func (s *Splitter) ResolveGroups(data table.Table, groups []metadata.Value) ([]metadata.Value, error) {
	if groups != nil {
		return groups, nil
	}
	if data != nil {
		if col, ok := data.Column(s.opts.column); ok {
			return col, nil
		}
	}
	return nil, &MissingGroupsError{Column: s.opts.column}
}

// Groups returns the distinct group values in enumeration order.
func (s *Splitter) Groups(data table.Table, groups []metadata.Value) ([]metadata.Value, error) {
	resolved, err := s.ResolveGroups(data, groups)
	if err != nil {
		return nil, err
	}
	return metadata.Distinct(resolved), nil
}

// MaxSplits returns C(G, P), the number of folds before robustness
// filtering, where G is the number of distinct groups.
func (s *Splitter) MaxSplits(data table.Table, groups []metadata.Value) (int, error) {
	distinct, err := s.Groups(data, groups)
	if err != nil {
		return 0, err
	}
	if len(distinct) <= s.nGroups {
		return 0, &InsufficientGroupsError{Requested: s.nGroups, Available: len(distinct)}
	}
	return combin.Binomial(len(distinct), s.nGroups), nil
}

// Masks validates the inputs and returns the sequence of (key, test mask)
// pairs, one per combination that survives robustness filtering.
//
// target may be nil; it is only read by the robustness filter. groups may be
// nil, in which case labels are read from the configured column of data. data
// may be nil when groups are given.
func (s *Splitter) Masks(data table.Table, target, groups []metadata.Value) (iter.Seq2[metadata.Value, *Mask], error) {
	r, err := s.prepare(data, target, groups)
	if err != nil {
		return nil, err
	}

	return func(yield func(metadata.Value, *Mask) bool) {
		r.enumerate(func(c combination) bool {
			return yield(c.key, c.mask())
		})
	}, nil
}

// Split validates the inputs and returns the sequence of (train, test)
// index pairs. See Masks for the meaning of the arguments.
func (s *Splitter) Split(data table.Table, target, groups []metadata.Value) (iter.Seq2[[]int, []int], error) {
	folds, err := s.SplitKeyed(data, target, groups)
	if err != nil {
		return nil, err
	}

	return func(yield func([]int, []int) bool) {
		for fold := range folds {
			if !yield(fold.Train, fold.Test) {
				return
			}
		}
	}, nil
}

// SplitKeyed is like Split but yields folds carrying their combination key.
func (s *Splitter) SplitKeyed(data table.Table, target, groups []metadata.Value) (iter.Seq[Fold], error) {
	r, err := s.prepare(data, target, groups)
	if err != nil {
		return nil, err
	}

	return func(yield func(Fold) bool) {
		var sh *shuffler
		if s.opts.shuffle {
			sh = newShuffler(s.opts.shuffleMode, s.opts.seed)
		}

		r.enumerate(func(c combination) bool {
			m := c.mask()
			fold := Fold{
				Key:    c.key,
				Groups: c.groups,
				Train:  m.InverseIndices(),
				Test:   m.Indices(),
			}
			if sh != nil {
				sh.shuffle(fold.Train)
				sh.shuffle(fold.Test)
			}

			r.logger.LogFold(context.Background(), fold.Key, len(fold.Train), len(fold.Test))

			return yield(fold)
		})
	}, nil
}

// NSplits returns the number of folds Split would yield for the same inputs.
func (s *Splitter) NSplits(data table.Table, target, groups []metadata.Value) (int, error) {
	r, err := s.prepare(data, target, groups)
	if err != nil {
		return 0, err
	}

	n := 0
	r.enumerate(func(combination) bool {
		n++
		return true
	})
	return n, nil
}

// run holds the validated, immutable inputs of one call.
type run struct {
	n          int
	nGroups    int
	index      *metadata.Index
	targetKeys []string // nil disables robustness filtering
	target     []metadata.Value
	logger     *Logger
	metrics    MetricsCollector
}

// combination is one surviving group combination.
type combination struct {
	key       metadata.Value
	groups    []metadata.Value
	n         int
	positions *roaring.Bitmap
}

func (c combination) mask() *Mask {
	return newMask(c.n, c.positions)
}

func (s *Splitter) prepare(data table.Table, target, groups []metadata.Value) (*run, error) {
	n := -1
	if data != nil {
		n = data.Len()
		if target != nil && len(target) != n {
			return nil, &ShapeMismatchError{Name: "target", Expected: n, Actual: len(target)}
		}
	}

	resolved, err := s.ResolveGroups(data, groups)
	if err != nil {
		return nil, err
	}

	if n < 0 {
		n = len(resolved)
	}
	if len(resolved) != n {
		return nil, &ShapeMismatchError{Name: "groups", Expected: n, Actual: len(resolved)}
	}
	if target != nil && len(target) != n {
		return nil, &ShapeMismatchError{Name: "target", Expected: n, Actual: len(target)}
	}

	index := metadata.BuildIndex(resolved)
	if index.Len() <= s.nGroups {
		return nil, &InsufficientGroupsError{Requested: s.nGroups, Available: index.Len()}
	}

	r := &run{
		n:       n,
		nGroups: s.nGroups,
		index:   index,
		logger:  s.opts.logger.WithSamples(n),
		metrics: s.opts.metricsCollector,
	}

	if s.opts.robust && target != nil {
		r.target = target
		r.targetKeys = make([]string, n)
		for i, v := range target {
			r.targetKeys[i] = v.Key()
		}
	}

	return r, nil
}

// enumerate calls fn for every combination that survives filtering, in
// lexicographic order over the sorted distinct groups, until fn returns false.
func (r *run) enumerate(fn func(combination) bool) {
	start := time.Now()
	visited, yielded, rejected := 0, 0, 0
	defer func() {
		elapsed := time.Since(start)
		r.metrics.RecordEnumeration(visited, yielded, rejected, elapsed)
		r.logger.LogEnumeration(context.Background(), visited, yielded, rejected, elapsed)
	}()

	values := r.index.Values()
	gen := combin.NewCombinationGenerator(len(values), r.nGroups)
	idx := make([]int, r.nGroups)

	for gen.Next() {
		gen.Combination(idx)
		visited++

		groups := make([]metadata.Value, r.nGroups)
		for i, j := range idx {
			groups[i] = values[j]
		}
		key := combinationKey(groups)
		positions := r.index.Union(groups...)

		if only, single := r.singleTarget(positions); single {
			rejected++
			r.metrics.RecordCombination(false)
			r.logger.LogRejected(context.Background(), key, only)
			continue
		}

		yielded++
		r.metrics.RecordCombination(true)

		if !fn(combination{key: key, groups: groups, n: r.n, positions: positions}) {
			return
		}
	}
}

// singleTarget reports whether the targets at positions hold exactly one
// distinct value, and returns it. It is always false without a target.
func (r *run) singleTarget(positions *roaring.Bitmap) (metadata.Value, bool) {
	if r.targetKeys == nil || positions.IsEmpty() {
		return metadata.Value{}, false
	}

	first := int(positions.Minimum())
	want := r.targetKeys[first]

	it := positions.Iterator()
	for it.HasNext() {
		if r.targetKeys[it.Next()] != want {
			return metadata.Value{}, false
		}
	}
	return r.target[first], true
}
