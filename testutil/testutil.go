package testutil

import (
	"fmt"
	"math/rand"
	"slices"
	"sync"

	"github.com/hupe1980/groupcv/metadata"
	"github.com/hupe1980/groupcv/table"
	"gonum.org/v1/gonum/mat"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// Perm returns a pseudo-random permutation of [0,n).
func (r *RNG) Perm(n int) []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Perm(n)
}

// DatasetSpec describes a synthetic grouped classification dataset.
type DatasetSpec struct {
	Groups   int    // Number of distinct groups
	PerGroup int    // Samples per group
	Classes  int    // Number of target classes (>= 1)
	Pure     int    // The first Pure groups carry a single class
	Features int    // Feature columns f0..fN-1
	Column   string // Group column name, default "site"
	Shuffled bool   // Interleave groups instead of laying them out contiguously
}

// Dataset is a synthetic grouped dataset.
type Dataset struct {
	Groups   []metadata.Value
	Target   []metadata.Value
	Features *mat.Dense
	Table    *table.Columns
}

// GroupName returns the label of the i-th synthetic group ("g00", "g01", ...).
func GroupName(i int) string {
	return fmt.Sprintf("g%02d", i)
}

// GroupedDataset generates a dataset following cfg.
//
// Non-pure groups are guaranteed to contain at least two classes when
// Classes > 1 and PerGroup > 1.
func (r *RNG) GroupedDataset(cfg DatasetSpec) Dataset {
	if cfg.Column == "" {
		cfg.Column = "site"
	}
	if cfg.Classes < 1 {
		cfg.Classes = 1
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	n := cfg.Groups * cfg.PerGroup
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	if cfg.Shuffled {
		r.rand.Shuffle(n, func(i, j int) { order[i], order[j] = order[j], order[i] })
	}

	groups := make([]metadata.Value, n)
	target := make([]metadata.Value, n)
	for g := range cfg.Groups {
		pureClass := r.rand.Intn(cfg.Classes)
		for k := range cfg.PerGroup {
			pos := order[g*cfg.PerGroup+k]
			groups[pos] = metadata.String(GroupName(g))

			class := pureClass
			if g >= cfg.Pure {
				// First two samples cover two classes, the rest are random.
				switch {
				case k < 2 && cfg.Classes > 1:
					class = k
				default:
					class = r.rand.Intn(cfg.Classes)
				}
			}
			target[pos] = metadata.Int(int64(class))
		}
	}

	cols := map[string][]metadata.Value{
		cfg.Column: groups,
		"target":    target,
	}

	var features *mat.Dense
	if cfg.Features > 0 && n > 0 {
		data := make([]float64, n*cfg.Features)
		for i := range data {
			data[i] = r.rand.NormFloat64()
		}
		features = mat.NewDense(n, cfg.Features, data)
		for j := range cfg.Features {
			col := make([]metadata.Value, n)
			for i := range n {
				col[i] = metadata.Float(features.At(i, j))
			}
			cols[fmt.Sprintf("f%d", j)] = col
		}
	}

	tbl, err := table.NewColumns(cols)
	if err != nil {
		// Columns are built with equal lengths above.
		panic(err)
	}

	return Dataset{
		Groups:   groups,
		Target:   target,
		Features: features,
		Table:    tbl,
	}
}

// CheckPartition returns an error unless train and test are disjoint and
// together cover [0, n) exactly once.
func CheckPartition(n int, train, test []int) error {
	if len(train)+len(test) != n {
		return fmt.Errorf("partition has %d+%d indices, expected %d", len(train), len(test), n)
	}
	seen := make([]bool, n)
	for _, idx := range slices.Concat(train, test) {
		if idx < 0 || idx >= n {
			return fmt.Errorf("index %d out of range [0,%d)", idx, n)
		}
		if seen[idx] {
			return fmt.Errorf("index %d assigned twice", idx)
		}
		seen[idx] = true
	}
	return nil
}
