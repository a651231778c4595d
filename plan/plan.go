package plan

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/bits-and-blooms/bitset"
	"github.com/hupe1980/groupcv"
	"github.com/hupe1980/groupcv/metadata"
	"github.com/hupe1980/groupcv/table"
)

// FormatVersion is the manifest format written by this package.
const FormatVersion = 1

var (
	// ErrPlanExists is returned when saving or registering a name that is taken.
	ErrPlanExists = errors.New("plan already exists")

	// ErrPlanNotFound is returned when loading or looking up an unknown name.
	ErrPlanNotFound = errors.New("plan not found")

	// ErrCorruptPlan is returned when stored folds do not match their manifest
	// or do not partition the samples.
	ErrCorruptPlan = errors.New("corrupt plan")

	// ErrInvalidName is returned for empty or non-relative plan names.
	ErrInvalidName = errors.New("invalid plan name")
)

// Plan is a materialized splitter run.
type Plan struct {
	Manifest Manifest
	Folds    []groupcv.Fold
}

// Manifest describes a stored plan. It is written after all fold blobs.
type Manifest struct {
	Version     int              `json:"version"`
	Name        string           `json:"name,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	Config      groupcv.Config   `json:"config"`
	Samples     int              `json:"samples"`
	Groups      []metadata.Value `json:"groups"`
	MaxSplits   int              `json:"max_splits"`
	Codec       string           `json:"codec,omitempty"`
	Compression string           `json:"compression,omitempty"`
	Folds       []FoldEntry      `json:"folds"`
}

// FoldEntry locates one fold blob and records what it must contain.
type FoldEntry struct {
	Index    int            `json:"index"`
	Key      metadata.Value `json:"key"`
	File     string         `json:"file"`
	Train    int            `json:"train"`
	Test     int            `json:"test"`
	Checksum uint32         `json:"crc32c"`
}

// Build runs s over the inputs and collects every fold.
func Build(ctx context.Context, s *groupcv.Splitter, data table.Table, target, groups []metadata.Value) (*Plan, error) {
	folds, err := s.SplitKeyed(data, target, groups)
	if err != nil {
		return nil, err
	}

	resolved, err := s.ResolveGroups(data, groups)
	if err != nil {
		return nil, err
	}
	maxSplits, err := s.MaxSplits(data, groups)
	if err != nil {
		return nil, err
	}

	p := &Plan{
		Manifest: Manifest{
			Version:   FormatVersion,
			CreatedAt: time.Now().UTC(),
			Config:    s.Config(),
			Samples:   len(resolved),
			Groups:    metadata.Distinct(resolved),
			MaxSplits: maxSplits,
		},
	}

	for fold := range folds {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p.Manifest.Folds = append(p.Manifest.Folds, FoldEntry{
			Index: len(p.Folds),
			Key:   fold.Key,
			Train: len(fold.Train),
			Test:  len(fold.Test),
		})
		p.Folds = append(p.Folds, fold)
	}

	return p, nil
}

// Len returns the number of folds.
func (p *Plan) Len() int {
	return len(p.Folds)
}

// Validate checks that the plan is internally consistent: one entry per fold,
// matching keys and sizes, and every fold partitioning [0, Samples).
func (p *Plan) Validate() error {
	if len(p.Folds) != len(p.Manifest.Folds) {
		return fmt.Errorf("%w: %d folds, manifest lists %d", ErrCorruptPlan, len(p.Folds), len(p.Manifest.Folds))
	}
	for i, fold := range p.Folds {
		if err := validateFold(p.Manifest.Folds[i], fold, p.Manifest.Samples); err != nil {
			return err
		}
	}
	return nil
}

func validateFold(entry FoldEntry, fold groupcv.Fold, samples int) error {
	if !entry.Key.Equal(fold.Key) {
		return fmt.Errorf("%w: fold %d has key %s, manifest lists %s", ErrCorruptPlan, entry.Index, fold.Key, entry.Key)
	}
	if len(fold.Train) != entry.Train || len(fold.Test) != entry.Test {
		return fmt.Errorf("%w: fold %d has %d/%d train/test indices, manifest lists %d/%d",
			ErrCorruptPlan, entry.Index, len(fold.Train), len(fold.Test), entry.Train, entry.Test)
	}
	if err := checkPartition(samples, fold.Train, fold.Test); err != nil {
		return fmt.Errorf("%w: fold %d: %v", ErrCorruptPlan, entry.Index, err)
	}
	return nil
}

// checkPartition reports whether train and test together hold every
// position in [0, n) exactly once.
func checkPartition(n int, train, test []int) error {
	if len(train)+len(test) != n {
		return fmt.Errorf("%d indices for %d samples", len(train)+len(test), n)
	}

	seen := bitset.New(uint(n))
	for _, side := range [][]int{train, test} {
		for _, idx := range side {
			if idx < 0 || idx >= n {
				return fmt.Errorf("index %d out of range", idx)
			}
			if seen.Test(uint(idx)) {
				return fmt.Errorf("index %d assigned twice", idx)
			}
			seen.Set(uint(idx))
		}
	}
	return nil
}

const manifestFile = "manifest.json"

func manifestPath(name string) string {
	return path.Join(name, manifestFile)
}

func foldPath(name string, index int, c Compression) string {
	return path.Join(name, "folds", fmt.Sprintf("%06d.json%s", index, c.Extension()))
}

func validateName(name string) error {
	if name == "" || strings.HasPrefix(name, "/") || path.Clean(name) != name || strings.HasPrefix(name, "..") {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}
