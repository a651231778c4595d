package plan

import (
	"context"
	"errors"
	"fmt"
	"hash/crc32"
	"sort"
	"strings"

	"github.com/hupe1980/groupcv"
	"github.com/hupe1980/groupcv/blobstore"
	"github.com/hupe1980/groupcv/codec"
	"golang.org/x/sync/errgroup"
)

// Reader loads plans from a blob store.
type Reader struct {
	store blobstore.Store
	opts  options
}

// NewReader creates a Reader for store.
func NewReader(store blobstore.Store, optFns ...Option) *Reader {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Reader{store: store, opts: opts}
}

// Manifest reads only the manifest of a plan.
func (r *Reader) Manifest(ctx context.Context, name string) (Manifest, error) {
	if err := validateName(name); err != nil {
		return Manifest{}, err
	}

	data, err := r.store.Get(ctx, manifestPath(name))
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			return Manifest{}, fmt.Errorf("%w: %s", ErrPlanNotFound, name)
		}
		return Manifest{}, err
	}

	var m Manifest
	if err := codec.Default.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("%w: manifest: %v", ErrCorruptPlan, err)
	}
	if m.Version != FormatVersion {
		return Manifest{}, fmt.Errorf("%w: unsupported manifest version %d", ErrCorruptPlan, m.Version)
	}
	return m, nil
}

// Load reads a plan and validates every fold against its manifest.
func (r *Reader) Load(ctx context.Context, name string) (*Plan, error) {
	m, err := r.Manifest(ctx, name)
	if err != nil {
		return nil, err
	}

	c, ok := codec.ByName(m.Codec)
	if !ok {
		return nil, fmt.Errorf("%w: unknown codec %q", ErrCorruptPlan, m.Codec)
	}
	comp, err := ParseCompression(m.Compression)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptPlan, err)
	}

	for i, entry := range m.Folds {
		if entry.Index != i {
			return nil, fmt.Errorf("%w: fold entry %d has index %d", ErrCorruptPlan, i, entry.Index)
		}
	}

	folds := make([]groupcv.Fold, len(m.Folds))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.concurrency)

	for i, entry := range m.Folds {
		g.Go(func() error {
			fold, err := r.getFold(gctx, entry, c, comp)
			if err != nil {
				return err
			}
			if err := validateFold(entry, fold, m.Samples); err != nil {
				return err
			}
			folds[i] = fold
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	r.opts.logger.DebugContext(ctx, "plan loaded", "name", name, "folds", len(folds))

	return &Plan{Manifest: m, Folds: folds}, nil
}

func (r *Reader) getFold(ctx context.Context, entry FoldEntry, c codec.Codec, comp Compression) (groupcv.Fold, error) {
	if r.opts.limiter != nil {
		if err := r.opts.limiter.Wait(ctx); err != nil {
			return groupcv.Fold{}, err
		}
	}

	data, err := r.store.Get(ctx, entry.File)
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			return groupcv.Fold{}, fmt.Errorf("%w: fold %d: missing blob %s", ErrCorruptPlan, entry.Index, entry.File)
		}
		return groupcv.Fold{}, err
	}
	if sum := crc32.Checksum(data, castagnoli); sum != entry.Checksum {
		return groupcv.Fold{}, fmt.Errorf("%w: fold %d: checksum mismatch", ErrCorruptPlan, entry.Index)
	}

	raw, err := decompress(data, comp)
	if err != nil {
		return groupcv.Fold{}, fmt.Errorf("%w: fold %d: %v", ErrCorruptPlan, entry.Index, err)
	}

	var fold groupcv.Fold
	if err := c.Unmarshal(raw, &fold); err != nil {
		return groupcv.Fold{}, fmt.Errorf("%w: fold %d: %v", ErrCorruptPlan, entry.Index, err)
	}
	return fold, nil
}

// Delete removes all blobs of a plan, manifest first.
func (r *Reader) Delete(ctx context.Context, name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	if err := r.store.Delete(ctx, manifestPath(name)); err != nil {
		return err
	}

	blobs, err := r.store.List(ctx, name+"/folds/")
	if err != nil {
		return err
	}
	for _, b := range blobs {
		if err := r.store.Delete(ctx, b); err != nil {
			return err
		}
	}

	if r.opts.catalog != nil {
		return r.opts.catalog.Remove(ctx, name)
	}
	return nil
}

// Names lists the plans stored in st.
func Names(ctx context.Context, st blobstore.Store) ([]string, error) {
	blobs, err := st.List(ctx, "")
	if err != nil {
		return nil, err
	}

	var names []string
	for _, b := range blobs {
		if name, ok := strings.CutSuffix(b, "/"+manifestFile); ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}
