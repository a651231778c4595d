package plan

import (
	"context"
	"errors"
	"fmt"
	"hash/crc32"
	"time"

	"github.com/hupe1980/groupcv/blobstore"
	"github.com/hupe1980/groupcv/codec"
	"golang.org/x/sync/errgroup"
)

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// Writer persists plans into a blob store.
//
// A plan is stored as one blob per fold plus a manifest that is written last,
// so a visible manifest always refers to complete folds.
type Writer struct {
	store blobstore.Store
	opts  options
}

// NewWriter creates a Writer for store.
func NewWriter(store blobstore.Store, optFns ...Option) *Writer {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Writer{store: store, opts: opts}
}

// Save stores p under name. It fails with ErrPlanExists if the name is taken.
func (w *Writer) Save(ctx context.Context, name string, p *Plan) (err error) {
	if err := validateName(name); err != nil {
		return err
	}
	if err := p.Validate(); err != nil {
		return err
	}

	start := time.Now()
	mpath := manifestPath(name)

	switch _, err := w.store.Get(ctx, mpath); {
	case err == nil:
		return fmt.Errorf("%w: %s", ErrPlanExists, name)
	case !errors.Is(err, blobstore.ErrNotFound):
		return err
	}

	manifest := p.Manifest
	manifest.Name = name
	manifest.Codec = w.opts.codec.Name()
	manifest.Compression = w.opts.compression.String()
	manifest.Folds = make([]FoldEntry, len(p.Folds))

	if w.opts.catalog != nil {
		entry := Entry{
			Name:      name,
			Manifest:  mpath,
			Folds:     len(p.Folds),
			Samples:   manifest.Samples,
			CreatedAt: manifest.CreatedAt,
		}
		if err := w.opts.catalog.Register(ctx, entry); err != nil {
			return err
		}
		defer func() {
			if err != nil {
				// Release the claim; a failed save leaves no catalog entry.
				_ = w.opts.catalog.Remove(context.WithoutCancel(ctx), name)
			}
		}()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.opts.concurrency)

	for i := range p.Folds {
		g.Go(func() error {
			entry, err := w.putFold(gctx, name, i, p)
			if err != nil {
				return fmt.Errorf("fold %d: %w", i, err)
			}
			manifest.Folds[i] = entry
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		w.opts.logger.ErrorContext(ctx, "plan save failed", "name", name, "error", err)
		return err
	}

	data, err := codec.Default.Marshal(manifest)
	if err != nil {
		return err
	}
	if err := blobstore.PutIfNotExists(ctx, w.store, mpath, data); err != nil {
		if errors.Is(err, blobstore.ErrExists) {
			return fmt.Errorf("%w: %s", ErrPlanExists, name)
		}
		return err
	}

	w.opts.logger.InfoContext(ctx, "plan saved",
		"name", name,
		"folds", len(p.Folds),
		"codec", manifest.Codec,
		"compression", manifest.Compression,
		"elapsed", time.Since(start),
	)
	return nil
}

func (w *Writer) putFold(ctx context.Context, name string, i int, p *Plan) (FoldEntry, error) {
	if w.opts.limiter != nil {
		if err := w.opts.limiter.Wait(ctx); err != nil {
			return FoldEntry{}, err
		}
	}

	raw, err := w.opts.codec.Marshal(p.Folds[i])
	if err != nil {
		return FoldEntry{}, err
	}
	data, err := compress(raw, w.opts.compression)
	if err != nil {
		return FoldEntry{}, err
	}

	entry := p.Manifest.Folds[i]
	entry.Index = i
	entry.File = foldPath(name, i, w.opts.compression)
	entry.Checksum = crc32.Checksum(data, castagnoli)

	if err := w.store.Put(ctx, entry.File, data); err != nil {
		return FoldEntry{}, err
	}

	w.opts.logger.DebugContext(ctx, "fold stored", "name", name, "index", i, "bytes", len(data))
	return entry, nil
}
