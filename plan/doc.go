// Package plan materializes splitter runs into reproducible fold plans and
// persists them in a blobstore.Store.
//
// # Layout
//
//	<name>/manifest.json            config, groups, fold entries, codec, compression
//	<name>/folds/000000.json[.lz4|.zst]
//	<name>/folds/000001.json[.lz4|.zst]
//
// Fold blobs are uploaded concurrently and the manifest is written last with a
// conditional create. Plans are write-once: saving an existing name fails with
// ErrPlanExists.
//
// # Usage
//
//	p, err := plan.Build(ctx, splitter, df, target, nil)
//	w := plan.NewWriter(store, plan.WithCompression(plan.CompressionZSTD))
//	err = w.Save(ctx, "loso-2024", p)
//
//	p, err = plan.NewReader(store).Load(ctx, "loso-2024")
//
// Load verifies checksums, fold sizes and that every fold partitions the
// samples, and reports violations as ErrCorruptPlan.
package plan
