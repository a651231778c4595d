package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/hupe1980/groupcv/codec"
	"github.com/hupe1980/groupcv/plan"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"
)

func newPlanCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Save, inspect and list stored fold plans",
	}

	addStoreFlags(cmd.PersistentFlags())

	cmd.AddCommand(newPlanSaveCmd(a))
	cmd.AddCommand(newPlanShowCmd(a))
	cmd.AddCommand(newPlanListCmd(a))
	cmd.AddCommand(newPlanDeleteCmd(a))

	return cmd
}

// planOptions translates the plan flags into writer and reader options.
func (a *app) planOptions(cmd *cobra.Command) ([]plan.Option, error) {
	c, ok := codec.ByName(a.cfg.Codec)
	if !ok {
		return nil, fmt.Errorf("unknown codec %q, want one of %v", a.cfg.Codec, codec.Names())
	}
	comp, err := plan.ParseCompression(a.cfg.Compression)
	if err != nil {
		return nil, err
	}

	opts := []plan.Option{
		plan.WithCodec(c),
		plan.WithCompression(comp),
		plan.WithConcurrency(a.cfg.Concurrency),
		plan.WithLogger(a.logger),
	}
	if a.cfg.Rate > 0 {
		opts = append(opts, plan.WithRateLimit(rate.Limit(a.cfg.Rate), a.cfg.Burst))
	}

	catalog, err := a.openCatalog(cmd.Context())
	if err != nil {
		return nil, err
	}
	if catalog != nil {
		opts = append(opts, plan.WithCatalog(catalog))
	}

	return opts, nil
}

func requireName(name string) error {
	if name == "" {
		return errors.New("--name is required")
	}
	return nil
}

func newPlanSaveCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "save",
		Short:   "Split a dataset and persist the folds as a named plan",
		Example: `  groupcv plan save -i data.csv -t label -p 2 -s file://plans -n two-sites --compression zstd`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireName(a.cfg.Name); err != nil {
				return err
			}
			ctx := cmd.Context()

			data, target, err := a.loadDataset(cmd.InOrStdin())
			if err != nil {
				return err
			}
			s, err := a.newSplitter()
			if err != nil {
				return err
			}
			p, err := plan.Build(ctx, s, data, target, nil)
			if err != nil {
				return err
			}

			st, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			opts, err := a.planOptions(cmd)
			if err != nil {
				return err
			}

			start := time.Now()
			if err := plan.NewWriter(st, opts...).Save(ctx, a.cfg.Name, p); err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "saved plan %s: folds=%d samples=%d duration=%s\n",
				a.cfg.Name, p.Len(), p.Manifest.Samples, time.Since(start).Round(time.Millisecond))
			return err
		},
	}

	fs := cmd.Flags()
	addDatasetFlags(fs)
	fs.StringP("name", "n", "", "plan name")
	fs.String("codec", "go-json", fmt.Sprintf("fold codec: %v", codec.Names()))
	fs.String("compression", "none", "fold compression: none, lz4 or zstd")
	fs.Int("concurrency", plan.DefaultConcurrency, "concurrent fold uploads")
	fs.Float64("rate", 0, "max fold uploads per second, 0 is unlimited")
	fs.Int("burst", 1, "upload burst when --rate is set")

	return cmd
}

func newPlanShowCmd(a *app) *cobra.Command {
	var withFolds bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the manifest of a stored plan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireName(a.cfg.Name); err != nil {
				return err
			}
			ctx := cmd.Context()

			st, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			r := plan.NewReader(st, plan.WithLogger(a.logger))

			var v any
			if withFolds {
				p, err := r.Load(ctx, a.cfg.Name)
				if err != nil {
					return err
				}
				v = p
			} else {
				m, err := r.Manifest(ctx, a.cfg.Name)
				if err != nil {
					return err
				}
				v = m
			}

			out, err := codec.GoJSON{}.MarshalIndent(v, "", "  ")
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s\n", out)
			return err
		},
	}

	cmd.Flags().StringP("name", "n", "", "plan name")
	cmd.Flags().BoolVar(&withFolds, "folds", false, "load and verify every fold and print it")

	return cmd
}

func newPlanListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored plans",
		Long:  "List the plans of --store, or of the catalog when --ddb-table is set.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			catalog, err := a.openCatalog(ctx)
			if err != nil {
				return err
			}
			if catalog != nil {
				entries, err := catalog.List(ctx)
				if err != nil {
					return err
				}
				for _, e := range entries {
					if _, err := fmt.Fprintf(out, "%s\t%d folds\t%d samples\t%s\n",
						e.Name, e.Folds, e.Samples, e.CreatedAt.Format(time.RFC3339)); err != nil {
						return err
					}
				}
				return nil
			}

			st, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			names, err := plan.Names(ctx, st)
			if err != nil {
				return err
			}
			for _, name := range names {
				if _, err := fmt.Fprintln(out, name); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func newPlanDeleteCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a stored plan and its catalog entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireName(a.cfg.Name); err != nil {
				return err
			}
			ctx := cmd.Context()

			st, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			opts, err := a.planOptions(cmd)
			if err != nil {
				return err
			}
			return plan.NewReader(st, opts...).Delete(ctx, a.cfg.Name)
		},
	}

	cmd.Flags().StringP("name", "n", "", "plan name")

	return cmd
}
