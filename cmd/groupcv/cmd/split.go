package cmd

import (
	"fmt"

	"github.com/hupe1980/groupcv"
	"github.com/hupe1980/groupcv/codec"
	"github.com/spf13/cobra"
)

type foldRecord struct {
	Fold   int      `json:"fold"`
	Key    string   `json:"key,omitempty"`
	Groups []string `json:"groups,omitempty"`
	Train  []int    `json:"train"`
	Test   []int    `json:"test"`
}

func newFoldRecord(i int, f groupcv.Fold, keys bool) foldRecord {
	rec := foldRecord{Fold: i, Train: f.Train, Test: f.Test}
	if keys {
		rec.Key = f.Key.String()
		rec.Groups = make([]string, len(f.Groups))
		for j, g := range f.Groups {
			rec.Groups[j] = g.String()
		}
	}
	return rec
}

func newSplitCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "split",
		Short: "Print one JSON object per fold",
		Example: `  groupcv split -i data.csv -c site -t label -p 1 --keys
  groupcv split -i data.csv -p 2 --shuffle --seed 42`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, target, err := a.loadDataset(cmd.InOrStdin())
			if err != nil {
				return err
			}
			s, err := a.newSplitter()
			if err != nil {
				return err
			}

			folds, err := s.SplitKeyed(data, target, nil)
			if err != nil {
				return err
			}

			var c codec.GoJSON
			out := cmd.OutOrStdout()
			i := 0
			for fold := range folds {
				line, err := c.Marshal(newFoldRecord(i, fold, a.cfg.Keys))
				if err != nil {
					return err
				}
				if _, err := fmt.Fprintf(out, "%s\n", line); err != nil {
					return err
				}
				i++
			}
			return nil
		},
	}

	addDatasetFlags(cmd.Flags())
	cmd.Flags().Bool("keys", false, "include the held-out groups in every record")

	return cmd
}
