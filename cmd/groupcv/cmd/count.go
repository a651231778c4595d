package cmd

import (
	"fmt"

	"github.com/hupe1980/groupcv/codec"
	"github.com/spf13/cobra"
)

type countRecord struct {
	NSplits   int `json:"n_splits"`
	MaxSplits int `json:"max_splits"`
	Groups    int `json:"groups"`
	Samples   int `json:"samples"`
}

func newCountCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "count",
		Short: "Print the number of folds split would produce",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, target, err := a.loadDataset(cmd.InOrStdin())
			if err != nil {
				return err
			}
			s, err := a.newSplitter()
			if err != nil {
				return err
			}

			n, err := s.NSplits(data, target, nil)
			if err != nil {
				return err
			}
			maxSplits, err := s.MaxSplits(data, nil)
			if err != nil {
				return err
			}
			groups, err := s.Groups(data, nil)
			if err != nil {
				return err
			}

			line, err := codec.GoJSON{}.Marshal(countRecord{
				NSplits:   n,
				MaxSplits: maxSplits,
				Groups:    len(groups),
				Samples:   data.Len(),
			})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s\n", line)
			return err
		},
	}

	addDatasetFlags(cmd.Flags())

	return cmd
}
