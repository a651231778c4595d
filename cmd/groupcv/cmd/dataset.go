package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/hupe1980/groupcv"
	"github.com/hupe1980/groupcv/metadata"
	"github.com/hupe1980/groupcv/table"
	"github.com/spf13/pflag"
)

func addDatasetFlags(fs *pflag.FlagSet) {
	fs.StringP("input", "i", "", "CSV file to split, - for stdin")
	fs.String("delimiter", ",", "CSV field delimiter")
	fs.StringP("column", "c", groupcv.DefaultColumn, "column holding the group labels")
	fs.StringP("target", "t", "", "column holding the target, enables robust filtering")
	fs.IntP("n-groups", "p", 1, "number of groups held out per fold")
	fs.Bool("robust", true, "drop folds whose test targets hold a single value")
	fs.Bool("shuffle", false, "shuffle indices within train and test")
	fs.Int64("seed", 0, "shuffle seed; unset draws a fresh seed")
	fs.String("shuffle-mode", groupcv.ShuffleSharedSeed.String(), "seed reuse: shared or independent")
}

// loadDataset reads --input and resolves --target.
func (a *app) loadDataset(stdin io.Reader) (*table.Frame, []metadata.Value, error) {
	if a.cfg.Input == "" {
		return nil, nil, errors.New("--input is required")
	}

	delim, size := utf8.DecodeRuneInString(a.cfg.Delimiter)
	if size == 0 || size != len(a.cfg.Delimiter) {
		return nil, nil, fmt.Errorf("invalid delimiter %q", a.cfg.Delimiter)
	}

	r := stdin
	if a.cfg.Input != "-" {
		f, err := os.Open(a.cfg.Input)
		if err != nil {
			return nil, nil, err
		}
		defer f.Close()
		r = f
	}

	frame, err := table.ReadCSV(r, table.WithDelimiter(delim))
	if err != nil {
		return nil, nil, err
	}

	if a.cfg.Target == "" {
		return frame, nil, nil
	}
	target, ok := frame.Column(a.cfg.Target)
	if !ok {
		return nil, nil, fmt.Errorf("target column %q not found", a.cfg.Target)
	}

	return frame, target, nil
}
