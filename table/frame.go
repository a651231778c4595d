package table

import (
	"fmt"
	"io"
	"slices"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/hupe1980/groupcv/metadata"
)

// Frame adapts a gota DataFrame to Table.
//
// Column types map as int → Int, float → Float, bool → Bool, string → String.
// Missing cells (NA) read as null.
type Frame struct {
	df dataframe.DataFrame
}

// NewFrame wraps df. The DataFrame is not copied.
func NewFrame(df dataframe.DataFrame) *Frame {
	return &Frame{df: df}
}

// DataFrame returns the underlying DataFrame.
func (f *Frame) DataFrame() dataframe.DataFrame { return f.df }

// Len returns the number of rows.
func (f *Frame) Len() int { return f.df.Nrow() }

// Names returns the column names in frame order.
func (f *Frame) Names() []string { return f.df.Names() }

// Column returns the values of the named column.
func (f *Frame) Column(name string) ([]metadata.Value, bool) {
	if !slices.Contains(f.df.Names(), name) {
		return nil, false
	}
	values, err := seriesValues(f.df.Col(name))
	if err != nil {
		return nil, false
	}
	return values, true
}

// Subset returns a new Frame holding the given rows, in order.
// Use it to materialize the train or test side of a fold.
func (f *Frame) Subset(indices []int) (*Frame, error) {
	sub := f.df.Subset(indices)
	if sub.Err != nil {
		return nil, fmt.Errorf("table: subset: %w", sub.Err)
	}
	return &Frame{df: sub}, nil
}

func seriesValues(s series.Series) ([]metadata.Value, error) {
	if s.Err != nil {
		return nil, s.Err
	}

	typ := s.Type()
	values := make([]metadata.Value, s.Len())
	for i := range values {
		e := s.Elem(i)
		if e.IsNA() {
			values[i] = metadata.Null()
			continue
		}

		switch typ {
		case series.Int:
			n, err := e.Int()
			if err != nil {
				return nil, err
			}
			values[i] = metadata.Int(int64(n))
		case series.Float:
			values[i] = metadata.Float(e.Float())
		case series.Bool:
			b, err := e.Bool()
			if err != nil {
				return nil, err
			}
			values[i] = metadata.Bool(b)
		default:
			values[i] = metadata.String(e.String())
		}
	}

	return values, nil
}

type csvOptions struct {
	delimiter rune
	header    bool
	types     map[string]series.Type
}

// CSVOption configures ReadCSV.
type CSVOption func(*csvOptions)

// WithDelimiter sets the field delimiter (default ',').
func WithDelimiter(r rune) CSVOption {
	return func(o *csvOptions) { o.delimiter = r }
}

// WithHeader sets whether the first line holds column names (default true).
// Without a header gota names columns X0, X1, ...
func WithHeader(header bool) CSVOption {
	return func(o *csvOptions) { o.header = header }
}

// WithColumnType forces the type of a column instead of detecting it.
// Group columns holding numeric site codes are commonly read as strings.
func WithColumnType(name string, typ series.Type) CSVOption {
	return func(o *csvOptions) {
		if o.types == nil {
			o.types = make(map[string]series.Type)
		}
		o.types[name] = typ
	}
}

// ReadCSV loads a CSV document into a Frame.
func ReadCSV(r io.Reader, optFns ...CSVOption) (*Frame, error) {
	opts := csvOptions{delimiter: ',', header: true}
	for _, fn := range optFns {
		fn(&opts)
	}

	loadOpts := []dataframe.LoadOption{
		dataframe.WithDelimiter(opts.delimiter),
		dataframe.HasHeader(opts.header),
	}
	if len(opts.types) > 0 {
		loadOpts = append(loadOpts, dataframe.WithTypes(opts.types))
	}

	df := dataframe.ReadCSV(r, loadOpts...)
	if df.Err != nil {
		return nil, fmt.Errorf("table: read csv: %w", df.Err)
	}
	return NewFrame(df), nil
}
