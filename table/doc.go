// Package table defines the tabular access interface consumed by the splitter
// and its adapters for the supported data containers.
//
// A Table exposes only what group-aware splitting needs: the number of rows and
// named columns as typed values. The container is chosen once at the boundary:
//
//	t, _ := table.NewColumns(map[string][]metadata.Value{"site": sites})
//	t := table.Rows(docs)                    // []metadata.Document
//	t := table.NewFrame(df)                  // gota dataframe.DataFrame
//	t, _ := table.NewMatrix(dense, names)    // gonum mat.Matrix
//	t, _ := table.ReadCSV(f, table.WithDelimiter('\t'))
package table

import "github.com/hupe1980/groupcv/metadata"

// Table is a read-only, fixed-length collection of rows with named columns.
type Table interface {
	// Len returns the number of rows.
	Len() int
	// Column returns the values of the named column, one per row.
	// ok is false if the table has no such column.
	Column(name string) (values []metadata.Value, ok bool)
}
