package result

import (
	"github.com/hupe1980/tabledb/types"
)

// Rows is a row-major table of native Go values. Each cell holds the Go
// type matching its column exactly (int32 for Int32, []float32 for a
// Float32 vector) or nil for null.
type Rows struct {
	Columns []string
	Types   []types.DataType
	Data    [][]any
}

// Rows converts the result into row-major form.
func (rs *ResultSet) Rows() *Rows {
	out := &Rows{
		Columns: rs.Names(),
		Types:   rs.Types(),
		Data:    make([][]any, rs.rows),
	}
	for r := range rs.rows {
		row := make([]any, len(rs.cols))
		for i, c := range rs.cols {
			row[i] = c.Value(r)
		}
		out.Data[r] = row
	}
	return out
}

// Len returns the number of rows.
func (r *Rows) Len() int { return len(r.Data) }
