package result

import (
	"fmt"
	"reflect"
	"strings"
	"text/tabwriter"

	"github.com/hupe1980/tabledb/types"
)

// Frame is a typed data-frame: an ordered list of named Series of equal
// length. Series names may repeat.
type Frame struct {
	series []*Series
	rows   int
}

// Series is one typed column of a Frame.
type Series struct {
	col *Column
}

// Frame converts the result into a data-frame. Series share the result's
// immutable storage.
func (rs *ResultSet) Frame() *Frame {
	f := &Frame{series: make([]*Series, len(rs.cols)), rows: rs.rows}
	for i, c := range rs.cols {
		f.series[i] = &Series{col: c}
	}
	return f
}

// Len returns the number of rows.
func (f *Frame) Len() int { return f.rows }

// Width returns the number of series.
func (f *Frame) Width() int { return len(f.series) }

// Columns returns the series names.
func (f *Frame) Columns() []string {
	out := make([]string, len(f.series))
	for i, s := range f.series {
		out[i] = s.Name()
	}
	return out
}

// DTypes returns the dtype names of every series.
func (f *Frame) DTypes() []string {
	out := make([]string, len(f.series))
	for i, s := range f.series {
		out[i] = s.DType()
	}
	return out
}

// Series returns the i-th series.
func (f *Frame) Series(i int) *Series { return f.series[i] }

// Col returns the first series named name.
func (f *Frame) Col(name string) (*Series, bool) {
	for _, s := range f.series {
		if s.Name() == name {
			return s, true
		}
	}
	return nil, false
}

// Equal reports whether two frames have the same names, types and values.
func (f *Frame) Equal(o *Frame) bool {
	if f.rows != o.rows || len(f.series) != len(o.series) {
		return false
	}
	for i := range f.series {
		a, b := f.series[i].col, o.series[i].col
		if a.name != b.name || a.typ != b.typ {
			return false
		}
		for r := range f.rows {
			if !reflect.DeepEqual(a.Value(r), b.Value(r)) {
				return false
			}
		}
	}
	return true
}

// String renders the frame as an aligned text table.
func (f *Frame) String() string {
	var sb strings.Builder
	tw := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(f.Columns(), "\t"))
	fmt.Fprintln(tw, strings.Join(f.DTypes(), "\t"))
	for r := range f.rows {
		cells := make([]string, len(f.series))
		for i, s := range f.series {
			cells[i] = formatCell(s.col.Value(r))
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	_ = tw.Flush()
	return sb.String()
}

func formatCell(v any) string {
	if v == nil {
		return "null"
	}
	return fmt.Sprint(v)
}

// Name returns the series name.
func (s *Series) Name() string { return s.col.name }

// Type returns the column type of the series.
func (s *Series) Type() types.DataType { return s.col.typ }

// Len returns the number of values.
func (s *Series) Len() int { return s.col.n }

// DType returns the dtype name, e.g. "int32", "string" or
// "list[float32;5]".
func (s *Series) DType() string {
	return DType(s.col.typ)
}

// At returns value i as a native Go value, nil for null.
func (s *Series) At(i int) any { return s.col.Value(i) }

// IsNull reports whether value i is null.
func (s *Series) IsNull(i int) bool { return !s.col.Valid(i) }

// Data returns the typed backing slice. It must not be modified.
func (s *Series) Data() any { return s.col.data }

// SeriesValues returns a copy of the series data as []T. The second
// result is false if T does not match the series' physical type.
func SeriesValues[T any](s *Series) ([]T, bool) {
	v, ok := Values[T](s.col)
	if !ok {
		return nil, false
	}
	return clone(v), true
}

// DType returns the data-frame dtype name for t.
func DType(t types.DataType) string {
	if t.IsVector() {
		return fmt.Sprintf("list[%s;%d]", DType(types.DataType{ID: t.Elem}), t.Dim)
	}
	switch t.ID {
	case types.TypeVarchar:
		return "string"
	default:
		return strings.ToLower(t.ID.String())
	}
}
