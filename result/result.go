// Package result materializes query output. A ResultSet is the canonical,
// owned, column-major copy of projected rows; Rows, Arrow and Frame are
// pure transforms over it.
package result

import (
	"errors"
	"fmt"
	"strings"

	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/hupe1980/tabledb/types"
)

// ErrFormat is returned for unknown output formats.
var ErrFormat = errors.New("format error")

// Format selects an output representation.
type Format int

const (
	// FormatRows is a row-major table of native Go values.
	FormatRows Format = iota
	// FormatArrow is a column-major Apache Arrow record batch.
	FormatArrow
	// FormatFrame is a typed data-frame.
	FormatFrame
)

func (f Format) String() string {
	switch f {
	case FormatRows:
		return "rows"
	case FormatArrow:
		return "arrow"
	case FormatFrame:
		return "frame"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// ParseFormat parses a format name.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rows", "table", "pylist":
		return FormatRows, nil
	case "arrow":
		return FormatArrow, nil
	case "frame", "df", "dataframe":
		return FormatFrame, nil
	default:
		return 0, fmt.Errorf("%w: unknown format %q", ErrFormat, s)
	}
}

// ResultSet is an immutable column-major snapshot of projected rows. It
// owns its data and stays valid after the source table changes or is
// dropped.
type ResultSet struct {
	cols []*Column
	rows int
}

// FromValues builds a ResultSet from encoded row values. Every value must
// already be encoded for its column type.
func FromValues(names []string, typs []types.DataType, rows [][]types.Value) (*ResultSet, error) {
	if len(names) != len(typs) {
		return nil, fmt.Errorf("result: %d names for %d types", len(names), len(typs))
	}
	b := &Builder{cols: make([]*Column, len(names))}
	for i := range names {
		b.cols[i] = newColumn(names[i], typs[i], len(rows))
	}
	for i, r := range rows {
		if len(r) != len(names) {
			return nil, fmt.Errorf("result: row %d has %d values, want %d", i, len(r), len(names))
		}
		b.AppendRow(r)
	}
	return b.Build(), nil
}

// NumRows returns the number of rows.
func (rs *ResultSet) NumRows() int { return rs.rows }

// NumCols returns the number of projected columns.
func (rs *ResultSet) NumCols() int { return len(rs.cols) }

// Column returns the i-th projected column.
func (rs *ResultSet) Column(i int) *Column { return rs.cols[i] }

// Names returns the projected column names in order. Names may repeat.
func (rs *ResultSet) Names() []string {
	out := make([]string, len(rs.cols))
	for i, c := range rs.cols {
		out[i] = c.name
	}
	return out
}

// Types returns the projected column types in order.
func (rs *ResultSet) Types() []types.DataType {
	out := make([]types.DataType, len(rs.cols))
	for i, c := range rs.cols {
		out[i] = c.typ
	}
	return out
}

// As converts the result into the requested format: *Rows, arrow.Record or
// *Frame. Arrow records are allocated from memory.DefaultAllocator and must
// be released by the caller.
func (rs *ResultSet) As(f Format) (any, error) {
	switch f {
	case FormatRows:
		return rs.Rows(), nil
	case FormatArrow:
		return rs.Arrow(memory.DefaultAllocator)
	case FormatFrame:
		return rs.Frame(), nil
	default:
		return nil, fmt.Errorf("%w: unknown format %s", ErrFormat, f)
	}
}
