package tabledb

import (
	"github.com/hupe1980/tabledb/result"
	"github.com/hupe1980/tabledb/types"
)

// ColumnInfo describes one column of a table.
type ColumnInfo struct {
	Name       string
	Type       string
	Constraint string
}

// SegmentInfo summarizes one segment.
type SegmentInfo struct {
	ID      int
	Blocks  int
	Rows    int
	Deleted int
}

// BlockInfo summarizes one block.
type BlockInfo struct {
	Segment  int
	ID       int
	Rows     int
	Deleted  int
	Capacity int
}

// Describe lists the columns in schema order.
func (t *Table) Describe() ([]ColumnInfo, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if err := t.checkLive(); err != nil {
		return nil, t.opError("describe", err)
	}
	return describeSchema(t.schema), nil
}

func describeSchema(s *types.Schema) []ColumnInfo {
	out := make([]ColumnInfo, s.Len())
	for i, c := range s.Columns() {
		out[i] = ColumnInfo{
			Name:       c.Name,
			Type:       c.Type.String(),
			Constraint: c.Constraints.String(),
		}
	}
	return out
}

// DescribeResult returns Describe as a ResultSet with the varchar columns
// column_name, column_type and constraint.
func (t *Table) DescribeResult() (*result.ResultSet, error) {
	info, err := t.Describe()
	if err != nil {
		return nil, err
	}
	return describeResult(info)
}

func describeResult(info []ColumnInfo) (*result.ResultSet, error) {
	rows := make([][]types.Value, len(info))
	for i, c := range info {
		rows[i] = []types.Value{types.String(c.Name), types.String(c.Type), types.String(c.Constraint)}
	}
	return result.FromValues(
		[]string{"column_name", "column_type", "constraint"},
		[]types.DataType{types.VarcharType, types.VarcharType, types.VarcharType},
		rows,
	)
}

// Segments summarizes every segment in allocation order.
func (t *Table) Segments() ([]SegmentInfo, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if err := t.checkLive(); err != nil {
		return nil, t.opError("segments", err)
	}
	stats := t.store.SegmentStats()
	out := make([]SegmentInfo, len(stats))
	for i, s := range stats {
		out[i] = SegmentInfo(s)
	}
	return out, nil
}

// Blocks summarizes every block of a segment.
func (t *Table) Blocks(segment int) ([]BlockInfo, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if err := t.checkLive(); err != nil {
		return nil, t.opError("blocks", err)
	}
	stats, err := t.store.BlockStats(segment)
	if err != nil {
		return nil, t.opError("blocks", err)
	}
	out := make([]BlockInfo, len(stats))
	for i, s := range stats {
		out[i] = BlockInfo(s)
	}
	return out, nil
}
