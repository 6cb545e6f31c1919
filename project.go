package tabledb

import (
	"context"
	"time"

	"github.com/hupe1980/tabledb/result"
)

// Project materializes the visible rows into a ResultSet holding the named
// columns in the given order. "*" expands to every column in schema order;
// names may repeat. An empty list yields a zero-column result with the
// visible row count.
//
// The ResultSet owns its data and stays valid after later mutations or
// Drop.
func (t *Table) Project(ctx context.Context, columns ...string) (rs *result.ResultSet, err error) {
	start := time.Now()
	defer func() {
		rows := 0
		if rs != nil {
			rows = rs.NumRows()
		}
		t.metrics.RecordProject(rows, time.Since(start), err)
		t.logger.LogProject(ctx, columns, rows, err)
	}()

	t.mu.RLock()
	defer t.mu.RUnlock()

	if err = t.checkLive(); err != nil {
		return nil, t.opError("project", err)
	}

	b, err := result.NewBuilder(t.schema, columns, int(t.store.Visible()))
	if err != nil {
		return nil, t.opError("project", err)
	}
	for ref := range t.store.Snapshot().Blocks() {
		if err = ctx.Err(); err != nil {
			return nil, t.opError("project", err)
		}
		b.AppendBlock(ref.Block, ref.Rows)
	}
	return b.Build(), nil
}

// Output projects columns and converts the result into format: *result.Rows
// for result.FormatRows, arrow.Record for result.FormatArrow (the caller
// must Release it) or *result.Frame for result.FormatFrame.
func (t *Table) Output(ctx context.Context, format result.Format, columns ...string) (any, error) {
	rs, err := t.Project(ctx, columns...)
	if err != nil {
		return nil, err
	}
	out, err := rs.As(format)
	if err != nil {
		return nil, t.opError("output", err)
	}
	return out, nil
}
