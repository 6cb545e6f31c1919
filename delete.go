package tabledb

import (
	"context"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/tabledb/predicate"
)

// DeleteResult reports the outcome of a delete.
type DeleteResult struct {
	Deleted int
}

// Delete tombstones every visible row matching the predicate text where.
// An empty where deletes all visible rows.
//
// Example:
//
//	res, err := tbl.Delete(ctx, "c1 = 1 OR c2 = 'x'")
func (t *Table) Delete(ctx context.Context, where string) (DeleteResult, error) {
	expr, err := predicate.Parse(where)
	if err != nil {
		err = t.opError("delete", err)
		t.metrics.RecordDelete(0, 0, err)
		t.logger.LogDelete(ctx, where, 0, err)
		return DeleteResult{}, err
	}
	return t.DeleteWhere(ctx, expr)
}

// DeleteWhere tombstones every visible row matching expr. The predicate is
// bound against the schema before any row is touched. Rows already deleted
// are not counted.
func (t *Table) DeleteWhere(ctx context.Context, expr predicate.Expr) (res DeleteResult, err error) {
	start := time.Now()
	defer func() {
		t.metrics.RecordDelete(res.Deleted, time.Since(start), err)
		t.logger.LogDelete(ctx, expr.String(), res.Deleted, err)
	}()

	t.mu.Lock()
	defer t.mu.Unlock()

	if err = t.checkLive(); err != nil {
		return DeleteResult{}, t.opError("delete", err)
	}
	bound, err := expr.Bind(t.schema)
	if err != nil {
		return DeleteResult{}, t.opError("delete", err)
	}
	matches, err := t.match(ctx, bound)
	if err != nil {
		return DeleteResult{}, t.opError("delete", err)
	}

	n, err := t.tombstone(matches)
	if err != nil {
		return DeleteResult{Deleted: n}, t.opError("delete", err)
	}
	return DeleteResult{Deleted: n}, nil
}

// match evaluates bound over all visible rows, one goroutine per segment,
// and returns the matching positions per segment. Must be called with t.mu
// held.
func (t *Table) match(ctx context.Context, bound *predicate.Bound) ([]*roaring.Bitmap, error) {
	snap := t.store.Snapshot()
	out := make([]*roaring.Bitmap, snap.Segments())

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(t.opts.resources.ScanWorkers())

	for seg := range snap.Segments() {
		g.Go(func() error {
			bm := roaring.New()
			for row := range snap.SegmentRows(seg) {
				if row.Addr.Offset == 0 {
					if err := gctx.Err(); err != nil {
						return err
					}
				}
				if row.Visible() && bound.Match(row) {
					bm.Add(row.Position())
				}
			}
			out[seg] = bm
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// tombstone deletes the matched rows and drops their primary keys.
func (t *Table) tombstone(matches []*roaring.Bitmap) (int, error) {
	n := 0
	for seg, bm := range matches {
		it := bm.Iterator()
		for it.HasNext() {
			addr := t.store.AddressAt(seg, it.Next())
			row, _, err := t.store.Get(addr)
			if err != nil {
				return n, err
			}
			changed, err := t.store.Tombstone(addr)
			if err != nil {
				return n, err
			}
			if changed {
				n++
				t.unindex(row, addr)
			}
		}
	}
	return n, nil
}
