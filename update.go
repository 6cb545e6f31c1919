package tabledb

import (
	"context"
	"maps"
	"slices"
	"time"

	"github.com/hupe1980/tabledb/internal/storage"
	"github.com/hupe1980/tabledb/predicate"
	"github.com/hupe1980/tabledb/types"
)

// UpdateResult reports the outcome of an update.
type UpdateResult struct {
	Updated int
}

// Update assigns the values in set to every visible row matching where.
// An empty where updates all visible rows.
func (t *Table) Update(ctx context.Context, where string, set Row) (UpdateResult, error) {
	expr, err := predicate.Parse(where)
	if err != nil {
		err = t.opError("update", err)
		t.metrics.RecordUpdate(0, 0, err)
		t.logger.LogUpdate(ctx, where, 0, err)
		return UpdateResult{}, err
	}
	return t.UpdateWhere(ctx, expr, set)
}

// UpdateWhere assigns the values in set to every visible row matching expr.
//
// Matching rows are tombstoned and their updated images appended at the
// end of the table. Primary keys are checked over the result; on any
// error the table is unchanged.
func (t *Table) UpdateWhere(ctx context.Context, expr predicate.Expr, set Row) (res UpdateResult, err error) {
	start := time.Now()
	defer func() {
		t.metrics.RecordUpdate(res.Updated, time.Since(start), err)
		t.logger.LogUpdate(ctx, expr.String(), res.Updated, err)
	}()

	t.mu.Lock()
	defer t.mu.Unlock()

	if err = t.checkLive(); err != nil {
		return UpdateResult{}, t.opError("update", err)
	}
	bound, err := expr.Bind(t.schema)
	if err != nil {
		return UpdateResult{}, t.opError("update", err)
	}
	assign, err := t.encodeSet(set)
	if err != nil {
		return UpdateResult{}, t.opError("update", err)
	}
	if len(assign) == 0 {
		return UpdateResult{}, nil
	}
	matches, err := t.match(ctx, bound)
	if err != nil {
		return UpdateResult{}, t.opError("update", err)
	}

	var (
		addrs  []storage.RowAddress
		images [][]types.Value
	)
	replaced := make(map[storage.RowAddress]struct{})
	for seg, bm := range matches {
		it := bm.Iterator()
		for it.HasNext() {
			addr := t.store.AddressAt(seg, it.Next())
			row, _, gerr := t.store.Get(addr)
			if gerr != nil {
				return UpdateResult{}, t.opError("update", gerr)
			}
			addrs = append(addrs, addr)
			replaced[addr] = struct{}{}
			for col, v := range assign {
				row[col] = v
			}
			images = append(images, row)
		}
	}
	if len(images) == 0 {
		return UpdateResult{}, nil
	}

	if err = t.checkKeys(images, replaced); err != nil {
		return UpdateResult{}, t.opError("update", err)
	}
	if err = t.store.Reserve(len(images)); err != nil {
		return UpdateResult{}, t.opError("update", err)
	}

	for _, addr := range addrs {
		old, _, _ := t.store.Get(addr)
		if _, err = t.store.Tombstone(addr); err != nil {
			return UpdateResult{}, t.opError("update", err)
		}
		t.unindex(old, addr)
	}
	if err = t.appendLocked(images, nil); err != nil {
		return UpdateResult{}, t.opError("update", err)
	}
	return UpdateResult{Updated: len(images)}, nil
}

func (t *Table) encodeSet(set Row) (map[int]types.Value, error) {
	out := make(map[int]types.Value, len(set))
	for _, name := range slices.Sorted(maps.Keys(set)) {
		col, err := t.schema.Resolve(name)
		if err != nil {
			return nil, err
		}
		v, err := t.encodeValue(col, set[name])
		if err != nil {
			return nil, err
		}
		out[col] = v
	}
	return out, nil
}
