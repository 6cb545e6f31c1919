package tabledb

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/hupe1980/tabledb/internal/storage"
	"github.com/hupe1980/tabledb/types"
)

// Row maps column names to Go values. Missing columns are null.
type Row map[string]any

// InsertResult reports the outcome of an insert.
type InsertResult struct {
	Inserted int
}

// Insert appends a batch of rows.
//
// Every row is encoded against the schema and primary keys are checked
// against the visible rows and within the batch before anything is
// written. A failed insert leaves the table unchanged.
func (t *Table) Insert(ctx context.Context, rows []Row) (InsertResult, error) {
	encoded := make([][]types.Value, len(rows))
	return t.insert(ctx, len(rows), func() error {
		for i, r := range rows {
			enc, err := t.encodeRow(r)
			if err != nil {
				return fmt.Errorf("row %d: %w", i, err)
			}
			encoded[i] = enc
		}
		return nil
	}, encoded)
}

// InsertRows appends a batch of positional rows in schema column order.
func (t *Table) InsertRows(ctx context.Context, rows [][]any) (InsertResult, error) {
	encoded := make([][]types.Value, len(rows))
	return t.insert(ctx, len(rows), func() error {
		for i, r := range rows {
			enc, err := t.encodeTuple(r)
			if err != nil {
				return fmt.Errorf("row %d: %w", i, err)
			}
			encoded[i] = enc
		}
		return nil
	}, encoded)
}

func (t *Table) insert(ctx context.Context, n int, encode func() error, encoded [][]types.Value) (res InsertResult, err error) {
	start := time.Now()
	defer func() {
		t.metrics.RecordInsert(n, time.Since(start), err)
		t.logger.LogInsert(ctx, n, err)
	}()

	if err = ctx.Err(); err != nil {
		return InsertResult{}, err
	}
	if err = encode(); err != nil {
		return InsertResult{}, t.opError("insert", err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if err = t.checkLive(); err != nil {
		return InsertResult{}, t.opError("insert", err)
	}
	if n == 0 {
		return InsertResult{}, nil
	}
	if err = t.appendLocked(encoded, nil); err != nil {
		return InsertResult{}, t.opError("insert", err)
	}
	return InsertResult{Inserted: n}, nil
}

func (t *Table) encodeRow(r Row) ([]types.Value, error) {
	for _, name := range slices.Sorted(maps.Keys(r)) {
		if _, err := t.schema.Resolve(name); err != nil {
			return nil, err
		}
	}
	out := make([]types.Value, t.schema.Len())
	for i, c := range t.schema.Columns() {
		v, err := t.encodeValue(i, r[c.Name])
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (t *Table) encodeTuple(r []any) ([]types.Value, error) {
	if len(r) != t.schema.Len() {
		return nil, fmt.Errorf("%w: got %d values, want %d", ErrColumnCount, len(r), t.schema.Len())
	}
	out := make([]types.Value, len(r))
	for i, x := range r {
		v, err := t.encodeValue(i, x)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (t *Table) encodeValue(i int, x any) (types.Value, error) {
	v, err := types.ValueOf(x)
	if err != nil {
		return types.Value{}, &ColumnError{Column: t.schema.Column(i).Name, Err: err}
	}
	return t.schema.EncodeColumn(i, v)
}

// checkKeys verifies that the primary keys of rows are unique among
// themselves and against the index. Index entries pointing at a replaced
// address are ignored.
func (t *Table) checkKeys(rows [][]types.Value, replaced map[storage.RowAddress]struct{}) error {
	if t.pkCol < 0 {
		return nil
	}
	name := t.schema.Column(t.pkCol).Name
	seen := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		key := row[t.pkCol]
		k := key.Key()
		if _, dup := seen[k]; dup {
			return &ColumnError{Column: name, Err: fmt.Errorf("%w: %s repeated in batch", ErrDuplicateKey, key)}
		}
		seen[k] = struct{}{}
		if addr, ok := t.pk.Lookup(key); ok {
			if _, gone := replaced[addr]; !gone {
				return &ColumnError{Column: name, Err: fmt.Errorf("%w: %s", ErrDuplicateKey, key)}
			}
		}
	}
	return nil
}

// appendLocked checks keys, reserves storage and appends rows in order.
// Nothing is written unless every check passes.
func (t *Table) appendLocked(rows [][]types.Value, replaced map[storage.RowAddress]struct{}) error {
	if err := t.checkKeys(rows, replaced); err != nil {
		return err
	}
	if err := t.store.Reserve(len(rows)); err != nil {
		return err
	}
	for _, row := range rows {
		addr, err := t.store.Append(row)
		if err != nil {
			// Unreachable after Reserve.
			return err
		}
		if key, ok := t.pkKey(row); ok {
			_ = t.pk.Upsert(key, addr)
		}
	}
	return nil
}
