package tabledb

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/hupe1980/tabledb/internal/storage"
	"github.com/hupe1980/tabledb/pk"
	"github.com/hupe1980/tabledb/types"
)

// Table is an in-memory, append-only table of typed rows stored in
// fixed-capacity blocks grouped into segments.
//
// Table is safe for concurrent use. Writers (Insert, Delete, Update, Drop)
// are serialized; readers run concurrently with each other.
type Table struct {
	id     uuid.UUID
	name   string
	schema *types.Schema

	mu      sync.RWMutex
	store   *storage.Store
	pk      *pk.MemoryIndex[storage.RowAddress]
	pkCol   int
	dropped bool

	opts    options
	logger  *Logger
	metrics MetricsCollector
}

// NewTable creates an empty table.
//
// It returns ErrSchema if name is empty or schema is nil.
func NewTable(name string, schema *types.Schema, optFns ...Option) (*Table, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty table name", ErrSchema)
	}
	if schema == nil || schema.Len() == 0 {
		return nil, fmt.Errorf("%w: table %q has no columns", ErrSchema, name)
	}

	o := applyOptions(optFns)
	layout := storage.Options{
		BlockCapacity:    o.blockCapacity,
		BlocksPerSegment: o.blocksPerSegment,
		Resources:        o.resources,
	}
	if err := layout.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfig, err)
	}
	t := &Table{
		id:     uuid.New(),
		name:   name,
		schema: schema,
		store:  storage.New(schema, layout),
		pkCol:   -1,
		opts:    o,
		logger:  o.logger.WithTable(name),
		metrics: o.metricsCollector,
	}
	if i, ok := schema.PrimaryKey(); ok {
		t.pkCol = i
		t.pk = pk.NewMemoryIndex[storage.RowAddress]()
	}

	t.logger.LogCreate(context.Background(), schema.Len())
	return t, nil
}

// ID returns the table's unique identifier.
func (t *Table) ID() uuid.UUID { return t.id }

// Name returns the table name.
func (t *Table) Name() string { return t.name }

// Schema returns the immutable table schema.
func (t *Table) Schema() *types.Schema { return t.schema }

// Len returns the number of visible rows.
func (t *Table) Len() int64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.dropped {
		return 0
	}
	return t.store.Visible()
}

// MemoryBytes returns the bytes allocated for the table's blocks.
func (t *Table) MemoryBytes() int64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.store.MemoryBytes()
}

// Dropped reports whether Drop has been called.
func (t *Table) Dropped() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.dropped
}

// Drop releases all storage. Subsequent operations fail with
// ErrTableDropped. Drop is idempotent.
func (t *Table) Drop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.dropped {
		return
	}
	rows, bytes := t.store.Visible(), t.store.MemoryBytes()
	t.store.Release()
	if t.pk != nil {
		t.pk.Reset()
	}
	t.dropped = true
	t.logger.LogDrop(context.Background(), rows, bytes)
}

// checkLive must be called with t.mu held.
func (t *Table) checkLive() error {
	if t.dropped {
		return ErrTableDropped
	}
	return nil
}

// pkKey returns the primary key of an encoded row.
func (t *Table) pkKey(row []types.Value) (types.Value, bool) {
	if t.pkCol < 0 {
		return types.Value{}, false
	}
	return row[t.pkCol], true
}

// unindex removes the row's primary key if it points at addr.
func (t *Table) unindex(row []types.Value, addr storage.RowAddress) {
	key, ok := t.pkKey(row)
	if !ok {
		return
	}
	if cur, found := t.pk.Lookup(key); found && cur == addr {
		_ = t.pk.Delete(key)
	}
}
