package pk

import (
	"sync"

	"github.com/hupe1980/tabledb/types"
)

// MemoryIndex is an in-memory implementation of Index backed by a Go map.
//
// Keys are the stable Value.Key() renderings, so callers must pass values
// already encoded for the key column.
type MemoryIndex[L any] struct {
	mu sync.RWMutex
	m  map[string]L
}

// NewMemoryIndex creates a new in-memory index.
func NewMemoryIndex[L any]() *MemoryIndex[L] {
	return &MemoryIndex[L]{
		m: make(map[string]L),
	}
}

// Lookup returns the location for the given primary key.
func (idx *MemoryIndex[L]) Lookup(key types.Value) (L, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	loc, ok := idx.m[key.Key()]
	return loc, ok
}

// Upsert updates the location for the given primary key.
func (idx *MemoryIndex[L]) Upsert(key types.Value, loc L) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.m[key.Key()] = loc
	return nil
}

// Delete removes the primary key from the index.
func (idx *MemoryIndex[L]) Delete(key types.Value) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	delete(idx.m, key.Key())
	return nil
}

// Len returns the number of keys.
func (idx *MemoryIndex[L]) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.m)
}

// Reset removes all keys.
func (idx *MemoryIndex[L]) Reset() {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.m = make(map[string]L)
}
