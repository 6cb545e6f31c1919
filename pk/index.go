// Package pk implements primary-key indexes mapping key values to row
// locations.
package pk

import (
	"github.com/hupe1980/tabledb/types"
)

// Index maps encoded primary-key values to row locations.
type Index[L any] interface {
	Lookup(key types.Value) (L, bool)
	Upsert(key types.Value, loc L) error
	Delete(key types.Value) error
	Len() int
}
