// Package storage holds table rows in fixed-capacity, column-major blocks
// grouped into segments.
//
// Rows are append-only. A delete flips the row's bit in its block's
// tombstone bitmap; storage is reclaimed only when the whole store is
// released. Block memory is reserved against a resource.Controller before
// any row of a batch is written, so a batch either fits or fails with
// ErrResourceExhausted without side effects.
//
// Store is not safe for concurrent use; callers serialize access.
package storage
