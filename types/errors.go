package types

import (
	"errors"
	"fmt"
)

var (
	// ErrSchema is returned for invalid table schemas (duplicate names,
	// more than one primary key, malformed types).
	ErrSchema = errors.New("schema error")

	// ErrTypeMismatch is returned when a value cannot be stored in a column.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrDimensionMismatch is returned when a vector has the wrong length.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrNullConstraint is returned when null is written to a not-null column.
	ErrNullConstraint = errors.New("null constraint violation")

	// ErrDuplicateKey is returned when a primary key already exists.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrUnknownColumn is returned when a column name is not in the schema.
	ErrUnknownColumn = errors.New("unknown column")
)

// ColumnError attaches a column name to an error.
//
// The original error can be accessed via errors.Unwrap.
type ColumnError struct {
	Column string
	Err    error
}

func (e *ColumnError) Error() string {
	return fmt.Sprintf("column %q: %v", e.Column, e.Err)
}

func (e *ColumnError) Unwrap() error { return e.Err }

// DimensionError reports a vector length mismatch.
type DimensionError struct {
	Expected int
	Actual   int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

func (e *DimensionError) Unwrap() error { return ErrDimensionMismatch }

func schemaErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrSchema, fmt.Sprintf(format, args...))
}

func mismatchf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrTypeMismatch, fmt.Sprintf(format, args...))
}
