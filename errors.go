package tabledb

import (
	"errors"
	"fmt"

	"github.com/hupe1980/tabledb/internal/storage"
	"github.com/hupe1980/tabledb/predicate"
	"github.com/hupe1980/tabledb/result"
	"github.com/hupe1980/tabledb/types"
)

var (
	// ErrSchema indicates an invalid table schema.
	ErrSchema = types.ErrSchema
	// ErrTypeMismatch indicates a value incompatible with its column type.
	ErrTypeMismatch = types.ErrTypeMismatch
	// ErrDimensionMismatch indicates a vector of the wrong length.
	ErrDimensionMismatch = types.ErrDimensionMismatch
	// ErrNullConstraint indicates null written to a not-null column.
	ErrNullConstraint = types.ErrNullConstraint
	// ErrDuplicateKey indicates a primary key collision.
	ErrDuplicateKey = types.ErrDuplicateKey
	// ErrUnknownColumn indicates a column name not in the schema.
	ErrUnknownColumn = types.ErrUnknownColumn
	// ErrPredicateType indicates a predicate literal incompatible with its column.
	ErrPredicateType = predicate.ErrPredicateType
	// ErrSyntax indicates malformed predicate text.
	ErrSyntax = predicate.ErrSyntax
	// ErrFormat indicates an unknown output format.
	ErrFormat = result.ErrFormat
	// ErrResourceExhausted indicates the memory budget cannot cover a write.
	ErrResourceExhausted = storage.ErrResourceExhausted

	// ErrTableDropped is returned by operations on a dropped table.
	ErrTableDropped = errors.New("table dropped")
	// ErrTableNotFound is returned when a table does not exist.
	ErrTableNotFound = errors.New("table not found")
	// ErrTableExists is returned when creating a table that already exists.
	ErrTableExists = errors.New("table already exists")
	// ErrDatabaseNotFound is returned when a database does not exist.
	ErrDatabaseNotFound = errors.New("database not found")
	// ErrDatabaseExists is returned when creating a database that already exists.
	ErrDatabaseExists = errors.New("database already exists")
	// ErrColumnCount is returned when a positional row has the wrong arity.
	ErrColumnCount = errors.New("column count mismatch")
)

// ColumnError attaches a column name to an error.
type ColumnError = types.ColumnError

// DimensionError reports a vector length mismatch.
type DimensionError = types.DimensionError

// OpError records a failed table operation.
//
// The original error can be accessed via errors.Unwrap.
type OpError struct {
	Op    string
	Table string
	Err   error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Table, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }

func (t *Table) opError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &OpError{Op: op, Table: t.name, Err: err}
}
