package types

import (
	"strings"
)

// Constraint is a set of column constraints.
type Constraint uint8

const (
	// PrimaryKey marks the unique row key. It implies NotNull.
	PrimaryKey Constraint = 1 << iota
	// NotNull rejects null values.
	NotNull
)

// Has reports whether all constraints in o are set.
func (c Constraint) Has(o Constraint) bool { return c&o == o }

// String renders the set, e.g. "PrimaryKey,NotNull". The empty set renders
// as an empty string.
func (c Constraint) String() string {
	var parts []string
	if c.Has(PrimaryKey) {
		parts = append(parts, "PrimaryKey")
	}
	if c.Has(NotNull) {
		parts = append(parts, "NotNull")
	}
	return strings.Join(parts, ",")
}

// ColumnDef defines a single table column.
type ColumnDef struct {
	Name        string
	Type        DataType
	Constraints Constraint
}

// Col is shorthand for building a ColumnDef.
func Col(name string, t DataType, constraints ...Constraint) ColumnDef {
	var c Constraint
	for _, x := range constraints {
		c |= x
	}
	return ColumnDef{Name: name, Type: t, Constraints: c}
}

// Nullable reports whether the column accepts null.
func (c ColumnDef) Nullable() bool { return !c.Constraints.Has(NotNull) }

// IsPrimaryKey reports whether the column is the primary key.
func (c ColumnDef) IsPrimaryKey() bool { return c.Constraints.Has(PrimaryKey) }

// Schema is an ordered, immutable list of column definitions.
type Schema struct {
	cols  []ColumnDef
	index map[string]int
	pk    int
}

// NewSchema validates the column definitions and builds a Schema.
//
// It returns ErrSchema for an empty column list, empty or duplicate names,
// malformed types, or more than one primary key.
func NewSchema(cols ...ColumnDef) (*Schema, error) {
	if len(cols) == 0 {
		return nil, schemaErrorf("at least one column is required")
	}

	s := &Schema{
		cols:  make([]ColumnDef, len(cols)),
		index: make(map[string]int, len(cols)),
		pk:    -1,
	}

	for i, c := range cols {
		if c.Name == "" {
			return nil, schemaErrorf("column %d has an empty name", i)
		}
		if _, dup := s.index[c.Name]; dup {
			return nil, schemaErrorf("duplicate column name %q", c.Name)
		}
		if err := c.Type.Validate(); err != nil {
			return nil, &ColumnError{Column: c.Name, Err: err}
		}
		if c.Constraints.Has(PrimaryKey) {
			if s.pk >= 0 {
				return nil, schemaErrorf("multiple primary keys: %q and %q", s.cols[s.pk].Name, c.Name)
			}
			if c.Type.IsVector() {
				return nil, schemaErrorf("vector column %q cannot be a primary key", c.Name)
			}
			s.pk = i
			c.Constraints |= NotNull
		}
		s.cols[i] = c
		s.index[c.Name] = i
	}

	return s, nil
}

// MustSchema is like NewSchema but panics on error.
func MustSchema(cols ...ColumnDef) *Schema {
	s, err := NewSchema(cols...)
	if err != nil {
		panic(err)
	}
	return s
}

// Len returns the number of columns.
func (s *Schema) Len() int { return len(s.cols) }

// Column returns the i-th column definition.
func (s *Schema) Column(i int) ColumnDef { return s.cols[i] }

// Columns returns a copy of the column definitions.
func (s *Schema) Columns() []ColumnDef {
	out := make([]ColumnDef, len(s.cols))
	copy(out, s.cols)
	return out
}

// Names returns the column names in schema order.
func (s *Schema) Names() []string {
	out := make([]string, len(s.cols))
	for i, c := range s.cols {
		out[i] = c.Name
	}
	return out
}

// Lookup returns the index of the named column.
func (s *Schema) Lookup(name string) (int, bool) {
	i, ok := s.index[name]
	return i, ok
}

// Resolve returns the index of the named column or ErrUnknownColumn.
func (s *Schema) Resolve(name string) (int, error) {
	i, ok := s.index[name]
	if !ok {
		return -1, &ColumnError{Column: name, Err: ErrUnknownColumn}
	}
	return i, nil
}

// PrimaryKey returns the index of the primary key column, if any.
func (s *Schema) PrimaryKey() (int, bool) {
	return s.pk, s.pk >= 0
}

// EncodeColumn encodes v for column i and enforces the not-null constraint.
// Errors are wrapped in a ColumnError.
func (s *Schema) EncodeColumn(i int, v Value) (Value, error) {
	c := s.cols[i]
	if v.IsNull() {
		if !c.Nullable() {
			return Value{}, &ColumnError{Column: c.Name, Err: ErrNullConstraint}
		}
		return Null(), nil
	}
	enc, err := Encode(v, c.Type)
	if err != nil {
		return Value{}, &ColumnError{Column: c.Name, Err: err}
	}
	return enc, nil
}
