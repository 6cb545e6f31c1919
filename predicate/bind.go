package predicate

import (
	"fmt"

	"github.com/hupe1980/tabledb/types"
)

// Row gives access to the encoded column values of one row.
type Row interface {
	Value(col int) types.Value
}

type boundTerm struct {
	col int
	op  Operator
	lit types.Value
}

// Bound is an expression resolved against a schema. It is immutable and
// safe for concurrent use.
type Bound struct {
	terms []boundTerm
	conns []Conjunction
}

// Bind resolves column names and checks literal types against schema.
// It fails with types.ErrUnknownColumn or ErrPredicateType without
// touching any data.
func (e Expr) Bind(schema *types.Schema) (*Bound, error) {
	b := &Bound{
		terms: make([]boundTerm, len(e.terms)),
		conns: e.conns,
	}
	for i, t := range e.terms {
		col, err := schema.Resolve(t.Column)
		if err != nil {
			return nil, err
		}
		def := schema.Column(col)
		lit, err := bindLiteral(t, def.Type)
		if err != nil {
			return nil, &types.ColumnError{Column: t.Column, Err: err}
		}
		b.terms[i] = boundTerm{col: col, op: t.Op, lit: lit}
	}
	return b, nil
}

func bindLiteral(t Comparison, typ types.DataType) (types.Value, error) {
	if !t.Op.valid() {
		return types.Value{}, fmt.Errorf("%w: unknown operator %q", ErrPredicateType, t.Op)
	}
	if !types.Comparable(t.Value.Kind, typ) {
		return types.Value{}, fmt.Errorf("%w: cannot compare %s column with %s literal", ErrPredicateType, typ, t.Value.Kind)
	}
	if t.Op.Ordering() && (typ.ID == types.TypeBool || typ.IsVector()) {
		return types.Value{}, fmt.Errorf("%w: operator %s is not defined for %s", ErrPredicateType, t.Op, typ)
	}

	switch {
	case typ.IsVector():
		if len(t.Value.A) != typ.Dim {
			return types.Value{}, fmt.Errorf("%w: vector literal has %d elements, column has %d", ErrPredicateType, len(t.Value.A), typ.Dim)
		}
		elems := make([]types.Value, len(t.Value.A))
		for i, e := range t.Value.A {
			if !types.Comparable(e.Kind, types.DataType{ID: typ.Elem}) {
				return types.Value{}, fmt.Errorf("%w: vector element %d is %s, column elements are %s", ErrPredicateType, i, e.Kind, typ.Elem)
			}
			elems[i] = roundLiteral(e, typ.Elem)
		}
		return types.Vector(elems), nil
	default:
		return roundLiteral(t.Value, typ.ID), nil
	}
}

// roundLiteral converts literals for float32 columns to float32 precision
// so that equality matches stored values.
func roundLiteral(v types.Value, id types.TypeID) types.Value {
	if id == types.TypeFloat32 {
		f, _ := v.AsFloat64()
		return types.Float(float64(float32(f)))
	}
	return v
}

// Match evaluates the expression against row. The empty expression matches
// every row. Evaluation is left to right and short-circuits.
func (b *Bound) Match(row Row) bool {
	if len(b.terms) == 0 {
		return true
	}
	acc := b.terms[0].eval(row)
	for i, conn := range b.conns {
		switch conn {
		case And:
			if acc {
				acc = b.terms[i+1].eval(row)
			}
		case Or:
			if !acc {
				acc = b.terms[i+1].eval(row)
			}
		}
	}
	return acc
}

// Columns returns the schema indexes the expression reads.
func (b *Bound) Columns() []int {
	out := make([]int, len(b.terms))
	for i, t := range b.terms {
		out[i] = t.col
	}
	return out
}

func (t boundTerm) eval(row Row) bool {
	v := row.Value(t.col)
	if v.IsNull() {
		return false
	}
	if v.Kind == types.KindVector {
		eq := v.Equal(t.lit)
		if t.op == OpNotEqual {
			return !eq
		}
		return eq
	}
	c, ok := types.Compare(v, t.lit)
	if !ok {
		// Unordered (NaN): only != holds.
		return t.op == OpNotEqual
	}
	switch t.op {
	case OpEqual:
		return c == 0
	case OpNotEqual:
		return c != 0
	case OpLessThan:
		return c < 0
	case OpLessEqual:
		return c <= 0
	case OpGreaterThan:
		return c > 0
	case OpGreaterEqual:
		return c >= 0
	default:
		return false
	}
}
