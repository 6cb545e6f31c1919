package storage

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"

	"github.com/hupe1980/tabledb/types"
)

// Column is a typed, append-only value array inside a block.
//
// Values passed to Append must already be encoded for the column type.
type Column interface {
	Type() types.DataType
	Len() int
	Append(v types.Value)
	Value(i int) types.Value
	Valid(i int) bool

	// Data returns the backing slice: []bool, []int8, []int16, []int32,
	// []int64, []float32, []float64 or []string. Vector columns return the
	// flattened element slice; row i occupies [i*Dim, (i+1)*Dim).
	// The slice is a view and must not be modified.
	Data() any
}

// NewColumn creates an empty column for t with room for capacity rows.
func NewColumn(t types.DataType, capacity int) Column {
	switch t.ID {
	case types.TypeBool:
		return newFixed(t, capacity, func(v types.Value) bool { return v.B }, types.Bool)
	case types.TypeInt8:
		return newFixed(t, capacity, func(v types.Value) int8 { return int8(v.I64) }, intValue[int8])
	case types.TypeInt16:
		return newFixed(t, capacity, func(v types.Value) int16 { return int16(v.I64) }, intValue[int16])
	case types.TypeInt32:
		return newFixed(t, capacity, func(v types.Value) int32 { return int32(v.I64) }, intValue[int32])
	case types.TypeInt64:
		return newFixed(t, capacity, func(v types.Value) int64 { return v.I64 }, types.Int)
	case types.TypeFloat32:
		return newFixed(t, capacity, func(v types.Value) float32 { return float32(v.F64) }, floatValue[float32])
	case types.TypeFloat64:
		return newFixed(t, capacity, func(v types.Value) float64 { return v.F64 }, types.Float)
	case types.TypeVarchar:
		return newFixed(t, capacity, func(v types.Value) string { return v.S }, types.String)
	case types.TypeVector:
		return newVectorColumn(t, capacity)
	default:
		panic(fmt.Sprintf("storage: unsupported column type %s", t))
	}
}

func intValue[T int8 | int16 | int32](x T) types.Value { return types.Int(int64(x)) }

func floatValue[T float32](x T) types.Value { return types.Float(float64(x)) }

type fixedColumn[T any] struct {
	typ   types.DataType
	data  []T
	valid *bitset.BitSet
	from  func(types.Value) T
	to    func(T) types.Value
}

func newFixed[T any](t types.DataType, capacity int, from func(types.Value) T, to func(T) types.Value) *fixedColumn[T] {
	return &fixedColumn[T]{
		typ:   t,
		data:  make([]T, 0, capacity),
		valid: bitset.New(uint(capacity)),
		from:  from,
		to:    to,
	}
}

func (c *fixedColumn[T]) Type() types.DataType { return c.typ }

func (c *fixedColumn[T]) Len() int { return len(c.data) }

func (c *fixedColumn[T]) Append(v types.Value) {
	if v.IsNull() {
		var zero T
		c.data = append(c.data, zero)
		return
	}
	c.valid.Set(uint(len(c.data)))
	c.data = append(c.data, c.from(v))
}

func (c *fixedColumn[T]) Valid(i int) bool { return c.valid.Test(uint(i)) }

func (c *fixedColumn[T]) Value(i int) types.Value {
	if !c.Valid(i) {
		return types.Null()
	}
	return c.to(c.data[i])
}

func (c *fixedColumn[T]) Data() any { return c.data }

// vectorColumn stores fixed-dimension vectors flattened into one slice.
type vectorColumn struct {
	typ   types.DataType
	n     int
	elems Column
	valid *bitset.BitSet
}

func newVectorColumn(t types.DataType, capacity int) *vectorColumn {
	return &vectorColumn{
		typ:   t,
		elems: NewColumn(types.DataType{ID: t.Elem}, capacity*t.Dim),
		valid: bitset.New(uint(capacity)),
	}
}

func (c *vectorColumn) Type() types.DataType { return c.typ }

func (c *vectorColumn) Len() int { return c.n }

func (c *vectorColumn) Append(v types.Value) {
	if v.IsNull() {
		for range c.typ.Dim {
			c.elems.Append(zeroOf(c.typ.Elem))
		}
		c.n++
		return
	}
	for _, e := range v.A {
		c.elems.Append(e)
	}
	c.valid.Set(uint(c.n))
	c.n++
}

func (c *vectorColumn) Valid(i int) bool { return c.valid.Test(uint(i)) }

func (c *vectorColumn) Value(i int) types.Value {
	if !c.Valid(i) {
		return types.Null()
	}
	elems := make([]types.Value, c.typ.Dim)
	base := i * c.typ.Dim
	for j := range elems {
		elems[j] = c.elems.Value(base + j)
	}
	return types.Vector(elems)
}

func (c *vectorColumn) Data() any { return c.elems.Data() }

func zeroOf(id types.TypeID) types.Value {
	if id.IsFloat() {
		return types.Float(0)
	}
	return types.Int(0)
}

// rowWidth estimates the bytes one row occupies across all columns.
func rowWidth(schema *types.Schema) int64 {
	var w int64
	for _, c := range schema.Columns() {
		switch {
		case c.Type.IsVector():
			w += int64(c.Type.Elem.Width() * c.Type.Dim)
		case c.Type.ID == types.TypeVarchar:
			w += 16
		default:
			w += int64(c.Type.ID.Width())
		}
	}
	return w
}
