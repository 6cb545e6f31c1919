package result

import (
	"fmt"

	"github.com/hupe1980/tabledb/types"
)

// Column is an owned, immutable column of a result. Data holds a typed
// slice matching the column type exactly: an Int32 column is backed by
// []int32. Vector columns hold the flattened elements.
type Column struct {
	name  string
	typ   types.DataType
	data  any
	valid []bool // nil when no value is null
	n     int
}

func newColumn(name string, t types.DataType, capacity int) *Column {
	id, k := t.ID, 1
	if t.IsVector() {
		id, k = t.Elem, t.Dim
	}
	return &Column{name: name, typ: t, data: makeSlice(id, capacity*k)}
}

func makeSlice(id types.TypeID, capacity int) any {
	switch id {
	case types.TypeBool:
		return make([]bool, 0, capacity)
	case types.TypeInt8:
		return make([]int8, 0, capacity)
	case types.TypeInt16:
		return make([]int16, 0, capacity)
	case types.TypeInt32:
		return make([]int32, 0, capacity)
	case types.TypeInt64:
		return make([]int64, 0, capacity)
	case types.TypeFloat32:
		return make([]float32, 0, capacity)
	case types.TypeFloat64:
		return make([]float64, 0, capacity)
	case types.TypeVarchar:
		return make([]string, 0, capacity)
	default:
		panic(fmt.Sprintf("result: unsupported type %s", id))
	}
}

// Name returns the column name.
func (c *Column) Name() string { return c.name }

// Type returns the column type.
func (c *Column) Type() types.DataType { return c.typ }

// Len returns the number of rows.
func (c *Column) Len() int { return c.n }

// Data returns the typed backing slice. It must not be modified.
func (c *Column) Data() any { return c.data }

// Valid reports whether row i is not null.
func (c *Column) Valid(i int) bool { return c.valid == nil || c.valid[i] }

// NullCount returns the number of null rows.
func (c *Column) NullCount() int {
	n := 0
	for _, v := range c.valid {
		if !v {
			n++
		}
	}
	return n
}

// Validity returns a copy of the validity mask, or nil if no row is null.
func (c *Column) Validity() []bool {
	if c.valid == nil {
		return nil
	}
	out := make([]bool, len(c.valid))
	copy(out, c.valid)
	return out
}

// Values returns the column's backing slice as []T. The second result is
// false if T does not match the column's physical type.
func Values[T any](c *Column) ([]T, bool) {
	s, ok := c.data.([]T)
	return s, ok
}

// Value returns row i as a native Go value: bool, int8, int16, int32,
// int64, float32, float64, string, a slice of the element type for
// vectors, or nil for null.
func (c *Column) Value(i int) any {
	if !c.Valid(i) {
		return nil
	}
	if c.typ.IsVector() {
		return sliceRange(c.data, i*c.typ.Dim, (i+1)*c.typ.Dim)
	}
	switch s := c.data.(type) {
	case []bool:
		return s[i]
	case []int8:
		return s[i]
	case []int16:
		return s[i]
	case []int32:
		return s[i]
	case []int64:
		return s[i]
	case []float32:
		return s[i]
	case []float64:
		return s[i]
	case []string:
		return s[i]
	default:
		return nil
	}
}

func sliceRange(data any, lo, hi int) any {
	switch s := data.(type) {
	case []int8:
		return clone(s[lo:hi])
	case []int16:
		return clone(s[lo:hi])
	case []int32:
		return clone(s[lo:hi])
	case []int64:
		return clone(s[lo:hi])
	case []float32:
		return clone(s[lo:hi])
	case []float64:
		return clone(s[lo:hi])
	default:
		return nil
	}
}

func clone[T any](s []T) []T {
	out := make([]T, len(s))
	copy(out, s)
	return out
}

func (c *Column) appendValid(ok bool) {
	if !ok && c.valid == nil {
		c.valid = make([]bool, c.n, c.n+1)
		for i := range c.valid {
			c.valid[i] = true
		}
	}
	if c.valid != nil {
		c.valid = append(c.valid, ok)
	}
}

// appendValue appends an encoded value.
func (c *Column) appendValue(v types.Value) {
	if v.IsNull() {
		c.appendZero()
		c.appendValid(false)
		c.n++
		return
	}
	if c.typ.IsVector() {
		for _, e := range v.A {
			c.data = appendScalar(c.data, e)
		}
	} else {
		c.data = appendScalar(c.data, v)
	}
	c.appendValid(true)
	c.n++
}

func (c *Column) appendZero() {
	k := 1
	if c.typ.IsVector() {
		k = c.typ.Dim
	}
	for range k {
		switch s := c.data.(type) {
		case []bool:
			c.data = append(s, false)
		case []int8:
			c.data = append(s, 0)
		case []int16:
			c.data = append(s, 0)
		case []int32:
			c.data = append(s, 0)
		case []int64:
			c.data = append(s, 0)
		case []float32:
			c.data = append(s, 0)
		case []float64:
			c.data = append(s, 0)
		case []string:
			c.data = append(s, "")
		}
	}
}

func appendScalar(data any, v types.Value) any {
	switch s := data.(type) {
	case []bool:
		return append(s, v.B)
	case []int8:
		return append(s, int8(v.I64))
	case []int16:
		return append(s, int16(v.I64))
	case []int32:
		return append(s, int32(v.I64))
	case []int64:
		return append(s, v.I64)
	case []float32:
		f, _ := v.AsFloat64()
		return append(s, float32(f))
	case []float64:
		f, _ := v.AsFloat64()
		return append(s, f)
	case []string:
		return append(s, v.S)
	default:
		return data
	}
}
