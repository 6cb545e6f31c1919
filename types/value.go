package types

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind identifies the concrete type stored in a Value.
type Kind uint8

const (
	// KindInvalid represents an invalid kind.
	KindInvalid Kind = iota
	// KindNull represents a null value.
	KindNull
	// KindInt represents an integer value.
	KindInt
	// KindFloat represents a float value.
	KindFloat
	// KindString represents a string value.
	KindString
	// KindBool represents a boolean value.
	KindBool
	// KindVector represents a vector value.
	KindVector
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindVector:
		return "vector"
	default:
		return "invalid"
	}
}

// Value is a small boxed value used for literals, row input and predicate
// evaluation. Stored data lives in typed column arrays; Values only exist at
// the edges.
type Value struct {
	Kind Kind
	I64  int64
	F64  float64
	S    string
	B    bool
	A    []Value
}

// Null returns a null Value.
func Null() Value { return Value{Kind: KindNull} }

// Int returns an int64 Value.
func Int(v int64) Value { return Value{Kind: KindInt, I64: v} }

// Float returns a float64 Value.
func Float(v float64) Value { return Value{Kind: KindFloat, F64: v} }

// String returns a string Value.
func String(v string) Value { return Value{Kind: KindString, S: v} }

// Bool returns a boolean Value.
func Bool(v bool) Value { return Value{Kind: KindBool, B: v} }

// Vector returns a vector Value.
func Vector(v []Value) Value { return Value{Kind: KindVector, A: v} }

// IsNull reports whether v is null. The zero Value is treated as null.
func (v Value) IsNull() bool {
	return v.Kind == KindNull || v.Kind == KindInvalid
}

// AsFloat64 returns the numeric value as float64.
func (v Value) AsFloat64() (float64, bool) {
	switch v.Kind {
	case KindInt:
		return float64(v.I64), true
	case KindFloat:
		return v.F64, true
	default:
		return 0, false
	}
}

// Key returns a stable string representation for use in maps.
//
// Integers and integral floats of the same magnitude produce different keys;
// callers key on encoded values, which always carry the column's kind.
func (v Value) Key() string {
	switch v.Kind {
	case KindNull, KindInvalid:
		return "null"
	case KindInt:
		return "i:" + strconv.FormatInt(v.I64, 10)
	case KindFloat:
		return "f:" + strconv.FormatUint(math.Float64bits(canonicalFloat(v.F64)), 16)
	case KindString:
		return "s:" + v.S
	case KindBool:
		if v.B {
			return "b:1"
		}
		return "b:0"
	case KindVector:
		parts := make([]string, len(v.A))
		for i := range v.A {
			parts[i] = v.A[i].Key()
		}
		return "a:" + strings.Join(parts, "\x1f")
	default:
		return "invalid"
	}
}

// String renders the value as a literal.
func (v Value) String() string {
	switch v.Kind {
	case KindInt:
		return strconv.FormatInt(v.I64, 10)
	case KindFloat:
		s := strconv.FormatFloat(v.F64, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eEnI") {
			s += ".0"
		}
		return s
	case KindString:
		return "'" + strings.ReplaceAll(v.S, "'", "''") + "'"
	case KindBool:
		return strconv.FormatBool(v.B)
	case KindVector:
		parts := make([]string, len(v.A))
		for i := range v.A {
			parts[i] = v.A[i].String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return "null"
	}
}

// Equal reports whether two values are equal. Integers and floats compare
// numerically.
func (v Value) Equal(o Value) bool {
	if v.Kind == KindVector || o.Kind == KindVector {
		if v.Kind != o.Kind || len(v.A) != len(o.A) {
			return false
		}
		for i := range v.A {
			if !v.A[i].Equal(o.A[i]) {
				return false
			}
		}
		return true
	}
	c, ok := Compare(v, o)
	return ok && c == 0
}

// Compare orders two scalar values. Integers compare exactly, mixed
// integer/float pairs compare as float64. The second result is false when
// the values are not comparable; NaN is unordered against everything,
// itself included.
func Compare(a, b Value) (int, bool) {
	switch {
	case a.Kind == KindInt && b.Kind == KindInt:
		return cmpOrdered(a.I64, b.I64), true
	case (a.Kind == KindInt || a.Kind == KindFloat) && (b.Kind == KindInt || b.Kind == KindFloat):
		af, _ := a.AsFloat64()
		bf, _ := b.AsFloat64()
		if math.IsNaN(af) || math.IsNaN(bf) {
			return 0, false
		}
		return cmpOrdered(af, bf), true
	case a.Kind == KindString && b.Kind == KindString:
		return strings.Compare(a.S, b.S), true
	case a.Kind == KindBool && b.Kind == KindBool:
		switch {
		case a.B == b.B:
			return 0, true
		case !a.B:
			return -1, true
		default:
			return 1, true
		}
	default:
		return 0, false
	}
}

func cmpOrdered[T int64 | float64](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// ValueOf boxes a Go value. Supported inputs are nil, bool, all signed and
// unsigned integer widths, float32, float64, string, numeric slices, []any
// of those, and Value itself.
func ValueOf(x any) (Value, error) {
	switch t := x.(type) {
	case nil:
		return Null(), nil
	case Value:
		return t, nil
	case bool:
		return Bool(t), nil
	case int:
		return Int(int64(t)), nil
	case int8:
		return Int(int64(t)), nil
	case int16:
		return Int(int64(t)), nil
	case int32:
		return Int(int64(t)), nil
	case int64:
		return Int(t), nil
	case uint:
		return uintValue(uint64(t))
	case uint8:
		return Int(int64(t)), nil
	case uint16:
		return Int(int64(t)), nil
	case uint32:
		return Int(int64(t)), nil
	case uint64:
		return uintValue(t)
	case float32:
		return Float(float64(t)), nil
	case float64:
		return Float(t), nil
	case string:
		return String(t), nil
	case []int8:
		return vectorOf(t), nil
	case []int16:
		return vectorOf(t), nil
	case []int32:
		return vectorOf(t), nil
	case []int64:
		return vectorOf(t), nil
	case []int:
		return vectorOf(t), nil
	case []float32:
		return vectorOfFloat(t), nil
	case []float64:
		return vectorOfFloat(t), nil
	case []Value:
		return Vector(t), nil
	case []any:
		elems := make([]Value, len(t))
		for i, e := range t {
			ev, err := ValueOf(e)
			if err != nil {
				return Value{}, err
			}
			elems[i] = ev
		}
		return Vector(elems), nil
	default:
		return Value{}, mismatchf("unsupported Go type %T", x)
	}
}

func uintValue(u uint64) (Value, error) {
	if u > math.MaxInt64 {
		return Value{}, mismatchf("unsigned value %d overflows int64", u)
	}
	return Int(int64(u)), nil
}

func vectorOf[T int8 | int16 | int32 | int64 | int](s []T) Value {
	elems := make([]Value, len(s))
	for i, e := range s {
		elems[i] = Int(int64(e))
	}
	return Vector(elems)
}

func vectorOfFloat[T float32 | float64](s []T) Value {
	elems := make([]Value, len(s))
	for i, e := range s {
		elems[i] = Float(float64(e))
	}
	return Vector(elems)
}

// GoString implements fmt.GoStringer for debugging output.
func (v Value) GoString() string {
	return fmt.Sprintf("types.Value{%s %s}", v.Kind, v.String())
}
