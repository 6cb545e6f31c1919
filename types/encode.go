package types

import (
	"math"
)

// Encode converts a literal into the canonical representation for a column
// of type t. Integers widen to floats; floats never narrow to integers.
// Integer literals must fit the column width. Null passes through unchanged;
// constraint checks happen at the schema level.
func Encode(v Value, t DataType) (Value, error) {
	if v.IsNull() {
		return Null(), nil
	}
	if t.ID == TypeVector {
		return encodeVector(v, t)
	}
	return encodeScalar(v, t.ID)
}

func encodeScalar(v Value, id TypeID) (Value, error) {
	switch {
	case id.IsInteger():
		if v.Kind != KindInt {
			return Value{}, mismatchf("cannot store %s in %s", v.Kind, id)
		}
		lo, hi := intRange(id)
		if v.I64 < lo || v.I64 > hi {
			return Value{}, mismatchf("value %d out of range for %s", v.I64, id)
		}
		return v, nil
	case id == TypeFloat32:
		f, ok := v.AsFloat64()
		if !ok {
			return Value{}, mismatchf("cannot store %s in %s", v.Kind, id)
		}
		n := float32(f)
		if math.IsInf(float64(n), 0) && !math.IsInf(f, 0) {
			return Value{}, mismatchf("value %g out of range for %s", f, id)
		}
		return Float(canonicalFloat(float64(n))), nil
	case id == TypeFloat64:
		f, ok := v.AsFloat64()
		if !ok {
			return Value{}, mismatchf("cannot store %s in %s", v.Kind, id)
		}
		return Float(canonicalFloat(f)), nil
	case id == TypeVarchar:
		if v.Kind != KindString {
			return Value{}, mismatchf("cannot store %s in %s", v.Kind, id)
		}
		return v, nil
	case id == TypeBool:
		if v.Kind != KindBool {
			return Value{}, mismatchf("cannot store %s in %s", v.Kind, id)
		}
		return v, nil
	default:
		return Value{}, mismatchf("cannot store %s in %s", v.Kind, id)
	}
}

// canonicalFloat folds -0 into +0 and every NaN payload into one NaN, so
// that stored bits agree with numeric equality.
func canonicalFloat(f float64) float64 {
	switch {
	case f == 0:
		return 0
	case math.IsNaN(f):
		return math.NaN()
	default:
		return f
	}
}

func encodeVector(v Value, t DataType) (Value, error) {
	if v.Kind != KindVector {
		return Value{}, mismatchf("cannot store %s in %s", v.Kind, t)
	}
	if len(v.A) != t.Dim {
		return Value{}, &DimensionError{Expected: t.Dim, Actual: len(v.A)}
	}
	out := make([]Value, len(v.A))
	for i, e := range v.A {
		if e.IsNull() {
			return Value{}, mismatchf("vector element %d is null", i)
		}
		enc, err := encodeScalar(e, t.Elem)
		if err != nil {
			return Value{}, err
		}
		out[i] = enc
	}
	return Vector(out), nil
}

// Comparable reports whether a literal of kind k may be compared against a
// column of type t under the same widening rule Encode applies. Integer
// literals are accepted regardless of width; out-of-range constants compare
// in 64-bit space.
func Comparable(k Kind, t DataType) bool {
	switch {
	case t.ID.IsInteger():
		return k == KindInt
	case t.ID.IsFloat():
		return k == KindInt || k == KindFloat
	case t.ID == TypeVarchar:
		return k == KindString
	case t.ID == TypeBool:
		return k == KindBool
	case t.ID == TypeVector:
		return k == KindVector
	default:
		return false
	}
}

func intRange(id TypeID) (int64, int64) {
	switch id {
	case TypeInt8:
		return math.MinInt8, math.MaxInt8
	case TypeInt16:
		return math.MinInt16, math.MaxInt16
	case TypeInt32:
		return math.MinInt32, math.MaxInt32
	default:
		return math.MinInt64, math.MaxInt64
	}
}
