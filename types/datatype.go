package types

import (
	"strconv"
)

// TypeID identifies the physical type of a column.
type TypeID uint8

const (
	// TypeInvalid represents an unset type.
	TypeInvalid TypeID = iota
	TypeBool
	TypeInt8
	TypeInt16
	TypeInt32
	TypeInt64
	TypeFloat32
	TypeFloat64
	TypeVarchar
	// TypeVector is a fixed-dimension array of a numeric element type.
	TypeVector
)

// String returns the canonical name of the TypeID.
func (id TypeID) String() string {
	switch id {
	case TypeBool:
		return "Bool"
	case TypeInt8:
		return "Int8"
	case TypeInt16:
		return "Int16"
	case TypeInt32:
		return "Int32"
	case TypeInt64:
		return "Int64"
	case TypeFloat32:
		return "Float32"
	case TypeFloat64:
		return "Float64"
	case TypeVarchar:
		return "Varchar"
	case TypeVector:
		return "Vector"
	default:
		return "Invalid"
	}
}

// IsInteger reports whether id is one of the signed integer types.
func (id TypeID) IsInteger() bool {
	return id >= TypeInt8 && id <= TypeInt64
}

// IsFloat reports whether id is a floating point type.
func (id TypeID) IsFloat() bool {
	return id == TypeFloat32 || id == TypeFloat64
}

// IsNumeric reports whether id is an integer or float type.
func (id TypeID) IsNumeric() bool {
	return id.IsInteger() || id.IsFloat()
}

// Width returns the fixed storage width in bytes, or 0 for variable length types.
func (id TypeID) Width() int {
	switch id {
	case TypeBool, TypeInt8:
		return 1
	case TypeInt16:
		return 2
	case TypeInt32, TypeFloat32:
		return 4
	case TypeInt64, TypeFloat64:
		return 8
	default:
		return 0
	}
}

// DataType is the full type of a column. Elem and Dim are only set for vectors.
type DataType struct {
	ID   TypeID
	Elem TypeID
	Dim  int
}

var (
	BoolType    = DataType{ID: TypeBool}
	Int8Type    = DataType{ID: TypeInt8}
	Int16Type   = DataType{ID: TypeInt16}
	Int32Type   = DataType{ID: TypeInt32}
	Int64Type   = DataType{ID: TypeInt64}
	Float32Type = DataType{ID: TypeFloat32}
	Float64Type = DataType{ID: TypeFloat64}
	VarcharType = DataType{ID: TypeVarchar}
)

// VectorType returns a vector type with the given element type and dimension.
func VectorType(elem TypeID, dim int) DataType {
	return DataType{ID: TypeVector, Elem: elem, Dim: dim}
}

// IsVector reports whether t is a vector type.
func (t DataType) IsVector() bool { return t.ID == TypeVector }

// Validate checks that the type is well formed.
func (t DataType) Validate() error {
	switch {
	case t.ID == TypeInvalid || t.ID > TypeVector:
		return schemaErrorf("invalid type")
	case t.ID == TypeVector:
		if !t.Elem.IsNumeric() {
			return schemaErrorf("vector element type must be numeric, got %s", t.Elem)
		}
		if t.Dim <= 0 {
			return schemaErrorf("vector dimension must be positive, got %d", t.Dim)
		}
	case t.Elem != TypeInvalid || t.Dim != 0:
		return schemaErrorf("scalar type %s cannot have element type or dimension", t.ID)
	}
	return nil
}

// String renders the type, e.g. "Int32" or "Vector(Float32,5)".
func (t DataType) String() string {
	if t.ID == TypeVector {
		return "Vector(" + t.Elem.String() + "," + strconv.Itoa(t.Dim) + ")"
	}
	return t.ID.String()
}
