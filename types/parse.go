package types

import (
	"strconv"
	"strings"
)

var scalarNames = map[string]TypeID{
	"bool":     TypeBool,
	"boolean":  TypeBool,
	"tinyint":  TypeInt8,
	"int8":     TypeInt8,
	"smallint": TypeInt16,
	"int16":    TypeInt16,
	"int":      TypeInt32,
	"integer":  TypeInt32,
	"int32":    TypeInt32,
	"bigint":   TypeInt64,
	"int64":    TypeInt64,
	"float":    TypeFloat32,
	"float32":  TypeFloat32,
	"double":   TypeFloat64,
	"float64":  TypeFloat64,
	"varchar":  TypeVarchar,
	"string":   TypeVarchar,
}

// ParseTypeID parses a scalar type name such as "int", "bigint" or "Float32".
func ParseTypeID(s string) (TypeID, error) {
	id, ok := scalarNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return TypeInvalid, schemaErrorf("unknown type %q", s)
	}
	return id, nil
}

// ParseDataType parses a textual column type. Accepted forms are scalar
// names, the canonical "Vector(Float32,5)" and the comma form "vector,5,float".
func ParseDataType(s string) (DataType, error) {
	s = strings.TrimSpace(s)
	lower := strings.ToLower(s)

	if strings.HasPrefix(lower, "vector(") && strings.HasSuffix(lower, ")") {
		parts := strings.Split(s[len("vector("):len(s)-1], ",")
		if len(parts) != 2 {
			return DataType{}, schemaErrorf("malformed vector type %q", s)
		}
		return parseVector(parts[1], parts[0])
	}

	if strings.HasPrefix(lower, "vector") {
		parts := splitList(s)
		if len(parts) != 3 || !strings.EqualFold(parts[0], "vector") {
			return DataType{}, schemaErrorf("malformed vector type %q", s)
		}
		return parseVector(parts[1], parts[2])
	}

	id, err := ParseTypeID(s)
	if err != nil {
		return DataType{}, err
	}
	return DataType{ID: id}, nil
}

func parseVector(dim, elem string) (DataType, error) {
	n, err := strconv.Atoi(strings.TrimSpace(dim))
	if err != nil {
		return DataType{}, schemaErrorf("invalid vector dimension %q", dim)
	}
	e, err := ParseTypeID(elem)
	if err != nil {
		return DataType{}, err
	}
	t := VectorType(e, n)
	if err := t.Validate(); err != nil {
		return DataType{}, err
	}
	return t, nil
}

// ParseColumnDef parses a definition such as "int, primary key, not null"
// or "vector,5,float" into a ColumnDef.
func ParseColumnDef(name, def string) (ColumnDef, error) {
	parts := splitList(def)
	if len(parts) == 0 {
		return ColumnDef{}, schemaErrorf("column %q has no type", name)
	}

	typeParts := 1
	if strings.EqualFold(parts[0], "vector") {
		typeParts = 3
	}
	if len(parts) < typeParts {
		return ColumnDef{}, schemaErrorf("column %q: malformed type %q", name, def)
	}

	t, err := ParseDataType(strings.Join(parts[:typeParts], ","))
	if err != nil {
		return ColumnDef{}, &ColumnError{Column: name, Err: err}
	}

	col := ColumnDef{Name: name, Type: t}
	for _, p := range parts[typeParts:] {
		switch strings.Join(strings.Fields(strings.ToLower(p)), " ") {
		case "primary key":
			col.Constraints |= PrimaryKey | NotNull
		case "not null":
			col.Constraints |= NotNull
		case "null":
		default:
			return ColumnDef{}, schemaErrorf("column %q: unknown constraint %q", name, p)
		}
	}
	return col, nil
}

func splitList(s string) []string {
	raw := strings.Split(s, ",")
	out := raw[:0]
	for _, p := range raw {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
