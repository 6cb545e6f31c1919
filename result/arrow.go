package result

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/hupe1980/tabledb/types"
)

// ArrowType maps a column type to its Arrow data type. Vectors map to
// fixed-size lists of the element type.
func ArrowType(t types.DataType) (arrow.DataType, error) {
	if t.IsVector() {
		elem, err := ArrowType(types.DataType{ID: t.Elem})
		if err != nil {
			return nil, err
		}
		return arrow.FixedSizeListOf(int32(t.Dim), elem), nil
	}
	switch t.ID {
	case types.TypeBool:
		return arrow.FixedWidthTypes.Boolean, nil
	case types.TypeInt8:
		return arrow.PrimitiveTypes.Int8, nil
	case types.TypeInt16:
		return arrow.PrimitiveTypes.Int16, nil
	case types.TypeInt32:
		return arrow.PrimitiveTypes.Int32, nil
	case types.TypeInt64:
		return arrow.PrimitiveTypes.Int64, nil
	case types.TypeFloat32:
		return arrow.PrimitiveTypes.Float32, nil
	case types.TypeFloat64:
		return arrow.PrimitiveTypes.Float64, nil
	case types.TypeVarchar:
		return arrow.BinaryTypes.String, nil
	default:
		return nil, fmt.Errorf("%w: no arrow type for %s", ErrFormat, t)
	}
}

// ArrowSchema returns the Arrow schema of the result. Field names may repeat.
func (rs *ResultSet) ArrowSchema() (*arrow.Schema, error) {
	fields := make([]arrow.Field, len(rs.cols))
	for i, c := range rs.cols {
		dt, err := ArrowType(c.typ)
		if err != nil {
			return nil, err
		}
		fields[i] = arrow.Field{Name: c.name, Type: dt, Nullable: true}
	}
	return arrow.NewSchema(fields, nil), nil
}

// Arrow converts the result into an Arrow record batch allocated from mem.
// The caller must Release the record.
func (rs *ResultSet) Arrow(mem memory.Allocator) (arrow.Record, error) {
	if mem == nil {
		mem = memory.DefaultAllocator
	}
	schema, err := rs.ArrowSchema()
	if err != nil {
		return nil, err
	}

	cols := make([]arrow.Array, len(rs.cols))
	defer func() {
		for _, c := range cols {
			if c != nil {
				c.Release()
			}
		}
	}()

	for i, c := range rs.cols {
		arr, err := c.arrowArray(mem, schema.Field(i).Type)
		if err != nil {
			return nil, err
		}
		cols[i] = arr
	}

	return array.NewRecord(schema, cols, int64(rs.rows)), nil
}

func (c *Column) arrowArray(mem memory.Allocator, dt arrow.DataType) (arrow.Array, error) {
	b := array.NewBuilder(mem, dt)
	defer b.Release()

	if c.typ.IsVector() {
		lb := b.(*array.FixedSizeListBuilder)
		dim := c.typ.Dim
		for i := range c.n {
			if !c.Valid(i) {
				lb.AppendNull()
				continue
			}
			lb.Append(true)
			if err := appendPrimitive(lb.ValueBuilder(), sliceRange(c.data, i*dim, (i+1)*dim), nil); err != nil {
				return nil, err
			}
		}
		return lb.NewArray(), nil
	}

	if err := appendPrimitive(b, c.data, c.valid); err != nil {
		return nil, err
	}
	return b.NewArray(), nil
}

func appendPrimitive(b array.Builder, data any, valid []bool) error {
	switch s := data.(type) {
	case []bool:
		b.(*array.BooleanBuilder).AppendValues(s, valid)
	case []int8:
		b.(*array.Int8Builder).AppendValues(s, valid)
	case []int16:
		b.(*array.Int16Builder).AppendValues(s, valid)
	case []int32:
		b.(*array.Int32Builder).AppendValues(s, valid)
	case []int64:
		b.(*array.Int64Builder).AppendValues(s, valid)
	case []float32:
		b.(*array.Float32Builder).AppendValues(s, valid)
	case []float64:
		b.(*array.Float64Builder).AppendValues(s, valid)
	case []string:
		b.(*array.StringBuilder).AppendValues(s, valid)
	default:
		return fmt.Errorf("%w: unsupported column data %T", ErrFormat, data)
	}
	return nil
}
