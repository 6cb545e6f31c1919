package result

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/tabledb/internal/storage"
	"github.com/hupe1980/tabledb/types"
)

func testStore(t *testing.T) *storage.Store {
	t.Helper()
	schema := types.MustSchema(
		types.Col("c1", types.Int32Type, types.PrimaryKey),
		types.Col("c2", types.VarcharType),
		types.Col("v", types.VectorType(types.TypeFloat32, 2)),
	)
	s := storage.New(schema, storage.Options{BlockCapacity: 2})
	for i := range 5 {
		name := types.String(string(rune('a' + i)))
		if i == 3 {
			name = types.Null()
		}
		_, err := s.Append([]types.Value{
			types.Int(int64(i)),
			name,
			types.Vector([]types.Value{types.Float(float64(i)), types.Float(0.5)}),
		})
		require.NoError(t, err)
	}
	// Delete c1 = 1.
	_, err := s.Tombstone(storage.RowAddress{Segment: 0, Block: 0, Offset: 1})
	require.NoError(t, err)
	return s
}

func project(t *testing.T, s *storage.Store, names ...string) *ResultSet {
	t.Helper()
	b, err := NewBuilder(s.Schema(), names, 0)
	require.NoError(t, err)
	for ref := range s.Snapshot().Blocks() {
		b.AppendBlock(ref.Block, ref.Rows)
	}
	return b.Build()
}

func TestBuilder_VisibleRowsInScanOrder(t *testing.T) {
	rs := project(t, testStore(t), "c1", "c2")

	require.Equal(t, 4, rs.NumRows())
	ids, ok := Values[int32](rs.Column(0))
	require.True(t, ok)
	assert.Equal(t, []int32{0, 2, 3, 4}, ids)

	assert.True(t, rs.Column(1).Valid(1))
	assert.False(t, rs.Column(1).Valid(2))
	assert.Equal(t, 1, rs.Column(1).NullCount())
}

func TestBuilder_UnknownColumn(t *testing.T) {
	_, err := NewBuilder(testStore(t).Schema(), []string{"c1", "nope"}, 0)
	assert.ErrorIs(t, err, types.ErrUnknownColumn)
}

func TestBuilder_DuplicateAndStar(t *testing.T) {
	rs := project(t, testStore(t), "c1", "c2", "c1")
	assert.Equal(t, []string{"c1", "c2", "c1"}, rs.Names())

	a, _ := Values[int32](rs.Column(0))
	b, _ := Values[int32](rs.Column(2))
	assert.Equal(t, a, b)
	// Independent copies.
	a[0] = 99
	assert.Equal(t, int32(0), b[0])

	rs = project(t, testStore(t), Star)
	assert.Equal(t, []string{"c1", "c2", "v"}, rs.Names())
}

func TestBuilder_EmptyProjection(t *testing.T) {
	rs := project(t, testStore(t))
	assert.Equal(t, 0, rs.NumCols())
	assert.Equal(t, 4, rs.NumRows())

	rows := rs.Rows()
	assert.Equal(t, 4, rows.Len())
	assert.Empty(t, rows.Data[0])

	rec, err := rs.Arrow(memory.DefaultAllocator)
	require.NoError(t, err)
	defer rec.Release()
	assert.Equal(t, int64(0), rec.NumCols())
	assert.Equal(t, int64(4), rec.NumRows())

	f := rs.Frame()
	assert.Equal(t, 0, f.Width())
	assert.Equal(t, 4, f.Len())
}

func TestRows_TypeStable(t *testing.T) {
	rows := project(t, testStore(t), "c1", "c2", "v").Rows()

	require.Equal(t, 4, rows.Len())
	assert.Equal(t, []any{int32(0), "a", []float32{0, 0.5}}, rows.Data[0])
	assert.Equal(t, []any{int32(3), nil, []float32{3, 0.5}}, rows.Data[2])
	assert.Equal(t, []types.DataType{types.Int32Type, types.VarcharType, types.VectorType(types.TypeFloat32, 2)}, rows.Types)
}

func TestArrow_TypeStable(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	rec, err := project(t, testStore(t), "c1", "c2", "c1", "v").Arrow(mem)
	require.NoError(t, err)
	defer rec.Release()

	require.Equal(t, int64(4), rec.NumRows())
	require.Equal(t, int64(4), rec.NumCols())
	assert.Equal(t, arrow.INT32, rec.Schema().Field(0).Type.ID())
	assert.Equal(t, arrow.STRING, rec.Schema().Field(1).Type.ID())
	assert.Equal(t, "c1", rec.Schema().Field(2).Name)
	assert.Equal(t, arrow.FIXED_SIZE_LIST, rec.Schema().Field(3).Type.ID())

	ids := rec.Column(0).(*array.Int32)
	assert.Equal(t, []int32{0, 2, 3, 4}, ids.Int32Values())

	names := rec.Column(1).(*array.String)
	assert.Equal(t, "c", names.Value(1))
	assert.True(t, names.IsNull(2))

	vecs := rec.Column(3).(*array.FixedSizeList)
	elems := vecs.ListValues().(*array.Float32)
	assert.Equal(t, []float32{0, 0.5, 2, 0.5, 3, 0.5, 4, 0.5}, elems.Float32Values())
}

func TestArrow_NullVector(t *testing.T) {
	rs, err := FromValues(
		[]string{"v"},
		[]types.DataType{types.VectorType(types.TypeInt16, 2)},
		[][]types.Value{
			{types.Vector([]types.Value{types.Int(1), types.Int(2)})},
			{types.Null()},
		},
	)
	require.NoError(t, err)

	rec, err := rs.Arrow(nil)
	require.NoError(t, err)
	defer rec.Release()

	vecs := rec.Column(0).(*array.FixedSizeList)
	assert.Equal(t, 2, vecs.Len())
	assert.True(t, vecs.IsNull(1))
	assert.Equal(t, arrow.INT16, vecs.ListValues().DataType().ID())
}

func TestFrame_TypeStable(t *testing.T) {
	f := project(t, testStore(t), "c1", "c2", "v").Frame()

	assert.Equal(t, []string{"c1", "c2", "v"}, f.Columns())
	assert.Equal(t, []string{"int32", "string", "list[float32;2]"}, f.DTypes())

	s, ok := f.Col("c1")
	require.True(t, ok)
	ids, ok := SeriesValues[int32](s)
	require.True(t, ok)
	assert.Equal(t, []int32{0, 2, 3, 4}, ids)

	_, ok = SeriesValues[int64](s)
	assert.False(t, ok)

	names := f.Series(1)
	assert.True(t, names.IsNull(2))
	assert.Equal(t, "c", names.At(1))

	assert.Contains(t, f.String(), "int32")
	assert.True(t, f.Equal(project(t, testStore(t), "c1", "c2", "v").Frame()))
	assert.False(t, f.Equal(project(t, testStore(t), "c1", "c2").Frame()))
}

func TestAs(t *testing.T) {
	rs := project(t, testStore(t), "c1")

	out, err := rs.As(FormatRows)
	require.NoError(t, err)
	assert.IsType(t, &Rows{}, out)

	out, err = rs.As(FormatArrow)
	require.NoError(t, err)
	rec, ok := out.(arrow.Record)
	require.True(t, ok)
	rec.Release()

	out, err = rs.As(FormatFrame)
	require.NoError(t, err)
	assert.IsType(t, &Frame{}, out)

	_, err = rs.As(Format(42))
	assert.ErrorIs(t, err, ErrFormat)

	f, err := ParseFormat("Arrow")
	require.NoError(t, err)
	assert.Equal(t, FormatArrow, f)
	_, err = ParseFormat("xml")
	assert.ErrorIs(t, err, ErrFormat)
}

func TestResultOutlivesStore(t *testing.T) {
	s := testStore(t)
	rs := project(t, s, "c1")
	s.Release()

	ids, _ := Values[int32](rs.Column(0))
	assert.Equal(t, []int32{0, 2, 3, 4}, ids)
}
