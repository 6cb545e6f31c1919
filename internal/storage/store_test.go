package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/tabledb/resource"
	"github.com/hupe1980/tabledb/types"
)

func testSchema() *types.Schema {
	return types.MustSchema(
		types.Col("id", types.Int32Type, types.PrimaryKey),
		types.Col("name", types.VarcharType),
		types.Col("vec", types.VectorType(types.TypeFloat32, 2)),
	)
}

func row(id int64, name string) []types.Value {
	n := types.Null()
	if name != "" {
		n = types.String(name)
	}
	return []types.Value{types.Int(id), n, types.Vector([]types.Value{types.Float(float64(id)), types.Float(0.5)})}
}

func TestStore_AppendAllocatesBlocksAndSegments(t *testing.T) {
	s := New(testSchema(), Options{BlockCapacity: 4, BlocksPerSegment: 2})

	var addrs []RowAddress
	for i := range 10 {
		addr, err := s.Append(row(int64(i), "x"))
		require.NoError(t, err)
		addrs = append(addrs, addr)
	}

	assert.Equal(t, RowAddress{0, 0, 0}, addrs[0])
	assert.Equal(t, RowAddress{0, 0, 3}, addrs[3])
	assert.Equal(t, RowAddress{0, 1, 0}, addrs[4])
	assert.Equal(t, RowAddress{1, 0, 0}, addrs[8])
	assert.Equal(t, RowAddress{1, 0, 1}, addrs[9])

	stats := s.SegmentStats()
	require.Len(t, stats, 2)
	assert.Equal(t, 8, stats[0].Rows)
	assert.Equal(t, 2, stats[1].Rows)
	assert.Equal(t, int64(10), s.Rows())
}

func TestStore_ScanOrderAndValues(t *testing.T) {
	s := New(testSchema(), Options{BlockCapacity: 3, BlocksPerSegment: 2})
	for i := range 7 {
		_, err := s.Append(row(int64(i), ""))
		require.NoError(t, err)
	}

	var ids []int64
	var prev RowAddress
	first := true
	for r := range s.Scan() {
		if !first {
			less := prev.Segment < r.Addr.Segment ||
				(prev.Segment == r.Addr.Segment && prev.Block < r.Addr.Block) ||
				(prev.Segment == r.Addr.Segment && prev.Block == r.Addr.Block && prev.Offset < r.Addr.Offset)
			assert.True(t, less, "scan order %s after %s", r.Addr, prev)
		}
		first = false
		prev = r.Addr
		assert.True(t, r.Visible())
		ids = append(ids, r.Value(0).I64)
		assert.True(t, r.Value(1).IsNull())
		assert.Equal(t, types.Vector([]types.Value{types.Float(float64(r.Value(0).I64)), types.Float(0.5)}), r.Value(2))
	}
	assert.Equal(t, []int64{0, 1, 2, 3, 4, 5, 6}, ids)
}

func TestStore_TombstoneIdempotent(t *testing.T) {
	s := New(testSchema(), Options{BlockCapacity: 4})
	addr, err := s.Append(row(1, "a"))
	require.NoError(t, err)
	_, err = s.Append(row(2, "b"))
	require.NoError(t, err)

	changed, err := s.Tombstone(addr)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = s.Tombstone(addr)
	require.NoError(t, err)
	assert.False(t, changed, "second tombstone is a no-op")

	assert.Equal(t, int64(1), s.Visible())

	vals, visible, err := s.Get(addr)
	require.NoError(t, err)
	assert.False(t, visible)
	assert.Equal(t, types.Int(1), vals[0])

	_, err = s.Tombstone(RowAddress{Segment: 0, Block: 0, Offset: 5})
	assert.ErrorIs(t, err, ErrInvalidAddress)
	_, err = s.Tombstone(RowAddress{Segment: 3})
	assert.ErrorIs(t, err, ErrInvalidAddress)
}

func TestStore_ScanSnapshotsRowsButReadsTombstonesLive(t *testing.T) {
	s := New(testSchema(), Options{BlockCapacity: 4})
	a, _ := s.Append(row(1, "a"))
	_, _ = s.Append(row(2, "b"))

	sn := s.Snapshot()

	// Appended after the snapshot: not visible through it.
	_, _ = s.Append(row(3, "c"))
	// Tombstoned after the snapshot: observed through it.
	_, err := s.Tombstone(a)
	require.NoError(t, err)

	var seen []int64
	for r := range sn.Rows() {
		if r.Visible() {
			seen = append(seen, r.Value(0).I64)
		}
	}
	assert.Equal(t, []int64{2}, seen)
	assert.Equal(t, 1, sn.VisibleRows())
}

func TestStore_ReserveRespectsMemoryLimit(t *testing.T) {
	schema := types.MustSchema(types.Col("a", types.Int64Type))
	sizer := New(schema, Options{BlockCapacity: 16})
	blockBytes := sizer.blockBytes

	rc := resource.NewController(resource.Config{MemoryLimitBytes: 2 * blockBytes})
	s := New(schema, Options{BlockCapacity: 16, Resources: rc})

	require.NoError(t, s.Reserve(32))
	assert.Equal(t, 2*blockBytes, rc.MemoryUsage())

	// Already reserved, no new allocation.
	require.NoError(t, s.Reserve(10))

	err := s.Reserve(33)
	require.ErrorIs(t, err, ErrResourceExhausted)
	assert.Equal(t, 2*blockBytes, rc.MemoryUsage(), "failed reserve allocates nothing")

	for i := range 32 {
		_, err := s.Append([]types.Value{types.Int(int64(i))})
		require.NoError(t, err)
	}
	_, err = s.Append([]types.Value{types.Int(99)})
	require.ErrorIs(t, err, ErrResourceExhausted)
	assert.Equal(t, int64(32), s.Rows())

	s.Release()
	assert.Zero(t, rc.MemoryUsage())
	assert.Zero(t, s.Rows())
}

func TestStore_SegmentPositions(t *testing.T) {
	s := New(testSchema(), Options{BlockCapacity: 4, BlocksPerSegment: 2})
	for i := range 6 {
		_, err := s.Append(row(int64(i), "x"))
		require.NoError(t, err)
	}
	sn := s.Snapshot()
	for r := range sn.SegmentRows(0) {
		assert.Equal(t, r.Addr, s.AddressAt(0, r.Position()))
	}

	blocks, err := s.BlockStats(0)
	require.NoError(t, err)
	require.Len(t, blocks, 2)
	assert.Equal(t, 4, blocks[0].Rows)
	assert.Equal(t, 2, blocks[1].Rows)
	assert.Equal(t, 4, blocks[1].Capacity)

	_, err = s.BlockStats(7)
	assert.ErrorIs(t, err, ErrInvalidAddress)
}

func TestOptions_Validate(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		ok   bool
	}{
		{"defaults", Options{}, true},
		{"exactly 2^32 rows", Options{BlockCapacity: 1 << 16, BlocksPerSegment: 1 << 16}, true},
		{"one block too many", Options{BlockCapacity: 1 << 16, BlocksPerSegment: 1<<16 + 1}, false},
		{"large capacity with default blocks", Options{BlockCapacity: 1 << 23}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrLayout)
			}
		})
	}
}

func TestColumn_Data(t *testing.T) {
	c := NewColumn(types.Int32Type, 4)
	c.Append(types.Int(7))
	c.Append(types.Null())
	c.Append(types.Int(-1))

	data, ok := c.Data().([]int32)
	require.True(t, ok)
	assert.Equal(t, []int32{7, 0, -1}, data)
	assert.True(t, c.Valid(0))
	assert.False(t, c.Valid(1))
	assert.Equal(t, types.Null(), c.Value(1))

	v := NewColumn(types.VectorType(types.TypeInt16, 2), 2)
	v.Append(types.Vector([]types.Value{types.Int(1), types.Int(2)}))
	v.Append(types.Null())
	assert.Equal(t, []int16{1, 2, 0, 0}, v.Data())
	assert.Equal(t, 2, v.Len())
	assert.False(t, v.Valid(1))
}
