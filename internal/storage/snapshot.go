package storage

import (
	"iter"

	"github.com/hupe1980/tabledb/types"
)

// BlockRef is a block captured by a Snapshot together with its row count at
// capture time.
type BlockRef struct {
	Segment int
	Block   *Block
	Rows    int
}

// Snapshot is a point-in-time view of the block list. Rows appended after
// the snapshot are not visible through it; tombstones are.
type Snapshot struct {
	capacity int
	segments [][]BlockRef
}

// Segments returns the number of segments captured.
func (sn *Snapshot) Segments() int { return len(sn.segments) }

// Blocks yields every captured block in order.
func (sn *Snapshot) Blocks() iter.Seq[BlockRef] {
	return func(yield func(BlockRef) bool) {
		for _, refs := range sn.segments {
			for _, ref := range refs {
				if !yield(ref) {
					return
				}
			}
		}
	}
}

// Rows yields every captured row in (segment, block, offset) order.
func (sn *Snapshot) Rows() iter.Seq[Row] {
	return func(yield func(Row) bool) {
		for seg := range sn.segments {
			for row := range sn.SegmentRows(seg) {
				if !yield(row) {
					return
				}
			}
		}
	}
}

// SegmentRows yields the captured rows of one segment.
func (sn *Snapshot) SegmentRows(segment int) iter.Seq[Row] {
	return func(yield func(Row) bool) {
		for _, ref := range sn.segments[segment] {
			for off := range ref.Rows {
				r := Row{
					Addr:     RowAddress{Segment: ref.Segment, Block: ref.Block.id, Offset: off},
					block:    ref.Block,
					capacity: sn.capacity,
				}
				if !yield(r) {
					return
				}
			}
		}
	}
}

// VisibleRows counts the captured rows that are not tombstoned.
func (sn *Snapshot) VisibleRows() int {
	n := 0
	for ref := range sn.Blocks() {
		for off := range ref.Rows {
			if !ref.Block.IsDeleted(off) {
				n++
			}
		}
	}
	return n
}

// Row is a lazy view of one stored row.
type Row struct {
	Addr     RowAddress
	block    *Block
	capacity int
}

// Visible reports whether the row is not tombstoned. The bit is read at
// call time.
func (r Row) Visible() bool { return !r.block.IsDeleted(r.Addr.Offset) }

// Value returns the encoded value of column i.
func (r Row) Value(i int) types.Value { return r.block.cols[i].Value(r.Addr.Offset) }

// Values returns all encoded values of the row.
func (r Row) Values() []types.Value {
	out := make([]types.Value, len(r.block.cols))
	for i := range out {
		out[i] = r.Value(i)
	}
	return out
}

// Position returns the row's position within its segment, suitable as a
// bitmap index.
func (r Row) Position() uint32 {
	return uint32(r.Addr.Block*r.capacity + r.Addr.Offset)
}

// AddressAt converts a segment position back into a RowAddress.
func (s *Store) AddressAt(segment int, pos uint32) RowAddress {
	return RowAddress{
		Segment: segment,
		Block:   int(pos) / s.opts.BlockCapacity,
		Offset:  int(pos) % s.opts.BlockCapacity,
	}
}
