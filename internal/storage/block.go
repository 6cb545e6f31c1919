package storage

import (
	"github.com/bits-and-blooms/bitset"

	"github.com/hupe1980/tabledb/types"
)

// Block is a fixed-capacity, column-major group of rows with a tombstone
// bitmap. Rows are only appended; deletion flips a bit.
type Block struct {
	id       int
	capacity int
	cols     []Column
	rows     int
	deleted  *bitset.BitSet
	ndeleted int
	bytes    int64
}

func newBlock(id int, schema *types.Schema, capacity int, bytes int64) *Block {
	b := &Block{
		id:       id,
		capacity: capacity,
		cols:     make([]Column, schema.Len()),
		deleted:  bitset.New(uint(capacity)),
		bytes:    bytes,
	}
	for i := range b.cols {
		b.cols[i] = NewColumn(schema.Column(i).Type, capacity)
	}
	return b
}

// ID returns the block's position within its segment.
func (b *Block) ID() int { return b.id }

// Rows returns the number of rows appended so far, including deleted rows.
func (b *Block) Rows() int { return b.rows }

// Capacity returns the maximum number of rows.
func (b *Block) Capacity() int { return b.capacity }

// Full reports whether the block has no free slots.
func (b *Block) Full() bool { return b.rows >= b.capacity }

// Deleted returns the number of tombstoned rows.
func (b *Block) Deleted() int { return b.ndeleted }

// Column returns the i-th column.
func (b *Block) Column(i int) Column { return b.cols[i] }

// IsDeleted reports whether the row at offset is tombstoned.
func (b *Block) IsDeleted(offset int) bool {
	return b.deleted.Test(uint(offset))
}

func (b *Block) append(row []types.Value) int {
	offset := b.rows
	for i, c := range b.cols {
		c.Append(row[i])
	}
	b.rows++
	return offset
}

func (b *Block) tombstone(offset int) bool {
	if b.deleted.Test(uint(offset)) {
		return false
	}
	b.deleted.Set(uint(offset))
	b.ndeleted++
	return true
}

// Segment is an ordered list of blocks. Segments are never merged.
type Segment struct {
	id     int
	blocks []*Block
}

// ID returns the segment's position within the table.
func (s *Segment) ID() int { return s.id }

// Blocks returns the number of allocated blocks.
func (s *Segment) Blocks() int { return len(s.blocks) }

// Block returns the i-th block.
func (s *Segment) Block(i int) *Block { return s.blocks[i] }
