package storage

import (
	"errors"
	"fmt"
	"iter"

	"github.com/hupe1980/tabledb/resource"
	"github.com/hupe1980/tabledb/types"
)

const (
	// DefaultBlockCapacity is the number of rows per block.
	DefaultBlockCapacity = 8192
	// DefaultBlocksPerSegment is the number of blocks per segment.
	DefaultBlocksPerSegment = 1024
)

var (
	// ErrResourceExhausted is returned when block allocation exceeds the
	// memory budget.
	ErrResourceExhausted = errors.New("resource exhausted")

	// ErrInvalidAddress is returned for row addresses outside the store.
	ErrInvalidAddress = errors.New("invalid row address")

	// ErrLayout is returned for block/segment sizes the store cannot address.
	ErrLayout = errors.New("invalid storage layout")
)

// MaxSegmentRows is the largest BlockCapacity*BlocksPerSegment. Row
// positions within a segment index 32-bit bitmaps.
const MaxSegmentRows = 1 << 32

// RowAddress locates a row by segment, block and offset.
type RowAddress struct {
	Segment int
	Block   int
	Offset  int
}

func (a RowAddress) String() string {
	return fmt.Sprintf("%d:%d:%d", a.Segment, a.Block, a.Offset)
}

// Options configures a Store.
type Options struct {
	BlockCapacity    int
	BlocksPerSegment int

	// Resources accounts block memory. Nil means unlimited.
	Resources *resource.Controller
}

// Validate checks that a segment's rows fit MaxSegmentRows. Zero sizes
// select the defaults.
func (o Options) Validate() error {
	o = o.withDefaults()
	if int64(o.BlockCapacity) > MaxSegmentRows/int64(o.BlocksPerSegment) {
		return fmt.Errorf("%w: %d rows per block x %d blocks per segment exceeds %d rows",
			ErrLayout, o.BlockCapacity, o.BlocksPerSegment, int64(MaxSegmentRows))
	}
	return nil
}

func (o Options) withDefaults() Options {
	if o.BlockCapacity <= 0 {
		o.BlockCapacity = DefaultBlockCapacity
	}
	if o.BlocksPerSegment <= 0 {
		o.BlocksPerSegment = DefaultBlocksPerSegment
	}
	return o
}

// Store is the append-only block/segment storage of one table.
//
// Store is not safe for concurrent mutation. Callers serialize writers and
// may run any number of readers (Scan, Snapshot) while no writer is active.
type Store struct {
	schema     *types.Schema
	opts       Options
	blockBytes int64

	segments []*Segment
	curSeg   int
	curBlock int

	rows     int64
	deleted  int64
	reserved int64
}

// New creates an empty store for schema. Callers check opts.Validate
// first.
func New(schema *types.Schema, opts Options) *Store {
	opts = opts.withDefaults()

	cap64 := int64(opts.BlockCapacity)
	validity := (cap64 + 7) / 8 * int64(schema.Len()+1)

	return &Store{
		schema:     schema,
		opts:       opts,
		blockBytes: rowWidth(schema)*cap64 + validity,
	}
}

// Schema returns the store's schema.
func (s *Store) Schema() *types.Schema { return s.schema }

// BlockCapacity returns the configured rows per block.
func (s *Store) BlockCapacity() int { return s.opts.BlockCapacity }

// Rows returns the number of appended rows, including deleted ones.
func (s *Store) Rows() int64 { return s.rows }

// Visible returns the number of rows not tombstoned.
func (s *Store) Visible() int64 { return s.rows - s.deleted }

// MemoryBytes returns the bytes charged for allocated blocks.
func (s *Store) MemoryBytes() int64 { return s.reserved }

// free returns the number of rows that fit without allocating.
func (s *Store) free() int {
	n := 0
	for si := s.curSeg; si < len(s.segments); si++ {
		seg := s.segments[si]
		start := 0
		if si == s.curSeg {
			start = s.curBlock
		}
		for bi := start; bi < len(seg.blocks); bi++ {
			b := seg.blocks[bi]
			n += b.capacity - b.rows
		}
	}
	return n
}

// Reserve pre-allocates blocks so that n further appends cannot fail.
// It returns ErrResourceExhausted without allocating anything when the
// memory budget cannot cover the new blocks.
func (s *Store) Reserve(n int) error {
	need := n - s.free()
	if need <= 0 {
		return nil
	}
	blocks := (need + s.opts.BlockCapacity - 1) / s.opts.BlockCapacity
	bytes := int64(blocks) * s.blockBytes
	if !s.opts.Resources.TryAcquireMemory(bytes) {
		return fmt.Errorf("%w: %d blocks (%d bytes)", ErrResourceExhausted, blocks, bytes)
	}
	s.reserved += bytes
	for range blocks {
		s.addBlock()
	}
	return nil
}

func (s *Store) addBlock() *Block {
	if len(s.segments) == 0 || len(s.segments[len(s.segments)-1].blocks) >= s.opts.BlocksPerSegment {
		s.segments = append(s.segments, &Segment{id: len(s.segments)})
	}
	seg := s.segments[len(s.segments)-1]
	b := newBlock(len(seg.blocks), s.schema, s.opts.BlockCapacity, s.blockBytes)
	seg.blocks = append(seg.blocks, b)
	return b
}

// Append writes an encoded row and returns its address. Blocks and
// segments are allocated on demand; call Reserve first to make a batch
// of appends infallible.
func (s *Store) Append(row []types.Value) (RowAddress, error) {
	if len(row) != s.schema.Len() {
		return RowAddress{}, fmt.Errorf("storage: row has %d values, schema has %d columns", len(row), s.schema.Len())
	}
	if err := s.Reserve(1); err != nil {
		return RowAddress{}, err
	}
	for {
		seg := s.segments[s.curSeg]
		if s.curBlock < len(seg.blocks) && !seg.blocks[s.curBlock].Full() {
			break
		}
		if s.curBlock+1 < len(seg.blocks) {
			s.curBlock++
			continue
		}
		s.curSeg++
		s.curBlock = 0
	}
	b := s.segments[s.curSeg].blocks[s.curBlock]
	off := b.append(row)
	s.rows++
	return RowAddress{Segment: s.curSeg, Block: s.curBlock, Offset: off}, nil
}

func (s *Store) block(addr RowAddress) (*Block, error) {
	if addr.Segment < 0 || addr.Segment >= len(s.segments) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidAddress, addr)
	}
	seg := s.segments[addr.Segment]
	if addr.Block < 0 || addr.Block >= len(seg.blocks) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidAddress, addr)
	}
	b := seg.blocks[addr.Block]
	if addr.Offset < 0 || addr.Offset >= b.rows {
		return nil, fmt.Errorf("%w: %s", ErrInvalidAddress, addr)
	}
	return b, nil
}

// Tombstone marks the row at addr deleted. It reports whether the row was
// visible before the call; tombstoning a deleted row is a no-op.
func (s *Store) Tombstone(addr RowAddress) (bool, error) {
	b, err := s.block(addr)
	if err != nil {
		return false, err
	}
	if !b.tombstone(addr.Offset) {
		return false, nil
	}
	s.deleted++
	return true, nil
}

// Get returns the encoded values of the row at addr and whether it is visible.
func (s *Store) Get(addr RowAddress) ([]types.Value, bool, error) {
	b, err := s.block(addr)
	if err != nil {
		return nil, false, err
	}
	row := make([]types.Value, len(b.cols))
	for i, c := range b.cols {
		row[i] = c.Value(addr.Offset)
	}
	return row, !b.IsDeleted(addr.Offset), nil
}

// Release drops all blocks and returns their memory to the controller.
func (s *Store) Release() {
	s.opts.Resources.ReleaseMemory(s.reserved)
	s.reserved = 0
	s.segments = nil
	s.curSeg, s.curBlock = 0, 0
	s.rows, s.deleted = 0, 0
}

// Scan yields every row, deleted or not, in (segment, block, offset) order.
// The block list and row counts are captured when Scan is called;
// tombstones are read live.
func (s *Store) Scan() iter.Seq[Row] {
	return s.Snapshot().Rows()
}

// Snapshot captures the current block list and row counts.
func (s *Store) Snapshot() *Snapshot {
	sn := &Snapshot{
		capacity: s.opts.BlockCapacity,
		segments: make([][]BlockRef, len(s.segments)),
	}
	for i, seg := range s.segments {
		refs := make([]BlockRef, 0, len(seg.blocks))
		for _, b := range seg.blocks {
			if b.rows == 0 {
				continue
			}
			refs = append(refs, BlockRef{Segment: seg.id, Block: b, Rows: b.rows})
		}
		sn.segments[i] = refs
	}
	return sn
}

// SegmentStats summarizes one segment.
type SegmentStats struct {
	ID      int
	Blocks  int
	Rows    int
	Deleted int
}

// BlockStats summarizes one block.
type BlockStats struct {
	Segment  int
	ID       int
	Rows     int
	Deleted  int
	Capacity int
}

// SegmentStats returns a summary of every segment.
func (s *Store) SegmentStats() []SegmentStats {
	out := make([]SegmentStats, len(s.segments))
	for i, seg := range s.segments {
		st := SegmentStats{ID: seg.id, Blocks: len(seg.blocks)}
		for _, b := range seg.blocks {
			st.Rows += b.rows
			st.Deleted += b.ndeleted
		}
		out[i] = st
	}
	return out
}

// BlockStats returns a summary of every block in the segment.
func (s *Store) BlockStats(segment int) ([]BlockStats, error) {
	if segment < 0 || segment >= len(s.segments) {
		return nil, fmt.Errorf("%w: segment %d", ErrInvalidAddress, segment)
	}
	seg := s.segments[segment]
	out := make([]BlockStats, len(seg.blocks))
	for i, b := range seg.blocks {
		out[i] = BlockStats{
			Segment:  seg.id,
			ID:       b.id,
			Rows:     b.rows,
			Deleted:  b.ndeleted,
			Capacity: b.capacity,
		}
	}
	return out, nil
}
