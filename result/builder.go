package result

import (
	"github.com/hupe1980/tabledb/internal/storage"
	"github.com/hupe1980/tabledb/types"
)

// Star selects every schema column in schema order.
const Star = "*"

// Builder copies visible rows out of storage blocks into a ResultSet.
type Builder struct {
	cols []*Column
	src  []int
	rows int
	offs []int
}

// NewBuilder resolves a projection against schema. Names may repeat and
// may include Star. An unknown name fails with types.ErrUnknownColumn before
// anything is allocated. sizeHint is the expected number of rows.
func NewBuilder(schema *types.Schema, names []string, sizeHint int) (*Builder, error) {
	var src []int
	for _, n := range names {
		if n == Star {
			for i := range schema.Len() {
				src = append(src, i)
			}
			continue
		}
		i, err := schema.Resolve(n)
		if err != nil {
			return nil, err
		}
		src = append(src, i)
	}

	b := &Builder{
		cols: make([]*Column, len(src)),
		src:  src,
	}
	for i, s := range src {
		def := schema.Column(s)
		b.cols[i] = newColumn(def.Name, def.Type, sizeHint)
	}
	return b, nil
}

// AppendBlock copies the visible rows among the first rows of blk.
// Visibility is decided once per row so all projected columns agree.
func (b *Builder) AppendBlock(blk *storage.Block, rows int) {
	b.offs = b.offs[:0]
	for off := range rows {
		if !blk.IsDeleted(off) {
			b.offs = append(b.offs, off)
		}
	}
	if len(b.offs) == 0 {
		return
	}
	for i, c := range b.cols {
		c.gather(blk.Column(b.src[i]), b.offs)
	}
	b.rows += len(b.offs)
}

// AppendRow appends one row of encoded values in projection order.
func (b *Builder) AppendRow(row []types.Value) {
	for i, c := range b.cols {
		c.appendValue(row[i])
	}
	b.rows++
}

// Build returns the ResultSet. The builder must not be used afterwards.
func (b *Builder) Build() *ResultSet {
	return &ResultSet{cols: b.cols, rows: b.rows}
}

func (c *Column) gather(src storage.Column, offs []int) {
	stride := 1
	if c.typ.IsVector() {
		stride = c.typ.Dim
	}
	switch d := c.data.(type) {
	case []bool:
		c.data = gather(d, src.Data().([]bool), offs, stride)
	case []int8:
		c.data = gather(d, src.Data().([]int8), offs, stride)
	case []int16:
		c.data = gather(d, src.Data().([]int16), offs, stride)
	case []int32:
		c.data = gather(d, src.Data().([]int32), offs, stride)
	case []int64:
		c.data = gather(d, src.Data().([]int64), offs, stride)
	case []float32:
		c.data = gather(d, src.Data().([]float32), offs, stride)
	case []float64:
		c.data = gather(d, src.Data().([]float64), offs, stride)
	case []string:
		c.data = gather(d, src.Data().([]string), offs, stride)
	}
	for _, off := range offs {
		c.appendValid(src.Valid(off))
		c.n++
	}
}

func gather[T any](dst, src []T, offs []int, stride int) []T {
	if stride == 1 {
		for _, off := range offs {
			dst = append(dst, src[off])
		}
		return dst
	}
	for _, off := range offs {
		dst = append(dst, src[off*stride:(off+1)*stride]...)
	}
	return dst
}
