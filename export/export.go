package export

import (
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/hupe1980/tabledb/blobstore"
	"github.com/hupe1980/tabledb/codec"
	"github.com/hupe1980/tabledb/resource"
	"github.com/hupe1980/tabledb/result"
	"github.com/hupe1980/tabledb/types"
)

// Stats reports what an export wrote.
type Stats struct {
	Rows  int
	Bytes int64 // after compression
}

// Write encodes rs to w.
func Write(ctx context.Context, w io.Writer, rs *result.ResultSet, optFns ...Option) (Stats, error) {
	o := Apply(optFns...)

	cw := &countingWriter{w: w}
	var out io.Writer = cw
	if o.Resources != nil {
		out = resource.NewRateLimitedWriter(ctx, cw, o.Resources)
	}

	comp, err := compressor(out, o)
	if err != nil {
		return Stats{}, err
	}

	bw := bufio.NewWriter(comp)
	switch o.Format {
	case CSV:
		err = writeCSV(ctx, bw, rs, o)
	case JSONL:
		err = writeJSONL(ctx, bw, rs, o)
	default:
		err = fmt.Errorf("%w: format %s", ErrUnsupported, o.Format)
	}
	if err == nil {
		err = bw.Flush()
	}
	if cerr := comp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return Stats{Bytes: cw.n}, err
	}
	return Stats{Rows: rs.NumRows(), Bytes: cw.n}, nil
}

// ToBlob writes rs to a new blob in store. The blob is aborted on error so
// no partial export becomes visible.
func ToBlob(ctx context.Context, store blobstore.BlobStore, name string, rs *result.ResultSet, optFns ...Option) (Stats, error) {
	w, err := store.Create(ctx, name)
	if err != nil {
		return Stats{}, err
	}
	stats, err := Write(ctx, w, rs, optFns...)
	if err != nil {
		_ = blobstore.Abort(w)
		return stats, err
	}
	if err := w.Close(); err != nil {
		return stats, err
	}
	return stats, nil
}

// NewReader wraps r with the decompressor for c.
func NewReader(r io.Reader, c Compression) (io.ReadCloser, error) {
	switch c {
	case None:
		return io.NopCloser(r), nil
	case Zstd:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return dec.IOReadCloser(), nil
	case LZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	default:
		return nil, fmt.Errorf("%w: compression %s", ErrUnsupported, c)
	}
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

func compressor(w io.Writer, o Options) (io.WriteCloser, error) {
	switch o.Compression {
	case None:
		return nopWriteCloser{w}, nil
	case Zstd:
		return zstd.NewWriter(w, zstd.WithEncoderLevel(o.zstdLevel()))
	case LZ4:
		return lz4.NewWriter(w), nil
	default:
		return nil, fmt.Errorf("%w: compression %s", ErrUnsupported, o.Compression)
	}
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// checkEvery is how many rows are written between context checks.
const checkEvery = 1024

func writeCSV(ctx context.Context, w io.Writer, rs *result.ResultSet, o Options) error {
	cw := csv.NewWriter(w)
	if o.Header {
		if err := cw.Write(rs.Names()); err != nil {
			return err
		}
	}
	record := make([]string, rs.NumCols())
	for r := range rs.NumRows() {
		if r%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		for c := range record {
			record[c] = formatCSV(rs.Column(c), r)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// JSONKeys returns the object keys used for columns in JSON-lines output.
// A repeated name gets a numeric suffix ("c1", "c1_1", "c1_2") that does not
// collide with any other column, so no value is lost on decode.
func JSONKeys(names []string) []string {
	taken := make(map[string]bool, len(names))
	for _, n := range names {
		taken[n] = true
	}
	used := make(map[string]bool, len(names))
	out := make([]string, len(names))
	for i, n := range names {
		key := n
		for k := 1; used[key]; k++ {
			key = n + "_" + strconv.Itoa(k)
			if taken[key] {
				key = n
			}
		}
		used[key] = true
		out[i] = key
	}
	return out
}

// formatCSV renders one cell. Nulls are empty; vectors use the literal
// form "[1, 2.5]".
func formatCSV(c *result.Column, row int) string {
	if !c.Valid(row) {
		return ""
	}
	switch v := c.Value(row).(type) {
	case bool:
		return strconv.FormatBool(v)
	case int8:
		return strconv.FormatInt(int64(v), 10)
	case int16:
		return strconv.FormatInt(int64(v), 10)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case string:
		return v
	default:
		val, err := types.ValueOf(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return val.String()
	}
}

func writeJSONL(ctx context.Context, w io.Writer, rs *result.ResultSet, o Options) error {
	keys := JSONKeys(rs.Names())
	names := make([][]byte, len(keys))
	for c := range names {
		key, err := o.Codec.Marshal(keys[c])
		if err != nil {
			return err
		}
		names[c] = key
	}

	var (
		buf []byte
		err error
	)
	for r := range rs.NumRows() {
		if r%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		buf = append(buf[:0], '{')
		for c := range names {
			if c > 0 {
				buf = append(buf, ',')
			}
			buf = append(buf, names[c]...)
			buf = append(buf, ':')
			buf, err = codec.Append(o.Codec, buf, rs.Column(c).Value(r))
			if err != nil {
				return fmt.Errorf("row %d column %s: %w", r, rs.Column(c).Name(), err)
			}
		}
		buf = append(buf, '}', '\n')
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}
	return nil
}
