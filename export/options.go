package export

import (
	"errors"
	"fmt"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/hupe1980/tabledb/codec"
	"github.com/hupe1980/tabledb/resource"
)

// ErrUnsupported is returned for unknown formats or compressions.
var ErrUnsupported = errors.New("unsupported export option")

// Format is the encoding of exported rows.
type Format int

const (
	// CSV writes RFC 4180 records with an optional header row.
	CSV Format = iota
	// JSONL writes one JSON object per row.
	JSONL
)

func (f Format) String() string {
	switch f {
	case CSV:
		return "csv"
	case JSONL:
		return "jsonl"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// Extension returns the file extension, including the dot.
func (f Format) Extension() string { return "." + f.String() }

// ParseFormat parses "csv", "jsonl" or "ndjson".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return CSV, nil
	case "jsonl", "ndjson":
		return JSONL, nil
	default:
		return 0, fmt.Errorf("%w: format %q", ErrUnsupported, s)
	}
}

// Compression is the stream compression applied after encoding.
type Compression int

const (
	// None writes uncompressed output.
	None Compression = iota
	// Zstd uses github.com/klauspost/compress/zstd.
	Zstd
	// LZ4 uses the lz4 frame format of github.com/pierrec/lz4/v4.
	LZ4
)

func (c Compression) String() string {
	switch c {
	case None:
		return "none"
	case Zstd:
		return "zstd"
	case LZ4:
		return "lz4"
	default:
		return fmt.Sprintf("Compression(%d)", int(c))
	}
}

// Extension returns the conventional suffix, empty for None.
func (c Compression) Extension() string {
	switch c {
	case Zstd:
		return ".zst"
	case LZ4:
		return ".lz4"
	default:
		return ""
	}
}

// ParseCompression parses "none", "zstd" or "lz4".
func ParseCompression(s string) (Compression, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return None, nil
	case "zstd", "zst":
		return Zstd, nil
	case "lz4":
		return LZ4, nil
	default:
		return 0, fmt.Errorf("%w: compression %q", ErrUnsupported, s)
	}
}

// Options configures an export.
type Options struct {
	Format      Format
	Compression Compression
	// ZstdLevel is the zstd compression level (1-22). 0 selects the default.
	ZstdLevel int
	// Header writes a CSV header row. Default: true.
	Header bool
	// Codec encodes JSON values. Default: codec.Default.
	Codec codec.Codec
	// Resources throttles output bytes. Nil means unlimited.
	Resources *resource.Controller
}

// Option configures an export.
type Option func(*Options)

func defaultOptions() Options {
	return Options{
		Format: CSV,
		Header: true,
		Codec:  codec.Default,
	}
}

// Apply builds Options from defaults and optFns.
func Apply(optFns ...Option) Options {
	o := defaultOptions()
	for _, fn := range optFns {
		fn(&o)
	}
	return o
}

// WithFormat selects the row encoding.
func WithFormat(f Format) Option {
	return func(o *Options) { o.Format = f }
}

// WithCompression selects the stream compression.
func WithCompression(c Compression) Option {
	return func(o *Options) { o.Compression = c }
}

// WithZstdLevel sets the zstd level.
func WithZstdLevel(level int) Option {
	return func(o *Options) { o.ZstdLevel = level }
}

// WithHeader toggles the CSV header row.
func WithHeader(on bool) Option {
	return func(o *Options) { o.Header = on }
}

// WithCodec sets the JSON codec. Nil selects codec.Default.
func WithCodec(c codec.Codec) Option {
	return func(o *Options) {
		if c == nil {
			c = codec.Default
		}
		o.Codec = c
	}
}

// WithResources throttles output through rc's IO limit.
func WithResources(rc *resource.Controller) Option {
	return func(o *Options) { o.Resources = rc }
}

func (o Options) zstdLevel() zstd.EncoderLevel {
	if o.ZstdLevel <= 0 {
		return zstd.SpeedDefault
	}
	return zstd.EncoderLevelFromZstd(o.ZstdLevel)
}
