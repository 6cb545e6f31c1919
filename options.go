package tabledb

import (
	"log/slog"

	"github.com/hupe1980/tabledb/internal/storage"
	"github.com/hupe1980/tabledb/resource"
)

type options struct {
	blockCapacity    int
	blocksPerSegment int
	metricsCollector MetricsCollector
	logger           *Logger
	resources        *resource.Controller
}

func defaultOptions() options {
	return options{
		blockCapacity:    storage.DefaultBlockCapacity,
		blocksPerSegment: storage.DefaultBlocksPerSegment,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
}

func applyOptions(optFns []Option) options {
	o := defaultOptions()
	for _, fn := range optFns {
		fn(&o)
	}
	return o
}

// Option configures a Table or Catalog.
type Option func(*options)

// WithBlockCapacity sets the number of rows per block.
// Values <= 0 select storage.DefaultBlockCapacity.
func WithBlockCapacity(n int) Option {
	return func(o *options) {
		if n <= 0 {
			n = storage.DefaultBlockCapacity
		}
		o.blockCapacity = n
	}
}

// WithBlocksPerSegment sets the number of blocks per segment.
// Values <= 0 select storage.DefaultBlocksPerSegment.
func WithBlocksPerSegment(n int) Option {
	return func(o *options) {
		if n <= 0 {
			n = storage.DefaultBlocksPerSegment
		}
		o.blocksPerSegment = n
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &tabledb.BasicMetricsCollector{}
//	tbl, _ := tabledb.NewTable("t", schema, tabledb.WithMetricsCollector(metrics))
//	// ... use table ...
//	stats := metrics.GetStats()
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging.
// Pass nil to disable logging.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithLogLevel installs a text logger to stderr at the given level.
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithResourceController charges block memory to rc. Tables sharing a
// controller share its budget. Nil means unlimited.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.resources = rc
	}
}
