// Package prometheus exports table metrics to Prometheus.
//
//	c := prometheus.NewCollector(prometheus.WithRegisterer(reg))
//	tbl, _ := tabledb.NewTable("t", schema, tabledb.WithMetricsCollector(c))
package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	opInsert  = "insert"
	opDelete  = "delete"
	opUpdate  = "update"
	opProject = "project"
	opExport  = "export"
)

// Collector implements tabledb.MetricsCollector on top of client_golang.
type Collector struct {
	opLatency   *prometheus.HistogramVec
	ops         *prometheus.CounterVec
	rows        *prometheus.CounterVec
	exportBytes prometheus.Counter
}

type options struct {
	namespace   string
	constLabels prometheus.Labels
	buckets     []float64
	registerer  prometheus.Registerer
}

// Option configures a Collector.
type Option func(*options)

// WithNamespace sets the metric namespace. Default "tabledb".
func WithNamespace(ns string) Option {
	return func(o *options) {
		o.namespace = ns
	}
}

// WithConstLabels attaches constant labels to every metric.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(o *options) {
		o.constLabels = labels
	}
}

// WithBuckets overrides the latency histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(o *options) {
		o.buckets = buckets
	}
}

// WithRegisterer registers the metrics with r. Default
// prometheus.DefaultRegisterer; nil skips registration.
func WithRegisterer(r prometheus.Registerer) Option {
	return func(o *options) {
		o.registerer = r
	}
}

// NewCollector creates and registers a Collector. It panics if the metrics
// are already registered with the same registerer.
func NewCollector(optFns ...Option) *Collector {
	opts := options{
		namespace:  "tabledb",
		buckets:    prometheus.DefBuckets,
		registerer: prometheus.DefaultRegisterer,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	c := &Collector{
		opLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   opts.namespace,
			Name:        "operation_duration_seconds",
			Help:        "Latency of table operations",
			ConstLabels: opts.constLabels,
			Buckets:     opts.buckets,
		}, []string{"op", "status"}),
		ops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   opts.namespace,
			Name:        "operations_total",
			Help:        "Total table operations",
			ConstLabels: opts.constLabels,
		}, []string{"op", "status"}),
		rows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   opts.namespace,
			Name:        "rows_total",
			Help:        "Rows inserted, deleted, updated or projected",
			ConstLabels: opts.constLabels,
		}, []string{"op"}),
		exportBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   opts.namespace,
			Name:        "export_bytes_total",
			Help:        "Bytes written by exports",
			ConstLabels: opts.constLabels,
		}),
	}

	if opts.registerer != nil {
		opts.registerer.MustRegister(c)
	}
	return c
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	c.opLatency.Describe(ch)
	c.ops.Describe(ch)
	c.rows.Describe(ch)
	c.exportBytes.Describe(ch)
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.opLatency.Collect(ch)
	c.ops.Collect(ch)
	c.rows.Collect(ch)
	c.exportBytes.Collect(ch)
}

func (c *Collector) RecordInsert(rows int, d time.Duration, err error) {
	c.observe(opInsert, float64(rows), d, err)
}

func (c *Collector) RecordDelete(rows int, d time.Duration, err error) {
	c.observe(opDelete, float64(rows), d, err)
}

func (c *Collector) RecordUpdate(rows int, d time.Duration, err error) {
	c.observe(opUpdate, float64(rows), d, err)
}

func (c *Collector) RecordProject(rows int, d time.Duration, err error) {
	c.observe(opProject, float64(rows), d, err)
}

func (c *Collector) RecordExport(bytes int64, d time.Duration, err error) {
	status := statusOf(err)
	c.opLatency.WithLabelValues(opExport, status).Observe(d.Seconds())
	c.ops.WithLabelValues(opExport, status).Inc()
	if bytes > 0 {
		c.exportBytes.Add(float64(bytes))
	}
}

// rows only count on success; a failed batch changes nothing.
func (c *Collector) observe(op string, rows float64, d time.Duration, err error) {
	status := statusOf(err)
	c.opLatency.WithLabelValues(op, status).Observe(d.Seconds())
	c.ops.WithLabelValues(op, status).Inc()
	if err == nil && rows > 0 {
		c.rows.WithLabelValues(op).Add(rows)
	}
}

func statusOf(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
