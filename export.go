package tabledb

import (
	"context"
	"time"

	"github.com/hupe1980/tabledb/blobstore"
	"github.com/hupe1980/tabledb/export"
)

// Export projects columns and writes them to a new blob in store. IO is
// throttled by the table's resource controller unless overridden with
// export.WithResources.
func (t *Table) Export(ctx context.Context, store blobstore.BlobStore, name string, columns []string, optFns ...export.Option) (stats export.Stats, err error) {
	rs, err := t.Project(ctx, columns...)
	if err != nil {
		return export.Stats{}, err
	}

	start := time.Now()
	defer func() {
		t.metrics.RecordExport(stats.Bytes, time.Since(start), err)
		t.logger.LogExport(ctx, name, stats.Rows, stats.Bytes, err)
	}()

	opts := append([]export.Option{export.WithResources(t.opts.resources)}, optFns...)
	stats, err = export.ToBlob(ctx, store, name, rs, opts...)
	if err != nil {
		return stats, t.opError("export", err)
	}
	return stats, nil
}
