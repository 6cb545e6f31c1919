// Package export writes result sets as CSV or JSON lines, optionally
// compressed with zstd or lz4, to an io.Writer or a blobstore.BlobStore.
//
// Writes can be throttled by a resource.Controller's IO limit.
//
//	rs, _ := tbl.Project(ctx, "*")
//	stats, err := export.ToBlob(ctx, store, "t.jsonl.zst", rs,
//	    export.WithFormat(export.JSONL),
//	    export.WithCompression(export.Zstd),
//	)
package export
