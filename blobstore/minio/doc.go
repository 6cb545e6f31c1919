// Package minio provides a BlobStore on MinIO and other S3-compatible
// servers (Ceph, SeaweedFS, Garage) through the MinIO Go client.
//
// Compressed exports are tagged with a Content-Encoding derived from the
// blob name, so "t.csv.zst" is stored as text/csv encoded with zstd.
//
//	store, err := minio.New("localhost:9000", "exports",
//	    minio.WithStaticCredentials("minioadmin", "minioadmin"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := store.EnsureBucket(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	_, err = tbl.Export(ctx, store, "t.jsonl", []string{"*"},
//	    export.WithFormat(export.JSONL))
package minio
