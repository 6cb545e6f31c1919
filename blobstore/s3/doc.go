// Package s3 provides an S3 implementation of the blobstore.BlobStore interface.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("exports/"),
//	    s3.WithRegion("us-east-1"),
//	)
//
//	_, err = tbl.Export(ctx, store, "t.csv.zst", []string{"*"},
//	    export.WithCompression(export.Zstd))
//
// # Features
//
//   - Range reads for partial fetches
//   - Multipart streaming uploads through the SDK upload manager
//   - Automatic pagination for listing
//   - Configurable prefix for multi-tenant isolation
package s3
