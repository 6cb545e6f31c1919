package minio

import (
	"context"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/tabledb/blobstore"
)

// TestMinioStore_Integration requires a running MinIO instance.
// Skip if not available.
func TestMinioStore_Integration(t *testing.T) {
	endpoint := "localhost:9000"
	accessKey := "minioadmin"
	secretKey := "minioadmin"
	bucket := "test-tabledb"

	store, err := New(endpoint, bucket, WithStaticCredentials(accessKey, secretKey), WithPrefix("test-prefix/"))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := store.EnsureBucket(ctx); err != nil {
		t.Skipf("MinIO not available: %v", err)
	}

	// Test Put and Open
	data := []byte("c1,c2\n1,minio\n")
	err = store.Put(ctx, "test.csv", data)
	require.NoError(t, err)

	blob, err := store.Open(ctx, "test.csv")
	require.NoError(t, err)
	require.Equal(t, int64(len(data)), blob.Size())

	buf := make([]byte, len(data))
	n, err := blob.ReadAt(ctx, buf, 0)
	require.NoError(t, err)
	require.Equal(t, len(data), n)
	require.Equal(t, data, buf)
	require.NoError(t, blob.Close())

	// Test ReadRange
	blob2, err := store.Open(ctx, "test.csv")
	require.NoError(t, err)
	rc, err := blob2.ReadRange(ctx, 8, 5)
	require.NoError(t, err)
	partBuf := make([]byte, 5)
	_, err = rc.Read(partBuf)
	require.NoError(t, err)
	assert.Equal(t, "minio", string(partBuf))
	require.NoError(t, rc.Close())
	require.NoError(t, blob2.Close())

	// Test List
	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Contains(t, names, "test.csv")

	// Test Delete
	err = store.Delete(ctx, "test.csv")
	require.NoError(t, err)

	// Verify deleted
	_, err = store.Open(ctx, "test.csv")
	require.Error(t, err)

	// Test Create (streaming)
	wb, err := store.Create(ctx, "stream.jsonl")
	require.NoError(t, err)
	_, err = wb.Write([]byte("streamed data"))
	require.NoError(t, err)
	err = wb.Close()
	require.NoError(t, err)

	blob3, err := store.Open(ctx, "stream.jsonl")
	require.NoError(t, err)
	assert.Equal(t, int64(13), blob3.Size())
	require.NoError(t, blob3.Close())

	// Aborted uploads never appear
	wb, err = store.Create(ctx, "aborted.csv")
	require.NoError(t, err)
	_, err = wb.Write([]byte("partial"))
	require.NoError(t, err)
	require.NoError(t, blobstore.Abort(wb))
	_, err = store.Open(ctx, "aborted.csv")
	require.ErrorIs(t, err, blobstore.ErrNotFound)

	// Cleanup
	_ = store.Delete(ctx, "stream.jsonl")
}

func TestContentType(t *testing.T) {
	tests := []struct {
		name, ct, enc string
	}{
		{"a/t.csv", "text/csv", ""},
		{"t.jsonl", "application/x-ndjson", ""},
		{"t.ndjson.lz4", "application/x-ndjson", "lz4"},
		{"t.csv.zst", "text/csv", "zstd"},
		{"t.bin", "application/octet-stream", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ct, enc := contentType(tt.name)
			assert.Equal(t, tt.ct, ct)
			assert.Equal(t, tt.enc, enc)
		})
	}
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, isNotFound(minio.ErrorResponse{Code: "NoSuchKey"}))
	assert.True(t, isNotFound(minio.ErrorResponse{Code: "NotFound"}))
	assert.False(t, isNotFound(minio.ErrorResponse{Code: "AccessDenied"}))
}

func TestNew(t *testing.T) {
	s, err := New("localhost:9000", "bucket",
		WithStaticCredentials("key", "secret"),
		WithPrefix("exports"),
		WithPartSize(16<<20),
	)
	require.NoError(t, err)
	assert.Equal(t, "exports/t.csv", s.key("t.csv"))
	assert.Equal(t, "t.csv", s.trim("exports/t.csv"))
	assert.Equal(t, uint64(16<<20), s.putOptions("t.csv").PartSize)
}
