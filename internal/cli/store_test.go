package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/tabledb/blobstore"
	"github.com/hupe1980/tabledb/blobstore/minio"
	"github.com/hupe1980/tabledb/blobstore/s3"
)

func TestParseExportURL(t *testing.T) {
	tests := []struct {
		in   string
		want exportTarget
	}{
		{"file:///tmp/out", exportTarget{Scheme: "file", Dir: "/tmp/out"}},
		{"file://./out", exportTarget{Scheme: "file", Dir: "./out"}},
		{"s3://bkt", exportTarget{Scheme: "s3", Bucket: "bkt"}},
		{"s3://bkt/exports/daily?region=eu-central-1", exportTarget{Scheme: "s3", Bucket: "bkt", Prefix: "exports/daily", Region: "eu-central-1"}},
		{"minio://localhost:9000/bkt", exportTarget{Scheme: "minio", Endpoint: "localhost:9000", Bucket: "bkt"}},
		{
			"minio://ak:sk@play.min.io/bkt/runs/1?secure=true&region=us-east-1",
			exportTarget{Scheme: "minio", Endpoint: "play.min.io", Bucket: "bkt", Prefix: "runs/1", Region: "us-east-1", Secure: true, AccessKey: "ak", SecretKey: "sk"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseExportURL(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseExportURL_Errors(t *testing.T) {
	for _, in := range []string{
		"ftp://host/x",
		"/plain/path",
		"file://",
		"s3://",
		"s3:///prefix",
		"minio:///bkt",
		"minio://localhost:9000",
		"minio://localhost:9000/bkt?secure=maybe",
		"s3://bkt/%zz",
	} {
		t.Run(in, func(t *testing.T) {
			_, err := parseExportURL(in)
			assert.ErrorIs(t, err, errExportURL)
		})
	}
}

func TestOpenExportStore(t *testing.T) {
	ctx := context.Background()

	st, err := openExportStore(ctx, "", t.TempDir())
	require.NoError(t, err)
	assert.IsType(t, &blobstore.LocalStore{}, st)

	dir := t.TempDir()
	st, err = openExportStore(ctx, "file://"+dir, "ignored")
	require.NoError(t, err)
	require.NoError(t, st.Put(ctx, "a.csv", []byte("x\n")))
	data, err := os.ReadFile(filepath.Join(dir, "a.csv"))
	require.NoError(t, err)
	assert.Equal(t, "x\n", string(data))

	st, err = openExportStore(ctx, "minio://ak:sk@localhost:9000/bkt/out", "")
	require.NoError(t, err)
	assert.IsType(t, &minio.Store{}, st)

	t.Setenv("AWS_CONFIG_FILE", filepath.Join(dir, "missing-config"))
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", filepath.Join(dir, "missing-credentials"))
	t.Setenv("AWS_PROFILE", "")
	st, err = openExportStore(ctx, "s3://bkt/out?region=eu-west-1", "")
	require.NoError(t, err)
	assert.IsType(t, &s3.Store{}, st)

	_, err = openExportStore(ctx, "gs://bkt", "")
	assert.ErrorIs(t, err, errExportURL)
}
