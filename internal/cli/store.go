package cli

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/hupe1980/tabledb/blobstore"
	"github.com/hupe1980/tabledb/blobstore/minio"
	"github.com/hupe1980/tabledb/blobstore/s3"
)

var errExportURL = errors.New("invalid export url")

// exportTarget is a parsed --export-url.
//
//	file:///tmp/out
//	s3://bucket/prefix?region=eu-central-1
//	minio://[access:secret@]host:9000/bucket/prefix?secure=true&region=us-east-1
type exportTarget struct {
	Scheme    string
	Dir       string
	Endpoint  string
	Bucket    string
	Prefix    string
	Region    string
	Secure    bool
	AccessKey string
	SecretKey string
}

func parseExportURL(raw string) (exportTarget, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return exportTarget{}, fmt.Errorf("%w: %v", errExportURL, err)
	}

	q := u.Query()
	t := exportTarget{Scheme: u.Scheme, Region: q.Get("region")}

	switch u.Scheme {
	case "file":
		t.Dir = u.Host + u.Path
		if t.Dir == "" {
			return exportTarget{}, fmt.Errorf("%w: file url needs a path", errExportURL)
		}
	case "s3":
		t.Bucket = u.Host
		t.Prefix = strings.TrimPrefix(u.Path, "/")
	case "minio":
		t.Endpoint = u.Host
		if t.Endpoint == "" {
			return exportTarget{}, fmt.Errorf("%w: minio url needs a host", errExportURL)
		}
		t.Bucket, t.Prefix, _ = strings.Cut(strings.TrimPrefix(u.Path, "/"), "/")
		if s := q.Get("secure"); s != "" {
			t.Secure, err = strconv.ParseBool(s)
			if err != nil {
				return exportTarget{}, fmt.Errorf("%w: secure=%q", errExportURL, s)
			}
		}
		if u.User != nil {
			t.AccessKey = u.User.Username()
			t.SecretKey, _ = u.User.Password()
		}
	default:
		return exportTarget{}, fmt.Errorf("%w: unsupported scheme %q", errExportURL, u.Scheme)
	}

	if u.Scheme != "file" && t.Bucket == "" {
		return exportTarget{}, fmt.Errorf("%w: missing bucket", errExportURL)
	}
	return t, nil
}

// openExportStore returns the store export steps write to. An empty rawURL
// selects the local directory dir.
func openExportStore(ctx context.Context, rawURL, dir string) (blobstore.BlobStore, error) {
	if rawURL == "" {
		return blobstore.NewLocalStore(dir), nil
	}

	t, err := parseExportURL(rawURL)
	if err != nil {
		return nil, err
	}

	switch t.Scheme {
	case "file":
		return blobstore.NewLocalStore(t.Dir), nil
	case "s3":
		opts := []s3.Option{s3.WithPrefix(t.Prefix)}
		if t.Region != "" {
			opts = append(opts, s3.WithRegion(t.Region))
		}
		st, err := s3.New(ctx, t.Bucket, opts...)
		if err != nil {
			return nil, err
		}
		return st, nil
	default:
		opts := []minio.Option{minio.WithPrefix(t.Prefix), minio.WithSecure(t.Secure)}
		if t.Region != "" {
			opts = append(opts, minio.WithRegion(t.Region))
		}
		if t.AccessKey != "" {
			opts = append(opts, minio.WithStaticCredentials(t.AccessKey, t.SecretKey))
		}
		st, err := minio.New(t.Endpoint, t.Bucket, opts...)
		if err != nil {
			return nil, err
		}
		return st, nil
	}
}
