package minio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"slices"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/hupe1980/tabledb/blobstore"
)

// Store implements blobstore.BlobStore on a MinIO bucket.
type Store struct {
	client   *minio.Client
	bucket   string
	prefix   string
	partSize uint64
}

// NewStore wraps an existing client. prefix is joined in front of every
// blob name (e.g. "exports/").
func NewStore(client *minio.Client, bucket, prefix string) *Store {
	return &Store{
		client: client,
		bucket: bucket,
		prefix: prefix,
	}
}

type newOptions struct {
	accessKey string
	secretKey string
	secure    bool
	region    string
	prefix    string
	partSize  uint64
}

// Option configures New.
type Option func(*newOptions)

// WithStaticCredentials sets a static access key pair.
func WithStaticCredentials(accessKey, secretKey string) Option {
	return func(o *newOptions) {
		o.accessKey = accessKey
		o.secretKey = secretKey
	}
}

// WithSecure enables TLS.
func WithSecure(on bool) Option {
	return func(o *newOptions) { o.secure = on }
}

// WithRegion sets the bucket region.
func WithRegion(region string) Option {
	return func(o *newOptions) { o.region = region }
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(o *newOptions) { o.prefix = prefix }
}

// WithPartSize sets the multipart part size for streamed uploads. Zero lets
// the client choose.
func WithPartSize(n uint64) Option {
	return func(o *newOptions) { o.partSize = n }
}

// New connects to endpoint. Without static credentials the MINIO_* and
// AWS_* environment variables are used.
func New(endpoint, bucket string, optFns ...Option) (*Store, error) {
	var o newOptions
	for _, fn := range optFns {
		fn(&o)
	}

	creds := credentials.NewChainCredentials([]credentials.Provider{
		&credentials.EnvMinio{},
		&credentials.EnvAWS{},
	})
	if o.accessKey != "" {
		creds = credentials.NewStaticV4(o.accessKey, o.secretKey, "")
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  creds,
		Secure: o.secure,
		Region: o.region,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	s := NewStore(client, bucket, o.prefix)
	s.partSize = o.partSize
	return s, nil
}

// EnsureBucket creates the bucket if it does not exist.
func (s *Store) EnsureBucket(ctx context.Context) error {
	ok, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	return s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
}

func (s *Store) key(name string) string {
	return path.Join(s.prefix, name)
}

// Open stats the object and returns a blob serving ranged reads.
func (s *Store) Open(ctx context.Context, name string) (blobstore.Blob, error) {
	key := s.key(name)
	info, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%s: %w", name, blobstore.ErrNotFound)
		}
		return nil, err
	}
	return &blob{
		client: s.client,
		bucket: s.bucket,
		key:    key,
		size:   info.Size,
	}, nil
}

// Put uploads data in a single request.
func (s *Store) Put(ctx context.Context, name string, data []byte) error {
	_, err := s.client.PutObject(ctx, s.bucket, s.key(name), bytes.NewReader(data), int64(len(data)), s.putOptions(name))
	return err
}

// Create streams writes into an upload of unknown size. The object appears
// only after Close succeeds.
func (s *Store) Create(ctx context.Context, name string) (blobstore.WritableBlob, error) {
	pr, pw := io.Pipe()
	w := &writableBlob{
		pw:   pw,
		done: make(chan error, 1),
	}

	key := s.key(name)
	opts := s.putOptions(name)
	go func() {
		_, err := s.client.PutObject(ctx, s.bucket, key, pr, -1, opts)
		_ = pr.CloseWithError(err)
		w.done <- err
	}()

	return w, nil
}

// Delete removes a blob. Missing blobs are not an error.
func (s *Store) Delete(ctx context.Context, name string) error {
	err := s.client.RemoveObject(ctx, s.bucket, s.key(name), minio.RemoveObjectOptions{})
	if err != nil && !isNotFound(err) {
		return err
	}
	return nil
}

// List returns the sorted names below prefix, relative to the store prefix.
func (s *Store) List(ctx context.Context, prefix string) ([]string, error) {
	var names []string
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    s.key(prefix),
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, obj.Err
		}
		if name := s.trim(obj.Key); name != "" {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names, nil
}

func (s *Store) trim(key string) string {
	return strings.TrimPrefix(strings.TrimPrefix(key, s.prefix), "/")
}

func (s *Store) putOptions(name string) minio.PutObjectOptions {
	ct, enc := contentType(name)
	return minio.PutObjectOptions{
		ContentType:     ct,
		ContentEncoding: enc,
		PartSize:        s.partSize,
	}
}

// contentType derives the MIME type and content encoding of an export from
// its extensions, e.g. "t.csv.zst" is text/csv encoded with zstd.
func contentType(name string) (string, string) {
	enc := ""
	switch ext := path.Ext(name); ext {
	case ".zst":
		enc = "zstd"
	case ".lz4":
		enc = "lz4"
	}
	if enc != "" {
		name = strings.TrimSuffix(name, path.Ext(name))
	}

	switch path.Ext(name) {
	case ".csv":
		return "text/csv", enc
	case ".jsonl", ".ndjson":
		return "application/x-ndjson", enc
	default:
		return "application/octet-stream", enc
	}
}

func isNotFound(err error) bool {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NotFound":
		return true
	}
	return false
}
