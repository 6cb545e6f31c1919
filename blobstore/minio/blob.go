package minio

import (
	"context"
	"errors"
	"io"
	"sync/atomic"

	"github.com/minio/minio-go/v7"
)

var (
	errClosed  = errors.New("blob already closed")
	errAborted = errors.New("upload aborted")
)

type blob struct {
	client *minio.Client
	bucket string
	key    string
	size   int64
}

func (b *blob) Size() int64 { return b.size }

func (b *blob) Close() error { return nil }

func (b *blob) ReadAt(ctx context.Context, p []byte, off int64) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	obj, n, err := b.get(ctx, off, int64(len(p)))
	if err != nil {
		return 0, err
	}
	defer obj.Close()

	read, err := io.ReadFull(obj, p[:n])
	if err == nil && read < len(p) {
		err = io.EOF
	}
	return read, err
}

func (b *blob) ReadRange(ctx context.Context, off, length int64) (io.ReadCloser, error) {
	obj, _, err := b.get(ctx, off, length)
	if errors.Is(err, io.EOF) {
		return io.NopCloser(eofReader{}), nil
	}
	if err != nil {
		return nil, err
	}
	return obj, nil
}

// get issues a ranged GET clipped to the object size and returns the
// clipped length.
func (b *blob) get(ctx context.Context, off, length int64) (*minio.Object, int64, error) {
	if off < 0 || off >= b.size {
		return nil, 0, io.EOF
	}
	n := min(length, b.size-off)

	var opts minio.GetObjectOptions
	if err := opts.SetRange(off, off+n-1); err != nil {
		return nil, 0, err
	}
	obj, err := b.client.GetObject(ctx, b.bucket, b.key, opts)
	if err != nil {
		return nil, 0, err
	}
	return obj, n, nil
}

type eofReader struct{}

func (eofReader) Read([]byte) (int, error) { return 0, io.EOF }

type writableBlob struct {
	pw       *io.PipeWriter
	done     chan error
	finished atomic.Bool
}

func (w *writableBlob) Write(p []byte) (int, error) {
	if w.finished.Load() {
		return 0, errClosed
	}
	return w.pw.Write(p)
}

func (w *writableBlob) Sync() error { return nil }

func (w *writableBlob) Close() error {
	if !w.finished.CompareAndSwap(false, true) {
		return errClosed
	}
	if err := w.pw.Close(); err != nil {
		return err
	}
	return <-w.done
}

// Abort cancels the upload; the object is never created.
func (w *writableBlob) Abort() error {
	if !w.finished.CompareAndSwap(false, true) {
		return nil
	}
	_ = w.pw.CloseWithError(errAborted)
	<-w.done
	return nil
}
