package blobstore

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stores(t *testing.T) map[string]BlobStore {
	return map[string]BlobStore{
		"memory": NewMemoryStore(),
		"local":  NewLocalStore(t.TempDir()),
	}
}

func TestBlobStore_Lifecycle(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			data := []byte("hello world, this is an export")

			w, err := store.Create(ctx, "exports/t.csv")
			require.NoError(t, err)
			n, err := w.Write(data)
			require.NoError(t, err)
			require.Equal(t, len(data), n)
			require.NoError(t, w.Sync())
			require.NoError(t, w.Close())

			blob, err := store.Open(ctx, "exports/t.csv")
			require.NoError(t, err)
			defer blob.Close()
			require.Equal(t, int64(len(data)), blob.Size())

			buf := make([]byte, 5)
			n, err = blob.ReadAt(ctx, buf, 6)
			require.NoError(t, err)
			assert.Equal(t, 5, n)
			assert.Equal(t, "world", string(buf))

			rc, err := blob.ReadRange(ctx, 13, 4)
			require.NoError(t, err)
			got, err := io.ReadAll(rc)
			require.NoError(t, err)
			require.NoError(t, rc.Close())
			assert.Equal(t, "this", string(got))

			require.NoError(t, store.Put(ctx, "exports/u.csv", []byte("x")))
			require.NoError(t, store.Put(ctx, "other.csv", []byte("y")))

			names, err := store.List(ctx, "exports/")
			require.NoError(t, err)
			assert.Equal(t, []string{"exports/t.csv", "exports/u.csv"}, names)

			require.NoError(t, store.Delete(ctx, "exports/t.csv"))
			require.NoError(t, store.Delete(ctx, "exports/t.csv"))
			_, err = store.Open(ctx, "exports/t.csv")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestBlobStore_AbortDiscards(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			w, err := store.Create(ctx, "partial.bin")
			require.NoError(t, err)
			_, err = w.Write([]byte("half"))
			require.NoError(t, err)
			require.NoError(t, Abort(w))

			_, err = store.Open(ctx, "partial.bin")
			assert.ErrorIs(t, err, ErrNotFound)

			names, err := store.List(ctx, "")
			require.NoError(t, err)
			assert.Empty(t, names)
		})
	}
}

func TestLocalStore_NotVisibleUntilClose(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalStore(dir)
	ctx := context.Background()

	w, err := store.Create(ctx, "a.bin")
	require.NoError(t, err)
	_, err = w.Write([]byte("data"))
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "a.bin"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	require.NoError(t, w.Close())
	_, err = os.Stat(filepath.Join(dir, "a.bin"))
	assert.NoError(t, err)

	_, err = w.Write([]byte("more"))
	assert.Error(t, err)
}

func TestLocalStore_ListMissingRoot(t *testing.T) {
	store := NewLocalStore(filepath.Join(t.TempDir(), "missing"))
	names, err := store.List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestMemoryStore_CopiesData(t *testing.T) {
	store := NewMemoryStore()
	data := []byte("abc")
	require.NoError(t, store.Put(context.Background(), "k", data))
	data[0] = 'z'

	got, err := store.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}
