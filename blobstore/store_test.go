package blobstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T, store BlobStore) {
	t.Helper()
	ctx := context.Background()

	t.Run("OpenMissing", func(t *testing.T) {
		_, err := store.Open(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("PutOpenRoundTrip", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, "a.blob", []byte("hello")))

		got, err := ReadAll(ctx, store, "a.blob")
		require.NoError(t, err)
		assert.Equal(t, []byte("hello"), got)
	})

	t.Run("CreateStreaming", func(t *testing.T) {
		w, err := store.Create(ctx, "b.blob")
		require.NoError(t, err)
		_, err = w.Write([]byte("part1"))
		require.NoError(t, err)
		_, err = w.Write([]byte("part2"))
		require.NoError(t, err)
		require.NoError(t, w.Close())

		got, err := ReadAll(ctx, store, "b.blob")
		require.NoError(t, err)
		assert.Equal(t, []byte("part1part2"), got)
	})

	t.Run("Overwrite", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, "a.blob", []byte("v2")))
		got, err := ReadAll(ctx, store, "a.blob")
		require.NoError(t, err)
		assert.Equal(t, []byte("v2"), got)
	})

	t.Run("List", func(t *testing.T) {
		names, err := store.List(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, []string{"a.blob", "b.blob"}, names)

		names, err = store.List(ctx, "a.")
		require.NoError(t, err)
		assert.Equal(t, []string{"a.blob"}, names)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, "a.blob"))
		_, err := store.Open(ctx, "a.blob")
		assert.ErrorIs(t, err, ErrNotFound)

		// Deleting a missing blob is not an error.
		assert.NoError(t, store.Delete(ctx, "a.blob"))
	})

	t.Run("EmptyBlob", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, "empty.blob", nil))
		got, err := ReadAll(ctx, store, "empty.blob")
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestMemoryStore(t *testing.T) {
	testStore(t, NewMemoryStore())
}

func TestLocalStore(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	testStore(t, store)
}
