package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m638-hue/SofttekLLMSDK/blobstore"
	"github.com/m638-hue/SofttekLLMSDK/metadata"
	"github.com/m638-hue/SofttekLLMSDK/resource"
	"github.com/m638-hue/SofttekLLMSDK/vectorstore"
)

func seedStore(t *testing.T) *vectorstore.Store {
	t.Helper()

	ctx := context.Background()

	s, err := vectorstore.New(vectorstore.WithDimension(3))
	require.NoError(t, err)

	require.NoError(t, s.Add(ctx, vectorstore.Default, []vectorstore.Vector{
		{ID: "a", Embeddings: []float32{1, 0, 0}, Metadata: metadata.Metadata{"lang": "en"}},
		{ID: "b", Embeddings: []float32{0, 1, 0}},
	}))
	require.NoError(t, s.Add(ctx, vectorstore.Named("docs"), []vectorstore.Vector{
		{ID: "x", Embeddings: []float32{1, 1}},
	}))

	return s
}

func TestSaveAllLoadAll(t *testing.T) {
	ctx := context.Background()
	blobs := blobstore.NewMemoryStore()
	s := seedStore(t)

	mgr := NewManager(blobs)
	require.NoError(t, mgr.SaveAll(ctx, s.Registry()))

	names, err := blobs.List(ctx, "")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		"MANIFEST",
		"index.idx", "index.rec",
		"docs_index.idx", "docs_index.rec",
	}, names)

	reg, err := mgr.LoadAll(ctx, 3)
	require.NoError(t, err)

	restored := vectorstore.NewWithRegistry(reg)
	assert.Equal(t, 2, restored.Len(vectorstore.Default))
	assert.Equal(t, 1, restored.Len(vectorstore.Named("docs")))

	results, err := restored.Search(ctx, vectorstore.Default,
		vectorstore.QueryVector(vectorstore.Vector{Embeddings: []float32{1, 0, 0}}))
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "a", results[0].ID)
	assert.Equal(t, "en", results[0].Metadata["lang"])
	assert.InDelta(t, 1.0, results[0].Metadata[metadata.ScoreKey], 1e-6)

	// Metadata filtering survives the round trip via rebuild.
	filtered, err := restored.Search(ctx, vectorstore.Default,
		vectorstore.QueryVector(vectorstore.Vector{Embeddings: []float32{1, 0, 0}}),
		vectorstore.WithTopK(2),
		vectorstore.WithFilter(metadata.Eq("lang", "en")),
	)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "a", filtered[0].ID)
}

func TestSaveNamespace(t *testing.T) {
	ctx := context.Background()
	blobs := blobstore.NewMemoryStore()
	s := seedStore(t)

	mgr := NewManager(blobs)
	require.NoError(t, mgr.SaveNamespace(ctx, s.Registry(), vectorstore.Named("docs")))

	names, err := blobs.List(ctx, "")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"docs_index.idx", "docs_index.rec"}, names)

	t.Run("unknown namespace", func(t *testing.T) {
		err := mgr.SaveNamespace(ctx, s.Registry(), vectorstore.Named("ghost"))

		var nsErr *vectorstore.ErrNamespaceNotFound
		assert.ErrorAs(t, err, &nsErr)
	})

	t.Run("invalid namespace name", func(t *testing.T) {
		nsStore, err := vectorstore.New(vectorstore.WithDimension(2))
		require.NoError(t, err)
		require.NoError(t, nsStore.Add(ctx, vectorstore.Named("a/b"), []vectorstore.Vector{
			{ID: "x", Embeddings: []float32{1, 0}},
		}))

		err = mgr.SaveNamespace(ctx, nsStore.Registry(), vectorstore.Named("a/b"))
		assert.ErrorIs(t, err, ErrInvalidNamespaceName)
	})
}

func TestLoad(t *testing.T) {
	ctx := context.Background()

	t.Run("missing namespace blob", func(t *testing.T) {
		mgr := NewManager(blobstore.NewMemoryStore())

		_, err := mgr.Load(ctx, []vectorstore.Namespace{vectorstore.Named("ghost")}, 3)
		require.Error(t, err)
		assert.ErrorIs(t, err, blobstore.ErrNotFound)
		assert.Contains(t, err.Error(), "ghost", "load failures must name the namespace")
	})

	t.Run("default synthesized when absent", func(t *testing.T) {
		blobs := blobstore.NewMemoryStore()
		s := seedStore(t)
		mgr := NewManager(blobs)
		require.NoError(t, mgr.SaveAll(ctx, s.Registry()))

		reg, err := mgr.Load(ctx, []vectorstore.Namespace{vectorstore.Named("docs")}, 7)
		require.NoError(t, err)

		def, ok := reg.Partition(vectorstore.Default)
		require.True(t, ok)
		assert.Equal(t, 0, def.Len())
		assert.Equal(t, 7, def.Dimension())
	})

	t.Run("empty partition round trip", func(t *testing.T) {
		blobs := blobstore.NewMemoryStore()

		empty, err := vectorstore.New(vectorstore.WithDimension(5))
		require.NoError(t, err)

		mgr := NewManager(blobs)
		require.NoError(t, mgr.SaveAll(ctx, empty.Registry()))

		reg, err := mgr.LoadAll(ctx, 5)
		require.NoError(t, err)

		def, ok := reg.Partition(vectorstore.Default)
		require.True(t, ok)
		assert.Equal(t, 0, def.Len())
		assert.Equal(t, 5, def.Dimension())
	})

	t.Run("missing manifest", func(t *testing.T) {
		mgr := NewManager(blobstore.NewMemoryStore())

		_, err := mgr.LoadAll(ctx, 3)
		assert.ErrorIs(t, err, blobstore.ErrNotFound)
	})
}

func TestLoadCorruptData(t *testing.T) {
	ctx := context.Background()

	saved := func(t *testing.T) *blobstore.MemoryStore {
		t.Helper()

		blobs := blobstore.NewMemoryStore()
		s := seedStore(t)
		require.NoError(t, NewManager(blobs).SaveAll(ctx, s.Registry()))

		return blobs
	}

	corrupt := func(t *testing.T, blobs *blobstore.MemoryStore, name string, mutate func([]byte) []byte) {
		t.Helper()

		data, err := blobstore.ReadAll(ctx, blobs, name)
		require.NoError(t, err)
		require.NoError(t, blobs.Put(ctx, name, mutate(data)))
	}

	t.Run("flipped index byte", func(t *testing.T) {
		blobs := saved(t)
		corrupt(t, blobs, "index.idx", func(data []byte) []byte {
			data[len(data)-5] ^= 0xFF
			return data
		})

		_, err := NewManager(blobs).LoadAll(ctx, 3)
		assert.ErrorIs(t, err, ErrCorruptData)
	})

	t.Run("truncated record blob", func(t *testing.T) {
		blobs := saved(t)
		corrupt(t, blobs, "index.rec", func(data []byte) []byte {
			return data[:len(data)/2]
		})

		_, err := NewManager(blobs).LoadAll(ctx, 3)
		assert.ErrorIs(t, err, ErrCorruptData)
	})

	t.Run("row count disagreement", func(t *testing.T) {
		blobs := saved(t)

		// Replace the default record blob with one holding fewer records
		// than the index has rows.
		rec, err := encodeRecords(DefaultOptions.Codec, CompressionNone, []vectorstore.Vector{
			{ID: "only", Embeddings: []float32{1, 0, 0}},
		})
		require.NoError(t, err)
		require.NoError(t, blobs.Put(ctx, "index.rec", rec))

		_, err = NewManager(blobs).LoadAll(ctx, 3)
		assert.ErrorIs(t, err, ErrCorruptData)
	})

	t.Run("garbage manifest", func(t *testing.T) {
		blobs := saved(t)
		require.NoError(t, blobs.Put(ctx, ManifestName, []byte("not json")))

		_, err := NewManager(blobs).LoadAll(ctx, 3)
		assert.ErrorIs(t, err, ErrCorruptData)
	})
}

func TestManagerWithThrottling(t *testing.T) {
	ctx := context.Background()
	blobs := blobstore.NewMemoryStore()
	s := seedStore(t)

	ctrl := resource.NewController(resource.Config{
		MaxConcurrentJobs:  1,
		IOLimitBytesPerSec: 1 << 20,
	})

	mgr := NewManager(blobs,
		WithController(ctrl),
		WithParallelism(2),
		WithCompression(CompressionLZ4),
	)
	require.NoError(t, mgr.SaveAll(ctx, s.Registry()))

	reg, err := mgr.LoadAll(ctx, 3)
	require.NoError(t, err)

	restored := vectorstore.NewWithRegistry(reg)
	assert.Equal(t, 2, restored.Len(vectorstore.Default))
	assert.Equal(t, 1, restored.Len(vectorstore.Named("docs")))
}
