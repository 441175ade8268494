package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docask-cli/internal/core/domain"
)

func testChunks() []domain.Chunk {
	return []domain.Chunk{
		{ID: "doc:0:0", DocumentID: "doc", Text: "alpha chunk", ChunkIndex: 0},
		{ID: "doc:0:1", DocumentID: "doc", Text: "beta chunk", ChunkIndex: 1},
		{ID: "doc:0:2", DocumentID: "doc", Text: "gamma chunk", ChunkIndex: 2},
	}
}

// Deliberately unnormalized: Build must normalize before storing.
func testEmbeddings() [][]float32 {
	return [][]float32{
		{2, 0, 0},
		{0, 3, 0},
		{0, 0, 5},
	}
}

func TestBuildAndSearch_RoundTrip(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Build(ctx, "doc", testChunks(), testEmbeddings()))

	// Query along the second axis resolves to the second chunk with
	// cosine similarity 1 despite differing magnitudes.
	got, err := store.Search(ctx, "doc", []float32{0, 10, 0}, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "doc:0:1", got[0].ChunkID)
	assert.Equal(t, "beta chunk", got[0].Text)
	assert.InDelta(t, 1.0, got[0].Similarity, 1e-5)
	assert.Equal(t, 1, got[0].Rank)
	assert.Equal(t, 2, got[1].Rank)
	assert.Greater(t, got[0].Similarity, got[1].Similarity+0.5)
}

func TestSearch_MissingIndex(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	got, err := store.Search(context.Background(), "absent", []float32{1, 0, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSearch_KLargerThanIndex(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Build(ctx, "doc", testChunks(), testEmbeddings()))

	got, err := store.Search(ctx, "doc", []float32{1, 1, 1}, 50)
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestBuild_ShapeMismatch(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	// Row count mismatch.
	err = store.Build(ctx, "doc", testChunks(), testEmbeddings()[:2])
	require.ErrorIs(t, err, domain.ErrShapeMismatch)

	// Ragged dimensions.
	err = store.Build(ctx, "doc", testChunks(), [][]float32{{1, 0, 0}, {0, 1}, {0, 0, 1}})
	require.ErrorIs(t, err, domain.ErrShapeMismatch)
}

func TestSearch_QueryDimensionMismatch(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Build(ctx, "doc", testChunks(), testEmbeddings()))

	// A query produced by a different embedding model than the one the
	// index was built with must surface as an error, not a panic or a
	// truncated similarity.
	got, err := store.Search(ctx, "doc", []float32{1, 0, 0, 0, 0}, 2)
	require.ErrorIs(t, err, domain.ErrShapeMismatch)
	assert.Nil(t, got)

	got, err = store.Search(ctx, "doc", []float32{1, 0}, 2)
	require.ErrorIs(t, err, domain.ErrShapeMismatch)
	assert.Nil(t, got)
}

func TestBuild_ReplacesPreviousIndex(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Build(ctx, "doc", testChunks(), testEmbeddings()))

	replacement := []domain.Chunk{{ID: "doc:0:0", DocumentID: "doc", Text: "only chunk", ChunkIndex: 0}}
	require.NoError(t, store.Build(ctx, "doc", replacement, [][]float32{{1, 1}}))

	got, err := store.Search(ctx, "doc", []float32{1, 1}, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "only chunk", got[0].Text)
}

func TestDelete_RemovesArtifacts(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Build(ctx, "doc", testChunks(), testEmbeddings()))
	require.NoError(t, store.Delete(ctx, "doc"))

	_, err = os.Stat(filepath.Join(dir, "docs", "doc"))
	assert.True(t, os.IsNotExist(err))

	got, err := store.Search(ctx, "doc", []float32{1, 0, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, got)

	// Deleting twice is fine.
	require.NoError(t, store.Delete(ctx, "doc"))
}

func TestSearch_PreservesPageNumbers(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	page := 3
	chunks := []domain.Chunk{
		{ID: "doc:3:0", DocumentID: "doc", Text: "paged", PageNum: &page, ChunkIndex: 0},
		{ID: "doc:0:1", DocumentID: "doc", Text: "unpaged", ChunkIndex: 1},
	}
	require.NoError(t, store.Build(ctx, "doc", chunks, [][]float32{{1, 0}, {0, 1}}))

	got, err := store.Search(ctx, "doc", []float32{1, 0}, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)

	require.NotNil(t, got[0].PageNum)
	assert.Equal(t, 3, *got[0].PageNum)
	assert.Nil(t, got[1].PageNum)
}
