package badger

import (
	"context"
	"testing"
	"time"

	"github.com/poiesic/ragstore/core"
	"github.com/poiesic/ragstore/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addWithEmbedding(t *testing.T, repo interface {
	AddChunkRecord(ctx context.Context, record *core.ChunkRecord) error
}, documentId, chunkId string, index int, embedding []float32) {
	t.Helper()
	err := repo.AddChunkRecord(context.Background(), &core.ChunkRecord{
		Id:            chunkId,
		DocumentId:    documentId,
		Content:       "content " + chunkId,
		Embedding:     embedding,
		ChunkIndex:    index,
		ContentLength: 10,
		CreatedAt:     time.Now().UTC(),
	})
	require.NoError(t, err)
}

func TestFindSimilarRanking(t *testing.T) {
	repo, backend, err := NewMemoryChunkRepository()
	require.NoError(t, err)
	defer func() { repo.Close(); backend.Close() }()

	// Three vectors at increasing angles from the query
	addWithEmbedding(t, repo, "doc-a", "exact", 0, []float32{1, 0, 0})
	addWithEmbedding(t, repo, "doc-a", "close", 1, []float32{0.9, 0.1, 0})
	addWithEmbedding(t, repo, "doc-b", "far", 0, []float32{0, 1, 0})

	results, err := repo.FindSimilar(context.Background(), []float32{1, 0, 0}, 10)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "exact", results[0].ChunkId)
	assert.Equal(t, "close", results[1].ChunkId)
	assert.Equal(t, "far", results[2].ChunkId)

	// Sorted by non-increasing similarity
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Similarity, results[i].Similarity)
	}
	assert.InDelta(t, 1.0, float64(results[0].Similarity), 1e-5)
	assert.InDelta(t, 0.0, float64(results[2].Similarity), 1e-5)
}

func TestFindSimilarLimit(t *testing.T) {
	repo, backend, err := NewMemoryChunkRepository()
	require.NoError(t, err)
	defer func() { repo.Close(); backend.Close() }()

	for i, id := range []string{"a", "b", "c", "d"} {
		addWithEmbedding(t, repo, "doc", id, i, []float32{1, float32(i) * 0.1, 0})
	}

	results, err := repo.FindSimilar(context.Background(), []float32{1, 0, 0}, 2)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestFindSimilarEmptyVector(t *testing.T) {
	repo, backend, err := NewMemoryChunkRepository()
	require.NoError(t, err)
	defer func() { repo.Close(); backend.Close() }()

	addWithEmbedding(t, repo, "doc-a", "chunk-1", 0, []float32{1, 0, 0})

	_, err = repo.FindSimilar(context.Background(), nil, 5)
	assert.ErrorIs(t, err, storage.ErrInvalidQuery)
}

func TestFindSimilarEmptyStore(t *testing.T) {
	repo, backend, err := NewMemoryChunkRepository()
	require.NoError(t, err)
	defer func() { repo.Close(); backend.Close() }()

	results, err := repo.FindSimilar(context.Background(), []float32{1, 0, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}
