package ingestion

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/ragstore/ai/mock"
	"github.com/poiesic/ragstore/chunking"
	"github.com/poiesic/ragstore/core"
	"github.com/poiesic/ragstore/enrich"
	"github.com/poiesic/ragstore/reader"
	"github.com/poiesic/ragstore/storage/badger"
	"github.com/poiesic/ragstore/vectorstore"
)

// whitespaceTokenizer avoids network-backed vocabularies in tests.
type whitespaceTokenizer struct{}

func (whitespaceTokenizer) Count(text string) int { return len(strings.Fields(text)) }

func (whitespaceTokenizer) Encode(text string) []int {
	return make([]int, len(strings.Fields(text)))
}

func (whitespaceTokenizer) Decode(tokens []int) string {
	return strings.TrimSpace(strings.Repeat("w ", len(tokens)))
}

type testEnv struct {
	pipeline *Pipeline
	writer   *vectorstore.Writer
	embedder *mock.Embedder
	dir      string
}

func newTestEnv(t *testing.T, opts ...Option) *testEnv {
	t.Helper()

	repo, backend, err := badger.NewMemoryChunkRepository()
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	embedder := mock.NewEmbedderWithDimension(8)
	writer, err := vectorstore.NewWriter(repo, embedder, 8)
	require.NoError(t, err)

	chunker, err := chunking.New(core.StrategySemanticAware, whitespaceTokenizer{}, 50, 0)
	require.NoError(t, err)

	pipeline, err := NewPipeline(reader.NewDefaultRegistry(), chunker, writer, opts...)
	require.NoError(t, err)

	return &testEnv{pipeline: pipeline, writer: writer, embedder: embedder, dir: t.TempDir()}
}

func (e *testEnv) writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(e.dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNewPipelineValidation(t *testing.T) {
	env := newTestEnv(t)

	chunker, err := chunking.New(core.StrategySemanticAware, whitespaceTokenizer{}, 50, 0)
	require.NoError(t, err)

	_, err = NewPipeline(nil, chunker, env.writer)
	assert.ErrorIs(t, err, ErrReaderRegistryRequired)

	_, err = NewPipeline(reader.NewDefaultRegistry(), nil, env.writer)
	assert.ErrorIs(t, err, ErrChunkerRequired)

	_, err = NewPipeline(reader.NewDefaultRegistry(), chunker, nil)
	assert.ErrorIs(t, err, ErrWriterRequired)
}

func TestProcessDocument(t *testing.T) {
	env := newTestEnv(t)
	path := env.writeFile(t, "notes.md", "Badger stores keys sorted. Iterators walk prefixes.")

	outcome, err := env.pipeline.ProcessDocument(context.Background(), path)
	require.NoError(t, err)
	assert.True(t, outcome.Succeeded())
	assert.Equal(t, "notes", outcome.DocumentId)

	records, err := env.writer.GetByDocument(context.Background(), "notes")
	require.NoError(t, err)
	require.NotEmpty(t, records)
	assert.Equal(t, 0, records[0].ChunkIndex)
}

func TestProcessDocumentMissingFile(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.pipeline.ProcessDocument(context.Background(), filepath.Join(env.dir, "absent.md"))
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestProcessDirectoryIsolatesFailures(t *testing.T) {
	env := newTestEnv(t)
	env.writeFile(t, "a.md", "first document content here")
	env.writeFile(t, "b.bin", "unreadable payload") // no reader for .bin
	env.writeFile(t, "c.md", "third document content here")

	seq, err := env.pipeline.ProcessDirectory(context.Background(), env.dir, "*.*")
	require.NoError(t, err)

	outcomes := make([]core.Outcome, 0, 3)
	for outcome := range seq {
		outcomes = append(outcomes, outcome)
	}
	require.Len(t, outcomes, 3)

	failed := 0
	for _, outcome := range outcomes {
		if !outcome.Succeeded() {
			failed++
			assert.Equal(t, core.StageRead, outcome.Stage)
			assert.ErrorIs(t, outcome.Err, core.ErrRead)
			assert.Equal(t, "b", outcome.DocumentId)
		}
	}
	assert.Equal(t, 1, failed)
}

func TestProcessDirectoryLazy(t *testing.T) {
	env := newTestEnv(t)
	env.writeFile(t, "a.md", "alpha content")
	env.writeFile(t, "b.md", "beta content")
	env.writeFile(t, "c.md", "gamma content")

	seq, err := env.pipeline.ProcessDirectory(context.Background(), env.dir, "*.md")
	require.NoError(t, err)

	// Pull only the first outcome; only one document's chunks are written.
	for range seq {
		break
	}
	assert.Equal(t, 1, env.embedder.CallCount())
}

func TestProcessDirectoryMissingDir(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.pipeline.ProcessDirectory(context.Background(), filepath.Join(env.dir, "absent"), "*.md")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestProcessDirectoryBadPattern(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.pipeline.ProcessDirectory(context.Background(), env.dir, "[")
	assert.ErrorIs(t, err, core.ErrConfiguration)
}

func TestProcessDirectoryEmpty(t *testing.T) {
	env := newTestEnv(t)

	seq, err := env.pipeline.ProcessDirectory(context.Background(), env.dir, "*.md")
	require.NoError(t, err)

	count := 0
	for range seq {
		count++
	}
	assert.Zero(t, count)
}

func TestProcessDirectoryCancellation(t *testing.T) {
	env := newTestEnv(t)
	env.writeFile(t, "a.md", "alpha content")
	env.writeFile(t, "b.md", "beta content")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	seq, err := env.pipeline.ProcessDirectory(ctx, env.dir, "*.md")
	require.NoError(t, err)

	outcomes := make([]core.Outcome, 0, 2)
	for outcome := range seq {
		outcomes = append(outcomes, outcome)
	}

	// The in-flight document reports the cancellation; nothing follows.
	require.Len(t, outcomes, 1)
	assert.ErrorIs(t, outcomes[0].Err, context.Canceled)
}

func TestProcessDirectoryParallel(t *testing.T) {
	env := newTestEnv(t)
	env.writeFile(t, "a.md", "alpha content here")
	env.writeFile(t, "b.md", "beta content here")
	env.writeFile(t, "c.md", "gamma content here")

	outcomes, err := env.pipeline.ProcessDirectoryParallel(context.Background(), env.dir, "*.md", 2)
	require.NoError(t, err)
	require.Len(t, outcomes, 3)

	// Discovery order is preserved.
	assert.Equal(t, "a", outcomes[0].DocumentId)
	assert.Equal(t, "b", outcomes[1].DocumentId)
	assert.Equal(t, "c", outcomes[2].DocumentId)
	for _, outcome := range outcomes {
		assert.True(t, outcome.Succeeded())
	}
}

type failingDocEnricher struct{}

func (failingDocEnricher) Name() string { return "failing" }

func (failingDocEnricher) Process(ctx context.Context, doc *core.Document) error {
	return errors.New("enrichment backend down")
}

type taggingChunkEnricher struct{}

func (taggingChunkEnricher) Name() string { return "tagging" }

func (taggingChunkEnricher) Process(ctx context.Context, chunk *core.Chunk) error {
	if chunk.Metadata == nil {
		chunk.Metadata = map[string]string{}
	}
	chunk.Metadata["tagged"] = "yes"
	return nil
}

func TestEnricherFailureIsNonFatal(t *testing.T) {
	env := newTestEnv(t,
		WithDocumentEnrichers(failingDocEnricher{}),
		WithChunkEnrichers(taggingChunkEnricher{}, enrich.NewContentStats()),
	)
	path := env.writeFile(t, "doc.md", "some document content")

	outcome, err := env.pipeline.ProcessDocument(context.Background(), path)
	require.NoError(t, err)
	assert.True(t, outcome.Succeeded())

	records, err := env.writer.GetByDocument(context.Background(), "doc")
	require.NoError(t, err)
	require.NotEmpty(t, records)
	assert.Equal(t, "yes", records[0].Metadata["tagged"])
	assert.NotEmpty(t, records[0].Metadata["wordCount"])
}
