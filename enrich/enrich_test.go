package enrich

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/ragstore/core"
)

func TestContentStats(t *testing.T) {
	chunk := &core.Chunk{
		DocumentId: "doc",
		Content:    "one two three four",
	}

	enricher := NewContentStats()
	require.NoError(t, enricher.Process(context.Background(), chunk))

	assert.Equal(t, "18", chunk.Metadata["charCount"])
	assert.Equal(t, "4", chunk.Metadata["wordCount"])
}

func TestContentStatsPreservesMetadata(t *testing.T) {
	chunk := &core.Chunk{
		DocumentId: "doc",
		Content:    "hello",
		Metadata:   map[string]string{"source": "test.md"},
	}

	require.NoError(t, NewContentStats().Process(context.Background(), chunk))
	assert.Equal(t, "test.md", chunk.Metadata["source"])
}

func TestKeywordTagger(t *testing.T) {
	chunk := &core.Chunk{
		DocumentId: "doc",
		Content:    "badger badger badger storage storage embeddings and the cat",
	}

	enricher := NewKeywordTagger(2)
	require.NoError(t, enricher.Process(context.Background(), chunk))

	keywords := strings.Split(chunk.Metadata["keywords"], ",")
	require.Len(t, keywords, 2)
	assert.Equal(t, "badger", keywords[0])
	assert.Equal(t, "storage", keywords[1])
}

func TestTitleExtractor(t *testing.T) {
	doc := &core.Document{
		Id:      "doc",
		Content: "\n\n## Getting Started\n\nSome body text.",
	}

	require.NoError(t, NewTitleExtractor().Process(context.Background(), doc))
	assert.Equal(t, "Getting Started", doc.Metadata["title"])
}

func TestTitleExtractorFallsBackToFirstLine(t *testing.T) {
	doc := &core.Document{
		Id:      "doc",
		Content: "Plain prose opener.\nMore text follows.",
	}

	require.NoError(t, NewTitleExtractor().Process(context.Background(), doc))
	assert.Equal(t, "Plain prose opener.", doc.Metadata["title"])
}

func TestKeywordTaggerSkipsStopwordsAndShortWords(t *testing.T) {
	chunk := &core.Chunk{
		DocumentId: "doc",
		Content:    "the and for a an it",
	}

	require.NoError(t, NewKeywordTagger(5).Process(context.Background(), chunk))
	_, ok := chunk.Metadata["keywords"]
	assert.False(t, ok)
}
