package enrich

import (
	"context"

	"github.com/poiesic/ragstore/core"
)

// DocumentEnricher mutates a document in place before chunking, adding
// or rewriting content and metadata (generated alt text for images, for
// example). Failures are non-fatal: the pipeline logs and skips.
type DocumentEnricher interface {
	// Name identifies the enricher in logs.
	Name() string

	// Process enriches the document in place.
	Process(ctx context.Context, doc *core.Document) error
}

// ChunkEnricher mutates a chunk in place before it is written, typically
// adding metadata such as summaries, sentiment, or keyword tags.
// Failures are non-fatal: the pipeline logs and skips.
type ChunkEnricher interface {
	// Name identifies the enricher in logs.
	Name() string

	// Process enriches the chunk in place.
	Process(ctx context.Context, chunk *core.Chunk) error
}
