package core

import "time"

// ChunkingStrategy selects the algorithm used to split documents into chunks.
type ChunkingStrategy string

const (
	// StrategyHeaderBased splits at markdown heading boundaries.
	StrategyHeaderBased ChunkingStrategy = "header"
	// StrategySectionBased splits at blank-line section boundaries.
	StrategySectionBased ChunkingStrategy = "section"
	// StrategySemanticAware packs sentences up to the token budget.
	StrategySemanticAware ChunkingStrategy = "semantic"
)

// Document is the normalized, format-agnostic form of one input file.
// It is created by a reader, consumed once by the chunker, and never persisted.
type Document struct {
	Id       string // derived from the source filename, without extension
	Source   string // original file path
	Content  string
	Metadata map[string]string // structural metadata from the reader, plus enricher additions
}

// Chunk is a bounded-size span of a document's text, the unit of
// embedding and retrieval. Chunks are produced by a chunker and consumed
// exactly once by the vector store writer.
type Chunk struct {
	DocumentId string
	Index      int // 0-based, stable ordering within the document
	Content    string
	TokenCount int
	Metadata   map[string]string
}

// ChunkRecord is the persisted form of a chunk. Records are immutable
// once written except via explicit delete-and-rewrite.
type ChunkRecord struct {
	Id            string // globally unique, generated at write time
	DocumentId    string // partition key
	Content       string
	Embedding     []float32 // length always equals the configured embedding dimension
	Metadata      map[string]string
	ChunkIndex    int
	ContentLength int
	CreatedAt     time.Time
}

// SearchResult is one hit from a similarity query. Higher Similarity means
// more similar; results are ephemeral and never persisted.
type SearchResult struct {
	ChunkId    string
	DocumentId string
	Content    string
	Similarity float32
	Metadata   map[string]string
}

// Stage identifies the pipeline stage at which a document failed.
type Stage string

const (
	StageRead   Stage = "read"
	StageEnrich Stage = "enrich"
	StageChunk  Stage = "chunk"
	StageWrite  Stage = "write"
)

// Outcome is the per-document result of an ingestion run. A failed
// document carries the stage it failed at and the cause, so callers can
// inspect failures instead of a bare boolean.
type Outcome struct {
	DocumentId string
	Stage      Stage // empty unless the document failed
	Err        error // nil on success
}

// Succeeded reports whether the document completed every stage.
func (o Outcome) Succeeded() bool {
	return o.Err == nil
}
