package vectorstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"time"

	"github.com/google/uuid"

	"github.com/poiesic/ragstore/ai"
	"github.com/poiesic/ragstore/core"
	"github.com/poiesic/ragstore/storage"
)

// Writer embeds chunks and persists them as chunk records.
type Writer struct {
	repository storage.ChunkRepository
	embedder   ai.Embedder
	dimension  int
	logger     *slog.Logger
}

// Option configures a Writer.
type Option func(*Writer) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(w *Writer) error {
		if logger == nil {
			logger = slog.Default()
		}
		w.logger = logger
		return nil
	}
}

// NewWriter creates a new writer. dimension is the expected embedding
// width; every vector produced or queried is checked against it.
func NewWriter(
	repository storage.ChunkRepository,
	embedder ai.Embedder,
	dimension int,
	opts ...Option,
) (*Writer, error) {
	if repository == nil {
		return nil, ErrChunkRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if dimension < 1 {
		return nil, ErrInvalidDimension
	}

	w := &Writer{
		repository: repository,
		embedder:   embedder,
		dimension:  dimension,
		logger:     slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(w); err != nil {
			return nil, err
		}
	}

	return w, nil
}

// Write embeds one chunk and persists the resulting record. The record id
// is assigned here and is unique across all writes; two writes of the same
// content produce two records.
func (w *Writer) Write(ctx context.Context, chunk *core.Chunk) (*core.ChunkRecord, error) {
	if err := core.ValidateChunk(chunk); err != nil {
		return nil, err
	}

	embedding, err := w.embedder.EmbedText(ctx, chunk.Content)
	if err != nil {
		w.logger.Error("error generating embedding for chunk", "documentId", chunk.DocumentId, "chunkIndex", chunk.Index, "err", err)
		return nil, fmt.Errorf("%w: %w", core.ErrEmbedding, err)
	}
	if len(embedding) != w.dimension {
		return nil, fmt.Errorf("%w: embedder returned %d dimensions, expected %d",
			core.ErrEmbedding, len(embedding), w.dimension)
	}

	record := &core.ChunkRecord{
		Id:            uuid.NewString(),
		DocumentId:    chunk.DocumentId,
		Content:       chunk.Content,
		Embedding:     embedding,
		// Cloned so later mutation of the chunk cannot reach the record
		Metadata:      maps.Clone(chunk.Metadata),
		ChunkIndex:    chunk.Index,
		ContentLength: len(chunk.Content),
		CreatedAt:     time.Now().UTC(),
	}

	if err := w.repository.AddChunkRecord(ctx, record); err != nil {
		w.logger.Error("error persisting chunk record", "documentId", record.DocumentId, "chunkId", record.Id, "err", err)
		return nil, fmt.Errorf("%w: %w", core.ErrStore, err)
	}

	w.logger.Debug("chunk record written", "documentId", record.DocumentId, "chunkId", record.Id, "chunkIndex", record.ChunkIndex)
	return record, nil
}

// WriteAll writes chunks in order, stopping at the first failure. Returns
// the records written so far along with the error.
func (w *Writer) WriteAll(ctx context.Context, chunks []*core.Chunk) ([]*core.ChunkRecord, error) {
	records := make([]*core.ChunkRecord, 0, len(chunks))
	for _, chunk := range chunks {
		record, err := w.Write(ctx, chunk)
		if err != nil {
			return records, err
		}
		records = append(records, record)
	}
	return records, nil
}

// SearchSimilar finds the topK records nearest to vector under cosine
// similarity, ordered by descending similarity. A non-positive topK
// returns an empty result.
func (w *Writer) SearchSimilar(ctx context.Context, vector []float32, topK int) ([]*core.SearchResult, error) {
	if len(vector) != w.dimension {
		return nil, fmt.Errorf("%w: query vector has %d dimensions, expected %d",
			core.ErrConfiguration, len(vector), w.dimension)
	}
	if topK < 1 {
		return []*core.SearchResult{}, nil
	}

	results, err := w.repository.FindSimilar(ctx, vector, topK)
	if err != nil {
		w.logger.Error("error querying for similar records", "err", err)
		return nil, fmt.Errorf("%w: %w", core.ErrStore, err)
	}
	return results, nil
}

// SearchText embeds the query text and searches with the resulting vector.
func (w *Writer) SearchText(ctx context.Context, query string, topK int) ([]*core.SearchResult, error) {
	embedding, err := w.embedder.EmbedText(ctx, query)
	if err != nil {
		w.logger.Error("error generating embedding for query", "err", err)
		return nil, fmt.Errorf("%w: %w", core.ErrEmbedding, err)
	}
	return w.SearchSimilar(ctx, embedding, topK)
}

// GetByDocument retrieves all records of one document, ordered by
// ChunkIndex ascending. A document with no records yields an empty slice.
func (w *Writer) GetByDocument(ctx context.Context, documentId string) ([]*core.ChunkRecord, error) {
	records, err := w.repository.GetChunkRecordsByDocument(ctx, documentId)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrStore, err)
	}
	return records, nil
}

// GetById retrieves a single record by document and chunk id. Returns
// (nil, nil) when the record does not exist.
func (w *Writer) GetById(ctx context.Context, documentId, chunkId string) (*core.ChunkRecord, error) {
	record, err := w.repository.GetChunkRecord(ctx, documentId, chunkId)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %w", core.ErrStore, err)
	}
	return record, nil
}

// DeleteById removes one record. Returns whether the record existed; a
// missing record is not an error.
func (w *Writer) DeleteById(ctx context.Context, documentId, chunkId string) (bool, error) {
	existed, err := w.repository.DeleteChunkRecord(ctx, documentId, chunkId)
	if err != nil {
		return false, fmt.Errorf("%w: %w", core.ErrStore, err)
	}
	return existed, nil
}

// DeleteAllForDocument removes every record in a document's partition,
// best effort: individual delete failures are logged and skipped rather
// than aborting the sweep. Returns the number of records actually deleted.
func (w *Writer) DeleteAllForDocument(ctx context.Context, documentId string) (int, error) {
	chunkIds, err := w.repository.ListChunkIds(ctx, documentId)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", core.ErrStore, err)
	}

	deleted := 0
	for _, chunkId := range chunkIds {
		existed, err := w.repository.DeleteChunkRecord(ctx, documentId, chunkId)
		if err != nil {
			w.logger.Warn("failed to delete chunk record", "documentId", documentId, "chunkId", chunkId, "err", err)
			continue
		}
		if existed {
			deleted++
		}
	}

	w.logger.Info("document records deleted", "documentId", documentId, "deleted", deleted, "total", len(chunkIds))
	return deleted, nil
}

// Dimension returns the embedding dimension the writer was configured with.
func (w *Writer) Dimension() int {
	return w.dimension
}
