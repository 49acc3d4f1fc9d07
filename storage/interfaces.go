package storage

import (
	"context"

	"github.com/poiesic/ragstore/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	// The context passed to fn may contain transaction state.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the repository and releases resources.
	Close() error
}

// ChunkRepository provides partition-keyed operations over persisted
// chunk records. The partition key is the document id: point lookups and
// deletes always require it, and per-document reads are single-partition
// prefix scans. Similarity search necessarily scans across partitions.
type ChunkRepository interface {
	Repository

	// AddChunkRecord persists one chunk record. The record must already
	// carry its id, partition key, and embedding; at most one record is
	// created per call and nothing is written on failure. Returns
	// ErrDuplicateKey if a record with the same id already exists in the
	// partition.
	AddChunkRecord(ctx context.Context, record *core.ChunkRecord) error

	// UpdateChunkRecord rewrites an existing record in place, keeping its
	// id and partition key. Returns ErrNotFound if the record doesn't exist.
	// This is the explicit delete-and-rewrite path; records are otherwise
	// immutable.
	UpdateChunkRecord(ctx context.Context, record *core.ChunkRecord) error

	// GetChunkRecord retrieves a single record by id within its partition.
	// Returns ErrNotFound if the record doesn't exist.
	GetChunkRecord(ctx context.Context, documentId, chunkId string) (*core.ChunkRecord, error)

	// GetChunkRecordsByDocument retrieves all records of one document,
	// ordered by ChunkIndex ascending. Returns an empty slice (not an
	// error) when the document has no records.
	GetChunkRecordsByDocument(ctx context.Context, documentId string) ([]*core.ChunkRecord, error)

	// ListChunkIds returns the ids of all records in a document's
	// partition, ordered by ChunkIndex ascending.
	ListChunkIds(ctx context.Context, documentId string) ([]string, error)

	// ListDocumentIds returns every distinct document id that has at least
	// one record, in lexicographic order.
	ListDocumentIds(ctx context.Context) ([]string, error)

	// DeleteChunkRecord removes one record. Returns whether the record
	// existed and was removed; a missing record is not an error.
	DeleteChunkRecord(ctx context.Context, documentId, chunkId string) (bool, error)

	// FindSimilar performs a nearest-neighbor query under cosine
	// similarity, returning at most limit results ordered by descending
	// similarity. Returns an empty slice when the store is empty and
	// ErrInvalidQuery when the query vector is empty.
	FindSimilar(ctx context.Context, vector []float32, limit int) ([]*core.SearchResult, error)
}
