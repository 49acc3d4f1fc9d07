package badger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/poiesic/ragstore/core"
	"github.com/poiesic/ragstore/storage"
)

func testRecord(documentId, chunkId string, index int) *core.ChunkRecord {
	return &core.ChunkRecord{
		Id:            chunkId,
		DocumentId:    documentId,
		Content:       "content of " + chunkId,
		Embedding:     []float32{0.1, 0.2, 0.3},
		ChunkIndex:    index,
		ContentLength: len("content of " + chunkId),
		CreatedAt:     time.Now().UTC(),
	}
}

func TestChunkRecordBasics(t *testing.T) {
	repo, backend, err := NewMemoryChunkRepository()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	defer func() {
		repo.Close()
		backend.Close()
	}()

	ctx := context.Background()

	record := testRecord("doc-a", "chunk-1", 0)
	if err := repo.AddChunkRecord(ctx, record); err != nil {
		t.Fatalf("Failed to add chunk record: %v", err)
	}

	retrieved, err := repo.GetChunkRecord(ctx, "doc-a", "chunk-1")
	if err != nil {
		t.Fatalf("Failed to get chunk record: %v", err)
	}
	if retrieved.Content != record.Content {
		t.Fatalf("Expected %q, got %q", record.Content, retrieved.Content)
	}
	if len(retrieved.Embedding) != 3 {
		t.Fatalf("Expected embedding of length 3, got %d", len(retrieved.Embedding))
	}
}

func TestAddChunkRecordDuplicate(t *testing.T) {
	repo, backend, err := NewMemoryChunkRepository()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	defer func() { repo.Close(); backend.Close() }()

	ctx := context.Background()

	if err := repo.AddChunkRecord(ctx, testRecord("doc-a", "chunk-1", 0)); err != nil {
		t.Fatalf("Failed to add record: %v", err)
	}

	err = repo.AddChunkRecord(ctx, testRecord("doc-a", "chunk-1", 1))
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Fatalf("Expected ErrDuplicateKey, got %v", err)
	}

	// Same chunk id in another partition is a distinct key
	if err := repo.AddChunkRecord(ctx, testRecord("doc-b", "chunk-1", 0)); err != nil {
		t.Fatalf("Failed to add record in other partition: %v", err)
	}
}

func TestOperationsAfterBackendClose(t *testing.T) {
	repo, backend, err := NewMemoryChunkRepository()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	repo.Close()
	backend.Close()

	ctx := context.Background()

	if err := repo.AddChunkRecord(ctx, testRecord("doc-a", "chunk-1", 0)); !errors.Is(err, storage.ErrStorageClosed) {
		t.Fatalf("Expected ErrStorageClosed from add, got %v", err)
	}
	if _, err := repo.GetChunkRecord(ctx, "doc-a", "chunk-1"); !errors.Is(err, storage.ErrStorageClosed) {
		t.Fatalf("Expected ErrStorageClosed from get, got %v", err)
	}
	if _, err := repo.ListDocumentIds(ctx); !errors.Is(err, storage.ErrStorageClosed) {
		t.Fatalf("Expected ErrStorageClosed from list, got %v", err)
	}
}

func TestCommitTxClassifiesFailure(t *testing.T) {
	repo, backend, err := NewMemoryChunkRepository()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	defer func() { repo.Close(); backend.Close() }()

	tx := backend.db.NewTransaction(true)
	tx.Discard()

	if err := commitTx(tx); !errors.Is(err, storage.ErrTransactionFailed) {
		t.Fatalf("Expected ErrTransactionFailed, got %v", err)
	}
}

func TestGetChunkRecordMissing(t *testing.T) {
	repo, backend, err := NewMemoryChunkRepository()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	defer func() { repo.Close(); backend.Close() }()

	_, err = repo.GetChunkRecord(context.Background(), "doc-a", "absent")
	if err == nil {
		t.Fatal("Expected error for missing record")
	}
}

func TestGetChunkRecordsByDocumentOrdering(t *testing.T) {
	repo, backend, err := NewMemoryChunkRepository()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	defer func() { repo.Close(); backend.Close() }()

	ctx := context.Background()

	// Insert out of index order; reads must come back ordered
	for _, rec := range []*core.ChunkRecord{
		testRecord("doc-a", "chunk-2", 2),
		testRecord("doc-a", "chunk-0", 0),
		testRecord("doc-a", "chunk-1", 1),
		testRecord("doc-b", "other-0", 0),
	} {
		if err := repo.AddChunkRecord(ctx, rec); err != nil {
			t.Fatalf("Failed to add record: %v", err)
		}
	}

	records, err := repo.GetChunkRecordsByDocument(ctx, "doc-a")
	if err != nil {
		t.Fatalf("Failed to get records: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(records))
	}
	for i, rec := range records {
		if rec.ChunkIndex != i {
			t.Fatalf("Expected index %d at position %d, got %d", i, i, rec.ChunkIndex)
		}
		if rec.DocumentId != "doc-a" {
			t.Fatalf("Record from wrong partition: %s", rec.DocumentId)
		}
	}
}

func TestGetChunkRecordsByDocumentEmpty(t *testing.T) {
	repo, backend, err := NewMemoryChunkRepository()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	defer func() { repo.Close(); backend.Close() }()

	records, err := repo.GetChunkRecordsByDocument(context.Background(), "no-such-doc")
	if err != nil {
		t.Fatalf("Expected empty result, got error: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("Expected 0 records, got %d", len(records))
	}
}

func TestDeleteChunkRecordIdempotent(t *testing.T) {
	repo, backend, err := NewMemoryChunkRepository()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	defer func() { repo.Close(); backend.Close() }()

	ctx := context.Background()

	if err := repo.AddChunkRecord(ctx, testRecord("doc-a", "chunk-1", 0)); err != nil {
		t.Fatalf("Failed to add record: %v", err)
	}

	deleted, err := repo.DeleteChunkRecord(ctx, "doc-a", "chunk-1")
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if !deleted {
		t.Fatal("Expected first delete to report true")
	}

	deleted, err = repo.DeleteChunkRecord(ctx, "doc-a", "chunk-1")
	if err != nil {
		t.Fatalf("Second delete failed: %v", err)
	}
	if deleted {
		t.Fatal("Expected second delete to report false")
	}

	ids, err := repo.ListChunkIds(ctx, "doc-a")
	if err != nil {
		t.Fatalf("ListChunkIds failed: %v", err)
	}
	if len(ids) != 0 {
		t.Fatalf("Expected no ids after delete, got %v", ids)
	}
}

func TestUpdateChunkRecord(t *testing.T) {
	repo, backend, err := NewMemoryChunkRepository()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	defer func() { repo.Close(); backend.Close() }()

	ctx := context.Background()

	record := testRecord("doc-a", "chunk-1", 0)
	if err := repo.AddChunkRecord(ctx, record); err != nil {
		t.Fatalf("Failed to add record: %v", err)
	}

	record.Embedding = []float32{0.9, 0.8, 0.7}
	if err := repo.UpdateChunkRecord(ctx, record); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	retrieved, err := repo.GetChunkRecord(ctx, "doc-a", "chunk-1")
	if err != nil {
		t.Fatalf("Failed to get record: %v", err)
	}
	if retrieved.Embedding[0] != 0.9 {
		t.Fatalf("Expected updated embedding, got %v", retrieved.Embedding)
	}

	// Updating a missing record must fail
	missing := testRecord("doc-a", "nope", 0)
	if err := repo.UpdateChunkRecord(ctx, missing); err == nil {
		t.Fatal("Expected error updating missing record")
	}
}

func TestListDocumentIds(t *testing.T) {
	repo, backend, err := NewMemoryChunkRepository()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	defer func() { repo.Close(); backend.Close() }()

	ctx := context.Background()

	for _, rec := range []*core.ChunkRecord{
		testRecord("doc-b", "chunk-1", 0),
		testRecord("doc-a", "chunk-2", 0),
		testRecord("doc-a", "chunk-3", 1),
	} {
		if err := repo.AddChunkRecord(ctx, rec); err != nil {
			t.Fatalf("Failed to add record: %v", err)
		}
	}

	ids, err := repo.ListDocumentIds(ctx)
	if err != nil {
		t.Fatalf("ListDocumentIds failed: %v", err)
	}
	if len(ids) != 2 || ids[0] != "doc-a" || ids[1] != "doc-b" {
		t.Fatalf("Expected [doc-a doc-b], got %v", ids)
	}
}

func TestListDocumentIdsEmpty(t *testing.T) {
	repo, backend, err := NewMemoryChunkRepository()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	defer func() { repo.Close(); backend.Close() }()

	ids, err := repo.ListDocumentIds(context.Background())
	if err != nil {
		t.Fatalf("ListDocumentIds failed: %v", err)
	}
	if len(ids) != 0 {
		t.Fatalf("Expected no ids, got %v", ids)
	}
}
