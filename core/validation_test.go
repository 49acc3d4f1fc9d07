package core

import (
	"errors"
	"testing"
	"time"
)

func validChunk() *Chunk {
	return &Chunk{
		DocumentId: "doc-1",
		Index:      0,
		Content:    "some chunk content",
		TokenCount: 4,
	}
}

func TestValidateChunk(t *testing.T) {
	if err := ValidateChunk(validChunk()); err != nil {
		t.Fatalf("Expected valid chunk, got error: %v", err)
	}

	if err := ValidateChunk(nil); !errors.Is(err, ErrInvalidChunk) {
		t.Fatalf("Expected ErrInvalidChunk for nil chunk, got %v", err)
	}

	chunk := validChunk()
	chunk.DocumentId = ""
	if err := ValidateChunk(chunk); !errors.Is(err, ErrInvalidChunk) {
		t.Fatalf("Expected ErrInvalidChunk for missing document id, got %v", err)
	}

	chunk = validChunk()
	chunk.Index = -1
	if err := ValidateChunk(chunk); !errors.Is(err, ErrInvalidChunk) {
		t.Fatalf("Expected ErrInvalidChunk for negative index, got %v", err)
	}

	chunk = validChunk()
	chunk.DocumentId = "doc:1"
	if err := ValidateChunk(chunk); !errors.Is(err, ErrInvalidChunk) {
		t.Fatalf("Expected ErrInvalidChunk for ':' in document id, got %v", err)
	}

	chunk = validChunk()
	chunk.Content = "   \n\t"
	err := ValidateChunk(chunk)
	if !errors.Is(err, ErrInvalidChunk) || !errors.Is(err, ErrEmptyContent) {
		t.Fatalf("Expected empty content error, got %v", err)
	}
}

func TestValidateChunkRecord(t *testing.T) {
	record := &ChunkRecord{
		Id:            "rec-1",
		DocumentId:    "doc-1",
		Content:       "persisted content",
		Embedding:     []float32{0.1, 0.2, 0.3},
		ChunkIndex:    0,
		ContentLength: 17,
		CreatedAt:     time.Now().UTC(),
	}

	if err := ValidateChunkRecord(record, 3); err != nil {
		t.Fatalf("Expected valid record, got error: %v", err)
	}

	if err := ValidateChunkRecord(record, 1536); !errors.Is(err, ErrInvalidChunkRecord) {
		t.Fatalf("Expected dimension mismatch error, got %v", err)
	}

	record.Id = ""
	if err := ValidateChunkRecord(record, 3); !errors.Is(err, ErrInvalidChunkRecord) {
		t.Fatalf("Expected ErrInvalidChunkRecord for missing id, got %v", err)
	}

	record.Id = "rec-1"
	record.DocumentId = "doc:1"
	if err := ValidateChunkRecord(record, 3); !errors.Is(err, ErrInvalidChunkRecord) {
		t.Fatalf("Expected ErrInvalidChunkRecord for ':' in document id, got %v", err)
	}
}

func TestOutcomeSucceeded(t *testing.T) {
	ok := Outcome{DocumentId: "doc-1"}
	if !ok.Succeeded() {
		t.Fatal("Expected outcome without error to succeed")
	}

	failed := Outcome{DocumentId: "doc-2", Stage: StageRead, Err: ErrRead}
	if failed.Succeeded() {
		t.Fatal("Expected outcome with error to fail")
	}
}
