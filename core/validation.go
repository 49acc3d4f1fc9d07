// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import (
	"fmt"
	"strings"
)

// ValidateChunk checks a chunk before it is embedded and persisted.
func ValidateChunk(chunk *Chunk) error {
	if chunk == nil {
		return fmt.Errorf("%w: chunk is nil", ErrInvalidChunk)
	}
	if chunk.DocumentId == "" {
		return fmt.Errorf("%w: document id is required", ErrInvalidChunk)
	}
	// ':' is the key segment separator; an id containing it would bleed
	// into a neighboring partition's prefix
	if strings.ContainsRune(chunk.DocumentId, ':') {
		return fmt.Errorf("%w: document id %q cannot contain ':'", ErrInvalidChunk, chunk.DocumentId)
	}
	if chunk.Index < 0 {
		return fmt.Errorf("%w: index cannot be negative, got %d", ErrInvalidChunk, chunk.Index)
	}
	if strings.TrimSpace(chunk.Content) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyContent)
	}
	return nil
}

// ValidateChunkRecord checks a record against the configured embedding
// dimension. Every persisted record must satisfy this.
func ValidateChunkRecord(record *ChunkRecord, dimension int) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidChunkRecord)
	}
	if record.Id == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidChunkRecord)
	}
	if record.DocumentId == "" {
		return fmt.Errorf("%w: document id is required", ErrInvalidChunkRecord)
	}
	if strings.ContainsRune(record.DocumentId, ':') {
		return fmt.Errorf("%w: document id %q cannot contain ':'", ErrInvalidChunkRecord, record.DocumentId)
	}
	if record.ChunkIndex < 0 {
		return fmt.Errorf("%w: chunk index cannot be negative, got %d", ErrInvalidChunkRecord, record.ChunkIndex)
	}
	if strings.TrimSpace(record.Content) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunkRecord, ErrEmptyContent)
	}
	if len(record.Embedding) != dimension {
		return fmt.Errorf("%w: embedding length %d does not match dimension %d",
			ErrInvalidChunkRecord, len(record.Embedding), dimension)
	}
	return nil
}
