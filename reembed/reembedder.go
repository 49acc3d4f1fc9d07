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

package reembed

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/poiesic/ragstore/ai"
	"github.com/poiesic/ragstore/storage"
)

// Config holds configuration for the reembedding operation.
type Config struct {
	// ReportInterval is how often to report progress (number of records)
	ReportInterval int

	// MaxRetries is the maximum number of retry attempts for failed embeddings
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Reembedder rewrites the embeddings of every chunk record in a store.
type Reembedder struct {
	repo     storage.ChunkRepository
	embedder ai.Embedder
	config   *Config
	progress io.Writer
}

// NewReembedder creates a new reembedder.
// progress: where to write progress output (typically os.Stderr)
func NewReembedder(repo storage.ChunkRepository, embedder ai.Embedder, config *Config, progress io.Writer) (*Reembedder, error) {
	if repo == nil {
		return nil, ErrChunkRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if config == nil {
		config = DefaultConfig()
	}
	if progress == nil {
		progress = io.Discard
	}

	return &Reembedder{
		repo:     repo,
		embedder: embedder,
		config:   config,
		progress: progress,
	}, nil
}

// Run executes the reembedding operation. Every chunk record is embedded
// again from its stored content and rewritten in place; ids, chunk order
// and metadata are untouched. Progress is reported to the configured
// writer.
func (r *Reembedder) Run(ctx context.Context) error {
	documentIds, err := r.repo.ListDocumentIds(ctx)
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	total := 0
	for _, documentId := range documentIds {
		ids, err := r.repo.ListChunkIds(ctx, documentId)
		if err != nil {
			return fmt.Errorf("failed to count records for %s: %w", documentId, err)
		}
		total += len(ids)
	}

	if total == 0 {
		fmt.Fprintf(r.progress, "No records found in store (0 records)\n")
		return nil
	}

	fmt.Fprintf(r.progress, "Starting reembedding of %d records across %d documents\n",
		total, len(documentIds))

	tracker := NewProgressTracker(r.progress, total, r.config.ReportInterval)
	tracker.Start()

	for _, documentId := range documentIds {
		if err := r.reembedDocument(ctx, documentId, tracker); err != nil {
			return err
		}
	}

	tracker.Finish()

	elapsed := tracker.Elapsed()
	fmt.Fprintf(r.progress, "Reembedding complete. Processed %d records in %v (%.1f records/sec)\n",
		total, elapsed.Round(time.Second), float64(total)/elapsed.Seconds())

	return nil
}

// reembedDocument rewrites every record in one document partition.
func (r *Reembedder) reembedDocument(ctx context.Context, documentId string, tracker *ProgressTracker) error {
	records, err := r.repo.GetChunkRecordsByDocument(ctx, documentId)
	if err != nil {
		return fmt.Errorf("failed to load records for %s: %w", documentId, err)
	}

	for _, record := range records {
		var embedding []float32
		err := RetryWithBackoff(ctx, func() error {
			var embedErr error
			embedding, embedErr = r.embedder.EmbedText(ctx, record.Content)
			return embedErr
		}, r.config.MaxRetries, r.config.RetryDelay)
		if err != nil {
			return fmt.Errorf("failed to embed record %s/%s: %w", documentId, record.Id, err)
		}

		record.Embedding = embedding
		if err := r.repo.UpdateChunkRecord(ctx, record); err != nil {
			return fmt.Errorf("failed to update record %s/%s: %w", documentId, record.Id, err)
		}

		tracker.Increment(1)
	}

	return nil
}
