package ingestion

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/ragstore/chunking"
	"github.com/poiesic/ragstore/core"
	"github.com/poiesic/ragstore/enrich"
	"github.com/poiesic/ragstore/reader"
	"github.com/poiesic/ragstore/vectorstore"
)

// Pipeline orchestrates document ingestion: read, enrich, chunk, enrich
// chunks, embed and persist. Documents are isolated from each other; a
// failing document produces a failed Outcome and the run continues.
type Pipeline struct {
	readers        *reader.Registry
	chunker        chunking.Chunker
	writer         *vectorstore.Writer
	docEnrichers   []enrich.DocumentEnricher
	chunkEnrichers []enrich.ChunkEnricher
	logger         *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithDocumentEnrichers sets the document enrichers, run in order after
// reading and before chunking.
func WithDocumentEnrichers(enrichers ...enrich.DocumentEnricher) Option {
	return func(p *Pipeline) error {
		p.docEnrichers = enrichers
		return nil
	}
}

// WithChunkEnrichers sets the chunk enrichers, run in order on every
// chunk before it is written.
func WithChunkEnrichers(enrichers ...enrich.ChunkEnricher) Option {
	return func(p *Pipeline) error {
		p.chunkEnrichers = enrichers
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	readers *reader.Registry,
	chunker chunking.Chunker,
	writer *vectorstore.Writer,
	opts ...Option,
) (*Pipeline, error) {
	if readers == nil {
		return nil, ErrReaderRegistryRequired
	}
	if chunker == nil {
		return nil, ErrChunkerRequired
	}
	if writer == nil {
		return nil, ErrWriterRequired
	}

	p := &Pipeline{
		readers: readers,
		chunker: chunker,
		writer:  writer,
		logger:  slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// ProcessDocument runs the full pipeline for one file. Stage failures are
// reported through the Outcome; the returned error is reserved for
// precondition failures such as a missing file.
func (p *Pipeline) ProcessDocument(ctx context.Context, path string) (core.Outcome, error) {
	if _, err := os.Stat(path); err != nil {
		return core.Outcome{}, fmt.Errorf("%w: %s", core.ErrNotFound, path)
	}
	return p.process(ctx, path), nil
}

// process runs the stages for one existing file and always yields an
// Outcome, never a bare error.
func (p *Pipeline) process(ctx context.Context, path string) core.Outcome {
	documentId := reader.DocumentId(path)

	fail := func(stage core.Stage, err error) core.Outcome {
		p.logger.Error("document processing failed", "documentId", documentId, "stage", string(stage), "err", err)
		return core.Outcome{DocumentId: documentId, Stage: stage, Err: err}
	}

	// Read
	if err := ctx.Err(); err != nil {
		return fail(core.StageRead, err)
	}
	doc, err := p.readers.ReadFile(ctx, path)
	if err != nil {
		return fail(core.StageRead, err)
	}

	// Enrich document. Enricher failures are advisory.
	for _, enricher := range p.docEnrichers {
		if err := ctx.Err(); err != nil {
			return fail(core.StageEnrich, err)
		}
		if err := enricher.Process(ctx, doc); err != nil {
			p.logger.Warn("document enricher failed", "documentId", documentId, "enricher", enricher.Name(), "err", err)
		}
	}

	// Chunk
	if err := ctx.Err(); err != nil {
		return fail(core.StageChunk, err)
	}
	chunks, err := p.chunker.Chunk(doc)
	if err != nil {
		return fail(core.StageChunk, err)
	}

	// Enrich chunks
	for _, chunk := range chunks {
		for _, enricher := range p.chunkEnrichers {
			if err := enricher.Process(ctx, chunk); err != nil {
				p.logger.Warn("chunk enricher failed", "documentId", documentId, "chunkIndex", chunk.Index, "enricher", enricher.Name(), "err", err)
			}
		}
	}

	// Write
	if err := ctx.Err(); err != nil {
		return fail(core.StageWrite, err)
	}
	if _, err := p.writer.WriteAll(ctx, chunks); err != nil {
		return fail(core.StageWrite, err)
	}

	p.logger.Info("document ingested", "documentId", documentId, "chunks", len(chunks))
	return core.Outcome{DocumentId: documentId}
}

// ProcessDirectory discovers files matching pattern under dir, then
// processes them one at a time as the returned sequence is pulled. File
// discovery is eager; processing is lazy, so an abandoned sequence stops
// work after the document in flight. On cancellation the in-flight
// document yields a failed Outcome and enumeration stops.
func (p *Pipeline) ProcessDirectory(ctx context.Context, dir, pattern string) (iter.Seq[core.Outcome], error) {
	paths, err := p.discover(dir, pattern)
	if err != nil {
		return nil, err
	}

	return func(yield func(core.Outcome) bool) {
		for _, path := range paths {
			outcome := p.process(ctx, path)
			if !yield(outcome) {
				return
			}
			if ctx.Err() != nil {
				return
			}
		}
	}, nil
}

// ProcessDirectoryParallel processes matching files concurrently on a
// worker pool. Outcomes are returned in discovery order regardless of
// completion order.
func (p *Pipeline) ProcessDirectoryParallel(ctx context.Context, dir, pattern string, workers int) ([]core.Outcome, error) {
	paths, err := p.discover(dir, pattern)
	if err != nil {
		return nil, err
	}
	if workers < 1 {
		workers = 1
	}

	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, err
	}
	defer pool.Release()

	outcomes := make([]core.Outcome, len(paths))
	var wg sync.WaitGroup
	for i, path := range paths {
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			outcomes[i] = p.process(ctx, path)
		})
		if submitErr != nil {
			wg.Done()
			outcomes[i] = core.Outcome{
				DocumentId: reader.DocumentId(path),
				Stage:      core.StageRead,
				Err:        submitErr,
			}
		}
	}
	wg.Wait()

	return outcomes, nil
}

func (p *Pipeline) discover(dir, pattern string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", core.ErrNotFound, dir)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", core.ErrConfiguration, dir)
	}

	paths, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid pattern %q: %w", core.ErrConfiguration, pattern, err)
	}

	p.logger.Debug("documents discovered", "dir", dir, "pattern", pattern, "count", len(paths))
	return paths, nil
}
