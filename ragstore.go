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

// Package ragstore assembles the document ingestion pipeline and the
// partitioned vector store behind a single facade.
package ragstore

import (
	"io"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/poiesic/ragstore/ai"
	"github.com/poiesic/ragstore/ai/openai"
	"github.com/poiesic/ragstore/chunking"
	"github.com/poiesic/ragstore/core"
	"github.com/poiesic/ragstore/ingestion"
	"github.com/poiesic/ragstore/reader"
	"github.com/poiesic/ragstore/reembed"
	"github.com/poiesic/ragstore/storage"
	"github.com/poiesic/ragstore/storage/badger"
	"github.com/poiesic/ragstore/vectorstore"
)

// Store bundles the storage backend, the embedder and the vector store
// writer for one database.
type Store struct {
	config   *core.PipelineConfig
	backend  *badger.Backend
	chunks   storage.ChunkRepository
	embedder ai.Embedder
	writer   *vectorstore.Writer
	logger   *slog.Logger

	// tokenizer is loaded lazily on first NewPipeline call; tokMu guards
	// the cache against concurrent pipeline construction
	tokMu     sync.Mutex
	tokenizer chunking.Tokenizer
}

// StoreOption configures a Store.
type StoreOption func(*storeOptions)

type storeOptions struct {
	embedder  ai.Embedder
	tokenizer chunking.Tokenizer
	logger    *slog.Logger
	inMemory  bool
}

// WithEmbedder injects a pre-built embedder instead of constructing one
// from the configuration. Useful for tests and custom providers.
func WithEmbedder(embedder ai.Embedder) StoreOption {
	return func(o *storeOptions) {
		o.embedder = embedder
	}
}

// WithTokenizer injects a pre-built tokenizer instead of loading the
// configured tiktoken encoding.
func WithTokenizer(tokenizer chunking.Tokenizer) StoreOption {
	return func(o *storeOptions) {
		o.tokenizer = tokenizer
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) StoreOption {
	return func(o *storeOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithInMemory opens an ephemeral store that never touches disk.
// StorePath is ignored.
func WithInMemory() StoreOption {
	return func(o *storeOptions) {
		o.inMemory = true
	}
}

// Open validates the configuration and brings up the store. Configuration
// problems fail here, before any component starts.
func Open(config *core.PipelineConfig, opts ...StoreOption) (*Store, error) {
	if config == nil {
		config = core.DefaultPipelineConfig()
	}

	// Apply options
	options := &storeOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(options)
	}

	cfg := *config
	if options.inMemory && cfg.StorePath == "" {
		cfg.StorePath = ":memory:"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Open backend
	path := ""
	if !options.inMemory {
		path = filepath.Join(cfg.StorePath, cfg.Database)
	}
	backend, err := badger.OpenBackend(path, options.inMemory)
	if err != nil {
		return nil, err
	}

	// Create chunk repository
	chunks, err := badger.NewChunkRepository(backend, cfg.Container)
	if err != nil {
		backend.Close()
		return nil, err
	}

	// Create embedder with configured settings unless one was injected
	embedder := options.embedder
	if embedder == nil {
		embedder, err = openai.NewEmbedder(ai.NewConfig(
			ai.WithHost(cfg.EmbeddingHost),
			ai.WithAPIKey(cfg.EmbeddingAPIKey),
			ai.WithModel(cfg.EmbeddingModel),
		))
		if err != nil {
			chunks.Close()
			backend.Close()
			return nil, err
		}
	}

	writer, err := vectorstore.NewWriter(chunks, embedder, cfg.EmbeddingDimension,
		vectorstore.WithLogger(options.logger))
	if err != nil {
		chunks.Close()
		backend.Close()
		return nil, err
	}

	return &Store{
		config:    &cfg,
		backend:   backend,
		chunks:    chunks,
		embedder:  embedder,
		writer:    writer,
		tokenizer: options.tokenizer,
		logger:    options.logger,
	}, nil
}

// Close closes the store and releases resources.
func (s *Store) Close() error {
	if err := s.chunks.Close(); err != nil {
		s.logger.Error("error closing chunk repository", "err", err)
		return err
	}
	if err := s.backend.Close(); err != nil {
		s.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// ChunkRepository exposes the raw repository for callers that need
// operations below the writer.
func (s *Store) ChunkRepository() storage.ChunkRepository {
	return s.chunks
}

// Writer returns the vector store writer.
func (s *Store) Writer() *vectorstore.Writer {
	return s.writer
}

// Embedder returns the embedder the store was opened with.
func (s *Store) Embedder() ai.Embedder {
	return s.embedder
}

// Config returns a copy of the effective configuration.
func (s *Store) Config() core.PipelineConfig {
	return *s.config
}

// NewPipeline builds an ingestion pipeline over this store using the
// configured chunking strategy and tokenizer.
func (s *Store) NewPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	tokenizer, err := s.loadTokenizer()
	if err != nil {
		return nil, err
	}

	chunker, err := chunking.New(s.config.Strategy, tokenizer, s.config.MaxTokensPerChunk, s.config.OverlapTokens)
	if err != nil {
		return nil, err
	}

	opts = append([]ingestion.Option{ingestion.WithLogger(s.logger)}, opts...)
	return ingestion.NewPipeline(reader.NewDefaultRegistry(), chunker, s.writer, opts...)
}

// loadTokenizer returns the injected tokenizer or loads the configured
// tiktoken encoding once.
func (s *Store) loadTokenizer() (chunking.Tokenizer, error) {
	s.tokMu.Lock()
	defer s.tokMu.Unlock()

	if s.tokenizer == nil {
		tokenizer, err := chunking.NewTokenizer(s.config.TokenizerModel)
		if err != nil {
			return nil, err
		}
		s.tokenizer = tokenizer
	}
	return s.tokenizer, nil
}

// NewReembedder builds a reembedder over this store's records.
// progress: where to write progress output (typically os.Stderr)
func (s *Store) NewReembedder(config *reembed.Config, progress io.Writer) (*reembed.Reembedder, error) {
	return reembed.NewReembedder(s.chunks, s.embedder, config, progress)
}
