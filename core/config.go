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

import "fmt"

// PipelineConfig is the immutable value bundle read once at pipeline
// construction. It is owned by the orchestrator and writer for their
// lifetime; core logic never falls back to environment lookups.
type PipelineConfig struct {
	// EmbeddingHost is the base URL of the OpenAI-compatible embedding API.
	EmbeddingHost string

	// EmbeddingAPIKey authenticates against the embedding API.
	// Local services that skip auth accept any non-empty token.
	EmbeddingAPIKey string

	// EmbeddingModel is the embedding deployment/model identifier.
	EmbeddingModel string

	// EmbeddingDimension is the fixed length of every stored vector.
	EmbeddingDimension int

	// TokenizerModel is the tiktoken model or encoding identifier used
	// to count tokens when enforcing chunk size limits.
	TokenizerModel string

	// MaxTokensPerChunk caps the token count of every produced chunk.
	MaxTokensPerChunk int

	// OverlapTokens is the number of tokens duplicated from the tail of
	// the previous chunk into the head of the next one.
	OverlapTokens int

	// Strategy selects the chunking algorithm.
	Strategy ChunkingStrategy

	// StorePath is the directory holding the persistent store.
	StorePath string

	// Database is the subdirectory name under StorePath.
	Database string

	// Container is the key namespace that chunk records live in.
	Container string
}

// DefaultPipelineConfig returns a config with the documented defaults.
// StorePath has no default and must be set by the caller.
func DefaultPipelineConfig() *PipelineConfig {
	return &PipelineConfig{
		EmbeddingHost:      "http://localhost:11434/v1",
		EmbeddingAPIKey:    "none",
		EmbeddingModel:     "text-embedding-3-small",
		EmbeddingDimension: 1536,
		TokenizerModel:     "cl100k_base",
		MaxTokensPerChunk:  2000,
		OverlapTokens:      0,
		Strategy:           StrategySemanticAware,
		Database:           "ragstore",
		Container:          "chunks",
	}
}

// Validate checks that the configuration is complete and internally
// consistent. All failures wrap ErrConfiguration.
func (c *PipelineConfig) Validate() error {
	if c.EmbeddingHost == "" {
		return fmt.Errorf("%w: EmbeddingHost is required", ErrConfiguration)
	}
	if c.EmbeddingModel == "" {
		return fmt.Errorf("%w: EmbeddingModel is required", ErrConfiguration)
	}
	if c.EmbeddingDimension <= 0 {
		return fmt.Errorf("%w: EmbeddingDimension must be positive, got %d", ErrConfiguration, c.EmbeddingDimension)
	}
	if c.TokenizerModel == "" {
		return fmt.Errorf("%w: TokenizerModel is required", ErrConfiguration)
	}
	if c.MaxTokensPerChunk <= 0 {
		return fmt.Errorf("%w: MaxTokensPerChunk must be positive, got %d", ErrConfiguration, c.MaxTokensPerChunk)
	}
	if c.OverlapTokens < 0 {
		return fmt.Errorf("%w: OverlapTokens cannot be negative, got %d", ErrConfiguration, c.OverlapTokens)
	}
	if c.OverlapTokens >= c.MaxTokensPerChunk {
		return fmt.Errorf("%w: OverlapTokens (%d) must be smaller than MaxTokensPerChunk (%d)",
			ErrConfiguration, c.OverlapTokens, c.MaxTokensPerChunk)
	}
	switch c.Strategy {
	case StrategyHeaderBased, StrategySectionBased, StrategySemanticAware:
	default:
		return fmt.Errorf("%w: unknown chunking strategy %q", ErrConfiguration, c.Strategy)
	}
	if c.StorePath == "" {
		return fmt.Errorf("%w: StorePath is required", ErrConfiguration)
	}
	if c.Database == "" {
		return fmt.Errorf("%w: Database is required", ErrConfiguration)
	}
	if c.Container == "" {
		return fmt.Errorf("%w: Container is required", ErrConfiguration)
	}
	return nil
}
