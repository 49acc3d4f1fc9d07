package chunking

import (
	"fmt"
	"sync"

	"github.com/poiesic/ragstore/core"
)

// Factory constructs a chunker for a given tokenizer and token limits.
type Factory func(tok Tokenizer, maxTokens, overlapTokens int) (Chunker, error)

var (
	registryMu sync.RWMutex
	registry   = map[core.ChunkingStrategy]Factory{
		core.StrategyHeaderBased:   newHeaderChunker,
		core.StrategySectionBased:  newSectionChunker,
		core.StrategySemanticAware: newSemanticChunker,
	}
)

// Register adds a chunker factory for a strategy tag. Registering an
// existing tag replaces its factory.
func Register(strategy core.ChunkingStrategy, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[strategy] = factory
}

// New constructs the chunker for a strategy. An unrecognized strategy or
// invalid token limits fail fast with core.ErrConfiguration, before any
// document is chunked.
func New(strategy core.ChunkingStrategy, tok Tokenizer, maxTokens, overlapTokens int) (Chunker, error) {
	if tok == nil {
		return nil, fmt.Errorf("%w: tokenizer is required", core.ErrConfiguration)
	}
	if maxTokens <= 0 {
		return nil, fmt.Errorf("%w: maxTokens must be positive, got %d", core.ErrConfiguration, maxTokens)
	}
	if overlapTokens < 0 || overlapTokens >= maxTokens {
		return nil, fmt.Errorf("%w: overlapTokens must be in [0, maxTokens), got %d", core.ErrConfiguration, overlapTokens)
	}

	registryMu.RLock()
	factory, ok := registry[strategy]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: unknown chunking strategy %q", core.ErrConfiguration, strategy)
	}

	return factory(tok, maxTokens, overlapTokens)
}
