// Package chunking splits normalized documents into bounded-size text
// chunks, the unit of embedding and retrieval.
//
// Chunkers are selected by core.ChunkingStrategy through a registry, so
// adding a strategy means adding one registry entry rather than editing
// a branch:
//
//	tok, err := chunking.NewTokenizer("cl100k_base")
//	chunker, err := chunking.New(core.StrategySemanticAware, tok, 2000, 0)
//	chunks, err := chunker.Chunk(doc)
//
// Every chunker guarantees the same contract: chunk indices increase
// from 0, the token count of each chunk (under the supplied tokenizer)
// never exceeds the configured maximum, and when an overlap is
// configured each chunk after the first starts with the decoded tail
// tokens of its predecessor.
package chunking
