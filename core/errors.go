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

import "errors"

// Error taxonomy for the ingestion pipeline and vector store. Callers
// classify failures with errors.Is against these sentinels.
var (
	// ErrConfiguration indicates a bad or missing setting, an unknown
	// chunking strategy, or an embedding dimension mismatch. Fatal,
	// surfaced before any work starts.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrNotFound indicates an input file or record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrRead indicates a document could not be read or parsed.
	// Recovered at the document boundary.
	ErrRead = errors.New("document read failed")

	// ErrEmbedding indicates embedding generation failed for a chunk.
	// Recovered at the document boundary.
	ErrEmbedding = errors.New("embedding generation failed")

	// ErrStore indicates a persistent store operation failed.
	// Recovered at the document boundary.
	ErrStore = errors.New("store operation failed")

	// ErrEnrichment indicates an enricher failed. Always non-fatal:
	// logged and skipped, never surfaced as a document failure.
	ErrEnrichment = errors.New("enrichment failed")

	// ErrEmptyContent indicates a chunk or document has no text content.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrInvalidChunk indicates a Chunk failed validation.
	ErrInvalidChunk = errors.New("invalid chunk")

	// ErrInvalidChunkRecord indicates a ChunkRecord failed validation.
	ErrInvalidChunkRecord = errors.New("invalid chunk record")
)
