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


// Package storage provides the storage abstraction layer for ragstore.
//
// This package defines the chunk repository interface that decouples the
// vector store writer from the concrete backend. Records are partitioned
// by document id: every point operation requires the partition key, and
// all chunks of one document are co-located under a common key prefix.
//
// # Constructor Return Type Pattern
//
// Public constructors in backend packages return interfaces to enforce
// abstraction and enable alternative backends:
//
//	repo, err := badger.NewChunkRepository(backend, "chunks")  // returns storage.ChunkRepository
//
// # Architecture
//
//   - Repository: transaction support and lifecycle shared by all repositories
//   - ChunkRepository: partition-keyed chunk record operations plus vector search
//
// # Usage
//
//	backend, err := badger.OpenBackend("/path/to/db", false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	repo, err := badger.NewChunkRepository(backend, "chunks")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer repo.Close()
package storage
