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

// Package vectorstore turns chunks into embedded, persisted records and
// queries them back.
//
// The Writer is the single write path into the store: it embeds a chunk's
// content, assigns the record id, and persists record plus ordering index
// in one transaction. Reads come back either by similarity (SearchSimilar,
// SearchText) or by partition (GetByDocument, GetById). Deletes are
// per-record or best-effort per-document.
//
// Records are partitioned by document id. Every point operation requires
// the document id because the storage key embeds it; only similarity
// search crosses partitions.
package vectorstore
