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

// Package ingestion orchestrates the document pipeline: read, enrich,
// chunk, enrich chunks, embed and write.
//
// Each document runs the stages independently; a failure in one document
// never aborts the batch. ProcessDirectory reports one Outcome per
// discovered file, carrying the stage that failed when one did.
// Enrichers are advisory: their errors are logged and the pipeline
// continues with the unenriched content.
package ingestion
