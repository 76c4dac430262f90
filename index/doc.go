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


// Package index provides the vector index abstraction layer for counsel.
//
// This package defines the interfaces that decouple the retrieval pipeline
// from index implementation. It allows different index backends (BadgerDB,
// in-memory, remote vector stores) to be used interchangeably.
//
// # Architecture
//
// Two interfaces cover the two kinds of persisted state:
//
//   - VectorIndex: chunk vectors and metadata in named collections, with
//     vector-similarity and keyword sub-queries plus collection management
//   - DocumentStore: document metadata and ingestion lifecycle state
//
// A collection is a named partition holding the chunks of one logical
// document or document set. One-shot Q&A mode creates an ephemeral
// collection per request and deletes it on all exit paths.
//
// # Usage
//
//	backend, err := badger.OpenBackend("/path/to/db", false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	store := badger.NewStore(backend)
//	defer store.Close()
//
//	err = store.UpsertChunks(ctx, "policy-2024-001", chunks...)
//	hits, err := store.VectorSearch(ctx, "policy-2024-001", queryVector, 10)
//
// # Thread Safety
//
// All implementations must be safe for concurrent reads. Concurrent writes
// to the same collection are the caller's responsibility to serialize.
package index
