// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package ingest turns source documents into indexed, embedded chunks.
//
// The Pipeline drives a document through its lifecycle: a pending record is
// created in the document store, text is extracted from the source (local
// file or URL), the chunker splits it, embeddings are generated in retried
// batches, and the unit-normalized vectors are uploaded to the vector index
// before the record is marked completed. Any failure along the way marks the
// document failed and surfaces the causal error.
//
// Ingestion can run synchronously via Ingest or on a worker pool via
// IngestAsync.
package ingest
