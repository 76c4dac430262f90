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


// Package chunker splits document text into overlapping retrieval units.
//
// Chunk size is dynamic: it grows linearly with document length within a
// configured range, so long documents produce larger chunks and the total
// chunk count stays bounded. A hard per-document chunk ceiling is enforced
// by widening chunks further when necessary, never by dropping coverage.
//
// Splitting is section-aware. The text is scanned for structural markers
// common in legal and insurance documents (articles, sections, clauses,
// decimal headings, all-caps heading lines) and splits are preferred at
// those boundaries. When no marker falls inside the target window, the
// chunker falls back to sentence boundaries, then whitespace, then a hard
// character cut.
//
// # Usage
//
//	c, err := chunker.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	chunks, err := c.Chunk("policy-2024-001", documentText)
//	if errors.Is(err, chunker.ErrEmptyDocument) {
//	    // reject the upload
//	}
package chunker
