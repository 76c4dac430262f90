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

// ValidateDocument validates a Document according to domain rules.
//
// Validation rules:
//   - Identifier must not be empty
//   - State must be a known lifecycle state
//
// NOT validated (populated by the ingestion pipeline):
//   - ChunkCount (0 is valid until chunking completes)
//   - TextLength (0 is valid before extraction)
//   - UpdatedAt (set by the document store)
func ValidateDocument(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}

	if doc.Identifier == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyIdentifier)
	}

	if err := ValidateDocumentState(doc.State); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	return nil
}

// ValidateChunk validates a Chunk according to domain rules.
//
// Validation rules:
//   - Text must not be empty
//   - Document must not be empty
//   - Seq must not be negative
//   - Overlap must not be negative
//
// NOT validated (populated by processors):
//   - Vector (can be empty until embedded)
//   - Section (empty when the chunk sits under no structural marker)
func ValidateChunk(chunk *Chunk) error {
	if chunk == nil {
		return fmt.Errorf("%w: chunk is nil", ErrInvalidChunk)
	}

	if chunk.Text == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyChunkText)
	}

	if chunk.Document == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyIdentifier)
	}

	if chunk.Seq < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrNegativeSequence)
	}

	if chunk.Overlap < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrNegativeOverlap)
	}

	return nil
}

// ValidateDocumentState validates that a DocumentState has a known value.
func ValidateDocumentState(state DocumentState) error {
	switch state {
	case DocumentStatePending, DocumentStateChunking, DocumentStateEmbedding,
		DocumentStateCompleted, DocumentStateFailed:
		return nil
	default:
		return fmt.Errorf("%w: value %d", ErrInvalidDocumentState, state)
	}
}
