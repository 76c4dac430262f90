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

// Domain validation errors
var (
	// ErrInvalidDocument indicates a Document failed validation.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrInvalidChunk indicates a Chunk failed validation.
	ErrInvalidChunk = errors.New("invalid chunk")

	// ErrEmptyIdentifier indicates the document Identifier field is empty.
	ErrEmptyIdentifier = errors.New("document identifier cannot be empty")

	// ErrInvalidDocumentState indicates an invalid DocumentState value.
	ErrInvalidDocumentState = errors.New("invalid document state")

	// ErrEmptyChunkText indicates the chunk Text field is empty.
	ErrEmptyChunkText = errors.New("chunk text cannot be empty")

	// ErrNegativeSequence indicates a chunk sequence index below zero.
	ErrNegativeSequence = errors.New("chunk sequence cannot be negative")

	// ErrNegativeOverlap indicates a chunk overlap below zero.
	ErrNegativeOverlap = errors.New("chunk overlap cannot be negative")
)
