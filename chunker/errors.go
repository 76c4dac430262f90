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


package chunker

import "errors"

var (
	// ErrEmptyDocument indicates the document text is empty or whitespace-only.
	// Callers receive this instead of a single empty chunk.
	ErrEmptyDocument = errors.New("document text is empty")

	// ErrInvalidChunkRange indicates the configured chunk size range is invalid.
	ErrInvalidChunkRange = errors.New("chunk size range is invalid")

	// ErrInvalidOverlapRange indicates the configured overlap range is invalid.
	// The maximum overlap must stay below the minimum chunk size or chunking
	// cannot make forward progress.
	ErrInvalidOverlapRange = errors.New("overlap range is invalid")

	// ErrInvalidMaxChunks indicates the configured chunk ceiling is not positive.
	ErrInvalidMaxChunks = errors.New("max chunks must be positive")

	// ErrInvalidSizeRamp indicates the configured size ramp length is not positive.
	ErrInvalidSizeRamp = errors.New("size ramp length must be positive")
)
