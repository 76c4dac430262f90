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


package retrieve

import "errors"

var (
	// ErrRetrievalUnavailable indicates the vector index could not be reached.
	ErrRetrievalUnavailable = errors.New("retrieval unavailable")

	// ErrIndexRequired is returned when a vector index is not provided.
	ErrIndexRequired = errors.New("vector index required")

	// ErrAIProviderRequired is returned when an AI provider is not provided.
	ErrAIProviderRequired = errors.New("AI provider required")

	// ErrInvalidAlpha is returned when the fusion weight is outside [0,1].
	ErrInvalidAlpha = errors.New("alpha must be within [0,1]")

	// ErrInvalidTopKRange is returned when the top-k range is invalid.
	ErrInvalidTopKRange = errors.New("top-k range is invalid")
)
