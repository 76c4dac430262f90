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

package qa

import "errors"

var (
	// ErrQuestionTimeout indicates a single question exceeded its deadline.
	ErrQuestionTimeout = errors.New("question timed out")

	// ErrBatchTimeout indicates the batch wall-clock ceiling expired before
	// the question finished.
	ErrBatchTimeout = errors.New("question batch timed out")

	// ErrRetrieverRequired indicates a nil retriever was passed to a constructor.
	ErrRetrieverRequired = errors.New("retriever is required")

	// ErrGeneratorRequired indicates a nil answer generator was passed to a constructor.
	ErrGeneratorRequired = errors.New("answer generator is required")

	// ErrPipelineRequired indicates a nil ingestion pipeline was passed to a constructor.
	ErrPipelineRequired = errors.New("ingestion pipeline is required")

	// ErrOrchestratorRequired indicates a nil orchestrator was passed to a constructor.
	ErrOrchestratorRequired = errors.New("orchestrator is required")

	// ErrVectorIndexRequired indicates a nil vector index was passed to a constructor.
	ErrVectorIndexRequired = errors.New("vector index is required")

	// ErrDocumentStoreRequired indicates a nil document store was passed to a constructor.
	ErrDocumentStoreRequired = errors.New("document store is required")

	// ErrInvalidMaxInFlight indicates a non-positive concurrency bound.
	ErrInvalidMaxInFlight = errors.New("max in-flight questions must be positive")

	// ErrInvalidTimeout indicates a non-positive timeout value.
	ErrInvalidTimeout = errors.New("timeout must be positive")
)
