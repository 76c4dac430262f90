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


package answer

import "errors"

var (
	// ErrGenerationTimeout indicates the model call exceeded the configured timeout.
	ErrGenerationTimeout = errors.New("generation timed out")

	// ErrGenerationFailed indicates the model call failed or returned nothing usable.
	ErrGenerationFailed = errors.New("generation failed")

	// ErrAIProviderRequired is returned when an AI provider is not provided.
	ErrAIProviderRequired = errors.New("AI provider required")

	// ErrInvalidTimeout is returned when the configured timeout is not positive.
	ErrInvalidTimeout = errors.New("timeout must be positive")
)
