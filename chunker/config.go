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

// Config holds chunking parameters.
type Config struct {
	// MinChunkSize is the chunk size in characters used for the shortest
	// documents. Chunk sizes scale up from here with document length.
	MinChunkSize int

	// MaxChunkSize is the chunk size in characters used once a document
	// reaches SizeRampLength. The chunk ceiling may push the effective
	// size past this bound for extremely long documents.
	MaxChunkSize int

	// MinOverlap is the overlap in characters between consecutive chunks
	// at MinChunkSize.
	MinOverlap int

	// MaxOverlap is the overlap in characters between consecutive chunks
	// at MaxChunkSize.
	MaxOverlap int

	// MaxChunks is the hard ceiling on chunks per document. When a document
	// would exceed it, chunk size grows past MaxChunkSize rather than
	// dropping coverage.
	MaxChunks int

	// SizeRampLength is the document length in characters at which the
	// chunk size reaches MaxChunkSize. Shorter documents interpolate
	// linearly between MinChunkSize and MaxChunkSize.
	SizeRampLength int
}

// ConfigOption is a function that modifies a Config.
type ConfigOption func(*Config)

// DefaultConfig returns a configuration tuned for legal and insurance
// documents: policies, contracts, and endorsements in the tens of
// kilobytes range.
func DefaultConfig() *Config {
	return &Config{
		MinChunkSize:   1500,
		MaxChunkSize:   3500,
		MinOverlap:     200,
		MaxOverlap:     500,
		MaxChunks:      50,
		SizeRampLength: 100_000,
	}
}

// NewConfig creates a configuration with the given options applied to defaults.
func NewConfig(opts ...ConfigOption) *Config {
	config := DefaultConfig()
	for _, opt := range opts {
		opt(config)
	}
	return config
}

// WithChunkSizeRange sets the minimum and maximum chunk sizes.
func WithChunkSizeRange(min, max int) ConfigOption {
	return func(c *Config) {
		c.MinChunkSize = min
		c.MaxChunkSize = max
	}
}

// WithOverlapRange sets the minimum and maximum overlap sizes.
func WithOverlapRange(min, max int) ConfigOption {
	return func(c *Config) {
		c.MinOverlap = min
		c.MaxOverlap = max
	}
}

// WithMaxChunks sets the hard ceiling on chunks per document.
func WithMaxChunks(max int) ConfigOption {
	return func(c *Config) {
		c.MaxChunks = max
	}
}

// WithSizeRampLength sets the document length at which chunk size tops out.
func WithSizeRampLength(length int) ConfigOption {
	return func(c *Config) {
		c.SizeRampLength = length
	}
}

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	if c.MinChunkSize < 1 || c.MaxChunkSize < c.MinChunkSize {
		return ErrInvalidChunkRange
	}
	if c.MinOverlap < 0 || c.MaxOverlap < c.MinOverlap {
		return ErrInvalidOverlapRange
	}
	if c.MaxOverlap >= c.MinChunkSize {
		return ErrInvalidOverlapRange
	}
	if c.MaxChunks < 1 {
		return ErrInvalidMaxChunks
	}
	if c.SizeRampLength < 1 {
		return ErrInvalidSizeRamp
	}
	return nil
}
