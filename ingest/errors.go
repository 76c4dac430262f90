package ingest

import "errors"

var (
	// ErrUnsupportedFormat indicates the document source format cannot be extracted.
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrDownloadFailed indicates the document could not be downloaded.
	ErrDownloadFailed = errors.New("document download failed")

	// ErrExtractionFailed indicates text extraction from the source failed.
	ErrExtractionFailed = errors.New("text extraction failed")

	// ErrVectorIndexRequired is returned when a vector index is not provided.
	ErrVectorIndexRequired = errors.New("vector index required")

	// ErrDocumentStoreRequired is returned when a document store is not provided.
	ErrDocumentStoreRequired = errors.New("document store required")

	// ErrAIProviderRequired is returned when an AI provider is not provided.
	ErrAIProviderRequired = errors.New("AI provider required")

	// ErrChunkerRequired is returned when a chunker is not provided.
	ErrChunkerRequired = errors.New("chunker required")

	// ErrInvalidMaxAttempts is returned when retry attempts is not positive.
	ErrInvalidMaxAttempts = errors.New("max attempts must be positive")
)
