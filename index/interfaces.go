package index

import (
	"context"

	"github.com/poiesic/counsel/core"
)

// VectorIndex stores chunk vectors and metadata in named collections and
// serves the two retrieval sub-queries. Implementations must be thread-safe
// for concurrent reads; concurrent writes to the same collection should be
// serialized by the caller.
type VectorIndex interface {
	// UpsertChunks writes chunks with their vectors into a collection.
	// Existing chunks with the same sequence index are overwritten.
	UpsertChunks(ctx context.Context, collection string, chunks ...*core.Chunk) error

	// VectorSearch returns up to limit chunks most similar to the query
	// vector, ordered by similarity descending. Ties break by ascending
	// chunk sequence index.
	// Returns ErrCollectionNotFound if the collection does not exist.
	VectorSearch(ctx context.Context, collection string, vector []float32, limit int) ([]core.ScoredChunk, error)

	// KeywordSearch returns up to limit chunks lexically matching the
	// query, ordered by keyword score descending. Ties break by ascending
	// chunk sequence index. Chunks with no matching terms are omitted.
	// Returns ErrCollectionNotFound if the collection does not exist.
	KeywordSearch(ctx context.Context, collection string, query string, limit int) ([]core.ScoredChunk, error)

	// HasCollection reports whether a collection holds any chunks.
	HasCollection(ctx context.Context, collection string) (bool, error)

	// CollectionSize returns the number of chunks in a collection.
	// Returns ErrCollectionNotFound if the collection does not exist.
	CollectionSize(ctx context.Context, collection string) (int, error)

	// DeleteCollection removes a collection and all its chunks.
	// Deleting a collection that does not exist is not an error.
	DeleteCollection(ctx context.Context, collection string) error

	// Close releases resources held by the index.
	Close() error
}

// DocumentStore persists document metadata and lifecycle state.
type DocumentStore interface {
	// PutDocument stores or replaces a document record.
	PutDocument(ctx context.Context, document *core.Document) error

	// GetDocument retrieves a document by identifier.
	// Returns ErrDocumentNotFound if no such document exists.
	GetDocument(ctx context.Context, identifier string) (*core.Document, error)

	// SetDocumentState updates only the lifecycle state of a document.
	// Returns ErrDocumentNotFound if no such document exists.
	SetDocumentState(ctx context.Context, identifier string, state core.DocumentState) error

	// DeleteDocument removes a document record.
	// Returns ErrDocumentNotFound if no such document exists.
	DeleteDocument(ctx context.Context, identifier string) error

	// Close releases resources held by the store.
	Close() error
}
