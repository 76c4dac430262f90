package badger

import (
	"context"
	"errors"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/counsel/core"
	"github.com/poiesic/counsel/index"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewMemoryStore()
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func testChunk(document string, seq int, text string, vector []float32) *core.Chunk {
	return &core.Chunk{
		Id:       core.ChunkID(document, seq),
		Document: document,
		Seq:      seq,
		Text:     text,
		Vector:   vector,
	}
}

func TestChunkRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	chunks := []*core.Chunk{
		testChunk("doc-1", 0, "Coverage begins on the effective date.", []float32{1, 0, 0}),
		testChunk("doc-1", 1, "Claims must be filed within sixty days.", []float32{0, 1, 0}),
	}

	if err := store.UpsertChunks(ctx, "doc-1", chunks...); err != nil {
		t.Fatalf("Failed to upsert chunks: %v", err)
	}

	results, err := store.VectorSearch(ctx, "doc-1", []float32{1, 0, 0}, 10)
	if err != nil {
		t.Fatalf("Failed to search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
	if results[0].Chunk.Seq != 0 {
		t.Fatalf("Expected chunk 0 first, got %d", results[0].Chunk.Seq)
	}
	if results[0].Chunk.Text != chunks[0].Text {
		t.Fatalf("Chunk text mismatch: %q", results[0].Chunk.Text)
	}
	if results[0].Source != core.SourceVector {
		t.Fatalf("Expected vector source, got %v", results[0].Source)
	}
}

func TestVectorSearchOrdering(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	chunks := []*core.Chunk{
		testChunk("doc-1", 0, "alpha", []float32{0.2, 0}),
		testChunk("doc-1", 1, "beta", []float32{0.9, 0}),
		testChunk("doc-1", 2, "gamma", []float32{0.5, 0}),
	}
	if err := store.UpsertChunks(ctx, "doc-1", chunks...); err != nil {
		t.Fatalf("Failed to upsert: %v", err)
	}

	results, err := store.VectorSearch(ctx, "doc-1", []float32{1, 0}, 2)
	if err != nil {
		t.Fatalf("Failed to search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
	if results[0].Chunk.Seq != 1 || results[1].Chunk.Seq != 2 {
		t.Fatalf("Wrong ordering: %d, %d", results[0].Chunk.Seq, results[1].Chunk.Seq)
	}
}

func TestVectorSearchTieBreak(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// Identical vectors produce identical scores; order must follow seq
	chunks := []*core.Chunk{
		testChunk("doc-1", 2, "third", []float32{1, 0}),
		testChunk("doc-1", 0, "first", []float32{1, 0}),
		testChunk("doc-1", 1, "second", []float32{1, 0}),
	}
	if err := store.UpsertChunks(ctx, "doc-1", chunks...); err != nil {
		t.Fatalf("Failed to upsert: %v", err)
	}

	results, err := store.VectorSearch(ctx, "doc-1", []float32{1, 0}, 10)
	if err != nil {
		t.Fatalf("Failed to search: %v", err)
	}
	for i, result := range results {
		if result.Chunk.Seq != i {
			t.Fatalf("Expected seq %d at position %d, got %d", i, i, result.Chunk.Seq)
		}
	}
}

func TestKeywordSearch(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	chunks := []*core.Chunk{
		testChunk("doc-1", 0, "The grace period for premium payment is thirty days.", []float32{1}),
		testChunk("doc-1", 1, "Maternity expenses are covered after twenty-four months.", []float32{1}),
		testChunk("doc-1", 2, "The policy does not define a grace period for renewals.", []float32{1}),
	}
	if err := store.UpsertChunks(ctx, "doc-1", chunks...); err != nil {
		t.Fatalf("Failed to upsert: %v", err)
	}

	results, err := store.KeywordSearch(ctx, "doc-1", "What is the grace period for premium payment?", 10)
	if err != nil {
		t.Fatalf("Failed to search: %v", err)
	}
	if len(results) < 2 {
		t.Fatalf("Expected at least 2 matches, got %d", len(results))
	}
	if results[0].Chunk.Seq != 0 {
		t.Fatalf("Expected chunk 0 as best match, got %d", results[0].Chunk.Seq)
	}
	if results[0].Source != core.SourceKeyword {
		t.Fatalf("Expected keyword source, got %v", results[0].Source)
	}
	// Chunk about maternity shares no query terms and must be absent
	for _, result := range results {
		if result.Chunk.Seq == 1 {
			t.Fatal("Unrelated chunk should not appear in keyword results")
		}
	}
}

func TestSearchMissingCollection(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.VectorSearch(ctx, "nope", []float32{1}, 5)
	if !errors.Is(err, index.ErrCollectionNotFound) {
		t.Fatalf("Expected ErrCollectionNotFound, got %v", err)
	}

	_, err = store.KeywordSearch(ctx, "nope", "query", 5)
	if !errors.Is(err, index.ErrCollectionNotFound) {
		t.Fatalf("Expected ErrCollectionNotFound, got %v", err)
	}
}

func TestHasAndDeleteCollection(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	exists, err := store.HasCollection(ctx, "doc-1")
	if err != nil {
		t.Fatalf("HasCollection failed: %v", err)
	}
	if exists {
		t.Fatal("Collection should not exist yet")
	}

	chunk := testChunk("doc-1", 0, "some text", []float32{1})
	if err := store.UpsertChunks(ctx, "doc-1", chunk); err != nil {
		t.Fatalf("Failed to upsert: %v", err)
	}

	exists, err = store.HasCollection(ctx, "doc-1")
	if err != nil {
		t.Fatalf("HasCollection failed: %v", err)
	}
	if !exists {
		t.Fatal("Collection should exist")
	}

	if err := store.DeleteCollection(ctx, "doc-1"); err != nil {
		t.Fatalf("DeleteCollection failed: %v", err)
	}

	exists, err = store.HasCollection(ctx, "doc-1")
	if err != nil {
		t.Fatalf("HasCollection failed: %v", err)
	}
	if exists {
		t.Fatal("Collection should be gone")
	}

	// Deleting again is not an error
	if err := store.DeleteCollection(ctx, "doc-1"); err != nil {
		t.Fatalf("Second delete failed: %v", err)
	}
}

func TestCollectionsAreIsolated(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.UpsertChunks(ctx, "doc-a", testChunk("doc-a", 0, "alpha text", []float32{1})); err != nil {
		t.Fatalf("Failed to upsert: %v", err)
	}
	if err := store.UpsertChunks(ctx, "doc-b", testChunk("doc-b", 0, "beta text", []float32{1})); err != nil {
		t.Fatalf("Failed to upsert: %v", err)
	}

	results, err := store.VectorSearch(ctx, "doc-a", []float32{1}, 10)
	if err != nil {
		t.Fatalf("Failed to search: %v", err)
	}
	if len(results) != 1 || results[0].Chunk.Document != "doc-a" {
		t.Fatalf("Collection isolation broken: %+v", results)
	}

	if err := store.DeleteCollection(ctx, "doc-a"); err != nil {
		t.Fatalf("Failed to delete: %v", err)
	}
	exists, err := store.HasCollection(ctx, "doc-b")
	if err != nil {
		t.Fatalf("HasCollection failed: %v", err)
	}
	if !exists {
		t.Fatal("Deleting doc-a must not affect doc-b")
	}
}

func TestCollectionSize(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.CollectionSize(ctx, "doc-1")
	if !errors.Is(err, index.ErrCollectionNotFound) {
		t.Fatalf("Expected ErrCollectionNotFound, got %v", err)
	}

	for seq := 0; seq < 4; seq++ {
		chunk := testChunk("doc-1", seq, "chunk text", []float32{1})
		if err := store.UpsertChunks(ctx, "doc-1", chunk); err != nil {
			t.Fatalf("Failed to upsert: %v", err)
		}
	}

	size, err := store.CollectionSize(ctx, "doc-1")
	if err != nil {
		t.Fatalf("CollectionSize failed: %v", err)
	}
	if size != 4 {
		t.Fatalf("Expected 4 chunks, got %d", size)
	}
}

func TestDocumentLifecycle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	document := &core.Document{
		Identifier: "policy-1",
		Title:      "Household Insurance Policy",
		SourceURL:  "https://example.com/policy.txt",
		State:      core.DocumentStatePending,
	}

	if err := store.PutDocument(ctx, document); err != nil {
		t.Fatalf("Failed to put document: %v", err)
	}
	if document.UpdatedAt == 0 {
		t.Fatal("Expected UpdatedAt to be set")
	}

	retrieved, err := store.GetDocument(ctx, "policy-1")
	if err != nil {
		t.Fatalf("Failed to get document: %v", err)
	}
	if retrieved.Title != document.Title {
		t.Fatalf("Title mismatch: %q", retrieved.Title)
	}
	if retrieved.State != core.DocumentStatePending {
		t.Fatalf("Expected pending state, got %v", retrieved.State)
	}

	for _, state := range []core.DocumentState{
		core.DocumentStateChunking,
		core.DocumentStateEmbedding,
		core.DocumentStateCompleted,
	} {
		if err := store.SetDocumentState(ctx, "policy-1", state); err != nil {
			t.Fatalf("Failed to set state %v: %v", state, err)
		}
		retrieved, err = store.GetDocument(ctx, "policy-1")
		if err != nil {
			t.Fatalf("Failed to get document: %v", err)
		}
		if retrieved.State != state {
			t.Fatalf("Expected state %v, got %v", state, retrieved.State)
		}
	}

	if err := store.DeleteDocument(ctx, "policy-1"); err != nil {
		t.Fatalf("Failed to delete document: %v", err)
	}
	_, err = store.GetDocument(ctx, "policy-1")
	if !errors.Is(err, index.ErrDocumentNotFound) {
		t.Fatalf("Expected ErrDocumentNotFound, got %v", err)
	}
}

func TestDocumentNotFound(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.GetDocument(ctx, "missing")
	if !errors.Is(err, index.ErrDocumentNotFound) {
		t.Fatalf("Expected ErrDocumentNotFound, got %v", err)
	}

	err = store.SetDocumentState(ctx, "missing", core.DocumentStateFailed)
	if !errors.Is(err, index.ErrDocumentNotFound) {
		t.Fatalf("Expected ErrDocumentNotFound, got %v", err)
	}

	err = store.DeleteDocument(ctx, "missing")
	if !errors.Is(err, index.ErrDocumentNotFound) {
		t.Fatalf("Expected ErrDocumentNotFound, got %v", err)
	}
	if errors.Is(err, index.ErrIndexUnavailable) {
		t.Fatalf("Missing record should not read as unavailable: %v", err)
	}
}

func TestDocumentBackendFailuresMarkedUnavailable(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// An unreadable record stands in for any backend-side failure.
	err := store.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set(makeDocumentKey("doc-1"), []byte{}); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		t.Fatalf("Failed to plant record: %v", err)
	}

	if _, err := store.GetDocument(ctx, "doc-1"); !errors.Is(err, index.ErrIndexUnavailable) {
		t.Fatalf("Expected ErrIndexUnavailable from GetDocument, got %v", err)
	}
	if err := store.SetDocumentState(ctx, "doc-1", core.DocumentStateCompleted); !errors.Is(err, index.ErrIndexUnavailable) {
		t.Fatalf("Expected ErrIndexUnavailable from SetDocumentState, got %v", err)
	}
	if err := store.DeleteDocument(ctx, "doc-1"); !errors.Is(err, index.ErrIndexUnavailable) {
		t.Fatalf("Expected ErrIndexUnavailable from DeleteDocument, got %v", err)
	}
}

func TestUpsertRejectsInvalidChunk(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	bad := testChunk("doc-1", 0, "", []float32{1})
	err := store.UpsertChunks(ctx, "doc-1", bad)
	if !errors.Is(err, core.ErrInvalidChunk) {
		t.Fatalf("Expected ErrInvalidChunk, got %v", err)
	}
}
