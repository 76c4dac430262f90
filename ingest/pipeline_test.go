package ingest

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/counsel/ai"
	"github.com/poiesic/counsel/ai/mock"
	"github.com/poiesic/counsel/chunker"
	"github.com/poiesic/counsel/core"
	indexbadger "github.com/poiesic/counsel/index/badger"
)

func writeTestDocument(t *testing.T, name, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
	return path
}

func newTestPipeline(t *testing.T, embedder *mock.MockEmbedder, opts ...Option) (*Pipeline, *indexbadger.Store) {
	t.Helper()

	store, err := indexbadger.NewMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	provider := mock.NewMockProviderWithServices(embedder, mock.NewMockGenerator())

	ck, err := chunker.New()
	require.NoError(t, err)

	pipeline, err := NewPipeline(store, store, provider, ck, opts...)
	require.NoError(t, err)
	t.Cleanup(pipeline.Release)

	return pipeline, store
}

func TestNewPipeline_Validation(t *testing.T) {
	store, err := indexbadger.NewMemoryStore()
	require.NoError(t, err)
	defer store.Close()

	provider := mock.NewMockProvider()
	ck, err := chunker.New()
	require.NoError(t, err)

	_, err = NewPipeline(nil, store, provider, ck)
	assert.ErrorIs(t, err, ErrVectorIndexRequired)

	_, err = NewPipeline(store, nil, provider, ck)
	assert.ErrorIs(t, err, ErrDocumentStoreRequired)

	_, err = NewPipeline(store, store, nil, ck)
	assert.ErrorIs(t, err, ErrAIProviderRequired)

	_, err = NewPipeline(store, store, provider, nil)
	assert.ErrorIs(t, err, ErrChunkerRequired)

	_, err = NewPipeline(store, store, provider, ck, WithRetry(0, time.Millisecond))
	assert.ErrorIs(t, err, ErrInvalidMaxAttempts)
}

func TestIngest(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	pipeline, store := newTestPipeline(t, embedder)

	text := strings.Repeat("The insurer shall pay covered losses under section four. ", 200)
	source := writeTestDocument(t, "policy.txt", text)

	ctx := context.Background()
	count, err := pipeline.Ingest(ctx, source, "policy-1", "Commercial Policy")
	require.NoError(t, err)
	require.Greater(t, count, 0)

	document, err := store.GetDocument(ctx, "policy-1")
	require.NoError(t, err)
	assert.Equal(t, core.DocumentStateCompleted, document.State)
	assert.Equal(t, count, document.ChunkCount)
	assert.Equal(t, len(text), document.TextLength)
	assert.Equal(t, "Commercial Policy", document.Title)

	exists, err := store.HasCollection(ctx, "policy-1")
	require.NoError(t, err)
	assert.True(t, exists)

	size, err := store.CollectionSize(ctx, "policy-1")
	require.NoError(t, err)
	assert.Equal(t, count, size)
}

func TestIngestNormalizesVectors(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		vectors := make([][]float32, len(texts))
		for i := range texts {
			vectors[i] = []float32{3, 4} // length 5 before normalization
		}
		return vectors, nil
	}
	pipeline, store := newTestPipeline(t, embedder)

	source := writeTestDocument(t, "short.txt", "A short coverage note for the record.")
	_, err := pipeline.Ingest(context.Background(), source, "short-1", "Note")
	require.NoError(t, err)

	// A query along the stored direction should score the full dot product
	// of two unit vectors.
	results, err := store.VectorSearch(context.Background(), "short-1", []float32{0.6, 0.8}, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.InDelta(t, 1.0, float64(results[0].Score), 1e-5)

	var norm float64
	for _, v := range results[0].Chunk.Vector {
		norm += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-5)
}

func TestIngestUnsupportedFormat(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	pipeline, store := newTestPipeline(t, embedder)

	source := writeTestDocument(t, "scan.pdf", "%PDF-1.4")
	_, err := pipeline.Ingest(context.Background(), source, "scan-1", "Scan")
	require.ErrorIs(t, err, ErrUnsupportedFormat)

	document, err := store.GetDocument(context.Background(), "scan-1")
	require.NoError(t, err)
	assert.Equal(t, core.DocumentStateFailed, document.State)
	assert.Equal(t, 0, embedder.CallCount())
}

func TestIngestEmptyDocument(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	pipeline, store := newTestPipeline(t, embedder)

	source := writeTestDocument(t, "empty.txt", "   \n\t  ")
	_, err := pipeline.Ingest(context.Background(), source, "empty-1", "Empty")
	require.ErrorIs(t, err, chunker.ErrEmptyDocument)

	document, err := store.GetDocument(context.Background(), "empty-1")
	require.NoError(t, err)
	assert.Equal(t, core.DocumentStateFailed, document.State)
}

func TestIngestEmbedderFailure(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, errors.New("connection refused")
	}
	pipeline, store := newTestPipeline(t, embedder, WithRetry(2, time.Millisecond))

	source := writeTestDocument(t, "doc.txt", "Coverage applies to all listed perils and named insureds.")
	_, err := pipeline.Ingest(context.Background(), source, "doc-1", "Doc")
	require.ErrorIs(t, err, ai.ErrEmbeddingService)

	document, err := store.GetDocument(context.Background(), "doc-1")
	require.NoError(t, err)
	assert.Equal(t, core.DocumentStateFailed, document.State)
	assert.Equal(t, 2, embedder.CallCount())
}

func TestIngestEmbedderRecoversAfterRetry(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	attempts := 0
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		attempts++
		if attempts == 1 {
			return nil, errors.New("temporary failure")
		}
		vectors := make([][]float32, len(texts))
		for i := range texts {
			vectors[i] = []float32{1, 0}
		}
		return vectors, nil
	}
	pipeline, store := newTestPipeline(t, embedder, WithRetry(3, time.Millisecond))

	source := writeTestDocument(t, "doc.txt", "The policy period begins on the effective date shown above.")
	count, err := pipeline.Ingest(context.Background(), source, "doc-2", "Doc")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, 2, attempts)

	document, err := store.GetDocument(context.Background(), "doc-2")
	require.NoError(t, err)
	assert.Equal(t, core.DocumentStateCompleted, document.State)
}

func TestIngestVectorCountMismatch(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return [][]float32{}, nil
	}
	pipeline, _ := newTestPipeline(t, embedder, WithRetry(1, time.Millisecond))

	source := writeTestDocument(t, "doc.txt", "Deductibles apply per occurrence unless stated otherwise.")
	_, err := pipeline.Ingest(context.Background(), source, "doc-3", "Doc")
	require.ErrorIs(t, err, ai.ErrEmbeddingService)
	assert.Contains(t, err.Error(), "expected 1 vectors, received 0")
}

func TestIngestAsync(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	pipeline, store := newTestPipeline(t, embedder)

	source := writeTestDocument(t, "doc.txt", "Notice of claim must be given as soon as practicable.")
	require.NoError(t, pipeline.IngestAsync(source, "async-1", "Async Doc"))

	deadline := time.Now().Add(5 * time.Second)
	for {
		document, err := store.GetDocument(context.Background(), "async-1")
		if err == nil && document.State == core.DocumentStateCompleted {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("document did not reach completed state in time")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestReingestReplacesPreviousChunks(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	pipeline, store := newTestPipeline(t, embedder)
	ctx := context.Background()

	long := strings.Repeat("The insurer shall pay covered losses under section four. ", 200)
	count, err := pipeline.IngestText(ctx, long, "policy-1", "Policy")
	require.NoError(t, err)
	require.Greater(t, count, 1)

	size, err := store.CollectionSize(ctx, "policy-1")
	require.NoError(t, err)
	require.Equal(t, count, size)

	// A much shorter revision of the same document must not leave chunks
	// from the first run behind.
	count, err = pipeline.IngestText(ctx, "The policy is void on nonpayment.", "policy-1", "Policy")
	require.NoError(t, err)
	require.Equal(t, 1, count)

	size, err = store.CollectionSize(ctx, "policy-1")
	require.NoError(t, err)
	assert.Equal(t, 1, size)

	document, err := store.GetDocument(ctx, "policy-1")
	require.NoError(t, err)
	assert.Equal(t, 1, document.ChunkCount)
	assert.Equal(t, core.DocumentStateCompleted, document.State)
}

func TestIngestBatchesEmbeddings(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	var batchSizes []int
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		batchSizes = append(batchSizes, len(texts))
		vectors := make([][]float32, len(texts))
		for i := range texts {
			vectors[i] = []float32{1, 0}
		}
		return vectors, nil
	}
	pipeline, _ := newTestPipeline(t, embedder, WithEmbeddingBatchSize(2))

	text := strings.Repeat("Each endorsement modifies the policy to which it is attached. ", 200)
	source := writeTestDocument(t, "doc.txt", text)

	count, err := pipeline.Ingest(context.Background(), source, "batch-1", "Doc")
	require.NoError(t, err)
	require.Greater(t, count, 2)

	var total int
	for _, size := range batchSizes {
		assert.LessOrEqual(t, size, 2)
		total += size
	}
	assert.Equal(t, count, total)
}
