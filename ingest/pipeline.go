package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/counsel/ai"
	"github.com/poiesic/counsel/chunker"
	"github.com/poiesic/counsel/core"
	"github.com/poiesic/counsel/index"
)

// Pipeline orchestrates document ingestion: extraction, chunking, batched
// embedding, and index upload, advancing the document's lifecycle state at
// each stage.
type Pipeline struct {
	vectorIndex    index.VectorIndex
	documents      index.DocumentStore
	embedder       ai.Embedder
	chunker        *chunker.Chunker
	extractor      TextExtractor
	pool           *ants.Pool
	batchSize      int
	retryAttempts  int
	retryBaseDelay time.Duration
	logger         *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for asynchronous ingestion.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		if p.pool != nil {
			p.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithExtractor sets a custom text extractor.
// Default is the built-in plain-text extractor.
func WithExtractor(extractor TextExtractor) Option {
	return func(p *Pipeline) error {
		if extractor == nil {
			extractor = NewPlainTextExtractor()
		}
		p.extractor = extractor
		return nil
	}
}

// WithEmbeddingBatchSize sets how many chunk texts go to the embedder per
// call. Default is 128.
func WithEmbeddingBatchSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		p.batchSize = size
		return nil
	}
}

// WithRetry configures retry behavior for embedding calls.
// Defaults are 3 attempts with a 500ms base delay.
func WithRetry(maxAttempts int, baseDelay time.Duration) Option {
	return func(p *Pipeline) error {
		if maxAttempts < 1 {
			return ErrInvalidMaxAttempts
		}
		p.retryAttempts = maxAttempts
		p.retryBaseDelay = baseDelay
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	vectorIndex index.VectorIndex,
	documents index.DocumentStore,
	provider ai.Provider,
	ck *chunker.Chunker,
	opts ...Option,
) (*Pipeline, error) {
	if vectorIndex == nil {
		return nil, ErrVectorIndexRequired
	}
	if documents == nil {
		return nil, ErrDocumentStoreRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}
	if ck == nil {
		return nil, ErrChunkerRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		vectorIndex:    vectorIndex,
		documents:      documents,
		embedder:       provider.Embedder(),
		chunker:        ck,
		extractor:      NewPlainTextExtractor(),
		pool:           pool,
		batchSize:      128,
		retryAttempts:  3,
		retryBaseDelay: 500 * time.Millisecond,
		logger:         slog.Default().With("component", "ingest-pipeline"),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// Ingest processes a document synchronously and returns its chunk count.
// The document record is created in the pending state and advances through
// chunking, embedding, and completed; any failure leaves it in the failed
// state with the causal error returned to the caller.
func (p *Pipeline) Ingest(ctx context.Context, source, identifier, title string) (int, error) {
	document := &core.Document{
		Identifier: identifier,
		Title:      title,
		SourceURL:  source,
		State:      core.DocumentStatePending,
	}
	if err := p.documents.PutDocument(ctx, document); err != nil {
		return 0, err
	}

	count, err := p.process(ctx, document, source)
	if err != nil {
		p.markFailed(ctx, identifier)
		return 0, err
	}
	return count, nil
}

// IngestText ingests already-extracted plain text, bypassing the extractor.
// Used for one-shot question answering where the caller holds the document
// text directly.
func (p *Pipeline) IngestText(ctx context.Context, text, identifier, title string) (int, error) {
	document := &core.Document{
		Identifier: identifier,
		Title:      title,
		State:      core.DocumentStatePending,
	}
	if err := p.documents.PutDocument(ctx, document); err != nil {
		return 0, err
	}

	count, err := p.processText(ctx, document, text)
	if err != nil {
		p.markFailed(ctx, identifier)
		return 0, err
	}
	return count, nil
}

func (p *Pipeline) markFailed(ctx context.Context, identifier string) {
	if err := p.documents.SetDocumentState(ctx, identifier, core.DocumentStateFailed); err != nil {
		p.logger.Error("failed to mark document failed", "document", identifier, "err", err)
	}
}

// process runs extraction through upload for an already-registered document.
func (p *Pipeline) process(ctx context.Context, document *core.Document, source string) (int, error) {
	text, err := p.extractor.Extract(ctx, source)
	if err != nil {
		return 0, err
	}
	return p.processText(ctx, document, text)
}

// IngestAsync submits a document for background ingestion on the worker
// pool. Errors are logged, not returned; poll the document store for the
// resulting lifecycle state.
func (p *Pipeline) IngestAsync(source, identifier, title string) error {
	return p.pool.Submit(func() {
		if _, err := p.Ingest(context.Background(), source, identifier, title); err != nil {
			p.logger.Error("background ingestion failed",
				"document", identifier,
				"source", source,
				"err", err)
		}
	})
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}

// processText runs chunking through upload for an already-registered document.
func (p *Pipeline) processText(ctx context.Context, document *core.Document, text string) (int, error) {
	if err := p.documents.SetDocumentState(ctx, document.Identifier, core.DocumentStateChunking); err != nil {
		return 0, err
	}

	chunks, err := p.chunker.Chunk(document.Identifier, text)
	if err != nil {
		return 0, err
	}

	if err := p.documents.SetDocumentState(ctx, document.Identifier, core.DocumentStateEmbedding); err != nil {
		return 0, err
	}

	if err := p.embedChunks(ctx, chunks); err != nil {
		return 0, err
	}

	// Re-ingestion replaces the collection wholesale. Without the delete a
	// shorter document would leave stale chunks from the previous run past
	// its new tail.
	if err := p.vectorIndex.DeleteCollection(ctx, document.Identifier); err != nil {
		return 0, err
	}
	if err := p.vectorIndex.UpsertChunks(ctx, document.Identifier, chunks...); err != nil {
		return 0, err
	}

	document.State = core.DocumentStateCompleted
	document.ChunkCount = len(chunks)
	document.TextLength = len(text)
	if err := p.documents.PutDocument(ctx, document); err != nil {
		return 0, err
	}

	p.logger.Info("document ingested",
		"document", document.Identifier,
		"chunks", len(chunks),
		"textLength", len(text))

	return len(chunks), nil
}

// embedChunks embeds chunk texts in batches and attaches unit-normalized
// vectors. Each batch call is retried with exponential backoff before the
// whole ingestion is failed.
func (p *Pipeline) embedChunks(ctx context.Context, chunks []*core.Chunk) error {
	for start := 0; start < len(chunks); start += p.batchSize {
		end := start + p.batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		texts := make([]string, len(batch))
		for i, chunk := range batch {
			texts[i] = chunk.Text
		}

		var vectors [][]float32
		err := RetryWithBackoff(ctx, func() error {
			var embedErr error
			vectors, embedErr = p.embedder.EmbedTexts(ctx, texts)
			return embedErr
		}, p.retryAttempts, p.retryBaseDelay)
		if err != nil {
			return fmt.Errorf("%w: %w", ai.ErrEmbeddingService, err)
		}

		if len(vectors) != len(batch) {
			return fmt.Errorf("%w: expected %d vectors, received %d",
				ai.ErrEmbeddingService, len(batch), len(vectors))
		}

		for i, chunk := range batch {
			chunk.Vector = NormalizeVector(vectors[i])
		}
	}
	return nil
}
