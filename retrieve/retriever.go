package retrieve

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/poiesic/counsel/ai"
	"github.com/poiesic/counsel/core"
	"github.com/poiesic/counsel/index"
)

// Retriever performs hybrid retrieval: a vector similarity search and a
// keyword search over the same collection, fused into one ranking.
type Retriever struct {
	index           index.VectorIndex
	embedder        ai.Embedder
	alpha           float32
	minTopK         int
	maxTopK         int
	candidateFactor int
	longDocChunks   int
	normalize       Normalizer
	logger          *slog.Logger
}

// Option configures a Retriever.
type Option func(*Retriever) error

// WithAlpha sets the keyword weight used in score fusion.
// Default is 0.3 (30% keyword, 70% vector).
func WithAlpha(alpha float32) Option {
	return func(r *Retriever) error {
		if alpha < 0 || alpha > 1 {
			return ErrInvalidAlpha
		}
		r.alpha = alpha
		return nil
	}
}

// WithTopKRange sets how many chunks retrieval returns: min for the
// shortest documents, scaling up to max for documents of longDocChunks
// chunks or more. Defaults are 3, 6, and 30.
func WithTopKRange(min, max, longDocChunks int) Option {
	return func(r *Retriever) error {
		if min < 1 || max < min || longDocChunks < 1 {
			return ErrInvalidTopKRange
		}
		r.minTopK = min
		r.maxTopK = max
		r.longDocChunks = longDocChunks
		return nil
	}
}

// WithCandidateFactor sets the sub-query over-fetch multiplier: each
// sub-query requests topK*factor candidates so fusion has enough overlap
// to work with. Default is 3.
func WithCandidateFactor(factor int) Option {
	return func(r *Retriever) error {
		if factor < 1 {
			factor = 1
		}
		r.candidateFactor = factor
		return nil
	}
}

// WithNormalizer sets the score normalization applied to each sub-query
// result set before fusion. Default is MinMaxNormalize.
func WithNormalizer(normalize Normalizer) Option {
	return func(r *Retriever) error {
		if normalize == nil {
			normalize = MinMaxNormalize
		}
		r.normalize = normalize
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Retriever) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// NewRetriever creates a new hybrid retriever.
func NewRetriever(idx index.VectorIndex, provider ai.Provider, opts ...Option) (*Retriever, error) {
	if idx == nil {
		return nil, ErrIndexRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	r := &Retriever{
		index:           idx,
		embedder:        provider.Embedder(),
		alpha:           0.3,
		minTopK:         3,
		maxTopK:         6,
		candidateFactor: 3,
		longDocChunks:   30,
		normalize:       MinMaxNormalize,
		logger:          slog.Default().With("component", "retriever"),
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// CheckCollection verifies a collection exists and the index is reachable.
// Intended as a cheap pre-flight before fanning out a batch of questions.
func (r *Retriever) CheckCollection(ctx context.Context, collection string) error {
	exists, err := r.index.HasCollection(ctx, collection)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRetrievalUnavailable, err)
	}
	if !exists {
		return index.ErrCollectionNotFound
	}
	return nil
}

// Retrieve runs both sub-queries for the question and fuses their results.
func (r *Retriever) Retrieve(ctx context.Context, query, collection string) (*core.RetrievalResult, error) {
	return r.RetrieveWithMonitor(ctx, query, collection, nil)
}

// RetrieveWithMonitor runs retrieval with monitoring callbacks at each stage.
func (r *Retriever) RetrieveWithMonitor(ctx context.Context, query, collection string, monitor RetrievalMonitor) (*core.RetrievalResult, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	monitor.Start(query)

	topK, err := r.topK(ctx, collection)
	if err != nil {
		return nil, err
	}
	candidates := topK * r.candidateFactor

	embedding, err := r.embedder.EmbedText(ctx, query)
	if err != nil {
		r.logger.Error("error generating embedding for query", "query", query, "err", err)
		return nil, fmt.Errorf("%w: %w", ai.ErrEmbeddingService, err)
	}

	vectorResults, err := r.index.VectorSearch(ctx, collection, embedding, candidates)
	if err != nil {
		r.logger.Error("vector search failed", "collection", collection, "err", err)
		return nil, r.wrapIndexErr(err)
	}
	monitor.AfterVectorSearch(vectorResults)

	keywordResults, err := r.index.KeywordSearch(ctx, collection, query, candidates)
	if err != nil {
		r.logger.Error("keyword search failed", "collection", collection, "err", err)
		return nil, r.wrapIndexErr(err)
	}
	monitor.AfterKeywordSearch(keywordResults)

	fused := Fuse(vectorResults, keywordResults, r.alpha, r.normalize)
	monitor.AfterFusion(fused)

	if len(fused) > topK {
		fused = fused[:topK]
	}

	result := &core.RetrievalResult{
		Query:  query,
		Chunks: fused,
	}
	monitor.Finish(result)

	r.logger.Debug("retrieval complete",
		"collection", collection,
		"topK", topK,
		"vectorHits", len(vectorResults),
		"keywordHits", len(keywordResults),
		"returned", len(result.Chunks))

	return result, nil
}

// topK scales the result count with document size: minTopK for the smallest
// collections up to maxTopK at longDocChunks chunks.
func (r *Retriever) topK(ctx context.Context, collection string) (int, error) {
	size, err := r.index.CollectionSize(ctx, collection)
	if err != nil {
		return 0, r.wrapIndexErr(err)
	}

	if size > r.longDocChunks {
		size = r.longDocChunks
	}
	return r.minTopK + (r.maxTopK-r.minTopK)*size/r.longDocChunks, nil
}

// wrapIndexErr maps backend failures to ErrRetrievalUnavailable while
// letting collection lookups pass through unchanged.
func (r *Retriever) wrapIndexErr(err error) error {
	if errors.Is(err, index.ErrCollectionNotFound) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrRetrievalUnavailable, err)
}
