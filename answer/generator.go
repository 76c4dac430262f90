package answer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/poiesic/counsel/ai"
	"github.com/poiesic/counsel/core"
)

const defaultTimeout = 20 * time.Second

// Generator produces grounded answers from retrieved chunks. It builds a
// context-only prompt, enforces a hard timeout on the model call, and never
// retries; retry policy belongs to the caller.
type Generator struct {
	model   ai.Generator
	timeout time.Duration
	logger  *slog.Logger
}

// Option configures a Generator.
type Option func(*Generator) error

// WithTimeout sets the hard ceiling on a single model call.
// Default is 20 seconds.
func WithTimeout(timeout time.Duration) Option {
	return func(g *Generator) error {
		if timeout <= 0 {
			return ErrInvalidTimeout
		}
		g.timeout = timeout
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) error {
		if logger == nil {
			logger = slog.Default()
		}
		g.logger = logger
		return nil
	}
}

// NewGenerator creates a new answer generator.
func NewGenerator(provider ai.Provider, opts ...Option) (*Generator, error) {
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	g := &Generator{
		model:   provider.Generator(),
		timeout: defaultTimeout,
		logger:  slog.Default().With("component", "answer-generator"),
	}

	for _, opt := range opts {
		if err := opt(g); err != nil {
			return nil, err
		}
	}

	return g, nil
}

// Generate answers the question from the supplied chunks. With no chunks it
// returns InsufficientContextAnswer without calling the model. On timeout or
// model failure it surfaces ErrGenerationTimeout / ErrGenerationFailed.
func (g *Generator) Generate(ctx context.Context, question string, chunks []core.ScoredChunk) (string, error) {
	if len(chunks) == 0 {
		g.logger.Debug("no context retrieved, returning fixed answer", "question", question)
		return InsufficientContextAnswer, nil
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	text, err := g.model.Complete(ctx, answerSystemPrompt, buildUserPrompt(question, chunks))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
			g.logger.Warn("model call timed out", "question", question, "timeout", g.timeout)
			return "", fmt.Errorf("%w: %w", ErrGenerationTimeout, err)
		}
		g.logger.Error("model call failed", "question", question, "err", err)
		return "", fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%w: model returned empty response", ErrGenerationFailed)
	}

	return text, nil
}
