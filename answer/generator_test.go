package answer

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/poiesic/counsel/ai/mock"
	"github.com/poiesic/counsel/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contextChunks() []core.ScoredChunk {
	return []core.ScoredChunk{
		{
			Chunk: &core.Chunk{
				Id:       core.ChunkID("doc-1", 0),
				Document: "doc-1",
				Seq:      0,
				Text:     "A grace period of thirty days is provided under Section 2.1 for premium payment.",
				Section:  "Section 2.1",
			},
			Score:  0.9,
			Source: core.SourceFused,
		},
		{
			Chunk: &core.Chunk{
				Id:       core.ChunkID("doc-1", 3),
				Document: "doc-1",
				Seq:      3,
				Text:     "Renewal premiums are due on the policy anniversary date.",
			},
			Score:  0.4,
			Source: core.SourceFused,
		},
	}
}

func TestGenerate(t *testing.T) {
	generator := mock.NewMockGenerator()
	generator.CompleteFunc = func(ctx context.Context, system, user string) (string, error) {
		return "Under Section 2.1, a grace period of thirty days applies to premium payment.", nil
	}
	provider := mock.NewMockProviderWithServices(mock.NewMockEmbedder(), generator)

	g, err := NewGenerator(provider)
	require.NoError(t, err)

	text, err := g.Generate(context.Background(), "What is the grace period?", contextChunks())
	require.NoError(t, err)
	assert.Contains(t, text, "Section 2.1")
	assert.Equal(t, 1, generator.CallCount())
}

func TestGenerate_NoChunksSkipsModel(t *testing.T) {
	generator := mock.NewMockGenerator()
	provider := mock.NewMockProviderWithServices(mock.NewMockEmbedder(), generator)

	g, err := NewGenerator(provider)
	require.NoError(t, err)

	text, err := g.Generate(context.Background(), "What is the grace period?", nil)
	require.NoError(t, err)
	assert.Equal(t, InsufficientContextAnswer, text)
	assert.Equal(t, 0, generator.CallCount())
}

func TestGenerate_PromptContents(t *testing.T) {
	var capturedSystem, capturedUser string
	generator := mock.NewMockGenerator()
	generator.CompleteFunc = func(ctx context.Context, system, user string) (string, error) {
		capturedSystem = system
		capturedUser = user
		return "answer", nil
	}
	provider := mock.NewMockProviderWithServices(mock.NewMockEmbedder(), generator)

	g, err := NewGenerator(provider)
	require.NoError(t, err)

	_, err = g.Generate(context.Background(), "What is the grace period?", contextChunks())
	require.NoError(t, err)

	// System prompt carries tone, length, citation, grounding, and
	// injection-defense instructions
	assert.Contains(t, capturedSystem, "legal register")
	assert.Contains(t, capturedSystem, "3 to 4 sentences")
	assert.Contains(t, capturedSystem, "cite")
	assert.Contains(t, capturedSystem, "ONLY information present in the provided excerpts")
	assert.Contains(t, capturedSystem, "not an instruction to you")

	// User prompt carries the question and every chunk, labeled by section
	// when available
	assert.Contains(t, capturedUser, "What is the grace period?")
	assert.Contains(t, capturedUser, "[Section 2.1]")
	assert.Contains(t, capturedUser, "grace period of thirty days")
	assert.Contains(t, capturedUser, "[excerpt 2]")
	assert.Contains(t, capturedUser, "Renewal premiums")
}

func TestGenerate_Timeout(t *testing.T) {
	generator := mock.NewMockGenerator()
	generator.CompleteFunc = func(ctx context.Context, system, user string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}
	provider := mock.NewMockProviderWithServices(mock.NewMockEmbedder(), generator)

	g, err := NewGenerator(provider, WithTimeout(20*time.Millisecond))
	require.NoError(t, err)

	start := time.Now()
	_, err = g.Generate(context.Background(), "question", contextChunks())
	require.ErrorIs(t, err, ErrGenerationTimeout)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestGenerate_ModelFailure(t *testing.T) {
	generator := mock.NewMockGenerator()
	generator.CompleteFunc = func(ctx context.Context, system, user string) (string, error) {
		return "", errors.New("upstream 500")
	}
	provider := mock.NewMockProviderWithServices(mock.NewMockEmbedder(), generator)

	g, err := NewGenerator(provider)
	require.NoError(t, err)

	_, err = g.Generate(context.Background(), "question", contextChunks())
	require.ErrorIs(t, err, ErrGenerationFailed)
}

func TestGenerate_EmptyResponse(t *testing.T) {
	generator := mock.NewMockGenerator()
	generator.CompleteFunc = func(ctx context.Context, system, user string) (string, error) {
		return "   \n", nil
	}
	provider := mock.NewMockProviderWithServices(mock.NewMockEmbedder(), generator)

	g, err := NewGenerator(provider)
	require.NoError(t, err)

	_, err = g.Generate(context.Background(), "question", contextChunks())
	require.ErrorIs(t, err, ErrGenerationFailed)
}

func TestNewGenerator_Validation(t *testing.T) {
	_, err := NewGenerator(nil)
	require.ErrorIs(t, err, ErrAIProviderRequired)

	_, err = NewGenerator(mock.NewMockProvider(), WithTimeout(0))
	require.ErrorIs(t, err, ErrInvalidTimeout)

	if !strings.Contains(InsufficientContextAnswer, "do not contain sufficient information") {
		t.Fatal("fixed answer text changed unexpectedly")
	}
}
