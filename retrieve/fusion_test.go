package retrieve

import (
	"testing"

	"github.com/poiesic/counsel/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// identity passes raw scores through unchanged, isolating fusion arithmetic
// from normalization in tests.
func identity(scores []float32) []float32 {
	return scores
}

func scored(document string, seq int, score float32, source core.ResultSource) core.ScoredChunk {
	return core.ScoredChunk{
		Chunk: &core.Chunk{
			Id:       core.ChunkID(document, seq),
			Document: document,
			Seq:      seq,
			Text:     "text",
		},
		Score:  score,
		Source: source,
	}
}

func TestMinMaxNormalize(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, MinMaxNormalize(nil))
	})

	t.Run("rescales to unit interval", func(t *testing.T) {
		normalized := MinMaxNormalize([]float32{2, 4, 6})
		require.Len(t, normalized, 3)
		assert.InDelta(t, 0.0, normalized[0], 1e-6)
		assert.InDelta(t, 0.5, normalized[1], 1e-6)
		assert.InDelta(t, 1.0, normalized[2], 1e-6)
	})

	t.Run("constant set maps to ones", func(t *testing.T) {
		normalized := MinMaxNormalize([]float32{0.4, 0.4, 0.4})
		for _, s := range normalized {
			assert.InDelta(t, 1.0, s, 1e-6)
		}
	})

	t.Run("single score maps to one", func(t *testing.T) {
		normalized := MinMaxNormalize([]float32{0.9})
		require.Len(t, normalized, 1)
		assert.InDelta(t, 1.0, normalized[0], 1e-6)
	})
}

func TestFuse_BothComponents(t *testing.T) {
	vector := []core.ScoredChunk{scored("d", 0, 0.6, core.SourceVector)}
	keyword := []core.ScoredChunk{scored("d", 0, 0.8, core.SourceKeyword)}

	fused := Fuse(vector, keyword, 0.3, identity)
	require.Len(t, fused, 1)

	// 0.3*0.8 + 0.7*0.6
	assert.InDelta(t, 0.66, fused[0].Score, 1e-6)
	assert.Equal(t, core.SourceFused, fused[0].Source)
}

func TestFuse_KeywordOnlyChunk(t *testing.T) {
	// A chunk found only by keyword search contributes 0 for the vector
	// component: 0.3*0.9 + 0.7*0 = 0.27
	keyword := []core.ScoredChunk{scored("d", 5, 0.9, core.SourceKeyword)}

	fused := Fuse(nil, keyword, 0.3, identity)
	require.Len(t, fused, 1)
	assert.InDelta(t, 0.27, fused[0].Score, 1e-6)
}

func TestFuse_VectorOnlyChunk(t *testing.T) {
	vector := []core.ScoredChunk{scored("d", 2, 0.5, core.SourceVector)}

	fused := Fuse(vector, nil, 0.3, identity)
	require.Len(t, fused, 1)
	assert.InDelta(t, 0.35, fused[0].Score, 1e-6)
}

func TestFuse_Ranking(t *testing.T) {
	vector := []core.ScoredChunk{
		scored("d", 0, 0.2, core.SourceVector),
		scored("d", 1, 0.9, core.SourceVector),
	}
	keyword := []core.ScoredChunk{
		scored("d", 0, 0.9, core.SourceKeyword),
		scored("d", 2, 0.4, core.SourceKeyword),
	}

	fused := Fuse(vector, keyword, 0.3, identity)
	require.Len(t, fused, 3)

	// seq 1: 0.7*0.9 = 0.63; seq 0: 0.3*0.9 + 0.7*0.2 = 0.41; seq 2: 0.3*0.4 = 0.12
	assert.Equal(t, 1, fused[0].Chunk.Seq)
	assert.Equal(t, 0, fused[1].Chunk.Seq)
	assert.Equal(t, 2, fused[2].Chunk.Seq)
}

func TestFuse_TieBreaksBySequence(t *testing.T) {
	vector := []core.ScoredChunk{
		scored("d", 7, 0.5, core.SourceVector),
		scored("d", 1, 0.5, core.SourceVector),
		scored("d", 4, 0.5, core.SourceVector),
	}

	fused := Fuse(vector, nil, 0.3, identity)
	require.Len(t, fused, 3)
	assert.Equal(t, 1, fused[0].Chunk.Seq)
	assert.Equal(t, 4, fused[1].Chunk.Seq)
	assert.Equal(t, 7, fused[2].Chunk.Seq)
}

func TestFuse_NormalizationIndependence(t *testing.T) {
	// With min-max normalization the sub-query scales don't matter, only
	// relative ordering within each set
	vector := []core.ScoredChunk{
		scored("d", 0, 100, core.SourceVector),
		scored("d", 1, 900, core.SourceVector),
	}
	keyword := []core.ScoredChunk{
		scored("d", 0, 0.001, core.SourceKeyword),
		scored("d", 1, 0.009, core.SourceKeyword),
	}

	fused := Fuse(vector, keyword, 0.3, MinMaxNormalize)
	require.Len(t, fused, 2)

	// seq 1 is the max of both sets: 0.3*1 + 0.7*1 = 1
	assert.Equal(t, 1, fused[0].Chunk.Seq)
	assert.InDelta(t, 1.0, fused[0].Score, 1e-6)
	// seq 0 is the min of both sets
	assert.InDelta(t, 0.0, fused[1].Score, 1e-6)
}
