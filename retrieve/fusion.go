package retrieve

import (
	"slices"

	"github.com/poiesic/counsel/core"
)

// Normalizer maps a set of raw sub-query scores onto [0,1]. The vector and
// keyword score sets are normalized independently before fusion so the two
// scales are comparable.
type Normalizer func(scores []float32) []float32

// MinMaxNormalize is the default Normalizer. Scores are rescaled so the
// minimum maps to 0 and the maximum to 1. A constant score set maps to all
// ones: every candidate matched equally well, none should be discounted.
func MinMaxNormalize(scores []float32) []float32 {
	if len(scores) == 0 {
		return scores
	}

	min, max := scores[0], scores[0]
	for _, s := range scores[1:] {
		if s < min {
			min = s
		}
		if s > max {
			max = s
		}
	}

	normalized := make([]float32, len(scores))
	if max == min {
		for i := range normalized {
			normalized[i] = 1.0
		}
		return normalized
	}

	span := max - min
	for i, s := range scores {
		normalized[i] = (s - min) / span
	}
	return normalized
}

// Fuse combines vector and keyword sub-query results into a single ranking.
// Each set's scores are normalized independently, then combined per chunk as
//
//	fused = alpha*keyword + (1-alpha)*vector
//
// A chunk present in only one set contributes 0 for the missing component.
// The result is ordered by fused score descending, ties broken by ascending
// chunk sequence index.
func Fuse(vectorResults, keywordResults []core.ScoredChunk, alpha float32, normalize Normalizer) []core.ScoredChunk {
	vectorScores := normalizeSet(vectorResults, normalize)
	keywordScores := normalizeSet(keywordResults, normalize)

	type entry struct {
		chunk   *core.Chunk
		vector  float32
		keyword float32
	}

	merged := make(map[core.ID]*entry, len(vectorResults)+len(keywordResults))
	for i, result := range vectorResults {
		merged[result.Chunk.Id] = &entry{chunk: result.Chunk, vector: vectorScores[i]}
	}
	for i, result := range keywordResults {
		if e, ok := merged[result.Chunk.Id]; ok {
			e.keyword = keywordScores[i]
		} else {
			merged[result.Chunk.Id] = &entry{chunk: result.Chunk, keyword: keywordScores[i]}
		}
	}

	fused := make([]core.ScoredChunk, 0, len(merged))
	for _, e := range merged {
		fused = append(fused, core.ScoredChunk{
			Chunk:  e.chunk,
			Score:  alpha*e.keyword + (1-alpha)*e.vector,
			Source: core.SourceFused,
		})
	}

	slices.SortFunc(fused, func(a, b core.ScoredChunk) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return a.Chunk.Seq - b.Chunk.Seq
	})

	return fused
}

// normalizeSet applies the normalizer to the scores of a result set.
func normalizeSet(results []core.ScoredChunk, normalize Normalizer) []float32 {
	scores := make([]float32, len(results))
	for i, result := range results {
		scores[i] = result.Score
	}
	return normalize(scores)
}
