package badger

import (
	"math"
	"strings"
)

// Stop words to filter out of keyword queries and chunk text
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "be": true, "is": true, "are": true,
	"was": true, "to": true, "of": true, "and": true, "in": true, "that": true,
	"have": true, "it": true, "for": true, "not": true, "on": true, "with": true,
	"as": true, "you": true, "do": true, "at": true, "this": true, "but": true,
	"by": true, "from": true, "shall": true, "any": true, "such": true, "or": true,
}

// tokenizeAndFilter splits text into words, lowercases, trims punctuation, and removes stop words
func tokenizeAndFilter(text string) []string {
	words := strings.Fields(text)
	filtered := make([]string, 0, len(words))

	for _, word := range words {
		// Lowercase and trim punctuation
		cleaned := strings.ToLower(strings.Trim(word, ".,!?;:'\"-()[]{}§"))

		// Skip stop words and empty strings
		if cleaned != "" && !stopWords[cleaned] {
			filtered = append(filtered, cleaned)
		}
	}

	return filtered
}

// termCounts builds a frequency map over filtered terms.
func termCounts(terms []string) map[string]int {
	counts := make(map[string]int, len(terms))
	for _, term := range terms {
		counts[term]++
	}
	return counts
}

// keywordScore scores a chunk against query terms. The dominant component
// is distinct-term coverage (fraction of distinct query terms present in
// the chunk); a small log-scaled term-frequency bonus separates chunks
// that match the same terms with different density.
func keywordScore(queryTerms map[string]int, chunkText string) float32 {
	if len(queryTerms) == 0 {
		return 0
	}

	chunkTerms := termCounts(tokenizeAndFilter(chunkText))

	matched := 0
	occurrences := 0
	for term := range queryTerms {
		if n, ok := chunkTerms[term]; ok {
			matched++
			occurrences += n
		}
	}
	if matched == 0 {
		return 0
	}

	coverage := float32(matched) / float32(len(queryTerms))
	bonus := float32(math.Log1p(float64(occurrences))) * 0.05
	return coverage + bonus
}
