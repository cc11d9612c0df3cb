package retrieval

import (
	"github.com/siherrmann/grounder/core/pipeline"
)

// ContentSimilarity computes the Jaccard similarity of the word sets of two
// texts, ignoring words of up to two characters.
func ContentSimilarity(a string, b string) float64 {
	setA := wordSet(a)
	setB := wordSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0.0
	}

	shared := 0
	for word := range setA {
		if _, ok := setB[word]; ok {
			shared++
		}
	}
	union := len(setA) + len(setB) - shared

	return float64(shared) / float64(union)
}

func wordSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, word := range pipeline.Tokenize(text) {
		if len(word) > 2 {
			set[word] = struct{}{}
		}
	}
	return set
}
