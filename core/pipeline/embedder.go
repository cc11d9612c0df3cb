package pipeline

import (
	"sort"
	"strings"
)

// EmbeddingDim is the fixed length of every sparse feature embedding.
const EmbeddingDim = 128

const bigramWeight = 0.8

// significantTokens filters tokens down to words long enough to carry
// meaning, preserving order.
func significantTokens(tokens []string) []string {
	words := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if len(token) <= 2 || IsStopWord(token) {
			continue
		}
		words = append(words, token)
	}
	return words
}

// featureCounts extracts weighted unigram and bigram occurrence counts from
// an ordered word list. Bigram terms join their words with an underscore.
func featureCounts(tokens []string) map[string]float64 {
	words := significantTokens(tokens)

	counts := make(map[string]float64, len(words)*2)
	for _, word := range words {
		counts[word] += 1.0
	}
	for i := 0; i+1 < len(words); i++ {
		counts[words[i]+"_"+words[i+1]] += bigramWeight
	}
	return counts
}

// Embed projects text into a fixed 128 dimensional sparse vector. Feature
// weights combine occurrence count, position of first occurrence and the
// corpus IDF of the term; the strongest 128 features fill the vector in
// deterministic order.
func Embed(text string, stats *CorpusStats) []float64 {
	tokens := Tokenize(text)
	counts := featureCounts(tokens)

	type feature struct {
		term   string
		weight float64
	}
	features := make([]feature, 0, len(counts))
	for term, count := range counts {
		// Position counts every token, stop words included, so features
		// deep in verbose text decay regardless of their surroundings.
		pos := firstPosition(tokens, term)
		posWeight := 1.0
		if pos >= 0 {
			capped := pos
			if capped > 100 {
				capped = 100
			}
			posWeight = 1.0 - float64(capped)/100.0*0.5
		}
		features = append(features, feature{
			term:   term,
			weight: count * posWeight * stats.IDF(term),
		})
	}

	// Weight descending, term ascending on ties, so identical input always
	// yields an identical vector.
	sort.Slice(features, func(i, j int) bool {
		if features[i].weight != features[j].weight {
			return features[i].weight > features[j].weight
		}
		return features[i].term < features[j].term
	})
	if len(features) > EmbeddingDim {
		features = features[:EmbeddingDim]
	}

	norm := float64(len(tokens))
	if norm < 1 {
		norm = 1
	}

	vector := make([]float64, EmbeddingDim)
	for i, f := range features {
		vector[i] = f.weight / norm
	}
	return vector
}

// firstPosition finds the index of the first word of a feature term in the
// full token sequence, -1 if absent.
func firstPosition(tokens []string, term string) int {
	head := term
	if i := strings.IndexByte(term, '_'); i >= 0 {
		head = term[:i]
	}
	for i, token := range tokens {
		if token == head {
			return i
		}
	}
	return -1
}
