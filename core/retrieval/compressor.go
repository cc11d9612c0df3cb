package retrieval

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/siherrmann/grounder/core/pipeline"
	"github.com/siherrmann/grounder/model"
)

var numeralPattern = regexp.MustCompile(`\d`)

// answerIndicators are verbs that typically introduce factual statements.
var answerIndicators = []string{
	"is", "was", "are", "were", "has", "had", "used",
	"contains", "consists", "includes", "totals",
}

// Compress shrinks result contents in two passes: chunks ranked likely to
// contain the answer keep sentence context around their answer sentences,
// the rest are cut down to bare answer sentences. Result order is preserved.
func Compress(results []model.ScoredResult, query string) []model.ScoredResult {
	if len(results) == 0 {
		return results
	}
	terms := pipeline.QueryKeyTerms(query)

	type ranked struct {
		index      int
		likelihood float64
	}
	likelihoods := make([]ranked, len(results))
	for i, result := range results {
		likelihoods[i] = ranked{i, answerLikelihood(result, terms)}
	}
	sort.SliceStable(likelihoods, func(i, j int) bool {
		return likelihoods[i].likelihood > likelihoods[j].likelihood
	})

	lightCount := int(math.Ceil(0.4 * float64(len(results))))
	if lightCount < 1 {
		lightCount = 1
	}

	compressed := make([]model.ScoredResult, len(results))
	copy(compressed, results)
	for rank, entry := range likelihoods {
		if rank < lightCount {
			compressed[entry.index].Content = lightCompress(compressed[entry.index].Content, terms)
		} else {
			compressed[entry.index].Content = heavyCompress(compressed[entry.index].Content, terms)
		}
	}
	return compressed
}

// answerLikelihood estimates how likely a chunk is to contain the answer
// from its score, literal term presence, numerals and factual verbs.
func answerLikelihood(result model.ScoredResult, terms []string) float64 {
	lower := strings.ToLower(result.Content)

	likelihood := result.Score
	for _, term := range terms {
		if strings.Contains(lower, term) {
			likelihood += 0.2
		}
	}
	if numeralPattern.MatchString(result.Content) {
		likelihood += 0.3
	}

	words := make(map[string]struct{})
	for _, word := range pipeline.Tokenize(result.Content) {
		words[word] = struct{}{}
	}
	for _, indicator := range answerIndicators {
		if _, ok := words[indicator]; ok {
			likelihood += 0.1
		}
	}
	return likelihood
}

// lightCompress keeps answer sentences together with their immediate
// neighbors. Chunks of up to three sentences pass through unchanged.
func lightCompress(content string, terms []string) string {
	sentences := pipeline.SplitSentences(content)
	if len(sentences) <= 3 {
		return content
	}

	keep := make(map[int]bool)
	for i, sentence := range sentences {
		matches := termMatches(sentence, terms)
		hasNumeral := numeralPattern.MatchString(sentence)
		if (matches >= 1 && hasNumeral) || (matches > 1 && len(sentence) < 200) {
			if i > 0 {
				keep[i-1] = true
			}
			keep[i] = true
			if i+1 < len(sentences) {
				keep[i+1] = true
			}
		}
	}
	if len(keep) == 0 {
		return strings.Join(sentences[:2], " ")
	}

	var kept []string
	for i, sentence := range sentences {
		if keep[i] {
			kept = append(kept, sentence)
		}
	}
	return strings.Join(kept, " ")
}

// heavyCompress keeps only sentences matching at least two query terms and
// a numeral. Without any, the single densest sentence survives.
func heavyCompress(content string, terms []string) string {
	sentences := pipeline.SplitSentences(content)
	if len(sentences) == 0 {
		return content
	}

	var kept []string
	for _, sentence := range sentences {
		if termMatches(sentence, terms) >= 2 && numeralPattern.MatchString(sentence) {
			kept = append(kept, sentence)
		}
	}
	if len(kept) > 0 {
		return strings.Join(kept, " ")
	}

	best := 0
	bestMatches := -1
	for i, sentence := range sentences {
		if matches := termMatches(sentence, terms); matches > bestMatches {
			best = i
			bestMatches = matches
		}
	}
	return sentences[best]
}

func termMatches(sentence string, terms []string) int {
	lower := strings.ToLower(sentence)

	matches := 0
	for _, term := range terms {
		if strings.Contains(lower, term) {
			matches++
		}
	}
	return matches
}
