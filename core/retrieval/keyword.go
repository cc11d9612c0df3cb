package retrieval

import (
	"sort"
	"strings"

	"github.com/siherrmann/grounder/core/pipeline"
	"github.com/siherrmann/grounder/model"
)

// MatchKeywords scores chunks by literal query term occurrence, independent
// of embeddings. Later query terms weigh slightly more, repeated and unique
// matches both add a bonus. Chunks below a fixed threshold are dropped.
func MatchKeywords(chunks []model.Chunk, query string, limit int) []model.ScoredResult {
	terms := pipeline.QueryKeyTerms(query)
	if len(terms) == 0 {
		return nil
	}

	var results []model.ScoredResult
	for _, chunk := range chunks {
		content := strings.ToLower(chunk.Content)

		score := 0.0
		unique := 0
		for i, term := range terms {
			matches := strings.Count(content, term)
			if matches == 0 {
				continue
			}
			unique++

			termWeight := 1.0 + float64(i)/float64(len(terms))
			capped := matches
			if capped > 5 {
				capped = 5
			}
			score += float64(matches) * termWeight * (1.0 + 0.1*float64(capped))
		}
		if unique == 0 {
			continue
		}
		score *= 1.0 + 0.2*float64(unique)

		if score > 1.0 {
			results = append(results, model.ScoredResult{
				Content:  chunk.Content,
				Metadata: chunk.Metadata,
				Score:    score,
			})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

// MergeKeywordMatches folds keyword matches into vector scored results at
// half weight, skipping matches that duplicate an already present result
// from the same URL. The merged list is re-sorted and truncated to limit.
func MergeKeywordMatches(results []model.ScoredResult, matches []model.ScoredResult, limit int) []model.ScoredResult {
	merged := make([]model.ScoredResult, len(results))
	copy(merged, results)

	for _, match := range matches {
		match.Score *= 0.5

		duplicate := false
		for _, existing := range merged {
			if existing.Metadata.URL == match.Metadata.URL &&
				ContentSimilarity(existing.Content, match.Content) > 0.3 {
				duplicate = true
				break
			}
		}
		if !duplicate {
			merged = append(merged, match)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Score > merged[j].Score
	})
	if len(merged) > limit {
		merged = merged[:limit]
	}
	return merged
}
