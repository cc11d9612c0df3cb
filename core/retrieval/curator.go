package retrieval

import (
	"sort"

	"github.com/siherrmann/grounder/model"
)

const (
	// specialSourceCap bounds how many encyclopedic or news chunks enter the
	// recombination per class.
	specialSourceCap = 3

	// Jaccard overlap above which a second chunk from the same URL is
	// considered a duplicate.
	duplicateThresholdSpecial  = 0.7
	duplicateThresholdStandard = 0.5
)

// Curate turns scored candidates into the final result set: drops chunks
// below the quality floor, caps each source class, deduplicates by URL and
// guarantees that encyclopedic and news sources stay represented when they
// were present among the candidates.
func Curate(candidates []model.ScoredResult, limit int, qualityFloor float64) []model.ScoredResult {
	if limit <= 0 || len(candidates) == 0 {
		return nil
	}

	var survivors []model.ScoredResult
	for _, candidate := range candidates {
		if candidate.Score > qualityFloor {
			survivors = append(survivors, candidate)
		}
	}

	combined := partitionBySource(survivors, limit)
	deduped := dedupeByURL(combined)

	final := deduped
	if len(final) > limit {
		final = final[:limit]
	}

	final = ensureSourceClass(final, candidates, limit, model.ChunkMetadata.Encyclopedic, nil)
	final = ensureSourceClass(final, candidates, limit, model.ChunkMetadata.News, protectedSet(final, model.ChunkMetadata.Encyclopedic))

	sort.SliceStable(final, func(i, j int) bool {
		return final[i].Score > final[j].Score
	})
	return final
}

// partitionBySource takes the top chunks per source class and recombines
// them sorted by score. Input must be sorted descending.
func partitionBySource(survivors []model.ScoredResult, limit int) []model.ScoredResult {
	var encyclopedic, news, other []model.ScoredResult
	for _, survivor := range survivors {
		switch {
		case survivor.Metadata.Encyclopedic() && len(encyclopedic) < specialSourceCap:
			encyclopedic = append(encyclopedic, survivor)
		case survivor.Metadata.News() && !survivor.Metadata.Encyclopedic() && len(news) < specialSourceCap:
			news = append(news, survivor)
		case !survivor.Metadata.Special() && len(other) < limit:
			other = append(other, survivor)
		}
	}

	combined := make([]model.ScoredResult, 0, len(encyclopedic)+len(news)+len(other))
	combined = append(combined, encyclopedic...)
	combined = append(combined, news...)
	combined = append(combined, other...)
	sort.SliceStable(combined, func(i, j int) bool {
		return combined[i].Score > combined[j].Score
	})
	return combined
}

// dedupeByURL keeps the highest scoring chunk per URL plus at most one
// sufficiently different bonus chunk. Special sources get a permissive
// overlap threshold.
func dedupeByURL(combined []model.ScoredResult) []model.ScoredResult {
	var deduped []model.ScoredResult
	firstByURL := make(map[string]model.ScoredResult)
	bonusUsed := make(map[string]bool)

	for _, result := range combined {
		first, seen := firstByURL[result.Metadata.URL]
		if !seen {
			firstByURL[result.Metadata.URL] = result
			deduped = append(deduped, result)
			continue
		}
		if bonusUsed[result.Metadata.URL] {
			continue
		}

		threshold := duplicateThresholdStandard
		if result.Metadata.Special() {
			threshold = duplicateThresholdSpecial
		}
		if ContentSimilarity(first.Content, result.Content) < threshold {
			bonusUsed[result.Metadata.URL] = true
			deduped = append(deduped, result)
		}
	}
	return deduped
}

// ensureSourceClass re-inserts the best candidate of a source class when the
// class existed among the candidates but vanished from the final slice. At
// capacity the lowest scoring unprotected slot is evicted.
func ensureSourceClass(final []model.ScoredResult, candidates []model.ScoredResult, limit int, isClass func(model.ChunkMetadata) bool, protected map[int]bool) []model.ScoredResult {
	for _, result := range final {
		if isClass(result.Metadata) {
			return final
		}
	}

	var best *model.ScoredResult
	for i := range candidates {
		if isClass(candidates[i].Metadata) && (best == nil || candidates[i].Score > best.Score) {
			best = &candidates[i]
		}
	}
	if best == nil || len(final) == 0 {
		return final
	}

	if len(final) < limit {
		return append(final, *best)
	}

	evict := -1
	for i := range final {
		if protected[i] {
			continue
		}
		if evict == -1 || final[i].Score < final[evict].Score {
			evict = i
		}
	}
	if evict == -1 {
		return final
	}
	final[evict] = *best
	return final
}

func protectedSet(final []model.ScoredResult, isClass func(model.ChunkMetadata) bool) map[int]bool {
	protected := make(map[int]bool)
	for i, result := range final {
		if isClass(result.Metadata) {
			protected[i] = true
		}
	}
	return protected
}
