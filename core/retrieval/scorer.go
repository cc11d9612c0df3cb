// Package retrieval ranks, curates, compresses and formats stored chunks
// against a query.
package retrieval

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/siherrmann/grounder/core/pipeline"
	"github.com/siherrmann/grounder/model"
)

// Scorer ranks chunks against a single query. It precomputes the query
// embedding, key terms and their word boundary patterns once so scoring a
// chunk stays cheap.
type Scorer struct {
	stats          *pipeline.CorpusStats
	queryEmbedding []float64
	queryTerms     []string
	termPatterns   []*regexp.Regexp
	timeSensitive  bool
	now            time.Time
}

// NewScorer prepares a scorer for one query against the current corpus.
func NewScorer(query string, stats *pipeline.CorpusStats, now time.Time) *Scorer {
	terms := pipeline.QueryKeyTerms(query)
	patterns := make([]*regexp.Regexp, len(terms))
	for i, term := range terms {
		patterns[i] = regexp.MustCompile(`\b` + regexp.QuoteMeta(term) + `\b`)
	}

	return &Scorer{
		stats:          stats,
		queryEmbedding: pipeline.Embed(query, stats),
		queryTerms:     terms,
		termPatterns:   patterns,
		timeSensitive:  TimeSensitive(query),
		now:            now,
	}
}

// ScoreAll scores every chunk and returns the results sorted by combined
// score descending.
func (s *Scorer) ScoreAll(chunks []model.Chunk) []model.ScoredResult {
	results := make([]model.ScoredResult, 0, len(chunks))
	for _, chunk := range chunks {
		results = append(results, model.ScoredResult{
			Content:  chunk.Content,
			Metadata: chunk.Metadata,
			Score:    s.Score(chunk),
		})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}

// Score combines vector similarity, term presence, recency and source class
// into a single ranking score.
func (s *Scorer) Score(chunk model.Chunk) float64 {
	vectorScore := cosineSimilarity(s.queryEmbedding, chunk.Embedding)
	termScore := s.termPresence(chunk.Content)

	timestamp := ExtractTimestamp(chunk.Content, chunk.Metadata.URL, s.now)
	recency := RecencyBoost(timestamp, s.now, s.timeSensitive)

	return vectorScore * (1.0 + termScore) * recency * sourceBoost(chunk.Metadata)
}

// termPresence scores the chunk sentence by sentence. Each query term match
// contributes its IDF weight, sentences matching several distinct terms get
// a density multiplier, and the total is scaled by how much of the query the
// best sentence covers.
func (s *Scorer) termPresence(content string) float64 {
	if len(s.queryTerms) == 0 {
		return 0.0
	}

	totalTerms := float64(len(s.queryTerms))
	maxMatches := 0
	total := 0.0

	for _, sentence := range pipeline.SplitSentences(content) {
		lower := strings.ToLower(sentence)

		matches := 0
		score := 0.0
		for i, pattern := range s.termPatterns {
			if pattern.MatchString(lower) {
				matches++
				score += 0.35 * s.stats.IDF(s.queryTerms[i])
			}
		}
		if matches > 1 {
			score *= 1.0 + float64(matches)/totalTerms*1.5
		}
		if matches > maxMatches {
			maxMatches = matches
		}
		total += score
	}

	return total * (0.4 + 0.8*float64(maxMatches)/totalTerms)
}

// cosineSimilarity computes standard cosine similarity, scaled down when the
// two vectors differ strongly in how many informative entries they carry.
func cosineSimilarity(a []float64, b []float64) float64 {
	length := len(a)
	if len(b) < length {
		length = len(b)
	}

	dot, normA, normB := 0.0, 0.0, 0.0
	nonZeroA, nonZeroB := 0, 0
	for i := 0; i < length; i++ {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
		if a[i] != 0 {
			nonZeroA++
		}
		if b[i] != 0 {
			nonZeroB++
		}
	}
	if normA == 0 || normB == 0 {
		return 0.0
	}

	minNonZero, maxNonZero := nonZeroA, nonZeroB
	if minNonZero > maxNonZero {
		minNonZero, maxNonZero = maxNonZero, minNonZero
	}
	if maxNonZero < 1 {
		maxNonZero = 1
	}
	sparsityScale := 0.7 + 0.3*float64(minNonZero)/float64(maxNonZero)

	return dot / (math.Sqrt(normA) * math.Sqrt(normB)) * sparsityScale
}

func sourceBoost(metadata model.ChunkMetadata) float64 {
	switch {
	case metadata.Encyclopedic():
		return 1.2
	case metadata.News():
		return 1.1
	default:
		return 1.0
	}
}
