package retrieval

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siherrmann/grounder/core/pipeline"
	"github.com/siherrmann/grounder/model"
)

var testNow = time.Date(2026, time.August, 1, 12, 0, 0, 0, time.UTC)

func buildChunk(content string, url string, source model.Source, stats *pipeline.CorpusStats) model.Chunk {
	return model.Chunk{
		ID:        "doc0_chunk0",
		Content:   content,
		Metadata:  model.ChunkMetadata{URL: url, Title: "Test", Source: source},
		Embedding: pipeline.Embed(content, stats),
	}
}

func TestScorerScore(t *testing.T) {
	t.Run("Matching chunk scores above zero", func(t *testing.T) {
		stats := pipeline.NewCorpusStats()
		content := "Tungsten has a melting point of 3422 degrees celsius."
		stats.ObserveChunk(content)
		chunk := buildChunk(content, "https://example.com/metals", model.SourceWebSearch, stats)

		scorer := NewScorer("tungsten melting point", stats, testNow)

		assert.Greater(t, scorer.Score(chunk), 0.0)
	})

	t.Run("Encyclopedic source outranks identical web source", func(t *testing.T) {
		stats := pipeline.NewCorpusStats()
		content := "Tungsten has a melting point of 3422 degrees celsius."
		stats.ObserveChunk(content)
		wiki := buildChunk(content, "https://en.wikipedia.org/wiki/Tungsten", model.SourceWikipedia, stats)
		web := buildChunk(content, "https://example.com/metals", model.SourceWebSearch, stats)

		scorer := NewScorer("tungsten melting point", stats, testNow)

		assert.Greater(t, scorer.Score(wiki), scorer.Score(web))
	})

	t.Run("Fresh content outranks stale content on time sensitive queries", func(t *testing.T) {
		stats := pipeline.NewCorpusStats()
		content := "Fusion experiments produced record energy output at the facility."
		stats.ObserveChunk(content)
		fresh := buildChunk(content, "https://a.example.com/2026/story", model.SourceWebSearch, stats)
		stale := buildChunk(content, "https://b.example.com/2022/story", model.SourceWebSearch, stats)

		scorer := NewScorer("latest fusion energy output", stats, testNow)
		results := scorer.ScoreAll([]model.Chunk{stale, fresh})

		require.Len(t, results, 2)
		assert.Equal(t, "https://a.example.com/2026/story", results[0].Metadata.URL)
	})

	t.Run("Results are sorted descending", func(t *testing.T) {
		stats := pipeline.NewCorpusStats()
		relevant := "Tungsten has a melting point of 3422 degrees celsius."
		unrelated := "Medieval gardens featured roses and herbs along stone paths."
		stats.ObserveChunk(relevant)
		stats.ObserveChunk(unrelated)

		scorer := NewScorer("tungsten melting point", stats, testNow)
		results := scorer.ScoreAll([]model.Chunk{
			buildChunk(unrelated, "https://example.com/gardens", model.SourceWebSearch, stats),
			buildChunk(relevant, "https://example.com/metals", model.SourceWebSearch, stats),
		})

		require.Len(t, results, 2)
		assert.GreaterOrEqual(t, results[0].Score, results[1].Score)
		assert.Contains(t, results[0].Content, "Tungsten")
	})
}

func TestTermPresence(t *testing.T) {
	t.Run("No query term present yields exactly zero", func(t *testing.T) {
		stats := pipeline.NewCorpusStats()
		scorer := NewScorer("tungsten melting point", stats, testNow)

		presence := scorer.termPresence("Medieval gardens featured roses and herbs.")

		assert.Zero(t, presence)
	})

	t.Run("More covered terms never score lower", func(t *testing.T) {
		stats := pipeline.NewCorpusStats()
		scorer := NewScorer("tungsten melting point", stats, testNow)

		full := scorer.termPresence("The tungsten melting point is well documented.")
		partial := scorer.termPresence("The tungsten sample was heavy.")

		assert.GreaterOrEqual(t, full, partial)
		assert.Greater(t, partial, 0.0)
	})

	t.Run("Query without significant terms yields zero", func(t *testing.T) {
		stats := pipeline.NewCorpusStats()
		scorer := NewScorer("what is it", stats, testNow)

		assert.Zero(t, scorer.termPresence("Any content at all."))
	})

	t.Run("Word boundaries prevent substring matches", func(t *testing.T) {
		stats := pipeline.NewCorpusStats()
		scorer := NewScorer("point scoring", stats, testNow)

		assert.Zero(t, scorer.termPresence("The appointment was disappointing."))
	})
}

func TestCosineSimilarity(t *testing.T) {
	t.Run("Identical vectors score one", func(t *testing.T) {
		a := []float64{0.5, 0.3, 0, 0.2}
		assert.InDelta(t, 1.0, cosineSimilarity(a, a), 1e-9)
	})

	t.Run("Orthogonal vectors score zero", func(t *testing.T) {
		a := []float64{1, 0, 0, 0}
		b := []float64{0, 1, 0, 0}
		assert.InDelta(t, 0.0, cosineSimilarity(a, b), 1e-9)
	})

	t.Run("Zero vector scores zero", func(t *testing.T) {
		a := []float64{1, 2, 3}
		zero := []float64{0, 0, 0}
		assert.Zero(t, cosineSimilarity(a, zero))
	})

	t.Run("Sparsity mismatch is penalized", func(t *testing.T) {
		sparse := []float64{1, 0, 0, 0, 0, 0, 0, 0}
		dense := []float64{1, 1, 1, 1, 1, 1, 1, 1}

		similarity := cosineSimilarity(sparse, dense)

		// Raw cosine would be 1/sqrt(8), the scale knocks it down further.
		assert.Less(t, similarity, 1.0/2.828)
	})
}
