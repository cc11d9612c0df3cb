package pipeline

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbed(t *testing.T) {
	t.Run("Vector always has fixed length", func(t *testing.T) {
		stats := NewCorpusStats()

		assert.Len(t, Embed("nuclear fusion powers the sun", stats), EmbeddingDim)
		assert.Len(t, Embed("", stats), EmbeddingDim)
	})

	t.Run("Identical input yields identical vectors", func(t *testing.T) {
		stats := NewCorpusStats()
		stats.ObserveChunk("fusion reactors confine plasma with magnetic fields")
		text := "fusion reactors confine plasma with magnetic fields"

		first := Embed(text, stats)
		second := Embed(text, stats)

		assert.Equal(t, first, second, "Expected embedding to be deterministic")
	})

	t.Run("Empty text yields the zero vector", func(t *testing.T) {
		vector := Embed("", NewCorpusStats())

		for _, value := range vector {
			require.Zero(t, value)
		}
	})

	t.Run("Meaningful text yields nonzero entries", func(t *testing.T) {
		vector := Embed("tungsten melts at extreme temperatures", NewCorpusStats())

		nonZero := 0
		for _, value := range vector {
			if value != 0 {
				nonZero++
			}
		}
		assert.Greater(t, nonZero, 0)
	})

	t.Run("Stop words contribute no features", func(t *testing.T) {
		stats := NewCorpusStats()
		vector := Embed("the of and with from", stats)

		for _, value := range vector {
			require.Zero(t, value)
		}
	})

	t.Run("Position and norm count stop words too", func(t *testing.T) {
		stats := NewCorpusStats()
		idf := stats.IDF("tungsten")

		front := Embed("tungsten", stats)
		// 120 stop word tokens push the term past the position cap.
		buried := Embed(strings.Repeat("the and of to in ", 24)+"tungsten", stats)

		assert.InDelta(t, idf, front[0], 1e-9)
		assert.InDelta(t, 0.5*idf/121.0, buried[0], 1e-9)
	})

	t.Run("Feature count never exceeds the dimension", func(t *testing.T) {
		long := ""
		for i := 0; i < 500; i++ {
			long += "segment" + string(rune('a'+i%26)) + "word "
		}
		vector := Embed(long, NewCorpusStats())

		assert.Len(t, vector, EmbeddingDim)
	})
}

func TestFeatureCounts(t *testing.T) {
	t.Run("Unigrams and bigrams are both extracted", func(t *testing.T) {
		counts := featureCounts([]string{"nuclear", "fusion", "reactor"})

		assert.Equal(t, 1.0, counts["nuclear"])
		assert.Equal(t, 1.0, counts["fusion"])
		assert.Equal(t, bigramWeight, counts["nuclear_fusion"])
		assert.Equal(t, bigramWeight, counts["fusion_reactor"])
	})

	t.Run("Stop words break no bigram filter", func(t *testing.T) {
		counts := featureCounts([]string{"speed", "of", "light"})

		// "of" is filtered out, so the remaining words form the bigram.
		assert.Equal(t, bigramWeight, counts["speed_light"])
		assert.NotContains(t, counts, "speed_of")
	})

	t.Run("Repeated words accumulate", func(t *testing.T) {
		counts := featureCounts([]string{"fusion", "fusion", "fusion"})

		assert.Equal(t, 3.0, counts["fusion"])
	})
}
