// Package store keeps the chunks and corpus statistics of one retrieval
// session in memory.
package store

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/siherrmann/grounder/core/pipeline"
	"github.com/siherrmann/grounder/core/retrieval"
	"github.com/siherrmann/grounder/helper"
	"github.com/siherrmann/grounder/model"
)

// Store indexes document chunks for a single query session. It is not safe
// for concurrent use, callers must serialize access.
type Store struct {
	id          uuid.UUID
	log         *slog.Logger
	chunks      []model.Chunk
	stats       *pipeline.CorpusStats
	initialized bool
	docCount    int
	now         func() time.Time
}

// NewStore creates an uninitialized session store.
func NewStore(log *slog.Logger) *Store {
	return &Store{
		id:  uuid.New(),
		log: log,
		now: time.Now,
	}
}

// Initialize resets chunks and corpus statistics and marks the store
// ready. Idempotent.
func (s *Store) Initialize() error {
	s.chunks = nil
	s.docCount = 0
	s.stats = pipeline.NewCorpusStats()
	s.initialized = true

	s.log.Debug("store initialized", "storeId", s.id.String())
	return nil
}

// AddDocuments chunks and indexes documents. Statistics for all new chunks
// are recorded before any chunk is embedded, so the embeddings of one batch
// share one corpus view. A document failing to produce chunks is skipped,
// the rest proceed.
func (s *Store) AddDocuments(documents []model.RawDocument) error {
	if !s.initialized {
		return helper.NewError("add documents", errors.New("store not initialized"))
	}

	type pending struct {
		id       string
		content  string
		metadata model.ChunkMetadata
	}
	var batch []pending

	for _, document := range documents {
		docIndex := s.docCount
		s.docCount++

		contents := pipeline.ChunkDocument(document.Content, document.Title)
		if len(contents) == 0 {
			s.log.Debug("document produced no chunks", "url", document.URL)
			continue
		}

		for chunkIndex, content := range contents {
			s.stats.ObserveChunk(content)
			batch = append(batch, pending{
				id:      fmt.Sprintf("doc%d_chunk%d", docIndex, chunkIndex),
				content: content,
				metadata: model.ChunkMetadata{
					URL:    document.URL,
					Title:  document.Title,
					Source: document.Source,
				},
			})
		}
	}

	for _, p := range batch {
		s.chunks = append(s.chunks, model.Chunk{
			ID:        p.id,
			Content:   p.content,
			Metadata:  p.metadata,
			Embedding: pipeline.Embed(p.content, s.stats),
		})
	}

	s.log.Debug("documents indexed",
		"documents", len(documents),
		"chunks", len(batch),
		"totalChunks", len(s.chunks))
	return nil
}

// QueryRelevantContent scores all stored chunks against the query and
// returns the curated top results.
func (s *Store) QueryRelevantContent(query string, limit int, qualityFloor float64) []model.ScoredResult {
	if !s.initialized || len(s.chunks) == 0 {
		return nil
	}
	if limit <= 0 {
		limit = 5
	}

	scorer := retrieval.NewScorer(query, s.stats, s.now())
	scored := scorer.ScoreAll(s.chunks)

	return retrieval.Curate(scored, limit, qualityFloor)
}

// Chunks exposes the indexed chunks, used for literal keyword matching.
func (s *Store) Chunks() []model.Chunk {
	return s.chunks
}

// Stats exposes the corpus statistics of this session.
func (s *Store) Stats() *pipeline.CorpusStats {
	return s.stats
}

// Close clears all session state. Safe to call in any state.
func (s *Store) Close() {
	s.chunks = nil
	s.stats = nil
	s.docCount = 0
	s.initialized = false
}
