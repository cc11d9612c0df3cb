// Package grounder retrieves, ranks and compresses web content into a
// compact context block for grounding language model prompts.
package grounder

import (
	"context"
	"log/slog"
	"os"
	"sync"

	"github.com/siherrmann/grounder/core/retrieval"
	"github.com/siherrmann/grounder/harvest"
	"github.com/siherrmann/grounder/helper"
	"github.com/siherrmann/grounder/model"
	"github.com/siherrmann/grounder/store"
)

// Grounder is the main entry point. One instance serves many queries, each
// query runs against a fresh session store. Queries are serialized, see
// GetRelevantContent.
type Grounder struct {
	Collector *harvest.Collector
	Scraper   *harvest.PageScraper

	config model.Config
	mu     sync.Mutex
	log    *slog.Logger
}

// NewGrounder creates a grounder with live harvesting clients.
func NewGrounder(config model.Config) *Grounder {
	opts := helper.PrettyHandlerOptions{
		SlogOpts: slog.HandlerOptions{
			Level: slog.LevelInfo,
		},
	}
	logger := slog.New(helper.NewPrettyHandler(os.Stdout, opts))

	wikipedia := harvest.NewWikipediaClient(logger, config.UserAgent, config.HarvestTimeout)
	duckduckgo := harvest.NewDuckDuckGoClient(logger, config.UserAgent, config.HarvestTimeout)

	return &Grounder{
		Collector: harvest.NewCollector(logger, config, wikipedia, duckduckgo),
		Scraper:   harvest.NewPageScraper(logger, config.UserAgent, config.HarvestTimeout),
		config:    config,
		log:       logger,
	}
}

// GetRelevantContent harvests, indexes, scores, curates, compresses and
// formats content for a query. It returns an empty string when nothing
// sufficiently relevant was found, which is a valid outcome and not an
// error. Concurrent calls are serialized internally.
func (g *Grounder) GetRelevantContent(ctx context.Context, query string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	session := store.NewStore(g.log)
	defer session.Close()

	if err := session.Initialize(); err != nil {
		g.log.Error("store initialization failed", "error", err)
		return "", helper.NewError("initialize session store", err)
	}

	documents := g.Collector.Collect(ctx, query)
	if len(documents) == 0 {
		g.log.Info("no documents harvested", "query", query)
		return "", nil
	}

	if err := session.AddDocuments(documents); err != nil {
		g.log.Error("indexing failed", "error", err)
		return "", nil
	}

	results := session.QueryRelevantContent(query, g.config.ResultLimit, g.config.QualityFloor)

	matches := retrieval.MatchKeywords(session.Chunks(), query, g.config.KeywordMatchLimit)
	results = retrieval.MergeKeywordMatches(results, matches, g.config.ResultLimit)
	if len(results) == 0 {
		g.log.Info("no relevant content found", "query", query)
		return "", nil
	}

	results = retrieval.Compress(results, query)

	formatted := retrieval.FormatContext(results, g.config.MaxContextLength)
	g.log.Info("context assembled",
		"query", query,
		"documents", len(documents),
		"results", len(results),
		"length", len(formatted))
	return formatted, nil
}
