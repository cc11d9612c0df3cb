package harvest

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/siherrmann/grounder/core/pipeline"
	"github.com/siherrmann/grounder/model"
)

const maxPhraseAttempts = 3

// Collector fans harvesting out over all sources and filters the combined
// documents by query relevance. Every source fails soft.
type Collector struct {
	Encyclopedia Encyclopedia
	Searcher     ResultSearcher

	config model.Config
	log    *slog.Logger
}

// NewCollector wires a collector from its source clients.
func NewCollector(log *slog.Logger, config model.Config, encyclopedia Encyclopedia, searcher ResultSearcher) *Collector {
	return &Collector{
		Encyclopedia: encyclopedia,
		Searcher:     searcher,
		config:       config,
		log:          log,
	}
}

// Collect harvests all sources concurrently and returns relevant documents,
// encyclopedia articles first, then news, then web results.
func (c *Collector) Collect(ctx context.Context, query string) []model.RawDocument {
	ctx, cancel := context.WithTimeout(ctx, c.config.HarvestTimeout)
	defer cancel()

	var encyclopedia, web, news []model.RawDocument

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		encyclopedia = c.collectEncyclopedia(groupCtx, query)
		return nil
	})
	group.Go(func() error {
		var err error
		if web, err = c.Searcher.WebResults(groupCtx, query, c.config.WebLimit); err != nil {
			c.log.Warn("web search failed", "error", err)
			web = nil
		}
		return nil
	})
	group.Go(func() error {
		var err error
		if news, err = c.Searcher.NewsResults(groupCtx, query, c.config.NewsLimit); err != nil {
			c.log.Warn("news search failed", "error", err)
			news = nil
		}
		return nil
	})
	// Goroutines swallow their errors, Wait only synchronizes.
	_ = group.Wait()

	combined := make([]model.RawDocument, 0, len(encyclopedia)+len(news)+len(web))
	combined = append(combined, encyclopedia...)
	combined = append(combined, news...)
	combined = append(combined, web...)

	terms := pipeline.QueryKeyTerms(query)
	var relevant []model.RawDocument
	for _, document := range combined {
		// Encyclopedia articles were looked up by key phrase and stay.
		if document.Encyclopedic() || queryRelevance(document.Content, terms) >= c.config.RelevanceThreshold {
			relevant = append(relevant, document)
			continue
		}
		c.log.Debug("document dropped as irrelevant", "url", document.URL)
	}

	c.log.Debug("harvest complete",
		"encyclopedia", len(encyclopedia),
		"news", len(news),
		"web", len(web),
		"relevant", len(relevant))
	return relevant
}

// collectEncyclopedia tries the query's key phrases in order until enough
// articles were fetched.
func (c *Collector) collectEncyclopedia(ctx context.Context, query string) []model.RawDocument {
	phrases := pipeline.KeyPhrases(query)
	if len(phrases) == 0 {
		phrases = []string{query}
	}
	if len(phrases) > maxPhraseAttempts {
		phrases = phrases[:maxPhraseAttempts]
	}

	var documents []model.RawDocument
	seen := make(map[string]bool)
	for _, phrase := range phrases {
		if len(documents) >= c.config.EncyclopediaLimit {
			break
		}

		urls, err := c.Encyclopedia.TopArticleURLs(ctx, phrase, c.config.EncyclopediaLimit-len(documents))
		if err != nil {
			c.log.Warn("encyclopedia search failed", "phrase", phrase, "error", err)
			continue
		}

		for _, articleURL := range urls {
			if seen[articleURL] || len(documents) >= c.config.EncyclopediaLimit {
				continue
			}
			seen[articleURL] = true

			document, err := c.Encyclopedia.ArticleContent(ctx, articleURL)
			if err != nil {
				c.log.Warn("encyclopedia fetch failed", "url", articleURL, "error", err)
				continue
			}
			if document == nil {
				continue
			}
			documents = append(documents, *document)
		}
	}
	return documents
}

// queryRelevance combines how densely and how completely the query terms
// appear in a document.
func queryRelevance(content string, terms []string) float64 {
	if len(terms) == 0 {
		return 1.0
	}

	lower := strings.ToLower(content)
	words := len(pipeline.Tokenize(content))
	if words < 1 {
		words = 1
	}

	matched := 0
	occurrences := 0
	for _, term := range terms {
		count := strings.Count(lower, term)
		if count > 0 {
			matched++
		}
		occurrences += count
	}

	density := float64(occurrences) / float64(words)
	coverage := float64(matched) / float64(len(terms))

	return 0.3*density + 0.7*coverage
}
