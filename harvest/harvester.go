// Package harvest collects raw documents from external sources for one
// query. All harvesting fails soft, a source returning nothing never aborts
// the pipeline.
package harvest

import (
	"context"

	"github.com/siherrmann/grounder/model"
)

// Encyclopedia looks up reference articles for a query.
type Encyclopedia interface {
	// TopArticleURLs returns canonical article URLs matching the query.
	TopArticleURLs(ctx context.Context, query string, limit int) ([]string, error)
	// ArticleContent fetches the plain text extract of one article. Returns
	// nil without error when the article is missing or too short.
	ArticleContent(ctx context.Context, articleURL string) (*model.RawDocument, error)
}

// ResultSearcher harvests search engine results as title and snippet pairs.
type ResultSearcher interface {
	WebResults(ctx context.Context, query string, limit int) ([]model.RawDocument, error)
	NewsResults(ctx context.Context, query string, limit int) ([]model.RawDocument, error)
}
