package harvest

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/siherrmann/grounder/helper"
	"github.com/siherrmann/grounder/model"
)

// DuckDuckGoClient harvests search results from the HTML-only lite
// frontend, which needs no JavaScript to render.
type DuckDuckGoClient struct {
	baseURL   string
	userAgent string
	client    *http.Client
	log       *slog.Logger
}

// NewDuckDuckGoClient creates a client against lite.duckduckgo.com.
func NewDuckDuckGoClient(log *slog.Logger, userAgent string, timeout time.Duration) *DuckDuckGoClient {
	return &DuckDuckGoClient{
		baseURL:   "https://lite.duckduckgo.com/lite/",
		userAgent: userAgent,
		client:    &http.Client{Timeout: timeout},
		log:       log,
	}
}

// WebResults returns title and snippet pairs for a web search.
func (c *DuckDuckGoClient) WebResults(ctx context.Context, query string, limit int) ([]model.RawDocument, error) {
	return c.search(ctx, query, limit, model.SourceWebSearch)
}

// NewsResults returns title and snippet pairs for a news search. The lite
// frontend has no news vertical, so the search is narrowed to the last week.
func (c *DuckDuckGoClient) NewsResults(ctx context.Context, query string, limit int) ([]model.RawDocument, error) {
	return c.search(ctx, query+" news", limit, model.SourceNewsSearch)
}

func (c *DuckDuckGoClient) search(ctx context.Context, query string, limit int, source model.Source) ([]model.RawDocument, error) {
	params := url.Values{"q": {query}}
	if source == model.SourceNewsSearch {
		params.Set("df", "w")
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, helper.NewError("build search request", err)
	}
	request.Header.Set("User-Agent", c.userAgent)

	response, err := c.client.Do(request)
	if err != nil {
		return nil, helper.NewError("search results", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, helper.NewError("search results", fmt.Errorf("unexpected status %v", response.StatusCode))
	}

	root, err := html.Parse(response.Body)
	if err != nil {
		return nil, helper.NewError("parse search results", err)
	}

	documents := parseLiteResults(root, source)
	if len(documents) > limit {
		documents = documents[:limit]
	}
	return documents, nil
}

// parseLiteResults pairs each result link with the snippet cell following
// it in document order.
func parseLiteResults(root *html.Node, source model.Source) []model.RawDocument {
	var documents []model.RawDocument
	var pending *model.RawDocument

	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode {
			switch {
			case node.Data == "a" && hasClass(node, "result-link"):
				href := resolveHref(attribute(node, "href"))
				title := strings.TrimSpace(nodeText(node))
				if href != "" && title != "" {
					if pending != nil {
						documents = append(documents, *pending)
					}
					pending = &model.RawDocument{URL: href, Title: title, Source: source}
				}
			case node.Data == "td" && hasClass(node, "result-snippet"):
				if pending != nil {
					pending.Content = strings.TrimSpace(nodeText(node))
					documents = append(documents, *pending)
					pending = nil
				}
			}
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(root)

	if pending != nil {
		documents = append(documents, *pending)
	}
	return documents
}

// resolveHref unwraps the redirect links the lite frontend emits.
func resolveHref(href string) string {
	if href == "" {
		return ""
	}
	parsed, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if target := parsed.Query().Get("uddg"); target != "" {
		return target
	}
	if parsed.Scheme == "" {
		return ""
	}
	return href
}

func attribute(node *html.Node, key string) string {
	for _, attr := range node.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

func hasClass(node *html.Node, class string) bool {
	for _, candidate := range strings.Fields(attribute(node, "class")) {
		if candidate == class {
			return true
		}
	}
	return false
}

func nodeText(node *html.Node) string {
	var builder strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			builder.WriteString(n.Data)
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(node)
	return builder.String()
}
