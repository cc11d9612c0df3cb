package harvest

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/siherrmann/grounder/helper"
)

var scrapeWhitespacePattern = regexp.MustCompile(`[ \t]+`)

// skippedElements never contribute visible text.
var skippedElements = map[string]bool{
	"script": true, "style": true, "noscript": true, "iframe": true,
	"nav": true, "header": true, "footer": true, "aside": true,
	"form": true, "button": true, "svg": true,
}

// PageScraper extracts the visible text of arbitrary web pages.
type PageScraper struct {
	userAgent string
	client    *http.Client
	log       *slog.Logger
}

// NewPageScraper creates a scraper with the given request timeout.
func NewPageScraper(log *slog.Logger, userAgent string, timeout time.Duration) *PageScraper {
	return &PageScraper{
		userAgent: userAgent,
		client:    &http.Client{Timeout: timeout},
		log:       log,
	}
}

// ScrapePage fetches a page and returns its visible text, best effort.
func (s *PageScraper) ScrapePage(ctx context.Context, pageURL string) (string, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", helper.NewError("build page request", err)
	}
	request.Header.Set("User-Agent", s.userAgent)

	response, err := s.client.Do(request)
	if err != nil {
		return "", helper.NewError("fetch page", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return "", helper.NewError("fetch page", fmt.Errorf("unexpected status %v", response.StatusCode))
	}

	root, err := html.Parse(response.Body)
	if err != nil {
		return "", helper.NewError("parse page", err)
	}
	return visibleText(root), nil
}

// visibleText walks the document tree collecting text nodes, inserting
// paragraph breaks at block elements.
func visibleText(root *html.Node) string {
	var builder strings.Builder

	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode && skippedElements[node.Data] {
			return
		}
		if node.Type == html.TextNode {
			if text := strings.TrimSpace(node.Data); text != "" {
				builder.WriteString(text)
				builder.WriteString(" ")
			}
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
		if node.Type == html.ElementNode {
			switch node.Data {
			case "p", "div", "section", "article", "li", "br",
				"h1", "h2", "h3", "h4", "h5", "h6", "tr":
				builder.WriteString("\n\n")
			}
		}
	}
	walk(root)

	text := scrapeWhitespacePattern.ReplaceAllString(builder.String(), " ")
	var paragraphs []string
	for _, paragraph := range strings.Split(text, "\n\n") {
		if trimmed := strings.TrimSpace(paragraph); trimmed != "" {
			paragraphs = append(paragraphs, trimmed)
		}
	}
	return strings.Join(paragraphs, "\n\n")
}
