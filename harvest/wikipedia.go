package harvest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/siherrmann/grounder/helper"
	"github.com/siherrmann/grounder/model"
)

const minArticleLength = 50

var (
	headingPattern   = regexp.MustCompile(`(?m)^=+\s*.*?\s*=+\s*$`)
	emptyLinePattern = regexp.MustCompile(`\n{3,}`)
)

// WikipediaClient harvests article extracts through the MediaWiki API.
type WikipediaClient struct {
	baseURL    string
	articleURL string
	userAgent  string
	client     *http.Client
	log        *slog.Logger
}

// NewWikipediaClient creates a client against the English Wikipedia.
func NewWikipediaClient(log *slog.Logger, userAgent string, timeout time.Duration) *WikipediaClient {
	return &WikipediaClient{
		baseURL:    "https://en.wikipedia.org/w/api.php",
		articleURL: "https://en.wikipedia.org/wiki/",
		userAgent:  userAgent,
		client:     &http.Client{Timeout: timeout},
		log:        log,
	}
}

type searchResponse struct {
	Query struct {
		Search []struct {
			Title string `json:"title"`
		} `json:"search"`
	} `json:"query"`
}

type extractResponse struct {
	Query struct {
		Pages map[string]struct {
			Title   string `json:"title"`
			Extract string `json:"extract"`
			Missing *bool  `json:"missing,omitempty"`
		} `json:"pages"`
	} `json:"query"`
}

// TopArticleURLs searches for articles and returns their canonical URLs.
func (c *WikipediaClient) TopArticleURLs(ctx context.Context, query string, limit int) ([]string, error) {
	params := url.Values{
		"action":   {"query"},
		"list":     {"search"},
		"srsearch": {query},
		"srlimit":  {strconv.Itoa(limit)},
		"format":   {"json"},
	}

	var response searchResponse
	if err := c.get(ctx, params, &response); err != nil {
		return nil, helper.NewError("search encyclopedia articles", err)
	}

	urls := make([]string, 0, len(response.Query.Search))
	for _, result := range response.Query.Search {
		urls = append(urls, c.articleURL+url.PathEscape(strings.ReplaceAll(result.Title, " ", "_")))
	}
	return urls, nil
}

// ArticleContent fetches and cleans the plain text extract of an article.
// Articles that are missing or shorter than 50 characters yield nil.
func (c *WikipediaClient) ArticleContent(ctx context.Context, articleURL string) (*model.RawDocument, error) {
	title, err := titleFromURL(articleURL)
	if err != nil {
		return nil, err
	}

	params := url.Values{
		"action":      {"query"},
		"prop":        {"extracts"},
		"explaintext": {"1"},
		"titles":      {title},
		"redirects":   {"1"},
		"format":      {"json"},
	}

	var response extractResponse
	if err := c.get(ctx, params, &response); err != nil {
		return nil, helper.NewError("fetch encyclopedia article", err)
	}

	for _, page := range response.Query.Pages {
		if page.Missing != nil {
			continue
		}
		content := cleanArticle(page.Extract)
		if len(content) < minArticleLength {
			continue
		}
		return &model.RawDocument{
			URL:     articleURL,
			Title:   page.Title,
			Content: content,
			Source:  model.SourceWikipedia,
		}, nil
	}
	return nil, nil
}

func (c *WikipediaClient) get(ctx context.Context, params url.Values, target any) error {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	request.Header.Set("User-Agent", c.userAgent)

	response, err := c.client.Do(request)
	if err != nil {
		return err
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %v", response.StatusCode)
	}

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, target)
}

func titleFromURL(articleURL string) (string, error) {
	parsed, err := url.Parse(articleURL)
	if err != nil {
		return "", helper.NewError("parse article url", err)
	}
	title := strings.TrimPrefix(parsed.Path, "/wiki/")
	if title == "" || title == parsed.Path {
		return "", helper.NewError("parse article url", fmt.Errorf("no article title in %v", articleURL))
	}
	title, err = url.PathUnescape(title)
	if err != nil {
		return "", helper.NewError("parse article url", err)
	}
	return strings.ReplaceAll(title, "_", " "), nil
}

// cleanArticle strips section heading markers and collapses excessive blank
// lines from a plain text extract.
func cleanArticle(extract string) string {
	cleaned := headingPattern.ReplaceAllString(extract, "")
	cleaned = emptyLinePattern.ReplaceAllString(cleaned, "\n\n")
	return strings.TrimSpace(cleaned)
}
