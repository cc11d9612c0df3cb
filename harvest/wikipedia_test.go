package harvest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siherrmann/grounder/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func wikipediaTestClient(server *httptest.Server) *WikipediaClient {
	client := NewWikipediaClient(testLogger(), "test-agent", 5*time.Second)
	client.baseURL = server.URL
	return client
}

func TestWikipediaTopArticleURLs(t *testing.T) {
	t.Run("Search results become article URLs", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "nuclear fusion", r.URL.Query().Get("srsearch"))
			fmt.Fprint(w, `{"query":{"search":[{"title":"Nuclear fusion"},{"title":"Fusion power"}]}}`)
		}))
		defer server.Close()

		urls, err := wikipediaTestClient(server).TopArticleURLs(context.Background(), "nuclear fusion", 2)

		require.NoError(t, err, "Expected TopArticleURLs to not return an error")
		require.Len(t, urls, 2)
		assert.Equal(t, "https://en.wikipedia.org/wiki/Nuclear_fusion", urls[0])
		assert.Equal(t, "https://en.wikipedia.org/wiki/Fusion_power", urls[1])
	})

	t.Run("Server error is propagated", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		_, err := wikipediaTestClient(server).TopArticleURLs(context.Background(), "fusion", 2)

		assert.Error(t, err)
	})
}

func TestWikipediaArticleContent(t *testing.T) {
	t.Run("Extract is fetched and cleaned", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Nuclear fusion", r.URL.Query().Get("titles"))
			fmt.Fprint(w, `{"query":{"pages":{"123":{"title":"Nuclear fusion","extract":"Nuclear fusion is a reaction in which atomic nuclei combine.\n\n== History ==\n\nResearch started in the twentieth century."}}}}`)
		}))
		defer server.Close()

		document, err := wikipediaTestClient(server).ArticleContent(context.Background(), "https://en.wikipedia.org/wiki/Nuclear_fusion")

		require.NoError(t, err, "Expected ArticleContent to not return an error")
		require.NotNil(t, document)
		assert.Equal(t, "Nuclear fusion", document.Title)
		assert.Equal(t, model.SourceWikipedia, document.Source)
		assert.Contains(t, document.Content, "atomic nuclei combine")
		assert.NotContains(t, document.Content, "== History ==")
	})

	t.Run("Missing article yields nil without error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"query":{"pages":{"-1":{"title":"Nope","missing":true}}}}`)
		}))
		defer server.Close()

		document, err := wikipediaTestClient(server).ArticleContent(context.Background(), "https://en.wikipedia.org/wiki/Nope")

		require.NoError(t, err)
		assert.Nil(t, document)
	})

	t.Run("Too short extract yields nil", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"query":{"pages":{"123":{"title":"Stub","extract":"Tiny."}}}}`)
		}))
		defer server.Close()

		document, err := wikipediaTestClient(server).ArticleContent(context.Background(), "https://en.wikipedia.org/wiki/Stub")

		require.NoError(t, err)
		assert.Nil(t, document)
	})

	t.Run("URL without article title fails", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		defer server.Close()

		_, err := wikipediaTestClient(server).ArticleContent(context.Background(), "https://en.wikipedia.org/about")

		assert.Error(t, err)
	})
}
