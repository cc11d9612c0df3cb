package model

import "strings"

// Source identifies the harvester that produced a document.
type Source string

const (
	SourceWikipedia  Source = "wikipedia"
	SourceWebSearch  Source = "web_search"
	SourceNewsSearch Source = "news_search"
	SourceUnknown    Source = ""
)

// RawDocument represents one harvested contribution before indexing.
// Documents live for a single query session and are never persisted.
type RawDocument struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Source  Source `json:"source,omitempty"`
}

// Encyclopedic reports whether the document comes from an encyclopedic
// reference source, either by tag or by URL.
func (d RawDocument) Encyclopedic() bool {
	return d.Source == SourceWikipedia || strings.Contains(d.URL, "wikipedia.org")
}

// News reports whether the document was harvested from a news search.
func (d RawDocument) News() bool {
	return d.Source == SourceNewsSearch
}
