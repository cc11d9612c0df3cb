package model

import "strings"

// ChunkMetadata is the read-only back reference from a chunk to its
// originating document.
type ChunkMetadata struct {
	URL    string `json:"url"`
	Title  string `json:"title"`
	Source Source `json:"source,omitempty"`
}

// Encyclopedic reports whether the chunk originates from an encyclopedic
// reference source.
func (m ChunkMetadata) Encyclopedic() bool {
	return m.Source == SourceWikipedia || strings.Contains(m.URL, "wikipedia.org")
}

// News reports whether the chunk originates from a news search.
func (m ChunkMetadata) News() bool {
	return m.Source == SourceNewsSearch
}

// Special reports whether the chunk belongs to one of the high-trust source
// classes that get permissive deduplication and a diversity guarantee.
func (m ChunkMetadata) Special() bool {
	return m.Encyclopedic() || m.News()
}

// Chunk is the atomic retrievable unit: a bounded span of document text with
// its sparse feature embedding.
type Chunk struct {
	ID        string        `json:"id"`
	Content   string        `json:"content"`
	Metadata  ChunkMetadata `json:"metadata"`
	Embedding []float64     `json:"embedding,omitempty"`
}
