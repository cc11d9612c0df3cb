package model

// ScoredResult represents a chunk ranked against a query.
type ScoredResult struct {
	Content  string        `json:"content"`
	Metadata ChunkMetadata `json:"metadata"`
	Score    float64       `json:"score"`
}
