package pipeline

import "math"

// CorpusStats accumulates how many chunks contain each feature term. It is
// threaded explicitly through embedding and scoring so the IDF dependency
// stays visible and testable.
type CorpusStats struct {
	docFreq     map[string]int
	totalChunks int
}

// NewCorpusStats creates an empty statistics accumulator.
func NewCorpusStats() *CorpusStats {
	return &CorpusStats{docFreq: make(map[string]int)}
}

// ObserveChunk records the feature term set of one chunk. Each term counts
// once per chunk regardless of how often it occurs.
func (s *CorpusStats) ObserveChunk(content string) {
	for term := range featureCounts(Tokenize(content)) {
		s.docFreq[term]++
	}
	s.totalChunks++
}

// TotalChunks returns the number of chunks observed so far.
func (s *CorpusStats) TotalChunks() int {
	return s.totalChunks
}

// DocFreq returns the number of observed chunks containing the term.
func (s *CorpusStats) DocFreq(term string) int {
	return s.docFreq[term]
}

// IDF returns the inverse document frequency weight for a term against the
// current corpus state.
func (s *CorpusStats) IDF(term string) float64 {
	total := s.totalChunks
	if total < 1 {
		total = 1
	}
	return math.Log(float64(total)/(float64(s.docFreq[term])+0.5)) + 1.0
}
