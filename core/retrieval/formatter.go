package retrieval

import (
	"fmt"
	"strings"

	"github.com/siherrmann/grounder/core/pipeline"
	"github.com/siherrmann/grounder/model"
)

const sentencesPerSource = 5

// FormatContext renders results into a plain text block of numbered source
// sections, grouping chunks from the same document. The block is trimmed at
// a sentence boundary when it exceeds maxLength. Empty input yields an
// empty string.
func FormatContext(results []model.ScoredResult, maxLength int) string {
	if len(results) == 0 {
		return ""
	}

	type group struct {
		key      string
		contents []string
	}
	var groups []*group
	groupsByKey := make(map[string]*group)
	for _, result := range results {
		key := result.Metadata.URL + "|" + result.Metadata.Title
		g, ok := groupsByKey[key]
		if !ok {
			g = &group{key: key}
			groupsByKey[key] = g
			groups = append(groups, g)
		}
		g.contents = append(g.contents, result.Content)
	}

	sections := make([]string, 0, len(groups))
	for i, g := range groups {
		content := strings.Join(g.contents, " ")
		sentences := pipeline.SplitSentences(content)
		if len(sentences) > sentencesPerSource {
			sentences = sentences[:sentencesPerSource]
		}
		sections = append(sections, fmt.Sprintf("Source %d\n\n%s", i+1, strings.Join(sentences, " ")))
	}

	formatted := strings.Join(sections, "\n\n---\n\n")
	if len(formatted) <= maxLength {
		return formatted
	}
	return trimAtSentence(formatted, maxLength) + "\n\n...(truncated)"
}

// trimAtSentence cuts text at the last sentence terminator at or before the
// limit. Without one it retreats to the last whitespace so no word is cut
// in half.
func trimAtSentence(text string, limit int) string {
	cut := text[:limit]
	if boundary := strings.LastIndexAny(cut, ".!?"); boundary > 0 {
		return cut[:boundary+1]
	}
	if space := strings.LastIndexAny(cut, " \t\n"); space > 0 {
		return cut[:space]
	}
	return cut
}
