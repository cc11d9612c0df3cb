package pipeline

import (
	"regexp"
	"strings"
)

const (
	// maxChunkSize is the target character bound of a chunk.
	maxChunkSize = 500
	// minChunkSize drops fragments too short to be worth retrieving.
	minChunkSize = 50
	// minParagraphSize skips navigation crumbs and other boilerplate lines.
	minParagraphSize = 20
	// sentenceGroupWords bounds sentence grouping and sliding fallback chunks.
	sentenceGroupWords = 200
	// topicOverlapThreshold keeps a paragraph in the running chunk when at
	// least this share of its topic words already occurred.
	topicOverlapThreshold = 0.25
)

var (
	paragraphPattern = regexp.MustCompile(`\n\s*\n`)
	sentencePattern  = regexp.MustCompile(`[^.!?]+[.!?]+|[^.!?]+$`)
)

// SplitSentences splits text at terminal punctuation, keeping the
// terminators attached and dropping empty fragments.
func SplitSentences(text string) []string {
	var sentences []string
	for _, raw := range sentencePattern.FindAllString(text, -1) {
		sentence := strings.TrimSpace(raw)
		if sentence != "" {
			sentences = append(sentences, sentence)
		}
	}
	return sentences
}

// ChunkDocument splits document content into topically coherent chunks of
// at least 50 and around at most 500 characters. Multi paragraph content is
// grouped by topic continuity, single paragraph content by sentence
// grouping, with a fixed size sliding window as last resort. A title is
// prepended to the first chunk.
func ChunkDocument(content string, title string) []string {
	content = strings.TrimSpace(content)
	paragraphs := splitParagraphs(content)

	// Boilerplate filtered body for the sentence and sliding fallbacks.
	body := content
	if len(paragraphs) > 0 {
		body = strings.Join(paragraphs, "\n\n")
	}

	var chunks []string
	if len(paragraphs) > 1 {
		chunks = paragraphChunks(paragraphs)
	}
	if len(chunks) == 0 {
		chunks = sentenceChunks(body)
	}
	if len(chunks) == 0 {
		for _, paragraph := range paragraphs {
			if len(paragraph) >= minChunkSize {
				chunks = append(chunks, paragraph)
			}
		}
	}
	if len(chunks) <= 1 && len(body) > maxChunkSize {
		chunks = slidingChunks(body)
	}

	if len(chunks) > 0 && title != "" {
		chunks[0] = title + ". " + chunks[0]
	}
	return chunks
}

func splitParagraphs(content string) []string {
	var paragraphs []string
	for _, raw := range paragraphPattern.Split(content, -1) {
		paragraph := strings.TrimSpace(raw)
		if len(paragraph) >= minParagraphSize {
			paragraphs = append(paragraphs, paragraph)
		}
	}
	return paragraphs
}

// paragraphChunks greedily accumulates paragraphs into chunks, keeping a
// paragraph with the running chunk when the chunk ends mid sentence or the
// paragraph shares enough topic words with it.
func paragraphChunks(paragraphs []string) []string {
	var chunks []string
	var current string
	currentTopics := make(map[string]struct{})

	flush := func() {
		if len(current) >= minChunkSize {
			chunks = append(chunks, current)
		}
		current = ""
		currentTopics = make(map[string]struct{})
	}

	for _, paragraph := range paragraphs {
		topics := TopicWords(paragraph)
		if current == "" {
			current = paragraph
			addTopics(currentTopics, topics)
			continue
		}

		continues := endsMidSentence(current) ||
			topicOverlap(topics, currentTopics) >= topicOverlapThreshold
		if continues && len(current)+len(paragraph)+2 <= maxChunkSize {
			current += "\n\n" + paragraph
			addTopics(currentTopics, topics)
			continue
		}

		flush()
		current = paragraph
		addTopics(currentTopics, topics)
	}
	flush()

	return chunks
}

func addTopics(set map[string]struct{}, topics []string) {
	for _, topic := range topics {
		set[topic] = struct{}{}
	}
}

// topicOverlap returns the share of topics already present in the set. A
// paragraph without topic words cannot signal a topic shift and counts as
// full overlap.
func topicOverlap(topics []string, set map[string]struct{}) float64 {
	if len(topics) == 0 {
		return 1.0
	}
	shared := 0
	for _, topic := range topics {
		if _, ok := set[topic]; ok {
			shared++
		}
	}
	return float64(shared) / float64(len(topics))
}

func endsMidSentence(chunk string) bool {
	last := chunk[len(chunk)-1]
	return last == '-' || last == ',' ||
		(last != '.' && last != '!' && last != '?')
}

// sentenceChunks groups consecutive sentences until the word budget is
// reached, skipping fragments under ten characters.
func sentenceChunks(content string) []string {
	var chunks []string
	var group []string
	groupWords := 0

	flush := func() {
		chunk := strings.Join(group, " ")
		if len(chunk) >= minChunkSize {
			chunks = append(chunks, chunk)
		}
		group = nil
		groupWords = 0
	}

	for _, sentence := range SplitSentences(content) {
		if len(sentence) < 10 {
			continue
		}
		words := len(strings.Fields(sentence))
		if groupWords > 0 && groupWords+words > sentenceGroupWords {
			flush()
		}
		group = append(group, sentence)
		groupWords += words
	}
	flush()

	return chunks
}

// slidingChunks cuts content into fixed word count windows, ignoring any
// structure. Last resort for unbroken walls of text.
func slidingChunks(content string) []string {
	words := strings.Fields(content)

	var chunks []string
	for start := 0; start < len(words); start += sentenceGroupWords {
		end := start + sentenceGroupWords
		if end > len(words) {
			end = len(words)
		}
		chunk := strings.Join(words[start:end], " ")
		if len(chunk) >= minChunkSize {
			chunks = append(chunks, chunk)
		}
	}
	return chunks
}
