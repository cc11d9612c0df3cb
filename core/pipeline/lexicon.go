// Package pipeline turns raw harvested text into retrievable chunks with
// sparse feature embeddings.
package pipeline

import (
	"regexp"
	"sort"
	"strings"
)

var (
	nonWordPattern    = regexp.MustCompile(`[^\w\s]`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// Clean lowercases text, replaces punctuation with spaces and collapses
// whitespace. Deterministic and side effect free.
func Clean(text string) string {
	cleaned := strings.ToLower(text)
	cleaned = nonWordPattern.ReplaceAllString(cleaned, " ")
	cleaned = whitespacePattern.ReplaceAllString(cleaned, " ")
	return strings.TrimSpace(cleaned)
}

// Tokenize cleans text and splits it into words, stop words included.
func Tokenize(text string) []string {
	cleaned := Clean(text)
	if cleaned == "" {
		return nil
	}
	return strings.Split(cleaned, " ")
}

// IsStopWord reports whether a word carries no topical signal.
func IsStopWord(word string) bool {
	_, ok := stopWords[word]
	return ok
}

// IsQuestionVerb reports whether a word is an auxiliary or interrogative
// that questions are built from.
func IsQuestionVerb(word string) bool {
	_, ok := questionVerbs[word]
	return ok
}

// TopicWords returns the up to ten most frequent significant words of a
// text, ordered by frequency with first occurrence breaking ties.
func TopicWords(text string) []string {
	tokens := Tokenize(text)

	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	for i, word := range tokens {
		if len(word) <= 3 || IsStopWord(word) {
			continue
		}
		counts[word]++
		if _, ok := firstSeen[word]; !ok {
			firstSeen[word] = i
		}
	}

	words := make([]string, 0, len(counts))
	for word := range counts {
		words = append(words, word)
	}
	sort.Slice(words, func(i, j int) bool {
		if counts[words[i]] != counts[words[j]] {
			return counts[words[i]] > counts[words[j]]
		}
		return firstSeen[words[i]] < firstSeen[words[j]]
	})

	if len(words) > 10 {
		words = words[:10]
	}
	return words
}

// QueryKeyTerms extracts the deduplicated significant terms of a query,
// used for term presence scoring and compression.
func QueryKeyTerms(query string) []string {
	var terms []string
	seen := make(map[string]struct{})
	for _, word := range Tokenize(query) {
		if len(word) <= 3 || IsStopWord(word) {
			continue
		}
		if _, ok := seen[word]; ok {
			continue
		}
		seen[word] = struct{}{}
		terms = append(terms, word)
	}
	return terms
}

// KeyPhrases extracts two and three word noun phrase candidates followed by
// deduplicated individual terms, phrases first. Used to drive encyclopedia
// lookups where a phrase query beats a bag of words.
func KeyPhrases(query string) []string {
	words := strings.Fields(strings.ToLower(query))

	var phrases []string
	for i := 0; i+1 < len(words); i++ {
		w1, w2 := words[i], words[i+1]
		if IsStopWord(w1) || IsStopWord(w2) || IsQuestionVerb(w1) || IsQuestionVerb(w2) ||
			len(w1) <= 2 || len(w2) <= 2 {
			continue
		}
		phrases = append(phrases, w1+" "+w2)
	}
	for i := 0; i+2 < len(words); i++ {
		w1, w3 := words[i], words[i+2]
		// Allow "X of Y" style phrases through the stop word filter.
		if (IsStopWord(w1) && w1 != "of") || (IsStopWord(w3) && w3 != "of") ||
			IsQuestionVerb(w1) || IsQuestionVerb(w3) ||
			len(w1) <= 2 || len(w3) <= 2 {
			continue
		}
		phrases = append(phrases, w1+" "+words[i+1]+" "+w3)
	}

	seen := make(map[string]struct{})
	for _, word := range words {
		if len(word) <= 2 || IsStopWord(word) || IsQuestionVerb(word) {
			continue
		}
		if _, ok := seen[word]; ok {
			continue
		}
		seen[word] = struct{}{}
		phrases = append(phrases, word)
	}

	return phrases
}

func makeSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, word := range words {
		set[word] = struct{}{}
	}
	return set
}

// stopWords excludes function words, common verbs and adverbs, and calendar
// terms from feature extraction and term matching.
var stopWords = makeSet(
	// Articles, pronouns, auxiliaries
	"a", "about", "above", "after", "again", "against", "all", "am", "an",
	"and", "any", "are", "as", "at", "be", "because", "been", "before",
	"being", "below", "between", "both", "but", "by", "can", "cannot",
	"could", "did", "do", "does", "doing", "down", "during", "each", "few",
	"for", "from", "further", "had", "has", "have", "having", "he", "her",
	"here", "hers", "herself", "him", "himself", "his", "how", "i", "if",
	"in", "into", "is", "it", "its", "itself", "me", "more", "most", "my",
	"myself", "no", "nor", "not", "of", "off", "on", "once", "only", "or",
	"other", "ought", "our", "ours", "ourselves", "out", "over", "own",
	"same", "she", "should", "so", "some", "such", "than", "that", "the",
	"their", "theirs", "them", "themselves", "then", "there", "these",
	"they", "this", "those", "through", "to", "too", "under", "until", "up",
	"very", "was", "we", "were", "what", "when", "where", "which", "while",
	"who", "whom", "why", "will", "with", "would", "you", "your", "yours",
	"yourself", "yourselves",
	// Prepositions
	"aboard", "across", "ahead", "along", "alongside", "amid", "among",
	"around", "aside", "atop", "behind", "beside", "besides", "beyond",
	"concerning", "considering", "despite", "except", "excluding",
	"following", "inside", "like", "minus", "near", "nearby", "opposite",
	"outside", "past", "plus", "regarding", "round", "save", "since",
	"throughout", "toward", "towards", "underneath", "unlike", "upon",
	"versus", "via", "within", "without",
	// Determiners and conjunctions
	"another", "certain", "either", "enough", "every", "various",
	"whatever", "whichever", "whose", "wherein", "whereby", "wherever",
	"although", "furthermore", "hence", "however", "instead", "likewise",
	"meanwhile", "moreover", "nevertheless", "nonetheless", "otherwise",
	"provided", "similarly", "still", "therefore", "thus", "whereas", "yet",
	// Numbers and calendar terms
	"one", "two", "three", "four", "five", "six", "seven", "eight", "nine",
	"ten", "first", "second", "third", "hundred", "thousand", "million",
	"billion", "today", "tomorrow", "yesterday", "now", "always", "never",
	"often", "sometimes", "usually", "rarely", "monday", "tuesday",
	"wednesday", "thursday", "friday", "saturday", "sunday", "january",
	"february", "march", "april", "may", "june", "july", "august",
	"september", "october", "november", "december",
	// Common adverbs
	"actually", "almost", "already", "also", "altogether", "anywhere",
	"apparently", "approximately", "certainly", "clearly", "completely",
	"definitely", "easily", "entirely", "especially", "essentially",
	"exactly", "extremely", "fairly", "far", "frequently", "generally",
	"gradually", "greatly", "hardly", "immediately", "indeed", "just",
	"largely", "literally", "mainly", "maybe", "merely", "naturally",
	"nearly", "necessarily", "obviously", "particularly", "partly",
	"perhaps", "possibly", "precisely", "primarily", "probably", "quite",
	"rather", "readily", "really", "recently", "relatively", "roughly",
	"seemingly", "significantly", "simply", "slightly", "somewhat", "soon",
	"specifically", "strongly", "supposedly", "surely", "thereby",
	"thoroughly", "truly", "typically", "ultimately", "undoubtedly",
	"unfortunately", "virtually", "wholly",
	// Miscellaneous common words
	"able", "anyone", "anything", "become", "becomes", "becoming", "begin",
	"begins", "beginning", "better", "best", "came", "come", "comes",
	"coming", "done", "else", "even", "ever", "everyone", "everything",
	"everywhere", "example", "fact", "find", "finds", "finding", "found",
	"get", "gets", "getting", "give", "gives", "giving", "go", "goes",
	"going", "gone", "got", "gotten", "happen", "happens", "happening",
	"happened", "hello", "hey", "keep", "keeps", "keeping", "kept", "know",
	"knows", "knowing", "knew", "known", "least", "less", "let", "lets",
	"letting", "likely", "look", "looks", "looking", "looked", "make",
	"makes", "making", "made", "many", "much", "must", "need", "needs",
	"needed", "next", "none", "nothing", "nowhere", "okay", "please", "put",
	"puts", "putting", "right", "said", "say", "says", "saying", "see",
	"sees", "seeing", "seen", "saw", "seem", "seems", "seeming", "seemed",
	"shall", "sure", "take", "takes", "taking", "taken", "took", "thank",
	"thanks", "thing", "things", "think", "thinks", "thinking", "thought",
	"use", "uses", "using", "used", "want", "wants", "wanting", "wanted",
	"well", "went", "whether", "yes",
)

// questionVerbs covers auxiliaries, modal forms and interrogatives that
// open questions but never identify a topic.
var questionVerbs = makeSet(
	"did", "does", "do", "was", "is", "are", "will", "would", "could",
	"should", "might", "may", "has", "have", "had", "am", "be", "been",
	"being", "can", "dare", "must", "need", "ought", "shall", "used",
	"appear", "appears", "appeared", "become", "becomes", "became",
	"continue", "continues", "continued", "get", "gets", "got", "getting",
	"going", "goes", "went", "gone", "happen", "happens", "happened",
	"keep", "keeps", "kept", "remain", "remains", "remained", "seem",
	"seems", "seemed", "start", "starts", "started", "were", "why", "how",
	"when", "where", "what", "which", "who", "whom", "whose", "come",
	"comes", "came", "look", "looks", "looked", "make", "makes", "made",
	"put", "puts", "take", "takes", "took", "taken", "turn", "turns",
	"turned",
)
