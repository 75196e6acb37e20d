package embedding

import (
	"strings"
	"unicode"
)

// tokenizer splits text into lowercase stemmed tokens with stopwords removed.
// Both documents and queries go through the same path, so inflection
// differences ("book" vs "books", "issue" vs "issued") land on the same token.
type tokenizer struct {
	stopwords map[string]struct{}
}

func newTokenizer() *tokenizer {
	return &tokenizer{stopwords: defaultStopwords()}
}

func (t *tokenizer) Tokenize(text string) []string {
	words := splitWords(text)
	tokens := make([]string, 0, len(words))

	for _, word := range words {
		word = strings.ToLower(word)
		if len(word) < 2 {
			continue
		}
		if _, isStop := t.stopwords[word]; isStop {
			continue
		}
		tokens = append(tokens, stem(word))
	}

	return tokens
}

// splitWords splits text on non-alphanumeric runes.
func splitWords(text string) []string {
	var words []string
	var current strings.Builder

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			current.WriteRune(r)
		} else {
			if current.Len() > 0 {
				words = append(words, current.String())
				current.Reset()
			}
		}
	}
	if current.Len() > 0 {
		words = append(words, current.String())
	}

	return words
}

// stem strips common English suffixes. It is far lighter than a full Porter
// stemmer but collapses the plural and tense variants that matter for
// FAQ-style retrieval.
func stem(word string) string {
	if len(word) < 4 {
		return word
	}

	switch {
	case strings.HasSuffix(word, "ies") && len(word) > 4:
		word = word[:len(word)-3] + "i"
	case strings.HasSuffix(word, "sses"):
		word = word[:len(word)-2]
	case strings.HasSuffix(word, "ss"):
		// keep
	case strings.HasSuffix(word, "s"):
		word = word[:len(word)-1]
	}

	if strings.HasSuffix(word, "ed") && len(word) > 4 && hasVowel(word[:len(word)-2]) {
		word = word[:len(word)-2]
	} else if strings.HasSuffix(word, "ing") && len(word) > 5 && hasVowel(word[:len(word)-3]) {
		word = word[:len(word)-3]
	}

	if strings.HasSuffix(word, "y") && len(word) > 3 && hasVowel(word[:len(word)-1]) {
		word = word[:len(word)-1] + "i"
	}
	if strings.HasSuffix(word, "e") && len(word) > 4 {
		word = word[:len(word)-1]
	}

	return word
}

func hasVowel(s string) bool {
	return strings.ContainsAny(s, "aeiou")
}

func defaultStopwords() map[string]struct{} {
	stops := []string{
		"a", "an", "and", "are", "as", "at", "be", "by", "for",
		"from", "has", "he", "in", "is", "it", "its", "of", "on",
		"that", "the", "to", "was", "were", "will", "with", "this",
		"have", "had", "but", "not", "you", "your", "we", "our",
		"they", "their", "she", "her", "his", "if", "or", "so",
		"no", "can", "do", "does", "did", "been", "being", "would",
		"could", "should", "may", "might", "must", "shall", "which",
		"who", "whom", "what", "when", "where", "why", "how", "all",
		"each", "every", "both", "few", "more", "most", "other",
		"some", "such", "than", "too", "very", "just", "also",
	}
	m := make(map[string]struct{}, len(stops))
	for _, s := range stops {
		m[s] = struct{}{}
	}
	return m
}
