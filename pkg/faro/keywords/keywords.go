// Package keywords normalizes free-text cause strings into keyword sets.
// Extraction lowercases, splits on non-alphanumeric runes, drops tokens of
// two runes or fewer and filters a stop-word list covering prepositions,
// articles and generic ticketing vocabulary.
package keywords

import (
	"strings"
	"unicode"
)

// DefaultStopwords is the built-in stop-word list for Spanish-language
// cause text, including generic terms that describe every ticket equally
// and therefore carry no grouping signal.
func DefaultStopwords() []string {
	return []string{
		"de", "la", "el", "en", "con", "por", "para", "del", "al", "y", "o",
		"que", "se", "no", "un", "una", "los", "las", "es", "son", "fue",
		"error", "falla", "problema", "issue", "ticket", "caso", "cliente",
		"usuario",
	}
}

// Extractor turns cause strings into normalized keyword sequences.
type Extractor struct {
	stopwords map[string]struct{}
}

// NewExtractor creates an extractor with the given stop-word list.
func NewExtractor(stopwords []string) *Extractor {
	stops := make(map[string]struct{}, len(stopwords))
	for _, w := range stopwords {
		stops[strings.ToLower(w)] = struct{}{}
	}
	return &Extractor{stopwords: stops}
}

// Extract returns the ordered keyword tokens of a cause string. It is a
// pure function of the input and the stop-word set: an empty or
// all-stop-word input yields an empty slice, never an error.
func (e *Extractor) Extract(cause string) []string {
	var tokens []string
	var current strings.Builder

	flush := func() {
		if current.Len() == 0 {
			return
		}
		word := current.String()
		current.Reset()
		if len([]rune(word)) <= 2 {
			return
		}
		if _, stop := e.stopwords[word]; stop {
			return
		}
		tokens = append(tokens, word)
	}

	for _, r := range cause {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			current.WriteRune(unicode.ToLower(r))
		} else {
			flush()
		}
	}
	flush()

	return tokens
}

// Set returns the keyword set of a cause string.
func (e *Extractor) Set(cause string) Set {
	return NewSet(e.Extract(cause))
}

// Set is a set of normalized keyword tokens.
type Set map[string]struct{}

// NewSet builds a Set from a token slice.
func NewSet(tokens []string) Set {
	s := make(Set, len(tokens))
	for _, t := range tokens {
		s[t] = struct{}{}
	}
	return s
}

// Jaccard computes |a∩b| / |a∪b|. It returns 0 when either set is empty,
// so causes whose text is all stop-words never match anything.
func Jaccard(a, b Set) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	intersection := 0
	for t := range a {
		if _, ok := b[t]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	return float64(intersection) / float64(union)
}
