package matching

import (
	"strings"
	"unicode"
)

// KeywordMatcher decides whether any profile token is present in a scholarship's text.
type KeywordMatcher interface {
	Match(needles []string, haystack string) bool
}

// Tokenize lowercases text and splits it on whitespace, dropping empty tokens.
func Tokenize(text string) []string {
	return strings.Fields(strings.ToLower(text))
}

// SubstringMatcher reports a match when any needle occurs anywhere in the haystack.
// Short tokens such as "a" match incidentally; this is the baseline policy.
type SubstringMatcher struct{}

func (SubstringMatcher) Match(needles []string, haystack string) bool {
	haystack = strings.ToLower(haystack)
	for _, needle := range needles {
		if needle != "" && strings.Contains(haystack, needle) {
			return true
		}
	}
	return false
}

// WordMatcher only matches whole words of the haystack, ignoring punctuation.
type WordMatcher struct{}

func (WordMatcher) Match(needles []string, haystack string) bool {
	words := make(map[string]struct{})
	for _, word := range strings.FieldsFunc(strings.ToLower(haystack), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		words[word] = struct{}{}
	}

	for _, needle := range needles {
		if _, ok := words[needle]; ok {
			return true
		}
	}
	return false
}
