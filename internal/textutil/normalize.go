// Package textutil canonicalizes free text for keyword matching and
// near-duplicate detection.
package textutil

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Normalize lower-cases, collapses whitespace runs to a single space and trims.
// Total: empty input yields an empty string.
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// NormalizeStrict additionally replaces every non-word rune with a space
// before collapsing. Word runes are letters, digits and underscore.
func NormalizeStrict(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// TitleTokens returns the set of distinct strict-normalized words longer
// than 2 runes.
func TitleTokens(title string) map[string]struct{} {
	tokens := map[string]struct{}{}
	for _, w := range strings.Fields(NormalizeStrict(title)) {
		if utf8.RuneCountInString(w) > 2 {
			tokens[w] = struct{}{}
		}
	}
	return tokens
}

// Similarity computes title overlap as |intersection| / min(|a|, |b|).
// The measure is deliberately biased toward flagging a short headline as a
// duplicate of a longer one that contains all its words; it is not Jaccard.
func Similarity(titleA, titleB string) float64 {
	setA := TitleTokens(titleA)
	setB := TitleTokens(titleB)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	shared := 0
	for w := range setA {
		if _, ok := setB[w]; ok {
			shared++
		}
	}

	smaller := len(setA)
	if len(setB) < smaller {
		smaller = len(setB)
	}
	return float64(shared) / float64(smaller)
}
