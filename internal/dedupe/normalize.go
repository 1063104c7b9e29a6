// Package dedupe detects near-duplicate questions so regeneration
// keeps a document's question set distinct.
package dedupe

import (
	"strings"
	"unicode"
)

// contraction expansions applied before comparison; ordered so longer
// suffixes win ("n't" before "'t").
var contractions = []struct{ from, to string }{
	{"'s", " is"},
	{"'re", " are"},
	{"'ve", " have"},
	{"'ll", " will"},
	{"'d", " would"},
	{"'m", " am"},
	{"n't", " not"},
	{"'t", " not"},
}

// normalizeText lowercases, expands contractions, collapses
// whitespace, and strips everything that is not alphanumeric or a
// space.
func normalizeText(text string) string {
	normalized := strings.ToLower(text)
	for _, c := range contractions {
		normalized = strings.ReplaceAll(normalized, c.from, c.to)
	}
	normalized = strings.Join(strings.Fields(normalized), " ")

	var b strings.Builder
	b.Grow(len(normalized))
	for _, r := range normalized {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// jaccard computes word-set Jaccard similarity of two normalized
// texts. Two empty texts are identical; one empty text matches
// nothing.
func jaccard(a, b string) float64 {
	wordsA := wordSet(normalizeText(a))
	wordsB := wordSet(normalizeText(b))
	if len(wordsA) == 0 && len(wordsB) == 0 {
		return 1.0
	}
	if len(wordsA) == 0 || len(wordsB) == 0 {
		return 0.0
	}

	intersection := 0
	for w := range wordsA {
		if wordsB[w] {
			intersection++
		}
	}
	union := len(wordsA) + len(wordsB) - intersection
	return float64(intersection) / float64(union)
}

func wordSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(s) {
		set[w] = true
	}
	return set
}
