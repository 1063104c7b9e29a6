// internal/grounding/generic.go
package grounding

import (
	"regexp"
	"strings"
)

// genericPatterns match meta-statements about the document that carry
// no factual claim. Penalizing them would unfairly lower confidence,
// so they are auto-grounded.
var genericPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^the document\b`),
	regexp.MustCompile(`^according to the (document|text|article|report)`),
	regexp.MustCompile(`^as (stated|mentioned|described|noted|indicated) in the (document|text|article)`),
	regexp.MustCompile(`^the document (states|mentions|describes|discusses|says|indicates|notes)`),
	regexp.MustCompile(`^based on the (document|text|article|information provided)`),
	regexp.MustCompile(`^this (is a|refers to|means|suggests that|indicates)`),
	regexp.MustCompile(`^it (refers to|means|should be noted|is (important|worth noting|clear|evident))`),
}

// isGenericStatement reports whether a sentence is a meta-statement
// about the document rather than a checkable claim.
func isGenericStatement(sentence string) bool {
	lower := strings.ToLower(strings.TrimSpace(sentence))
	for _, re := range genericPatterns {
		if re.MatchString(lower) {
			return true
		}
	}
	return false
}

// snippet returns the first n runes of s followed by "...", matching
// the issue-string format used in reports.
func snippet(s string, n int) string {
	runes := []rune(s)
	if len(runes) > n {
		runes = runes[:n]
	}
	return string(runes) + "..."
}
