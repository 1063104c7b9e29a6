// internal/document/segmenter.go
package document

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Periods that do not end a sentence are swapped for a placeholder
// before splitting, then restored afterwards.
const (
	protectedDot      = "\x00"
	protectedEllipsis = "\x01"
	sentenceBreak     = "\x02"
)

const abbrevTokens = "Dr|Mr|Mrs|Ms|Prof|Sr|Jr|St|vs|etc|inc|ltd|corp|dept|approx|est|govt|intl|natl|assn|assoc|vol|no|fig|ref|pp|ed|rev|gen|sgt|cpl|pvt|lt|col|capt|maj|brig|adm|cmdr"

var (
	abbrevRe     = regexp.MustCompile(`(?i)\b(` + abbrevTokens + `)\.\s`)
	listMarkerRe = regexp.MustCompile(`(^|\n)\s*(\d{1,3})\.\s`)
	decimalRe    = regexp.MustCompile(`(\d)\.(\d)`)
	ellipsisRe   = regexp.MustCompile(`\.{3,}`)
	boundaryRe   = regexp.MustCompile(`([.!?])\s+`)
)

// SegmentSentences splits text into sentences. Periods after
// abbreviations, inside decimal numbers, after numbered-list markers,
// and in ellipses do not split. Fragments of two runes or fewer are
// discarded. It never fails: unsplittable text comes back as a single
// sentence.
func SegmentSentences(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	protected := abbrevRe.ReplaceAllString(text, "$1"+protectedDot+" ")
	protected = listMarkerRe.ReplaceAllString(protected, " $2"+protectedDot+" ")
	protected = decimalRe.ReplaceAllString(protected, "$1"+protectedDot+"$2")
	protected = ellipsisRe.ReplaceAllString(protected, protectedEllipsis)

	// Go's regexp has no lookbehind, so boundaries are marked with a
	// sentinel that keeps the terminator attached to its sentence.
	marked := boundaryRe.ReplaceAllString(protected, "$1"+sentenceBreak)
	marked = strings.ReplaceAll(marked, "\n", sentenceBreak)

	var sentences []string
	for _, raw := range strings.Split(marked, sentenceBreak) {
		s := strings.ReplaceAll(raw, protectedDot, ".")
		s = strings.ReplaceAll(s, protectedEllipsis, "...")
		s = strings.TrimSpace(s)
		if utf8.RuneCountInString(s) <= 2 {
			continue
		}
		sentences = append(sentences, s)
	}
	return sentences
}
