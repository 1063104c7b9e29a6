// internal/grounding/keyword.go
package grounding

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/tohyewhong/qagredo-local/internal/document"
)

// hedgePhrases waive sentences that explicitly report the document
// does not contain something; such sentences are honest, not
// hallucinated.
var hedgePhrases = []string{
	"not in the document",
	"not found in the document",
	"not mentioned in the document",
	"not stated in the document",
	"not provided in the document",
	"not explicitly stated",
	"not explicitly mentioned",
}

// uncertaintyPhrases earn a confidence bonus: an answer that admits it
// does not know is safer than one that invents.
var uncertaintyPhrases = []string{
	"i don't know",
	"i cannot",
	"i'm not sure",
	"i cannot determine",
	"cannot be determined",
	"not enough information",
}

var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "but": true,
	"in": true, "on": true, "at": true, "to": true, "for": true, "of": true,
	"with": true, "by": true, "from": true, "as": true, "is": true, "was": true,
	"are": true, "were": true, "be": true, "been": true, "being": true,
	"have": true, "has": true, "had": true, "do": true, "does": true, "did": true,
	"will": true, "would": true, "could": true, "should": true, "may": true,
	"might": true, "must": true, "can": true, "this": true, "that": true,
	"these": true, "those": true, "it": true, "its": true, "they": true,
	"them": true, "their": true,
}

var wordRe = regexp.MustCompile(`\b\w+\b`)

// checkKeyword classifies sentences by whether their key phrases appear
// verbatim in the document. Cheap and network-free, but blind to
// paraphrase; it exists as the zero-dependency fallback method.
func (c *Checker) checkKeyword(answer string, doc *document.Document) Result {
	result := Result{Method: MethodKeyword}
	docLower := strings.ToLower(doc.Content)

	for _, sentence := range document.SegmentSentences(answer) {
		if strings.TrimSpace(sentence) == "" {
			continue
		}
		lower := strings.ToLower(sentence)

		if containsAny(lower, hedgePhrases) {
			result.GroundedSentences = append(result.GroundedSentences, sentence)
			continue
		}

		phrases := extractKeyPhrases(sentence)
		found := 0
		for _, phrase := range phrases {
			if len(phrase) > 3 && strings.Contains(docLower, phrase) {
				found++
			}
		}

		switch {
		case found > 0 || len(phrases) == 0:
			result.GroundedSentences = append(result.GroundedSentences, sentence)
		case isGenericStatement(sentence):
			result.GroundedSentences = append(result.GroundedSentences, sentence)
		default:
			result.UngroundedSentences = append(result.UngroundedSentences, sentence)
			result.Issues = append(result.Issues,
				fmt.Sprintf("Potential hallucination: '%s' - key phrases not found in document", snippet(sentence, 100)))
		}
	}

	total := result.TotalSentences()
	confidence := 0.0
	if total > 0 {
		confidence = float64(len(result.GroundedSentences)) / float64(total)
	}
	if containsAny(strings.ToLower(answer), uncertaintyPhrases) {
		confidence = min(confidence+0.2, 1.0)
	}

	result.Confidence = round3(confidence)
	result.IsGrounded = result.Confidence >= c.minConfidence && len(result.UngroundedSentences) == 0
	return result
}

func containsAny(s string, phrases []string) bool {
	for _, phrase := range phrases {
		if strings.Contains(s, phrase) {
			return true
		}
	}
	return false
}

// extractKeyPhrases returns the stop-word-free bigrams and trigrams of
// a sentence, lowercased.
func extractKeyPhrases(sentence string) []string {
	words := wordRe.FindAllString(strings.ToLower(sentence), -1)

	var phrases []string
	for i := 0; i < len(words)-1; i++ {
		if !stopWords[words[i]] && !stopWords[words[i+1]] {
			if phrase := words[i] + " " + words[i+1]; len(phrase) >= 4 {
				phrases = append(phrases, phrase)
			}
		}
		if i < len(words)-2 && !stopWords[words[i]] && !stopWords[words[i+1]] && !stopWords[words[i+2]] {
			if phrase := words[i] + " " + words[i+1] + " " + words[i+2]; len(phrase) >= 4 {
				phrases = append(phrases, phrase)
			}
		}
	}
	return phrases
}
