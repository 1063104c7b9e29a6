// internal/document/chunker.go
package document

import "strings"

// Chunk is a window of consecutive sentences. [Start, End) indexes
// into the sentence slice the chunk was built from.
type Chunk struct {
	Text  string
	Start int
	End   int
}

// windowSizes are the sliding-window widths used for grounding checks.
// Multi-sentence windows catch claims whose support spans a sentence
// boundary.
var windowSizes = []int{1, 2, 3}

// BuildChunks produces all sliding windows of 1, 2, and 3 consecutive
// sentences, joined by single spaces. For n sentences this yields
// n + max(0,n-1) + max(0,n-2) chunks.
func BuildChunks(sentences []string) []Chunk {
	n := len(sentences)
	if n == 0 {
		return nil
	}

	total := 0
	for _, k := range windowSizes {
		if n >= k {
			total += n - k + 1
		}
	}

	chunks := make([]Chunk, 0, total)
	for _, k := range windowSizes {
		for start := 0; start+k <= n; start++ {
			chunks = append(chunks, Chunk{
				Text:  strings.Join(sentences[start:start+k], " "),
				Start: start,
				End:   start + k,
			})
		}
	}
	return chunks
}
