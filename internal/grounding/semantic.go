// internal/grounding/semantic.go
package grounding

import (
	"context"
	"fmt"
	"strings"

	"github.com/tohyewhong/qagredo-local/internal/document"
	"github.com/tohyewhong/qagredo-local/internal/embedding"
)

// checkSemantic classifies each answer sentence by its maximum cosine
// similarity against the document's sliding-window chunks. It fails
// closed: any embedding failure returns an error wrapping
// embedding.ErrUnavailable rather than a guessed verdict.
func (c *Checker) checkSemantic(ctx context.Context, answer string, doc *document.Document) (Result, error) {
	sentences := document.SegmentSentences(answer)
	if len(sentences) == 0 {
		// Nothing checkable means nothing to be wrong about.
		return Result{
			IsGrounded: true,
			Confidence: 1.0,
			Method:     MethodSemantic,
		}, nil
	}

	chunks := doc.Chunks()
	chunkVecs := make([][]float64, len(chunks))
	for i, chunk := range chunks {
		vec, err := c.embedder.Embed(ctx, chunk.Text)
		if err != nil {
			return Result{}, fmt.Errorf("embedding document chunk: %w", err)
		}
		chunkVecs[i] = vec
	}

	result := Result{Method: MethodSemantic}
	for _, sentence := range sentences {
		if strings.TrimSpace(sentence) == "" {
			continue
		}

		vec, err := c.embedder.Embed(ctx, sentence)
		if err != nil {
			return Result{}, fmt.Errorf("embedding answer sentence: %w", err)
		}

		maxSimilarity := 0.0
		for _, chunkVec := range chunkVecs {
			if sim := embedding.Cosine(vec, chunkVec); sim > maxSimilarity {
				maxSimilarity = sim
			}
		}

		switch {
		case maxSimilarity >= c.similarityThreshold:
			result.GroundedSentences = append(result.GroundedSentences, sentence)
		case isGenericStatement(sentence):
			result.GroundedSentences = append(result.GroundedSentences, sentence)
		default:
			result.UngroundedSentences = append(result.UngroundedSentences, sentence)
			result.Issues = append(result.Issues,
				fmt.Sprintf("Low similarity (%.2f): '%s'", maxSimilarity, snippet(sentence, 100)))
		}
	}

	total := result.TotalSentences()
	if total == 0 {
		result.IsGrounded = true
		result.Confidence = 1.0
		return result, nil
	}
	result.Confidence = round3(float64(len(result.GroundedSentences)) / float64(total))
	result.IsGrounded = result.Confidence >= c.minConfidence && len(result.UngroundedSentences) == 0
	return result, nil
}
