// internal/grounding/checker.go
package grounding

import (
	"context"
	"errors"
	"fmt"

	"github.com/tohyewhong/qagredo-local/internal/appconfig"
	"github.com/tohyewhong/qagredo-local/internal/document"
	"github.com/tohyewhong/qagredo-local/internal/embedding"
)

// Checker runs grounding checks using injected embedding and judge
// capabilities. It is safe for concurrent use as long as the injected
// clients are.
type Checker struct {
	embedder embedding.Client
	judge    Judge

	method              string
	similarityThreshold float64
	minConfidence       float64
}

// NewChecker builds a Checker. judge may be nil when the configured
// method never consults it.
func NewChecker(embedder embedding.Client, judge Judge, cfg appconfig.Grounding) *Checker {
	return &Checker{
		embedder:            embedder,
		judge:               judge,
		method:              cfg.SelectedMethod(),
		similarityThreshold: cfg.Similarity(),
		minConfidence:       cfg.Confidence(),
	}
}

// Check verifies that answer is grounded in doc using the configured
// method.
func (c *Checker) Check(ctx context.Context, doc *document.Document, question, answer string) (Result, error) {
	switch c.method {
	case "keyword":
		return c.checkKeyword(answer, doc), nil
	case "semantic":
		result, err := c.checkSemantic(ctx, answer, doc)
		if errors.Is(err, embedding.ErrUnavailable) {
			// No embeddings, no semantic pass; keyword matching is
			// the best verdict still available.
			return c.checkKeyword(answer, doc), nil
		}
		return result, err
	case "judge":
		return c.checkJudge(ctx, doc, question, answer)
	case "hybrid":
		return c.checkHybrid(ctx, doc, question, answer)
	default:
		return Result{}, fmt.Errorf("unknown grounding method %q", c.method)
	}
}

// CheckFast verifies text against doc with the semantic checker only,
// regardless of the configured method. Question validation uses this
// because it runs once per candidate inside a tight generation loop.
func (c *Checker) CheckFast(ctx context.Context, text string, doc *document.Document) (Result, error) {
	return c.checkSemantic(ctx, text, doc)
}
