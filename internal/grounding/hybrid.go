// internal/grounding/hybrid.go
package grounding

import (
	"context"
	"errors"
	"fmt"

	"github.com/tohyewhong/qagredo-local/internal/document"
	"github.com/tohyewhong/qagredo-local/internal/embedding"
)

// hybridState drives the two-pass check. The explicit machine keeps
// the override/confirm semantics auditable: SEMANTIC_PASS either
// accepts outright or hands off to JUDGE_PASS, and every transition
// has exactly one guard.
type hybridState int

const (
	stateSemanticPass hybridState = iota
	stateJudgePass
	stateAccept
)

// checkHybrid runs the semantic checker first and consults the judge
// only for answers with at least one ungrounded sentence. Per-sentence
// similarity cannot verify counting, aggregation, or multi-hop
// inference, which is what the judge pass exists for.
func (c *Checker) checkHybrid(ctx context.Context, doc *document.Document, question, answer string) (Result, error) {
	var (
		state    = stateSemanticPass
		semantic Result
		final    Result
	)

	for state != stateAccept {
		switch state {
		case stateSemanticPass:
			sem, err := c.checkSemantic(ctx, answer, doc)
			if err != nil {
				if !errors.Is(err, embedding.ErrUnavailable) {
					return Result{}, err
				}
				// No semantic pass possible: fall through to a
				// judge-only check, or report inconclusive if the
				// judge is down too.
				return c.hybridWithoutSemantic(ctx, doc, question, answer)
			}
			semantic = sem
			if len(semantic.UngroundedSentences) == 0 {
				final = semantic
				final.Method = MethodHybridFast
				state = stateAccept
				continue
			}
			state = stateJudgePass

		case stateJudgePass:
			verdict, err := c.judge.Judge(ctx, doc.Content, question, answer)
			if err != nil {
				if !errors.Is(err, ErrJudgeUnreachable) {
					return Result{}, err
				}
				final = semantic
				final.Method = MethodHybridDegraded
				final.Issues = append(final.Issues, fmt.Sprintf("judge unavailable: %v", err))
				state = stateAccept
				continue
			}

			if verdict.Verdict == VerdictSupported && verdict.Confidence >= c.minConfidence {
				// Judge overrides the semantic verdict wholesale.
				all := append(append([]string{}, semantic.GroundedSentences...), semantic.UngroundedSentences...)
				final = Result{
					IsGrounded:        true,
					Confidence:        round3(verdict.Confidence),
					Method:            MethodHybridOverride,
					GroundedSentences: all,
					JudgeVerdict:      &verdict,
				}
				state = stateAccept
				continue
			}

			// Judge agrees (or is unsure): keep the semantic verdict
			// with the lower of the two confidences.
			final = semantic
			final.Method = MethodHybridConfirmed
			final.Confidence = round3(min(semantic.Confidence, verdict.Confidence))
			final.IsGrounded = final.Confidence >= c.minConfidence && len(final.UngroundedSentences) == 0
			final.JudgeVerdict = &verdict
			if verdict.Reason != "" {
				final.Issues = append(final.Issues, fmt.Sprintf("judge: %s", verdict.Reason))
			}
			state = stateAccept
		}
	}
	return final, nil
}

// hybridWithoutSemantic handles the embedding-service-down branch of
// the hybrid check. Both services down is absorbed as an inconclusive
// verdict, never a run failure.
func (c *Checker) hybridWithoutSemantic(ctx context.Context, doc *document.Document, question, answer string) (Result, error) {
	result, err := c.checkJudge(ctx, doc, question, answer)
	if err == nil {
		return result, nil
	}
	if !errors.Is(err, ErrJudgeUnreachable) {
		return Result{}, err
	}
	return Result{
		Confidence: 0,
		Method:     MethodInconclusive,
		Issues: []string{
			"embedding service unavailable",
			fmt.Sprintf("judge unavailable: %v", err),
		},
	}, nil
}
