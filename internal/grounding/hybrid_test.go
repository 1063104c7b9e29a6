// internal/grounding/hybrid_test.go
package grounding

import (
	"context"
	"strings"
	"testing"

	"github.com/tohyewhong/qagredo-local/internal/appconfig"
	"github.com/tohyewhong/qagredo-local/internal/document"
	"github.com/tohyewhong/qagredo-local/internal/embedding"
)

type stubJudge struct {
	calls   int
	verdict Verdict
	err     error
}

func (s *stubJudge) Judge(context.Context, string, string, string) (Verdict, error) {
	s.calls++
	if s.err != nil {
		return Verdict{}, s.err
	}
	return s.verdict, nil
}

func hybridChecker(e embedding.Client, j Judge) *Checker {
	return NewChecker(e, j, appconfig.Grounding{Method: "hybrid"})
}

func skyDoc() *document.Document {
	return &document.Document{Content: "The sky is blue."}
}

func skyEmbedder() *stubEmbedder {
	return &stubEmbedder{vecs: map[string][]float64{
		"The sky is blue.": {1, 0, 0},
	}}
}

func TestHybridFastSkipsJudge(t *testing.T) {
	judge := &stubJudge{}
	checker := hybridChecker(skyEmbedder(), judge)

	result, err := checker.Check(context.Background(), skyDoc(), "What color?", "The sky is blue.")
	if err != nil {
		t.Fatalf("Check() error: %v", err)
	}
	if judge.calls != 0 {
		t.Errorf("judge called %d times, want 0 when all sentences pass semantically", judge.calls)
	}
	if !result.IsGrounded || result.Method != MethodHybridFast {
		t.Errorf("result = %+v, want grounded with method hybrid-fast", result)
	}
}

func TestHybridJudgeOverride(t *testing.T) {
	judge := &stubJudge{verdict: Verdict{Verdict: VerdictSupported, Confidence: 0.9, Reason: "counts match"}}
	checker := hybridChecker(skyEmbedder(), judge)

	result, err := checker.Check(context.Background(), skyDoc(), "What color?", "Elephants can fly everywhere.")
	if err != nil {
		t.Fatalf("Check() error: %v", err)
	}
	if judge.calls != 1 {
		t.Errorf("judge called %d times, want exactly 1", judge.calls)
	}
	if !result.IsGrounded {
		t.Error("SUPPORTED judge verdict at 0.9 should override the semantic failure")
	}
	if result.Confidence != 0.9 {
		t.Errorf("Confidence = %v, want judge confidence 0.9", result.Confidence)
	}
	if result.Method != MethodHybridOverride {
		t.Errorf("Method = %q, want hybrid-override", result.Method)
	}
	if len(result.UngroundedSentences) != 0 {
		t.Errorf("UngroundedSentences = %q, want none after override", result.UngroundedSentences)
	}
	if result.JudgeVerdict == nil {
		t.Error("JudgeVerdict missing from overridden result")
	}
}

func TestHybridJudgeConfirms(t *testing.T) {
	judge := &stubJudge{verdict: Verdict{Verdict: VerdictNotSupported, Confidence: 0.4, Reason: "not in document"}}
	checker := hybridChecker(skyEmbedder(), judge)

	result, err := checker.Check(context.Background(), skyDoc(), "What color?", "The sky is blue. Elephants can fly everywhere.")
	if err != nil {
		t.Fatalf("Check() error: %v", err)
	}
	if result.IsGrounded {
		t.Error("IsGrounded = true, want false when judge confirms the failure")
	}
	// min(semantic 0.5, judge 0.4)
	if result.Confidence != 0.4 {
		t.Errorf("Confidence = %v, want 0.4", result.Confidence)
	}
	if result.Method != MethodHybridConfirmed {
		t.Errorf("Method = %q, want hybrid-confirmed", result.Method)
	}
	found := false
	for _, issue := range result.Issues {
		if strings.Contains(issue, "judge: not in document") {
			found = true
		}
	}
	if !found {
		t.Errorf("Issues = %q, want the judge's reason appended", result.Issues)
	}
}

func TestHybridLowConfidenceSupportDoesNotOverride(t *testing.T) {
	judge := &stubJudge{verdict: Verdict{Verdict: VerdictSupported, Confidence: 0.5, Reason: "weak support"}}
	checker := hybridChecker(skyEmbedder(), judge)

	result, err := checker.Check(context.Background(), skyDoc(), "", "Elephants can fly everywhere.")
	if err != nil {
		t.Fatalf("Check() error: %v", err)
	}
	if result.IsGrounded {
		t.Error("SUPPORTED below the confidence floor must not override")
	}
	if result.Method != MethodHybridConfirmed {
		t.Errorf("Method = %q, want hybrid-confirmed", result.Method)
	}
}

func TestHybridDegradedWhenJudgeDown(t *testing.T) {
	judge := &stubJudge{err: ErrJudgeUnreachable}
	checker := hybridChecker(skyEmbedder(), judge)

	result, err := checker.Check(context.Background(), skyDoc(), "", "Elephants can fly everywhere.")
	if err != nil {
		t.Fatalf("Check() error: %v (judge outage must not fail the check)", err)
	}
	if result.Method != MethodHybridDegraded {
		t.Errorf("Method = %q, want hybrid-degraded", result.Method)
	}
	if result.IsGrounded {
		t.Error("degraded verdict should keep the semantic failure")
	}
}

func TestHybridJudgeOnlyWhenEmbeddingDown(t *testing.T) {
	embedder := &stubEmbedder{err: embedding.ErrUnavailable}
	judge := &stubJudge{verdict: Verdict{Verdict: VerdictSupported, Confidence: 0.85}}
	checker := hybridChecker(embedder, judge)

	result, err := checker.Check(context.Background(), skyDoc(), "", "The sky is blue.")
	if err != nil {
		t.Fatalf("Check() error: %v", err)
	}
	if judge.calls != 1 {
		t.Errorf("judge called %d times, want 1", judge.calls)
	}
	if result.Method != MethodJudge {
		t.Errorf("Method = %q, want judge when no semantic pass is possible", result.Method)
	}
	if !result.IsGrounded {
		t.Error("IsGrounded = false, want true from the judge-only verdict")
	}
}

func TestHybridInconclusiveWhenBothDown(t *testing.T) {
	embedder := &stubEmbedder{err: embedding.ErrUnavailable}
	judge := &stubJudge{err: ErrJudgeUnreachable}
	checker := hybridChecker(embedder, judge)

	result, err := checker.Check(context.Background(), skyDoc(), "", "The sky is blue.")
	if err != nil {
		t.Fatalf("Check() error: %v (double outage must be absorbed, not fatal)", err)
	}
	if result.Method != MethodInconclusive {
		t.Errorf("Method = %q, want inconclusive", result.Method)
	}
	if result.IsGrounded || result.Confidence != 0 {
		t.Errorf("result = %+v, want ungrounded with zero confidence", result)
	}
}
