// internal/grounding/judge_test.go
package grounding

import (
	"context"
	"testing"

	"github.com/tohyewhong/qagredo-local/internal/appconfig"
	"github.com/tohyewhong/qagredo-local/internal/document"
)

func TestParseVerdictStrictJSON(t *testing.T) {
	v := ParseVerdict(`{"verdict": "SUPPORTED", "confidence": 0.92, "reason": "all claims found"}`)
	if v.Verdict != VerdictSupported || v.Confidence != 0.92 || v.Reason != "all claims found" {
		t.Errorf("ParseVerdict() = %+v", v)
	}
}

func TestParseVerdictUppercasesVerdict(t *testing.T) {
	v := ParseVerdict(`{"verdict": "not_supported", "confidence": 0.2, "reason": "missing"}`)
	if v.Verdict != VerdictNotSupported || v.Confidence != 0.2 {
		t.Errorf("ParseVerdict() = %+v", v)
	}
}

func TestParseVerdictLenientText(t *testing.T) {
	v := ParseVerdict("After reviewing the document, the answer is NOT SUPPORTED because the count is wrong.")
	if v.Verdict != VerdictNotSupported {
		t.Errorf("Verdict = %q, want NOT_SUPPORTED", v.Verdict)
	}
	if v.Confidence != 0.3 {
		t.Errorf("Confidence = %v, want 0.3", v.Confidence)
	}
}

func TestParseVerdictLenientSupported(t *testing.T) {
	v := ParseVerdict("The claims are SUPPORTED by paragraph two.")
	if v.Verdict != VerdictSupported || v.Confidence != 0.8 {
		t.Errorf("ParseVerdict() = %+v", v)
	}
}

func TestParseVerdictConfidenceExtraction(t *testing.T) {
	// Chatty prefix breaks strict parsing; the lenient scan should
	// still recover the embedded confidence.
	v := ParseVerdict(`Sure! {"verdict": "SUPPORTED", "confidence": 0.95, "reason": "ok"}`)
	if v.Verdict != VerdictSupported {
		t.Errorf("Verdict = %q, want SUPPORTED", v.Verdict)
	}
	if v.Confidence != 0.95 {
		t.Errorf("Confidence = %v, want 0.95", v.Confidence)
	}
}

func TestParseVerdictClampsConfidence(t *testing.T) {
	v := ParseVerdict(`Reply: SUPPORTED with "confidence": 3.5 overall`)
	if v.Confidence != 1.0 {
		t.Errorf("Confidence = %v, want clamped to 1.0", v.Confidence)
	}
}

func TestParseVerdictUnparseable(t *testing.T) {
	v := ParseVerdict("I am unable to evaluate this request.")
	if v.Verdict != VerdictNotSupported || v.Confidence != 0 {
		t.Errorf("ParseVerdict() = %+v, want NOT_SUPPORTED with zero confidence", v)
	}
	if v.Reason != "unparseable judge response" {
		t.Errorf("Reason = %q", v.Reason)
	}
}

func TestJudgeOnlyCheckMapsVerdict(t *testing.T) {
	judge := &stubJudge{verdict: Verdict{Verdict: VerdictSupported, Confidence: 0.88, Reason: "fine"}}
	checker := NewChecker(nil, judge, appconfig.Grounding{Method: "judge"})
	doc := &document.Document{Content: "The sky is blue."}

	result, err := checker.Check(context.Background(), doc, "What color is the sky?", "The sky is blue.")
	if err != nil {
		t.Fatalf("Check() error: %v", err)
	}
	if !result.IsGrounded || result.Confidence != 0.88 || result.Method != MethodJudge {
		t.Errorf("result = %+v", result)
	}
	if len(result.GroundedSentences) != 1 {
		t.Errorf("GroundedSentences = %q, want every answer sentence", result.GroundedSentences)
	}
}

func TestJudgeOnlyCheckEmptyAnswer(t *testing.T) {
	judge := &stubJudge{}
	checker := NewChecker(nil, judge, appconfig.Grounding{Method: "judge"})
	doc := &document.Document{Content: "The sky is blue."}

	result, err := checker.Check(context.Background(), doc, "", "  ")
	if err != nil {
		t.Fatalf("Check() error: %v", err)
	}
	if result.IsGrounded || result.Confidence != 0 {
		t.Errorf("result = %+v, want ungrounded empty-answer verdict", result)
	}
	if judge.calls != 0 {
		t.Errorf("judge called %d times for an empty answer, want 0", judge.calls)
	}
}
