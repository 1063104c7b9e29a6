// Package grounding verifies that generated text is supported by a
// source document, combining sentence-level embedding similarity with
// an independent judge model.
package grounding

import "math"

// Method identifies which checking path produced a Result.
type Method string

const (
	MethodSemantic        Method = "semantic"
	MethodKeyword         Method = "keyword"
	MethodJudge           Method = "judge"
	MethodHybridFast      Method = "hybrid-fast"
	MethodHybridOverride  Method = "hybrid-override"
	MethodHybridConfirmed Method = "hybrid-confirmed"
	// MethodHybridDegraded marks a hybrid check that wanted a judge
	// pass but could not reach the judge; the verdict is semantic-only.
	MethodHybridDegraded Method = "hybrid-degraded"
	// MethodInconclusive marks a check where neither the embedding
	// service nor the judge could be reached. The verdict is ungrounded
	// with zero confidence but never aborts the run.
	MethodInconclusive Method = "inconclusive"
)

// Verdict is the judge model's ruling on a whole answer.
type Verdict struct {
	Verdict    string  `json:"verdict"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
}

const (
	VerdictSupported    = "SUPPORTED"
	VerdictNotSupported = "NOT_SUPPORTED"
)

// Result is the outcome of one grounding check. It always carries
// enough detail (method, issues, judge verdict) to explain why the
// verdict was reached without consulting raw model traffic.
type Result struct {
	IsGrounded          bool     `json:"is_grounded"`
	Confidence          float64  `json:"confidence"`
	Method              Method   `json:"method"`
	Issues              []string `json:"issues"`
	GroundedSentences   []string `json:"grounded_sentences"`
	UngroundedSentences []string `json:"ungrounded_sentences"`
	JudgeVerdict        *Verdict `json:"judge_verdict,omitempty"`
}

// TotalSentences returns how many sentences the check classified.
func (r Result) TotalSentences() int {
	return len(r.GroundedSentences) + len(r.UngroundedSentences)
}

// round3 matches the three-decimal confidence reporting used across
// results and grades.
func round3(x float64) float64 {
	return math.Round(x*1000) / 1000
}
