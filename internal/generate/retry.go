// internal/generate/retry.go
package generate

import (
	"context"
	"strings"

	"github.com/tohyewhong/qagredo-local/internal/grounding"
)

// Feedback carries a rejected candidate and the reason it failed, so
// the next generation attempt can adapt. The controller passes only
// the immediately preceding attempt; it keeps no further history.
type Feedback struct {
	Previous string
	Reason   string
}

// GenerateFunc produces a candidate, optionally informed by the
// rejection of the previous one. feedback is nil on the first attempt.
type GenerateFunc func(ctx context.Context, feedback *Feedback) (string, error)

// VerifyFunc checks a candidate's grounding.
type VerifyFunc func(ctx context.Context, candidate string) (grounding.Result, error)

// Outcome is the result of a regeneration loop.
type Outcome struct {
	Candidate string
	Accepted  bool
	Attempts  int
	Verdict   grounding.Result
}

// RegenerateUntilAccepted runs the bounded generate/verify loop shared
// by question and answer generation. A candidate is accepted when its
// verdict is grounded with confidence at or above minConfidence. When
// the budget runs out the LAST candidate is returned unaccepted, with
// its verdict attached; exhaustion is an expected terminal state, not
// an error.
func RegenerateUntilAccepted(ctx context.Context, generate GenerateFunc, verify VerifyFunc, maxAttempts int, minConfidence float64) (Outcome, error) {
	if maxAttempts <= 0 {
		maxAttempts = 1
	}

	var (
		out      Outcome
		feedback *Feedback
	)
	for attempt := 0; attempt < maxAttempts; attempt++ {
		candidate, err := generate(ctx, feedback)
		if err != nil {
			return Outcome{}, err
		}

		verdict, err := verify(ctx, candidate)
		if err != nil {
			return Outcome{}, err
		}

		out = Outcome{Candidate: candidate, Attempts: attempt + 1, Verdict: verdict}
		if verdict.IsGrounded && verdict.Confidence >= minConfidence {
			out.Accepted = true
			return out, nil
		}
		feedback = &Feedback{
			Previous: candidate,
			Reason:   strings.Join(verdict.Issues, "; "),
		}
	}
	return out, nil
}
