// internal/generate/answers.go
package generate

import (
	"context"
	"regexp"
	"strings"
	"sync"

	"github.com/tohyewhong/qagredo-local/internal/appconfig"
	"github.com/tohyewhong/qagredo-local/internal/document"
	"github.com/tohyewhong/qagredo-local/internal/grounding"
	"github.com/tohyewhong/qagredo-local/internal/logging"
)

// Answer is one verified answer to a question about a document.
type Answer struct {
	Question       string           `json:"question"`
	Text           string           `json:"text"`
	Evidence       string           `json:"supporting_evidence,omitempty"`
	Accepted       bool             `json:"accepted"`
	Attempts       int              `json:"attempts"`
	WasRegenerated bool             `json:"was_regenerated"`
	Verdict        grounding.Result `json:"verdict"`
}

// AnswerGenerator produces answers verified by the configured
// grounding method (hybrid by default) with bounded regeneration.
type AnswerGenerator struct {
	llm     TextGenerator
	checker Verifier
	cfg     appconfig.Answers
}

// NewAnswerGenerator wires an answer generator.
func NewAnswerGenerator(llm TextGenerator, checker Verifier, cfg appconfig.Answers) *AnswerGenerator {
	return &AnswerGenerator{llm: llm, checker: checker, cfg: cfg}
}

// Generate answers every question concurrently. Each question's
// verification is independent; the shared LLM and checker clients are
// safe for concurrent use. A failed generation is recorded against its
// question, never fatal to the batch.
func (g *AnswerGenerator) Generate(ctx context.Context, doc *document.Document, questions []Question) []Answer {
	answers := make([]Answer, len(questions))

	var wg sync.WaitGroup
	for i, q := range questions {
		wg.Add(1)
		go func(i int, question string) {
			defer wg.Done()
			answers[i] = g.answerOne(ctx, doc, question)
		}(i, q.Text)
	}
	wg.Wait()
	return answers
}

func (g *AnswerGenerator) answerOne(ctx context.Context, doc *document.Document, question string) Answer {
	evidence := ""
	regenerated := false

	gen := func(ctx context.Context, feedback *Feedback) (string, error) {
		if feedback == nil {
			raw, err := g.llm.Generate(ctx, answerSystemPrompt, answerPrompt(question, doc.Content))
			if err != nil {
				return "", err
			}
			answer, ev := parseStructuredAnswer(raw)
			evidence = ev
			return answer, nil
		}
		regenerated = true
		return g.llm.Generate(ctx, answerSystemPrompt, answerRegenPrompt(doc.Content, question, feedback.Previous))
	}
	verify := func(ctx context.Context, candidate string) (grounding.Result, error) {
		return g.checker.Check(ctx, doc, question, candidate)
	}

	outcome, err := RegenerateUntilAccepted(ctx, gen, verify, g.cfg.RetryBudget(), g.cfg.Confidence())
	if err != nil {
		logging.LogEvent("answer generation failed for %s: %v", doc.ID, err)
		return Answer{
			Question: question,
			Text:     "(answer generation failed)",
			Verdict: grounding.Result{
				Method: grounding.MethodInconclusive,
				Issues: []string{err.Error()},
			},
		}
	}

	return Answer{
		Question:       question,
		Text:           outcome.Candidate,
		Evidence:       evidence,
		Accepted:       outcome.Accepted,
		Attempts:       outcome.Attempts,
		WasRegenerated: regenerated,
		Verdict:        outcome.Verdict,
	}
}

var (
	answerLabelRe   = regexp.MustCompile(`(?i)(?:^|\n)\s*answer\s*:\s*`)
	evidenceLabelRe = regexp.MustCompile(`(?i)(?:^|\n)\s*supporting evidence\s*:\s*`)
)

// parseStructuredAnswer splits a model reply into answer and evidence.
// Replies that ignore the requested format come back whole as the
// answer with empty evidence.
func parseStructuredAnswer(raw string) (string, string) {
	text := strings.TrimSpace(raw)
	answer := text
	evidence := ""

	body := text
	if loc := evidenceLabelRe.FindStringIndex(text); loc != nil {
		evidence = strings.TrimSpace(text[loc[1]:])
		body = text[:loc[0]]
	}
	if loc := answerLabelRe.FindStringIndex(body); loc != nil {
		answer = strings.TrimSpace(body[loc[1]:])
	}
	return answer, evidence
}
