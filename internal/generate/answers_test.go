// internal/generate/answers_test.go
package generate

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/tohyewhong/qagredo-local/internal/appconfig"
	"github.com/tohyewhong/qagredo-local/internal/document"
	"github.com/tohyewhong/qagredo-local/internal/grounding"
)

func TestParseStructuredAnswer(t *testing.T) {
	raw := `Answer: Three men were arrested in total.
Supporting evidence: "John was arrested", "Peter was also arrested", "Mark was detained"`
	answer, evidence := parseStructuredAnswer(raw)
	if answer != "Three men were arrested in total." {
		t.Errorf("answer = %q", answer)
	}
	if !strings.Contains(evidence, "John was arrested") {
		t.Errorf("evidence = %q", evidence)
	}
}

func TestParseStructuredAnswerMultiline(t *testing.T) {
	raw := `Answer: The items are:
1. a hammer
2. a nail
A total of 2 items.
Supporting evidence: the tool list in paragraph two.`
	answer, evidence := parseStructuredAnswer(raw)
	if !strings.Contains(answer, "A total of 2 items.") {
		t.Errorf("answer = %q, want the full multi-line answer", answer)
	}
	if strings.Contains(answer, "Supporting evidence") {
		t.Errorf("answer = %q, evidence section should be split off", answer)
	}
	if evidence != "the tool list in paragraph two." {
		t.Errorf("evidence = %q", evidence)
	}
}

func TestParseStructuredAnswerFallback(t *testing.T) {
	raw := "The model ignored the format entirely and just replied."
	answer, evidence := parseStructuredAnswer(raw)
	if answer != raw {
		t.Errorf("answer = %q, want the whole reply", answer)
	}
	if evidence != "" {
		t.Errorf("evidence = %q, want empty", evidence)
	}
}

func TestParseStructuredAnswerCaseInsensitive(t *testing.T) {
	answer, evidence := parseStructuredAnswer("ANSWER: yes\nSUPPORTING EVIDENCE: line one")
	if answer != "yes" || evidence != "line one" {
		t.Errorf("got answer=%q evidence=%q", answer, evidence)
	}
}

func TestGenerateAnswersHappyPath(t *testing.T) {
	llm := &scriptedLLM{responses: []string{"Answer: grounded reply.\nSupporting evidence: quoted text."}}
	verifier := &stubVerifier{verdicts: []grounding.Result{
		{IsGrounded: true, Confidence: 0.95, Method: grounding.MethodHybridFast},
	}}
	g := NewAnswerGenerator(llm, verifier, appconfig.Answers{})
	doc := &document.Document{ID: "d1", Content: "Some content."}
	questions := []Question{{Text: "What happened?"}, {Text: "Who was involved?"}}

	answers := g.Generate(context.Background(), doc, questions)
	if len(answers) != 2 {
		t.Fatalf("got %d answers, want 2", len(answers))
	}
	for i, a := range answers {
		if a.Question != questions[i].Text {
			t.Errorf("answer %d paired with %q, want %q", i, a.Question, questions[i].Text)
		}
		if !a.Accepted || a.Text != "grounded reply." {
			t.Errorf("answer %d = %+v", i, a)
		}
		if a.Evidence != "quoted text." {
			t.Errorf("answer %d evidence = %q", i, a.Evidence)
		}
	}
}

func TestGenerateAnswersRegeneratesRejected(t *testing.T) {
	llm := &scriptedLLM{responses: []string{
		"Answer: a hallucinated reply.\nSupporting evidence: none.",
		"a grounded second try.",
	}}
	verifier := &stubVerifier{verdicts: []grounding.Result{
		{IsGrounded: false, Confidence: 0.2, Issues: []string{"Low similarity (0.20): 'a hallucinated reply....'"}},
		{IsGrounded: true, Confidence: 0.9, Method: grounding.MethodHybridOverride},
	}}
	g := NewAnswerGenerator(llm, verifier, appconfig.Answers{})
	doc := &document.Document{ID: "d1", Content: "Some content."}

	answers := g.Generate(context.Background(), doc, []Question{{Text: "What happened?"}})
	a := answers[0]
	if !a.Accepted || !a.WasRegenerated || a.Attempts != 2 {
		t.Errorf("answer = %+v, want accepted on the second attempt", a)
	}
	if a.Text != "a grounded second try." {
		t.Errorf("Text = %q", a.Text)
	}
	last := llm.prompts[len(llm.prompts)-1]
	if !strings.Contains(last, "Previous Answer (REJECTED):") {
		t.Errorf("regeneration prompt missing rejection block:\n%s", last)
	}
}

func TestGenerateAnswersKeepsLastWhenBudgetExhausted(t *testing.T) {
	llm := &scriptedLLM{responses: []string{
		"Answer: attempt one.",
		"attempt two.",
		"attempt three.",
	}}
	verifier := &stubVerifier{verdicts: []grounding.Result{
		{IsGrounded: false, Confidence: 0.1},
	}}
	g := NewAnswerGenerator(llm, verifier, appconfig.Answers{MaxRegeneration: 3})
	doc := &document.Document{ID: "d1", Content: "Some content."}

	answers := g.Generate(context.Background(), doc, []Question{{Text: "What happened?"}})
	a := answers[0]
	if a.Accepted {
		t.Error("Accepted = true with an always-failing verifier")
	}
	if a.Text != "attempt three." {
		t.Errorf("Text = %q, want the last attempt kept", a.Text)
	}
	if a.Attempts != 3 {
		t.Errorf("Attempts = %d, want 3", a.Attempts)
	}
}

type failingLLM struct{}

func (failingLLM) Generate(context.Context, string, string) (string, error) {
	return "", errors.New("endpoint down")
}

func TestGenerateAnswersAbsorbsGenerationFailure(t *testing.T) {
	verifier := &stubVerifier{verdicts: []grounding.Result{{}}}
	g := NewAnswerGenerator(failingLLM{}, verifier, appconfig.Answers{})
	doc := &document.Document{ID: "d1", Content: "Some content."}

	answers := g.Generate(context.Background(), doc, []Question{{Text: "What happened?"}})
	a := answers[0]
	if a.Accepted {
		t.Error("Accepted = true for a failed generation")
	}
	if a.Text != "(answer generation failed)" {
		t.Errorf("Text = %q", a.Text)
	}
	if a.Verdict.Method != grounding.MethodInconclusive {
		t.Errorf("Verdict.Method = %q, want inconclusive", a.Verdict.Method)
	}
}
