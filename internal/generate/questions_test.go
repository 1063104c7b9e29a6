// internal/generate/questions_test.go
package generate

import (
	"context"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/tohyewhong/qagredo-local/internal/appconfig"
	"github.com/tohyewhong/qagredo-local/internal/document"
	"github.com/tohyewhong/qagredo-local/internal/grounding"
)

// scriptedLLM returns canned responses in order, then repeats the
// last. Safe for the concurrent answer path.
type scriptedLLM struct {
	mu        sync.Mutex
	responses []string
	calls     int
	prompts   []string
}

func (s *scriptedLLM) Generate(_ context.Context, _ string, userPrompt string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts = append(s.prompts, userPrompt)
	idx := s.calls
	if idx >= len(s.responses) {
		idx = len(s.responses) - 1
	}
	s.calls++
	return s.responses[idx], nil
}

// stubVerifier returns a fixed sequence of verdicts.
type stubVerifier struct {
	mu       sync.Mutex
	verdicts []grounding.Result
	calls    int
}

func (s *stubVerifier) verdict() grounding.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.calls
	if idx >= len(s.verdicts) {
		idx = len(s.verdicts) - 1
	}
	s.calls++
	return s.verdicts[idx]
}

func (s *stubVerifier) Check(context.Context, *document.Document, string, string) (grounding.Result, error) {
	return s.verdict(), nil
}

func (s *stubVerifier) CheckFast(context.Context, string, *document.Document) (grounding.Result, error) {
	return s.verdict(), nil
}

// passthroughDedupe keeps every candidate.
type passthroughDedupe struct{}

func (passthroughDedupe) FilterNew(_ context.Context, _, candidates []string) []string {
	return candidates
}

// droppingDedupe drops candidates in its block set.
type droppingDedupe struct{ block map[string]bool }

func (d droppingDedupe) FilterNew(_ context.Context, _, candidates []string) []string {
	var kept []string
	for _, c := range candidates {
		if !d.block[c] {
			kept = append(kept, c)
		}
	}
	return kept
}

func grounded() grounding.Result {
	return grounding.Result{IsGrounded: true, Confidence: 1.0, Method: grounding.MethodSemantic}
}

func TestParseCandidates(t *testing.T) {
	response := `1. What factors led to the arrests? (analysis)
- How many people were detained in total? (aggregation) (multi_hop)

What does the timeline suggest? (temporal)
`
	got := parseCandidates(response, 5)
	want := []candidate{
		{text: "What factors led to the arrests?", qtype: "analysis"},
		{text: "How many people were detained in total?", qtype: "aggregation"},
		{text: "What does the timeline suggest?", qtype: "temporal"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("parseCandidates() = %v, want %v", got, want)
	}
}

func TestParseCandidatesLimit(t *testing.T) {
	got := parseCandidates("one?\ntwo?\nthree?", 2)
	if len(got) != 2 {
		t.Errorf("parseCandidates() returned %d questions, want 2", len(got))
	}
}

func TestGenerateQuestionsHappyPath(t *testing.T) {
	llm := &scriptedLLM{responses: []string{"Q one? (analysis)\nQ two? (causal)\nQ three? (temporal)"}}
	verifier := &stubVerifier{verdicts: []grounding.Result{grounded()}}
	g := NewQuestionGenerator(llm, verifier, passthroughDedupe{}, appconfig.Questions{Count: 3})
	doc := &document.Document{ID: "d1", Content: "Some content here."}

	questions, err := g.Generate(context.Background(), doc)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if len(questions) != 3 {
		t.Fatalf("got %d questions, want 3", len(questions))
	}
	for _, q := range questions {
		if !q.Accepted || q.WasRegenerated {
			t.Errorf("question %+v, want accepted without regeneration", q)
		}
	}
	if questions[0].Type != "analysis" || questions[2].Type != "temporal" {
		t.Errorf("types = %q/%q/%q, want tags carried onto questions",
			questions[0].Type, questions[1].Type, questions[2].Type)
	}
	if llm.calls != 1 {
		t.Errorf("llm called %d times, want 1 batch call", llm.calls)
	}
}

func TestGenerateQuestionsTopsUpAfterDuplicates(t *testing.T) {
	llm := &scriptedLLM{responses: []string{
		"Q one?\nQ dup?",
		"Q two?\nQ three?",
	}}
	verifier := &stubVerifier{verdicts: []grounding.Result{grounded()}}
	dedupe := droppingDedupe{block: map[string]bool{"Q dup?": true}}
	g := NewQuestionGenerator(llm, verifier, dedupe, appconfig.Questions{Count: 3})
	doc := &document.Document{ID: "d1", Content: "Some content here."}

	questions, err := g.Generate(context.Background(), doc)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if len(questions) != 3 {
		t.Fatalf("got %d questions, want 3 after top-up", len(questions))
	}
	if llm.calls != 2 {
		t.Errorf("llm called %d times, want 2 rounds", llm.calls)
	}
}

func TestGenerateQuestionsRegeneratesRejected(t *testing.T) {
	llm := &scriptedLLM{responses: []string{
		"Ungrounded question",
		"A grounded replacement",
	}}
	verifier := &stubVerifier{verdicts: []grounding.Result{
		{IsGrounded: false, Confidence: 0.3, Issues: []string{"Low similarity (0.30): 'Ungrounded question...'"}},
		grounded(),
	}}
	g := NewQuestionGenerator(llm, verifier, passthroughDedupe{}, appconfig.Questions{Count: 1, MaxRegeneration: 2})
	doc := &document.Document{ID: "d1", Content: "Some content here."}

	questions, err := g.Generate(context.Background(), doc)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if len(questions) != 1 {
		t.Fatalf("got %d questions, want 1", len(questions))
	}
	q := questions[0]
	if !q.Accepted || !q.WasRegenerated {
		t.Errorf("question = %+v, want accepted after regeneration", q)
	}
	if q.Text != "A grounded replacement?" {
		t.Errorf("Text = %q, want the replacement with a question mark appended", q.Text)
	}
	if q.Attempts != 2 {
		t.Errorf("Attempts = %d, want 2", q.Attempts)
	}
	last := llm.prompts[len(llm.prompts)-1]
	if !strings.Contains(last, "Previous Question (REJECTED):") {
		t.Errorf("regeneration prompt missing rejection block:\n%s", last)
	}
}

func TestResolveTypesPresets(t *testing.T) {
	if got := resolveTypes("basic", nil); len(got) != 1 || got[0].Name != "analysis" {
		t.Errorf("basic preset = %+v", got)
	}
	if got := resolveTypes("advanced", nil); len(got) != 10 {
		t.Errorf("advanced preset has %d types, want 10", len(got))
	}
	if got := resolveTypes("nonsense", nil); len(got) != 10 {
		t.Errorf("unknown complexity should fall back to advanced, got %d types", len(got))
	}
	got := resolveTypes("advanced", []string{"causal", "bogus", "temporal"})
	if len(got) != 2 || got[0].Name != "causal" || got[1].Name != "temporal" {
		t.Errorf("explicit types = %+v, want causal and temporal", got)
	}
}
