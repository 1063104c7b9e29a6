// internal/generate/questions.go
package generate

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/tohyewhong/qagredo-local/internal/appconfig"
	"github.com/tohyewhong/qagredo-local/internal/document"
	"github.com/tohyewhong/qagredo-local/internal/grounding"
	"github.com/tohyewhong/qagredo-local/internal/logging"
)

// Verifier is the slice of the grounding checker the generators need.
type Verifier interface {
	Check(ctx context.Context, doc *document.Document, question, answer string) (grounding.Result, error)
	CheckFast(ctx context.Context, text string, doc *document.Document) (grounding.Result, error)
}

// Deduplicator filters near-duplicate questions.
type Deduplicator interface {
	FilterNew(ctx context.Context, existing, candidates []string) []string
}

// Question is one validated question for a document.
type Question struct {
	Text           string           `json:"text"`
	Type           string           `json:"type,omitempty"`
	Confidence     float64          `json:"confidence"`
	Accepted       bool             `json:"accepted"`
	Attempts       int              `json:"attempts"`
	WasRegenerated bool             `json:"was_regenerated"`
	Verdict        grounding.Result `json:"verdict"`
}

// QuestionGenerator produces grounded, deduplicated questions for a
// document.
type QuestionGenerator struct {
	llm     TextGenerator
	checker Verifier
	dedupe  Deduplicator
	cfg     appconfig.Questions
}

// NewQuestionGenerator wires a question generator.
func NewQuestionGenerator(llm TextGenerator, checker Verifier, dedupe Deduplicator, cfg appconfig.Questions) *QuestionGenerator {
	return &QuestionGenerator{llm: llm, checker: checker, dedupe: dedupe, cfg: cfg}
}

// maxGenerationRounds bounds the batch top-up loop when the model
// keeps producing duplicates.
const maxGenerationRounds = 5

// Generate asks the model for questions in batches, filters
// duplicates, and validates each survivor with the fast semantic
// check, regenerating rejected candidates within the retry budget.
func (g *QuestionGenerator) Generate(ctx context.Context, doc *document.Document) ([]Question, error) {
	target := g.cfg.Target()

	// Top-up loop: keep asking until we have enough distinct
	// questions. Each round over-asks by two to absorb duplicates.
	var collected []string
	types := make(map[string]string)
	for round := 0; len(collected) < target && round < maxGenerationRounds; round++ {
		needed := target - len(collected)
		prompt := questionPrompt(doc.Content, needed+2, g.cfg.Complexity, g.cfg.Types)

		response, err := g.llm.Generate(ctx, questionSystemPrompt, prompt)
		if err != nil {
			return nil, fmt.Errorf("generating questions for %s: %w", doc.ID, err)
		}

		batch := parseCandidates(response, needed+2)
		texts := make([]string, 0, len(batch))
		for _, c := range batch {
			texts = append(texts, c.text)
			if c.qtype != "" {
				if _, seen := types[c.text]; !seen {
					types[c.text] = c.qtype
				}
			}
		}
		unique := g.dedupe.FilterNew(ctx, collected, texts)
		collected = append(collected, unique...)
	}
	if len(collected) > target {
		collected = collected[:target]
	}
	if len(collected) < target {
		logging.LogEvent("question generation for %s produced %d/%d distinct questions", doc.ID, len(collected), target)
	}

	questions := make([]Question, 0, len(collected))
	for _, text := range collected {
		q, err := g.validate(ctx, doc, text)
		if err != nil {
			return nil, err
		}
		q.Type = types[text]
		questions = append(questions, q)
	}
	return questions, nil
}

// validate runs the regeneration loop for one question. The first
// attempt checks the batch candidate as-is; later attempts ask the
// model for a replacement informed by the rejection.
func (g *QuestionGenerator) validate(ctx context.Context, doc *document.Document, candidate string) (Question, error) {
	regenerated := false
	gen := func(ctx context.Context, feedback *Feedback) (string, error) {
		if feedback == nil {
			return candidate, nil
		}
		regenerated = true
		replacement, err := g.llm.Generate(ctx, questionSystemPrompt, questionRegenPrompt(doc.Content, feedback.Previous))
		if err != nil {
			return "", err
		}
		if replacement == "" {
			// Keep the previous candidate rather than validating
			// an empty string.
			replacement = feedback.Previous
		}
		if !strings.HasSuffix(replacement, "?") {
			replacement += "?"
		}
		return replacement, nil
	}
	verify := func(ctx context.Context, text string) (grounding.Result, error) {
		return g.checker.CheckFast(ctx, text, doc)
	}

	// The initial batch candidate consumes the first attempt; the
	// retry budget counts regenerations on top of it.
	outcome, err := RegenerateUntilAccepted(ctx, gen, verify, g.cfg.RetryBudget()+1, g.cfg.Confidence())
	if err != nil {
		return Question{}, fmt.Errorf("validating question for %s: %w", doc.ID, err)
	}

	return Question{
		Text:           outcome.Candidate,
		Confidence:     outcome.Verdict.Confidence,
		Accepted:       outcome.Accepted,
		Attempts:       outcome.Attempts,
		WasRegenerated: regenerated,
		Verdict:        outcome.Verdict,
	}, nil
}

var (
	leadingNumberingCutset = "0123456789.-) "
	typeTagRe              = regexp.MustCompile(`(\s*\([a-z_]+\))+\s*$`)
	tagNameRe              = regexp.MustCompile(`\(([a-z_]+)\)`)
)

// candidate is one raw question line with its parsed type tag.
type candidate struct {
	text  string
	qtype string
}

// parseCandidates extracts up to limit questions from a model response,
// one per line, stripping any numbering the model added despite
// instructions. A trailing tag group like "(analysis)" is removed from
// the text and its first tag becomes the question's type.
func parseCandidates(response string, limit int) []candidate {
	var out []candidate
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, leadingNumberingCutset)

		qtype := ""
		if tags := typeTagRe.FindString(line); tags != "" {
			if m := tagNameRe.FindStringSubmatch(tags); m != nil {
				qtype = m[1]
			}
		}
		line = strings.TrimSpace(typeTagRe.ReplaceAllString(line, ""))
		if line == "" {
			continue
		}
		out = append(out, candidate{text: line, qtype: qtype})
		if len(out) == limit {
			break
		}
	}
	return out
}
