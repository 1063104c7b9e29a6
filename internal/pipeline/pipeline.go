// Package pipeline orchestrates a full run: load documents, generate
// and validate questions, generate and verify answers, grade, persist.
package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tohyewhong/qagredo-local/internal/appconfig"
	"github.com/tohyewhong/qagredo-local/internal/dedupe"
	"github.com/tohyewhong/qagredo-local/internal/document"
	"github.com/tohyewhong/qagredo-local/internal/embedding"
	"github.com/tohyewhong/qagredo-local/internal/generate"
	"github.com/tohyewhong/qagredo-local/internal/grounding"
	"github.com/tohyewhong/qagredo-local/internal/logging"
)

// QAPair is one graded question/answer pair in the run output.
type QAPair struct {
	Question       string           `json:"question"`
	QuestionType   string           `json:"question_type,omitempty"`
	Answer         string           `json:"answer"`
	Evidence       string           `json:"supporting_evidence,omitempty"`
	Accepted       bool             `json:"accepted"`
	Attempts       int              `json:"attempts"`
	WasRegenerated bool             `json:"was_regenerated"`
	Check          grounding.Result `json:"check_result"`
}

// DocumentResult is the terminal state of one document. A document is
// only marked graded when every pair completed verification.
type DocumentResult struct {
	DocumentID string            `json:"document_id"`
	Title      string            `json:"title,omitempty"`
	QAPairs    []QAPair          `json:"qa_pairs"`
	Summary    grounding.Summary `json:"grading_summary"`
	Error      string            `json:"error,omitempty"`
}

// RunResult is everything one pipeline run produced.
type RunResult struct {
	Provider   string           `json:"provider"`
	Model      string           `json:"model"`
	JudgeModel string           `json:"judge_model,omitempty"`
	Method     string           `json:"grading_method"`
	Timestamp  string           `json:"timestamp"`
	Documents  []DocumentResult `json:"documents"`
}

// QuestionSource produces validated questions for a document.
type QuestionSource interface {
	Generate(ctx context.Context, doc *document.Document) ([]generate.Question, error)
}

// AnswerSource produces verified answers for a document's questions.
type AnswerSource interface {
	Generate(ctx context.Context, doc *document.Document, questions []generate.Question) []generate.Answer
}

// Pipeline runs documents through generation, verification and
// grading.
type Pipeline struct {
	cfg       appconfig.Config
	questions QuestionSource
	answers   AnswerSource
	writer    *document.Writer
}

// New wires a Pipeline from configuration: a cached embedding client
// shared by the grounding checker and the duplicate detector, a
// separate judge endpoint, and one generator per temperature profile.
func New(cfg appconfig.Config) *Pipeline {
	embedder := embedding.NewCachedClient(embedding.NewHTTPClient(cfg.Embedding))
	judge := grounding.NewOpenAIJudge(cfg.Judge, cfg.Grounding.DocCharLimit())
	checker := grounding.NewChecker(embedder, judge, cfg.Grounding)
	detector := dedupe.NewDetector(embedder, cfg.Questions.DuplicateSimilarity())

	// Questions sample freely; answers run cooler to stay factual.
	questionTemp := 0.7
	if cfg.LLM.Temperature != nil {
		questionTemp = *cfg.LLM.Temperature
	}
	answerTemp := 0.3
	if cfg.Answers.Temperature != nil {
		answerTemp = *cfg.Answers.Temperature
	} else if cfg.LLM.Temperature != nil {
		answerTemp = *cfg.LLM.Temperature
	}

	return &Pipeline{
		cfg: cfg,
		questions: generate.NewQuestionGenerator(
			generate.NewOpenAIGenerator(cfg.LLM, questionTemp), checker, detector, cfg.Questions),
		answers: generate.NewAnswerGenerator(
			generate.NewOpenAIGenerator(cfg.LLM, answerTemp), checker, cfg.Answers),
		writer: document.NewWriter(cfg.Run.OutputPath(), cfg.LLM.ProviderName(), cfg.LLM.Model),
	}
}

// Run processes the configured input file. Documents run concurrently
// up to the configured parallelism; per-document stages stay
// sequential. The assembled results are persisted before returning.
func (p *Pipeline) Run(ctx context.Context) (*RunResult, error) {
	docs, err := document.LoadFile(p.cfg.Run.InputFile)
	if err != nil {
		return nil, err
	}
	if n := p.cfg.Run.NumDocuments; n > 0 && len(docs) > n {
		docs = docs[:n]
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("no documents found in %s", p.cfg.Run.InputFile)
	}
	logging.LogEvent("run started: %d documents, parallelism %d, method %s",
		len(docs), p.cfg.Run.Workers(), p.cfg.Grounding.SelectedMethod())

	results := make([]DocumentResult, len(docs))
	sem := make(chan struct{}, p.cfg.Run.Workers())
	var wg sync.WaitGroup
	for i, doc := range docs {
		wg.Add(1)
		go func(i int, doc *document.Document) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results[i] = p.ProcessDocument(ctx, doc)
		}(i, doc)
	}
	wg.Wait()

	run := &RunResult{
		Provider:   p.cfg.LLM.ProviderName(),
		Model:      p.cfg.LLM.Model,
		JudgeModel: p.cfg.Judge.Model,
		Method:     p.cfg.Grounding.SelectedMethod(),
		Timestamp:  time.Now().Format(time.RFC3339),
		Documents:  results,
	}

	if p.writer != nil {
		path, err := p.writer.Save("results", run)
		if err != nil {
			return run, fmt.Errorf("persisting results: %w", err)
		}
		logging.LogEvent("results written to %s", path)
	}
	return run, nil
}

// ProcessDocument runs one document through the sequential stages.
// Stage errors are captured on the result, never propagated; a graded
// document implies every pair completed verification.
func (p *Pipeline) ProcessDocument(ctx context.Context, doc *document.Document) DocumentResult {
	result := DocumentResult{DocumentID: doc.ID, Title: doc.Title}

	questions, err := p.questions.Generate(ctx, doc)
	if err != nil {
		result.Error = fmt.Sprintf("question generation: %v", err)
		logging.LogEvent("document %s failed: %s", doc.ID, result.Error)
		return result
	}
	if len(questions) == 0 {
		result.Error = "no questions generated"
		return result
	}

	answers := p.answers.Generate(ctx, doc, questions)

	checks := make([]grounding.Result, 0, len(answers))
	for i, a := range answers {
		pair := QAPair{
			Question:       a.Question,
			Answer:         a.Text,
			Evidence:       a.Evidence,
			Accepted:       a.Accepted,
			Attempts:       a.Attempts,
			WasRegenerated: a.WasRegenerated,
			Check:          a.Verdict,
		}
		// Answers come back indexed by question.
		if i < len(questions) {
			pair.QuestionType = questions[i].Type
		}
		result.QAPairs = append(result.QAPairs, pair)
		checks = append(checks, a.Verdict)
	}

	// A cancelled run may have abandoned in-flight verification;
	// partial grading is not a valid terminal state.
	if ctx.Err() != nil {
		result.Error = "run cancelled before verification completed"
		return result
	}

	result.Summary = grounding.Grade(checks)
	logging.LogEvent("document %s graded %s (confidence %.3f)",
		doc.ID, result.Summary.OverallGrade, result.Summary.OverallConfidence)
	return result
}

// Regrade recomputes every document's grading summary from its stored
// check results, without re-running generation or verification.
func Regrade(run *RunResult) {
	for i := range run.Documents {
		d := &run.Documents[i]
		if len(d.QAPairs) == 0 {
			d.Summary = grounding.Summary{}
			continue
		}
		checks := make([]grounding.Result, 0, len(d.QAPairs))
		for _, pair := range d.QAPairs {
			checks = append(checks, pair.Check)
		}
		d.Summary = grounding.Grade(checks)
	}
}
