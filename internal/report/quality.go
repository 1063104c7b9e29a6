// Package report turns run results into quality assessments and
// human-readable grading output.
package report

import (
	"fmt"
	"strings"

	"github.com/tohyewhong/qagredo-local/internal/pipeline"
)

// Quality thresholds. A pair is flagged below lowConfidence, a
// document drops straight to needs_attention below
// attentionConfidence, and anything under reviewConfidence cannot be
// excellent.
const (
	minQuestions        = 3
	attentionConfidence = 0.5
	reviewConfidence    = 0.75
	lowConfidence       = 0.65
	shortAnswerChars    = 60
)

// PairStatus classifies one question/answer pair.
type PairStatus string

const (
	StatusOK   PairStatus = "ok"
	StatusWarn PairStatus = "warn"
	StatusFail PairStatus = "fail"
)

// Band is the document-level quality verdict.
type Band string

const (
	BandExcellent      Band = "excellent"
	BandReview         Band = "review"
	BandNeedsAttention Band = "needs_attention"
)

// PairAssessment is the status of one pair plus the reasons behind it.
type PairAssessment struct {
	Status PairStatus `json:"status"`
	Notes  []string   `json:"notes,omitempty"`
}

// DocumentQuality is one document's band and per-pair assessments.
type DocumentQuality struct {
	DocumentID string           `json:"document_id"`
	Band       Band             `json:"band"`
	Pairs      []PairAssessment `json:"pairs,omitempty"`
	Notes      []string         `json:"notes,omitempty"`
}

// RunQuality aggregates document bands across a run.
type RunQuality struct {
	Excellent      int               `json:"excellent"`
	Review         int               `json:"review"`
	NeedsAttention int               `json:"needs_attention"`
	Documents      []DocumentQuality `json:"documents"`
}

func assessPair(p pipeline.QAPair) PairAssessment {
	var notes []string
	status := StatusOK
	if !p.Check.IsGrounded {
		status = StatusFail
		notes = append(notes, "answer not grounded in document")
	}
	if p.Check.Confidence < lowConfidence {
		if status == StatusOK {
			status = StatusWarn
		}
		notes = append(notes, fmt.Sprintf("low confidence (%.2f)", p.Check.Confidence))
	}
	if len(strings.TrimSpace(p.Answer)) < shortAnswerChars {
		if status == StatusOK {
			status = StatusWarn
		}
		notes = append(notes, "answer is unusually short")
	}
	return PairAssessment{Status: status, Notes: notes}
}

// AssessDocument bands one document. Precedence: an empty or very low
// confidence document needs attention; low-confidence pairs pull a
// middling document down to needs_attention; any flagged pair blocks
// excellent.
func AssessDocument(doc pipeline.DocumentResult) DocumentQuality {
	q := DocumentQuality{DocumentID: doc.DocumentID}
	if doc.Error != "" {
		q.Notes = append(q.Notes, doc.Error)
	}
	if len(doc.QAPairs) == 0 {
		q.Band = BandNeedsAttention
		q.Notes = append(q.Notes, "no question/answer pairs produced")
		return q
	}

	flagged := 0
	lowConf := false
	for _, pair := range doc.QAPairs {
		a := assessPair(pair)
		if a.Status != StatusOK {
			flagged++
		}
		if pair.Check.Confidence < lowConfidence {
			lowConf = true
		}
		q.Pairs = append(q.Pairs, a)
	}
	if len(doc.QAPairs) < minQuestions {
		q.Notes = append(q.Notes, fmt.Sprintf("only %d pairs produced, expected at least %d", len(doc.QAPairs), minQuestions))
		flagged++
	}

	overall := doc.Summary.OverallConfidence
	switch {
	case !doc.Summary.Graded || overall < attentionConfidence:
		q.Band = BandNeedsAttention
	case lowConf && overall < reviewConfidence:
		q.Band = BandNeedsAttention
	case flagged > 0 || overall < reviewConfidence:
		q.Band = BandReview
	default:
		q.Band = BandExcellent
	}
	return q
}

// AssessRun bands every document and tallies the results.
func AssessRun(run *pipeline.RunResult) RunQuality {
	var rq RunQuality
	for _, doc := range run.Documents {
		q := AssessDocument(doc)
		switch q.Band {
		case BandExcellent:
			rq.Excellent++
		case BandReview:
			rq.Review++
		default:
			rq.NeedsAttention++
		}
		rq.Documents = append(rq.Documents, q)
	}
	return rq
}
