// internal/grounding/grader.go
package grounding

// Summary aggregates a document's grounding results into one grade.
type Summary struct {
	OverallConfidence float64 `json:"overall_confidence"`
	OverallGrade      string  `json:"overall_grade"`
	// Graded is false when the document had no Q&A pairs to grade;
	// the grade is absent, not zero.
	Graded          bool `json:"graded"`
	TotalChecks     int  `json:"total_checks"`
	GroundedCount   int  `json:"grounded_count"`
	UngroundedCount int  `json:"ungrounded_count"`
}

// Grade computes the mean confidence across a document's checks and
// maps it to a letter grade.
func Grade(results []Result) Summary {
	if len(results) == 0 {
		return Summary{}
	}

	var sum float64
	summary := Summary{Graded: true, TotalChecks: len(results)}
	for _, r := range results {
		sum += r.Confidence
		if r.IsGrounded {
			summary.GroundedCount++
		} else {
			summary.UngroundedCount++
		}
	}

	summary.OverallConfidence = round3(sum / float64(len(results)))
	summary.OverallGrade = letterGrade(summary.OverallConfidence)
	return summary
}

// letterGrade maps confidence to a grade, evaluated top-down with the
// first match winning. A boundary value like 0.90 lands on the higher
// grade.
func letterGrade(confidence float64) string {
	switch {
	case confidence >= 0.9:
		return "A"
	case confidence >= 0.8:
		return "B"
	case confidence >= 0.7:
		return "C"
	case confidence >= 0.6:
		return "D"
	default:
		return "F"
	}
}
