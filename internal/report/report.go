// internal/report/report.go
package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"

	"github.com/tohyewhong/qagredo-local/internal/pipeline"
	"github.com/tohyewhong/qagredo-local/internal/util"
)

var (
	groundedMark = color.New(color.FgGreen).SprintFunc()
	warnMark     = color.New(color.FgYellow).SprintFunc()
	failMark     = color.New(color.FgRed).SprintFunc()
)

var (
	headerStyle = lipgloss.NewStyle().Background(lipgloss.Color("62")).Foreground(lipgloss.Color("230")).Padding(0, 1)
	docStyle    = lipgloss.NewStyle().Bold(true)
	issueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

// Render formats the grading report for a whole run.
func Render(run *pipeline.RunResult) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("GRADING REPORT"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Provider: %s  Model: %s  Method: %s\n", run.Provider, run.Model, run.Method))
	if run.JudgeModel != "" {
		b.WriteString(fmt.Sprintf("Judge: %s\n", run.JudgeModel))
	}

	for _, doc := range run.Documents {
		b.WriteString("\n")
		b.WriteString(renderDocument(doc))
	}

	quality := AssessRun(run)
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Quality: %d excellent, %d review, %d needs attention\n",
		quality.Excellent, quality.Review, quality.NeedsAttention))
	return b.String()
}

func renderDocument(doc pipeline.DocumentResult) string {
	var b strings.Builder
	title := doc.DocumentID
	if doc.Title != "" {
		title = fmt.Sprintf("%s (%s)", doc.Title, doc.DocumentID)
	}
	b.WriteString(docStyle.Render("Document: " + title))
	b.WriteString("\n")

	if doc.Error != "" {
		b.WriteString(fmt.Sprintf("  %s %s\n", failMark("[FAIL]"), doc.Error))
		return b.String()
	}
	if doc.Summary.Graded {
		b.WriteString(fmt.Sprintf("  Grade: %s (confidence %.1f%%, %d/%d grounded)\n",
			gradeMark(doc.Summary.OverallGrade),
			doc.Summary.OverallConfidence*100,
			doc.Summary.GroundedCount, doc.Summary.TotalChecks))
	} else {
		b.WriteString(fmt.Sprintf("  %s not graded\n", warnMark("[WARN]")))
	}

	for i, pair := range doc.QAPairs {
		b.WriteString(fmt.Sprintf("  Q%d: %s\n", i+1, util.TruncateRunes(pair.Question, 120)))
		b.WriteString(fmt.Sprintf("      %s (%.2f, %s)\n", pairMark(pair), pair.Check.Confidence, pair.Check.Method))
		for j, issue := range pair.Check.Issues {
			if j == 3 {
				b.WriteString(issueStyle.Render(fmt.Sprintf("      ... and %d more issues", len(pair.Check.Issues)-3)))
				b.WriteString("\n")
				break
			}
			b.WriteString(issueStyle.Render("      - " + issue))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func pairMark(pair pipeline.QAPair) string {
	if pair.Check.IsGrounded {
		return groundedMark("[OK] GROUNDED")
	}
	return warnMark("[WARN] POTENTIAL HALLUCINATION")
}

func gradeMark(grade string) string {
	switch grade {
	case "A", "B":
		return groundedMark(grade)
	case "C", "D":
		return warnMark(grade)
	default:
		return failMark(grade)
	}
}
