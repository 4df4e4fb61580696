package review

import (
	"fmt"
	"strings"
)

const (
	summaryHeading = "## Automated Code Review Summary"
	closingNote    = "Detailed findings for each file are attached as review comments. " +
		"This review was generated automatically; verify suggestions before applying them."
)

// Aggregate builds the review submission: one summary line and one comment
// per result, every comment anchored at CommentPosition.
func Aggregate(results Results) Submission {
	var b strings.Builder
	b.WriteString(summaryHeading)
	b.WriteString("\n\n")
	for _, r := range results {
		fmt.Fprintf(&b, "- `%s`: %s\n", r.Path, summaryLine(r))
	}
	b.WriteString("\n")
	b.WriteString(closingNote)

	comments := make([]Comment, 0, len(results))
	for _, r := range results {
		comments = append(comments, Comment{
			Path:     r.Path,
			Body:     RenderComment(r),
			Position: CommentPosition,
		})
	}

	return Submission{Summary: b.String(), Comments: comments}
}

func summaryLine(r Result) string {
	if !r.OK() {
		return "Review failed"
	}
	if a := oneLine(r.Review.GeneralAssessment); a != "" {
		return a
	}
	return "(no assessment provided)"
}

// RenderComment renders the comment body for one file.
func RenderComment(r Result) string {
	if !r.OK() {
		return "**Review failed:** " + r.Err
	}
	fr := r.Review

	var b strings.Builder
	b.WriteString("### Overall Assessment\n\n")
	if fr.GeneralAssessment == "" {
		b.WriteString("(no assessment provided)")
	} else {
		b.WriteString(fr.GeneralAssessment)
	}
	b.WriteString("\n\n### Positive Aspects\n\n")
	if len(fr.PositiveAspects) == 0 {
		b.WriteString("- None\n")
	}
	for _, p := range fr.PositiveAspects {
		fmt.Fprintf(&b, "- %s\n", oneLine(p))
	}

	b.WriteString("\n### Issues\n\n")
	if len(fr.Issues) == 0 {
		b.WriteString("- None\n")
	}
	for _, is := range fr.Issues {
		fmt.Fprintf(&b, "- **[%s]** Line %d: %s\n", is.Severity, is.Line, oneLine(is.Description))
		if is.Suggestion != "" {
			fmt.Fprintf(&b, "  - Suggestion: %s\n", oneLine(is.Suggestion))
		}
	}

	b.WriteString("\n### Checklist Violations\n\n")
	if len(fr.ChecklistViolations) == 0 {
		b.WriteString("- None\n")
	}
	for _, v := range fr.ChecklistViolations {
		fmt.Fprintf(&b, "- **%s**: %s\n", oneLine(v.Item), oneLine(v.Explanation))
		if v.Recommendation != "" {
			fmt.Fprintf(&b, "  - Recommendation: %s\n", oneLine(v.Recommendation))
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

// oneLine keeps model text from breaking list structure.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
