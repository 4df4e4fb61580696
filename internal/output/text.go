package output

import (
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/dshills/vetter/internal/review"
)

// TextWriter outputs a human-readable text report.
type TextWriter struct{}

func (t *TextWriter) Write(w io.Writer, report *Report) error {
	ew := &errWriter{w: w}

	ew.printf("Vetter Code Review - %s\n", report.Source)
	ew.println(strings.Repeat("─", 60))

	if len(report.Results) == 0 {
		ew.println("\nNo files in diff. Nothing to review.")
		return ew.err
	}

	ew.println(ResultsTable(report.Results).Render())

	for _, r := range report.Results {
		ew.printf("\n%s %s\n", statusIcon(r), r.Path)
		ew.println(strings.Repeat("─", 40))

		if !r.OK() {
			ew.printf("  Review failed: %s\n", r.Err)
			continue
		}
		for _, line := range wrapText(r.Review.GeneralAssessment, 70) {
			ew.printf("  %s\n", line)
		}

		issues := slices.Clone(r.Review.Issues)
		slices.SortStableFunc(issues, func(a, b review.Issue) int {
			return review.SeverityRank(b.Severity) - review.SeverityRank(a.Severity)
		})
		for _, is := range issues {
			ew.printf("\n  [%s] line %d\n", is.Severity, is.Line)
			for _, line := range wrapText(is.Description, 70) {
				ew.printf("    %s\n", line)
			}
			if is.Suggestion != "" {
				ew.println("  Suggestion:")
				for _, line := range wrapText(is.Suggestion, 70) {
					ew.printf("    %s\n", line)
				}
			}
		}
		for _, v := range r.Review.ChecklistViolations {
			ew.printf("\n  Checklist: %s\n", v.Item)
			for _, line := range wrapText(v.Explanation, 70) {
				ew.printf("    %s\n", line)
			}
		}
	}

	ew.printf("\n%s\n", strings.Repeat("─", 60))
	if report.Posted {
		ew.println("Review posted.")
	}
	ew.printf("Completed in %dms (fetch: %dms, review: %dms)\n",
		report.Timing.TotalMs, report.Timing.FetchMs, report.Timing.ReviewMs)

	return ew.err
}

// ResultsTable returns a configured table.Writer listing one row per file.
func ResultsTable(results review.Results) table.Writer {
	tw := table.NewWriter()
	tw.AppendHeader(table.Row{"FILE", "STATUS", "ATTEMPTS", "ISSUES", "VIOLATIONS", "HIGHEST"})

	for _, r := range results {
		status, issues, violations, highest := "failed", "-", "-", "-"
		if r.OK() {
			status = "ok"
			issues = strconv.Itoa(len(r.Review.Issues))
			violations = strconv.Itoa(len(r.Review.ChecklistViolations))
			if h := (review.Results{r}).HighestSeverity(); h != "" {
				highest = string(h)
			}
		}
		tw.AppendRow(table.Row{r.Path, status, r.Attempts, issues, violations, highest})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft},
		{Number: 2, Align: text.AlignLeft},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignLeft},
	})
	tw.SetStyle(table.StyleLight)

	return tw
}

func statusIcon(r review.Result) string {
	if r.OK() {
		return "[ok]"
	}
	return "[!!]"
}

func wrapText(s string, width int) []string {
	if len(s) <= width {
		return []string{s}
	}
	var lines []string
	var current strings.Builder
	for _, word := range strings.Fields(s) {
		if current.Len()+len(word)+1 > width && current.Len() > 0 {
			lines = append(lines, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(word)
	}
	if current.Len() > 0 {
		lines = append(lines, current.String())
	}
	return lines
}
