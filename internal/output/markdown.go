package output

import (
	"fmt"
	"io"
)

// MarkdownWriter outputs the submission exactly as it would be posted, with
// each file comment in a collapsible section.
type MarkdownWriter struct{}

func (m *MarkdownWriter) Write(w io.Writer, report *Report) error {
	ew := &errWriter{w: w}

	ew.println(report.Submission.Summary)

	for _, c := range report.Submission.Comments {
		icon := ":white_check_mark:"
		if r, ok := report.Results.Get(c.Path); ok && !r.OK() {
			icon = ":x:"
		}
		ew.printf("\n<details>\n<summary>%s <code>%s</code></summary>\n\n", icon, c.Path)
		ew.println(c.Body)
		ew.println("\n</details>")
	}

	if !report.Posted && report.Source != "" {
		ew.printf("\n_Not posted to %s._\n", report.Source)
	}
	return ew.err
}

// errWriter wraps an io.Writer and captures the first error.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func (ew *errWriter) println(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintln(ew.w, s)
}
