package output

import (
	"bytes"
	"strings"
	"testing"
)

func TestMarkdownWriter(t *testing.T) {
	report := sampleReport()

	var buf bytes.Buffer
	w := &MarkdownWriter{}
	if err := w.Write(&buf, report); err != nil {
		t.Fatalf("Write error: %v", err)
	}

	out := buf.String()
	if !strings.HasPrefix(out, report.Submission.Summary) {
		t.Error("markdown should start with the summary")
	}
	if strings.Count(out, "<details>") != 2 {
		t.Errorf("expected one section per file:\n%s", out)
	}
	if !strings.Contains(out, ":x: <code>app/util.py</code>") {
		t.Error("failed file should be marked")
	}
	if !strings.Contains(out, "**Review failed:** Failed to get a valid response after 5 attempts") {
		t.Error("failed body should be included")
	}
	if !strings.Contains(out, "Not posted to acme/widgets#7") {
		t.Error("unposted report should say so")
	}
}

func TestMarkdownWriter_Posted(t *testing.T) {
	report := sampleReport()
	report.Posted = true

	var buf bytes.Buffer
	if err := (&MarkdownWriter{}).Write(&buf, report); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	if strings.Contains(buf.String(), "Not posted") {
		t.Error("posted report should not carry the not-posted note")
	}
}
