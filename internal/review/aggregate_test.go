package review

import (
	"context"
	"strings"
	"testing"
)

func sampleResults() Results {
	return Results{
		{
			Path: "a.py",
			Review: &FileReview{
				GeneralAssessment: "Well structured change.",
				PositiveAspects:   []string{"Good tests"},
				Issues: []Issue{
					{Severity: SeverityMajor, Line: 14, Description: "Unchecked None", Suggestion: "Guard the access"},
				},
				ChecklistViolations: []Violation{
					{Item: "Use type hints", Explanation: "parse() is untyped", Recommendation: "Annotate parse()"},
				},
			},
			Attempts: 1,
		},
		{Path: "b.py", Err: "Failed to get a valid response after 5 attempts", Attempts: 5},
	}
}

func TestAggregate(t *testing.T) {
	sub := Aggregate(sampleResults())

	var lines []string
	for line := range strings.SplitSeq(sub.Summary, "\n") {
		if strings.HasPrefix(line, "- `") {
			lines = append(lines, line)
		}
	}
	if len(lines) != 2 {
		t.Fatalf("summary has %d file lines, want 2:\n%s", len(lines), sub.Summary)
	}
	if lines[0] != "- `a.py`: Well structured change." {
		t.Errorf("line[0] = %q", lines[0])
	}
	if lines[1] != "- `b.py`: Review failed" {
		t.Errorf("line[1] = %q", lines[1])
	}
	if !strings.HasSuffix(sub.Summary, closingNote) {
		t.Error("summary should end with the closing note")
	}

	if len(sub.Comments) != 2 {
		t.Fatalf("got %d comments, want 2", len(sub.Comments))
	}
	for _, c := range sub.Comments {
		if c.Position != 1 {
			t.Errorf("%s: Position = %d, want 1", c.Path, c.Position)
		}
	}
	if sub.Comments[0].Path != "a.py" || sub.Comments[1].Path != "b.py" {
		t.Errorf("comment order = %s, %s", sub.Comments[0].Path, sub.Comments[1].Path)
	}
}

func TestRenderComment_Success(t *testing.T) {
	body := RenderComment(sampleResults()[0])

	for _, want := range []string{
		"### Overall Assessment",
		"Well structured change.",
		"### Positive Aspects",
		"- Good tests",
		"### Issues",
		"- **[Major]** Line 14: Unchecked None",
		"Suggestion: Guard the access",
		"### Checklist Violations",
		"- **Use type hints**: parse() is untyped",
		"Recommendation: Annotate parse()",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q:\n%s", want, body)
		}
	}
}

func TestRenderComment_EmptyLists(t *testing.T) {
	body := RenderComment(Result{Path: "x", Review: &FileReview{GeneralAssessment: "Fine"}})
	if strings.Count(body, "- None") != 3 {
		t.Errorf("expected three empty sections:\n%s", body)
	}
}

func TestRenderComment_Failure(t *testing.T) {
	body := RenderComment(Result{Path: "b.py", Err: "review cancelled: context canceled"})
	if body != "**Review failed:** review cancelled: context canceled" {
		t.Errorf("body = %q", body)
	}
}

func TestAggregate_Empty(t *testing.T) {
	sub := Aggregate(nil)
	if len(sub.Comments) != 0 {
		t.Errorf("got %d comments, want 0", len(sub.Comments))
	}
	if !strings.HasPrefix(sub.Summary, summaryHeading) {
		t.Errorf("summary = %q", sub.Summary)
	}
}

func TestPipeline_EndToEnd(t *testing.T) {
	diff := "diff --git a/a.py b/a.py\n" +
		"--- a/a.py\n+++ b/a.py\n@@ -0,0 +1 @@\n+def add(a, b): return a + b\n" +
		"diff --git a/b.py b/b.py\n" +
		"--- a/b.py\n+++ b/b.py\n@@ -0,0 +1 @@\n+print('hi')\n"

	rv := newScripted(map[string][]reply{
		"a.py": {okReply("Adds a small helper without type hints.")},
		"b.py": {{content: `{"general_assessment": "truncated`}},
	})
	e := &Engine{Reviewer: rv, Logger: quietLogger()}

	bundle := Segment(diff)
	sub := Aggregate(e.Review(context.Background(), bundle, "Use type hints"))

	if len(sub.Comments) != 2 {
		t.Fatalf("got %d comments, want 2", len(sub.Comments))
	}
	if !strings.Contains(sub.Comments[0].Body, "Adds a small helper without type hints.") {
		t.Errorf("a.py body = %q", sub.Comments[0].Body)
	}
	if !strings.Contains(sub.Comments[1].Body, "Failed to get a valid response after 5 attempts") {
		t.Errorf("b.py body = %q", sub.Comments[1].Body)
	}
	if rv.callCount("b.py") != DefaultRetries {
		t.Errorf("b.py calls = %d, want %d", rv.callCount("b.py"), DefaultRetries)
	}
}
