package review

import (
	"testing"
)

const validReview = `{
	"general_assessment": "Solid change.",
	"positive_aspects": ["Clear naming"],
	"issues": [
		{"severity": "major", "line": 12, "description": "Missing nil check", "suggestion": "Check err"}
	],
	"checklist_violations": [
		{"item": "Use type hints", "explanation": "f lacks hints", "recommendation": "Annotate f"}
	]
}`

func TestParseReview_Valid(t *testing.T) {
	fr, err := ParseReview(validReview)
	if err != nil {
		t.Fatalf("ParseReview error: %v", err)
	}
	if fr.GeneralAssessment != "Solid change." {
		t.Errorf("GeneralAssessment = %q", fr.GeneralAssessment)
	}
	if len(fr.Issues) != 1 {
		t.Fatalf("got %d issues, want 1", len(fr.Issues))
	}
	if fr.Issues[0].Severity != SeverityMajor {
		t.Errorf("Severity = %q, want %q", fr.Issues[0].Severity, SeverityMajor)
	}
	if fr.Issues[0].Line != 12 {
		t.Errorf("Line = %d, want 12", fr.Issues[0].Line)
	}
	if len(fr.ChecklistViolations) != 1 || fr.ChecklistViolations[0].Item != "Use type hints" {
		t.Errorf("ChecklistViolations = %+v", fr.ChecklistViolations)
	}
}

func TestParseReview_Repair(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"fenced", "```json\n" + validReview + "\n```"},
		{"bare fence", "```\n" + validReview + "\n```"},
		{"preamble", "Here is the review:\n" + validReview + "\nThanks!"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fr, err := ParseReview(tt.input)
			if err != nil {
				t.Fatalf("ParseReview error: %v", err)
			}
			if fr.GeneralAssessment != "Solid change." {
				t.Errorf("GeneralAssessment = %q", fr.GeneralAssessment)
			}
		})
	}
}

func TestParseReview_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not json", "I cannot review this file."},
		{"broken json", `{"general_assessment": "ok",`},
		{"array", `["a", "b"]`},
		{"missing field", `{"general_assessment": "ok", "positive_aspects": [], "issues": []}`},
		{"wrong type", `{"general_assessment": 3, "positive_aspects": [], "issues": [], "checklist_violations": []}`},
		{"empty", ""},
		{"null assessment", `{"general_assessment": null, "positive_aspects": [], "issues": [], "checklist_violations": []}`},
		{"all null", `{"general_assessment": null, "positive_aspects": null, "issues": null, "checklist_violations": null}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseReview(tt.input)
			if err == nil {
				t.Fatal("expected error")
			}
			if !IsSchemaError(err) {
				t.Errorf("expected *SchemaError, got %T: %v", err, err)
			}
		})
	}
}

func TestParseReview_EmptyLists(t *testing.T) {
	fr, err := ParseReview(`{"general_assessment": "", "positive_aspects": null, "issues": [], "checklist_violations": []}`)
	if err != nil {
		t.Fatalf("ParseReview error: %v", err)
	}
	if fr.PositiveAspects == nil || fr.Issues == nil || fr.ChecklistViolations == nil {
		t.Error("expected non-nil empty lists")
	}
}

func TestParseReview_LineAsString(t *testing.T) {
	fr, err := ParseReview(`{"general_assessment": "ok", "positive_aspects": [], "issues": [
		{"severity": "Minor", "line": "7", "description": "d", "suggestion": "s"},
		{"severity": "Unknown", "line": "n/a", "description": "d", "suggestion": "s"}
	], "checklist_violations": []}`)
	if err != nil {
		t.Fatalf("ParseReview error: %v", err)
	}
	if fr.Issues[0].Line != 7 {
		t.Errorf("Line = %d, want 7", fr.Issues[0].Line)
	}
	if fr.Issues[1].Line != 0 {
		t.Errorf("Line = %d, want 0", fr.Issues[1].Line)
	}
	if fr.Issues[1].Severity != "Unknown" {
		t.Errorf("unknown severity should be kept, got %q", fr.Issues[1].Severity)
	}
}

func TestLooksLikeJSON(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{`{"ok": true}`, true},
		{"```json\n{\"ok\": true}\n```", true},
		{`Sure! {"ok": true}`, true},
		{`{"ok": tru`, false},
		{"ok", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := LooksLikeJSON(tt.in); got != tt.want {
			t.Errorf("LooksLikeJSON(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
