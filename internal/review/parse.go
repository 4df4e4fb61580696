package review

import (
	"encoding/json"
	"strings"
)

var requiredFields = []string{
	"general_assessment",
	"positive_aspects",
	"issues",
	"checklist_violations",
}

// ParseReview decodes an endpoint response into a FileReview. Markdown
// fences and text around the outermost JSON object are tolerated; a
// missing top-level field or a null assessment is a *SchemaError.
func ParseReview(content string) (*FileReview, error) {
	obj, ok := extractJSONObject(content)
	if !ok {
		return nil, &SchemaError{Reason: "no JSON object in response"}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(obj), &fields); err != nil {
		return nil, &SchemaError{Reason: "malformed JSON", Err: err}
	}
	for _, name := range requiredFields {
		if _, ok := fields[name]; !ok {
			return nil, &SchemaError{Reason: "missing field " + name}
		}
	}
	if strings.TrimSpace(string(fields["general_assessment"])) == "null" {
		return nil, &SchemaError{Reason: "general_assessment is null"}
	}

	var fr FileReview
	if err := json.Unmarshal([]byte(obj), &fr); err != nil {
		return nil, &SchemaError{Reason: "unexpected field type", Err: err}
	}

	if fr.PositiveAspects == nil {
		fr.PositiveAspects = []string{}
	}
	if fr.Issues == nil {
		fr.Issues = []Issue{}
	}
	if fr.ChecklistViolations == nil {
		fr.ChecklistViolations = []Violation{}
	}
	for i := range fr.Issues {
		fr.Issues[i].Severity = normalizeSeverity(fr.Issues[i].Severity)
	}
	return &fr, nil
}

// extractJSONObject strips a surrounding code fence and cuts the text down
// to its outermost {...} span.
func extractJSONObject(content string) (string, bool) {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```") {
		lines := strings.Split(content, "\n")
		if len(lines) >= 2 {
			end := len(lines)
			if strings.TrimSpace(lines[end-1]) == "```" {
				end--
			}
			content = strings.Join(lines[1:end], "\n")
		}
	}

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end < start {
		return "", false
	}
	return content[start : end+1], true
}

// LooksLikeJSON reports whether content carries a syntactically valid JSON
// object, with or without a markdown fence around it.
func LooksLikeJSON(content string) bool {
	obj, ok := extractJSONObject(content)
	return ok && json.Valid([]byte(obj))
}
