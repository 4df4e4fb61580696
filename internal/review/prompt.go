package review

import (
	"fmt"
	"path/filepath"
	"strings"
)

const promptTemplate = `You are a strict, expert code reviewer. Review the changes made to one file against the team checklist below.

Rules:
1. Only review the changes shown in the diff. Do not comment on unchanged code.
2. Focus on bugs, security issues, performance problems, and correctness.
3. Be concise and actionable. Every issue must include a concrete suggestion.
4. Reference line numbers from the diff hunks.
5. Rate severity as "Critical", "Major", or "Minor".
6. Report every checklist item the change does not satisfy.

You MUST respond with ONLY a JSON object. No markdown, no explanation, no preamble.

The object must have this exact structure:
{
  "general_assessment": "One paragraph overall assessment",
  "positive_aspects": ["What the change does well"],
  "issues": [
    {
      "severity": "Critical|Major|Minor",
      "line": 1,
      "description": "What is wrong and why it matters",
      "suggestion": "How to fix it"
    }
  ],
  "checklist_violations": [
    {
      "item": "Checklist item",
      "explanation": "How the change violates it",
      "recommendation": "How to comply"
    }
  ]
}

Use empty arrays when there is nothing to report.
`

// BuildPrompt constructs the review prompt for one file.
func BuildPrompt(path, checklist, body string) string {
	var b strings.Builder

	b.WriteString(promptTemplate)
	b.WriteString("\n")
	fmt.Fprintf(&b, "File: %s\n", path)
	if langs := detectLanguages([]string{path}); len(langs) > 0 {
		fmt.Fprintf(&b, "Language: %s\n", strings.Join(langs, ", "))
	}

	b.WriteString("\n--- BEGIN CHECKLIST ---\n")
	if strings.TrimSpace(checklist) == "" {
		b.WriteString("(no checklist provided; apply general best practices)")
	} else {
		b.WriteString(checklist)
	}
	b.WriteString("\n--- END CHECKLIST ---\n")

	b.WriteString("\n--- BEGIN DIFF ---\n")
	b.WriteString(body)
	b.WriteString("\n--- END DIFF ---\n")

	return b.String()
}

var langMap = map[string]string{
	".go":    "Go",
	".py":    "Python",
	".js":    "JavaScript",
	".ts":    "TypeScript",
	".tsx":   "TypeScript/React",
	".jsx":   "JavaScript/React",
	".rs":    "Rust",
	".java":  "Java",
	".rb":    "Ruby",
	".cpp":   "C++",
	".c":     "C",
	".h":     "C/C++",
	".cs":    "C#",
	".php":   "PHP",
	".swift": "Swift",
	".kt":    "Kotlin",
	".sql":   "SQL",
	".sh":    "Shell",
	".yaml":  "YAML",
	".yml":   "YAML",
	".json":  "JSON",
	".tf":    "Terraform",
}

func detectLanguages(files []string) []string {
	seen := make(map[string]bool)
	var langs []string
	for _, f := range files {
		lang, ok := langMap[strings.ToLower(filepath.Ext(f))]
		if ok && !seen[lang] {
			seen[lang] = true
			langs = append(langs, lang)
		}
	}
	return langs
}
