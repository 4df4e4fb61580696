package review

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Severity represents the severity level of an issue.
type Severity string

const (
	SeverityMinor    Severity = "Minor"
	SeverityMajor    Severity = "Major"
	SeverityCritical Severity = "Critical"
)

// SeverityRank returns a numeric rank for sorting (higher = more severe).
func SeverityRank(s Severity) int {
	switch normalizeSeverity(s) {
	case SeverityCritical:
		return 3
	case SeverityMajor:
		return 2
	case SeverityMinor:
		return 1
	default:
		return 0
	}
}

// MeetsThreshold returns true if severity is at or above the threshold.
func MeetsThreshold(s Severity, threshold string) bool {
	if threshold == "none" || threshold == "" {
		return false
	}
	want := SeverityRank(Severity(threshold))
	return want > 0 && SeverityRank(s) >= want
}

// normalizeSeverity maps case variants onto the canonical names and leaves
// unknown values untouched.
func normalizeSeverity(s Severity) Severity {
	switch strings.ToLower(strings.TrimSpace(string(s))) {
	case "critical":
		return SeverityCritical
	case "major":
		return SeverityMajor
	case "minor":
		return SeverityMinor
	}
	return s
}

// FileDiff is the diff body of a single file.
type FileDiff struct {
	Path string
	Body string
}

// Bundle is the ordered set of per-file diffs of one change set. Paths are
// unique.
type Bundle []FileDiff

// Paths returns the file paths in bundle order.
func (b Bundle) Paths() []string {
	paths := make([]string, len(b))
	for i, fd := range b {
		paths[i] = fd.Path
	}
	return paths
}

// Issue is a problem the reviewer found in a file.
type Issue struct {
	Severity    Severity   `json:"severity"`
	Line        LineNumber `json:"line"`
	Description string     `json:"description"`
	Suggestion  string     `json:"suggestion"`
}

// Violation is a checklist item the file does not satisfy.
type Violation struct {
	Item           string `json:"item"`
	Explanation    string `json:"explanation"`
	Recommendation string `json:"recommendation"`
}

// FileReview is a successful review of one file.
type FileReview struct {
	GeneralAssessment   string      `json:"general_assessment"`
	PositiveAspects     []string    `json:"positive_aspects"`
	Issues              []Issue     `json:"issues"`
	ChecklistViolations []Violation `json:"checklist_violations"`
}

// LineNumber is a line reference reported by the reviewer. Models sometimes
// quote numbers, so a numeric string is accepted too; anything else reads
// as 0.
type LineNumber int

func (n *LineNumber) UnmarshalJSON(data []byte) error {
	var i int
	if err := json.Unmarshal(data, &i); err == nil {
		*n = LineNumber(i)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		i, _ = strconv.Atoi(strings.TrimSpace(s))
		*n = LineNumber(i)
		return nil
	}
	if string(data) == "null" {
		*n = 0
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*n = LineNumber(int(f))
	return nil
}

// Result is the outcome for one file: either Review or Err is set.
type Result struct {
	Path     string      `json:"path"`
	Review   *FileReview `json:"review,omitempty"`
	Err      string      `json:"error,omitempty"`
	Attempts int         `json:"attempts"`
}

// OK reports whether the file was reviewed successfully.
func (r Result) OK() bool { return r.Review != nil }

// Results holds one Result per bundle file, in bundle order.
type Results []Result

// Get returns the result for path.
func (rs Results) Get(path string) (Result, bool) {
	for _, r := range rs {
		if r.Path == path {
			return r, true
		}
	}
	return Result{}, false
}

// Failed returns the number of files without a successful review.
func (rs Results) Failed() int {
	n := 0
	for _, r := range rs {
		if !r.OK() {
			n++
		}
	}
	return n
}

// HighestSeverity returns the most severe issue across all results, or ""
// when no issue was reported.
func (rs Results) HighestSeverity() Severity {
	var highest Severity
	for _, r := range rs {
		if r.Review == nil {
			continue
		}
		for _, is := range r.Review.Issues {
			if SeverityRank(is.Severity) > SeverityRank(highest) {
				highest = normalizeSeverity(is.Severity)
			}
		}
	}
	return highest
}

// CommentPosition is the diff position every file comment is anchored to.
// Reported line numbers are not mapped onto diff hunks.
const CommentPosition = 1

// Comment is the review comment for one file.
type Comment struct {
	Path     string `json:"path"`
	Body     string `json:"body"`
	Position int    `json:"position"`
}

// Submission is the aggregated review ready to be posted.
type Submission struct {
	Summary  string    `json:"summary"`
	Comments []Comment `json:"comments"`
}
