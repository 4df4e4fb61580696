package redact

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/dshills/vetter/internal/review"
)

const placeholder = "[REDACTED]"

// PathNotice replaces the whole diff body of a file matched by path policy.
const PathNotice = placeholder + " (file content redacted by path policy)"

type rule struct {
	name string
	re   *regexp.Regexp
}

var rules = []rule{
	{"api key assignment", regexp.MustCompile(`(?i)(api[_-]?key|apikey|api[_-]?secret)\s*[:=]\s*["']?([A-Za-z0-9/+=_-]{20,})["']?`)},
	{"aws access key id", regexp.MustCompile(`AKIA[0-9A-Z]{16}`)},
	{"aws secret key", regexp.MustCompile(`(?i)(aws[_-]?secret[_-]?access[_-]?key)\s*[:=]\s*["']?([A-Za-z0-9/+=]{40})["']?`)},
	{"quoted credential", regexp.MustCompile(`(?i)(secret|token|password|passwd|credential)\s*[:=]\s*["']([^"']{8,})["']`)},
	{"bearer token", regexp.MustCompile(`(?i)Bearer\s+[A-Za-z0-9._-]{20,}`)},
	{"jwt", regexp.MustCompile(`eyJ[A-Za-z0-9_-]{10,}\.eyJ[A-Za-z0-9_-]{10,}\.[A-Za-z0-9_-]{10,}`)},
	{"private key", regexp.MustCompile(`-----BEGIN\s+(RSA\s+|EC\s+|OPENSSH\s+)?PRIVATE KEY-----`)},
	{"github token", regexp.MustCompile(`gh[pousr]_[A-Za-z0-9_]{36,}`)},
	{"github fine-grained token", regexp.MustCompile(`github_pat_[A-Za-z0-9_]{22,}`)},
	{"clickup token", regexp.MustCompile(`pk_[0-9]+_[A-Z0-9]{32}`)},
	{"slack token", regexp.MustCompile(`xox[bporas]-[A-Za-z0-9-]{10,}`)},
	{"google api key", regexp.MustCompile(`AIza[0-9A-Za-z_-]{35}`)},
	{"openai key", regexp.MustCompile(`sk-(proj-|ant-)?[A-Za-z0-9_-]{20,}`)},
	{"hex secret assignment", regexp.MustCompile(`(?i)(key|secret|token)\s*[:=]\s*["']?[0-9a-f]{32,}["']?`)},
}

// Secrets replaces detected secrets in text with [REDACTED] and reports how
// many were replaced.
func Secrets(text string) (string, int) {
	n := 0
	for _, r := range rules {
		text = r.re.ReplaceAllStringFunc(text, func(string) string {
			n++
			return placeholder
		})
	}
	return text, n
}

// ShouldRedactPath checks if a file path matches any of the redaction path
// patterns. A leading "**/" matches at any depth and a trailing "/**"
// matches everything below a directory.
func ShouldRedactPath(path string, patterns []string) bool {
	for _, pattern := range patterns {
		if matched, err := filepath.Match(pattern, path); err == nil && matched {
			return true
		}
		if rest, ok := strings.CutPrefix(pattern, "**/"); ok {
			if matched, err := filepath.Match(rest, filepath.Base(path)); err == nil && matched {
				return true
			}
		}
		if dir, ok := strings.CutSuffix(pattern, "/**"); ok {
			if path == dir || strings.HasPrefix(path, dir+"/") {
				return true
			}
		}
	}
	return false
}

// Policy decides what leaves the machine in a review request.
type Policy struct {
	Secrets bool
	Paths   []string
}

// Summary counts what a Policy removed from a bundle.
type Summary struct {
	Secrets int
	Files   []string // paths whose body was withheld entirely
}

// Apply returns a copy of bundle with the policy applied to every body.
// Paths are never altered so each file still gets its own result.
func (p Policy) Apply(bundle review.Bundle) (review.Bundle, Summary) {
	var sum Summary
	out := make(review.Bundle, len(bundle))
	for i, fd := range bundle {
		out[i] = fd
		if ShouldRedactPath(fd.Path, p.Paths) {
			out[i].Body = PathNotice
			sum.Files = append(sum.Files, fd.Path)
			continue
		}
		if p.Secrets {
			var n int
			out[i].Body, n = Secrets(fd.Body)
			sum.Secrets += n
		}
	}
	return out, sum
}
