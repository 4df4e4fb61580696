package markdown

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	lineEndings    = strings.NewReplacer("\r\n", "\n", "\r", "\n")
	urlPattern     = regexp.MustCompile(`https?://[A-Za-z0-9\-._~:/?#@!$&'*+,;=%]+`)
	headingPattern = regexp.MustCompile(`(?m)^[ \t]*#+[ \t]*`)
)

// emphasisPatterns strip paired inline markers and keep the enclosed text.
// Doubled markers run first so "**bold**" is not read as two "*" pairs.
var emphasisPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\*\*([^\n]+?)\*\*`),
	regexp.MustCompile(`__([^\n]+?)__`),
	regexp.MustCompile(`~~([^\n]+?)~~`),
	regexp.MustCompile("`([^`\n]+)`"),
	regexp.MustCompile(`\*([^*\n]+)\*`),
	regexp.MustCompile(`_([^_\n]+)_`),
	regexp.MustCompile(`~([^~\n]+)~`),
}

// keptPunctuation is the punctuation that survives cleaning. The pipe keeps
// table columns intact.
const keptPunctuation = ".,;:-()[]|"

// Clean normalizes a markdown fragment into plain review text. Links, emphasis
// and heading markers are dropped, stray symbols removed and whitespace
// normalized, while table rows keep their pipes. Clean is idempotent.
func Clean(text string) string {
	text = lineEndings.Replace(text)

	text = urlPattern.ReplaceAllString(text, "")
	for _, pat := range emphasisPatterns {
		text = pat.ReplaceAllString(text, "$1")
	}
	text = headingPattern.ReplaceAllString(text, "")
	text = reflow(text)
	text = strings.Map(keepRune, text)
	text = collapseSpaces(text)

	// Blanking symbols can empty a line, so blank runs are settled once more.
	return strings.TrimSpace(reflow(text))
}

// IsTableLine reports whether a line is a markdown table row.
func IsTableLine(line string) bool {
	t := strings.TrimSpace(line)
	return len(t) >= 2 && t[0] == '|' && t[len(t)-1] == '|'
}

// keepRune blanks every rune that is not a letter, digit, space or kept
// punctuation.
func keepRune(r rune) rune {
	if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
		return r
	}
	if strings.ContainsRune(keptPunctuation, r) {
		return r
	}
	return ' '
}

// reflow trims non-table lines and collapses runs of three or more blank
// lines into one. Table rows pass through untouched.
func reflow(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	blanks := 0

	flush := func() {
		if blanks >= 3 {
			blanks = 1
		}
		for ; blanks > 0; blanks-- {
			out = append(out, "")
		}
	}

	for _, line := range lines {
		if IsTableLine(line) {
			flush()
			out = append(out, line)
			continue
		}
		line = strings.TrimSpace(line)
		if line == "" {
			blanks++
			continue
		}
		flush()
		out = append(out, line)
	}
	flush()

	return strings.Join(out, "\n")
}

// collapseSpaces trims every line, table rows included, and squeezes inner
// whitespace runs to one space.
func collapseSpaces(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.Join(strings.Fields(line), " ")
	}
	return strings.Join(lines, "\n")
}
