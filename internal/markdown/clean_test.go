package markdown

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"plain text", "Use type hints", "Use type hints"},
		{"url stripped", "see http://example.com/x now", "see now"},
		{"https url with query", "docs at https://docs.example.com/a/b?c=d#e here", "docs at here"},
		{"link target stripped", "[docs](https://example.com/x)", "[docs]()"},
		{"bold", "**Bold** text", "Bold text"},
		{"italic underscore", "an _emphasised_ word", "an emphasised word"},
		{"italic star", "an *emphasised* word", "an emphasised word"},
		{"strikethrough", "~~gone~~ kept", "gone kept"},
		{"inline code", "call `fmt.Println` here", "call fmt.Println here"},
		{"heading", "## Security\nNo secrets in code", "Security\nNo secrets in code"},
		{"deep heading", "###### Tiny", "Tiny"},
		{"bullets", "* first\n* second", "first\nsecond"},
		{"symbols removed", "Price: $5 & more!", "Price: 5 more"},
		{"kept punctuation", "a.b, c; d: e-f (g) [h]", "a.b, c; d: e-f (g) [h]"},
		{"intra-line whitespace", "  a   b  \n   c\t\td ", "a b\nc d"},
		{"three blank lines collapse", "a\n\n\n\nb", "a\n\nb"},
		{"two blank lines kept", "a\n\n\nb", "a\n\n\nb"},
		{"crlf", "a\r\nb", "a\nb"},
		{"lone cr", "a\rb", "a\nb"},
		{"symbols become spaces", "don't use and/or", "don t use and or"},
		{"unicode letters", "Überprüfung ✓ done", "Überprüfung done"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clean(tt.input))
		})
	}
}

func TestClean_TablePreserved(t *testing.T) {
	assert.Equal(t, "| a | b |", Clean("| a | b |"))
	assert.Equal(t, "| a | b |", Clean("|  a   |  b |"))
	assert.Equal(t, "| a | b |", Clean("   | a |\tb |  "))

	input := "Intro\n\n| Rule | Level |\n|------|-------|\n| **No** globals | high |\n\nEnd"
	want := "Intro\n\n| Rule | Level |\n|------|-------|\n| No globals | high |\n\nEnd"
	assert.Equal(t, want, Clean(input))
}

func TestClean_NoURLSurvives(t *testing.T) {
	out := Clean("see http://example.com/x now and https://a.b/c?d=1")
	assert.NotContains(t, out, "http")
}

// idempotenceSeeds are inputs that mix line endings, table rows and symbols
// that cleaning removes.
var idempotenceSeeds = []string{
	"",
	"# Title\n\nSome **bold** and _it_ text with http://x.y/z links.",
	"* bullet one\n* bullet two\n\n\n\n\n## Next\n",
	"| a | b |\n|---|---|\n|  1 |2 |\n",
	"   | padded | table |   \nafter",
	"weird !!! @@@ $$$ ### ***",
	"a\n\n\n\n!!!\n\n\n\nb",
	"`code` ~~strike~~ __under__ *star*",
	"|x|!",
	"https://a~||\r/~\n!a|a",
	"||\r!\n\na|a",
	"a\r\r\n\rb",
}

func TestClean_Idempotent(t *testing.T) {
	for _, in := range idempotenceSeeds {
		once := Clean(in)
		assert.Equal(t, once, Clean(once), "input %q", in)
	}
}

// randomMarkdown builds inputs from fragments that interact across cleaning
// steps: URLs next to symbols, lone carriage returns, pipes and blank lines.
func randomMarkdown(r *rand.Rand) string {
	fragments := []string{
		"a", "b", "Z", "7", " ", "  ", "\t", "\n", "\n\n", "\r", "\r\n",
		"|", "||", "*", "**", "_", "~", "`", "#", "## ", "!", "$", "'", "/",
		"-", ".", ":", "https://", "http://x.y/", "\u00a0", "\v", "\u2028", "Ü", "✓",
	}
	var b strings.Builder
	for range r.IntN(40) {
		b.WriteString(fragments[r.IntN(len(fragments))])
	}
	return b.String()
}

func TestClean_IdempotentRandom(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))
	for range 20000 {
		in := randomMarkdown(r)
		once := Clean(in)
		if twice := Clean(once); twice != once {
			t.Fatalf("Clean not idempotent\ninput: %q\nonce:  %q\ntwice: %q", in, once, twice)
		}
		assert.NotContains(t, once, "\r")
	}
}

func FuzzClean(f *testing.F) {
	for _, seed := range idempotenceSeeds {
		f.Add(seed)
	}
	f.Fuzz(func(t *testing.T, in string) {
		once := Clean(in)
		if twice := Clean(once); twice != once {
			t.Errorf("Clean not idempotent\ninput: %q\nonce:  %q\ntwice: %q", in, once, twice)
		}
	})
}

func TestIsTableLine(t *testing.T) {
	assert.True(t, IsTableLine("| a | b |"))
	assert.True(t, IsTableLine("  |---|---|  "))
	assert.False(t, IsTableLine("| a | b"))
	assert.False(t, IsTableLine("|"))
	assert.False(t, IsTableLine("plain"))
}
