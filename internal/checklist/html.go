package checklist

import (
	"fmt"
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"golang.org/x/net/html"
)

var htmlTagPattern = regexp.MustCompile(`^<(!doctype|[a-zA-Z][a-zA-Z0-9]*)[\s>/]`)

// looksLikeHTML reports whether page content is an HTML fragment rather
// than markdown.
func looksLikeHTML(content string) bool {
	return htmlTagPattern.MatchString(strings.ToLower(strings.TrimSpace(content)))
}

func htmlToMarkdown(content string) (string, error) {
	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("parsing HTML: %w", err)
	}

	md, err := htmltomarkdown.ConvertNode(doc)
	if err != nil {
		return "", fmt.Errorf("converting HTML to markdown: %w", err)
	}
	return string(md), nil
}
