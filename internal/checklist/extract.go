package checklist

import (
	"encoding/json"
	"strings"

	"github.com/dshills/vetter/internal/markdown"
)

// DocNode is one page of a document tree.
type DocNode struct {
	ID      string     `json:"id,omitempty"`
	Name    string     `json:"name,omitempty"`
	Content string     `json:"content"`
	Pages   []*DocNode `json:"pages,omitempty"`
}

// InvalidDocumentError reports a document tree that cannot be used as a
// checklist. It is fatal for the run.
type InvalidDocumentError struct {
	Reason string
	Err    error
}

func (e *InvalidDocumentError) Error() string {
	if e.Err != nil {
		return "invalid document: " + e.Reason + ": " + e.Err.Error()
	}
	return "invalid document: " + e.Reason
}

func (e *InvalidDocumentError) Unwrap() error { return e.Err }

// DecodeTree decodes a document tree, requiring the root to be an object
// with a content field.
func DecodeTree(data []byte) (*DocNode, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, &InvalidDocumentError{Reason: "root is not an object", Err: err}
	}
	if _, ok := probe["content"]; !ok {
		return nil, &InvalidDocumentError{Reason: "root has no content field"}
	}

	var root DocNode
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, &InvalidDocumentError{Reason: "malformed page", Err: err}
	}
	return &root, nil
}

// Extract walks the tree in pre-order and returns the cleaned content of
// every page whose cleaned text is not empty. A page reachable more than once
// is visited only the first time.
func Extract(root *DocNode) ([]string, error) {
	if root == nil {
		return nil, &InvalidDocumentError{Reason: "root is nil"}
	}

	var blocks []string
	visited := make(map[*DocNode]bool)
	stack := []*DocNode{root}

	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n == nil || visited[n] {
			continue
		}
		visited[n] = true

		if text := normalize(n.Content); text != "" {
			blocks = append(blocks, text)
		}

		// Push in reverse so the first child is popped first.
		for i := len(n.Pages) - 1; i >= 0; i-- {
			stack = append(stack, n.Pages[i])
		}
	}

	return blocks, nil
}

// Join concatenates extracted blocks into checklist text.
func Join(blocks []string) string {
	return strings.Join(blocks, "\n\n")
}

func normalize(content string) string {
	if looksLikeHTML(content) {
		if md, err := htmlToMarkdown(content); err == nil {
			content = md
		}
	}
	return markdown.Clean(content)
}
