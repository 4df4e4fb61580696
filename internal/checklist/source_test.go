package checklist

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseURL(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want PageRef
	}{
		{"canonical form", "https://docs.example.com/v/dc/ws1/doc2/page3", PageRef{"ws1", "doc2", "page3"}},
		{"hosted form", "https://app.clickup.com/9015/v/dc/8cn-1/8cn-2", PageRef{"9015", "8cn-1", "8cn-2"}},
		{"trailing slash", "https://docs.example.com/v/dc/ws/doc/page/", PageRef{"ws", "doc", "page"}},
		{"no scheme", "docs.example.com/v/dc/ws/doc/page", PageRef{"ws", "doc", "page"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseURL(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseURL_Invalid(t *testing.T) {
	for _, raw := range []string{
		"",
		"https://docs.example.com/",
		"https://docs.example.com/v/dc/only-one",
		"https://docs.example.com/x/y/z",
	} {
		_, err := ParseURL(raw)
		assert.Error(t, err, "ParseURL(%q)", raw)
	}
}

func TestNewSource_RequiresToken(t *testing.T) {
	_, err := NewSource("", "", time.Second)
	assert.Error(t, err)
}

func TestSource_Checklist(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "docs-token", r.Header.Get("Authorization"))
		assert.Equal(t, "/workspaces/ws/docs/doc/pages/page", r.URL.Path)
		assert.Equal(t, "text/md", r.URL.Query().Get("content_format"))
		w.Write([]byte(`{"content":"# Python\nUse **type hints**","pages":[{"content":"See https://peps.python.org/pep-0008/ for style"}]}`))
	}))
	defer server.Close()

	s := &Source{token: "docs-token", apiURL: server.URL, httpCli: server.Client()}

	text, err := s.Checklist(context.Background(), "https://docs.example.com/v/dc/ws/doc/page")
	require.NoError(t, err)
	assert.Equal(t, "Python\nUse type hints\n\nSee for style", text)
}

func TestSource_FetchTree_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		invalid bool
	}{
		{"not found", 404, `{"err":"nope"}`, false},
		{"unauthorized", 401, `{"err":"token"}`, false},
		{"server error", 500, `oops`, false},
		{"not a document", 200, `{"pages":[]}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			s := &Source{token: "t", apiURL: server.URL, httpCli: server.Client()}
			_, err := s.FetchTree(context.Background(), PageRef{"ws", "doc", "page"})
			require.Error(t, err)

			var invalid *InvalidDocumentError
			assert.Equal(t, tt.invalid, errors.As(err, &invalid))
		})
	}
}
