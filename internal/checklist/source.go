package checklist

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultAPIURL is the document API used when none is configured.
const DefaultAPIURL = "https://api.clickup.com/api/v3"

// PageRef identifies the root page of a checklist document.
type PageRef struct {
	Workspace string
	Doc       string
	Page      string
}

// ParseURL extracts the workspace, document and page identifiers from a
// checklist URL. Both <host>/v/dc/<workspace>/<doc>/<page> and the hosted
// form <host>/<workspace>/v/dc/<doc>/<page> are accepted.
func ParseURL(raw string) (PageRef, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return PageRef{}, fmt.Errorf("parsing checklist URL: %w", err)
	}

	var segs []string
	for _, s := range strings.Split(u.Path, "/") {
		if s != "" {
			segs = append(segs, s)
		}
	}

	for i := 0; i+1 < len(segs); i++ {
		if segs[i] != "v" || segs[i+1] != "dc" {
			continue
		}
		rest := segs[i+2:]
		switch {
		case len(rest) >= 3:
			return PageRef{Workspace: rest[0], Doc: rest[1], Page: rest[2]}, nil
		case len(rest) == 2 && i > 0:
			return PageRef{Workspace: segs[i-1], Doc: rest[0], Page: rest[1]}, nil
		}
		break
	}

	return PageRef{}, fmt.Errorf("checklist URL %q does not match <host>/v/dc/<workspace>/<doc>/<page>", raw)
}

// Source fetches checklist documents from the document API.
type Source struct {
	token   string
	apiURL  string
	httpCli *http.Client
}

// NewSource creates a Source. An empty apiURL selects DefaultAPIURL.
func NewSource(apiURL, token string, timeout time.Duration) (*Source, error) {
	if token == "" {
		return nil, fmt.Errorf("document API token is not set")
	}
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Source{
		token:   token,
		apiURL:  strings.TrimRight(apiURL, "/"),
		httpCli: &http.Client{Timeout: timeout},
	}, nil
}

// FetchTree retrieves the page tree rooted at ref.
func (s *Source) FetchTree(ctx context.Context, ref PageRef) (*DocNode, error) {
	endpoint := fmt.Sprintf("%s/workspaces/%s/docs/%s/pages/%s?content_format=text/md",
		s.apiURL, url.PathEscape(ref.Workspace), url.PathEscape(ref.Doc), url.PathEscape(ref.Page))

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", s.token)
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpCli.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching checklist page: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode == 404 {
		return nil, fmt.Errorf("checklist page %s/%s/%s not found", ref.Workspace, ref.Doc, ref.Page)
	}
	if resp.StatusCode == 401 || resp.StatusCode == 403 {
		return nil, fmt.Errorf("document API authentication failed: %s", string(body))
	}
	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("document API error (status %d): %s", resp.StatusCode, string(body))
	}

	return DecodeTree(body)
}

// Checklist resolves a checklist URL to its joined, cleaned text.
func (s *Source) Checklist(ctx context.Context, rawURL string) (string, error) {
	ref, err := ParseURL(rawURL)
	if err != nil {
		return "", err
	}
	root, err := s.FetchTree(ctx, ref)
	if err != nil {
		return "", err
	}
	blocks, err := Extract(root)
	if err != nil {
		return "", err
	}
	return Join(blocks), nil
}
