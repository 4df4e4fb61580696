package github

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/dshills/vetter/internal/review"
)

const DefaultAPIURL = "https://api.github.com"

// Client provides access to the GitHub REST API.
type Client struct {
	token   string
	apiURL  string
	httpCli *http.Client

	postAttempts uint
	postDelay    time.Duration
}

// NewClient creates a new GitHub client. apiURL defaults to the public API.
func NewClient(apiURL, token string, timeout time.Duration) (*Client, error) {
	if token == "" {
		return nil, fmt.Errorf("GITHUB_TOKEN environment variable is not set")
	}
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		token:        token,
		apiURL:       strings.TrimRight(apiURL, "/"),
		httpCli:      &http.Client{Timeout: timeout},
		postAttempts: 3,
		postDelay:    2 * time.Second,
	}, nil
}

// APIError is a non-success response from the GitHub API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("GitHub API error (status %d): %s", e.StatusCode, strings.TrimSpace(e.Body))
}

// IsAuthError reports whether err is a 401 or 403 from the GitHub API.
func IsAuthError(err error) bool {
	var ae *APIError
	return errors.As(err, &ae) && (ae.StatusCode == 401 || ae.StatusCode == 403)
}

// retryable reports whether a failed post may succeed when repeated.
func retryable(err error) bool {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.StatusCode == 429 || ae.StatusCode >= 500
	}
	return true
}

// Repo identifies a repository.
type Repo struct {
	Owner string
	Name  string
}

func (r Repo) String() string { return r.Owner + "/" + r.Name }

// ParseRepository parses an "owner/repo" identifier.
func ParseRepository(s string) (Repo, error) {
	owner, name, ok := strings.Cut(strings.TrimSpace(s), "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return Repo{}, fmt.Errorf("invalid repository %q: want owner/repo", s)
	}
	return Repo{Owner: owner, Name: name}, nil
}

// GetPRDiff fetches the unified diff for a pull request.
func (c *Client) GetPRDiff(ctx context.Context, repo Repo, prNumber int) (string, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/pulls/%d", c.apiURL, repo.Owner, repo.Name, prNumber)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/vnd.github.v3.diff")

	resp, err := c.httpCli.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching PR diff: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode == 404 {
		return "", fmt.Errorf("PR #%d not found in %s: %w", prNumber, repo, &APIError{StatusCode: 404, Body: string(body)})
	}
	if resp.StatusCode != 200 {
		return "", fmt.Errorf("fetching PR diff: %w", &APIError{StatusCode: resp.StatusCode, Body: string(body)})
	}

	return string(body), nil
}

// ReviewComment is a file comment anchored at a diff position.
type ReviewComment struct {
	Path     string `json:"path"`
	Body     string `json:"body"`
	Position int    `json:"position"`
}

// ReviewRequest represents a PR review to post.
type ReviewRequest struct {
	Body     string          `json:"body"`
	Event    string          `json:"event"`
	Comments []ReviewComment `json:"comments"`
}

// BuildReview converts a submission into a COMMENT review.
func BuildReview(sub review.Submission) ReviewRequest {
	comments := make([]ReviewComment, len(sub.Comments))
	for i, c := range sub.Comments {
		comments[i] = ReviewComment{Path: c.Path, Body: c.Body, Position: c.Position}
	}
	return ReviewRequest{
		Body:     sub.Summary,
		Event:    "COMMENT",
		Comments: comments,
	}
}

// PostReview posts a pull request review. Rate limiting and server errors
// are retried with backoff; any other failure is returned at once.
func (c *Client) PostReview(ctx context.Context, repo Repo, prNumber int, rev ReviewRequest) error {
	url := fmt.Sprintf("%s/repos/%s/%s/pulls/%d/reviews", c.apiURL, repo.Owner, repo.Name, prNumber)

	payload, err := json.Marshal(rev)
	if err != nil {
		return fmt.Errorf("marshaling review: %w", err)
	}

	attempts := c.postAttempts
	if attempts == 0 {
		attempts = 1
	}

	return retry.Do(
		func() error { return c.postOnce(ctx, url, payload) },
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(c.postDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.RetryIf(retryable),
		retry.LastErrorOnly(true),
	)
}

func (c *Client) postOnce(ctx context.Context, url string, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(payload))
	if err != nil {
		return retry.Unrecoverable(fmt.Errorf("creating request: %w", err))
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpCli.Do(req)
	if err != nil {
		return fmt.Errorf("posting review: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode == 422 {
		return fmt.Errorf("GitHub rejected review: %w", &APIError{StatusCode: 422, Body: string(body)})
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("posting review: %w", &APIError{StatusCode: resp.StatusCode, Body: string(body)})
	}
	return nil
}

var (
	httpsRemoteRe = regexp.MustCompile(`https?://[^/]+/([^/]+)/([^/.\s]+)`)
	sshRemoteRe   = regexp.MustCompile(`[^@]+@[^:]+:([^/]+)/([^/.\s]+)`)
)

// DetectRepo parses owner/repo from the git remote origin URL.
func DetectRepo(ctx context.Context) (Repo, error) {
	out, err := exec.CommandContext(ctx, "git", "remote", "get-url", "origin").Output()
	if err != nil {
		return Repo{}, fmt.Errorf("cannot detect repo: git remote get-url origin failed: %w", err)
	}
	return ParseRemoteURL(strings.TrimSpace(string(out)))
}

// ParseRemoteURL extracts owner/repo from a git remote URL.
func ParseRemoteURL(url string) (Repo, error) {
	url = strings.TrimSuffix(url, ".git")

	if m := httpsRemoteRe.FindStringSubmatch(url); len(m) == 3 {
		return Repo{Owner: m[1], Name: m[2]}, nil
	}
	if m := sshRemoteRe.FindStringSubmatch(url); len(m) == 3 {
		return Repo{Owner: m[1], Name: m[2]}, nil
	}
	return Repo{}, fmt.Errorf("cannot parse owner/repo from remote URL: %s", url)
}
