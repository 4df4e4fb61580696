package gitctx

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Mode selects which local changes to diff.
type Mode string

const (
	ModeUnstaged Mode = "unstaged"
	ModeStaged   Mode = "staged"
	ModeRange    Mode = "range"
)

// Request describes a local diff.
type Request struct {
	Mode         Mode
	Range        string // revision range, for ModeRange
	MergeBase    bool   // diff "a..b" as "a...b"
	ContextLines int
	Dir          string // repository directory; "" means the working directory
}

// Result holds the collected diff and metadata.
type Result struct {
	Diff  string
	Label string
	Repo  RepoMeta
}

// RepoMeta contains git repository metadata.
type RepoMeta struct {
	Root   string
	Head   string
	Branch string
}

// GetRepoMeta collects repository metadata from git.
func GetRepoMeta(ctx context.Context, dir string) (RepoMeta, error) {
	root, err := gitOutput(ctx, dir, "rev-parse", "--show-toplevel")
	if err != nil {
		return RepoMeta{}, fmt.Errorf("not a git repository: %w", err)
	}
	// Both fail in a repository without commits.
	head, _ := gitOutput(ctx, dir, "rev-parse", "HEAD")
	branch, _ := gitOutput(ctx, dir, "rev-parse", "--abbrev-ref", "HEAD")
	return RepoMeta{
		Root:   strings.TrimSpace(root),
		Head:   strings.TrimSpace(head),
		Branch: strings.TrimSpace(branch),
	}, nil
}

// Diff runs git diff for the request.
func Diff(ctx context.Context, req Request) (Result, error) {
	args, err := diffArgs(req)
	if err != nil {
		return Result{}, err
	}

	meta, err := GetRepoMeta(ctx, req.Dir)
	if err != nil {
		return Result{}, err
	}

	diff, err := gitOutput(ctx, req.Dir, args...)
	if err != nil {
		return Result{}, fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}

	return Result{Diff: diff, Label: label(req, meta), Repo: meta}, nil
}

func diffArgs(req Request) ([]string, error) {
	args := []string{"diff", "--no-color", "--no-ext-diff"}
	if req.ContextLines > 0 {
		args = append(args, fmt.Sprintf("-U%d", req.ContextLines))
	}

	switch req.Mode {
	case ModeUnstaged, "":
	case ModeStaged:
		args = append(args, "--cached")
	case ModeRange:
		if req.Range == "" {
			return nil, errors.New("range mode requires a revision range")
		}
		r := req.Range
		if req.MergeBase && strings.Contains(r, "..") && !strings.Contains(r, "...") {
			r = strings.Replace(r, "..", "...", 1)
		}
		args = append(args, r)
	default:
		return nil, fmt.Errorf("unknown diff mode: %s", req.Mode)
	}

	return append(args, "--"), nil
}

func label(req Request, meta RepoMeta) string {
	var what string
	switch req.Mode {
	case ModeStaged:
		what = "staged changes"
	case ModeRange:
		what = req.Range
	default:
		what = "unstaged changes"
	}
	if meta.Branch != "" && meta.Branch != "HEAD" {
		return fmt.Sprintf("%s (branch %s)", what, meta.Branch)
	}
	return what
}

func gitOutput(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return string(out), fmt.Errorf("%s: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", err
	}
	return string(out), nil
}
