package review

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dshills/vetter/internal/providers"
)

const (
	DefaultRetries     = 5
	DefaultConcurrency = 2
)

// Engine reviews every file of a bundle against a checklist.
type Engine struct {
	Reviewer    providers.Reviewer
	Retries     int           // attempts per file; DefaultRetries when <= 0
	Concurrency int           // files in flight; DefaultConcurrency when <= 0
	RetryDelay  time.Duration // pause between attempts for the same file
	Logger      *slog.Logger
}

type attemptKind int

const (
	attemptOK attemptKind = iota
	attemptTransport
	attemptSchema
)

func (k attemptKind) String() string {
	switch k {
	case attemptOK:
		return "ok"
	case attemptTransport:
		return "transport"
	case attemptSchema:
		return "schema"
	}
	return "unknown"
}

// attempt is the outcome of one request to the review endpoint.
type attempt struct {
	kind   attemptKind
	review *FileReview
	err    error
}

// Review returns exactly one Result per bundle file, in bundle order. A file
// whose attempts all fail carries an ExhaustedError message; it never stops
// the other files. When ctx is cancelled, results already produced are kept
// and the remaining files report the cancellation.
func (e *Engine) Review(ctx context.Context, bundle Bundle, checklist string) Results {
	results := make(Results, len(bundle))

	var g errgroup.Group
	g.SetLimit(e.concurrency())

	for i, fd := range bundle {
		results[i] = Result{Path: fd.Path}
		if err := ctx.Err(); err != nil {
			results[i].Err = cancelled(err)
			continue
		}
		g.Go(func() error {
			results[i] = e.reviewFile(ctx, fd, checklist)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (e *Engine) reviewFile(ctx context.Context, fd FileDiff, checklist string) Result {
	log := e.logger().With("path", fd.Path)
	prompt := BuildPrompt(fd.Path, checklist, fd.Body)
	retries := e.retries()

	var last error
	for n := 1; n <= retries; n++ {
		if err := ctx.Err(); err != nil {
			return Result{Path: fd.Path, Err: cancelled(err), Attempts: n - 1}
		}

		a := e.try(ctx, prompt)
		if a.kind == attemptOK {
			log.Debug("review complete", "attempt", n)
			return Result{Path: fd.Path, Review: a.review, Attempts: n}
		}
		if err := ctx.Err(); err != nil {
			return Result{Path: fd.Path, Err: cancelled(err), Attempts: n}
		}

		last = a.err
		attrs := []any{"attempt", n, "max", retries, "kind", a.kind.String(), "error", a.err}
		if IsTransportError(a.err) {
			if code := providers.StatusCode(a.err); code != 0 {
				attrs = append(attrs, "status", code)
			}
		}
		log.Warn("review attempt failed", attrs...)

		if n < retries && !e.pause(ctx) {
			return Result{Path: fd.Path, Err: cancelled(ctx.Err()), Attempts: n}
		}
	}

	exhausted := &ExhaustedError{Attempts: retries, Last: last}
	log.Error("review failed", "error", exhausted, "last", last)
	return Result{Path: fd.Path, Err: exhausted.Error(), Attempts: retries}
}

func (e *Engine) try(ctx context.Context, prompt string) attempt {
	resp, err := e.Reviewer.Review(ctx, providers.ReviewRequest{Prompt: prompt, JSON: true})
	if err != nil {
		return attempt{kind: attemptTransport, err: &TransportError{Err: err}}
	}
	fr, err := ParseReview(resp.Content)
	if err != nil {
		return attempt{kind: attemptSchema, err: err}
	}
	return attempt{kind: attemptOK, review: fr}
}

// pause waits RetryDelay and reports false if ctx ended first.
func (e *Engine) pause(ctx context.Context) bool {
	if e.RetryDelay <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(e.RetryDelay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func (e *Engine) retries() int {
	if e.Retries <= 0 {
		return DefaultRetries
	}
	return e.Retries
}

func (e *Engine) concurrency() int {
	if e.Concurrency <= 0 {
		return DefaultConcurrency
	}
	return e.Concurrency
}

func (e *Engine) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.Default()
	}
	return e.Logger
}

func cancelled(err error) string {
	return fmt.Sprintf("review cancelled: %v", err)
}
