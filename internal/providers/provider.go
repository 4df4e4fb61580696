package providers

import (
	"context"
	"fmt"
	"time"
)

// ReviewRequest contains the data sent to the review endpoint.
type ReviewRequest struct {
	Prompt string
	// JSON asks the endpoint to constrain its output to JSON when it
	// supports that.
	JSON bool
}

// ReviewResponse contains the raw text returned by the review endpoint.
type ReviewResponse struct {
	Content    string
	TokensUsed int
}

// Reviewer is the review endpoint abstraction.
type Reviewer interface {
	Review(ctx context.Context, req ReviewRequest) (ReviewResponse, error)
	Name() string
}

// Options configures a provider client.
type Options struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// New creates a provider by name.
func New(provider, model string, opts Options) (Reviewer, error) {
	if model == "" {
		return nil, fmt.Errorf("no model configured for provider %s", provider)
	}
	switch provider {
	case "generate", "ollama":
		return NewGenerate(model, opts)
	case "openai":
		return NewOpenAI(model, opts)
	default:
		return nil, fmt.Errorf("unknown provider: %s", provider)
	}
}
