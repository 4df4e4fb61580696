package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultGenerateURL = "http://localhost:11434"

// Generate implements the Reviewer interface for text-generation endpoints
// speaking the {model, prompt, stream} -> {response} protocol (Ollama's
// /api/generate and compatible servers).
type Generate struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// NewGenerate creates a generate-endpoint provider. No API key is required.
func NewGenerate(model string, opts Options) (*Generate, error) {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = defaultGenerateURL
	}

	// Normalize URL: strip trailing / and /api/generate
	baseURL = strings.TrimRight(baseURL, "/")
	baseURL = strings.TrimSuffix(baseURL, "/api/generate")
	baseURL = strings.TrimSuffix(baseURL, "/api")

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 300 * time.Second
	}

	return &Generate{
		apiKey:  opts.APIKey,
		model:   model,
		baseURL: baseURL + "/api/generate",
		client:  &http.Client{Timeout: timeout},
	}, nil
}

func (g *Generate) Name() string { return "generate" }

func (g *Generate) Review(ctx context.Context, req ReviewRequest) (ReviewResponse, error) {
	body := generateRequest{
		Model:  g.model,
		Prompt: req.Prompt,
		Stream: false,
	}
	if req.JSON {
		body.Format = "json"
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return ReviewResponse{}, fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", g.baseURL, bytes.NewReader(payload))
	if err != nil {
		return ReviewResponse{}, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if g.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+g.apiKey)
	}

	httpResp, err := g.client.Do(httpReq)
	if err != nil {
		return ReviewResponse{}, fmt.Errorf("sending request: %w", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return ReviewResponse{}, fmt.Errorf("reading response: %w", err)
	}

	if err := checkStatus(httpResp.StatusCode, respBody); err != nil {
		return ReviewResponse{}, err
	}

	var result generateResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return ReviewResponse{}, fmt.Errorf("parsing response: %w", err)
	}
	if result.Response == "" {
		return ReviewResponse{}, fmt.Errorf("empty text content in API response")
	}

	return ReviewResponse{
		Content:    result.Response,
		TokensUsed: result.PromptEvalCount + result.EvalCount,
	}, nil
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
	Format string `json:"format,omitempty"`
}

type generateResponse struct {
	Response        string `json:"response"`
	Done            bool   `json:"done"`
	PromptEvalCount int    `json:"prompt_eval_count"`
	EvalCount       int    `json:"eval_count"`
}
