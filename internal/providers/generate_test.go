package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestGenerate_Review(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Verify no Authorization header when no API key is set
		if r.Header.Get("Authorization") != "" {
			t.Error("Expected no Authorization header for keyless endpoint")
		}

		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		if req.Model != "llama3" || req.Prompt != "review this" || req.Stream {
			t.Errorf("request = %+v", req)
		}
		if req.Format != "json" {
			t.Errorf("Format = %q, want json", req.Format)
		}

		json.NewEncoder(w).Encode(generateResponse{
			Response:        `{"general_assessment":"ok"}`,
			Done:            true,
			PromptEvalCount: 70,
			EvalCount:       30,
		})
	}))
	defer server.Close()

	g := &Generate{model: "llama3", baseURL: server.URL, client: server.Client()}

	resp, err := g.Review(context.Background(), ReviewRequest{Prompt: "review this", JSON: true})
	if err != nil {
		t.Fatalf("Review error: %v", err)
	}
	if resp.Content != `{"general_assessment":"ok"}` {
		t.Errorf("Content = %q", resp.Content)
	}
	if resp.TokensUsed != 100 {
		t.Errorf("TokensUsed = %d, want 100", resp.TokensUsed)
	}
}

func TestGenerate_ReviewWithAPIKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Error("Missing or wrong Authorization header")
		}
		json.NewEncoder(w).Encode(generateResponse{Response: "{}"})
	}))
	defer server.Close()

	g := &Generate{apiKey: "test-key", model: "llama3", baseURL: server.URL, client: server.Client()}

	if _, err := g.Review(context.Background(), ReviewRequest{Prompt: "test"}); err != nil {
		t.Fatalf("Review error: %v", err)
	}
}

func TestGenerate_ServerErrorNotRetried(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(500)
		w.Write([]byte(`{"error":"internal server error"}`))
	}))
	defer server.Close()

	g := &Generate{model: "llama3", baseURL: server.URL, client: server.Client()}

	_, err := g.Review(context.Background(), ReviewRequest{Prompt: "test"})
	if err == nil {
		t.Fatal("Expected error for server error response")
	}
	if attempts != 1 {
		t.Errorf("Expected 1 attempt, got %d", attempts)
	}
	if StatusCode(err) != 500 {
		t.Errorf("StatusCode = %d, want 500", StatusCode(err))
	}
}

func TestGenerate_EmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(generateResponse{Done: true})
	}))
	defer server.Close()

	g := &Generate{model: "llama3", baseURL: server.URL, client: server.Client()}

	if _, err := g.Review(context.Background(), ReviewRequest{Prompt: "test"}); err == nil {
		t.Fatal("Expected error for empty response")
	}
}

func TestGenerate_AuthError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(403)
		w.Write([]byte(`forbidden`))
	}))
	defer server.Close()

	g := &Generate{model: "llama3", baseURL: server.URL, client: server.Client()}

	_, err := g.Review(context.Background(), ReviewRequest{Prompt: "test"})
	if !IsAuthError(err) {
		t.Errorf("Expected auth error, got: %v", err)
	}
	if StatusCode(err) != 403 {
		t.Errorf("StatusCode = %d, want 403", StatusCode(err))
	}
}

func TestNewGenerate_URLNormalization(t *testing.T) {
	tests := []struct {
		name    string
		host    string
		wantURL string
	}{
		{"default", "", "http://localhost:11434/api/generate"},
		{"trailing slash", "http://localhost:11434/", "http://localhost:11434/api/generate"},
		{"with api", "http://localhost:11434/api", "http://localhost:11434/api/generate"},
		{"with full path", "http://localhost:11434/api/generate", "http://localhost:11434/api/generate"},
		{"custom host", "http://192.168.1.100:11434", "http://192.168.1.100:11434/api/generate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := NewGenerate("llama3", Options{BaseURL: tt.host})
			if err != nil {
				t.Fatalf("NewGenerate error: %v", err)
			}
			if g.baseURL != tt.wantURL {
				t.Errorf("baseURL = %q, want %q", g.baseURL, tt.wantURL)
			}
		})
	}
}

func TestNewGenerate_Timeout(t *testing.T) {
	g, _ := NewGenerate("llama3", Options{})
	if g.client.Timeout != 300*time.Second {
		t.Errorf("default timeout = %v, want 300s", g.client.Timeout)
	}
	g, _ = NewGenerate("llama3", Options{Timeout: 5 * time.Second})
	if g.client.Timeout != 5*time.Second {
		t.Errorf("timeout = %v, want 5s", g.client.Timeout)
	}
}

func TestNew(t *testing.T) {
	for _, name := range []string{"generate", "ollama"} {
		r, err := New(name, "llama3", Options{})
		if err != nil {
			t.Fatalf("New(%q) error: %v", name, err)
		}
		if r.Name() != "generate" {
			t.Errorf("New(%q).Name() = %q, want %q", name, r.Name(), "generate")
		}
	}

	if _, err := New("unknown", "model", Options{}); err == nil {
		t.Error("Expected error for unknown provider")
	}
	if _, err := New("generate", "", Options{}); err == nil {
		t.Error("Expected error for empty model")
	}
}
