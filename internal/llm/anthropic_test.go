package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ppiankov/moneta/internal/model"
)

func TestAnthropicComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "test-key" {
			t.Error("missing api key header")
		}
		if r.Header.Get("anthropic-version") == "" {
			t.Error("missing anthropic-version header")
		}

		var req anthropicRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.System != "system text" {
			t.Errorf("system = %q", req.System)
		}

		resp := anthropicResponse{Model: req.Model}
		resp.Content = append(resp.Content, struct {
			Type string `json:"type"`
			Text string `json:"text"`
		}{Type: "text", Text: "PPF rate is 7.1%."})
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	p, err := NewAnthropicProvider(model.LLMConfig{
		Provider: "anthropic",
		APIKey:   "test-key",
		BaseURL:  srv.URL,
	})
	if err != nil {
		t.Fatalf("NewAnthropicProvider: %v", err)
	}

	out, err := p.Complete(context.Background(), "system text", "user prompt")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if out != "PPF rate is 7.1%." {
		t.Errorf("reply = %q", out)
	}
}

func TestAnthropicRequiresKey(t *testing.T) {
	if _, err := NewAnthropicProvider(model.LLMConfig{Provider: "anthropic"}); err == nil {
		t.Error("missing API key must error")
	}
}

func TestAnthropicAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		var apiErr anthropicError
		apiErr.Error.Type = "authentication_error"
		apiErr.Error.Message = "invalid key"
		json.NewEncoder(w).Encode(apiErr)
	}))
	defer srv.Close()

	p, _ := NewAnthropicProvider(model.LLMConfig{Provider: "anthropic", APIKey: "bad", BaseURL: srv.URL})
	if _, err := p.Complete(context.Background(), "s", "p"); err == nil {
		t.Error("HTTP 401 must surface as an error")
	}
}
