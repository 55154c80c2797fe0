package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// ════════════════════════════════════════════════════════════════════
// provider.go: Types & Helpers
// ════════════════════════════════════════════════════════════════════

func TestMessageConstructors(t *testing.T) {
	sys := SystemMessage("You are a financial analyst.")
	if sys.Role != RoleSystem || sys.Content != "You are a financial analyst." {
		t.Fatalf("SystemMessage: got %+v", sys)
	}

	user := UserMessage("clean energy")
	if user.Role != RoleUser || user.Content != "clean energy" {
		t.Fatalf("UserMessage: got %+v", user)
	}
}

func TestResponseString(t *testing.T) {
	r := &Response{
		Provider: "groq", Model: "llama-3.3-70b-versatile",
		Content: strings.Repeat("x", 150),
		Usage:   Usage{TotalTokens: 42},
		Latency: 1500 * time.Millisecond,
	}
	s := r.String()
	if !strings.Contains(s, "groq/llama-3.3-70b-versatile") || !strings.Contains(s, "42 tokens") {
		t.Fatalf("unexpected summary: %s", s)
	}
	if !strings.Contains(s, "...") {
		t.Fatal("long content should be truncated")
	}
}

// ════════════════════════════════════════════════════════════════════
// openai.go: OpenAI-compatible provider with mock server
// ════════════════════════════════════════════════════════════════════

func TestOpenAIProviderNew(t *testing.T) {
	_, err := NewOpenAIProvider("")
	if err != ErrNoAPIKey {
		t.Fatalf("expected ErrNoAPIKey, got: %v", err)
	}

	p, err := NewOpenAIProvider("sk-test", WithOpenAIModel("gpt-4o-mini"), WithOpenAIBaseURL("http://custom/"))
	if err != nil {
		t.Fatal(err)
	}
	if p.Name() != "openai" || p.model != "gpt-4o-mini" || p.baseURL != "http://custom" {
		t.Fatalf("unexpected config: %+v", p)
	}

	g, err := NewGroqProvider("gsk-test")
	if err != nil {
		t.Fatal(err)
	}
	if g.Name() != "groq" || g.baseURL != GroqBaseURL {
		t.Fatalf("unexpected groq config: %+v", g)
	}
}

func newMockServer(handler http.HandlerFunc) *httptest.Server {
	return httptest.NewServer(handler)
}

func TestOpenAIChat(t *testing.T) {
	server := newMockServer(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer sk-test" {
			t.Fatal("missing auth header")
		}

		var req openAIChatRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Model != "gpt-4o" {
			t.Fatalf("unexpected model: %s", req.Model)
		}
		if len(req.Messages) != 2 {
			t.Fatalf("expected 2 messages, got %d", len(req.Messages))
		}
		if req.ResponseFormat == nil || req.ResponseFormat.Type != "json_object" {
			t.Fatal("expected json_object response format")
		}
		if req.Temperature == nil || *req.Temperature != 0.7 {
			t.Fatal("expected temperature 0.7")
		}

		resp := openAIChatResponse{
			ID: "chatcmpl-123",
			Choices: []openAIChoice{{
				Message:      openAIMessage{Role: "assistant", Content: `{"indexName":"X"}`},
				FinishReason: "stop",
			}},
			Usage: openAIUsage{PromptTokens: 20, CompletionTokens: 10, TotalTokens: 30},
			Model: "gpt-4o",
		}
		json.NewEncoder(w).Encode(resp)
	})
	defer server.Close()

	p, _ := NewOpenAIProvider("sk-test", WithOpenAIBaseURL(server.URL))
	resp, err := p.Chat(context.Background(),
		[]Message{SystemMessage("Return JSON."), UserMessage("AI stocks")},
		&ChatOptions{Temperature: 0.7, JSONMode: true})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Content != `{"indexName":"X"}` {
		t.Fatalf("unexpected content: %s", resp.Content)
	}
	if resp.Provider != "openai" || resp.Usage.TotalTokens != 30 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestOpenAIChatEmptyReply(t *testing.T) {
	server := newMockServer(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	})
	defer server.Close()

	p, _ := NewOpenAIProvider("sk-test", WithOpenAIBaseURL(server.URL))
	_, err := p.Chat(context.Background(), []Message{UserMessage("test")}, nil)
	if !errors.Is(err, ErrEmptyReply) {
		t.Fatalf("expected ErrEmptyReply, got %v", err)
	}
}

func TestOpenAIErrorHandling(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		body       string
		want       error
	}{
		{
			name:       "unauthorized",
			statusCode: 401,
			body:       `{"error":{"message":"Invalid key","type":"auth","code":"invalid_api_key"}}`,
			want:       ErrNoAPIKey,
		},
		{
			name:       "rate_limit",
			statusCode: 429,
			body:       `{"error":{"message":"Rate limit exceeded","type":"rate_limit"}}`,
			want:       ErrRateLimit,
		},
		{
			name:       "model_not_found",
			statusCode: 404,
			body:       `{"error":{"message":"The model foo does not exist","code":"model_not_found"}}`,
			want:       ErrInvalidModel,
		},
		{
			name:       "decommissioned",
			statusCode: 400,
			body:       `{"error":{"message":"The model mixtral-8x7b-32768 has been decommissioned","type":"invalid_request_error"}}`,
			want:       ErrInvalidModel,
		},
		{
			name:       "unavailable",
			statusCode: 503,
			body:       `overloaded`,
			want:       ErrProviderDown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newMockServer(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
				w.Write([]byte(tt.body))
			})
			defer server.Close()

			p, _ := NewOpenAIProvider("sk-test", WithOpenAIBaseURL(server.URL))
			_, err := p.Chat(context.Background(), []Message{UserMessage("test")}, nil)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got: %v", tt.want, err)
			}
		})
	}
}

func TestOpenAIBadRequestIsPlainError(t *testing.T) {
	server := newMockServer(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(400)
		w.Write([]byte(`{"error":{"message":"messages must not be empty"}}`))
	})
	defer server.Close()

	p, _ := NewOpenAIProvider("sk-test", WithOpenAIBaseURL(server.URL))
	_, err := p.Chat(context.Background(), nil, nil)
	if err == nil || errors.Is(err, ErrInvalidModel) {
		t.Fatalf("expected plain API error, got %v", err)
	}
	if !strings.Contains(err.Error(), "messages must not be empty") {
		t.Fatalf("error should carry the API message: %v", err)
	}
}

func TestOpenAIChatJSONContentType(t *testing.T) {
	server := newMockServer(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
			t.Errorf("request content type: got %q", ct)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"model":"llama","choices":[{"message":{"role":"assistant","content":"{\"companies\":[]}"}}],"usage":{"total_tokens":7}}`))
	})
	defer server.Close()

	p, _ := NewGroqProvider("gsk-test", WithOpenAIBaseURL(server.URL))
	resp, err := p.Chat(context.Background(), []Message{UserMessage("test")}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if resp.Content != `{"companies":[]}` || resp.Provider != "groq" || resp.Usage.TotalTokens != 7 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestOpenAIErrorJSONContentType(t *testing.T) {
	server := newMockServer(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"tokens per minute exceeded","type":"tokens"}}`))
	})
	defer server.Close()

	p, _ := NewOpenAIProvider("sk-test", WithOpenAIBaseURL(server.URL))
	_, err := p.Chat(context.Background(), []Message{UserMessage("test")}, nil)
	if !errors.Is(err, ErrRateLimit) {
		t.Fatalf("expected ErrRateLimit, got %v", err)
	}
	if !strings.Contains(err.Error(), "tokens per minute exceeded") {
		t.Fatalf("error should carry the API message: %v", err)
	}
}

func TestOpenAITimeoutIsProviderDown(t *testing.T) {
	release := make(chan struct{})
	server := newMockServer(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer server.Close()
	defer close(release)

	p, _ := NewOpenAIProvider("sk-test", WithOpenAIBaseURL(server.URL), WithOpenAITimeout(50*time.Millisecond))
	_, err := p.Chat(context.Background(), []Message{UserMessage("test")}, nil)
	if !errors.Is(err, ErrProviderDown) {
		t.Fatalf("expected ErrProviderDown, got %v", err)
	}
}

// ════════════════════════════════════════════════════════════════════
// chain.go: ModelChain
// ════════════════════════════════════════════════════════════════════

// mockProvider implements Provider for chain tests.
type mockProvider struct {
	name     string
	chatFunc func(ctx context.Context, messages []Message, opts *ChatOptions) (*Response, error)
	models   []string
}

func (m *mockProvider) Name() string { return m.name }

func (m *mockProvider) Chat(ctx context.Context, messages []Message, opts *ChatOptions) (*Response, error) {
	m.models = append(m.models, opts.Model)
	if m.chatFunc != nil {
		return m.chatFunc(ctx, messages, opts)
	}
	return &Response{Content: "ok", Provider: m.name, Model: opts.Model}, nil
}

func TestModelChainAdvancesOnUnavailableModel(t *testing.T) {
	p := &mockProvider{
		name: "groq",
		chatFunc: func(ctx context.Context, messages []Message, opts *ChatOptions) (*Response, error) {
			switch opts.Model {
			case "a":
				return nil, fmt.Errorf("%w: decommissioned", ErrInvalidModel)
			case "b":
				return nil, fmt.Errorf("%w: slow down", ErrRateLimit)
			}
			return &Response{Content: "from " + opts.Model, Model: opts.Model}, nil
		},
	}
	c := NewModelChain(p, []string{"a", "b", "c", "d"}, nil)

	resp, err := c.Chat(context.Background(), []Message{UserMessage("x")}, &ChatOptions{JSONMode: true})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Content != "from c" {
		t.Fatalf("unexpected: %s", resp.Content)
	}
	if strings.Join(p.models, ",") != "a,b,c" {
		t.Fatalf("models tried: %v", p.models)
	}
}

func TestModelChainStopsOnOtherErrors(t *testing.T) {
	p := &mockProvider{
		name: "groq",
		chatFunc: func(ctx context.Context, messages []Message, opts *ChatOptions) (*Response, error) {
			return nil, fmt.Errorf("%w: bad key", ErrNoAPIKey)
		},
	}
	c := NewModelChain(p, []string{"a", "b"}, nil)

	_, err := c.Chat(context.Background(), nil, nil)
	if !errors.Is(err, ErrNoAPIKey) {
		t.Fatalf("expected ErrNoAPIKey, got %v", err)
	}
	if len(p.models) != 1 {
		t.Fatalf("expected a single attempt, got %v", p.models)
	}
}

func TestModelChainAllFail(t *testing.T) {
	p := &mockProvider{
		name: "groq",
		chatFunc: func(ctx context.Context, messages []Message, opts *ChatOptions) (*Response, error) {
			return nil, ErrRateLimit
		},
	}
	c := NewModelChain(p, []string{"a", "b"}, nil)

	_, err := c.Chat(context.Background(), nil, nil)
	if !errors.Is(err, ErrRateLimit) || !strings.Contains(err.Error(), "all models failed") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestModelChainNoModels(t *testing.T) {
	c := NewModelChain(&mockProvider{name: "groq"}, nil, nil)
	if _, err := c.Chat(context.Background(), nil, nil); !errors.Is(err, ErrNoModels) {
		t.Fatalf("expected ErrNoModels, got %v", err)
	}
}

func TestModelChainOverHTTP(t *testing.T) {
	server := newMockServer(func(w http.ResponseWriter, r *http.Request) {
		var req openAIChatRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Model == "llama-3.3-70b-versatile" {
			w.WriteHeader(400)
			w.Write([]byte(`{"error":{"message":"The model llama-3.3-70b-versatile has been decommissioned","code":"model_decommissioned"}}`))
			return
		}
		json.NewEncoder(w).Encode(openAIChatResponse{
			Choices: []openAIChoice{{Message: openAIMessage{Content: "ok"}}},
			Model:   req.Model,
		})
	})
	defer server.Close()

	g, _ := NewGroqProvider("gsk-test", WithOpenAIBaseURL(server.URL))
	c := NewModelChain(g, []string{"llama-3.3-70b-versatile", "llama-3.1-8b-instant"}, nil)

	resp, err := c.Chat(context.Background(), []Message{UserMessage("x")}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if resp.Model != "llama-3.1-8b-instant" || resp.Provider != "groq" {
		t.Fatalf("unexpected: %+v", resp)
	}
}

func TestModelChainModelsIsACopy(t *testing.T) {
	c := NewModelChain(&mockProvider{name: "groq"}, []string{"a", "b"}, nil)
	got := c.Models()
	got[0] = "z"
	if strings.Join(c.Models(), ",") != "a,b" {
		t.Fatalf("chain order mutated: %v", c.Models())
	}
}
