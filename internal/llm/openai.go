package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/seenimoa/genassets/internal/infra"
)

// Default endpoints for the OpenAI-compatible providers.
const (
	OpenAIBaseURL = "https://api.openai.com/v1"
	GroqBaseURL   = "https://api.groq.com/openai/v1"
)

// OpenAIProvider implements Provider for any OpenAI-compatible Chat
// Completions API.
type OpenAIProvider struct {
	name    string
	apiKey  string
	baseURL string
	model   string
	timeout time.Duration
	client  *resty.Client
}

// OpenAIOption configures the OpenAI provider.
type OpenAIOption func(*OpenAIProvider)

// WithOpenAIBaseURL sets a custom base URL (e.g., Groq or a proxy).
func WithOpenAIBaseURL(url string) OpenAIOption {
	return func(p *OpenAIProvider) {
		if url != "" {
			p.baseURL = strings.TrimRight(url, "/")
		}
	}
}

// WithOpenAIModel sets the default model.
func WithOpenAIModel(model string) OpenAIOption {
	return func(p *OpenAIProvider) {
		if model != "" {
			p.model = model
		}
	}
}

// WithOpenAITimeout bounds each request.
func WithOpenAITimeout(d time.Duration) OpenAIOption {
	return func(p *OpenAIProvider) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// WithProviderName overrides the name reported in responses and logs.
func WithProviderName(name string) OpenAIOption {
	return func(p *OpenAIProvider) { p.name = name }
}

// NewOpenAIProvider creates an OpenAI provider.
func NewOpenAIProvider(apiKey string, opts ...OpenAIOption) (*OpenAIProvider, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	p := &OpenAIProvider{
		name:    ProviderOpenAI,
		apiKey:  apiKey,
		baseURL: OpenAIBaseURL,
		model:   "gpt-4o",
		timeout: 60 * time.Second,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.client = infra.NewHTTPClient(p.baseURL, p.timeout).
		SetAuthToken(apiKey).
		SetHeader("Content-Type", "application/json")
	return p, nil
}

// NewGroqProvider creates a provider for Groq's OpenAI-compatible API.
func NewGroqProvider(apiKey string, opts ...OpenAIOption) (*OpenAIProvider, error) {
	base := []OpenAIOption{WithProviderName(ProviderGroq), WithOpenAIBaseURL(GroqBaseURL)}
	return NewOpenAIProvider(apiKey, append(base, opts...)...)
}

func (p *OpenAIProvider) Name() string { return p.name }

// Chat sends a chat completion request.
func (p *OpenAIProvider) Chat(ctx context.Context, messages []Message, opts *ChatOptions) (*Response, error) {
	start := time.Now()
	model := p.resolveModel(opts)

	var (
		result openAIChatResponse
		apiErr openAIErrorResponse
	)
	resp, err := p.client.R().
		SetContext(ctx).
		SetBody(p.buildRequest(messages, model, opts)).
		SetResult(&result).
		SetError(&apiErr).
		Post("/chat/completions")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderDown, err)
	}
	if err := p.checkError(resp, &apiErr); err != nil {
		return nil, err
	}
	if len(result.Choices) == 0 && len(resp.Body()) > 0 {
		// Bodies without a JSON content type are not decoded by resty.
		if err := json.Unmarshal(resp.Body(), &result); err != nil {
			return nil, fmt.Errorf("%s: decode response: %w", p.name, err)
		}
	}
	if len(result.Choices) == 0 || strings.TrimSpace(result.Choices[0].Message.Content) == "" {
		return nil, fmt.Errorf("%s: %w", p.name, ErrEmptyReply)
	}

	return p.parseResponse(&result, model, start), nil
}

// ── Internal Types ──

type openAIChatRequest struct {
	Model          string                `json:"model"`
	Messages       []openAIMessage       `json:"messages"`
	Temperature    *float64              `json:"temperature,omitempty"`
	MaxTokens      *int                  `json:"max_tokens,omitempty"`
	ResponseFormat *openAIResponseFormat `json:"response_format,omitempty"`
}

type openAIResponseFormat struct {
	Type string `json:"type"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIChatResponse struct {
	ID      string         `json:"id"`
	Choices []openAIChoice `json:"choices"`
	Usage   openAIUsage    `json:"usage"`
	Model   string         `json:"model"`
}

type openAIChoice struct {
	Index        int           `json:"index"`
	Message      openAIMessage `json:"message"`
	FinishReason string        `json:"finish_reason"`
}

type openAIUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type openAIErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

// ── Helpers ──

func (p *OpenAIProvider) resolveModel(opts *ChatOptions) string {
	if opts != nil && opts.Model != "" {
		return opts.Model
	}
	return p.model
}

func (p *OpenAIProvider) buildRequest(messages []Message, model string, opts *ChatOptions) openAIChatRequest {
	r := openAIChatRequest{Model: model, Messages: make([]openAIMessage, len(messages))}
	for i, m := range messages {
		r.Messages[i] = openAIMessage{Role: string(m.Role), Content: m.Content}
	}
	if opts != nil {
		if opts.Temperature > 0 {
			r.Temperature = &opts.Temperature
		}
		if opts.MaxTokens > 0 {
			r.MaxTokens = &opts.MaxTokens
		}
		if opts.JSONMode {
			r.ResponseFormat = &openAIResponseFormat{Type: "json_object"}
		}
	}
	return r
}

// checkError maps a non-2xx response to a sentinel error. apiErr holds
// the decoded error body when resty could parse it.
func (p *OpenAIProvider) checkError(resp *resty.Response, apiErr *openAIErrorResponse) error {
	if resp.IsSuccess() {
		return nil
	}
	body := resp.Body()
	if len(body) > 4096 {
		body = body[:4096]
	}
	msg := strings.TrimSpace(string(body))
	if apiErr.Error.Message == "" {
		_ = json.Unmarshal(body, apiErr)
	}
	if apiErr.Error.Message != "" {
		msg = apiErr.Error.Message
	}

	status := resp.StatusCode()
	switch status {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", ErrNoAPIKey, msg)
	case http.StatusTooManyRequests, 529:
		return fmt.Errorf("%w: %s", ErrRateLimit, msg)
	case http.StatusBadRequest, http.StatusNotFound:
		if isModelUnavailable(apiErr.Error.Code, msg) {
			return fmt.Errorf("%w: %s", ErrInvalidModel, msg)
		}
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return fmt.Errorf("%w: HTTP %d: %s", ErrProviderDown, status, msg)
	}
	return fmt.Errorf("%s: API error (%d): %s", p.name, status, msg)
}

// isModelUnavailable reports whether an error names the requested model
// as unknown or retired.
func isModelUnavailable(code, msg string) bool {
	if strings.Contains(code, "model_not_found") || strings.Contains(code, "model_decommissioned") {
		return true
	}
	lower := strings.ToLower(msg)
	if !strings.Contains(lower, "model") {
		return false
	}
	return strings.Contains(lower, "decommissioned") ||
		strings.Contains(lower, "not found") ||
		strings.Contains(lower, "does not exist")
}

func (p *OpenAIProvider) parseResponse(raw *openAIChatResponse, model string, start time.Time) *Response {
	r := &Response{
		Content:  raw.Choices[0].Message.Content,
		Model:    raw.Model,
		Provider: p.name,
		Latency:  time.Since(start),
		Usage: Usage{
			PromptTokens:     raw.Usage.PromptTokens,
			CompletionTokens: raw.Usage.CompletionTokens,
			TotalTokens:      raw.Usage.TotalTokens,
		},
	}
	if r.Model == "" {
		r.Model = model
	}
	return r
}
