package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/seenimoa/genassets/internal/llm"
	"github.com/seenimoa/genassets/pkg/models"
)

// MaxCompanies caps the number of companies kept from a model reply.
const MaxCompanies = 10

var validate = validator.New(validator.WithRequiredStructEnabled())

// LLMResolver asks a chat model for a company list in JSON mode.
type LLMResolver struct {
	name     string
	provider llm.Provider
	opts     llm.ChatOptions
}

// NewLLMResolver wraps provider as a generator tier.
func NewLLMResolver(provider llm.Provider, temperature float64, maxTokens int) *LLMResolver {
	return &LLMResolver{
		name:     provider.Name(),
		provider: provider,
		opts: llm.ChatOptions{
			Temperature: temperature,
			MaxTokens:   maxTokens,
			JSONMode:    true,
		},
	}
}

func (r *LLMResolver) Name() string { return r.name }

// ResolveCompanies asks the model and parses its reply strictly.
func (r *LLMResolver) ResolveCompanies(ctx context.Context, prompt string) (*models.GeneratedIndex, error) {
	opts := r.opts
	resp, err := r.provider.Chat(ctx, []llm.Message{
		llm.SystemMessage(SystemPrompt),
		llm.UserMessage(UserPrompt(prompt)),
	}, &opts)
	if err != nil {
		return nil, err
	}
	out, err := ParseGeneratedIndex(resp.Content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", r.name, err)
	}
	return out, nil
}

type replyCompany struct {
	Name      string `json:"name" validate:"required"`
	Symbol    string `json:"symbol"`
	Sector    string `json:"sector"`
	Reasoning string `json:"reasoning"`
}

type reply struct {
	IndexName   string          `json:"indexName" validate:"required"`
	Description string          `json:"description" validate:"required"`
	Companies   json.RawMessage `json:"companies" validate:"required"`
}

// ParseGeneratedIndex decodes a model reply. Code fences are stripped;
// indexName and description must be present and companies must be a
// non-empty array. Entries without a name are dropped and the list is
// cut to MaxCompanies.
func ParseGeneratedIndex(content string) (*models.GeneratedIndex, error) {
	var r reply
	if err := json.Unmarshal([]byte(stripFences(content)), &r); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	r.IndexName = strings.TrimSpace(r.IndexName)
	r.Description = strings.TrimSpace(r.Description)
	if err := validate.Struct(r); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	raw := strings.TrimSpace(string(r.Companies))
	if !strings.HasPrefix(raw, "[") {
		return nil, fmt.Errorf("%w: companies is not a list", ErrMalformedResponse)
	}
	var companies []replyCompany
	if err := json.Unmarshal([]byte(raw), &companies); err != nil {
		return nil, fmt.Errorf("%w: companies: %v", ErrMalformedResponse, err)
	}

	out := &models.GeneratedIndex{IndexName: r.IndexName, Description: r.Description}
	for _, c := range companies {
		c.Name = strings.TrimSpace(c.Name)
		if validate.Struct(c) != nil {
			continue
		}
		out.Companies = append(out.Companies, models.CompanyMatch{
			Name:      c.Name,
			Symbol:    strings.ToUpper(strings.TrimSpace(c.Symbol)),
			Sector:    strings.TrimSpace(c.Sector),
			Reasoning: strings.TrimSpace(c.Reasoning),
		})
		if len(out.Companies) == MaxCompanies {
			break
		}
	}
	if len(out.Companies) == 0 {
		return nil, fmt.Errorf("%w: no companies", ErrMalformedResponse)
	}
	return out, nil
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:] // drop the language tag line
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
