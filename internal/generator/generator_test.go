package generator

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/seenimoa/genassets/internal/config"
	"github.com/seenimoa/genassets/internal/llm"
	"github.com/seenimoa/genassets/pkg/models"
)

// ── Keyword tier ──

func TestKeywordThemes(t *testing.T) {
	tests := []struct {
		prompt string
		want   string
		first  string
	}{
		{"Robotics and warehouse automation", "Robotics & Automation Index", "ISRG"},
		{"sustainable energy stocks", "Clean Energy Innovation Index", "TSLA"},
		{"Renewable power", "Clean Energy Innovation Index", "TSLA"},
		{"companies with a CEO under 40", "Young CEO Leaders Index", "SNAP"},
		{"young ceo founders", "Young CEO Leaders Index", "SNAP"},
		{"AI companies leading in healthcare", "AI Revolution Index", "NVDA"},
		{"Artificial Intelligence", "AI Revolution Index", "NVDA"},
		{"medical devices", "Digital Health Innovation Index", "UNH"},
		{"space exploration", "Innovation Leaders Index", "AAPL"},
	}
	for _, tt := range tests {
		t.Run(tt.prompt, func(t *testing.T) {
			got := Match(tt.prompt)
			if got.IndexName != tt.want {
				t.Fatalf("IndexName: got %q, want %q", got.IndexName, tt.want)
			}
			if len(got.Companies) != 8 {
				t.Fatalf("companies: got %d, want 8", len(got.Companies))
			}
			if got.Companies[0].Symbol != tt.first {
				t.Errorf("first symbol: got %q, want %q", got.Companies[0].Symbol, tt.first)
			}
		})
	}
}

func TestKeywordCleanEnergyBundle(t *testing.T) {
	got := Match("sustainable energy stocks")
	syms := make([]string, len(got.Companies))
	for i, c := range got.Companies {
		syms[i] = c.Symbol
	}
	if strings.Join(syms, ",") != "TSLA,NEE,FSLR,ENPH,PLUG,BEP,VWS.CO,ALB" {
		t.Fatalf("unexpected symbols: %v", syms)
	}
}

func TestKeywordGenericDescription(t *testing.T) {
	got := Match("space exploration")
	want := `Companies driving innovation and growth in themes related to "space exploration", representing the future of industry transformation.`
	if got.Description != want {
		t.Fatalf("Description: got %q", got.Description)
	}
}

func TestKeywordGenericDescriptionKeepsPromptVerbatim(t *testing.T) {
	tests := []struct {
		name   string
		prompt string
	}{
		{"double quotes", `the "next big" thing`},
		{"backslash", `back\slash`},
		{"tab", "deep\tsea mining"},
		{"non-ascii", "café über"},
		{"invalid utf-8", "bytes \xff\xfe here"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Match(tt.prompt)
			if got.IndexName != "Innovation Leaders Index" {
				t.Fatalf("IndexName: got %q", got.IndexName)
			}
			want := "Companies driving innovation and growth in themes related to \"" + tt.prompt +
				"\", representing the future of industry transformation."
			if got.Description != want {
				t.Errorf("Description: got %q, want %q", got.Description, want)
			}
		})
	}
}

func TestKeywordReturnsCopies(t *testing.T) {
	a := Match("clean energy")
	a.Companies[0].Symbol = "MUTATED"
	a.IndexName = "changed"

	b := Match("clean energy")
	if b.Companies[0].Symbol != "TSLA" || b.IndexName != "Clean Energy Innovation Index" {
		t.Fatal("keyword table was mutated through a returned value")
	}

	c := Match("something else")
	c.Companies[0].Name = "MUTATED"
	if Match("something else").Companies[0].Name != "Apple Inc." {
		t.Fatal("generic bundle was mutated through a returned value")
	}
}

// ── Reply parsing ──

func TestParseGeneratedIndex(t *testing.T) {
	valid := `{"indexName":"Space Index","description":"Rockets.","companies":[
		{"name":"Rocket Lab","symbol":"rklb","sector":"Industrials","reasoning":"Launch"},
		{"name":"","symbol":"NONAME"}
	]}`

	got, err := ParseGeneratedIndex(valid)
	if err != nil {
		t.Fatal(err)
	}
	if got.IndexName != "Space Index" || len(got.Companies) != 1 {
		t.Fatalf("unexpected: %+v", got)
	}
	if got.Companies[0].Symbol != "RKLB" {
		t.Errorf("symbol should be upper-cased, got %q", got.Companies[0].Symbol)
	}

	fenced := "```json\n" + valid + "\n```"
	if _, err := ParseGeneratedIndex(fenced); err != nil {
		t.Fatalf("fenced reply: %v", err)
	}
}

func TestParseGeneratedIndexRejects(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"invalid json", `not json`},
		{"missing name", `{"description":"d","companies":[{"name":"A"}]}`},
		{"missing description", `{"indexName":"n","companies":[{"name":"A"}]}`},
		{"missing companies", `{"indexName":"n","description":"d"}`},
		{"companies not a list", `{"indexName":"n","description":"d","companies":{"name":"A"}}`},
		{"companies null", `{"indexName":"n","description":"d","companies":null}`},
		{"empty companies", `{"indexName":"n","description":"d","companies":[]}`},
		{"blank name", `{"indexName":"  ","description":"d","companies":[{"name":"A"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseGeneratedIndex(tt.content)
			if !errors.Is(err, ErrMalformedResponse) {
				t.Fatalf("expected ErrMalformedResponse, got %v", err)
			}
		})
	}
}

func TestParseGeneratedIndexTruncates(t *testing.T) {
	var companies []map[string]string
	for i := 0; i < 14; i++ {
		companies = append(companies, map[string]string{"name": "Co " + string(rune('A'+i))})
	}
	data, _ := json.Marshal(map[string]any{"indexName": "n", "description": "d", "companies": companies})

	got, err := ParseGeneratedIndex(string(data))
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Companies) != MaxCompanies {
		t.Fatalf("got %d companies, want %d", len(got.Companies), MaxCompanies)
	}
}

// ── Generator ──

type stubTier struct {
	name string
	out  *models.GeneratedIndex
	err  error
	wait time.Duration
}

func (s *stubTier) Name() string { return s.name }

func (s *stubTier) ResolveCompanies(ctx context.Context, _ string) (*models.GeneratedIndex, error) {
	if s.wait > 0 {
		select {
		case <-time.After(s.wait):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return s.out, s.err
}

func TestGeneratorFallsThroughTiers(t *testing.T) {
	g := New(nil, []Resolver{
		&stubTier{name: "openai", err: llm.ErrProviderDown},
		&stubTier{name: "groq", err: ErrMalformedResponse},
		NewKeyword(),
	})

	got, err := g.Generate(context.Background(), "sustainable energy stocks")
	if err != nil {
		t.Fatal(err)
	}
	if got.IndexName != "Clean Energy Innovation Index" {
		t.Fatalf("unexpected: %s", got.IndexName)
	}
	if strings.Join(g.Tiers(), ",") != "openai,groq,keyword" {
		t.Fatalf("tiers: %v", g.Tiers())
	}
}

func TestGeneratorFirstSuccessWins(t *testing.T) {
	primary := &models.GeneratedIndex{
		IndexName:   "Model Index",
		Description: "d",
		Companies:   []models.CompanyMatch{{Name: "A"}},
	}
	g := New(nil, []Resolver{&stubTier{name: "openai", out: primary}, NewKeyword()})

	got, err := g.Generate(context.Background(), "ai")
	if err != nil || got.IndexName != "Model Index" {
		t.Fatalf("got %+v, %v", got, err)
	}
}

func TestGeneratorTierTimeout(t *testing.T) {
	g := New(nil, []Resolver{
		&stubTier{name: "slow", wait: time.Second},
		NewKeyword(),
	}, WithTierTimeout(20*time.Millisecond))

	start := time.Now()
	got, err := g.Generate(context.Background(), "health")
	if err != nil {
		t.Fatal(err)
	}
	if got.IndexName != "Digital Health Innovation Index" {
		t.Fatalf("unexpected: %s", got.IndexName)
	}
	if time.Since(start) > 500*time.Millisecond {
		t.Fatal("slow tier was not cut off by the tier timeout")
	}
}

func TestGeneratorEmptyResultIsFailure(t *testing.T) {
	g := New(nil, []Resolver{
		&stubTier{name: "empty", out: &models.GeneratedIndex{IndexName: "x"}},
	})
	if _, err := g.Generate(context.Background(), "x"); !errors.Is(err, ErrNoTiers) {
		t.Fatalf("expected ErrNoTiers, got %v", err)
	}
}

// ── LLM tier over HTTP ──

func TestLLMResolverOverHTTP(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ResponseFormat struct {
				Type string `json:"type"`
			} `json:"response_format"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		if req.ResponseFormat.Type != "json_object" {
			t.Errorf("response_format: got %q", req.ResponseFormat.Type)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" {
			t.Errorf("unexpected messages: %+v", req.Messages)
		}
		reply := `{"indexName":"Quantum Index","description":"Qubits.","companies":[{"name":"IonQ","symbol":"IONQ"}]}`
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"message": map[string]string{"role": "assistant", "content": reply}}},
			"model":   "gpt-4o",
		})
	}))
	defer server.Close()

	p, err := llm.NewOpenAIProvider("sk-test", llm.WithOpenAIBaseURL(server.URL))
	if err != nil {
		t.Fatal(err)
	}
	r := NewLLMResolver(p, 0.7, 1024)

	got, err := r.ResolveCompanies(context.Background(), "quantum computing")
	if err != nil {
		t.Fatal(err)
	}
	if got.IndexName != "Quantum Index" || got.Companies[0].Symbol != "IONQ" {
		t.Fatalf("unexpected: %+v", got)
	}
}

func TestNewFromConfigTiers(t *testing.T) {
	g := NewFromConfig(config.LLMConfig{}, config.GeneratorConfig{}, nil)
	if strings.Join(g.Tiers(), ",") != "keyword" {
		t.Fatalf("no keys: %v", g.Tiers())
	}

	g = NewFromConfig(config.LLMConfig{OpenAIKey: "sk", GroqKey: "gsk"}, config.GeneratorConfig{TierTimeout: time.Second}, nil)
	if strings.Join(g.Tiers(), ",") != "openai,groq,keyword" {
		t.Fatalf("both keys: %v", g.Tiers())
	}
	if g.tierTimeout != time.Second {
		t.Fatalf("tier timeout: %v", g.tierTimeout)
	}
}
