package stockdata

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/seenimoa/genassets/pkg/models"
)

// AlphaVantageBaseURL is the default Alpha Vantage endpoint.
const AlphaVantageBaseURL = "https://www.alphavantage.co"

// AlphaVantage implements SymbolSearcher and LiveQuoteSource.
type AlphaVantage struct {
	client *resty.Client
	apiKey string
}

// NewAlphaVantage creates an Alpha Vantage client.
func NewAlphaVantage(apiKey string, opts ...Option) *AlphaVantage {
	return &AlphaVantage{client: newClient(AlphaVantageBaseURL, opts), apiKey: apiKey}
}

func (a *AlphaVantage) Name() string { return "alphavantage" }

type avSearch struct {
	BestMatches []map[string]string `json:"bestMatches"`
}

type avGlobalQuote struct {
	Quote map[string]string `json:"Global Quote"`
}

// Search calls SYMBOL_SEARCH.
func (a *AlphaVantage) Search(ctx context.Context, query string) ([]models.SearchResult, error) {
	var raw avSearch
	params := map[string]string{
		"function": "SYMBOL_SEARCH",
		"keywords": query,
		"apikey":   a.apiKey,
	}
	if err := getJSON(ctx, a.client, "/query", params, &raw); err != nil {
		return nil, fmt.Errorf("alphavantage: search %q: %w", query, err)
	}

	out := make([]models.SearchResult, 0, len(raw.BestMatches))
	for _, m := range raw.BestMatches {
		out = append(out, models.SearchResult{
			Symbol:   m["1. symbol"],
			Name:     m["2. name"],
			Type:     orDefault(strings.ToLower(m["3. type"]), "unknown"),
			Region:   m["4. region"],
			Currency: orDefault(m["8. currency"], "USD"),
			Exchange: orDefault(m["4. region"], "Unknown"),
		})
	}
	return out, nil
}

// LiveQuote calls GLOBAL_QUOTE.
func (a *AlphaVantage) LiveQuote(ctx context.Context, symbol string) (models.LiveQuote, error) {
	var raw avGlobalQuote
	params := map[string]string{
		"function": "GLOBAL_QUOTE",
		"symbol":   symbol,
		"apikey":   a.apiKey,
	}
	if err := getJSON(ctx, a.client, "/query", params, &raw); err != nil {
		return models.LiveQuote{}, fmt.Errorf("alphavantage: quote %s: %w", symbol, err)
	}
	q := raw.Quote
	if len(q) == 0 || q["05. price"] == "" {
		return models.LiveQuote{}, fmt.Errorf("alphavantage: quote %s: %w", symbol, ErrNoData)
	}

	return models.LiveQuote{
		Success:       true,
		Symbol:        symbol,
		CurrentPrice:  parseFloat(q["05. price"]),
		Change:        parseFloat(q["09. change"]),
		ChangePercent: parseFloat(strings.TrimSuffix(q["10. change percent"], "%")),
		High:          parseFloat(q["03. high"]),
		Low:           parseFloat(q["04. low"]),
		Open:          parseFloat(q["02. open"]),
		PreviousClose: parseFloat(q["08. previous close"]),
	}, nil
}

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f
}
