package stockdata

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/seenimoa/genassets/pkg/models"
)

// FinnhubBaseURL is the default Finnhub REST endpoint.
const FinnhubBaseURL = "https://finnhub.io/api/v1"

// Finnhub implements QuoteSource, LiveQuoteSource and SymbolSearcher.
type Finnhub struct {
	client *resty.Client
	apiKey string
}

// NewFinnhub creates a Finnhub client.
func NewFinnhub(apiKey string, opts ...Option) *Finnhub {
	return &Finnhub{client: newClient(FinnhubBaseURL, opts), apiKey: apiKey}
}

func (f *Finnhub) Name() string { return "finnhub" }

type finnhubQuote struct {
	Current       float64 `json:"c"`
	Change        float64 `json:"d"`
	ChangePercent float64 `json:"dp"`
	High          float64 `json:"h"`
	Low           float64 `json:"l"`
	Open          float64 `json:"o"`
	PreviousClose float64 `json:"pc"`
}

type finnhubProfile struct {
	Name                 string  `json:"name"`
	FinnhubIndustry      string  `json:"finnhubIndustry"`
	MarketCapitalization float64 `json:"marketCapitalization"`
}

type finnhubSearch struct {
	Result []struct {
		Symbol      string `json:"symbol"`
		Description string `json:"description"`
		Type        string `json:"type"`
		Currency    string `json:"currency"`
		Exchange    string `json:"exchange"`
		Country     string `json:"country"`
	} `json:"result"`
}

func (f *Finnhub) quote(ctx context.Context, symbol string) (finnhubQuote, error) {
	var q finnhubQuote
	params := map[string]string{"symbol": symbol, "token": f.apiKey}
	if err := getJSON(ctx, f.client, "/quote", params, &q); err != nil {
		return q, fmt.Errorf("finnhub: quote %s: %w", symbol, err)
	}
	return q, nil
}

// Quote fetches the quote and, best-effort, the company profile.
func (f *Finnhub) Quote(ctx context.Context, symbol string) (models.StockQuote, error) {
	raw, err := f.quote(ctx, symbol)
	if err != nil {
		return models.StockQuote{}, err
	}
	if raw.Current <= 0 {
		return models.StockQuote{}, fmt.Errorf("finnhub: price %s: %w", symbol, ErrNoData)
	}

	q := models.StockQuote{
		Symbol:          symbol,
		Name:            symbol,
		Price:           raw.Current,
		Change1d:        raw.Change,
		ChangePercent1d: raw.ChangePercent,
		Source:          f.Name(),
	}

	var profile finnhubProfile
	params := map[string]string{"symbol": symbol, "token": f.apiKey}
	if err := getJSON(ctx, f.client, "/stock/profile2", params, &profile); err == nil {
		if profile.Name != "" {
			q.Name = profile.Name
		}
		q.Sector = profile.FinnhubIndustry
		q.MarketCap = profile.MarketCapitalization
	}
	return q, nil
}

// LiveQuote returns the raw quote fields.
func (f *Finnhub) LiveQuote(ctx context.Context, symbol string) (models.LiveQuote, error) {
	raw, err := f.quote(ctx, symbol)
	if err != nil {
		return models.LiveQuote{}, err
	}
	return models.LiveQuote{
		Success:       true,
		Symbol:        symbol,
		CurrentPrice:  raw.Current,
		Change:        raw.Change,
		ChangePercent: raw.ChangePercent,
		High:          raw.High,
		Low:           raw.Low,
		Open:          raw.Open,
		PreviousClose: raw.PreviousClose,
	}, nil
}

// Search returns at most 20 matches for query.
func (f *Finnhub) Search(ctx context.Context, query string) ([]models.SearchResult, error) {
	var raw finnhubSearch
	params := map[string]string{"q": query, "token": f.apiKey}
	if err := getJSON(ctx, f.client, "/search", params, &raw); err != nil {
		return nil, fmt.Errorf("finnhub: search %q: %w", query, err)
	}

	results := raw.Result
	if len(results) > 20 {
		results = results[:20]
	}
	out := make([]models.SearchResult, 0, len(results))
	for _, r := range results {
		out = append(out, models.SearchResult{
			Symbol:   r.Symbol,
			Name:     orDefault(r.Description, r.Symbol),
			Type:     orDefault(strings.ToLower(r.Type), "unknown"),
			Region:   orDefault(r.Country, "US"),
			Currency: orDefault(r.Currency, "USD"),
			Exchange: orDefault(r.Exchange, "Unknown"),
		})
	}
	return out, nil
}
