package stockdata

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/seenimoa/genassets/pkg/models"
)

// PolygonBaseURL is the default Polygon.io REST endpoint.
const PolygonBaseURL = "https://api.polygon.io"

// Polygon implements QuoteSource, SymbolSearcher and company-name
// resolution against Polygon.io.
type Polygon struct {
	client *resty.Client
	apiKey string
}

// NewPolygon creates a Polygon client.
func NewPolygon(apiKey string, opts ...Option) *Polygon {
	return &Polygon{client: newClient(PolygonBaseURL, opts), apiKey: apiKey}
}

func (p *Polygon) Name() string { return "polygon" }

type polygonTickerDetails struct {
	Results *struct {
		Name           string  `json:"name"`
		SICDescription string  `json:"sic_description"`
		MarketCap      float64 `json:"market_cap"`
	} `json:"results"`
}

type polygonSnapshotTicker struct {
	Value float64 `json:"value"`
	Day   struct {
		Open  float64 `json:"o"`
		Close float64 `json:"c"`
	} `json:"day"`
}

type polygonSnapshot struct {
	Results *polygonSnapshotTicker `json:"results"`
	Ticker  *polygonSnapshotTicker `json:"ticker"`
}

type polygonSearch struct {
	Results []struct {
		Ticker          string `json:"ticker"`
		Name            string `json:"name"`
		Type            string `json:"type"`
		Locale          string `json:"locale"`
		CurrencyName    string `json:"currency_name"`
		PrimaryExchange string `json:"primary_exchange"`
	} `json:"results"`
}

// Quote calls ticker reference then the live snapshot.
func (p *Polygon) Quote(ctx context.Context, symbol string) (models.StockQuote, error) {
	var details polygonTickerDetails
	if err := getJSON(ctx, p.client, "/v3/reference/tickers/"+url.PathEscape(symbol), p.params(nil), &details); err != nil {
		return models.StockQuote{}, fmt.Errorf("polygon: reference %s: %w", symbol, err)
	}

	var snap polygonSnapshot
	path := "/v2/snapshot/locale/us/markets/stocks/tickers/" + url.PathEscape(symbol)
	if err := getJSON(ctx, p.client, path, p.params(nil), &snap); err != nil {
		return models.StockQuote{}, fmt.Errorf("polygon: snapshot %s: %w", symbol, err)
	}

	t := snap.Results
	if t == nil {
		t = snap.Ticker
	}
	if t == nil {
		return models.StockQuote{}, fmt.Errorf("polygon: snapshot %s: %w", symbol, ErrNoData)
	}

	price := t.Value
	if price == 0 {
		price = t.Day.Close
	}
	if price <= 0 {
		return models.StockQuote{}, fmt.Errorf("polygon: price %s: %w", symbol, ErrNoData)
	}

	q := models.StockQuote{
		Symbol: symbol,
		Name:   symbol,
		Price:  price,
		Source: p.Name(),
	}
	if details.Results != nil {
		if details.Results.Name != "" {
			q.Name = details.Results.Name
		}
		q.Sector = details.Results.SICDescription
		q.MarketCap = details.Results.MarketCap
	}
	if t.Day.Open != 0 {
		q.Change1d = t.Day.Close - t.Day.Open
		q.ChangePercent1d = q.Change1d / t.Day.Open * 100
	}
	return q, nil
}

// Search returns up to 20 active tickers matching query.
func (p *Polygon) Search(ctx context.Context, query string) ([]models.SearchResult, error) {
	raw, err := p.searchTickers(ctx, query, 20)
	if err != nil {
		return nil, err
	}
	out := make([]models.SearchResult, 0, len(raw.Results))
	for _, r := range raw.Results {
		out = append(out, models.SearchResult{
			Symbol:   r.Ticker,
			Name:     r.Name,
			Type:     orDefault(strings.ToLower(r.Type), "unknown"),
			Region:   orDefault(r.Locale, "US"),
			Currency: orDefault(r.CurrencyName, "USD"),
			Exchange: orDefault(r.PrimaryExchange, "Unknown"),
		})
	}
	return out, nil
}

// ResolveSymbol maps a company name to a ticker. A result whose name
// contains the query, or is contained in it, is preferred; otherwise
// the first result is used.
func (p *Polygon) ResolveSymbol(ctx context.Context, companyName string) (string, error) {
	raw, err := p.searchTickers(ctx, companyName, 5)
	if err != nil {
		return "", err
	}
	if len(raw.Results) == 0 {
		return "", fmt.Errorf("polygon: resolve %q: %w", companyName, ErrNoData)
	}

	query := strings.ToLower(companyName)
	for _, r := range raw.Results {
		name := strings.ToLower(r.Name)
		if name == "" {
			continue
		}
		if strings.Contains(name, query) || strings.Contains(query, name) {
			return r.Ticker, nil
		}
	}
	return raw.Results[0].Ticker, nil
}

func (p *Polygon) searchTickers(ctx context.Context, query string, limit int) (*polygonSearch, error) {
	var raw polygonSearch
	params := p.params(map[string]string{
		"search": query,
		"active": "true",
		"limit":  strconv.Itoa(limit),
	})
	if err := getJSON(ctx, p.client, "/v3/reference/tickers", params, &raw); err != nil {
		return nil, fmt.Errorf("polygon: search %q: %w", query, err)
	}
	return &raw, nil
}

func (p *Polygon) params(extra map[string]string) map[string]string {
	out := map[string]string{"apiKey": p.apiKey}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
