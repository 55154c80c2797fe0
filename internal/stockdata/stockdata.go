// Package stockdata fetches quotes, profiles and symbol searches from
// third-party market data providers (Polygon, Finnhub, Alpha Vantage) and
// falls back to a static price table when none of them answers.
package stockdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/seenimoa/genassets/internal/infra"
	"github.com/seenimoa/genassets/pkg/models"
)

// QuoteSource returns a normalized quote and profile for one symbol.
type QuoteSource interface {
	Name() string
	Quote(ctx context.Context, symbol string) (models.StockQuote, error)
}

// SymbolSearcher looks up instruments matching free text.
type SymbolSearcher interface {
	Name() string
	Search(ctx context.Context, query string) ([]models.SearchResult, error)
}

// LiveQuoteSource returns a real-time quote with intraday range.
type LiveQuoteSource interface {
	Name() string
	LiveQuote(ctx context.Context, symbol string) (models.LiveQuote, error)
}

// --- Sentinel errors ---

// ErrNoData is returned when a provider answered without a usable value.
var ErrNoData = errors.New("stockdata: no data")

// ErrRateLimited is returned when a provider rate-limits the request.
var ErrRateLimited = errors.New("stockdata: rate limited")

// ErrHTTP wraps a non-2xx provider response.
type ErrHTTP struct {
	StatusCode int
	Body       string
}

func (e *ErrHTTP) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

// --- Client options ---

type clientOptions struct {
	baseURL string
	timeout time.Duration
}

// Option configures a provider client.
type Option func(*clientOptions)

// WithBaseURL points a provider client at a different host.
func WithBaseURL(url string) Option {
	return func(o *clientOptions) { o.baseURL = url }
}

// WithTimeout bounds each request made by the client.
func WithTimeout(d time.Duration) Option {
	return func(o *clientOptions) { o.timeout = d }
}

func newClient(defaultBaseURL string, opts []Option) *resty.Client {
	o := clientOptions{baseURL: defaultBaseURL, timeout: infra.DefaultHTTPTimeout}
	for _, opt := range opts {
		opt(&o)
	}
	return infra.NewHTTPClient(o.baseURL, o.timeout)
}

// getJSON performs a GET and decodes the JSON body into out.
func getJSON(ctx context.Context, c *resty.Client, path string, params map[string]string, out any) error {
	resp, err := c.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get(path)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	if resp.StatusCode() == http.StatusTooManyRequests {
		return fmt.Errorf("GET %s: %w", path, ErrRateLimited)
	}
	if resp.IsError() {
		body := resp.String()
		if len(body) > 512 {
			body = body[:512]
		}
		return &ErrHTTP{StatusCode: resp.StatusCode(), Body: body}
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
