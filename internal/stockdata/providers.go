package stockdata

import (
	"go.uber.org/zap"

	"github.com/seenimoa/genassets/internal/config"
)

// Market bundles every market data capability built from configuration.
type Market struct {
	Adapter  *Adapter
	Resolver *Resolver
	Search   *Search
	Live     *LiveQuotes
}

// NewMarket registers only the providers whose key is configured.
// Provider order: quotes Polygon → Finnhub, search Alpha Vantage →
// Finnhub → Polygon, live quotes Finnhub → Alpha Vantage.
func NewMarket(cfg config.StockDataConfig, logger *zap.Logger) *Market {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts := []Option{WithTimeout(cfg.Timeout)}

	var (
		quotes   []QuoteSource
		search   []SymbolSearcher
		live     []LiveQuoteSource
		lookup   SymbolLookup
		polygon  *Polygon
		finnhub  *Finnhub
		alphaVtg *AlphaVantage
	)
	if cfg.PolygonKey != "" {
		polygon = NewPolygon(cfg.PolygonKey, opts...)
		quotes = append(quotes, polygon)
		lookup = polygon
	}
	if cfg.FinnhubKey != "" {
		finnhub = NewFinnhub(cfg.FinnhubKey, opts...)
		quotes = append(quotes, finnhub)
		live = append(live, finnhub)
	}
	if cfg.AlphaVantageKey != "" {
		alphaVtg = NewAlphaVantage(cfg.AlphaVantageKey, opts...)
		search = append(search, alphaVtg)
		live = append(live, alphaVtg)
	}
	if finnhub != nil {
		search = append(search, finnhub)
	}
	if polygon != nil {
		search = append(search, polygon)
	}

	logger = logger.Named("stockdata")
	return &Market{
		Adapter:  NewAdapter(logger, quotes, WithMaxConcurrency(cfg.MaxConcurrency)),
		Resolver: NewResolver(lookup, logger),
		Search:   NewSearch(logger, search...),
		Live:     NewLiveQuotes(logger, live...),
	}
}
