package stockdata

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/seenimoa/genassets/pkg/models"
)

// Benchmark proxies and their defaults when no live provider answers.
const (
	SymbolSp500  = "SPY"
	SymbolNasdaq = "QQQ"
	SymbolDow    = "DIA"
	SymbolVix    = "^VIX"

	LabelSp500  = "S&P 500"
	LabelNasdaq = "NASDAQ"
	LabelDow    = "DOW"
	LabelVix    = "VIX"

	DefaultSp500  = 500.0
	DefaultNasdaq = 400.0
	DefaultDow    = 35000.0
	DefaultVix    = 20.0
)

// DefaultMaxConcurrency bounds per-symbol fan-out when none is configured.
const DefaultMaxConcurrency = 8

// Adapter tries each live QuoteSource in order and falls back to the
// static table. Sources without a key should not be registered.
type Adapter struct {
	sources []QuoteSource
	static  *Static
	limit   int
	logger  *zap.Logger
}

// AdapterOption configures an Adapter.
type AdapterOption func(*Adapter)

// WithStatic replaces the static fallback source.
func WithStatic(s *Static) AdapterOption {
	return func(a *Adapter) { a.static = s }
}

// WithMaxConcurrency bounds the number of in-flight symbol lookups.
func WithMaxConcurrency(n int) AdapterOption {
	return func(a *Adapter) {
		if n > 0 {
			a.limit = n
		}
	}
}

// NewAdapter creates an adapter over the given live sources.
func NewAdapter(logger *zap.Logger, sources []QuoteSource, opts ...AdapterOption) *Adapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &Adapter{
		sources: sources,
		static:  NewStatic(nil),
		limit:   DefaultMaxConcurrency,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Stock returns a quote for symbol. It never fails: when every live
// source errors the static table answers.
func (a *Adapter) Stock(ctx context.Context, symbol string) models.StockQuote {
	if q, ok := a.live(ctx, symbol); ok {
		return q
	}
	return a.static.quote(symbol)
}

// Stocks fetches all symbols concurrently. Results follow input order.
func (a *Adapter) Stocks(ctx context.Context, symbols []string) []models.StockQuote {
	out := make([]models.StockQuote, len(symbols))
	var g errgroup.Group
	g.SetLimit(a.limit)
	for i, sym := range symbols {
		g.Go(func() error {
			out[i] = a.Stock(ctx, sym)
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// Benchmarks returns the current S&P 500 and NASDAQ proxy levels.
func (a *Adapter) Benchmarks(ctx context.Context) models.BenchmarkLevels {
	entries := a.entries(ctx,
		[]string{SymbolSp500, SymbolNasdaq},
		[]string{LabelSp500, LabelNasdaq},
		[]float64{DefaultSp500, DefaultNasdaq},
	)
	return models.BenchmarkLevels{Sp500: entries[0].Value, Nasdaq: entries[1].Value}
}

// MarketSnapshot returns the headline market proxies labelled by the
// index they track.
func (a *Adapter) MarketSnapshot(ctx context.Context) models.MarketSnapshot {
	entries := a.entries(ctx,
		[]string{SymbolSp500, SymbolNasdaq, SymbolDow, SymbolVix},
		[]string{LabelSp500, LabelNasdaq, LabelDow, LabelVix},
		[]float64{DefaultSp500, DefaultNasdaq, DefaultDow, DefaultVix},
	)
	return models.MarketSnapshot{
		Sp500:  entries[0],
		Nasdaq: entries[1],
		Dow:    entries[2],
		Vix:    entries[3],
	}
}

// entries looks up symbols on live sources only, using defaults for
// misses. The static table is never consulted.
func (a *Adapter) entries(ctx context.Context, symbols, labels []string, defaults []float64) []models.MarketEntry {
	out := make([]models.MarketEntry, len(symbols))
	var wg sync.WaitGroup
	for i, sym := range symbols {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e := models.MarketEntry{Symbol: labels[i], Value: defaults[i]}
			if q, ok := a.live(ctx, sym); ok {
				e.Value = q.Price
				e.Change1d = q.Change1d
				e.ChangePercent1d = q.ChangePercent1d
			}
			out[i] = e
		}()
	}
	wg.Wait()
	return out
}

func (a *Adapter) live(ctx context.Context, symbol string) (models.StockQuote, bool) {
	for _, src := range a.sources {
		q, err := src.Quote(ctx, symbol)
		if err == nil {
			return q, true
		}
		a.logger.Debug("quote source failed",
			zap.String("source", src.Name()),
			zap.String("symbol", symbol),
			zap.Error(err),
		)
		if ctx.Err() != nil {
			break
		}
	}
	return models.StockQuote{}, false
}
