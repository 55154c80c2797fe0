package index

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/seenimoa/genassets/internal/events"
	"github.com/seenimoa/genassets/internal/performance"
	"github.com/seenimoa/genassets/pkg/models"
)

// Generate runs the full pipeline for prompt: companies, symbols,
// prices, performance, persistence and one new_index event. Rows already
// written are kept when a later step fails.
func (s *Service) Generate(ctx context.Context, prompt string) (*models.GenerateResult, error) {
	start := time.Now()
	if err := validPrompt(prompt); err != nil {
		return nil, err
	}

	gen, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generate companies: %w", err)
	}

	symbols := s.resolveSymbols(ctx, gen.Companies)

	var (
		quotes []models.StockQuote
		bench  models.BenchmarkLevels
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		quotes = s.prices.Stocks(gctx, symbols)
		return nil
	})
	g.Go(func() error {
		bench = s.prices.Benchmarks(gctx)
		return nil
	})
	_ = g.Wait()

	for i := range quotes {
		if quotes[i].Sector == "" {
			quotes[i].Sector = gen.Companies[i].Sector
		}
	}

	now := s.clock()
	holdings := performance.HoldingsFromQuotes(quotes)
	sum := performance.Aggregate(holdings)
	bt := performance.Backtest(performance.Input{Holdings: holdings, Benchmarks: bench, Anchor: now})
	perf := performance.Derive(sum, bt)

	idx, err := s.repo.CreateIndex(ctx, models.Index{
		Prompt:          prompt,
		Name:            gen.IndexName,
		Description:     gen.Description,
		TotalValue:      sum.TotalValue,
		Performance1d:   perf.Performance1d,
		Performance7d:   perf.Performance7d,
		Performance30d:  perf.Performance30d,
		Performance1y:   perf.Performance1y,
		BenchmarkSp500:  bench.Sp500,
		BenchmarkNasdaq: bench.Nasdaq,
		CreatedAt:       now,
	})
	if err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}

	stocks := make([]models.Stock, 0, len(quotes))
	for _, q := range quotes {
		st, err := s.repo.AddStock(ctx, models.Stock{
			IndexID:         idx.ID,
			Symbol:          q.Symbol,
			Name:            q.Name,
			Price:           q.Price,
			Sector:          q.Sector,
			MarketCap:       q.MarketCap,
			Weight:          1,
			Change1d:        q.Change1d,
			ChangePercent1d: q.ChangePercent1d,
		})
		if err != nil {
			return nil, fmt.Errorf("add stock %s: %w", q.Symbol, err)
		}
		stocks = append(stocks, st)
	}

	hist := bt.Historical
	if len(hist) > StoredHistoryPoints {
		hist = hist[len(hist)-StoredHistoryPoints:]
	}
	for _, p := range hist {
		if _, err := s.repo.AddHistorical(ctx, models.HistoricalPoint{
			IndexID:     idx.ID,
			Date:        p.Date,
			Value:       p.PortfolioValue,
			Sp500Value:  p.Sp500Value,
			NasdaqValue: p.NasdaqValue,
		}); err != nil {
			return nil, fmt.Errorf("add historical point: %w", err)
		}
	}

	result := &models.GenerateResult{
		Index:       idx,
		Stocks:      stocks,
		Backtesting: bt.Performance,
		Alpha:       perf.Alpha,
	}
	s.publisher.Publish(events.New(events.TypeNewIndex, result))

	s.logger.Info("index generated",
		zap.Uint64("id", idx.ID),
		zap.String("name", idx.Name),
		zap.Int("stocks", len(stocks)),
		zap.Float64("total_value", idx.TotalValue),
		zap.Duration("took", time.Since(start)),
	)
	return result, nil
}
