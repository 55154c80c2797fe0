package index

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/seenimoa/genassets/internal/events"
	"github.com/seenimoa/genassets/internal/performance"
	"github.com/seenimoa/genassets/internal/store"
	"github.com/seenimoa/genassets/pkg/models"
)

// Listing limits.
const (
	TrendingLimit  = 10
	ExploreLimit   = 20
	MaxHistoryDays = 365
)

// Get returns an index with its constituents.
func (s *Service) Get(ctx context.Context, id uint64) (*models.IndexWithStocks, error) {
	idx, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	stocks, err := s.repo.StocksByIndex(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("stocks of index %d: %w", id, err)
	}
	return &models.IndexWithStocks{Index: idx, Stocks: stocks}, nil
}

// List returns every index, newest first.
func (s *Service) List(ctx context.Context) ([]models.Index, error) {
	out, err := s.repo.ListIndexes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list indexes: %w", err)
	}
	return out, nil
}

// ListWithStocks returns every index with its constituents, newest first.
func (s *Service) ListWithStocks(ctx context.Context) ([]models.IndexWithStocks, error) {
	indexes, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.IndexWithStocks, 0, len(indexes))
	for _, idx := range indexes {
		stocks, err := s.repo.StocksByIndex(ctx, idx.ID)
		if err != nil {
			return nil, fmt.Errorf("stocks of index %d: %w", idx.ID, err)
		}
		out = append(out, models.IndexWithStocks{Index: idx, Stocks: stocks})
	}
	return out, nil
}

// PerformanceScore weights recent performance for trending.
func PerformanceScore(idx models.Index) float64 {
	return idx.Performance7d*0.6 + idx.Performance30d*0.4
}

// Trending returns the top indexes by PerformanceScore.
func (s *Service) Trending(ctx context.Context) ([]models.TrendingIndex, error) {
	indexes, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.TrendingIndex, len(indexes))
	for i, idx := range indexes {
		out[i] = models.TrendingIndex{Index: idx, PerformanceScore: PerformanceScore(idx)}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].PerformanceScore > out[j].PerformanceScore })
	if len(out) > TrendingLimit {
		out = out[:TrendingLimit]
	}
	return out, nil
}

// Category derives a display category from an index name.
func Category(name string) string {
	n := strings.ToLower(name)
	switch {
	case strings.Contains(n, "ai") || strings.Contains(n, "tech"):
		return "Technology"
	case strings.Contains(n, "health") || strings.Contains(n, "medical"):
		return "Healthcare"
	case strings.Contains(n, "energy") || strings.Contains(n, "clean"):
		return "Energy"
	case strings.Contains(n, "ceo") || strings.Contains(n, "young"):
		return "Leadership"
	default:
		return "Innovation"
	}
}

// Explore returns the newest indexes tagged with a category, best
// weekly performance first.
func (s *Service) Explore(ctx context.Context) ([]models.ExploreIndex, error) {
	indexes, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(indexes) > ExploreLimit {
		indexes = indexes[:ExploreLimit]
	}
	out := make([]models.ExploreIndex, len(indexes))
	for i, idx := range indexes {
		out[i] = models.ExploreIndex{Index: idx, Category: Category(idx.Name)}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Performance7d > out[j].Performance7d })
	return out, nil
}

// Update applies a partial update and publishes one index_updated event.
func (s *Service) Update(ctx context.Context, id uint64, u models.IndexUpdate) (*models.Index, error) {
	idx, err := s.repo.UpdateIndex(ctx, id, u)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrIndexNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update index %d: %w", id, err)
	}
	s.publisher.Publish(events.New(events.TypeIndexUpdated, idx))
	return &idx, nil
}

// Portfolio aggregates all stored indexes.
func (s *Service) Portfolio(ctx context.Context) (models.PortfolioSummary, error) {
	sum, err := s.repo.PortfolioSummary(ctx)
	if err != nil {
		return models.PortfolioSummary{}, fmt.Errorf("portfolio summary: %w", err)
	}
	return sum, nil
}

// Backtest regenerates the backtest of a stored index from its
// constituents, anchored at its creation time.
func (s *Service) Backtest(ctx context.Context, id uint64) (*models.BacktestReport, error) {
	ws, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	bt := performance.Backtest(performance.Input{
		Holdings:   performance.HoldingsFromStocks(ws.Stocks),
		Benchmarks: models.BenchmarkLevels{Sp500: ws.BenchmarkSp500, Nasdaq: ws.BenchmarkNasdaq},
		Anchor:     ws.CreatedAt,
	})

	hist := bt.Historical
	if len(hist) > MaxHistoryDays {
		hist = hist[len(hist)-MaxHistoryDays:]
	}
	return &models.BacktestReport{
		Index: models.IndexRef{
			ID:          ws.ID,
			Name:        ws.Name,
			Description: ws.Description,
			TotalValue:  ws.TotalValue,
		},
		Performance: bt.Performance,
		Historical:  hist,
		Summary:     performance.Summarize(bt),
		Benchmarks:  performance.BenchmarkReturns(bt),
	}, nil
}

// History returns stored points from the last days (1 to 365).
func (s *Service) History(ctx context.Context, id uint64, days int) ([]models.HistoricalPoint, error) {
	if _, err := s.lookup(ctx, id); err != nil {
		return nil, err
	}
	if days <= 0 {
		days = StoredHistoryPoints
	}
	if days > MaxHistoryDays {
		days = MaxHistoryDays
	}
	points, err := s.repo.HistoricalByIndex(ctx, id, days)
	if err != nil {
		return nil, fmt.Errorf("history of index %d: %w", id, err)
	}
	return points, nil
}

// ChartData returns a chart-ready view of an index.
func (s *Service) ChartData(ctx context.Context, id uint64) (*models.ChartData, error) {
	ws, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	points := make([]models.ChartPoint, len(ws.Stocks))
	for i, st := range ws.Stocks {
		points[i] = models.ChartPoint{
			Label:  st.Symbol,
			Value:  st.Price,
			Change: st.ChangePercent1d,
			Sector: st.Sector,
		}
	}
	return &models.ChartData{
		Title:       ws.Name,
		Description: ws.Description,
		Data:        points,
		Performance: map[string]float64{
			"1d":  ws.Performance1d,
			"7d":  ws.Performance7d,
			"30d": ws.Performance30d,
			"1y":  ws.Performance1y,
		},
		Benchmarks: models.BenchmarkLevels{Sp500: ws.BenchmarkSp500, Nasdaq: ws.BenchmarkNasdaq},
	}, nil
}
