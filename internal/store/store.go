// Package store persists indexes, their constituents and historical points.
//
// Two backends implement Repository: an in-process MemoryStore and a
// BadgerStore on top of badgerhold. Identifiers are assigned by the store
// at insert time and are never reused.
package store

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/seenimoa/genassets/pkg/models"
)

// ErrNotFound is returned when a referenced record does not exist.
var ErrNotFound = errors.New("store: not found")

// Repository is the storage contract used by the index service.
type Repository interface {
	// CreateIndex assigns an ID (and CreatedAt when zero) and stores idx.
	CreateIndex(ctx context.Context, idx models.Index) (models.Index, error)
	GetIndex(ctx context.Context, id uint64) (models.Index, error)
	// UpdateIndex applies a partial update and returns the stored record.
	UpdateIndex(ctx context.Context, id uint64, u models.IndexUpdate) (models.Index, error)
	// ListIndexes returns all indexes, newest first.
	ListIndexes(ctx context.Context) ([]models.Index, error)

	// AddStock stores s under its IndexID, which must exist.
	AddStock(ctx context.Context, s models.Stock) (models.Stock, error)
	StocksByIndex(ctx context.Context, indexID uint64) ([]models.Stock, error)

	AddHistorical(ctx context.Context, p models.HistoricalPoint) (models.HistoricalPoint, error)
	// HistoricalByIndex returns points dated within the last days, oldest first.
	HistoricalByIndex(ctx context.Context, indexID uint64, days int) ([]models.HistoricalPoint, error)

	PortfolioSummary(ctx context.Context) (models.PortfolioSummary, error)
	Close() error
}

// Clock returns the current time. Stores use it for CreatedAt and
// for historical windows.
type Clock func() time.Time

func sortNewestFirst(indexes []models.Index) {
	sort.SliceStable(indexes, func(i, j int) bool {
		if !indexes[i].CreatedAt.Equal(indexes[j].CreatedAt) {
			return indexes[i].CreatedAt.After(indexes[j].CreatedAt)
		}
		return indexes[i].ID > indexes[j].ID
	})
}

func sortStocks(stocks []models.Stock) {
	sort.Slice(stocks, func(i, j int) bool { return stocks[i].ID < stocks[j].ID })
}

// windowFilter keeps points dated on or after now-days, sorted by date.
func windowFilter(points []models.HistoricalPoint, now time.Time, days int) []models.HistoricalPoint {
	since := now.AddDate(0, 0, -days)
	out := make([]models.HistoricalPoint, 0, len(points))
	for _, p := range points {
		if !p.Date.Before(since) {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func summarize(indexes []models.Index, totalStocks int) models.PortfolioSummary {
	s := models.PortfolioSummary{
		ActiveIndexes: len(indexes),
		TotalStocks:   totalStocks,
	}
	if len(indexes) == 0 {
		return s
	}
	var perfSum float64
	for _, idx := range indexes {
		s.TotalValue += idx.TotalValue
		s.TotalChange1d += idx.TotalValue * idx.Performance1d / 100
		perfSum += idx.Performance1d
	}
	if s.TotalValue != 0 {
		s.TotalChangePercent1d = s.TotalChange1d / s.TotalValue * 100
	}
	s.AvgPerformance = perfSum / float64(len(indexes))
	return s
}
