// Package models defines the core data structures shared by the store,
// the generation pipeline and the HTTP API.
package models

import "time"

// Index is a generated, named basket of stocks tied to one prompt.
type Index struct {
	ID              uint64    `json:"id"`
	Prompt          string    `json:"prompt"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	IsPublic        bool      `json:"isPublic"`
	TotalValue      float64   `json:"totalValue"`
	Performance1d   float64   `json:"performance1d"`
	Performance7d   float64   `json:"performance7d"`
	Performance30d  float64   `json:"performance30d"`
	Performance1y   float64   `json:"performance1y"`
	BenchmarkSp500  float64   `json:"benchmarkSp500"`
	BenchmarkNasdaq float64   `json:"benchmarkNasdaq"`
	CreatedAt       time.Time `json:"createdAt"`
}

// Stock is one constituent of an Index.
type Stock struct {
	ID              uint64  `json:"id"`
	IndexID         uint64  `json:"indexId"`
	Symbol          string  `json:"symbol"`
	Name            string  `json:"name"`
	Price           float64 `json:"price"`
	Sector          string  `json:"sector,omitempty"`
	MarketCap       float64 `json:"marketCap,omitempty"`
	Weight          float64 `json:"weight"`
	Change1d        float64 `json:"change1d"`
	ChangePercent1d float64 `json:"changePercent1d"`
}

// HistoricalPoint is one stored daily value of an index and its benchmarks.
type HistoricalPoint struct {
	ID          uint64    `json:"id"`
	IndexID     uint64    `json:"indexId"`
	Date        time.Time `json:"date"`
	Value       float64   `json:"value"`
	Sp500Value  float64   `json:"sp500Value"`
	NasdaqValue float64   `json:"nasdaqValue"`
}

// IndexUpdate is a partial update of an Index. Nil fields are left as is.
type IndexUpdate struct {
	IsPublic    *bool   `json:"isPublic,omitempty"`
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

// Empty reports whether the update changes nothing.
func (u IndexUpdate) Empty() bool {
	return u.IsPublic == nil && u.Name == nil && u.Description == nil
}

// Apply writes the non-nil fields of u onto idx.
func (u IndexUpdate) Apply(idx *Index) {
	if u.IsPublic != nil {
		idx.IsPublic = *u.IsPublic
	}
	if u.Name != nil {
		idx.Name = *u.Name
	}
	if u.Description != nil {
		idx.Description = *u.Description
	}
}

// IndexWithStocks is an Index merged with its constituents.
type IndexWithStocks struct {
	Index
	Stocks []Stock `json:"stocks"`
}

// GenerateResult is the composed result of one generation request.
type GenerateResult struct {
	Index
	Stocks      []Stock                        `json:"stocks"`
	Backtesting map[Horizon]HorizonPerformance `json:"backtesting,omitempty"`
	Alpha       float64                        `json:"alpha"`
}

// TrendingIndex is an Index ranked by its weighted recent performance.
type TrendingIndex struct {
	Index
	PerformanceScore float64 `json:"performanceScore"`
}

// ExploreIndex is an Index tagged with a display category.
type ExploreIndex struct {
	Index
	Category string `json:"category"`
}

// PortfolioSummary aggregates totals across all stored indexes.
type PortfolioSummary struct {
	TotalValue           float64 `json:"totalValue"`
	TotalChange1d        float64 `json:"totalChange1d"`
	TotalChangePercent1d float64 `json:"totalChangePercent1d"`
	ActiveIndexes        int     `json:"activeIndexes"`
	TotalStocks          int     `json:"totalStocks"`
	AvgPerformance       float64 `json:"avgPerformance"`
}

// ChartData is a chart-ready view of one index.
type ChartData struct {
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Data        []ChartPoint       `json:"data"`
	Performance map[string]float64 `json:"performance"`
	Benchmarks  BenchmarkLevels    `json:"benchmarks"`
}

// ChartPoint is one constituent bar in ChartData.
type ChartPoint struct {
	Label  string  `json:"label"`
	Value  float64 `json:"value"`
	Change float64 `json:"change"`
	Sector string  `json:"sector,omitempty"`
}
