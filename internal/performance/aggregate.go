// Package performance computes index totals and the synthetic
// multi-horizon backtest reported for every generated index.
package performance

import "github.com/seenimoa/genassets/pkg/models"

// Holding is the per-constituent input to aggregation and backtesting.
type Holding struct {
	Symbol          string
	Price           float64
	Sector          string
	ChangePercent1d float64
}

// HoldingsFromQuotes converts fetched quotes.
func HoldingsFromQuotes(quotes []models.StockQuote) []Holding {
	out := make([]Holding, len(quotes))
	for i, q := range quotes {
		out[i] = Holding{Symbol: q.Symbol, Price: q.Price, Sector: q.Sector, ChangePercent1d: q.ChangePercent1d}
	}
	return out
}

// HoldingsFromStocks converts stored constituents.
func HoldingsFromStocks(stocks []models.Stock) []Holding {
	out := make([]Holding, len(stocks))
	for i, s := range stocks {
		out[i] = Holding{Symbol: s.Symbol, Price: s.Price, Sector: s.Sector, ChangePercent1d: s.ChangePercent1d}
	}
	return out
}

// Summary is the equal-weight aggregate of a holding set.
type Summary struct {
	TotalValue    float64
	Performance1d float64
	Count         int
}

// Aggregate sums prices and averages daily percent change. An empty set
// yields zeros.
func Aggregate(holdings []Holding) Summary {
	s := Summary{Count: len(holdings)}
	if s.Count == 0 {
		return s
	}
	var pct float64
	for _, h := range holdings {
		s.TotalValue += h.Price
		pct += h.ChangePercent1d
	}
	s.Performance1d = pct / float64(s.Count)
	return s
}

// Fields are the performance columns stored on an Index.
type Fields struct {
	Performance1d  float64
	Performance7d  float64
	Performance30d float64
	Performance1y  float64
	Alpha          float64
}

// Derive maps an aggregate and its backtest to Index columns.
// performance7d is the daily mean scaled to a week.
func Derive(sum Summary, bt models.BacktestResult) Fields {
	return Fields{
		Performance1d:  sum.Performance1d,
		Performance7d:  sum.Performance1d * 7,
		Performance30d: bt.Performance[models.Horizon1M].PortfolioReturn,
		Performance1y:  bt.Performance[models.Horizon1Y].PortfolioReturn,
		Alpha:          bt.Performance[models.Horizon1Y].Alpha,
	}
}

// Summarize condenses the one-year horizon. A zero beta reads as 1.
func Summarize(bt models.BacktestResult) models.BacktestSummary {
	y := bt.Performance[models.Horizon1Y]
	beta := y.Beta
	if beta == 0 {
		beta = 1
	}
	return models.BacktestSummary{
		TotalReturn: y.PortfolioReturn,
		Alpha:       y.Alpha,
		Beta:        beta,
		SharpeRatio: y.SharpeRatio,
		MaxDrawdown: y.MaxDrawdown,
		Volatility:  y.Volatility,
	}
}

// BenchmarkReturns returns the one-year benchmark returns.
func BenchmarkReturns(bt models.BacktestResult) models.BenchmarkReturns {
	y := bt.Performance[models.Horizon1Y]
	return models.BenchmarkReturns{Sp500: y.Sp500Return, Nasdaq: y.NasdaqReturn}
}
