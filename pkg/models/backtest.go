package models

import "time"

// Horizon names a backtest window.
type Horizon string

const (
	Horizon1M Horizon = "1M"
	Horizon3M Horizon = "3M"
	Horizon1Y Horizon = "1Y"
)

// Days returns the number of daily points covered by h.
func (h Horizon) Days() int {
	switch h {
	case Horizon1M:
		return 30
	case Horizon3M:
		return 90
	case Horizon1Y:
		return 365
	default:
		return 0
	}
}

// Horizons lists the backtest windows in ascending length.
var Horizons = []Horizon{Horizon1M, Horizon3M, Horizon1Y}

// HorizonPerformance holds return and risk figures for one horizon.
// Returns, drawdown and volatility are percentages.
type HorizonPerformance struct {
	PortfolioReturn float64 `json:"portfolioReturn"`
	Sp500Return     float64 `json:"sp500Return"`
	NasdaqReturn    float64 `json:"nasdaqReturn"`
	Alpha           float64 `json:"alpha"`
	Beta            float64 `json:"beta"`
	SharpeRatio     float64 `json:"sharpeRatio"`
	MaxDrawdown     float64 `json:"maxDrawdown"`
	Volatility      float64 `json:"volatility"`
}

// BacktestPoint is one daily value of the simulated series.
type BacktestPoint struct {
	Date           time.Time `json:"date"`
	PortfolioValue float64   `json:"portfolioValue"`
	Sp500Value     float64   `json:"sp500Value"`
	NasdaqValue    float64   `json:"nasdaqValue"`
}

// BacktestResult is the synthetic multi-horizon backtest of a holding set.
type BacktestResult struct {
	Performance map[Horizon]HorizonPerformance `json:"performance"`
	Historical  []BacktestPoint                `json:"historical"`
}

// BacktestSummary condenses the one-year horizon.
type BacktestSummary struct {
	TotalReturn float64 `json:"totalReturn"`
	Alpha       float64 `json:"alpha"`
	Beta        float64 `json:"beta"`
	SharpeRatio float64 `json:"sharpeRatio"`
	MaxDrawdown float64 `json:"maxDrawdown"`
	Volatility  float64 `json:"volatility"`
}

// IndexRef identifies an index in a backtest report.
type IndexRef struct {
	ID          uint64  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	TotalValue  float64 `json:"totalValue"`
}

// BacktestReport is the full backtest view of a stored index.
type BacktestReport struct {
	Index       IndexRef                       `json:"index"`
	Performance map[Horizon]HorizonPerformance `json:"performance"`
	Historical  []BacktestPoint                `json:"historical"`
	Summary     BacktestSummary                `json:"summary"`
	Benchmarks  BenchmarkReturns               `json:"benchmarks"`
}

// BenchmarkReturns holds one-year benchmark returns in percent.
type BenchmarkReturns struct {
	Sp500  float64 `json:"sp500"`
	Nasdaq float64 `json:"nasdaq"`
}
