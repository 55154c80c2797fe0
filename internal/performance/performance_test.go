package performance

import (
	"math"
	"testing"
	"time"

	"github.com/seenimoa/genassets/pkg/models"
)

func approxEqual(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

var sampleHoldings = []Holding{
	{Symbol: "TSLA", Price: 248.40, Sector: "Automotive", ChangePercent1d: 2},
	{Symbol: "NEE", Price: 75.40, Sector: "Utilities", ChangePercent1d: -1},
	{Symbol: "FSLR", Price: 185.20, Sector: "Energy", ChangePercent1d: 0.5},
}

// ════════════════════════════════════════════════════════════════════
// Aggregate
// ════════════════════════════════════════════════════════════════════

func TestAggregate(t *testing.T) {
	s := Aggregate(sampleHoldings)
	if !approxEqual(s.TotalValue, 509.0, 1e-9) {
		t.Errorf("TotalValue: got %v, want 509", s.TotalValue)
	}
	if !approxEqual(s.Performance1d, 0.5, 1e-9) {
		t.Errorf("Performance1d: got %v, want 0.5", s.Performance1d)
	}
	if s.Count != 3 {
		t.Errorf("Count: got %d", s.Count)
	}
}

func TestAggregateEmpty(t *testing.T) {
	s := Aggregate(nil)
	if s.TotalValue != 0 || s.Performance1d != 0 || math.IsNaN(s.Performance1d) {
		t.Errorf("empty aggregate: %+v", s)
	}
}

func TestHoldingsConversions(t *testing.T) {
	q := HoldingsFromQuotes([]models.StockQuote{{Symbol: "A", Price: 1, Sector: "Technology", ChangePercent1d: 2}})
	s := HoldingsFromStocks([]models.Stock{{Symbol: "A", Price: 1, Sector: "Technology", ChangePercent1d: 2}})
	if q[0] != s[0] {
		t.Errorf("conversions differ: %+v vs %+v", q[0], s[0])
	}
}

// ════════════════════════════════════════════════════════════════════
// Backtest
// ════════════════════════════════════════════════════════════════════

var anchor = time.Date(2025, 6, 30, 15, 4, 5, 0, time.UTC)

func sampleInput() Input {
	return Input{
		Holdings:   sampleHoldings,
		Benchmarks: models.BenchmarkLevels{Sp500: 550, Nasdaq: 480},
		Anchor:     anchor,
	}
}

func TestBacktestShape(t *testing.T) {
	res := Backtest(sampleInput())

	if len(res.Historical) != SeriesDays {
		t.Fatalf("Historical: got %d points, want %d", len(res.Historical), SeriesDays)
	}
	last := res.Historical[SeriesDays-1]
	if !approxEqual(last.PortfolioValue, 509.0, 1e-6) {
		t.Errorf("last portfolio value: got %v, want 509", last.PortfolioValue)
	}
	if !approxEqual(last.Sp500Value, 550, 1e-6) || !approxEqual(last.NasdaqValue, 480, 1e-6) {
		t.Errorf("last benchmark values: %+v", last)
	}
	if !last.Date.Equal(time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("last date: got %v", last.Date)
	}
	first := res.Historical[0]
	if got := last.Date.Sub(first.Date); got != (SeriesDays-1)*24*time.Hour {
		t.Errorf("series span: got %v", got)
	}
	for i := 1; i < len(res.Historical); i++ {
		if !res.Historical[i].Date.After(res.Historical[i-1].Date) {
			t.Fatalf("dates not ascending at %d", i)
		}
	}

	for _, h := range models.Horizons {
		p, ok := res.Performance[h]
		if !ok {
			t.Fatalf("missing horizon %s", h)
		}
		if !approxEqual(p.Alpha, p.PortfolioReturn-p.Sp500Return, 1e-9) {
			t.Errorf("%s alpha mismatch: %+v", h, p)
		}
		if p.MaxDrawdown < 0 || p.Volatility <= 0 {
			t.Errorf("%s risk figures: %+v", h, p)
		}
	}
}

func TestBacktestHorizonReturns(t *testing.T) {
	res := Backtest(sampleInput())
	hist := res.Historical

	want := (hist[SeriesDays-1].PortfolioValue/hist[SeriesDays-30].PortfolioValue - 1) * 100
	if got := res.Performance[models.Horizon1M].PortfolioReturn; !approxEqual(got, want, 1e-9) {
		t.Errorf("1M return: got %v, want %v", got, want)
	}
	want = (hist[SeriesDays-1].Sp500Value/hist[0].Sp500Value - 1) * 100
	if got := res.Performance[models.Horizon1Y].Sp500Return; !approxEqual(got, want, 1e-9) {
		t.Errorf("1Y S&P return: got %v, want %v", got, want)
	}
}

func TestBacktestDeterministic(t *testing.T) {
	a := Backtest(sampleInput())

	reordered := sampleInput()
	reordered.Holdings = []Holding{sampleHoldings[2], sampleHoldings[0], sampleHoldings[1]}
	b := Backtest(reordered)

	for _, h := range models.Horizons {
		if a.Performance[h] != b.Performance[h] {
			t.Errorf("%s differs across runs: %+v vs %+v", h, a.Performance[h], b.Performance[h])
		}
	}

	other := sampleInput()
	other.Holdings = []Holding{{Symbol: "AAPL", Price: 189.5, Sector: "Technology"}}
	c := Backtest(other)
	if c.Performance[models.Horizon1Y] == a.Performance[models.Horizon1Y] {
		t.Error("different holdings should give a different series")
	}
}

func TestBacktestBetaFollowsSector(t *testing.T) {
	utilities := Backtest(Input{
		Holdings: []Holding{{Symbol: "NEE", Price: 75, Sector: "Utilities"}, {Symbol: "BEP", Price: 29, Sector: "Utilities"}},
		Anchor:   anchor,
	})
	autos := Backtest(Input{
		Holdings: []Holding{{Symbol: "TSLA", Price: 248, Sector: "Automotive"}, {Symbol: "RIVN", Price: 12, Sector: "Automotive"}},
		Anchor:   anchor,
	})
	bu := utilities.Performance[models.Horizon1Y].Beta
	ba := autos.Performance[models.Horizon1Y].Beta
	if !(bu < ba) {
		t.Errorf("utilities beta %v should be below automotive beta %v", bu, ba)
	}
}

func TestBacktestEmptyHoldings(t *testing.T) {
	res := Backtest(Input{Anchor: anchor})
	if len(res.Historical) != SeriesDays {
		t.Fatalf("Historical: got %d", len(res.Historical))
	}
	for _, h := range models.Horizons {
		p := res.Performance[h]
		if math.IsNaN(p.PortfolioReturn) || math.IsInf(p.PortfolioReturn, 0) {
			t.Errorf("%s return not finite: %v", h, p.PortfolioReturn)
		}
	}
}

// ════════════════════════════════════════════════════════════════════
// Derived fields
// ════════════════════════════════════════════════════════════════════

func TestDeriveAndSummarize(t *testing.T) {
	bt := models.BacktestResult{Performance: map[models.Horizon]models.HorizonPerformance{
		models.Horizon1M: {PortfolioReturn: 3},
		models.Horizon1Y: {PortfolioReturn: 20, Sp500Return: 12, NasdaqReturn: 15, Alpha: 8, SharpeRatio: 1.2},
	}}

	f := Derive(Summary{Performance1d: 0.5}, bt)
	if f.Performance7d != 3.5 || f.Performance30d != 3 || f.Performance1y != 20 || f.Alpha != 8 {
		t.Errorf("Derive: %+v", f)
	}

	s := Summarize(bt)
	if s.Beta != 1 {
		t.Errorf("zero beta should read as 1, got %v", s.Beta)
	}
	if s.TotalReturn != 20 || s.SharpeRatio != 1.2 {
		t.Errorf("Summarize: %+v", s)
	}

	b := BenchmarkReturns(bt)
	if b.Sp500 != 12 || b.Nasdaq != 15 {
		t.Errorf("BenchmarkReturns: %+v", b)
	}
}

// ════════════════════════════════════════════════════════════════════
// Metric helpers
// ════════════════════════════════════════════════════════════════════

func TestMaxDrawdown(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"empty", nil, 0},
		{"rising", []float64{1, 2, 3}, 0},
		{"half", []float64{100, 120, 60, 90}, 50},
		{"late peak", []float64{100, 80, 150, 120}, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := maxDrawdown(tt.values); !approxEqual(got, tt.want, 1e-9) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBetaOfScaledSeries(t *testing.T) {
	bench := []float64{0.01, -0.02, 0.015, 0.003, -0.007}
	doubled := make([]float64, len(bench))
	for i, r := range bench {
		doubled[i] = 2 * r
	}
	if got := beta(doubled, bench); !approxEqual(got, 2, 1e-9) {
		t.Errorf("beta: got %v, want 2", got)
	}
	if got := beta([]float64{0.01}, []float64{0.01}); got != 0 {
		t.Errorf("short series beta: got %v", got)
	}
}

func TestSharpe(t *testing.T) {
	if got := sharpe([]float64{0.01}, RiskFreeRate); got != 0 {
		t.Errorf("single return sharpe: got %v, want 0", got)
	}
	up := []float64{0.01, 0.02, 0.015, 0.012}
	down := []float64{-0.01, -0.02, -0.015, -0.012}
	if sharpe(up, RiskFreeRate) <= 0 || sharpe(down, RiskFreeRate) >= 0 {
		t.Error("sharpe sign should follow excess returns")
	}
}
