package performance

import (
	"math"

	"github.com/seenimoa/genassets/pkg/models"
)

// ════════════════════════════════════════════════════════════════════
// Horizon Metrics
// ════════════════════════════════════════════════════════════════════

// horizonMetrics computes metrics over the last days points of each
// series.
func horizonMetrics(pf, sp, nq []float64, days int) models.HorizonPerformance {
	if days <= 0 || days > len(pf) {
		days = len(pf)
	}
	from := len(pf) - days
	pf, sp, nq = pf[from:], sp[from:], nq[from:]

	p := models.HorizonPerformance{
		PortfolioReturn: totalReturn(pf),
		Sp500Return:     totalReturn(sp),
		NasdaqReturn:    totalReturn(nq),
	}
	p.Alpha = p.PortfolioReturn - p.Sp500Return

	pr := dailyReturns(pf)
	p.Beta = beta(pr, dailyReturns(sp))
	p.SharpeRatio = sharpe(pr, RiskFreeRate)
	p.MaxDrawdown = maxDrawdown(pf)
	p.Volatility = stddev(pr) * math.Sqrt(252) * 100
	return p
}

// totalReturn is the percent change from first to last value.
func totalReturn(values []float64) float64 {
	if len(values) < 2 || values[0] == 0 {
		return 0
	}
	return (values[len(values)-1]/values[0] - 1) * 100
}

// ────────────────────────────────────────────────────────────────────
// Maximum Drawdown (percent)
// ────────────────────────────────────────────────────────────────────

func maxDrawdown(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	peak := values[0]
	maxDDPct := 0.0
	for _, v := range values {
		if v > peak {
			peak = v
		}
		if peak > 0 {
			if dd := (peak - v) / peak * 100; dd > maxDDPct {
				maxDDPct = dd
			}
		}
	}
	return maxDDPct
}

// ────────────────────────────────────────────────────────────────────
// Sharpe Ratio (annualized)
// ────────────────────────────────────────────────────────────────────

func sharpe(returns []float64, riskFreeRate float64) float64 {
	if len(returns) < 2 {
		return 0
	}

	dailyRf := riskFreeRate / 252 // trading days
	excess := make([]float64, len(returns))
	for i, r := range returns {
		excess[i] = r - dailyRf
	}

	sd := stddev(excess)
	if sd == 0 {
		return 0
	}
	return mean(excess) / sd * math.Sqrt(252) // annualize
}

// ────────────────────────────────────────────────────────────────────
// Beta vs benchmark
// ────────────────────────────────────────────────────────────────────

func beta(returns, benchmark []float64) float64 {
	n := len(returns)
	if len(benchmark) < n {
		n = len(benchmark)
	}
	if n < 2 {
		return 0
	}
	returns, benchmark = returns[:n], benchmark[:n]

	mr, mb := mean(returns), mean(benchmark)
	var cov, variance float64
	for i := 0; i < n; i++ {
		cov += (returns[i] - mr) * (benchmark[i] - mb)
		variance += (benchmark[i] - mb) * (benchmark[i] - mb)
	}
	if variance == 0 {
		return 0
	}
	return cov / variance
}

// ════════════════════════════════════════════════════════════════════
// Helpers
// ════════════════════════════════════════════════════════════════════

// dailyReturns computes simple returns between consecutive values.
func dailyReturns(values []float64) []float64 {
	if len(values) < 2 {
		return nil
	}
	returns := make([]float64, len(values)-1)
	for i := 1; i < len(values); i++ {
		if values[i-1] > 0 {
			returns[i-1] = (values[i] - values[i-1]) / values[i-1]
		}
	}
	return returns
}

func mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range data {
		sum += v
	}
	return sum / float64(len(data))
}

func stddev(data []float64) float64 {
	if len(data) < 2 {
		return 0
	}
	m := mean(data)
	sumSq := 0.0
	for _, v := range data {
		d := v - m
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(data)-1)) // sample stddev
}
