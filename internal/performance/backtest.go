package performance

import (
	"encoding/binary"
	"hash/fnv"
	"math"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/seenimoa/genassets/pkg/models"
)

// Series shape of the synthetic backtest.
const (
	SeriesDays   = 365
	RiskFreeRate = 0.04

	marketDrift   = 0.0004 // mean daily S&P return
	marketVol     = 0.010
	nasdaqBeta    = 1.15
	nasdaqNoise   = 0.004
	specificNoise = 0.008
)

// sectorBeta approximates each sector's sensitivity to the S&P 500.
var sectorBeta = map[string]float64{
	"technology":             1.20,
	"communication":          1.10,
	"communication services": 1.10,
	"consumer discretionary": 1.15,
	"automotive":             1.40,
	"financials":             1.10,
	"industrials":            1.00,
	"materials":              1.00,
	"energy":                 1.10,
	"healthcare":             0.80,
	"utilities":              0.50,
}

// Input is a holding set to backtest.
type Input struct {
	Holdings   []Holding
	Benchmarks models.BenchmarkLevels
	// Anchor is the date of the last point; zero means now.
	Anchor time.Time
}

// Backtest simulates a daily series for the holdings and both
// benchmarks, ending at the anchor with the current levels, and reports
// metrics per horizon. The same holdings always give the same series.
func Backtest(in Input) models.BacktestResult {
	anchor := in.Anchor
	if anchor.IsZero() {
		anchor = time.Now()
	}
	anchor = anchor.UTC().Truncate(24 * time.Hour)

	holdings := sortedHoldings(in.Holdings)
	sum := Aggregate(holdings)
	rng := rand.New(rand.NewSource(int64(seed(holdings))))
	beta := portfolioBeta(holdings)
	drift := sum.Performance1d / 100 / 252

	sp := make([]float64, SeriesDays)
	nq := make([]float64, SeriesDays)
	pf := make([]float64, SeriesDays)
	sp[0], nq[0], pf[0] = 1, 1, 1
	for i := 1; i < SeriesDays; i++ {
		m := marketDrift + marketVol*rng.NormFloat64()
		sp[i] = sp[i-1] * (1 + m)
		nq[i] = nq[i-1] * (1 + nasdaqBeta*m + nasdaqNoise*rng.NormFloat64())
		pf[i] = pf[i-1] * (1 + beta*m + drift + specificNoise*rng.NormFloat64())
	}

	scaleTo(pf, sum.TotalValue)
	scaleTo(sp, in.Benchmarks.Sp500)
	scaleTo(nq, in.Benchmarks.Nasdaq)

	res := models.BacktestResult{
		Performance: make(map[models.Horizon]models.HorizonPerformance, len(models.Horizons)),
		Historical:  make([]models.BacktestPoint, SeriesDays),
	}
	for i := range pf {
		res.Historical[i] = models.BacktestPoint{
			Date:           anchor.AddDate(0, 0, i-(SeriesDays-1)),
			PortfolioValue: pf[i],
			Sp500Value:     sp[i],
			NasdaqValue:    nq[i],
		}
	}
	for _, h := range models.Horizons {
		res.Performance[h] = horizonMetrics(pf, sp, nq, h.Days())
	}
	return res
}

// sortedHoldings orders a copy by symbol, then price, so input order
// does not change the result.
func sortedHoldings(holdings []Holding) []Holding {
	out := append([]Holding(nil), holdings...)
	sort.SliceStable(out, func(i, j int) bool {
		si, sj := strings.ToUpper(out[i].Symbol), strings.ToUpper(out[j].Symbol)
		if si != sj {
			return si < sj
		}
		return out[i].Price < out[j].Price
	})
	return out
}

// seed hashes symbols and prices in cents with FNV-64a.
func seed(holdings []Holding) uint64 {
	hash := fnv.New64a()
	var buf [8]byte
	for _, h := range holdings {
		hash.Write([]byte(strings.ToUpper(h.Symbol)))
		binary.LittleEndian.PutUint64(buf[:], uint64(int64(math.Round(h.Price*100))))
		hash.Write(buf[:])
	}
	return hash.Sum64()
}

func portfolioBeta(holdings []Holding) float64 {
	if len(holdings) == 0 {
		return 1
	}
	var sum float64
	for _, h := range holdings {
		b, ok := sectorBeta[strings.ToLower(h.Sector)]
		if !ok {
			b = 1
		}
		sum += b
	}
	return sum / float64(len(holdings))
}

// scaleTo rescales series so its last value equals target. A
// non-positive target leaves the series relative to 100.
func scaleTo(series []float64, target float64) {
	if target <= 0 {
		target = 100
	}
	last := series[len(series)-1]
	if last == 0 {
		return
	}
	k := target / last
	for i := range series {
		series[i] *= k
	}
}
