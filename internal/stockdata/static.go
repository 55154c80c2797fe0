package stockdata

import (
	"context"
	"math/rand"

	"github.com/seenimoa/genassets/pkg/models"
)

type staticEntry struct {
	price     float64
	name      string
	sector    string
	marketCap float64
}

// staticPrices backs the last tier of the adapter.
var staticPrices = map[string]staticEntry{
	"AAPL":  {189.50, "Apple Inc.", "Technology", 2.97e12},
	"MSFT":  {415.20, "Microsoft Corporation", "Technology", 3.08e12},
	"GOOGL": {152.30, "Alphabet Inc.", "Technology", 1.91e12},
	"AMZN":  {155.80, "Amazon.com Inc.", "Consumer Discretionary", 1.61e12},
	"NVDA":  {498.70, "NVIDIA Corporation", "Technology", 1.22e12},
	"TSLA":  {248.40, "Tesla Inc.", "Consumer Discretionary", 789e9},
	"META":  {504.20, "Meta Platforms Inc.", "Communication Services", 1.28e12},
	"NFLX":  {487.30, "Netflix Inc.", "Communication Services", 210e9},
	"UNH":   {590.40, "UnitedHealth Group Inc.", "Healthcare", 554e9},
	"JNJ":   {162.80, "Johnson & Johnson", "Healthcare", 426e9},
	"PFE":   {28.90, "Pfizer Inc.", "Healthcare", 163e9},
	"MRK":   {100.20, "Merck & Co. Inc.", "Healthcare", 254e9},
	"ABT":   {113.40, "Abbott Laboratories", "Healthcare", 198e9},
	"DXCM":  {78.60, "DexCom Inc.", "Healthcare", 30e9},
	"TDOC":  {12.50, "Teladoc Health Inc.", "Healthcare", 2e9},
	"VEEV":  {214.70, "Veeva Systems Inc.", "Healthcare", 33e9},
	"PLTR":  {38.20, "Palantir Technologies Inc.", "Technology", 82e9},
	"AMD":   {123.60, "Advanced Micro Devices Inc.", "Technology", 199e9},
	"NEE":   {75.40, "NextEra Energy Inc.", "Utilities", 154e9},
	"FSLR":  {185.20, "First Solar Inc.", "Energy", 19.8e9},
	"ENPH":  {92.50, "Enphase Energy Inc.", "Energy", 12.8e9},
	"PLUG":  {3.15, "Plug Power Inc.", "Energy", 1.8e9},
	"BEP":   {28.90, "Brookfield Renewable Partners", "Utilities", 18.2e9},
	"ALB":   {88.75, "Albemarle Corporation", "Materials", 10.4e9},
}

// Static synthesizes quotes from the built-in table. It never fails.
type Static struct {
	rnd func() float64
}

// NewStatic creates a static source. rnd must return values in [0, 1);
// nil uses math/rand.
func NewStatic(rnd func() float64) *Static {
	if rnd == nil {
		rnd = rand.Float64
	}
	return &Static{rnd: rnd}
}

func (s *Static) Name() string { return "static" }

// Quote returns the table entry for symbol with a daily change in
// [-5%, +5%], or a generic record priced in [50, 250] with a change in
// [-4%, +4%] for unknown symbols.
func (s *Static) Quote(_ context.Context, symbol string) (models.StockQuote, error) {
	return s.quote(symbol), nil
}

func (s *Static) quote(symbol string) models.StockQuote {
	if e, ok := staticPrices[symbol]; ok {
		pct := (s.rnd() - 0.5) * 10
		return models.StockQuote{
			Symbol:          symbol,
			Name:            e.name,
			Price:           e.price,
			Sector:          e.sector,
			MarketCap:       e.marketCap,
			Change1d:        e.price * pct / 100,
			ChangePercent1d: pct,
			Source:          s.Name(),
		}
	}

	price := 50 + s.rnd()*200
	pct := (s.rnd() - 0.5) * 8
	return models.StockQuote{
		Symbol:          symbol,
		Name:            symbol + " Corporation",
		Price:           price,
		Sector:          "Technology",
		MarketCap:       price * 1e9,
		Change1d:        price * pct / 100,
		ChangePercent1d: pct,
		Source:          s.Name(),
	}
}
