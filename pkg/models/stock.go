package models

// StockQuote is the normalized quote and profile of one ticker.
type StockQuote struct {
	Symbol          string  `json:"symbol"`
	Name            string  `json:"name"`
	Price           float64 `json:"price"`
	Sector          string  `json:"sector,omitempty"`
	MarketCap       float64 `json:"marketCap,omitempty"`
	Change1d        float64 `json:"change1d"`
	ChangePercent1d float64 `json:"changePercent1d"`
	Source          string  `json:"source,omitempty"` // "polygon", "finnhub" or "static"
}

// LiveQuote is a real-time quote for a single symbol.
type LiveQuote struct {
	Success       bool    `json:"success"`
	Symbol        string  `json:"symbol"`
	CurrentPrice  float64 `json:"current_price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"change_percent"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	Open          float64 `json:"open"`
	PreviousClose float64 `json:"previous_close"`
}

// SearchResult is one normalized instrument returned by a symbol search.
type SearchResult struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Region   string `json:"region"`
	Currency string `json:"currency"`
	Exchange string `json:"exchange"`
}

// SearchResponse is the result of a search across providers.
type SearchResponse struct {
	Success bool           `json:"success"`
	Source  string         `json:"source"`
	Results []SearchResult `json:"results"`
	Message string         `json:"message,omitempty"`
}

// BenchmarkLevels holds the current S&P 500 and NASDAQ proxy levels.
type BenchmarkLevels struct {
	Sp500  float64 `json:"sp500"`
	Nasdaq float64 `json:"nasdaq"`
}

// MarketEntry is one line of the market snapshot.
type MarketEntry struct {
	Symbol          string  `json:"symbol"`
	Value           float64 `json:"value"`
	Change1d        float64 `json:"change1d"`
	ChangePercent1d float64 `json:"changePercent1d"`
}

// MarketSnapshot summarizes the major US indices.
type MarketSnapshot struct {
	Sp500  MarketEntry `json:"sp500"`
	Nasdaq MarketEntry `json:"nasdaq"`
	Dow    MarketEntry `json:"dow"`
	Vix    MarketEntry `json:"vix"`
}
