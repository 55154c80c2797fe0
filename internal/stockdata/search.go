package stockdata

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/seenimoa/genassets/pkg/models"
)

// SourceNone marks a search that no provider answered.
const SourceNone = "none"

// NoResultsMessage accompanies an empty search response.
const NoResultsMessage = "No results found. Please try a different search term."

// ErrQuoteNotFound is returned when no live source has a quote.
var ErrQuoteNotFound = errors.New("stock price not found")

// Search queries searchers in order and returns the first non-empty
// result set.
type Search struct {
	searchers []SymbolSearcher
	logger    *zap.Logger
}

// NewSearch creates a search chain.
func NewSearch(logger *zap.Logger, searchers ...SymbolSearcher) *Search {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Search{searchers: searchers, logger: logger}
}

// Search never fails; an empty response carries source "none".
func (s *Search) Search(ctx context.Context, query string) models.SearchResponse {
	for _, src := range s.searchers {
		results, err := src.Search(ctx, query)
		if err != nil {
			s.logger.Debug("search provider failed",
				zap.String("source", src.Name()),
				zap.String("query", query),
				zap.Error(err),
			)
			continue
		}
		if len(results) > 0 {
			return models.SearchResponse{Success: true, Source: src.Name(), Results: results}
		}
	}
	return models.SearchResponse{
		Success: true,
		Source:  SourceNone,
		Results: []models.SearchResult{},
		Message: NoResultsMessage,
	}
}

// LiveQuotes queries live quote sources in order.
type LiveQuotes struct {
	sources []LiveQuoteSource
	logger  *zap.Logger
}

// NewLiveQuotes creates a live quote chain.
func NewLiveQuotes(logger *zap.Logger, sources ...LiveQuoteSource) *LiveQuotes {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LiveQuotes{sources: sources, logger: logger}
}

// Quote returns the first quote with a positive price, or
// ErrQuoteNotFound.
func (l *LiveQuotes) Quote(ctx context.Context, symbol string) (models.LiveQuote, error) {
	for _, src := range l.sources {
		q, err := src.LiveQuote(ctx, symbol)
		if err == nil && q.CurrentPrice > 0 {
			return q, nil
		}
		l.logger.Debug("live quote source failed",
			zap.String("source", src.Name()),
			zap.String("symbol", symbol),
			zap.Error(err),
		)
	}
	return models.LiveQuote{}, ErrQuoteNotFound
}
