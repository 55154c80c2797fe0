// Package index implements the generation pipeline and the read and
// update operations over stored indexes.
package index

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/seenimoa/genassets/internal/events"
	"github.com/seenimoa/genassets/internal/store"
	"github.com/seenimoa/genassets/pkg/models"
)

var (
	// ErrInvalidPrompt is returned for a blank prompt.
	ErrInvalidPrompt = errors.New("prompt is required")

	// ErrIndexNotFound is returned when the requested index does not exist.
	ErrIndexNotFound = errors.New("index not found")
)

// StoredHistoryPoints is how many of the most recent backtest points are
// persisted per generated index.
const StoredHistoryPoints = 30

// CompanyGenerator turns a prompt into a named company list.
type CompanyGenerator interface {
	Generate(ctx context.Context, prompt string) (*models.GeneratedIndex, error)
}

// SymbolResolver maps a company name to a ticker.
type SymbolResolver interface {
	Resolve(ctx context.Context, companyName string) (string, bool)
}

// PriceSource supplies quotes and benchmark levels. It never fails.
type PriceSource interface {
	Stocks(ctx context.Context, symbols []string) []models.StockQuote
	Benchmarks(ctx context.Context) models.BenchmarkLevels
}

// Service orchestrates generation and serves stored indexes.
type Service struct {
	repo      store.Repository
	generator CompanyGenerator
	resolver  SymbolResolver
	prices    PriceSource
	publisher events.Publisher
	logger    *zap.Logger
	clock     func() time.Time
	limit     int
}

// Option configures a Service.
type Option func(*Service)

// WithPublisher sets the event sink. The default discards events.
func WithPublisher(p events.Publisher) Option {
	return func(s *Service) {
		if p != nil {
			s.publisher = p
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides time.Now.
func WithClock(c func() time.Time) Option {
	return func(s *Service) { s.clock = c }
}

// WithMaxConcurrency bounds concurrent symbol resolution.
func WithMaxConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.limit = n
		}
	}
}

// NewService wires the pipeline.
func NewService(repo store.Repository, gen CompanyGenerator, resolver SymbolResolver, prices PriceSource, opts ...Option) *Service {
	s := &Service{
		repo:      repo,
		generator: gen,
		resolver:  resolver,
		prices:    prices,
		publisher: events.Nop{},
		logger:    zap.NewNop(),
		clock:     time.Now,
		limit:     8,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// resolveSymbols fills in missing symbols concurrently. A company that
// cannot be resolved keeps its name as the symbol.
func (s *Service) resolveSymbols(ctx context.Context, companies []models.CompanyMatch) []string {
	symbols := make([]string, len(companies))
	var g errgroup.Group
	g.SetLimit(s.limit)
	for i, c := range companies {
		if c.Symbol != "" {
			symbols[i] = c.Symbol
			continue
		}
		g.Go(func() error {
			if sym, ok := s.resolver.Resolve(ctx, c.Name); ok {
				symbols[i] = sym
				return nil
			}
			s.logger.Debug("using company name as symbol", zap.String("company", c.Name))
			symbols[i] = c.Name
			return nil
		})
	}
	_ = g.Wait()
	return symbols
}

func (s *Service) lookup(ctx context.Context, id uint64) (models.Index, error) {
	idx, err := s.repo.GetIndex(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return models.Index{}, ErrIndexNotFound
	}
	if err != nil {
		return models.Index{}, fmt.Errorf("get index %d: %w", id, err)
	}
	return idx, nil
}

// validPrompt rejects prompts that are blank after trimming. The prompt
// itself is used as given.
func validPrompt(prompt string) error {
	if strings.TrimSpace(prompt) == "" {
		return ErrInvalidPrompt
	}
	return nil
}
