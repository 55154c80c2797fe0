// Package generator turns a free-text investment theme into a named list
// of companies. Tiers are tried in order: a primary language model, a
// secondary model chain, and a keyword table that always answers.
package generator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/seenimoa/genassets/pkg/models"
)

// DefaultTierTimeout bounds a single tier attempt.
const DefaultTierTimeout = 30 * time.Second

var (
	// ErrMalformedResponse is returned when a model reply does not have
	// the required indexName, description and companies fields.
	ErrMalformedResponse = errors.New("generator: malformed response")

	// ErrNoTiers is returned when every registered tier failed.
	ErrNoTiers = errors.New("generator: no tier produced companies")
)

// Resolver produces a company list for a theme.
type Resolver interface {
	Name() string
	ResolveCompanies(ctx context.Context, prompt string) (*models.GeneratedIndex, error)
}

// Generator tries each resolver in order and returns the first success.
type Generator struct {
	tiers       []Resolver
	tierTimeout time.Duration
	logger      *zap.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithTierTimeout bounds each tier attempt. Non-positive values are ignored.
func WithTierTimeout(d time.Duration) Option {
	return func(g *Generator) {
		if d > 0 {
			g.tierTimeout = d
		}
	}
}

// New creates a generator over tiers. Callers normally end the list with
// a Keyword resolver.
func New(logger *zap.Logger, tiers []Resolver, opts ...Option) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	g := &Generator{tiers: tiers, tierTimeout: DefaultTierTimeout, logger: logger}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Tiers returns tier names in attempt order.
func (g *Generator) Tiers() []string {
	names := make([]string, len(g.tiers))
	for i, t := range g.tiers {
		names[i] = t.Name()
	}
	return names
}

// Generate returns the first tier's result. Tier failures are logged and
// never surface unless every tier fails.
func (g *Generator) Generate(ctx context.Context, prompt string) (*models.GeneratedIndex, error) {
	var lastErr error
	for _, tier := range g.tiers {
		start := time.Now()
		out, err := g.attempt(ctx, tier, prompt)
		if err == nil {
			g.logger.Info("companies generated",
				zap.String("tier", tier.Name()),
				zap.String("index", out.IndexName),
				zap.Int("companies", len(out.Companies)),
				zap.Duration("took", time.Since(start)),
			)
			return out, nil
		}
		lastErr = err
		g.logger.Warn("generator tier failed",
			zap.String("tier", tier.Name()),
			zap.Error(err),
		)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
	if lastErr == nil {
		return nil, ErrNoTiers
	}
	return nil, fmt.Errorf("%w: %v", ErrNoTiers, lastErr)
}

func (g *Generator) attempt(ctx context.Context, tier Resolver, prompt string) (*models.GeneratedIndex, error) {
	tctx, cancel := context.WithTimeout(ctx, g.tierTimeout)
	defer cancel()

	out, err := tier.ResolveCompanies(tctx, prompt)
	if err != nil {
		return nil, err
	}
	if out == nil || len(out.Companies) == 0 {
		return nil, fmt.Errorf("%s: %w", tier.Name(), ErrMalformedResponse)
	}
	return out, nil
}
