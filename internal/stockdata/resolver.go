package stockdata

import (
	"context"

	"go.uber.org/zap"
)

// SymbolLookup maps a company name to a ticker.
type SymbolLookup interface {
	ResolveSymbol(ctx context.Context, companyName string) (string, error)
}

// Resolver wraps an optional SymbolLookup. With no lookup configured,
// every name is unresolved.
type Resolver struct {
	lookup SymbolLookup
	logger *zap.Logger
}

// NewResolver creates a resolver. lookup may be nil.
func NewResolver(lookup SymbolLookup, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{lookup: lookup, logger: logger}
}

// Resolve returns the ticker for companyName, or false when it cannot
// be determined.
func (r *Resolver) Resolve(ctx context.Context, companyName string) (string, bool) {
	if r.lookup == nil || companyName == "" {
		return "", false
	}
	sym, err := r.lookup.ResolveSymbol(ctx, companyName)
	if err != nil || sym == "" {
		r.logger.Debug("symbol resolution failed",
			zap.String("company", companyName),
			zap.Error(err),
		)
		return "", false
	}
	return sym, true
}
