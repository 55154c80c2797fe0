package llm

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ModelChain tries one provider over an ordered list of models. It
// advances to the next model only when the current one is unavailable
// or rate limited; any other error ends the chain.
type ModelChain struct {
	provider Provider
	models   []string
	logger   *zap.Logger
}

// NewModelChain creates a chain over models on provider.
func NewModelChain(provider Provider, models []string, logger *zap.Logger) *ModelChain {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ModelChain{provider: provider, models: models, logger: logger}
}

func (c *ModelChain) Name() string { return c.provider.Name() }

// Models returns a copy of the configured model order.
func (c *ModelChain) Models() []string { return append([]string(nil), c.models...) }

// Chat sends the conversation to each model in turn. opts.Model is
// ignored.
func (c *ModelChain) Chat(ctx context.Context, messages []Message, opts *ChatOptions) (*Response, error) {
	if len(c.models) == 0 {
		return nil, ErrNoModels
	}

	var o ChatOptions
	if opts != nil {
		o = *opts
	}

	var lastErr error
	for _, model := range c.models {
		o.Model = model
		resp, err := c.provider.Chat(ctx, messages, &o)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if !errors.Is(err, ErrInvalidModel) && !errors.Is(err, ErrRateLimit) {
			return nil, err
		}
		c.logger.Warn("model unavailable, trying next",
			zap.String("provider", c.provider.Name()),
			zap.String("model", model),
			zap.Error(err),
		)
	}
	return nil, fmt.Errorf("%s: all models failed: %w", c.provider.Name(), lastErr)
}
