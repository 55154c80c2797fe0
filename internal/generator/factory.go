package generator

import (
	"go.uber.org/zap"

	"github.com/seenimoa/genassets/internal/config"
	"github.com/seenimoa/genassets/internal/llm"
)

// NewFromConfig registers an OpenAI tier and a Groq model-chain tier when
// their keys are set, followed by the keyword tier.
func NewFromConfig(cfg config.LLMConfig, gen config.GeneratorConfig, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("generator")

	var tiers []Resolver
	if p, err := llm.NewOpenAIProvider(cfg.OpenAIKey,
		llm.WithOpenAIBaseURL(cfg.OpenAIBaseURL),
		llm.WithOpenAIModel(cfg.OpenAIModel),
		llm.WithOpenAITimeout(cfg.Timeout),
	); err == nil {
		tiers = append(tiers, NewLLMResolver(p, cfg.Temperature, cfg.MaxTokens))
	}
	if p, err := llm.NewGroqProvider(cfg.GroqKey,
		llm.WithOpenAIBaseURL(cfg.GroqBaseURL),
		llm.WithOpenAITimeout(cfg.Timeout),
	); err == nil {
		models := cfg.GroqModels
		if len(models) == 0 {
			models = config.DefaultGroqModels
		}
		chain := llm.NewModelChain(p, models, logger)
		logger.Debug("groq tier registered", zap.Strings("models", chain.Models()))
		tiers = append(tiers, NewLLMResolver(chain, cfg.Temperature, cfg.MaxTokens))
	}
	tiers = append(tiers, NewKeyword())

	return New(logger, tiers, WithTierTimeout(gen.TierTimeout))
}
