package main

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/seenimoa/genassets/api"
	"github.com/seenimoa/genassets/internal/config"
	"github.com/seenimoa/genassets/internal/generator"
	"github.com/seenimoa/genassets/internal/index"
	"github.com/seenimoa/genassets/internal/infra"
	"github.com/seenimoa/genassets/internal/stockdata"
	"github.com/seenimoa/genassets/internal/store"
)

// app holds the components shared by serve and generate.
type app struct {
	logger    *zap.Logger
	repo      store.Repository
	market    *stockdata.Market
	generator *generator.Generator
	hub       *api.WSHub
	service   *index.Service
}

func newApp(cfg *config.Config) (*app, error) {
	logger, err := infra.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	repo, err := openStore(cfg.Storage, logger)
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}

	market := stockdata.NewMarket(cfg.StockData, logger)
	gen := generator.NewFromConfig(cfg.LLM, cfg.Generator, logger)
	hub := api.NewWSHub(logger.Named("ws"))

	svc := index.NewService(repo, gen, market.Resolver, market.Adapter,
		index.WithPublisher(hub),
		index.WithLogger(logger.Named("index")),
		index.WithMaxConcurrency(cfg.StockData.MaxConcurrency),
	)

	return &app{
		logger:    logger,
		repo:      repo,
		market:    market,
		generator: gen,
		hub:       hub,
		service:   svc,
	}, nil
}

func openStore(cfg config.StorageConfig, logger *zap.Logger) (store.Repository, error) {
	switch cfg.Driver {
	case "", "memory":
		return store.NewMemoryStore(), nil
	case "badger":
		s, err := store.OpenBadger(cfg.Path, logger.Named("store"))
		if err != nil {
			return nil, fmt.Errorf("open badger store at %s: %w", cfg.Path, err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// Close releases the store and flushes the logger.
func (a *app) Close() {
	if err := a.repo.Close(); err != nil {
		a.logger.Warn("closing store", zap.Error(err))
	}
	_ = a.logger.Sync()
}
