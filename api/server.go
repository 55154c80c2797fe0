// Package api provides the HTTP REST API server for Generated Assets.
//
// It exposes endpoints for index generation, stored indexes, backtests,
// market data, symbol search and a WebSocket event stream.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/seenimoa/genassets/internal/config"
	"github.com/seenimoa/genassets/internal/index"
	"github.com/seenimoa/genassets/pkg/models"
)

// Searcher answers symbol searches. It never fails.
type Searcher interface {
	Search(ctx context.Context, query string) models.SearchResponse
}

// LiveQuoter returns a real-time quote for one symbol.
type LiveQuoter interface {
	Quote(ctx context.Context, symbol string) (models.LiveQuote, error)
}

// MarketSource returns the major US index levels. It never fails.
type MarketSource interface {
	MarketSnapshot(ctx context.Context) models.MarketSnapshot
}

// Deps are the components the server routes to.
type Deps struct {
	Service *index.Service
	Search  Searcher
	Live    LiveQuoter
	Market  MarketSource
	Hub     *WSHub
	Logger  *zap.Logger
	Version string
	// Tiers names the generator tiers for status output.
	Tiers []string
}

// Server is the HTTP API server.
type Server struct {
	router   chi.Router
	cfg      *config.Config
	svc      *index.Service
	search   Searcher
	live     LiveQuoter
	market   MarketSource
	wsHub    *WSHub
	logger   *zap.Logger
	validate *validator.Validate
	version  string
	tiers    []string
}

// NewServer creates a configured API server with all routes and middleware.
func NewServer(cfg *config.Config, deps Deps) (*Server, error) {
	if deps.Service == nil {
		return nil, errors.New("api: index service is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	hub := deps.Hub
	if hub == nil {
		hub = NewWSHub(logger)
	}
	version := deps.Version
	if version == "" {
		version = "dev"
	}

	srv := &Server{
		cfg:      cfg,
		svc:      deps.Service,
		search:   deps.Search,
		live:     deps.Live,
		market:   deps.Market,
		wsHub:    hub,
		logger:   logger,
		validate: validator.New(),
		version:  version,
		tiers:    deps.Tiers,
	}
	srv.router = srv.buildRouter()
	return srv, nil
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// Hub returns the WebSocket hub events are broadcast through.
func (s *Server) Hub() *WSHub {
	return s.wsHub
}

// Serve starts the HTTP server and the WebSocket hub, and shuts both
// down gracefully when ctx is cancelled.
func (s *Server) Serve(ctx context.Context, addr string) error {
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go s.wsHub.Run()
	defer s.wsHub.Close()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", addr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}

// buildRouter configures all routes and middleware.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	// CORS
	origins := []string{"*"}
	if s.cfg != nil && len(s.cfg.API.CORSOrigins) > 0 {
		origins = s.cfg.API.CORSOrigins
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", s.handleHealth)

	// The stream must not sit behind the request timeout.
	r.Get("/ws", s.handleWebSocket)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Timeout(120 * time.Second))

		// Generation
		r.Post("/generate-index", s.handleGenerateIndex)

		// Stored indexes
		r.Get("/indexes", s.handleListIndexes)
		r.Get("/trending-indexes", s.handleTrending)
		r.Get("/explore", s.handleExplore)
		r.Get("/portfolio", s.handlePortfolio)
		r.Route("/index/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetIndex)
			r.Patch("/", s.handleUpdateIndex)
			r.Get("/backtest", s.handleBacktest)
			r.Get("/history", s.handleHistory)
		})
		r.Post("/napkin", s.handleNapkin)

		// Market data
		r.Get("/search", s.handleSearch)
		r.Get("/stock-price/{symbol}", s.handleStockPrice)
		r.Get("/market-data", s.handleMarketData)

		// Configuration
		r.Get("/config/keys", s.handleGetConfigKeys)
	})

	return r
}
