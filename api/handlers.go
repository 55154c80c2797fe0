package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/seenimoa/genassets/internal/index"
	"github.com/seenimoa/genassets/pkg/models"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Message string `json:"message"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Clients int    `json:"clients"`
}

// GenerateRequest is the body for POST /api/generate-index.
type GenerateRequest struct {
	Prompt string `json:"prompt" validate:"required"`
}

// UpdateIndexRequest is the body for PATCH /api/index/{id}.
type UpdateIndexRequest struct {
	IsPublic    *bool   `json:"isPublic,omitempty"`
	Name        *string `json:"name,omitempty"        validate:"omitempty,min=1,max=200"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
}

// NapkinRequest is the body for POST /api/napkin.
type NapkinRequest struct {
	IndexID uint64 `json:"indexId" validate:"required"`
}

// Client-facing error messages.
const (
	msgPromptRequired     = "Prompt is required"
	msgIndexNotFound      = "Index not found"
	msgInvalidIndexID     = "Invalid index ID"
	msgIndexIDRequired    = "Index ID is required"
	msgInvalidDays        = "Invalid days"
	msgNoUpdateFields     = "No fields to update"
	msgQueryRequired      = "Search query is required"
	msgStockPriceNotFound = "Stock price not found"
)

// stockPriceNotFound is the 404 body of GET /api/stock-price/{symbol}.
type stockPriceNotFound struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ============================================================
// Handlers
// ============================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: s.version,
		Clients: s.wsHub.ClientCount(),
	})
}

func (s *Server) handleGenerateIndex(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || s.validate.Struct(req) != nil {
		s.writeError(w, http.StatusBadRequest, msgPromptRequired)
		return
	}

	result, err := s.svc.Generate(r.Context(), req.Prompt)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleGetIndex(w http.ResponseWriter, r *http.Request) {
	id, ok := s.indexID(w, r)
	if !ok {
		return
	}
	idx, err := s.svc.Get(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, idx)
}

func (s *Server) handleUpdateIndex(w http.ResponseWriter, r *http.Request) {
	id, ok := s.indexID(w, r)
	if !ok {
		return
	}

	var req UpdateIndexRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	upd := models.IndexUpdate{
		IsPublic:    req.IsPublic,
		Name:        req.Name,
		Description: req.Description,
	}
	if upd.Empty() {
		s.writeError(w, http.StatusBadRequest, msgNoUpdateFields)
		return
	}

	updated, err := s.svc.Update(r.Context(), id, upd)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleListIndexes(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("stocks") == "false" {
		list, err := s.svc.List(r.Context())
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		s.writeJSON(w, http.StatusOK, list)
		return
	}

	list, err := s.svc.ListWithStocks(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleTrending(w http.ResponseWriter, r *http.Request) {
	list, err := s.svc.Trending(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleExplore(w http.ResponseWriter, r *http.Request) {
	list, err := s.svc.Explore(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, list)
}

func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	sum, err := s.svc.Portfolio(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, sum)
}

func (s *Server) handleBacktest(w http.ResponseWriter, r *http.Request) {
	id, ok := s.indexID(w, r)
	if !ok {
		return
	}
	rep, err := s.svc.Backtest(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, rep)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := s.indexID(w, r)
	if !ok {
		return
	}
	days := index.StoredHistoryPoints
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			s.writeError(w, http.StatusBadRequest, msgInvalidDays)
			return
		}
		days = n
	}
	points, err := s.svc.History(r.Context(), id, days)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, points)
}

func (s *Server) handleNapkin(w http.ResponseWriter, r *http.Request) {
	var req NapkinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || s.validate.Struct(req) != nil {
		s.writeError(w, http.StatusBadRequest, msgIndexIDRequired)
		return
	}
	chart, err := s.svc.ChartData(r.Context(), req.IndexID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, chart)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("query"))
	if query == "" {
		s.writeError(w, http.StatusBadRequest, msgQueryRequired)
		return
	}
	if s.search == nil {
		s.writeError(w, http.StatusServiceUnavailable, "search is not configured")
		return
	}
	s.writeJSON(w, http.StatusOK, s.search.Search(r.Context(), query))
}

func (s *Server) handleStockPrice(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "symbol")))
	if symbol == "" {
		s.writeError(w, http.StatusBadRequest, "symbol is required")
		return
	}
	if s.live == nil {
		s.writeJSON(w, http.StatusNotFound, stockPriceNotFound{Message: msgStockPriceNotFound})
		return
	}

	quote, err := s.live.Quote(r.Context(), symbol)
	if err != nil {
		s.logger.Debug("live quote unavailable", zap.String("symbol", symbol), zap.Error(err))
		s.writeJSON(w, http.StatusNotFound, stockPriceNotFound{Message: msgStockPriceNotFound})
		return
	}
	s.writeJSON(w, http.StatusOK, quote)
}

func (s *Server) handleMarketData(w http.ResponseWriter, r *http.Request) {
	if s.market == nil {
		s.writeError(w, http.StatusServiceUnavailable, "market data is not configured")
		return
	}
	s.writeJSON(w, http.StatusOK, s.market.MarketSnapshot(r.Context()))
}

// ============================================================
// Helpers
// ============================================================

// indexID parses the {id} URL parameter, writing a 400 when invalid.
func (s *Server) indexID(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id == 0 {
		s.writeError(w, http.StatusBadRequest, msgInvalidIndexID)
		return 0, false
	}
	return id, true
}

// writeServiceError maps service errors to status codes.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, index.ErrInvalidPrompt):
		s.writeError(w, http.StatusBadRequest, msgPromptRequired)
	case errors.Is(err, index.ErrIndexNotFound):
		s.writeError(w, http.StatusNotFound, msgIndexNotFound)
	default:
		s.logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		s.writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("failed to write JSON response", zap.Int("status", status), zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, ErrorResponse{Message: msg})
}
