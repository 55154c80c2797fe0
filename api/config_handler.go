package api

import (
	"net/http"

	"github.com/seenimoa/genassets/internal/config"
)

// KeysResponse is the body of GET /api/config/keys.
type KeysResponse struct {
	Keys []config.KeyStatus `json:"keys"`
	// Tiers lists the company generator tiers in fallback order.
	Tiers []string `json:"tiers,omitempty"`
}

// handleGetConfigKeys reports which provider keys are set, masked.
func (s *Server) handleGetConfigKeys(w http.ResponseWriter, r *http.Request) {
	cfg := s.cfg
	if cfg == nil {
		cfg = &config.Config{}
	}
	s.writeJSON(w, http.StatusOK, KeysResponse{
		Keys:  config.CheckAPIKeys(cfg),
		Tiers: s.tiers,
	})
}
