package infra

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		level string
		want  zap.AtomicLevel
	}{
		{"debug", zap.NewAtomicLevelAt(zap.DebugLevel)},
		{"INFO", zap.NewAtomicLevelAt(zap.InfoLevel)},
		{"warn", zap.NewAtomicLevelAt(zap.WarnLevel)},
		{"error", zap.NewAtomicLevelAt(zap.ErrorLevel)},
		{"bogus", zap.NewAtomicLevelAt(zap.InfoLevel)},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger, err := NewLogger(tt.level, "json")
			if err != nil {
				t.Fatalf("NewLogger(%q) error: %v", tt.level, err)
			}
			if !logger.Core().Enabled(tt.want.Level()) {
				t.Errorf("level %s should be enabled", tt.want.Level())
			}
			if tt.want.Level() > zap.DebugLevel && logger.Core().Enabled(zap.DebugLevel) {
				t.Error("debug should be disabled above debug level")
			}
		})
	}
}

func TestNewHTTPClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ping" {
			t.Errorf("path: got %q, want /ping", r.URL.Path)
		}
		w.Write([]byte(`{"ok":true}`)) //nolint:errcheck
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL+"/", 0)
	if client.GetClient().Timeout != DefaultHTTPTimeout {
		t.Errorf("Timeout: got %v, want %v", client.GetClient().Timeout, DefaultHTTPTimeout)
	}

	resp, err := client.R().Get("/ping")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if resp.StatusCode() != http.StatusOK {
		t.Errorf("status: got %d", resp.StatusCode())
	}

	custom := NewHTTPClient(srv.URL, 2*time.Second)
	if custom.GetClient().Timeout != 2*time.Second {
		t.Errorf("custom Timeout: got %v", custom.GetClient().Timeout)
	}
}
