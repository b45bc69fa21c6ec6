package server

import (
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jsholden/wordbourne/bag"
	"github.com/jsholden/wordbourne/coordinator"
	"github.com/jsholden/wordbourne/dictionary"
	"github.com/jsholden/wordbourne/room"
	"github.com/jsholden/wordbourne/tile"
)

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}

func noShuffle(tiles []tile.Tile) {}

func testCoordinator(t *testing.T) *coordinator.Coordinator {
	t.Helper()
	registryCfg := room.RegistryConfig{
		Log:      log.New(testWriter{t}, "", 0),
		IntnFunc: func(n int) int { return 0 },
	}
	reg, err := registryCfg.NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}
	cfg := coordinator.Config{
		Log:                  log.New(testWriter{t}, "", 0),
		Registry:             reg,
		Dictionary:           dictionary.Config{}.NewPermissive(),
		Language:             bag.English,
		ShuffleFunc:          noShuffle,
		TurnDuration:         120 * time.Second,
		MaxConsecutivePasses: 6,
	}
	co, err := cfg.New()
	if err != nil {
		t.Fatalf("coordinator New() error = %v", err)
	}
	return co
}

func TestNewServerRequiresDependencies(t *testing.T) {
	if _, err := (Config{}).NewServer(); err == nil {
		t.Error("wanted an error for an empty config")
	}
}

func TestHandleHealthz(t *testing.T) {
	cfg := Config{Log: log.New(testWriter{t}, "", 0), Coordinator: testCoordinator(t)}
	s, err := cfg.NewServer()
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	s.httpServer.Handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}
