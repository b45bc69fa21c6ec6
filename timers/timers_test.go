package timers

import (
	"context"
	"log"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jsholden/wordbourne/dictionary"
	"github.com/jsholden/wordbourne/game"
	"github.com/jsholden/wordbourne/player"
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

func testRegistry(t *testing.T) *room.Registry {
	t.Helper()
	var n int
	cfg := room.RegistryConfig{
		Log: log.New(testWriter{t}, "", 0),
		IntnFunc: func(n2 int) int {
			i := n % n2
			n++
			return i
		},
	}
	reg, err := cfg.NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}
	return reg
}

func TestValidateRequiresDependencies(t *testing.T) {
	if err := (Config{}).validate(); err == nil {
		t.Error("wanted an error for an empty config")
	}
}

func TestTickForcesTimedOutTurns(t *testing.T) {
	reg := testRegistry(t)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	r, host, err := reg.CreateRoom(2, "host", "")
	if err != nil {
		t.Fatalf("CreateRoom() error = %v", err)
	}
	guest := player.New("guest", "Guest")
	r.Join(guest, now)
	r.SetReady(host.ID, true, now)
	r.SetReady(guest.ID, true, now)
	gameCfg := game.Config{
		Log:                  log.New(testWriter{t}, "", 0),
		ShuffleFunc:          noShuffle,
		Dictionary:           dictionary.Config{}.NewPermissive(),
		TurnDuration:         time.Second,
		MaxConsecutivePasses: 6,
		TimeFunc:             func() time.Time { return now },
	}
	if _, err := r.StartGame(host.ID, gameCfg, now); err != nil {
		t.Fatalf("StartGame() error = %v", err)
	}
	before, _ := r.ActivePlayerID()

	var mu sync.Mutex
	var gotCode room.Code
	var calls int
	current := now
	cfg := Config{
		Log:      log.New(testWriter{t}, "", 0),
		Registry: reg,
		OnTurnTimeout: func(code room.Code, ended bool) {
			mu.Lock()
			gotCode = code
			calls++
			mu.Unlock()
		},
		TimeFunc: func() time.Time { return current },
	}.withDefaults()

	current = now.Add(2 * time.Second)
	cfg.tick()

	mu.Lock()
	defer mu.Unlock()
	if calls != 1 {
		t.Fatalf("OnTurnTimeout called %d times, want 1", calls)
	}
	if gotCode != r.Code {
		t.Errorf("OnTurnTimeout code = %v, want %v", gotCode, r.Code)
	}
	after, _ := r.ActivePlayerID()
	if after == before {
		t.Error("wanted the active player to change after a forced pass")
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	reg := testRegistry(t)
	cfg := Config{
		Log:               log.New(testWriter{t}, "", 0),
		Registry:          reg,
		TurnTickInterval:  time.Millisecond,
		IdleSweepInterval: time.Millisecond,
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- cfg.Run(ctx) }()
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v, want nil on cancellation", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run() did not return after context cancellation")
	}
}
