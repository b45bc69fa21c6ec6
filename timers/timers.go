// Package timers runs the two background sweeps spec.md section 4.6
// describes: the per-second turn-timeout tick and the five-minute
// idle-room sweep. Both run under one cancelable errgroup, matching how
// the teacher's pack uses golang.org/x/sync/errgroup for bounded
// concurrent work elsewhere in the retrieval corpus (see DESIGN.md).
package timers

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jsholden/wordbourne/room"
	"golang.org/x/sync/errgroup"
)

// Config configures the background timers.
type Config struct {
	// Log receives lifecycle information. Required.
	Log *log.Logger
	// Debug, when true, logs every forced pass.
	Debug bool
	// Registry is the shared room registry. Required.
	Registry *room.Registry
	// OnTurnTimeout is invoked after a turn-timeout tick forces a pass in
	// a room, so the caller can broadcast the resulting state. ended
	// reports whether the forced pass ended the game.
	OnTurnTimeout func(code room.Code, ended bool)
	// OnIdleSweep is invoked with the codes of any rooms removed by an
	// idle sweep.
	OnIdleSweep func(codes []room.Code)
	// TurnTickInterval is how often the turn-timeout tick runs. Defaults
	// to one second per spec.md section 6.
	TurnTickInterval time.Duration
	// IdleSweepInterval is how often the idle sweep runs. Defaults to
	// five minutes per spec.md section 6.
	IdleSweepInterval time.Duration
	// IdleThreshold is how long a room may sit with no connected players
	// before the idle sweep removes it. Defaults to 30 minutes.
	IdleThreshold time.Duration
	// TimeFunc supplies the current time; defaults to time.Now.
	TimeFunc func() time.Time
}

func (cfg Config) validate() error {
	if cfg.Log == nil {
		return fmt.Errorf("timers: log required")
	}
	if cfg.Registry == nil {
		return fmt.Errorf("timers: registry required")
	}
	return nil
}

func (cfg Config) withDefaults() Config {
	if cfg.TurnTickInterval <= 0 {
		cfg.TurnTickInterval = time.Second
	}
	if cfg.IdleSweepInterval <= 0 {
		cfg.IdleSweepInterval = 5 * time.Minute
	}
	if cfg.IdleThreshold <= 0 {
		cfg.IdleThreshold = 30 * time.Minute
	}
	return cfg
}

func (cfg Config) now() time.Time {
	if cfg.TimeFunc != nil {
		return cfg.TimeFunc()
	}
	return time.Now()
}

// Run starts the turn-timeout tick and the idle sweep under one
// errgroup tied to ctx. It blocks until ctx is canceled, at which point
// both loops stop and Run returns nil: cancellation is not treated as a
// failure. An invalid cfg is reported as an error without starting either
// loop.
func (cfg Config) Run(ctx context.Context) error {
	if err := cfg.validate(); err != nil {
		return err
	}
	cfg = cfg.withDefaults()
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return cfg.runTurnTick(ctx)
	})
	g.Go(func() error {
		return cfg.runIdleSweep(ctx)
	})
	return g.Wait()
}

func (cfg Config) runTurnTick(ctx context.Context) error {
	ticker := time.NewTicker(cfg.TurnTickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			cfg.tick()
		}
	}
}

// tick forces a pass in every room whose active player's deadline has
// elapsed. Internal failures (a room concurrently deleted, for example)
// are swallowed, per spec.md section 7's "turn-timer-forced passes
// silently swallow any internal failure" rule.
func (cfg Config) tick() {
	now := cfg.now()
	for _, code := range cfg.Registry.Codes() {
		r, ok := cfg.Registry.Get(code)
		if !ok {
			continue
		}
		forced, ended := r.CheckTurnTimeout(now)
		if !forced {
			continue
		}
		if cfg.Debug {
			cfg.Log.Printf("timers: forced pass in room %s", code)
		}
		if cfg.OnTurnTimeout != nil {
			cfg.OnTurnTimeout(code, ended)
		}
	}
}

func (cfg Config) runIdleSweep(ctx context.Context) error {
	ticker := time.NewTicker(cfg.IdleSweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			removed := cfg.Registry.Sweep(cfg.IdleThreshold)
			if len(removed) == 0 {
				continue
			}
			cfg.Log.Printf("timers: idle sweep removed %d room(s)", len(removed))
			if cfg.OnIdleSweep != nil {
				cfg.OnIdleSweep(removed)
			}
		}
	}
}
