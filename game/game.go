// Package game owns the per-room game lifecycle: the board, the bag, the
// turn pointer, and dispatching play/pass/exchange actions to the rules
// engine.
package game

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jsholden/wordbourne/bag"
	"github.com/jsholden/wordbourne/board"
	"github.com/jsholden/wordbourne/dictionary"
	"github.com/jsholden/wordbourne/errcode"
	"github.com/jsholden/wordbourne/player"
	"github.com/jsholden/wordbourne/rules"
	"github.com/jsholden/wordbourne/tile"
)

// Action names the kind of move a player submitted.
type Action string

const (
	Play     Action = "play"
	Pass     Action = "pass"
	Exchange Action = "exchange"
)

// Status is the lifecycle state of a game.
type Status string

const (
	Playing  Status = "playing"
	Finished Status = "finished"
)

// RackSize is the number of tiles a player's rack holds when the bag has
// enough tiles left.
const RackSize = 7

// MoveSummary records one applied action in the game's append-only move
// log.
type MoveSummary struct {
	PlayerID   player.ID        `json:"playerId"`
	Action     Action           `json:"action"`
	Words      []rules.WordResult `json:"words,omitempty"`
	Score      int              `json:"score"`
	Placements []rules.Placement `json:"placements,omitempty"`
	TurnNumber int              `json:"turnNumber"`
	At         time.Time        `json:"at"`
}

// Config configures a Game. Every long-lived field mirrors the ambient
// stack: an injected logger, an injected shuffle function, and an
// injected clock so tests can run deterministically.
type Config struct {
	// Log receives lifecycle and debug information. Required.
	Log *log.Logger
	// Debug, when true, logs every dispatched action.
	Debug bool
	// Language selects the bag's letter distribution.
	Language bag.Language
	// ShuffleFunc shuffles tiles for the bag. Required.
	ShuffleFunc bag.ShuffleFunc
	// Dictionary validates words formed by plays. Required.
	Dictionary *dictionary.Checker
	// TurnDuration is how long a player has to act before the turn
	// timer forces a pass.
	TurnDuration time.Duration
	// MaxConsecutivePasses is the number of consecutive non-scoring
	// actions that ends the game.
	MaxConsecutivePasses int
	// ExchangeCountsAsPass makes an exchange increment the stall
	// counter the same way a pass does, per spec.md's open question
	// about this behavior.
	ExchangeCountsAsPass bool
	// TimeFunc supplies the current time; defaults to time.Now.
	TimeFunc func() time.Time
}

func (cfg Config) validate() error {
	switch {
	case cfg.Log == nil:
		return fmt.Errorf("game: log required")
	case cfg.ShuffleFunc == nil:
		return fmt.Errorf("game: shuffle func required")
	case cfg.Dictionary == nil:
		return fmt.Errorf("game: dictionary required")
	case cfg.TurnDuration <= 0:
		return fmt.Errorf("game: positive turn duration required")
	case cfg.MaxConsecutivePasses <= 0:
		return fmt.Errorf("game: positive max consecutive passes required")
	}
	return nil
}

func (cfg Config) now() time.Time {
	if cfg.TimeFunc != nil {
		return cfg.TimeFunc()
	}
	return time.Now()
}

// Game is the mutable per-room game state described in spec.md section 3.
type Game struct {
	cfg Config

	Board             *board.Board
	Bag               *bag.Bag
	Players           []*player.Player
	TurnIndex         int
	TurnDeadline      time.Time
	MoveLog           []MoveSummary
	ConsecutivePasses int
	StartedAt         time.Time
	Version           int
	Status            Status
}

// Start builds a fresh game for the given players, per spec.md's
// startGame contract: reset player state, paint the board, build and
// shuffle the bag, deal racks, and point the turn at players[0].
func (cfg Config) Start(players []*player.Player) (*Game, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if len(players) == 0 {
		return nil, fmt.Errorf("game: at least one player required")
	}
	b, err := bag.New(cfg.Language, cfg.ShuffleFunc)
	if err != nil {
		return nil, err
	}
	for _, p := range players {
		p.ResetForGameStart()
		p.Rack = b.Draw(RackSize)
	}
	g := &Game{
		cfg:          cfg,
		Board:        board.New(),
		Bag:          b,
		Players:      players,
		TurnIndex:    0,
		StartedAt:    cfg.now(),
		Version:      1,
		Status:       Playing,
		TurnDeadline: cfg.now().Add(cfg.TurnDuration),
	}
	if cfg.Debug {
		cfg.Log.Printf("game: started with %d players, language=%v", len(players), cfg.Language)
	}
	return g, nil
}

// ActivePlayer returns the player whose turn it currently is.
func (g *Game) ActivePlayer() *player.Player {
	return g.Players[g.TurnIndex]
}

// PlayMove dispatches a play, pass, or exchange action for playerID.
// It rejects the move with NOT_YOUR_TURN if playerID is not
// g.ActivePlayer().ID. Callers must ensure that mutation of this game is
// serialized, per spec.md section 5.
func (g *Game) PlayMove(ctx context.Context, playerID player.ID, action Action, placements []rules.Placement, exchangeIDs []tile.ID) (*MoveSummary, bool, error) {
	if g.Status != Playing {
		return nil, false, &rules.RuleError{Code: errcode.InvalidState}
	}
	p := g.ActivePlayer()
	if p.ID != playerID {
		return nil, false, &rules.RuleError{Code: errcode.NotYourTurn}
	}

	var summary MoveSummary
	switch action {
	case Pass:
		g.applyPass(p)
		summary = MoveSummary{PlayerID: playerID, Action: Pass, TurnNumber: g.Version, At: g.cfg.now()}
	case Exchange:
		if err := g.applyExchange(p, exchangeIDs); err != nil {
			return nil, false, err
		}
		summary = MoveSummary{PlayerID: playerID, Action: Exchange, TurnNumber: g.Version, At: g.cfg.now()}
	case Play:
		result, err := rules.Validate(ctx, g.Board, p.Rack, placements, g.cfg.Dictionary)
		if err != nil {
			return nil, false, err
		}
		g.applyPlay(p, result, placements)
		summary = MoveSummary{
			PlayerID:   playerID,
			Action:     Play,
			Words:      result.Words,
			Score:      result.Score,
			Placements: placements,
			TurnNumber: g.Version,
			At:         g.cfg.now(),
		}
	default:
		return nil, false, &rules.RuleError{Code: errcode.BadPayload}
	}

	g.MoveLog = append(g.MoveLog, summary)
	if g.cfg.Debug {
		g.cfg.Log.Printf("game: player %s action=%s score=%d", playerID, action, summary.Score)
	}

	ended := g.checkEnd()
	if !ended {
		g.advanceTurn()
	}
	return &summary, ended, nil
}

func (g *Game) applyPass(p *player.Player) {
	p.Stats.Passes++
	g.ConsecutivePasses++
}

func (g *Game) applyExchange(p *player.Player, ids []tile.ID) error {
	if err := rules.ValidateExchange(p.Rack, ids, g.Bag.Size()); err != nil {
		return err
	}
	removed := p.RemoveTileIDs(ids)
	g.Bag.Return(removed)
	p.Rack = append(p.Rack, g.Bag.Draw(len(removed))...)
	p.Stats.Passes++
	if g.cfg.ExchangeCountsAsPass {
		g.ConsecutivePasses++
	}
	return nil
}

func (g *Game) applyPlay(p *player.Player, result *rules.Result, placements []rules.Placement) {
	rules.Commit(g.Board, result, string(p.ID), g.Version)
	ids := make([]tile.ID, len(placements))
	for i, pl := range placements {
		ids[i] = pl.TileID
	}
	p.RemoveTileIDs(ids)
	need := RackSize - len(p.Rack)
	if need > 0 {
		p.Rack = append(p.Rack, g.Bag.Draw(need)...)
	}
	p.Score += result.Score
	p.Stats.WordsPlayed += len(result.Words)
	p.Stats.TotalTurns++
	for _, w := range result.Words {
		if w.Score > p.Stats.BestWordScore {
			p.Stats.BestWordScore = w.Score
			p.Stats.BestWord = w.Word
		}
	}
	g.ConsecutivePasses = 0
}

// advanceTurn moves the turn pointer to the next player, resets the
// deadline, and increments the version counter.
func (g *Game) advanceTurn() {
	g.TurnIndex = (g.TurnIndex + 1) % len(g.Players)
	g.TurnDeadline = g.cfg.now().Add(g.cfg.TurnDuration)
	g.Version++
}

// ForcePass is invoked by the turn timer when the active player's
// deadline has elapsed without a submission. It behaves exactly like a
// player-submitted pass.
func (g *Game) ForcePass() {
	p := g.ActivePlayer()
	g.applyPass(p)
	g.MoveLog = append(g.MoveLog, MoveSummary{PlayerID: p.ID, Action: Pass, TurnNumber: g.Version, At: g.cfg.now()})
	if !g.checkEnd() {
		g.advanceTurn()
	}
}

// checkEnd ends the game when the bag is empty and some rack is empty, or
// the consecutive-pass counter reaches the configured maximum. It applies
// the end-of-game scoring adjustment described in spec.md section 4.3.
func (g *Game) checkEnd() bool {
	emptyRackCount, emptyRackPlayer := 0, -1
	for i, p := range g.Players {
		if len(p.Rack) == 0 {
			emptyRackCount++
			emptyRackPlayer = i
		}
	}
	bagEmptyEnd := g.Bag.Size() == 0 && emptyRackCount > 0
	stalled := g.ConsecutivePasses >= g.cfg.MaxConsecutivePasses
	if !bagEmptyEnd && !stalled {
		return false
	}
	if emptyRackCount != 1 {
		emptyRackPlayer = -1
	}

	others := 0
	for i, p := range g.Players {
		if i == emptyRackPlayer {
			continue
		}
		others += p.RackValue()
	}
	for i, p := range g.Players {
		p.Score -= p.RackValue()
		if i == emptyRackPlayer {
			p.Score += others
		}
	}
	g.Status = Finished
	g.Version++
	return true
}
