// Package coordinator implements the session coordinator (spec.md section
// 4.5): it binds transport connections to players, decodes wire envelopes,
// dispatches them to the room registry and per-room game lifecycle, and
// fans out personalized broadcasts. It is the only package that imports
// both message and transport.
package coordinator

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/jsholden/wordbourne/bag"
	"github.com/jsholden/wordbourne/dictionary"
	"github.com/jsholden/wordbourne/errcode"
	"github.com/jsholden/wordbourne/game"
	"github.com/jsholden/wordbourne/message"
	"github.com/jsholden/wordbourne/player"
	"github.com/jsholden/wordbourne/room"
	"github.com/jsholden/wordbourne/rules"
	"github.com/jsholden/wordbourne/transport"
)

// Config configures a Coordinator. Every long-lived dependency is
// injected, mirroring the ambient stack's Config+validate() idiom used
// throughout this module.
type Config struct {
	// Log receives lifecycle and debug information. Required.
	Log *log.Logger
	// Debug, when true, logs every dispatched message type, matching the
	// teacher's Debug bool + "if cfg.Debug" idiom.
	Debug bool
	// Registry is the shared room registry. Required.
	Registry *room.Registry
	// Dictionary validates words formed by plays. Required.
	Dictionary *dictionary.Checker
	// Language selects the bag's letter distribution for new games.
	Language bag.Language
	// ShuffleFunc shuffles a new game's bag. Required.
	ShuffleFunc bag.ShuffleFunc
	// TurnDuration is how long a player has to act before the turn
	// timer forces a pass.
	TurnDuration time.Duration
	// MaxConsecutivePasses ends the game once reached.
	MaxConsecutivePasses int
	// ExchangeCountsAsPass mirrors game.Config's policy switch.
	ExchangeCountsAsPass bool
	// TimeFunc supplies the current time; defaults to time.Now.
	TimeFunc func() time.Time
	// SendBufferSize bounds each connection's outbound queue.
	SendBufferSize int
}

func (cfg Config) validate() error {
	switch {
	case cfg.Log == nil:
		return fmt.Errorf("coordinator: log required")
	case cfg.Registry == nil:
		return fmt.Errorf("coordinator: registry required")
	case cfg.Dictionary == nil:
		return fmt.Errorf("coordinator: dictionary required")
	case cfg.ShuffleFunc == nil:
		return fmt.Errorf("coordinator: shuffle func required")
	case cfg.TurnDuration <= 0:
		return fmt.Errorf("coordinator: positive turn duration required")
	case cfg.MaxConsecutivePasses <= 0:
		return fmt.Errorf("coordinator: positive max consecutive passes required")
	}
	return nil
}

func (cfg Config) now() time.Time {
	if cfg.TimeFunc != nil {
		return cfg.TimeFunc()
	}
	return time.Now()
}

func (cfg Config) gameConfig() game.Config {
	return game.Config{
		Log:                  cfg.Log,
		Debug:                cfg.Debug,
		Language:             cfg.Language,
		ShuffleFunc:          cfg.ShuffleFunc,
		Dictionary:           cfg.Dictionary,
		TurnDuration:         cfg.TurnDuration,
		MaxConsecutivePasses: cfg.MaxConsecutivePasses,
		ExchangeCountsAsPass: cfg.ExchangeCountsAsPass,
		TimeFunc:             cfg.TimeFunc,
	}
}

func (cfg Config) sendBufferSize() int {
	if cfg.SendBufferSize > 0 {
		return cfg.SendBufferSize
	}
	return 16
}

// Coordinator binds transport connections to players and serializes
// inbound messages to the room each connection is currently in (the room
// itself owns the actual serialization lock, per spec.md section 5).
type Coordinator struct {
	cfg Config

	mu       sync.Mutex
	byPlayer map[player.ID]*client
}

// client is the coordinator's bookkeeping for one live connection.
type client struct {
	send     chan message.Message
	playerID player.ID
	roomCode room.Code
}

// New creates a Coordinator from cfg.
func (cfg Config) New() (*Coordinator, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Coordinator{cfg: cfg, byPlayer: make(map[player.ID]*client)}, nil
}

// Serve drives one connection until it closes: it starts the write pump,
// reads frames in a loop, dispatches each to the appropriate handler, and
// cleans up the player's binding on the way out. Serve blocks until conn
// closes or ctx is canceled.
func (co *Coordinator) Serve(ctx context.Context, conn transport.Conn) {
	defer conn.Close()

	c := &client{send: make(chan message.Message, co.cfg.sendBufferSize())}
	writeDone := make(chan struct{})
	go co.writePump(conn, c, writeDone)

	defer func() {
		close(c.send)
		<-writeDone
		co.disconnect(c)
	}()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		var m message.Message
		if err := conn.ReadMessage(&m); err != nil {
			if !conn.IsNormalClose(err) {
				co.cfg.Log.Printf("coordinator: read error: %v", err)
			}
			return
		}
		if co.cfg.Debug {
			co.cfg.Log.Printf("coordinator: received %s", m.Type)
		}
		co.dispatch(ctx, c, m)
	}
}

func (co *Coordinator) writePump(conn transport.Conn, c *client, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(transport.PingPeriod)
	defer ticker.Stop()
	for {
		select {
		case m, ok := <-c.send:
			if !ok {
				conn.WriteClose("server closing connection")
				return
			}
			if err := conn.WriteMessage(m); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.WritePing(); err != nil {
				return
			}
		}
	}
}

// dispatch decodes m's payload and routes it to the matching handler,
// per spec.md section 9's "decode to a tagged variant at the coordinator
// boundary" design note. Unknown types and malformed payloads are
// answered without touching any game state.
func (co *Coordinator) dispatch(ctx context.Context, c *client, m message.Message) {
	switch m.Type {
	case message.TypeCreateRoom:
		co.handleCreateRoom(c, m.Payload)
	case message.TypeJoinRoom:
		co.handleJoinRoom(c, m.Payload)
	case message.TypeReconnect:
		co.handleReconnect(c, m.Payload)
	case message.TypeToggleReady:
		co.handleToggleReady(c, m.Payload)
	case message.TypeStartGame:
		co.handleStartGame(c, m.Payload)
	case message.TypePlayMove:
		co.handlePlayMove(ctx, c, m.Payload)
	case message.TypeLeaveRoom:
		co.handleLeaveRoom(ctx, c, m.Payload)
	default:
		co.sendError(c, errcode.UnknownType)
	}
}

func (co *Coordinator) bind(c *client, playerID player.ID, code room.Code) {
	co.mu.Lock()
	defer co.mu.Unlock()
	c.playerID = playerID
	c.roomCode = code
	co.byPlayer[playerID] = c
}

// disconnect marks c's player disconnected (if still bound to a room)
// and clears the coordinator's binding. The player remains a room member
// for a later reconnect, per spec.md section 4.5.
func (co *Coordinator) disconnect(c *client) {
	if c.playerID == "" {
		return
	}
	co.mu.Lock()
	if co.byPlayer[c.playerID] == c {
		delete(co.byPlayer, c.playerID)
	}
	co.mu.Unlock()

	if c.roomCode == "" {
		return
	}
	r, ok := co.cfg.Registry.Get(c.roomCode)
	if !ok {
		return
	}
	r.SetConnected(c.playerID, false, co.cfg.now())
	co.broadcastRoomUpdate(r)
}

// send enqueues m on c's outbound channel without blocking the caller on
// a full buffer, preserving per-connection send order for everything
// that does get through while never holding a room lock on the send.
func (co *Coordinator) send(c *client, m message.Message) {
	select {
	case c.send <- m:
	default:
		co.cfg.Log.Printf("coordinator: dropping message for player %s, send buffer full", c.playerID)
	}
}

func (co *Coordinator) sendError(c *client, code errcode.Code) {
	co.send(c, message.New(message.TypeError, message.ErrorPayload{Code: string(code), Message: code.Message()}))
}

func (co *Coordinator) sendInvalidMove(c *client, code room.Code, err error) {
	reason, word := errcode.ServerError, ""
	switch e := err.(type) {
	case *rules.RuleError:
		reason, word = e.Code, e.Word
	case *room.Error:
		reason = e.Code
	}
	co.send(c, message.New(message.TypeInvalidMove, message.InvalidMovePayload{
		RoomID: string(code),
		Reason: string(reason),
		Word:   word,
	}))
}
