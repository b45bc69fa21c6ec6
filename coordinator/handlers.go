package coordinator

import (
	"context"
	"encoding/json"
	"math"

	"github.com/jsholden/wordbourne/errcode"
	"github.com/jsholden/wordbourne/game"
	"github.com/jsholden/wordbourne/message"
	"github.com/jsholden/wordbourne/player"
	"github.com/jsholden/wordbourne/room"
	"github.com/jsholden/wordbourne/rules"
	"github.com/jsholden/wordbourne/tile"
)

func (co *Coordinator) handleCreateRoom(c *client, raw json.RawMessage) {
	var p message.CreateRoomPayload
	if err := json.Unmarshal(raw, &p); err != nil || p.Nickname == "" {
		co.sendError(c, errcode.BadPayload)
		return
	}
	r, pl, err := co.cfg.Registry.CreateRoom(p.MaxPlayers, p.Nickname, player.ID(p.PlayerID))
	if err != nil {
		co.sendError(c, codeOf(err))
		return
	}
	r.SetConnected(pl.ID, true, co.cfg.now())
	co.bind(c, pl.ID, r.Code)
	co.sendFullState(c, r, pl.ID)
	co.broadcastRoomUpdate(r)
}

func (co *Coordinator) handleJoinRoom(c *client, raw json.RawMessage) {
	var p message.JoinRoomPayload
	if err := json.Unmarshal(raw, &p); err != nil || p.RoomID == "" || p.Nickname == "" {
		co.sendError(c, errcode.BadPayload)
		return
	}
	r, pl, err := co.cfg.Registry.JoinRoom(room.Code(p.RoomID), p.Nickname, player.ID(p.PlayerID))
	if err != nil {
		co.sendError(c, codeOf(err))
		return
	}
	r.SetConnected(pl.ID, true, co.cfg.now())
	co.bind(c, pl.ID, r.Code)
	co.sendFullState(c, r, pl.ID)
	co.broadcastRoomUpdate(r)
}

func (co *Coordinator) handleReconnect(c *client, raw json.RawMessage) {
	var p message.ReconnectPayload
	if err := json.Unmarshal(raw, &p); err != nil || p.PlayerID == "" || p.LastRoomID == "" {
		co.sendError(c, errcode.BadPayload)
		return
	}
	playerID := player.ID(p.PlayerID)
	r, ok := co.cfg.Registry.Get(room.Code(p.LastRoomID))
	if !ok || !r.Member(playerID) {
		co.sendError(c, errcode.RoomNotFound)
		return
	}
	r.SetConnected(playerID, true, co.cfg.now())
	co.bind(c, playerID, r.Code)
	co.sendFullState(c, r, playerID)
	co.broadcastRoomUpdate(r)
}

func (co *Coordinator) handleToggleReady(c *client, raw json.RawMessage) {
	var p message.ToggleReadyPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		co.sendError(c, errcode.BadPayload)
		return
	}
	r, ok := co.roomOf(c, room.Code(p.RoomID))
	if !ok {
		return
	}
	if err := r.SetReady(c.playerID, p.Ready, co.cfg.now()); err != nil {
		co.sendError(c, codeOf(err))
		return
	}
	co.broadcastRoomUpdate(r)
}

func (co *Coordinator) handleStartGame(c *client, raw json.RawMessage) {
	var p message.StartGamePayload
	if err := json.Unmarshal(raw, &p); err != nil {
		co.sendError(c, errcode.BadPayload)
		return
	}
	r, ok := co.roomOf(c, room.Code(p.RoomID))
	if !ok {
		return
	}
	if _, err := r.StartGame(c.playerID, co.cfg.gameConfig(), co.cfg.now()); err != nil {
		co.sendError(c, codeOf(err))
		return
	}
	co.broadcastRoomUpdate(r)
	co.broadcastGameState(r)
	co.broadcastTurnUpdate(r)
}

func (co *Coordinator) handlePlayMove(ctx context.Context, c *client, raw json.RawMessage) {
	var p message.PlayMovePayload
	if err := json.Unmarshal(raw, &p); err != nil {
		co.sendError(c, errcode.BadPayload)
		return
	}
	r, ok := co.roomOf(c, room.Code(p.RoomID))
	if !ok {
		return
	}
	action := game.Action(p.Action)
	placements := make([]rules.Placement, len(p.Placements))
	for i, pl := range p.Placements {
		var ch rune
		if len(pl.ChosenLetter) > 0 {
			ch = []rune(pl.ChosenLetter)[0]
		}
		placements[i] = rules.Placement{X: pl.X, Y: pl.Y, TileID: tile.ID(pl.TileID), ChosenLetter: ch}
	}
	exchangeIDs := make([]tile.ID, len(p.TileIDsToExchange))
	for i, id := range p.TileIDsToExchange {
		exchangeIDs[i] = tile.ID(id)
	}

	summary, ended, err := r.PlayMove(ctx, c.playerID, action, placements, exchangeIDs, co.cfg.now())
	if err != nil {
		co.sendInvalidMove(c, r.Code, err)
		return
	}
	co.send(c, message.New(message.TypeMoveAccepted, message.MoveAcceptedPayload{
		RoomID: string(r.Code),
		Move:   room.MoveViewOf(*summary),
	}))
	co.broadcastGameState(r)
	co.broadcastTurnUpdate(r)
	if ended {
		co.broadcastGameEnded(r)
	}
}

func (co *Coordinator) handleLeaveRoom(ctx context.Context, c *client, raw json.RawMessage) {
	var p message.LeaveRoomPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		co.sendError(c, errcode.BadPayload)
		return
	}
	r, ok := co.roomOf(c, room.Code(p.RoomID))
	if !ok {
		return
	}
	// If the leaver is mid-game and it is their turn, force a pass first
	// so the game is never left waiting on a player who just departed,
	// per spec.md section 4.5.
	if active, isActive := r.ActivePlayerID(); isActive && active == c.playerID {
		r.PlayMove(ctx, c.playerID, game.Pass, nil, nil, co.cfg.now())
	}
	deleted, err := co.cfg.Registry.RemovePlayer(r.Code, c.playerID)
	if err != nil {
		co.sendError(c, codeOf(err))
		return
	}
	co.mu.Lock()
	delete(co.byPlayer, c.playerID)
	co.mu.Unlock()
	c.roomCode = ""
	if !deleted {
		co.broadcastRoomUpdate(r)
	}
}

// HandleTurnTimeout broadcasts the result of a turn-timer-forced pass in
// roomCode: a personalized game state and turn update to every connected
// member, plus a gameEnded message if the forced pass ended the game.
// Wired as the timers package's OnTurnTimeout callback.
func (co *Coordinator) HandleTurnTimeout(roomCode room.Code, ended bool) {
	r, ok := co.cfg.Registry.Get(roomCode)
	if !ok {
		return
	}
	co.broadcastGameState(r)
	co.broadcastTurnUpdate(r)
	if ended {
		co.broadcastGameEnded(r)
	}
}

// roomOf resolves c's bound room and verifies membership, answering
// NOT_IN_ROOM/ROOM_NOT_FOUND on failure so handlers share one guard.
func (co *Coordinator) roomOf(c *client, code room.Code) (*room.Room, bool) {
	r, ok := co.cfg.Registry.Get(code)
	if !ok {
		co.sendError(c, errcode.RoomNotFound)
		return nil, false
	}
	if c.playerID == "" || !r.Member(c.playerID) {
		co.sendError(c, errcode.NotInRoom)
		return nil, false
	}
	return r, true
}

func (co *Coordinator) sendFullState(c *client, r *room.Room, playerID player.ID) {
	payload := message.FullStatePayload{Room: r.View(), GameState: r.StateFor(playerID)}
	co.send(c, message.New(message.TypeFullState, payload))
}

// broadcastRoomUpdate sends every connected member of r the room's
// current public metadata.
func (co *Coordinator) broadcastRoomUpdate(r *room.Room) {
	view := r.View()
	co.forEachConnected(r, func(c *client) {
		co.send(c, message.New(message.TypeRoomUpdate, message.RoomUpdatePayload{Room: view}))
	})
}

// broadcastGameState sends every connected member a personalized game
// state snapshot, built under the room's lock and sent outside it, per
// spec.md section 5.
func (co *Coordinator) broadcastGameState(r *room.Room) {
	co.forEachConnected(r, func(c *client) {
		state := r.StateFor(c.playerID)
		if state == nil {
			return
		}
		co.send(c, message.New(message.TypeGameState, message.GameStatePayload{RoomID: string(r.Code), GameState: *state}))
	})
}

func (co *Coordinator) broadcastTurnUpdate(r *room.Room) {
	state := r.StateFor("")
	if state == nil {
		return
	}
	payload := message.TurnUpdatePayload{
		RoomID:         string(r.Code),
		ActivePlayerID: state.ActivePlayerID,
		TurnEndsAt:     state.TurnEndsAt,
		Version:        state.Version,
	}
	co.forEachConnected(r, func(c *client) {
		co.send(c, message.New(message.TypeTurnUpdate, payload))
	})
}

func (co *Coordinator) broadcastGameEnded(r *room.Room) {
	state := r.StateFor("")
	if state == nil {
		return
	}
	scores := make(map[string]int, len(state.Players))
	stats := make(map[string]message.StatsView, len(state.Players))
	best := math.MinInt
	var winners []string
	for _, p := range state.Players {
		scores[p.ID] = p.Score
		stats[p.ID] = p.Stats
		switch {
		case p.Score > best:
			best = p.Score
			winners = []string{p.ID}
		case p.Score == best:
			winners = append(winners, p.ID)
		}
	}
	payload := message.GameEndedPayload{RoomID: string(r.Code), Scores: scores, StatsByPlayer: stats, WinnerIDs: winners}
	co.forEachConnected(r, func(c *client) {
		co.send(c, message.New(message.TypeGameEnded, payload))
	})
	r.Finish(co.cfg.now())
}

// forEachConnected invokes fn for every connected member of r that has a
// live binding in this coordinator.
func (co *Coordinator) forEachConnected(r *room.Room, fn func(c *client)) {
	view := r.View()
	co.mu.Lock()
	defer co.mu.Unlock()
	for _, p := range view.Players {
		if !p.Connected {
			continue
		}
		if c, ok := co.byPlayer[player.ID(p.ID)]; ok {
			fn(c)
		}
	}
}

func codeOf(err error) errcode.Code {
	switch e := err.(type) {
	case *room.Error:
		return e.Code
	case *rules.RuleError:
		return e.Code
	default:
		return errcode.ServerError
	}
}
