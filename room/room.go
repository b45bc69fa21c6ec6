// Package room owns room creation, joining, and membership: the
// concurrent registry that sits between the session coordinator and the
// per-room game lifecycle.
package room

import (
	"context"
	"sync"
	"time"

	"github.com/jsholden/wordbourne/game"
	"github.com/jsholden/wordbourne/player"
	"github.com/jsholden/wordbourne/rules"
	"github.com/jsholden/wordbourne/tile"
)

// Code is a room's short, human-typeable identifier.
type Code string

// Status is the lifecycle state of a room.
type Status string

const (
	Waiting  Status = "waiting"
	Playing  Status = "playing"
	Finished Status = "finished"
)

// MinCapacity and MaxCapacity bound how many players a room may hold.
const (
	MinCapacity = 1
	MaxCapacity = 4
)

// MinPlayersToStart is the fewest players a host may start a game with.
const MinPlayersToStart = 2

// Room is a container for 1-4 players and at most one active game. All
// mutation of a room goes through its exported methods, which hold its
// mutex for the duration of the mutation — the "shared object behind a
// mutex" alternative to a per-room actor goroutine that spec.md's design
// notes call out as an equally valid way to satisfy the serialization
// invariant.
type Room struct {
	mu sync.Mutex

	Code         Code
	HostID       player.ID
	Status       Status
	Capacity     int
	Players      []*player.Player
	Game         *game.Game
	LastActivity time.Time
}

func newRoom(code Code, capacity int, host *player.Player, now time.Time) *Room {
	return &Room{
		Code:         code,
		HostID:       host.ID,
		Status:       Waiting,
		Capacity:     capacity,
		Players:      []*player.Player{host},
		LastActivity: now,
	}
}

// touch records activity against the room's idle-eviction clock. Callers
// hold r.mu.
func (r *Room) touch(now time.Time) {
	r.LastActivity = now
}

// Join adds a player to the room if there is capacity and the room is
// still accepting players. Caller supplies now for the activity clock.
func (r *Room) Join(p *player.Player, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Status != Waiting {
		return roomErr(errRoomNotJoinable)
	}
	if len(r.Players) >= r.Capacity {
		return roomErr(errRoomFull)
	}
	for _, existing := range r.Players {
		if existing.Nickname == p.Nickname {
			return roomErr(errNicknameTaken)
		}
	}
	r.Players = append(r.Players, p)
	r.touch(now)
	return nil
}

// Leave removes playerID from the room. If the host leaves, the room's
// host succeeds to the next player in insertion order, per spec.md
// section 3. Reports whether the room is now empty and should be
// removed from the registry.
func (r *Room) Leave(playerID player.ID, now time.Time) (empty bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, p := range r.Players {
		if p.ID != playerID {
			continue
		}
		r.Players = append(r.Players[:i], r.Players[i+1:]...)
		break
	}
	r.touch(now)
	if len(r.Players) == 0 {
		return true
	}
	if r.HostID == playerID {
		r.HostID = r.Players[0].ID
	}
	return false
}

// findPlayer returns the member with the given id, or nil. Caller holds
// no lock; used only by the registry immediately after Member confirms
// membership, so a concurrent Leave can still race it in principle - a
// nil result is handled by the caller.
func (r *Room) findPlayer(id player.ID) *player.Player {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// ActivePlayerID returns the id of the player whose turn it currently is.
// ok is false if no game is running.
func (r *Room) ActivePlayerID() (id player.ID, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Game == nil || r.Status != Playing {
		return "", false
	}
	return r.Game.ActivePlayer().ID, true
}

// Member reports whether playerID currently belongs to the room.
func (r *Room) Member(playerID player.ID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.Players {
		if p.ID == playerID {
			return true
		}
	}
	return false
}

// AllReady reports whether every player in the room has toggled ready,
// and there are enough players to start.
func (r *Room) AllReady() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Players) < MinPlayersToStart {
		return false
	}
	for _, p := range r.Players {
		if !p.Ready {
			return false
		}
	}
	return true
}

// StartGame transitions the room to playing and builds a fresh game from
// cfg, only permitted for the host while all players are ready.
func (r *Room) StartGame(hostID player.ID, cfg game.Config, now time.Time) (*game.Game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.HostID != hostID {
		return nil, roomErr(errNotHost)
	}
	if len(r.Players) < MinPlayersToStart {
		return nil, roomErr(errMinPlayers)
	}
	for _, p := range r.Players {
		if !p.Ready {
			return nil, roomErr(errNotAllReady)
		}
	}
	if r.Status != Waiting {
		return nil, roomErr(errInvalidState)
	}
	g, err := cfg.Start(r.Players)
	if err != nil {
		return nil, err
	}
	r.Game = g
	r.Status = Playing
	r.touch(now)
	return g, nil
}

// SetReady updates playerID's ready flag. Fails if playerID is not a
// member of the room.
func (r *Room) SetReady(playerID player.ID, ready bool, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.Players {
		if p.ID == playerID {
			p.Ready = ready
			r.touch(now)
			return nil
		}
	}
	return roomErr(errNotInRoom)
}

// PlayMove dispatches a play/pass/exchange action to the room's active
// game. All mutation of the game happens while r.mu is held, satisfying
// the per-room serialization invariant of spec.md section 5: the lock is
// held across the dictionary lookup inside rules.Validate, which is the
// only suspension point in move processing.
func (r *Room) PlayMove(ctx context.Context, playerID player.ID, action game.Action, placements []rules.Placement, exchangeIDs []tile.ID, now time.Time) (*game.MoveSummary, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Game == nil || r.Status != Playing {
		return nil, false, roomErr(errInvalidState)
	}
	summary, ended, err := r.Game.PlayMove(ctx, playerID, action, placements, exchangeIDs)
	if err != nil {
		return nil, false, err
	}
	if ended {
		r.Status = Finished
	}
	r.touch(now)
	return summary, ended, nil
}

// CheckTurnTimeout forces a pass for the active player if their deadline
// has elapsed, per the turn-timeout tick described in spec.md section
// 4.6. Reports whether it acted and whether the game ended as a result.
func (r *Room) CheckTurnTimeout(now time.Time) (forced, ended bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Game == nil || r.Status != Playing {
		return false, false
	}
	if !now.After(r.Game.TurnDeadline) {
		return false, false
	}
	r.Game.ForcePass()
	if r.Game.Status == game.Finished {
		r.Status = Finished
		ended = true
	}
	r.touch(now)
	return true, ended
}

// Finish marks the room's game over and returns it to the waiting state
// so its players may ready up for a rematch.
func (r *Room) Finish(now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Status = Waiting
	for _, p := range r.Players {
		p.Ready = false
	}
	r.touch(now)
}

// IsIdle reports whether every player is disconnected and the room has
// seen no activity for at least threshold.
func (r *Room) IsIdle(now time.Time, threshold time.Duration) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if now.Sub(r.LastActivity) < threshold {
		return false
	}
	for _, p := range r.Players {
		if p.Connected {
			return false
		}
	}
	return true
}

// SetConnected updates the connectivity flag for playerID and touches the
// room's activity clock.
func (r *Room) SetConnected(playerID player.ID, connected bool, now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.Players {
		if p.ID == playerID {
			p.Connected = connected
			break
		}
	}
	r.touch(now)
}

// Snapshot returns a shallow copy of room metadata safe to read without
// holding the caller's own lock, mirroring how the teacher's lobby
// copies a game's info out of its map before broadcasting.
func (r *Room) Snapshot() Room {
	r.mu.Lock()
	defer r.mu.Unlock()
	players := append([]*player.Player(nil), r.Players...)
	return Room{
		Code:         r.Code,
		HostID:       r.HostID,
		Status:       r.Status,
		Capacity:     r.Capacity,
		Players:      players,
		Game:         r.Game,
		LastActivity: r.LastActivity,
	}
}
