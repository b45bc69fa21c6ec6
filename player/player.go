// Package player holds per-player state within a room: identity,
// connectivity, rack, score, and aggregate stats.
package player

import "github.com/jsholden/wordbourne/tile"

// ID stably identifies a player, either client-supplied or
// server-generated, for the player's whole time in a room.
type ID string

// MaxNicknameLength is the longest nickname a player may choose.
const MaxNicknameLength = 15

// Stats are aggregate counters tracked across a single game.
type Stats struct {
	WordsPlayed   int    `json:"wordsPlayed"`
	BestWordScore int    `json:"bestWordScore"`
	BestWord      string `json:"bestWord"`
	TotalTurns    int    `json:"totalTurns"`
	Passes        int    `json:"passes"`
}

// Player is one participant in a room.
type Player struct {
	ID        ID    `json:"id"`
	Nickname  string `json:"nickname"`
	Connected bool  `json:"connected"`
	// Binding identifies the transport-session currently serving this
	// player; empty when disconnected. The session coordinator owns its
	// meaning, matching how the teacher's lobby keeps a player name to
	// connection-id mapping rather than an embedded connection handle.
	Binding string `json:"-"`
	Ready   bool   `json:"ready"`
	Score   int    `json:"score"`
	Rack    []tile.Tile `json:"rack,omitempty"`
	Stats   Stats  `json:"stats"`
}

// New creates a player with the given id and nickname, disconnected and
// unready, with an empty rack and zeroed stats.
func New(id ID, nickname string) *Player {
	return &Player{ID: id, Nickname: nickname}
}

// RackValue returns the sum of the face value of every tile in the
// player's rack, used for end-of-game scoring adjustments.
func (p *Player) RackValue() int {
	total := 0
	for _, t := range p.Rack {
		total += t.Value
	}
	return total
}

// ResetForGameStart clears per-game state ahead of a new game, per
// spec.md's startGame contract: reset score, rack, ready flag, stats.
func (p *Player) ResetForGameStart() {
	p.Score = 0
	p.Rack = nil
	p.Ready = false
	p.Stats = Stats{}
}

// RemoveTileIDs removes tiles matching ids from the rack and returns the
// removed tiles, preserving rack order for the remainder.
func (p *Player) RemoveTileIDs(ids []tile.ID) []tile.Tile {
	remove := make(map[tile.ID]bool, len(ids))
	for _, id := range ids {
		remove[id] = true
	}
	removed := make([]tile.Tile, 0, len(ids))
	kept := p.Rack[:0:0]
	for _, t := range p.Rack {
		if remove[t.ID] {
			removed = append(removed, t)
			continue
		}
		kept = append(kept, t)
	}
	p.Rack = kept
	return removed
}
