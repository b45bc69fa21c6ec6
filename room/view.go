package room

import (
	"github.com/jsholden/wordbourne/board"
	"github.com/jsholden/wordbourne/game"
	"github.com/jsholden/wordbourne/message"
	"github.com/jsholden/wordbourne/player"
	"github.com/jsholden/wordbourne/tile"
)

// View returns the public metadata of the room, safe to send to any
// client: no rack contents, only rack sizes.
func (r *Room) View() message.RoomView {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.viewLocked()
}

func (r *Room) viewLocked() message.RoomView {
	players := make([]message.PlayerView, len(r.Players))
	for i, p := range r.Players {
		players[i] = playerView(p, "")
	}
	return message.RoomView{
		Code:     string(r.Code),
		HostID:   string(r.HostID),
		Status:   string(r.Status),
		Capacity: r.Capacity,
		Players:  players,
	}
}

// StateFor returns a personalized snapshot of the room's game for
// viewerID: the board, bag size, move log, and every player's public
// metadata are shared, but only viewerID's own rack is populated, per
// spec.md section 4.5. Returns nil if no game is running.
func (r *Room) StateFor(viewerID player.ID) *message.GameStateView {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stateForLocked(viewerID)
}

func (r *Room) stateForLocked(viewerID player.ID) *message.GameStateView {
	g := r.Game
	if g == nil {
		return nil
	}
	cells := make([]message.CellView, 0, board.Size*board.Size)
	for x := 0; x < board.Size; x++ {
		for y := 0; y < board.Size; y++ {
			c := g.Board.At(x, y)
			cv := message.CellView{X: x, Y: y, Premium: premiumName(c.Premium), BonusUsed: c.BonusUsed}
			if c.Tile != nil {
				tv := tileView(*c.Tile)
				cv.Tile = &tv
			}
			cells = append(cells, cv)
		}
	}
	players := make([]message.PlayerView, len(g.Players))
	for i, p := range g.Players {
		players[i] = playerView(p, viewerID)
	}
	moves := make([]message.MoveView, len(g.MoveLog))
	for i, m := range g.MoveLog {
		moves[i] = MoveViewOf(m)
	}
	return &message.GameStateView{
		Board:             cells,
		BagSize:           g.Bag.Size(),
		Players:           players,
		ActivePlayerID:    string(g.ActivePlayer().ID),
		TurnEndsAt:        g.TurnDeadline,
		ConsecutivePasses: g.ConsecutivePasses,
		Version:           g.Version,
		Status:            string(g.Status),
		MoveLog:           moves,
	}
}

func playerView(p *player.Player, viewerID player.ID) message.PlayerView {
	v := message.PlayerView{
		ID:        string(p.ID),
		Nickname:  p.Nickname,
		Connected: p.Connected,
		Ready:     p.Ready,
		Score:     p.Score,
		RackSize:  len(p.Rack),
		Stats: message.StatsView{
			WordsPlayed:   p.Stats.WordsPlayed,
			BestWordScore: p.Stats.BestWordScore,
			BestWord:      p.Stats.BestWord,
			TotalTurns:    p.Stats.TotalTurns,
			Passes:        p.Stats.Passes,
		},
	}
	if viewerID != "" && p.ID == viewerID {
		v.Rack = make([]message.TileView, len(p.Rack))
		for i, t := range p.Rack {
			v.Rack[i] = tileView(t)
		}
	}
	return v
}

func tileView(t tile.Tile) message.TileView {
	v := message.TileView{ID: int(t.ID), Value: t.Value, Joker: t.Joker}
	if t.Letter != 0 {
		v.Letter = string(t.Letter)
	}
	return v
}

// MoveViewOf converts a committed move into its wire representation.
func MoveViewOf(m game.MoveSummary) message.MoveView {
	words := make([]message.WordResultView, len(m.Words))
	for i, w := range m.Words {
		words[i] = message.WordResultView{Word: w.Word, Score: w.Score}
	}
	return message.MoveView{
		PlayerID:   string(m.PlayerID),
		Action:     string(m.Action),
		Words:      words,
		Score:      m.Score,
		TurnNumber: m.TurnNumber,
		At:         m.At,
	}
}

func premiumName(p board.Premium) string {
	switch p {
	case board.DL:
		return "DL"
	case board.TL:
		return "TL"
	case board.DW:
		return "DW"
	case board.TW:
		return "TW"
	default:
		return ""
	}
}
