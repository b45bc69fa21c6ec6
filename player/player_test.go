package player

import (
	"reflect"
	"testing"

	"github.com/jsholden/wordbourne/tile"
)

func TestRackValue(t *testing.T) {
	p := New("p1", "Ada")
	p.Rack = []tile.Tile{
		{ID: 1, Letter: 'A', Value: 1},
		{ID: 2, Letter: 'Q', Value: 10},
		{ID: 3, Joker: true, Value: 0},
	}
	if got := p.RackValue(); got != 11 {
		t.Errorf("RackValue() = %d, want 11", got)
	}
}

func TestResetForGameStart(t *testing.T) {
	p := New("p1", "Ada")
	p.Score = 42
	p.Ready = true
	p.Rack = []tile.Tile{{ID: 1, Letter: 'A', Value: 1}}
	p.Stats = Stats{WordsPlayed: 3}

	p.ResetForGameStart()

	if p.Score != 0 || p.Ready || p.Rack != nil || p.Stats != (Stats{}) {
		t.Errorf("ResetForGameStart() left stale state: %+v", p)
	}
}

func TestRemoveTileIDs(t *testing.T) {
	p := New("p1", "Ada")
	p.Rack = []tile.Tile{
		{ID: 1, Letter: 'A', Value: 1},
		{ID: 2, Letter: 'B', Value: 3},
		{ID: 3, Letter: 'C', Value: 3},
	}
	removed := p.RemoveTileIDs([]tile.ID{2})
	want := []tile.Tile{{ID: 2, Letter: 'B', Value: 3}}
	if !reflect.DeepEqual(removed, want) {
		t.Errorf("removed = %+v, want %+v", removed, want)
	}
	wantRack := []tile.Tile{
		{ID: 1, Letter: 'A', Value: 1},
		{ID: 3, Letter: 'C', Value: 3},
	}
	if !reflect.DeepEqual(p.Rack, wantRack) {
		t.Errorf("rack after removal = %+v, want %+v", p.Rack, wantRack)
	}
}
