// Package bag holds the finite multiset of undrawn tiles for a game and
// builds the initial letter distribution for a configured language.
package bag

import (
	"fmt"

	"github.com/jsholden/wordbourne/tile"
)

// Language selects which letter distribution a new bag is built from.
type Language string

const (
	English Language = "EN"
	French  Language = "FR"
)

// letterCount describes how many tiles of a letter exist and their value.
type letterCount struct {
	letter rune
	count  int
	value  int
}

// english is the standard English Scrabble letter distribution from
// spec.md section 6.
var english = []letterCount{
	{'A', 9, 1}, {'B', 2, 3}, {'C', 2, 3}, {'D', 4, 2}, {'E', 12, 1},
	{'F', 2, 4}, {'G', 3, 2}, {'H', 2, 4}, {'I', 9, 1}, {'J', 1, 8},
	{'K', 1, 5}, {'L', 4, 1}, {'M', 2, 3}, {'N', 6, 1}, {'O', 8, 1},
	{'P', 2, 3}, {'Q', 1, 10}, {'R', 6, 1}, {'S', 4, 1}, {'T', 6, 1},
	{'U', 4, 1}, {'V', 2, 4}, {'W', 2, 4}, {'X', 1, 8}, {'Y', 2, 4},
	{'Z', 1, 10},
}

// french is the standard French Scrabble letter distribution from
// spec.md section 6.
var french = []letterCount{
	{'A', 9, 1}, {'B', 2, 3}, {'C', 2, 3}, {'D', 3, 2}, {'E', 15, 1},
	{'F', 2, 4}, {'G', 2, 2}, {'H', 2, 4}, {'I', 8, 1}, {'J', 1, 8},
	{'K', 1, 10}, {'L', 5, 1}, {'M', 3, 2}, {'N', 6, 1}, {'O', 6, 1},
	{'P', 2, 3}, {'Q', 1, 8}, {'R', 6, 1}, {'S', 6, 1}, {'T', 6, 1},
	{'U', 6, 1}, {'V', 2, 4}, {'W', 1, 10}, {'X', 1, 10}, {'Y', 1, 10},
	{'Z', 1, 10},
}

const blankCount = 2

// ShuffleFunc shuffles a slice of tiles in place, following the standard
// library sort.Interface-free shuffle signature used throughout the
// game package's configuration. Tests supply a seeded implementation so
// shuffles are reproducible; production wires up a secure one.
type ShuffleFunc func(tiles []tile.Tile)

// Bag is an ordered multiset of undrawn tiles. Draw pops from the tail;
// Return appends then shuffles, matching the "draw = pop, return =
// append-then-shuffle" model from spec.md section 3.
type Bag struct {
	tiles   []tile.Tile
	nextID  tile.ID
	shuffle ShuffleFunc
}

// New builds a full bag for the given language, assigns stable ids, and
// shuffles it with shuffle.
func New(lang Language, shuffle ShuffleFunc) (*Bag, error) {
	var letters []letterCount
	switch lang {
	case English, "":
		letters = english
	case French:
		letters = french
	default:
		return nil, fmt.Errorf("bag: unknown language %q", lang)
	}
	b := &Bag{shuffle: shuffle}
	var id tile.ID = 1
	for _, lc := range letters {
		for i := 0; i < lc.count; i++ {
			b.tiles = append(b.tiles, tile.Tile{ID: id, Letter: lc.letter, Value: lc.value})
			id++
		}
	}
	for i := 0; i < blankCount; i++ {
		b.tiles = append(b.tiles, tile.Tile{ID: id, Joker: true, Value: 0})
		id++
	}
	b.nextID = id
	if b.shuffle != nil {
		b.shuffle(b.tiles)
	}
	return b, nil
}

// Size returns the number of tiles remaining in the bag.
func (b *Bag) Size() int {
	return len(b.tiles)
}

// Draw removes and returns up to n tiles from the tail of the bag. Fewer
// than n tiles are returned if the bag has fewer than n left.
func (b *Bag) Draw(n int) []tile.Tile {
	if n > len(b.tiles) {
		n = len(b.tiles)
	}
	if n <= 0 {
		return nil
	}
	start := len(b.tiles) - n
	drawn := append([]tile.Tile(nil), b.tiles[start:]...)
	b.tiles = b.tiles[:start]
	return drawn
}

// Return appends tiles to the bag and reshuffles it. A joker's chosen
// letter is cleared so it re-enters the bag blank, as spec.md section 3
// requires ("the chosen letter never grants points").
func (b *Bag) Return(tiles []tile.Tile) {
	for _, t := range tiles {
		if t.Joker {
			t.Letter = 0
		}
		b.tiles = append(b.tiles, t)
	}
	if b.shuffle != nil {
		b.shuffle(b.tiles)
	}
}

// Tiles returns a read-only snapshot of the tiles currently in the bag
// used for tile-conservation property tests.
func (b *Bag) Tiles() []tile.Tile {
	return append([]tile.Tile(nil), b.tiles...)
}
