// Package board stores the 15x15 grid of cells a game is played on,
// including the bonus premiums and the tiles placed by players.
package board

import (
	"fmt"

	"github.com/jsholden/wordbourne/tile"
)

// Size is the fixed dimension of a standard Scrabble board.
const Size = 15

// CenterX and CenterY mark the required cell of the first play of a game.
const (
	CenterX = 7
	CenterY = 7
)

// Premium is a bonus multiplier painted onto an unused cell.
type Premium int

const (
	// None is a cell with no bonus.
	None Premium = iota
	// DL doubles the value of the single letter placed on the cell.
	DL
	// TL triples the value of the single letter placed on the cell.
	TL
	// DW doubles the value of the whole word that covers the cell.
	DW
	// TW triples the value of the whole word that covers the cell.
	TW
)

// Cell is a single square of the board.
type Cell struct {
	X, Y      int
	Premium   Premium
	Tile      *tile.Tile
	BonusUsed bool
	// FromPlayerID and TurnPlayed record provenance of the placed tile,
	// per spec.md section 4.2's Commit step. Both are zero until Place
	// is called.
	FromPlayerID string
	TurnPlayed   int
}

// Empty reports whether no tile has been placed on the cell.
func (c Cell) Empty() bool {
	return c.Tile == nil
}

// Board is the 15x15 grid tiles are placed on.
type Board struct {
	cells [Size][Size]Cell
}

// New creates an empty board painted with the standard 15x15 premium
// layout described in spec.md section 6 ("Board premiums").
func New() *Board {
	b := &Board{}
	for x := 0; x < Size; x++ {
		for y := 0; y < Size; y++ {
			b.cells[x][y] = Cell{X: x, Y: y, Premium: premiumAt(x, y)}
		}
	}
	return b
}

// InBounds reports whether (x, y) is a valid board coordinate.
func InBounds(x, y int) bool {
	return x >= 0 && x < Size && y >= 0 && y < Size
}

// At returns a pointer to the cell at (x, y). Panics if out of bounds;
// callers must check InBounds first, exactly as rules.Validate does.
func (b *Board) At(x, y int) *Cell {
	if !InBounds(x, y) {
		panic(fmt.Sprintf("board: coordinate (%d, %d) out of bounds", x, y))
	}
	return &b.cells[x][y]
}

// Place puts t on the cell at (x, y), consuming the cell's premium.
// It panics if the cell is already occupied; callers validate first.
func (b *Board) Place(x, y int, t tile.Tile, fromPlayerID string, turnPlayed int) {
	c := b.At(x, y)
	if !c.Empty() {
		panic(fmt.Sprintf("board: cell (%d, %d) already occupied", x, y))
	}
	c.Tile = &t
	c.BonusUsed = true
	c.FromPlayerID = fromPlayerID
	c.TurnPlayed = turnPlayed
}

// IsEmpty reports whether the entire board has no placed tiles, i.e. this
// would be the first move of the game.
func (b *Board) IsEmpty() bool {
	for x := 0; x < Size; x++ {
		for y := 0; y < Size; y++ {
			if !b.cells[x][y].Empty() {
				return false
			}
		}
	}
	return true
}

// standardLayout is the canonical 15x15 premium pattern, one row per
// string: '3' = TW, '2' = DW, 'd' = DL, 't' = TL, '.' = no bonus.
// Row/column order matches (y, x) so standardLayout[y][x] gives the
// premium for cell (x, y).
var standardLayout = [Size]string{
	"3..d...3...d..3",
	".2...t...t...2.",
	"..2...d.d...2..",
	"d..2...d...2..d",
	"....2.....2....",
	".t...t...t...t.",
	"..d...d.d...d..",
	"3..d...2...d..3",
	"..d...d.d...d..",
	".t...t...t...t.",
	"....2.....2....",
	"d..2...d...2..d",
	"..2...d.d...2..",
	".2...t...t...2.",
	"3..d...3...d..3",
}

// premiumAt returns the premium for a cell from the standard layout table.
func premiumAt(x, y int) Premium {
	switch standardLayout[y][x] {
	case '3':
		return TW
	case '2':
		return DW
	case 'd':
		return DL
	case 't':
		return TL
	default:
		return None
	}
}
