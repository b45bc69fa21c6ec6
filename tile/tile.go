// Package tile contains the individual letter tiles that move between the
// bag, racks, and the board.
package tile

// ID stably identifies a single physical tile for its whole lifetime: in
// the bag, in a rack, or on the board.
type ID int

// Tile is a single Scrabble letter tile.
//
// A blank/joker tile has Joker set and Letter 0 while it sits in the bag or
// a rack. Letter is only ever set to a chosen letter once the tile is
// placed on the board by a play; Value stays 0 for a joker forever, even
// after a letter is chosen, per the rules of Scrabble.
type Tile struct {
	ID     ID   `json:"id"`
	Letter rune `json:"letter,omitempty"`
	Value  int  `json:"value"`
	Joker  bool `json:"joker,omitempty"`
}

// Blank reports whether the tile has not yet had a letter chosen for it.
// Only possible for jokers sitting in the bag or a rack.
func (t Tile) Blank() bool {
	return t.Joker && t.Letter == 0
}

// PlaceLetter returns a copy of the tile with Letter set to ch. Valid only
// for jokers; the tile's Value is untouched (and stays 0).
func (t Tile) PlaceLetter(ch rune) Tile {
	t.Letter = ch
	return t
}
