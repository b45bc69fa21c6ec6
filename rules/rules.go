// Package rules implements the pure, deterministic Scrabble rules and
// scoring engine: given a board snapshot, a rack, and a proposed set of
// placements, it decides legality, builds the words formed, and scores
// them. It performs no I/O and depends on nothing but the dictionary
// contract it is handed.
package rules

import (
	"context"
	"strings"

	"github.com/jsholden/wordbourne/board"
	"github.com/jsholden/wordbourne/dictionary"
	"github.com/jsholden/wordbourne/errcode"
	"github.com/jsholden/wordbourne/tile"
)

// Placement is a single tile from a player's rack proposed for a cell.
// ChosenLetter is only meaningful when the tile is a joker; it is the
// letter the player assigns to the blank for this play.
type Placement struct {
	X, Y         int
	TileID       tile.ID
	ChosenLetter rune
}

// PlacedTile is a placement resolved against the rack: the concrete tile
// (with a joker's letter already chosen) destined for a board cell.
type PlacedTile struct {
	X, Y int
	Tile tile.Tile
}

// WordResult is one word formed by a move, with its score.
type WordResult struct {
	Word  string
	Score int
}

// Result is the outcome of a legal move: the words it formed, the total
// score, and the resolved placements ready to commit to the board.
type Result struct {
	Words  []WordResult
	Score  int
	Bingo  bool
	Placed []PlacedTile
}

type placedTile struct {
	x, y int
	t    tile.Tile
}

// Validate runs the legal-placement predicate from spec order, builds the
// words the placements would form, and scores them against dict. It
// mutates nothing; callers invoke Commit separately once a move is
// accepted.
func Validate(ctx context.Context, b *board.Board, rack []tile.Tile, placements []Placement, dict *dictionary.Checker) (*Result, error) {
	// 1. Placements non-empty.
	if len(placements) == 0 {
		return nil, ruleErr(errcode.NoWordFormed)
	}

	rackByID := make(map[tile.ID]tile.Tile, len(rack))
	for _, t := range rack {
		rackByID[t.ID] = t
	}

	resolved := make([]placedTile, 0, len(placements))
	seenTiles := make(map[tile.ID]bool, len(placements))
	seenCoords := make(map[[2]int]bool, len(placements))
	for _, p := range placements {
		// 2. In bounds and targets an empty cell (including against the
		// other placements in this same move).
		if !board.InBounds(p.X, p.Y) {
			return nil, ruleErr(errcode.OutOfBounds)
		}
		if seenCoords[[2]int{p.X, p.Y}] {
			return nil, ruleErr(errcode.CellOccupied)
		}
		seenCoords[[2]int{p.X, p.Y}] = true
		if !b.At(p.X, p.Y).Empty() {
			return nil, ruleErr(errcode.CellOccupied)
		}

		// 3. Rack membership, no duplicate tile id.
		if seenTiles[p.TileID] {
			return nil, ruleErr(errcode.DuplicateTile)
		}
		seenTiles[p.TileID] = true
		rackTile, ok := rackByID[p.TileID]
		if !ok {
			return nil, ruleErr(errcode.TileNotInRack)
		}

		placed := rackTile
		if rackTile.Joker {
			placed = rackTile.PlaceLetter(p.ChosenLetter)
		}
		resolved = append(resolved, placedTile{x: p.X, y: p.Y, t: placed})
	}

	// 4. Collinear (a lone placement trivially is).
	if len(resolved) > 1 {
		if _, _, ok := collinear(resolved); !ok {
			return nil, ruleErr(errcode.NotAligned)
		}
	}

	// 5. First move covers the center cell.
	firstMove := b.IsEmpty()
	if firstMove {
		coversCenter := false
		for _, r := range resolved {
			if r.x == board.CenterX && r.y == board.CenterY {
				coversCenter = true
				break
			}
		}
		if !coversCenter {
			return nil, ruleErr(errcode.MustCoverCenter)
		}
	}

	// 6. Contiguous gap-free run (axisRun below).
	var runs []axisResult
	if len(resolved) == 1 {
		// Either axis through a lone tile may carry a word; both are
		// considered, per spec's single-tile edge case.
		for _, vertical := range [2]bool{false, true} {
			fixed := resolved[0].y
			if vertical {
				fixed = resolved[0].x
			}
			run, ok := axisRun(b, vertical, fixed, resolved)
			if !ok {
				return nil, ruleErr(errcode.NotContiguous)
			}
			runs = append(runs, axisResult{vertical: vertical, cells: run})
		}
	} else {
		vertical, fixed, ok := collinear(resolved)
		if !ok {
			return nil, ruleErr(errcode.NotAligned)
		}
		run, ok := axisRun(b, vertical, fixed, resolved)
		if !ok {
			return nil, ruleErr(errcode.NotContiguous)
		}
		runs = append(runs, axisResult{vertical: vertical, cells: run})
	}

	// 7. Connection rule (first move is exempt once center and
	// contiguity hold).
	if !firstMove {
		connected := anyAdjacentToExisting(b, resolved)
		if !connected {
			for _, run := range runs {
				if runHasExisting(run.cells) {
					connected = true
					break
				}
			}
		}
		if !connected {
			return nil, ruleErr(errcode.NotConnected)
		}
	}

	words, err := collectWords(b, runs, resolved)
	if err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, ruleErr(errcode.NoWordFormed)
	}

	// 8. Dictionary check for every word, main and cross.
	total := 0
	results := make([]WordResult, 0, len(words))
	for _, w := range words {
		if !dict.IsValid(ctx, w.query) {
			return nil, &RuleError{Code: errcode.InvalidWord, Word: w.word}
		}
		results = append(results, WordResult{Word: w.word, Score: w.score})
		total += w.score
	}

	bingo := len(resolved) == 7
	if bingo {
		total += 50
	}

	placed := make([]PlacedTile, len(resolved))
	for i, r := range resolved {
		placed[i] = PlacedTile{X: r.x, Y: r.y, Tile: r.t}
	}

	return &Result{Words: results, Score: total, Bingo: bingo, Placed: placed}, nil
}

// Commit stamps every placed tile onto the board. Callers must only call
// this after Validate has returned a successful Result for the same
// board.
func Commit(b *board.Board, result *Result, playerID string, turnNumber int) {
	for _, p := range result.Placed {
		b.Place(p.X, p.Y, p.Tile, playerID, turnNumber)
	}
}

// ValidateExchange checks an exchange request: ids must be non-empty,
// duplicate-free, all present in rack, and the bag must hold at least as
// many tiles as are being exchanged.
func ValidateExchange(rack []tile.Tile, ids []tile.ID, bagSize int) error {
	if len(ids) == 0 {
		return ruleErr(errcode.NoTilesToExchange)
	}
	if bagSize < len(ids) {
		return ruleErr(errcode.BagTooSmall)
	}
	inRack := make(map[tile.ID]bool, len(rack))
	for _, t := range rack {
		inRack[t.ID] = true
	}
	seen := make(map[tile.ID]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return ruleErr(errcode.DuplicateTile)
		}
		seen[id] = true
		if !inRack[id] {
			return ruleErr(errcode.TileNotInRack)
		}
	}
	return nil
}

type axisResult struct {
	vertical bool
	cells    []runCell
}

type runCell struct {
	x, y    int
	t       tile.Tile
	isNew   bool
	premium board.Premium
}

// collinear reports whether every placement shares a row or a column, and
// which axis and fixed coordinate that is. Assumes len(resolved) > 1.
func collinear(resolved []placedTile) (vertical bool, fixed int, ok bool) {
	sameY, sameX := true, true
	for _, r := range resolved[1:] {
		if r.y != resolved[0].y {
			sameY = false
		}
		if r.x != resolved[0].x {
			sameX = false
		}
	}
	switch {
	case sameY:
		return false, resolved[0].y, true
	case sameX:
		return true, resolved[0].x, true
	default:
		return false, 0, false
	}
}

// axisRun collapses resolved (which must all share fixed along the given
// axis) plus any contiguous pre-existing tiles at both ends into a single
// gap-free run. ok is false if a gap is found inside the span.
func axisRun(b *board.Board, vertical bool, fixed int, resolved []placedTile) ([]runCell, bool) {
	varyOf := func(p placedTile) int {
		if vertical {
			return p.y
		}
		return p.x
	}
	coordAt := func(v int) (int, int) {
		if vertical {
			return fixed, v
		}
		return v, fixed
	}

	byVar := make(map[int]placedTile, len(resolved))
	minV, maxV := varyOf(resolved[0]), varyOf(resolved[0])
	for _, p := range resolved {
		v := varyOf(p)
		byVar[v] = p
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}

	for {
		nv := minV - 1
		x, y := coordAt(nv)
		if !board.InBounds(x, y) || b.At(x, y).Empty() {
			break
		}
		minV = nv
	}
	for {
		nv := maxV + 1
		x, y := coordAt(nv)
		if !board.InBounds(x, y) || b.At(x, y).Empty() {
			break
		}
		maxV = nv
	}

	run := make([]runCell, 0, maxV-minV+1)
	for v := minV; v <= maxV; v++ {
		x, y := coordAt(v)
		if p, isNewTile := byVar[v]; isNewTile {
			run = append(run, runCell{x: x, y: y, t: p.t, isNew: true, premium: b.At(x, y).Premium})
			continue
		}
		c := b.At(x, y)
		if c.Empty() {
			return nil, false
		}
		run = append(run, runCell{x: x, y: y, t: *c.Tile, isNew: false})
	}
	return run, true
}

func runHasExisting(run []runCell) bool {
	for _, c := range run {
		if !c.isNew {
			return true
		}
	}
	return false
}

// anyAdjacentToExisting reports whether any new placement is orthogonally
// adjacent to a tile already on the board.
func anyAdjacentToExisting(b *board.Board, resolved []placedTile) bool {
	deltas := [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	for _, r := range resolved {
		for _, d := range deltas {
			nx, ny := r.x+d[0], r.y+d[1]
			if !board.InBounds(nx, ny) {
				continue
			}
			if !b.At(nx, ny).Empty() {
				return true
			}
		}
	}
	return false
}

type builtWord struct {
	word  string
	query string
	score int
}

// collectWords builds the main word (if any) plus every cross-word of
// length >= 2 formed by the new placements.
func collectWords(b *board.Board, runs []axisResult, resolved []placedTile) ([]builtWord, error) {
	var words []builtWord
	for _, run := range runs {
		if len(run.cells) >= 2 {
			words = append(words, buildWord(run.cells))
		}
	}

	// A multi-tile placement has exactly one axis run (the main word);
	// cross-words are perpendicular spans through each individual new
	// tile. A lone placement's two candidate runs already cover both
	// directions, so no further cross-word pass is needed for it.
	if len(resolved) > 1 {
		mainVertical := runs[0].vertical
		for _, r := range resolved {
			crossVertical := !mainVertical
			fixed := r.y
			if crossVertical {
				fixed = r.x
			}
			run, ok := axisRun(b, crossVertical, fixed, []placedTile{r})
			if !ok {
				return nil, ruleErr(errcode.NotContiguous)
			}
			if len(run) >= 2 {
				words = append(words, buildWord(run))
			}
		}
	}
	return words, nil
}

// buildWord computes the displayed word, the dictionary query string
// (jokers contribute '?'), and the score for a single axis run.
func buildWord(run []runCell) builtWord {
	var word, query strings.Builder
	sum := 0
	wordMult := 1
	for _, c := range run {
		word.WriteRune(c.t.Letter)
		if c.t.Joker {
			query.WriteRune('?')
		} else {
			query.WriteRune(c.t.Letter)
		}
		value := c.t.Value
		if c.isNew {
			switch c.premium {
			case board.DL:
				value *= 2
			case board.TL:
				value *= 3
			case board.DW:
				wordMult *= 2
			case board.TW:
				wordMult *= 3
			}
		}
		sum += value
	}
	return builtWord{word: word.String(), query: query.String(), score: sum * wordMult}
}
