package rules

import (
	"context"
	"strings"
	"testing"

	"github.com/jsholden/wordbourne/board"
	"github.com/jsholden/wordbourne/dictionary"
	"github.com/jsholden/wordbourne/errcode"
	"github.com/jsholden/wordbourne/tile"
)

func mustDict(t *testing.T, words ...string) *dictionary.Checker {
	t.Helper()
	c, err := dictionary.Config{}.NewFromReader(strings.NewReader(strings.Join(words, "\n")))
	if err != nil {
		t.Fatalf("failed to build test dictionary: %v", err)
	}
	return c
}

// retinasRack returns the seven lettered tiles for the bingo opening
// scenario from spec.md section 8, scenario 1.
func retinasRack() []tile.Tile {
	return []tile.Tile{
		{ID: 1, Letter: 'R', Value: 1},
		{ID: 2, Letter: 'E', Value: 1},
		{ID: 3, Letter: 'T', Value: 1},
		{ID: 4, Letter: 'I', Value: 1},
		{ID: 5, Letter: 'N', Value: 1},
		{ID: 6, Letter: 'A', Value: 1},
		{ID: 7, Letter: 'S', Value: 1},
	}
}

func retinasPlacements() []Placement {
	rack := retinasRack()
	placements := make([]Placement, len(rack))
	for i := range rack {
		placements[i] = Placement{X: 4 + i, Y: board.CenterY, TileID: rack[i].ID}
	}
	return placements
}

func TestValidateBingoOpening(t *testing.T) {
	b := board.New()
	dict := mustDict(t, "RETINAS")
	result, err := Validate(context.Background(), b, retinasRack(), retinasPlacements(), dict)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if result.Score != 64 {
		t.Errorf("Score = %d, want 64", result.Score)
	}
	if !result.Bingo {
		t.Error("Bingo = false, want true")
	}
	if len(result.Words) != 1 || result.Words[0].Word != "RETINAS" {
		t.Errorf("Words = %+v, want [RETINAS]", result.Words)
	}
}

func TestValidateJokerZeroValue(t *testing.T) {
	b := board.New()
	dict := mustDict(t, "RETINAS")
	rack := retinasRack()
	rack[1] = tile.Tile{ID: 2, Joker: true, Value: 0} // blank stands in for E
	placements := retinasPlacements()
	placements[1].ChosenLetter = 'E'

	result, err := Validate(context.Background(), b, rack, placements, dict)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if result.Score != 62 {
		t.Errorf("Score = %d, want 62", result.Score)
	}
	if result.Placed[1].Tile.Value != 0 {
		t.Errorf("joker tile Value = %d, want 0", result.Placed[1].Tile.Value)
	}
	if result.Placed[1].Tile.Letter != 'E' {
		t.Errorf("joker tile Letter = %q, want E", result.Placed[1].Tile.Letter)
	}
}

func placeCAT(b *board.Board) {
	b.Place(7, board.CenterY, tile.Tile{ID: 100, Letter: 'C', Value: 3}, "setup", 0)
	b.Place(8, board.CenterY, tile.Tile{ID: 101, Letter: 'A', Value: 1}, "setup", 0)
	b.Place(9, board.CenterY, tile.Tile{ID: 102, Letter: 'T', Value: 1}, "setup", 0)
}

func TestValidateCrossWordScoring(t *testing.T) {
	b := board.New()
	placeCAT(b)
	dict := mustDict(t, "CATS")
	rack := []tile.Tile{{ID: 1, Letter: 'S', Value: 1}}
	placements := []Placement{{X: 10, Y: board.CenterY, TileID: 1}}

	result, err := Validate(context.Background(), b, rack, placements, dict)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if result.Score != 6 {
		t.Errorf("Score = %d, want 6", result.Score)
	}
	if len(result.Words) != 1 || result.Words[0].Word != "CATS" {
		t.Errorf("Words = %+v, want [CATS]", result.Words)
	}
}

func TestValidateInvalidConnection(t *testing.T) {
	b := board.New()
	placeCAT(b)
	dict := mustDict(t, "DOG")
	rack := []tile.Tile{
		{ID: 1, Letter: 'D', Value: 2},
		{ID: 2, Letter: 'O', Value: 1},
		{ID: 3, Letter: 'G', Value: 2},
	}
	placements := []Placement{
		{X: 0, Y: 0, TileID: 1},
		{X: 1, Y: 0, TileID: 2},
		{X: 2, Y: 0, TileID: 3},
	}
	_, err := Validate(context.Background(), b, rack, placements, dict)
	assertRuleCode(t, err, errcode.NotConnected)
}

func TestValidateRejectsEmptyPlacements(t *testing.T) {
	b := board.New()
	dict := mustDict(t)
	_, err := Validate(context.Background(), b, nil, nil, dict)
	assertRuleCode(t, err, errcode.NoWordFormed)
}

func TestValidateRejectsTileNotInRack(t *testing.T) {
	b := board.New()
	dict := mustDict(t, "A")
	placements := []Placement{{X: board.CenterX, Y: board.CenterY, TileID: 999}}
	_, err := Validate(context.Background(), b, nil, placements, dict)
	assertRuleCode(t, err, errcode.TileNotInRack)
}

func TestValidateRejectsDuplicateTile(t *testing.T) {
	b := board.New()
	dict := mustDict(t, "AA")
	rack := []tile.Tile{{ID: 1, Letter: 'A', Value: 1}}
	placements := []Placement{
		{X: board.CenterX, Y: board.CenterY, TileID: 1},
		{X: board.CenterX + 1, Y: board.CenterY, TileID: 1},
	}
	_, err := Validate(context.Background(), b, rack, placements, dict)
	assertRuleCode(t, err, errcode.DuplicateTile)
}

func TestValidateRejectsOutOfBounds(t *testing.T) {
	b := board.New()
	dict := mustDict(t, "A")
	rack := []tile.Tile{{ID: 1, Letter: 'A', Value: 1}}
	placements := []Placement{{X: -1, Y: 0, TileID: 1}}
	_, err := Validate(context.Background(), b, rack, placements, dict)
	assertRuleCode(t, err, errcode.OutOfBounds)
}

func TestValidateRejectsOccupiedCell(t *testing.T) {
	b := board.New()
	placeCAT(b)
	dict := mustDict(t, "A")
	rack := []tile.Tile{{ID: 1, Letter: 'A', Value: 1}}
	placements := []Placement{{X: 7, Y: board.CenterY, TileID: 1}}
	_, err := Validate(context.Background(), b, rack, placements, dict)
	assertRuleCode(t, err, errcode.CellOccupied)
}

func TestValidateRejectsNotAligned(t *testing.T) {
	b := board.New()
	dict := mustDict(t, "AB")
	rack := []tile.Tile{
		{ID: 1, Letter: 'A', Value: 1},
		{ID: 2, Letter: 'B', Value: 3},
	}
	placements := []Placement{
		{X: board.CenterX, Y: board.CenterY, TileID: 1},
		{X: board.CenterX + 1, Y: board.CenterY + 1, TileID: 2},
	}
	_, err := Validate(context.Background(), b, rack, placements, dict)
	assertRuleCode(t, err, errcode.NotAligned)
}

func TestValidateRejectsFirstMoveOffCenter(t *testing.T) {
	b := board.New()
	dict := mustDict(t, "A")
	rack := []tile.Tile{{ID: 1, Letter: 'A', Value: 1}}
	placements := []Placement{{X: 0, Y: 0, TileID: 1}}
	_, err := Validate(context.Background(), b, rack, placements, dict)
	assertRuleCode(t, err, errcode.MustCoverCenter)
}

func TestValidateRejectsNotContiguous(t *testing.T) {
	b := board.New()
	dict := mustDict(t, "AB")
	rack := []tile.Tile{
		{ID: 1, Letter: 'A', Value: 1},
		{ID: 2, Letter: 'B', Value: 3},
	}
	placements := []Placement{
		{X: board.CenterX, Y: board.CenterY, TileID: 1},
		{X: board.CenterX + 2, Y: board.CenterY, TileID: 2},
	}
	_, err := Validate(context.Background(), b, rack, placements, dict)
	assertRuleCode(t, err, errcode.NotContiguous)
}

func TestValidateRejectsInvalidWord(t *testing.T) {
	b := board.New()
	dict := mustDict(t, "ZZZ")
	rack := []tile.Tile{
		{ID: 1, Letter: 'A', Value: 1},
		{ID: 2, Letter: 'B', Value: 3},
	}
	placements := []Placement{
		{X: board.CenterX, Y: board.CenterY, TileID: 1},
		{X: board.CenterX + 1, Y: board.CenterY, TileID: 2},
	}
	_, err := Validate(context.Background(), b, rack, placements, dict)
	assertRuleCode(t, err, errcode.InvalidWord)
}

// TestValidateIsDeterministic checks the property from spec.md section 8:
// identical inputs yield an identical verdict and score.
func TestValidateIsDeterministic(t *testing.T) {
	b := board.New()
	dict := mustDict(t, "RETINAS")
	rack := retinasRack()
	placements := retinasPlacements()

	first, err := Validate(context.Background(), b, rack, placements, dict)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	second, err := Validate(context.Background(), b, rack, placements, dict)
	if err != nil {
		t.Fatalf("Validate() second call error = %v", err)
	}
	if first.Score != second.Score || len(first.Words) != len(second.Words) {
		t.Errorf("non-deterministic result: %+v vs %+v", first, second)
	}
}

func TestCommitStampsBoard(t *testing.T) {
	b := board.New()
	dict := mustDict(t, "RETINAS")
	result, err := Validate(context.Background(), b, retinasRack(), retinasPlacements(), dict)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	Commit(b, result, "player-1", 1)
	c := b.At(board.CenterX, board.CenterY)
	if c.Empty() {
		t.Fatal("expected center cell to be occupied after commit")
	}
	if c.Tile.Letter != 'I' {
		t.Errorf("center letter = %q, want I", c.Tile.Letter)
	}
}

func TestValidateExchange(t *testing.T) {
	rack := []tile.Tile{
		{ID: 1, Letter: 'A', Value: 1},
		{ID: 2, Letter: 'B', Value: 3},
	}
	tests := []struct {
		name    string
		ids     []tile.ID
		bagSize int
		want    errcode.Code
	}{
		{"valid", []tile.ID{1, 2}, 10, ""},
		{"empty ids", nil, 10, errcode.NoTilesToExchange},
		{"bag too small", []tile.ID{1, 2}, 1, errcode.BagTooSmall},
		{"not in rack", []tile.ID{1, 99}, 10, errcode.TileNotInRack},
		{"duplicate", []tile.ID{1, 1}, 10, errcode.DuplicateTile},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := ValidateExchange(rack, test.ids, test.bagSize)
			if test.want == "" {
				if err != nil {
					t.Errorf("ValidateExchange() error = %v, want nil", err)
				}
				return
			}
			assertRuleCode(t, err, test.want)
		})
	}
}

func assertRuleCode(t *testing.T, err error, want errcode.Code) {
	t.Helper()
	re, ok := err.(*RuleError)
	if !ok {
		t.Fatalf("error = %v (%T), want *RuleError", err, err)
	}
	if re.Code != want {
		t.Errorf("code = %v, want %v", re.Code, want)
	}
}
