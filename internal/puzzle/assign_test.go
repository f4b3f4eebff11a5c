package puzzle

import (
	"errors"
	"math"
	"testing"
)

// windmillPieces builds four pieces that block each other in a ring:
// each piece's inward direction is blocked by the next piece, and its
// outward direction leaves the board. With every lane pre-fixed to the
// inward direction the ring is unassignable.
func windmillPieces(t *testing.T, lt *Lattice) []*Piece {
	t.Helper()
	return []*Piece{
		placePiece(t, lt, 0, AxisRow, 0, 1, DirUpRight),   // inward: DownLeft, blocked by 3
		placePiece(t, lt, 1, AxisCol, 1, 2, DirDownRight), // inward: UpLeft, blocked by 0
		placePiece(t, lt, 2, AxisRow, 2, 2, DirDownLeft),  // inward: UpRight, blocked by 1
		placePiece(t, lt, 3, AxisCol, 2, 0, DirUpLeft),    // inward: DownRight, blocked by 2
	}
}

func TestDeadEndedPeelLeavesDirectionsUntouched(t *testing.T) {
	lt := NewLattice(DefaultBoardSpec())
	pieces := windmillPieces(t, lt)

	// One extra piece per windmill lane, past the ring's open end. Each has
	// exactly one clear direction, pointing through the ring, so committing
	// it fixes the lane to the ring piece's blocked inward direction.
	fixers := []*Piece{
		placePiece(t, lt, 4, AxisRow, 4, 1, DirUpRight),    // col 1, exits DownLeft
		placePiece(t, lt, 5, AxisCol, 1, -2, DirDownRight), // row 1, exits UpLeft
		placePiece(t, lt, 6, AxisRow, -2, 2, DirDownLeft),  // col 2, exits UpRight
		placePiece(t, lt, 7, AxisCol, 2, 4, DirUpLeft),     // row 2, exits DownRight
	}
	pieces = append(pieces, fixers...)

	initial := make(map[int]Dir, len(pieces))
	for _, p := range pieces {
		initial[p.ID] = p.Dir
	}

	a := newAssigner(lt, pieces, ForLevel(10), NewRNG(1))
	for i, dir := range []Dir{DirDownLeft, DirUpLeft, DirUpRight, DirDownRight} {
		if !a.laneClear(fixers[i], dir) {
			t.Fatalf("fixer %d lane not clear toward %s", fixers[i].ID, dir)
		}
		a.commit(fixers[i], dir)
	}

	err := a.run()
	if !errors.Is(err, errAssignmentDeadend) {
		t.Fatalf("run = %v, want assignment dead end", err)
	}
	for _, p := range pieces {
		if p.Dir != initial[p.ID] {
			t.Errorf("piece %d: dir %s -> %s despite failed run", p.ID, initial[p.ID], p.Dir)
		}
	}
}

func TestLaneRatioCeilingPenalizesScore(t *testing.T) {
	lt := NewLattice(DefaultBoardSpec())
	pieces := []*Piece{
		placePiece(t, lt, 0, AxisRow, 0, 0, DirUpRight),
		placePiece(t, lt, 1, AxisRow, 0, 4, DirUpRight),
	}

	// Identical assigner state except for the lane ratio cap: fixing one
	// lane to DownLeft puts that direction's lane share at 1.0, so a second
	// new-lane DownLeft candidate sits over a 0.5 cap but under a 1.0 cap.
	scoreWith := func(ratio float64) float64 {
		params := ForLevel(10)
		params.MaxDirRatioLane = ratio
		a := newAssigner(lt, pieces, params, NewRNG(7))
		a.commit(pieces[0], DirDownLeft)
		return a.score(pieces[1], DirDownLeft)
	}

	diff := scoreWith(1.0) - scoreWith(0.5)
	if math.Abs(diff-ceilPenalty) > 1e-9 {
		t.Errorf("capped score penalty = %v, want %v", diff, ceilPenalty)
	}
}
