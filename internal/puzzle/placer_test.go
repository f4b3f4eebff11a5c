package puzzle

import "testing"

func TestPlacerProducesDisjointValidPieces(t *testing.T) {
	lt := NewLattice(DefaultBoardSpec())
	pl := newPlacer(lt, LookupProfile("uniform"), NewRNG(4))
	pieces := pl.place(30)
	if len(pieces) == 0 {
		t.Fatal("placer produced nothing")
	}
	if len(pieces) > 30 {
		t.Fatalf("placed %d pieces over the target of 30", len(pieces))
	}

	owned := make(map[CellRef]int)
	for _, p := range pieces {
		if p.Cells[0].Step(dirToward(p)) != p.Cells[1] {
			t.Fatalf("piece %d cells %v not adjacent along its axis", p.ID, p.Cells)
		}
		for _, ref := range p.Cells {
			if !lt.Valid(ref) {
				t.Fatalf("piece %d uses invalid cell %s", p.ID, ref)
			}
			if prev, dup := owned[ref]; dup {
				t.Fatalf("cell %s owned by pieces %d and %d", ref, prev, p.ID)
			}
			owned[ref] = p.ID
			if lt.Owner(ref) != p.ID {
				t.Fatalf("lattice owner of %s is %d, want %d", ref, lt.Owner(ref), p.ID)
			}
		}
	}
}

// dirToward returns the direction stepping from Cells[0] to Cells[1] given
// the canonical cell order.
func dirToward(p *Piece) Dir {
	if p.Axis == AxisRow {
		return DirDownLeft
	}
	return DirDownRight
}

func TestPlacerCapsAtHalfTheCells(t *testing.T) {
	lt := NewLattice(DefaultBoardSpec())
	pl := newPlacer(lt, LookupProfile("uniform"), NewRNG(4))
	pieces := pl.place(100000)
	if max := lt.ValidCount() / 2; len(pieces) > max {
		t.Errorf("placed %d pieces on %d valid cells", len(pieces), lt.ValidCount())
	}
}

func TestTargetPieceCountRespectsRange(t *testing.T) {
	lt := NewLattice(DefaultBoardSpec())
	params := Parameters{PieceCountMin: 5, PieceCountMax: 12, FillRate: 0.9}
	if got := targetPieceCount(lt, params); got != 12 {
		t.Errorf("high fill target = %d, want clamp to 12", got)
	}
	params.FillRate = 0.0001
	if got := targetPieceCount(lt, params); got != 5 {
		t.Errorf("low fill target = %d, want clamp to 5", got)
	}
}

func TestHollowProfileAvoidsCenter(t *testing.T) {
	lt := NewLattice(DefaultBoardSpec())
	fn := LookupProfile("hollow")
	center := fn(lt, CellRef{Row: 0, Col: 0})
	edge := fn(lt, CellRef{Row: 0, Col: 8})
	if center >= edge {
		t.Errorf("hollow profile: center weight %v >= edge weight %v", center, edge)
	}
}

func TestAssignerProducesLaneConsistentSolvableBoard(t *testing.T) {
	lt := NewLattice(DefaultBoardSpec())
	rng := NewRNG(6)
	pieces := newPlacer(lt, LookupProfile("uniform"), rng).place(24)
	if len(pieces) < 2 {
		t.Fatal("not enough pieces to exercise the assigner")
	}

	params := ForLevel(10)
	if err := newAssigner(lt, pieces, params, rng).run(); err != nil {
		t.Fatalf("assigner: %v", err)
	}

	for _, p := range pieces {
		dirs := p.Axis.Dirs()
		if p.Dir != dirs[0] && p.Dir != dirs[1] {
			t.Fatalf("piece %d faces %s, invalid for %s axis", p.ID, p.Dir, p.Axis)
		}
	}
	if err := CheckLaneConsistency(pieces); err != nil {
		t.Fatal(err)
	}

	det := NewDetector(lt, pieces, nil)
	if _, cleared := SimulateSolve(det); !cleared {
		t.Error("assigned board is not solvable")
	}
	if BuildGraph(det).HasCycle() {
		t.Error("assigned board contains a blocking cycle")
	}
}
