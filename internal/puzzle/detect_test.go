package puzzle

import "testing"

// placePiece puts a two-cell piece on the lattice with explicit geometry.
// Test boards are built piece by piece instead of through the placer so the
// blocking topology is exact.
func placePiece(t *testing.T, lt *Lattice, id int, axis Axis, row, col int, dir Dir) *Piece {
	t.Helper()
	a := CellRef{Row: row, Col: col}
	b := CellRef{Row: row + 1, Col: col}
	if axis == AxisCol {
		b = CellRef{Row: row, Col: col + 1}
	}
	if !lt.Valid(a) || !lt.Valid(b) {
		t.Fatalf("test piece %d at %s/%s is off the lattice", id, a, b)
	}
	p := &Piece{ID: id, Axis: axis, Dir: dir, Cells: [2]CellRef{a, b}}
	lt.Occupy(p)
	lt.Anchor(p)
	return p
}

func TestSinglePieceAlwaysRemovable(t *testing.T) {
	lt := NewLattice(DefaultBoardSpec())
	p := placePiece(t, lt, 0, AxisRow, 0, 0, DirUpRight)
	det := NewDetector(lt, []*Piece{p}, nil)

	for _, dir := range p.Axis.Dirs() {
		if !det.ExitClear(p, dir) {
			t.Errorf("lone piece blocked along %s", dir)
		}
	}
	if !det.Removable(p) {
		t.Error("lone piece not removable")
	}
}

func TestOppositeFacingPairBlocksBothWays(t *testing.T) {
	lt := NewLattice(DefaultBoardSpec())
	a := placePiece(t, lt, 0, AxisRow, -3, 0, DirDownLeft)
	b := placePiece(t, lt, 1, AxisRow, 2, 0, DirUpRight)
	det := NewDetector(lt, []*Piece{a, b}, nil)

	if det.Removable(a) || det.Removable(b) {
		t.Fatal("mutually facing pieces must block each other")
	}
	if got := det.Blockers(a, a.Dir); len(got) != 1 || got[0] != b.ID {
		t.Errorf("Blockers(a) = %v, want [%d]", got, b.ID)
	}
	if got := det.Blockers(b, b.Dir); len(got) != 1 || got[0] != a.ID {
		t.Errorf("Blockers(b) = %v, want [%d]", got, a.ID)
	}
	if !det.Deadlocked() {
		t.Error("two mutually blocking pieces must be a deadlock")
	}
}

func TestBlockerRemovalUnblocks(t *testing.T) {
	lt := NewLattice(DefaultBoardSpec())
	a := placePiece(t, lt, 0, AxisRow, 2, 0, DirDownLeft)
	b := placePiece(t, lt, 1, AxisRow, -1, 0, DirDownLeft)

	removed := map[int]bool{}
	det := NewDetector(lt, []*Piece{a, b}, func(id int) bool { return !removed[id] })

	if !det.Removable(a) {
		t.Fatal("front piece must be removable")
	}
	if det.Removable(b) {
		t.Fatal("rear piece must be blocked by the front piece")
	}
	removed[a.ID] = true
	if !det.Removable(b) {
		t.Error("rear piece must become removable after the blocker is gone")
	}
}

func TestCrossLanePiecesDoNotBlock(t *testing.T) {
	lt := NewLattice(DefaultBoardSpec())
	// Same axis, adjacent lanes. Their axis-aligned bounding boxes overlap
	// on screen, but the rotated bodies never do.
	a := placePiece(t, lt, 0, AxisRow, 0, 0, DirUpRight)
	b := placePiece(t, lt, 1, AxisRow, 0, 1, DirUpRight)
	det := NewDetector(lt, []*Piece{a, b}, nil)

	if !det.Removable(a) || !det.Removable(b) {
		t.Error("pieces in different lanes must not block each other")
	}
	if err := CheckOverlaps([]*Piece{a, b}, lt.Spacing, lt.Spec.Gap/2); err != nil {
		t.Errorf("adjacent lanes reported as overlapping: %v", err)
	}
}

// TestGridAndRayPathsAgree cross-checks the lattice fast path against the
// ray-march fallback on a realistic generated board.
func TestGridAndRayPathsAgree(t *testing.T) {
	r := GenerateWithParams(noBudget(ForLevel(15)), DefaultBoardSpec(), 77)
	if r.Empty() {
		t.Fatal("expected a non-empty level")
	}
	lt := r.RebuildLattice()
	grid := NewDetector(lt, r.Pieces, nil)
	ray := &Detector{
		Bounds:  grid.Bounds,
		Spacing: grid.Spacing,
		Erosion: grid.Erosion,
		Pieces:  r.Pieces,
	}

	for _, p := range r.Pieces {
		for _, dir := range p.Axis.Dirs() {
			g, rr := grid.ExitClear(p, dir), ray.ExitClear(p, dir)
			if g != rr {
				t.Errorf("piece %d dir %s: grid=%v ray=%v", p.ID, dir, g, rr)
			}
		}
		gb := grid.Blockers(p, p.Dir)
		rb := ray.Blockers(p, p.Dir)
		if !equalIntSets(gb, rb) {
			t.Errorf("piece %d blockers: grid=%v ray=%v", p.ID, gb, rb)
		}
	}
}

func equalIntSets(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[int]bool, len(a))
	for _, v := range a {
		seen[v] = true
	}
	for _, v := range b {
		if !seen[v] {
			return false
		}
	}
	return true
}

// noBudget disables the wall-clock and pre-filter budgets so tests stay
// deterministic across machines.
func noBudget(p Parameters) Parameters {
	p.TimeBudget = 0
	p.QuickFilterAttempts = 0
	return p
}
