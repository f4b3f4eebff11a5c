package game

import (
	"strings"
	"testing"

	"github.com/akarpov/slideaway/internal/core"
	"github.com/akarpov/slideaway/internal/puzzle"
)

func testParams(level int) puzzle.Parameters {
	p := puzzle.ForLevel(level)
	p.TimeBudget = 0
	p.QuickFilterAttempts = 0
	return p
}

func testConfig() core.RuntimeConfig {
	cfg := core.DefaultConfig()
	cfg.Seed = 42
	return cfg
}

func makePiece(t *testing.T, lt *puzzle.Lattice, id int, axis puzzle.Axis, row, col int, dir puzzle.Dir) *puzzle.Piece {
	t.Helper()
	cells := [2]puzzle.CellRef{{Row: row, Col: col}, {Row: row + 1, Col: col}}
	if axis == puzzle.AxisCol {
		cells[1] = puzzle.CellRef{Row: row, Col: col + 1}
	}
	p := &puzzle.Piece{ID: id, Axis: axis, Dir: dir, Cells: cells}
	lt.Occupy(p)
	lt.Anchor(p)
	return p
}

func boardOf(pieces ...*puzzle.Piece) *puzzle.Result {
	return &puzzle.Result{
		Board:    puzzle.DefaultBoardSpec(),
		Pieces:   pieces,
		Count:    len(pieces),
		Solvable: true,
		Params:   testParams(1),
	}
}

// chainBoard is a two-piece column where piece 0 must leave before piece 1.
func chainBoard(t *testing.T) *puzzle.Result {
	t.Helper()
	lt := puzzle.NewLattice(puzzle.DefaultBoardSpec())
	a := makePiece(t, lt, 0, puzzle.AxisRow, 2, 0, puzzle.DirDownLeft)
	b := makePiece(t, lt, 1, puzzle.AxisRow, -1, 0, puzzle.DirDownLeft)
	return boardOf(a, b)
}

func loadBoard(t *testing.T, r *puzzle.Result) *Game {
	t.Helper()
	g := New(puzzle.DefaultBoardSpec(), testParams)
	g.Reset(testConfig())
	g.SetBoard(r)
	return g
}

func frame(a core.Action) core.InputFrame {
	f := core.NewInputFrame()
	f.Set(a)
	return f
}

// spin steps with empty input until generation finishes.
func spin(t *testing.T, g *Game) {
	t.Helper()
	for i := 0; i < 100000; i++ {
		if st := g.Step(core.NewInputFrame()); !st.State.Generating {
			return
		}
	}
	t.Fatal("generation never finished")
}

func TestGenerationAcrossTicks(t *testing.T) {
	g := New(puzzle.DefaultBoardSpec(), testParams)
	g.Reset(testConfig())

	if !g.State().Generating {
		t.Fatal("expected Generating right after Reset")
	}
	spin(t, g)

	st := g.State()
	if st.Remaining == 0 {
		t.Fatal("generated board has no pieces")
	}
	if g.CursorID() < 0 {
		t.Error("cursor not seated on a piece")
	}
	if g.Result().Seed != 42 {
		t.Errorf("seed = %d, want 42", g.Result().Seed)
	}
}

func TestRemoveOrderViaCursor(t *testing.T) {
	g := loadBoard(t, chainBoard(t))

	if !g.SelectPiece(1) {
		t.Fatal("SelectPiece(1) failed")
	}
	st := g.Step(frame(core.ActionConfirm)).State
	if st.Remaining != 2 || st.Moves != 0 {
		t.Fatalf("blocked removal changed the board: %+v", st)
	}

	g.SelectPiece(0)
	st = g.Step(frame(core.ActionConfirm)).State
	if st.Remaining != 1 || st.Moves != 1 {
		t.Fatalf("after removing 0: %+v", st)
	}
	if g.CursorID() != 1 {
		t.Errorf("cursor = %d, want reseated on 1", g.CursorID())
	}

	st = g.Step(frame(core.ActionConfirm)).State
	if !st.Won || st.Remaining != 0 {
		t.Fatalf("after removing 1: %+v", st)
	}
}

func TestHammerBypassesBlockingAndSpendsCharge(t *testing.T) {
	g := loadBoard(t, chainBoard(t))

	g.SelectPiece(1)
	st := g.Step(frame(core.ActionHammer)).State
	if st.Remaining != 1 || st.Hammers != 0 {
		t.Fatalf("after hammer: %+v", st)
	}

	// No charges left: the second hammer must not remove anything.
	st = g.Step(frame(core.ActionHammer)).State
	if st.Remaining != 1 {
		t.Fatalf("chargeless hammer removed a piece: %+v", st)
	}
}

func TestPauseBlocksRemoval(t *testing.T) {
	g := loadBoard(t, chainBoard(t))
	g.SelectPiece(0)

	if st := g.Step(frame(core.ActionPause)).State; !st.Paused {
		t.Fatal("pause did not engage")
	}
	if st := g.Step(frame(core.ActionConfirm)).State; st.Remaining != 2 {
		t.Fatal("removal went through while paused")
	}

	g.Step(frame(core.ActionPause))
	if st := g.Step(frame(core.ActionConfirm)).State; st.Remaining != 1 {
		t.Fatal("removal failed after unpausing")
	}
}

func TestRestartRegenerates(t *testing.T) {
	g := New(puzzle.DefaultBoardSpec(), testParams)
	g.Reset(testConfig())
	spin(t, g)

	firstSeed := g.Result().Seed
	if id, ok := g.Play().Hint(); ok {
		g.SelectPiece(id)
		g.Step(frame(core.ActionConfirm))
	}
	if g.State().Moves != 1 {
		t.Fatalf("moves = %d, want 1", g.State().Moves)
	}

	if st := g.Step(frame(core.ActionRestart)).State; !st.Generating {
		t.Fatal("restart did not trigger regeneration")
	}
	spin(t, g)
	if g.State().Moves != 0 {
		t.Error("restart kept the move counter")
	}
	if g.Result().Seed == firstSeed {
		t.Error("restart reused the old seed")
	}
}

func TestCursorNavigation(t *testing.T) {
	lt := puzzle.NewLattice(puzzle.DefaultBoardSpec())
	// Piece 1 sits to the lower-right of piece 0 in pixel space.
	a := makePiece(t, lt, 0, puzzle.AxisRow, 2, 0, puzzle.DirDownLeft)
	b := makePiece(t, lt, 1, puzzle.AxisRow, 0, 5, puzzle.DirDownLeft)
	g := loadBoard(t, boardOf(a, b))

	g.SelectPiece(0)
	g.Step(frame(core.ActionRight))
	if g.CursorID() != 1 {
		t.Fatalf("cursor = %d after right, want 1", g.CursorID())
	}
	g.Step(frame(core.ActionLeft))
	if g.CursorID() != 0 {
		t.Fatalf("cursor = %d after left, want 0", g.CursorID())
	}
	// No piece further left: the cursor stays put.
	g.Step(frame(core.ActionLeft))
	if g.CursorID() != 0 {
		t.Errorf("cursor = %d, want unchanged 0", g.CursorID())
	}
}

func TestRenderHUDAndBoard(t *testing.T) {
	g := loadBoard(t, chainBoard(t))
	s := core.NewScreen(80, 24)
	g.Render(s)

	if !strings.Contains(s.Row(0), "Slideaway") || !strings.Contains(s.Row(0), "Pieces 2") {
		t.Errorf("HUD row = %q", s.Row(0))
	}

	colored := 0
	for y := hudHeight; y < s.Height()-1; y++ {
		for x := 0; x < s.Width(); x++ {
			if s.Get(x, y) != ' ' && s.ColorAt(x, y) != core.ColorDefault {
				colored++
			}
		}
	}
	if colored == 0 {
		t.Error("no piece glyphs drawn in the board area")
	}
}

func TestRenderOverlays(t *testing.T) {
	g := New(puzzle.DefaultBoardSpec(), testParams)
	g.Reset(testConfig())

	s := core.NewScreen(80, 24)
	g.Render(s)
	if !strings.Contains(s.String(), "Generating level") {
		t.Error("missing generation overlay")
	}

	lt := puzzle.NewLattice(puzzle.DefaultBoardSpec())
	solo := makePiece(t, lt, 0, puzzle.AxisRow, 2, 0, puzzle.DirDownLeft)
	g = loadBoard(t, boardOf(solo))
	g.SelectPiece(0)
	if st := g.Step(frame(core.ActionConfirm)).State; !st.Won {
		t.Fatalf("expected win, got %+v", st)
	}
	g.Render(s)
	if !strings.Contains(s.String(), "Level clear!") {
		t.Error("missing win overlay")
	}
}

func TestShuffleAndHintActions(t *testing.T) {
	g := New(puzzle.DefaultBoardSpec(), testParams)
	cfg := testConfig()
	cfg.Level = 10
	g.Reset(cfg)
	spin(t, g)

	before := g.State().Remaining
	st := g.Step(frame(core.ActionShuffle)).State
	if st.Remaining != before {
		t.Fatalf("shuffle changed piece count: %d -> %d", before, st.Remaining)
	}
	if st.Shuffles != 0 {
		t.Errorf("shuffles left = %d, want 0", st.Shuffles)
	}

	g.Step(frame(core.ActionHint))
	if g.hintID < 0 {
		t.Error("hint did not mark a piece")
	}
	if !g.Play().Removable(g.hintID) {
		t.Error("hinted piece is not removable")
	}
}
