package puzzle

import "math"

const sqrt2Inv = 0.7071067811865476

// BoardSpec describes the pixel area available for a level plus the piece
// metrics used to derive lattice spacing.
type BoardSpec struct {
	Width     float64 // board width in pixels
	Height    float64 // board height in pixels
	PieceSize float64 // piece short side in pixels
	Gap       float64 // visual gap between adjacent pieces
	Margin    float64 // extra inset between the safe rect and the board edge
}

// DefaultBoardSpec returns sensible defaults for an abstract 1000x1000 board.
func DefaultBoardSpec() BoardSpec {
	return BoardSpec{
		Width:     1000,
		Height:    1000,
		PieceSize: 56,
		Gap:       6,
		Margin:    12,
	}
}

// Cell is one lattice position. Cells are created at lattice init and
// mutated only through Occupy/Release; the lattice is discarded and rebuilt
// for every generation attempt.
type Cell struct {
	Ref      CellRef
	Center   Vec  // pixel center
	Valid    bool // inside the safe rect
	Boundary bool // valid cell with at least one invalid neighbor
	Owner    int  // owning piece ID, or -1 when free
}

// Occupied reports whether a piece owns this cell.
func (c *Cell) Occupied() bool { return c.Owner >= 0 }

// Lattice is the 45°-rotated square lattice covering the board's safe
// rectangle. Storage is a flat arena indexed by (row, col) with explicit
// bounds; rows grow toward the lower-left of the screen, columns toward the
// lower-right, and cell (0,0) sits at the board center.
type Lattice struct {
	Spec    BoardSpec
	Spacing float64 // cell pitch: piece short side + gap
	Origin  Vec     // pixel position of cell (0,0)
	Safe    RectF   // region cell centers must fall in

	minRow, minCol int
	rows, cols     int
	cells          []Cell

	validCount    int
	occupiedCount int
	freeBoundary  int // free boundary cells, an entry-point heuristic
}

// NewLattice builds the lattice for a board. The safe rect is the board
// inset by a piece's half-extent plus margin so no piece body clips the
// edge. A board too small for at least one piece yields a lattice with
// fewer than two valid cells; callers treat that as an empty level.
func NewLattice(spec BoardSpec) *Lattice {
	spacing := spec.PieceSize + spec.Gap
	half := spacing * 1.5 * sqrt2Inv // half-extent of a two-cell piece body
	safe := RectF{X: 0, Y: 0, W: spec.Width, H: spec.Height}.Inset(half + spec.Margin)

	lt := &Lattice{
		Spec:    spec,
		Spacing: spacing,
		Origin:  Vec{X: spec.Width / 2, Y: spec.Height / 2},
		Safe:    safe,
	}
	if safe.W <= 0 || safe.H <= 0 {
		return lt
	}

	h := spacing * sqrt2Inv
	bound := int((safe.W/2+safe.H/2)/(2*h)) + 1

	lt.minRow, lt.minCol = -bound, -bound
	lt.rows, lt.cols = 2*bound+1, 2*bound+1
	lt.cells = make([]Cell, lt.rows*lt.cols)

	for r := -bound; r <= bound; r++ {
		for c := -bound; c <= bound; c++ {
			ref := CellRef{Row: r, Col: c}
			cell := Cell{Ref: ref, Center: lt.centerOf(ref), Owner: -1}
			cell.Valid = safe.Contains(cell.Center)
			lt.cells[lt.index(ref)] = cell
			if cell.Valid {
				lt.validCount++
			}
		}
	}

	// Boundary flags need the full validity map first.
	for i := range lt.cells {
		cell := &lt.cells[i]
		if !cell.Valid {
			continue
		}
		for _, n := range cell.Ref.neighbors() {
			if !lt.Valid(n) {
				cell.Boundary = true
				lt.freeBoundary++
				break
			}
		}
	}
	return lt
}

func (c CellRef) neighbors() [4]CellRef {
	return [4]CellRef{
		{Row: c.Row - 1, Col: c.Col},
		{Row: c.Row + 1, Col: c.Col},
		{Row: c.Row, Col: c.Col - 1},
		{Row: c.Row, Col: c.Col + 1},
	}
}

func (lt *Lattice) index(ref CellRef) int {
	return (ref.Row-lt.minRow)*lt.cols + (ref.Col - lt.minCol)
}

func (lt *Lattice) inArena(ref CellRef) bool {
	return ref.Row >= lt.minRow && ref.Row < lt.minRow+lt.rows &&
		ref.Col >= lt.minCol && ref.Col < lt.minCol+lt.cols
}

// centerOf maps a lattice coordinate to its pixel center via the fixed
// affine transform: columns run toward the lower-right diagonal, rows
// toward the lower-left.
func (lt *Lattice) centerOf(ref CellRef) Vec {
	h := lt.Spacing * sqrt2Inv
	return Vec{
		X: lt.Origin.X + float64(ref.Col-ref.Row)*h,
		Y: lt.Origin.Y + float64(ref.Col+ref.Row)*h,
	}
}

// CenterOf returns the pixel center of a lattice coordinate, valid or not.
func (lt *Lattice) CenterOf(ref CellRef) Vec { return lt.centerOf(ref) }

// Cell returns the cell at ref, or nil when ref is outside the lattice.
func (lt *Lattice) Cell(ref CellRef) *Cell {
	if !lt.inArena(ref) {
		return nil
	}
	return &lt.cells[lt.index(ref)]
}

// Valid reports whether ref is a usable lattice member.
func (lt *Lattice) Valid(ref CellRef) bool {
	c := lt.Cell(ref)
	return c != nil && c.Valid
}

// Owner returns the piece ID occupying ref, or -1.
func (lt *Lattice) Owner(ref CellRef) int {
	c := lt.Cell(ref)
	if c == nil {
		return -1
	}
	return c.Owner
}

// ValidCount returns the number of usable cells.
func (lt *Lattice) ValidCount() int { return lt.validCount }

// FillRate returns the fraction of valid cells currently occupied.
func (lt *Lattice) FillRate() float64 {
	if lt.validCount == 0 {
		return 0
	}
	return float64(lt.occupiedCount) / float64(lt.validCount)
}

// FreeBoundaryCells returns the number of unoccupied cells on the lattice
// boundary. Entry points shrink as the rim fills up.
func (lt *Lattice) FreeBoundaryCells() int { return lt.freeBoundary }

// ValidCells returns all usable cells in deterministic row-major order.
func (lt *Lattice) ValidCells() []CellRef {
	refs := make([]CellRef, 0, lt.validCount)
	for r := lt.minRow; r < lt.minRow+lt.rows; r++ {
		for c := lt.minCol; c < lt.minCol+lt.cols; c++ {
			ref := CellRef{Row: r, Col: c}
			if lt.Valid(ref) {
				refs = append(refs, ref)
			}
		}
	}
	return refs
}

// Occupy claims both of a piece's cells. It panics if either cell is
// invalid or already owned; the placer guarantees disjoint placement.
func (lt *Lattice) Occupy(p *Piece) {
	for _, ref := range p.Cells {
		cell := lt.Cell(ref)
		if cell == nil || !cell.Valid || cell.Occupied() {
			panic("puzzle: occupy of invalid or owned cell " + ref.String())
		}
		cell.Owner = p.ID
		lt.occupiedCount++
		if cell.Boundary {
			lt.freeBoundary--
		}
	}
}

// Release frees both of a piece's cells (no-op for cells it does not own).
func (lt *Lattice) Release(p *Piece) {
	for _, ref := range p.Cells {
		cell := lt.Cell(ref)
		if cell == nil || cell.Owner != p.ID {
			continue
		}
		cell.Owner = -1
		lt.occupiedCount--
		if cell.Boundary {
			lt.freeBoundary++
		}
	}
}

// Anchor computes a piece's pixel geometry from its lattice cells: the
// center is the midpoint of the two cell centers and Rect is the AABB of
// the rotated body.
func (lt *Lattice) Anchor(p *Piece) {
	a := lt.centerOf(p.Cells[0])
	b := lt.centerOf(p.Cells[1])
	p.Center = Vec{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
	half := lt.Spacing * 1.5 * sqrt2Inv
	p.Rect = RectF{X: p.Center.X - half, Y: p.Center.Y - half, W: 2 * half, H: 2 * half}
}

// CenterDistance returns the pixel distance from ref's center to the board
// center, normalized so the farthest valid cell is ~1.
func (lt *Lattice) CenterDistance(ref CellRef) float64 {
	c := lt.centerOf(ref)
	dx := c.X - lt.Origin.X
	dy := c.Y - lt.Origin.Y
	maxR := math.Hypot(lt.Safe.W/2, lt.Safe.H/2)
	if maxR == 0 {
		return 0
	}
	return math.Hypot(dx, dy) / maxR
}
