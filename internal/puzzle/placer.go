package puzzle

import "sort"

// placer fills a lattice with disjoint dual-cell pieces approximating the
// parameter fill rate and the active spatial profile. A shortfall against
// the target count is not fatal; the orchestrator proceeds with whatever
// was placed.
type placer struct {
	lt      *Lattice
	rng     *RNG
	profile ProfileFunc

	weights map[CellRef]float64
	rowAxis int // pieces placed on the row axis so far
	colAxis int
}

// axisPenalty discourages letting one axis dominate the board, which would
// otherwise degenerate into an all-parallel layout with trivial blocking.
const axisPenalty = 0.18

func newPlacer(lt *Lattice, profile ProfileFunc, rng *RNG) *placer {
	p := &placer{lt: lt, rng: rng, profile: profile, weights: make(map[CellRef]float64)}
	for _, ref := range lt.ValidCells() {
		p.weights[ref] = profile(lt, ref) + rng.Float()*0.15
	}
	return p
}

// place returns up to targetCount pieces with IDs 0..n-1 in placement order.
func (p *placer) place(targetCount int) []*Piece {
	cells := p.lt.ValidCells()
	if len(cells) < 2 || targetCount <= 0 {
		return nil
	}
	if max := len(cells) / 2; targetCount > max {
		targetCount = max
	}

	// Greedy pass: highest-weighted cells claim their best free neighbor.
	ordered := make([]CellRef, len(cells))
	copy(ordered, cells)
	sort.SliceStable(ordered, func(i, j int) bool {
		return p.weights[ordered[i]] > p.weights[ordered[j]]
	})

	pieces := make([]*Piece, 0, targetCount)
	pieces = p.pairPass(ordered, pieces, targetCount)

	// Mop-up pass: revisit skipped cells in shuffled order. Cells whose
	// preferred neighbors were taken earlier often still pair up here.
	if len(pieces) < targetCount {
		free := make([]CellRef, 0, len(cells))
		for _, ref := range cells {
			if !p.lt.Cell(ref).Occupied() {
				free = append(free, ref)
			}
		}
		p.rng.Shuffle(len(free), func(i, j int) { free[i], free[j] = free[j], free[i] })
		pieces = p.pairPass(free, pieces, targetCount)
	}
	return pieces
}

func (p *placer) pairPass(order []CellRef, pieces []*Piece, targetCount int) []*Piece {
	for _, ref := range order {
		if len(pieces) >= targetCount {
			break
		}
		cell := p.lt.Cell(ref)
		if cell == nil || !cell.Valid || cell.Occupied() {
			continue
		}
		mate, ok := p.bestMate(ref)
		if !ok {
			continue
		}
		pieces = append(pieces, p.commit(len(pieces), ref, mate))
	}
	return pieces
}

// bestMate scores the free lattice neighbors of ref and returns the best.
// Neighbor score combines the layout weight with a penalty on cumulative
// row/col axis imbalance.
func (p *placer) bestMate(ref CellRef) (CellRef, bool) {
	var best CellRef
	bestScore := 0.0
	found := false
	for _, n := range ref.neighbors() {
		cell := p.lt.Cell(n)
		if cell == nil || !cell.Valid || cell.Occupied() {
			continue
		}
		score := p.weights[n] + p.rng.Float()*0.05
		axis := pairAxis(ref, n)
		if over := p.axisExcess(axis); over > 0 {
			score -= axisPenalty * float64(over)
		}
		if !found || score > bestScore {
			best, bestScore, found = n, score, true
		}
	}
	return best, found
}

func (p *placer) axisExcess(a Axis) int {
	if a == AxisRow {
		return p.rowAxis - p.colAxis
	}
	return p.colAxis - p.rowAxis
}

func pairAxis(a, b CellRef) Axis {
	if a.Col == b.Col {
		return AxisRow
	}
	return AxisCol
}

func (p *placer) commit(id int, a, b CellRef) *Piece {
	// Canonical cell order: Cells[0] has the smaller row/col.
	if b.Row < a.Row || b.Col < a.Col {
		a, b = b, a
	}
	piece := &Piece{
		ID:    id,
		Kind:  Kind(p.rng.Intn(int(kindCount))),
		Axis:  pairAxis(a, b),
		Cells: [2]CellRef{a, b},
		Depth: 0,
	}
	if piece.Axis == AxisRow {
		p.rowAxis++
	} else {
		p.colAxis++
	}
	p.lt.Occupy(piece)
	p.lt.Anchor(piece)
	return piece
}

// targetPieceCount derives the attempt's piece target from the fill rate
// and the parameter count range.
func targetPieceCount(lt *Lattice, params Parameters) int {
	byFill := int(float64(lt.ValidCount())*params.FillRate/2 + 0.5)
	if byFill < params.PieceCountMin {
		byFill = params.PieceCountMin
	}
	if byFill > params.PieceCountMax {
		byFill = params.PieceCountMax
	}
	return byFill
}
