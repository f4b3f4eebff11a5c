package puzzle

import "math"

// maxRaySteps caps the ray-march fallback. The cap is a safety valve
// against malformed input (degenerate direction vector, a piece whose body
// overlaps itself after an effect); exhausting it reports "blocked" rather
// than looping. This bound is part of the detector's contract.
const maxRaySteps = 512

// Detector answers the single-piece question "is this piece's exit lane
// clear" for one board snapshot. It underlies dependency graph
// construction, the deadlock scan and live click validation.
//
// When Lattice is non-nil, pieces are lattice-anchored and the grid fast
// path walks cells ahead of the piece. When it is nil (for example right
// after a position-shuffle effect, before re-anchoring), the ray-march
// fallback steps a point through pixel space instead. Both paths agree
// wherever both apply; the grid path exists purely for speed.
type Detector struct {
	Lattice *Lattice
	Bounds  RectF   // screen bounds used by the ray fallback
	Spacing float64 // lattice pitch; sizes piece bodies for ray tests
	Erosion float64 // hit-rect inset, half the visual gap
	Pieces  []*Piece
	Alive   func(id int) bool // false once a piece has been removed
}

// NewDetector builds a detector over a lattice-anchored board.
func NewDetector(lt *Lattice, pieces []*Piece, alive func(int) bool) *Detector {
	return &Detector{
		Lattice: lt,
		Bounds:  RectF{X: 0, Y: 0, W: lt.Spec.Width, H: lt.Spec.Height},
		Spacing: lt.Spacing,
		Erosion: lt.Spec.Gap / 2,
		Pieces:  pieces,
		Alive:   alive,
	}
}

func (d *Detector) alive(id int) bool {
	if d.Alive == nil {
		return true
	}
	return d.Alive(id)
}

// ExitClear reports whether p could slide off the board along dir right
// now, ignoring removed pieces.
func (d *Detector) ExitClear(p *Piece, dir Dir) bool {
	if d.Lattice != nil {
		return d.gridClear(p, dir, nil)
	}
	return d.rayClear(p, dir, nil)
}

// Blockers returns the IDs of all active pieces sitting between p and the
// board edge along dir, in near-to-far order.
func (d *Detector) Blockers(p *Piece, dir Dir) []int {
	var ids []int
	sink := func(id int) {
		for _, seen := range ids {
			if seen == id {
				return
			}
		}
		ids = append(ids, id)
	}
	if d.Lattice != nil {
		d.gridClear(p, dir, sink)
	} else {
		d.rayClear(p, dir, sink)
	}
	return ids
}

// Removable reports whether p can exit along its facing direction.
func (d *Detector) Removable(p *Piece) bool {
	return d.ExitClear(p, p.Dir)
}

// Deadlocked reports whether no active piece is removable. Called after
// every successful removal during play; O(n) over remaining pieces.
func (d *Detector) Deadlocked() bool {
	for _, p := range d.Pieces {
		if !d.alive(p.ID) {
			continue
		}
		if d.Removable(p) {
			return false
		}
	}
	return true
}

// gridClear walks lattice cells strictly ahead of p until it steps off the
// lattice (clear) or hits an active piece's cell (blocked). With a non-nil
// sink it keeps walking and reports every blocker instead of
// short-circuiting.
func (d *Detector) gridClear(p *Piece, dir Dir, sink func(id int)) bool {
	head := headCell(p, dir)
	clear := true
	for ref := head.Step(dir); d.Lattice.Valid(ref); ref = ref.Step(dir) {
		owner := d.Lattice.Owner(ref)
		if owner < 0 || owner == p.ID || !d.alive(owner) {
			continue
		}
		if sink == nil {
			return false
		}
		sink(owner)
		clear = false
	}
	return clear
}

// headCell returns whichever of p's two cells leads when moving along dir.
func headCell(p *Piece, dir Dir) CellRef {
	dr, dc := dir.Delta()
	a, b := p.Cells[0], p.Cells[1]
	if dr*a.Row+dc*a.Col >= dr*b.Row+dc*b.Col {
		return a
	}
	return b
}

// rayClear marches a point outward from p's body along dir's unit vector
// in fixed small steps, testing each step against every other active
// piece's eroded body and against the screen bounds.
func (d *Detector) rayClear(p *Piece, dir Dir, sink func(id int)) bool {
	v := dir.Vector()
	if v.X == 0 && v.Y == 0 {
		return false
	}
	step := d.Spacing / 4
	if step <= 0 {
		return false
	}
	// Start just past p's own body so the piece never blocks itself.
	pos := p.Center.Add(v.Scale(d.Spacing + step/2))

	exited := false
	blocked := false
	for i := 0; i < maxRaySteps; i++ {
		if !d.Bounds.Contains(pos) {
			exited = true
			break
		}
		for _, other := range d.Pieces {
			if other.ID == p.ID || !d.alive(other.ID) {
				continue
			}
			if d.bodyContains(other, pos) {
				if sink == nil {
					return false
				}
				sink(other.ID)
				blocked = true
			}
		}
		pos = pos.Add(v.Scale(step))
	}
	// Never exiting within the step cap counts as blocked.
	return exited && !blocked
}

// bodyContains tests a pixel point against a piece's eroded hit body. The
// body is a Spacing x 2*Spacing rectangle aligned with the piece's axis,
// so the test projects onto the axis and its perpendicular rather than
// using the axis-aligned Rect.
func (d *Detector) bodyContains(p *Piece, q Vec) bool {
	rel := q.Sub(p.Center)
	var axisVec Vec
	if p.Axis == AxisRow {
		axisVec = Vec{X: -sqrt2Inv, Y: sqrt2Inv}
	} else {
		axisVec = Vec{X: sqrt2Inv, Y: sqrt2Inv}
	}
	perp := Vec{X: -axisVec.Y, Y: axisVec.X}
	along := math.Abs(rel.Dot(axisVec))
	cross := math.Abs(rel.Dot(perp))
	return along < d.Spacing-d.Erosion && cross < d.Spacing/2-d.Erosion
}
