package puzzle

import (
	"fmt"
	"math"
)

// ValidationError contains details about a structural board defect.
type ValidationError struct {
	Code    string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// CheckOverlaps verifies that no two pieces' eroded hit bodies overlap.
// Bodies share the rotated lattice frame, so the pairwise test projects
// both rectangles onto the two lattice axes.
func CheckOverlaps(pieces []*Piece, spacing, erosion float64) error {
	type body struct {
		u, w   float64 // center in lattice-frame pixels
		hu, hw float64 // half extents along col/row axes
	}
	u := Vec{X: sqrt2Inv, Y: sqrt2Inv}
	w := Vec{X: -sqrt2Inv, Y: sqrt2Inv}

	bodies := make([]body, len(pieces))
	for i, p := range pieces {
		b := body{u: p.Center.Dot(u), w: p.Center.Dot(w)}
		if p.Axis == AxisCol {
			b.hu, b.hw = spacing-erosion, spacing/2-erosion
		} else {
			b.hu, b.hw = spacing/2-erosion, spacing-erosion
		}
		bodies[i] = b
	}

	for i := range bodies {
		for j := i + 1; j < len(bodies); j++ {
			a, b := bodies[i], bodies[j]
			if math.Abs(a.u-b.u) < a.hu+b.hu && math.Abs(a.w-b.w) < a.hw+b.hw {
				return ValidationError{
					Code:    "OVERLAP",
					Message: fmt.Sprintf("pieces %d and %d overlap", pieces[i].ID, pieces[j].ID),
				}
			}
		}
	}
	return nil
}

// CheckLaneConsistency verifies the load-bearing direction invariant:
// every piece sharing a lattice lane faces the same one of its two valid
// directions.
func CheckLaneConsistency(pieces []*Piece) error {
	seen := make(map[lane]Dir)
	for _, p := range pieces {
		key := lane{axis: p.Axis, key: p.laneKey()}
		if d, ok := seen[key]; ok && d != p.Dir {
			return ValidationError{
				Code: "LANE_MIX",
				Message: fmt.Sprintf("lane %s/%d mixes %s and %s",
					key.axis, key.key, d, p.Dir),
			}
		}
		seen[key] = p.Dir
	}
	return nil
}

// SimulateSolve plays the board greedily, always removing the lowest-ID
// removable piece, and returns the removal order plus whether the board
// cleared. A false result means the greedy walk got stuck, which for a
// lane-consistent board coincides with the graph analyzer detecting a
// cycle.
func SimulateSolve(det *Detector) ([]int, bool) {
	removed := make(map[int]bool)
	local := det.withOverlay(removed)

	order := make([]int, 0, len(det.Pieces))
	for {
		picked := -1
		for _, p := range det.Pieces {
			if removed[p.ID] || (det.Alive != nil && !det.Alive(p.ID)) {
				continue
			}
			if local.Removable(p) {
				picked = p.ID
				break
			}
		}
		if picked < 0 {
			break
		}
		removed[picked] = true
		order = append(order, picked)
	}

	remaining := 0
	for _, p := range det.Pieces {
		if !removed[p.ID] && (det.Alive == nil || det.Alive(p.ID)) {
			remaining++
		}
	}
	return order, remaining == 0
}

// EstimateSolvable runs a bounded number of randomized greedy-removal
// playthroughs and reports whether any cleared the board. It is a fast
// pre-filter only; the deterministic graph analysis is authoritative when
// the two disagree.
func EstimateSolvable(det *Detector, attempts int, rng *RNG) bool {
	if attempts <= 0 {
		attempts = 1
	}
	for a := 0; a < attempts; a++ {
		removed := make(map[int]bool)
		local := det.withOverlay(removed)
		left := 0
		for _, p := range det.Pieces {
			if det.Alive == nil || det.Alive(p.ID) {
				left++
			}
		}
		for left > 0 {
			var options []int
			for _, p := range det.Pieces {
				if removed[p.ID] || (det.Alive != nil && !det.Alive(p.ID)) {
					continue
				}
				if local.Removable(p) {
					options = append(options, p.ID)
				}
			}
			if len(options) == 0 {
				break
			}
			removed[options[rng.Intn(len(options))]] = true
			left--
		}
		if left == 0 {
			return true
		}
	}
	return false
}

// withOverlay derives a detector that additionally treats the overlay set
// as removed. The overlay map is read live, so callers mutate it between
// queries.
func (d *Detector) withOverlay(removed map[int]bool) *Detector {
	base := d.Alive
	out := *d
	out.Alive = func(id int) bool {
		if removed[id] {
			return false
		}
		return base == nil || base(id)
	}
	return &out
}

// pieceByID returns the piece with the given ID, or nil.
func pieceByID(pieces []*Piece, id int) *Piece {
	for _, p := range pieces {
		if p.ID == id {
			return p
		}
	}
	return nil
}
