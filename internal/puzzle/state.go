package puzzle

import (
	"errors"
	"fmt"
)

// Status is the terminal-state classification of a board in play.
type Status uint8

const (
	StatusPlaying Status = iota
	StatusWon
	StatusDeadlocked
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusPlaying:
		return "playing"
	case StatusWon:
		return "won"
	case StatusDeadlocked:
		return "deadlocked"
	default:
		return "?"
	}
}

var (
	// ErrNotRemovable is returned by Remove when the piece's exit lane is
	// blocked by another active piece.
	ErrNotRemovable = errors.New("puzzle: piece is blocked")
	// ErrNoCharges is returned when a power-up has no remaining uses.
	ErrNoCharges = errors.New("puzzle: no power-up charges left")
	// ErrGameOver is returned for moves after the board reached a
	// terminal state.
	ErrGameOver = errors.New("puzzle: board is no longer in play")
)

// State is the in-play controller layered over a generation result. It
// owns the runtime overlay (removed flags, power-up charges), keeps the
// dependency graph updated incrementally after each removal, and runs the
// deadlock scan after every successful move. A detected deadlock is a
// legitimate terminal game state, not an error.
type State struct {
	Result *Result

	lattice *Lattice
	det     *Detector
	graph   *Graph

	removed      []bool
	removedCount int
	status       Status
	moves        int

	// Power-up charges and usage counters.
	Hammers      int
	Shuffles     int
	hammersUsed  int
	shufflesUsed int
}

// NewState prepares a result for play.
func NewState(r *Result, hammers, shuffles int) *State {
	maxID := -1
	for _, p := range r.Pieces {
		if p.ID > maxID {
			maxID = p.ID
		}
	}
	s := &State{
		Result:   r,
		lattice:  r.RebuildLattice(),
		removed:  make([]bool, maxID+1),
		Hammers:  hammers,
		Shuffles: shuffles,
	}
	s.det = NewDetector(s.lattice, r.Pieces, s.alive)
	s.graph = BuildGraph(s.det)
	if r.Empty() {
		s.status = StatusWon
	}
	return s
}

func (s *State) alive(id int) bool {
	return id >= 0 && id < len(s.removed) && !s.removed[id]
}

// Status returns the current play status.
func (s *State) Status() Status { return s.status }

// Moves returns the number of successful removals (power-ups included).
func (s *State) Moves() int { return s.moves }

// Remaining returns how many pieces are still on the board.
func (s *State) Remaining() int { return s.Result.Count - s.removedCount }

// PowerUpsUsed returns hammer and shuffle usage counts.
func (s *State) PowerUpsUsed() (hammers, shuffles int) {
	return s.hammersUsed, s.shufflesUsed
}

// Piece returns the piece with the given ID, or nil.
func (s *State) Piece(id int) *Piece { return pieceByID(s.Result.Pieces, id) }

// Removed reports whether a piece has left the board.
func (s *State) Removed(id int) bool { return !s.alive(id) }

// Removable reports whether the piece can exit right now. This is the
// live click-validity check; it consults the detector rather than the
// cached graph so it stays correct mid-effect.
func (s *State) Removable(id int) bool {
	p := s.Piece(id)
	return p != nil && s.alive(id) && s.det.Removable(p)
}

// RemovableIDs returns every currently removable piece.
func (s *State) RemovableIDs() []int { return s.graph.Removable() }

// SafeIDs returns the removable pieces whose removal provably keeps the
// remainder solvable. On large boards the analysis is skipped and exact
// is false; callers should then treat all removable pieces as candidates.
func (s *State) SafeIDs() (ids []int, exact bool) {
	return s.graph.SafeMoves(s.det, s.Result.Params.SafeMoveCap)
}

// Hint suggests a piece to remove: a safe move when the analysis is
// affordable, otherwise the shallowest removable piece.
func (s *State) Hint() (int, bool) {
	if safe, exact := s.SafeIDs(); exact && len(safe) > 0 {
		return safe[0], true
	}
	if ids := s.graph.Removable(); len(ids) > 0 {
		return ids[0], true
	}
	return -1, false
}

// Remove takes a piece off the board. The piece must be removable; the
// graph is updated incrementally and the deadlock detector runs before
// returning. Returns the IDs that became removable by this move.
func (s *State) Remove(id int) ([]int, error) {
	if s.status != StatusPlaying {
		return nil, ErrGameOver
	}
	p := s.Piece(id)
	if p == nil || !s.alive(id) {
		return nil, fmt.Errorf("puzzle: no active piece %d", id)
	}
	if !s.det.Removable(p) {
		return nil, ErrNotRemovable
	}
	return s.take(p), nil
}

// UseHammer force-removes one piece regardless of blocking, then
// recomputes depths on the remainder. Hammers consume a charge but count
// as a move like any removal.
func (s *State) UseHammer(id int) ([]int, error) {
	if s.status != StatusPlaying {
		return nil, ErrGameOver
	}
	if s.Hammers <= 0 {
		return nil, ErrNoCharges
	}
	p := s.Piece(id)
	if p == nil || !s.alive(id) {
		return nil, fmt.Errorf("puzzle: no active piece %d", id)
	}
	s.Hammers--
	s.hammersUsed++
	freed := s.take(p)
	s.graph.ComputeDepths()
	return freed, nil
}

// take removes p unconditionally and refreshes terminal status.
func (s *State) take(p *Piece) []int {
	s.removed[p.ID] = true
	s.removedCount++
	s.moves++
	s.lattice.Release(p)
	freed := s.graph.OnRemove(p.ID)

	switch {
	case s.removedCount == s.Result.Count:
		s.status = StatusWon
	case s.det.Deadlocked():
		s.status = StatusDeadlocked
	}
	return freed
}

// UseShuffle redistributes the remaining pieces to fresh lattice
// positions, keeping each piece's direction. While pieces are detached
// from the lattice the blocking checks run through the ray-march
// fallback; once the new layout validates, pieces are re-anchored and the
// graph rebuilt. If the permuted layout turns out cyclic the directions
// are re-peeled from scratch, which restores solvability by construction.
func (s *State) UseShuffle(rng *RNG) error {
	if s.status != StatusPlaying {
		return ErrGameOver
	}
	if s.Shuffles <= 0 {
		return ErrNoCharges
	}

	aliveByAxis := map[Axis][]*Piece{}
	for _, p := range s.Result.Pieces {
		if s.alive(p.ID) {
			aliveByAxis[p.Axis] = append(aliveByAxis[p.Axis], p)
		}
	}

	// Permute cell-pairs within each axis group so every piece still
	// spans two cells adjacent along its own axis.
	backup := map[int][2]CellRef{}
	for _, group := range aliveByAxis {
		cells := make([][2]CellRef, len(group))
		for i, p := range group {
			backup[p.ID] = p.Cells
			cells[i] = p.Cells
			s.lattice.Release(p)
		}
		rng.Shuffle(len(cells), func(i, j int) { cells[i], cells[j] = cells[j], cells[i] })
		for i, p := range group {
			p.Cells = cells[i]
		}
	}

	alivePieces := make([]*Piece, 0, s.Remaining())
	for _, p := range s.Result.Pieces {
		if s.alive(p.ID) {
			s.lattice.Occupy(p)
			s.lattice.Anchor(p)
			alivePieces = append(alivePieces, p)
		}
	}

	// Unanchored validation pass: axis bookkeeping may be stale right
	// after the move, so this deliberately goes through the ray path.
	rayDet := &Detector{
		Lattice: nil,
		Bounds:  s.det.Bounds,
		Spacing: s.det.Spacing,
		Erosion: s.det.Erosion,
		Pieces:  s.Result.Pieces,
		Alive:   s.alive,
	}
	// A permuted piece may land in a lane whose occupants face the other
	// way; that forces a re-peel just like a cycle does.
	if CheckLaneConsistency(alivePieces) != nil || BuildGraph(rayDet).TopoOrder() == nil {
		if !s.repeel(alivePieces, rng) {
			// Could not rebuild a solvable layout; undo the shuffle.
			// Restoring cells is a complete undo: failed peel attempts
			// stage directions without writing them to pieces.
			for _, p := range alivePieces {
				s.lattice.Release(p)
			}
			for _, p := range alivePieces {
				p.Cells = backup[p.ID]
				s.lattice.Occupy(p)
				s.lattice.Anchor(p)
			}
			s.graph = BuildGraph(s.det)
			return errors.New("puzzle: shuffle produced no solvable layout")
		}
	}

	s.Shuffles--
	s.shufflesUsed++
	s.graph = BuildGraph(s.det)
	if s.det.Deadlocked() {
		s.status = StatusDeadlocked
	}
	return nil
}

// repeel reassigns directions on the shuffled remainder.
func (s *State) repeel(pieces []*Piece, rng *RNG) bool {
	for attempt := 0; attempt < 8; attempt++ {
		if err := newAssigner(s.lattice, pieces, s.Result.Params, rng.Fork(attempt)).run(); err == nil {
			return true
		}
	}
	return false
}
