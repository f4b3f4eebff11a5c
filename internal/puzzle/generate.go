package puzzle

import (
	"math"
	"time"
)

// Result is the outcome of level generation. Pieces are listed in
// placement order with directions, lattice coordinates, pixel geometry and
// dependency depths filled in. Renderers consume it read-only; the game
// controller layers runtime state on top.
//
// A Result is always playable and structurally valid: generation errors
// (board too small, placement shortfall, assignment dead ends, difficulty
// out of band) are absorbed by the retry loop, never surfaced.
type Result struct {
	Level      int
	Seed       uint32
	Board      BoardSpec
	Pieces     []*Piece
	Count      int
	Solvable   bool
	Difficulty float64
	Diag       Diagnostics
	Params     Parameters
}

// Empty reports whether the board has no pieces (for example a board too
// small to hold a single piece).
func (r *Result) Empty() bool { return r.Count == 0 }

// RebuildLattice reconstructs the occupancy lattice for this result.
// Generation discards its lattice; gameplay rebuilds one to drive the
// detector's grid fast path.
func (r *Result) RebuildLattice() *Lattice {
	lt := NewLattice(r.Board)
	for _, p := range r.Pieces {
		lt.Occupy(p)
	}
	return lt
}

// Generate synthesizes a level for the given index using the standard
// difficulty curve. It always returns a playable result; when no attempt
// lands inside the difficulty band it returns the closest candidate.
func Generate(level int, board BoardSpec, seed uint32) *Result {
	return GenerateWithParams(ForLevel(level), board, seed)
}

// GenerateWithParams runs the full attempt loop synchronously.
func GenerateWithParams(params Parameters, board BoardSpec, seed uint32) *Result {
	s := NewStepper(params, board, seed)
	for !s.Step() {
	}
	return s.Result()
}

// Stepper is the resumable form of the generation loop: each Step call
// runs exactly one bounded attempt, so callers may slice generation across
// frame callbacks or run it on a background worker. The zero value is not
// usable; use NewStepper.
type Stepper struct {
	params   Parameters
	board    BoardSpec
	seed     uint32
	rng      *RNG
	deadline time.Time

	attempt int
	best    *Result
	bestGap float64
	done    bool
}

// NewStepper prepares a generation run.
func NewStepper(params Parameters, board BoardSpec, seed uint32) *Stepper {
	s := &Stepper{
		params:  params,
		board:   board,
		seed:    seed,
		rng:     NewRNG(seed),
		bestGap: math.Inf(1),
	}
	if params.TimeBudget > 0 {
		s.deadline = time.Now().Add(params.TimeBudget)
	}
	return s
}

// Done reports whether the run has finished.
func (s *Stepper) Done() bool { return s.done }

// Result returns the best candidate so far. After Done it is the final,
// always non-nil result.
func (s *Stepper) Result() *Result {
	if s.best == nil {
		return s.emptyResult()
	}
	return s.best
}

// Step runs one generation attempt and returns true once the run is
// complete: an attempt landed inside the difficulty band, the attempt
// budget ran out, or the wall-clock budget expired. The budget check
// happens between attempts, never inside one; a single attempt is
// self-bounded.
func (s *Stepper) Step() bool {
	if s.done {
		return true
	}
	if s.attempt >= s.params.MaxAttempts || (!s.deadline.IsZero() && time.Now().After(s.deadline)) {
		s.done = true
		return true
	}

	attempt := s.attempt
	s.attempt++
	rng := s.rng.Fork(attempt)

	candidate, ok := s.generateOnce(rng, attempt)
	if !ok {
		return false
	}
	if candidate.Empty() {
		// Board too small for any placement; retrying cannot help.
		s.best = candidate
		s.done = true
		return true
	}

	gap := math.Abs(candidate.Difficulty - s.params.DifficultyTarget)
	inBand := candidate.Diag.AvgDepth >= s.params.DepthTargetMin &&
		candidate.Diag.AvgDepth <= s.params.DepthTargetMax

	// Out-of-band depth keeps a candidate eligible as a fallback but
	// never as an early accept.
	rank := gap
	if !inBand {
		rank += 1
	}
	if rank < s.bestGap {
		s.best, s.bestGap = candidate, rank
	}
	if inBand && gap <= s.params.DifficultyTolerance {
		s.done = true
		return true
	}
	return false
}

// generateOnce runs placement, peel assignment and graph validation for a
// single seed. A false second return means the attempt was discarded
// (assignment dead end or failed pre-filter).
func (s *Stepper) generateOnce(rng *RNG, attempt int) (*Result, bool) {
	lt := NewLattice(s.board)
	if lt.ValidCount() < 2 {
		return s.emptyResult(), true
	}

	profile := s.params.Profiles[rng.Intn(len(s.params.Profiles))]
	pl := newPlacer(lt, LookupProfile(profile), rng)
	pieces := pl.place(targetPieceCount(lt, s.params))
	if len(pieces) == 0 {
		return s.emptyResult(), true
	}

	if err := newAssigner(lt, pieces, s.params, rng).run(); err != nil {
		return nil, false
	}

	det := NewDetector(lt, pieces, nil)

	// Optional randomized pre-filter; cheap rejection before the full
	// graph build. The graph analysis below stays authoritative.
	if s.params.QuickFilterAttempts > 0 {
		if !EstimateSolvable(det, s.params.QuickFilterAttempts, rng) {
			return nil, false
		}
	}

	g := BuildGraph(det)
	solvable := g.TopoOrder() != nil
	if !solvable {
		// Peel construction should never produce a cycle; treat one as a
		// discarded attempt rather than shipping an unsolvable board.
		return nil, false
	}

	diag := g.Diagnose()
	diag.FillRate = lt.FillRate()
	diag.Attempts = attempt + 1
	diag.Profile = profile

	return &Result{
		Level:      s.params.Level,
		Seed:       s.seed,
		Board:      s.board,
		Pieces:     pieces,
		Count:      len(pieces),
		Solvable:   true,
		Difficulty: g.Score(),
		Diag:       diag,
		Params:     s.params,
	}, true
}

func (s *Stepper) emptyResult() *Result {
	return &Result{
		Level:    s.params.Level,
		Seed:     s.seed,
		Board:    s.board,
		Pieces:   nil,
		Count:    0,
		Solvable: true,
		Params:   s.params,
	}
}
