package puzzle

import "errors"

// errAssignmentDeadend is returned when the peel loop finds unassigned
// pieces but no (piece, direction) candidate with a clear exit lane. The
// orchestrator discards the attempt and retries with a fresh seed.
var errAssignmentDeadend = errors.New("puzzle: no assignable piece with a clear exit lane")

// lane identifies the line of cells a piece slides along.
type lane struct {
	axis Axis
	key  int
}

// assigner gives every placed piece one of its two axis-valid directions
// such that the board is solvable by construction ("peel"). Pieces are
// committed one at a time; a committed piece is treated as virtually
// removed, so its cells no longer block later candidates. The commit order
// is itself a valid in-game removal order, which is what makes a post-hoc
// solvability search unnecessary.
//
// Commits accumulate in a scratch array and are written to the pieces only
// when the whole assignment succeeds. A dead-ended run therefore leaves
// every piece's direction exactly as it was, which is what lets re-peeling
// callers retry or roll back without snapshotting directions themselves.
//
// Invariant: all pieces sharing a lane receive the same direction. The
// first commit in a lane fixes it for every later piece in that lane.
type assigner struct {
	lt     *Lattice
	rng    *RNG
	params Parameters
	pieces []*Piece

	assigned  []bool
	dirs      []Dir // staged directions, flushed on success
	committed int

	laneDir     map[lane]Dir
	globalCount [4]int
	laneDirN    [4]int // lanes committed per direction
	sectorCount map[int][4]int
}

func newAssigner(lt *Lattice, pieces []*Piece, params Parameters, rng *RNG) *assigner {
	// Sized by max ID, not len: re-peeling after a power-up works on the
	// surviving subset whose IDs are sparse.
	maxID := 0
	for _, p := range pieces {
		if p.ID > maxID {
			maxID = p.ID
		}
	}
	return &assigner{
		lt:          lt,
		rng:         rng,
		params:      params,
		pieces:      pieces,
		assigned:    make([]bool, maxID+1),
		dirs:        make([]Dir, maxID+1),
		laneDir:     make(map[lane]Dir),
		sectorCount: make(map[int][4]int),
	}
}

// run assigns all directions or fails with errAssignmentDeadend. Piece
// directions are only written on success.
func (a *assigner) run() error {
	for a.committed < len(a.pieces) {
		piece, dir, ok := a.bestCandidate()
		if !ok {
			return errAssignmentDeadend
		}
		a.commit(piece, dir)
	}
	for _, p := range a.pieces {
		p.Dir = a.dirs[p.ID]
	}
	return nil
}

// bestCandidate scans every unassigned piece's clear directions and
// returns the highest-scoring commit.
func (a *assigner) bestCandidate() (*Piece, Dir, bool) {
	var (
		bestPiece *Piece
		bestDir   Dir
		bestScore float64
		found     bool
	)
	for _, p := range a.pieces {
		if a.assigned[p.ID] {
			continue
		}
		for _, dir := range a.candidateDirs(p) {
			if !a.laneClear(p, dir) {
				continue
			}
			score := a.score(p, dir)
			if !found || score > bestScore {
				bestPiece, bestDir, bestScore, found = p, dir, score, true
			}
		}
	}
	return bestPiece, bestDir, found
}

// candidateDirs returns p's axis-valid directions, narrowed to the lane's
// committed direction once the lane is fixed.
func (a *assigner) candidateDirs(p *Piece) []Dir {
	if d, ok := a.laneDir[lane{axis: p.Axis, key: p.laneKey()}]; ok {
		return []Dir{d}
	}
	dirs := p.Axis.Dirs()
	return dirs[:]
}

// laneClear walks cells ahead of p along dir; only cells owned by
// still-unassigned pieces block. Assigned pieces are virtually removed.
func (a *assigner) laneClear(p *Piece, dir Dir) bool {
	for ref := headCell(p, dir).Step(dir); a.lt.Valid(ref); ref = ref.Step(dir) {
		owner := a.lt.Owner(ref)
		if owner >= 0 && owner != p.ID && !a.assigned[owner] {
			return false
		}
	}
	return true
}

// Scoring weights for candidate selection. The mix terms steer the board
// toward the parameter direction mix at three granularities; the depth
// bias peels outer pieces first so inner pieces accumulate depth.
const (
	wGlobalMix  = 1.0
	wSectorMix  = 0.8
	wLaneMix    = 0.6
	wDepthBias  = 0.5
	wJitter     = 0.05
	ceilPenalty = 2.0
)

func (a *assigner) score(p *Piece, dir Dir) float64 {
	d := int(dir)
	target := a.params.DirectionMix[d]

	score := wGlobalMix * (target - a.shareAfter(a.globalCount, d, a.committed))

	sec := a.sector(p)
	secCount := a.sectorCount[sec]
	secTotal := 0
	for _, n := range secCount {
		secTotal += n
	}
	score += wSectorMix * (target - a.shareAfter(secCount, d, secTotal))

	// Lane-level mix only matters when this commit fixes a new lane.
	if _, fixed := a.laneDir[lane{axis: p.Axis, key: p.laneKey()}]; !fixed {
		laneTotal := 0
		for _, n := range a.laneDirN {
			laneTotal += n
		}
		laneShare := a.shareAfter(a.laneDirN, d, laneTotal)
		score += wLaneMix * (target - laneShare)
		if laneShare > a.params.MaxDirRatioLane {
			score -= ceilPenalty
		}
	}

	// Ratio ceilings: candidates that would push a direction past its cap
	// are heavily penalized rather than rejected, so a board with only one
	// viable candidate still completes.
	if a.shareAfter(a.globalCount, d, a.committed) > a.params.MaxDirRatioGlobal {
		score -= ceilPenalty
	}
	if a.shareAfter(secCount, d, secTotal) > a.params.MaxDirRatioSector {
		score -= ceilPenalty
	}

	score += wDepthBias * a.lt.CenterDistance(p.Cells[0])
	score += a.rng.Jitter(wJitter)
	return score
}

// shareAfter returns direction d's share assuming one more commit of d.
func (a *assigner) shareAfter(counts [4]int, d, total int) float64 {
	return float64(counts[d]+1) / float64(total+1)
}

// sector maps a piece to its cell in the coarse SectorGrid x SectorGrid
// spatial partition of the board.
func (a *assigner) sector(p *Piece) int {
	n := a.params.SectorGrid
	if n < 1 {
		n = 1
	}
	sx := int(p.Center.X / a.lt.Spec.Width * float64(n))
	sy := int(p.Center.Y / a.lt.Spec.Height * float64(n))
	if sx < 0 {
		sx = 0
	} else if sx >= n {
		sx = n - 1
	}
	if sy < 0 {
		sy = 0
	} else if sy >= n {
		sy = n - 1
	}
	return sy*n + sx
}

// commit stages a direction; afterwards the piece counts as virtually
// removed. Precondition: laneClear(p, dir). Postcondition: direction
// staged, lane fixed to dir, mix counters updated.
func (a *assigner) commit(p *Piece, dir Dir) {
	a.dirs[p.ID] = dir
	a.assigned[p.ID] = true
	a.committed++
	a.globalCount[dir]++

	sec := a.sector(p)
	counts := a.sectorCount[sec]
	counts[dir]++
	a.sectorCount[sec] = counts

	key := lane{axis: p.Axis, key: p.laneKey()}
	if _, fixed := a.laneDir[key]; !fixed {
		a.laneDir[key] = dir
		a.laneDirN[dir]++
	}
}
