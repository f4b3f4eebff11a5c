package puzzle

import (
	"math"
	"sort"
)

// GraphNode is one piece's vertex in the blocking graph. BlockedBy and
// Blocking are mutual inverses and InDegree always equals len(BlockedBy).
type GraphNode struct {
	ID        int
	Piece     *Piece
	BlockedBy map[int]struct{}
	Blocking  map[int]struct{}
	InDegree  int
	OutDegree int
	Depth     int
	Removable bool
	Removed   bool
}

// Graph is the directed "A blocks B" dependency graph over a piece list.
// It is built from any finished board, not only generator output: power-up
// effects mutate piece positions and re-validate through a fresh graph.
type Graph struct {
	Nodes map[int]*GraphNode
	ids   []int // sorted, for deterministic iteration
}

// BuildGraph constructs the graph by asking the detector for each piece's
// blockers along its facing direction. An edge A->B means "A blocks B".
func BuildGraph(det *Detector) *Graph {
	g := &Graph{Nodes: make(map[int]*GraphNode)}
	for _, p := range det.Pieces {
		if det.Alive != nil && !det.Alive(p.ID) {
			continue
		}
		g.Nodes[p.ID] = &GraphNode{
			ID:        p.ID,
			Piece:     p,
			BlockedBy: make(map[int]struct{}),
			Blocking:  make(map[int]struct{}),
		}
		g.ids = append(g.ids, p.ID)
	}
	sort.Ints(g.ids)

	for _, id := range g.ids {
		node := g.Nodes[id]
		for _, blocker := range det.Blockers(node.Piece, node.Piece.Dir) {
			b, ok := g.Nodes[blocker]
			if !ok {
				continue
			}
			if _, dup := node.BlockedBy[blocker]; dup {
				continue
			}
			node.BlockedBy[blocker] = struct{}{}
			b.Blocking[id] = struct{}{}
			node.InDegree++
			b.OutDegree++
		}
	}
	for _, id := range g.ids {
		n := g.Nodes[id]
		n.Removable = n.InDegree == 0
	}
	g.ComputeDepths()
	return g
}

// Len returns the number of nodes still in the graph.
func (g *Graph) Len() int { return len(g.ids) }

// HasCycle detects mutually-blocking sets with no valid removal order
// using depth-first search with white/gray/black coloring.
func (g *Graph) HasCycle() bool {
	const (
		white = iota
		gray
		black
	)
	color := make(map[int]int, len(g.ids))
	cyclic := false

	var dfs func(id int)
	dfs = func(id int) {
		color[id] = gray
		node := g.Nodes[id]
		for _, next := range sortedKeys(node.Blocking) {
			if g.Nodes[next].Removed {
				continue
			}
			switch color[next] {
			case white:
				dfs(next)
			case gray:
				cyclic = true
			}
		}
		color[id] = black
	}

	for _, id := range g.ids {
		if g.Nodes[id].Removed {
			continue
		}
		if color[id] == white {
			dfs(id)
		}
	}
	return cyclic
}

// TopoOrder returns a full removal order via Kahn's algorithm over a copy
// of the in-degrees, or nil when the graph contains a cycle.
func (g *Graph) TopoOrder() []int {
	inDeg := make(map[int]int, len(g.ids))
	queue := make([]int, 0, len(g.ids))
	active := 0
	for _, id := range g.ids {
		n := g.Nodes[id]
		if n.Removed {
			continue
		}
		active++
		inDeg[id] = g.activeInDegree(n)
		if inDeg[id] == 0 {
			queue = append(queue, id)
		}
	}

	order := make([]int, 0, active)
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		order = append(order, id)
		for _, next := range sortedKeys(g.Nodes[id].Blocking) {
			if g.Nodes[next].Removed {
				continue
			}
			inDeg[next]--
			if inDeg[next] == 0 {
				queue = append(queue, next)
			}
		}
	}
	if len(order) != active {
		return nil
	}
	return order
}

func (g *Graph) activeInDegree(n *GraphNode) int {
	deg := 0
	for b := range n.BlockedBy {
		if !g.Nodes[b].Removed {
			deg++
		}
	}
	return deg
}

// ComputeDepths assigns each node its dependency depth by repeatedly
// peeling the current depth-0 frontier: depth 0 for nodes with no active
// blockers, otherwise 1 + max depth of direct blockers. Nodes never
// reached (inside a cycle) get DepthUnreachable. Depths are mirrored onto
// the pieces.
func (g *Graph) ComputeDepths() {
	inDeg := make(map[int]int, len(g.ids))
	frontier := make([]int, 0, len(g.ids))
	for _, id := range g.ids {
		n := g.Nodes[id]
		n.Depth = DepthUnreachable
		if n.Removed {
			continue
		}
		inDeg[id] = g.activeInDegree(n)
		if inDeg[id] == 0 {
			n.Depth = 0
			frontier = append(frontier, id)
		}
	}

	for len(frontier) > 0 {
		id := frontier[0]
		frontier = frontier[1:]
		node := g.Nodes[id]
		for _, next := range sortedKeys(node.Blocking) {
			nn := g.Nodes[next]
			if nn.Removed {
				continue
			}
			if d := node.Depth + 1; nn.Depth == DepthUnreachable || d > nn.Depth {
				nn.Depth = d
			}
			inDeg[next]--
			if inDeg[next] == 0 {
				frontier = append(frontier, next)
			}
		}
	}

	for _, id := range g.ids {
		n := g.Nodes[id]
		if !n.Removed {
			n.Piece.Depth = n.Depth
		}
	}
}

// Removable returns the IDs of depth-0, not-yet-removed nodes in
// ascending order.
func (g *Graph) Removable() []int {
	var ids []int
	for _, id := range g.ids {
		n := g.Nodes[id]
		if !n.Removed && n.Removable {
			ids = append(ids, id)
		}
	}
	return ids
}

// SafeMoves returns the subset of removable pieces whose simulated removal
// leaves an acyclic, fully-sortable remainder. Rebuilding the graph per
// candidate is quadratic, so the analysis only runs for boards of at most
// maxPieces pieces; beyond that it returns (nil, false) and callers fall
// back to the plain removable set.
func (g *Graph) SafeMoves(det *Detector, maxPieces int) ([]int, bool) {
	active := 0
	for _, id := range g.ids {
		if !g.Nodes[id].Removed {
			active++
		}
	}
	if active > maxPieces {
		return nil, false
	}

	var safe []int
	for _, id := range g.Removable() {
		excluded := id
		sub := &Detector{
			Lattice: det.Lattice,
			Bounds:  det.Bounds,
			Spacing: det.Spacing,
			Erosion: det.Erosion,
			Pieces:  det.Pieces,
			Alive: func(pid int) bool {
				if pid == excluded {
					return false
				}
				if det.Alive != nil && !det.Alive(pid) {
					return false
				}
				n, known := g.Nodes[pid]
				return known && !n.Removed
			},
		}
		if BuildGraph(sub).TopoOrder() != nil {
			safe = append(safe, id)
		}
	}
	return safe, true
}

// OnRemove applies a removal incrementally: every node blocked by id loses
// one in-degree and flips Removable when it reaches zero. Returns the IDs
// that just became removable.
func (g *Graph) OnRemove(id int) []int {
	node, ok := g.Nodes[id]
	if !ok || node.Removed {
		return nil
	}
	node.Removed = true
	node.Removable = false

	var freed []int
	for _, next := range sortedKeys(node.Blocking) {
		nn := g.Nodes[next]
		delete(nn.BlockedBy, id)
		nn.InDegree--
		if nn.InDegree == 0 && !nn.Removed {
			nn.Removable = true
			freed = append(freed, next)
		}
	}
	return freed
}

// Score computes the difficulty of the current board as a weighted sum of
// normalized average depth, normalized max depth, scarcity of removable
// pieces and a direction/spatial diversity term. Results land in [0,1]
// and are compared against the per-level target band.
func (g *Graph) Score() float64 {
	if len(g.ids) == 0 {
		return 0
	}
	var (
		sumDepth  float64
		maxDepth  float64
		active    int
		removable int
		dirCount  [4]int
		rowAxis   int
	)
	for _, id := range g.ids {
		n := g.Nodes[id]
		if n.Removed {
			continue
		}
		active++
		if n.Removable {
			removable++
		}
		d := float64(n.Depth)
		if n.Depth == DepthUnreachable {
			d = float64(active) // cycles saturate the depth terms
		}
		sumDepth += d
		if d > maxDepth {
			maxDepth = d
		}
		dirCount[n.Piece.Dir]++
		if n.Piece.Axis == AxisRow {
			rowAxis++
		}
	}
	if active == 0 {
		return 0
	}

	avgDepth := sumDepth / float64(active)
	normAvg := clamp(avgDepth/5, 0, 1)
	normMax := clamp(maxDepth/10, 0, 1)
	removableRatio := float64(removable) / float64(active)

	// Diversity: direction entropy plus axis balance.
	entropy := 0.0
	for _, c := range dirCount {
		if c == 0 {
			continue
		}
		p := float64(c) / float64(active)
		entropy -= p * math.Log(p)
	}
	entropy /= math.Log(4)
	axisBalance := 1 - math.Abs(float64(rowAxis)/float64(active)-0.5)*2
	diversity := 0.5*entropy + 0.5*axisBalance

	return 0.35*normAvg + 0.25*normMax + 0.25*(1-removableRatio) + 0.15*diversity
}

// Diagnostics summarizes the graph for the generation result.
type Diagnostics struct {
	AvgDepth       float64
	MaxDepth       int
	RemovableRatio float64
	FillRate       float64
	Attempts       int
	Profile        string
}

// Diagnose computes depth and removability statistics.
func (g *Graph) Diagnose() Diagnostics {
	var d Diagnostics
	active := 0
	sum := 0.0
	for _, id := range g.ids {
		n := g.Nodes[id]
		if n.Removed {
			continue
		}
		active++
		if n.Removable {
			d.RemovableRatio++
		}
		depth := n.Depth
		if depth == DepthUnreachable {
			depth = len(g.ids)
		}
		sum += float64(depth)
		if depth > d.MaxDepth {
			d.MaxDepth = depth
		}
	}
	if active > 0 {
		d.AvgDepth = sum / float64(active)
		d.RemovableRatio /= float64(active)
	}
	return d
}

func sortedKeys(m map[int]struct{}) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
