// Package puzzle implements the level generator and analysis engine for
// Slideaway, a sliding-block removal puzzle. Pieces occupy two adjacent
// cells of a 45°-rotated lattice and face one of four diagonal directions;
// a piece can leave the board once no other piece sits between it and the
// lattice edge along its facing direction.
//
// The package is UI-agnostic and deterministic: given the same seed and
// parameters, generation produces an identical piece list.
package puzzle

import "fmt"

// Dir is a facing direction, one of the four diagonal compass points.
// On screen the lattice is rotated 45°, so piece movement is always
// diagonal in pixel space.
type Dir uint8

const (
	DirUpRight Dir = iota
	DirDownLeft
	DirUpLeft
	DirDownRight
)

// String returns the string representation of a direction.
func (d Dir) String() string {
	switch d {
	case DirUpRight:
		return "UpRight"
	case DirDownLeft:
		return "DownLeft"
	case DirUpLeft:
		return "UpLeft"
	case DirDownRight:
		return "DownRight"
	default:
		return "Unknown"
	}
}

// Delta returns the lattice (row, col) step for moving one cell in this
// direction. Rows grow toward the lower-left of the screen, columns toward
// the lower-right.
func (d Dir) Delta() (dr, dc int) {
	switch d {
	case DirUpRight:
		return -1, 0
	case DirDownLeft:
		return 1, 0
	case DirUpLeft:
		return 0, -1
	case DirDownRight:
		return 0, 1
	default:
		return 0, 0
	}
}

// Vector returns the pixel-space unit vector of the direction.
func (d Dir) Vector() Vec {
	const inv = 0.7071067811865476 // 1/sqrt(2)
	switch d {
	case DirUpRight:
		return Vec{X: inv, Y: -inv}
	case DirDownLeft:
		return Vec{X: -inv, Y: inv}
	case DirUpLeft:
		return Vec{X: -inv, Y: -inv}
	case DirDownRight:
		return Vec{X: inv, Y: inv}
	default:
		return Vec{}
	}
}

// Opposite returns the opposite direction.
func (d Dir) Opposite() Dir {
	switch d {
	case DirUpRight:
		return DirDownLeft
	case DirDownLeft:
		return DirUpRight
	case DirUpLeft:
		return DirDownRight
	case DirDownRight:
		return DirUpLeft
	default:
		return d
	}
}

// Axis reports which movement axis the direction belongs to.
func (d Dir) Axis() Axis {
	if d == DirUpRight || d == DirDownLeft {
		return AxisRow
	}
	return AxisCol
}

// Axis identifies which opposite-direction pair is valid for a piece.
// A row-axis piece spans two cells in consecutive rows and slides along
// its column; a col-axis piece spans two cells in consecutive columns and
// slides along its row.
type Axis uint8

const (
	AxisRow Axis = iota
	AxisCol
)

// String returns the string representation of an axis.
func (a Axis) String() string {
	if a == AxisRow {
		return "row"
	}
	return "col"
}

// Dirs returns the two valid facing directions for this axis.
func (a Axis) Dirs() [2]Dir {
	if a == AxisRow {
		return [2]Dir{DirUpRight, DirDownLeft}
	}
	return [2]Dir{DirUpLeft, DirDownRight}
}

// Kind is the cosmetic piece type. It has no effect on blocking or
// solvability; renderers map it to colors or sprites.
type Kind uint8

const (
	KindAmber Kind = iota
	KindJade
	KindCobalt
	KindRose
	KindIvory
	kindCount
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case KindAmber:
		return "amber"
	case KindJade:
		return "jade"
	case KindCobalt:
		return "cobalt"
	case KindRose:
		return "rose"
	case KindIvory:
		return "ivory"
	default:
		return "?"
	}
}

// CellRef is an integer lattice coordinate.
type CellRef struct {
	Row int
	Col int
}

// String returns a string representation of the coordinate.
func (c CellRef) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// Step returns the coordinate one cell away in the given direction.
func (c CellRef) Step(d Dir) CellRef {
	dr, dc := d.Delta()
	return CellRef{Row: c.Row + dr, Col: c.Col + dc}
}

// Vec is a 2D pixel-space vector.
type Vec struct {
	X, Y float64
}

// Add returns the component-wise sum.
func (v Vec) Add(o Vec) Vec { return Vec{X: v.X + o.X, Y: v.Y + o.Y} }

// Sub returns the component-wise difference.
func (v Vec) Sub(o Vec) Vec { return Vec{X: v.X - o.X, Y: v.Y - o.Y} }

// Scale returns the vector scaled by s.
func (v Vec) Scale(s float64) Vec { return Vec{X: v.X * s, Y: v.Y * s} }

// Dot returns the dot product.
func (v Vec) Dot(o Vec) float64 { return v.X*o.X + v.Y*o.Y }

// RectF is an axis-aligned pixel-space rectangle.
type RectF struct {
	X, Y, W, H float64
}

// Contains reports whether the point lies inside the rectangle.
func (r RectF) Contains(p Vec) bool {
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}

// Center returns the rectangle's center point.
func (r RectF) Center() Vec {
	return Vec{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Inset returns the rectangle shrunk by m on every side.
func (r RectF) Inset(m float64) RectF {
	return RectF{X: r.X + m, Y: r.Y + m, W: r.W - 2*m, H: r.H - 2*m}
}

// Piece is a two-cell board element. Generation produces an ordered slice
// of pieces; downstream systems treat each piece as an opaque record and
// layer their own runtime state (removed, animating) on top.
type Piece struct {
	ID    int
	Kind  Kind
	Axis  Axis
	Dir   Dir
	Cells [2]CellRef // lattice-adjacent along Axis, Cells[0] closer to origin

	// Center is the pixel-space midpoint of the two cell centers. Rect is
	// the axis-aligned bounding box of the rotated piece body, kept for
	// renderers; blocking tests use the rotated hit body, not Rect.
	Center Vec
	Rect   RectF

	// Depth is the dependency depth computed by the graph analyzer: the
	// minimum number of removals before this piece can become removable.
	// DepthUnreachable marks pieces trapped in a blocking cycle.
	Depth int
}

// DepthUnreachable marks a piece that can never become removable because
// it is part of a mutually-blocking cycle.
const DepthUnreachable = int(^uint32(0) >> 1)

// laneKey identifies the lattice lane a piece slides along: the column for
// row-axis pieces, the row for col-axis pieces.
func (p *Piece) laneKey() int {
	if p.Axis == AxisRow {
		return p.Cells[0].Col
	}
	return p.Cells[0].Row
}
