package puzzle

import (
	"fmt"
	"math"
	"sort"
	"sync"
)

// ProfileFunc computes a placement weight for a cell. Inputs are the cell's
// pixel center and the lattice; the output is a non-negative weight where
// larger means "place here first". Profiles shape where mass accumulates on
// the board; they do not affect solvability.
type ProfileFunc func(lt *Lattice, ref CellRef) float64

var (
	profileMu  sync.RWMutex
	profileFns = make(map[string]ProfileFunc)
)

// RegisterProfile adds a named layout profile. Built-in profiles register
// in init; custom profiles may be added before generation starts. Panics on
// a duplicate name.
func RegisterProfile(name string, fn ProfileFunc) {
	profileMu.Lock()
	defer profileMu.Unlock()
	if _, exists := profileFns[name]; exists {
		panic(fmt.Sprintf("puzzle: profile %q already registered", name))
	}
	profileFns[name] = fn
}

// Profiles returns the names of all registered profiles, sorted.
func Profiles() []string {
	profileMu.RLock()
	defer profileMu.RUnlock()
	names := make([]string, 0, len(profileFns))
	for name := range profileFns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LookupProfile returns the profile with the given name, falling back to
// the uniform profile for unknown names.
func LookupProfile(name string) ProfileFunc {
	profileMu.RLock()
	defer profileMu.RUnlock()
	if fn, ok := profileFns[name]; ok {
		return fn
	}
	return uniformProfile
}

func init() {
	RegisterProfile("uniform", uniformProfile)
	RegisterProfile("ring", ringProfile)
	RegisterProfile("diagonal", diagonalProfile)
	RegisterProfile("twin", twinClusterProfile)
	RegisterProfile("hollow", hollowProfile)
}

// radial returns the cell's distance from the board center as a fraction
// of the safe rect's half-diagonal.
func radial(lt *Lattice, ref CellRef) float64 {
	return lt.CenterDistance(ref)
}

func uniformProfile(_ *Lattice, _ CellRef) float64 { return 1 }

// ringProfile is a Gaussian band at 60% of the board radius.
func ringProfile(lt *Lattice, ref CellRef) float64 {
	const bandRadius, bandWidth = 0.6, 0.18
	d := radial(lt, ref) - bandRadius
	return math.Exp(-d * d / (2 * bandWidth * bandWidth))
}

// diagonalProfile concentrates weight near the rotated line through the
// board center, falling off with distance to it.
func diagonalProfile(lt *Lattice, ref CellRef) float64 {
	c := lt.CenterOf(ref)
	// Signed distance to the line y-cy = -(x-cx), normalized by board size.
	d := ((c.X - lt.Origin.X) + (c.Y - lt.Origin.Y)) * sqrt2Inv
	span := math.Hypot(lt.Safe.W, lt.Safe.H) / 2
	if span == 0 {
		return 1
	}
	n := d / span
	return math.Exp(-n * n / 0.08)
}

// twinClusterProfile is the sum of two Gaussians left and right of center.
func twinClusterProfile(lt *Lattice, ref CellRef) float64 {
	c := lt.CenterOf(ref)
	lobe := func(cx, cy float64) float64 {
		dx := (c.X - cx) / (lt.Safe.W / 3)
		dy := (c.Y - cy) / (lt.Safe.H / 3)
		return math.Exp(-(dx*dx + dy*dy))
	}
	off := lt.Safe.W / 4
	return lobe(lt.Origin.X-off, lt.Origin.Y) + lobe(lt.Origin.X+off, lt.Origin.Y)
}

// hollowProfile grows monotonically with radius, leaving the center empty.
func hollowProfile(lt *Lattice, ref CellRef) float64 {
	d := radial(lt, ref)
	return 0.05 + 0.95*d*d
}
