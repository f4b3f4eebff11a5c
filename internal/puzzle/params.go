package puzzle

import (
	"math"
	"time"
)

// Parameters is the immutable per-level generation config. Produced by
// ForLevel, consumed by Generate; never mutated during an attempt.
type Parameters struct {
	Level int

	// Layout
	PieceCountMin int
	PieceCountMax int
	FillRate      float64  // target fraction of valid cells covered
	Profiles      []string // layout profile candidates, one picked per attempt

	// Direction balance. DirectionMix is indexed by Dir and sums to 1.
	// The ratio ceilings cap how far any single direction may dominate at
	// global, local-sector and lane granularity.
	DirectionMix      [4]float64
	MaxDirRatioGlobal float64
	MaxDirRatioSector float64
	MaxDirRatioLane   float64
	SectorGrid        int // board is partitioned into SectorGrid² sectors

	// Difficulty band
	DepthTargetMin      float64
	DepthTargetMax      float64
	DifficultyTarget    float64
	DifficultyTolerance float64

	// Budgets
	MaxAttempts         int
	TimeBudget          time.Duration
	QuickFilterAttempts int // randomized solvability pre-filter, 0 disables
	SafeMoveCap         int // max board size for simulated safe-move analysis
}

// Phase names the segments of the difficulty curve.
type Phase string

const (
	PhaseTutorial  Phase = "tutorial"
	PhaseRamp      Phase = "ramp"
	PhaseChallenge Phase = "challenge"
	PhaseMaster    Phase = "master"
	PhaseLegendary Phase = "legendary"
)

// PhaseForLevel returns the curve phase a level belongs to.
func PhaseForLevel(level int) Phase {
	switch {
	case level <= 5:
		return PhaseTutorial
	case level <= 20:
		return PhaseRamp
	case level <= 50:
		return PhaseChallenge
	case level <= 100:
		return PhaseMaster
	default:
		return PhaseLegendary
	}
}

// reliefPeriod is the cadence of the "breather" oscillation: every few
// levels the difficulty target dips so the curve never climbs monotonically.
const reliefPeriod = 6

// relief returns a value in [0,1]; 1 means a full breather level.
func relief(level int) float64 {
	return 0.5 * (1 + math.Cos(2*math.Pi*float64(level%reliefPeriod)/reliefPeriod))
}

// ForLevel maps a level index (>=1) to generation parameters. The mapping
// is a pure function: the same level always yields the same parameters.
func ForLevel(level int) Parameters {
	if level < 1 {
		level = 1
	}
	p := Parameters{
		Level:               level,
		DirectionMix:        [4]float64{0.25, 0.25, 0.25, 0.25},
		SectorGrid:          3,
		MaxAttempts:         16,
		TimeBudget:          150 * time.Millisecond,
		QuickFilterAttempts: 3,
		SafeMoveCap:         24,
		DifficultyTolerance: 0.12,
	}

	// t runs 0..1 within each phase.
	phaseT := func(lo, hi int) float64 {
		if hi == lo {
			return 1
		}
		return clamp(float64(level-lo)/float64(hi-lo), 0, 1)
	}

	switch PhaseForLevel(level) {
	case PhaseTutorial:
		t := phaseT(1, 5)
		p.PieceCountMin, p.PieceCountMax = 3, 4+int(4*t)
		p.FillRate = 0.30 + 0.10*t
		p.DepthTargetMin, p.DepthTargetMax = 0, 1.5+t
		p.DifficultyTarget = 0.10 + 0.10*t
		p.MaxDirRatioGlobal, p.MaxDirRatioSector, p.MaxDirRatioLane = 0.60, 0.75, 1.0
		p.Profiles = []string{"uniform"}
		p.DifficultyTolerance = 0.20
	case PhaseRamp:
		t := phaseT(6, 20)
		p.PieceCountMin, p.PieceCountMax = 8, 10+int(8*t)
		p.FillRate = 0.40 + 0.15*t
		p.DepthTargetMin, p.DepthTargetMax = 1, 2.5+1.5*t
		p.DifficultyTarget = 0.25 + 0.15*t
		p.MaxDirRatioGlobal, p.MaxDirRatioSector, p.MaxDirRatioLane = 0.50, 0.65, 1.0
		p.Profiles = []string{"uniform", "ring"}
	case PhaseChallenge:
		t := phaseT(21, 50)
		p.PieceCountMin, p.PieceCountMax = 16, 20+int(10*t)
		p.FillRate = 0.55 + 0.10*t
		p.DepthTargetMin, p.DepthTargetMax = 1.5, 4+2*t
		p.DifficultyTarget = 0.45 + 0.15*t
		p.MaxDirRatioGlobal, p.MaxDirRatioSector, p.MaxDirRatioLane = 0.42, 0.55, 1.0
		p.Profiles = []string{"ring", "diagonal", "twin"}
		p.MaxAttempts = 20
	case PhaseMaster:
		t := phaseT(51, 100)
		p.PieceCountMin, p.PieceCountMax = 24, 30+int(10*t)
		p.FillRate = 0.62 + 0.08*t
		p.DepthTargetMin, p.DepthTargetMax = 2, 5.5+2.5*t
		p.DifficultyTarget = 0.62 + 0.13*t
		p.MaxDirRatioGlobal, p.MaxDirRatioSector, p.MaxDirRatioLane = 0.38, 0.50, 1.0
		p.Profiles = []string{"twin", "hollow", "diagonal"}
		p.MaxAttempts = 24
		p.TimeBudget = 200 * time.Millisecond
	case PhaseLegendary:
		p.PieceCountMin, p.PieceCountMax = 32, 44
		p.FillRate = 0.72
		p.DepthTargetMin, p.DepthTargetMax = 3, 9
		p.DifficultyTarget = 0.80
		p.MaxDirRatioGlobal, p.MaxDirRatioSector, p.MaxDirRatioLane = 0.35, 0.45, 1.0
		p.Profiles = []string{"uniform", "ring", "diagonal", "twin", "hollow"}
		p.MaxAttempts = 28
		p.TimeBudget = 250 * time.Millisecond
	}

	// Relief oscillation: periodically ease the target so the curve
	// breathes instead of punishing every level harder than the last.
	p.DifficultyTarget -= 0.10 * relief(level) * p.DifficultyTarget
	return p
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
