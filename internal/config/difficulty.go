package config

import "github.com/akarpov/slideaway/internal/puzzle"

// DifficultyPreset is a named adjustment applied on top of the per-level
// difficulty curve.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyZen    DifficultyPreset = "zen"
)

// ValidPreset reports whether the preset is one of the known names.
func ValidPreset(p DifficultyPreset) bool {
	switch p {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyZen, "":
		return true
	}
	return false
}

// ApplyPreset scales the generation target for the chosen preset. The band
// is widened on the easy side so the generator settles faster on relaxed
// boards, and tightened on hard so near misses are not accepted.
func ApplyPreset(p *puzzle.Parameters, preset DifficultyPreset) {
	switch preset {
	case DifficultyEasy:
		p.DifficultyTarget *= 0.85
		p.DifficultyTolerance += 0.05
	case DifficultyHard:
		p.DifficultyTarget *= 1.15
		if p.DifficultyTarget > 1 {
			p.DifficultyTarget = 1
		}
		p.DifficultyTolerance *= 0.75
	case DifficultyZen:
		p.DifficultyTarget *= 0.7
		p.DifficultyTolerance += 0.1
	}
}

// PresetCharges adjusts the configured power-up grants for a preset. Zen
// play is about the sliding, not the scarcity, so charges are effectively
// unlimited there.
func PresetCharges(base PowerUpConfig, preset DifficultyPreset) (hammers, shuffles int) {
	hammers, shuffles = base.Hammers, base.Shuffles
	switch preset {
	case DifficultyEasy:
		hammers++
		shuffles++
	case DifficultyHard:
		if hammers > 0 {
			hammers--
		}
		if shuffles > 0 {
			shuffles--
		}
	case DifficultyZen:
		hammers, shuffles = 99, 99
	}
	return hammers, shuffles
}
