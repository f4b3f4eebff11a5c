// Package config provides YAML-based configuration loading for Slideaway:
// board metrics, generator budgets, power-up grants and difficulty presets.
package config

import (
	"time"

	"github.com/akarpov/slideaway/internal/puzzle"
)

// Config is the root configuration document.
type Config struct {
	Board      BoardConfig      `yaml:"board"`
	Generator  GeneratorConfig  `yaml:"generator"`
	PowerUps   PowerUpConfig    `yaml:"power_ups"`
	UI         UIConfig         `yaml:"ui"`
	Difficulty DifficultyPreset `yaml:"difficulty"`
}

// BoardConfig defines the abstract pixel space levels are generated in.
// The terminal renderer projects this space onto character cells, so the
// values control proportions rather than literal screen size.
type BoardConfig struct {
	Width     float64 `yaml:"width"`
	Height    float64 `yaml:"height"`
	PieceSize float64 `yaml:"piece_size"`
	Gap       float64 `yaml:"gap"`
	Margin    float64 `yaml:"margin"`
}

// GeneratorConfig overrides generation budgets. Zero values keep the
// per-level defaults.
type GeneratorConfig struct {
	MaxAttempts         int `yaml:"max_attempts"`
	TimeBudgetMS        int `yaml:"time_budget_ms"`
	QuickFilterAttempts int `yaml:"quick_filter_attempts"`
	SafeMoveCap         int `yaml:"safe_move_cap"`
}

// PowerUpConfig sets the charges granted at the start of every level.
type PowerUpConfig struct {
	Hammers  int `yaml:"hammers"`
	Shuffles int `yaml:"shuffles"`
}

// UIConfig holds front-end preferences.
type UIConfig struct {
	FPS       int  `yaml:"fps"`
	ShowHints bool `yaml:"show_hints"`
}

// BoardSpec converts the board section to generator input.
func (c Config) BoardSpec() puzzle.BoardSpec {
	return puzzle.BoardSpec{
		Width:     c.Board.Width,
		Height:    c.Board.Height,
		PieceSize: c.Board.PieceSize,
		Gap:       c.Board.Gap,
		Margin:    c.Board.Margin,
	}
}

// ParamsForLevel produces the effective generation parameters for a level:
// the standard curve, then generator overrides, then the difficulty preset.
func (c Config) ParamsForLevel(level int) puzzle.Parameters {
	p := puzzle.ForLevel(level)
	if c.Generator.MaxAttempts > 0 {
		p.MaxAttempts = c.Generator.MaxAttempts
	}
	if c.Generator.TimeBudgetMS > 0 {
		p.TimeBudget = time.Duration(c.Generator.TimeBudgetMS) * time.Millisecond
	}
	if c.Generator.QuickFilterAttempts > 0 {
		p.QuickFilterAttempts = c.Generator.QuickFilterAttempts
	}
	if c.Generator.SafeMoveCap > 0 {
		p.SafeMoveCap = c.Generator.SafeMoveCap
	}
	ApplyPreset(&p, c.Difficulty)
	return p
}

// Charges returns the power-up grants for a level after the preset's
// adjustment.
func (c Config) Charges() (hammers, shuffles int) {
	return PresetCharges(c.PowerUps, c.Difficulty)
}
