package config

import (
	_ "embed"
)

//go:embed defaults/slideaway.yaml
var defaultYAML []byte

// Default returns the hardcoded configuration, used when even the embedded
// YAML fails to parse.
func Default() Config {
	return Config{
		Board: BoardConfig{
			Width:     1000,
			Height:    1000,
			PieceSize: 56,
			Gap:       6,
			Margin:    12,
		},
		PowerUps: PowerUpConfig{
			Hammers:  1,
			Shuffles: 1,
		},
		UI: UIConfig{
			FPS:       30,
			ShowHints: true,
		},
		Difficulty: DifficultyNormal,
	}
}

// DefaultYAML returns the embedded default document, for `slideaway config`
// style dumps.
func DefaultYAML() []byte {
	return defaultYAML
}
