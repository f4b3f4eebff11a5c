package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load reads the configuration.
// Search order: customPath -> ~/.slideaway/config.yaml -> ./configs/slideaway.yaml -> embedded default
func Load(customPath string) (Config, error) {
	var cfg Config

	// An explicit path must exist and parse; errors are not absorbed.
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, validate(cfg)
	}

	if userPath := userConfigPath(); userPath != "" {
		if data, err := os.ReadFile(userPath); err == nil {
			if err := yaml.Unmarshal(data, &cfg); err == nil && validate(cfg) == nil {
				return cfg, nil
			}
		}
	}

	if data, err := os.ReadFile(filepath.Join("configs", "slideaway.yaml")); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err == nil && validate(cfg) == nil {
			return cfg, nil
		}
	}

	if err := yaml.Unmarshal(defaultYAML, &cfg); err != nil {
		return Default(), nil
	}
	return cfg, nil
}

// userConfigPath returns the per-user config location, or empty if the home
// directory is unavailable.
func userConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".slideaway", "config.yaml")
}

func validate(cfg Config) error {
	if cfg.Board.Width <= 0 || cfg.Board.Height <= 0 {
		return fmt.Errorf("config: board dimensions must be positive, got %.0fx%.0f",
			cfg.Board.Width, cfg.Board.Height)
	}
	if cfg.Board.PieceSize <= 0 {
		return fmt.Errorf("config: piece_size must be positive, got %v", cfg.Board.PieceSize)
	}
	if cfg.Board.Gap < 0 || cfg.Board.Margin < 0 {
		return fmt.Errorf("config: gap and margin must not be negative")
	}
	if !ValidPreset(cfg.Difficulty) {
		return fmt.Errorf("config: unknown difficulty preset %q", cfg.Difficulty)
	}
	return nil
}
