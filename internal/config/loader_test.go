package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	doc := `
board:
  width: 800
  height: 600
  piece_size: 40
  gap: 4
  margin: 8
power_ups:
  hammers: 3
  shuffles: 2
difficulty: hard
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Board.Width != 800 || cfg.Board.Height != 600 {
		t.Errorf("board = %.0fx%.0f, want 800x600", cfg.Board.Width, cfg.Board.Height)
	}
	if cfg.Difficulty != DifficultyHard {
		t.Errorf("difficulty = %q, want hard", cfg.Difficulty)
	}
	h, s := cfg.Charges()
	// The hard preset takes one charge of each.
	if h != 2 || s != 1 {
		t.Errorf("charges = %d,%d, want 2,1", h, s)
	}
}

func TestLoadCustomPathErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing explicit config must fail")
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte("board: [not a map"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); err == nil {
		t.Error("malformed explicit config must fail")
	}

	invalid := filepath.Join(t.TempDir(), "invalid.yaml")
	doc := "board:\n  width: -5\n  height: 100\n  piece_size: 10\n"
	if err := os.WriteFile(invalid, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(invalid); err == nil {
		t.Error("negative board width must fail validation")
	}
}

func TestEmbeddedDefaultParses(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\"): %v", err)
	}
	if cfg.Board.Width <= 0 || cfg.Board.PieceSize <= 0 {
		t.Errorf("default config incomplete: %+v", cfg.Board)
	}
	if !ValidPreset(cfg.Difficulty) {
		t.Errorf("default preset %q invalid", cfg.Difficulty)
	}
}

func TestParamsForLevelOverrides(t *testing.T) {
	cfg := Default()
	cfg.Generator.MaxAttempts = 7
	cfg.Generator.TimeBudgetMS = 50
	cfg.Difficulty = DifficultyEasy

	base := Default().ParamsForLevel(10)
	p := cfg.ParamsForLevel(10)
	if p.MaxAttempts != 7 {
		t.Errorf("MaxAttempts = %d, want 7", p.MaxAttempts)
	}
	if p.TimeBudget.Milliseconds() != 50 {
		t.Errorf("TimeBudget = %v, want 50ms", p.TimeBudget)
	}
	if p.DifficultyTarget >= base.DifficultyTarget {
		t.Error("easy preset did not lower the difficulty target")
	}
}
