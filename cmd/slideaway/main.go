// slideaway is a sliding-block removal puzzle played in the terminal.
//
// Usage:
//
//	slideaway                 - Interactive menu (continue, level select, progress)
//	slideaway play [level]    - Play starting at a level
//	slideaway gen [level]     - Generate a level and print its diagnostics
//	slideaway check [level]   - Validate a generated level
//	slideaway serve           - Start SSH server for remote play
//	slideaway progress        - Show progress statistics
//
// Global flags:
//
//	--fps <rate>     - Tick rate (0 = from config)
//	--seed <value>   - Generation seed (0 = random)
//	--db <path>      - Progress database path (default: ~/.slideaway/progress.db)
//	--config <path>  - Custom config YAML
//	--difficulty <p> - Difficulty preset: easy, normal, hard, zen
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/akarpov/slideaway/internal/config"
	"github.com/akarpov/slideaway/internal/core"
	"github.com/akarpov/slideaway/internal/pregen"
	"github.com/akarpov/slideaway/internal/platform/tui"
	"github.com/akarpov/slideaway/internal/storage"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       uint32
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "slideaway",
	Short: "Slideaway - clear the board, one sliding piece at a time",
	Long: `Slideaway is a terminal puzzle: every piece slides along a diagonal
lane and leaves the board once nothing blocks its path. Clear all pieces
to win; levels are generated and grow harder as you go.

Available commands:
  play     - Play starting at a given level
  gen      - Generate a level and print diagnostics
  check    - Validate a generated level
  serve    - Start SSH server for remote play
  progress - Show progress statistics

Examples:
  slideaway
  slideaway play 12
  slideaway gen 40 --seed 7
  slideaway serve --ssh :2222
  slideaway progress`,
	Run: runMenu,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 0, "Tick rate (0 = from config)")
	rootCmd.PersistentFlags().Uint32Var(&flagSeed, "seed", 0, "Generation seed (0 = random)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.slideaway/progress.db", "Path to progress database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, zen")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(genCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(progressCmd)
}

// loadAppConfig loads the YAML config and applies the difficulty flag.
func loadAppConfig() *config.Config {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if flagDifficulty != "" {
		preset := config.DifficultyPreset(flagDifficulty)
		if !config.ValidPreset(preset) {
			fmt.Fprintf(os.Stderr, "Error: unknown difficulty %q (easy, normal, hard, zen)\n", flagDifficulty)
			os.Exit(1)
		}
		cfg.Difficulty = preset
	}
	return &cfg
}

// runtimeConfig builds the per-session runtime config from the terminal.
func runtimeConfig(appCfg *config.Config) core.RuntimeConfig {
	cfg := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cfg.ScreenW = w
		cfg.ScreenH = h
	}
	cfg.Seed = flagSeed
	switch {
	case flagFPS > 0:
		cfg.TickRate = flagFPS
	case appCfg.UI.FPS > 0:
		cfg.TickRate = appCfg.UI.FPS
	}
	return cfg
}

// openStore opens the progress database, nil on failure so play continues.
func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open progress database: %v\n", err)
		return nil
	}
	return store
}

// runMenu is the default command: the interactive session.
func runMenu(_ *cobra.Command, _ []string) {
	appCfg := loadAppConfig()
	cfg := runtimeConfig(appCfg)

	store := openStore()
	if store != nil {
		defer store.Close()
	}

	boards := pregen.New(appCfg.BoardSpec(), appCfg.ParamsForLevel, pregen.DefaultConfig())
	boards.Start()
	defer boards.Stop()

	if err := tui.RunSession(appCfg, store, boards, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
