package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/akarpov/slideaway/internal/platform/tui"
	"github.com/akarpov/slideaway/internal/pregen"
)

var playCmd = &cobra.Command{
	Use:   "play [level]",
	Short: "Play starting at a level",
	Long: `Start playing at the given level (default 1). Winning advances to the
next level; progress is recorded in the database.

Controls:
  Arrows     - Select a piece
  Space      - Remove the selected piece
  X          - Hammer: force-remove any piece
  S          - Shuffle the remaining pieces
  H          - Hint
  P          - Pause
  R          - Restart the level with a fresh layout
  N          - Next level (after a win)
  Esc        - Back / quit to menu
  Q/Ctrl+C   - Quit

Examples:
  slideaway play
  slideaway play 25
  slideaway play 5 --difficulty easy
  slideaway play --seed 1234`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func runPlay(_ *cobra.Command, args []string) {
	level := 1
	if len(args) == 1 {
		parsed, err := strconv.Atoi(args[0])
		if err != nil || parsed < 1 {
			fmt.Fprintf(os.Stderr, "Error: invalid level %q\n", args[0])
			os.Exit(1)
		}
		level = parsed
	}

	appCfg := loadAppConfig()
	cfg := runtimeConfig(appCfg)
	cfg.Level = level

	store := openStore()
	if store != nil {
		defer store.Close()
	}

	boards := pregen.New(appCfg.BoardSpec(), appCfg.ParamsForLevel, pregen.DefaultConfig())
	boards.Start()
	defer boards.Stop()

	if err := tui.RunGame(appCfg, store, boards, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		os.Exit(1)
	}
}
