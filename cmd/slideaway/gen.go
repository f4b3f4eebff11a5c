package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/akarpov/slideaway/internal/core"
	"github.com/akarpov/slideaway/internal/game"
	"github.com/akarpov/slideaway/internal/puzzle"
)

var (
	flagGenASCII bool
	flagGenWidth int
)

var genCmd = &cobra.Command{
	Use:   "gen [level]",
	Short: "Generate a level and print its diagnostics",
	Long: `Generate a level and print the generator's diagnostics: piece count,
difficulty score, dependency depths and the placement profile used.

With --ascii the board is also rendered as text, useful for eyeballing
what a difficulty curve actually produces.

Examples:
  slideaway gen 40
  slideaway gen 40 --seed 7
  slideaway gen 120 --ascii`,
	Args: cobra.MaximumNArgs(1),
	Run:  runGen,
}

func init() {
	genCmd.Flags().BoolVar(&flagGenASCII, "ascii", false, "Render the board as text")
	genCmd.Flags().IntVar(&flagGenWidth, "width", 72, "Text render width (with --ascii)")
}

func runGen(_ *cobra.Command, args []string) {
	level := parseLevelArg(args)
	appCfg := loadAppConfig()

	seed := flagSeed
	if seed == 0 {
		seed = uint32(time.Now().UnixNano())
	}

	start := time.Now()
	r := puzzle.GenerateWithParams(appCfg.ParamsForLevel(level), appCfg.BoardSpec(), seed)
	took := time.Since(start)

	fmt.Printf("Level:       %d\n", r.Level)
	fmt.Printf("Seed:        %d\n", r.Seed)
	fmt.Printf("Pieces:      %d\n", r.Count)
	fmt.Printf("Difficulty:  %.3f (target %.3f ± %.3f)\n",
		r.Difficulty, r.Params.DifficultyTarget, r.Params.DifficultyTolerance)
	fmt.Printf("Avg depth:   %.2f\n", r.Diag.AvgDepth)
	fmt.Printf("Max depth:   %d\n", r.Diag.MaxDepth)
	fmt.Printf("Removable:   %.0f%%\n", r.Diag.RemovableRatio*100)
	fmt.Printf("Fill rate:   %.0f%%\n", r.Diag.FillRate*100)
	fmt.Printf("Profile:     %s\n", r.Diag.Profile)
	fmt.Printf("Attempts:    %d\n", r.Diag.Attempts)
	fmt.Printf("Took:        %v\n", took)

	if flagGenASCII {
		fmt.Println()
		fmt.Println(asciiBoard(appCfg.BoardSpec(), r, flagGenWidth))
	}
}

// asciiBoard renders the board through the game adapter's renderer.
func asciiBoard(board puzzle.BoardSpec, r *puzzle.Result, width int) string {
	if width < 20 {
		width = 20
	}
	// Terminal cells are roughly twice as tall as wide.
	height := width/2 + 6

	g := game.New(board, nil)
	cfg := core.DefaultConfig()
	cfg.ScreenW = width
	cfg.ScreenH = height
	cfg.Level = r.Level
	cfg.Seed = r.Seed
	g.Reset(cfg)
	g.SetBoard(r)
	g.SelectPiece(-1)

	screen := core.NewScreen(width, height)
	g.Render(screen)
	return screen.String()
}

func parseLevelArg(args []string) int {
	level := 1
	if len(args) == 1 {
		parsed, err := strconv.Atoi(args[0])
		if err != nil || parsed < 1 {
			fmt.Fprintf(os.Stderr, "Error: invalid level %q\n", args[0])
			os.Exit(1)
		}
		level = parsed
	}
	return level
}
