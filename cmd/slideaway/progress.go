package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var flagProgressReset bool

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show progress statistics",
	Long: `Display aggregate progress and the most recent rounds.

Examples:
  slideaway progress
  slideaway progress --reset`,
	Run: runProgress,
}

func init() {
	progressCmd.Flags().BoolVar(&flagProgressReset, "reset", false, "Delete all recorded progress")
}

func runProgress(_ *cobra.Command, _ []string) {
	store := openStore()
	if store == nil {
		os.Exit(1)
	}
	defer store.Close()

	if flagProgressReset {
		if err := store.ClearProgress(); err != nil {
			fmt.Fprintf(os.Stderr, "Error clearing progress: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Progress cleared.")
		return
	}

	stats, err := store.Stats()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving stats: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Slideaway Progress")
	fmt.Println()

	if stats.Rounds == 0 {
		fmt.Println("No rounds recorded yet.")
		fmt.Println()
		fmt.Println("Play 'slideaway play' to start your history!")
		return
	}

	fmt.Printf("  Rounds:        %d\n", stats.Rounds)
	fmt.Printf("  Wins:          %d\n", stats.Wins)
	fmt.Printf("  Levels won:    %d\n", stats.LevelsWon)
	fmt.Printf("  Highest level: %d\n", stats.HighestWon)
	fmt.Printf("  Total moves:   %d\n", stats.TotalMoves)
	fmt.Printf("  Hammers used:  %d\n", stats.HammersUsed)
	fmt.Printf("  Last played:   %s\n", stats.LastPlayed.Format("2006-01-02 15:04"))
	fmt.Println()

	recent, err := store.RecentResults(10)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving results: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("  %-6s  %-7s  %-6s  %s\n", "Level", "Result", "Moves", "Date")
	fmt.Printf("  %-6s  %-7s  %-6s  %s\n", "-----", "------", "-----", "----")
	for _, r := range recent {
		result := "lost"
		if r.Won {
			result = "won"
		}
		fmt.Printf("  %-6d  %-7s  %-6d  %s\n", r.Level, result, r.Moves, r.CreatedAt.Format("2006-01-02 15:04"))
	}
}
