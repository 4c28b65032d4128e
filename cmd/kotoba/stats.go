package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ayatsuji/kotoba-run/internal/meta"
	"github.com/ayatsuji/kotoba-run/internal/platform/tui"
)

var flagStatsPlain bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show meta progression",
	Long: `Show best run, total coins, unlocks, and recent run history.

By default opens an interactive table. Use --plain for script-friendly
output.

Examples:
  kotoba stats
  kotoba stats --plain
  kotoba stats --db ./meta.db`,
	Run: runStats,
}

func init() {
	statsCmd.Flags().BoolVar(&flagStatsPlain, "plain", false, "Print plain text instead of the interactive view")
}

func runStats(_ *cobra.Command, _ []string) {
	store, err := meta.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening meta database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagStatsPlain {
		printPlainStats(store)
		return
	}

	if err := tui.RunStats(store); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printPlainStats(store *meta.Store) {
	state, err := store.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading meta state: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Best run:    %d puzzles\n", state.BestRun)
	fmt.Printf("Total coins: %d\n", state.TotalCoins)
	fmt.Printf("Unlocks:     %d\n", len(state.Unlocks))
	for _, u := range state.Unlocks {
		fmt.Printf("  - %s\n", u)
	}

	runs, err := store.RecentRuns(10)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading run history: %v\n", err)
		os.Exit(1)
	}
	if len(runs) == 0 {
		return
	}

	fmt.Println("\nRecent runs:")
	for _, r := range runs {
		line := fmt.Sprintf("  %s  %3d puzzles  %4d coins",
			r.CreatedAt.Format("2006-01-02 15:04"), r.Puzzles, r.Coins)
		if r.MistakeWordID != "" {
			line += "  (tripped on " + r.MistakeWordID + ")"
		}
		fmt.Println(line)
	}
}
