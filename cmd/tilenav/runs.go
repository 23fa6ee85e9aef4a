package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tilenav/internal/level"
	"github.com/vovakirdan/tilenav/internal/platform/tui"
	"github.com/vovakirdan/tilenav/internal/storage"
)

var flagPlain bool

var runsCmd = &cobra.Command{
	Use:   "runs <level>",
	Short: "Show recorded runs of a level",
	Long: `Show the most recent recorded runs of a level and their totals.
On a terminal an interactive table is shown; use --plain or pipe the
output for a text listing.

Examples:
  tilenav runs original
  tilenav runs plaza --plain`,
	Args: cobra.ExactArgs(1),
	Run:  runRuns,
}

func init() {
	runsCmd.Flags().BoolVar(&flagPlain, "plain", false, "Print a text listing instead of the interactive table")
}

func runRuns(cmd *cobra.Command, args []string) {
	levelID := args[0]

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	fd := int(os.Stdout.Fd())
	if !flagPlain && term.IsTerminal(fd) {
		ids, err := level.NewLoader(flagLevels).ListIDs()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		width, height := 80, 24
		if w, h, termErr := term.GetSize(fd); termErr == nil {
			width, height = w, h
		}
		if err := tui.RunRuns(store, ids, levelID, width, height); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	runs, err := store.RecentRuns(levelID, 20)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving runs: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Runs - %s\n", levelID)
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Printf("Use 'tilenav run %s' to record one.\n", levelID)
		return
	}

	fmt.Printf("  %-20s  %6s  %6s  %8s  %6s  %6s  %6s  %7s  %6s  %7s  %s\n",
		"Seed", "Ticks", "Agents", "Arrivals", "Caught", "Plans", "Failed", "Replans", "Stalls", "Blocked", "Date")
	for _, r := range runs {
		fmt.Printf("  %-20d  %6d  %6d  %8d  %6d  %6d  %6d  %7d  %6d  %7d  %s\n",
			r.Seed, r.Ticks, r.Agents, r.Arrivals, r.Catches, r.Plans, r.PlanFailures,
			r.Replans, r.Stalls, r.BlockedMoves, r.CreatedAt.Format("2006-01-02 15:04"))
	}

	st, err := store.LevelStats(levelID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving totals: %v\n", err)
		os.Exit(1)
	}
	fmt.Println()
	fmt.Printf("Totals over %d runs: %d ticks, %d arrivals, %d catches, %d plans (%d failed), %d replans, %d stalls, %d blocked moves\n",
		st.Runs, st.TotalTicks, st.Arrivals, st.Catches, st.Plans, st.PlanFailures, st.Replans, st.Stalls, st.BlockedMoves)
}
