package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tilenav/internal/storage"
	"github.com/vovakirdan/tilenav/internal/world"
)

var (
	flagTicks  int
	flagNoSave bool
)

var runCmd = &cobra.Command{
	Use:   "run <level>",
	Short: "Run a level headless and record the outcome",
	Long: `Run the simulation of a level without a display for a number of ticks
and record the statistics in the database.

Examples:
  tilenav run original
  tilenav run plaza --ticks 5000 --seed 42
  tilenav run maze --no-save`,
	Args: cobra.ExactArgs(1),
	Run:  runRun,
}

func init() {
	runCmd.Flags().IntVar(&flagTicks, "ticks", 0, "Ticks to simulate (0 = sim.max_ticks from the config)")
	runCmd.Flags().BoolVar(&flagNoSave, "no-save", false, "Do not record the run")
}

func runRun(cmd *cobra.Command, args []string) {
	logger := newLogger()
	cfg := mustConfig()
	lvl := mustLevel(args[0])

	ticks := flagTicks
	if ticks <= 0 {
		ticks = cfg.Sim.MaxTicks
	}

	store := openStore(logger)
	if store != nil {
		defer store.Close()
	}

	opts := []world.Option{world.WithLogger(logger), world.WithSeed(seed())}
	if store != nil {
		opts = append(opts, world.WithMeshCache(store))
	}
	w, err := world.New(lvl, cfg, opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	start := time.Now()
	w.Run(ticks)
	elapsed := time.Since(start)

	st := w.Stats()
	logger.Info("run finished", "level", lvl.ID, "seed", w.Seed(), "ticks", st.Ticks, "took", elapsed.Round(time.Millisecond))

	fmt.Printf("Level:          %s\n", lvl.ID)
	fmt.Printf("Seed:           %d\n", w.Seed())
	fmt.Printf("Ticks:          %d\n", st.Ticks)
	fmt.Printf("Agents:         %d\n", st.Agents)
	fmt.Printf("Arrivals:       %d\n", st.Arrivals)
	fmt.Printf("Catches:        %d\n", st.Catches)
	fmt.Printf("Plans:          %d (%d failed)\n", st.Plans, st.PlanFailures)
	fmt.Printf("Replans:        %d\n", st.Replans)
	fmt.Printf("Stalls:         %d\n", st.Stalls)
	fmt.Printf("Blocked moves:  %d\n", st.BlockedMoves)

	if flagNoSave || store == nil {
		return
	}
	id, err := store.SaveRun(storage.RunRecord{
		LevelID:      lvl.ID,
		Seed:         w.Seed(),
		Ticks:        st.Ticks,
		Agents:       st.Agents,
		Arrivals:     st.Arrivals,
		Catches:      st.Catches,
		Plans:        st.Plans,
		PlanFailures: st.PlanFailures,
		Replans:      st.Replans,
		Stalls:       st.Stalls,
		BlockedMoves: st.BlockedMoves,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error saving run: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("\nRecorded as run #%d.\n", id)
}
