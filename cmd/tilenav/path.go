package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tilenav/internal/geom"
	"github.com/vovakirdan/tilenav/internal/search"
	"github.com/vovakirdan/tilenav/internal/world"
)

var pathCmd = &cobra.Command{
	Use:   "path <level> <x0> <y0> <x1> <y1>",
	Short: "Plan a path between two points",
	Long: `Plan a path between two pixel positions of a level and print the waypoints.
The start point is not part of the output.

Examples:
  tilenav path original 60 60 260 180`,
	Args: cobra.ExactArgs(5),
	Run:  runPath,
}

func runPath(cmd *cobra.Command, args []string) {
	logger := newLogger()
	cfg := mustConfig()
	lvl := mustLevel(args[0])

	coords := make([]float64, 4)
	for i, s := range args[1:] {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid coordinate %q\n", s)
			os.Exit(1)
		}
		coords[i] = v
	}
	start, goal := geom.V(coords[0], coords[1]), geom.V(coords[2], coords[3])

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

	path, err := w.PlanPath(start, goal)
	if errors.Is(err, search.ErrNoPath) {
		fmt.Printf("No path from %v to %v.\n", start, goal)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	total := 0.0
	prev := start
	fmt.Printf("  %-3s  %8s  %8s  %8s\n", "#", "X", "Y", "Leg")
	for i, p := range path {
		leg := geom.Dist(prev, p)
		total += leg
		fmt.Printf("  %-3d  %8.1f  %8.1f  %8.1f\n", i+1, p.X, p.Y, leg)
		prev = p
	}
	fmt.Println()
	fmt.Printf("%d waypoints, length %.1f\n", len(path), total)
}
