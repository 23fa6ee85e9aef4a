package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tilenav/internal/world"
)

var flagRebuild bool

var buildCmd = &cobra.Command{
	Use:   "build <level>",
	Short: "Build and cache a level's navigation mesh",
	Long: `Build the navigation mesh of a level and store it in the database.
A mesh already cached for the same geometry and mesh settings is reused
unless --rebuild is given.

Examples:
  tilenav build original
  tilenav build plaza --rebuild`,
	Args: cobra.ExactArgs(1),
	Run:  runBuild,
}

func init() {
	buildCmd.Flags().BoolVar(&flagRebuild, "rebuild", false, "Drop cached meshes of the level first")
}

func runBuild(cmd *cobra.Command, args []string) {
	logger := newLogger()
	cfg := mustConfig()
	lvl := mustLevel(args[0])

	store := openStore(logger)
	if store != nil {
		defer store.Close()
	}

	if flagRebuild && store != nil {
		n, err := store.ClearMeshes(lvl.ID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		logger.Info("dropped cached meshes", "level", lvl.ID, "count", n)
	}

	opts := []world.Option{world.WithLogger(logger), world.WithSeed(seed())}
	if store != nil {
		opts = append(opts, world.WithMeshCache(store))
	}

	start := time.Now()
	w, err := world.New(lvl, cfg, opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	m := w.Mesh()
	fmt.Printf("Level:   %s (%dx%d, tile %g)\n", lvl.ID, lvl.Width(), lvl.Height(), lvl.TileSize)
	fmt.Printf("Walls:   %d rectangles\n", len(w.Walls()))
	fmt.Printf("Mesh:    %d nodes, %d edges (%s in %s)\n",
		m.Len(), m.EdgeCount(), w.MeshSource(), time.Since(start).Round(time.Microsecond))
	fmt.Printf("Key:     %s\n", world.MeshKey(lvl, cfg))

	if store == nil {
		return
	}
	entries, err := store.Meshes(lvl.ID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing cached meshes: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Cached:  %d mesh(es) for this level\n", len(entries))
	for _, e := range entries {
		fmt.Printf("  %.12s  %4d nodes  %5d edges  %s\n", e.Key, e.Nodes, e.Edges, e.CreatedAt.Format("2006-01-02 15:04"))
	}
}
