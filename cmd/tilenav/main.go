// tilenav builds navigation meshes for tile levels and runs agents on them.
//
// Usage:
//
//	tilenav levels                       - List available levels
//	tilenav build <level>                - Build (or load) the level's mesh
//	tilenav path <level> x0 y0 x1 y1     - Plan a path between two pixel points
//	tilenav run <level>                  - Run the simulation headless and record it
//	tilenav runs <level>                 - Show recorded runs
//	tilenav view <level>                 - Watch the simulation in the terminal
//	tilenav serve                        - Serve the viewer over SSH
//
// Global flags:
//
//	--seed <value>      - RNG seed (0 = random based on time)
//	--db <path>         - Database path (default: ~/.tilenav/tilenav.db)
//	--config <path>     - Configuration file
//	--levels <dir>      - Extra level directory
//	--log-level <level> - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagSeed     int64
	flagDBPath   string
	flagConfig   string
	flagLevels   string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tilenav",
	Short: "tilenav - navigation meshes and steering agents on tile maps",
	Long: `tilenav builds a sparse visibility graph around the walls of a tile level,
plans paths over it and steers agents along those paths with local avoidance.

Available commands:
  levels   - Show all available levels
  build    - Build and cache a level's navigation mesh
  path     - Plan a path between two points
  run      - Run a level headless and record the outcome
  runs     - Show recorded runs of a level
  view     - Watch a level in the terminal
  serve    - Start SSH server for remote viewing

Examples:
  tilenav levels
  tilenav build original
  tilenav path original 60 60 260 180
  tilenav run plaza --ticks 2000 --seed 7
  tilenav view maze --watch --levels ./levels
  tilenav serve --ssh :2222`,
}

func init() {
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.tilenav/tilenav.db", "Path to the mesh cache and run database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to a configuration YAML")
	rootCmd.PersistentFlags().StringVar(&flagLevels, "levels", "", "Directory with extra level files")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(pathCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(viewCmd)
	rootCmd.AddCommand(serveCmd)
}
