package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tilenav/internal/level"
	"github.com/vovakirdan/tilenav/internal/platform/tui"
	"github.com/vovakirdan/tilenav/internal/render"
	"github.com/vovakirdan/tilenav/internal/world"
)

var flagWatch bool

var viewCmd = &cobra.Command{
	Use:   "view <level>",
	Short: "Watch a level in the terminal",
	Long: `Run the simulation of a level and draw it in the terminal.

Controls:
  P/Space   - Pause
  N         - Step one tick while paused
  D         - Toggle the mesh and path overlay
  R         - Restart with a new seed
  ?         - More keys
  Q/Ctrl+C  - Quit

With --watch the level is rebuilt whenever its file in the --levels
directory changes.

Examples:
  tilenav view original
  tilenav view plaza --seed 7
  tilenav view mine --levels ./levels --watch`,
	Args: cobra.ExactArgs(1),
	Run:  runView,
}

func init() {
	viewCmd.Flags().BoolVar(&flagWatch, "watch", false, "Reload the level when its file changes")
}

func runView(cmd *cobra.Command, args []string) {
	logger := newLogger()
	cfg := mustConfig()
	lvl := mustLevel(args[0])

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

	if tw, th, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		if need, needH := render.Size(w); need > tw || needH > th {
			logger.Warn("terminal smaller than the level", "need", fmt.Sprintf("%dx%d", need, needH), "have", fmt.Sprintf("%dx%d", tw, th))
		}
	}

	modelOpts := []tui.ModelOption{tui.WithModelLogger(logger)}
	if store != nil {
		modelOpts = append(modelOpts, tui.WithReloadCache(store))
	}
	if flagWatch {
		if flagLevels == "" {
			fmt.Fprintln(os.Stderr, "Error: --watch needs a --levels directory")
			os.Exit(1)
		}
		watcher, err := level.NewWatcher(flagLevels)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error watching %s: %v\n", flagLevels, err)
			os.Exit(1)
		}
		defer watcher.Close()
		modelOpts = append(modelOpts, tui.WithReload(watcher, level.NewLoader(flagLevels)))
	}

	if err := tui.Run(w, modelOpts...); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
