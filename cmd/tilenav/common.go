package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tilenav/internal/config"
	"github.com/vovakirdan/tilenav/internal/level"
	"github.com/vovakirdan/tilenav/internal/storage"
)

// newLogger creates the process logger at the --log-level level.
func newLogger() *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "tilenav",
	})
	lvl, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		logger.Warn("unknown log level, using info", "level", flagLogLevel)
		lvl = log.InfoLevel
	}
	logger.SetLevel(lvl)
	return logger
}

// mustConfig loads the configuration or exits.
func mustConfig() config.Config {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// mustLevel loads a level by ID or exits.
func mustLevel(id string) level.Level {
	lvl, err := level.NewLoader(flagLevels).LoadByID(id)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Run 'tilenav levels' to see available levels.")
		os.Exit(1)
	}
	return lvl
}

// openStore opens the database, logging and returning nil when it is
// unavailable so commands can go on without a cache.
func openStore(logger *log.Logger) *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open database, continuing without it", "path", flagDBPath, "error", err)
		return nil
	}
	return store
}

// seed returns --seed, or a time-based seed when it is zero.
func seed() int64 {
	if flagSeed != 0 {
		return flagSeed
	}
	return time.Now().UnixNano()
}
