package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tilenav/internal/level"
	"github.com/vovakirdan/tilenav/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagServeLevel  string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the tilenav SSH server",
	Long: `Start an SSH server that shows the level viewer to every connection.

Each SSH connection gets its own world with its own seed. All sessions
on the same level share one navigation mesh, built at startup.
A session picks a level with the SSH command, e.g. 'ssh host -p 23234 maze';
without one it gets --level, or the first level.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.tilenav/host_key

Examples:
  tilenav serve                           # Listen on :23234 with auto-generated key
  tilenav serve --ssh :2222               # Listen on port 2222
  tilenav serve --level plaza             # Default sessions to the plaza level
  tilenav serve --host-key ./my_host_key  # Use specific host key`,
	Run: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().StringVar(&flagServeLevel, "level", "", "Default level for sessions")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
}

func runServe(_ *cobra.Command, _ []string) {
	logger := newLogger()

	levels, err := level.NewLoader(flagLevels).LoadAll()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading levels: %v\n", err)
		os.Exit(1)
	}
	if flagServeLevel != "" {
		levels, err = defaultFirst(levels, flagServeLevel)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	cfg := tui.DefaultSSHServerConfig()
	cfg.Address = flagSSHAddr
	cfg.HostKeyPath = flagHostKey
	cfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
	cfg.Levels = levels
	cfg.Config = mustConfig()
	cfg.Logger = logger

	store := openStore(logger)
	if store != nil {
		defer store.Close()
		cfg.Cache = store
	}

	server, err := tui.NewSSHServer(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Starting tilenav SSH server on %s\n", cfg.Address)
	fmt.Printf("Connect with: ssh localhost -p 23234 [%s]\n", levels[0].ID)
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}

// defaultFirst moves the level with the given ID to the front.
func defaultFirst(levels []level.Level, id string) ([]level.Level, error) {
	for i, l := range levels {
		if l.ID == id {
			out := append([]level.Level{l}, levels[:i]...)
			return append(out, levels[i+1:]...), nil
		}
	}
	return nil, fmt.Errorf("unknown level %q", id)
}
