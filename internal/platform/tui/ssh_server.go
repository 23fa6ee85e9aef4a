package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/tilenav/internal/config"
	"github.com/vovakirdan/tilenav/internal/level"
	"github.com/vovakirdan/tilenav/internal/navmesh"
	"github.com/vovakirdan/tilenav/internal/world"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.tilenav/host_key.
	HostKeyPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// Levels are the levels sessions may pick with the SSH command
	// argument. The first one is the default.
	Levels []level.Level

	// Config is used for every session world.
	Config config.Config

	// Cache, when set, is consulted before building each level mesh.
	Cache world.MeshCache

	// Logger receives server and session events.
	Logger *log.Logger
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		IdleTimeout: 30 * time.Minute,
		Config:      config.Default(),
	}
}

// SSHServer serves one world viewer per SSH session. All sessions on a
// level share that level's read-only mesh.
type SSHServer struct {
	config SSHServerConfig
	server *ssh.Server
	logger *log.Logger
	levels map[string]level.Level
	meshes map[string]*navmesh.Mesh
}

// NewSSHServer builds the mesh of every level and creates the server.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	if len(cfg.Levels) == 0 {
		return nil, fmt.Errorf("ssh: no levels to serve")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "tilenav-ssh",
		})
	}

	srv := &SSHServer{
		config: cfg,
		logger: logger,
		levels: make(map[string]level.Level, len(cfg.Levels)),
		meshes: make(map[string]*navmesh.Mesh, len(cfg.Levels)),
	}

	for _, lvl := range cfg.Levels {
		opts := []world.Option{world.WithLogger(logger), world.WithSeed(0)}
		if cfg.Cache != nil {
			opts = append(opts, world.WithMeshCache(cfg.Cache))
		}
		w, err := world.New(lvl, cfg.Config, opts...)
		if err != nil {
			return nil, fmt.Errorf("ssh: level %s: %w", lvl.ID, err)
		}
		srv.levels[lvl.ID] = lvl
		srv.meshes[lvl.ID] = w.Mesh()
	}

	// Resolve host key path
	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("ssh: cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".tilenav", "host_key")
	}

	hostKeyDir := filepath.Dir(hostKeyPath)
	if mkdirErr := os.MkdirAll(hostKeyDir, 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("ssh: cannot create host key directory: %w", mkdirErr)
	}

	opts := []ssh.Option{
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	}

	server, err := wish.NewServer(opts...)
	if err != nil {
		return nil, fmt.Errorf("ssh: cannot create server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// levelFor picks the level named by the session command, or the default.
func (s *SSHServer) levelFor(command []string) (level.Level, bool) {
	if len(command) == 0 {
		return s.config.Levels[0], true
	}
	lvl, ok := s.levels[strings.TrimSpace(command[0])]
	return lvl, ok
}

// teaHandler creates a viewer for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	if _, _, ok := sshSession.Pty(); !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	lvl, ok := s.levelFor(sshSession.Command())
	if !ok {
		s.logger.Warn("unknown level requested", "user", sshSession.User(), "command", sshSession.Command())
		wish.Fatalln(sshSession, "unknown level; try one of: "+strings.Join(s.levelIDs(), ", "))
		return nil, nil
	}

	w, err := world.New(lvl, s.config.Config,
		world.WithSeed(time.Now().UnixNano()),
		world.WithMesh(s.meshes[lvl.ID]),
		world.WithLogger(s.logger),
	)
	if err != nil {
		s.logger.Error("cannot create world", "level", lvl.ID, "error", err)
		return nil, nil
	}

	model := NewModel(w, WithModelLogger(s.logger))
	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

func (s *SSHServer) levelIDs() []string {
	ids := make([]string, len(s.config.Levels))
	for i, lvl := range s.config.Levels {
		ids[i] = lvl.ID
	}
	return ids
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until shutdown.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address, "levels", len(s.levels))

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()

	<-done
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// Mesh returns the shared mesh of a level, or nil for an unknown level.
func (s *SSHServer) Mesh(levelID string) *navmesh.Mesh {
	return s.meshes[levelID]
}
