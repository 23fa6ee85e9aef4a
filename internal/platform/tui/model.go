package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tilenav/internal/level"
	"github.com/vovakirdan/tilenav/internal/render"
	"github.com/vovakirdan/tilenav/internal/world"
)

// levelChangedMsg carries the path of a level file that changed on disk.
type levelChangedMsg string

// Model is the Bubble Tea model that runs and draws one world.
type Model struct {
	world    *world.World
	screen   *render.Screen
	keys     ViewerKeyMap
	help     help.Model
	logger   *log.Logger
	cache    world.MeshCache
	watcher  *level.Watcher
	loader   *level.Loader
	newSeed  func() int64
	overlay  bool
	paused   bool
	quitting bool
	notice   string
}

// ModelOption configures a Model.
type ModelOption func(*Model)

// WithModelLogger sets the logger for restarts and reloads.
func WithModelLogger(logger *log.Logger) ModelOption {
	return func(m *Model) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithReload rebuilds the world whenever the watcher reports a change to
// the file of the current level. loader parses the changed file.
func WithReload(w *level.Watcher, loader *level.Loader) ModelOption {
	return func(m *Model) {
		m.watcher = w
		m.loader = loader
	}
}

// WithReloadCache stores meshes rebuilt after a reload.
func WithReloadCache(cache world.MeshCache) ModelOption {
	return func(m *Model) {
		m.cache = cache
	}
}

// WithSeedSource replaces the time-based seed used on restart.
func WithSeedSource(f func() int64) ModelOption {
	return func(m *Model) {
		if f != nil {
			m.newSeed = f
		}
	}
}

// NewModel creates a viewer for w.
func NewModel(w *world.World, opts ...ModelOption) Model {
	width, height := render.Size(w)
	h := help.New()
	h.ShowAll = false

	m := Model{
		world:   w,
		screen:  render.NewScreen(width, height),
		keys:    DefaultViewerKeyMap(),
		help:    h,
		logger:  log.NewWithOptions(io.Discard, log.Options{}),
		newSeed: func() int64 { return time.Now().UnixNano() },
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Init starts the tick loop and, when reloading is on, the file watch.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(m.tickRate())}
	if m.watcher != nil {
		cmds = append(cmds, waitForChange(m.watcher))
	}
	return tea.Batch(cmds...)
}

// waitForChange blocks until the watcher reports a changed file.
func waitForChange(w *level.Watcher) tea.Cmd {
	return func() tea.Msg {
		path, ok := <-w.Events
		if !ok {
			return nil
		}
		return levelChangedMsg(path)
	}
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		if !m.paused {
			m.world.Step()
		}
		return m, tickCmd(m.tickRate())

	case levelChangedMsg:
		m.reload(string(msg))
		return m, waitForChange(m.watcher)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Pause):
		m.paused = !m.paused

	case key.Matches(msg, m.keys.Step):
		if m.paused {
			m.world.Step()
		}

	case key.Matches(msg, m.keys.Overlay):
		m.overlay = !m.overlay

	case key.Matches(msg, m.keys.Restart):
		m.restart()

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

// restart recreates the world with a fresh seed, sharing the mesh.
func (m *Model) restart() {
	cur := m.world
	w, err := world.New(cur.Level(), cur.Config(),
		world.WithSeed(m.newSeed()),
		world.WithMesh(cur.Mesh()),
		world.WithLogger(m.logger),
	)
	if err != nil {
		m.notice = fmt.Sprintf("restart failed: %v", err)
		m.logger.Error("restart failed", "level", cur.Level().ID, "err", err)
		return
	}
	m.world = w
	m.notice = fmt.Sprintf("restarted with seed %d", w.Seed())
}

// reload rebuilds the world when path holds the current level.
func (m *Model) reload(path string) {
	if m.loader == nil {
		return
	}
	cur := m.world
	lvl, err := m.loader.LoadFile(path)
	if err != nil {
		m.logger.Warn("level reload failed", "path", path, "err", err)
		m.notice = fmt.Sprintf("reload failed: %v", err)
		return
	}
	if lvl.ID != cur.Level().ID {
		return
	}

	opts := []world.Option{world.WithSeed(cur.Seed()), world.WithLogger(m.logger)}
	if m.cache != nil {
		opts = append(opts, world.WithMeshCache(m.cache))
	}
	w, err := world.New(lvl, cur.Config(), opts...)
	if err != nil {
		m.logger.Warn("level reload failed", "path", path, "err", err)
		m.notice = fmt.Sprintf("reload failed: %v", err)
		return
	}

	m.world = w
	width, height := render.Size(w)
	m.screen.Resize(width, height)
	m.notice = "reloaded " + lvl.ID
	m.logger.Info("level reloaded", "level", lvl.ID, "path", path)
}

func (m Model) tickRate() int {
	return m.world.Config().Sim.TickRate
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	render.DrawWorld(m.screen, m.world, render.Options{Overlay: m.overlay, Paused: m.paused})

	var b strings.Builder
	b.WriteString(RenderScreen(m.screen))
	b.WriteString("\n")
	if m.notice != "" {
		noticeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("229"))
		b.WriteString(noticeStyle.Render(m.notice))
		b.WriteString("\n")
	}
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// World returns the world currently shown.
func (m Model) World() *world.World {
	return m.world
}

// Run starts the Bubble Tea program with a viewer for w.
func Run(w *world.World, opts ...ModelOption) error {
	p := tea.NewProgram(
		NewModel(w, opts...),
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
