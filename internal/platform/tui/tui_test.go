package tui

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tilenav/internal/config"
	"github.com/vovakirdan/tilenav/internal/level"
	"github.com/vovakirdan/tilenav/internal/storage"
	"github.com/vovakirdan/tilenav/internal/world"
)

func loadLevel(t *testing.T, id string) level.Level {
	t.Helper()
	lvl, err := level.NewLoader("").LoadByID(id)
	if err != nil {
		t.Fatalf("LoadByID(%s) error = %v", id, err)
	}
	return lvl
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	w, err := world.New(loadLevel(t, "original"), config.Default(), world.WithSeed(9))
	if err != nil {
		t.Fatalf("world.New() error = %v", err)
	}
	seed := int64(100)
	return NewModel(w, WithSeedSource(func() int64 {
		seed++
		return seed
	}))
}

func press(m Model, r rune) (Model, tea.Cmd) {
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	return next.(Model), cmd
}

func TestModelTicks(t *testing.T) {
	m := newTestModel(t)

	next, cmd := m.Update(TickMsg{})
	m = next.(Model)
	if m.World().Tick() != 1 {
		t.Errorf("Tick() = %d after one tick message", m.World().Tick())
	}
	if cmd == nil {
		t.Error("tick should schedule the next tick")
	}

	m, _ = press(m, 'p')
	next, _ = m.Update(TickMsg{})
	m = next.(Model)
	if m.World().Tick() != 1 {
		t.Errorf("paused world advanced to tick %d", m.World().Tick())
	}

	m, _ = press(m, 'n')
	if m.World().Tick() != 2 {
		t.Errorf("step key did not advance a paused world: tick %d", m.World().Tick())
	}

	m, _ = press(m, 'p')
	m, _ = press(m, 'n')
	if m.World().Tick() != 2 {
		t.Errorf("step key advanced a running world: tick %d", m.World().Tick())
	}
}

func TestModelRestartSharesMesh(t *testing.T) {
	m := newTestModel(t)
	before := m.World()
	before.Run(10)

	m, _ = press(m, 'r')
	after := m.World()
	if after == before {
		t.Fatal("restart kept the old world")
	}
	if after.Tick() != 0 || after.Seed() != 101 {
		t.Errorf("restarted world at tick %d seed %d", after.Tick(), after.Seed())
	}
	if after.Mesh() != before.Mesh() {
		t.Error("restart rebuilt the mesh")
	}
}

func TestModelOverlayAndQuit(t *testing.T) {
	m := newTestModel(t)

	plain := m.View()
	m, _ = press(m, 'd')
	if !m.overlay {
		t.Fatal("overlay not toggled")
	}
	if m.View() == plain {
		t.Error("overlay did not change the view")
	}

	m, cmd := press(m, 'q')
	if cmd == nil {
		t.Fatal("quit returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("quit did not return tea.Quit")
	}
	if m.View() != "" {
		t.Error("view after quit should be empty")
	}
}

func TestModelReload(t *testing.T) {
	dir := t.TempDir()
	src := `
id: original
tile_size: 40
layout:
  - "....."
  - "..#.."
  - "....."
agents:
  - role: player
    at: [0, 0]
    route: [[4, 2]]
`
	path := filepath.Join(dir, "original.yaml")
	if err := os.WriteFile(path, []byte(src), 0644); err != nil {
		t.Fatal(err)
	}

	m := newTestModel(t)
	m.loader = level.NewLoader(dir)
	next, _ := m.Update(levelChangedMsg(path))
	m = next.(Model)

	if m.World().Grid().W != 5 {
		t.Errorf("reload kept the old level: width %d", m.World().Grid().W)
	}
	if m.screen.Width() != 10 || m.screen.Height() != 4 {
		t.Errorf("screen = %dx%d after reload", m.screen.Width(), m.screen.Height())
	}

	other := filepath.Join(dir, "other.yaml")
	if err := os.WriteFile(other, []byte(strings.Replace(src, "id: original", "id: other", 1)), 0644); err != nil {
		t.Fatal(err)
	}
	w := m.World()
	next, _ = m.Update(levelChangedMsg(other))
	if next.(Model).World() != w {
		t.Error("a change to another level replaced the world")
	}
}

type fakeRuns map[string][]storage.RunRecord

func (f fakeRuns) RecentRuns(levelID string, _ int) ([]storage.RunRecord, error) {
	if levelID == "broken" {
		return nil, errors.New("boom")
	}
	return f[levelID], nil
}

func TestRunsModel(t *testing.T) {
	src := fakeRuns{
		"maze": {{LevelID: "maze", Seed: 7, Ticks: 300, Plans: 6, PlanFailures: 1, Stalls: 2}},
	}
	m := NewRunsModel(src, []string{"broken", "maze", "original"}, "maze", 100, 30)
	if m.Level() != "maze" {
		t.Fatalf("Level() = %q, expected maze", m.Level())
	}
	if len(m.runs) != 1 || !strings.Contains(m.View(), "RUNS - maze") {
		t.Errorf("maze runs not shown: %d runs", len(m.runs))
	}
	if row := m.table.Rows()[0]; row[5] != "5/6" || row[7] != "2" {
		t.Errorf("row = %v, expected 5/6 plans and 2 stalls", row)
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(RunsModel)
	if m.Level() != "original" || len(m.runs) != 0 {
		t.Errorf("tab moved to %q with %d runs", m.Level(), len(m.runs))
	}
	if !strings.Contains(m.View(), "No runs recorded yet") {
		t.Error("empty level should say so")
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(RunsModel)
	if m.Level() != "broken" || m.loadErr == nil {
		t.Errorf("wrap-around to %q, err %v", m.Level(), m.loadErr)
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	m = next.(RunsModel)
	if m.Level() != "original" {
		t.Errorf("shift+tab moved to %q", m.Level())
	}
}

func TestSSHServerSharesMeshes(t *testing.T) {
	cfg := DefaultSSHServerConfig()
	cfg.Address = "127.0.0.1:0"
	cfg.HostKeyPath = filepath.Join(t.TempDir(), "keys", "host_key")
	cfg.Levels = []level.Level{loadLevel(t, "original"), loadLevel(t, "maze")}

	srv, err := NewSSHServer(cfg)
	if err != nil {
		t.Fatalf("NewSSHServer() error = %v", err)
	}
	if srv.Mesh("original") == nil || srv.Mesh("maze") == nil {
		t.Fatal("meshes not built at startup")
	}
	if srv.Mesh("plaza") != nil {
		t.Error("unexpected mesh for a level not served")
	}

	lvl, ok := srv.levelFor(nil)
	if !ok || lvl.ID != "original" {
		t.Errorf("default level = %q", lvl.ID)
	}
	lvl, ok = srv.levelFor([]string{"maze"})
	if !ok || lvl.ID != "maze" {
		t.Errorf("levelFor(maze) = %q, %v", lvl.ID, ok)
	}
	if _, ok := srv.levelFor([]string{"nope"}); ok {
		t.Error("unknown level accepted")
	}

	if _, err := NewSSHServer(SSHServerConfig{}); err == nil {
		t.Error("expected error without levels")
	}
}
