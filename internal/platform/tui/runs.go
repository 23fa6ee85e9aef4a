package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tilenav/internal/storage"
)

// Run history layout constants
const (
	minWidthForSidebar = 80  // Minimum width to show level list sidebar
	sidebarWidth       = 20  // Width of level list sidebar
	maxRuns            = 100 // Max runs to load
)

// RunSource provides recorded runs. *storage.Store implements it.
type RunSource interface {
	RecentRuns(levelID string, limit int) ([]storage.RunRecord, error)
}

// RunsModel is the Bubble Tea model for the run history screen.
type RunsModel struct {
	levels      []string
	cursor      int
	source      RunSource
	runs        []storage.RunRecord
	loadErr     error
	table       table.Model
	help        help.Model
	keys        RunsKeyMap
	width       int
	height      int
	quitting    bool
	showSidebar bool
}

// NewRunsModel creates a run history screen starting at level start.
func NewRunsModel(source RunSource, levels []string, start string, width, height int) RunsModel {
	h := help.New()
	h.ShowAll = false

	m := RunsModel{
		levels:      levels,
		source:      source,
		keys:        DefaultRunsKeyMap(),
		help:        h,
		width:       width,
		height:      height,
		showSidebar: width >= minWidthForSidebar,
	}
	for i, id := range levels {
		if id == start {
			m.cursor = i
		}
	}

	m.table = m.createTable()
	if len(m.levels) > 0 {
		m.loadRuns(m.levels[m.cursor])
	}
	return m
}

// createTable creates a new table with appropriate columns.
func (m *RunsModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Seed", Width: 20},
		{Title: "Ticks", Width: 7},
		{Title: "Agents", Width: 6},
		{Title: "Arrived", Width: 7},
		{Title: "Caught", Width: 6},
		{Title: "Plans", Width: 9},
		{Title: "Replans", Width: 7},
		{Title: "Stalls", Width: 6},
		{Title: "Blocked", Width: 7},
		{Title: "Date", Width: 12},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-8, 3)), // Leave room for header, help, and margins
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// loadRuns loads the runs of the given level.
func (m *RunsModel) loadRuns(levelID string) {
	m.runs, m.loadErr = nil, nil
	if m.source != nil {
		m.runs, m.loadErr = m.source.RecentRuns(levelID, maxRuns)
	}
	m.updateTableRows()
}

// updateTableRows updates the table with current runs.
func (m *RunsModel) updateTableRows() {
	rows := make([]table.Row, len(m.runs))
	for i, r := range m.runs {
		rows[i] = table.Row{
			fmt.Sprintf("%d", r.Seed),
			fmt.Sprintf("%d", r.Ticks),
			fmt.Sprintf("%d", r.Agents),
			fmt.Sprintf("%d", r.Arrivals),
			fmt.Sprintf("%d", r.Catches),
			fmt.Sprintf("%d/%d", r.Plans-r.PlanFailures, r.Plans),
			fmt.Sprintf("%d", r.Replans),
			fmt.Sprintf("%d", r.Stalls),
			fmt.Sprintf("%d", r.BlockedMoves),
			r.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Init initializes the run history model.
func (m RunsModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the run history screen.
func (m RunsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextLevel):
			if len(m.levels) > 0 {
				m.cursor = (m.cursor + 1) % len(m.levels)
				m.loadRuns(m.levels[m.cursor])
			}
			return m, nil

		case key.Matches(msg, m.keys.PrevLevel):
			if len(m.levels) > 0 {
				m.cursor = (m.cursor - 1 + len(m.levels)) % len(m.levels)
				m.loadRuns(m.levels[m.cursor])
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showSidebar = m.width >= minWidthForSidebar
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// Level returns the level currently shown.
func (m RunsModel) Level() string {
	if len(m.levels) == 0 {
		return ""
	}
	return m.levels[m.cursor]
}

// View renders the run history.
func (m RunsModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		MarginBottom(1)

	title := "RUNS"
	if len(m.levels) > 0 {
		title = fmt.Sprintf("RUNS - %s", m.Level())
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n\n")

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	content := boxStyle.Render(m.renderTableContent())
	if m.showSidebar {
		content = lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), "  ", content)
	}
	b.WriteString(content)

	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

func (m RunsModel) renderSidebar() string {
	sidebarStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(sidebarWidth).
		Padding(0, 1)

	var sidebar strings.Builder
	sidebar.WriteString("Levels\n")
	sidebar.WriteString(strings.Repeat("-", sidebarWidth-4))
	sidebar.WriteString("\n")

	for i, id := range m.levels {
		cursor := "  "
		style := lipgloss.NewStyle()
		if i == m.cursor {
			cursor = "> "
			style = style.Bold(true).Foreground(lipgloss.Color("229"))
		}
		name := id
		if maxLen := sidebarWidth - 6; len(name) > maxLen {
			name = name[:maxLen-1] + "."
		}
		sidebar.WriteString(style.Render(cursor + name))
		sidebar.WriteString("\n")
	}

	return sidebarStyle.Render(sidebar.String())
}

// renderTableContent renders the table or an empty message.
func (m RunsModel) renderTableContent() string {
	emptyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Italic(true).
		Padding(2, 4)

	if m.loadErr != nil {
		return emptyStyle.Render(fmt.Sprintf("Could not load runs:\n%v", m.loadErr))
	}
	if len(m.runs) == 0 {
		return emptyStyle.Render("No runs recorded yet.\nUse 'tilenav run <level>' to record one.")
	}
	return m.table.View()
}

// RunRuns shows the run history screen until the user quits.
func RunRuns(source RunSource, levels []string, start string, width, height int) error {
	p := tea.NewProgram(
		NewRunsModel(source, levels, start, width, height),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
