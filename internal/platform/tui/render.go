package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tilenav/internal/render"
)

// colorStyles maps render.Color to lipgloss styles.
var colorStyles = map[render.Color]lipgloss.Style{
	render.ColorDefault:  lipgloss.NewStyle(),
	render.ColorWall:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	render.ColorFloor:    lipgloss.NewStyle().Foreground(lipgloss.Color("236")),
	render.ColorMeshEdge: lipgloss.NewStyle().Foreground(lipgloss.Color("24")),
	render.ColorMeshNode: lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true),
	render.ColorPath:     lipgloss.NewStyle().Foreground(lipgloss.Color("226")),
	render.ColorTarget:   lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true),
	render.ColorPlayer:   lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Bold(true),
	render.ColorGuard:    lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	render.ColorWanderer: lipgloss.NewStyle().Foreground(lipgloss.Color("51")),
	render.ColorScripted: lipgloss.NewStyle().Foreground(lipgloss.Color("171")),
	render.ColorHUD:      lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
	render.ColorPaused:   lipgloss.NewStyle().Foreground(lipgloss.Color("16")).Background(lipgloss.Color("226")),
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *render.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := 0; y < s.Height(); y++ {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			startColor := s.GetCell(x, y).Color

			var run strings.Builder
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style, ok := colorStyles[startColor]
			if !ok {
				style = colorStyles[render.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}
