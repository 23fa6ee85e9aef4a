// Package level loads level files: the tile layout, the agents spawned on it
// and the extra navigation seeds. This package depends on geom and steering
// but the navigation core does not depend on level.
package level

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/vovakirdan/tilenav/internal/geom"
	"github.com/vovakirdan/tilenav/internal/steering"
)

// Layout characters.
const (
	WallChar = '#'
	FreeChar = '.'
)

// Tile is a column/row pair.
type Tile struct {
	X, Y int
}

// AgentSpec describes one agent spawned when the level starts.
type AgentSpec struct {
	Role   steering.Role
	At     Tile
	Route  []Tile
	Script string
}

// Level represents a complete level definition.
type Level struct {
	ID       string
	Name     string
	TileSize float64
	Layout   []string
	Agents   []AgentSpec
	Seeds    []geom.Vec
	Metadata map[string]string
	FilePath string
}

// Width returns the number of tile columns (the longest layout row).
func (l *Level) Width() int {
	w := 0
	for _, row := range l.Layout {
		w = max(w, len(row))
	}
	return w
}

// Height returns the number of tile rows.
func (l *Level) Height() int {
	return len(l.Layout)
}

// Grid builds the occupancy grid from the layout.
func (l *Level) Grid() *geom.Grid {
	g := geom.NewGrid(l.Width(), l.Height())
	for y, row := range l.Layout {
		for x := 0; x < len(row); x++ {
			g.SetWall(x, y, row[x] == WallChar)
		}
	}
	return g
}

// WallRects returns the merged wall rectangles in pixels.
func (l *Level) WallRects() []geom.Rect {
	return l.Grid().WallRects(l.TileSize)
}

// Bounds returns the pixel rectangle covered by the layout.
func (l *Level) Bounds() geom.Rect {
	return geom.NewRect(0, 0, float64(l.Width())*l.TileSize, float64(l.Height())*l.TileSize)
}

// TileCenter returns the pixel centre of a tile.
func (l *Level) TileCenter(t Tile) geom.Vec {
	return geom.V((float64(t.X)+0.5)*l.TileSize, (float64(t.Y)+0.5)*l.TileSize)
}

// Hash identifies the navigation geometry of the level: tile size, layout
// and seeds. Agents, names and metadata do not change it.
func (l *Level) Hash() string {
	h := sha256.New()
	fmt.Fprintf(h, "tile=%g\n", l.TileSize)
	for _, row := range l.Layout {
		fmt.Fprintf(h, "%s\n", row)
	}
	for _, s := range l.Seeds {
		fmt.Fprintf(h, "seed=%g,%g\n", s.X, s.Y)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Validate checks that the layout is well formed and that every agent
// spawns on a free tile.
func (l *Level) Validate() error {
	if strings.TrimSpace(l.ID) == "" {
		return fmt.Errorf("level: missing id")
	}
	if l.TileSize <= 0 {
		return fmt.Errorf("level %s: tile_size must be positive", l.ID)
	}
	if l.Height() == 0 || l.Width() == 0 {
		return fmt.Errorf("level %s: empty layout", l.ID)
	}
	for y, row := range l.Layout {
		for x, c := range row {
			if c != WallChar && c != FreeChar {
				return fmt.Errorf("level %s: unknown tile %q at %d,%d", l.ID, c, x, y)
			}
		}
	}

	g := l.Grid()
	free := func(t Tile) bool {
		return g.InBounds(t.X, t.Y) && !g.Wall(t.X, t.Y)
	}
	for i, a := range l.Agents {
		if a.Role == "" {
			return fmt.Errorf("level %s: agent %d has no role", l.ID, i)
		}
		if !free(a.At) {
			return fmt.Errorf("level %s: agent %d spawns on blocked tile %d,%d", l.ID, i, a.At.X, a.At.Y)
		}
		for _, t := range a.Route {
			if !free(t) {
				return fmt.Errorf("level %s: agent %d routes through blocked tile %d,%d", l.ID, i, t.X, t.Y)
			}
		}
		if a.Role == steering.RoleScripted && strings.TrimSpace(a.Script) == "" {
			return fmt.Errorf("level %s: scripted agent %d has no script", l.ID, i)
		}
	}
	return nil
}
