package render

import (
	"fmt"
	"math"

	"github.com/vovakirdan/tilenav/internal/geom"
	"github.com/vovakirdan/tilenav/internal/steering"
	"github.com/vovakirdan/tilenav/internal/world"
)

// CellsPerTile is the number of columns one tile takes. Terminal cells are
// about twice as tall as wide, so a tile is two columns by one row.
const CellsPerTile = 2

// Glyphs.
const (
	wallRune     = '█'
	floorRune    = '·'
	edgeRune     = '∙'
	nodeRune     = '+'
	pathRune     = '•'
	targetRune   = 'x'
	hudSeparator = "  "
)

type roleStyle struct {
	frames []rune
	color  Color
}

var roleStyles = map[steering.Role]roleStyle{
	steering.RolePlayer:   {frames: []rune{'P', 'p'}, color: ColorPlayer},
	steering.RoleGuard:    {frames: []rune{'G', 'g'}, color: ColorGuard},
	steering.RoleWanderer: {frames: []rune{'W', 'w'}, color: ColorWanderer},
	steering.RoleScripted: {frames: []rune{'S', 's'}, color: ColorScripted},
}

var facingRunes = map[steering.Facing]rune{
	steering.Down:  '▾',
	steering.Left:  '◂',
	steering.Right: '▸',
	steering.Up:    '▴',
}

// Size returns the screen size needed to draw w with a status line.
func Size(w *world.World) (int, int) {
	g := w.Grid()
	return g.W * CellsPerTile, g.H + 1
}

// Options selects what DrawWorld shows besides walls and agents.
type Options struct {
	// Overlay draws the mesh and every agent's remaining path.
	Overlay bool
	// Paused is shown in the status line.
	Paused bool
}

// DrawWorld draws w into s: floor, walls, the optional debug overlay, the
// agents and a status line on the last row.
func DrawWorld(s *Screen, w *world.World, opts Options) {
	s.Clear()
	g := w.Grid()
	tile := w.TileSize()

	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			r, c := floorRune, ColorFloor
			if g.Wall(x, y) {
				r, c = wallRune, ColorWall
			}
			for i := 0; i < CellsPerTile; i++ {
				s.Set(x*CellsPerTile+i, y, r, c)
			}
		}
	}

	agents := w.Agents()
	if opts.Overlay {
		drawMesh(s, w, tile)
		for _, a := range agents {
			drawPath(s, a, tile)
		}
	}

	for _, a := range agents {
		drawAgent(s, a, tile)
	}

	drawStatus(s, w, g.H, opts)
}

func drawMesh(s *Screen, w *world.World, tile float64) {
	m := w.Mesh()
	for _, e := range m.Edges() {
		drawSegment(s, e[0], e[1], tile, edgeRune, ColorMeshEdge)
	}
	for _, p := range m.Nodes() {
		x, y := toCell(p, tile)
		s.Set(x, y, nodeRune, ColorMeshNode)
	}
}

func drawPath(s *Screen, a *steering.Agent, tile float64) {
	if a.State != steering.FollowingPath {
		return
	}
	prev := a.Pos
	for _, p := range a.Path {
		drawSegment(s, prev, p, tile, pathRune, ColorPath)
		prev = p
	}
	x, y := toCell(a.Destination, tile)
	s.Set(x, y, targetRune, ColorTarget)
}

// drawSegment samples a segment a few times per cell and marks the cells
// it passes over, leaving walls untouched.
func drawSegment(s *Screen, a, b geom.Vec, tile float64, r rune, c Color) {
	step := tile / (2 * CellsPerTile)
	n := int(math.Ceil(geom.Dist(a, b)/step)) + 1
	for i := 0; i <= n; i++ {
		t := float64(i) / float64(n)
		x, y := toCell(geom.Add(a, geom.Scale(geom.Sub(b, a), t)), tile)
		if s.Get(x, y) == wallRune {
			continue
		}
		s.Set(x, y, r, c)
	}
}

func drawAgent(s *Screen, a *steering.Agent, tile float64) {
	st, ok := roleStyles[a.Role]
	if !ok {
		st = roleStyle{frames: []rune{'?'}, color: ColorDefault}
	}
	glyph := st.frames[a.Frame%len(st.frames)]

	x, y := toCell(a.Pos, tile)
	x -= x % CellsPerTile
	s.Set(x, y, glyph, st.color)
	s.Set(x+1, y, facingRunes[a.Facing], st.color)
}

func drawStatus(s *Screen, w *world.World, row int, opts Options) {
	st := w.Stats()
	text := fmt.Sprintf("%s%stick %d%sseed %d%sarrivals %d%scaught %d%sreplans %d%sstalls %d%sblocked %d",
		w.Level().ID, hudSeparator,
		st.Ticks, hudSeparator,
		w.Seed(), hudSeparator,
		st.Arrivals, hudSeparator,
		st.Catches, hudSeparator,
		st.Replans, hudSeparator,
		st.Stalls, hudSeparator,
		st.BlockedMoves,
	)
	s.DrawText(0, row, text, ColorHUD)
	if opts.Paused {
		label := " PAUSED "
		s.DrawText(s.Width()-len(label), row, label, ColorPaused)
	}
}

// toCell maps a pixel position to its screen cell.
func toCell(p geom.Vec, tile float64) (int, int) {
	x := int(math.Floor(p.X / tile * CellsPerTile))
	y := int(math.Floor(p.Y / tile))
	return x, y
}
