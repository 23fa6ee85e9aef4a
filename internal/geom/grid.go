package geom

import "math"

// Grid is the occupancy grid of a level: one wall/free flag per tile.
// Cells are stored in row-major order: index = y*W + x.
// A grid is filled once at level load and read-only afterwards.
type Grid struct {
	W, H  int
	cells []bool
}

// NewGrid creates an all-free grid with the given dimensions.
func NewGrid(w, h int) *Grid {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return &Grid{W: w, H: h, cells: make([]bool, w*h)}
}

// GridFromRows builds a grid from rows[y][x]; any non-zero value is a wall.
// Short rows are padded with free cells.
func GridFromRows(rows [][]int) *Grid {
	w := 0
	for _, row := range rows {
		w = max(w, len(row))
	}
	g := NewGrid(w, len(rows))
	for y, row := range rows {
		for x, v := range row {
			g.SetWall(x, y, v != 0)
		}
	}
	return g
}

// InBounds returns true if (x, y) is a cell of the grid.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.W && y >= 0 && y < g.H
}

// Wall reports whether (x, y) is a wall cell. Cells outside the grid are free.
func (g *Grid) Wall(x, y int) bool {
	if !g.InBounds(x, y) {
		return false
	}
	return g.cells[y*g.W+x]
}

// SetWall marks a cell. It is meant for level construction only.
func (g *Grid) SetWall(x, y int, wall bool) {
	if g.InBounds(x, y) {
		g.cells[y*g.W+x] = wall
	}
}

// WallCount returns the number of wall cells.
func (g *Grid) WallCount() int {
	n := 0
	for _, c := range g.cells {
		if c {
			n++
		}
	}
	return n
}

// CellAt returns the cell containing pixel point p.
func (g *Grid) CellAt(p Vec, cellSize float64) (int, int) {
	return int(math.Floor(p.X / cellSize)), int(math.Floor(p.Y / cellSize))
}

// CellCenter returns the pixel centre of cell (x, y).
func (g *Grid) CellCenter(x, y int, cellSize float64) Vec {
	return Vec{X: (float64(x) + 0.5) * cellSize, Y: (float64(y) + 0.5) * cellSize}
}

// WallRects returns every wall cell as a tile rectangle, merged with MergeRects.
func (g *Grid) WallRects(cellSize float64) []Rect {
	var rects []Rect
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			if g.cells[y*g.W+x] {
				rects = append(rects, Rect{
					X: float64(x) * cellSize,
					Y: float64(y) * cellSize,
					W: cellSize,
					H: cellSize,
				})
			}
		}
	}
	return MergeRects(rects)
}

// degenerateCell replaces a non-positive cell size so traversal never divides by zero.
const degenerateCell = 1e12

// SegmentGrid walks the supercover of p0→p1 over g and returns true on the
// first wall cell. At each step the axis whose next cell boundary is closer
// (in segment parameter) is advanced; on an exact tie both axes advance.
// An axis without movement never forces a crossing.
func SegmentGrid(p0, p1 Vec, g *Grid, cellSize float64) bool {
	if g == nil {
		return false
	}
	if cellSize <= 0 {
		cellSize = degenerateCell
	}

	x0, y0 := p0.X/cellSize, p0.Y/cellSize
	x1, y1 := p1.X/cellSize, p1.Y/cellSize

	cx, cy := int(math.Floor(x0)), int(math.Floor(y0))
	targetX, targetY := int(math.Floor(x1)), int(math.Floor(y1))

	if g.Wall(cx, cy) {
		return true
	}

	dx, dy := x1-x0, y1-y0
	stepX, stepY := 1, 1
	if dx < 0 {
		stepX = -1
		dx = -dx
	}
	if dy < 0 {
		stepY = -1
		dy = -dy
	}

	tMaxX, tDeltaX := math.Inf(1), math.Inf(1)
	if dx != 0 {
		tDeltaX = 1 / dx
		if stepX > 0 {
			tMaxX = (float64(cx+1) - x0) / dx
		} else {
			tMaxX = (x0 - float64(cx)) / dx
		}
	}

	tMaxY, tDeltaY := math.Inf(1), math.Inf(1)
	if dy != 0 {
		tDeltaY = 1 / dy
		if stepY > 0 {
			tMaxY = (float64(cy+1) - y0) / dy
		} else {
			tMaxY = (y0 - float64(cy)) / dy
		}
	}

	limit := abs(targetX-cx) + abs(targetY-cy) + 2
	for steps := 0; (cx != targetX || cy != targetY) && steps < limit; steps++ {
		switch {
		case tMaxX < tMaxY:
			if cx != targetX {
				cx += stepX
				tMaxX += tDeltaX
			} else {
				cy += stepY
				tMaxY += tDeltaY
			}
		case tMaxX > tMaxY:
			if cy != targetY {
				cy += stepY
				tMaxY += tDeltaY
			} else {
				cx += stepX
				tMaxX += tDeltaX
			}
		default:
			if cx != targetX {
				cx += stepX
				tMaxX += tDeltaX
			}
			if cy != targetY {
				cy += stepY
				tMaxY += tDeltaY
			}
		}

		if g.Wall(cx, cy) {
			return true
		}
	}

	return false
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
