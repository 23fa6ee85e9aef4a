package geom

import (
	"math"
	"sort"
)

// Rect represents an axis-aligned rectangle in pixel space.
type Rect struct {
	X, Y float64 // Top-left corner position
	W, H float64 // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h float64) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// RectAround returns the rectangle of size w×h centred on c.
func RectAround(c Vec, w, h float64) Rect {
	return Rect{X: c.X - w/2, Y: c.Y - h/2, W: w, H: h}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() float64 {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() float64 {
	return r.Y + r.H
}

// Center returns the center point of the rectangle.
func (r Rect) Center() Vec {
	return Vec{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Area returns W*H.
func (r Rect) Area() float64 {
	return r.W * r.H
}

// IsEmpty reports whether the rectangle has no extent.
func (r Rect) IsEmpty() bool {
	return r.W <= 0 || r.H <= 0
}

// Corners returns the four corners in fixed order:
// top-left, top-right, bottom-right, bottom-left.
func (r Rect) Corners() [4]Vec {
	return [4]Vec{
		{X: r.X, Y: r.Y},
		{X: r.Right(), Y: r.Y},
		{X: r.Right(), Y: r.Bottom()},
		{X: r.X, Y: r.Bottom()},
	}
}

// Offset grows the rectangle by margin on every side. A negative margin
// shrinks it.
func (r Rect) Offset(margin float64) Rect {
	return Rect{X: r.X - margin, Y: r.Y - margin, W: r.W + 2*margin, H: r.H + 2*margin}
}

// Translate moves the rectangle by d.
func (r Rect) Translate(d Vec) Rect {
	return Rect{X: r.X + d.X, Y: r.Y + d.Y, W: r.W, H: r.H}
}

// Intersects returns true if this rectangle overlaps with another.
// Rectangles that only share an edge do not overlap.
func (r Rect) Intersects(other Rect) bool {
	if r.X >= other.Right() || other.X >= r.Right() {
		return false
	}
	if r.Y >= other.Bottom() || other.Y >= r.Bottom() {
		return false
	}
	return true
}

// Contains returns true if p lies inside the half-open rectangle [X, Right) × [Y, Bottom).
func (r Rect) Contains(p Vec) bool {
	return p.X >= r.X && p.X < r.Right() && p.Y >= r.Y && p.Y < r.Bottom()
}

// Interior returns true if p lies strictly inside the rectangle, not on its boundary.
func (r Rect) Interior(p Vec) bool {
	return p.X > r.X && p.X < r.Right() && p.Y > r.Y && p.Y < r.Bottom()
}

// Encloses returns true if p lies inside the closed rectangle.
func (r Rect) Encloses(p Vec) bool {
	return p.X >= r.X && p.X <= r.Right() && p.Y >= r.Y && p.Y <= r.Bottom()
}

// ContainsRect returns true if other lies entirely within r (edges may touch).
func (r Rect) ContainsRect(other Rect) bool {
	return other.X >= r.X && other.Y >= r.Y &&
		other.Right() <= r.Right() && other.Bottom() <= r.Bottom()
}

// Bound returns the minimal rectangle covering all rects.
// The zero Rect is returned for an empty slice.
func Bound(rects []Rect) Rect {
	if len(rects) == 0 {
		return Rect{}
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, r := range rects {
		minX = math.Min(minX, r.X)
		minY = math.Min(minY, r.Y)
		maxX = math.Max(maxX, r.Right())
		maxY = math.Max(maxY, r.Bottom())
	}
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// MergeRects greedily coalesces rectangles that share a full edge. One
// horizontal pass joins neighbours in the same row with equal height, then
// one vertical pass joins neighbours in the same column with equal width.
// The input slice is not modified.
func MergeRects(rects []Rect) []Rect {
	if len(rects) == 0 {
		return nil
	}
	out := make([]Rect, len(rects))
	copy(out, rects)

	// Horizontal pass: row-major order.
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Y != out[j].Y {
			return out[i].Y < out[j].Y
		}
		if out[i].H != out[j].H {
			return out[i].H < out[j].H
		}
		return out[i].X < out[j].X
	})
	out = mergeRun(out, func(cur, next Rect) bool {
		return nearly(cur.Y, next.Y) && nearly(cur.H, next.H) && nearly(cur.Right(), next.X)
	}, func(cur, next Rect) Rect {
		cur.W = next.Right() - cur.X
		return cur
	})

	// Vertical pass: column-major order.
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].X != out[j].X {
			return out[i].X < out[j].X
		}
		if out[i].W != out[j].W {
			return out[i].W < out[j].W
		}
		return out[i].Y < out[j].Y
	})
	out = mergeRun(out, func(cur, next Rect) bool {
		return nearly(cur.X, next.X) && nearly(cur.W, next.W) && nearly(cur.Bottom(), next.Y)
	}, func(cur, next Rect) Rect {
		cur.H = next.Bottom() - cur.Y
		return cur
	})

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Y != out[j].Y {
			return out[i].Y < out[j].Y
		}
		return out[i].X < out[j].X
	})
	return out
}

// mergeRun sweeps a sorted slice, joining consecutive rectangles while canJoin holds.
func mergeRun(sorted []Rect, canJoin func(cur, next Rect) bool, join func(cur, next Rect) Rect) []Rect {
	merged := make([]Rect, 0, len(sorted))
	cur := sorted[0]
	for _, next := range sorted[1:] {
		if canJoin(cur, next) {
			cur = join(cur, next)
			continue
		}
		merged = append(merged, cur)
		cur = next
	}
	return append(merged, cur)
}

const mergeTolerance = 1e-9

func nearly(a, b float64) bool {
	return math.Abs(a-b) <= mergeTolerance
}
