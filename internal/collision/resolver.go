// Package collision keeps moving bodies inside the level and out of walls
// and each other.
package collision

import "github.com/vovakirdan/tilenav/internal/geom"

// Body is anything with a box that the resolver can move.
type Body interface {
	Box() geom.Rect
	Translate(d geom.Vec)
}

// Resolver validates and corrects body movement. Bodies are compared by
// identity, so a body never collides with itself.
type Resolver struct {
	Bounds geom.Rect
	Walls  []geom.Rect
	Bodies []Body
}

// Valid reports whether b lies inside the bounds and overlaps neither a
// wall nor another body. Touching edges are not overlaps.
func (r *Resolver) Valid(b Body) bool {
	box := b.Box()
	if !r.Bounds.ContainsRect(box) {
		return false
	}
	for _, w := range r.Walls {
		if box.Intersects(w) {
			return false
		}
	}
	for _, other := range r.Bodies {
		if other == b {
			continue
		}
		if box.Intersects(other.Box()) {
			return false
		}
	}
	return true
}

// Move translates b by (dx, dy). If the result is invalid the horizontal
// component is undone; if it is still invalid the vertical one is undone
// too. The displacement actually applied is returned.
func (r *Resolver) Move(b Body, dx, dy float64) geom.Vec {
	b.Translate(geom.V(dx, dy))
	if r.Valid(b) {
		return geom.V(dx, dy)
	}

	b.Translate(geom.V(-dx, 0))
	if r.Valid(b) {
		return geom.V(0, dy)
	}

	b.Translate(geom.V(0, -dy))
	return geom.Vec{}
}
