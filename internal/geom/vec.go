// Package geom provides the geometry kernel used by navigation: vectors,
// axis-aligned rectangles, the occupancy grid and the segment tests built on
// them. Everything here is a pure function of its inputs.
package geom

import "math"

// Vec is an immutable 2D point or vector in pixel space.
type Vec struct {
	X, Y float64
}

// V creates a vector from its components.
func V(x, y float64) Vec {
	return Vec{X: x, Y: y}
}

// Add returns a + b.
func Add(a, b Vec) Vec {
	return Vec{X: a.X + b.X, Y: a.Y + b.Y}
}

// Sub returns a - b.
func Sub(a, b Vec) Vec {
	return Vec{X: a.X - b.X, Y: a.Y - b.Y}
}

// Scale returns v multiplied by s.
func Scale(v Vec, s float64) Vec {
	return Vec{X: v.X * s, Y: v.Y * s}
}

// Rotate rotates v by angle radians. With screen coordinates (y down) a
// positive angle turns clockwise.
func Rotate(v Vec, angle float64) Vec {
	sin, cos := math.Sincos(angle)
	return Vec{
		X: v.X*cos - v.Y*sin,
		Y: v.X*sin + v.Y*cos,
	}
}

// Len returns the Euclidean length of v.
func Len(v Vec) float64 {
	return math.Hypot(v.X, v.Y)
}

// Dist returns the Euclidean distance between a and b.
func Dist(a, b Vec) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// Normalize returns the unit vector of v, or the zero vector when v has no length.
func Normalize(v Vec) Vec {
	l := Len(v)
	if l == 0 {
		return Vec{}
	}
	return Vec{X: v.X / l, Y: v.Y / l}
}

// Round rounds both components to the nearest integer.
func Round(v Vec) Vec {
	return Vec{X: math.Round(v.X), Y: math.Round(v.Y)}
}

// IsZero reports whether v is the zero vector.
func (v Vec) IsZero() bool {
	return v.X == 0 && v.Y == 0
}
