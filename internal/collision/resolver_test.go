package collision_test

import (
	"testing"

	"github.com/vovakirdan/tilenav/internal/collision"
	"github.com/vovakirdan/tilenav/internal/geom"
)

type box struct{ r geom.Rect }

func (b *box) Box() geom.Rect       { return b.r }
func (b *box) Translate(d geom.Vec) { b.r = b.r.Translate(d) }

func TestMove(t *testing.T) {
	tests := []struct {
		name     string
		walls    []geom.Rect
		dx, dy   float64
		expected geom.Vec
	}{
		{
			name:     "free move",
			dx:       2,
			dy:       3,
			expected: geom.V(2, 3),
		},
		{
			name:     "horizontal neighbour blocked slides vertically",
			walls:    []geom.Rect{geom.NewRect(22, 0, 10, 30)},
			dx:       5,
			dy:       5,
			expected: geom.V(0, 5),
		},
		{
			name:     "vertical neighbour blocked keeps neither",
			walls:    []geom.Rect{geom.NewRect(0, 22, 30, 10)},
			dx:       5,
			dy:       5,
			expected: geom.Vec{},
		},
		{
			name:     "corner pocket",
			walls:    []geom.Rect{geom.NewRect(0, 0, 8, 40), geom.NewRect(0, 22, 40, 10)},
			dx:       -4,
			dy:       4,
			expected: geom.Vec{},
		},
		{
			name:     "touching is allowed",
			walls:    []geom.Rect{geom.NewRect(30, 0, 10, 30)},
			dx:       10,
			dy:       0,
			expected: geom.V(10, 0),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := &box{r: geom.NewRect(10, 10, 10, 10)}
			res := &collision.Resolver{
				Bounds: geom.NewRect(0, 0, 100, 100),
				Walls:  tc.walls,
				Bodies: []collision.Body{b},
			}

			got := res.Move(b, tc.dx, tc.dy)
			if got != tc.expected {
				t.Errorf("Move() = %v, expected %v", got, tc.expected)
			}
			want := geom.NewRect(10, 10, 10, 10).Translate(got)
			if b.Box() != want {
				t.Errorf("box = %v, expected %v", b.Box(), want)
			}
			if !res.Valid(b) {
				t.Error("body left in an invalid position")
			}
		})
	}
}

func TestValid(t *testing.T) {
	a := &box{r: geom.NewRect(10, 10, 10, 10)}
	b := &box{r: geom.NewRect(15, 15, 10, 10)}
	c := &box{r: geom.NewRect(20, 10, 10, 10)}
	res := &collision.Resolver{Bounds: geom.NewRect(0, 0, 50, 50), Bodies: []collision.Body{a, b, c}}

	if res.Valid(a) {
		t.Error("overlapping bodies reported valid")
	}

	res.Bodies = []collision.Body{a, c}
	if !res.Valid(a) {
		t.Error("bodies sharing an edge reported invalid")
	}

	out := &box{r: geom.NewRect(45, 45, 10, 10)}
	if res.Valid(out) {
		t.Error("body outside bounds reported valid")
	}
}
