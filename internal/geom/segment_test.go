package geom

import (
	"math"
	"testing"
)

func TestSegmentRect(t *testing.T) {
	r := NewRect(0, 1, 4, 1)

	t.Run("point above rect", func(t *testing.T) {
		if _, _, ok := SegmentRect(V(1, 0), V(1, 0), r); ok {
			t.Error("expected no intersection")
		}
	})

	t.Run("vertical crossing", func(t *testing.T) {
		h0, h1, ok := SegmentRect(V(1, 0), V(1, 4), r)
		if !ok {
			t.Fatal("expected intersection")
		}
		if h0.T > h1.T {
			t.Errorf("hits out of order: %v > %v", h0.T, h1.T)
		}
		if math.Abs(h0.P.Y-1) > 1e-9 || math.Abs(h1.P.Y-2) > 1e-9 {
			t.Errorf("hits at y=%v,%v, expected 1,2", h0.P.Y, h1.P.Y)
		}
		if math.Abs(h0.T-0.25) > 1e-9 || math.Abs(h1.T-0.5) > 1e-9 {
			t.Errorf("t = %v,%v, expected 0.25,0.5", h0.T, h1.T)
		}
	})

	tests := []struct {
		name   string
		p0, p1 Vec
		hit    bool
	}{
		{"parallel outside", V(-1, 0.5), V(5, 0.5), false},
		{"parallel inside", V(-1, 1.5), V(5, 1.5), true},
		{"stops short", V(1, -2), V(1, 0.9), false},
		{"starts inside", V(2, 1.5), V(10, 10), true},
		{"point inside", V(2, 1.5), V(2, 1.5), true},
		{"diagonal miss", V(5, 0), V(6, 3), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := SegmentHitsRect(tc.p0, tc.p1, r); got != tc.hit {
				t.Errorf("SegmentHitsRect(%v, %v) = %v, expected %v", tc.p0, tc.p1, got, tc.hit)
			}
		})
	}
}

func TestVecOps(t *testing.T) {
	a, b := V(3, 4), V(1, 1)

	if got := Add(a, b); got != V(4, 5) {
		t.Errorf("Add = %v", got)
	}
	if got := Sub(a, b); got != V(2, 3) {
		t.Errorf("Sub = %v", got)
	}
	if got := Len(a); got != 5 {
		t.Errorf("Len = %v", got)
	}
	if got := Normalize(Vec{}); !got.IsZero() {
		t.Errorf("Normalize(zero) = %v", got)
	}

	// Right (+x) rotated by +90° points down the screen (+y).
	r := Round(Scale(Rotate(V(1, 0), math.Pi/2), 10))
	if r != V(0, 10) {
		t.Errorf("Rotate = %v, expected (0, 10)", r)
	}
}
