package geom

import (
	"math"
	"testing"
)

func TestRectIntersects(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Rect
		expected bool
	}{
		{
			name:     "overlapping rects",
			a:        NewRect(0, 0, 10, 10),
			b:        NewRect(5, 5, 10, 10),
			expected: true,
		},
		{
			name:     "non-overlapping horizontal",
			a:        NewRect(0, 0, 10, 10),
			b:        NewRect(15, 0, 10, 10),
			expected: false,
		},
		{
			name:     "adjacent horizontal (no overlap)",
			a:        NewRect(0, 0, 10, 10),
			b:        NewRect(10, 0, 10, 10),
			expected: false,
		},
		{
			name:     "adjacent vertical (no overlap)",
			a:        NewRect(0, 0, 10, 10),
			b:        NewRect(0, 10, 10, 10),
			expected: false,
		},
		{
			name:     "contained rect",
			a:        NewRect(0, 0, 20, 20),
			b:        NewRect(5, 5, 5, 5),
			expected: true,
		},
		{
			name:     "fractional overlap",
			a:        NewRect(0, 0, 10, 10),
			b:        NewRect(9.5, 9.5, 10, 10),
			expected: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Intersects(tc.b); got != tc.expected {
				t.Errorf("Intersects() = %v, expected %v", got, tc.expected)
			}
			if got := tc.b.Intersects(tc.a); got != tc.expected {
				t.Errorf("Intersects() (reversed) = %v, expected %v", got, tc.expected)
			}
		})
	}
}

func TestRectPointTests(t *testing.T) {
	r := NewRect(10, 10, 20, 15)

	tests := []struct {
		name                          string
		p                             Vec
		contains, interior, encloses bool
	}{
		{"inside", V(15, 15), true, true, true},
		{"top-left corner", V(10, 10), true, false, true},
		{"bottom-right corner", V(30, 25), false, false, true},
		{"right edge", V(30, 15), false, false, true},
		{"outside", V(5, 5), false, false, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := r.Contains(tc.p); got != tc.contains {
				t.Errorf("Contains(%v) = %v, expected %v", tc.p, got, tc.contains)
			}
			if got := r.Interior(tc.p); got != tc.interior {
				t.Errorf("Interior(%v) = %v, expected %v", tc.p, got, tc.interior)
			}
			if got := r.Encloses(tc.p); got != tc.encloses {
				t.Errorf("Encloses(%v) = %v, expected %v", tc.p, got, tc.encloses)
			}
		})
	}
}

func TestRectCornersAndOffset(t *testing.T) {
	r := NewRect(2, 3, 4, 5)

	want := [4]Vec{V(2, 3), V(6, 3), V(6, 8), V(2, 8)}
	if got := r.Corners(); got != want {
		t.Errorf("Corners() = %v, expected %v", got, want)
	}

	grown := r.Offset(1)
	if grown != NewRect(1, 2, 6, 7) {
		t.Errorf("Offset(1) = %v", grown)
	}
	if shrunk := grown.Offset(-1); shrunk != r {
		t.Errorf("Offset(-1) = %v, expected %v", shrunk, r)
	}
}

func TestBound(t *testing.T) {
	if got := Bound(nil); got != (Rect{}) {
		t.Errorf("Bound(nil) = %v, expected zero rect", got)
	}

	got := Bound([]Rect{NewRect(0, 0, 1, 1), NewRect(5, -2, 2, 3), NewRect(3, 3, 1, 1)})
	want := NewRect(0, -2, 7, 6)
	if got != want {
		t.Errorf("Bound() = %v, expected %v", got, want)
	}
}

func TestMergeRects(t *testing.T) {
	t.Run("shared vertical edge", func(t *testing.T) {
		got := MergeRects([]Rect{NewRect(1, 0, 1, 1), NewRect(0, 0, 1, 1)})
		if len(got) != 1 {
			t.Fatalf("expected 1 rect, got %d: %v", len(got), got)
		}
		if got[0] != NewRect(0, 0, 2, 1) {
			t.Errorf("merged = %v, expected double width", got[0])
		}
	})

	t.Run("disjoint rects keep area", func(t *testing.T) {
		in := []Rect{NewRect(0, 0, 2, 2), NewRect(5, 5, 1, 3)}
		got := MergeRects(in)
		if len(got) != 2 {
			t.Fatalf("expected 2 rects, got %d", len(got))
		}
		if area(got) != area(in) {
			t.Errorf("area = %v, expected %v", area(got), area(in))
		}
	})

	t.Run("block of four", func(t *testing.T) {
		in := []Rect{
			NewRect(0, 0, 1, 1), NewRect(1, 0, 1, 1),
			NewRect(0, 1, 1, 1), NewRect(1, 1, 1, 1),
		}
		got := MergeRects(in)
		if len(got) != 1 || got[0] != NewRect(0, 0, 2, 2) {
			t.Errorf("MergeRects() = %v, expected single 2x2 rect", got)
		}
	})

	t.Run("L shape", func(t *testing.T) {
		in := []Rect{NewRect(0, 0, 1, 1), NewRect(0, 1, 1, 1), NewRect(1, 1, 1, 1)}
		got := MergeRects(in)
		if math.Abs(area(got)-3) > 1e-9 {
			t.Errorf("area = %v, expected 3", area(got))
		}
		if len(got) != 2 {
			t.Errorf("expected 2 rects, got %v", got)
		}
	})

	t.Run("input untouched", func(t *testing.T) {
		in := []Rect{NewRect(1, 0, 1, 1), NewRect(0, 0, 1, 1)}
		MergeRects(in)
		if in[0] != NewRect(1, 0, 1, 1) {
			t.Errorf("input was modified: %v", in)
		}
	})
}

func area(rs []Rect) float64 {
	total := 0.0
	for _, r := range rs {
		total += r.Area()
	}
	return total
}
