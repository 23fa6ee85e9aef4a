package geom

// Hit is a point on a segment p0→p1 at parameter T in [0,1].
type Hit struct {
	T float64
	P Vec
}

// SegmentRect clips the segment p0→p1 against r using Liang–Barsky.
// On intersection it returns the entry and exit hits with t0 <= t1.
// A segment parallel to an edge and outside that edge never intersects.
// A zero-length segment behaves as a point test.
func SegmentRect(p0, p1 Vec, r Rect) (Hit, Hit, bool) {
	dx := p1.X - p0.X
	dy := p1.Y - p0.Y

	// p[i]*t <= q[i] for left, right, top, bottom half-planes.
	p := [4]float64{-dx, dx, -dy, dy}
	q := [4]float64{p0.X - r.X, r.Right() - p0.X, p0.Y - r.Y, r.Bottom() - p0.Y}

	t0, t1 := 0.0, 1.0
	for i := 0; i < 4; i++ {
		if p[i] == 0 {
			if q[i] < 0 {
				return Hit{}, Hit{}, false
			}
			continue
		}
		t := q[i] / p[i]
		if p[i] < 0 {
			if t > t1 {
				return Hit{}, Hit{}, false
			}
			if t > t0 {
				t0 = t
			}
		} else {
			if t < t0 {
				return Hit{}, Hit{}, false
			}
			if t < t1 {
				t1 = t
			}
		}
	}

	d := Vec{X: dx, Y: dy}
	return Hit{T: t0, P: Add(p0, Scale(d, t0))}, Hit{T: t1, P: Add(p0, Scale(d, t1))}, true
}

// SegmentHitsRect reports whether p0→p1 touches r at all.
func SegmentHitsRect(p0, p1 Vec, r Rect) bool {
	_, _, ok := SegmentRect(p0, p1, r)
	return ok
}
