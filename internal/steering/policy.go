package steering

import (
	"math"

	"github.com/vovakirdan/tilenav/internal/geom"
)

// angleEpsilon absorbs float error when the angle relaxes back to zero.
const angleEpsilon = 1e-9

// Hits records which vision-cone rays touched another agent.
type Hits struct {
	Left, Centre, Right bool
}

// Any reports whether at least one ray hit.
func (h Hits) Any() bool {
	return h.Left || h.Centre || h.Right
}

// nextAngle applies the avoidance policy. Positive angles turn right.
// coin is consulted only when the policy needs a random direction.
func nextAngle(angle float64, h Hits, p Params, coin func() bool) float64 {
	u := p.TurnUnit
	sign := func() float64 {
		if coin() {
			return 1
		}
		return -1
	}

	switch {
	case !h.Any():
		return relax(angle, p.Decay)
	case h.Left && h.Centre && h.Right:
		angle += sign() * 3 * u
	case h.Centre && h.Right:
		angle -= 2 * u
	case h.Centre && h.Left:
		angle += 2 * u
	case h.Centre:
		angle += sign() * u
	case h.Left && h.Right:
		// Passing between two agents: hold course.
	case h.Left:
		angle += u
	case h.Right:
		angle -= u
	}
	return clamp(angle, -p.MaxAngle, p.MaxAngle)
}

// relax moves angle toward zero by decay without overshooting.
func relax(angle, decay float64) float64 {
	if math.Abs(angle) <= decay+angleEpsilon {
		return 0
	}
	if angle > 0 {
		return angle - decay
	}
	return angle + decay
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// castRays tests the three cone rays from the agent's centre against the
// boxes of the other agents.
func castRays(a *Agent, heading geom.Vec, others []*Agent, p Params) Hits {
	origin := a.Pos
	ray := func(angle float64) geom.Vec {
		return geom.Add(origin, geom.Scale(geom.Rotate(heading, angle), p.RayLength))
	}
	left, centre, right := ray(-p.ConeAngle/2), ray(0), ray(p.ConeAngle/2)

	var h Hits
	for _, o := range others {
		if o == a {
			continue
		}
		box := o.Box()
		h.Left = h.Left || geom.SegmentHitsRect(origin, left, box)
		h.Centre = h.Centre || geom.SegmentHitsRect(origin, centre, box)
		h.Right = h.Right || geom.SegmentHitsRect(origin, right, box)
	}
	return h
}
