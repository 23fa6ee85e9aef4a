package navmesh

import (
	"fmt"

	"github.com/vovakirdan/tilenav/internal/geom"
	"github.com/vovakirdan/tilenav/internal/search"
)

// FindPath plans a route from start to end. When the straight segment is
// clear of grid walls the result is just [end]. Otherwise start and end are
// linked to every node they can see on a private copy of mesh and the
// cheapest route is searched; the waypoints after start are returned.
// The returned error wraps search.ErrNoPath when no route exists.
func FindPath(start, end geom.Vec, mesh *Mesh, grid *geom.Grid, tileSize float64) ([]geom.Vec, error) {
	return findPath(start, end, mesh, gridSight(grid, tileSize), nil)
}

// sight reports whether the segment a→b is walkable.
type sight func(a, b geom.Vec) bool

func gridSight(grid *geom.Grid, tileSize float64) sight {
	return func(a, b geom.Vec) bool {
		return !geom.SegmentGrid(a, b, grid, tileSize)
	}
}

// findPath is FindPath with pluggable visibility. clear decides which nodes
// an endpoint may link to. When strict is set, segments must also pass it;
// an endpoint strict sees no node from falls back to clear alone.
func findPath(start, end geom.Vec, mesh *Mesh, clear, strict sight) ([]geom.Vec, error) {
	if clear(start, end) && (strict == nil || strict(start, end)) {
		return []geom.Vec{end}, nil
	}
	if mesh.Len() == 0 {
		return nil, fmt.Errorf("navmesh: %v -> %v: %w", start, end, search.ErrNoPath)
	}

	m := mesh.clone()
	s := attach(m, start, clear, strict)
	e := s
	if start != end {
		e = attach(m, end, clear, strict)
	}

	res, err := search.AStar(s, 0, search.Problem[int]{
		Neighbors: m.neighborIndexes,
		Goal:      func(n int) bool { return n == e },
		Cost: func(a, b int) float64 {
			w, _ := m.weight(a, b)
			return w
		},
		Heuristic: func(n int) float64 { return geom.Dist(m.nodes[n], end) },
	})
	if err != nil {
		return nil, fmt.Errorf("navmesh: %v -> %v: %w", start, end, err)
	}

	path := make([]geom.Vec, 0, len(res.Path)-1)
	for _, n := range res.Path[1:] {
		path = append(path, m.nodes[n])
	}
	return path, nil
}

// attach adds p to m, if it is not a node already, linked to every node it
// can see.
func attach(m *Mesh, p geom.Vec, clear, strict sight) int {
	if i, ok := m.index[p]; ok {
		return i
	}
	i := m.addNode(p)

	var seen []int
	for j := 0; j < i; j++ {
		if clear(p, m.nodes[j]) {
			seen = append(seen, j)
		}
	}
	linked := 0
	if strict != nil {
		for _, j := range seen {
			if strict(p, m.nodes[j]) {
				m.connect(i, j)
				linked++
			}
		}
	}
	if linked == 0 {
		for _, j := range seen {
			m.connect(i, j)
		}
	}
	return i
}

// Navigator bundles the read-only navigation data of one level.
// With Walls set, start and goal only link to nodes an agent can reach
// without coming closer to a wall than Clearance (or than it already is).
type Navigator struct {
	Mesh      *Mesh
	Grid      *geom.Grid
	TileSize  float64
	Walls     []geom.Rect
	Clearance float64
}

// PlanPath returns the waypoints from start to goal, excluding start.
func (n *Navigator) PlanPath(start, goal geom.Vec) ([]geom.Vec, error) {
	var strict sight
	if len(n.Walls) > 0 && n.Clearance > 0 {
		strict = n.keepsClearance
	}
	return findPath(start, goal, n.Mesh, gridSight(n.Grid, n.TileSize), strict)
}

// LineBlocked reports whether the segment a→b crosses a wall cell.
func (n *Navigator) LineBlocked(a, b geom.Vec) bool {
	return geom.SegmentGrid(a, b, n.Grid, n.TileSize)
}

// endpointSlack keeps a segment leaving a point at distance d from a wall
// clear of that wall grown by d itself.
const endpointSlack = 1e-6

// keepsClearance tests a→b against every wall grown by Clearance, shrunk
// like the mesh blockers. A wall an endpoint is already closer to is grown
// only by that distance.
func (n *Navigator) keepsClearance(a, b geom.Vec) bool {
	for _, w := range n.Walls {
		margin := n.Clearance - blockerSlack
		if d := min(boxDist(a, w), boxDist(b, w)); d < n.Clearance {
			margin = min(margin, d-endpointSlack)
		}
		if margin <= 0 {
			continue
		}
		if geom.SegmentHitsRect(a, b, w.Offset(margin)) {
			return false
		}
	}
	return true
}

// boxDist is the Chebyshev distance from p to r, 0 inside r. The set of
// points within d of r is exactly r.Offset(d).
func boxDist(p geom.Vec, r geom.Rect) float64 {
	dx := max(r.X-p.X, p.X-r.Right(), 0)
	dy := max(r.Y-p.Y, p.Y-r.Bottom(), 0)
	return max(dx, dy)
}
