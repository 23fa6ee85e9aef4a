package navmesh

import (
	"cmp"
	"slices"

	"github.com/vovakirdan/tilenav/internal/geom"
	"github.com/vovakirdan/tilenav/internal/search"
)

// blockerSlack shrinks clearance-grown walls before the visibility test so
// edges running along a grown wall's boundary stay connected.
const blockerSlack = 1.0

// Options controls mesh construction.
type Options struct {
	// Bounds limits candidate nodes (closed rectangle). The zero Rect
	// means the bounding rectangle of the clearance-grown walls.
	Bounds geom.Rect
	// Clearance grows every wall before corners are taken.
	Clearance float64
	// Epsilon is the pruning tolerance: an edge is dropped when another
	// route is at most (1+Epsilon) times longer. Negative values mean 0.
	Epsilon float64
	// Seeds are extra nodes added after the wall corners.
	Seeds []geom.Vec
}

// Build constructs the visibility graph around walls and prunes redundant
// edges. The result is deterministic for a given input order.
func Build(walls []geom.Rect, opts Options) *Mesh {
	m := newMesh()
	if len(walls) == 0 {
		return m
	}

	grown := make([]geom.Rect, len(walls))
	for i, w := range walls {
		grown[i] = w.Offset(opts.Clearance)
	}

	bounds := opts.Bounds
	if bounds == (geom.Rect{}) {
		bounds = geom.Bound(grown)
	}

	for i, w := range grown {
		for _, c := range w.Corners() {
			if !bounds.Encloses(c) || insideOther(c, grown, i) {
				continue
			}
			m.addNode(geom.Round(c))
		}
	}
	for _, s := range opts.Seeds {
		m.addNode(geom.Round(s))
	}

	blockers := make([]geom.Rect, 0, len(grown))
	for _, w := range grown {
		if b := w.Offset(-blockerSlack); !b.IsEmpty() {
			blockers = append(blockers, b)
		}
	}

	for i := 0; i < len(m.nodes); i++ {
		for j := i + 1; j < len(m.nodes); j++ {
			if visible(m.nodes[i], m.nodes[j], blockers) {
				m.connect(i, j)
			}
		}
	}

	prune(m, max(opts.Epsilon, 0))
	return m
}

func insideOther(p geom.Vec, rects []geom.Rect, self int) bool {
	for i, r := range rects {
		if i != self && r.Interior(p) {
			return true
		}
	}
	return false
}

func visible(a, b geom.Vec, blockers []geom.Rect) bool {
	for _, r := range blockers {
		if geom.SegmentHitsRect(a, b, r) {
			return false
		}
	}
	return true
}

// prune removes edges, longest first, whenever the remaining graph still
// connects their endpoints within (1+eps) times the edge length.
func prune(m *Mesh, eps float64) {
	type pair struct {
		a, b int
		w    float64
	}

	var edges []pair
	for i, es := range m.adj {
		for _, e := range es {
			if i < e.to {
				edges = append(edges, pair{a: i, b: e.to, w: e.w})
			}
		}
	}
	slices.SortStableFunc(edges, func(x, y pair) int {
		return cmp.Compare(y.w, x.w)
	})

	for _, e := range edges {
		m.disconnect(e.a, e.b)
		cost, ok := shortest(m, e.a, e.b)
		if !ok || cost > (1+eps)*e.w {
			m.connect(e.a, e.b)
		}
	}
}

// shortest returns the cost of the cheapest route from a to b.
func shortest(m *Mesh, a, b int) (float64, bool) {
	target := m.nodes[b]
	res, err := search.AStar(a, 0, search.Problem[int]{
		Neighbors: m.neighborIndexes,
		Goal:      func(n int) bool { return n == b },
		Cost: func(x, y int) float64 {
			w, _ := m.weight(x, y)
			return w
		},
		Heuristic: func(n int) float64 { return geom.Dist(m.nodes[n], target) },
	})
	if err != nil {
		return 0, false
	}
	return res.Cost, true
}

func (m *Mesh) neighborIndexes(i int) []int {
	out := make([]int, len(m.adj[i]))
	for k, e := range m.adj[i] {
		out[k] = e.to
	}
	return out
}
