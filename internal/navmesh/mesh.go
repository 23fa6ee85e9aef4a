// Package navmesh builds and queries a sparse visibility graph over the free
// space of a level. A Mesh is built once per level, never mutated afterwards
// and safe to share between goroutines; path queries work on a private clone.
package navmesh

import (
	"github.com/vovakirdan/tilenav/internal/geom"
)

type edge struct {
	to int
	w  float64
}

// Mesh is an undirected weighted graph of navigation nodes. Nodes keep their
// insertion order and every adjacency list keeps the order edges were added.
type Mesh struct {
	nodes []geom.Vec
	index map[geom.Vec]int
	adj   [][]edge
}

func newMesh() *Mesh {
	return &Mesh{index: make(map[geom.Vec]int)}
}

// Len returns the number of nodes.
func (m *Mesh) Len() int {
	if m == nil {
		return 0
	}
	return len(m.nodes)
}

// EdgeCount returns the number of undirected edges.
func (m *Mesh) EdgeCount() int {
	if m == nil {
		return 0
	}
	n := 0
	for _, es := range m.adj {
		n += len(es)
	}
	return n / 2
}

// Nodes returns a copy of the node list in insertion order.
func (m *Mesh) Nodes() []geom.Vec {
	if m == nil {
		return nil
	}
	out := make([]geom.Vec, len(m.nodes))
	copy(out, m.nodes)
	return out
}

// Has reports whether p is a node.
func (m *Mesh) Has(p geom.Vec) bool {
	if m == nil {
		return false
	}
	_, ok := m.index[p]
	return ok
}

// Neighbors returns the nodes adjacent to p in insertion order.
func (m *Mesh) Neighbors(p geom.Vec) []geom.Vec {
	if m == nil {
		return nil
	}
	i, ok := m.index[p]
	if !ok {
		return nil
	}
	out := make([]geom.Vec, 0, len(m.adj[i]))
	for _, e := range m.adj[i] {
		out = append(out, m.nodes[e.to])
	}
	return out
}

// Weight returns the weight of edge a–b.
func (m *Mesh) Weight(a, b geom.Vec) (float64, bool) {
	if m == nil {
		return 0, false
	}
	i, ok := m.index[a]
	if !ok {
		return 0, false
	}
	j, ok := m.index[b]
	if !ok {
		return 0, false
	}
	return m.weight(i, j)
}

// Edges returns every undirected edge once, ordered by its first endpoint.
func (m *Mesh) Edges() [][2]geom.Vec {
	if m == nil {
		return nil
	}
	var out [][2]geom.Vec
	for i, es := range m.adj {
		for _, e := range es {
			if i < e.to {
				out = append(out, [2]geom.Vec{m.nodes[i], m.nodes[e.to]})
			}
		}
	}
	return out
}

func (m *Mesh) weight(i, j int) (float64, bool) {
	for _, e := range m.adj[i] {
		if e.to == j {
			return e.w, true
		}
	}
	return 0, false
}

// addNode inserts p unless it is already a node and returns its index.
func (m *Mesh) addNode(p geom.Vec) int {
	if i, ok := m.index[p]; ok {
		return i
	}
	i := len(m.nodes)
	m.nodes = append(m.nodes, p)
	m.adj = append(m.adj, nil)
	m.index[p] = i
	return i
}

// connect adds the edge i–j in both directions with Euclidean weight.
func (m *Mesh) connect(i, j int) {
	if i == j {
		return
	}
	if _, ok := m.weight(i, j); ok {
		return
	}
	w := geom.Dist(m.nodes[i], m.nodes[j])
	m.adj[i] = append(m.adj[i], edge{to: j, w: w})
	m.adj[j] = append(m.adj[j], edge{to: i, w: w})
}

func (m *Mesh) disconnect(i, j int) {
	m.adj[i] = removeEdge(m.adj[i], j)
	m.adj[j] = removeEdge(m.adj[j], i)
}

func removeEdge(es []edge, to int) []edge {
	for k, e := range es {
		if e.to == to {
			return append(es[:k:k], es[k+1:]...)
		}
	}
	return es
}

// clone returns a deep copy that can be augmented without touching m.
func (m *Mesh) clone() *Mesh {
	c := &Mesh{
		nodes: make([]geom.Vec, len(m.nodes), len(m.nodes)+2),
		index: make(map[geom.Vec]int, len(m.index)+2),
		adj:   make([][]edge, len(m.adj), len(m.adj)+2),
	}
	copy(c.nodes, m.nodes)
	for k, v := range m.index {
		c.index[k] = v
	}
	for i, es := range m.adj {
		c.adj[i] = append([]edge(nil), es...)
	}
	return c
}

// Snapshot is the serializable form of a Mesh. Adj[i] lists the neighbour
// indexes of Nodes[i] in insertion order; weights are recomputed on load.
type Snapshot struct {
	Nodes []geom.Vec `msgpack:"nodes" yaml:"nodes"`
	Adj   [][]int    `msgpack:"adj" yaml:"adj"`
}

// Snapshot returns the serializable form of m.
func (m *Mesh) Snapshot() Snapshot {
	s := Snapshot{Nodes: m.Nodes(), Adj: make([][]int, m.Len())}
	for i := 0; i < m.Len(); i++ {
		s.Adj[i] = make([]int, 0, len(m.adj[i]))
		for _, e := range m.adj[i] {
			s.Adj[i] = append(s.Adj[i], e.to)
		}
	}
	return s
}

// FromSnapshot rebuilds a Mesh. Out-of-range neighbour indexes are ignored.
func FromSnapshot(s Snapshot) *Mesh {
	m := newMesh()
	for _, p := range s.Nodes {
		m.addNode(p)
	}
	for i, ns := range s.Adj {
		if i >= len(m.nodes) {
			break
		}
		for _, j := range ns {
			if j < 0 || j >= len(m.nodes) || j == i {
				continue
			}
			m.adj[i] = append(m.adj[i], edge{to: j, w: geom.Dist(m.nodes[i], m.nodes[j])})
		}
	}
	return m
}
