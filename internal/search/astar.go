// Package search implements a generic best-first (A*) search over a graph
// described entirely by caller-supplied functions.
package search

import (
	"container/heap"
	"errors"
)

// ErrNoPath is returned when the frontier is exhausted without reaching a goal.
var ErrNoPath = errors.New("search: no path found")

// Problem describes the graph to search.
//
// Neighbors must not return a node connected to itself with zero cost, and
// Heuristic must never overestimate the remaining cost; otherwise the
// returned path is not guaranteed to be the cheapest.
type Problem[N comparable] struct {
	// Neighbors lists the nodes reachable from n. Required.
	Neighbors func(n N) []N
	// Goal reports whether n ends the search. Required.
	Goal func(n N) bool
	// Cost is the cost of the edge a→b. Nil means 1 per edge.
	Cost func(a, b N) float64
	// Heuristic estimates the remaining cost from n. Nil means 0.
	Heuristic func(n N) float64
}

// Result is a found path, from start to the first goal node inclusive.
type Result[N comparable] struct {
	Path []N
	Cost float64
}

// AStar searches from start. The total cost of the result includes initialCost.
// Nodes with equal priority are expanded in the order they were discovered.
func AStar[N comparable](start N, initialCost float64, p Problem[N]) (Result[N], error) {
	cost := p.Cost
	if cost == nil {
		cost = func(N, N) float64 { return 1 }
	}
	h := p.Heuristic
	if h == nil {
		h = func(N) float64 { return 0 }
	}

	open := &openSet[N]{}
	heap.Init(open)

	cameFrom := make(map[N]N)
	gScore := map[N]float64{start: initialCost}
	closed := make(map[N]bool)

	var seq uint64
	heap.Push(open, &openItem[N]{node: start, f: initialCost + h(start), g: initialCost, seq: seq})

	for open.Len() > 0 {
		current := heap.Pop(open).(*openItem[N])
		cur := current.node

		// Stale entry: a cheaper route to cur was pushed after this one.
		if closed[cur] || current.g > gScore[cur] {
			continue
		}
		closed[cur] = true

		if p.Goal(cur) {
			return Result[N]{Path: reconstruct(cameFrom, start, cur), Cost: current.g}, nil
		}

		for _, n := range p.Neighbors(cur) {
			if closed[n] {
				continue
			}
			tentativeG := current.g + cost(cur, n)
			if g, seen := gScore[n]; seen && tentativeG >= g {
				continue
			}
			cameFrom[n] = cur
			gScore[n] = tentativeG
			seq++
			heap.Push(open, &openItem[N]{node: n, f: tentativeG + h(n), g: tentativeG, seq: seq})
		}
	}

	return Result[N]{}, ErrNoPath
}

func reconstruct[N comparable](cameFrom map[N]N, start, goal N) []N {
	path := []N{goal}
	for cur := goal; cur != start; {
		cur = cameFrom[cur]
		path = append(path, cur)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

type openItem[N comparable] struct {
	node  N
	f     float64
	g     float64
	seq   uint64
	index int
}

type openSet[N comparable] []*openItem[N]

func (o openSet[N]) Len() int { return len(o) }
func (o openSet[N]) Less(i, j int) bool {
	if o[i].f != o[j].f {
		return o[i].f < o[j].f
	}
	return o[i].seq < o[j].seq
}
func (o openSet[N]) Swap(i, j int) {
	o[i], o[j] = o[j], o[i]
	o[i].index = i
	o[j].index = j
}
func (o *openSet[N]) Push(x any) {
	item := x.(*openItem[N])
	item.index = len(*o)
	*o = append(*o, item)
}
func (o *openSet[N]) Pop() any {
	old := *o
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*o = old[:n-1]
	return item
}
