// Package search implements a generic A*/Dijkstra primitive over a
// graph.Graph, reusable for both intra-cluster restricted searches and
// full abstract-graph queries.
package search

import (
	"math"

	"github.com/azybler/hpa/pkg/graph"
)

// CostFunc extracts the traversal cost of an edge.
type CostFunc[E any] func(e E) uint32

// HeuristicFunc estimates the remaining cost from id to the search goal. A
// nil HeuristicFunc degrades the search to plain Dijkstra.
type HeuristicFunc[ID ~uint32] func(id ID) uint32

// FilterFunc reports whether a node may be expanded. A nil FilterFunc
// admits every node; this is how intra-cluster searches stay inside a
// single cluster without building a separate subgraph.
type FilterFunc[ID ~uint32] func(id ID) bool

const noDist = math.MaxUint32

func noNode[ID ~uint32]() ID { return ID(math.MaxUint32) }

type pqItem[ID ~uint32] struct {
	node   ID
	fScore uint32
	h      uint32
}

// less reports whether a sorts before b: lower fScore first, ties broken
// on lower h, then lower node id.
func less[ID ~uint32](a, b pqItem[ID]) bool {
	if a.fScore != b.fScore {
		return a.fScore < b.fScore
	}
	if a.h != b.h {
		return a.h < b.h
	}
	return a.node < b.node
}

// minHeap is a concrete-typed min-heap keyed on fScore, avoiding the
// interface boxing of container/heap. Ties break on lower h, then lower
// node id, for deterministic path selection among equal-cost candidates.
type minHeap[ID ~uint32] struct {
	items []pqItem[ID]
}

func (h *minHeap[ID]) Len() int { return len(h.items) }

func (h *minHeap[ID]) Push(node ID, fScore, hVal uint32) {
	h.items = append(h.items, pqItem[ID]{node, fScore, hVal})
	h.siftUp(len(h.items) - 1)
}

func (h *minHeap[ID]) Pop() pqItem[ID] {
	n := len(h.items)
	item := h.items[0]
	h.items[0] = h.items[n-1]
	h.items = h.items[:n-1]
	if len(h.items) > 0 {
		h.siftDown(0)
	}
	return item
}

func (h *minHeap[ID]) Reset() { h.items = h.items[:0] }

func (h *minHeap[ID]) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !less(h.items[i], h.items[parent]) {
			break
		}
		h.items[i], h.items[parent] = h.items[parent], h.items[i]
		i = parent
	}
}

func (h *minHeap[ID]) siftDown(i int) {
	n := len(h.items)
	for {
		smallest := i
		left := 2*i + 1
		right := 2*i + 2
		if left < n && less(h.items[left], h.items[smallest]) {
			smallest = left
		}
		if right < n && less(h.items[right], h.items[smallest]) {
			smallest = right
		}
		if smallest == i {
			break
		}
		h.items[i], h.items[smallest] = h.items[smallest], h.items[i]
		i = smallest
	}
}

// State holds per-query scratch space, reusable across many searches over
// the same graph via Reset, which only clears the nodes actually touched.
type State[ID ~uint32] struct {
	dist    []uint32
	pred    []ID
	touched []ID
	pq      minHeap[ID]
}

// NewState allocates scratch space sized for a graph with n nodes.
func NewState[ID ~uint32](n uint32) *State[ID] {
	s := &State[ID]{
		dist:    make([]uint32, n),
		pred:    make([]ID, n),
		touched: make([]ID, 0, 64),
	}
	s.clearAll()
	return s
}

func (s *State[ID]) clearAll() {
	none := noNode[ID]()
	for i := range s.dist {
		s.dist[i] = noDist
		s.pred[i] = none
	}
}

// Reset clears only the entries touched by the previous search.
func (s *State[ID]) Reset() {
	none := noNode[ID]()
	for _, n := range s.touched {
		s.dist[n] = noDist
		s.pred[n] = none
	}
	s.touched = s.touched[:0]
	s.pq.Reset()
}

func (s *State[ID]) touch(id ID, dist uint32, pred ID) {
	if s.dist[id] == noDist {
		s.touched = append(s.touched, id)
	}
	s.dist[id] = dist
	s.pred[id] = pred
}

// Run searches from start to goal and returns the path (inclusive of both
// endpoints) and its total cost. found is false if goal is unreachable,
// which is not an error: absence of a path is a normal outcome.
//
// h may be nil for plain Dijkstra. filter may be nil to admit every node.
// The caller must call s.Reset() when done, whether or not a path was
// found, to reuse State for the next search.
func Run[ID ~uint32, N any, E any](
	g *graph.Graph[ID, N, E],
	s *State[ID],
	start, goal ID,
	cost CostFunc[E],
	h HeuristicFunc[ID],
	filter FilterFunc[ID],
) (path []ID, totalCost uint32, found bool) {
	if len(s.dist) < g.Len() {
		// caller grew the graph since NewState; this search cannot be
		// trusted to cover the new nodes.
		panic("search: State undersized for graph")
	}

	estimate := func(id ID) uint32 {
		if h == nil {
			return 0
		}
		return h(id)
	}

	s.touch(start, 0, noNode[ID]())
	s.pq.Push(start, estimate(start), estimate(start))

	for s.pq.Len() > 0 {
		top := s.pq.Pop()
		cur := top.node
		curDist := s.dist[cur]

		// Stale heap entry: cur was already re-pushed with a better
		// distance after this entry was queued.
		if top.fScore != curDist+estimate(cur) {
			continue
		}

		if cur == goal {
			return reconstruct(s, start, goal), curDist, true
		}

		for _, e := range g.Edges(cur) {
			if filter != nil && !filter(e.Target) {
				continue
			}
			next := curDist + cost(e.Info)
			if next < s.dist[e.Target] {
				s.touch(e.Target, next, cur)
				hVal := estimate(e.Target)
				s.pq.Push(e.Target, next+hVal, hVal)
			}
		}
	}

	return nil, 0, false
}

func reconstruct[ID ~uint32](s *State[ID], start, goal ID) []ID {
	var path []ID
	none := noNode[ID]()
	for cur := goal; ; {
		path = append(path, cur)
		if cur == start {
			break
		}
		cur = s.pred[cur]
		if cur == none {
			break
		}
	}
	// reverse in place
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
