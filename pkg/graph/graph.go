// Package graph provides the generic node/edge container shared by the
// concrete tile graph and the abstract cluster graph. Storage is a dense,
// contiguous slice indexed by id with edges inline per node, cache-friendly
// for traversal and cheap to roll back a query's worth of temporary
// mutations from the tail.
//
// Ids are phantom-typed via the ID type parameter so a concrete-graph id
// and an abstract-graph id are distinct Go types even though both are
// backed by uint32 — passing one where the other is expected is a compile
// error, not a runtime bug.
package graph

import "github.com/azybler/hpa/pkg/hpaerr"

// Edge is a directed edge stored inline with its source node.
type Edge[ID ~uint32, E any] struct {
	Target ID
	Info   E
}

// Graph is a typed, dense adjacency-list container.
type Graph[ID ~uint32, N any, E any] struct {
	nodes []N
	edges [][]Edge[ID, E]
}

// New creates an empty graph, optionally pre-sized for n nodes.
func New[ID ~uint32, N any, E any](capacity int) *Graph[ID, N, E] {
	return &Graph[ID, N, E]{
		nodes: make([]N, 0, capacity),
		edges: make([][]Edge[ID, E], 0, capacity),
	}
}

// Len returns the number of nodes currently stored.
func (g *Graph[ID, N, E]) Len() int { return len(g.nodes) }

// AddNode appends a node at id == Len(), or replaces an existing node's
// info (and keeps its edges) when id < Len(). Any other id is a
// programming error.
func (g *Graph[ID, N, E]) AddNode(id ID, info N) {
	switch {
	case int(id) == len(g.nodes):
		g.nodes = append(g.nodes, info)
		g.edges = append(g.edges, nil)
	case int(id) < len(g.nodes):
		g.nodes[id] = info
	default:
		hpaerr.Violate("AddNode: id %d out of range (len=%d)", id, len(g.nodes))
	}
}

// AddEdge appends a directed edge from src to dst. No duplicate
// suppression — callers that care about parallel edges must check first.
func (g *Graph[ID, N, E]) AddEdge(src, dst ID, info E) {
	if int(src) >= len(g.nodes) {
		hpaerr.Violate("AddEdge: source id %d out of range (len=%d)", src, len(g.nodes))
	}
	if int(dst) >= len(g.nodes) {
		hpaerr.Violate("AddEdge: target id %d out of range (len=%d)", dst, len(g.nodes))
	}
	g.edges[src] = append(g.edges[src], Edge[ID, E]{Target: dst, Info: info})
}

// RemoveLastNode pops the highest-id node and its outgoing edges. It does
// NOT remove edges that other nodes hold pointing at it — callers that
// inserted such edges must remove them first (see RemoveEdge), which is
// exactly the LIFO discipline query-time rollback follows.
func (g *Graph[ID, N, E]) RemoveLastNode() {
	n := len(g.nodes)
	if n == 0 {
		hpaerr.Violate("RemoveLastNode: graph is empty")
	}
	g.nodes = g.nodes[:n-1]
	g.edges = g.edges[:n-1]
}

// RemoveEdgesFrom discards all outgoing edges of id without removing the
// node itself.
func (g *Graph[ID, N, E]) RemoveEdgesFrom(id ID) {
	if int(id) >= len(g.nodes) {
		hpaerr.Violate("RemoveEdgesFrom: id %d out of range (len=%d)", id, len(g.nodes))
	}
	g.edges[id] = g.edges[id][:0]
}

// RemoveEdge removes the most recently added edge from src to dst. Returns
// false if no such edge exists. Removing the most recent match (rather
// than the first) matches query-time rollback, which only ever needs to
// undo edges it itself just appended.
func (g *Graph[ID, N, E]) RemoveEdge(src, dst ID) bool {
	if int(src) >= len(g.nodes) {
		hpaerr.Violate("RemoveEdge: source id %d out of range (len=%d)", src, len(g.nodes))
	}
	list := g.edges[src]
	for i := len(list) - 1; i >= 0; i-- {
		if list[i].Target == dst {
			list[i] = list[len(list)-1]
			g.edges[src] = list[:len(list)-1]
			return true
		}
	}
	return false
}

// NodeInfo returns the payload stored at id.
func (g *Graph[ID, N, E]) NodeInfo(id ID) N {
	if int(id) >= len(g.nodes) {
		hpaerr.Violate("NodeInfo: id %d out of range (len=%d)", id, len(g.nodes))
	}
	return g.nodes[id]
}

// SetNodeInfo replaces the payload stored at id in place, keeping edges.
func (g *Graph[ID, N, E]) SetNodeInfo(id ID, info N) {
	if int(id) >= len(g.nodes) {
		hpaerr.Violate("SetNodeInfo: id %d out of range (len=%d)", id, len(g.nodes))
	}
	g.nodes[id] = info
}

// Edges returns the outgoing edge list of id. The returned slice aliases
// internal storage and must not be mutated by the caller.
func (g *Graph[ID, N, E]) Edges(id ID) []Edge[ID, E] {
	if int(id) >= len(g.nodes) {
		hpaerr.Violate("Edges: id %d out of range (len=%d)", id, len(g.nodes))
	}
	return g.edges[id]
}

// Watermark returns the current node count, to be passed to TruncateTo for
// a later bulk rollback of every node appended since.
func (g *Graph[ID, N, E]) Watermark() int { return len(g.nodes) }

// TruncateTo pops every node (and its edges) appended since watermark n.
func (g *Graph[ID, N, E]) TruncateTo(n int) {
	if n > len(g.nodes) {
		hpaerr.Violate("TruncateTo: watermark %d exceeds length %d", n, len(g.nodes))
	}
	g.nodes = g.nodes[:n]
	g.edges = g.edges[:n]
}

// EdgeWatermark returns the current out-degree of id, to be passed to
// TruncateEdgesTo for a later bulk rollback of edges appended to id since.
func (g *Graph[ID, N, E]) EdgeWatermark(id ID) int {
	if int(id) >= len(g.nodes) {
		hpaerr.Violate("EdgeWatermark: id %d out of range (len=%d)", id, len(g.nodes))
	}
	return len(g.edges[id])
}

// TruncateEdgesTo pops every edge appended to id's out-list since watermark n.
func (g *Graph[ID, N, E]) TruncateEdgesTo(id ID, n int) {
	if int(id) >= len(g.nodes) {
		hpaerr.Violate("TruncateEdgesTo: id %d out of range (len=%d)", id, len(g.nodes))
	}
	if n > len(g.edges[id]) {
		hpaerr.Violate("TruncateEdgesTo: watermark %d exceeds out-degree %d", n, len(g.edges[id]))
	}
	g.edges[id] = g.edges[id][:n]
}
