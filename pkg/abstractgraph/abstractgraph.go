// Package abstractgraph builds the transition-node graph that hierarchical
// queries search over: one AbstractNode per entrance side, an Inter-edge
// per entrance, and an Intra-edge for every pair of transition nodes that
// share a cluster and a concrete path.
package abstractgraph

import (
	"github.com/azybler/hpa/pkg/cluster"
	"github.com/azybler/hpa/pkg/concrete"
	"github.com/azybler/hpa/pkg/entrance"
	"github.com/azybler/hpa/pkg/geom"
	"github.com/azybler/hpa/pkg/graph"
	"github.com/azybler/hpa/pkg/hpaerr"
	"github.com/azybler/hpa/pkg/search"
)

// NodeID identifies an AbstractNode. Distinct from concrete.NodeID even
// though both are backed by uint32.
type NodeID uint32

// Kind distinguishes an AbstractEdge that crosses an entrance (Inter) from
// one that represents a cached shortest path inside a cluster (Intra).
type Kind int

const (
	Inter Kind = iota
	Intra
)

// Node is a transition point bound to one concrete tile.
type Node struct {
	ClusterID  uint32
	Level      int
	ConcreteID concrete.NodeID
	Position   geom.Position
}

// EdgeInfo is the payload of an AbstractEdge.
type EdgeInfo struct {
	Cost uint32
	Kind Kind
	// Path is the cached concrete route for an Intra edge, endpoints
	// inclusive. Nil for Inter edges, whose refinement is just the two
	// concrete endpoints.
	Path []concrete.NodeID
}

// Graph is the abstract transition-node graph for one concrete map.
type Graph struct {
	*graph.Graph[NodeID, Node, EdgeInfo]

	// byConcrete coalesces entrance sides that land on the same concrete
	// tile (a corner where two entrance runs touch) to a single
	// AbstractNode. A concrete tile belongs to exactly one cluster by
	// construction, so keying on concrete id alone is equivalent to the
	// (clusterId, concreteId) pair the design calls for.
	byConcrete map[concrete.NodeID]NodeID
}

// Build runs C5: node creation, Inter-edges for every entrance, and
// Intra-edges for every reachable pair of transition nodes sharing a
// cluster.
func Build(cg *concrete.Graph, d *cluster.Decomposition, entrances []entrance.Entrance, level int) (*Graph, error) {
	if level < 1 {
		return nil, hpaerr.NewInvalidArgument("level must be >= 1, got %d", level)
	}

	ag := &Graph{
		Graph:      graph.New[NodeID, Node, EdgeInfo](2 * len(entrances)),
		byConcrete: make(map[concrete.NodeID]NodeID, 2*len(entrances)),
	}

	getOrCreate := func(cid concrete.NodeID) NodeID {
		if id, ok := ag.byConcrete[cid]; ok {
			return id
		}
		pos := cg.NodeInfo(cid).Position
		id := NodeID(ag.Len())
		ag.AddNode(id, Node{
			ClusterID:  d.IDAt(pos.X, pos.Y),
			Level:      level,
			ConcreteID: cid,
			Position:   pos,
		})
		ag.byConcrete[cid] = id
		return id
	}

	for _, e := range entrances {
		a := getOrCreate(e.ConcreteA)
		b := getOrCreate(e.ConcreteB)
		cost := concreteEdgeCost(cg, e.ConcreteA, e.ConcreteB)
		ag.AddEdge(a, b, EdgeInfo{Cost: cost, Kind: Inter})
		ag.AddEdge(b, a, EdgeInfo{Cost: cost, Kind: Inter})
	}

	byCluster := make(map[uint32][]NodeID)
	for id := NodeID(0); int(id) < ag.Len(); id++ {
		n := ag.NodeInfo(id)
		byCluster[n.ClusterID] = append(byCluster[n.ClusterID], id)
	}

	state := search.NewState[concrete.NodeID](uint32(cg.Len()))

	for _, members := range byCluster {
		if len(members) < 2 {
			continue
		}
		clusterID := ag.NodeInfo(members[0]).ClusterID
		for i := 0; i < len(members); i++ {
			for j := i + 1; j < len(members); j++ {
				AddIntraEdgeIfReachable(ag, cg, d, state, clusterID, members[i], members[j])
			}
		}
	}

	return ag, nil
}

// ClusterMembers returns every AbstractNode currently bound to a concrete
// tile inside clusterID, in insertion order.
func (ag *Graph) ClusterMembers(clusterID uint32) []NodeID {
	var members []NodeID
	for id := NodeID(0); int(id) < ag.Len(); id++ {
		if ag.NodeInfo(id).ClusterID == clusterID {
			members = append(members, id)
		}
	}
	return members
}

// InsertTransient creates and registers a new AbstractNode bound to cid,
// for query-time endpoint insertion. Pair with Watermark/Rollback for
// cleanup.
func (ag *Graph) InsertTransient(cid concrete.NodeID, clusterID uint32, level int, pos geom.Position) NodeID {
	id := NodeID(ag.Len())
	ag.AddNode(id, Node{ClusterID: clusterID, Level: level, ConcreteID: cid, Position: pos})
	ag.byConcrete[cid] = id
	return id
}

// Rollback undoes every AbstractNode added since mark (captured by
// Watermark before the query's insertions began), including their
// coalescing-map entries, and truncates every pre-existing node's edge
// list back to the watermark recorded for it in edgeMarks before the query
// added edges pointing into it. The new nodes' own outgoing edges need no
// separate cleanup — they are dropped wholesale when their node is
// truncated.
func (ag *Graph) Rollback(mark int, edgeMarks map[NodeID]int) {
	for id := NodeID(mark); int(id) < ag.Len(); id++ {
		delete(ag.byConcrete, ag.NodeInfo(id).ConcreteID)
	}
	for id, m := range edgeMarks {
		ag.TruncateEdgesTo(id, m)
	}
	ag.TruncateTo(mark)
}

// AddIntraEdgeIfReachable runs a cluster-restricted concrete search between
// two transition nodes known to share clusterID and, if a path exists,
// adds a bidirectional Intra edge caching it. Reports whether an edge was
// added.
func AddIntraEdgeIfReachable(
	ag *Graph,
	cg *concrete.Graph,
	d *cluster.Decomposition,
	state *search.State[concrete.NodeID],
	clusterID uint32,
	a, b NodeID,
) bool {
	na, nb := ag.NodeInfo(a), ag.NodeInfo(b)
	filter := search.FilterFunc[concrete.NodeID](func(cid concrete.NodeID) bool {
		info := cg.NodeInfo(cid)
		return d.IDAt(info.Position.X, info.Position.Y) == clusterID && !info.IsObstacle
	})
	path, cost, found := search.Run(cg.Graph, state, na.ConcreteID, nb.ConcreteID,
		func(e concrete.EdgeInfo) uint32 { return e.Cost }, nil, filter)
	state.Reset()
	if !found {
		return false
	}
	ag.AddEdge(a, b, EdgeInfo{Cost: cost, Kind: Intra, Path: path})
	ag.AddEdge(b, a, EdgeInfo{Cost: cost, Kind: Intra, Path: reversed(path)})
	return true
}

// RebuildCoalescingIndex repopulates byConcrete from the current node set,
// for a Graph assembled by a deserializer that filled in nodes directly
// rather than going through getOrCreate/InsertTransient.
func (ag *Graph) RebuildCoalescingIndex() {
	ag.byConcrete = make(map[concrete.NodeID]NodeID, ag.Len())
	for id := NodeID(0); int(id) < ag.Len(); id++ {
		ag.byConcrete[ag.NodeInfo(id).ConcreteID] = id
	}
}

// AbstractIDFor returns the AbstractNode bound to a concrete tile, if one
// was created during Build (i.e. the tile sits on an entrance) or inserted
// by InsertTransient and not yet rolled back.
func (ag *Graph) AbstractIDFor(cid concrete.NodeID) (NodeID, bool) {
	id, ok := ag.byConcrete[cid]
	return id, ok
}

func concreteEdgeCost(cg *concrete.Graph, a, b concrete.NodeID) uint32 {
	for _, e := range cg.Edges(a) {
		if e.Target == b {
			return e.Info.Cost
		}
	}
	hpaerr.Violate("abstractgraph: no concrete edge between entrance endpoints %d and %d", a, b)
	panic("unreachable")
}

func reversed(path []concrete.NodeID) []concrete.NodeID {
	out := make([]concrete.NodeID, len(path))
	for i, id := range path {
		out[len(path)-1-i] = id
	}
	return out
}
