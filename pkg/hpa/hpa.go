// Package hpa wires the concrete graph, cluster decomposition, entrance
// detector, and abstract graph into a queryable Map, and implements the
// query-time endpoint insertion, abstract search, refinement, and
// unconditional rollback described for the hierarchical pathfinder.
package hpa

import (
	"github.com/azybler/hpa/pkg/abstractgraph"
	"github.com/azybler/hpa/pkg/cluster"
	"github.com/azybler/hpa/pkg/concrete"
	"github.com/azybler/hpa/pkg/entrance"
	"github.com/azybler/hpa/pkg/geom"
	"github.com/azybler/hpa/pkg/hpaerr"
	"github.com/azybler/hpa/pkg/search"
	"github.com/azybler/hpa/pkg/tile"
)

// Config selects the tunable parameters of the abstraction.
type Config struct {
	ClusterSize   int
	EntranceStyle entrance.Style
	MaxLevel      int // reserved for multi-level hierarchies; must be >= 1
}

// Map is a built hierarchical abstraction over one concrete grid, ready
// for repeated FindPath queries. A Map is not safe for concurrent queries;
// callers running multiple maps concurrently need no synchronization
// between them, but must serialize queries against the same Map.
type Map struct {
	Concrete      *concrete.Graph
	Decomposition *cluster.Decomposition
	Entrances     []entrance.Entrance
	Abstract      *abstractgraph.Graph

	config      Config
	minTileCost uint32
}

// Build runs C3 through C5 over an already-built concrete graph: cluster
// decomposition, entrance detection, and abstract graph construction.
func Build(cg *concrete.Graph, cfg Config) (*Map, error) {
	if cfg.MaxLevel < 1 {
		return nil, hpaerr.NewInvalidArgument("MaxLevel must be >= 1, got %d", cfg.MaxLevel)
	}

	d, err := cluster.Decompose(cg.Width, cg.Height, cfg.ClusterSize)
	if err != nil {
		return nil, err
	}

	es := entrance.Detect(cg, d, cfg.EntranceStyle)

	ag, err := abstractgraph.Build(cg, d, es, cfg.MaxLevel)
	if err != nil {
		return nil, err
	}

	return &Map{
		Concrete:      cg,
		Decomposition: d,
		Entrances:     es,
		Abstract:      ag,
		config:        cfg,
		minTileCost:   minPassableCost(cg),
	}, nil
}

// Config returns the parameters the Map was built or restored with.
func (m *Map) Config() Config { return m.config }

// Restore reassembles a Map from its already-built constituents, for a
// server loading a prebuilt abstraction from disk rather than calling
// Build itself. The caller is responsible for having produced a
// self-consistent set of arguments (e.g. via mapio.Load).
func Restore(cg *concrete.Graph, d *cluster.Decomposition, entrances []entrance.Entrance, ag *abstractgraph.Graph, cfg Config) *Map {
	return &Map{
		Concrete:      cg,
		Decomposition: d,
		Entrances:     entrances,
		Abstract:      ag,
		config:        cfg,
		minTileCost:   minPassableCost(cg),
	}
}

func minPassableCost(cg *concrete.Graph) uint32 {
	min := uint32(0)
	found := false
	for id := concrete.NodeID(0); int(id) < cg.Len(); id++ {
		n := cg.NodeInfo(id)
		if n.IsObstacle {
			continue
		}
		if !found || n.Cost < min {
			min, found = n.Cost, true
		}
	}
	if !found {
		return 1
	}
	return min
}

// FindPath runs C6: insert start/goal as temporary AbstractNodes, search
// the abstract graph, refine the result to a concrete tile sequence, and
// unconditionally roll back the temporary insertions. A nil, nil return
// means no path exists (including when an endpoint is an obstacle); this
// is the normal NoPath outcome, not an error.
func (m *Map) FindPath(start, goal geom.Position) ([]geom.Position, error) {
	if !m.Concrete.InBounds(start) {
		return nil, hpaerr.NewInvalidArgument("start %v is out of bounds", start)
	}
	if !m.Concrete.InBounds(goal) {
		return nil, hpaerr.NewInvalidArgument("goal %v is out of bounds", goal)
	}

	startID := m.Concrete.IDAt(start)
	goalID := m.Concrete.IDAt(goal)
	if m.Concrete.NodeInfo(startID).IsObstacle || m.Concrete.NodeInfo(goalID).IsObstacle {
		return nil, nil
	}
	if start == goal {
		return []geom.Position{start}, nil
	}

	mark := m.Abstract.Watermark()
	edgeMarks := make(map[abstractgraph.NodeID]int)
	cstate := search.NewState[concrete.NodeID](uint32(m.Concrete.Len()))
	defer m.Abstract.Rollback(mark, edgeMarks)

	startAbs := m.insertEndpoint(startID, edgeMarks, cstate)
	goalAbs := m.insertEndpoint(goalID, edgeMarks, cstate)

	tt := m.Concrete.TileType
	baseCost := m.minTileCost
	heuristic := search.HeuristicFunc[abstractgraph.NodeID](func(id abstractgraph.NodeID) uint32 {
		return tile.Heuristic(tt, m.Abstract.NodeInfo(id).Position, goal, baseCost)
	})
	costFn := func(e abstractgraph.EdgeInfo) uint32 { return e.Cost }

	astate := search.NewState[abstractgraph.NodeID](uint32(m.Abstract.Len()))
	abstractPath, _, found := search.Run(m.Abstract.Graph, astate, startAbs, goalAbs, costFn, heuristic, nil)
	if !found {
		return nil, nil
	}

	concretePath := m.refine(abstractPath)
	positions := make([]geom.Position, len(concretePath))
	for i, cid := range concretePath {
		positions[i] = m.Concrete.NodeInfo(cid).Position
	}
	return positions, nil
}

// insertEndpoint returns the AbstractNode bound to cid, reusing a
// pre-existing entrance transition node when cid already has one, or else
// creating a temporary node wired to every AbstractNode already present in
// its cluster (which, by insertion order, includes the other endpoint once
// it has been inserted).
func (m *Map) insertEndpoint(cid concrete.NodeID, edgeMarks map[abstractgraph.NodeID]int, cstate *search.State[concrete.NodeID]) abstractgraph.NodeID {
	if id, ok := m.Abstract.AbstractIDFor(cid); ok {
		return id
	}

	pos := m.Concrete.NodeInfo(cid).Position
	clusterID := m.Decomposition.IDAt(pos.X, pos.Y)
	members := m.Abstract.ClusterMembers(clusterID)

	newID := m.Abstract.InsertTransient(cid, clusterID, m.config.MaxLevel, pos)

	for _, mem := range members {
		if _, seen := edgeMarks[mem]; !seen {
			edgeMarks[mem] = m.Abstract.EdgeWatermark(mem)
		}
		abstractgraph.AddIntraEdgeIfReachable(m.Abstract, m.Concrete, m.Decomposition, cstate, clusterID, newID, mem)
	}

	return newID
}

// refine expands an abstract node path into the concrete tile sequence it
// represents: Inter-edges contribute their two endpoints, Intra-edges
// contribute their cached path (or, lacking one, a fresh restricted
// search).
func (m *Map) refine(abstractPath []abstractgraph.NodeID) []concrete.NodeID {
	if len(abstractPath) == 0 {
		return nil
	}
	result := []concrete.NodeID{m.Abstract.NodeInfo(abstractPath[0]).ConcreteID}
	for i := 0; i < len(abstractPath)-1; i++ {
		seg := m.edgeConcretePath(abstractPath[i], abstractPath[i+1])
		if len(seg) > 1 {
			result = append(result, seg[1:]...)
		}
	}
	return result
}

func (m *Map) edgeConcretePath(u, v abstractgraph.NodeID) []concrete.NodeID {
	for _, e := range m.Abstract.Edges(u) {
		if e.Target != v {
			continue
		}
		if e.Info.Kind == abstractgraph.Inter {
			return []concrete.NodeID{m.Abstract.NodeInfo(u).ConcreteID, m.Abstract.NodeInfo(v).ConcreteID}
		}
		if e.Info.Path != nil {
			return e.Info.Path
		}
		return m.rerunIntraSearch(u, v)
	}
	hpaerr.Violate("refine: no abstract edge from %d to %d", u, v)
	panic("unreachable")
}

// rerunIntraSearch recomputes an Intra edge's concrete path when no cache
// was stored. Scratch state is allocated locally since this is a rare
// fallback, not the query hot path.
func (m *Map) rerunIntraSearch(u, v abstractgraph.NodeID) []concrete.NodeID {
	nu, nv := m.Abstract.NodeInfo(u), m.Abstract.NodeInfo(v)
	clusterID := nu.ClusterID
	filter := search.FilterFunc[concrete.NodeID](func(cid concrete.NodeID) bool {
		info := m.Concrete.NodeInfo(cid)
		return m.Decomposition.IDAt(info.Position.X, info.Position.Y) == clusterID && !info.IsObstacle
	})
	state := search.NewState[concrete.NodeID](uint32(m.Concrete.Len()))
	path, _, found := search.Run(m.Concrete.Graph, state, nu.ConcreteID, nv.ConcreteID,
		func(e concrete.EdgeInfo) uint32 { return e.Cost }, nil, filter)
	if !found {
		hpaerr.Violate("refine: Intra edge %d->%d has no cached path and is no longer reachable", u, v)
	}
	return path
}
