package concrete

import "github.com/azybler/hpa/pkg/graph"

// LargestPassableComponent returns the node ids of the largest weakly
// connected component among passable tiles (obstacles and their edges are
// excluded from the union-find), and the total count of passable tiles.
//
// The concrete graph itself is never pruned to this component — obstacle
// nodes and unreachable passable islands both stay in the graph, per the
// invariant that the concrete graph is topology-complete. This is purely a
// diagnostic used by preprocessing to report how well-connected a map is.
func (g *Graph) LargestPassableComponent() (nodes []NodeID, totalPassable int) {
	n := g.Len()
	if n == 0 {
		return nil, 0
	}

	uf := graph.NewUnionFind(uint32(n))

	for id := NodeID(0); int(id) < n; id++ {
		if g.NodeInfo(id).IsObstacle {
			continue
		}
		totalPassable++
		for _, e := range g.Edges(id) {
			if g.NodeInfo(e.Target).IsObstacle {
				continue
			}
			uf.Union(uint32(id), uint32(e.Target))
		}
	}

	bestRoot := uint32(0)
	bestSize := uint32(0)
	for id := NodeID(0); int(id) < n; id++ {
		if g.NodeInfo(id).IsObstacle {
			continue
		}
		root := uf.Find(uint32(id))
		if uf.Size(root) > bestSize {
			bestRoot = root
			bestSize = uf.Size(root)
		}
	}
	if bestSize == 0 {
		return nil, totalPassable
	}

	nodes = make([]NodeID, 0, bestSize)
	for id := NodeID(0); int(id) < n; id++ {
		if g.NodeInfo(id).IsObstacle {
			continue
		}
		if uf.Find(uint32(id)) == bestRoot {
			nodes = append(nodes, id)
		}
	}
	return nodes, totalPassable
}
