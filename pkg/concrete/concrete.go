// Package concrete builds the tile-level graph: one node per grid cell,
// edges to every in-bounds geometric neighbor per the map's tile type.
// Obstacle filtering happens at search time, not here — the graph stays
// topology-complete so the abstraction built on top of it never has to
// special-case a missing edge.
package concrete

import (
	"github.com/azybler/hpa/pkg/geom"
	"github.com/azybler/hpa/pkg/graph"
	"github.com/azybler/hpa/pkg/hpaerr"
	"github.com/azybler/hpa/pkg/tile"
)

// NodeID identifies a concrete graph node. It is always y*width+x for the
// grid the node belongs to.
type NodeID uint32

// Node is the payload of one concrete graph node.
type Node struct {
	Position   geom.Position
	IsObstacle bool
	Cost       uint32 // movement cost onto this tile; meaningful only if !IsObstacle
}

// EdgeInfo is the payload of one concrete graph edge.
type EdgeInfo struct {
	Cost uint32
}

// Oracle is the passability predicate injected by the caller. It must be
// pure and total over [0,width) x [0,height).
type Oracle interface {
	CanEnter(p geom.Position) (passable bool, cost uint32)
}

// OracleFunc adapts a plain function to the Oracle interface.
type OracleFunc func(p geom.Position) (bool, uint32)

func (f OracleFunc) CanEnter(p geom.Position) (bool, uint32) { return f(p) }

// Graph is the concrete tile graph: a generic graph.Graph specialized with
// NodeID, plus the grid dimensions and tile type needed to interpret it.
type Graph struct {
	*graph.Graph[NodeID, Node, EdgeInfo]
	Width, Height int
	TileType      tile.Type
}

// Build constructs the concrete graph for a width x height grid under the
// given tile type, querying oracle once per tile for passability and cost.
func Build(width, height int, tt tile.Type, oracle Oracle) (*Graph, error) {
	if width <= 0 || height <= 0 {
		return nil, hpaerr.NewInvalidArgument("width and height must be positive, got %dx%d", width, height)
	}
	if oracle == nil {
		return nil, hpaerr.NewInvalidArgument("oracle must not be nil")
	}

	g := graph.New[NodeID, Node, EdgeInfo](width * height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			p := geom.Position{X: x, Y: y}
			passable, cost := oracle.CanEnter(p)
			id := NodeID(geom.Index(p, width))
			g.AddNode(id, Node{Position: p, IsObstacle: !passable, Cost: cost})
		}
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			src := NodeID(y*width + x)
			for _, mv := range tile.Moves(tt, x) {
				nx, ny := x+mv.DX, y+mv.DY
				np := geom.Position{X: nx, Y: ny}
				if !np.InBounds(width, height) {
					continue
				}
				dst := NodeID(ny*width + nx)
				targetCost := g.NodeInfo(dst).Cost
				g.AddEdge(src, dst, EdgeInfo{Cost: tile.EdgeCost(tt, targetCost, mv.Diagonal)})
			}
		}
	}

	return &Graph{Graph: g, Width: width, Height: height, TileType: tt}, nil
}

// InBounds reports whether p is a valid cell of this grid.
func (g *Graph) InBounds(p geom.Position) bool { return p.InBounds(g.Width, g.Height) }

// IDAt returns the node id for a position known to be in bounds.
func (g *Graph) IDAt(p geom.Position) NodeID { return NodeID(geom.Index(p, g.Width)) }
