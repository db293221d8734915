package concrete

import (
	"testing"

	"github.com/azybler/hpa/pkg/geom"
	"github.com/azybler/hpa/pkg/tile"
)

func openOracle(p geom.Position) (bool, uint32) { return true, 1 }

func TestBuildOctileOutDegree(t *testing.T) {
	// Invariant 1: every passable tile's out-degree equals its in-bounds
	// neighbor count for the tile type.
	g, err := Build(5, 5, tile.Octile, OracleFunc(openOracle))
	if err != nil {
		t.Fatal(err)
	}

	corner := g.IDAt(geom.Position{X: 0, Y: 0})
	if got := len(g.Edges(corner)); got != 3 {
		t.Fatalf("corner out-degree = %d, want 3", got)
	}

	center := g.IDAt(geom.Position{X: 2, Y: 2})
	if got := len(g.Edges(center)); got != 8 {
		t.Fatalf("center out-degree = %d, want 8", got)
	}
}

func TestBuildOctileDiagonalCost(t *testing.T) {
	// Invariant 2: diagonal edge cost is (targetCost*34)/24, so 34 for a
	// target cost of 24.
	g, err := Build(3, 3, tile.Octile, OracleFunc(func(geom.Position) (bool, uint32) { return true, 24 }))
	if err != nil {
		t.Fatal(err)
	}
	center := g.IDAt(geom.Position{X: 1, Y: 1})
	var sawDiagonal bool
	for _, e := range g.Edges(center) {
		dst := g.NodeInfo(e.Target).Position
		if dst.X != 1 && dst.Y != 1 {
			sawDiagonal = true
			if e.Info.Cost != 34 {
				t.Fatalf("diagonal cost = %d, want 34", e.Info.Cost)
			}
		}
	}
	if !sawDiagonal {
		t.Fatal("expected at least one diagonal edge from the center tile")
	}
}

func TestBuildRejectsInvalidDimensions(t *testing.T) {
	if _, err := Build(0, 5, tile.Tile4, OracleFunc(openOracle)); err == nil {
		t.Fatal("expected error for zero width")
	}
}

func TestObstacleTilesKeepIncomingEdges(t *testing.T) {
	// The graph is topology-complete: an obstacle tile is still the target
	// of an edge from each in-bounds neighbor; searches filter it out.
	blocked := geom.Position{X: 1, Y: 1}
	oracle := OracleFunc(func(p geom.Position) (bool, uint32) {
		return p != blocked, 1
	})
	g, err := Build(3, 3, tile.Tile4, oracle)
	if err != nil {
		t.Fatal(err)
	}
	blockedID := g.IDAt(blocked)
	incoming := 0
	for id := NodeID(0); int(id) < g.Len(); id++ {
		for _, e := range g.Edges(id) {
			if e.Target == blockedID {
				incoming++
			}
		}
	}
	if incoming != 4 {
		t.Fatalf("obstacle node %d has %d incoming edges, want 4 (one per in-bounds neighbor)", blockedID, incoming)
	}
}

func TestLargestPassableComponentSplitsOnWall(t *testing.T) {
	oracle := OracleFunc(func(p geom.Position) (bool, uint32) {
		if p.X == 2 {
			return false, 1
		}
		return true, 1
	})
	g, err := Build(5, 5, tile.Tile4, oracle)
	if err != nil {
		t.Fatal(err)
	}
	nodes, totalPassable := g.LargestPassableComponent()
	if totalPassable != 20 {
		t.Fatalf("totalPassable = %d, want 20", totalPassable)
	}
	if len(nodes) != 10 {
		t.Fatalf("largest component size = %d, want 10 (one side of the wall)", len(nodes))
	}
}
