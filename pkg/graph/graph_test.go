package graph

import "testing"

type nodeID uint32

func TestAddNodeAppendAndReplace(t *testing.T) {
	g := New[nodeID, string, int](4)
	g.AddNode(0, "a")
	g.AddNode(1, "b")
	if g.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", g.Len())
	}
	g.AddNode(0, "a2")
	if got := g.NodeInfo(0); got != "a2" {
		t.Fatalf("NodeInfo(0) = %q, want a2", got)
	}
}

func TestAddNodeOutOfRangePanics(t *testing.T) {
	g := New[nodeID, string, int](1)
	g.AddNode(0, "a")
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on out-of-range AddNode")
		}
	}()
	g.AddNode(5, "bad")
}

func TestAddEdgeAndRemoveEdgeLIFO(t *testing.T) {
	g := New[nodeID, string, int](3)
	g.AddNode(0, "a")
	g.AddNode(1, "b")
	g.AddEdge(0, 1, 10)
	g.AddEdge(0, 1, 20)
	if len(g.Edges(0)) != 2 {
		t.Fatalf("expected 2 edges, got %d", len(g.Edges(0)))
	}
	if !g.RemoveEdge(0, 1) {
		t.Fatal("RemoveEdge returned false")
	}
	edges := g.Edges(0)
	if len(edges) != 1 || edges[0].Info != 10 {
		t.Fatalf("after removing most recent edge, want [{1,10}], got %v", edges)
	}
	if g.RemoveEdge(0, 2) {
		t.Fatal("RemoveEdge should return false for nonexistent edge")
	}
}

func TestRollbackWatermarks(t *testing.T) {
	g := New[nodeID, string, int](3)
	g.AddNode(0, "a")
	g.AddNode(1, "b")
	g.AddEdge(0, 1, 1)

	nodeMark := g.Watermark()
	edgeMark := g.EdgeWatermark(0)

	g.AddNode(2, "temp")
	g.AddEdge(0, 2, 2)
	g.AddEdge(2, 0, 3)

	g.TruncateEdgesTo(0, edgeMark)
	g.TruncateTo(nodeMark)

	if g.Len() != 2 {
		t.Fatalf("Len() after rollback = %d, want 2", g.Len())
	}
	if len(g.Edges(0)) != 1 {
		t.Fatalf("Edges(0) after rollback = %d, want 1", len(g.Edges(0)))
	}
}

func TestRemoveEdgesFrom(t *testing.T) {
	g := New[nodeID, string, int](2)
	g.AddNode(0, "a")
	g.AddNode(1, "b")
	g.AddEdge(0, 1, 1)
	g.AddEdge(0, 1, 2)
	g.RemoveEdgesFrom(0)
	if len(g.Edges(0)) != 0 {
		t.Fatalf("expected 0 edges after RemoveEdgesFrom, got %d", len(g.Edges(0)))
	}
}

func TestUnionFind(t *testing.T) {
	uf := NewUnionFind(5)
	uf.Union(0, 1)
	uf.Union(1, 2)
	if uf.Find(0) != uf.Find(2) {
		t.Fatal("0 and 2 should be in the same set after transitive union")
	}
	if uf.Find(3) == uf.Find(0) {
		t.Fatal("3 should not be in the same set as 0")
	}
	if uf.Size(0) != 3 {
		t.Fatalf("Size(0) = %d, want 3", uf.Size(0))
	}
}
