package abstractgraph

import (
	"testing"

	"github.com/azybler/hpa/pkg/cluster"
	"github.com/azybler/hpa/pkg/concrete"
	"github.com/azybler/hpa/pkg/entrance"
	"github.com/azybler/hpa/pkg/geom"
	"github.com/azybler/hpa/pkg/tile"
)

func openOracle(p geom.Position) (bool, uint32) { return true, 1 }

func buildGrid(t *testing.T, w, h, cs int) (*concrete.Graph, *cluster.Decomposition) {
	t.Helper()
	cg, err := concrete.Build(w, h, tile.Tile4, concrete.OracleFunc(openOracle))
	if err != nil {
		t.Fatal(err)
	}
	d, err := cluster.Decompose(w, h, cs)
	if err != nil {
		t.Fatal(err)
	}
	return cg, d
}

func TestBuildCreatesBidirectionalInterEdgePerEntrance(t *testing.T) {
	cg, d := buildGrid(t, 8, 4, 4)
	es := entrance.Detect(cg, d, entrance.Middle)
	if len(es) != 1 {
		t.Fatalf("len(entrances) = %d, want 1", len(es))
	}

	ag, err := Build(cg, d, es, 1)
	if err != nil {
		t.Fatal(err)
	}
	if ag.Len() != 2 {
		t.Fatalf("abstract node count = %d, want 2", ag.Len())
	}

	a, ok := ag.AbstractIDFor(es[0].ConcreteA)
	if !ok {
		t.Fatal("expected an abstract node bound to the entrance's first concrete endpoint")
	}
	b, ok := ag.AbstractIDFor(es[0].ConcreteB)
	if !ok {
		t.Fatal("expected an abstract node bound to the entrance's second concrete endpoint")
	}

	var fwd, bwd bool
	for _, e := range ag.Edges(a) {
		if e.Target == b && e.Info.Kind == Inter {
			fwd = true
			if e.Info.Cost != 1 {
				t.Fatalf("inter-edge cost = %d, want 1", e.Info.Cost)
			}
		}
	}
	for _, e := range ag.Edges(b) {
		if e.Target == a && e.Info.Kind == Inter {
			bwd = true
		}
	}
	if !fwd || !bwd {
		t.Fatal("expected a bidirectional Inter edge between the entrance's two sides")
	}
}

func TestBuildCoalescesSharedConcreteEndpoint(t *testing.T) {
	cg, d := buildGrid(t, 8, 8, 4)

	shared := cg.IDAt(geom.Position{X: 3, Y: 3})
	other1 := cg.IDAt(geom.Position{X: 4, Y: 3})
	other2 := cg.IDAt(geom.Position{X: 3, Y: 4})

	es := []entrance.Entrance{
		{ID: 0, ClusterA: 0, ClusterB: 1, Orientation: entrance.Vertical, ConcreteA: shared, ConcreteB: other1},
		{ID: 1, ClusterA: 0, ClusterB: 2, Orientation: entrance.Horizontal, ConcreteA: shared, ConcreteB: other2},
	}

	ag, err := Build(cg, d, es, 1)
	if err != nil {
		t.Fatal(err)
	}
	// 3 distinct concrete endpoints across two entrances, but `shared`
	// appears in both: 3 abstract nodes, not 4.
	if ag.Len() != 3 {
		t.Fatalf("abstract node count = %d, want 3 (shared endpoint coalesces)", ag.Len())
	}

	sharedID, ok := ag.AbstractIDFor(shared)
	if !ok {
		t.Fatal("expected an abstract node for the shared concrete tile")
	}
	if len(ag.Edges(sharedID)) != 2 {
		t.Fatalf("coalesced node has %d outgoing edges, want 2 (one per entrance)", len(ag.Edges(sharedID)))
	}
}

func TestBuildAddsIntraEdgeWithinCluster(t *testing.T) {
	cg, d := buildGrid(t, 8, 8, 4)
	es := entrance.Detect(cg, d, entrance.Middle)

	ag, err := Build(cg, d, es, 1)
	if err != nil {
		t.Fatal(err)
	}

	// cluster (0,0) has a transition on its right border (toward cluster
	// (0,1)) and one on its bottom border (toward cluster (1,0)); they
	// should be connected by an Intra edge since the interior is open.
	var clusterZero []NodeID
	for id := NodeID(0); int(id) < ag.Len(); id++ {
		if ag.NodeInfo(id).ClusterID == 0 {
			clusterZero = append(clusterZero, id)
		}
	}
	if len(clusterZero) < 2 {
		t.Fatalf("expected at least 2 transition nodes in cluster 0, got %d", len(clusterZero))
	}

	var sawIntra bool
	for _, e := range ag.Edges(clusterZero[0]) {
		if e.Info.Kind == Intra {
			sawIntra = true
			if len(e.Info.Path) < 2 {
				t.Fatalf("intra edge path too short: %v", e.Info.Path)
			}
			if e.Info.Path[0] != ag.NodeInfo(clusterZero[0]).ConcreteID {
				t.Fatalf("intra path does not start at its own node's concrete id")
			}
		}
	}
	if !sawIntra {
		t.Fatal("expected an Intra edge between cluster 0's two transition nodes")
	}
}

func TestBuildRejectsInvalidLevel(t *testing.T) {
	cg, d := buildGrid(t, 8, 4, 4)
	if _, err := Build(cg, d, nil, 0); err == nil {
		t.Fatal("expected error for level < 1")
	}
}
