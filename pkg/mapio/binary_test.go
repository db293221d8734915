package mapio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/azybler/hpa/pkg/concrete"
	"github.com/azybler/hpa/pkg/entrance"
	"github.com/azybler/hpa/pkg/geom"
	"github.com/azybler/hpa/pkg/hpa"
	"github.com/azybler/hpa/pkg/tile"
)

func openOracle(p geom.Position) (bool, uint32) { return true, 1 }

func buildTestMap(t *testing.T) *hpa.Map {
	t.Helper()
	cg, err := concrete.Build(16, 16, tile.Octile, concrete.OracleFunc(openOracle))
	if err != nil {
		t.Fatal(err)
	}
	m, err := hpa.Build(cg, hpa.Config{ClusterSize: 4, EntranceStyle: entrance.Middle, MaxLevel: 1})
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestSaveLoadRoundTrip(t *testing.T) {
	original := buildTestMap(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "test.map.bin")

	buildID, err := Save(path, original)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if buildID == "" {
		t.Fatal("Save returned an empty build id")
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.BuildID != buildID {
		t.Errorf("BuildID: got %q, want %q", loaded.BuildID, buildID)
	}

	m := loaded.Map
	if m.Concrete.Len() != original.Concrete.Len() {
		t.Fatalf("concrete node count: got %d, want %d", m.Concrete.Len(), original.Concrete.Len())
	}
	for id := concrete.NodeID(0); int(id) < original.Concrete.Len(); id++ {
		gotNode, wantNode := m.Concrete.NodeInfo(id), original.Concrete.NodeInfo(id)
		if gotNode != wantNode {
			t.Errorf("concrete node %d: got %+v, want %+v", id, gotNode, wantNode)
		}
		gotEdges, wantEdges := m.Concrete.Edges(id), original.Concrete.Edges(id)
		if len(gotEdges) != len(wantEdges) {
			t.Fatalf("concrete node %d edge count: got %d, want %d", id, len(gotEdges), len(wantEdges))
		}
		for i := range wantEdges {
			if gotEdges[i] != wantEdges[i] {
				t.Errorf("concrete node %d edge %d: got %+v, want %+v", id, i, gotEdges[i], wantEdges[i])
			}
		}
	}

	if m.Abstract.Len() != original.Abstract.Len() {
		t.Fatalf("abstract node count: got %d, want %d", m.Abstract.Len(), original.Abstract.Len())
	}
	if len(m.Entrances) != len(original.Entrances) {
		t.Fatalf("entrance count: got %d, want %d", len(m.Entrances), len(original.Entrances))
	}

	gotCfg, wantCfg := m.Config(), original.Config()
	if gotCfg != wantCfg {
		t.Errorf("Config: got %+v, want %+v", gotCfg, wantCfg)
	}

	start := geom.Position{X: 0, Y: 0}
	goal := geom.Position{X: 15, Y: 15}
	wantPath, err := original.FindPath(start, goal)
	if err != nil {
		t.Fatal(err)
	}
	gotPath, err := m.FindPath(start, goal)
	if err != nil {
		t.Fatal(err)
	}
	if len(gotPath) != len(wantPath) {
		t.Fatalf("FindPath length: got %d, want %d", len(gotPath), len(wantPath))
	}
	for i := range wantPath {
		if gotPath[i] != wantPath[i] {
			t.Errorf("FindPath[%d]: got %v, want %v", i, gotPath[i], wantPath[i])
		}
	}
}

func TestLoadRejectsInvalidMagic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.map.bin")
	// Longer than the header, so the magic check (not a short read) rejects it.
	os.WriteFile(path, []byte("NOT_A_VALID_HPA_MAP_HEADER_BLAH_BLAH_BLAH_BLAH_BLAH_BLAH_BLAH_BLAH_BLAH_BLAH_BLAH"), 0o644)

	if _, err := Load(path); err == nil {
		t.Fatal("expected an error for invalid magic bytes")
	}
}

func TestLoadRejectsTruncatedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "truncated.map.bin")
	os.WriteFile(path, []byte(magicBytes), 0o644)

	if _, err := Load(path); err == nil {
		t.Fatal("expected an error for a truncated file")
	}
}

func TestLoadRejectsMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/map.bin"); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
