package mapconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/azybler/hpa/pkg/entrance"
	"github.com/azybler/hpa/pkg/tile"
)

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "map.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFillsDefaults(t *testing.T) {
	path := writeTempConfig(t, "build:\n  input_path: map.txt\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Build.ClusterSize != 8 {
		t.Fatalf("ClusterSize = %d, want default 8", cfg.Build.ClusterSize)
	}
	if cfg.Build.TileType != "octile" {
		t.Fatalf("TileType = %q, want default octile", cfg.Build.TileType)
	}
	if cfg.Server.ListenAddr != ":8080" {
		t.Fatalf("ListenAddr = %q, want default :8080", cfg.Server.ListenAddr)
	}
}

func TestLoadParsesExplicitValues(t *testing.T) {
	path := writeTempConfig(t, "build:\n  cluster_size: 16\n  tile_type: hex\n  entrance_style: end\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	tt, err := cfg.Build.ParseTileType()
	if err != nil || tt != tile.Hex {
		t.Fatalf("ParseTileType() = %v, %v, want Hex, nil", tt, err)
	}
	es, err := cfg.Build.ParseEntranceStyle()
	if err != nil || es != entrance.End {
		t.Fatalf("ParseEntranceStyle() = %v, %v, want End, nil", es, err)
	}
}

func TestParseTileTypeRejectsUnknown(t *testing.T) {
	cfg := &BuildConfig{TileType: "bogus"}
	if _, err := cfg.ParseTileType(); err == nil {
		t.Fatal("expected an error for an unknown tile type")
	}
}

func TestLoadRejectsMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/map.yaml"); err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}
