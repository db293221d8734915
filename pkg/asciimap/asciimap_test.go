package asciimap

import (
	"strings"
	"testing"

	"github.com/azybler/hpa/pkg/geom"
)

func TestParseBasicGrid(t *testing.T) {
	m, err := Parse(strings.NewReader("..#\n.5.\n..."))
	if err != nil {
		t.Fatal(err)
	}
	if m.Width != 3 || m.Height != 3 {
		t.Fatalf("dimensions = %dx%d, want 3x3", m.Width, m.Height)
	}

	passable, cost := m.CanEnter(geom.Position{X: 2, Y: 0})
	if passable {
		t.Fatal("expected (2,0) to be an obstacle")
	}
	_ = cost

	passable, cost = m.CanEnter(geom.Position{X: 1, Y: 1})
	if !passable || cost != 5 {
		t.Fatalf("CanEnter(1,1) = %v,%d, want true,5", passable, cost)
	}

	passable, cost = m.CanEnter(geom.Position{X: 0, Y: 0})
	if !passable || cost != 1 {
		t.Fatalf("CanEnter(0,0) = %v,%d, want true,1", passable, cost)
	}
}

func TestParseRejectsUnevenRows(t *testing.T) {
	_, err := Parse(strings.NewReader("...\n..\n"))
	if err == nil {
		t.Fatal("expected an error for uneven row lengths")
	}
}

func TestParseRejectsEmptyInput(t *testing.T) {
	_, err := Parse(strings.NewReader(""))
	if err == nil {
		t.Fatal("expected an error for an empty grid")
	}
}

func TestLoadRejectsMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/map.txt"); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
