package cluster

import "testing"

func TestDecomposeExactFit(t *testing.T) {
	d, err := Decompose(16, 16, 4)
	if err != nil {
		t.Fatal(err)
	}
	if d.Rows != 4 || d.Cols != 4 {
		t.Fatalf("rows/cols = %d/%d, want 4/4", d.Rows, d.Cols)
	}
	if len(d.Clusters) != 16 {
		t.Fatalf("len(Clusters) = %d, want 16", len(d.Clusters))
	}
	for _, c := range d.Clusters {
		if c.Width != 4 || c.Height != 4 {
			t.Fatalf("cluster %d has size %dx%d, want 4x4", c.ID, c.Width, c.Height)
		}
	}
}

func TestDecomposeTruncatedEdge(t *testing.T) {
	d, err := Decompose(10, 10, 4)
	if err != nil {
		t.Fatal(err)
	}
	if d.Rows != 3 || d.Cols != 3 {
		t.Fatalf("rows/cols = %d/%d, want 3/3", d.Rows, d.Cols)
	}
	last := d.At(2, 2)
	if last.Width != 2 || last.Height != 2 {
		t.Fatalf("truncated last cluster = %dx%d, want 2x2", last.Width, last.Height)
	}
}

func TestIDAtMatchesRowMajorID(t *testing.T) {
	d, err := Decompose(16, 16, 4)
	if err != nil {
		t.Fatal(err)
	}
	id := d.IDAt(9, 5) // row=1, col=2 -> id = 1*4+2 = 6
	if id != 6 {
		t.Fatalf("IDAt(9,5) = %d, want 6", id)
	}
	c := d.At(1, 2)
	if c.ID != id {
		t.Fatalf("At(1,2).ID = %d, want %d", c.ID, id)
	}
}

func TestDecomposeRejectsTinyClusterSize(t *testing.T) {
	if _, err := Decompose(16, 16, 1); err == nil {
		t.Fatal("expected error for clusterSize <= 1")
	}
}
