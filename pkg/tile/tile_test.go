package tile

import "testing"

func TestOctileDiagonalCost(t *testing.T) {
	got := OctileDiagonalCost(24)
	if got != 34 {
		t.Fatalf("OctileDiagonalCost(24) = %d, want 34", got)
	}
}

func TestMovesCardinalCount(t *testing.T) {
	if len(Moves(Tile4, 0)) != 4 {
		t.Fatalf("Tile4 should offer 4 moves, got %d", len(Moves(Tile4, 0)))
	}
}

func TestMovesOctileCount(t *testing.T) {
	for _, tt := range []Type{Octile, OctileUniform} {
		if len(Moves(tt, 0)) != 8 {
			t.Fatalf("%v should offer 8 moves, got %d", tt, len(Moves(tt, 0)))
		}
	}
}

func TestMovesHexParity(t *testing.T) {
	even := Moves(Hex, 2)
	odd := Moves(Hex, 3)
	if len(even) != 6 || len(odd) != 6 {
		t.Fatalf("Hex should offer 6 moves regardless of parity, got even=%d odd=%d", len(even), len(odd))
	}
	hasMove := func(moves []Move, dx, dy int) bool {
		for _, m := range moves {
			if m.DX == dx && m.DY == dy {
				return true
			}
		}
		return false
	}
	if !hasMove(even, 1, -1) || !hasMove(even, -1, -1) {
		t.Fatal("even column should extend north-east/north-west")
	}
	if !hasMove(odd, 1, 1) || !hasMove(odd, -1, 1) {
		t.Fatal("odd column should extend south-east/south-west")
	}
}

func TestEdgeCostDiagonalOnlyForOctile(t *testing.T) {
	if got := EdgeCost(Octile, 24, true); got != 34 {
		t.Fatalf("Octile diagonal cost = %d, want 34", got)
	}
	if got := EdgeCost(OctileUniform, 24, true); got != 24 {
		t.Fatalf("OctileUniform diagonal cost = %d, want 24 (uniform)", got)
	}
	if got := EdgeCost(Tile4, 24, false); got != 24 {
		t.Fatalf("Tile4 cardinal cost = %d, want 24", got)
	}
}
