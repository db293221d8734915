// Package tile defines the grid connectivity rules: which neighbors a cell
// has and what an edge to each of them costs, for each supported tile type.
package tile

import "github.com/azybler/hpa/pkg/geom"

// Type selects the neighbor and cost rules for a map. Fixed for the life of
// a map.
type Type int

const (
	Tile4         Type = iota // 4-connected: N, S, E, W
	Octile                    // 8-connected, diagonal cost approximates sqrt(2)
	OctileUniform             // 8-connected, diagonals cost the same as cardinals
	Hex                       // 6-connected, pointy-top odd-q layout
)

func (t Type) String() string {
	switch t {
	case Tile4:
		return "Tile4"
	case Octile:
		return "Octile"
	case OctileUniform:
		return "OctileUniform"
	case Hex:
		return "Hex"
	default:
		return "Unknown"
	}
}

// OctileDiagonalCost applies the 34/24 integer approximation of sqrt(2) used
// for diagonal edges under Octile.
func OctileDiagonalCost(targetCost uint32) uint32 {
	return (targetCost * 34) / 24
}

// Move describes one candidate neighbor step: the offset from the source
// cell and whether the step is diagonal (for cost purposes).
type Move struct {
	DX, DY   int
	Diagonal bool
}

// cardinal4 is shared by every tile type that includes N/S/E/W moves.
var cardinal4 = []Move{
	{DX: 0, DY: -1},
	{DX: 0, DY: 1},
	{DX: 1, DY: 0},
	{DX: -1, DY: 0},
}

var diagonal4 = []Move{
	{DX: 1, DY: -1, Diagonal: true},
	{DX: -1, DY: -1, Diagonal: true},
	{DX: 1, DY: 1, Diagonal: true},
	{DX: -1, DY: 1, Diagonal: true},
}

// Moves returns the candidate move set for a tile type. The caller is
// responsible for filtering out-of-bounds targets; out-of-bounds neighbors
// are skipped silently per the grid builder's contract.
func Moves(t Type, x int) []Move {
	switch t {
	case Tile4:
		return cardinal4
	case Octile, OctileUniform:
		return append(append([]Move{}, cardinal4...), diagonal4...)
	case Hex:
		if x%2 == 0 {
			return append(append([]Move{}, cardinal4...), Move{DX: 1, DY: -1}, Move{DX: -1, DY: -1})
		}
		return append(append([]Move{}, cardinal4...), Move{DX: 1, DY: 1}, Move{DX: -1, DY: 1})
	default:
		return cardinal4
	}
}

// EdgeCost computes the cost of stepping onto a tile with the given base
// cost, given the tile type and whether the move is diagonal.
func EdgeCost(t Type, targetCost uint32, diagonal bool) uint32 {
	if diagonal && t == Octile {
		return OctileDiagonalCost(targetCost)
	}
	return targetCost
}

// Heuristic returns an admissible distance estimate between two positions
// for the given tile type, scaled to the same integer cost units as edges
// of the given base cost (1 for uniform-cost grids).
func Heuristic(t Type, a, b geom.Position, baseCost uint32) uint32 {
	switch t {
	case Octile:
		return geom.OctileDistance(a, b, baseCost)
	case OctileUniform:
		return geom.ChebyshevDistance(a, b, baseCost)
	case Hex:
		// Offset-coordinate hex distance has no closed form as cheap as the
		// axial one; fall back to the trivially admissible zero heuristic
		// (degrades the abstract search to Dijkstra, never to incorrectness).
		return 0
	default:
		return geom.ManhattanDistance(a, b, baseCost)
	}
}
