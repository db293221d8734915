// Package entrance scans the borders between adjacent clusters and emits
// the maximal passable runs ("entrances") that will become inter-cluster
// transition points in the abstract graph.
package entrance

import (
	"github.com/azybler/hpa/pkg/cluster"
	"github.com/azybler/hpa/pkg/concrete"
	"github.com/azybler/hpa/pkg/geom"
)

func posAt(x, y int) geom.Position { return geom.Position{X: x, Y: y} }

// Style selects how many transition points an entrance run contributes.
type Style int

const (
	Middle Style = iota // one transition at the midpoint of every run
	End                 // two transitions (at each end) for runs longer than MaxEntranceWidth
)

// MaxEntranceWidth is the run length above which Style End splits a single
// run into two transitions instead of one.
const MaxEntranceWidth = 6

// Orientation names which axis a border runs along.
type Orientation int

const (
	Horizontal Orientation = iota // border between a cluster and the one below it
	Vertical                      // border between a cluster and the one to its right
)

// Entrance is one transition point across a cluster border.
type Entrance struct {
	ID                    uint32
	ClusterA, ClusterB    uint32
	Orientation           Orientation
	CoordinateOnSharedAxis int // the x (Horizontal) or y (Vertical) of the transition
	OffsetAlongBorder     int // the fixed y (Horizontal) or x (Vertical) of clusterA's side
	ConcreteA, ConcreteB  concrete.NodeID
}

// Detect scans every adjacent cluster pair's shared border exactly once, in
// deterministic (row, col, borderDirection) order, and returns every
// entrance in the grid.
func Detect(cg *concrete.Graph, d *cluster.Decomposition, style Style) []Entrance {
	var entrances []Entrance
	var nextID uint32

	passable := func(p concrete.NodeID) bool { return !cg.NodeInfo(p).IsObstacle }

	emit := func(clusterA, clusterB uint32, orient Orientation, coord int, fixedA, fixedB int) {
		var a, b concrete.NodeID
		if orient == Horizontal {
			a = cg.IDAt(posAt(coord, fixedA))
			b = cg.IDAt(posAt(coord, fixedB))
		} else {
			a = cg.IDAt(posAt(fixedA, coord))
			b = cg.IDAt(posAt(fixedB, coord))
		}
		entrances = append(entrances, Entrance{
			ID:                     nextID,
			ClusterA:               clusterA,
			ClusterB:               clusterB,
			Orientation:            orient,
			CoordinateOnSharedAxis: coord,
			OffsetAlongBorder:      fixedA,
			ConcreteA:              a,
			ConcreteB:              b,
		})
		nextID++
	}

	// scanBorder walks the shared border of length [start,end) and emits
	// transitions for each maximal run where both sides are passable.
	//
	// The walk intentionally uses i >= end rather than i == end as the run
	// terminator: i ranges one past the last valid coordinate so that a run
	// touching the border's far edge is still flushed, using i-1 as its
	// final endpoint. This mirrors a documented quirk of the reference
	// algorithm and is preserved rather than "fixed".
	scanBorder := func(clusterA, clusterB uint32, orient Orientation, start, end, fixedA, fixedB int) {
		entranceStart := -1
		flush := func(entranceEnd int) {
			if entranceStart < 0 {
				return
			}
			runLen := entranceEnd - entranceStart + 1
			if style == End && runLen > MaxEntranceWidth {
				emit(clusterA, clusterB, orient, entranceStart, fixedA, fixedB)
				emit(clusterA, clusterB, orient, entranceEnd, fixedA, fixedB)
			} else {
				emit(clusterA, clusterB, orient, (entranceStart+entranceEnd)/2, fixedA, fixedB)
			}
			entranceStart = -1
		}
		for i := start; ; i++ {
			if i >= end {
				flush(i - 1)
				break
			}
			var ok bool
			if orient == Horizontal {
				ok = passable(cg.IDAt(posAt(i, fixedA))) && passable(cg.IDAt(posAt(i, fixedB)))
			} else {
				ok = passable(cg.IDAt(posAt(fixedA, i))) && passable(cg.IDAt(posAt(fixedB, i)))
			}
			if ok {
				if entranceStart < 0 {
					entranceStart = i
				}
			} else {
				flush(i - 1)
			}
		}
	}

	for row := 0; row < d.Rows; row++ {
		for col := 0; col < d.Cols; col++ {
			here := d.At(row, col)

			if row > 0 {
				above := d.At(row-1, col)
				y1 := above.OriginY + above.Height - 1
				y2 := here.OriginY
				start := here.OriginX
				end := here.OriginX + here.Width
				if above.Width < here.Width {
					end = above.OriginX + above.Width
				}
				scanBorder(above.ID, here.ID, Horizontal, start, end, y1, y2)
			}

			if col > 0 {
				left := d.At(row, col-1)
				x1 := left.OriginX + left.Width - 1
				x2 := here.OriginX
				start := here.OriginY
				end := here.OriginY + here.Height
				if left.Height < here.Height {
					end = left.OriginY + left.Height
				}
				scanBorder(left.ID, here.ID, Vertical, start, end, x1, x2)
			}
		}
	}

	return entrances
}
