// Package cluster tiles a grid into fixed-size clusters in row-major order,
// with the last row and column truncated to fit the grid.
package cluster

import "github.com/azybler/hpa/pkg/hpaerr"

// Cluster is an axis-aligned rectangle of the grid.
type Cluster struct {
	ID            uint32
	Row, Col      int
	OriginX       int
	OriginY       int
	Width, Height int
}

// Contains reports whether (x,y) lies within the cluster's rectangle.
func (c Cluster) Contains(x, y int) bool {
	return x >= c.OriginX && x < c.OriginX+c.Width &&
		y >= c.OriginY && y < c.OriginY+c.Height
}

// Decomposition is the result of tiling a grid.
type Decomposition struct {
	Clusters    []Cluster
	Rows, Cols  int
	ClusterSize int
	GridWidth   int
	GridHeight  int
}

// Decompose tiles a width x height grid into clusterSize x clusterSize
// clusters, row-major, truncating the last row/column to fit.
func Decompose(width, height, clusterSize int) (*Decomposition, error) {
	if width <= 0 || height <= 0 {
		return nil, hpaerr.NewInvalidArgument("width and height must be positive, got %dx%d", width, height)
	}
	if clusterSize <= 1 {
		return nil, hpaerr.NewInvalidArgument("clusterSize must be > 1, got %d", clusterSize)
	}

	cols := (width + clusterSize - 1) / clusterSize
	rows := (height + clusterSize - 1) / clusterSize

	clusters := make([]Cluster, 0, rows*cols)
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			originX := col * clusterSize
			originY := row * clusterSize
			w := clusterSize
			if originX+w > width {
				w = width - originX
			}
			h := clusterSize
			if originY+h > height {
				h = height - originY
			}
			clusters = append(clusters, Cluster{
				ID:      uint32(row*cols + col),
				Row:     row,
				Col:     col,
				OriginX: originX,
				OriginY: originY,
				Width:   w,
				Height:  h,
			})
		}
	}

	return &Decomposition{
		Clusters:    clusters,
		Rows:        rows,
		Cols:        cols,
		ClusterSize: clusterSize,
		GridWidth:   width,
		GridHeight:  height,
	}, nil
}

// IDAt returns the clusterId containing grid cell (x,y) in constant time.
func (d *Decomposition) IDAt(x, y int) uint32 {
	row := y / d.ClusterSize
	col := x / d.ClusterSize
	return uint32(row*d.Cols + col)
}

// At returns the Cluster for (row,col) in constant time.
func (d *Decomposition) At(row, col int) Cluster {
	return d.Clusters[row*d.Cols+col]
}
