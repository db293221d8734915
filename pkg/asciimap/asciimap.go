// Package asciimap is the minimal "outer" map loader: it turns a plain
// text grid into a concrete.Oracle, playing the same role the teacher's
// OSM parser plays for a road network — loading is swappable and never
// depended on by the core.
package asciimap

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/azybler/hpa/pkg/geom"
)

// Map is a loaded ASCII grid. Each byte is one tile:
//   - '.' passable, cost 1
//   - '#' obstacle
//   - '1'-'9' passable, cost equal to the digit
type Map struct {
	Width, Height int
	cells         []byte
}

// Load reads a grid from a file on disk.
func Load(path string) (*Map, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("asciimap: open %s: %w", path, err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads a grid from r, one row per line. All rows must have equal
// length.
func Parse(r io.Reader) (*Map, error) {
	var rows [][]byte
	width := -1

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		if width == -1 {
			width = len(line)
		} else if len(line) != width {
			return nil, fmt.Errorf("asciimap: row %d has length %d, want %d", len(rows), len(line), width)
		}
		row := make([]byte, len(line))
		copy(row, line)
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("asciimap: scan: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("asciimap: empty grid")
	}

	height := len(rows)
	cells := make([]byte, width*height)
	for y, row := range rows {
		copy(cells[y*width:(y+1)*width], row)
	}

	return &Map{Width: width, Height: height, cells: cells}, nil
}

// CanEnter implements concrete.Oracle directly, so a *Map can be passed to
// concrete.Build without an adapter.
func (m *Map) CanEnter(p geom.Position) (passable bool, cost uint32) {
	c := m.cells[p.Y*m.Width+p.X]
	switch {
	case c == '#':
		return false, 0
	case c >= '1' && c <= '9':
		return true, uint32(c - '0')
	default:
		return true, 1
	}
}
