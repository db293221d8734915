// Command preprocess builds a hierarchical abstraction from an ASCII grid
// map and writes it to a binary file for the server to load.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/azybler/hpa/pkg/asciimap"
	"github.com/azybler/hpa/pkg/concrete"
	"github.com/azybler/hpa/pkg/entrance"
	"github.com/azybler/hpa/pkg/hpa"
	"github.com/azybler/hpa/pkg/mapconfig"
	"github.com/azybler/hpa/pkg/mapio"
	"github.com/azybler/hpa/pkg/tile"
)

func main() {
	// A --config file, if present, supplies the defaults below; explicit
	// flags on the command line still take precedence over it.
	defaults := mapconfig.BuildConfig{
		OutputPath:    "map.bin",
		ClusterSize:   8,
		TileType:      "octile",
		EntranceStyle: "middle",
	}
	if path := configPath(); path != "" {
		cfg, err := mapconfig.Load(path)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		defaults = cfg.Build
	}

	input := flag.String("input", defaults.InputPath, "Path to an ASCII grid map file")
	output := flag.String("output", defaults.OutputPath, "Output binary map file path")
	clusterSize := flag.Int("cluster-size", defaults.ClusterSize, "Cluster side length")
	tileTypeFlag := flag.String("tile-type", defaults.TileType, "Tile adjacency: tile4, octile, octile-uniform, hex")
	entranceStyleFlag := flag.String("entrance-style", defaults.EntranceStyle, "Entrance style: middle, end")
	flag.String("config", "", "Path to a YAML config file (see pkg/mapconfig)")
	flag.Parse()

	if *input == "" {
		fmt.Fprintln(os.Stderr, "Usage: preprocess --input <map.txt> [--output map.bin] [--cluster-size 8] [--tile-type octile] [--entrance-style middle]")
		os.Exit(1)
	}

	tt, err := parseTileType(*tileTypeFlag)
	if err != nil {
		log.Fatalf("Invalid tile type: %v", err)
	}
	style, err := parseEntranceStyle(*entranceStyleFlag)
	if err != nil {
		log.Fatalf("Invalid entrance style: %v", err)
	}

	start := time.Now()

	log.Printf("Loading grid from %s...", *input)
	grid, err := asciimap.Load(*input)
	if err != nil {
		log.Fatalf("Failed to load grid: %v", err)
	}
	log.Printf("Grid: %dx%d", grid.Width, grid.Height)

	log.Println("Building concrete graph...")
	cg, err := concrete.Build(grid.Width, grid.Height, tt, concrete.OracleFunc(grid.CanEnter))
	if err != nil {
		log.Fatalf("Failed to build concrete graph: %v", err)
	}

	largest, totalPassable := cg.LargestPassableComponent()
	pct := 0.0
	if totalPassable > 0 {
		pct = float64(len(largest)) / float64(totalPassable) * 100
	}
	log.Printf("Connectivity: largest passable component %d/%d tiles (%.1f%%)", len(largest), totalPassable, pct)

	log.Println("Building hierarchical abstraction...")
	m, err := hpa.Build(cg, hpa.Config{
		ClusterSize:   *clusterSize,
		EntranceStyle: style,
		MaxLevel:      1,
	})
	if err != nil {
		log.Fatalf("Failed to build abstraction: %v", err)
	}
	log.Printf("Abstraction: %d clusters, %d entrances, %d abstract nodes",
		len(m.Decomposition.Clusters), len(m.Entrances), m.Abstract.Len())

	log.Printf("Writing binary to %s...", *output)
	buildID, err := mapio.Save(*output, m)
	if err != nil {
		log.Fatalf("Failed to write binary: %v", err)
	}

	info, _ := os.Stat(*output)
	elapsed := time.Since(start)
	log.Printf("Done in %s. Build %s, output %s (%.1f KB)",
		elapsed.Round(time.Millisecond), buildID, *output, float64(info.Size())/1024)
}

// configPath scans os.Args for -config/--config before the main flag set is
// parsed, so its value can seed that flag set's defaults.
func configPath() string {
	for i, arg := range os.Args[1:] {
		switch {
		case arg == "-config" || arg == "--config":
			if i+2 < len(os.Args) {
				return os.Args[i+2]
			}
		case strings.HasPrefix(arg, "-config="):
			return strings.TrimPrefix(arg, "-config=")
		case strings.HasPrefix(arg, "--config="):
			return strings.TrimPrefix(arg, "--config=")
		}
	}
	return ""
}

func parseTileType(s string) (tile.Type, error) {
	switch s {
	case "tile4":
		return tile.Tile4, nil
	case "octile":
		return tile.Octile, nil
	case "octile-uniform", "octile_uniform":
		return tile.OctileUniform, nil
	case "hex":
		return tile.Hex, nil
	default:
		return 0, fmt.Errorf("unknown tile type %q", s)
	}
}

func parseEntranceStyle(s string) (entrance.Style, error) {
	switch s {
	case "middle":
		return entrance.Middle, nil
	case "end":
		return entrance.End, nil
	default:
		return 0, fmt.Errorf("unknown entrance style %q", s)
	}
}
