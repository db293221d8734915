// Package mapconfig loads the YAML configuration shared by cmd/preprocess
// and cmd/server: grid/tile parameters for building a map, and listen
// address for serving it.
package mapconfig

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/azybler/hpa/pkg/entrance"
	"github.com/azybler/hpa/pkg/tile"
)

// Config holds every tunable parameter for building and serving a map.
type Config struct {
	Build  BuildConfig  `yaml:"build"`
	Server ServerConfig `yaml:"server"`
}

// BuildConfig controls abstraction construction.
type BuildConfig struct {
	ClusterSize   int    `yaml:"cluster_size"`
	TileType      string `yaml:"tile_type"`      // "tile4", "octile", "octile_uniform", "hex"
	EntranceStyle string `yaml:"entrance_style"` // "middle" or "end"
	MaxLevel      int    `yaml:"max_level"`
	InputPath     string `yaml:"input_path"`
	OutputPath    string `yaml:"output_path"`
}

// ServerConfig controls the HTTP query server.
type ServerConfig struct {
	ListenAddr string `yaml:"listen_addr"`
	MapPath    string `yaml:"map_path"`
}

// Load reads and parses a YAML config file, filling in defaults for a
// zero-valued cluster size, tile type, entrance style, max level, or listen
// address. The path fields get no default and stay empty if unset.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("mapconfig: read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("mapconfig: parse %s: %w", path, err)
	}

	if cfg.Build.ClusterSize == 0 {
		cfg.Build.ClusterSize = 8
	}
	if cfg.Build.TileType == "" {
		cfg.Build.TileType = "octile"
	}
	if cfg.Build.EntranceStyle == "" {
		cfg.Build.EntranceStyle = "middle"
	}
	if cfg.Build.MaxLevel == 0 {
		cfg.Build.MaxLevel = 1
	}
	if cfg.Server.ListenAddr == "" {
		cfg.Server.ListenAddr = ":8080"
	}

	return &cfg, nil
}

// ParseTileType parses the config's TileType string into a tile.Type.
func (c *BuildConfig) ParseTileType() (tile.Type, error) {
	switch c.TileType {
	case "tile4":
		return tile.Tile4, nil
	case "octile":
		return tile.Octile, nil
	case "octile_uniform":
		return tile.OctileUniform, nil
	case "hex":
		return tile.Hex, nil
	default:
		return 0, fmt.Errorf("mapconfig: unknown tile_type %q", c.TileType)
	}
}

// ParseEntranceStyle parses the config's EntranceStyle string.
func (c *BuildConfig) ParseEntranceStyle() (entrance.Style, error) {
	switch c.EntranceStyle {
	case "middle":
		return entrance.Middle, nil
	case "end":
		return entrance.End, nil
	default:
		return 0, fmt.Errorf("mapconfig: unknown entrance_style %q", c.EntranceStyle)
	}
}
