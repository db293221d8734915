// Command server loads a prebuilt hierarchical map and serves path queries
// over HTTP.
package main

import (
	"flag"
	"log"
	"os"
	"strings"
	"time"

	"github.com/azybler/hpa/pkg/hpaapi"
	"github.com/azybler/hpa/pkg/mapconfig"
	"github.com/azybler/hpa/pkg/mapio"
)

func main() {
	// A --config file, if present, supplies the defaults below; explicit
	// flags on the command line still take precedence over it.
	mapPathDefault, addrDefault := "map.bin", ":8080"
	if path := configPath(); path != "" {
		cfg, err := mapconfig.Load(path)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		if cfg.Server.MapPath != "" {
			mapPathDefault = cfg.Server.MapPath
		}
		addrDefault = cfg.Server.ListenAddr
	}

	mapPath := flag.String("map", mapPathDefault, "Path to a preprocessed map binary")
	addrFlag := flag.String("addr", addrDefault, "HTTP listen address, e.g. :8080")
	flag.String("config", "", "Path to a YAML config file (see pkg/mapconfig)")
	flag.Parse()

	start := time.Now()

	log.Printf("Loading map from %s...", *mapPath)
	loaded, err := mapio.Load(*mapPath)
	if err != nil {
		log.Fatalf("Failed to load map: %v", err)
	}
	log.Printf("Loaded build %s: %dx%d grid, %d abstract nodes",
		loaded.BuildID, loaded.Map.Concrete.Width, loaded.Map.Concrete.Height, loaded.Map.Abstract.Len())

	loadTime := time.Since(start)
	log.Printf("Ready in %s", loadTime.Round(time.Millisecond))

	cfg := hpaapi.DefaultConfig(*addrFlag)

	handlers := hpaapi.NewHandlers(loaded.Map, loaded.BuildID)
	srv := hpaapi.NewServer(cfg, handlers)

	if err := hpaapi.ListenAndServe(srv); err != nil {
		log.Printf("Server stopped: %v", err)
		os.Exit(1)
	}
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
