// Command visualize serves a browser page that compares a hierarchical
// query's path and latency against a brute-force search over the same
// concrete graph, for a single loaded map.
package main

import (
	"embed"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log"
	"net/http"
	"time"

	"github.com/azybler/hpa/pkg/concrete"
	"github.com/azybler/hpa/pkg/geom"
	"github.com/azybler/hpa/pkg/hpa"
	"github.com/azybler/hpa/pkg/mapio"
	"github.com/azybler/hpa/pkg/search"
)

//go:embed static
var staticFiles embed.FS

type positionJSON struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type compareRequest struct {
	Start positionJSON `json:"start"`
	Goal  positionJSON `json:"goal"`
}

type routeResult struct {
	Tiles     []positionJSON `json:"tiles"`
	Cost      uint32         `json:"cost"`
	LatencyUs int64          `json:"latency_us"`
	Error     string         `json:"error,omitempty"`
}

type compareResponse struct {
	Hierarchical routeResult `json:"hierarchical"`
	BruteForce   routeResult `json:"brute_force"`
}

type gridResponse struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ClusterSize int    `json:"cluster_size"`
	Obstacles   []bool `json:"obstacles"` // row-major, len == width*height
}

var loadedMap *hpa.Map

func main() {
	mapPath := flag.String("map", "map.bin", "Path to a preprocessed map binary")
	port := flag.Int("port", 3000, "HTTP port to serve on")
	flag.Parse()

	loaded, err := mapio.Load(*mapPath)
	if err != nil {
		log.Fatalf("Failed to load map: %v", err)
	}
	loadedMap = loaded.Map
	log.Printf("Loaded build %s: %dx%d grid", loaded.BuildID, loadedMap.Concrete.Width, loadedMap.Concrete.Height)

	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		log.Fatal(err)
	}

	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.FS(staticFS)))
	mux.HandleFunc("/api/grid", handleGrid)
	mux.HandleFunc("/api/compare", handleCompare)

	addr := fmt.Sprintf(":%d", *port)
	log.Printf("Visualize server starting on http://localhost:%d", *port)
	log.Fatal(http.ListenAndServe(addr, mux))
}

func handleGrid(w http.ResponseWriter, r *http.Request) {
	cg := loadedMap.Concrete
	obstacles := make([]bool, cg.Len())
	for id := concrete.NodeID(0); int(id) < cg.Len(); id++ {
		obstacles[id] = cg.NodeInfo(id).IsObstacle
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(gridResponse{
		Width:       cg.Width,
		Height:      cg.Height,
		ClusterSize: loadedMap.Config().ClusterSize,
		Obstacles:   obstacles,
	})
}

func handleCompare(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req compareRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 4096)).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	start := geom.Position{X: req.Start.X, Y: req.Start.Y}
	goal := geom.Position{X: req.Goal.X, Y: req.Goal.Y}

	resp := compareResponse{
		Hierarchical: queryHierarchical(start, goal),
		BruteForce:   queryBruteForce(start, goal),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func queryHierarchical(start, goal geom.Position) routeResult {
	t0 := time.Now()
	path, err := loadedMap.FindPath(start, goal)
	elapsed := time.Since(t0)
	if err != nil {
		return routeResult{Error: err.Error()}
	}
	return toRouteResult(path, elapsed)
}

// queryBruteForce runs an unrestricted search over the full concrete graph,
// the same primitive the hierarchical query restricts to clusters, as the
// ground truth the hierarchical result is compared against.
func queryBruteForce(start, goal geom.Position) routeResult {
	cg := loadedMap.Concrete
	if !cg.InBounds(start) || !cg.InBounds(goal) {
		return routeResult{Error: "out of bounds"}
	}
	startID, goalID := cg.IDAt(start), cg.IDAt(goal)
	if cg.NodeInfo(startID).IsObstacle || cg.NodeInfo(goalID).IsObstacle {
		return routeResult{}
	}

	filter := search.FilterFunc[concrete.NodeID](func(cid concrete.NodeID) bool {
		return !cg.NodeInfo(cid).IsObstacle
	})

	t0 := time.Now()
	state := search.NewState[concrete.NodeID](uint32(cg.Len()))
	path, _, found := search.Run(cg.Graph, state, startID, goalID,
		func(e concrete.EdgeInfo) uint32 { return e.Cost }, nil, filter)
	elapsed := time.Since(t0)
	if !found {
		return routeResult{LatencyUs: elapsed.Microseconds()}
	}

	positions := make([]geom.Position, len(path))
	for i, id := range path {
		positions[i] = cg.NodeInfo(id).Position
	}
	return toRouteResult(positions, elapsed)
}

func toRouteResult(path []geom.Position, elapsed time.Duration) routeResult {
	if path == nil {
		return routeResult{LatencyUs: elapsed.Microseconds()}
	}
	tiles := make([]positionJSON, len(path))
	for i, p := range path {
		tiles[i] = positionJSON{X: p.X, Y: p.Y}
	}
	var cost uint32
	cg := loadedMap.Concrete
	for i := 0; i < len(path)-1; i++ {
		a, b := cg.IDAt(path[i]), cg.IDAt(path[i+1])
		for _, e := range cg.Edges(a) {
			if e.Target == b {
				cost += e.Info.Cost
				break
			}
		}
	}
	return routeResult{Tiles: tiles, Cost: cost, LatencyUs: elapsed.Microseconds()}
}
