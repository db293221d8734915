package hpaapi

import (
	"encoding/json"
	"errors"
	"log"
	"mime"
	"net/http"
	"time"

	"github.com/azybler/hpa/pkg/abstractgraph"
	"github.com/azybler/hpa/pkg/geom"
	"github.com/azybler/hpa/pkg/hpa"
	"github.com/azybler/hpa/pkg/hpaerr"
	"github.com/azybler/hpa/pkg/metrics"
)

// Handlers holds the HTTP handlers and their dependencies.
type Handlers struct {
	Map     *hpa.Map
	BuildID string
}

// NewHandlers creates handlers serving queries against m, publishing its
// abstraction size to the AbstractNodes/AbstractEdges gauges.
func NewHandlers(m *hpa.Map, buildID string) *Handlers {
	metrics.AbstractNodes.Set(float64(m.Abstract.Len()))
	metrics.AbstractEdges.Set(float64(countAbstractEdges(m.Abstract)))

	return &Handlers{Map: m, BuildID: buildID}
}

// HandlePath handles POST /api/v1/path.
func (h *Handlers) HandlePath(w http.ResponseWriter, r *http.Request) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "application/json" {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}

	var req PathRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1024)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}

	start := geom.Position{X: req.Start.X, Y: req.Start.Y}
	goal := geom.Position{X: req.Goal.X, Y: req.Goal.Y}

	queryStart := time.Now()
	path, err := h.Map.FindPath(start, goal)
	metrics.QueryDurationSeconds.Observe(time.Since(queryStart).Seconds())

	if err != nil {
		if errors.Is(err, hpaerr.ErrInvalidArgument) {
			metrics.QueriesTotal.WithLabelValues(metrics.OutcomeError).Inc()
			writeError(w, http.StatusBadRequest, "invalid_coordinates")
			return
		}
		metrics.QueriesTotal.WithLabelValues(metrics.OutcomeError).Inc()
		writeError(w, http.StatusInternalServerError, "internal_error")
		return
	}

	if path == nil {
		metrics.QueriesTotal.WithLabelValues(metrics.OutcomeNoPath).Inc()
		writeJSON(w, http.StatusOK, PathResponse{Tiles: []PositionJSON{}})
		return
	}

	metrics.QueriesTotal.WithLabelValues(metrics.OutcomeFound).Inc()
	tiles := make([]PositionJSON, len(path))
	for i, p := range path {
		tiles[i] = PositionJSON{X: p.X, Y: p.Y}
	}
	writeJSON(w, http.StatusOK, PathResponse{Tiles: tiles, Cost: pathCost(h.Map, path)})
}

// HandleHealth handles GET /api/v1/health.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// HandleStats handles GET /api/v1/stats.
func (h *Handlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	cg := h.Map.Concrete
	ag := h.Map.Abstract
	writeJSON(w, http.StatusOK, StatsResponse{
		Width:            cg.Width,
		Height:           cg.Height,
		ClusterSize:      h.Map.Config().ClusterSize,
		NumClusters:      len(h.Map.Decomposition.Clusters),
		NumEntrances:     len(h.Map.Entrances),
		NumConcreteNodes: cg.Len(),
		NumAbstractNodes: ag.Len(),
		NumAbstractEdges: countAbstractEdges(ag),
		BuildID:          h.BuildID,
	})
}

func countAbstractEdges(ag *abstractgraph.Graph) int {
	total := 0
	for id := abstractgraph.NodeID(0); int(id) < ag.Len(); id++ {
		total += len(ag.Edges(id))
	}
	return total
}

// pathCost sums the concrete edge cost along consecutive tiles of path.
func pathCost(m *hpa.Map, path []geom.Position) uint32 {
	var total uint32
	for i := 0; i < len(path)-1; i++ {
		a := m.Concrete.IDAt(path[i])
		b := m.Concrete.IDAt(path[i+1])
		for _, e := range m.Concrete.Edges(a) {
			if e.Target == b {
				total += e.Info.Cost
				break
			}
		}
	}
	return total
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("hpaapi: encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, ErrorResponse{Error: code})
}
