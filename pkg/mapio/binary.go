// Package mapio is the on-disk binary format for a built hpa.Map: a fixed
// header, the concrete graph in CSR form, and the abstract graph with its
// cached intra-cluster paths, trailed by a CRC32 checksum. The format
// mirrors the teacher's graph.WriteBinary/ReadBinary: a magic-prefixed
// header, zero-copy unsafe.Slice I/O for fixed-width arrays, and
// length-prefixed slices for variable-size data.
package mapio

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"os"
	"unsafe"

	"github.com/google/uuid"

	"github.com/azybler/hpa/pkg/abstractgraph"
	"github.com/azybler/hpa/pkg/cluster"
	"github.com/azybler/hpa/pkg/concrete"
	"github.com/azybler/hpa/pkg/entrance"
	"github.com/azybler/hpa/pkg/geom"
	"github.com/azybler/hpa/pkg/graph"
	"github.com/azybler/hpa/pkg/hpa"
	"github.com/azybler/hpa/pkg/tile"
)

const (
	magicBytes = "HPAMAP01"
	version    = uint32(1)
	maxNodes   = 100_000_000
	maxEdges   = 800_000_000
)

type fileHeader struct {
	Magic            [8]byte
	Version          uint32
	BuildID          [16]byte
	Width            uint32
	Height           uint32
	TileType         uint32
	ClusterSize      uint32
	EntranceStyle    uint32
	MaxLevel         uint32
	NumConcreteNodes uint32
	NumConcreteEdges uint32
	NumAbstractNodes uint32
	NumAbstractEdges uint32
	NumEntrances     uint32
}

// Save writes m to path, stamping a fresh build id. Returns the stamped id
// so the caller can log which build was written.
func Save(path string, m *hpa.Map) (string, error) {
	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return "", fmt.Errorf("mapio: create %s: %w", tmpPath, err)
	}
	defer func() {
		f.Close()
		os.Remove(tmpPath)
	}()

	cw := &crc32Writer{w: f, hash: crc32.NewIEEE()}

	buildID := uuid.New()

	cg := m.Concrete
	numConcreteEdges := 0
	for id := concrete.NodeID(0); int(id) < cg.Len(); id++ {
		numConcreteEdges += len(cg.Edges(id))
	}

	ag := m.Abstract
	numAbstractEdges := 0
	for id := abstractgraph.NodeID(0); int(id) < ag.Len(); id++ {
		numAbstractEdges += len(ag.Edges(id))
	}

	cfg := m.Config()
	hdr := fileHeader{
		Version:          version,
		BuildID:          buildID,
		Width:            uint32(cg.Width),
		Height:           uint32(cg.Height),
		TileType:         uint32(cg.TileType),
		ClusterSize:      uint32(m.Decomposition.ClusterSize),
		EntranceStyle:    uint32(cfg.EntranceStyle),
		MaxLevel:         uint32(cfg.MaxLevel),
		NumConcreteNodes: uint32(cg.Len()),
		NumConcreteEdges: uint32(numConcreteEdges),
		NumAbstractNodes: uint32(ag.Len()),
		NumAbstractEdges: uint32(numAbstractEdges),
		NumEntrances:     uint32(len(m.Entrances)),
	}
	copy(hdr.Magic[:], magicBytes)
	if err := binary.Write(cw, binary.LittleEndian, &hdr); err != nil {
		return "", fmt.Errorf("mapio: write header: %w", err)
	}

	if err := writeConcreteGraph(cw, cg); err != nil {
		return "", fmt.Errorf("mapio: write concrete graph: %w", err)
	}
	if err := writeEntrances(cw, m.Entrances); err != nil {
		return "", fmt.Errorf("mapio: write entrances: %w", err)
	}
	if err := writeAbstractGraph(cw, ag); err != nil {
		return "", fmt.Errorf("mapio: write abstract graph: %w", err)
	}

	checksum := cw.hash.Sum32()
	if err := binary.Write(f, binary.LittleEndian, checksum); err != nil {
		return "", fmt.Errorf("mapio: write checksum: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("mapio: close: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return "", fmt.Errorf("mapio: rename: %w", err)
	}

	return buildID.String(), nil
}

// Loaded bundles a deserialized map with the header fields that do not
// live on hpa.Map itself.
type Loaded struct {
	Map     *hpa.Map
	BuildID string
}

// Load reads a map previously written by Save.
func Load(path string) (*Loaded, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("mapio: open %s: %w", path, err)
	}
	defer f.Close()

	cr := &crc32Reader{r: f, hash: crc32.NewIEEE()}

	var hdr fileHeader
	if err := binary.Read(cr, binary.LittleEndian, &hdr); err != nil {
		return nil, fmt.Errorf("mapio: read header: %w", err)
	}
	if string(hdr.Magic[:]) != magicBytes {
		return nil, fmt.Errorf("mapio: bad magic %q", hdr.Magic)
	}
	if hdr.Version != version {
		return nil, fmt.Errorf("mapio: unsupported version %d", hdr.Version)
	}
	if hdr.NumConcreteNodes > maxNodes || hdr.NumAbstractNodes > maxNodes {
		return nil, fmt.Errorf("mapio: node count exceeds limit %d", maxNodes)
	}
	if hdr.NumConcreteEdges > maxEdges || hdr.NumAbstractEdges > maxEdges {
		return nil, fmt.Errorf("mapio: edge count exceeds limit %d", maxEdges)
	}

	cg, err := readConcreteGraph(cr, hdr)
	if err != nil {
		return nil, fmt.Errorf("mapio: read concrete graph: %w", err)
	}

	d, err := cluster.Decompose(int(hdr.Width), int(hdr.Height), int(hdr.ClusterSize))
	if err != nil {
		return nil, fmt.Errorf("mapio: rebuild decomposition: %w", err)
	}

	entrances, err := readEntrances(cr, hdr)
	if err != nil {
		return nil, fmt.Errorf("mapio: read entrances: %w", err)
	}

	ag, err := readAbstractGraph(cr, hdr, d)
	if err != nil {
		return nil, fmt.Errorf("mapio: read abstract graph: %w", err)
	}

	expected := cr.hash.Sum32()
	var stored uint32
	if err := binary.Read(f, binary.LittleEndian, &stored); err != nil {
		return nil, fmt.Errorf("mapio: read checksum: %w", err)
	}
	if stored != expected {
		return nil, fmt.Errorf("mapio: checksum mismatch: stored=%08x computed=%08x", stored, expected)
	}

	cfg := hpa.Config{
		ClusterSize:   int(hdr.ClusterSize),
		EntranceStyle: entrance.Style(hdr.EntranceStyle),
		MaxLevel:      int(hdr.MaxLevel),
	}
	m := hpa.Restore(cg, d, entrances, ag, cfg)
	buildID, _ := uuid.FromBytes(hdr.BuildID[:])

	return &Loaded{Map: m, BuildID: buildID.String()}, nil
}

func writeEntrances(w io.Writer, entrances []entrance.Entrance) error {
	flat := make([]uint32, 0, len(entrances)*8)
	for _, e := range entrances {
		flat = append(flat,
			e.ID, e.ClusterA, e.ClusterB, uint32(e.Orientation),
			uint32(e.CoordinateOnSharedAxis), uint32(e.OffsetAlongBorder),
			uint32(e.ConcreteA), uint32(e.ConcreteB),
		)
	}
	return writeUint32Slice(w, flat)
}

func readEntrances(r io.Reader, hdr fileHeader) ([]entrance.Entrance, error) {
	n := int(hdr.NumEntrances)
	flat, err := readUint32Slice(r, n*8)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	out := make([]entrance.Entrance, n)
	for i := range out {
		base := i * 8
		out[i] = entrance.Entrance{
			ID:                     flat[base],
			ClusterA:               flat[base+1],
			ClusterB:               flat[base+2],
			Orientation:            entrance.Orientation(flat[base+3]),
			CoordinateOnSharedAxis: int(flat[base+4]),
			OffsetAlongBorder:      int(flat[base+5]),
			ConcreteA:              concrete.NodeID(flat[base+6]),
			ConcreteB:              concrete.NodeID(flat[base+7]),
		}
	}
	return out, nil
}

func writeConcreteGraph(w io.Writer, cg *concrete.Graph) error {
	n := cg.Len()
	obstacles := make([]byte, n)
	costs := make([]uint32, n)
	firstOut := make([]uint32, n+1)

	var edgeCount uint32
	targets := make([]uint32, 0)
	edgeCosts := make([]uint32, 0)

	for id := 0; id < n; id++ {
		info := cg.NodeInfo(concrete.NodeID(id))
		if info.IsObstacle {
			obstacles[id] = 1
		}
		costs[id] = info.Cost
		firstOut[id] = edgeCount
		for _, e := range cg.Edges(concrete.NodeID(id)) {
			targets = append(targets, uint32(e.Target))
			edgeCosts = append(edgeCosts, e.Info.Cost)
			edgeCount++
		}
	}
	firstOut[n] = edgeCount

	if _, err := w.Write(obstacles); err != nil {
		return err
	}
	if err := writeUint32Slice(w, costs); err != nil {
		return err
	}
	if err := writeUint32Slice(w, firstOut); err != nil {
		return err
	}
	if err := writeUint32Slice(w, targets); err != nil {
		return err
	}
	return writeUint32Slice(w, edgeCosts)
}

func readConcreteGraph(r io.Reader, hdr fileHeader) (*concrete.Graph, error) {
	n := int(hdr.NumConcreteNodes)
	width, height := int(hdr.Width), int(hdr.Height)

	obstacles := make([]byte, n)
	if _, err := io.ReadFull(r, obstacles); err != nil {
		return nil, err
	}
	costs, err := readUint32Slice(r, n)
	if err != nil {
		return nil, err
	}
	firstOut, err := readUint32Slice(r, n+1)
	if err != nil {
		return nil, err
	}
	targets, err := readUint32Slice(r, int(hdr.NumConcreteEdges))
	if err != nil {
		return nil, err
	}
	edgeCosts, err := readUint32Slice(r, int(hdr.NumConcreteEdges))
	if err != nil {
		return nil, err
	}

	g := graph.New[concrete.NodeID, concrete.Node, concrete.EdgeInfo](n)
	for id := 0; id < n; id++ {
		pos := geom.PositionAt(id, width)
		g.AddNode(concrete.NodeID(id), concrete.Node{
			Position:   pos,
			IsObstacle: obstacles[id] != 0,
			Cost:       costs[id],
		})
	}
	for id := 0; id < n; id++ {
		for e := firstOut[id]; e < firstOut[id+1]; e++ {
			g.AddEdge(concrete.NodeID(id), concrete.NodeID(targets[e]), concrete.EdgeInfo{Cost: edgeCosts[e]})
		}
	}

	return &concrete.Graph{Graph: g, Width: width, Height: height, TileType: tile.Type(hdr.TileType)}, nil
}

// abstractEdgeRecord is the fixed-width portion of one serialized edge; the
// cached Intra path (if any) is appended separately in a length-prefixed
// pool, since most edges (all Inter edges) carry none.
type abstractEdgeRecord struct {
	Target   uint32
	Cost     uint32
	Kind     uint32
	PathLen  uint32
}

func writeAbstractGraph(w io.Writer, ag *abstractgraph.Graph) error {
	n := ag.Len()
	clusterIDs := make([]uint32, n)
	levels := make([]uint32, n)
	concreteIDs := make([]uint32, n)
	firstOut := make([]uint32, n+1)

	var records []abstractEdgeRecord
	var pathPool []uint32
	var edgeCount uint32

	for id := 0; id < n; id++ {
		info := ag.NodeInfo(abstractgraph.NodeID(id))
		clusterIDs[id] = info.ClusterID
		levels[id] = uint32(info.Level)
		concreteIDs[id] = uint32(info.ConcreteID)

		firstOut[id] = edgeCount
		for _, e := range ag.Edges(abstractgraph.NodeID(id)) {
			rec := abstractEdgeRecord{Target: uint32(e.Target), Cost: e.Info.Cost, Kind: uint32(e.Info.Kind)}
			if e.Info.Kind == abstractgraph.Intra {
				rec.PathLen = uint32(len(e.Info.Path))
				for _, cid := range e.Info.Path {
					pathPool = append(pathPool, uint32(cid))
				}
			}
			records = append(records, rec)
			edgeCount++
		}
	}
	firstOut[n] = edgeCount

	if err := writeUint32Slice(w, clusterIDs); err != nil {
		return err
	}
	if err := writeUint32Slice(w, levels); err != nil {
		return err
	}
	if err := writeUint32Slice(w, concreteIDs); err != nil {
		return err
	}
	if err := writeUint32Slice(w, firstOut); err != nil {
		return err
	}
	if err := writeEdgeRecords(w, records); err != nil {
		return err
	}
	return writeLenPrefixedUint32(w, pathPool)
}

func readAbstractGraph(r io.Reader, hdr fileHeader, d *cluster.Decomposition) (*abstractgraph.Graph, error) {
	n := int(hdr.NumAbstractNodes)
	width := int(hdr.Width)

	clusterIDs, err := readUint32Slice(r, n)
	if err != nil {
		return nil, err
	}
	levels, err := readUint32Slice(r, n)
	if err != nil {
		return nil, err
	}
	concreteIDs, err := readUint32Slice(r, n)
	if err != nil {
		return nil, err
	}
	firstOut, err := readUint32Slice(r, n+1)
	if err != nil {
		return nil, err
	}

	records, err := readEdgeRecords(r, int(hdr.NumAbstractEdges))
	if err != nil {
		return nil, err
	}
	pathPool, err := readLenPrefixedUint32(r)
	if err != nil {
		return nil, err
	}

	g := graph.New[abstractgraph.NodeID, abstractgraph.Node, abstractgraph.EdgeInfo](n)
	for id := 0; id < n; id++ {
		cid := concrete.NodeID(concreteIDs[id])
		g.AddNode(abstractgraph.NodeID(id), abstractgraph.Node{
			ClusterID:  clusterIDs[id],
			Level:      int(levels[id]),
			ConcreteID: cid,
			Position:   geom.PositionAt(int(cid), width),
		})
	}

	var poolOffset uint32
	for id := 0; id < n; id++ {
		for e := firstOut[id]; e < firstOut[id+1]; e++ {
			rec := records[e]
			info := abstractgraph.EdgeInfo{Cost: rec.Cost, Kind: abstractgraph.Kind(rec.Kind)}
			if rec.Kind == uint32(abstractgraph.Intra) && rec.PathLen > 0 {
				path := make([]concrete.NodeID, rec.PathLen)
				for i := range path {
					path[i] = concrete.NodeID(pathPool[poolOffset+uint32(i)])
				}
				poolOffset += rec.PathLen
				info.Path = path
			}
			g.AddEdge(abstractgraph.NodeID(id), abstractgraph.NodeID(rec.Target), info)
		}
	}

	ag := &abstractgraph.Graph{Graph: g}
	ag.RebuildCoalescingIndex()
	return ag, nil
}

func writeEdgeRecords(w io.Writer, s []abstractEdgeRecord) error {
	if len(s) == 0 {
		return nil
	}
	b := unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*int(unsafe.Sizeof(abstractEdgeRecord{})))
	_, err := w.Write(b)
	return err
}

func readEdgeRecords(r io.Reader, n int) ([]abstractEdgeRecord, error) {
	if n == 0 {
		return nil, nil
	}
	s := make([]abstractEdgeRecord, n)
	b := unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), n*int(unsafe.Sizeof(abstractEdgeRecord{})))
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, err
	}
	return s, nil
}

func writeUint32Slice(w io.Writer, s []uint32) error {
	if len(s) == 0 {
		return nil
	}
	b := unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*4)
	_, err := w.Write(b)
	return err
}

func readUint32Slice(r io.Reader, n int) ([]uint32, error) {
	if n == 0 {
		return nil, nil
	}
	s := make([]uint32, n)
	b := unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), n*4)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, err
	}
	return s, nil
}

func writeLenPrefixedUint32(w io.Writer, s []uint32) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(s))); err != nil {
		return err
	}
	return writeUint32Slice(w, s)
}

func readLenPrefixedUint32(r io.Reader) ([]uint32, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, err
	}
	return readUint32Slice(r, int(n))
}

type crc32Hash interface {
	Write([]byte) (int, error)
	Sum32() uint32
}

type crc32Writer struct {
	w    io.Writer
	hash crc32Hash
}

func (cw *crc32Writer) Write(p []byte) (int, error) {
	cw.hash.Write(p)
	return cw.w.Write(p)
}

type crc32Reader struct {
	r    io.Reader
	hash crc32Hash
}

func (cr *crc32Reader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	if n > 0 {
		cr.hash.Write(p[:n])
	}
	return n, err
}
