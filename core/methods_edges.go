// File: methods_edges.go
// Role: Edge lifecycle & queries: AddEdge/HasEdge/GetEdge/Edges/EdgeCount, plus nextEdgeID().
// Determinism:
//   - Edges() returns edges in insertion order (Edge.Seq asc).
//   - nextEdgeID() is monotonic and stable ("e" + decimal).
// Concurrency:
//   - Mutations under muEdgeAdj write lock.
//   - Read queries under muEdgeAdj read lock.

package core

import (
	"math"
	"sort"
	"strconv"
	"sync/atomic"
)

// edgeIDPrefix is a private textual prefix for edge identifiers.
const edgeIDPrefix = 'e'

// AddEdge appends a new directed edge from→to carrying a log-probability weight.
//
// Steps:
//  1. Validate IDs, weight (NaN/+Inf → ErrBadWeight), loops.
//  2. Ensure endpoints via AddVertex.
//  3. Lock muEdgeAdj, check multi-edge constraint.
//  4. Generate eid atomically, store the edge, append to out[from] and in[to].
//
// Complexity: O(1) amortized, O(d_out(from)) when multi-edges are disabled.
func (g *Graph) AddEdge(from, to string, weight float64) (string, error) {
	if from == "" || to == "" {
		return "", ErrEmptyVertexID
	}
	if math.IsNaN(weight) || math.IsInf(weight, 1) {
		return "", ErrBadWeight
	}
	if from == to && !g.allowLoops {
		return "", ErrLoopNotAllowed
	}

	if err := g.AddVertex(from); err != nil {
		return "", err
	}
	if err := g.AddVertex(to); err != nil {
		return "", err
	}

	g.muEdgeAdj.Lock()
	defer g.muEdgeAdj.Unlock()

	if !g.allowMulti && hasEdgeLocked(g, from, to) {
		return "", ErrMultiEdgeNotAllowed
	}

	seq := atomic.AddUint64(&g.nextEdgeID, 1)
	e := &Edge{ID: edgeID(seq), Seq: seq, From: from, To: to, Weight: weight}
	g.edges[e.ID] = e
	g.out[from] = append(g.out[from], e)
	g.in[to] = append(g.in[to], e)

	return e.ID, nil
}

// HasEdge reports whether at least one edge from→to exists.
// Complexity: O(d_out(from)).
func (g *Graph) HasEdge(from, to string) bool {
	if from == "" || to == "" {
		return false
	}
	g.muEdgeAdj.RLock()
	defer g.muEdgeAdj.RUnlock()

	return hasEdgeLocked(g, from, to)
}

// GetEdge returns the Edge with the given ID, or ErrEdgeNotFound.
// The returned *Edge must be treated as read-only by callers.
// Complexity: O(1).
func (g *Graph) GetEdge(edgeID string) (*Edge, error) {
	g.muEdgeAdj.RLock()
	defer g.muEdgeAdj.RUnlock()
	e, ok := g.edges[edgeID]
	if !ok {
		return nil, ErrEdgeNotFound
	}

	return e, nil
}

// Edges returns all edges in insertion order.
// Complexity: O(E log E).
func (g *Graph) Edges() []*Edge {
	g.muEdgeAdj.RLock()
	defer g.muEdgeAdj.RUnlock()
	out := make([]*Edge, 0, len(g.edges))
	for _, e := range g.edges {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })

	return out
}

// EdgeCount returns total number of edges.
// Complexity: O(1).
func (g *Graph) EdgeCount() int {
	g.muEdgeAdj.RLock()
	defer g.muEdgeAdj.RUnlock()

	return len(g.edges)
}

// hasEdgeLocked scans out[from] for a target; caller holds muEdgeAdj.
func hasEdgeLocked(g *Graph, from, to string) bool {
	for _, e := range g.out[from] {
		if e.To == to {
			return true
		}
	}

	return false
}

// edgeID renders "e" + decimal seq without fmt allocations.
func edgeID(seq uint64) string {
	buf := make([]byte, 0, 1+20)
	buf = append(buf, edgeIDPrefix)
	buf = strconv.AppendUint(buf, seq, 10)

	return string(buf)
}
