// File: api.go
// Role: Read-only getters over construction flags plus the Stats snapshot.
// Policy:
//   - No algorithms or hidden state here.
//   - Every exported function documents complexity and locking strategy.

package core

import "math"

// GraphStats is a read-only snapshot of configuration flags and catalog sizes.
type GraphStats struct {
	AllowsMulti bool
	AllowsLoops bool

	VertexCount int
	EdgeCount   int

	// LoopCount counts edges with From == To.
	LoopCount int

	// ImpossibleEdgeCount counts edges with Weight == −Inf. Generated models
	// never hold one (every weight comes from a positive probability); the
	// count matters for graphs built or edited by hand, e.g. via Model.Graph.
	ImpossibleEdgeCount int
}

// Looped reports whether self-loops are permitted by policy.
// Complexity: O(1).
func (g *Graph) Looped() bool {
	g.muVert.RLock()
	defer g.muVert.RUnlock()

	return g.allowLoops
}

// Multigraph reports whether parallel edges are permitted by policy.
// Complexity: O(1).
func (g *Graph) Multigraph() bool {
	g.muVert.RLock()
	defer g.muVert.RUnlock()

	return g.allowMulti
}

// Stats produces a deterministic, read-only snapshot of flags and counts.
//
// Implementation:
//   - Stage 1: Acquire muVert.RLock, snapshot flags and vertex count, then release.
//   - Stage 2: Acquire muEdgeAdj.RLock, snapshot edge count and scan edges, then release.
//
// Complexity:
//   - Time O(V+E), Space O(1) plus the returned struct.
func (g *Graph) Stats() *GraphStats {
	g.muVert.RLock()
	stats := GraphStats{
		AllowsMulti: g.allowMulti,
		AllowsLoops: g.allowLoops,
		VertexCount: len(g.vertices),
	}
	g.muVert.RUnlock()

	g.muEdgeAdj.RLock()
	stats.EdgeCount = len(g.edges)
	for _, e := range g.edges {
		if e.From == e.To {
			stats.LoopCount++
		}
		if math.IsInf(e.Weight, -1) {
			stats.ImpossibleEdgeCount++
		}
	}
	g.muEdgeAdj.RUnlock()

	return &stats
}
