// File: methods_clone.go
// Role: Deep copy of graph instances.
// Determinism:
//   - Clone carries over nextEdgeID and edge order, so the clone enumerates identically.
// Concurrency:
//   - Read locks for snapshotting; no mutation of the source graph.

package core

import "sync/atomic"

// Clone returns a deep copy of the Graph: configuration, vertices, edges, and adjacency.
// Edge IDs, sequence numbers and insertion order are preserved.
//
// Complexity: O(V + E)
func (g *Graph) Clone() *Graph {
	var opts []GraphOption
	if g.allowMulti {
		opts = append(opts, WithMultiEdges())
	}
	if g.allowLoops {
		opts = append(opts, WithLoops())
	}
	clone := NewGraph(opts...)

	g.muVert.RLock()
	clone.order = make([]string, len(g.order))
	copy(clone.order, g.order)
	for id := range g.vertices {
		clone.vertices[id] = &Vertex{ID: id}
		ensureAdjacency(clone, id)
	}
	g.muVert.RUnlock()

	g.muEdgeAdj.RLock()
	defer g.muEdgeAdj.RUnlock()
	atomic.StoreUint64(&clone.nextEdgeID, atomic.LoadUint64(&g.nextEdgeID))

	copied := make(map[string]*Edge, len(g.edges))
	for eid, e := range g.edges {
		ne := *e
		copied[eid] = &ne
		clone.edges[eid] = &ne
	}
	// Rebuild both indexes from the source lists to keep insertion order.
	for id, list := range g.out {
		for _, e := range list {
			clone.out[id] = append(clone.out[id], copied[e.ID])
		}
	}
	for id, list := range g.in {
		for _, e := range list {
			clone.in[id] = append(clone.in[id], copied[e.ID])
		}
	}

	return clone
}
