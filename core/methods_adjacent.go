// File: methods_adjacent.go
// Role: Adjacency queries (OutEdges, InEdges, NeighborIDs) and the adjacency bootstrap helper.
// Determinism:
//   - OutEdges/InEdges return edges in insertion order.
//   - NeighborIDs returns unique IDs in order of first appearance.
// Concurrency:
//   - Queries take muVert then muEdgeAdj read locks, the same order as mutators.

package core

// OutEdges returns the edges leaving id, in insertion order.
// Self-loops appear once; parallel edges appear individually.
//
// Errors:
//   - ErrEmptyVertexID, ErrVertexNotFound.
//
// Complexity: O(d_out).
func (g *Graph) OutEdges(id string) ([]*Edge, error) {
	return g.edgeList(id, true)
}

// InEdges returns the edges entering id, in insertion order.
//
// Errors:
//   - ErrEmptyVertexID, ErrVertexNotFound.
//
// Complexity: O(d_in).
func (g *Graph) InEdges(id string) ([]*Edge, error) {
	return g.edgeList(id, false)
}

// NeighborIDs returns the unique successors of id in order of first appearance.
//
// Errors:
//   - Propagates ErrEmptyVertexID / ErrVertexNotFound from OutEdges(id).
//
// Complexity: O(d_out).
func (g *Graph) NeighborIDs(id string) ([]string, error) {
	edges, err := g.OutEdges(id)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(edges))
	ids := make([]string, 0, len(edges))
	for _, e := range edges {
		if _, ok := seen[e.To]; ok {
			continue
		}
		seen[e.To] = struct{}{}
		ids = append(ids, e.To)
	}

	return ids, nil
}

func (g *Graph) edgeList(id string, outgoing bool) ([]*Edge, error) {
	if id == "" {
		return nil, ErrEmptyVertexID
	}
	g.muVert.RLock()
	defer g.muVert.RUnlock()
	g.muEdgeAdj.RLock()
	defer g.muEdgeAdj.RUnlock()

	if _, ok := g.vertices[id]; !ok {
		return nil, ErrVertexNotFound
	}
	src := g.in[id]
	if outgoing {
		src = g.out[id]
	}
	out := make([]*Edge, len(src))
	copy(out, src)

	return out, nil
}

// ensureAdjacency creates empty adjacency buckets for id; caller holds muEdgeAdj.
func ensureAdjacency(g *Graph, id string) {
	if _, ok := g.out[id]; !ok {
		g.out[id] = nil
	}
	if _, ok := g.in[id]; !ok {
		g.in[id] = nil
	}
}
