// File: methods_vertices.go
// Role: Vertex lifecycle & queries.
//
// Determinism:
//   - Vertices() returns IDs in insertion order.
//
// Concurrency:
//   - Vertex catalog protected by muVert.
//   - Adjacency bootstrap under muEdgeAdj (to keep adjacency invariants consistent).
package core

// AddVertex inserts a vertex if missing (idempotent).
//
// Implementation:
//   - Stage 1: Validate non-empty ID (ErrEmptyVertexID).
//   - Stage 2: Under muVert write lock, check presence; if missing, register it and record its order.
//   - Stage 3: Under muEdgeAdj write lock, bootstrap adjacency buckets.
//
// Complexity:
//   - Time O(1) amortized, Space O(1).
func (g *Graph) AddVertex(id string) error {
	if id == "" {
		return ErrEmptyVertexID
	}

	g.muVert.Lock()
	if _, exists := g.vertices[id]; exists {
		g.muVert.Unlock()
		return nil
	}
	g.vertices[id] = &Vertex{ID: id}
	g.order = append(g.order, id)
	g.muVert.Unlock()

	g.muEdgeAdj.Lock()
	ensureAdjacency(g, id)
	g.muEdgeAdj.Unlock()

	return nil
}

// HasVertex reports whether the graph contains a vertex with the given ID.
// Complexity: O(1).
func (g *Graph) HasVertex(id string) bool {
	if id == "" {
		return false
	}
	g.muVert.RLock()
	defer g.muVert.RUnlock()

	_, ok := g.vertices[id]

	return ok
}

// Vertices returns all vertex IDs in insertion order.
// The returned slice is a copy; callers may modify it freely.
// Complexity: O(V).
func (g *Graph) Vertices() []string {
	g.muVert.RLock()
	defer g.muVert.RUnlock()

	out := make([]string, len(g.order))
	copy(out, g.order)

	return out
}

// VertexCount returns the number of vertices.
// Complexity: O(1).
func (g *Graph) VertexCount() int {
	g.muVert.RLock()
	defer g.muVert.RUnlock()

	return len(g.vertices)
}

// Degree returns the number of incoming and outgoing edges of id.
// A self-loop counts once in each direction; parallel edges count individually.
//
// Errors:
//   - ErrEmptyVertexID, ErrVertexNotFound.
//
// Complexity: O(1).
func (g *Graph) Degree(id string) (in, out int, err error) {
	if id == "" {
		return 0, 0, ErrEmptyVertexID
	}
	if !g.HasVertex(id) {
		return 0, 0, ErrVertexNotFound
	}
	g.muEdgeAdj.RLock()
	defer g.muEdgeAdj.RUnlock()

	return len(g.in[id]), len(g.out[id]), nil
}
