// Package core provides the thread-safe, in-memory directed multigraph that
// stores a generated state model.
//
// Vertices are states, edges are log-weighted transitions between them:
//
//   - Directed only: an edge From→To is never mirrored.
//   - Float weights: natural-log probabilities; NaN and +Inf are rejected,
//     −Inf (an impossible transition) is accepted.
//   - Parallel edges (WithMultiEdges): every AddEdge appends, edges between the
//     same ordered pair are never merged.
//   - Self-loops (WithLoops).
//   - Collision-free, monotonic Edge.ID generation ("e1", "e2", …).
//   - Separate sync.RWMutex for vertices (muVert) and edges+adjacency (muEdgeAdj).
//
// Determinism:
//
//	Vertices() lists IDs in insertion order.
//	Edges(), OutEdges(id), InEdges(id) list edges in insertion order.
//
// Core Methods:
//
//	AddVertex(id string) error                               // O(1)
//	HasVertex(id string) bool                                // O(1)
//	AddEdge(from, to string, weight float64) (string, error) // O(1)†
//	HasEdge(from, to string) bool                            // O(d)
//	GetEdge(id string) (*Edge, error)                        // O(1)
//	OutEdges(id string) ([]*Edge, error)                     // O(d_out)
//	InEdges(id string) ([]*Edge, error)                      // O(d_in)
//	NeighborIDs(id string) ([]string, error)                 // O(d_out)
//	Degree(id string) (in, out int, err error)               // O(1)
//	Clone() *Graph                                           // O(V+E)
//	Stats() *GraphStats                                      // O(V+E)
//
// Errors:
//
//	ErrEmptyVertexID       – zero-length vertex ID
//	ErrVertexNotFound      – missing vertex
//	ErrEdgeNotFound        – missing edge
//	ErrBadWeight           – NaN or +Inf weight
//	ErrLoopNotAllowed      – self-loop when loops disabled
//	ErrMultiEdgeNotAllowed – parallel edge when multi-edges disabled
//
//	† amortized: atomic ID generation + map/slice insertion.
package core
