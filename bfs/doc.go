// Package bfs provides breadth-first search over a core.Graph,
// returning hop distances, parent links, and visit order.
//
// What
//
//   - Explore vertices in non-decreasing hop count from a start vertex,
//     following outgoing edges only.
//   - Returns a BFSResult containing Order, Depth and Parent.
//   - Edges can be pruned with WithEdgeFilter; a common filter is
//     SkipImpossible, which ignores −Inf log-weights.
//   - Honors MaxDepth limit (d>0) or explicit “no limit” (d==0).
//   - OnVisit may abort the walk with an error.
//
// Why
//
//   - Reachability diagnostics over generated state models: a state that
//     cannot be reached from the entry states can never be aligned.
//
// Determinism
//
//	core.OutEdges returns edges in insertion order and BFS enqueues neighbors
//	in that order, so the visit sequence is fully reproducible.
//
// Complexity (V = |Vertices|, E = |Edges|)
//
//   - Time:   O(V + E)
//   - Memory: O(V)
package bfs
