// Package core defines the central Graph, Vertex, and Edge types,
// and provides thread-safe primitives for building, querying, and cloning graphs.
//
// This file declares Vertex, Edge, Graph, GraphOption,
// sentinel errors, and the NewGraph constructor.
package core

import (
	"errors"
	"sync"
)

// Sentinel errors for core graph operations.
var (
	// ErrEmptyVertexID indicates that the provided vertex ID is empty.
	ErrEmptyVertexID = errors.New("core: vertex ID is empty")

	// ErrVertexNotFound indicates an operation referenced a non-existent vertex.
	ErrVertexNotFound = errors.New("core: vertex not found")

	// ErrEdgeNotFound indicates an operation referenced a non-existent edge.
	ErrEdgeNotFound = errors.New("core: edge not found")

	// ErrBadWeight indicates a weight that is not a usable log-probability (NaN or +Inf).
	ErrBadWeight = errors.New("core: bad edge weight")

	// ErrLoopNotAllowed indicates a self-loop was attempted when loops are disabled.
	ErrLoopNotAllowed = errors.New("core: self-loop not allowed")

	// ErrMultiEdgeNotAllowed indicates a parallel edge was attempted when multi-edges are disabled.
	ErrMultiEdgeNotAllowed = errors.New("core: multi-edges not allowed")
)

// Vertex represents a node in the graph.
type Vertex struct {
	// ID is the unique identifier for this Vertex.
	ID string
}

// Edge represents a directed, weighted connection between two vertices.
type Edge struct {
	// ID uniquely identifies this edge in the Graph ("e1", "e2", …).
	ID string

	// Seq is the numeric part of ID; it orders edges by insertion.
	Seq uint64

	// From is the source vertex ID.
	From string

	// To is the destination vertex ID.
	To string

	// Weight is the natural-log probability of taking this edge.
	Weight float64
}

// GraphOption configures behavior of a Graph before creation.
type GraphOption func(g *Graph)

// WithMultiEdges permits parallel edges between the same vertices.
func WithMultiEdges() GraphOption {
	return func(g *Graph) { g.allowMulti = true }
}

// WithLoops permits self-loops (edges from a vertex to itself).
func WithLoops() GraphOption {
	return func(g *Graph) { g.allowLoops = true }
}

// Graph is the core in-memory graph data structure.
//
// muVert protects vertices and their order; muEdgeAdj protects the edge catalog
// and both adjacency indexes. nextEdgeID is an atomic counter for Edge.ID.
type Graph struct {
	muVert    sync.RWMutex // guards vertices, order
	muEdgeAdj sync.RWMutex // guards edges, out, in

	// Configuration flags
	allowMulti bool // allow parallel edges
	allowLoops bool // allow self-loops

	// Storage
	nextEdgeID uint64             // atomic edge ID generator
	vertices   map[string]*Vertex // vertex ID → Vertex
	order      []string           // vertex IDs in insertion order
	edges      map[string]*Edge   // edge ID → Edge

	// out[from] and in[to] hold edges in insertion order.
	out map[string][]*Edge
	in  map[string][]*Edge
}

// NewGraph creates an empty directed Graph with the given options.
// By default no loops and no multi-edges are allowed.
// Complexity: O(1)
func NewGraph(opts ...GraphOption) *Graph {
	g := &Graph{
		vertices: make(map[string]*Vertex),
		edges:    make(map[string]*Edge),
		out:      make(map[string][]*Edge),
		in:       make(map[string][]*Edge),
	}
	for _, opt := range opts {
		opt(g)
	}

	return g
}
