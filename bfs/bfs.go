// Package bfs provides breadth-first search over a core.Graph,
// returning hop distances, parent links, and visit order.
package bfs

import (
	"context"
	"errors"
	"fmt"

	"github.com/katalvlaran/pitchhmm/core"
)

// ErrNeighbors is returned when fetching outgoing edges from the graph fails.
var ErrNeighbors = errors.New("bfs: neighbor iteration error")

// queueItem pairs a vertex ID with its BFS depth.
type queueItem struct {
	id    string
	depth int
}

// walker encapsulates mutable BFS state.
type walker struct {
	graph *core.Graph
	opts  BFSOptions
	ctx   context.Context
	queue []queueItem
	res   *BFSResult
}

// BFS runs breadth-first search on g starting from startID.
// Returns ErrGraphNil or ErrStartVertexNotFound for invalid input,
// ErrOptionViolation for bad options, ErrNeighbors for graph failures,
// the context error on cancellation, or any OnVisit error.
func BFS(g *core.Graph, startID string, opts ...Option) (*BFSResult, error) {
	return MultiBFS(g, []string{startID}, opts...)
}

// MultiBFS runs one breadth-first search seeded with every ID in starts at depth 0.
// Duplicate starts are visited once.
func MultiBFS(g *core.Graph, starts []string, opts ...Option) (*BFSResult, error) {
	if g == nil {
		return nil, ErrGraphNil
	}
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}
	for _, id := range starts {
		if !g.HasVertex(id) {
			return nil, fmt.Errorf("%w: %q", ErrStartVertexNotFound, id)
		}
	}

	n := g.VertexCount()
	w := &walker{
		graph: g,
		opts:  o,
		ctx:   o.Ctx,
		queue: make([]queueItem, 0, n),
		res: &BFSResult{
			Order:  make([]string, 0, n),
			Depth:  make(map[string]int, n),
			Parent: make(map[string]string, n),
		},
	}
	for _, id := range starts {
		if !w.res.Reached(id) {
			w.enqueue(id, 0, "")
		}
	}

	return w.res, w.loop()
}

// enqueue marks id reached at depth d, records its parent and queues it.
func (w *walker) enqueue(id string, d int, parent string) {
	w.res.Depth[id] = d
	if parent != "" {
		w.res.Parent[id] = parent
	}
	w.queue = append(w.queue, queueItem{id: id, depth: d})
}

// loop processes the queue until empty, error, or cancellation.
func (w *walker) loop() error {
	for len(w.queue) > 0 {
		select {
		case <-w.ctx.Done():
			return w.ctx.Err()
		default:
		}

		item := w.queue[0]
		w.queue = w.queue[1:]
		w.res.Order = append(w.res.Order, item.id)
		if err := w.opts.OnVisit(item.id, item.depth); err != nil {
			return fmt.Errorf("bfs: OnVisit error at %q: %w", item.id, err)
		}
		if err := w.enqueueNeighbors(item); err != nil {
			return err
		}
	}

	return nil
}

// enqueueNeighbors follows filtered outgoing edges and enqueues unseen targets.
func (w *walker) enqueueNeighbors(item queueItem) error {
	nextDepth := item.depth + 1
	if w.opts.MaxDepth > 0 && nextDepth > w.opts.MaxDepth {
		return nil
	}
	edges, err := w.graph.OutEdges(item.id)
	if err != nil {
		return fmt.Errorf("%w: failed to get neighbors of %q: %v", ErrNeighbors, item.id, err)
	}
	for _, e := range edges {
		if !w.opts.EdgeFilter(e) {
			continue
		}
		if !w.res.Reached(e.To) {
			w.enqueue(e.To, nextDepth, item.id)
		}
	}

	return nil
}
