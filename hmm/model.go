// SPDX-License-Identifier: MIT
// Package: pitchhmm/hmm
//
// model.go — the immutable product of Generate.
//
// Storage:
//   • States live in creation order (start, then sound/silence per sounding note).
//   • Edges live in a core.Graph keyed by State.ID with log-probability weights.
//     Parallel edges are kept; incoming edges per target stay in insertion order.
//
// Concurrency:
//   • A Model is never mutated after Generate returns; all getters are safe
//     for concurrent use.

package hmm

import (
	"fmt"
	"math"

	"github.com/katalvlaran/pitchhmm/bfs"
	"github.com/katalvlaran/pitchhmm/core"
	"github.com/katalvlaran/pitchhmm/note"
)

// Edge is a weighted transition between two states of a Model.
type Edge struct {
	From      *State
	To        *State
	LogWeight float64
}

// Stats summarizes a Model.
type Stats struct {
	Notes         int `json:"notes" yaml:"notes"`
	SoundStates   int `json:"sound_states" yaml:"sound_states"`
	SilenceStates int `json:"silence_states" yaml:"silence_states"`
	Edges         int `json:"edges" yaml:"edges"`
	SelfLoops     int `json:"self_loops" yaml:"self_loops"`
}

// States returns the total number of states, start included.
func (s Stats) States() int { return 1 + s.SoundStates + s.SilenceStates }

// Model is a generated state graph.
type Model struct {
	notes   note.Sequence
	graph   *core.Graph
	states  []*State
	byID    map[string]*State
	sound   map[int]*State
	silence map[int]*State
	start   *State
}

func newModel(notes note.Sequence) *Model {
	return &Model{
		notes:   notes,
		graph:   core.NewGraph(core.WithMultiEdges(), core.WithLoops()),
		byID:    make(map[string]*State, 2*len(notes)+1),
		sound:   make(map[int]*State, len(notes)),
		silence: make(map[int]*State, len(notes)),
	}
}

// addState registers s as a vertex. IDs are unique by construction.
func (m *Model) addState(s *State) error {
	if err := m.graph.AddVertex(s.id); err != nil {
		return err
	}
	m.states = append(m.states, s)
	m.byID[s.id] = s
	switch s.kind {
	case KindStart:
		m.start = s
	case KindSound:
		m.sound[s.noteIndex] = s
	case KindSilence:
		m.silence[s.noteIndex] = s
	}

	return nil
}

// connect appends an edge from → to with log-weight w.
func (m *Model) connect(from, to *State, w float64) error {
	if _, err := m.graph.AddEdge(from.id, to.id, w); err != nil {
		return fmt.Errorf("hmm: edge %s→%s: %w", from.id, to.id, err)
	}

	return nil
}

// Start returns the start state.
func (m *Model) Start() *State { return m.start }

// Sound returns the sound state of the note with the given index.
func (m *Model) Sound(noteIndex int) (*State, bool) {
	s, ok := m.sound[noteIndex]

	return s, ok
}

// Silence returns the silence state of the note with the given index.
func (m *Model) Silence(noteIndex int) (*State, bool) {
	s, ok := m.silence[noteIndex]

	return s, ok
}

// State looks a state up by its ID.
func (m *Model) State(id string) (*State, bool) {
	s, ok := m.byID[id]

	return s, ok
}

// States returns every state in creation order. The slice is a copy.
func (m *Model) States() []*State {
	out := make([]*State, len(m.states))
	copy(out, m.states)

	return out
}

// Notes returns a copy of the score the model was generated from.
func (m *Model) Notes() note.Sequence {
	out := make(note.Sequence, len(m.notes))
	copy(out, m.notes)

	return out
}

// IncomingEdges returns the edges ending at s, in insertion order.
// Returns ErrStateNotFound if s does not belong to this model.
func (m *Model) IncomingEdges(s *State) ([]Edge, error) {
	if err := m.owns(s); err != nil {
		return nil, err
	}
	raw, err := m.graph.InEdges(s.id)
	if err != nil {
		return nil, err
	}

	return m.wrap(raw), nil
}

// OutgoingEdges returns the edges leaving s, in insertion order.
// Returns ErrStateNotFound if s does not belong to this model.
func (m *Model) OutgoingEdges(s *State) ([]Edge, error) {
	if err := m.owns(s); err != nil {
		return nil, err
	}
	raw, err := m.graph.OutEdges(s.id)
	if err != nil {
		return nil, err
	}

	return m.wrap(raw), nil
}

// Graph returns a deep copy of the underlying graph; vertex IDs are State IDs.
func (m *Model) Graph() *core.Graph { return m.graph.Clone() }

// Stats summarizes the model.
// Complexity: O(V+E).
func (m *Model) Stats() Stats {
	gs := m.graph.Stats()

	return Stats{
		Notes:         len(m.notes),
		SoundStates:   len(m.sound),
		SilenceStates: len(m.silence),
		Edges:         gs.EdgeCount,
		SelfLoops:     gs.LoopCount,
	}
}

// Unreachable returns, in creation order, the sound states that no path of
// edges reaches from the given entry states. Silence
// states are not reported: one without edges is simply unused.
// With no entries, the search starts from the start state and the sound state
// of the first sounding note, which is where a decoder enters the score.
// Complexity: O(V+E).
func (m *Model) Unreachable(from ...*State) ([]*State, error) {
	starts := make([]string, 0, 2)
	if len(from) == 0 {
		starts = append(starts, m.start.id)
		if p := m.notes.NextSounding(-1); p >= 0 {
			starts = append(starts, stateID(KindSound, m.notes[p].Index))
		}
	}
	for _, s := range from {
		if err := m.owns(s); err != nil {
			return nil, err
		}
		starts = append(starts, s.id)
	}

	res, err := bfs.MultiBFS(m.graph, starts)
	if err != nil {
		return nil, fmt.Errorf("hmm: reachability: %w", err)
	}

	var out []*State
	for _, s := range m.states {
		if s.kind == KindSound && !res.Reached(s.id) {
			out = append(out, s)
		}
	}

	return out, nil
}

// owns reports ErrStateNotFound unless s is one of this model's states.
func (m *Model) owns(s *State) error {
	if s == nil || m.byID[s.id] != s {
		return fmt.Errorf("%w: %v", ErrStateNotFound, s)
	}

	return nil
}

func (m *Model) wrap(raw []*core.Edge) []Edge {
	out := make([]Edge, len(raw))
	for i, e := range raw {
		out[i] = Edge{From: m.byID[e.From], To: m.byID[e.To], LogWeight: e.Weight}
	}

	return out
}

// TransitionProbability returns Σ exp(w) over the outgoing edges of s.
// An assembled sound state sums to 1 within the generator's tolerance, a
// silence state with edges sums to 1, and a state without edges sums to 0.
func (m *Model) TransitionProbability(s *State) (float64, error) {
	edges, err := m.OutgoingEdges(s)
	if err != nil {
		return 0, err
	}
	sum := 0.0
	for _, e := range edges {
		sum += math.Exp(e.LogWeight)
	}

	return sum, nil
}
