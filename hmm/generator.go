// SPDX-License-Identifier: MIT
// Package: pitchhmm/hmm
//
// generator.go — two-pass assembly of a Model from a score and ordered sources.
//
// Pass 1: create start, then sound and silence states for every sounding note.
// Pass 2: per sounding note, consult sources in registration order, add direct
//         edges immediately, defer via-silence mass, check the budget, then
//         renormalize the deferred mass onto the silence state.
//
// Determinism:
//   • Same score, same sources, same options ⇒ identical states and edge order.
//
// Concurrency:
//   • Configure with Add before use. Generate only reads the generator and
//     shares nothing between calls, so one Generator may serve many goroutines.

package hmm

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/katalvlaran/pitchhmm/emission"
	"github.com/katalvlaran/pitchhmm/note"
	"github.com/katalvlaran/pitchhmm/source"
)

// Generator builds Models from scores using an ordered list of sources.
type Generator struct {
	sources []source.Source
	cfg     config
}

// NewGenerator returns a Generator with no sources.
func NewGenerator(opts ...Option) *Generator {
	return &Generator{cfg: newConfig(opts...)}
}

// Add registers src after the existing sources. Panics on nil.
func (g *Generator) Add(src source.Source) {
	if src == nil {
		panic("hmm: Add(nil) source")
	}
	g.sources = append(g.sources, src)
}

// Sources returns the number of registered sources.
func (g *Generator) Sources() int { return len(g.sources) }

// Generate builds the state graph for notes and returns it with its start state.
//
// Errors (no partial model is ever returned):
//   - ErrInvalidNotes: duplicate sounding index or pitch class out of range.
//   - ErrMalformedProbability: a proposed probability outside [0, 1].
//   - ErrStateNotFound: a proposal targets a rest or an absent index.
//   - ErrProbabilityExceeds / ErrProbabilityShort (both ErrBudget): a note's
//     total is outside [1 − tolerance, 1 + tolerance].
//
// Complexity: O(N·R) for N notes and R results per note, plus source cost.
func (g *Generator) Generate(notes note.Sequence) (*Model, *State, error) {
	began := time.Now()
	m, err := g.generate(notes)

	report := Report{Notes: len(notes), Duration: time.Since(began), Err: err}
	if err != nil {
		g.cfg.logger.Warn("hmm: generation failed", slog.Int("notes", len(notes)), slog.Any("error", err))
		g.cfg.observer.ObserveGeneration(report)

		return nil, nil, err
	}
	report.Stats = m.Stats()
	g.cfg.logger.Info("hmm: model generated",
		slog.Int("notes", report.Stats.Notes),
		slog.Int("states", report.Stats.States()),
		slog.Int("edges", report.Stats.Edges),
		slog.Duration("took", report.Duration),
	)
	g.cfg.observer.ObserveGeneration(report)

	return m, m.start, nil
}

func (g *Generator) generate(notes note.Sequence) (*Model, error) {
	seq := make(note.Sequence, len(notes))
	copy(seq, notes)
	if err := seq.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidNotes, err)
	}

	m := newModel(seq)
	if err := g.createStates(m); err != nil {
		return nil, err
	}
	for pos, n := range seq {
		if n.Rest {
			continue
		}
		if err := g.assemble(m, pos); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// createStates is pass 1.
func (g *Generator) createStates(m *Model) error {
	silence := emission.Silence(g.cfg.emissionOpts...)
	if err := m.addState(newStart(silence)); err != nil {
		return err
	}
	for _, n := range m.notes {
		if n.Rest {
			continue
		}
		sound, err := emission.Sound(n.PitchClass, g.cfg.emissionOpts...)
		if err != nil {
			return fmt.Errorf("%w: note %d: %w", ErrInvalidNotes, n.Index, err)
		}
		if err = m.addState(newNoteState(KindSound, n.Index, n.PitchClass, sound)); err != nil {
			return err
		}
		if err = m.addState(newNoteState(KindSilence, n.Index, n.PitchClass, silence)); err != nil {
			return err
		}
	}

	return nil
}

// deferred is one via-silence proposal awaiting renormalization.
type deferred struct {
	to *State
	p  float64
}

// assemble is pass 2 for the sounding note at slice position pos.
func (g *Generator) assemble(m *Model, pos int) error {
	n := m.notes[pos]
	s := m.sound[n.Index]
	sil := m.silence[n.Index]

	remaining := 1.0
	viaTotal := 0.0
	var via []deferred
	directEdges := 0

	for i, src := range g.sources {
		results := src.Propose(source.NewContext(m.notes, pos, remaining, viaTotal))
		for _, r := range results {
			if r.Direct != 0 {
				to, err := g.target(m, n, i, r.ToNoteIndex, r.Direct)
				if err != nil {
					return err
				}
				if err = m.connect(s, to, math.Log(r.Direct)); err != nil {
					return err
				}
				remaining -= r.Direct
				directEdges++
			}
			if r.ViaSilence != 0 {
				to, err := g.target(m, n, i, r.ToNoteIndex, r.ViaSilence)
				if err != nil {
					return err
				}
				via = append(via, deferred{to: to, p: r.ViaSilence})
				viaTotal += r.ViaSilence
			}
		}
	}

	if directEdges == 0 && viaTotal == 0 && m.notes.NextSounding(pos) < 0 {
		// final sounding note with nothing proposed: it ends the score.
		g.cfg.logger.Debug("hmm: terminal note", slog.Int("note", n.Index))

		return nil
	}

	remaining -= viaTotal
	switch {
	case remaining < -g.cfg.tolerance:
		return fmt.Errorf("%w: note %d: total %.6f", ErrProbabilityExceeds, n.Index, 1-remaining)
	case remaining > g.cfg.tolerance:
		return fmt.Errorf("%w: note %d: total %.6f", ErrProbabilityShort, n.Index, 1-remaining)
	}

	if viaTotal > 0 {
		probs := make([]float64, len(via))
		for i, d := range via {
			probs[i] = d.p
		}
		w, err := Renormalize(g.cfg.selfLoop, probs)
		if err != nil {
			return fmt.Errorf("note %d: %w", n.Index, err)
		}
		if err = m.connect(s, sil, w.Entry); err != nil {
			return err
		}
		if err = m.connect(sil, sil, w.SelfLoop); err != nil {
			return err
		}
		for i, d := range via {
			if err = m.connect(sil, d.to, w.Exits[i]); err != nil {
				return err
			}
		}
	}

	g.cfg.logger.Debug("hmm: note assembled",
		slog.Int("note", n.Index),
		slog.Int("direct_edges", directEdges),
		slog.Int("via_silence", len(via)),
		slog.Float64("via_total", viaTotal),
		slog.Float64("remaining", remaining),
	)

	return nil
}

// target validates p and resolves the sound state of toIndex for source srcPos.
func (g *Generator) target(m *Model, from note.Note, srcPos, toIndex int, p float64) (*State, error) {
	if !validProbability(p) {
		return nil, fmt.Errorf("%w: note %d, source %d: %v", ErrMalformedProbability, from.Index, srcPos, p)
	}
	to, ok := m.sound[toIndex]
	if !ok {
		return nil, fmt.Errorf("%w: note %d, source %d: target index %d", ErrStateNotFound, from.Index, srcPos, toIndex)
	}

	return to, nil
}
