// Package hmm assembles the hidden-Markov state graph that aligns a sung pitch
// track with a score.
//
// A Generator walks the score twice. The first pass creates one start state
// and, for every sounding note, a Sound state ("singing this pitch") and a
// Silence state ("between this note and the next"). Rests produce no states.
// The second pass asks each registered source.Source, in order, where a note
// may go next:
//
//   - Direct mass becomes a Sound→Sound edge immediately.
//   - Via-silence mass is deferred, then routed Sound→Silence→Sound: the entry
//     edge carries the deferred total, the silence state loops on itself with
//     the self-loop probability, and the exits share the rest in proportion.
//
// Every note's total must be 1 within the tolerance, otherwise the call fails
// with ErrProbabilityExceeds or ErrProbabilityShort and no model is returned.
// The final sounding note may receive no proposals at all; it then ends the
// score with no outgoing edges.
//
// All weights are natural-log probabilities stored in a core.Graph:
//
//	g := hmm.NewGenerator(hmm.WithLogger(logger))
//	g.Add(source.Advance{Direct: 0.7, ViaSilence: 0.2})
//	g.Add(source.Remainder{})
//	model, start, err := g.Generate(score)
//
// Defaults:
//
//	silence self-loop  0.3
//	tolerance          0.01
//	emission           emission package defaults (σ = 0.5, CDF kernel)
//
// A Generator is read-only after configuration and may serve concurrent
// Generate calls; a returned Model is immutable.
package hmm
