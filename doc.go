// Package pitchhmm builds the hidden-Markov state graph that a decoder uses to
// align a sung pitch track with a known score.
//
// 🚀 What is in the box?
//
//	For every sounding note the model holds a Sound state ("singing this
//	pitch") and a Silence state ("between this note and the next"), plus one
//	Start state. Pluggable probability sources decide where each note may go
//	next, directly or through silence; the generator checks every note's
//	budget, renormalizes the silence mass, and stores log-weighted edges.
//
// Under the hood:
//
//	note/       — Note, Sequence, pitch-class and frequency helpers
//	emission/   — sound and silence emission log-likelihoods
//	source/     — the probability-source protocol and built-in sources
//	hmm/        — Generator (two-pass assembly), Model, State, Renormalize
//	core/       — thread-safe directed multigraph storing the model's edges
//	bfs/        — breadth-first reachability over a core.Graph
//	metrics/    — Prometheus observer for generation runs
//	config/     — YAML configuration and training-data directory resolution
//	cmd/pitchhmm — command-line front end (generate, emission)
//
// Quick start:
//
//	g := hmm.NewGenerator()
//	g.Add(source.Advance{Direct: 0.7, ViaSilence: 0.2})
//	g.Add(source.Remainder{})
//	model, start, err := g.Generate(score)
//
// Install:
//
//	go get github.com/katalvlaran/pitchhmm
package pitchhmm
