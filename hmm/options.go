// SPDX-License-Identifier: MIT
// Package: pitchhmm/hmm
//
// options.go — functional options and deterministic defaults for Generator.
//
// Contract:
//   • Option constructors VALIDATE and PANIC on meaningless inputs.
//     Generate itself never panics; it returns sentinel errors.
//   • Defaults reproduce the trained model: silence self-loop 0.3, tolerance 0.01.
//   • No hidden globals; everything flows through config.

package hmm

import (
	"log/slog"
	"math"

	"github.com/katalvlaran/pitchhmm/emission"
)

// Deterministic defaults.
const (
	// DefaultSilenceSelfLoop is the chance a silence state re-observes itself
	// (noise holding the decoder in silence) instead of advancing.
	DefaultSilenceSelfLoop = 0.3

	// DefaultTolerance absorbs floating-point drift in the per-note total, not modeling error.
	DefaultTolerance = 0.01
)

// Option customizes a Generator.
type Option func(*config)

type config struct {
	selfLoop     float64
	tolerance    float64
	emissionOpts []emission.Option
	logger       *slog.Logger
	observer     Observer
}

func newConfig(opts ...Option) config {
	cfg := config{
		selfLoop:  DefaultSilenceSelfLoop,
		tolerance: DefaultTolerance,
		logger:    slog.New(slog.DiscardHandler),
		observer:  nopObserver{},
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

// WithSilenceSelfLoop sets the silence self-loop probability, 0 < p < 1.
func WithSilenceSelfLoop(p float64) Option {
	if !(p > 0 && p < 1) {
		panic("hmm: WithSilenceSelfLoop(p) requires 0 < p < 1")
	}
	return func(c *config) { c.selfLoop = p }
}

// WithTolerance sets the accepted deviation of a note's total from 1, t ≥ 0.
func WithTolerance(t float64) Option {
	if !(t >= 0) || math.IsInf(t, 1) {
		panic("hmm: WithTolerance(t) requires a finite t >= 0")
	}
	return func(c *config) { c.tolerance = t }
}

// WithEmission forwards options to every emission function the generator builds.
func WithEmission(opts ...emission.Option) Option {
	return func(c *config) { c.emissionOpts = append(c.emissionOpts, opts...) }
}

// WithLogger sets the structured logger. Panics on nil.
func WithLogger(l *slog.Logger) Option {
	if l == nil {
		panic("hmm: WithLogger(nil)")
	}
	return func(c *config) { c.logger = l }
}

// WithObserver registers a hook that sees every Generate outcome. Panics on nil.
func WithObserver(o Observer) Option {
	if o == nil {
		panic("hmm: WithObserver(nil)")
	}
	return func(c *config) { c.observer = o }
}
