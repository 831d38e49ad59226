// SPDX-License-Identifier: MIT
// Package: pitchhmm/hmm
//
// errors.go — sentinel errors for the hmm package.
//
// Error policy:
//   • Only sentinel variables are exposed; callers branch with errors.Is.
//   • Implementations attach context (note index, source position) with %w.
//   • Every error aborts the whole Generate call; no partial model is returned.

package hmm

import (
	"errors"
	"fmt"
)

// ErrMalformedProbability indicates a source returned a probability outside [0, 1] (or NaN).
var ErrMalformedProbability = errors.New("hmm: probability out of range")

// ErrBudget is the class of per-note budget violations: the total proposed
// for a note is outside [1 − tolerance, 1 + tolerance].
var ErrBudget = errors.New("hmm: probability budget violated")

// ErrProbabilityExceeds indicates a note was allocated more than 1 (beyond tolerance).
var ErrProbabilityExceeds = fmt.Errorf("%w: allocated probability exceeds 1", ErrBudget)

// ErrProbabilityShort indicates a note was allocated less than 1 (beyond tolerance).
var ErrProbabilityShort = fmt.Errorf("%w: allocated probability does not reach 1", ErrBudget)

// ErrStateNotFound indicates a proposal targets a note index that has no sound state
// (a rest, or an index absent from the score).
var ErrStateNotFound = errors.New("hmm: target state not found")

// ErrInvalidNotes indicates the score itself is malformed (see note.Sequence.Validate).
var ErrInvalidNotes = errors.New("hmm: invalid note sequence")

// ErrNoViaSilenceMass indicates Renormalize was called without positive via-silence mass.
var ErrNoViaSilenceMass = errors.New("hmm: no via-silence probability to renormalize")
