// Package source defines the probability-source protocol consumed by the
// model generator, and a few ready-made sources.
//
// A source is consulted once per sounding note, in registration order. It
// receives a read-only Context (the note, its neighbors, and the probability
// mass that earlier sources left unallocated) and answers with zero or more
// Results. Each Result proposes moving to another note either directly or by
// passing through the current note's silence state.
//
// Remaining is a hint: the generator never clips a source to it, it only
// checks the final total of all sources against 1.
package source

import "github.com/katalvlaran/pitchhmm/note"

// Result is one proposed transition out of a sounding note.
// Either probability may be zero, meaning no contribution of that kind.
type Result struct {
	// ToNoteIndex is the Note.Index of the target sounding note.
	ToNoteIndex int

	// Direct is the probability of moving straight to the target, in [0, 1].
	Direct float64

	// ViaSilence is the probability of moving to the target through silence, in [0, 1].
	ViaSilence float64
}

// Source proposes transitions for one note. A nil or empty answer means "no opinion".
// Implementations must not retain ctx or mutate anything reachable from it.
type Source interface {
	Propose(ctx Context) []Result
}

// Func adapts an ordinary function to the Source interface.
type Func func(ctx Context) []Result

// Propose calls f(ctx).
func (f Func) Propose(ctx Context) []Result { return f(ctx) }

// Context is the immutable view a source gets of the note being processed.
type Context struct {
	notes     note.Sequence
	pos       int
	remaining float64
	deferred  float64
}

// NewContext builds the view of notes[pos]. remaining is 1 minus the direct
// mass claimed so far; deferred is the via-silence mass claimed so far.
// The generator owns notes; NewContext does not copy them.
func NewContext(notes note.Sequence, pos int, remaining, deferred float64) Context {
	return Context{notes: notes, pos: pos, remaining: remaining, deferred: deferred}
}

// Note returns the sounding note being processed.
func (c Context) Note() note.Note { return c.notes[c.pos] }

// Position returns the slice position of Note() within the score.
func (c Context) Position() int { return c.pos }

// Remaining returns 1 minus the direct mass claimed by earlier sources.
// Via-silence mass is only settled after every source has run, so it is not
// subtracted here; see Unclaimed.
func (c Context) Remaining() float64 { return c.remaining }

// Deferred returns the via-silence mass claimed by earlier sources.
func (c Context) Deferred() float64 { return c.deferred }

// Unclaimed returns the mass no earlier source has claimed in either form.
func (c Context) Unclaimed() float64 { return c.remaining - c.deferred }

// Notes returns a copy of the whole score, rests included.
func (c Context) Notes() note.Sequence {
	out := make(note.Sequence, len(c.notes))
	copy(out, c.notes)

	return out
}

// Len returns the number of notes in the score, rests included.
func (c Context) Len() int { return len(c.notes) }

// At returns the note at slice position i.
func (c Context) At(i int) (note.Note, bool) {
	if i < 0 || i >= len(c.notes) {
		return note.Note{}, false
	}

	return c.notes[i], true
}

// Next returns the note immediately after Note(), rest or not.
func (c Context) Next() (note.Note, bool) { return c.At(c.pos + 1) }

// IsLast reports whether Note() is the final entry of the score.
func (c Context) IsLast() bool { return c.pos == len(c.notes)-1 }

// NextSounding returns the k-th sounding note after Note() (k = 1 is the next one).
func (c Context) NextSounding(k int) (note.Note, bool) {
	if k < 1 {
		return note.Note{}, false
	}
	p := c.pos
	for ; k > 0; k-- {
		if p = c.notes.NextSounding(p); p < 0 {
			return note.Note{}, false
		}
	}

	return c.notes[p], true
}

// PrevSounding returns the closest sounding note before Note().
func (c Context) PrevSounding() (note.Note, bool) {
	p := c.notes.PrevSounding(c.pos)
	if p < 0 {
		return note.Note{}, false
	}

	return c.notes[p], true
}
