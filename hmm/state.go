package hmm

import (
	"strconv"

	"github.com/katalvlaran/pitchhmm/emission"
)

// Kind distinguishes the three state variants.
type Kind uint8

const (
	// KindStart is the single entry state; it emits like a silence state.
	KindStart Kind = iota

	// KindSound means "currently singing this note's pitch".
	KindSound

	// KindSilence means "currently silent, between this note and the next".
	KindSilence
)

// String returns "start", "sound" or "silence".
func (k Kind) String() string {
	switch k {
	case KindStart:
		return "start"
	case KindSound:
		return "sound"
	case KindSilence:
		return "silence"
	}

	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// startID is the vertex ID of the start state.
const startID = "start"

// State is one hidden state. Identity is unique per (Kind, NoteIndex).
type State struct {
	id         string
	kind       Kind
	noteIndex  int
	pitchClass int
	emit       emission.Func
}

func newStart(emit emission.Func) *State {
	return &State{id: startID, kind: KindStart, noteIndex: -1, pitchClass: -1, emit: emit}
}

func newNoteState(kind Kind, noteIndex, pitchClass int, emit emission.Func) *State {
	return &State{
		id:         stateID(kind, noteIndex),
		kind:       kind,
		noteIndex:  noteIndex,
		pitchClass: pitchClass,
		emit:       emit,
	}
}

// stateID renders "sound/<i>" or "silence/<i>".
func stateID(kind Kind, noteIndex int) string {
	return kind.String() + "/" + strconv.Itoa(noteIndex)
}

// ID returns the state's graph vertex ID.
func (s *State) ID() string { return s.id }

// Kind returns the state variant.
func (s *State) Kind() Kind { return s.kind }

// NoteIndex returns the owning note's index, or -1 for the start state.
func (s *State) NoteIndex() int { return s.noteIndex }

// PitchClass returns the owning note's pitch class, or -1 for the start state.
func (s *State) PitchClass() int { return s.pitchClass }

// LogLikelihood returns the emission log-likelihood of e in this state.
func (s *State) LogLikelihood(e emission.Emission) float64 { return s.emit(e) }

// String returns the state ID.
func (s *State) String() string { return s.id }
