package note

import (
	"errors"
	"fmt"
)

// PitchClasses is the number of pitch classes in an octave.
const PitchClasses = 12

// TicksPerQuarter is the position resolution of a quarter note.
const TicksPerQuarter = 480

var (
	// ErrDuplicateIndex indicates two sounding notes share an Index.
	ErrDuplicateIndex = errors.New("note: duplicate note index")

	// ErrPitchClassOutOfRange indicates a sounding note with a pitch class outside [0, 11].
	ErrPitchClassOutOfRange = errors.New("note: pitch class out of range")
)

// Note is one entry of a score. Rest notes carry no pitch.
type Note struct {
	// Index identifies the note inside its score.
	Index int

	// Position is the start tick (TicksPerQuarter per quarter note).
	Position int

	// PitchClass is in [0, 11]; meaningless when Rest is true.
	PitchClass int

	// Rest marks a silent note.
	Rest bool
}

// Sounding returns a sounding note; noteNumber is any MIDI note number and
// is reduced to its pitch class.
func Sounding(index, position, noteNumber int) Note {
	return Note{Index: index, Position: position, PitchClass: PitchClass(noteNumber)}
}

// Rest returns a rest note.
func Rest(index, position int) Note {
	return Note{Index: index, Position: position, Rest: true}
}

// String renders the note as "#<index>@<position>:<name>" or "#<index>@<position>:rest".
func (n Note) String() string {
	if n.Rest {
		return fmt.Sprintf("#%d@%d:rest", n.Index, n.Position)
	}

	return fmt.Sprintf("#%d@%d:%s", n.Index, n.Position, Name(n.PitchClass))
}

// PitchClass reduces a MIDI note number to [0, 11]; negative numbers wrap.
func PitchClass(noteNumber int) int {
	pc := noteNumber % PitchClasses
	if pc < 0 {
		pc += PitchClasses
	}

	return pc
}

// Sequence is an ordered score. Navigation methods take slice positions, not note indices.
type Sequence []Note

// Validate checks that sounding notes have unique indices and pitch classes in range.
// Rests are not checked: they produce no states.
// Complexity: O(n).
func (s Sequence) Validate() error {
	seen := make(map[int]int, len(s))
	for pos, n := range s {
		if n.Rest {
			continue
		}
		if n.PitchClass < 0 || n.PitchClass >= PitchClasses {
			return fmt.Errorf("%w: note %d at position %d has pitch class %d", ErrPitchClassOutOfRange, n.Index, pos, n.PitchClass)
		}
		if prev, ok := seen[n.Index]; ok {
			return fmt.Errorf("%w: index %d at positions %d and %d", ErrDuplicateIndex, n.Index, prev, pos)
		}
		seen[n.Index] = pos
	}

	return nil
}

// Sounding returns only the sounding notes, in order.
func (s Sequence) Sounding() Sequence {
	out := make(Sequence, 0, len(s))
	for _, n := range s {
		if !n.Rest {
			out = append(out, n)
		}
	}

	return out
}

// NextSounding returns the slice position of the first sounding note after pos, or -1.
func (s Sequence) NextSounding(pos int) int {
	for i := pos + 1; i < len(s); i++ {
		if i >= 0 && !s[i].Rest {
			return i
		}
	}

	return -1
}

// PrevSounding returns the slice position of the last sounding note before pos, or -1.
func (s Sequence) PrevSounding(pos int) int {
	if pos > len(s) {
		pos = len(s)
	}
	for i := pos - 1; i >= 0; i-- {
		if !s[i].Rest {
			return i
		}
	}

	return -1
}
