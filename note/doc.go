// Package note models the score side of a pitch model: an ordered sequence
// of notes, each either a rest or a sounding note with a pitch class in
// [0, 11], plus the small pitch conversions a decoder needs to turn a
// frequency track into normalized pitch values.
//
// ⚙️ Usage:
//
//	seq := note.Sequence{
//	  note.Sounding(0, 0, 60),   // C4
//	  note.Sounding(1, 480, 67), // G4
//	  note.Rest(2, 960),
//	}
//	if err := seq.Validate(); err != nil { ... }
//
//	x, err := note.NormalizedPitch(440) // 9.0 (A)
//
// Positions follow the usual sequencer convention of 480 ticks per quarter note.
package note
