package note

import (
	"errors"
	"fmt"
	"math"
)

// ErrBadFrequency indicates a frequency that is not a positive finite number.
var ErrBadFrequency = errors.New("note: frequency must be positive and finite")

// Concert pitch reference: A4 = MIDI 69 = 440 Hz.
const (
	referenceHz   = 440.0
	referenceMIDI = 69.0
)

var names = [PitchClasses]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// Name returns the pitch-class name ("C".."B") of a MIDI note number.
func Name(noteNumber int) string {
	return names[PitchClass(noteNumber)]
}

// MIDI returns the continuous MIDI note value of hz (69 for 440 Hz).
func MIDI(hz float64) (float64, error) {
	if !(hz > 0) || math.IsInf(hz, 1) {
		return 0, fmt.Errorf("%w: %v", ErrBadFrequency, hz)
	}

	return referenceMIDI + PitchClasses*math.Log2(hz/referenceHz), nil
}

// HzToMIDI returns the nearest MIDI note number of hz.
func HzToMIDI(hz float64) (int, error) {
	m, err := MIDI(hz)
	if err != nil {
		return 0, err
	}

	return int(math.Round(m)), nil
}

// NormalizedPitch folds hz into a continuous pitch class in [0, 12).
// This is the value an emission model compares against a note's pitch class.
func NormalizedPitch(hz float64) (float64, error) {
	m, err := MIDI(hz)
	if err != nil {
		return 0, err
	}
	x := math.Mod(m, PitchClasses)
	if x < 0 {
		x += PitchClasses
	}
	if x >= PitchClasses {
		x = 0
	}

	return x, nil
}
