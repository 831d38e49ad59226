package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/katalvlaran/pitchhmm/note"
	"gopkg.in/yaml.v3"
)

// ScoreConfig names one score, given inline or as a file in the training-data directory.
type ScoreConfig struct {
	Name  string       `json:"name" yaml:"name"`
	File  string       `json:"file,omitempty" yaml:"file,omitempty"`
	Notes []NoteConfig `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// NoteConfig is one score entry. Number is a MIDI note number; a rest has none.
type NoteConfig struct {
	Index    int  `json:"index" yaml:"index"`
	Position int  `json:"position" yaml:"position"`
	Number   *int `json:"number,omitempty" yaml:"number,omitempty"`
	Rest     bool `json:"rest,omitempty" yaml:"rest,omitempty"`
}

func (s ScoreConfig) validate() error {
	if s.Name == "" {
		return errors.New("name required")
	}
	if (s.File == "") == (len(s.Notes) == 0) {
		return fmt.Errorf("score %q: exactly one of file or notes required", s.Name)
	}

	return validateNotes(s.Notes)
}

func validateNotes(notes []NoteConfig) error {
	for i, n := range notes {
		if n.Rest == (n.Number != nil) {
			return fmt.Errorf("notes[%d]: exactly one of number or rest required", i)
		}
	}

	return nil
}

// NeedsTrainingData reports whether any score is stored in a file.
func (c *Config) NeedsTrainingData() bool {
	for _, s := range c.Scores {
		if s.File != "" {
			return true
		}
	}

	return false
}

// Sequence converts the score to notes, reading File relative to dataDir.
func (s ScoreConfig) Sequence(dataDir string) (note.Sequence, error) {
	notes := s.Notes
	if s.File != "" {
		loaded, err := readScoreFile(filepath.Join(dataDir, s.File))
		if err != nil {
			return nil, fmt.Errorf("score %q: %w", s.Name, err)
		}
		notes = loaded
	}

	return toSequence(notes), nil
}

// readScoreFile decodes a YAML list of NoteConfig.
func readScoreFile(path string) ([]NoteConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	var notes []NoteConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err = dec.Decode(&notes); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err = validateNotes(notes); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
	}

	return notes, nil
}

func toSequence(notes []NoteConfig) note.Sequence {
	seq := make(note.Sequence, len(notes))
	for i, n := range notes {
		if n.Rest {
			seq[i] = note.Rest(n.Index, n.Position)
			continue
		}
		seq[i] = note.Sounding(n.Index, n.Position, *n.Number)
	}

	return seq
}
