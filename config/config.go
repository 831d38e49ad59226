// Package config loads the YAML configuration of the pitchhmm command:
// generator and emission parameters, the ordered probability sources, and
// the scores to build models for.
//
// Example:
//
//	generator:
//	  silence_self_loop: 0.3
//	  tolerance: 0.01
//	emission:
//	  silent_probability: 0.7
//	  std_dev: 0.5
//	  kernel: cdf
//	sources:
//	  - kind: advance
//	    direct: 0.7
//	    via_silence: 0.2
//	  - kind: remainder
//	scores:
//	  - name: scale
//	    notes:
//	      - {index: 0, position: 0, number: 60}
//	      - {index: 1, position: 480, rest: true}
//	  - name: song
//	    file: song.yaml   # relative to the training-data directory
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/katalvlaran/pitchhmm/emission"
	"github.com/katalvlaran/pitchhmm/hmm"
	"github.com/katalvlaran/pitchhmm/source"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig indicates a configuration value is out of range or inconsistent.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Source kinds accepted in SourceConfig.Kind.
const (
	SourceAdvance   = "advance"
	SourceSkip      = "skip"
	SourceRemainder = "remainder"
)

// Config is the top-level configuration.
//
// Thread Safety: Safe to read concurrently. Not safe to modify after Validate.
type Config struct {
	// Generator contains graph assembly settings.
	Generator GeneratorConfig `json:"generator" yaml:"generator"`

	// Emission contains emission model settings.
	Emission EmissionConfig `json:"emission" yaml:"emission"`

	// Sources are consulted in this order for every note.
	Sources []SourceConfig `json:"sources" yaml:"sources"`

	// Scores are the note sequences to build models for.
	Scores []ScoreConfig `json:"scores" yaml:"scores"`

	// TrainingDataDir is where score files live. Empty means "search".
	TrainingDataDir string `json:"training_data_dir" yaml:"training_data_dir"`
}

// GeneratorConfig contains graph assembly settings.
type GeneratorConfig struct {
	SilenceSelfLoop float64 `json:"silence_self_loop" yaml:"silence_self_loop"`
	Tolerance       float64 `json:"tolerance" yaml:"tolerance"`
}

// EmissionConfig contains emission model settings.
type EmissionConfig struct {
	SilentProbability float64 `json:"silent_probability" yaml:"silent_probability"`
	StdDev            float64 `json:"std_dev" yaml:"std_dev"`
	Kernel            string  `json:"kernel" yaml:"kernel"`
}

// SourceConfig describes one built-in probability source.
type SourceConfig struct {
	Kind       string  `json:"kind" yaml:"kind"`
	Direct     float64 `json:"direct,omitempty" yaml:"direct,omitempty"`
	ViaSilence float64 `json:"via_silence,omitempty" yaml:"via_silence,omitempty"`
	Notes      int     `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// Default returns the configuration of the trained model with a conservative
// source chain and no scores.
func Default() *Config {
	return &Config{
		Generator: GeneratorConfig{
			SilenceSelfLoop: hmm.DefaultSilenceSelfLoop,
			Tolerance:       hmm.DefaultTolerance,
		},
		Emission: EmissionConfig{
			SilentProbability: emission.DefaultSilentProbability,
			StdDev:            emission.DefaultStdDev,
			Kernel:            "cdf",
		},
		Sources: []SourceConfig{
			{Kind: SourceAdvance, Direct: 0.7, ViaSilence: 0.2},
			{Kind: SourceSkip, Notes: 1, ViaSilence: 0.05},
			{Kind: SourceRemainder},
		},
	}
}

// Load reads a YAML file over Default and validates the result.
// Unknown keys are rejected. An empty file yields the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	return Parse(data)
}

// Parse decodes YAML over Default and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks ranges, source kinds and score definitions.
func (c *Config) Validate() error {
	g := c.Generator
	if !(g.SilenceSelfLoop > 0 && g.SilenceSelfLoop < 1) {
		return fmt.Errorf("%w: generator.silence_self_loop %v not in (0, 1)", ErrInvalidConfig, g.SilenceSelfLoop)
	}
	if !(g.Tolerance >= 0 && g.Tolerance < 1) {
		return fmt.Errorf("%w: generator.tolerance %v not in [0, 1)", ErrInvalidConfig, g.Tolerance)
	}

	e := c.Emission
	if !(e.SilentProbability > 0 && e.SilentProbability < 1) {
		return fmt.Errorf("%w: emission.silent_probability %v not in (0, 1)", ErrInvalidConfig, e.SilentProbability)
	}
	if !(e.StdDev > 0) {
		return fmt.Errorf("%w: emission.std_dev %v must be positive", ErrInvalidConfig, e.StdDev)
	}
	if _, ok := emission.KernelByName(e.Kernel); !ok {
		return fmt.Errorf("%w: emission.kernel %q", ErrInvalidConfig, e.Kernel)
	}

	if len(c.Sources) == 0 {
		return fmt.Errorf("%w: no sources", ErrInvalidConfig)
	}
	for i, s := range c.Sources {
		if err := s.validate(); err != nil {
			return fmt.Errorf("%w: sources[%d]: %v", ErrInvalidConfig, i, err)
		}
	}

	names := make(map[string]int, len(c.Scores))
	for i, s := range c.Scores {
		if err := s.validate(); err != nil {
			return fmt.Errorf("%w: scores[%d]: %v", ErrInvalidConfig, i, err)
		}
		if prev, ok := names[s.Name]; ok {
			return fmt.Errorf("%w: scores[%d]: name %q already used by scores[%d]", ErrInvalidConfig, i, s.Name, prev)
		}
		names[s.Name] = i
	}

	return nil
}

func (s SourceConfig) validate() error {
	inRange := func(p float64) bool { return p >= 0 && p <= 1 }
	if !inRange(s.Direct) || !inRange(s.ViaSilence) {
		return fmt.Errorf("%s: probabilities must be in [0, 1]", s.Kind)
	}
	switch s.Kind {
	case SourceAdvance:
		if s.Direct == 0 && s.ViaSilence == 0 {
			return errors.New("advance: direct or via_silence required")
		}
	case SourceSkip:
		if s.Notes < 1 || s.ViaSilence == 0 || s.Direct != 0 {
			return errors.New("skip: notes >= 1 and via_silence required, direct not allowed")
		}
	case SourceRemainder:
		if s.Direct != 0 || s.ViaSilence != 0 || s.Notes != 0 {
			return errors.New("remainder: takes no parameters")
		}
	default:
		return fmt.Errorf("unknown kind %q", s.Kind)
	}

	return nil
}

// HMMOptions translates the generator and emission sections into hmm options.
// Call Validate first.
func (c *Config) HMMOptions() []hmm.Option {
	kernel, _ := emission.KernelByName(c.Emission.Kernel)

	return []hmm.Option{
		hmm.WithSilenceSelfLoop(c.Generator.SilenceSelfLoop),
		hmm.WithTolerance(c.Generator.Tolerance),
		hmm.WithEmission(
			emission.WithSilentProbability(c.Emission.SilentProbability),
			emission.WithStdDev(c.Emission.StdDev),
			emission.WithKernel(kernel),
		),
	}
}

// BuildSources returns the configured sources in order. Call Validate first.
func (c *Config) BuildSources() []source.Source {
	out := make([]source.Source, 0, len(c.Sources))
	for _, s := range c.Sources {
		switch s.Kind {
		case SourceAdvance:
			out = append(out, source.Advance{Direct: s.Direct, ViaSilence: s.ViaSilence})
		case SourceSkip:
			out = append(out, source.Skip{Notes: s.Notes, ViaSilence: s.ViaSilence})
		case SourceRemainder:
			out = append(out, source.Remainder{})
		}
	}

	return out
}

// NewGenerator builds a generator with every configured source registered.
// extra options (logger, observer) are applied after the configured ones.
func (c *Config) NewGenerator(extra ...hmm.Option) *hmm.Generator {
	g := hmm.NewGenerator(append(c.HMMOptions(), extra...)...)
	for _, src := range c.BuildSources() {
		g.Add(src)
	}

	return g
}
