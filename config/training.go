package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// TrainingDataDirName is the directory searched for when none is configured.
const TrainingDataDirName = "TrainingData"

// ErrTrainingDataNotFound indicates no training-data directory could be resolved.
var ErrTrainingDataNotFound = errors.New("config: training-data directory not found")

// ResolveTrainingDataDir picks the training-data directory once, at startup.
//
// Order:
//  1. flag, when non-empty;
//  2. c.TrainingDataDir, when non-empty (relative paths are taken from start);
//  3. the first start/TrainingData, start/../TrainingData, … that exists.
//
// An explicit choice (1 or 2) that is not a directory is an error; it is never
// replaced by the search. The result is absolute.
func (c *Config) ResolveTrainingDataDir(flag, start string) (string, error) {
	for _, explicit := range []string{flag, c.TrainingDataDir} {
		if explicit == "" {
			continue
		}
		if !filepath.IsAbs(explicit) {
			explicit = filepath.Join(start, explicit)
		}
		if !isDir(explicit) {
			return "", fmt.Errorf("%w: %s is not a directory", ErrTrainingDataNotFound, explicit)
		}

		return filepath.Abs(explicit)
	}

	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("config: %w", err)
	}
	for {
		candidate := filepath.Join(dir, TrainingDataDirName)
		if isDir(candidate) {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%w: no %s above %s", ErrTrainingDataNotFound, TrainingDataDirName, start)
		}
		dir = parent
	}
}

func isDir(path string) bool {
	fi, err := os.Stat(path)

	return err == nil && fi.IsDir()
}
