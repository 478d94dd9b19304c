package suite

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Entry is the recorded outcome for one sample file.
type Entry struct {
	StdoutHash string    `yaml:"stdout_hash"`
	StderrHash string    `yaml:"stderr_hash"`
	ExitCode   int       `yaml:"exit_code"`
	Recorded   time.Time `yaml:"recorded"`
}

// Baseline maps sample file names to their recorded outcome.
type Baseline map[string]Entry

// LoadBaseline reads a baseline file. A missing file is an empty baseline.
func LoadBaseline(path string) (Baseline, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Baseline{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read baseline: %w", err)
	}

	b := Baseline{}
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("failed to parse baseline %s: %w", path, err)
	}
	return b, nil
}

// Save writes the baseline. yaml.v3 sorts map keys, so the file is stable.
func (b Baseline) Save(path string) error {
	data, err := yaml.Marshal(b)
	if err != nil {
		return fmt.Errorf("failed to marshal baseline: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write baseline: %w", err)
	}
	return nil
}

func hash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

func entryFor(out Output, now time.Time) Entry {
	return Entry{
		StdoutHash: hash(out.Stdout),
		StderrHash: hash(out.Stderr),
		ExitCode:   out.ExitCode,
		Recorded:   now.UTC(),
	}
}
