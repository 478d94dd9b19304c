// Package config loads the .ngflow.yaml project file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/grindlemire/ngflow/internal/ir"
)

// FileName is the config file looked up in the working directory.
const FileName = ".ngflow.yaml"

// Config is the on-disk configuration. Command-line flags override it.
type Config struct {
	Tool  Tool  `yaml:"tool"`
	Suite Suite `yaml:"suite"`
}

// Tool describes the external reformatter.
type Tool struct {
	// Command is the program and its leading arguments; the path of the
	// intermediate file is appended. Empty means no reformatter.
	Command []string      `yaml:"command,omitempty"`
	Timeout time.Duration `yaml:"timeout,omitempty"`
	// Format is the dialect the tool re-emits: markup or outline.
	Format string `yaml:"format,omitempty"`
	Suffix string `yaml:"suffix,omitempty"`
}

// Suite configures the regression harness.
type Suite struct {
	Samples    string   `yaml:"samples,omitempty"`
	Expected   string   `yaml:"expected,omitempty"`
	Baseline   string   `yaml:"baseline,omitempty"`
	Extensions []string `yaml:"extensions,omitempty"`
	Jobs       int      `yaml:"jobs,omitempty"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Tool: Tool{
			Timeout: 30 * time.Second,
			Format:  ir.FormatMarkup.String(),
			Suffix:  ".xml",
		},
		Suite: Suite{
			Samples:    "sample-output",
			Expected:   "expected-output",
			Baseline:   "test-baseline.yaml",
			Extensions: []string{".html", ".htm", ".xml"},
			Jobs:       1,
		},
	}
}

// Load reads path over the defaults. When optional is set a missing file is
// not an error and the defaults are returned.
func Load(path string, optional bool) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks values the loader cannot type-check. Every problem is
// reported, not only the first.
func (c *Config) Validate() error {
	var errs error
	if _, err := ir.ParseFormat(c.Tool.Format); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("tool.format: %w", err))
	}
	if c.Tool.Timeout < 0 {
		errs = multierr.Append(errs, errors.New("tool.timeout must not be negative"))
	}
	if c.Tool.Suffix != "" && !strings.HasPrefix(c.Tool.Suffix, ".") {
		errs = multierr.Append(errs, fmt.Errorf("tool.suffix %q must start with a dot", c.Tool.Suffix))
	}
	if c.Suite.Jobs < 1 {
		errs = multierr.Append(errs, errors.New("suite.jobs must be at least 1"))
	}
	for _, ext := range c.Suite.Extensions {
		if !strings.HasPrefix(ext, ".") {
			errs = multierr.Append(errs, fmt.Errorf("suite.extensions: %q must start with a dot", ext))
		}
	}
	return errs
}

// Format returns the parsed tool format.
func (c *Config) Format() (ir.Format, error) {
	f, err := ir.ParseFormat(c.Tool.Format)
	if err != nil {
		return 0, fmt.Errorf("tool.format: %w", err)
	}
	return f, nil
}
