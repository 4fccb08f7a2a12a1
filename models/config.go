// Package models defines data structures for configuration and counting results.
package models

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultWorkerCount is the fan-out used by parallel counting unless overridden.
const DefaultWorkerCount = 8

// CountMode selects which aggregator a count run uses.
type CountMode string

const (
	CountModeParallel   CountMode = "parallel"
	CountModeSequential CountMode = "sequential"
	CountModeBoth       CountMode = "both"
)

// OutputFormat selects how a count report is rendered.
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
	FormatYAML OutputFormat = "yaml"
)

// CountConfig holds runtime configuration for count operations.
// Values come from an optional YAML file and are overridden by CLI flags.
type CountConfig struct {
	Paths   []string     `yaml:"paths"`
	Chars   string       `yaml:"chars"`
	Workers int          `yaml:"workers"`
	Mode    CountMode    `yaml:"mode"`
	Format  OutputFormat `yaml:"format"`
}

// LoadConfig reads a CountConfig from a YAML file.
func LoadConfig(path string) (*CountConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	config := &CountConfig{}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return config, nil
}

// ApplyDefaults fills unset fields.
func (c *CountConfig) ApplyDefaults() {
	if c.Workers == 0 {
		c.Workers = DefaultWorkerCount
	}
	if c.Mode == "" {
		c.Mode = CountModeParallel
	}
	if c.Format == "" {
		c.Format = FormatText
	}
	c.Mode = CountMode(strings.ToLower(string(c.Mode)))
	c.Format = OutputFormat(strings.ToLower(string(c.Format)))
}

// Validate reports the first invalid field.
func (c *CountConfig) Validate() error {
	if c.Chars == "" {
		return errors.New("no characters to count: set --chars or 'chars' in the config file")
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}

	switch c.Mode {
	case CountModeParallel, CountModeSequential, CountModeBoth:
	default:
		return fmt.Errorf("unknown mode %q (want parallel, sequential or both)", c.Mode)
	}

	switch c.Format {
	case FormatText, FormatJSON, FormatYAML:
	default:
		return fmt.Errorf("unknown format %q (want text, json or yaml)", c.Format)
	}

	return nil
}
