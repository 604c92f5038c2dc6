// Package config loads runner configuration: suite location, output
// settings, and the skip list injected into the conformance oracle.
package config

import (
	"github.com/leapstack-labs/lakerunner/pkg/acceptance"
)

// SkipConfig is one skip-list entry as written in configuration.
type SkipConfig struct {
	// Suffix matches the end of a fixture root directory.
	Suffix string `koanf:"suffix"`
	// Reason documents the known divergence. Required; a skip without a
	// justification is a silent feature gap.
	Reason string `koanf:"reason"`
}

// Config holds the runner configuration.
type Config struct {
	// SuiteDir is the directory of conformance fixtures.
	SuiteDir string `koanf:"suite_dir"`
	// OutputFormat selects the report format: table, json.
	OutputFormat string `koanf:"output_format"`
	Verbose      bool   `koanf:"verbose"`
	// Skips replaces the built-in skip list when set.
	Skips []SkipConfig `koanf:"skips"`
}

// SkipEntries converts the configured skip list for the oracle.
func (c *Config) SkipEntries() []acceptance.SkipEntry {
	entries := make([]acceptance.SkipEntry, len(c.Skips))
	for i, s := range c.Skips {
		entries[i] = acceptance.SkipEntry{Suffix: s.Suffix, Reason: s.Reason}
	}
	return entries
}

// ApplyDefaults fills unset fields with defaults, including the built-in
// skip list when none is configured.
func (c *Config) ApplyDefaults() {
	if c.OutputFormat == "" {
		c.OutputFormat = "table"
	}
	if c.Skips == nil {
		c.Skips = DefaultSkips()
	}
}
