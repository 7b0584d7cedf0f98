// Package config loads concerto configuration from defaults, a
// concerto.yaml file, CONCERTO_ environment variables and command-line flags.
package config

import (
	"fmt"

	"github.com/leapstack-labs/concerto/pkg/core"
	"github.com/leapstack-labs/concerto/pkg/registry"
)

// Config holds all configuration options.
type Config struct {
	ModelsDir string `koanf:"models_dir"`
	Strict    bool   `koanf:"strict"`
	Workers   int    `koanf:"workers"`
	Verbose   bool   `koanf:"verbose"`
	Output    string `koanf:"output"`
	StatePath string `koanf:"state_path"`
	NoHistory bool   `koanf:"no_history"`

	Registry RegistryConfig `koanf:"registry"`
	Loader   LoaderConfig   `koanf:"loader"`
	Lint     LintConfig     `koanf:"lint"`

	// ProjectRoot anchors relative paths. Not read from any source.
	ProjectRoot string `koanf:"-"`
	// ConfigFile is the file that was loaded, if any.
	ConfigFile string `koanf:"-"`
}

// RegistryConfig configures the model manager.
type RegistryConfig struct {
	// OnDuplicate is "replace" or "reject".
	OnDuplicate string `koanf:"on_duplicate"`
}

// LoaderConfig holds discovery patterns.
type LoaderConfig struct {
	Include []string `koanf:"include"`
	Exclude []string `koanf:"exclude"`
}

// LintConfig holds lint rule configuration.
type LintConfig struct {
	// Disabled contains rule IDs to disable
	Disabled []string `koanf:"disabled"`

	// Severity maps rule ID to severity override (error, warning, info, hint)
	Severity map[string]core.Severity `koanf:"severity"`

	// FailOn is the lowest severity that makes `concerto lint` exit non-zero.
	FailOn core.Severity `koanf:"fail_on"`
}

// DuplicatePolicy returns the parsed registry policy.
func (c *Config) DuplicatePolicy() (registry.DuplicatePolicy, error) {
	return registry.ParseDuplicatePolicy(c.Registry.OnDuplicate)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.ModelsDir == "" {
		return fmt.Errorf("models_dir is required")
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if _, err := c.DuplicatePolicy(); err != nil {
		return fmt.Errorf("registry.on_duplicate: %w", err)
	}
	switch c.Output {
	case "", "auto", "text", "markdown", "json":
	default:
		return fmt.Errorf("invalid output format %q (want auto, text, markdown or json)", c.Output)
	}
	return nil
}
