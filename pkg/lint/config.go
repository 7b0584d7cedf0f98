package lint

import (
	"strings"

	"github.com/leapstack-labs/concerto/pkg/core"
)

// Config holds per-rule settings for model lint rules: the rule IDs to
// skip and severity overrides. Rule IDs are matched case-insensitively.
// A nil *Config runs every rule at its default severity.
type Config struct {
	DisabledRules     map[string]bool
	SeverityOverrides map[string]core.Severity
}

// NewConfig returns a Config with every model rule enabled.
func NewConfig() *Config {
	return &Config{
		DisabledRules:     make(map[string]bool),
		SeverityOverrides: make(map[string]core.Severity),
	}
}

func ruleKey(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

// IsDisabled reports whether the analyzer skips ruleID.
func (c *Config) IsDisabled(ruleID string) bool {
	if c == nil {
		return false
	}
	return c.DisabledRules[ruleKey(ruleID)]
}

// GetSeverity returns the severity diagnostics from ruleID are reported at.
func (c *Config) GetSeverity(ruleID string, defaultSeverity core.Severity) core.Severity {
	if c == nil {
		return defaultSeverity
	}
	if sev, ok := c.SeverityOverrides[ruleKey(ruleID)]; ok {
		return sev
	}
	return defaultSeverity
}

// Disable turns ruleID off. Blank IDs are ignored.
func (c *Config) Disable(ruleID string) *Config {
	if key := ruleKey(ruleID); key != "" {
		c.DisabledRules[key] = true
	}
	return c
}

// SetSeverity reports diagnostics from ruleID at severity.
func (c *Config) SetSeverity(ruleID string, severity core.Severity) *Config {
	if key := ruleKey(ruleID); key != "" {
		c.SeverityOverrides[key] = severity
	}
	return c
}
