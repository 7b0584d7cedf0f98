package lint

import "github.com/leapstack-labs/concerto/pkg/core"

// CheckFunc analyzes the model set and returns diagnostics.
type CheckFunc func(ctx *Context) []Diagnostic

// RuleDef is a data-driven rule definition.
// Rules are stateless - all context comes via the Check function parameter.
type RuleDef struct {
	ID          string        // Unique identifier, e.g., "MI01"
	Name        string        // Human-readable name, e.g., "unused-import"
	Group       string        // Category, e.g., "imports", "hierarchy", "naming"
	Description string        // Human-readable description
	Severity    core.Severity // Default severity
	Check       CheckFunc     // The check function

	// Documentation fields for richer rule documentation
	Rationale   string // Why this rule exists, what problems it prevents
	BadExample  string // Model snippet showing the anti-pattern
	GoodExample string // Model snippet showing the correct pattern
}

// RuleInfo provides metadata about a rule for documentation/tooling.
type RuleInfo struct {
	ID              string        `json:"id"`
	Name            string        `json:"name"`
	Group           string        `json:"group"`
	Description     string        `json:"description"`
	DefaultSeverity core.Severity `json:"default_severity"`
	Rationale       string        `json:"rationale,omitempty"`
	BadExample      string        `json:"bad_example,omitempty"`
	GoodExample     string        `json:"good_example,omitempty"`
}

// Info extracts metadata from a rule.
func (r RuleDef) Info() RuleInfo {
	return RuleInfo{
		ID:              r.ID,
		Name:            r.Name,
		Group:           r.Group,
		Description:     r.Description,
		DefaultSeverity: r.Severity,
		Rationale:       r.Rationale,
		BadExample:      r.BadExample,
		GoodExample:     r.GoodExample,
	}
}

// Diagnostic represents a lint finding.
type Diagnostic struct {
	RuleID      string        `json:"rule_id"`
	Severity    core.Severity `json:"severity"`
	Message     string        `json:"message"`
	Namespace   string        `json:"namespace"`
	Declaration string        `json:"declaration,omitempty"`
	Location    *core.Range   `json:"-"`
}
