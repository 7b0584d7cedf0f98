package lint

import "github.com/leapstack-labs/concerto/pkg/core"

// Summary counts diagnostics per severity.
type Summary struct {
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Infos    int `json:"infos"`
	Hints    int `json:"hints"`
}

// Summarize counts diagnostics by severity.
func Summarize(diags []Diagnostic) Summary {
	var s Summary
	for _, d := range diags {
		switch d.Severity {
		case core.SeverityError:
			s.Errors++
		case core.SeverityWarning:
			s.Warnings++
		case core.SeverityInfo:
			s.Infos++
		case core.SeverityHint:
			s.Hints++
		}
	}
	return s
}

// Total returns the number of counted diagnostics.
func (s Summary) Total() int {
	return s.Errors + s.Warnings + s.Infos + s.Hints
}

// AnyAtLeast reports whether any diagnostic is at least as severe as threshold.
func AnyAtLeast(diags []Diagnostic, threshold core.Severity) bool {
	for _, d := range diags {
		if d.Severity.AtLeast(threshold) {
			return true
		}
	}
	return false
}
