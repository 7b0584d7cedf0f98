package output

import "time"

// ValidateOutput is the JSON output of the validate command.
type ValidateOutput struct {
	Valid        bool         `json:"valid"`
	RunID        string       `json:"run_id,omitempty"`
	Files        int          `json:"files"`
	Models       int          `json:"models"`
	Declarations int          `json:"declarations"`
	Namespaces   []string     `json:"namespaces"`
	Error        *ErrorDetail `json:"error,omitempty"`
	Duration     string       `json:"duration"`
}

// ErrorDetail describes a validation or parse failure.
type ErrorDetail struct {
	Kind        string `json:"kind"`
	Code        string `json:"code,omitempty"`
	Message     string `json:"message"`
	File        string `json:"file,omitempty"`
	Namespace   string `json:"namespace,omitempty"`
	Declaration string `json:"declaration,omitempty"`
	Property    string `json:"property,omitempty"`
	Location    string `json:"location,omitempty"`
}

// DeclarationInfo describes one declaration in list and resolve output.
type DeclarationInfo struct {
	Namespace  string   `json:"namespace"`
	Name       string   `json:"name"`
	Kind       string   `json:"kind"`
	Abstract   bool     `json:"abstract,omitempty"`
	SuperType  string   `json:"super_type,omitempty"`
	Properties []string `json:"properties,omitempty"`
	Source     string   `json:"source,omitempty"`
}

// ListOutput is the JSON output of the list command.
type ListOutput struct {
	Declarations []DeclarationInfo `json:"declarations"`
	Summary      ListSummary       `json:"summary"`
}

// ListSummary counts listed items.
type ListSummary struct {
	Models       int `json:"models"`
	Declarations int `json:"declarations"`
}

// ResolveOutput is the JSON output of the resolve command.
type ResolveOutput struct {
	Declaration DeclarationInfo   `json:"declaration"`
	SuperTypes  []DeclarationInfo `json:"super_types"`
}

// HierarchyLevel groups declarations at the same inheritance depth.
type HierarchyLevel struct {
	Level        int      `json:"level"`
	Declarations []string `json:"declarations"`
}

// HierarchyOutput is the JSON output of the hierarchy command.
type HierarchyOutput struct {
	Levels []HierarchyLevel `json:"levels"`
	Edges  int              `json:"edges"`
}

// LintDiagnostic is one lint finding in JSON output.
type LintDiagnostic struct {
	RuleID      string `json:"rule_id"`
	Severity    string `json:"severity"`
	Message     string `json:"message"`
	Namespace   string `json:"namespace,omitempty"`
	Declaration string `json:"declaration,omitempty"`
	Location    string `json:"location,omitempty"`
}

// LintSummary counts lint findings per severity.
type LintSummary struct {
	TotalIssues int `json:"total_issues"`
	Errors      int `json:"errors"`
	Warnings    int `json:"warnings"`
	Info        int `json:"info"`
	Hints       int `json:"hints"`
}

// LintOutput is the JSON output of the lint command.
type LintOutput struct {
	Diagnostics []LintDiagnostic `json:"diagnostics"`
	Summary     LintSummary      `json:"summary"`
}

// RunInfo describes a recorded validation run.
type RunInfo struct {
	ID           string     `json:"id"`
	Source       string     `json:"source"`
	Status       string     `json:"status"`
	StartedAt    time.Time  `json:"started_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	Duration     string     `json:"duration,omitempty"`
	Models       int        `json:"models"`
	Declarations int        `json:"declarations"`
	ErrorCode    string     `json:"error_code,omitempty"`
	Error        string     `json:"error,omitempty"`
}

// HistoryOutput is the JSON output of the history command.
type HistoryOutput struct {
	Runs []RunInfo `json:"runs"`
}
