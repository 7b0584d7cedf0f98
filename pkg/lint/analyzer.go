package lint

import (
	"log/slog"
	"sort"
)

// Analyzer runs lint rules against a set of models.
type Analyzer struct {
	config *Config
	logger *slog.Logger
}

// NewAnalyzer creates a new analyzer with optional configuration.
func NewAnalyzer(config *Config, logger *slog.Logger) *Analyzer {
	if config == nil {
		config = NewConfig()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Analyzer{config: config, logger: logger}
}

// Analyze runs every enabled registered rule. Diagnostics are ordered by
// namespace, declaration and rule ID.
func (a *Analyzer) Analyze(ctx *Context) []Diagnostic {
	if ctx == nil {
		return nil
	}

	var diagnostics []Diagnostic
	for _, rule := range GetAll() {
		// Skip disabled rules
		if a.config.IsDisabled(rule.ID) {
			continue
		}

		diags := rule.Check(ctx)

		// Apply severity overrides
		for i := range diags {
			diags[i].RuleID = rule.ID
			diags[i].Severity = a.config.GetSeverity(rule.ID, diags[i].Severity)
		}
		a.logger.Debug("ran lint rule", slog.String("rule", rule.ID), slog.Int("diagnostics", len(diags)))

		diagnostics = append(diagnostics, diags...)
	}

	sort.SliceStable(diagnostics, func(i, j int) bool {
		x, y := diagnostics[i], diagnostics[j]
		if x.Namespace != y.Namespace {
			return x.Namespace < y.Namespace
		}
		if x.Declaration != y.Declaration {
			return x.Declaration < y.Declaration
		}
		return x.RuleID < y.RuleID
	})
	return diagnostics
}
