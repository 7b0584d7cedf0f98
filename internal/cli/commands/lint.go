package commands

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/concerto/internal/cli/output"
	"github.com/leapstack-labs/concerto/internal/config"
	"github.com/leapstack-labs/concerto/pkg/core"
	"github.com/leapstack-labs/concerto/pkg/lint"
	_ "github.com/leapstack-labs/concerto/pkg/lint/rules" // register model rules
	"github.com/spf13/cobra"
)

// LintOptions holds options for the lint command.
type LintOptions struct {
	Disable []string // Rule IDs to disable
	FailOn  string   // Lowest severity that fails the command
}

// NewLintCommand creates the lint command.
func NewLintCommand() *cobra.Command {
	opts := &LintOptions{}
	cmd := &cobra.Command{
		Use:   "lint [paths...]",
		Short: "Run lint rules on models",
		Long: `Analyze registered models for advisory issues that are not validation
errors: unused or unknown imports, abstract types nobody extends,
identifying fields that do not exist and declaration naming.

Rules can be disabled or re-graded in concerto.yaml under "lint".
The command fails when a diagnostic is at least as severe as --fail-on.

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON: Machine-readable format`,
		Example: `  # Lint the models directory
  concerto lint

  # Disable specific rules
  concerto lint --disable MN01,MH01

  # Fail on warnings too
  concerto lint --fail-on warning`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLint(cmd, args, opts)
		},
	}

	cmd.Flags().StringSliceVar(&opts.Disable, "disable", nil, "Rule IDs to disable")
	cmd.Flags().StringVar(&opts.FailOn, "fail-on", "", "Lowest failing severity: error, warning, info, hint (default from config)")

	return cmd
}

func runLint(cmd *cobra.Command, paths []string, opts *LintOptions) error {
	c := NewCommandContext(cmd)
	r := c.Renderer

	failOn := c.Cfg.Lint.FailOn
	if opts.FailOn != "" {
		sev, ok := core.ParseSeverity(opts.FailOn)
		if !ok {
			return fmt.Errorf("invalid --fail-on severity %q", opts.FailOn)
		}
		failOn = sev
	}

	ws, err := c.loadWorkspace(paths)
	if err != nil {
		return fmt.Errorf("failed to load models: %w", err)
	}

	analyzer := lint.NewAnalyzer(buildLintConfig(c.Cfg, opts), c.Logger)
	diags := analyzer.Analyze(lint.NewContext(ws.Registry.Models()))

	renderLintResults(r, diags)

	if lint.AnyAtLeast(diags, failOn) {
		return fmt.Errorf("lint found issues at or above %s severity", failOn)
	}
	return nil
}

// buildLintConfig merges project lint settings with command flags.
func buildLintConfig(cfg *config.Config, opts *LintOptions) *lint.Config {
	lintCfg := lint.NewConfig()
	for _, id := range cfg.Lint.Disabled {
		lintCfg.Disable(id)
	}
	for id, sev := range cfg.Lint.Severity {
		lintCfg.SetSeverity(id, sev)
	}
	for _, id := range opts.Disable {
		lintCfg.Disable(id)
	}
	return lintCfg
}

func renderLintResults(r *output.Renderer, diags []lint.Diagnostic) {
	s := lint.Summarize(diags)

	if r.EffectiveMode() == output.ModeJSON {
		out := output.LintOutput{
			Diagnostics: make([]output.LintDiagnostic, 0, len(diags)),
			Summary: output.LintSummary{
				TotalIssues: s.Total(),
				Errors:      s.Errors,
				Warnings:    s.Warnings,
				Info:        s.Infos,
				Hints:       s.Hints,
			},
		}
		for _, d := range diags {
			out.Diagnostics = append(out.Diagnostics, output.LintDiagnostic{
				RuleID:      d.RuleID,
				Severity:    d.Severity.String(),
				Message:     d.Message,
				Namespace:   d.Namespace,
				Declaration: d.Declaration,
				Location:    d.Location.String(),
			})
		}
		_ = r.JSON(out)
		return
	}

	if len(diags) == 0 {
		r.Success("No lint issues found")
		return
	}

	// Text/Markdown output, grouped by namespace
	current := ""
	for i, d := range diags {
		if i == 0 || d.Namespace != current {
			if i > 0 {
				r.Println("")
			}
			current = d.Namespace
			r.Println(r.Styles().Namespace.Render(current))
		}
		target := d.Declaration
		if target == "" {
			target = "-"
		}
		r.Printf("  %s  %s  %s  %s\n",
			severityStyle(r, d.Severity),
			r.Styles().Bold.Render(d.RuleID),
			r.Styles().Muted.Render(fmt.Sprintf("%-20s", target)),
			d.Message,
		)
	}
	r.Println("")

	parts := []string{fmt.Sprintf("%d issues", s.Total())}
	if s.Errors > 0 {
		parts = append(parts, fmt.Sprintf("%d errors", s.Errors))
	}
	if s.Warnings > 0 {
		parts = append(parts, fmt.Sprintf("%d warnings", s.Warnings))
	}
	if s.Infos > 0 {
		parts = append(parts, fmt.Sprintf("%d info", s.Infos))
	}
	if s.Hints > 0 {
		parts = append(parts, fmt.Sprintf("%d hints", s.Hints))
	}
	r.Printf("Summary: %s\n", strings.Join(parts, ", "))
}

func severityStyle(r *output.Renderer, sev core.Severity) string {
	switch sev {
	case core.SeverityError:
		return r.Styles().Error.Render("error  ")
	case core.SeverityWarning:
		return r.Styles().Warning.Render("warning")
	case core.SeverityInfo:
		return r.Styles().Info.Render("info   ")
	case core.SeverityHint:
		return r.Styles().Muted.Render("hint   ")
	default:
		return r.Styles().Muted.Render("unknown")
	}
}
