package rules

import (
	"fmt"

	"github.com/leapstack-labs/concerto/pkg/core"
	"github.com/leapstack-labs/concerto/pkg/lint"
)

func init() {
	lint.Register(lint.RuleDef{
		ID:          "MI02",
		Name:        "unknown-import",
		Group:       "imports",
		Description: "Import of a namespace that is not loaded",
		Severity:    core.SeverityWarning,
		Check:       checkUnknownImports,

		Rationale: `An import of a namespace that is not part of the loaded set cannot be checked.
References through it fail as soon as a declaration uses the imported types.`,
	})
}

// checkUnknownImports flags imports of namespaces missing from the analyzed set.
func checkUnknownImports(ctx *lint.Context) []lint.Diagnostic {
	var diagnostics []lint.Diagnostic

	for _, m := range ctx.Models() {
		for _, imp := range m.Imports {
			if imp.Namespace == "" || ctx.HasNamespace(imp.Namespace) {
				continue
			}
			diagnostics = append(diagnostics, lint.Diagnostic{
				Severity:  core.SeverityWarning,
				Message:   fmt.Sprintf("imported namespace %s is not loaded", imp.Namespace),
				Namespace: m.Namespace,
			})
		}
	}

	return diagnostics
}
