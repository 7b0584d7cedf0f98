package rules

import (
	"fmt"

	"github.com/leapstack-labs/concerto/pkg/core"
	"github.com/leapstack-labs/concerto/pkg/lint"
)

func init() {
	lint.Register(lint.RuleDef{
		ID:          "MH01",
		Name:        "abstract-without-subtypes",
		Group:       "hierarchy",
		Description: "Abstract declaration that nothing extends",
		Severity:    core.SeverityInfo,
		Check:       checkAbstractWithoutSubtypes,

		Rationale: `An abstract type cannot be instantiated. If no loaded type extends it, it has no
instances at all.`,

		BadExample: `abstract concept Shape {}`,

		GoodExample: `abstract concept Shape {}
concept Circle extends Shape { o Double radius }`,
	})
}

// checkAbstractWithoutSubtypes flags abstract concept-like declarations
// that no loaded declaration extends.
func checkAbstractWithoutSubtypes(ctx *lint.Context) []lint.Diagnostic {
	var diagnostics []lint.Diagnostic

	for _, m := range ctx.Models() {
		for _, d := range m.ConceptDeclarations() {
			if !d.IsAbstract {
				continue
			}
			if len(ctx.Subtypes(m.Namespace+"."+d.Name)) > 0 {
				continue
			}
			diagnostics = append(diagnostics, lint.Diagnostic{
				Severity:    core.SeverityInfo,
				Message:     fmt.Sprintf("abstract %s %s has no subtypes", d.Kind.Label(), d.Name),
				Namespace:   m.Namespace,
				Declaration: d.Name,
				Location:    d.Location,
			})
		}
	}

	return diagnostics
}
