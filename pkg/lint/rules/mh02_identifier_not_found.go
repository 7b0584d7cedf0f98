package rules

import (
	"fmt"

	"github.com/leapstack-labs/concerto/pkg/core"
	"github.com/leapstack-labs/concerto/pkg/lint"
)

func init() {
	lint.Register(lint.RuleDef{
		ID:          "MH02",
		Name:        "identifier-not-found",
		Group:       "hierarchy",
		Description: "Identifying field missing from the declaration and its super types",
		Severity:    core.SeverityWarning,
		Check:       checkIdentifierNotFound,

		Rationale: `An "identified by" clause must name a property of the declaration or of one of
its super types, otherwise instances cannot be identified.`,

		BadExample: `concept Person identified by email { o String name }`,

		GoodExample: `concept Person identified by email { o String email }`,
	})
}

// checkIdentifierNotFound flags IdentifiedBy fields that no property in the
// declaration or its resolvable super types declares.
func checkIdentifierNotFound(ctx *lint.Context) []lint.Diagnostic {
	var diagnostics []lint.Diagnostic

	for _, m := range ctx.Models() {
		for _, d := range m.ConceptDeclarations() {
			if d.Identified == nil || d.Identified.Name == "" {
				continue
			}
			if hasProperty(ctx, m.Namespace, d, d.Identified.Name) {
				continue
			}
			diagnostics = append(diagnostics, lint.Diagnostic{
				Severity:    core.SeverityWarning,
				Message:     fmt.Sprintf("identifying field %s is not a property of %s or its super types", d.Identified.Name, d.Name),
				Namespace:   m.Namespace,
				Declaration: d.Name,
				Location:    d.Location,
			})
		}
	}

	return diagnostics
}

func hasProperty(ctx *lint.Context, namespace string, d *core.ConceptDeclaration, name string) bool {
	if d.Property(name) != nil {
		return true
	}
	for _, super := range ctx.SuperTypes(namespace + "." + d.Name) {
		if super.Property(name) != nil {
			return true
		}
	}
	return false
}
