package rules

import (
	"fmt"

	"github.com/leapstack-labs/concerto/pkg/core"
	"github.com/leapstack-labs/concerto/pkg/lint"
)

func init() {
	lint.Register(lint.RuleDef{
		ID:          "MI01",
		Name:        "unused-import",
		Group:       "imports",
		Description: "Import whose namespace is never referenced",
		Severity:    core.SeverityWarning,
		Check:       checkUnusedImports,

		Rationale: `Imports that nothing refers to make a model look coupled to namespaces it does not
use and keep stale dependencies alive after refactoring.`,

		BadExample: `namespace org.acme.hr
import org.acme.base.Address
concept Person { o String name }`,

		GoodExample: `namespace org.acme.hr
concept Person { o String name }`,
	})
}

// checkUnusedImports flags imports whose namespace appears in no type
// reference of the importing model: super types, Object/Relationship
// properties, map keys and values, and decorator type arguments.
func checkUnusedImports(ctx *lint.Context) []lint.Diagnostic {
	var diagnostics []lint.Diagnostic

	for _, m := range ctx.Models() {
		if len(m.Imports) == 0 {
			continue
		}

		used := referencedNamespaces(m)
		for _, imp := range m.Imports {
			if used[imp.Namespace] {
				continue
			}
			diagnostics = append(diagnostics, lint.Diagnostic{
				Severity:  core.SeverityWarning,
				Message:   fmt.Sprintf("import of namespace %s is never used", imp.Namespace),
				Namespace: m.Namespace,
			})
		}
	}

	return diagnostics
}

func referencedNamespaces(m *core.Model) map[string]bool {
	used := make(map[string]bool)
	for _, t := range m.TypeReferences() {
		used[t.NamespaceOrEmpty()] = true
	}

	markDecorators := func(ds []core.Decorator) {
		for _, d := range ds {
			for _, arg := range d.Arguments {
				if arg.Kind == core.LiteralTypeReference && arg.Type != nil {
					used[arg.Type.NamespaceOrEmpty()] = true
				}
			}
		}
	}

	markDecorators(m.Decorators)
	for _, d := range m.Declarations {
		markDecorators(d.GetDecorators())
		if c, ok := core.ConceptLike(d); ok {
			for _, p := range c.Properties {
				markDecorators(p.Decorators)
			}
		}
	}
	return used
}
