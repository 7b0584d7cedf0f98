package rules

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/leapstack-labs/concerto/pkg/core"
	"github.com/leapstack-labs/concerto/pkg/lint"
)

func init() {
	lint.Register(lint.RuleDef{
		ID:          "MN01",
		Name:        "declaration-naming",
		Group:       "naming",
		Description: "Declaration name does not start with an upper-case letter",
		Severity:    core.SeverityHint,
		Check:       checkDeclarationNaming,

		BadExample:  `concept person {}`,
		GoodExample: `concept Person {}`,
	})
}

// checkDeclarationNaming flags declarations whose name starts with
// anything other than an upper-case letter.
func checkDeclarationNaming(ctx *lint.Context) []lint.Diagnostic {
	var diagnostics []lint.Diagnostic

	for _, m := range ctx.Models() {
		for _, d := range m.Declarations {
			first, _ := utf8.DecodeRuneInString(d.GetName())
			if unicode.IsUpper(first) {
				continue
			}
			diagnostics = append(diagnostics, lint.Diagnostic{
				Severity:    core.SeverityHint,
				Message:     fmt.Sprintf("%s name %s should start with an upper-case letter", core.KindLabel(d), d.GetName()),
				Namespace:   m.Namespace,
				Declaration: d.GetName(),
				Location:    d.GetLocation(),
			})
		}
	}

	return diagnostics
}
