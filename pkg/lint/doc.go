// Package lint provides advisory diagnostics for loaded models.
//
// Lint never changes the outcome of registry validation. Rules look at a
// validated set of models and report style and hygiene findings with a
// severity that callers may override or use as a failure threshold.
//
// # Rule Registration
//
// Rules are registered via init() functions when their package is imported:
//
//	import _ "github.com/leapstack-labs/concerto/pkg/lint/rules"
//
// # Rule Groups
//
//   - MI (Imports): unused and unknown imports
//   - MH (Hierarchy): inheritance and identity
//   - MN (Naming): declaration naming conventions
//
// # Configuration
//
// Use Config to control which rules are enabled and their severity:
//
//	config := lint.NewConfig()
//	config.Disable("MN01")
//	config.SetSeverity("MI01", core.SeverityError)
//
// # Creating Custom Rules
//
//	func init() {
//		lint.Register(lint.RuleDef{
//			ID:          "MX01",
//			Name:        "my-rule",
//			Group:       "custom",
//			Description: "My custom rule description",
//			Severity:    core.SeverityWarning,
//			Check:       checkMyRule,
//		})
//	}
package lint
