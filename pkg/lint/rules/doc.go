// Package rules registers the built-in model lint rules.
// Import this package for its side effects:
//
//	import _ "github.com/leapstack-labs/concerto/pkg/lint/rules"
package rules
