// Package validate implements the structural and reference rules of the
// metamodel. Every function fails fast: it returns the first violation found
// as a *core.Error and never aggregates.
package validate

import (
	"regexp"
	"strings"

	"github.com/leapstack-labs/concerto/pkg/core"
)

// Declaration checks one declaration against the rules for its variant.
// Type references are checked for shape only; resolution is a registry concern.
func Declaration(d core.Declaration) error {
	if d == nil {
		return core.NewValidationError(core.CodeUnknownClass, "nil declaration")
	}

	var err *core.Error
	switch d := d.(type) {
	case *core.ConceptDeclaration:
		err = conceptDeclaration(d)
	case *core.EnumDeclaration:
		err = enumDeclaration(d)
	case *core.MapDeclaration:
		err = mapDeclaration(d)
	case *core.ScalarDeclaration:
		err = scalarDeclaration(d)
	default:
		err = core.NewValidationError(core.CodeUnknownClass, "unsupported declaration type %T", d)
	}
	if err != nil {
		if err.Declaration == "" {
			err.WithDeclaration(d.GetName())
		}
		return err.WithLocation(locationOr(err.Location, d.GetLocation()))
	}
	return nil
}

func conceptDeclaration(d *core.ConceptDeclaration) *core.Error {
	switch d.Kind {
	case core.KindConcept, core.KindAsset, core.KindParticipant, core.KindTransaction, core.KindEvent:
	default:
		return core.NewValidationError(core.CodeUnknownClass, "unknown declaration kind %q for %s", d.Kind, d.Name).
			WithValue(string(d.Kind))
	}
	if err := declarationName(d.Name, d.Kind.Label()); err != nil {
		return err
	}

	if d.Identified != nil && d.Identified.Name != "" && !core.IsValidIdentifier(d.Identified.Name) {
		return core.NewValidationError(core.CodeInvalidIdentifier,
			"invalid identifying field name %q in %s %s", d.Identified.Name, d.Kind.Label(), d.Name).
			WithValue(d.Identified.Name)
	}

	if d.SuperType != nil && !core.IsValidIdentifier(d.SuperType.Name) {
		return core.NewValidationError(core.CodeInvalidIdentifier,
			"invalid super type name %q in %s %s", d.SuperType.Name, d.Kind.Label(), d.Name).
			WithValue(d.SuperType.Name)
	}

	seen := make(map[string]struct{}, len(d.Properties))
	for i := range d.Properties {
		p := &d.Properties[i]
		if err := property(p); err != nil {
			return err
		}
		if _, dup := seen[p.Name]; dup {
			return core.NewValidationError(core.CodeDuplicateProperty,
				"duplicate property name: %s in %s %s", p.Name, d.Kind.Label(), d.Name).
				WithProperty(p.Name).
				WithValue(p.Name).
				WithLocation(p.Location)
		}
		seen[p.Name] = struct{}{}
	}

	return decorators(d.Decorators)
}

func enumDeclaration(d *core.EnumDeclaration) *core.Error {
	if err := declarationName(d.Name, "enum"); err != nil {
		return err
	}

	seen := make(map[string]struct{}, len(d.Properties))
	for _, e := range d.Properties {
		if !core.IsValidIdentifier(e.Name) {
			return core.NewValidationError(core.CodeInvalidIdentifier,
				"invalid enum value %q in enum %s", e.Name, d.Name).
				WithProperty(e.Name).
				WithValue(e.Name).
				WithLocation(e.Location)
		}
		if _, dup := seen[e.Name]; dup {
			return core.NewValidationError(core.CodeDuplicateEnumValue,
				"duplicate enum value: %s in enum %s", e.Name, d.Name).
				WithProperty(e.Name).
				WithValue(e.Name).
				WithLocation(e.Location)
		}
		seen[e.Name] = struct{}{}
		if err := decorators(e.Decorators); err != nil {
			return err.WithProperty(e.Name)
		}
	}

	return decorators(d.Decorators)
}

func mapDeclaration(d *core.MapDeclaration) *core.Error {
	if err := declarationName(d.Name, "map"); err != nil {
		return err
	}

	switch d.Key.Kind {
	case core.MapKeyString, core.MapKeyDateTime:
	default:
		return core.NewValidationError(core.CodeInvalidMapKey,
			"invalid map key type %s in map %s: map keys must be String or DateTime", d.Key.Kind, d.Name).
			WithValue(string(d.Key.Kind)).
			WithLocation(d.Key.Location)
	}
	if err := decorators(d.Key.Decorators); err != nil {
		return err
	}

	if !d.Value.Kind.Known() {
		return core.NewValidationError(core.CodeInvalidMapValue,
			"invalid map value type %s in map %s", d.Value.Kind, d.Name).
			WithValue(string(d.Value.Kind)).
			WithLocation(d.Value.Location)
	}
	if d.Value.Kind.References() && (d.Value.Type == nil || d.Value.Type.Name == "") {
		return core.NewValidationError(core.CodeInvalidMapValue,
			"map value type %s in map %s must name a type", d.Value.Kind, d.Name).
			WithValue(string(d.Value.Kind)).
			WithLocation(d.Value.Location)
	}
	if err := decorators(d.Value.Decorators); err != nil {
		return err
	}

	return decorators(d.Decorators)
}

func scalarDeclaration(d *core.ScalarDeclaration) *core.Error {
	if err := declarationName(d.Name, "scalar"); err != nil {
		return err
	}

	switch d.Kind {
	case core.ScalarString:
		if d.Domain != nil {
			return core.NewValidationError(core.CodeInvalidValidator,
				"string scalar %s cannot carry a numeric validator", d.Name)
		}
		if err := regexValidator(d.RegexValidator); err != nil {
			return err
		}
		if err := lengthValidator(d.LengthValidator); err != nil {
			return err
		}
	case core.ScalarInteger, core.ScalarLong, core.ScalarDouble:
		want := strings.TrimSuffix(string(d.Kind), "Scalar")
		if d.RegexValidator != nil || d.LengthValidator != nil {
			return core.NewValidationError(core.CodeInvalidValidator,
				"%s scalar %s cannot carry a string validator", strings.ToLower(want), d.Name)
		}
		if err := domainValidator(d.Domain, want); err != nil {
			return err
		}
	case core.ScalarBoolean, core.ScalarDateTime:
	default:
		return core.NewValidationError(core.CodeUnknownClass, "unknown scalar kind %q for %s", d.Kind, d.Name).
			WithValue(string(d.Kind))
	}

	return decorators(d.Decorators)
}

func declarationName(name, label string) *core.Error {
	if !core.IsValidIdentifier(name) {
		return core.NewValidationError(core.CodeInvalidIdentifier, "invalid %s name %q", label, name).
			WithValue(name)
	}
	return nil
}

// =============================================================================
// Validators
// =============================================================================

// regexFlags maps wire flags to RE2 inline flags. Flags that only affect
// matching iteration carry no meaning for compilation.
var regexFlags = map[rune]string{
	'i': "i",
	'm': "m",
	's': "s",
	'g': "",
	'u': "",
	'y': "",
}

// CompileRegex compiles a regex validator's pattern with its flags applied.
func CompileRegex(v *core.StringRegexValidator) (*regexp.Regexp, error) {
	var inline strings.Builder
	for _, f := range v.Flags {
		mapped, ok := regexFlags[f]
		if !ok {
			return nil, core.NewValidationError(core.CodeInvalidRegex, "unsupported regex flag %q", f).
				WithValue(v.Flags)
		}
		inline.WriteString(mapped)
	}
	pattern := v.Pattern
	if inline.Len() > 0 {
		pattern = "(?" + inline.String() + ")" + pattern
	}
	return regexp.Compile(pattern)
}

func regexValidator(v *core.StringRegexValidator) *core.Error {
	if v == nil {
		return nil
	}
	if _, err := CompileRegex(v); err != nil {
		if e, ok := core.AsError(err); ok {
			return e
		}
		return core.NewValidationError(core.CodeInvalidRegex, "invalid regex pattern %q in string validator", v.Pattern).
			WithValue(v.Pattern).
			Wrap(err)
	}
	return nil
}

func lengthValidator(v *core.StringLengthValidator) *core.Error {
	if v == nil {
		return nil
	}
	if v.MinLength != nil && *v.MinLength < 0 {
		return core.NewValidationError(core.CodeInvalidLength, "minimum length %d must not be negative", *v.MinLength)
	}
	if v.MaxLength != nil && *v.MaxLength < 0 {
		return core.NewValidationError(core.CodeInvalidLength, "maximum length %d must not be negative", *v.MaxLength)
	}
	if v.MinLength != nil && v.MaxLength != nil && *v.MinLength > *v.MaxLength {
		return core.NewValidationError(core.CodeInvalidLength,
			"invalid length validator: minimum length %d must be less than or equal to maximum length %d",
			*v.MinLength, *v.MaxLength)
	}
	return nil
}

// domainValidator checks a numeric validator. want is the primitive the
// owner holds ("Integer", "Long" or "Double").
func domainValidator(v core.NumericValidator, want string) *core.Error {
	if v == nil {
		return nil
	}
	if got := core.ShortClass(v.Class()); got != want+"DomainValidator" {
		return core.NewValidationError(core.CodeInvalidValidator,
			"%s cannot constrain a %s value", got, strings.ToLower(want)).
			WithValue(got)
	}
	if v.Inverted() {
		lower, upper := v.Bounds()
		return core.NewValidationError(core.CodeInvalidBounds,
			"invalid range in validator: lower bound %v must be less than or equal to upper bound %v", lower, upper)
	}
	return nil
}

// =============================================================================
// Decorators
// =============================================================================

// decorators checks a decorator list; every decorator needs a name.
func decorators(ds []core.Decorator) *core.Error {
	for _, d := range ds {
		if d.Name == "" {
			return core.NewValidationError(core.CodeInvalidDecorator, "decorator name cannot be empty").
				WithLocation(d.Location)
		}
		for _, arg := range d.Arguments {
			switch arg.Kind {
			case core.LiteralString, core.LiteralNumber, core.LiteralBoolean:
			case core.LiteralTypeReference:
				if arg.Type == nil || arg.Type.Name == "" {
					return core.NewValidationError(core.CodeInvalidDecorator,
						"type reference argument of decorator @%s must name a type", d.Name).
						WithValue(d.Name).
						WithLocation(locationOr(arg.Location, d.Location))
				}
			default:
				return core.NewValidationError(core.CodeInvalidDecorator,
					"unknown argument kind %q in decorator @%s", arg.Kind, d.Name).
					WithValue(string(arg.Kind)).
					WithLocation(locationOr(arg.Location, d.Location))
			}
		}
	}
	return nil
}

func locationOr(primary, fallback *core.Range) *core.Range {
	if primary != nil {
		return primary
	}
	return fallback
}
