package validate

import (
	"strings"

	"github.com/leapstack-labs/concerto/pkg/core"
)

// Resolver looks up a declaration by namespace and name.
// *registry.ModelManager implements it.
type Resolver interface {
	ResolveType(namespace, name string) (core.DeclarationRef, error)
}

// Property checks one property. With a nil resolver only the structural
// rules run; otherwise Object and Relationship references must resolve.
func Property(p *core.Property, r Resolver) error {
	if err := property(p); err != nil {
		return err
	}
	if r != nil && p.Kind.References() {
		if _, err := reference(p.Type, r); err != nil {
			return err.WithProperty(p.Name).WithLocation(locationOr(err.Location, p.Location))
		}
	}
	return nil
}

func property(p *core.Property) *core.Error {
	if err := propertyStructure(p); err != nil {
		if err.Property == "" {
			err.WithProperty(p.Name)
		}
		return err.WithLocation(locationOr(err.Location, p.Location))
	}
	return nil
}

func propertyStructure(p *core.Property) *core.Error {
	if strings.HasPrefix(p.Name, "$") {
		return core.NewValidationError(core.CodeReservedPropertyName,
			"invalid field name '%s': property names starting with $ are reserved for system use", p.Name).
			WithValue(p.Name)
	}
	if !core.IsValidIdentifier(p.Name) {
		return core.NewValidationError(core.CodeInvalidIdentifier, "invalid property name %q", p.Name).
			WithValue(p.Name)
	}
	if !p.Kind.Known() {
		return core.NewValidationError(core.CodeUnknownClass, "unknown property kind %q for %s", p.Kind, p.Name).
			WithValue(string(p.Kind))
	}

	if p.Kind != core.PropertyString && (p.RegexValidator != nil || p.LengthValidator != nil) {
		return core.NewValidationError(core.CodeInvalidValidator,
			"%s %s cannot carry a string validator", p.Kind, p.Name)
	}
	if !p.Kind.Numeric() && p.Domain != nil {
		return core.NewValidationError(core.CodeInvalidValidator,
			"%s %s cannot carry a numeric validator", p.Kind, p.Name)
	}

	switch {
	case p.Kind == core.PropertyString:
		if err := regexValidator(p.RegexValidator); err != nil {
			return err
		}
		if err := lengthValidator(p.LengthValidator); err != nil {
			return err
		}
	case p.Kind.Numeric():
		if err := domainValidator(p.Domain, strings.TrimSuffix(string(p.Kind), "Property")); err != nil {
			return err
		}
	case p.Kind.References():
		if p.Type == nil || p.Type.Name == "" {
			return core.NewValidationError(core.CodeUnresolvedType, "%s %s must name a type", p.Kind, p.Name)
		}
		if !core.IsValidIdentifier(p.Type.Name) {
			return core.NewValidationError(core.CodeInvalidIdentifier,
				"invalid type name %q in property %s", p.Type.Name, p.Name).
				WithValue(p.Type.Name)
		}
	}

	return decorators(p.Decorators)
}

// reference resolves a type reference. The reference must be namespace
// qualified and the namespace must hold a declaration of that name.
// Lookup failures are wrapped so errors.Is still reports the lookup kind.
func reference(t *core.TypeIdentifier, r Resolver) (core.DeclarationRef, *core.Error) {
	if t == nil || t.Name == "" {
		return core.DeclarationRef{}, core.NewValidationError(core.CodeUnresolvedType, "type reference has no name")
	}
	ns := t.NamespaceOrEmpty()
	if ns == "" {
		return core.DeclarationRef{}, core.NewValidationError(core.CodeMissingNamespace,
			"type %s is missing namespace", t.Name).
			WithValue(t.Name)
	}
	ref, err := r.ResolveType(ns, t.Name)
	if err != nil {
		return core.DeclarationRef{}, core.NewValidationError(core.CodeUnresolvedType, "unresolved type %s.%s", ns, t.Name).
			WithNamespace(ns).
			WithValue(t.String()).
			Wrap(err)
	}
	return ref, nil
}
