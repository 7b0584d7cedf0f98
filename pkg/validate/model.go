package validate

import (
	"strings"

	"github.com/leapstack-labs/concerto/pkg/core"
	"golang.org/x/mod/semver"
)

// Option configures model validation.
type Option func(*options)

type options struct {
	strict bool
}

// WithStrict enables strict mode: a model's concertoVersion, when present,
// must be a valid semantic version.
func WithStrict() Option {
	return func(o *options) {
		o.strict = true
	}
}

// Model checks a single model in isolation: namespace, imports, declaration
// name uniqueness, every declaration, then the model's own decorators.
// References to other models are not resolved; see References.
func Model(m *core.Model, opts ...Option) error {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	if m == nil {
		return core.NewValidationError(core.CodeInvalidNamespace, "nil model")
	}
	if !core.IsValidNamespace(m.Namespace) {
		return core.NewValidationError(core.CodeInvalidNamespace, "invalid namespace %q", m.Namespace).
			WithNamespace(m.Namespace).
			WithValue(m.Namespace)
	}

	if err := modelChecks(m, o); err != nil {
		if err.Namespace == "" {
			err.WithNamespace(m.Namespace)
		}
		return err
	}
	return nil
}

func modelChecks(m *core.Model, o options) *core.Error {
	if o.strict && m.ConcertoVersion != nil && !semver.IsValid(canonicalVersion(*m.ConcertoVersion)) {
		return core.NewValidationError(core.CodeInvalidVersion,
			"invalid concerto version %q in model %s", *m.ConcertoVersion, m.Namespace).
			WithValue(*m.ConcertoVersion)
	}

	for _, imp := range m.Imports {
		if err := importDecl(imp); err != nil {
			return err
		}
	}

	seen := make(map[string]struct{}, len(m.Declarations))
	for _, d := range m.Declarations {
		if d == nil {
			return core.NewValidationError(core.CodeUnknownClass, "nil declaration in model %s", m.Namespace)
		}
		name := d.GetName()
		if _, dup := seen[name]; dup {
			return core.NewValidationError(core.CodeDuplicateDeclaration,
				"duplicate declaration name %s in namespace %s", name, m.Namespace).
				WithDeclaration(name).
				WithValue(name).
				WithLocation(d.GetLocation())
		}
		seen[name] = struct{}{}

		if err := Declaration(d); err != nil {
			e, _ := core.AsError(err)
			return e
		}
	}

	return decorators(m.Decorators)
}

func importDecl(imp core.Import) *core.Error {
	if imp.Namespace == "" {
		return core.NewValidationError(core.CodeInvalidImport, "import namespace cannot be empty")
	}
	if !core.IsValidNamespace(imp.Namespace) {
		return core.NewValidationError(core.CodeInvalidImport, "invalid import namespace %q", imp.Namespace).
			WithValue(imp.Namespace)
	}
	switch imp.Kind {
	case core.ImportType:
		if !core.IsValidIdentifier(imp.Name) {
			return core.NewValidationError(core.CodeInvalidImport,
				"invalid imported type name %q from %s", imp.Name, imp.Namespace).
				WithValue(imp.Name)
		}
	case core.ImportTypes:
		for _, name := range imp.Types {
			if !core.IsValidIdentifier(name) {
				return core.NewValidationError(core.CodeInvalidImport,
					"invalid imported type name %q from %s", name, imp.Namespace).
					WithValue(name)
			}
		}
		for _, alias := range imp.AliasedTypes {
			if !core.IsValidIdentifier(alias.AliasedName) {
				return core.NewValidationError(core.CodeInvalidImport,
					"invalid alias %q for %s.%s", alias.AliasedName, imp.Namespace, alias.Name).
					WithValue(alias.AliasedName)
			}
		}
	}
	return nil
}

// canonicalVersion adds the "v" prefix x/mod/semver expects.
func canonicalVersion(v string) string {
	if strings.HasPrefix(v, "v") {
		return v
	}
	return "v" + v
}

// References resolves every type reference in m: concept-like supertypes,
// Object and Relationship properties, and map values that name a type.
// Supertypes must resolve to concept-like declarations. The error's
// Namespace is the referencing model; Value names the missing target.
func References(m *core.Model, r Resolver) error {
	if err := references(m, r); err != nil {
		return err.WithNamespace(m.Namespace)
	}
	return nil
}

func references(m *core.Model, r Resolver) *core.Error {
	for _, d := range m.Declarations {
		switch d := d.(type) {
		case *core.ConceptDeclaration:
			if d.SuperType != nil {
				ref, err := reference(d.SuperType, r)
				if err != nil {
					err.Message = "super type of " + d.Kind.Label() + " " + d.Name + ": " + err.Message
					return err.WithDeclaration(d.Name).WithLocation(d.Location)
				}
				if _, ok := core.ConceptLike(ref.Declaration); !ok {
					return core.NewValidationError(core.CodeInvalidSuperType,
						"%s %s cannot extend %s %s", d.Kind.Label(), d.Name, core.KindLabel(ref.Declaration), ref.FQN()).
						WithDeclaration(d.Name).
						WithValue(ref.FQN()).
						WithLocation(d.Location)
				}
			}
			for i := range d.Properties {
				p := &d.Properties[i]
				if !p.Kind.References() {
					continue
				}
				if _, err := reference(p.Type, r); err != nil {
					err.Message = "property " + p.Name + " of " + d.Kind.Label() + " " + d.Name + ": " + err.Message
					return err.WithDeclaration(d.Name).
						WithProperty(p.Name).
						WithLocation(locationOr(p.Location, d.Location))
				}
			}
		case *core.MapDeclaration:
			if !d.Value.Kind.References() {
				continue
			}
			if _, err := reference(d.Value.Type, r); err != nil {
				err.Message = "value of map " + d.Name + ": " + err.Message
				return err.WithDeclaration(d.Name).WithLocation(locationOr(d.Value.Location, d.Location))
			}
		}
	}
	return nil
}
