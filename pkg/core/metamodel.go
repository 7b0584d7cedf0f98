package core

import (
	"fmt"
	"strings"
)

// MetamodelNamespace prefixes every wire discriminator.
const MetamodelNamespace = "concerto.metamodel@1.0.0"

// ClassName returns the fully qualified discriminator for a variant name,
// e.g. "ConceptDeclaration" -> "concerto.metamodel@1.0.0.ConceptDeclaration".
func ClassName(variant string) string {
	return MetamodelNamespace + "." + variant
}

// ShortClass strips the namespace from a discriminator. Discriminators
// without a namespace are returned unchanged.
func ShortClass(class string) string {
	if i := strings.LastIndexByte(class, '.'); i >= 0 {
		return class[i+1:]
	}
	return class
}

// =============================================================================
// Type references
// =============================================================================

// TypeIdentifier names a declaration by (namespace, name). It is a lookup
// key resolved against the registry, never a copy of the target.
type TypeIdentifier struct {
	Name      string
	Namespace *string
}

// NewTypeIdentifier returns a namespace-qualified type reference.
func NewTypeIdentifier(namespace, name string) *TypeIdentifier {
	return &TypeIdentifier{Name: name, Namespace: &namespace}
}

// NamespaceOrEmpty returns the namespace, or "" when absent.
func (t *TypeIdentifier) NamespaceOrEmpty() string {
	if t == nil || t.Namespace == nil {
		return ""
	}
	return *t.Namespace
}

// String returns "namespace.Name", or just the name when unqualified.
func (t *TypeIdentifier) String() string {
	if t == nil {
		return ""
	}
	if ns := t.NamespaceOrEmpty(); ns != "" {
		return ns + "." + t.Name
	}
	return t.Name
}

// Identified marks a concept-like declaration as identifiable.
// An empty Name means system identified; otherwise the named
// property is the identifier (IdentifiedBy).
type Identified struct {
	Name string
}

// Class returns the wire discriminator.
func (i *Identified) Class() string {
	if i.Name == "" {
		return ClassName("Identified")
	}
	return ClassName("IdentifiedBy")
}

// =============================================================================
// Decorators
// =============================================================================

// LiteralKind discriminates decorator arguments.
type LiteralKind string

// Decorator argument kinds.
const (
	LiteralString        LiteralKind = "DecoratorString"
	LiteralNumber        LiteralKind = "DecoratorNumber"
	LiteralBoolean       LiteralKind = "DecoratorBoolean"
	LiteralTypeReference LiteralKind = "DecoratorTypeReference"
)

// DecoratorLiteral is one decorator argument. Only the field matching
// Kind is meaningful.
type DecoratorLiteral struct {
	Kind     LiteralKind
	String   string
	Number   float64
	Boolean  bool
	Type     *TypeIdentifier
	IsArray  bool
	Location *Range
}

// Decorator is a named annotation with optional literal arguments.
type Decorator struct {
	Name      string
	Arguments []DecoratorLiteral
	Location  *Range
}

// =============================================================================
// Validators
// =============================================================================

// StringRegexValidator constrains string values to a pattern.
type StringRegexValidator struct {
	Pattern string
	Flags   string
}

// StringLengthValidator constrains string length. Either bound may be absent.
type StringLengthValidator struct {
	MinLength *int32
	MaxLength *int32
}

// Number is the set of numeric types a DomainValidator may range over.
type Number interface {
	int32 | int64 | float64
}

// DomainValidator constrains a numeric value to [Lower, Upper].
// Either bound may be absent.
type DomainValidator[T Number] struct {
	Lower *T
	Upper *T
}

// Numeric validator aliases, one per numeric kind.
type (
	IntegerDomainValidator = DomainValidator[int32]
	LongDomainValidator    = DomainValidator[int64]
	DoubleDomainValidator  = DomainValidator[float64]
)

// NumericValidator is implemented by every DomainValidator instantiation.
type NumericValidator interface {
	// Class returns the wire discriminator for the instantiation.
	Class() string
	// Inverted reports whether both bounds are set and lower > upper.
	Inverted() bool
	// Bounds returns the bounds for display; absent bounds are nil.
	Bounds() (lower, upper any)
}

// Class returns the wire discriminator for the instantiation.
func (v *DomainValidator[T]) Class() string {
	var zero T
	switch any(zero).(type) {
	case int32:
		return ClassName("IntegerDomainValidator")
	case int64:
		return ClassName("LongDomainValidator")
	default:
		return ClassName("DoubleDomainValidator")
	}
}

// Inverted reports whether both bounds are set and lower > upper.
func (v *DomainValidator[T]) Inverted() bool {
	return v.Lower != nil && v.Upper != nil && *v.Lower > *v.Upper
}

// Bounds returns the bounds for display; absent bounds are nil.
func (v *DomainValidator[T]) Bounds() (lower, upper any) {
	if v.Lower != nil {
		lower = *v.Lower
	}
	if v.Upper != nil {
		upper = *v.Upper
	}
	return lower, upper
}

// String renders the validator as a closed interval, "-inf"/"+inf" for absent bounds.
func (v *DomainValidator[T]) String() string {
	lower, upper := "-inf", "+inf"
	if v.Lower != nil {
		lower = fmt.Sprint(*v.Lower)
	}
	if v.Upper != nil {
		upper = fmt.Sprint(*v.Upper)
	}
	return "[" + lower + ", " + upper + "]"
}

// Ptr returns a pointer to v. Handy for optional fields.
func Ptr[T any](v T) *T {
	return &v
}
