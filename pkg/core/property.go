package core

// PropertyKind is the concrete variant of a Property.
// Values are the wire variant names.
type PropertyKind string

// Property kinds.
const (
	PropertyBoolean      PropertyKind = "BooleanProperty"
	PropertyString       PropertyKind = "StringProperty"
	PropertyInteger      PropertyKind = "IntegerProperty"
	PropertyLong         PropertyKind = "LongProperty"
	PropertyDouble       PropertyKind = "DoubleProperty"
	PropertyDateTime     PropertyKind = "DateTimeProperty"
	PropertyObject       PropertyKind = "ObjectProperty"
	PropertyRelationship PropertyKind = "RelationshipProperty"
)

// Known reports whether k is a recognized property kind.
func (k PropertyKind) Known() bool {
	switch k {
	case PropertyBoolean, PropertyString, PropertyInteger, PropertyLong,
		PropertyDouble, PropertyDateTime, PropertyObject, PropertyRelationship:
		return true
	}
	return false
}

// References reports whether properties of this kind carry a type reference.
func (k PropertyKind) References() bool {
	return k == PropertyObject || k == PropertyRelationship
}

// Numeric reports whether properties of this kind accept a domain validator.
func (k PropertyKind) Numeric() bool {
	return k == PropertyInteger || k == PropertyLong || k == PropertyDouble
}

// Property is a named, typed member of a concept-like declaration.
//
// DefaultValue holds a bool for Boolean, int32 for Integer, int64 for Long,
// float64 for Double and a string for String, DateTime and Object properties.
type Property struct {
	Kind       PropertyKind
	Name       string
	IsArray    bool
	IsOptional bool
	Decorators []Decorator
	Location   *Range

	DefaultValue any

	// Type is set for Object and Relationship properties.
	Type *TypeIdentifier

	// String validators.
	RegexValidator  *StringRegexValidator
	LengthValidator *StringLengthValidator

	// Domain is set for Integer, Long and Double properties.
	Domain NumericValidator
}

// Class returns the wire discriminator.
func (p *Property) Class() string {
	return ClassName(string(p.Kind))
}

// EnumProperty is one enumerant of an enum declaration.
type EnumProperty struct {
	Name       string
	Decorators []Decorator
	Location   *Range
}
