package core

// Declaration is a named type definition within a model. The set of
// implementations is closed: *ConceptDeclaration, *EnumDeclaration,
// *MapDeclaration and *ScalarDeclaration.
type Declaration interface {
	GetName() string
	GetDecorators() []Decorator
	GetLocation() *Range
	// Class returns the wire discriminator of the concrete variant.
	Class() string

	declaration()
}

// =============================================================================
// Concept-like declarations
// =============================================================================

// ConceptKind distinguishes the concept-like declaration variants.
type ConceptKind string

// Concept-like kinds.
const (
	KindConcept     ConceptKind = "ConceptDeclaration"
	KindAsset       ConceptKind = "AssetDeclaration"
	KindParticipant ConceptKind = "ParticipantDeclaration"
	KindTransaction ConceptKind = "TransactionDeclaration"
	KindEvent       ConceptKind = "EventDeclaration"
)

// Label returns the lower-case keyword for the kind, e.g. "asset".
func (k ConceptKind) Label() string {
	switch k {
	case KindAsset:
		return "asset"
	case KindParticipant:
		return "participant"
	case KindTransaction:
		return "transaction"
	case KindEvent:
		return "event"
	default:
		return "concept"
	}
}

// ConceptDeclaration covers concepts, assets, participants, transactions
// and events. They share inheritance and property-set rules.
type ConceptDeclaration struct {
	Kind       ConceptKind
	Name       string
	IsAbstract bool
	Identified *Identified
	SuperType  *TypeIdentifier
	Properties []Property
	Decorators []Decorator
	Location   *Range
}

func (d *ConceptDeclaration) GetName() string            { return d.Name }
func (d *ConceptDeclaration) GetDecorators() []Decorator { return d.Decorators }
func (d *ConceptDeclaration) GetLocation() *Range        { return d.Location }
func (d *ConceptDeclaration) Class() string              { return ClassName(string(d.Kind)) }
func (*ConceptDeclaration) declaration()                 {}

// Property returns the property with the given name, or nil.
func (d *ConceptDeclaration) Property(name string) *Property {
	for i := range d.Properties {
		if d.Properties[i].Name == name {
			return &d.Properties[i]
		}
	}
	return nil
}

// ConceptLike returns d as a concept-like declaration when it is one.
func ConceptLike(d Declaration) (*ConceptDeclaration, bool) {
	c, ok := d.(*ConceptDeclaration)
	return c, ok
}

// =============================================================================
// Enums
// =============================================================================

// EnumDeclaration is a closed set of named enumerants.
type EnumDeclaration struct {
	Name       string
	Properties []EnumProperty
	Decorators []Decorator
	Location   *Range
}

func (d *EnumDeclaration) GetName() string            { return d.Name }
func (d *EnumDeclaration) GetDecorators() []Decorator { return d.Decorators }
func (d *EnumDeclaration) GetLocation() *Range        { return d.Location }
func (d *EnumDeclaration) Class() string              { return ClassName("EnumDeclaration") }
func (*EnumDeclaration) declaration()                 {}

// =============================================================================
// Maps
// =============================================================================

// MapKeyKind is the wire variant of a map key type.
type MapKeyKind string

// Map key kinds. Only String and DateTime keys are valid; ObjectMapKeyType
// exists on the wire and is rejected by validation.
const (
	MapKeyString   MapKeyKind = "StringMapKeyType"
	MapKeyDateTime MapKeyKind = "DateTimeMapKeyType"
	MapKeyObject   MapKeyKind = "ObjectMapKeyType"
)

// MapValueKind is the wire variant of a map value type.
type MapValueKind string

// Map value kinds.
const (
	MapValueBoolean      MapValueKind = "BooleanMapValueType"
	MapValueDateTime     MapValueKind = "DateTimeMapValueType"
	MapValueString       MapValueKind = "StringMapValueType"
	MapValueInteger      MapValueKind = "IntegerMapValueType"
	MapValueLong         MapValueKind = "LongMapValueType"
	MapValueDouble       MapValueKind = "DoubleMapValueType"
	MapValueObject       MapValueKind = "ObjectMapValueType"
	MapValueRelationship MapValueKind = "RelationshipMapValueType"
)

// Known reports whether k is a recognized map value kind.
func (k MapValueKind) Known() bool {
	switch k {
	case MapValueBoolean, MapValueDateTime, MapValueString, MapValueInteger,
		MapValueLong, MapValueDouble, MapValueObject, MapValueRelationship:
		return true
	}
	return false
}

// References reports whether values of this kind carry a type reference.
func (k MapValueKind) References() bool {
	return k == MapValueObject || k == MapValueRelationship
}

// MapKeyType is the key half of a map declaration.
type MapKeyType struct {
	Kind       MapKeyKind
	Type       *TypeIdentifier
	Decorators []Decorator
	Location   *Range
}

// MapValueType is the value half of a map declaration.
type MapValueType struct {
	Kind       MapValueKind
	Type       *TypeIdentifier
	Decorators []Decorator
	Location   *Range
}

// MapDeclaration is a named key/value map type.
type MapDeclaration struct {
	Name       string
	Key        MapKeyType
	Value      MapValueType
	Decorators []Decorator
	Location   *Range
}

func (d *MapDeclaration) GetName() string            { return d.Name }
func (d *MapDeclaration) GetDecorators() []Decorator { return d.Decorators }
func (d *MapDeclaration) GetLocation() *Range        { return d.Location }
func (d *MapDeclaration) Class() string              { return ClassName("MapDeclaration") }
func (*MapDeclaration) declaration()                 {}

// =============================================================================
// Scalars
// =============================================================================

// ScalarKind is the primitive type a scalar declaration names.
type ScalarKind string

// Scalar kinds.
const (
	ScalarBoolean  ScalarKind = "BooleanScalar"
	ScalarInteger  ScalarKind = "IntegerScalar"
	ScalarLong     ScalarKind = "LongScalar"
	ScalarDouble   ScalarKind = "DoubleScalar"
	ScalarString   ScalarKind = "StringScalar"
	ScalarDateTime ScalarKind = "DateTimeScalar"
)

// ScalarDeclaration is a named primitive type with an optional default and validator.
// DefaultValue follows the same per-kind typing as Property.DefaultValue.
type ScalarDeclaration struct {
	Kind            ScalarKind
	Name            string
	DefaultValue    any
	RegexValidator  *StringRegexValidator
	LengthValidator *StringLengthValidator
	Domain          NumericValidator
	Decorators      []Decorator
	Location        *Range
}

func (d *ScalarDeclaration) GetName() string            { return d.Name }
func (d *ScalarDeclaration) GetDecorators() []Decorator { return d.Decorators }
func (d *ScalarDeclaration) GetLocation() *Range        { return d.Location }
func (d *ScalarDeclaration) Class() string              { return ClassName(string(d.Kind)) }
func (*ScalarDeclaration) declaration()                 {}

// KindLabel returns a short human label for any declaration variant.
func KindLabel(d Declaration) string {
	switch d := d.(type) {
	case *ConceptDeclaration:
		return d.Kind.Label()
	case *EnumDeclaration:
		return "enum"
	case *MapDeclaration:
		return "map"
	case *ScalarDeclaration:
		return "scalar"
	default:
		return "unknown"
	}
}
