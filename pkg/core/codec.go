package core

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Wire codec for the metamodel JSON form. Every object carries a "$class"
// discriminator and field names follow the metamodel verbatim.

func peekClass(data []byte) (string, error) {
	var probe struct {
		Class string `json:"$class"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return "", err
	}
	return probe.Class, nil
}

func unknownClass(what, class string) *Error {
	return NewParseError(CodeUnknownClass, "unknown %s class %q", what, class).WithValue(class)
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// =============================================================================
// Locations
// =============================================================================

type positionWire struct {
	Class  string `json:"$class"`
	Line   int32  `json:"line"`
	Column int32  `json:"column"`
	Offset int32  `json:"offset"`
}

// MarshalJSON implements json.Marshaler.
func (p Position) MarshalJSON() ([]byte, error) {
	return json.Marshal(positionWire{ClassName("Position"), p.Line, p.Column, p.Offset})
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *Position) UnmarshalJSON(data []byte) error {
	var w positionWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*p = Position{Line: w.Line, Column: w.Column, Offset: w.Offset}
	return nil
}

type rangeWire struct {
	Class  string   `json:"$class"`
	Start  Position `json:"start"`
	End    Position `json:"end"`
	Source *string  `json:"source,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (r Range) MarshalJSON() ([]byte, error) {
	return json.Marshal(rangeWire{ClassName("Range"), r.Start, r.End, r.Source})
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *Range) UnmarshalJSON(data []byte) error {
	var w rangeWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*r = Range{Start: w.Start, End: w.End, Source: w.Source}
	return nil
}

// =============================================================================
// Type references and identity
// =============================================================================

type typeIdentifierWire struct {
	Class     string  `json:"$class"`
	Name      string  `json:"name"`
	Namespace *string `json:"namespace,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (t TypeIdentifier) MarshalJSON() ([]byte, error) {
	return json.Marshal(typeIdentifierWire{ClassName("TypeIdentifier"), t.Name, t.Namespace})
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *TypeIdentifier) UnmarshalJSON(data []byte) error {
	var w typeIdentifierWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*t = TypeIdentifier{Name: w.Name, Namespace: w.Namespace}
	return nil
}

type identifiedWire struct {
	Class string `json:"$class"`
	Name  string `json:"name,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (i Identified) MarshalJSON() ([]byte, error) {
	return json.Marshal(identifiedWire{i.Class(), i.Name})
}

// UnmarshalJSON implements json.Unmarshaler.
func (i *Identified) UnmarshalJSON(data []byte) error {
	var w identifiedWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	switch ShortClass(w.Class) {
	case "Identified", "IdentifiedBy", "":
	default:
		return unknownClass("identified", w.Class)
	}
	*i = Identified{Name: w.Name}
	return nil
}

// =============================================================================
// Decorators
// =============================================================================

type decoratorLiteralWire struct {
	Class    string          `json:"$class"`
	Value    json.RawMessage `json:"value,omitempty"`
	Type     *TypeIdentifier `json:"type,omitempty"`
	IsArray  *bool           `json:"isArray,omitempty"`
	Location *Range          `json:"location,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (l DecoratorLiteral) MarshalJSON() ([]byte, error) {
	w := decoratorLiteralWire{Class: ClassName(string(l.Kind)), Location: l.Location}
	var err error
	switch l.Kind {
	case LiteralString:
		w.Value, err = json.Marshal(l.String)
	case LiteralNumber:
		w.Value, err = json.Marshal(l.Number)
	case LiteralBoolean:
		w.Value, err = json.Marshal(l.Boolean)
	case LiteralTypeReference:
		isArray := l.IsArray
		w.Type = l.Type
		w.IsArray = &isArray
	default:
		return nil, unknownClass("decorator literal", string(l.Kind))
	}
	if err != nil {
		return nil, err
	}
	return json.Marshal(w)
}

// UnmarshalJSON implements json.Unmarshaler.
func (l *DecoratorLiteral) UnmarshalJSON(data []byte) error {
	var w decoratorLiteralWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	out := DecoratorLiteral{Kind: LiteralKind(ShortClass(w.Class)), Location: w.Location}
	var err error
	switch out.Kind {
	case LiteralString:
		err = json.Unmarshal(w.Value, &out.String)
	case LiteralNumber:
		err = json.Unmarshal(w.Value, &out.Number)
	case LiteralBoolean:
		err = json.Unmarshal(w.Value, &out.Boolean)
	case LiteralTypeReference:
		out.Type = w.Type
		out.IsArray = w.IsArray != nil && *w.IsArray
	default:
		return unknownClass("decorator literal", w.Class)
	}
	if err != nil {
		return err
	}
	*l = out
	return nil
}

type decoratorWire struct {
	Class     string             `json:"$class"`
	Name      string             `json:"name"`
	Arguments []DecoratorLiteral `json:"arguments,omitempty"`
	Location  *Range             `json:"location,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (d Decorator) MarshalJSON() ([]byte, error) {
	return json.Marshal(decoratorWire{ClassName("Decorator"), d.Name, d.Arguments, d.Location})
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Decorator) UnmarshalJSON(data []byte) error {
	var w decoratorWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*d = Decorator{Name: w.Name, Arguments: w.Arguments, Location: w.Location}
	return nil
}

// =============================================================================
// Validators
// =============================================================================

type regexValidatorWire struct {
	Class   string `json:"$class"`
	Pattern string `json:"pattern"`
	Flags   string `json:"flags"`
}

// MarshalJSON implements json.Marshaler.
func (v StringRegexValidator) MarshalJSON() ([]byte, error) {
	return json.Marshal(regexValidatorWire{ClassName("StringRegexValidator"), v.Pattern, v.Flags})
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *StringRegexValidator) UnmarshalJSON(data []byte) error {
	var w regexValidatorWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*v = StringRegexValidator{Pattern: w.Pattern, Flags: w.Flags}
	return nil
}

type lengthValidatorWire struct {
	Class     string `json:"$class"`
	MinLength *int32 `json:"minLength,omitempty"`
	MaxLength *int32 `json:"maxLength,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (v StringLengthValidator) MarshalJSON() ([]byte, error) {
	return json.Marshal(lengthValidatorWire{ClassName("StringLengthValidator"), v.MinLength, v.MaxLength})
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *StringLengthValidator) UnmarshalJSON(data []byte) error {
	var w lengthValidatorWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*v = StringLengthValidator{MinLength: w.MinLength, MaxLength: w.MaxLength}
	return nil
}

type domainValidatorWire[T Number] struct {
	Class string `json:"$class"`
	Lower *T     `json:"lower,omitempty"`
	Upper *T     `json:"upper,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (v DomainValidator[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(domainValidatorWire[T]{v.Class(), v.Lower, v.Upper})
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *DomainValidator[T]) UnmarshalJSON(data []byte) error {
	var w domainValidatorWire[T]
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*v = DomainValidator[T]{Lower: w.Lower, Upper: w.Upper}
	return nil
}

// decodeNumericValidator picks the instantiation from the validator's own
// discriminator, so a mismatched validator survives decoding and is
// reported by validation.
func decodeNumericValidator(raw json.RawMessage) (NumericValidator, error) {
	class, err := peekClass(raw)
	if err != nil {
		return nil, err
	}
	var v NumericValidator
	switch ShortClass(class) {
	case "IntegerDomainValidator":
		v = &IntegerDomainValidator{}
	case "LongDomainValidator":
		v = &LongDomainValidator{}
	case "DoubleDomainValidator":
		v = &DoubleDomainValidator{}
	default:
		return nil, unknownClass("validator", class)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return nil, err
	}
	return v, nil
}

// decodeDefault decodes a default value for the primitive named by kind
// ("Boolean", "Integer", "Long", "Double"; anything else is a string).
func decodeDefault(kind string, raw json.RawMessage) (any, error) {
	if isNull(raw) {
		return nil, nil
	}
	var err error
	switch kind {
	case "Boolean":
		var v bool
		err = json.Unmarshal(raw, &v)
		return v, err
	case "Integer":
		var v int32
		err = json.Unmarshal(raw, &v)
		return v, err
	case "Long":
		var v int64
		err = json.Unmarshal(raw, &v)
		return v, err
	case "Double":
		var v float64
		err = json.Unmarshal(raw, &v)
		return v, err
	default:
		var v string
		err = json.Unmarshal(raw, &v)
		return v, err
	}
}

func encodeOptional(v any) (json.RawMessage, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}

// =============================================================================
// Properties
// =============================================================================

type propertyWire struct {
	Class           string                 `json:"$class"`
	Name            string                 `json:"name"`
	IsArray         bool                   `json:"isArray"`
	IsOptional      bool                   `json:"isOptional"`
	DefaultValue    json.RawMessage        `json:"defaultValue,omitempty"`
	Type            *TypeIdentifier        `json:"type,omitempty"`
	Validator       json.RawMessage        `json:"validator,omitempty"`
	LengthValidator *StringLengthValidator `json:"lengthValidator,omitempty"`
	Decorators      []Decorator            `json:"decorators,omitempty"`
	Location        *Range                 `json:"location,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (p Property) MarshalJSON() ([]byte, error) {
	w := propertyWire{
		Class:           p.Class(),
		Name:            p.Name,
		IsArray:         p.IsArray,
		IsOptional:      p.IsOptional,
		Type:            p.Type,
		LengthValidator: p.LengthValidator,
		Decorators:      p.Decorators,
		Location:        p.Location,
	}
	var err error
	if w.DefaultValue, err = encodeOptional(p.DefaultValue); err != nil {
		return nil, err
	}
	switch {
	case p.RegexValidator != nil:
		w.Validator, err = json.Marshal(p.RegexValidator)
	case p.Domain != nil:
		w.Validator, err = json.Marshal(p.Domain)
	}
	if err != nil {
		return nil, err
	}
	return json.Marshal(w)
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *Property) UnmarshalJSON(data []byte) error {
	var w propertyWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	kind := PropertyKind(ShortClass(w.Class))
	if !kind.Known() {
		return unknownClass("property", w.Class).WithProperty(w.Name)
	}
	out := Property{
		Kind:            kind,
		Name:            w.Name,
		IsArray:         w.IsArray,
		IsOptional:      w.IsOptional,
		Type:            w.Type,
		LengthValidator: w.LengthValidator,
		Decorators:      w.Decorators,
		Location:        w.Location,
	}
	var err error
	if out.DefaultValue, err = decodeDefault(strings.TrimSuffix(string(kind), "Property"), w.DefaultValue); err != nil {
		return err
	}
	if !isNull(w.Validator) {
		switch {
		case kind == PropertyString:
			out.RegexValidator = &StringRegexValidator{}
			err = json.Unmarshal(w.Validator, out.RegexValidator)
		case kind.Numeric():
			out.Domain, err = decodeNumericValidator(w.Validator)
		default:
			return NewParseError(CodeUnknownClass, "%s %q does not accept a validator", kind, w.Name).
				WithProperty(w.Name)
		}
		if err != nil {
			return err
		}
	}
	*p = out
	return nil
}

type enumPropertyWire struct {
	Class      string      `json:"$class"`
	Name       string      `json:"name"`
	Decorators []Decorator `json:"decorators,omitempty"`
	Location   *Range      `json:"location,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (p EnumProperty) MarshalJSON() ([]byte, error) {
	return json.Marshal(enumPropertyWire{ClassName("EnumProperty"), p.Name, p.Decorators, p.Location})
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *EnumProperty) UnmarshalJSON(data []byte) error {
	var w enumPropertyWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*p = EnumProperty{Name: w.Name, Decorators: w.Decorators, Location: w.Location}
	return nil
}

// =============================================================================
// Declarations
// =============================================================================

type conceptWire struct {
	Class      string          `json:"$class"`
	Name       string          `json:"name"`
	IsAbstract bool            `json:"isAbstract"`
	Identified *Identified     `json:"identified,omitempty"`
	SuperType  *TypeIdentifier `json:"superType,omitempty"`
	Properties []Property      `json:"properties"`
	Decorators []Decorator     `json:"decorators,omitempty"`
	Location   *Range          `json:"location,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (d *ConceptDeclaration) MarshalJSON() ([]byte, error) {
	props := d.Properties
	if props == nil {
		props = []Property{}
	}
	return json.Marshal(conceptWire{
		Class:      d.Class(),
		Name:       d.Name,
		IsAbstract: d.IsAbstract,
		Identified: d.Identified,
		SuperType:  d.SuperType,
		Properties: props,
		Decorators: d.Decorators,
		Location:   d.Location,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *ConceptDeclaration) UnmarshalJSON(data []byte) error {
	var w conceptWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*d = ConceptDeclaration{
		Kind:       ConceptKind(ShortClass(w.Class)),
		Name:       w.Name,
		IsAbstract: w.IsAbstract,
		Identified: w.Identified,
		SuperType:  w.SuperType,
		Properties: w.Properties,
		Decorators: w.Decorators,
		Location:   w.Location,
	}
	return nil
}

type enumWire struct {
	Class      string         `json:"$class"`
	Name       string         `json:"name"`
	Properties []EnumProperty `json:"properties"`
	Decorators []Decorator    `json:"decorators,omitempty"`
	Location   *Range         `json:"location,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (d *EnumDeclaration) MarshalJSON() ([]byte, error) {
	props := d.Properties
	if props == nil {
		props = []EnumProperty{}
	}
	return json.Marshal(enumWire{d.Class(), d.Name, props, d.Decorators, d.Location})
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *EnumDeclaration) UnmarshalJSON(data []byte) error {
	var w enumWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*d = EnumDeclaration{Name: w.Name, Properties: w.Properties, Decorators: w.Decorators, Location: w.Location}
	return nil
}

type mapTypeWire struct {
	Class      string          `json:"$class"`
	Type       *TypeIdentifier `json:"type,omitempty"`
	Decorators []Decorator     `json:"decorators,omitempty"`
	Location   *Range          `json:"location,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (k MapKeyType) MarshalJSON() ([]byte, error) {
	return json.Marshal(mapTypeWire{ClassName(string(k.Kind)), k.Type, k.Decorators, k.Location})
}

// UnmarshalJSON implements json.Unmarshaler. Unrecognized key classes are
// kept as-is and rejected by validation.
func (k *MapKeyType) UnmarshalJSON(data []byte) error {
	var w mapTypeWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*k = MapKeyType{Kind: MapKeyKind(ShortClass(w.Class)), Type: w.Type, Decorators: w.Decorators, Location: w.Location}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (v MapValueType) MarshalJSON() ([]byte, error) {
	return json.Marshal(mapTypeWire{ClassName(string(v.Kind)), v.Type, v.Decorators, v.Location})
}

// UnmarshalJSON implements json.Unmarshaler. Unrecognized value classes are
// kept as-is and rejected by validation.
func (v *MapValueType) UnmarshalJSON(data []byte) error {
	var w mapTypeWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*v = MapValueType{Kind: MapValueKind(ShortClass(w.Class)), Type: w.Type, Decorators: w.Decorators, Location: w.Location}
	return nil
}

type mapWire struct {
	Class      string       `json:"$class"`
	Name       string       `json:"name"`
	Key        MapKeyType   `json:"key"`
	Value      MapValueType `json:"value"`
	Decorators []Decorator  `json:"decorators,omitempty"`
	Location   *Range       `json:"location,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (d *MapDeclaration) MarshalJSON() ([]byte, error) {
	return json.Marshal(mapWire{d.Class(), d.Name, d.Key, d.Value, d.Decorators, d.Location})
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *MapDeclaration) UnmarshalJSON(data []byte) error {
	var w mapWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*d = MapDeclaration{Name: w.Name, Key: w.Key, Value: w.Value, Decorators: w.Decorators, Location: w.Location}
	return nil
}

type scalarWire struct {
	Class           string                 `json:"$class"`
	Name            string                 `json:"name"`
	DefaultValue    json.RawMessage        `json:"defaultValue,omitempty"`
	Validator       json.RawMessage        `json:"validator,omitempty"`
	LengthValidator *StringLengthValidator `json:"lengthValidator,omitempty"`
	Decorators      []Decorator            `json:"decorators,omitempty"`
	Location        *Range                 `json:"location,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (d *ScalarDeclaration) MarshalJSON() ([]byte, error) {
	w := scalarWire{
		Class:           d.Class(),
		Name:            d.Name,
		LengthValidator: d.LengthValidator,
		Decorators:      d.Decorators,
		Location:        d.Location,
	}
	var err error
	if w.DefaultValue, err = encodeOptional(d.DefaultValue); err != nil {
		return nil, err
	}
	switch {
	case d.RegexValidator != nil:
		w.Validator, err = json.Marshal(d.RegexValidator)
	case d.Domain != nil:
		w.Validator, err = json.Marshal(d.Domain)
	}
	if err != nil {
		return nil, err
	}
	return json.Marshal(w)
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *ScalarDeclaration) UnmarshalJSON(data []byte) error {
	var w scalarWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	kind := ScalarKind(ShortClass(w.Class))
	out := ScalarDeclaration{
		Kind:            kind,
		Name:            w.Name,
		LengthValidator: w.LengthValidator,
		Decorators:      w.Decorators,
		Location:        w.Location,
	}
	var err error
	if out.DefaultValue, err = decodeDefault(strings.TrimSuffix(string(kind), "Scalar"), w.DefaultValue); err != nil {
		return err
	}
	if !isNull(w.Validator) {
		switch kind {
		case ScalarString:
			out.RegexValidator = &StringRegexValidator{}
			err = json.Unmarshal(w.Validator, out.RegexValidator)
		case ScalarInteger, ScalarLong, ScalarDouble:
			out.Domain, err = decodeNumericValidator(w.Validator)
		default:
			return NewParseError(CodeUnknownClass, "%s %q does not accept a validator", kind, w.Name).
				WithDeclaration(w.Name)
		}
		if err != nil {
			return err
		}
	}
	*d = out
	return nil
}

// DecodeDeclaration decodes one declaration, dispatching on its "$class".
func DecodeDeclaration(data []byte) (Declaration, error) {
	class, err := peekClass(data)
	if err != nil {
		return nil, err
	}
	var d Declaration
	switch short := ShortClass(class); short {
	case string(KindConcept), string(KindAsset), string(KindParticipant),
		string(KindTransaction), string(KindEvent):
		d = &ConceptDeclaration{}
	case "EnumDeclaration":
		d = &EnumDeclaration{}
	case "MapDeclaration":
		d = &MapDeclaration{}
	case string(ScalarBoolean), string(ScalarInteger), string(ScalarLong),
		string(ScalarDouble), string(ScalarString), string(ScalarDateTime):
		d = &ScalarDeclaration{}
	default:
		return nil, unknownClass("declaration", class)
	}
	if err := json.Unmarshal(data, d); err != nil {
		return nil, err
	}
	return d, nil
}

// =============================================================================
// Imports and models
// =============================================================================

type aliasedTypeWire struct {
	Class       string `json:"$class"`
	Name        string `json:"name"`
	AliasedName string `json:"aliasedName"`
}

// MarshalJSON implements json.Marshaler.
func (a AliasedType) MarshalJSON() ([]byte, error) {
	return json.Marshal(aliasedTypeWire{ClassName("AliasedType"), a.Name, a.AliasedName})
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *AliasedType) UnmarshalJSON(data []byte) error {
	var w aliasedTypeWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*a = AliasedType{Name: w.Name, AliasedName: w.AliasedName}
	return nil
}

type importWire struct {
	Class        string        `json:"$class"`
	Namespace    string        `json:"namespace"`
	URI          *string       `json:"uri,omitempty"`
	Name         string        `json:"name,omitempty"`
	Types        []string      `json:"types,omitempty"`
	AliasedTypes []AliasedType `json:"aliasedTypes,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (i Import) MarshalJSON() ([]byte, error) {
	return json.Marshal(importWire{ClassName(string(i.Kind)), i.Namespace, i.URI, i.Name, i.Types, i.AliasedTypes})
}

// UnmarshalJSON implements json.Unmarshaler.
func (i *Import) UnmarshalJSON(data []byte) error {
	var w importWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	kind := ImportKind(ShortClass(w.Class))
	switch kind {
	case ImportPlain, ImportAll, ImportType, ImportTypes:
	default:
		return unknownClass("import", w.Class).WithNamespace(w.Namespace)
	}
	*i = Import{
		Kind:         kind,
		Namespace:    w.Namespace,
		URI:          w.URI,
		Name:         w.Name,
		Types:        w.Types,
		AliasedTypes: w.AliasedTypes,
	}
	return nil
}

type modelWire struct {
	Class           string        `json:"$class"`
	Namespace       string        `json:"namespace"`
	SourceURI       *string       `json:"sourceUri,omitempty"`
	ConcertoVersion *string       `json:"concertoVersion,omitempty"`
	Imports         []Import      `json:"imports,omitempty"`
	Declarations    []Declaration `json:"declarations,omitempty"`
	Decorators      []Decorator   `json:"decorators,omitempty"`
}

type modelDecodeWire struct {
	Class           string            `json:"$class"`
	Namespace       string            `json:"namespace"`
	SourceURI       *string           `json:"sourceUri"`
	ConcertoVersion *string           `json:"concertoVersion"`
	Imports         []Import          `json:"imports"`
	Declarations    []json.RawMessage `json:"declarations"`
	Decorators      []Decorator       `json:"decorators"`
}

// MarshalJSON implements json.Marshaler.
func (m Model) MarshalJSON() ([]byte, error) {
	return json.Marshal(modelWire{
		Class:           ClassName("Model"),
		Namespace:       m.Namespace,
		SourceURI:       m.SourceURI,
		ConcertoVersion: m.ConcertoVersion,
		Imports:         m.Imports,
		Declarations:    m.Declarations,
		Decorators:      m.Decorators,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (m *Model) UnmarshalJSON(data []byte) error {
	var w modelDecodeWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if short := ShortClass(w.Class); short != "" && short != "Model" {
		return unknownClass("model", w.Class)
	}
	out := Model{
		Namespace:       w.Namespace,
		SourceURI:       w.SourceURI,
		ConcertoVersion: w.ConcertoVersion,
		Imports:         w.Imports,
		Decorators:      w.Decorators,
	}
	for _, raw := range w.Declarations {
		d, err := DecodeDeclaration(raw)
		if err != nil {
			if e, ok := AsError(err); ok && e.Namespace == "" {
				e.WithNamespace(w.Namespace)
			}
			return err
		}
		out.Declarations = append(out.Declarations, d)
	}
	*m = out
	return nil
}

type modelsWire struct {
	Class  string   `json:"$class"`
	Models []*Model `json:"models"`
}

// MarshalJSON implements json.Marshaler.
func (m Models) MarshalJSON() ([]byte, error) {
	models := m.Models
	if models == nil {
		models = []*Model{}
	}
	return json.Marshal(modelsWire{ClassName("Models"), models})
}

// UnmarshalJSON implements json.Unmarshaler.
func (m *Models) UnmarshalJSON(data []byte) error {
	var w modelsWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*m = Models{Models: w.Models}
	return nil
}

// DecodeDocument decodes a wire document holding either a single Model or
// a Models collection. Failures are returned as parse errors.
func DecodeDocument(data []byte) ([]*Model, error) {
	class, err := peekClass(data)
	if err != nil {
		return nil, asParseError(err)
	}
	if ShortClass(class) == "Models" {
		var doc Models
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, asParseError(err)
		}
		for i, m := range doc.Models {
			if m == nil {
				return nil, NewParseError(CodeMalformedDocument, "null model at index %d", i)
			}
		}
		return doc.Models, nil
	}
	var m Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, asParseError(err)
	}
	return []*Model{&m}, nil
}

func asParseError(err error) error {
	if e, ok := AsError(err); ok {
		e.Kind = KindParse
		return e
	}
	return NewParseError(CodeMalformedDocument, "malformed document").Wrap(err)
}
