package testutil

import "github.com/leapstack-labs/concerto/pkg/core"

// Model builds a model with the given declarations.
func Model(namespace string, decls ...core.Declaration) *core.Model {
	return &core.Model{Namespace: namespace, Declarations: decls}
}

// Concept builds a concept declaration with the given properties.
func Concept(name string, props ...core.Property) *core.ConceptDeclaration {
	return &core.ConceptDeclaration{Kind: core.KindConcept, Name: name, Properties: props}
}

// Extends builds a concept declaration whose super type is namespace.super.
func Extends(name, namespace, super string, props ...core.Property) *core.ConceptDeclaration {
	c := Concept(name, props...)
	c.SuperType = core.NewTypeIdentifier(namespace, super)
	return c
}

// StringProp builds a required, non-array String property.
func StringProp(name string) core.Property {
	return core.Property{Kind: core.PropertyString, Name: name}
}

// IntegerProp builds an Integer property.
func IntegerProp(name string) core.Property {
	return core.Property{Kind: core.PropertyInteger, Name: name}
}

// ObjectProp builds an Object property referencing namespace.typeName.
func ObjectProp(name, namespace, typeName string) core.Property {
	return core.Property{Kind: core.PropertyObject, Name: name, Type: core.NewTypeIdentifier(namespace, typeName)}
}

// RelationshipProp builds a Relationship property referencing namespace.typeName.
func RelationshipProp(name, namespace, typeName string) core.Property {
	return core.Property{Kind: core.PropertyRelationship, Name: name, Type: core.NewTypeIdentifier(namespace, typeName)}
}

// Enum builds an enum declaration.
func Enum(name string, values ...string) *core.EnumDeclaration {
	e := &core.EnumDeclaration{Name: name}
	for _, v := range values {
		e.Properties = append(e.Properties, core.EnumProperty{Name: v})
	}
	return e
}

// StringMap builds a String-keyed map declaration with the given value kind.
func StringMap(name string, value core.MapValueKind) *core.MapDeclaration {
	return &core.MapDeclaration{
		Name:  name,
		Key:   core.MapKeyType{Kind: core.MapKeyString},
		Value: core.MapValueType{Kind: value},
	}
}

// IntegerScalar builds an Integer scalar with an optional domain.
func IntegerScalar(name string, domain *core.IntegerDomainValidator) *core.ScalarDeclaration {
	s := &core.ScalarDeclaration{Kind: core.ScalarInteger, Name: name}
	if domain != nil {
		s.Domain = domain
	}
	return s
}
