package core

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const personModelJSON = `{
  "$class": "concerto.metamodel@1.0.0.Model",
  "namespace": "org.acme.hr",
  "concertoVersion": "1.0.0",
  "imports": [
    {"$class": "concerto.metamodel@1.0.0.ImportType", "namespace": "org.acme.base", "name": "Address"}
  ],
  "declarations": [
    {
      "$class": "concerto.metamodel@1.0.0.ParticipantDeclaration",
      "name": "Person",
      "isAbstract": false,
      "identified": {"$class": "concerto.metamodel@1.0.0.IdentifiedBy", "name": "email"},
      "properties": [
        {
          "$class": "concerto.metamodel@1.0.0.StringProperty",
          "name": "email",
          "isArray": false,
          "isOptional": false,
          "validator": {"$class": "concerto.metamodel@1.0.0.StringRegexValidator", "pattern": "^[^@]+@[^@]+$", "flags": ""}
        },
        {
          "$class": "concerto.metamodel@1.0.0.IntegerProperty",
          "name": "age",
          "isArray": false,
          "isOptional": true,
          "defaultValue": 18,
          "validator": {"$class": "concerto.metamodel@1.0.0.IntegerDomainValidator", "lower": 0, "upper": 150}
        },
        {
          "$class": "concerto.metamodel@1.0.0.ObjectProperty",
          "name": "address",
          "isArray": false,
          "isOptional": false,
          "type": {"$class": "concerto.metamodel@1.0.0.TypeIdentifier", "name": "Address", "namespace": "org.acme.base"}
        }
      ],
      "decorators": [
        {
          "$class": "concerto.metamodel@1.0.0.Decorator",
          "name": "description",
          "arguments": [
            {"$class": "concerto.metamodel@1.0.0.DecoratorString", "value": "A person"},
            {"$class": "concerto.metamodel@1.0.0.DecoratorNumber", "value": 2}
          ]
        }
      ],
      "location": {
        "$class": "concerto.metamodel@1.0.0.Range",
        "start": {"$class": "concerto.metamodel@1.0.0.Position", "line": 4, "column": 1, "offset": 40},
        "end": {"$class": "concerto.metamodel@1.0.0.Position", "line": 9, "column": 2, "offset": 120}
      }
    },
    {
      "$class": "concerto.metamodel@1.0.0.MapDeclaration",
      "name": "Scores",
      "key": {"$class": "concerto.metamodel@1.0.0.StringMapKeyType"},
      "value": {"$class": "concerto.metamodel@1.0.0.DoubleMapValueType"}
    },
    {
      "$class": "concerto.metamodel@1.0.0.EnumDeclaration",
      "name": "Level",
      "properties": [
        {"$class": "concerto.metamodel@1.0.0.EnumProperty", "name": "JUNIOR"},
        {"$class": "concerto.metamodel@1.0.0.EnumProperty", "name": "SENIOR"}
      ]
    },
    {
      "$class": "concerto.metamodel@1.0.0.LongScalar",
      "name": "EmployeeId",
      "defaultValue": 1,
      "validator": {"$class": "concerto.metamodel@1.0.0.LongDomainValidator", "lower": 1}
    }
  ]
}`

func TestDecodeDocument_Model(t *testing.T) {
	models, err := DecodeDocument([]byte(personModelJSON))
	require.NoError(t, err)
	require.Len(t, models, 1)

	m := models[0]
	assert.Equal(t, "org.acme.hr", m.Namespace)
	require.NotNil(t, m.ConcertoVersion)
	assert.Equal(t, "1.0.0", *m.ConcertoVersion)
	require.Len(t, m.Imports, 1)
	assert.Equal(t, ImportType, m.Imports[0].Kind)
	assert.Equal(t, "Address", m.Imports[0].Name)
	require.Len(t, m.Declarations, 4)

	person, ok := ConceptLike(m.Declarations[0])
	require.True(t, ok)
	assert.Equal(t, KindParticipant, person.Kind)
	require.NotNil(t, person.Identified)
	assert.Equal(t, "email", person.Identified.Name)
	require.Len(t, person.Properties, 3)
	require.NotNil(t, person.Location)
	assert.Equal(t, int32(4), person.Location.Start.Line)

	email := person.Property("email")
	require.NotNil(t, email)
	require.NotNil(t, email.RegexValidator)
	assert.Equal(t, "^[^@]+@[^@]+$", email.RegexValidator.Pattern)

	age := person.Property("age")
	require.NotNil(t, age)
	assert.Equal(t, int32(18), age.DefaultValue)
	require.IsType(t, &IntegerDomainValidator{}, age.Domain)
	assert.False(t, age.Domain.Inverted())

	address := person.Property("address")
	require.NotNil(t, address)
	assert.Equal(t, PropertyObject, address.Kind)
	assert.Equal(t, "org.acme.base.Address", address.Type.String())

	require.Len(t, person.Decorators, 1)
	args := person.Decorators[0].Arguments
	require.Len(t, args, 2)
	assert.Equal(t, LiteralString, args[0].Kind)
	assert.Equal(t, "A person", args[0].String)
	assert.Equal(t, 2.0, args[1].Number)

	scores, ok := m.Declarations[1].(*MapDeclaration)
	require.True(t, ok)
	assert.Equal(t, MapKeyString, scores.Key.Kind)
	assert.Equal(t, MapValueDouble, scores.Value.Kind)

	level, ok := m.Declarations[2].(*EnumDeclaration)
	require.True(t, ok)
	assert.Len(t, level.Properties, 2)

	id, ok := m.Declarations[3].(*ScalarDeclaration)
	require.True(t, ok)
	assert.Equal(t, ScalarLong, id.Kind)
	assert.Equal(t, int64(1), id.DefaultValue)
	require.IsType(t, &LongDomainValidator{}, id.Domain)
}

func TestModel_MarshalPreservesWireNames(t *testing.T) {
	models, err := DecodeDocument([]byte(personModelJSON))
	require.NoError(t, err)

	data, err := json.Marshal(models[0])
	require.NoError(t, err)

	var generic map[string]any
	require.NoError(t, json.Unmarshal(data, &generic))
	assert.Equal(t, "concerto.metamodel@1.0.0.Model", generic["$class"])
	assert.Equal(t, "1.0.0", generic["concertoVersion"])

	decls := generic["declarations"].([]any)
	person := decls[0].(map[string]any)
	assert.Equal(t, "concerto.metamodel@1.0.0.ParticipantDeclaration", person["$class"])
	assert.Equal(t, false, person["isAbstract"])
	assert.Equal(t, "concerto.metamodel@1.0.0.IdentifiedBy", person["identified"].(map[string]any)["$class"])

	props := person["properties"].([]any)
	age := props[1].(map[string]any)
	assert.Equal(t, "concerto.metamodel@1.0.0.IntegerProperty", age["$class"])
	assert.Equal(t, true, age["isOptional"])
	assert.Equal(t, "concerto.metamodel@1.0.0.IntegerDomainValidator", age["validator"].(map[string]any)["$class"])

	again, err := DecodeDocument(data)
	require.NoError(t, err)
	assert.Equal(t, models[0], again[0])
}

func TestDecodeDocument_Models(t *testing.T) {
	doc := `{
	  "$class": "concerto.metamodel@1.0.0.Models",
	  "models": [
	    {"$class": "concerto.metamodel@1.0.0.Model", "namespace": "org.a", "declarations": []},
	    {"$class": "concerto.metamodel@1.0.0.Model", "namespace": "org.b"}
	  ]
	}`

	models, err := DecodeDocument([]byte(doc))
	require.NoError(t, err)
	require.Len(t, models, 2)
	assert.Equal(t, "org.a", models[0].Namespace)
	assert.Equal(t, "org.b", models[1].Namespace)
}

func TestDecodeDocument_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		code ErrorCode
	}{
		{
			name: "malformed json",
			doc:  `{"namespace": `,
			code: CodeMalformedDocument,
		},
		{
			name: "unknown declaration class",
			doc: `{"$class": "concerto.metamodel@1.0.0.Model", "namespace": "org.a",
			  "declarations": [{"$class": "concerto.metamodel@1.0.0.WidgetDeclaration", "name": "W"}]}`,
			code: CodeUnknownClass,
		},
		{
			name: "unknown property class",
			doc: `{"$class": "concerto.metamodel@1.0.0.Model", "namespace": "org.a",
			  "declarations": [{"$class": "concerto.metamodel@1.0.0.ConceptDeclaration", "name": "C", "isAbstract": false,
			    "properties": [{"$class": "concerto.metamodel@1.0.0.UuidProperty", "name": "id", "isArray": false, "isOptional": false}]}]}`,
			code: CodeUnknownClass,
		},
		{
			name: "wrong root class",
			doc:  `{"$class": "concerto.metamodel@1.0.0.Decorator", "name": "x"}`,
			code: CodeUnknownClass,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeDocument([]byte(tt.doc))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrParse), "expected parse error, got %v", err)
			assert.Equal(t, tt.code, CodeOf(err))
		})
	}
}

func TestDecodeDocument_UnknownMapKeyKeptForValidation(t *testing.T) {
	doc := `{"$class": "concerto.metamodel@1.0.0.Model", "namespace": "org.a",
	  "declarations": [{"$class": "concerto.metamodel@1.0.0.MapDeclaration", "name": "M",
	    "key": {"$class": "concerto.metamodel@1.0.0.ObjectMapKeyType",
	      "type": {"$class": "concerto.metamodel@1.0.0.TypeIdentifier", "name": "K", "namespace": "org.a"}},
	    "value": {"$class": "concerto.metamodel@1.0.0.StringMapValueType"}}]}`

	models, err := DecodeDocument([]byte(doc))
	require.NoError(t, err)
	m := models[0].Declarations[0].(*MapDeclaration)
	assert.Equal(t, MapKeyObject, m.Key.Kind)
	assert.Equal(t, "K", m.Key.Type.Name)
}

func TestShortClass(t *testing.T) {
	assert.Equal(t, "ConceptDeclaration", ShortClass("concerto.metamodel@1.0.0.ConceptDeclaration"))
	assert.Equal(t, "ConceptDeclaration", ShortClass("ConceptDeclaration"))
	assert.Equal(t, "concerto.metamodel@1.0.0.Model", ClassName("Model"))
}

func TestDecodeDocument_UnknownClassContext(t *testing.T) {
	tests := []struct {
		name     string
		doc      string
		property string
		ns       string
	}{
		{
			name: "property",
			doc: `{"$class": "concerto.metamodel@1.0.0.Model", "namespace": "org.a",
			  "declarations": [{"$class": "concerto.metamodel@1.0.0.ConceptDeclaration", "name": "C", "isAbstract": false,
			    "properties": [{"$class": "concerto.metamodel@1.0.0.WidgetProperty", "name": "x", "isArray": false, "isOptional": false}]}]}`,
			property: "x",
		},
		{
			name: "import",
			doc: `{"$class": "concerto.metamodel@1.0.0.Model", "namespace": "org.a",
			  "imports": [{"$class": "concerto.metamodel@1.0.0.ImportWidget", "namespace": "org.b"}]}`,
			ns: "org.b",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeDocument([]byte(tt.doc))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrParse), "expected parse error, got %v", err)

			e, ok := AsError(err)
			require.True(t, ok)
			assert.Equal(t, CodeUnknownClass, e.Code)
			assert.Equal(t, tt.property, e.Property)
			if tt.ns != "" {
				assert.Equal(t, tt.ns, e.Namespace)
			}
		})
	}
}

func TestDecodeDocument_NullModel(t *testing.T) {
	doc := `{"$class": "concerto.metamodel@1.0.0.Models", "models": [
	  {"$class": "concerto.metamodel@1.0.0.Model", "namespace": "org.a"},
	  null
	]}`

	models, err := DecodeDocument([]byte(doc))
	require.Error(t, err)
	assert.Nil(t, models)
	assert.True(t, errors.Is(err, ErrParse))
	assert.Equal(t, CodeMalformedDocument, CodeOf(err))
	assert.Contains(t, err.Error(), "null model at index 1")
}
