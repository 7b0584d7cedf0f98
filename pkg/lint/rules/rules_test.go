package rules

import (
	"testing"

	"github.com/leapstack-labs/concerto/internal/testutil"
	"github.com/leapstack-labs/concerto/pkg/core"
	"github.com/leapstack-labs/concerto/pkg/lint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runRule(t *testing.T, id string, models ...*core.Model) []lint.Diagnostic {
	t.Helper()
	rule, ok := lint.GetByID(id)
	require.True(t, ok, "rule %s not registered", id)
	return rule.Check(lint.NewContext(models))
}

func withImports(m *core.Model, namespaces ...string) *core.Model {
	for _, ns := range namespaces {
		m.Imports = append(m.Imports, core.Import{Kind: core.ImportAll, Namespace: ns})
	}
	return m
}

func TestRegisteredRules(t *testing.T) {
	for _, id := range []string{"MI01", "MI02", "MH01", "MH02", "MN01"} {
		rule, ok := lint.GetByID(id)
		require.True(t, ok, id)
		assert.NotEmpty(t, rule.Name)
		assert.NotEmpty(t, rule.Description)
		assert.NotNil(t, rule.Check)
	}
	assert.Len(t, lint.GetByGroup("imports"), 2)
	assert.Len(t, lint.GetByGroup("hierarchy"), 2)
}

func TestUnusedImport(t *testing.T) {
	base := testutil.Model("org.base", testutil.Concept("Address"), testutil.Concept("Tag"))

	decorated := testutil.Concept("Tagged")
	decorated.Decorators = []core.Decorator{{
		Name: "ref",
		Arguments: []core.DecoratorLiteral{
			{Kind: core.LiteralTypeReference, Type: core.NewTypeIdentifier("org.meta", "Tag")},
		},
	}}

	tests := []struct {
		name    string
		model   *core.Model
		wantNSs []string
	}{
		{
			name:  "used by property",
			model: withImports(testutil.Model("org.app", testutil.Concept("P", testutil.ObjectProp("a", "org.base", "Address"))), "org.base"),
		},
		{
			name:  "used by super type",
			model: withImports(testutil.Model("org.app", testutil.Extends("P", "org.base", "Address")), "org.base"),
		},
		{
			name:  "used by decorator argument",
			model: withImports(testutil.Model("org.app", decorated), "org.meta"),
		},
		{
			name:    "never referenced",
			model:   withImports(testutil.Model("org.app", testutil.Concept("P", testutil.StringProp("name"))), "org.base", "org.other"),
			wantNSs: []string{"org.base", "org.other"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := runRule(t, "MI01", base, tt.model)

			var got []string
			for _, d := range diags {
				assert.Equal(t, "org.app", d.Namespace)
				assert.Equal(t, core.SeverityWarning, d.Severity)
				got = append(got, d.Message)
			}
			require.Len(t, got, len(tt.wantNSs))
			for i, ns := range tt.wantNSs {
				assert.Contains(t, got[i], ns)
			}
		})
	}
}

func TestUnknownImport(t *testing.T) {
	app := withImports(testutil.Model("org.app"), "org.base", "org.gone")

	diags := runRule(t, "MI02", testutil.Model("org.base"), app)
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Message, "org.gone")
	assert.Equal(t, "org.app", diags[0].Namespace)
}

func TestAbstractWithoutSubtypes(t *testing.T) {
	shape := testutil.Concept("Shape")
	shape.IsAbstract = true
	lonely := testutil.Concept("Lonely")
	lonely.IsAbstract = true
	asset := &core.ConceptDeclaration{Kind: core.KindAsset, Name: "Thing", IsAbstract: true}

	diags := runRule(t, "MH01",
		testutil.Model("org.geo", shape, lonely, asset),
		testutil.Model("org.app", testutil.Extends("Circle", "org.geo", "Shape")),
	)

	require.Len(t, diags, 2)
	assert.Equal(t, "Lonely", diags[0].Declaration)
	assert.Equal(t, "abstract concept Lonely has no subtypes", diags[0].Message)
	assert.Equal(t, "abstract asset Thing has no subtypes", diags[1].Message)
}

func TestIdentifierNotFound(t *testing.T) {
	identifiedBy := func(c *core.ConceptDeclaration, field string) *core.ConceptDeclaration {
		c.Identified = &core.Identified{Name: field}
		return c
	}

	system := testutil.Concept("System")
	system.Identified = &core.Identified{}

	diags := runRule(t, "MH02",
		testutil.Model("org.base", testutil.Concept("Party", testutil.StringProp("partyId"))),
		testutil.Model("org.app",
			identifiedBy(testutil.Concept("Own", testutil.StringProp("email")), "email"),
			identifiedBy(testutil.Extends("Inherited", "org.base", "Party"), "partyId"),
			identifiedBy(testutil.Concept("Missing", testutil.StringProp("name")), "email"),
			system,
		),
	)

	require.Len(t, diags, 1)
	assert.Equal(t, "Missing", diags[0].Declaration)
	assert.Contains(t, diags[0].Message, "email")
}

func TestDeclarationNaming(t *testing.T) {
	diags := runRule(t, "MN01", testutil.Model("org.app",
		testutil.Concept("Person"),
		testutil.Concept("person"),
		testutil.Enum("color", "RED"),
		testutil.Concept("Émile"),
	))

	require.Len(t, diags, 2)
	assert.Equal(t, "person", diags[0].Declaration)
	assert.Equal(t, "concept name person should start with an upper-case letter", diags[0].Message)
	assert.Equal(t, "enum name color should start with an upper-case letter", diags[1].Message)
	assert.Equal(t, core.SeverityHint, diags[1].Severity)
}

func TestAnalyzer_BuiltinRules(t *testing.T) {
	shape := testutil.Concept("shape")
	shape.IsAbstract = true
	models := []*core.Model{
		withImports(testutil.Model("org.app", shape), "org.nowhere"),
	}

	cfg := lint.NewConfig().Disable("MN01").SetSeverity("MI02", core.SeverityError)
	diags := lint.NewAnalyzer(cfg, testutil.NewTestLogger(t)).Analyze(lint.NewContext(models))

	var ids []string
	for _, d := range diags {
		ids = append(ids, d.RuleID)
	}
	assert.Equal(t, []string{"MI01", "MI02", "MH01"}, ids)
	assert.True(t, lint.AnyAtLeast(diags, core.SeverityError))
}
