// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/leapstack-labs/concerto/internal/cli/output"
)

// BaseModel declares org.acme.base: an abstract Person and an Address.
const BaseModel = `{
  "$class": "concerto.metamodel@1.0.0.Model",
  "namespace": "org.acme.base",
  "declarations": [
    {
      "$class": "concerto.metamodel@1.0.0.ConceptDeclaration",
      "name": "Person",
      "isAbstract": true,
      "properties": [
        {"$class": "concerto.metamodel@1.0.0.StringProperty", "name": "name", "isArray": false, "isOptional": false}
      ]
    },
    {
      "$class": "concerto.metamodel@1.0.0.ConceptDeclaration",
      "name": "Address",
      "isAbstract": false,
      "properties": [
        {"$class": "concerto.metamodel@1.0.0.StringProperty", "name": "city", "isArray": false, "isOptional": false}
      ]
    }
  ]
}`

// HRModel declares org.acme.hr, which extends and references org.acme.base.
const HRModel = `$class: concerto.metamodel@1.0.0.Model
namespace: org.acme.hr
imports:
  - $class: concerto.metamodel@1.0.0.ImportAll
    namespace: org.acme.base
declarations:
  - $class: concerto.metamodel@1.0.0.ConceptDeclaration
    name: Employee
    isAbstract: false
    superType:
      $class: concerto.metamodel@1.0.0.TypeIdentifier
      name: Person
      namespace: org.acme.base
    properties:
      - $class: concerto.metamodel@1.0.0.ObjectProperty
        name: address
        isArray: false
        isOptional: false
        type:
          $class: concerto.metamodel@1.0.0.TypeIdentifier
          name: Address
          namespace: org.acme.base
  - $class: concerto.metamodel@1.0.0.EnumDeclaration
    name: Level
    properties:
      - $class: concerto.metamodel@1.0.0.EnumProperty
        name: JUNIOR
      - $class: concerto.metamodel@1.0.0.EnumProperty
        name: SENIOR
`

// BrokenModel references a type that no model declares.
const BrokenModel = `{
  "$class": "concerto.metamodel@1.0.0.Model",
  "namespace": "org.acme.broken",
  "declarations": [
    {
      "$class": "concerto.metamodel@1.0.0.ConceptDeclaration",
      "name": "Order",
      "isAbstract": false,
      "properties": [
        {
          "$class": "concerto.metamodel@1.0.0.ObjectProperty",
          "name": "item",
          "isArray": false,
          "isOptional": false,
          "type": {"$class": "concerto.metamodel@1.0.0.TypeIdentifier", "name": "Missing", "namespace": "org.acme.broken"}
        }
      ]
    }
  ]
}`

// UnusedImportModel imports a namespace it never references.
const UnusedImportModel = `{
  "$class": "concerto.metamodel@1.0.0.Model",
  "namespace": "org.acme.extra",
  "imports": [
    {"$class": "concerto.metamodel@1.0.0.ImportAll", "namespace": "org.acme.base"}
  ],
  "declarations": [
    {"$class": "concerto.metamodel@1.0.0.ConceptDeclaration", "name": "Note", "isAbstract": false, "properties": []}
  ]
}`

// SetupTestProject creates a temporary project whose models directory
// holds BaseModel and HRModel. Returns the project root.
func SetupTestProject(t *testing.T) string {
	t.Helper()

	tmpDir := t.TempDir()
	WriteModel(t, tmpDir, "models/base.json", BaseModel)
	WriteModel(t, tmpDir, "models/hr/employee.yaml", HRModel)
	return tmpDir
}

// WriteModel writes content to name (slash separated) under root.
func WriteModel(t *testing.T, root, name, content string) string {
	t.Helper()

	path := filepath.Join(root, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create directory for %s: %v", name, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to create %s: %v", name, err)
	}
	return path
}

// TestRenderer wraps a Renderer for testing with captured output buffers.
type TestRenderer struct {
	*output.Renderer
	Out    *bytes.Buffer
	ErrOut *bytes.Buffer
}

// NewTestRenderer creates a new test renderer with the specified mode and TTY state.
// Output is captured in buffers for inspection.
func NewTestRenderer(mode output.OutputMode, isTTY bool) *TestRenderer {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return &TestRenderer{
		Renderer: output.NewRendererWithTTY(out, errOut, isTTY, mode),
		Out:      out,
		ErrOut:   errOut,
	}
}

// NewTestRendererText creates a new test renderer in text mode (simulated TTY).
func NewTestRendererText() *TestRenderer {
	return NewTestRenderer(output.ModeText, true)
}

// NewTestRendererMarkdown creates a new test renderer in markdown mode.
func NewTestRendererMarkdown() *TestRenderer {
	return NewTestRenderer(output.ModeMarkdown, false)
}

// Output returns the stdout output as a string.
func (tr *TestRenderer) Output() string {
	return tr.Out.String()
}

// ErrorOutput returns the stderr output as a string.
func (tr *TestRenderer) ErrorOutput() string {
	return tr.ErrOut.String()
}

// ansiPattern matches ANSI escape codes.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI checks that a string contains no ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if ansiPattern.MatchString(s) {
		t.Errorf("string contains ANSI escape codes: %q", s)
	}
}

// AssertValidMarkdown performs basic markdown validation.
// It checks for unclosed code fences and empty headers.
func AssertValidMarkdown(t *testing.T, md string) {
	t.Helper()

	fenceCount := strings.Count(md, "```")
	if fenceCount%2 != 0 {
		t.Errorf("unbalanced code fences in markdown: found %d occurrences", fenceCount)
	}

	for i, line := range strings.Split(md, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") && strings.TrimLeft(trimmed, "# ") == "" {
			t.Errorf("empty header at line %d: %q", i+1, line)
		}
	}
}
