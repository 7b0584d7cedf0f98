package core

// ImportKind is the wire variant of an import.
type ImportKind string

// Import kinds.
const (
	ImportPlain ImportKind = "Import"
	ImportAll   ImportKind = "ImportAll"
	ImportType  ImportKind = "ImportType"
	ImportTypes ImportKind = "ImportTypes"
)

// AliasedType renames an imported type within the importing model.
type AliasedType struct {
	Name        string
	AliasedName string
}

// Import brings types from another namespace into scope.
// Name is set for ImportType; Types and AliasedTypes for ImportTypes.
type Import struct {
	Kind         ImportKind
	Namespace    string
	URI          *string
	Name         string
	Types        []string
	AliasedTypes []AliasedType
}

// Model is one schema document: a namespace and the declarations it owns.
type Model struct {
	Namespace       string
	SourceURI       *string
	ConcertoVersion *string
	Imports         []Import
	Declarations    []Declaration
	Decorators      []Decorator
}

// Declaration returns the declaration with the given name, or nil.
func (m *Model) Declaration(name string) Declaration {
	for _, d := range m.Declarations {
		if d.GetName() == name {
			return d
		}
	}
	return nil
}

// ConceptDeclarations returns the concept-like declarations in order.
func (m *Model) ConceptDeclarations() []*ConceptDeclaration {
	var out []*ConceptDeclaration
	for _, d := range m.Declarations {
		if c, ok := ConceptLike(d); ok {
			out = append(out, c)
		}
	}
	return out
}

// TypeReferences returns every type reference carried by the model's
// declarations: supertypes, Object/Relationship properties, map keys and values.
func (m *Model) TypeReferences() []*TypeIdentifier {
	var refs []*TypeIdentifier
	for _, d := range m.Declarations {
		switch d := d.(type) {
		case *ConceptDeclaration:
			if d.SuperType != nil {
				refs = append(refs, d.SuperType)
			}
			for i := range d.Properties {
				if t := d.Properties[i].Type; t != nil {
					refs = append(refs, t)
				}
			}
		case *MapDeclaration:
			if d.Key.Type != nil {
				refs = append(refs, d.Key.Type)
			}
			if d.Value.Type != nil {
				refs = append(refs, d.Value.Type)
			}
		}
	}
	return refs
}

// Models is the multi-model wire document.
type Models struct {
	Models []*Model
}

// DeclarationRef is the result of resolving a type reference.
type DeclarationRef struct {
	Namespace   string
	Declaration Declaration
	Model       *Model
}

// FQN returns the fully qualified name of the resolved declaration.
func (r DeclarationRef) FQN() string {
	if r.Declaration == nil {
		return r.Namespace
	}
	return r.Namespace + "." + r.Declaration.GetName()
}
