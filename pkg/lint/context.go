package lint

import (
	"github.com/leapstack-labs/concerto/internal/dag"
	"github.com/leapstack-labs/concerto/pkg/core"
)

// Context provides all data needed for model-set analysis.
type Context struct {
	models      []*core.Model
	byNamespace map[string]*core.Model
	hierarchy   *dag.Graph[*core.ConceptDeclaration]
}

// NewContext indexes models for analysis. Models keep their given order.
func NewContext(models []*core.Model) *Context {
	c := &Context{
		models:      models,
		byNamespace: make(map[string]*core.Model, len(models)),
		hierarchy:   dag.New[*core.ConceptDeclaration](),
	}
	for _, m := range models {
		c.byNamespace[m.Namespace] = m
	}

	for _, m := range models {
		for _, d := range m.ConceptDeclarations() {
			c.hierarchy.AddNode(m.Namespace+"."+d.Name, d)
		}
	}
	for _, m := range models {
		for _, d := range m.ConceptDeclarations() {
			if d.SuperType == nil {
				continue
			}
			super := d.SuperType.String()
			if d.SuperType.Namespace == nil {
				super = m.Namespace + "." + d.SuperType.Name
			}
			if _, ok := c.hierarchy.Node(super); ok {
				_ = c.hierarchy.AddEdge(super, m.Namespace+"."+d.Name)
			}
		}
	}
	return c
}

// Models returns the analyzed models.
func (c *Context) Models() []*core.Model {
	return c.models
}

// Model returns the model for a namespace.
func (c *Context) Model(namespace string) (*core.Model, bool) {
	m, ok := c.byNamespace[namespace]
	return m, ok
}

// HasNamespace reports whether a namespace is part of the analyzed set.
func (c *Context) HasNamespace(namespace string) bool {
	_, ok := c.byNamespace[namespace]
	return ok
}

// Subtypes returns the fully qualified names of the direct subtypes of fqn.
func (c *Context) Subtypes(fqn string) []string {
	return c.hierarchy.Children(fqn)
}

// SuperTypes returns the resolvable super type chain of fqn, nearest first.
func (c *Context) SuperTypes(fqn string) []*core.ConceptDeclaration {
	var out []*core.ConceptDeclaration
	for _, id := range c.hierarchy.Ancestors(fqn) {
		if n, ok := c.hierarchy.Node(id); ok {
			out = append(out, n.Data)
		}
	}
	return out
}
