// Package dag provides the directed graph used for inheritance analysis.
// It supports cycle detection, topological ordering, level grouping and
// ancestor/descendant queries. Nodes are traversed in insertion order so
// every result is deterministic.
package dag

import (
	"fmt"
	"sort"
	"strings"
)

// Node represents a node in the graph.
type Node[T any] struct {
	// ID is the unique identifier (fully qualified declaration name)
	ID string
	// Data holds the payload attached to the node
	Data T
}

// Graph is a directed graph. Edges run from parent to child; in an
// inheritance graph that is super type to subtype. Self-loops are kept so
// that self-inheritance stays detectable.
type Graph[T any] struct {
	nodes    map[string]*Node[T]
	order    []string
	children map[string][]string // parent -> children
	parents  map[string][]string // child -> parents
}

// New creates an empty graph.
func New[T any]() *Graph[T] {
	return &Graph[T]{
		nodes:    make(map[string]*Node[T]),
		children: make(map[string][]string),
		parents:  make(map[string][]string),
	}
}

// AddNode adds a node, or replaces the data of an existing one.
func (g *Graph[T]) AddNode(id string, data T) {
	if n, exists := g.nodes[id]; exists {
		n.Data = data
		return
	}
	g.nodes[id] = &Node[T]{ID: id, Data: data}
	g.order = append(g.order, id)
}

// AddEdge adds a directed edge from parent to child. Both nodes must exist.
// Duplicate edges are ignored.
func (g *Graph[T]) AddEdge(parentID, childID string) error {
	if _, exists := g.nodes[parentID]; !exists {
		return fmt.Errorf("parent node %q does not exist", parentID)
	}
	if _, exists := g.nodes[childID]; !exists {
		return fmt.Errorf("child node %q does not exist", childID)
	}

	if !contains(g.children[parentID], childID) {
		g.children[parentID] = append(g.children[parentID], childID)
	}
	if !contains(g.parents[childID], parentID) {
		g.parents[childID] = append(g.parents[childID], parentID)
	}
	return nil
}

// Node returns a node by ID.
func (g *Graph[T]) Node(id string) (*Node[T], bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns all nodes in insertion order.
func (g *Graph[T]) Nodes() []*Node[T] {
	out := make([]*Node[T], 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.nodes[id])
	}
	return out
}

// Parents returns the direct parents of a node.
func (g *Graph[T]) Parents(id string) []string {
	return g.parents[id]
}

// Children returns the direct children of a node.
func (g *Graph[T]) Children(id string) []string {
	return g.children[id]
}

// Len returns the number of nodes.
func (g *Graph[T]) Len() int {
	return len(g.nodes)
}

// EdgeCount returns the number of edges.
func (g *Graph[T]) EdgeCount() int {
	count := 0
	for _, children := range g.children {
		count += len(children)
	}
	return count
}

// =============================================================================
// Cycle detection
// =============================================================================

// CycleError reports a cycle found by FindCycle.
type CycleError struct {
	// Node is the node reached a second time while still on the DFS path.
	Node string
	// Path walks the cycle from Node back to Node.
	Path []string
}

// Error implements the error interface.
func (e *CycleError) Error() string {
	return fmt.Sprintf("cycle detected at %s: %s", e.Node, strings.Join(e.Path, " -> "))
}

type color uint8

const (
	white color = iota // unvisited
	gray               // on the current DFS path
	black              // finished
)

type frame struct {
	id   string
	next int
}

// FindCycle runs an iterative three-color depth-first search from every
// unvisited node in insertion order. It returns nil for an acyclic graph.
// Each node turns black at most once, so the search is O(V+E) and
// terminates on any input.
func (g *Graph[T]) FindCycle() *CycleError {
	colors := make(map[string]color, len(g.nodes))

	for _, start := range g.order {
		if colors[start] != white {
			continue
		}
		colors[start] = gray
		stack := []frame{{id: start}}

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			children := g.children[top.id]
			if top.next == len(children) {
				colors[top.id] = black
				stack = stack[:len(stack)-1]
				continue
			}
			child := children[top.next]
			top.next++

			switch colors[child] {
			case white:
				colors[child] = gray
				stack = append(stack, frame{id: child})
			case gray:
				return cycleFromStack(stack, child)
			}
		}
	}
	return nil
}

func cycleFromStack(stack []frame, revisited string) *CycleError {
	start := 0
	for i, f := range stack {
		if f.id == revisited {
			start = i
			break
		}
	}
	path := make([]string, 0, len(stack)-start+1)
	for _, f := range stack[start:] {
		path = append(path, f.id)
	}
	path = append(path, revisited)
	return &CycleError{Node: revisited, Path: path}
}

// HasCycle reports whether the graph contains a cycle.
func (g *Graph[T]) HasCycle() bool {
	return g.FindCycle() != nil
}

// =============================================================================
// Ordering
// =============================================================================

// TopologicalSort returns nodes with every parent before its children.
// Ties follow insertion order. Returns a *CycleError if the graph is cyclic.
func (g *Graph[T]) TopologicalSort() ([]*Node[T], error) {
	if cycle := g.FindCycle(); cycle != nil {
		return nil, cycle
	}

	visited := make(map[string]bool, len(g.nodes))
	result := make([]*Node[T], 0, len(g.nodes))

	var visit func(id string)
	visit = func(id string) {
		if visited[id] {
			return
		}
		visited[id] = true
		for _, parentID := range g.parents[id] {
			visit(parentID)
		}
		result = append(result, g.nodes[id])
	}

	for _, id := range g.order {
		visit(id)
	}
	return result, nil
}

// Levels groups node IDs by depth: level 0 holds nodes without parents,
// level N nodes whose deepest parent sits at N-1. IDs within a level are sorted.
func (g *Graph[T]) Levels() ([][]string, error) {
	if cycle := g.FindCycle(); cycle != nil {
		return nil, cycle
	}

	assigned := make(map[string]int, len(g.nodes))

	var levelOf func(id string) int
	levelOf = func(id string) int {
		if level, ok := assigned[id]; ok {
			return level
		}
		level := 0
		for _, parentID := range g.parents[id] {
			if l := levelOf(parentID) + 1; l > level {
				level = l
			}
		}
		assigned[id] = level
		return level
	}

	maxLevel := -1
	for _, id := range g.order {
		if l := levelOf(id); l > maxLevel {
			maxLevel = l
		}
	}

	levels := make([][]string, maxLevel+1)
	for _, id := range g.order {
		levels[assigned[id]] = append(levels[assigned[id]], id)
	}
	for i := range levels {
		sort.Strings(levels[i])
	}
	return levels, nil
}

// =============================================================================
// Reachability
// =============================================================================

// Ancestors returns every node reachable through parent edges, nearest
// first. The node itself is never included, even on a cycle.
func (g *Graph[T]) Ancestors(id string) []string {
	return g.walk(id, g.parents)
}

// Descendants returns every node reachable through child edges, nearest first.
func (g *Graph[T]) Descendants(id string) []string {
	return g.walk(id, g.children)
}

func (g *Graph[T]) walk(id string, next map[string][]string) []string {
	seen := map[string]bool{id: true}
	var out []string
	queue := []string{id}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, n := range next[cur] {
			if seen[n] {
				continue
			}
			seen[n] = true
			out = append(out, n)
			queue = append(queue, n)
		}
	}
	return out
}

// Roots returns nodes with no parents, sorted.
func (g *Graph[T]) Roots() []string {
	var roots []string
	for _, id := range g.order {
		if len(g.parents[id]) == 0 {
			roots = append(roots, id)
		}
	}
	sort.Strings(roots)
	return roots
}

// Leaves returns nodes with no children, sorted.
func (g *Graph[T]) Leaves() []string {
	var leaves []string
	for _, id := range g.order {
		if len(g.children[id]) == 0 {
			leaves = append(leaves, id)
		}
	}
	sort.Strings(leaves)
	return leaves
}

func contains(slice []string, s string) bool {
	for _, v := range slice {
		if v == s {
			return true
		}
	}
	return false
}
