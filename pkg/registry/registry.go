// Package registry holds every loaded model keyed by namespace and runs the
// cross-model rules: type resolution and inheritance-cycle detection.
//
// The manager is single-writer, multi-reader. Reads are safe alongside one
// another; Register and Remove take the write lock. ValidateAll works on a
// snapshot taken when it starts.
package registry

import (
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/leapstack-labs/concerto/internal/dag"
	"github.com/leapstack-labs/concerto/pkg/core"
	"github.com/leapstack-labs/concerto/pkg/validate"
	"golang.org/x/sync/errgroup"
)

// DuplicatePolicy decides what Register does with an already-registered namespace.
type DuplicatePolicy string

// Duplicate policies.
const (
	// DuplicateReplace swaps the existing model for the new one.
	DuplicateReplace DuplicatePolicy = "replace"
	// DuplicateReject fails registration with a duplicate-namespace error.
	DuplicateReject DuplicatePolicy = "reject"
)

// ParseDuplicatePolicy converts a config string to a DuplicatePolicy.
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch p := DuplicatePolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case DuplicateReplace, DuplicateReject:
		return p, nil
	case "":
		return DuplicateReplace, nil
	default:
		return "", fmt.Errorf("unknown duplicate policy %q (want replace or reject)", s)
	}
}

// Option configures a ModelManager.
type Option func(*ModelManager)

// WithLogger sets the logger. The default discards.
func WithLogger(logger *slog.Logger) Option {
	return func(m *ModelManager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithStrict enables strict model validation (semantic concertoVersion).
func WithStrict(strict bool) Option {
	return func(m *ModelManager) {
		m.strict = strict
	}
}

// WithDuplicatePolicy sets the re-registration policy.
func WithDuplicatePolicy(p DuplicatePolicy) Option {
	return func(m *ModelManager) {
		m.policy = p
	}
}

// WithWorkers bounds the parallelism of ValidateAll. Values below 1 mean GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(m *ModelManager) {
		m.workers = n
	}
}

// ModelManager is the registry of loaded models.
type ModelManager struct {
	mu sync.RWMutex

	// models maps namespace → model: "org.acme.hr" → *core.Model
	models map[string]*core.Model

	// order holds namespaces in first-registration order; replacing a
	// model keeps its slot so error reporting stays stable.
	order []string

	logger  *slog.Logger
	strict  bool
	policy  DuplicatePolicy
	workers int
}

// New creates an empty manager.
func New(opts ...Option) *ModelManager {
	m := &ModelManager{
		models: make(map[string]*core.Model),
		logger: slog.New(slog.DiscardHandler),
		policy: DuplicateReplace,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.workers < 1 {
		m.workers = runtime.GOMAXPROCS(0)
	}
	return m
}

func (m *ModelManager) validateOptions() []validate.Option {
	if m.strict {
		return []validate.Option{validate.WithStrict()}
	}
	return nil
}

// Register validates a model in isolation and admits it under its namespace.
// References to other models are not checked until ValidateAll.
func (m *ModelManager) Register(model *core.Model) error {
	if err := validate.Model(model, m.validateOptions()...); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	ns := model.Namespace
	if _, exists := m.models[ns]; exists {
		if m.policy == DuplicateReject {
			return core.NewValidationError(core.CodeDuplicateNamespace, "namespace %s is already registered", ns).
				WithNamespace(ns).
				WithValue(ns)
		}
		m.logger.Debug("replacing model", slog.String("namespace", ns))
	} else {
		m.order = append(m.order, ns)
	}
	m.models[ns] = model

	m.logger.Debug("registered model",
		slog.String("namespace", ns),
		slog.Int("declarations", len(model.Declarations)))
	return nil
}

// RegisterAll registers models in order and stops at the first failure.
func (m *ModelManager) RegisterAll(models ...*core.Model) error {
	for _, model := range models {
		if err := m.Register(model); err != nil {
			return err
		}
	}
	return nil
}

// Remove drops a namespace. It reports whether the namespace was registered.
func (m *ModelManager) Remove(namespace string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.models[namespace]; !ok {
		return false
	}
	delete(m.models, namespace)
	for i, ns := range m.order {
		if ns == namespace {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return true
}

// Model returns the model registered for a namespace.
func (m *ModelManager) Model(namespace string) (*core.Model, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	model, ok := m.models[namespace]
	return model, ok
}

// Models returns all models in registration order.
func (m *ModelManager) Models() []*core.Model {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshotLocked().models
}

// Namespaces returns all namespaces in registration order.
func (m *ModelManager) Namespaces() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// Count returns the number of registered models.
func (m *ModelManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.models)
}

// ResolveType looks up a declaration by namespace and name.
// It fails with a NamespaceNotFound or DeclarationNotFound error.
func (m *ModelManager) ResolveType(namespace, name string) (core.DeclarationRef, error) {
	m.mu.RLock()
	model, ok := m.models[namespace]
	m.mu.RUnlock()
	return resolveIn(namespace, name, model, ok)
}

func resolveIn(namespace, name string, model *core.Model, ok bool) (core.DeclarationRef, error) {
	if !ok {
		return core.DeclarationRef{}, core.NamespaceNotFound(namespace)
	}
	d := model.Declaration(name)
	if d == nil {
		return core.DeclarationRef{}, core.DeclarationNotFound(namespace, name)
	}
	return core.DeclarationRef{Namespace: namespace, Declaration: d, Model: model}, nil
}

// =============================================================================
// Snapshot
// =============================================================================

// snapshot is an immutable view of the registry used by ValidateAll so the
// phases never touch the lock.
type snapshot struct {
	models []*core.Model
	byNS   map[string]*core.Model
}

func (m *ModelManager) snapshotLocked() snapshot {
	s := snapshot{
		models: make([]*core.Model, 0, len(m.order)),
		byNS:   make(map[string]*core.Model, len(m.order)),
	}
	for _, ns := range m.order {
		model := m.models[ns]
		s.models = append(s.models, model)
		s.byNS[ns] = model
	}
	return s
}

func (m *ModelManager) snapshot() snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshotLocked()
}

// ResolveType implements validate.Resolver against the snapshot.
func (s snapshot) ResolveType(namespace, name string) (core.DeclarationRef, error) {
	model, ok := s.byNS[namespace]
	return resolveIn(namespace, name, model, ok)
}

// =============================================================================
// Whole-registry validation
// =============================================================================

// ValidateAll runs the registry rules in three phases and returns the first
// failure:
//
//  1. structural: every model is re-validated in isolation;
//  2. references: every super type, Object/Relationship property and
//     type-carrying map value must resolve;
//  3. inheritance: the super type graph must be acyclic.
//
// Phases 1 and 2 fan out across models; the error reported is the one from
// the earliest registered model, so results do not depend on scheduling.
// Running ValidateAll twice on an unchanged registry gives the same result.
func (m *ModelManager) ValidateAll() error {
	snap := m.snapshot()
	start := time.Now()

	opts := m.validateOptions()
	if err := m.eachModel(snap.models, func(model *core.Model) error {
		return validate.Model(model, opts...)
	}); err != nil {
		m.logger.Debug("structural validation failed", slog.Any("error", err))
		return err
	}

	if err := m.eachModel(snap.models, func(model *core.Model) error {
		return validate.References(model, snap)
	}); err != nil {
		m.logger.Debug("reference resolution failed", slog.Any("error", err))
		return err
	}

	if err := checkInheritance(snap); err != nil {
		m.logger.Debug("inheritance check failed", slog.Any("error", err))
		return err
	}

	m.logger.Debug("validated registry",
		slog.Int("models", len(snap.models)),
		slog.Duration("elapsed", time.Since(start)))
	return nil
}

// eachModel runs fn over models with bounded parallelism. Each result lands
// in the slot of its model and the first non-nil slot wins.
func (m *ModelManager) eachModel(models []*core.Model, fn func(*core.Model) error) error {
	results := make([]error, len(models))

	var g errgroup.Group
	g.SetLimit(m.workers)
	for i, model := range models {
		g.Go(func() error {
			results[i] = fn(model)
			return nil
		})
	}
	_ = g.Wait()

	for _, err := range results {
		if err != nil {
			return err
		}
	}
	return nil
}

// checkInheritance builds the super type graph and reports the first cycle.
func checkInheritance(snap snapshot) error {
	g, err := buildInheritanceGraph(snap)
	if err != nil {
		return err
	}
	cycle := g.FindCycle()
	if cycle == nil {
		return nil
	}

	ns, name, _ := core.SplitFullyQualifiedName(cycle.Node)
	node, _ := g.Node(cycle.Node)
	return core.NewValidationError(core.CodeCircularInheritance,
		"circular inheritance detected at %s: %s", cycle.Node, strings.Join(cycle.Path, " -> ")).
		WithNamespace(ns).
		WithDeclaration(name).
		WithValue(cycle.Node).
		WithLocation(node.Data.Declaration.GetLocation())
}

// buildInheritanceGraph adds a node for every concept-like declaration and
// an edge from each resolvable super type to its subtype. Unresolvable super
// types are left out; phase 2 reports them.
func buildInheritanceGraph(snap snapshot) (*dag.Graph[core.DeclarationRef], error) {
	g := dag.New[core.DeclarationRef]()

	for _, model := range snap.models {
		for _, c := range model.ConceptDeclarations() {
			ref := core.DeclarationRef{Namespace: model.Namespace, Declaration: c, Model: model}
			g.AddNode(ref.FQN(), ref)
		}
	}

	for _, model := range snap.models {
		for _, c := range model.ConceptDeclarations() {
			if c.SuperType == nil {
				continue
			}
			super, err := snap.ResolveType(c.SuperType.NamespaceOrEmpty(), c.SuperType.Name)
			if err != nil {
				continue
			}
			if _, ok := core.ConceptLike(super.Declaration); !ok {
				continue
			}
			if err := g.AddEdge(super.FQN(), model.Namespace+"."+c.Name); err != nil {
				return nil, fmt.Errorf("inheritance graph: %w", err)
			}
		}
	}
	return g, nil
}

// InheritanceGraph returns the super type graph of the current registry.
// Nodes are keyed by fully qualified name; edges run super type → subtype.
func (m *ModelManager) InheritanceGraph() (*dag.Graph[core.DeclarationRef], error) {
	return buildInheritanceGraph(m.snapshot())
}

// SuperTypes returns the super type chain of a declaration, nearest first.
// The walk stops at the first unresolvable super type and fails on a cycle.
func (m *ModelManager) SuperTypes(namespace, name string) ([]core.DeclarationRef, error) {
	snap := m.snapshot()

	ref, err := snap.ResolveType(namespace, name)
	if err != nil {
		return nil, err
	}

	var chain []core.DeclarationRef
	seen := map[string]bool{ref.FQN(): true}
	for {
		c, ok := core.ConceptLike(ref.Declaration)
		if !ok || c.SuperType == nil {
			return chain, nil
		}
		super, err := snap.ResolveType(c.SuperType.NamespaceOrEmpty(), c.SuperType.Name)
		if err != nil {
			return chain, nil
		}
		if seen[super.FQN()] {
			return chain, core.NewValidationError(core.CodeCircularInheritance,
				"circular inheritance detected at %s", super.FQN()).
				WithNamespace(super.Namespace).
				WithDeclaration(super.Declaration.GetName()).
				WithValue(super.FQN())
		}
		seen[super.FQN()] = true
		chain = append(chain, super)
		ref = super
	}
}
