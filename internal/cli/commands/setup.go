package commands

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/concerto/internal/cli/output"
	"github.com/leapstack-labs/concerto/internal/config"
	"github.com/leapstack-labs/concerto/internal/loader"
	"github.com/leapstack-labs/concerto/internal/state"
	"github.com/leapstack-labs/concerto/pkg/core"
	"github.com/leapstack-labs/concerto/pkg/registry"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for command execution.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext builds a CommandContext from the config and logger the
// root command stored in the command context.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := config.GetConfig(cmd.Context())
	if cfg == nil {
		cfg = defaultConfig()
	}
	logger := config.GetLogger(cmd.Context())
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.Output))

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// defaultConfig is used when a command runs without the root command,
// e.g. in tests that execute a single subcommand.
func defaultConfig() *config.Config {
	return &config.Config{
		ModelsDir: config.DefaultModelsDir,
		StatePath: config.DefaultStateFile,
		Output:    config.DefaultOutput,
		Registry:  config.RegistryConfig{OnDuplicate: config.DefaultOnDuplicate},
		Lint:      config.LintConfig{FailOn: core.SeverityError},
	}
}

// workspace is the result of loading and registering model files.
type workspace struct {
	Sources  []loader.Source
	Registry *registry.ModelManager
}

// Files returns the number of loaded files.
func (w *workspace) Files() int { return len(w.Sources) }

// Declarations returns the number of registered declarations.
func (w *workspace) Declarations() int {
	n := 0
	for _, m := range w.Registry.Models() {
		n += len(m.Declarations)
	}
	return n
}

// roots returns the paths to load: the arguments, or the models directory.
func (c *CommandContext) roots(paths []string) []string {
	if len(paths) > 0 {
		return paths
	}
	return []string{c.Cfg.ModelsDir}
}

func (c *CommandContext) newLoader() (*loader.Loader, error) {
	return loader.New(loader.Options{
		Include: c.Cfg.Loader.Include,
		Exclude: c.Cfg.Loader.Exclude,
		Logger:  c.Logger,
	})
}

func (c *CommandContext) newRegistry() (*registry.ModelManager, error) {
	policy, err := c.Cfg.DuplicatePolicy()
	if err != nil {
		return nil, err
	}
	return registry.New(
		registry.WithLogger(c.Logger),
		registry.WithStrict(c.Cfg.Strict),
		registry.WithDuplicatePolicy(policy),
		registry.WithWorkers(c.Cfg.Workers),
	), nil
}

// loadWorkspace loads every model under paths and registers it. The
// returned workspace is non-nil whenever loading succeeded, even if
// registration failed, so callers can report what was read.
func (c *CommandContext) loadWorkspace(paths []string) (*workspace, error) {
	l, err := c.newLoader()
	if err != nil {
		return nil, fmt.Errorf("invalid loader patterns: %w", err)
	}
	mm, err := c.newRegistry()
	if err != nil {
		return nil, err
	}

	sources, err := l.LoadPaths(c.roots(paths)...)
	if err != nil {
		return nil, err
	}

	ws := &workspace{Sources: sources, Registry: mm}
	c.Logger.Debug("loaded model files", slog.Int("files", len(sources)))

	if err := mm.RegisterAll(loader.Models(sources)...); err != nil {
		return ws, err
	}
	return ws, nil
}

// openHistory opens the history store, or returns nil when history is disabled.
func (c *CommandContext) openHistory() (*state.SQLiteStore, error) {
	if c.Cfg.NoHistory {
		return nil, nil
	}
	return state.OpenAndMigrate(c.Cfg.StatePath, c.Logger)
}

// errorDetail flattens a load or validation error for reporting.
func errorDetail(err error) *output.ErrorDetail {
	if err == nil {
		return nil
	}
	d := &output.ErrorDetail{Kind: "error", Message: err.Error()}

	var fe *loader.FileError
	if errors.As(err, &fe) {
		d.File = fe.File
	}
	if e, ok := core.AsError(err); ok {
		d.Kind = e.Kind.String()
		d.Code = string(e.Code)
		d.Message = e.Message
		d.Namespace = e.Namespace
		d.Declaration = e.Declaration
		d.Property = e.Property
		if e.Location != nil {
			d.Location = e.Location.String()
		}
	}
	return d
}

func declarationInfo(namespace string, d core.Declaration, source *string) output.DeclarationInfo {
	info := output.DeclarationInfo{
		Namespace: namespace,
		Name:      d.GetName(),
		Kind:      core.KindLabel(d),
	}
	if source != nil {
		info.Source = *source
	}
	if c, ok := core.ConceptLike(d); ok {
		info.Abstract = c.IsAbstract
		if c.SuperType != nil {
			info.SuperType = c.SuperType.String()
		}
		for _, p := range c.Properties {
			info.Properties = append(info.Properties, p.Name)
		}
	}
	if e, ok := d.(*core.EnumDeclaration); ok {
		for _, p := range e.Properties {
			info.Properties = append(info.Properties, p.Name)
		}
	}
	return info
}
