package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/leapstack-labs/concerto/internal/cli/output"
	"github.com/leapstack-labs/concerto/internal/loader"
	"github.com/leapstack-labs/concerto/internal/state"
	"github.com/leapstack-labs/concerto/pkg/core"
	"github.com/spf13/cobra"
)

// ErrValidationFailed is returned when the model set does not validate.
var ErrValidationFailed = errors.New("validation failed")

// defaultDebounce is how long --watch waits for more changes before re-validating.
const defaultDebounce = 300 * time.Millisecond

// ValidateOptions holds options for the validate command.
type ValidateOptions struct {
	Watch    bool
	Debounce time.Duration
}

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	opts := &ValidateOptions{}
	cmd := &cobra.Command{
		Use:   "validate [paths...]",
		Short: "Validate model files",
		Long: `Load metamodel documents (JSON or YAML), register them and validate the
whole set: structure, cross-model type references and inheritance cycles.

Paths may be files or directories. Without arguments the configured
models directory is used. Each run is recorded in the history database
unless --no-history is set.

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON: Machine-readable format`,
		Example: `  # Validate the models directory
  concerto validate

  # Validate specific files
  concerto validate models/hr.json shared/base.yaml

  # Re-validate whenever a model file changes
  concerto validate --watch

  # Machine-readable result
  concerto validate -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Re-validate when model files change")
	cmd.Flags().DurationVar(&opts.Debounce, "debounce", defaultDebounce, "Delay before re-validating after a change")

	return cmd
}

func runValidate(cmd *cobra.Command, paths []string, opts *ValidateOptions) error {
	c := NewCommandContext(cmd)

	if !opts.Watch {
		return c.validateOnce(paths)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return c.watch(ctx, paths, opts.Debounce)
}

// validationResult is the outcome of one validation pass.
type validationResult struct {
	RunID        string
	Files        int
	Models       int
	Declarations int
	Namespaces   []string
	Err          error
	Duration     time.Duration
}

// validateOnce loads, registers and validates, records the run and renders it.
func (c *CommandContext) validateOnce(paths []string) error {
	source := strings.Join(c.roots(paths), ",")

	store, err := c.openHistory()
	if err != nil {
		c.Logger.Warn("history disabled for this run", slog.String("error", err.Error()))
		store = nil
	}
	if store != nil {
		defer func() { _ = store.Close() }()
	}

	var run *state.Run
	if store != nil {
		if run, err = store.CreateRun(source); err != nil {
			c.Logger.Warn("failed to record run", slog.String("error", err.Error()))
		}
	}

	res := c.validate(paths)

	if run != nil {
		res.RunID = run.ID
		status := state.RunStatusPassed
		summary := state.RunSummary{Models: res.Models, Declarations: res.Declarations}
		if res.Err != nil {
			status = state.RunStatusFailed
			summary.ErrorCode = string(core.CodeOf(res.Err))
			summary.Error = res.Err.Error()
		}
		if err := store.CompleteRun(run.ID, status, summary); err != nil {
			c.Logger.Warn("failed to complete run", slog.String("id", run.ID), slog.String("error", err.Error()))
		}
	}

	if err := renderValidation(c.Renderer, res); err != nil {
		return err
	}
	if res.Err != nil {
		return fmt.Errorf("%w: %w", ErrValidationFailed, res.Err)
	}
	return nil
}

func (c *CommandContext) validate(paths []string) validationResult {
	start := time.Now()
	res := validationResult{}

	ws, err := c.loadWorkspace(paths)
	if ws != nil {
		res.Files = ws.Files()
		res.Models = ws.Registry.Count()
		res.Declarations = ws.Declarations()
		res.Namespaces = ws.Registry.Namespaces()
	}
	if err == nil {
		err = ws.Registry.ValidateAll()
	}
	res.Err = err
	res.Duration = time.Since(start)

	c.Logger.Debug("validation finished",
		slog.Int("models", res.Models),
		slog.Duration("duration", res.Duration),
		slog.Bool("valid", err == nil))
	return res
}

func renderValidation(r *output.Renderer, res validationResult) error {
	duration := res.Duration.Round(time.Millisecond).String()

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(output.ValidateOutput{
			Valid:        res.Err == nil,
			RunID:        res.RunID,
			Files:        res.Files,
			Models:       res.Models,
			Declarations: res.Declarations,
			Namespaces:   res.Namespaces,
			Error:        errorDetail(res.Err),
			Duration:     duration,
		})
	}

	if res.Err == nil {
		r.Success(fmt.Sprintf("%d models (%d declarations) from %d files are valid", res.Models, res.Declarations, res.Files))
		r.Muted("Completed in " + duration)
		return nil
	}

	d := errorDetail(res.Err)
	if r.EffectiveMode() == output.ModeMarkdown {
		r.Println(output.FormatHeader(1, "Validation failed"))
		r.Println("")
		r.Println(d.Message)
		r.Println("")
		for _, kv := range errorFields(d) {
			r.Println(output.FormatKeyValue(kv[0], kv[1]))
		}
		return nil
	}

	styles := r.Styles()
	r.Println(styles.StatusFailed.String() + " " + styles.Error.Render("Validation failed: "+d.Message))
	for _, kv := range errorFields(d) {
		r.Printf("  %s: %s\n", styles.Bold.Render(kv[0]), kv[1])
	}
	return nil
}

// errorFields lists the non-empty context fields of an error detail.
func errorFields(d *output.ErrorDetail) [][2]string {
	var out [][2]string
	for _, kv := range [][2]string{
		{"Kind", d.Kind},
		{"Code", d.Code},
		{"File", d.File},
		{"Namespace", d.Namespace},
		{"Declaration", d.Declaration},
		{"Property", d.Property},
		{"Location", d.Location},
	} {
		if kv[1] != "" {
			out = append(out, kv)
		}
	}
	return out
}

// =============================================================================
// Watch mode
// =============================================================================

// watch validates once, then again after every burst of model file changes
// until ctx is cancelled. Validation failures are reported, not returned.
func (c *CommandContext) watch(ctx context.Context, paths []string, debounce time.Duration) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = w.Close() }()

	for _, root := range c.roots(paths) {
		if err := addWatches(w, root); err != nil {
			return err
		}
	}

	_ = c.validateOnce(paths)
	c.Renderer.Muted("Watching for changes. Press Ctrl+C to stop.")

	timer := time.NewTimer(debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					_ = addWatches(w, ev.Name)
					continue
				}
			}
			if _, ok := loader.FormatOf(ev.Name); !ok {
				continue
			}
			c.Logger.Debug("model file changed", slog.String("path", ev.Name), slog.String("op", ev.Op.String()))
			timer.Reset(debounce)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			c.Logger.Warn("watch error", slog.String("error", err.Error()))

		case <-timer.C:
			c.Renderer.Println("")
			c.Renderer.Muted("Change detected, re-validating...")
			_ = c.validateOnce(paths)
		}
	}
}

// addWatches watches root, or the directory of root when it is a file.
// Hidden directories and node_modules are skipped.
func addWatches(w *fsnotify.Watcher, root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("cannot watch %s: %w", root, err)
	}
	if !info.IsDir() {
		return w.Add(filepath.Dir(root))
	}

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		name := d.Name()
		if path != root && (strings.HasPrefix(name, ".") || name == "node_modules") {
			return filepath.SkipDir
		}
		return w.Add(path)
	})
}
