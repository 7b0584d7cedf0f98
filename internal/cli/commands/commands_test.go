package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/fsnotify/fsnotify"
	"github.com/leapstack-labs/concerto/internal/cli/output"
	"github.com/leapstack-labs/concerto/internal/cli/testutil"
	"github.com/leapstack-labs/concerto/internal/config"
	rootutil "github.com/leapstack-labs/concerto/internal/testutil"
	"github.com/leapstack-labs/concerto/pkg/core"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testConfig returns a config rooted at the project dir with history in a temp file.
func testConfig(t *testing.T, root, mode string) *config.Config {
	t.Helper()
	return &config.Config{
		ModelsDir:   filepath.Join(root, "models"),
		StatePath:   filepath.Join(t.TempDir(), "history.db"),
		Output:      mode,
		ProjectRoot: root,
		Registry:    config.RegistryConfig{OnDuplicate: config.DefaultOnDuplicate},
		Lint:        config.LintConfig{FailOn: core.SeverityError},
	}
}

// execute runs cmd with cfg in its context and returns stdout.
func execute(t *testing.T, cmd *cobra.Command, cfg *config.Config, args ...string) (string, error) {
	t.Helper()
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs(args)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	ctx := config.WithConfig(context.Background(), cfg)
	ctx = config.WithLogger(ctx, rootutil.NewTestLogger(t))
	err := cmd.ExecuteContext(ctx)
	return out.String(), err
}

func decodeJSON[T any](t *testing.T, s string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(s), &v), "output: %s", s)
	return v
}

func TestCommandMetadata(t *testing.T) {
	tests := []struct {
		cmd   *cobra.Command
		use   string
		flags []string
	}{
		{NewValidateCommand(), "validate [paths...]", []string{"watch", "debounce"}},
		{NewListCommand(), "list [paths...]", []string{"namespace"}},
		{NewResolveCommand(), "resolve <namespace.Name | namespace Name>", []string{"path"}},
		{NewHierarchyCommand(), "hierarchy [paths...]", nil},
		{NewLintCommand(), "lint [paths...]", []string{"disable", "fail-on"}},
		{NewRulesCommand(), "rules [rule-id]", []string{"group", "details"}},
		{NewHistoryCommand(), "history [run-id]", []string{"limit"}},
		{NewVersionCommand("test"), "version", nil},
	}

	for _, tt := range tests {
		t.Run(tt.cmd.Name(), func(t *testing.T) {
			assert.Equal(t, tt.use, tt.cmd.Use)
			assert.NotEmpty(t, tt.cmd.Short, "Short should not be empty")
			assert.NotEmpty(t, tt.cmd.Long, "Long should not be empty")
			for _, flag := range tt.flags {
				assert.NotNil(t, tt.cmd.Flags().Lookup(flag), "flag %q should exist", flag)
			}
		})
	}
}

func TestVersionCommand(t *testing.T) {
	for _, version := range []string{"0.1.0", "dev"} {
		t.Run(version, func(t *testing.T) {
			out, err := execute(t, NewVersionCommand(version), &config.Config{})
			require.NoError(t, err)
			assert.Contains(t, out, "concerto v"+version)
			assert.Contains(t, out, "Concerto metamodel")
		})
	}
}

// --- validate ---

func TestValidateCommand_Success(t *testing.T) {
	root := testutil.SetupTestProject(t)
	cfg := testConfig(t, root, "json")

	out, err := execute(t, NewValidateCommand(), cfg)
	require.NoError(t, err)

	res := decodeJSON[output.ValidateOutput](t, out)
	assert.True(t, res.Valid)
	assert.Equal(t, 2, res.Files)
	assert.Equal(t, 2, res.Models)
	assert.Equal(t, 4, res.Declarations)
	assert.Equal(t, []string{"org.acme.base", "org.acme.hr"}, res.Namespaces)
	assert.NotEmpty(t, res.RunID)
	assert.Nil(t, res.Error)
}

func TestValidateCommand_Failure(t *testing.T) {
	root := testutil.SetupTestProject(t)
	testutil.WriteModel(t, root, "models/broken.json", testutil.BrokenModel)

	t.Run("json", func(t *testing.T) {
		out, err := execute(t, NewValidateCommand(), testConfig(t, root, "json"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrValidationFailed))
		assert.True(t, errors.Is(err, core.ErrValidation))

		res := decodeJSON[output.ValidateOutput](t, out)
		assert.False(t, res.Valid)
		require.NotNil(t, res.Error)
		assert.Equal(t, string(core.CodeUnresolvedType), res.Error.Code)
		assert.Equal(t, "validation error", res.Error.Kind)
	})

	t.Run("markdown", func(t *testing.T) {
		out, err := execute(t, NewValidateCommand(), testConfig(t, root, "markdown"))
		require.Error(t, err)
		assert.Contains(t, out, "# Validation failed")
		assert.Contains(t, out, "unresolved-type")
		testutil.AssertNoANSI(t, out)
		testutil.AssertValidMarkdown(t, out)
	})
}

func TestValidateCommand_ExplicitPaths(t *testing.T) {
	root := testutil.SetupTestProject(t)
	base := filepath.Join(root, "models", "base.json")

	out, err := execute(t, NewValidateCommand(), testConfig(t, root, "json"), base)
	require.NoError(t, err)
	res := decodeJSON[output.ValidateOutput](t, out)
	assert.Equal(t, 1, res.Files)
	assert.Equal(t, []string{"org.acme.base"}, res.Namespaces)
}

func TestValidateCommand_ParseError(t *testing.T) {
	root := t.TempDir()
	path := testutil.WriteModel(t, root, "models/bad.json", `{"$class": `)

	out, err := execute(t, NewValidateCommand(), testConfig(t, root, "json"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrParse))

	res := decodeJSON[output.ValidateOutput](t, out)
	require.NotNil(t, res.Error)
	assert.Equal(t, path, res.Error.File)
}

func TestValidateCommand_NoHistory(t *testing.T) {
	root := testutil.SetupTestProject(t)
	cfg := testConfig(t, root, "json")
	cfg.NoHistory = true

	out, err := execute(t, NewValidateCommand(), cfg)
	require.NoError(t, err)
	assert.Empty(t, decodeJSON[output.ValidateOutput](t, out).RunID)
	assert.NoFileExists(t, cfg.StatePath)
}

// --- list / resolve / hierarchy ---

func TestListCommand(t *testing.T) {
	root := testutil.SetupTestProject(t)

	t.Run("json", func(t *testing.T) {
		out, err := execute(t, NewListCommand(), testConfig(t, root, "json"))
		require.NoError(t, err)

		res := decodeJSON[output.ListOutput](t, out)
		assert.Equal(t, 2, res.Summary.Models)
		require.Len(t, res.Declarations, 4)
		assert.Equal(t, "Person", res.Declarations[0].Name)
		assert.True(t, res.Declarations[0].Abstract)
		assert.Equal(t, "org.acme.base.Person", res.Declarations[2].SuperType)
		assert.Equal(t, "enum", res.Declarations[3].Kind)
		assert.Equal(t, []string{"JUNIOR", "SENIOR"}, res.Declarations[3].Properties)
	})

	t.Run("namespace filter", func(t *testing.T) {
		out, err := execute(t, NewListCommand(), testConfig(t, root, "json"), "--namespace", "org.acme.hr")
		require.NoError(t, err)
		res := decodeJSON[output.ListOutput](t, out)
		assert.Equal(t, 1, res.Summary.Models)
		assert.Len(t, res.Declarations, 2)
	})

	t.Run("markdown", func(t *testing.T) {
		out, err := execute(t, NewListCommand(), testConfig(t, root, "markdown"))
		require.NoError(t, err)
		assert.Contains(t, out, "# Declarations (4 in 2 models)")
		assert.Contains(t, out, "Employee")
		testutil.AssertNoANSI(t, out)
	})
}

func TestResolveCommand(t *testing.T) {
	root := testutil.SetupTestProject(t)

	tests := []struct {
		name string
		args []string
	}{
		{"fully qualified", []string{"org.acme.hr.Employee"}},
		{"namespace and name", []string{"org.acme.hr", "Employee"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, NewResolveCommand(), testConfig(t, root, "json"), tt.args...)
			require.NoError(t, err)

			res := decodeJSON[output.ResolveOutput](t, out)
			assert.Equal(t, "Employee", res.Declaration.Name)
			assert.Equal(t, "org.acme.hr", res.Declaration.Namespace)
			assert.Contains(t, res.Declaration.Source, "employee.yaml")
			require.Len(t, res.SuperTypes, 1)
			assert.Equal(t, "Person", res.SuperTypes[0].Name)
		})
	}
}

func TestResolveCommand_Errors(t *testing.T) {
	root := testutil.SetupTestProject(t)

	tests := []struct {
		name   string
		args   []string
		target error
	}{
		{"unknown namespace", []string{"org.acme.nope.Thing"}, core.ErrNamespaceNotFound},
		{"unknown declaration", []string{"org.acme.hr", "Manager"}, core.ErrDeclarationNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, NewResolveCommand(), testConfig(t, root, "json"), tt.args...)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.target), "got %v", err)
		})
	}

	t.Run("not qualified", func(t *testing.T) {
		_, err := execute(t, NewResolveCommand(), testConfig(t, root, "json"), "Employee")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not a fully qualified name")
	})
}

func TestHierarchyCommand(t *testing.T) {
	root := testutil.SetupTestProject(t)

	out, err := execute(t, NewHierarchyCommand(), testConfig(t, root, "json"))
	require.NoError(t, err)

	res := decodeJSON[output.HierarchyOutput](t, out)
	assert.Equal(t, 1, res.Edges)
	require.Len(t, res.Levels, 2)
	assert.Equal(t, []string{"org.acme.base.Address", "org.acme.base.Person"}, res.Levels[0].Declarations)
	assert.Equal(t, []string{"org.acme.hr.Employee"}, res.Levels[1].Declarations)

	md, err := execute(t, NewHierarchyCommand(), testConfig(t, root, "markdown"))
	require.NoError(t, err)
	assert.Contains(t, md, "- org.acme.hr.Employee (extends org.acme.base.Person)")
	assert.Contains(t, md, "Total: 3 declarations, 1 inheritance edges")
}

// --- lint / rules ---

func TestLintCommand(t *testing.T) {
	root := testutil.SetupTestProject(t)
	testutil.WriteModel(t, root, "models/extra.json", testutil.UnusedImportModel)

	t.Run("warnings pass by default", func(t *testing.T) {
		out, err := execute(t, NewLintCommand(), testConfig(t, root, "json"))
		require.NoError(t, err)

		res := decodeJSON[output.LintOutput](t, out)
		require.Len(t, res.Diagnostics, 1)
		assert.Equal(t, "MI01", res.Diagnostics[0].RuleID)
		assert.Equal(t, "warning", res.Diagnostics[0].Severity)
		assert.Equal(t, "org.acme.extra", res.Diagnostics[0].Namespace)
		assert.Equal(t, 1, res.Summary.Warnings)
	})

	t.Run("fail on warning", func(t *testing.T) {
		_, err := execute(t, NewLintCommand(), testConfig(t, root, "json"), "--fail-on", "warning")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "warning")
	})

	t.Run("disabled rule", func(t *testing.T) {
		out, err := execute(t, NewLintCommand(), testConfig(t, root, "json"), "--disable", "MI01", "--fail-on", "warning")
		require.NoError(t, err)
		assert.Empty(t, decodeJSON[output.LintOutput](t, out).Diagnostics)
	})

	t.Run("invalid severity", func(t *testing.T) {
		_, err := execute(t, NewLintCommand(), testConfig(t, root, "json"), "--fail-on", "fatal")
		assert.Error(t, err)
	})

	t.Run("markdown", func(t *testing.T) {
		out, err := execute(t, NewLintCommand(), testConfig(t, root, "markdown"))
		require.NoError(t, err)
		assert.Contains(t, out, "org.acme.extra")
		assert.Contains(t, out, "Summary: 1 issues, 1 warnings")
	})
}

func TestBuildLintConfig(t *testing.T) {
	cfg := &config.Config{Lint: config.LintConfig{
		Disabled: []string{" MN01 "},
		Severity: map[string]core.Severity{"mi02": core.SeverityError},
	}}
	lintCfg := buildLintConfig(cfg, &LintOptions{Disable: []string{"MH01"}})

	assert.True(t, lintCfg.IsDisabled("MN01"))
	assert.True(t, lintCfg.IsDisabled("MH01"))
	assert.False(t, lintCfg.IsDisabled("MI01"))
	assert.Equal(t, core.SeverityError, lintCfg.GetSeverity("MI02", core.SeverityWarning))
}

func TestRulesCommand(t *testing.T) {
	t.Run("list markdown", func(t *testing.T) {
		out, err := execute(t, NewRulesCommand(), &config.Config{Output: "markdown"})
		require.NoError(t, err)
		assert.Contains(t, out, "# Lint Rules")
		assert.Contains(t, out, "## Imports")
		assert.Contains(t, out, "**MI01**")
		testutil.AssertValidMarkdown(t, out)
	})

	t.Run("filter by group", func(t *testing.T) {
		out, err := execute(t, NewRulesCommand(), &config.Config{Output: "json"}, "--group", "hierarchy")
		require.NoError(t, err)

		var res struct {
			Rules []struct {
				ID    string `json:"id"`
				Group string `json:"group"`
			} `json:"rules"`
			Count int `json:"count"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &res))
		require.Equal(t, 2, res.Count)
		for _, r := range res.Rules {
			assert.Equal(t, "hierarchy", r.Group)
		}
	})

	t.Run("show rule", func(t *testing.T) {
		out, err := execute(t, NewRulesCommand(), &config.Config{Output: "markdown"}, "mi01")
		require.NoError(t, err)
		assert.Contains(t, out, "# MI01 - unused-import")
		assert.Contains(t, out, "## Why This Matters")
		testutil.AssertValidMarkdown(t, out)
	})

	t.Run("unknown rule", func(t *testing.T) {
		_, err := execute(t, NewRulesCommand(), &config.Config{Output: "markdown"}, "ZZ99")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})
}

// --- history ---

func TestHistoryCommand(t *testing.T) {
	root := testutil.SetupTestProject(t)
	cfg := testConfig(t, root, "json")

	_, err := execute(t, NewValidateCommand(), cfg)
	require.NoError(t, err)

	testutil.WriteModel(t, root, "models/broken.json", testutil.BrokenModel)
	_, err = execute(t, NewValidateCommand(), cfg)
	require.Error(t, err)

	out, err := execute(t, NewHistoryCommand(), cfg)
	require.NoError(t, err)

	res := decodeJSON[output.HistoryOutput](t, out)
	require.Len(t, res.Runs, 2)
	assert.Equal(t, "failed", res.Runs[0].Status)
	assert.Equal(t, string(core.CodeUnresolvedType), res.Runs[0].ErrorCode)
	assert.Equal(t, "passed", res.Runs[1].Status)
	assert.Equal(t, 2, res.Runs[1].Models)

	one, err := execute(t, NewHistoryCommand(), cfg, res.Runs[1].ID)
	require.NoError(t, err)
	single := decodeJSON[output.HistoryOutput](t, one)
	require.Len(t, single.Runs, 1)
	assert.Equal(t, res.Runs[1].ID, single.Runs[0].ID)

	limited, err := execute(t, NewHistoryCommand(), cfg, "--limit", "1")
	require.NoError(t, err)
	assert.Len(t, decodeJSON[output.HistoryOutput](t, limited).Runs, 1)

	_, err = execute(t, NewHistoryCommand(), cfg, "--limit", "0")
	assert.Error(t, err)
}

func TestHistoryCommand_Empty(t *testing.T) {
	cfg := testConfig(t, t.TempDir(), "markdown")

	out, err := execute(t, NewHistoryCommand(), cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "No validation runs recorded")
}

// --- watch ---

func TestAddWatches(t *testing.T) {
	root := testutil.SetupTestProject(t)
	testutil.WriteModel(t, root, "models/.git/HEAD", "ref")
	testutil.WriteModel(t, root, "models/node_modules/pkg/model.json", "{}")

	w, err := fsnotify.NewWatcher()
	require.NoError(t, err)
	defer func() { _ = w.Close() }()

	require.NoError(t, addWatches(w, filepath.Join(root, "models")))
	assert.ElementsMatch(t, []string{
		filepath.Join(root, "models"),
		filepath.Join(root, "models", "hr"),
	}, w.WatchList())

	require.NoError(t, addWatches(w, filepath.Join(root, "models", "base.json")))
	assert.Error(t, addWatches(w, filepath.Join(root, "missing")))
}

func TestWatch_StopsOnCancel(t *testing.T) {
	root := testutil.SetupTestProject(t)
	cfg := testConfig(t, root, "markdown")
	cfg.NoHistory = true

	tr := testutil.NewTestRendererMarkdown()
	c := &CommandContext{Cfg: cfg, Logger: rootutil.NewTestLogger(t), Renderer: tr.Renderer}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, c.watch(ctx, nil, defaultDebounce))
	assert.Contains(t, tr.Output(), "are valid")
	assert.Contains(t, tr.Output(), "Watching for changes")
}
