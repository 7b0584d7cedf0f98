// Package main provides tests for the concerto CLI.
package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leapstack-labs/concerto/internal/cli"
)

func testdataDir(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	return filepath.Join(wd, "..", "..", "testdata")
}

// run executes the root command and returns stdout and stderr.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := cli.NewRootCmd()
	out, errOut := new(bytes.Buffer), new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, _, err := run(t, "version")
	if err != nil {
		t.Fatalf("version command error = %v", err)
	}
	if !strings.Contains(out, "concerto v"+cli.Version) {
		t.Errorf("version output should contain the version, got: %s", out)
	}
}

func TestHelpCommand(t *testing.T) {
	out, _, err := run(t, "--help")
	if err != nil {
		t.Fatalf("help command error = %v", err)
	}

	for _, expected := range []string{"validate", "list", "resolve", "hierarchy", "lint", "rules", "history"} {
		if !strings.Contains(out, expected) {
			t.Errorf("help output should contain '%s', got: %s", expected, out)
		}
	}
}

func TestValidateCommand(t *testing.T) {
	td := testdataDir(t)
	state := filepath.Join(t.TempDir(), "history.db")

	out, _, err := run(t, "validate",
		"--models-dir", filepath.Join(td, "models"),
		"--state", state,
		"-o", "json",
	)
	if err != nil {
		t.Fatalf("validate command error = %v\n%s", err, out)
	}

	var res struct {
		Valid  bool   `json:"valid"`
		Models int    `json:"models"`
		RunID  string `json:"run_id"`
	}
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, out)
	}
	if !res.Valid || res.Models != 2 || res.RunID == "" {
		t.Errorf("unexpected result: %+v", res)
	}
	if _, err := os.Stat(state); err != nil {
		t.Errorf("history database should exist: %v", err)
	}
}

func TestValidateCommandInvalid(t *testing.T) {
	td := testdataDir(t)

	out, _, err := run(t, "validate",
		filepath.Join(td, "models"),
		filepath.Join(td, "invalid", "broken.json"),
		"--no-history",
		"-o", "markdown",
	)
	if err == nil {
		t.Fatal("validate should fail for an unresolved type")
	}
	if !strings.Contains(out, "unresolved-type") {
		t.Errorf("output should name the error code, got: %s", out)
	}
}

func TestHierarchyCommandCycle(t *testing.T) {
	td := testdataDir(t)

	_, _, err := run(t, "hierarchy",
		filepath.Join(td, "invalid", "cycle.yaml"),
		"--no-history",
	)
	if err == nil || !strings.Contains(err.Error(), "circular inheritance") {
		t.Errorf("hierarchy should report the cycle, got: %v", err)
	}
}

func TestResolveCommand(t *testing.T) {
	td := testdataDir(t)

	out, _, err := run(t, "resolve", "org.acme.hr.Employee",
		"--models-dir", filepath.Join(td, "models"),
		"-o", "markdown",
	)
	if err != nil {
		t.Fatalf("resolve command error = %v", err)
	}
	if !strings.Contains(out, "org.acme.base.Person") {
		t.Errorf("resolve output should list the super type, got: %s", out)
	}
}

func TestConfigFile(t *testing.T) {
	td := testdataDir(t)
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "concerto.yaml")
	content := "models_dir: " + filepath.Join(td, "models") + "\nno_history: true\noutput: json\n"
	if err := os.WriteFile(cfgPath, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	out, _, err := run(t, "list", "--config", cfgPath)
	if err != nil {
		t.Fatalf("list command error = %v", err)
	}
	if !strings.Contains(out, `"declarations"`) {
		t.Errorf("config output mode should be json, got: %s", out)
	}
}

func TestInvalidConfig(t *testing.T) {
	_, _, err := run(t, "list", "--on-duplicate", "ignore")
	if err == nil {
		t.Error("an unknown duplicate policy should be rejected")
	}
}

func TestCompletionCommand(t *testing.T) {
	out, _, err := run(t, "completion", "bash")
	if err != nil {
		t.Fatalf("completion command error = %v", err)
	}
	if !strings.Contains(out, "concerto") {
		t.Errorf("completion script should mention concerto")
	}
}
