package commands

import (
	"fmt"
	"strconv"
	"time"

	"github.com/leapstack-labs/concerto/internal/cli/output"
	"github.com/leapstack-labs/concerto/internal/state"
	"github.com/spf13/cobra"
)

// defaultHistoryLimit is the number of runs shown by default.
const defaultHistoryLimit = 20

// NewHistoryCommand creates the history command.
func NewHistoryCommand() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "Show recent validation runs",
		Long: `Show validation runs recorded in the history database, newest first.
Pass a run ID to show a single run.`,
		Example: `  # Last 20 runs
  concerto history

  # Last 5 runs as JSON
  concerto history --limit 5 -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd, args, limit)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", defaultHistoryLimit, "Maximum number of runs to show")

	return cmd
}

func runHistory(cmd *cobra.Command, args []string, limit int) error {
	c := NewCommandContext(cmd)
	r := c.Renderer

	if limit <= 0 {
		return fmt.Errorf("--limit must be positive, got %d", limit)
	}

	store, err := state.OpenAndMigrate(c.Cfg.StatePath, c.Logger)
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer func() { _ = store.Close() }()

	var runs []*state.Run
	if len(args) == 1 {
		run, err := store.GetRun(args[0])
		if err != nil {
			return err
		}
		runs = []*state.Run{run}
	} else if runs, err = store.ListRuns(limit); err != nil {
		return err
	}

	if r.EffectiveMode() == output.ModeJSON {
		out := output.HistoryOutput{Runs: make([]output.RunInfo, 0, len(runs))}
		for _, run := range runs {
			out.Runs = append(out.Runs, runInfo(run))
		}
		return r.JSON(out)
	}

	if len(runs) == 0 {
		r.Muted("No validation runs recorded in " + store.Path())
		return nil
	}

	r.Header(1, fmt.Sprintf("Validation Runs (%d)", len(runs)))
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		info := runInfo(run)
		rows = append(rows, []string{
			shortID(info.ID),
			info.Status,
			info.StartedAt.Local().Format(time.DateTime),
			info.Duration,
			strconv.Itoa(info.Models),
			info.ErrorCode,
			info.Source,
		})
	}
	r.Table([]string{"Run", "Status", "Started", "Duration", "Models", "Error", "Source"}, rows)
	return nil
}

func runInfo(run *state.Run) output.RunInfo {
	info := output.RunInfo{
		ID:           run.ID,
		Source:       run.Source,
		Status:       string(run.Status),
		StartedAt:    run.StartedAt,
		CompletedAt:  run.CompletedAt,
		Models:       run.Summary.Models,
		Declarations: run.Summary.Declarations,
		ErrorCode:    run.Summary.ErrorCode,
		Error:        run.Summary.Error,
	}
	if run.CompletedAt != nil {
		info.Duration = run.Duration().Round(time.Millisecond).String()
	}
	return info
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
