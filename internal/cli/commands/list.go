package commands

import (
	"fmt"
	"strconv"

	"github.com/leapstack-labs/concerto/internal/cli/output"
	"github.com/spf13/cobra"
)

// ListOptions holds options for the list command.
type ListOptions struct {
	Namespace string
}

// NewListCommand creates the list command.
func NewListCommand() *cobra.Command {
	opts := &ListOptions{}
	cmd := &cobra.Command{
		Use:   "list [paths...]",
		Short: "List all declarations",
		Long: `List every declaration of the registered models with its kind,
super type and property count.

Output adapts to environment:
  - Terminal: Styled table
  - Piped/Scripted: Markdown table (agent-friendly)

Use --output to override: auto, text, markdown, json`,
		Example: `  # List all declarations
  concerto list

  # Only one namespace
  concerto list --namespace org.acme.hr

  # As JSON
  concerto list --output json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Namespace, "namespace", "n", "", "Only list declarations of this namespace")

	return cmd
}

func runList(cmd *cobra.Command, paths []string, opts *ListOptions) error {
	c := NewCommandContext(cmd)
	r := c.Renderer

	ws, err := c.loadWorkspace(paths)
	if err != nil {
		return fmt.Errorf("failed to load models: %w", err)
	}

	var decls []output.DeclarationInfo
	models := 0
	for _, m := range ws.Registry.Models() {
		if opts.Namespace != "" && m.Namespace != opts.Namespace {
			continue
		}
		models++
		for _, d := range m.Declarations {
			decls = append(decls, declarationInfo(m.Namespace, d, m.SourceURI))
		}
	}

	if r.EffectiveMode() == output.ModeJSON {
		if decls == nil {
			decls = []output.DeclarationInfo{}
		}
		return r.JSON(output.ListOutput{
			Declarations: decls,
			Summary:      output.ListSummary{Models: models, Declarations: len(decls)},
		})
	}

	r.Header(1, fmt.Sprintf("Declarations (%d in %d models)", len(decls), models))

	rows := make([][]string, 0, len(decls))
	for _, d := range decls {
		kind := d.Kind
		if d.Abstract {
			kind = "abstract " + kind
		}
		rows = append(rows, []string{d.Namespace, d.Name, kind, d.SuperType, strconv.Itoa(len(d.Properties))})
	}
	r.Table([]string{"Namespace", "Name", "Kind", "Extends", "Properties"}, rows)
	return nil
}
