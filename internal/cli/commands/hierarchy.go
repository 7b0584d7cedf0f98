package commands

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/concerto/internal/cli/output"
	"github.com/spf13/cobra"
)

// NewHierarchyCommand creates the hierarchy command.
func NewHierarchyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hierarchy [paths...]",
		Short: "Show the inheritance hierarchy",
		Long: `Display the inheritance graph of all concept-like declarations.

Declarations are grouped by level: level 0 holds the roots (types that
extend nothing resolvable), level n the types whose super type is at
level n-1. An inheritance cycle is reported as an error.`,
		Example: `  # Show the hierarchy
  concerto hierarchy

  # As JSON
  concerto hierarchy --output json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHierarchy(cmd, args)
		},
	}

	return cmd
}

func runHierarchy(cmd *cobra.Command, paths []string) error {
	c := NewCommandContext(cmd)
	r := c.Renderer

	ws, err := c.loadWorkspace(paths)
	if err != nil {
		return fmt.Errorf("failed to load models: %w", err)
	}

	graph, err := ws.Registry.InheritanceGraph()
	if err != nil {
		return err
	}
	if cycle := graph.FindCycle(); cycle != nil {
		return fmt.Errorf("circular inheritance: %w", cycle)
	}
	levels, err := graph.Levels()
	if err != nil {
		return err
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		out := output.HierarchyOutput{Levels: make([]output.HierarchyLevel, 0, len(levels)), Edges: graph.EdgeCount()}
		for i, level := range levels {
			out.Levels = append(out.Levels, output.HierarchyLevel{Level: i, Declarations: level})
		}
		return r.JSON(out)

	case output.ModeMarkdown:
		r.Println(output.FormatHeader(1, "Inheritance Hierarchy"))
		r.Println("")
		for i, level := range levels {
			r.Println(output.FormatHeader(2, fmt.Sprintf("Level %d", i)))
			r.Println("")
			for _, id := range level {
				line := "- " + id
				if parents := graph.Parents(id); len(parents) > 0 {
					line += " (extends " + strings.Join(parents, ", ") + ")"
				}
				r.Println(line)
			}
			r.Println("")
		}

	default:
		styles := r.Styles()
		r.Header(1, "Inheritance Hierarchy")
		for i, level := range levels {
			r.Println(styles.Header2.Render(fmt.Sprintf("Level %d:", i)))
			for _, id := range level {
				r.Printf("  %s\n", styles.Declaration.Render(id))
				if children := graph.Children(id); len(children) > 0 {
					r.Println(styles.Muted.Render("    extended by: " + strings.Join(children, ", ")))
				}
			}
			r.Println("")
		}
	}

	r.Printf("Total: %d declarations, %d inheritance edges\n", graph.Len(), graph.EdgeCount())
	return nil
}
