package commands

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/concerto/internal/cli/output"
	"github.com/leapstack-labs/concerto/pkg/core"
	"github.com/spf13/cobra"
)

// NewResolveCommand creates the resolve command.
func NewResolveCommand() *cobra.Command {
	var paths []string
	cmd := &cobra.Command{
		Use:   "resolve <namespace.Name | namespace Name>",
		Short: "Resolve a type reference",
		Long: `Resolve a type by namespace and name against the registered models and
show the declaration together with its super type chain, nearest first.

A missing namespace and a missing declaration are reported separately.`,
		Example: `  # Fully qualified
  concerto resolve org.acme.hr.Employee

  # Namespace and name
  concerto resolve org.acme.hr Employee`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			namespace, name, err := parseTypeArgs(args)
			if err != nil {
				return err
			}
			return runResolve(cmd, paths, namespace, name)
		},
	}

	cmd.Flags().StringSliceVarP(&paths, "path", "p", nil, "Model files or directories (default: models directory)")

	return cmd
}

func parseTypeArgs(args []string) (namespace, name string, err error) {
	if len(args) == 2 {
		return args[0], args[1], nil
	}
	namespace, name, ok := core.SplitFullyQualifiedName(args[0])
	if !ok {
		return "", "", fmt.Errorf("%q is not a fully qualified name (expected namespace.Name)", args[0])
	}
	return namespace, name, nil
}

func runResolve(cmd *cobra.Command, paths []string, namespace, name string) error {
	c := NewCommandContext(cmd)
	r := c.Renderer

	ws, err := c.loadWorkspace(paths)
	if err != nil {
		return fmt.Errorf("failed to load models: %w", err)
	}

	ref, err := ws.Registry.ResolveType(namespace, name)
	if err != nil {
		return err
	}
	chain, err := ws.Registry.SuperTypes(namespace, name)
	if err != nil {
		return err
	}

	out := output.ResolveOutput{
		Declaration: declarationInfo(ref.Namespace, ref.Declaration, ref.Model.SourceURI),
		SuperTypes:  make([]output.DeclarationInfo, 0, len(chain)),
	}
	for _, s := range chain {
		out.SuperTypes = append(out.SuperTypes, declarationInfo(s.Namespace, s.Declaration, s.Model.SourceURI))
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(out)
	case output.ModeMarkdown:
		resolveMarkdown(r, out)
	default:
		resolveText(r, out)
	}
	return nil
}

func resolveMarkdown(r *output.Renderer, out output.ResolveOutput) {
	d := out.Declaration
	r.Println(output.FormatHeader(1, d.Namespace+"."+d.Name))
	r.Println("")
	r.Println(output.FormatKeyValue("Kind", d.Kind))
	if d.Abstract {
		r.Println(output.FormatKeyValue("Abstract", "true"))
	}
	if d.Source != "" {
		r.Println(output.FormatKeyValue("Source", d.Source))
	}
	if len(d.Properties) > 0 {
		r.Println(output.FormatKeyValue("Properties", strings.Join(d.Properties, ", ")))
	}
	if len(out.SuperTypes) > 0 {
		r.Println("")
		r.Println(output.FormatHeader(2, "Super types"))
		r.Println("")
		for i, s := range out.SuperTypes {
			r.Printf("%d. %s.%s (%s)\n", i+1, s.Namespace, s.Name, s.Kind)
		}
	}
}

func resolveText(r *output.Renderer, out output.ResolveOutput) {
	styles := r.Styles()
	d := out.Declaration

	r.Println(styles.Namespace.Render(d.Namespace) + "." + styles.Declaration.Render(d.Name))
	kind := d.Kind
	if d.Abstract {
		kind = "abstract " + kind
	}
	r.Printf("  %s: %s\n", styles.Bold.Render("Kind"), kind)
	if d.Source != "" {
		r.Printf("  %s: %s\n", styles.Bold.Render("Source"), styles.Muted.Render(d.Source))
	}
	if len(d.Properties) > 0 {
		r.Printf("  %s: %s\n", styles.Bold.Render("Properties"), strings.Join(d.Properties, ", "))
	}
	for _, s := range out.SuperTypes {
		r.Printf("  %s %s.%s\n", styles.Muted.Render("extends"), styles.Namespace.Render(s.Namespace), s.Name)
	}
}
