package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/itisgraph/pkg/render/dot"
)

// dotCommand creates the dot command.
func (c *CLI) dotCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "dot [graph.json]",
		Short: "Project a graph document to Graphviz DOT",
		Long: `Project a graph document to Graphviz DOT.

Every node becomes one node statement and every edge one edge statement
labeled with its relation, in document order.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				output = swapExt(args[0], ".dot")
			}
			return c.runDOT(cmd.Context(), args[0], output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.dot)")

	return cmd
}

func (c *CLI) runDOT(ctx context.Context, input, output string) error {
	runner, err := c.newRunner(true)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}

	if err := runner.ExportDOT(ctx, input, output); err != nil {
		return fmt.Errorf("dot %s: %w", input, err)
	}
	printSuccess("Exported DOT")
	printFile(output)
	return nil
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var output, format string

	cmd := &cobra.Command{
		Use:   "render [graph.json|graph.dot]",
		Short: "Render a graph document or DOT file as SVG or PNG",
		Long: `Render a graph document or DOT file as SVG or PNG.

Inputs ending in .dot or .gv are laid out as they are. Any other input is read
as a graph document and projected to DOT first. Layout uses the embedded
Graphviz "dot" engine, which is slow on full kingdoms; render a subset or use
the DOT output with an external Graphviz for large graphs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := dot.ParseFormat(format)
			if err != nil {
				return err
			}
			if output == "" {
				output = swapExt(args[0], "."+string(f))
			}
			return c.runRender(cmd.Context(), args[0], output, f)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.<format>)")
	cmd.Flags().StringVarP(&format, "format", "f", string(dot.FormatSVG), "output format: svg, png")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input, output string, format dot.Format) error {
	runner, err := c.newRunner(true)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}

	spinner := newSpinner(ctx, fmt.Sprintf("Rendering %s...", format))
	spinner.Start()
	if err := runner.RenderImage(ctx, input, output, format); err != nil {
		spinner.StopWithError("Render failed")
		return fmt.Errorf("render %s: %w", input, err)
	}
	spinner.StopWithSuccess(fmt.Sprintf("Rendered %s", format))
	printFile(output)
	return nil
}
