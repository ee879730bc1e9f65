package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	sgio "github.com/matzehuels/sociogram/pkg/io"
	"github.com/matzehuels/sociogram/pkg/pipeline"
)

// exportCommand creates the export command, which writes the preference
// graph itself rather than its analysis.
func (c *CLI) exportCommand() *cobra.Command {
	var inputFormat, output string

	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Write the preference graph as JSON",
		Long: `Export the directed preference graph as JSON.

Every person becomes a node with their in- and out-degree; every choice becomes
an edge from the chooser to the chosen. Repeated choices collapse into one edge.`,
		Example: `  sociogram export class.json -o graph.json`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExport(cmd.Context(), args[0], inputFormat, output, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&inputFormat, "input-format", "i", "", "input format: json, yaml, csv (default: from extension)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")

	return cmd
}

func (c *CLI) runExport(ctx context.Context, input, inputFormat, output string, stdin io.Reader, stdout io.Writer) error {
	set, err := loadSet(ctx, input, inputFormat, stdin)
	if err != nil {
		return err
	}
	g, _ := pipeline.Analyze(set)

	w, err := openOutput(output, stdout)
	if err != nil {
		return err
	}
	defer w.Close()

	if err := sgio.WriteGraphJSON(g, w); err != nil {
		return fmt.Errorf("write graph: %w", err)
	}
	if output != "" && output != stdinPath {
		printSuccess("Exported graph")
		printDetail("%s · %s", plural(g.NodeCount(), "node"), plural(g.EdgeCount(), "edge"))
		printFile(output)
		printNextStep("Plot it", "sociogram plot "+displayPath(input))
	}
	return nil
}
