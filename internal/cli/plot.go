package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sociogram/pkg/pipeline"
	"github.com/matzehuels/sociogram/pkg/render/nodelink"
)

// plotCommand creates the plot command.
func (c *CLI) plotCommand() *cobra.Command {
	var (
		inputFormat string
		formatsStr  string
		output      string
		noCache     bool
	)
	flags := renderFlags{
		title:     pipeline.DefaultTitle,
		engine:    nodelink.EngineDot,
		highlight: pipeline.DefaultHighlight,
	}

	cmd := &cobra.Command{
		Use:   "plot [file]",
		Short: "Draw the sociogram as SVG or Graphviz DOT",
		Long: `Plot the sociogram of a preference file.

Each person is a node and each choice an arrow. The most chosen people are
highlighted, isolated people are greyed out and mutual choices are drawn as a
single double-headed arrow. Layout is delegated to Graphviz; pick a different
engine with --engine when the default hierarchy gets crowded.

Files are written next to the input (or to --output) with one extension per
format.`,
		Example: `  sociogram plot class.json
  sociogram plot class.csv -f svg,dot --engine neato --counts --clusters
  sociogram plot class.yaml -o out/7b.svg --title "Class 7b"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formats := pipeline.ParseFormats(formatsStr)
			if len(formats) == 0 {
				formats = []string{pipeline.FormatSVG}
			}
			if err := pipeline.ValidateFormats(formats); err != nil {
				return err
			}
			if err := pipeline.ValidateEngine(flags.engine); err != nil {
				return err
			}
			return c.runPlot(cmd.Context(), args[0], inputFormat, formats, output, flags, noCache, cmd.InOrStdin())
		},
	}

	cmd.Flags().StringVarP(&inputFormat, "input-format", "i", "", "input format: json, yaml, csv (default: from extension)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), dot, json, txt (comma-separated)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output base path (default: input name)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	cmd.Flags().StringVar(&flags.title, "title", flags.title, "plot title")
	cmd.Flags().StringVar(&flags.engine, "engine", flags.engine, "Graphviz layout engine: "+strings.Join(nodelink.Engines, ", "))
	cmd.Flags().IntVar(&flags.highlight, "highlight", flags.highlight, "number of most chosen people to highlight")
	cmd.Flags().BoolVar(&flags.counts, "counts", false, "show how often each person was chosen")
	cmd.Flags().BoolVar(&flags.clusters, "clusters", false, "box each cluster")

	_ = cmd.RegisterFlagCompletionFunc("engine", cobra.FixedCompletions(nodelink.Engines, cobra.ShellCompDirectiveNoFileComp))

	return cmd
}

// runPlot loads the preferences and renders the requested formats.
func (c *CLI) runPlot(ctx context.Context, input, inputFormat string, formats []string, output string, flags renderFlags, noCache bool, stdin io.Reader) error {
	set, err := loadSet(ctx, input, inputFormat, stdin)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts := pipeline.Options{
		TopN:    c.Config.Report.Top,
		Formats: formats,
		Logger:  c.Logger,
	}
	flags.apply(&opts)

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Plotting %s...", strings.Join(formats, ", ")))
	spinner.Start()

	res, err := runner.Execute(ctx, set, opts)
	if err != nil {
		spinner.StopWithError("Plot failed")
		return fmt.Errorf("plot: %w", err)
	}
	spinner.Stop()

	paths, err := writeArtifacts(res.Artifacts, formats, basePath(output, input))
	if err != nil {
		return err
	}

	printSuccess("Plotted sociogram")
	printStats(res.Stats.Participants, res.Stats.NodeCount, res.Stats.EdgeCount, res.CacheInfo.RenderHit)
	for _, p := range paths {
		printFile(p)
	}
	return nil
}
