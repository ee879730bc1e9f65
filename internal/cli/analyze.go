package cli

import (
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"

	sgio "github.com/matzehuels/sociogram/pkg/io"
	"github.com/matzehuels/sociogram/pkg/pipeline"
)

// analyzeOpts holds the command-line flags for the analyze command.
type analyzeOpts struct {
	inputFormat string
	format      string
	output      string
	top         int
	table       bool
	noCache     bool
}

// analyzeCommand creates the analyze command.
func (c *CLI) analyzeCommand() *cobra.Command {
	var opts analyzeOpts

	cmd := &cobra.Command{
		Use:   "analyze [file]",
		Short: "Report popularity, isolation and clusters",
		Long: `Analyze a preference file and print the sociogram report.

The file is JSON, YAML or CSV (detected from the extension, or set with
--input-format). Use "-" to read from stdin.

  {"Ann": ["Bob", "Cy"], "Bob": "Cy", "Dee": []}

The report lists the most chosen people, the people nobody chose and who chose
nobody, and the clusters the class splits into. --format json prints the same
analysis as JSON; --table shows the full ranking as a table instead.`,
		Example: `  sociogram analyze class.json
  sociogram analyze class.csv --top 3 -o report.txt
  cat class.yaml | sociogram analyze - --input-format yaml --table`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("top") {
				opts.top = c.Config.Report.Top
			}
			return c.runAnalyze(cmd.Context(), args[0], opts, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&opts.inputFormat, "input-format", "i", "", "input format: json, yaml, csv (default: from extension)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", pipeline.FormatTXT, "output format: txt, json")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().IntVar(&opts.top, "top", pipeline.DefaultTopN, "number of most chosen people to list")
	cmd.Flags().BoolVar(&opts.table, "table", false, "show the ranking as a table (txt only)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	_ = cmd.RegisterFlagCompletionFunc("input-format", cobra.FixedCompletions(sgio.InputFormats, cobra.ShellCompDirectiveNoFileComp))
	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions([]string{pipeline.FormatTXT, pipeline.FormatJSON}, cobra.ShellCompDirectiveNoFileComp))

	return cmd
}

// runAnalyze loads the preferences, runs the pipeline and writes the report.
func (c *CLI) runAnalyze(ctx context.Context, input string, opts analyzeOpts, stdin io.Reader, stdout io.Writer) error {
	if !slices.Contains([]string{pipeline.FormatTXT, pipeline.FormatJSON}, opts.format) {
		return fmt.Errorf("invalid format: %s (must be 'txt' or 'json')", opts.format)
	}
	if opts.table && opts.format != pipeline.FormatTXT {
		return fmt.Errorf("--table only applies to txt output")
	}

	set, err := loadSet(ctx, input, opts.inputFormat, stdin)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	res, err := runner.Execute(ctx, set, pipeline.Options{
		TopN:    opts.top,
		Formats: []string{opts.format},
		Logger:  c.Logger,
	})
	if err != nil {
		return err
	}

	w, err := openOutput(opts.output, stdout)
	if err != nil {
		return err
	}
	defer w.Close()

	toFile := opts.output != "" && opts.output != stdinPath
	switch {
	case opts.table:
		err = writeRanking(w, res.Analysis, opts.top)
	case toFile:
		_, err = w.Write(res.Artifacts[opts.format])
	default:
		_, err = fmt.Fprintln(w, string(res.Artifacts[opts.format]))
	}
	if err != nil {
		return err
	}

	if toFile {
		printSuccess("Analyzed sociogram")
		printStats(res.Stats.Participants, res.Stats.NodeCount, res.Stats.EdgeCount, res.CacheInfo.AnalysisHit)
		printFile(opts.output)
	}
	return nil
}
