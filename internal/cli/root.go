package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sociogram/pkg/buildinfo"
	"github.com/matzehuels/sociogram/pkg/config"
)

// RootCommand creates the root cobra command with all subcommands registered.
//
// Before any subcommand runs, the configuration is loaded from --config (or
// the default location) and the log level is set from --verbose or the
// configured level. The logger is attached to the command context and
// accessible via loggerFromContext.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Sociogram maps who wants to work with whom",
		Long: `Sociogram turns peer preferences ("who would you like to work with?") into a
directed graph and reports the most chosen people, the isolated ones and the
clusters they form.

Preferences can be analyzed from a JSON, YAML or CSV file, or collected live
from participants with 'sociogram serve'.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/sociogram/config.toml)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.analyzeCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.plotCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads configuration and configures logging for the invoked command.
func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg

	level := cfg.LogLevel()
	if c.verbose {
		level = LogDebug
	}
	c.SetLogLevel(level)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(withLogger(ctx, c.Logger))
	return nil
}

// Execute builds the command tree and runs it with ctx.
func (c *CLI) Execute(ctx context.Context) error {
	return c.RootCommand().ExecuteContext(ctx)
}
