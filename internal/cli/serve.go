package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sociogram/pkg/observability"
	"github.com/matzehuels/sociogram/pkg/preferences"
	"github.com/matzehuels/sociogram/pkg/server"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr        string
	load        string
	inputFormat string
	noCache     bool
	noMetrics   bool
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Collect preferences and serve reports over HTTP",
		Long: `Start the HTTP server.

Participants POST their preferences to /api/submissions. The mentor reads the
submissions, report and plots from the other /api routes, presenting the token
configured as server.mentor_token (or SOCIOGRAM_MENTOR_TOKEN):

  curl -H "Authorization: Bearer $TOKEN" localhost:8080/api/report

Submissions live in memory for the lifetime of the process. Use --load to
start from an existing preference file.`,
		Example: `  SOCIOGRAM_MENTOR_TOKEN=secret sociogram serve
  sociogram serve --addr 127.0.0.1:9000 --load class.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts, cmd.InOrStdin())
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().StringVar(&opts.load, "load", "", "preference file to preload")
	cmd.Flags().StringVarP(&opts.inputFormat, "input-format", "i", "", "format of --load: json, yaml, csv (default: from extension)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.noMetrics, "no-metrics", false, "do not expose /metrics")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts, stdin io.Reader) error {
	cfg := c.Config
	addr := cfg.Server.Addr
	if opts.addr != "" {
		addr = opts.addr
	}

	store := preferences.NewStore()
	if opts.load != "" {
		if err := preload(ctx, store, opts.load, opts.inputFormat, stdin); err != nil {
			return err
		}
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	srv := server.New(store, runner, server.TokenAuthenticator{Token: cfg.Server.MentorToken}, c.Logger)
	srv.TopN = cfg.Report.Top

	if !opts.noMetrics {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		hooks := observability.NewPrometheusHooks(reg)
		observability.SetPipelineHooks(hooks)
		observability.SetCacheHooks(hooks)
		observability.SetHTTPHooks(hooks)
		defer observability.Reset()
		srv.Metrics = promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
	}

	printSuccess("Serving sociogram on %s", StyleHighlight.Render(addr))
	printKeyValue("cache", cfg.Cache.Backend)
	printKeyValue("metrics", strconv.FormatBool(!opts.noMetrics))
	printKeyValue("submissions", strconv.Itoa(store.Len()))
	if cfg.Server.MentorToken == "" {
		printWarning("No mentor token configured: report and plot routes will refuse every request")
		printDetail("Set server.mentor_token or SOCIOGRAM_MENTOR_TOKEN")
	}

	return srv.ListenAndServe(ctx, addr, cfg.Server.ReadTimeout)
}

// preload submits every entry of a preference file through the store, so
// the same validation applies as for HTTP submissions.
func preload(ctx context.Context, store *preferences.Store, path, format string, stdin io.Reader) error {
	set, err := loadSet(ctx, path, format, stdin)
	if err != nil {
		return err
	}
	for _, e := range set.Entries() {
		if _, err := store.Submit(ctx, e.Participant, e.Peers); err != nil {
			return fmt.Errorf("preload %s: %w", e.Participant, err)
		}
	}
	return nil
}
