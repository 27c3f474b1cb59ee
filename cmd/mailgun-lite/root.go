package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/shineum/mailgun-lite/internal/config"
	mgtls "github.com/shineum/mailgun-lite/internal/tls"
	"github.com/shineum/mailgun-lite/pkg/mailgun"
	"github.com/shineum/mailgun-lite/pkg/metrics"
)

// app carries the state shared by all subcommands of one invocation.
type app struct {
	configPath  string
	metricsFile string

	cfg      *config.Config
	logger   *slog.Logger
	registry *prometheus.Registry
	recorder *metrics.Recorder
}

// newRootCmd builds a fresh command tree. Tests call it once per case.
func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "mailgun-lite",
		Short: "Send email, validate addresses and manage templates with Mailgun",
		Long: `mailgun-lite is a small client for the Mailgun HTTP API.

Configuration is read from environment variables (MAILGUN_API_KEY,
MAILGUN_DOMAIN, ...) layered over an optional YAML file given with --config.
Results are printed to stdout as JSON; logs go to stderr.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "path to YAML configuration file (optional)")
	cmd.PersistentFlags().StringVar(&a.metricsFile, "metrics-file", "", "write Prometheus metrics in text format to this file on exit")

	cmd.AddCommand(newSendCmd(a))
	cmd.AddCommand(newValidateCmd(a))
	cmd.AddCommand(newTemplatesCmd(a))

	return cmd
}

// setup loads configuration and installs logging and metrics before any
// subcommand runs.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(a.configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	a.cfg = cfg
	a.logger = setupLogger(cmd.ErrOrStderr(), cfg.Logging.Level, cfg.Logging.Format)
	a.registry = prometheus.NewRegistry()
	a.recorder = metrics.NewRecorder(a.registry)
	return nil
}

// client builds a Mailgun API client from the loaded configuration.
func (a *app) client() (*mailgun.Client, error) {
	creds, err := a.cfg.Credentials()
	if err != nil {
		return nil, err
	}
	transport, err := mgtls.Transport(a.cfg.Mailgun.CAFile)
	if err != nil {
		return nil, err
	}
	return mailgun.New(creds,
		mailgun.WithHTTPClient(&http.Client{Timeout: a.cfg.Timeout(), Transport: transport}),
		mailgun.WithLogger(a.logger),
		mailgun.WithMetrics(a.recorder),
	), nil
}

// run wraps a command body so metrics are written whether or not it fails.
func (a *app) run(fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := fn(cmd, args)
		if a.metricsFile != "" {
			if werr := prometheus.WriteToTextfile(a.metricsFile, a.registry); werr != nil {
				a.logger.Warn("failed to write metrics file", "path", a.metricsFile, "error", werr)
			}
		}
		return err
	}
}

// printJSON writes v to w as indented JSON.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
