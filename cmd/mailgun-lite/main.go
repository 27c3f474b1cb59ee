// Package main is the entry point for the mailgun-lite command-line tool.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/shineum/mailgun-lite/internal/config"
	"github.com/shineum/mailgun-lite/internal/provider"
	mailgunprovider "github.com/shineum/mailgun-lite/internal/provider/mailgun"
	"github.com/shineum/mailgun-lite/internal/provider/ses"
	"github.com/shineum/mailgun-lite/internal/provider/stdout"
	"github.com/shineum/mailgun-lite/pkg/mailgun"
)

func main() {
	// Cancel in-flight API calls on interrupt
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// loadConfig loads configuration from the specified path (YAML + env override)
// or from environment variables only if no path is given.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}

// setupLogger installs a global slog logger writing to w at the given level.
// Format "json" selects the JSON handler; anything else uses text.
func setupLogger(w io.Writer, level, format string) *slog.Logger {
	var logLevel slog.Level

	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// selectProvider chooses the delivery backend and its configured sender.
// An explicit provider in the configuration takes precedence. Otherwise
// Mailgun is used when configured, then SES, then stdout. The stdout
// provider prints to out.
func selectProvider(ctx context.Context, cfg *config.Config, out io.Writer, newClient func() (*mailgun.Client, error)) (provider.Provider, string, error) {
	name := cfg.Provider
	if name == "" {
		switch {
		case cfg.MailgunConfigured():
			name = "mailgun"
		case cfg.SESConfigured():
			name = "ses"
		default:
			name = "stdout"
		}
		slog.Debug("auto-detected provider", "provider", name)
	}

	switch name {
	case "mailgun":
		client, err := newClient()
		if err != nil {
			return nil, "", err
		}
		slog.Debug("using Mailgun provider",
			"domain", cfg.Mailgun.Domain,
			"sender", cfg.Mailgun.Sender,
		)
		return mailgunprovider.New(client), cfg.Mailgun.Sender, nil

	case "ses":
		if !cfg.SESConfigured() {
			return nil, "", fmt.Errorf("SES provider selected but SES_REGION and SES_SENDER are required")
		}
		slog.Debug("using AWS SES provider",
			"region", cfg.SES.Region,
			"sender", cfg.SES.Sender,
		)
		p, err := ses.New(ctx, ses.SESProviderConfig{
			Region:          cfg.SES.Region,
			AccessKeyID:     cfg.SES.AccessKeyID,
			SecretAccessKey: cfg.SES.SecretAccessKey,
		})
		if err != nil {
			return nil, "", fmt.Errorf("failed to create SES provider: %w", err)
		}
		return p, cfg.SES.Sender, nil

	case "stdout":
		slog.Debug("using stdout provider")
		return stdout.NewWithWriter(out), cfg.Mailgun.Sender, nil

	default:
		return nil, "", fmt.Errorf("unknown provider %q", name)
	}
}
