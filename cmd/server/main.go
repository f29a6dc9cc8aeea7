// Package main implements the enlearn HTTP server, which serves the
// vocabulary JSON API and runs the optional due-count reminder.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/phrazzld/enlearn/internal/config"
	"github.com/phrazzld/enlearn/internal/platform/logger"
	"github.com/spf13/pflag"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		slog.Error("server exited with error", slog.String("error", err.Error()))
		stop()
		os.Exit(1)
	}
}

// newFlagSet returns the server command-line flags.
func newFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("enlearn-server", pflag.ContinueOnError)
	fs.String("config", "", "config file")
	fs.Int("port", config.DefaultPort, "port to listen on")
	fs.String("storage", "", "path to the vocabulary file")
	fs.String("backend", "", "storage backend: json or sqlite")
	fs.String("log-level", config.DefaultLogLevel, "log level: debug, info, warn or error")
	fs.String("provider", "", "translation provider: mymemory, gemini or none")
	return fs
}

// run loads configuration, builds the application and serves until ctx is done.
func run(ctx context.Context, args []string) error {
	fs := newFlagSet()
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(fs)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(logger.LoggerConfig{
		Level:  cfg.Server.LogLevel,
		Format: cfg.Server.LogFormat,
		Output: os.Stdout,
	})
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	log.Info("server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.String("backend", cfg.Storage.Backend),
		slog.String("provider", cfg.Translate.Provider),
		slog.Bool("reminder_enabled", cfg.Reminder.Enabled),
		slog.Bool("gemini_key_present", cfg.Translate.GeminiAPIKey != ""))

	application, err := newApplication(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	return application.Run(ctx)
}
