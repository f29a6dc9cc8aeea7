package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/enlearn/internal/app"
	"github.com/phrazzld/enlearn/internal/config"
	"github.com/phrazzld/enlearn/internal/reminder"
)

// application holds the server's dependencies.
type application struct {
	config   *config.Config
	logger   *slog.Logger
	deps     *app.App
	reminder *reminder.Scheduler
}

// newApplication wires the shared dependencies and the reminder.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts ...app.Option) (*application, error) {
	deps, err := app.New(ctx, cfg, logger, opts...)
	if err != nil {
		return nil, err
	}

	a := &application{
		config: cfg,
		logger: logger,
		deps:   deps,
	}

	if cfg.Reminder.Enabled {
		a.reminder = reminder.New(deps.Vocabulary, reminder.LogNotifier{Logger: logger}, logger)
	}

	logger.Info("application initialized successfully",
		slog.String("storage", deps.Collection.Location()))
	return a, nil
}

// Run serves HTTP until ctx is done, then shuts down and releases resources.
func (a *application) Run(ctx context.Context) error {
	defer a.cleanup()

	if a.reminder != nil {
		if err := a.reminder.Start(a.config.Reminder.Schedule); err != nil {
			return fmt.Errorf("failed to start reminder: %w", err)
		}
	}

	if err := a.startHTTPServer(ctx, a.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (a *application) cleanup() {
	if a.reminder != nil {
		a.reminder.Stop()
	}
	if err := a.deps.Close(); err != nil {
		a.logger.Error("error closing storage", slog.String("error", err.Error()))
	}
	a.logger.Info("application shutdown completed")
}
