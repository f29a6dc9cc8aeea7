// Package app wires configuration into the storage backend, services and
// translator shared by the enlearn CLI and HTTP server.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/enlearn/internal/config"
	"github.com/phrazzld/enlearn/internal/domain/srs"
	"github.com/phrazzld/enlearn/internal/importer"
	"github.com/phrazzld/enlearn/internal/platform/gemini"
	"github.com/phrazzld/enlearn/internal/platform/jsonfile"
	"github.com/phrazzld/enlearn/internal/platform/mymemory"
	"github.com/phrazzld/enlearn/internal/platform/sqlite"
	"github.com/phrazzld/enlearn/internal/service/review"
	"github.com/phrazzld/enlearn/internal/service/vocabulary"
	"github.com/phrazzld/enlearn/internal/store"
	"github.com/phrazzld/enlearn/internal/translate"
)

// ErrUnknownBackend is returned for a storage backend New cannot build.
var ErrUnknownBackend = errors.New("unknown storage backend")

// ErrUnknownProvider is returned for a translation provider New cannot build.
var ErrUnknownProvider = errors.New("unknown translation provider")

// App holds the dependencies of a running enlearn process.
type App struct {
	Config     *config.Config
	Logger     *slog.Logger
	Collection *store.Collection
	Scheduler  srs.Service
	Vocabulary vocabulary.Service
	Review     review.Service
	Translator translate.Translator
	Importer   *importer.Importer

	closers []func() error
}

// Option configures New.
type Option func(*options)

type options struct {
	now        func() time.Time
	translator translate.Translator
}

// WithClock overrides the clock of every service.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithTranslator replaces the configured provider. The translator is still
// wrapped in the lookup cache.
func WithTranslator(t translate.Translator) Option {
	return func(o *options) {
		o.translator = t
	}
}

// New builds an App from cfg. The returned App must be closed.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts ...Option) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	o := &options{now: time.Now}
	for _, opt := range opts {
		opt(o)
	}

	app := &App{
		Config:    cfg,
		Logger:    logger,
		Scheduler: srs.NewDefaultService(),
	}

	entryStore, closer, err := openStore(ctx, cfg.Storage, o.now)
	if err != nil {
		return nil, err
	}
	if closer != nil {
		app.closers = append(app.closers, closer)
	}
	app.Collection = store.NewCollection(entryStore)

	tr := o.translator
	if tr == nil {
		tr, err = newTranslator(ctx, cfg.Translate, logger)
		if err != nil {
			_ = app.Close()
			return nil, err
		}
	}
	app.Translator = translate.NewCachingTranslator(tr, cfg.Translate.CacheSize)

	app.Vocabulary = vocabulary.NewService(app.Collection, app.Scheduler, logger, vocabulary.WithClock(o.now))
	app.Review = review.NewService(app.Collection, app.Scheduler, logger, review.WithClock(o.now))
	app.Importer = importer.New(importer.WithTranslator(app.Translator), importer.WithClock(o.now))

	logger.Debug("application initialized",
		slog.String("backend", cfg.Storage.Backend),
		slog.String("location", app.Collection.Location()),
		slog.String("provider", cfg.Translate.Provider))

	return app, nil
}

func openStore(ctx context.Context, cfg config.StorageConfig, now func() time.Time) (store.EntryStore, func() error, error) {
	switch cfg.Backend {
	case config.BackendJSON, "":
		return jsonfile.NewOSStore(cfg.Path, jsonfile.WithClock(now)), nil, nil
	case config.BackendSQLite:
		s, err := sqlite.Open(ctx, cfg.Path, sqlite.WithClock(now))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		return s, s.Close, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}

func newTranslator(ctx context.Context, cfg config.TranslateConfig, logger *slog.Logger) (translate.Translator, error) {
	switch cfg.Provider {
	case config.ProviderMyMemory, "":
		return mymemory.NewClient(mymemory.Config{
			Endpoint:          cfg.Endpoint,
			LangPair:          cfg.LangPair,
			Timeout:           time.Duration(cfg.TimeoutSeconds) * time.Second,
			RequestsPerSecond: cfg.RequestsPerSecond,
			Retries:           cfg.Retries,
		}), nil
	case config.ProviderGemini:
		t, err := gemini.NewTranslator(ctx, logger, gemini.Config{
			APIKey:    cfg.GeminiAPIKey,
			ModelName: cfg.ModelName,
			LangPair:  cfg.LangPair,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create gemini translator: %w", err)
		}
		return t, nil
	case config.ProviderNone:
		return translate.Noop{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}
}

// Close releases the storage backend.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
