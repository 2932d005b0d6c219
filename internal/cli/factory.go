package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aretw0/walkthrough"
	"github.com/aretw0/walkthrough/internal/config"
	"github.com/aretw0/walkthrough/pkg/adapters/file"
	"github.com/aretw0/walkthrough/pkg/adapters/memory"
	"github.com/aretw0/walkthrough/pkg/adapters/process"
	"github.com/aretw0/walkthrough/pkg/adapters/redis"
	"github.com/aretw0/walkthrough/pkg/analysis"
	"github.com/aretw0/walkthrough/pkg/capture"
	"github.com/aretw0/walkthrough/pkg/catalog"
	"github.com/aretw0/walkthrough/pkg/observability"
	"github.com/aretw0/walkthrough/pkg/persistence/middleware"
	"github.com/aretw0/walkthrough/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// App is a fully wired guide plus the resources it owns.
type App struct {
	Config   config.Config
	Guide    *walkthrough.Guide
	Catalog  *catalog.Catalog
	Store    ports.SessionStore
	Logger   *slog.Logger
	Registry *prometheus.Registry

	// Inbox is set when frames arrive from remote clients.
	Inbox *capture.Inbox

	closers []func() error
}

// Build assembles the guide described by cfg.
func Build(cfg config.Config, logger *slog.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	app := &App{
		Config:   cfg,
		Logger:   logger,
		Registry: prometheus.NewRegistry(),
	}

	cat, err := loadCatalog(cfg)
	if err != nil {
		return nil, err
	}
	app.Catalog = cat

	opts := []walkthrough.Option{
		walkthrough.WithCatalog(cat),
		walkthrough.WithLogger(logger),
		walkthrough.WithAnalyzer(newAnalyzer(cfg)),
	}

	capturer, inbox := newCapturer(cfg)
	app.Inbox = inbox
	opts = append(opts, walkthrough.WithCapturer(capturer))

	storeOpts, err := app.openStores(cfg)
	if err != nil {
		return nil, err
	}
	opts = append(opts, storeOpts...)

	metrics := observability.NewMetrics(app.Registry)
	opts = append(opts, walkthrough.WithLifecycleHooks(
		observability.Chain(observability.Logging(logger), metrics.Hooks()),
	))

	guide, err := walkthrough.New(opts...)
	if err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("error initializing walkthrough: %w", err)
	}
	app.Guide = guide
	return app, nil
}

// MetricsHandler exposes the app registry in the Prometheus text format.
func (a *App) MetricsHandler() http.Handler {
	return promhttp.HandlerFor(a.Registry, promhttp.HandlerOpts{})
}

// Close stops the guide and releases store connections.
func (a *App) Close() error {
	if a.Guide != nil {
		a.Guide.Shutdown()
	}
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func loadCatalog(cfg config.Config) (*catalog.Catalog, error) {
	if cfg.CatalogPath == "" {
		return catalog.Default(), nil
	}
	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("error loading catalog: %w", err)
	}
	return cat, nil
}

func newAnalyzer(cfg config.Config) ports.Analyzer {
	if cfg.Analysis.Mode != config.AnalysisRemote {
		return analysis.NewStub()
	}
	var opts []analysis.RemoteOption
	if cfg.Analysis.Endpoint != "" {
		opts = append(opts, analysis.WithEndpoint(cfg.Analysis.Endpoint))
	}
	if cfg.Analysis.Model != "" {
		opts = append(opts, analysis.WithModel(cfg.Analysis.Model))
	}
	return analysis.NewRemote(cfg.Analysis.APIKey, opts...)
}

func newCapturer(cfg config.Config) (ports.Capturer, *capture.Inbox) {
	switch cfg.Capture.Mode {
	case config.CaptureCommand:
		return process.NewCapturer(cfg.Capture.Command, process.WithArgs(cfg.Capture.Args...)), nil
	case config.CaptureInbox:
		inbox := capture.NewInbox()
		return inbox, inbox
	default:
		return capture.NewStatic(), nil
	}
}

func (a *App) openStores(cfg config.Config) ([]walkthrough.Option, error) {
	var (
		base ports.SessionStore
		opts []walkthrough.Option
	)

	switch cfg.Store {
	case config.StoreFile:
		base = file.New(cfg.SessionsDir())
		opts = append(opts, walkthrough.WithArtifactStore(file.NewArtifactStore(cfg.ArtifactsDir())))

	case config.StoreRedis:
		store, err := redis.NewFromURL(cfg.RedisURL, redis.WithTTL(cfg.SessionTTL))
		if err != nil {
			return nil, fmt.Errorf("error connecting to redis: %w", err)
		}
		a.closers = append(a.closers, store.Close)
		base = store
		opts = append(opts,
			walkthrough.WithArtifactStore(redis.NewArtifactStore(store.Client(), store.Prefix(), cfg.SessionTTL)),
			walkthrough.WithLocker(redis.NewLocker(store.Client(), store.Prefix())),
		)

	default:
		base = memory.NewStore()
		opts = append(opts, walkthrough.WithArtifactStore(memory.NewArtifactStore()))
	}

	store, err := wrapStore(cfg, base)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	a.Store = store
	return append(opts, walkthrough.WithStore(store)), nil
}

// wrapStore applies secret redaction and at-rest encryption. Redaction runs
// first so sealed sessions never hold a plain key.
func wrapStore(cfg config.Config, base ports.SessionStore) (ports.SessionStore, error) {
	var mws []middleware.Middleware

	if cfg.RedactSecrets {
		redact, err := middleware.NewRedactMiddleware(middleware.DefaultSecretPatterns)
		if err != nil {
			return nil, err
		}
		mws = append(mws, redact)
	}

	active, fallback, err := cfg.Keys()
	if err != nil {
		return nil, err
	}
	if active != nil {
		seal, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
			ActiveKey:    active,
			FallbackKeys: fallback,
		})
		if err != nil {
			return nil, err
		}
		mws = append(mws, seal)
	}

	return middleware.Chain(base, mws...), nil
}

// OpenStore opens only the session store, for commands that inspect sessions
// without running the guide.
func OpenStore(cfg config.Config) (ports.SessionStore, func() error, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	app := &App{}
	if _, err := app.openStores(cfg); err != nil {
		return nil, nil, err
	}
	return app.Store, app.Close, nil
}
