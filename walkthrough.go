package walkthrough

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/walkthrough/internal/logging"
	"github.com/aretw0/walkthrough/internal/runtime"
	"github.com/aretw0/walkthrough/pkg/adapters/memory"
	"github.com/aretw0/walkthrough/pkg/analysis"
	"github.com/aretw0/walkthrough/pkg/capture"
	"github.com/aretw0/walkthrough/pkg/catalog"
	"github.com/aretw0/walkthrough/pkg/domain"
	"github.com/aretw0/walkthrough/pkg/ports"
	"github.com/aretw0/walkthrough/pkg/session"
	"github.com/google/uuid"
)

// Catalog is the step catalog plus the texts framing it.
type Catalog = runtime.Catalog

// Guide is the high-level entry point. It wraps the sequencer with session
// persistence and locking, and implements ports.Guide.
type Guide struct {
	runtime   *runtime.Engine
	sessions  *session.Manager
	artifacts ports.ArtifactStore

	catalog  Catalog
	analyzer ports.Analyzer
	capturer ports.Capturer
	store    ports.SessionStore
	locker   ports.DistributedLocker
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
	newID    func() string
}

var _ ports.Guide = (*Guide)(nil)

// Option defines a functional option for configuring the Guide.
type Option func(*Guide)

// WithCatalog replaces the compiled-in LangGraph Studio catalog.
func WithCatalog(c Catalog) Option {
	return func(g *Guide) {
		g.catalog = c
	}
}

// WithAnalyzer sets the screenshot analyzer.
func WithAnalyzer(a ports.Analyzer) Option {
	return func(g *Guide) {
		g.analyzer = a
	}
}

// WithCapturer sets the screen capture backend.
func WithCapturer(c ports.Capturer) Option {
	return func(g *Guide) {
		g.capturer = c
	}
}

// WithStore sets the session store.
func WithStore(s ports.SessionStore) Option {
	return func(g *Guide) {
		g.store = s
	}
}

// WithArtifactStore sets where captured frames are kept.
func WithArtifactStore(s ports.ArtifactStore) Option {
	return func(g *Guide) {
		g.artifacts = s
	}
}

// WithLocker enables distributed locking of sessions.
func WithLocker(l ports.DistributedLocker) Option {
	return func(g *Guide) {
		g.locker = l
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(g *Guide) {
		g.hooks = hooks
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Guide) {
		g.logger = logger
	}
}

// WithIDGenerator overrides session id generation.
func WithIDGenerator(newID func() string) Option {
	return func(g *Guide) {
		g.newID = newID
	}
}

// New assembles a Guide. Unset collaborators fall back to in-process defaults.
func New(opts ...Option) (*Guide, error) {
	g := &Guide{}
	for _, opt := range opts {
		opt(g)
	}

	if g.catalog == nil {
		g.catalog = catalog.Default()
	}
	if g.analyzer == nil {
		g.analyzer = analysis.NewStub()
	}
	if g.capturer == nil {
		g.capturer = capture.NewStatic()
	}
	if g.store == nil {
		g.store = memory.NewStore()
	}
	if g.artifacts == nil {
		g.artifacts = memory.NewArtifactStore()
	}
	if g.logger == nil {
		g.logger = logging.NewNop()
	}
	if g.newID == nil {
		g.newID = uuid.NewString
	}

	sessionOpts := []session.Option{session.WithLogger(g.logger)}
	if g.locker != nil {
		sessionOpts = append(sessionOpts, session.WithLocker(g.locker))
	}
	g.sessions = session.NewManager(g.store, sessionOpts...)

	g.runtime = runtime.NewEngine(g.catalog, g.analyzer, g.capturer, g.artifacts,
		runtime.WithLifecycleHooks(g.hooks),
		runtime.WithLogger(g.logger),
	)
	return g, nil
}

// Start creates and persists a new session with its greeting.
func (g *Guide) Start(ctx context.Context) (*domain.Session, error) {
	sess := g.runtime.Start(ctx, g.newID())
	if err := g.sessions.Create(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Session loads a session.
func (g *Guide) Session(ctx context.Context, sessionID string) (*domain.Session, error) {
	return g.sessions.Load(ctx, sessionID)
}

// List returns the ids of stored sessions.
func (g *Guide) List(ctx context.Context) ([]string, error) {
	return g.sessions.List(ctx)
}

// RespondPermission answers the screen sharing request.
func (g *Guide) RespondPermission(ctx context.Context, sessionID string, resp domain.PermissionResponse) (*domain.Session, error) {
	return g.update(ctx, sessionID, func(ctx context.Context, s *domain.Session) (*domain.Session, error) {
		return g.runtime.RespondPermission(ctx, s, resp)
	})
}

// RespondStep answers the current step.
func (g *Guide) RespondStep(ctx context.Context, sessionID string, resp domain.StepResponse) (*domain.Session, error) {
	return g.update(ctx, sessionID, func(ctx context.Context, s *domain.Session) (*domain.Session, error) {
		return g.runtime.RespondStep(ctx, s, resp)
	})
}

// SendText appends a free-text user message.
func (g *Guide) SendText(ctx context.Context, sessionID string, text string) (*domain.Session, error) {
	return g.update(ctx, sessionID, func(ctx context.Context, s *domain.Session) (*domain.Session, error) {
		return g.runtime.SendText(ctx, s, text)
	})
}

// update runs a transition with the busy guard held, then under the session lock.
func (g *Guide) update(ctx context.Context, sessionID string, fn func(context.Context, *domain.Session) (*domain.Session, error)) (*domain.Session, error) {
	if err := g.runtime.Begin(sessionID); err != nil {
		return nil, err
	}
	defer g.runtime.End(sessionID)

	return g.sessions.Update(ctx, sessionID, fn)
}

// Close deletes the session and releases its capture stream.
// The delete happens under the session lock, so a transition queued behind
// it finds no session and never acquires a stream that would outlive Close.
func (g *Guide) Close(ctx context.Context, sessionID string) error {
	store := g.sessions.Store()
	err := g.sessions.WithLock(ctx, sessionID, func(ctx context.Context) error {
		if _, err := store.Load(ctx, sessionID); err != nil {
			return err
		}
		if err := store.Delete(ctx, sessionID); err != nil {
			return fmt.Errorf("failed to delete session %s: %w", sessionID, err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	g.runtime.Release(sessionID)
	g.logger.InfoContext(ctx, "session closed", "session_id", sessionID)
	return nil
}

// Processing reports whether an action is in flight for the session.
func (g *Guide) Processing(sessionID string) bool {
	return g.runtime.Processing(sessionID)
}

// Steps returns the catalog steps in order.
func (g *Guide) Steps() []domain.InstallationStep {
	return g.catalog.Steps()
}

// Catalog returns the catalog driving the guide.
func (g *Guide) Catalog() Catalog {
	return g.catalog
}

// Artifact returns a stored frame.
func (g *Guide) Artifact(ctx context.Context, id string) (domain.Artifact, error) {
	return g.artifacts.Get(ctx, id)
}

// Shutdown releases every capture stream held by the process.
func (g *Guide) Shutdown() {
	g.runtime.Close()
}

// IsProtocolError reports whether err is caller misuse rather than an
// infrastructure failure.
func IsProtocolError(err error) bool {
	return errors.Is(err, domain.ErrNoAffordance) ||
		errors.Is(err, domain.ErrBusy) ||
		errors.Is(err, domain.ErrInvalidResponse) ||
		errors.Is(err, domain.ErrSessionNotFound)
}
