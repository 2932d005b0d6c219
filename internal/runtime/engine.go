// Package runtime implements the walkthrough sequencer: the permission gate and
// the step-advancement state machine that drive a session's transcript.
package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/walkthrough/internal/logging"
	"github.com/aretw0/walkthrough/pkg/domain"
	"github.com/aretw0/walkthrough/pkg/ports"
	"github.com/google/uuid"
)

// Catalog is the ordered step list plus the fixed texts that frame it.
type Catalog interface {
	ports.StepCatalog
	Welcome() string
	PermissionPrompt() string
	Completion() string
}

// Engine is the sequencer. It is stateless with respect to sessions: every
// transition takes a session and returns the next one. The only per-session
// data it keeps in memory are live capture streams and busy flags, neither of
// which can be persisted.
type Engine struct {
	catalog   Catalog
	analyzer  ports.Analyzer
	capturer  ports.Capturer
	artifacts ports.ArtifactStore

	hooks       domain.LifecycleHooks
	logger      *slog.Logger
	now         func() time.Time
	newID       func() string
	errorMarker string

	mu      sync.Mutex
	streams map[string]ports.Stream
	busy    map[string]bool
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithClock overrides the message timestamp source.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		e.now = now
	}
}

// WithIDGenerator overrides the id source for messages and artifacts.
func WithIDGenerator(newID func() string) EngineOption {
	return func(e *Engine) {
		e.newID = newID
	}
}

// WithErrorMarker sets the substring that keeps the user on the current step.
func WithErrorMarker(marker string) EngineOption {
	return func(e *Engine) {
		e.errorMarker = marker
	}
}

// NewEngine creates a sequencer over the given collaborators.
func NewEngine(catalog Catalog, analyzer ports.Analyzer, capturer ports.Capturer, artifacts ports.ArtifactStore, opts ...EngineOption) *Engine {
	e := &Engine{
		catalog:     catalog,
		analyzer:    analyzer,
		capturer:    capturer,
		artifacts:   artifacts,
		logger:      logging.NewNop(),
		now:         time.Now,
		newID:       uuid.NewString,
		errorMarker: DefaultErrorMarker,
		streams:     make(map[string]ports.Stream),
		busy:        make(map[string]bool),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Catalog returns the step catalog driving the engine.
func (e *Engine) Catalog() Catalog {
	return e.catalog
}

// Start creates a session and appends the greeting: the welcome line followed
// by the screen sharing request.
func (e *Engine) Start(ctx context.Context, sessionID string) *domain.Session {
	sess := domain.NewSession(sessionID, e.catalog.Len(), e.now().UTC())
	e.say(sess, e.catalog.Welcome(), nil, nil)
	e.say(sess, e.catalog.PermissionPrompt(), nil, domain.NewAction(domain.ActionPermissionRequest))

	e.logger.InfoContext(ctx, "session started", "session_id", sessionID, "step_count", sess.State.StepCount)
	return sess
}

// RespondPermission applies the user's answer to the permission request.
func (e *Engine) RespondPermission(ctx context.Context, current *domain.Session, resp domain.PermissionResponse) (*domain.Session, error) {
	if current.State.Permission == domain.PermissionGranted {
		return nil, fmt.Errorf("%w: permission already granted", domain.ErrNoAffordance)
	}
	if !domain.ActionPermissionRequest.Accepts(string(resp)) {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidResponse, resp)
	}

	next := current.Snapshot()
	log := e.logger.With("session_id", next.ID)

	if resp == domain.PermissionNotOK {
		next.State.Permission = domain.PermissionDenied
		e.say(next, DeclinedText, nil, domain.NewAction(domain.ActionPermissionRequest))
		e.emitPermission(ctx, next, resp, false)
		log.InfoContext(ctx, "screen sharing declined")
		return next, nil
	}

	frame, err := e.acquireWithFrame(ctx, next.ID)
	if err != nil {
		next.State.Permission = domain.PermissionDenied
		e.say(next, PermissionFailedText, nil, domain.NewAction(domain.ActionPermissionRequest))
		e.emitCaptureError(ctx, next, err)
		e.emitPermission(ctx, next, resp, false)
		log.WarnContext(ctx, "screen capture acquisition failed", "err", err)
		return next, nil
	}

	next.State.Permission = domain.PermissionGranted
	e.emitPermission(ctx, next, resp, true)
	log.InfoContext(ctx, "screen sharing granted")

	e.present(ctx, next, frame)
	return next, nil
}

// RespondStep applies the user's answer to the current step.
func (e *Engine) RespondStep(ctx context.Context, current *domain.Session, resp domain.StepResponse) (*domain.Session, error) {
	switch {
	case current.State.Permission != domain.PermissionGranted:
		return nil, fmt.Errorf("%w: screen sharing not granted", domain.ErrNoAffordance)
	case current.State.Completed():
		return nil, fmt.Errorf("%w: walkthrough already completed", domain.ErrNoAffordance)
	case !domain.ActionStepResponse.Accepts(string(resp)):
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidResponse, resp)
	}

	step, ok := e.catalog.StepAt(current.State.StepIndex)
	if !ok {
		return nil, fmt.Errorf("step %d out of range (catalog has %d)", current.State.StepIndex, e.catalog.Len())
	}

	next := current.Snapshot()
	log := e.logger.With("session_id", next.ID, "step_id", step.ID, "step_index", next.State.StepIndex)

	if resp == domain.StepProblem {
		e.say(next, ProblemPrefix+step.Text, nil, domain.NewAction(domain.ActionStepResponse))
		log.InfoContext(ctx, "user reported a problem")
		return next, nil
	}

	frame, err := e.captureFrame(ctx, next.ID)
	if err != nil {
		e.say(next, CaptureFailedText, nil, nil)
		e.emitCaptureError(ctx, next, err)
		log.WarnContext(ctx, "frame capture failed", "err", err)
		return next, nil
	}

	reply, err := e.analyzer.Analyze(ctx, domain.AnalysisRequest{
		Step:          step,
		Frame:         frame,
		DetourPending: next.State.DetourPending,
	})
	if err != nil {
		if reply == "" {
			reply = AnalysisFailedText
		}
		e.say(next, reply, []string{frame.Ref()}, domain.NewAction(domain.ActionStepResponse))
		log.WarnContext(ctx, "analysis failed", "err", err)
		return next, nil
	}

	if e.errorMarker != "" && strings.Contains(reply, e.errorMarker) {
		next.State.DetourPending = false
		e.say(next, reply, []string{frame.Ref()}, domain.NewAction(domain.ActionStepResponse))
		e.emitStep(ctx, e.hooks.OnDetour, domain.EventDetour, next, step.ID)
		log.InfoContext(ctx, "analysis detected a mistake, staying on step")
		return next, nil
	}

	log.DebugContext(ctx, "step verified", "analysis", reply)
	next.State.StepIndex++
	e.present(ctx, next, frame)
	return next, nil
}

// SendText appends a free-text user message. While screen sharing is active
// and the walkthrough is not over, a fresh frame is attached to a nudge back
// to the current step.
func (e *Engine) SendText(ctx context.Context, current *domain.Session, text string) (*domain.Session, error) {
	next := current.Snapshot()
	next.Transcript.Append(domain.Message{
		ID:        e.newID(),
		Role:      domain.RoleUser,
		Content:   text,
		Timestamp: e.now().UTC(),
	})

	if next.State.Permission != domain.PermissionGranted || next.State.Completed() {
		return next, nil
	}

	frame, err := e.captureFrame(ctx, next.ID)
	if err != nil {
		e.say(next, CaptureFailedText, nil, nil)
		e.emitCaptureError(ctx, next, err)
		e.logger.WarnContext(ctx, "frame capture failed", "session_id", next.ID, "err", err)
		return next, nil
	}
	e.say(next, ProceedText, []string{frame.Ref()}, domain.NewAction(domain.ActionStepResponse))
	return next, nil
}

// present appends the step at the session's current index, or the completion
// message when the index reached the end of the catalog.
func (e *Engine) present(ctx context.Context, sess *domain.Session, frame domain.Artifact) {
	attachments := []string{frame.Ref()}

	step, ok := e.catalog.StepAt(sess.State.StepIndex)
	if !ok {
		e.say(sess, e.catalog.Completion(), attachments, nil)
		e.emitStep(ctx, e.hooks.OnComplete, domain.EventComplete, sess, "")
		e.logger.InfoContext(ctx, "walkthrough completed", "session_id", sess.ID)
		e.Release(sess.ID)
		return
	}

	e.say(sess, step.Text, attachments, domain.NewAction(domain.ActionStepResponse))
	e.emitStep(ctx, e.hooks.OnStepEnter, domain.EventStepEnter, sess, step.ID)
}

// say appends an assistant message.
func (e *Engine) say(sess *domain.Session, content string, attachments []string, action *domain.Action) {
	sess.Transcript.Append(domain.Message{
		ID:          e.newID(),
		Role:        domain.RoleAssistant,
		Content:     content,
		Timestamp:   e.now().UTC(),
		Attachments: attachments,
		Action:      action,
	})
}

// captureKind classifies a collaborator failure for events and metrics.
func captureKind(err error) string {
	switch {
	case errors.Is(err, domain.ErrPermissionDenied):
		return "permission_denied"
	case errors.Is(err, domain.ErrAcquisition):
		return "acquisition"
	default:
		return "capture"
	}
}
