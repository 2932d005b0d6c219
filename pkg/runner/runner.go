package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/walkthrough/internal/logging"
	"github.com/aretw0/walkthrough/pkg/domain"
	"github.com/aretw0/walkthrough/pkg/ports"
)

// Runner drives a single session from a terminal or pipe.
// It uses an IOHandler strategy to abstract the interaction mode (Text vs JSON).
type Runner struct {
	Guide   ports.Guide
	Handler IOHandler

	// Logger is used for internal debug logging.
	// If nil, a no-op logger is used.
	Logger *slog.Logger

	// SessionID, when set, resumes that session.
	SessionID string

	// CloseOnExit deletes the session when Run returns.
	CloseOnExit bool
}

// NewRunner creates a Runner over guide, reading Stdin and writing Stdout by default.
func NewRunner(guide ports.Guide, opts ...Option) *Runner {
	r := &Runner{
		Guide:  guide,
		Logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.Handler == nil {
		r.Handler = NewTextHandler(nil, nil)
	}
	return r
}

// Run presents the session and feeds user input to it until the walkthrough
// completes, the user quits, input ends, or ctx is cancelled.
// It returns the final session.
func (r *Runner) Run(ctx context.Context) (*domain.Session, error) {
	signals := NewSignalManager(ctx)
	defer signals.Stop()
	ctx = signals.Context()

	sess, err := r.resolveSession(ctx)
	if err != nil {
		return nil, err
	}
	if r.CloseOnExit {
		defer r.close(sess.ID)
	}

	if err := r.Handler.Output(ctx, newUpdate(sess, 0)); err != nil {
		return sess, fmt.Errorf("output error: %w", err)
	}

	for !sess.State.Completed() {
		offered := offeredAction(sess)

		line, err := r.Handler.Input(ctx)
		if err != nil {
			signals.CheckRace()
			if signals.Interrupted() {
				r.Logger.Debug("runner interrupted", "session_id", sess.ID)
				return sess, nil
			}
			if errors.Is(err, io.EOF) {
				return sess, nil
			}
			return sess, fmt.Errorf("input error: %w", err)
		}

		cmd := Interpret(line, offered)
		if cmd.Kind == CommandQuit {
			return sess, nil
		}
		if cmd.Kind == CommandNone {
			continue
		}

		from := sess.Transcript.Len()
		next, err := r.apply(ctx, sess.ID, cmd)
		if err != nil {
			if isRejection(err) {
				r.Handler.SystemOutput(ctx, err.Error())
				continue
			}
			if ctx.Err() != nil {
				return sess, nil
			}
			return sess, err
		}
		sess = next

		if err := r.Handler.Output(ctx, newUpdate(sess, from)); err != nil {
			return sess, fmt.Errorf("output error: %w", err)
		}
	}
	return sess, nil
}

func (r *Runner) apply(ctx context.Context, sessionID string, cmd Command) (*domain.Session, error) {
	switch cmd.Kind {
	case CommandPermission:
		return r.Guide.RespondPermission(ctx, sessionID, cmd.Permission)
	case CommandStep:
		return r.Guide.RespondStep(ctx, sessionID, cmd.Step)
	default:
		return r.Guide.SendText(ctx, sessionID, cmd.Text)
	}
}

func (r *Runner) resolveSession(ctx context.Context) (*domain.Session, error) {
	if r.SessionID != "" {
		sess, err := r.Guide.Session(ctx, r.SessionID)
		if err == nil {
			r.Logger.Info("session resumed", "session_id", sess.ID, "step_index", sess.State.StepIndex)
			return sess, nil
		}
		if !errors.Is(err, domain.ErrSessionNotFound) {
			return nil, fmt.Errorf("failed to load session %s: %w", r.SessionID, err)
		}
		r.Logger.Info("session not found, starting a new one", "session_id", r.SessionID)
	}

	sess, err := r.Guide.Start(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}
	return sess, nil
}

func (r *Runner) close(sessionID string) {
	if err := r.Guide.Close(context.Background(), sessionID); err != nil {
		r.Logger.Warn("failed to close session", "session_id", sessionID, "error", err)
	}
}

// isRejection reports whether the guide refused the input without changing the session.
func isRejection(err error) bool {
	return errors.Is(err, domain.ErrNoAffordance) ||
		errors.Is(err, domain.ErrBusy) ||
		errors.Is(err, domain.ErrInvalidResponse)
}
