package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/walkthrough/pkg/domain"
)

// Logging returns hooks that log every lifecycle event.
func Logging(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStepEnter: func(ctx context.Context, e *domain.StepEvent) {
			logger.InfoContext(ctx, "step_enter", "session_id", e.SessionID, "step_id", e.StepID, "step_index", e.StepIndex)
		},
		OnDetour: func(ctx context.Context, e *domain.StepEvent) {
			logger.InfoContext(ctx, "detour", "session_id", e.SessionID, "step_id", e.StepID)
		},
		OnComplete: func(ctx context.Context, e *domain.StepEvent) {
			logger.InfoContext(ctx, "complete", "session_id", e.SessionID)
		},
		OnCaptureError: func(ctx context.Context, e *domain.CaptureEvent) {
			logger.WarnContext(ctx, "capture_error", "session_id", e.SessionID, "kind", e.Kind, "err", e.Err)
		},
		OnPermission: func(ctx context.Context, e *domain.PermissionEvent) {
			logger.InfoContext(ctx, "permission", "session_id", e.SessionID, "response", e.Response, "granted", e.Granted)
		},
	}
}

// Chain merges hook sets; each event is delivered to every set in order.
func Chain(sets ...domain.LifecycleHooks) domain.LifecycleHooks {
	var out domain.LifecycleHooks
	for _, h := range sets {
		out.OnStepEnter = chainEvent(out.OnStepEnter, h.OnStepEnter)
		out.OnDetour = chainEvent(out.OnDetour, h.OnDetour)
		out.OnComplete = chainEvent(out.OnComplete, h.OnComplete)
		out.OnCaptureError = chainEvent(out.OnCaptureError, h.OnCaptureError)
		out.OnPermission = chainEvent(out.OnPermission, h.OnPermission)
	}
	return out
}

func chainEvent[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
