package runtime

import (
	"context"

	"github.com/aretw0/walkthrough/pkg/domain"
)

func (e *Engine) base(sess *domain.Session, typ domain.EventType) domain.EventBase {
	return domain.EventBase{
		Timestamp: e.now().UTC(),
		Type:      typ,
		SessionID: sess.ID,
	}
}

func (e *Engine) emitStep(ctx context.Context, hook func(context.Context, *domain.StepEvent), typ domain.EventType, sess *domain.Session, stepID string) {
	if hook == nil {
		return
	}
	hook(ctx, &domain.StepEvent{
		EventBase: e.base(sess, typ),
		StepID:    stepID,
		StepIndex: sess.State.StepIndex,
	})
}

func (e *Engine) emitCaptureError(ctx context.Context, sess *domain.Session, err error) {
	if e.hooks.OnCaptureError == nil {
		return
	}
	e.hooks.OnCaptureError(ctx, &domain.CaptureEvent{
		EventBase: e.base(sess, domain.EventCaptureError),
		Kind:      captureKind(err),
		Err:       err,
	})
}

func (e *Engine) emitPermission(ctx context.Context, sess *domain.Session, resp domain.PermissionResponse, granted bool) {
	if e.hooks.OnPermission == nil {
		return
	}
	e.hooks.OnPermission(ctx, &domain.PermissionEvent{
		EventBase: e.base(sess, domain.EventPermission),
		Response:  resp,
		Granted:   granted,
	})
}
