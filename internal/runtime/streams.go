package runtime

import (
	"context"
	"fmt"

	"github.com/aretw0/walkthrough/pkg/domain"
	"github.com/aretw0/walkthrough/pkg/ports"
)

// Begin marks the session as processing an action. It never blocks: a second
// caller gets domain.ErrBusy until End is called.
func (e *Engine) Begin(sessionID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.busy[sessionID] {
		return domain.ErrBusy
	}
	e.busy[sessionID] = true
	return nil
}

// End clears the processing mark set by Begin.
func (e *Engine) End(sessionID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.busy, sessionID)
}

// Processing reports whether an action is in flight for the session.
func (e *Engine) Processing(sessionID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.busy[sessionID]
}

// Streaming reports whether a capture stream is held for the session.
func (e *Engine) Streaming(sessionID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.streams[sessionID]
	return ok
}

// Release frees the capture stream held for the session, if any.
func (e *Engine) Release(sessionID string) {
	e.mu.Lock()
	s, ok := e.streams[sessionID]
	delete(e.streams, sessionID)
	e.mu.Unlock()

	if ok {
		if err := s.Release(); err != nil {
			e.logger.Warn("failed to release capture stream", "session_id", sessionID, "err", err)
		}
	}
}

// Close releases every held stream.
func (e *Engine) Close() {
	e.mu.Lock()
	ids := make([]string, 0, len(e.streams))
	for id := range e.streams {
		ids = append(ids, id)
	}
	e.mu.Unlock()

	for _, id := range ids {
		e.Release(id)
	}
}

// acquireWithFrame acquires a new stream and takes the first frame from it.
// A partially acquired stream is released when the frame fails.
func (e *Engine) acquireWithFrame(ctx context.Context, sessionID string) (domain.Artifact, error) {
	e.Release(sessionID)

	s, err := e.capturer.Acquire(ctx, sessionID)
	if err != nil {
		return domain.Artifact{}, err
	}

	frame, err := e.store(ctx, s)
	if err != nil {
		if relErr := s.Release(); relErr != nil {
			e.logger.WarnContext(ctx, "failed to release capture stream", "session_id", sessionID, "err", relErr)
		}
		return domain.Artifact{}, err
	}

	e.mu.Lock()
	e.streams[sessionID] = s
	e.mu.Unlock()
	return frame, nil
}

// captureFrame takes a frame from the session's stream. A session that was
// granted by a previous process has no stream yet and is acquired lazily.
// On failure the stream is released so the next attempt starts clean.
func (e *Engine) captureFrame(ctx context.Context, sessionID string) (domain.Artifact, error) {
	e.mu.Lock()
	s, ok := e.streams[sessionID]
	e.mu.Unlock()

	if !ok {
		return e.acquireWithFrame(ctx, sessionID)
	}

	frame, err := e.store(ctx, s)
	if err != nil {
		e.Release(sessionID)
		return domain.Artifact{}, err
	}
	return frame, nil
}

// store grabs a frame and persists it as an artifact.
func (e *Engine) store(ctx context.Context, s ports.Stream) (domain.Artifact, error) {
	frame, err := s.Frame(ctx)
	if err != nil {
		return domain.Artifact{}, err
	}
	frame.ID = e.newID()
	if frame.CapturedAt.IsZero() {
		frame.CapturedAt = e.now().UTC()
	}
	if err := e.artifacts.Put(ctx, frame); err != nil {
		return domain.Artifact{}, fmt.Errorf("%w: failed to store frame: %v", domain.ErrCapture, err)
	}
	return frame, nil
}
