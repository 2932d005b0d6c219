package runner

import (
	"context"

	"github.com/aretw0/walkthrough/pkg/domain"
)

// Update is what the runner presents after every transition.
type Update struct {
	SessionID string                `json:"session_id"`
	Messages  []domain.Message      `json:"messages"`
	State     domain.SequencerState `json:"state"`

	// Offered is the response the session accepts next, nil once completed.
	Offered *domain.Action `json:"offered,omitempty"`
}

// IOHandler defines the strategy for interacting with the user.
// This allows switching between Text (CLI/TUI) and JSON (Structured) modes.
type IOHandler interface {
	// Output presents the messages appended since the last update.
	Output(ctx context.Context, update Update) error

	// Input reads a response from the user.
	Input(ctx context.Context) (string, error)

	// SystemOutput presents a meta-message that is not part of the transcript,
	// such as a rejected response.
	SystemOutput(ctx context.Context, msg string) error
}

func newUpdate(sess *domain.Session, from int) Update {
	return Update{
		SessionID: sess.ID,
		Messages:  sess.Transcript.Since(from),
		State:     sess.State,
		Offered:   offeredAction(sess),
	}
}

func offeredAction(sess *domain.Session) *domain.Action {
	if sess.State.Completed() {
		return nil
	}
	if action, ok := sess.Transcript.LatestAction(); ok {
		return &action
	}
	return nil
}
