package http

import (
	"time"

	"github.com/aretw0/walkthrough/pkg/domain"
	"github.com/aretw0/walkthrough/pkg/render"
)

// SessionView is the wire shape of a session.
type SessionView struct {
	ID         string        `json:"id"`
	CreatedAt  time.Time     `json:"created_at"`
	Processing bool          `json:"processing"`
	State      StateView     `json:"state"`
	Messages   []MessageView `json:"messages"`
}

// StateView adds the derived completion flag to the sequencer state.
type StateView struct {
	domain.SequencerState
	Completed bool `json:"completed"`
}

// MessageView carries a message plus its parsed display blocks.
type MessageView struct {
	domain.Message
	Blocks []render.Block `json:"blocks,omitempty"`
}

func newStateView(st domain.SequencerState) StateView {
	return StateView{SequencerState: st, Completed: st.Completed()}
}

func newMessageViews(msgs []domain.Message) []MessageView {
	out := make([]MessageView, len(msgs))
	for i, m := range msgs {
		out[i] = MessageView{Message: m, Blocks: render.Parse(m.Content)}
	}
	return out
}

func newSessionView(s *domain.Session, processing bool) SessionView {
	return SessionView{
		ID:         s.ID,
		CreatedAt:  s.CreatedAt,
		Processing: processing,
		State:      newStateView(s.State),
		Messages:   newMessageViews(s.Transcript.Messages()),
	}
}
