package domain

// SessionDiff represents the changes between two snapshots of a session.
// It is designed to be serialized to JSON for partial updates on the client.
type SessionDiff struct {
	// SessionID is always present to identify the target.
	SessionID string `json:"session_id"`

	// From is the transcript position of the first appended message.
	From int `json:"from"`

	// Messages holds the messages appended since the old snapshot.
	Messages []Message `json:"messages,omitempty"`

	// State is set only when the sequencer state changed.
	State *SequencerState `json:"state,omitempty"`
}

// Diff calculates the difference between oldSession and newSession.
// If oldSession is nil, it returns a diff representing the entire newSession.
// It returns nil when nothing changed.
func Diff(oldSession, newSession *Session) *SessionDiff {
	if newSession == nil {
		return nil
	}

	diff := &SessionDiff{SessionID: newSession.ID}

	if oldSession != nil {
		diff.From = oldSession.Transcript.Len()
	}
	diff.Messages = newSession.Transcript.Since(diff.From)
	if len(diff.Messages) == 0 {
		diff.Messages = nil
	}

	if oldSession == nil || oldSession.State != newSession.State {
		st := newSession.State
		diff.State = &st
	}

	if diff.State == nil && diff.Messages == nil {
		return nil
	}
	return diff
}
