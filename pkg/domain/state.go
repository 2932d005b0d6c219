package domain

import "time"

// Permission is the state of the screen-capture permission gate.
type Permission string

const (
	PermissionNotAsked Permission = "not-asked"
	PermissionGranted  Permission = "granted"
	PermissionDenied   Permission = "denied"
)

// SequencerState is the step-advancement state owned by the sequencer.
type SequencerState struct {
	// StepIndex is in [0, StepCount]. It only grows, by exactly one per advancement.
	StepIndex int `json:"step_index"`

	// StepCount is the catalog length captured when the session started.
	StepCount int `json:"step_count"`

	// DetourPending is true until the scripted "fix this typo" detour has been shown.
	// It flips to false once and never flips back.
	DetourPending bool `json:"detour_pending"`

	// Permission is the permission gate state.
	Permission Permission `json:"permission"`
}

// Completed reports whether the walkthrough reached its terminal state.
func (s SequencerState) Completed() bool {
	return s.Permission == PermissionGranted && s.StepIndex >= s.StepCount
}

// Session is the persisted unit: sequencer state plus transcript.
type Session struct {
	ID         string         `json:"id"`
	CreatedAt  time.Time      `json:"created_at"`
	State      SequencerState `json:"state"`
	Transcript Transcript     `json:"transcript"`

	// Sealed carries the encrypted session when a store encrypts at rest.
	// Live sessions never have it set.
	Sealed []byte `json:"sealed,omitempty"`
}

// NewSession creates a fresh session at step 0 with the detour armed.
func NewSession(id string, stepCount int, now time.Time) *Session {
	return &Session{
		ID:        id,
		CreatedAt: now,
		State: SequencerState{
			StepCount:     stepCount,
			DetourPending: true,
			Permission:    PermissionNotAsked,
		},
	}
}

// Snapshot returns a deep copy of the session.
func (s *Session) Snapshot() *Session {
	if s == nil {
		return nil
	}
	out := *s
	out.Transcript = s.Transcript.Clone()
	if s.Sealed != nil {
		out.Sealed = append([]byte(nil), s.Sealed...)
	}
	return &out
}
