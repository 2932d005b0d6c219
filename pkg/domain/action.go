package domain

import (
	"encoding/json"
	"fmt"
)

// ActionKind identifies the affordance attached to a message.
type ActionKind string

const (
	// ActionPermissionRequest asks the user to allow screen capture.
	// Options: ok, not-ok.
	ActionPermissionRequest ActionKind = "permission-request"

	// ActionStepResponse asks the user to confirm the current step.
	// Options: done, problem.
	ActionStepResponse ActionKind = "step-response"
)

// PermissionResponse is the user's answer to a permission-request affordance.
type PermissionResponse string

const (
	PermissionOK    PermissionResponse = "ok"
	PermissionNotOK PermissionResponse = "not-ok"
)

// StepResponse is the user's answer to a step-response affordance.
type StepResponse string

const (
	StepDone    StepResponse = "done"
	StepProblem StepResponse = "problem"
)

// Options returns the fixed option set for the kind.
// Unknown kinds have no options.
func (k ActionKind) Options() []string {
	switch k {
	case ActionPermissionRequest:
		return []string{string(PermissionOK), string(PermissionNotOK)}
	case ActionStepResponse:
		return []string{string(StepDone), string(StepProblem)}
	}
	return nil
}

// Valid reports whether k is one of the known kinds.
func (k ActionKind) Valid() bool {
	return k == ActionPermissionRequest || k == ActionStepResponse
}

// Accepts reports whether value is one of the kind's options.
func (k ActionKind) Accepts(value string) bool {
	for _, opt := range k.Options() {
		if opt == value {
			return true
		}
	}
	return false
}

// Action is an affordance attached to an assistant message.
// The option set is never stored: it is always derived from Kind, so a
// mismatched kind/options pair cannot be represented.
type Action struct {
	Kind ActionKind
}

// NewAction returns a pointer to an Action of the given kind.
func NewAction(kind ActionKind) *Action {
	return &Action{Kind: kind}
}

// Options returns the option set of the action.
func (a Action) Options() []string {
	return a.Kind.Options()
}

type actionJSON struct {
	Type    ActionKind `json:"type"`
	Options []string   `json:"options"`
}

// MarshalJSON renders the action as {"type": ..., "options": [...]}.
func (a Action) MarshalJSON() ([]byte, error) {
	return json.Marshal(actionJSON{Type: a.Kind, Options: a.Options()})
}

// UnmarshalJSON accepts the wire shape and ignores the options list,
// which is re-derived from the type.
func (a *Action) UnmarshalJSON(data []byte) error {
	var raw actionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if !raw.Type.Valid() {
		return fmt.Errorf("unknown action type %q", raw.Type)
	}
	a.Kind = raw.Type
	return nil
}

// ParsePermissionResponse validates a raw permission answer.
func ParsePermissionResponse(s string) (PermissionResponse, error) {
	if !ActionPermissionRequest.Accepts(s) {
		return "", fmt.Errorf("%w: %q is not one of %v", ErrInvalidResponse, s, ActionPermissionRequest.Options())
	}
	return PermissionResponse(s), nil
}

// ParseStepResponse validates a raw step answer.
func ParseStepResponse(s string) (StepResponse, error) {
	if !ActionStepResponse.Accepts(s) {
		return "", fmt.Errorf("%w: %q is not one of %v", ErrInvalidResponse, s, ActionStepResponse.Options())
	}
	return StepResponse(s), nil
}
