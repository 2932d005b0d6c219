package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventStepEnter    EventType = "step_enter"
	EventDetour       EventType = "detour"
	EventComplete     EventType = "complete"
	EventCaptureError EventType = "capture_error"
	EventPermission   EventType = "permission"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id"`
}

// StepEvent is emitted when a step is presented, repeated for a detour, or when
// the walkthrough completes.
type StepEvent struct {
	EventBase
	StepID    string `json:"step_id,omitempty"`
	StepIndex int    `json:"step_index"`
}

// CaptureEvent is emitted when acquisition or frame capture fails.
type CaptureEvent struct {
	EventBase
	// Kind is one of "permission_denied", "acquisition", "capture".
	Kind string `json:"kind"`
	Err  error  `json:"-"`
}

// PermissionEvent is emitted for every permission answer.
type PermissionEvent struct {
	EventBase
	Response PermissionResponse `json:"response"`
	Granted  bool               `json:"granted"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnStepEnter    func(context.Context, *StepEvent)
	OnDetour       func(context.Context, *StepEvent)
	OnComplete     func(context.Context, *StepEvent)
	OnCaptureError func(context.Context, *CaptureEvent)
	OnPermission   func(context.Context, *PermissionEvent)
}
