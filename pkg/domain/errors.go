package domain

import "errors"

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrArtifactNotFound is returned when an artifact reference cannot be resolved.
var ErrArtifactNotFound = errors.New("artifact not found")

// Collaborator failures. These are always converted into assistant messages by
// the sequencer and never abort a session.
var (
	// ErrPermissionDenied is returned when the user or the platform refuses capture.
	ErrPermissionDenied = errors.New("screen capture permission denied")

	// ErrAcquisition is returned when the capture resource could not be set up.
	ErrAcquisition = errors.New("screen capture acquisition failed")

	// ErrCapture is returned when a frame could not be taken from an acquired stream.
	ErrCapture = errors.New("screen capture failed")

	// ErrAnalysisUnavailable is returned when the analysis service is misconfigured
	// or rejects the credential.
	ErrAnalysisUnavailable = errors.New("analysis unavailable")
)

// Protocol misuse. These are returned to the adapter instead of becoming messages.
var (
	// ErrNoAffordance is returned when a response arrives that the session is not offering.
	ErrNoAffordance = errors.New("response not offered in the current state")

	// ErrBusy is returned when an action is already being processed for the session.
	ErrBusy = errors.New("session is processing another action")

	// ErrInvalidResponse is returned when a response value is not in the option set.
	ErrInvalidResponse = errors.New("invalid response")
)
