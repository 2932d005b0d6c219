package ports

import (
	"context"

	"github.com/aretw0/walkthrough/pkg/domain"
)

// Capturer acquires a live screen stream for a session.
type Capturer interface {
	// Acquire sets up the capture resource.
	// Fails with domain.ErrPermissionDenied or domain.ErrAcquisition.
	Acquire(ctx context.Context, sessionID string) (Stream, error)
}

// Stream is an acquired capture resource.
type Stream interface {
	// Frame renders a still image from the live stream.
	// Fails with domain.ErrCapture.
	Frame(ctx context.Context) (domain.Artifact, error)

	// Release frees the resource. It is safe to call more than once.
	Release() error
}

// Analyzer turns a captured frame into assistant text for a step.
type Analyzer interface {
	// Analyze returns the assistant text for the request.
	// On failure the returned text, when non-empty, is the user-facing explanation.
	Analyze(ctx context.Context, req domain.AnalysisRequest) (string, error)
}

// StepCatalog is the ordered, read-only list of installation steps.
type StepCatalog interface {
	// StepAt returns the step at index, or false when index is out of range.
	StepAt(index int) (domain.InstallationStep, bool)

	// Len is fixed for the lifetime of the catalog.
	Len() int

	// Steps returns a copy of all steps in order.
	Steps() []domain.InstallationStep
}
