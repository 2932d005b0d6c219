package ports

import (
	"context"

	"github.com/aretw0/walkthrough/pkg/domain"
)

// Guide is the driving port consumed by the HTTP, MCP and terminal adapters.
// Every mutating call returns the session as persisted after the transition.
type Guide interface {
	Start(ctx context.Context) (*domain.Session, error)
	Session(ctx context.Context, sessionID string) (*domain.Session, error)
	List(ctx context.Context) ([]string, error)

	RespondPermission(ctx context.Context, sessionID string, resp domain.PermissionResponse) (*domain.Session, error)
	RespondStep(ctx context.Context, sessionID string, resp domain.StepResponse) (*domain.Session, error)
	SendText(ctx context.Context, sessionID string, text string) (*domain.Session, error)

	// Close releases the capture stream and deletes the session.
	Close(ctx context.Context, sessionID string) error

	// Processing reports whether an action is in flight for the session.
	Processing(sessionID string) bool

	Steps() []domain.InstallationStep
	Artifact(ctx context.Context, id string) (domain.Artifact, error)
}
