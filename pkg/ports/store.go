package ports

import (
	"context"

	"github.com/aretw0/walkthrough/pkg/domain"
)

// SessionStore defines the interface for persisting walkthrough sessions.
type SessionStore interface {
	// Save persists the session under session.ID.
	Save(ctx context.Context, session *domain.Session) error

	// Load retrieves the session for a given ID.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) (*domain.Session, error)

	// Delete removes the session for a given ID.
	Delete(ctx context.Context, sessionID string) error

	// List returns the IDs of stored sessions.
	List(ctx context.Context) ([]string, error)
}

// ArtifactStore persists captured frames referenced from message attachments.
type ArtifactStore interface {
	// Put stores the artifact under artifact.ID.
	Put(ctx context.Context, artifact domain.Artifact) error

	// Get retrieves an artifact.
	// Returns domain.ErrArtifactNotFound if it does not exist.
	Get(ctx context.Context, id string) (domain.Artifact, error)
}
