package memory

import (
	"context"
	"sync"

	"github.com/aretw0/walkthrough/pkg/domain"
)

// ArtifactStore implements ports.ArtifactStore in memory.
// Frames are kept for the lifetime of the process.
type ArtifactStore struct {
	data map[string]domain.Artifact
	mu   sync.RWMutex
}

// NewArtifactStore creates an empty artifact store.
func NewArtifactStore() *ArtifactStore {
	return &ArtifactStore{
		data: make(map[string]domain.Artifact),
	}
}

// Put stores a copy of the artifact.
func (s *ArtifactStore) Put(ctx context.Context, artifact domain.Artifact) error {
	artifact.Data = append([]byte(nil), artifact.Data...)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[artifact.ID] = artifact
	return nil
}

// Get returns a copy of the stored artifact.
func (s *ArtifactStore) Get(ctx context.Context, id string) (domain.Artifact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	artifact, ok := s.data[id]
	if !ok {
		return domain.Artifact{}, domain.ErrArtifactNotFound
	}
	artifact.Data = append([]byte(nil), artifact.Data...)
	return artifact, nil
}

// Len returns the number of stored artifacts.
func (s *ArtifactStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
