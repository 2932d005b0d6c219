package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/walkthrough/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// ArtifactStore implements ports.ArtifactStore using Redis.
// Frames are stored as JSON with base64 data under <prefix>artifact:<id>.
type ArtifactStore struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

// NewArtifactStore creates an artifact store sharing the client of a session store.
// A zero ttl keeps frames forever.
func NewArtifactStore(client *backend.Client, prefix string, ttl time.Duration) *ArtifactStore {
	return &ArtifactStore{client: client, prefix: prefix, ttl: ttl}
}

func (s *ArtifactStore) key(id string) string {
	return s.prefix + "artifact:" + id
}

// Put stores the artifact.
func (s *ArtifactStore) Put(ctx context.Context, artifact domain.Artifact) error {
	data, err := json.Marshal(artifact)
	if err != nil {
		return fmt.Errorf("failed to marshal artifact: %w", err)
	}
	if err := s.client.Set(ctx, s.key(artifact.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save artifact to redis: %w", err)
	}
	return nil
}

// Get retrieves an artifact.
func (s *ArtifactStore) Get(ctx context.Context, id string) (domain.Artifact, error) {
	val, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return domain.Artifact{}, domain.ErrArtifactNotFound
		}
		return domain.Artifact{}, fmt.Errorf("failed to get artifact from redis: %w", err)
	}

	var artifact domain.Artifact
	if err := json.Unmarshal(val, &artifact); err != nil {
		return domain.Artifact{}, fmt.Errorf("failed to unmarshal artifact: %w", err)
	}
	return artifact, nil
}
