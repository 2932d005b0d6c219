package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/walkthrough/pkg/domain"
)

// ArtifactStore implements ports.ArtifactStore on the local filesystem.
type ArtifactStore struct {
	BasePath string
}

// NewArtifactStore creates a store rooted at basePath.
func NewArtifactStore(basePath string) *ArtifactStore {
	if basePath == "" {
		basePath = filepath.Join(filepath.Dir(DefaultDir), "artifacts")
	}
	return &ArtifactStore{BasePath: basePath}
}

func (s *ArtifactStore) Put(ctx context.Context, art domain.Artifact) error {
	if err := validID(art.ID); err != nil {
		return err
	}
	data, err := json.Marshal(art)
	if err != nil {
		return fmt.Errorf("failed to marshal artifact: %w", err)
	}
	return writeAtomic(s.BasePath, filepath.Join(s.BasePath, art.ID+".json"), data)
}

func (s *ArtifactStore) Get(ctx context.Context, id string) (domain.Artifact, error) {
	if err := validID(id); err != nil {
		return domain.Artifact{}, domain.ErrArtifactNotFound
	}
	data, err := os.ReadFile(filepath.Join(s.BasePath, id+".json"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.Artifact{}, domain.ErrArtifactNotFound
		}
		return domain.Artifact{}, fmt.Errorf("failed to read artifact: %w", err)
	}
	var art domain.Artifact
	if err := json.Unmarshal(data, &art); err != nil {
		return domain.Artifact{}, fmt.Errorf("failed to unmarshal artifact %s: %w", id, err)
	}
	return art, nil
}
