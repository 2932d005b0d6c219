package memory_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/walkthrough/pkg/adapters/memory"
	"github.com/aretw0/walkthrough/pkg/domain"
	"github.com/aretw0/walkthrough/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Contract(t *testing.T) {
	ports.RunSessionStoreContract(t, memory.NewStore())
}

func TestMemoryArtifactStore_Contract(t *testing.T) {
	ports.RunArtifactStoreContract(t, memory.NewArtifactStore())
}

func TestMemoryStore_SavedCopyIsIsolated(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	sess := domain.NewSession("s1", 2, time.Now())
	require.NoError(t, store.Save(ctx, sess))

	// Mutating the caller's session after Save must not leak into the store.
	sess.Transcript.Append(domain.Message{ID: "late"})
	sess.State.StepIndex = 2

	loaded, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 0, loaded.Transcript.Len())
	assert.Equal(t, 0, loaded.State.StepIndex)
}

func TestMemoryStore_ConcurrentSaves(t *testing.T) {
	store := memory.NewStore()
	artifacts := memory.NewArtifactStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("s-%02d", i)
			_ = store.Save(ctx, domain.NewSession(id, 1, time.Now()))
			_ = artifacts.Put(ctx, domain.Artifact{ID: id, MediaType: "image/png", Data: []byte{byte(i)}})
		}(i)
	}
	wg.Wait()

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, ids, 20)
	assert.Equal(t, 20, artifacts.Len())
}
