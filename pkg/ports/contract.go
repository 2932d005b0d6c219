package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/walkthrough/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSessionStoreContract runs a suite of tests to verify that a SessionStore
// implementation adheres to the defined interface contract.
func RunSessionStoreContract(t *testing.T, store SessionStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")
	now := time.Now().UTC().Truncate(time.Second)

	t.Run("Save and Load", func(t *testing.T) {
		sess := domain.NewSession(sessionID, 19, now)
		sess.State.StepIndex = 4
		sess.State.Permission = domain.PermissionGranted
		sess.Transcript.Append(domain.Message{
			ID:          "m1",
			Role:        domain.RoleAssistant,
			Content:     "hello",
			Timestamp:   now,
			Attachments: []string{"artifact:abc"},
			Action:      domain.NewAction(domain.ActionStepResponse),
		})

		require.NoError(t, store.Save(ctx, sess), "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, sess.State, loaded.State)
		require.Equal(t, 1, loaded.Transcript.Len())
		last, _ := loaded.Transcript.Last()
		assert.Equal(t, "hello", last.Content)
		assert.Equal(t, []string{"artifact:abc"}, last.Attachments)
		require.NotNil(t, last.Action)
		assert.Equal(t, domain.ActionStepResponse, last.Action.Kind)
	})

	t.Run("Loaded Copy Is Isolated", func(t *testing.T) {
		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		loaded.Transcript.Append(domain.Message{ID: "m2"})
		loaded.State.StepIndex = 99

		again, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, 1, again.Transcript.Len())
		assert.Equal(t, 4, again.State.StepIndex)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, domain.NewSession(sessionID, 1, now)))

		require.NoError(t, store.Delete(ctx, sessionID), "Delete should not return error")

		_, err := store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_ = store.Save(ctx, domain.NewSession(id1, 1, now))
		_ = store.Save(ctx, domain.NewSession(id2, 1, now))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}

// RunArtifactStoreContract verifies an ArtifactStore implementation.
func RunArtifactStoreContract(t *testing.T, store ArtifactStore) {
	ctx := context.Background()

	art := domain.Artifact{
		ID:         "contract-artifact-" + time.Now().Format("20060102150405"),
		MediaType:  "image/png",
		Data:       []byte{0x89, 'P', 'N', 'G'},
		CapturedAt: time.Now().UTC().Truncate(time.Second),
	}

	require.NoError(t, store.Put(ctx, art))

	got, err := store.Get(ctx, art.ID)
	require.NoError(t, err)
	assert.Equal(t, art.MediaType, got.MediaType)
	assert.Equal(t, art.Data, got.Data)
	assert.True(t, art.CapturedAt.Equal(got.CapturedAt))

	_, err = store.Get(ctx, "missing-"+art.ID)
	assert.ErrorIs(t, err, domain.ErrArtifactNotFound)
}
