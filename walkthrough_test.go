package walkthrough_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/walkthrough"
	"github.com/aretw0/walkthrough/pkg/adapters/redis"
	"github.com/aretw0/walkthrough/pkg/analysis"
	"github.com/aretw0/walkthrough/pkg/catalog"
	"github.com/aretw0/walkthrough/pkg/domain"
	"github.com/aretw0/walkthrough/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuide_FullWalkthrough(t *testing.T) {
	guide, err := walkthrough.New()
	require.NoError(t, err)
	defer guide.Shutdown()
	ctx := context.Background()

	sess, err := guide.Start(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, sess.ID)

	sess, err = guide.RespondPermission(ctx, sess.ID, domain.PermissionOK)
	require.NoError(t, err)

	steps := guide.Steps()
	detours := 0
	for !sess.State.Completed() {
		before := sess.State.StepIndex
		sess, err = guide.RespondStep(ctx, sess.ID, domain.StepDone)
		require.NoError(t, err)
		if sess.State.StepIndex == before {
			detours++
			assert.Equal(t, catalog.DetourStepID, steps[before].ID)
		}
	}

	assert.Equal(t, 1, detours, "exactly one detour over the whole walkthrough")
	assert.Equal(t, len(steps), sess.State.StepIndex)
	last, _ := sess.Transcript.Last()
	assert.True(t, strings.HasPrefix(last.Content, "🎉 Congratulations!"))
	assert.Nil(t, last.Action)

	t.Run("Attachments Resolve", func(t *testing.T) {
		id, ok := domain.ParseArtifactRef(last.Attachments[0])
		require.True(t, ok)
		art, err := guide.Artifact(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "image/png", art.MediaType)
	})

	t.Run("Persisted State Matches", func(t *testing.T) {
		loaded, err := guide.Session(ctx, sess.ID)
		require.NoError(t, err)
		assert.Equal(t, sess.State, loaded.State)
		assert.Equal(t, sess.Transcript.Len(), loaded.Transcript.Len())
	})
}

func TestGuide_MisuseIsRejected(t *testing.T) {
	guide, err := walkthrough.New()
	require.NoError(t, err)
	ctx := context.Background()

	_, err = guide.RespondStep(ctx, "missing", domain.StepDone)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	assert.True(t, walkthrough.IsProtocolError(err))

	sess, err := guide.Start(ctx)
	require.NoError(t, err)

	_, err = guide.RespondStep(ctx, sess.ID, domain.StepDone)
	assert.ErrorIs(t, err, domain.ErrNoAffordance)

	loaded, err := guide.Session(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.Transcript.Len(), loaded.Transcript.Len(), "rejected answers write nothing")
	assert.False(t, guide.Processing(sess.ID), "busy flag cleared after rejection")
}

// blockingAnalyzer parks inside Analyze until released.
type blockingAnalyzer struct {
	entered chan struct{}
	release chan struct{}
}

func (b *blockingAnalyzer) Analyze(ctx context.Context, req domain.AnalysisRequest) (string, error) {
	b.entered <- struct{}{}
	<-b.release
	return analysis.FallbackReply, nil
}

func TestGuide_BusyGuard(t *testing.T) {
	an := &blockingAnalyzer{entered: make(chan struct{}), release: make(chan struct{})}
	guide, err := walkthrough.New(walkthrough.WithAnalyzer(an))
	require.NoError(t, err)
	ctx := context.Background()

	sess, err := guide.Start(ctx)
	require.NoError(t, err)
	_, err = guide.RespondPermission(ctx, sess.ID, domain.PermissionOK)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := guide.RespondStep(ctx, sess.ID, domain.StepDone)
		done <- err
	}()

	select {
	case <-an.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("analysis never started")
	}

	assert.True(t, guide.Processing(sess.ID))
	_, err = guide.RespondStep(ctx, sess.ID, domain.StepDone)
	assert.ErrorIs(t, err, domain.ErrBusy, "second confirmation is rejected, not queued")

	close(an.release)
	require.NoError(t, <-done)
	assert.False(t, guide.Processing(sess.ID))

	loaded, err := guide.Session(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.State.StepIndex)
}

func TestGuide_Close(t *testing.T) {
	guide, err := walkthrough.New()
	require.NoError(t, err)
	ctx := context.Background()

	sess, err := guide.Start(ctx)
	require.NoError(t, err)

	require.NoError(t, guide.Close(ctx, sess.ID))
	_, err = guide.Session(ctx, sess.ID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	assert.ErrorIs(t, guide.Close(ctx, sess.ID), domain.ErrSessionNotFound)
}

// countingCapturer tracks stream lifetimes and runs onRelease once, from
// inside the first stream release.
type countingCapturer struct {
	mu        sync.Mutex
	acquired  int
	released  int
	onRelease func()
}

func (c *countingCapturer) Acquire(ctx context.Context, sessionID string) (ports.Stream, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.acquired++
	return &countingStream{capturer: c}, nil
}

func (c *countingCapturer) counts() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.acquired, c.released
}

type countingStream struct {
	capturer *countingCapturer
	once     sync.Once
}

func (s *countingStream) Frame(ctx context.Context) (domain.Artifact, error) {
	return domain.Artifact{MediaType: "image/png", Data: []byte{1}}, nil
}

func (s *countingStream) Release() error {
	s.once.Do(func() {
		c := s.capturer
		c.mu.Lock()
		c.released++
		hook := c.onRelease
		c.onRelease = nil
		c.mu.Unlock()
		if hook != nil {
			hook()
		}
	})
	return nil
}

func TestGuide_CloseRacesStepResponse(t *testing.T) {
	capturer := &countingCapturer{}
	guide, err := walkthrough.New(walkthrough.WithCapturer(capturer))
	require.NoError(t, err)
	defer guide.Shutdown()
	ctx := context.Background()

	sess, err := guide.Start(ctx)
	require.NoError(t, err)
	sess, err = guide.RespondPermission(ctx, sess.ID, domain.PermissionOK)
	require.NoError(t, err)
	require.Equal(t, domain.PermissionGranted, sess.State.Permission)

	// A step response lands while Close is releasing the stream.
	var stepErr error
	capturer.onRelease = func() {
		_, stepErr = guide.RespondStep(ctx, sess.ID, domain.StepDone)
	}
	require.NoError(t, guide.Close(ctx, sess.ID))

	assert.ErrorIs(t, stepErr, domain.ErrSessionNotFound)
	acquired, released := capturer.counts()
	assert.Equal(t, 1, acquired)
	assert.Equal(t, acquired, released, "every acquired stream is released")
}

func TestGuide_RedisSurvivesRestart(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	newGuide := func() *walkthrough.Guide {
		store, err := redis.NewFromURL("redis://" + mr.Addr())
		require.NoError(t, err)
		g, err := walkthrough.New(
			walkthrough.WithStore(store),
			walkthrough.WithArtifactStore(redis.NewArtifactStore(store.Client(), store.Prefix(), time.Hour)),
			walkthrough.WithLocker(redis.NewLocker(store.Client(), store.Prefix())),
		)
		require.NoError(t, err)
		return g
	}
	ctx := context.Background()

	first := newGuide()
	sess, err := first.Start(ctx)
	require.NoError(t, err)
	_, err = first.RespondPermission(ctx, sess.ID, domain.PermissionOK)
	require.NoError(t, err)
	first.Shutdown()

	// A new process holds no stream; the next confirmation acquires one.
	second := newGuide()
	defer second.Shutdown()
	next, err := second.RespondStep(ctx, sess.ID, domain.StepDone)
	require.NoError(t, err)
	assert.Equal(t, 1, next.State.StepIndex)

	ids, err := second.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, ids, sess.ID)
}
