package runtime_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aretw0/walkthrough/internal/runtime"
	"github.com/aretw0/walkthrough/pkg/analysis"
	"github.com/aretw0/walkthrough/pkg/catalog"
	"github.com/aretw0/walkthrough/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lastMessage(t *testing.T, sess *domain.Session) domain.Message {
	t.Helper()
	msg, ok := sess.Transcript.Last()
	require.True(t, ok, "transcript is empty")
	return msg
}

// granted returns a session that accepted screen sharing and sits on step 0.
func granted(t *testing.T, f *fixture) *domain.Session {
	t.Helper()
	sess := f.engine.Start(context.Background(), "sess-1")
	sess, err := f.engine.RespondPermission(context.Background(), sess, domain.PermissionOK)
	require.NoError(t, err)
	require.Equal(t, domain.PermissionGranted, sess.State.Permission)
	return sess
}

func TestEngine_Start(t *testing.T) {
	f := newFixture()
	sess := f.engine.Start(context.Background(), "sess-1")

	assert.Equal(t, "sess-1", sess.ID)
	assert.Equal(t, 0, sess.State.StepIndex)
	assert.Equal(t, f.catalog.Len(), sess.State.StepCount)
	assert.True(t, sess.State.DetourPending)
	assert.Equal(t, domain.PermissionNotAsked, sess.State.Permission)

	msgs := sess.Transcript.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, f.catalog.Welcome(), msgs[0].Content)
	assert.Nil(t, msgs[0].Action)
	assert.Equal(t, f.catalog.PermissionPrompt(), msgs[1].Content)
	require.NotNil(t, msgs[1].Action)
	assert.Equal(t, domain.ActionPermissionRequest, msgs[1].Action.Kind)
	assert.Zero(t, f.capturer.acquired, "nothing is acquired before the user agrees")
}

func TestEngine_PermissionDeclined(t *testing.T) {
	f := newFixture()
	start := f.engine.Start(context.Background(), "sess-1")

	sess, err := f.engine.RespondPermission(context.Background(), start, domain.PermissionNotOK)
	require.NoError(t, err)

	assert.Equal(t, 0, sess.State.StepIndex)
	assert.Equal(t, domain.PermissionDenied, sess.State.Permission)
	assert.Zero(t, f.capturer.acquired)
	assert.False(t, f.engine.Streaming("sess-1"))

	msg := lastMessage(t, sess)
	assert.Equal(t, runtime.DeclinedText, msg.Content)
	require.NotNil(t, msg.Action)
	assert.Equal(t, domain.ActionPermissionRequest, msg.Action.Kind)

	t.Run("Input Session Untouched", func(t *testing.T) {
		assert.Equal(t, 2, start.Transcript.Len())
		assert.Equal(t, domain.PermissionNotAsked, start.State.Permission)
	})

	t.Run("Can Agree Later", func(t *testing.T) {
		sess, err := f.engine.RespondPermission(context.Background(), sess, domain.PermissionOK)
		require.NoError(t, err)
		assert.Equal(t, domain.PermissionGranted, sess.State.Permission)
	})
}

func TestEngine_PermissionGranted(t *testing.T) {
	f := newFixture()
	sess := granted(t, f)

	assert.Equal(t, 1, f.capturer.acquired)
	assert.True(t, f.engine.Streaming("sess-1"))

	msg := lastMessage(t, sess)
	step0, _ := f.catalog.StepAt(0)
	assert.Equal(t, step0.Text, msg.Content)
	require.NotNil(t, msg.Action)
	assert.Equal(t, domain.ActionStepResponse, msg.Action.Kind)
	require.Len(t, msg.Attachments, 1)

	id, ok := domain.ParseArtifactRef(msg.Attachments[0])
	require.True(t, ok)
	art, err := f.artifacts.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "frame-1", string(art.Data))

	_, err = f.engine.RespondPermission(context.Background(), sess, domain.PermissionOK)
	assert.ErrorIs(t, err, domain.ErrNoAffordance, "permission answers are not offered once granted")
}

func TestEngine_PermissionAcquisitionFails(t *testing.T) {
	for _, cause := range []error{domain.ErrPermissionDenied, domain.ErrAcquisition} {
		t.Run(cause.Error(), func(t *testing.T) {
			var kinds []string
			f := newFixture(runtime.WithLifecycleHooks(domain.LifecycleHooks{
				OnCaptureError: func(_ context.Context, e *domain.CaptureEvent) { kinds = append(kinds, e.Kind) },
			}))
			f.capturer.acquireErr = cause

			sess, err := f.engine.RespondPermission(context.Background(), f.engine.Start(context.Background(), "s"), domain.PermissionOK)
			require.NoError(t, err, "collaborator failures become messages")

			assert.NotEqual(t, domain.PermissionGranted, sess.State.Permission)
			assert.Equal(t, 0, sess.State.StepIndex)
			msg := lastMessage(t, sess)
			assert.Equal(t, runtime.PermissionFailedText, msg.Content)
			require.NotNil(t, msg.Action)
			assert.Equal(t, domain.ActionPermissionRequest, msg.Action.Kind)
			assert.Len(t, kinds, 1)
		})
	}

	t.Run("First Frame Fails", func(t *testing.T) {
		f := newFixture()
		f.capturer.failNextFrames(domain.ErrCapture)

		sess, err := f.engine.RespondPermission(context.Background(), f.engine.Start(context.Background(), "s"), domain.PermissionOK)
		require.NoError(t, err)

		assert.Equal(t, runtime.PermissionFailedText, lastMessage(t, sess).Content)
		assert.Zero(t, f.capturer.live(), "partially acquired stream must be released")
		assert.False(t, f.engine.Streaming("s"))
	})
}

func TestEngine_StepDoneAdvances(t *testing.T) {
	f := newFixture()
	sess := granted(t, f)

	for i := 0; i < 5; i++ {
		before := sess.Transcript.Len()

		next, err := f.engine.RespondStep(context.Background(), sess, domain.StepDone)
		require.NoError(t, err)

		assert.Equal(t, i+1, next.State.StepIndex, "index grows by exactly one")
		assert.Equal(t, before+1, next.Transcript.Len(), "exactly one message per signal")

		step, _ := f.catalog.StepAt(i + 1)
		msg := lastMessage(t, next)
		assert.Equal(t, step.Text, msg.Content)
		assert.Len(t, msg.Attachments, 1)
		require.NotNil(t, msg.Action)
		assert.Equal(t, domain.ActionStepResponse, msg.Action.Kind)

		sess = next
	}
}

func TestEngine_DetourIsOneShot(t *testing.T) {
	var detours int
	f := newFixture(runtime.WithLifecycleHooks(domain.LifecycleHooks{
		OnDetour: func(_ context.Context, e *domain.StepEvent) {
			detours++
			assert.Equal(t, catalog.DetourStepID, e.StepID)
		},
	}))
	sess := granted(t, f)
	target := stepIndex(f.catalog, catalog.DetourStepID)
	require.Positive(t, target)

	var err error
	for sess.State.StepIndex < target {
		sess, err = f.engine.RespondStep(context.Background(), sess, domain.StepDone)
		require.NoError(t, err)
	}

	sess, err = f.engine.RespondStep(context.Background(), sess, domain.StepDone)
	require.NoError(t, err)
	assert.Equal(t, target, sess.State.StepIndex, "index stays on the detour step")
	assert.False(t, sess.State.DetourPending)
	msg := lastMessage(t, sess)
	assert.Contains(t, msg.Content, "space before your OpenAI API key")
	require.NotNil(t, msg.Action)
	assert.Equal(t, domain.ActionStepResponse, msg.Action.Kind)
	assert.Len(t, msg.Attachments, 1)

	sess, err = f.engine.RespondStep(context.Background(), sess, domain.StepDone)
	require.NoError(t, err)
	assert.Equal(t, target+1, sess.State.StepIndex)
	assert.False(t, sess.State.DetourPending, "flag never flips back")
	assert.NotContains(t, lastMessage(t, sess).Content, "space before your OpenAI API key")

	assert.Equal(t, 1, detours)
}

func TestEngine_DetourIsPerSession(t *testing.T) {
	f := newFixture()
	target := stepIndex(f.catalog, catalog.DetourStepID)

	run := func(id string) *domain.Session {
		sess := f.engine.Start(context.Background(), id)
		sess, err := f.engine.RespondPermission(context.Background(), sess, domain.PermissionOK)
		require.NoError(t, err)
		for sess.State.StepIndex < target {
			sess, err = f.engine.RespondStep(context.Background(), sess, domain.StepDone)
			require.NoError(t, err)
		}
		sess, err = f.engine.RespondStep(context.Background(), sess, domain.StepDone)
		require.NoError(t, err)
		return sess
	}

	a := run("a")
	b := run("b")
	assert.Equal(t, target, a.State.StepIndex)
	assert.Equal(t, target, b.State.StepIndex, "second session gets its own detour")
	assert.Contains(t, lastMessage(t, b).Content, analysis.DetourMarker)
}

func TestEngine_Completion(t *testing.T) {
	cat, err := catalog.New([]domain.InstallationStep{
		{ID: "one", Text: "First"},
		{ID: "two", Text: "Second"},
	}, catalog.WithCompletion("All done"))
	require.NoError(t, err)

	var completed int
	f := newFixtureWith(cat, analysis.NewStub(), runtime.WithLifecycleHooks(domain.LifecycleHooks{
		OnComplete: func(context.Context, *domain.StepEvent) { completed++ },
	}))
	sess := granted(t, f)

	sess, err = f.engine.RespondStep(context.Background(), sess, domain.StepDone)
	require.NoError(t, err)
	sess, err = f.engine.RespondStep(context.Background(), sess, domain.StepDone)
	require.NoError(t, err)

	assert.Equal(t, 2, sess.State.StepIndex)
	assert.True(t, sess.State.Completed())
	msg := lastMessage(t, sess)
	assert.Equal(t, "All done", msg.Content)
	assert.Nil(t, msg.Action, "terminal message offers nothing")
	assert.Len(t, msg.Attachments, 1)
	assert.Equal(t, 1, completed)
	assert.Zero(t, f.capturer.live(), "stream released at completion")

	_, err = f.engine.RespondStep(context.Background(), sess, domain.StepDone)
	assert.ErrorIs(t, err, domain.ErrNoAffordance)

	count := 0
	for _, m := range sess.Transcript.Messages() {
		if m.Content == "All done" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestEngine_EmptyCatalogCompletesOnGrant(t *testing.T) {
	cat, err := catalog.New(nil)
	require.NoError(t, err)
	f := newFixtureWith(cat, analysis.NewStub())

	sess := granted(t, f)
	assert.True(t, sess.State.Completed())
	assert.Equal(t, cat.Completion(), lastMessage(t, sess).Content)
}

func TestEngine_CaptureFailureDuringStep(t *testing.T) {
	f := newFixture()
	sess := granted(t, f)
	sess, err := f.engine.RespondStep(context.Background(), sess, domain.StepDone)
	require.NoError(t, err)
	before := sess.Transcript.Len()

	f.capturer.failNextFrames(errors.New("boom"))
	failed, err := f.engine.RespondStep(context.Background(), sess, domain.StepDone)
	require.NoError(t, err)

	assert.Equal(t, 1, failed.State.StepIndex)
	assert.Equal(t, before+1, failed.Transcript.Len(), "exactly one error message")
	msg := lastMessage(t, failed)
	assert.Equal(t, runtime.CaptureFailedText, msg.Content)
	assert.Nil(t, msg.Action)
	assert.Empty(t, msg.Attachments)
	assert.Zero(t, f.capturer.live(), "stream released on error")

	t.Run("Retry Reacquires And Advances", func(t *testing.T) {
		next, err := f.engine.RespondStep(context.Background(), failed, domain.StepDone)
		require.NoError(t, err)
		assert.Equal(t, 2, next.State.StepIndex)
		assert.Equal(t, 2, f.capturer.acquired)
	})
}

func TestEngine_ProblemRepeatsStep(t *testing.T) {
	f := newFixture()
	sess := granted(t, f)
	frames := f.capturer.frames

	next, err := f.engine.RespondStep(context.Background(), sess, domain.StepProblem)
	require.NoError(t, err)

	assert.Equal(t, 0, next.State.StepIndex)
	assert.True(t, next.State.DetourPending)
	assert.Equal(t, frames, f.capturer.frames, "no capture on the help path")

	step0, _ := f.catalog.StepAt(0)
	msg := lastMessage(t, next)
	assert.True(t, strings.HasSuffix(msg.Content, step0.Text))
	require.NotNil(t, msg.Action)
	assert.Equal(t, domain.ActionStepResponse, msg.Action.Kind)
}

func TestEngine_ProtocolMisuse(t *testing.T) {
	f := newFixture()
	start := f.engine.Start(context.Background(), "s")

	_, err := f.engine.RespondStep(context.Background(), start, domain.StepDone)
	assert.ErrorIs(t, err, domain.ErrNoAffordance, "no step answers before permission")

	_, err = f.engine.RespondPermission(context.Background(), start, "maybe")
	assert.ErrorIs(t, err, domain.ErrInvalidResponse)

	sess := granted(t, f)
	_, err = f.engine.RespondStep(context.Background(), sess, "ok")
	assert.ErrorIs(t, err, domain.ErrInvalidResponse)
}

func TestEngine_AnalysisFailure(t *testing.T) {
	failing := analyzerFunc(func(ctx context.Context, req domain.AnalysisRequest) (string, error) {
		return analysis.NotConfiguredReply, domain.ErrAnalysisUnavailable
	})
	f := newFixtureWith(catalog.Default(), failing)
	sess := granted(t, f)

	next, err := f.engine.RespondStep(context.Background(), sess, domain.StepDone)
	require.NoError(t, err)

	assert.Equal(t, 0, next.State.StepIndex)
	assert.True(t, next.State.DetourPending)
	msg := lastMessage(t, next)
	assert.Equal(t, analysis.NotConfiguredReply, msg.Content)
	require.NotNil(t, msg.Action)
	assert.Equal(t, domain.ActionStepResponse, msg.Action.Kind)

	t.Run("Empty Reply Falls Back", func(t *testing.T) {
		silent := analyzerFunc(func(ctx context.Context, req domain.AnalysisRequest) (string, error) {
			return "", errors.New("timeout")
		})
		f := newFixtureWith(catalog.Default(), silent)
		next, err := f.engine.RespondStep(context.Background(), granted(t, f), domain.StepDone)
		require.NoError(t, err)
		assert.Equal(t, runtime.AnalysisFailedText, lastMessage(t, next).Content)
	})
}

func TestEngine_SendText(t *testing.T) {
	f := newFixture()
	start := f.engine.Start(context.Background(), "sess-1")

	sess, err := f.engine.SendText(context.Background(), start, "hello?")
	require.NoError(t, err)
	assert.Equal(t, start.Transcript.Len()+1, sess.Transcript.Len())
	msg := lastMessage(t, sess)
	assert.Equal(t, domain.RoleUser, msg.Role)
	assert.Equal(t, "hello?", msg.Content)

	sess = granted(t, f)
	before := sess.Transcript.Len()
	sess, err = f.engine.SendText(context.Background(), sess, "what now")
	require.NoError(t, err)

	msgs := sess.Transcript.Since(before)
	require.Len(t, msgs, 2)
	assert.Equal(t, domain.RoleUser, msgs[0].Role)
	assert.Equal(t, runtime.ProceedText, msgs[1].Content)
	assert.Len(t, msgs[1].Attachments, 1)
	require.NotNil(t, msgs[1].Action)
	assert.Equal(t, domain.ActionStepResponse, msgs[1].Action.Kind)
	assert.Equal(t, 0, sess.State.StepIndex)
}

func TestEngine_BusyGuard(t *testing.T) {
	f := newFixture()

	require.NoError(t, f.engine.Begin("s"))
	assert.True(t, f.engine.Processing("s"))
	assert.ErrorIs(t, f.engine.Begin("s"), domain.ErrBusy)
	assert.NoError(t, f.engine.Begin("other"), "sessions are independent")

	f.engine.End("s")
	assert.False(t, f.engine.Processing("s"))
	assert.NoError(t, f.engine.Begin("s"))
}

func TestEngine_CloseReleasesStreams(t *testing.T) {
	f := newFixture()
	granted(t, f)
	sess := f.engine.Start(context.Background(), "sess-2")
	_, err := f.engine.RespondPermission(context.Background(), sess, domain.PermissionOK)
	require.NoError(t, err)
	require.Equal(t, 2, f.capturer.live())

	f.engine.Close()
	assert.Zero(t, f.capturer.live())
	assert.False(t, f.engine.Streaming("sess-1"))
}

func TestEngine_Hooks(t *testing.T) {
	var entered []int
	var permissions []bool
	f := newFixture(runtime.WithLifecycleHooks(domain.LifecycleHooks{
		OnStepEnter:  func(_ context.Context, e *domain.StepEvent) { entered = append(entered, e.StepIndex) },
		OnPermission: func(_ context.Context, e *domain.PermissionEvent) { permissions = append(permissions, e.Granted) },
	}))

	sess := f.engine.Start(context.Background(), "s")
	sess, err := f.engine.RespondPermission(context.Background(), sess, domain.PermissionNotOK)
	require.NoError(t, err)
	sess, err = f.engine.RespondPermission(context.Background(), sess, domain.PermissionOK)
	require.NoError(t, err)
	_, err = f.engine.RespondStep(context.Background(), sess, domain.StepDone)
	require.NoError(t, err)

	assert.Equal(t, []bool{false, true}, permissions)
	assert.Equal(t, []int{0, 1}, entered)
}

func TestEngine_CustomErrorMarker(t *testing.T) {
	blurry := analyzerFunc(func(ctx context.Context, req domain.AnalysisRequest) (string, error) {
		return "The screenshot is too blurry, please retry.", nil
	})
	f := newFixtureWith(catalog.Default(), blurry, runtime.WithErrorMarker("too blurry"))
	sess := granted(t, f)

	next, err := f.engine.RespondStep(context.Background(), sess, domain.StepDone)
	require.NoError(t, err)
	assert.Equal(t, 0, next.State.StepIndex)
	assert.Contains(t, lastMessage(t, next).Content, "too blurry")
	require.NotNil(t, lastMessage(t, next).Action)
}
