package runner_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/walkthrough"
	"github.com/aretw0/walkthrough/internal/runtime"
	"github.com/aretw0/walkthrough/pkg/catalog"
	"github.com/aretw0/walkthrough/pkg/domain"
	"github.com/aretw0/walkthrough/pkg/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGuide(t *testing.T) *walkthrough.Guide {
	t.Helper()
	cat, err := catalog.New([]domain.InstallationStep{
		{ID: "download", Text: "Download the installer."},
		{ID: "launch", Text: "Launch the app."},
	}, catalog.WithWelcome("Hi there."), catalog.WithCompletion("All done."))
	require.NoError(t, err)

	g, err := walkthrough.New(walkthrough.WithCatalog(cat))
	require.NoError(t, err)
	t.Cleanup(g.Shutdown)
	return g
}

func run(t *testing.T, r *runner.Runner) *domain.Session {
	t.Helper()
	done := make(chan *domain.Session, 1)
	go func() {
		sess, err := r.Run(context.Background())
		assert.NoError(t, err)
		done <- sess
	}()

	select {
	case sess := <-done:
		return sess
	case <-time.After(5 * time.Second):
		t.Fatal("runner did not finish")
		return nil
	}
}

func TestRunner_CompletesWalkthrough(t *testing.T) {
	g := newGuide(t)
	input := strings.NewReader("what is this?\nno\nok\nproblem\ndone\nd\n")
	out := &bytes.Buffer{}

	r := runner.NewRunner(g, runner.WithInputHandler(runner.NewTextHandler(input, out)))
	sess := run(t, r)

	require.NotNil(t, sess)
	assert.True(t, sess.State.Completed())

	got := out.String()
	assert.Contains(t, got, "Hi there.")
	assert.Contains(t, got, runtime.DeclinedText)
	assert.Contains(t, got, runtime.ProblemPrefix+"Download the installer.")
	assert.Contains(t, got, "Launch the app.")
	assert.Contains(t, got, "All done.")
	assert.Contains(t, got, "[ok/not-ok] > ")
	assert.Contains(t, got, "[done/problem] > ")

	first := sess.Transcript.Messages()[2]
	assert.Equal(t, domain.RoleUser, first.Role)
	assert.Equal(t, "what is this?", first.Content)
}

func TestRunner_QuitAndResume(t *testing.T) {
	g := newGuide(t)

	r := runner.NewRunner(g, runner.WithInputHandler(runner.NewTextHandler(strings.NewReader("ok\nquit\ndone\n"), &bytes.Buffer{})))
	sess := run(t, r)
	require.NotNil(t, sess)
	assert.Equal(t, 0, sess.State.StepIndex)
	assert.Equal(t, domain.PermissionGranted, sess.State.Permission)

	out := &bytes.Buffer{}
	r = runner.NewRunner(g,
		runner.WithSessionID(sess.ID),
		runner.WithInputHandler(runner.NewTextHandler(strings.NewReader("done\ndone\n"), out)),
	)
	resumed := run(t, r)
	assert.Equal(t, sess.ID, resumed.ID)
	assert.True(t, resumed.State.Completed())
	assert.Contains(t, out.String(), "Download the installer.", "resume replays the transcript")
}

func TestRunner_UnknownSessionStartsFresh(t *testing.T) {
	g := newGuide(t)
	r := runner.NewRunner(g,
		runner.WithSessionID("gone"),
		runner.WithInputHandler(runner.NewTextHandler(strings.NewReader(""), &bytes.Buffer{})),
	)
	sess := run(t, r)
	require.NotNil(t, sess)
	assert.NotEqual(t, "gone", sess.ID)
}

func TestRunner_CloseOnExit(t *testing.T) {
	g := newGuide(t)
	r := runner.NewRunner(g,
		runner.WithCloseOnExit(true),
		runner.WithInputHandler(runner.NewTextHandler(strings.NewReader("ok\n"), &bytes.Buffer{})),
	)
	sess := run(t, r)

	_, err := g.Session(context.Background(), sess.ID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestRunner_JSONMode(t *testing.T) {
	g := newGuide(t)
	out := &bytes.Buffer{}
	r := runner.NewRunner(g, runner.WithInputHandler(runner.NewJSONHandler(strings.NewReader("\"ok\"\n\"done\"\n\"done\"\n"), out)))
	sess := run(t, r)
	assert.True(t, sess.State.Completed())

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 4)

	var last runner.Update
	require.NoError(t, json.Unmarshal([]byte(lines[3]), &last))
	assert.Nil(t, last.Offered)
	require.Len(t, last.Messages, 1)
	assert.Equal(t, "All done.", last.Messages[0].Content)
}
