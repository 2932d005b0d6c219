package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/walkthrough/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleUpdate() Update {
	return Update{
		SessionID: "s1",
		Messages: []domain.Message{
			{ID: "m1", Role: domain.RoleUser, Content: "hello"},
			{ID: "m2", Role: domain.RoleAssistant, Content: "**Open** the app", Attachments: []string{"artifact:a1"}, Action: domain.NewAction(domain.ActionStepResponse)},
		},
		Offered: domain.NewAction(domain.ActionStepResponse),
	}
}

func TestTextHandler_Output(t *testing.T) {
	out := &bytes.Buffer{}
	h := NewTextHandler(strings.NewReader(""), out, WithTextHandlerRenderer(func(s string) (string, error) {
		return "Rendered: " + s, nil
	}))

	require.NoError(t, h.Output(context.Background(), sampleUpdate()))

	got := out.String()
	assert.Contains(t, got, "Rendered: **Open** the app")
	assert.Contains(t, got, "[screenshot artifact:a1]")
	assert.NotContains(t, got, "hello")
}

func TestTextHandler_InputPromptsWithOptions(t *testing.T) {
	out := &bytes.Buffer{}
	h := NewTextHandler(strings.NewReader("done\n"), out)
	require.NoError(t, h.Output(context.Background(), Update{Offered: domain.NewAction(domain.ActionStepResponse)}))
	out.Reset()

	val, err := h.Input(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "done", val)
	assert.Equal(t, "[done/problem] > ", out.String())

	_, err = h.Input(context.Background())
	assert.ErrorIs(t, err, io.EOF)
}

func TestTextHandler_RejectsOversizedInput(t *testing.T) {
	t.Setenv(EnvMaxInputSize, "8")
	out := &bytes.Buffer{}
	h := NewTextHandler(strings.NewReader("this line is too long\nshort\n"), out)

	val, err := h.Input(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "short", val)
	assert.Contains(t, out.String(), "Please try again")
}

func TestTextHandler_InputRespectsContext(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	h := NewTextHandler(pr, io.Discard)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := h.Input(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestJSONHandler(t *testing.T) {
	out := &bytes.Buffer{}
	h := NewJSONHandler(strings.NewReader("\"ok\"\nplain text\n"), out)

	require.NoError(t, h.Output(context.Background(), sampleUpdate()))
	require.NoError(t, h.SystemOutput(context.Background(), "rejected"))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)

	var decoded Update
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &decoded))
	assert.Equal(t, "s1", decoded.SessionID)
	require.Len(t, decoded.Messages, 2)
	require.NotNil(t, decoded.Offered)
	assert.Equal(t, domain.ActionStepResponse, decoded.Offered.Kind)
	assert.JSONEq(t, `{"system":"rejected"}`, lines[1])

	val, err := h.Input(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", val)

	val, err = h.Input(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "plain text", val)

	_, err = h.Input(context.Background())
	assert.ErrorIs(t, err, io.EOF)
}
