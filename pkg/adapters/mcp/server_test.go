package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/aretw0/walkthrough"
	"github.com/aretw0/walkthrough/pkg/catalog"
	"github.com/aretw0/walkthrough/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	g, err := walkthrough.New()
	require.NoError(t, err)
	t.Cleanup(g.Shutdown)
	return NewServer(g)
}

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestWalkthroughOverMCP(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	started, err := s.handleStartSession(ctx, callRequest("start_session", nil), nil)
	require.NoError(t, err)
	require.Len(t, started.Messages, 2)
	require.NotNil(t, started.Offered)
	assert.Equal(t, domain.ActionPermissionRequest, started.Offered.Kind)

	id := started.SessionID
	res, err := s.handleRespondPermission(ctx, callRequest("respond_permission", nil),
		map[string]interface{}{"session_id": id, "response": "ok"})
	require.NoError(t, err)
	assert.Equal(t, domain.PermissionGranted, res.State.Permission)
	require.Len(t, res.Messages, 1)
	assert.Equal(t, catalog.LangGraphSteps[0].Text, res.Messages[0].Content)
	assert.Equal(t, domain.ActionStepResponse, res.Offered.Kind)

	res, err = s.handleRespondStep(ctx, callRequest("respond_step", nil),
		map[string]interface{}{"session_id": id, "response": "done"})
	require.NoError(t, err)
	assert.Equal(t, 1, res.State.StepIndex)
	require.Len(t, res.Messages, 1)

	res, err = s.handleSendMessage(ctx, callRequest("send_message", nil),
		map[string]interface{}{"session_id": id, "text": "where is the download button?"})
	require.NoError(t, err)
	require.NotEmpty(t, res.Messages)
	assert.Equal(t, domain.RoleUser, res.Messages[0].Role)

	full, err := s.handleGetTranscript(ctx, callRequest("get_transcript", nil), map[string]interface{}{"session_id": id})
	require.NoError(t, err)
	assert.Greater(t, len(full.Messages), 4)
	assert.False(t, full.Completed)

	closed, err := s.handleCloseSession(ctx, callRequest("close_session", map[string]any{"session_id": id}))
	require.NoError(t, err)
	assert.False(t, closed.IsError)

	_, err = s.handleGetTranscript(ctx, callRequest("get_transcript", nil), map[string]interface{}{"session_id": id})
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestToolArgumentErrors(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	started, err := s.handleStartSession(ctx, callRequest("start_session", nil), nil)
	require.NoError(t, err)

	_, err = s.handleRespondStep(ctx, callRequest("respond_step", nil), map[string]interface{}{"response": "done"})
	assert.ErrorContains(t, err, "session_id is required")

	_, err = s.handleRespondPermission(ctx, callRequest("respond_permission", nil),
		map[string]interface{}{"session_id": started.SessionID, "response": "yes please"})
	assert.ErrorIs(t, err, domain.ErrInvalidResponse)

	_, err = s.handleRespondStep(ctx, callRequest("respond_step", nil),
		map[string]interface{}{"session_id": started.SessionID, "response": "done"})
	assert.ErrorIs(t, err, domain.ErrNoAffordance)

	_, err = s.handleSendMessage(ctx, callRequest("send_message", nil),
		map[string]interface{}{"session_id": started.SessionID, "text": strings.Repeat("x", 5000)})
	assert.ErrorContains(t, err, "input rejected")

	_, err = s.handleRespondStep(ctx, callRequest("respond_step", nil),
		map[string]interface{}{"session_id": started.SessionID, "response": 42})
	assert.ErrorContains(t, err, "invalid arguments")

	closed, err := s.handleCloseSession(ctx, callRequest("close_session", map[string]any{"session_id": "missing"}))
	require.NoError(t, err)
	assert.True(t, closed.IsError)
}

func TestListSteps(t *testing.T) {
	s := newTestServer(t)

	res, err := s.handleListSteps(context.Background(), callRequest("list_steps", nil))
	require.NoError(t, err)

	var steps []domain.InstallationStep
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &steps))
	assert.Equal(t, catalog.LangGraphSteps, steps)
}
