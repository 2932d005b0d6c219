package domain

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActionKind_Options(t *testing.T) {
	assert.Equal(t, []string{"ok", "not-ok"}, ActionPermissionRequest.Options())
	assert.Equal(t, []string{"done", "problem"}, ActionStepResponse.Options())
	assert.Nil(t, ActionKind("bogus").Options())

	assert.True(t, ActionStepResponse.Accepts("problem"))
	assert.False(t, ActionStepResponse.Accepts("ok"))
	assert.False(t, ActionPermissionRequest.Accepts("done"))
}

func TestAction_JSON(t *testing.T) {
	data, err := json.Marshal(NewAction(ActionStepResponse))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"step-response","options":["done","problem"]}`, string(data))

	t.Run("options are derived, not trusted", func(t *testing.T) {
		var a Action
		require.NoError(t, json.Unmarshal([]byte(`{"type":"permission-request","options":["done"]}`), &a))
		assert.Equal(t, ActionPermissionRequest, a.Kind)
		assert.Equal(t, []string{"ok", "not-ok"}, a.Options())
	})

	t.Run("unknown type rejected", func(t *testing.T) {
		var a Action
		assert.Error(t, json.Unmarshal([]byte(`{"type":"launch-missiles"}`), &a))
	})
}

func TestParseResponses(t *testing.T) {
	p, err := ParsePermissionResponse("not-ok")
	require.NoError(t, err)
	assert.Equal(t, PermissionNotOK, p)

	_, err = ParsePermissionResponse("done")
	assert.True(t, errors.Is(err, ErrInvalidResponse))

	s, err := ParseStepResponse("done")
	require.NoError(t, err)
	assert.Equal(t, StepDone, s)

	_, err = ParseStepResponse("")
	assert.ErrorIs(t, err, ErrInvalidResponse)
}
