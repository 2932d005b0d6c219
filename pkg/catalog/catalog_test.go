package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/walkthrough/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := Default()
	assert.Equal(t, 19, c.Len())

	first, ok := c.StepAt(0)
	require.True(t, ok)
	assert.Equal(t, "download-langgraph-studio", first.ID)

	_, ok = c.StepAt(c.Len())
	assert.False(t, ok, "index == Len must be out of range")
	_, ok = c.StepAt(-1)
	assert.False(t, ok)

	found := false
	for _, s := range c.Steps() {
		if s.ID == DetourStepID {
			found = true
		}
	}
	assert.True(t, found, "detour step must be part of the default catalog")
	assert.Contains(t, c.Completion(), "LangGraph Studio")
}

func TestNew_RejectsBadIDs(t *testing.T) {
	_, err := New([]domain.InstallationStep{{ID: ""}})
	assert.Error(t, err)

	_, err = New([]domain.InstallationStep{{ID: "a"}, {ID: "a"}})
	assert.ErrorContains(t, err, "duplicate")
}

func TestSteps_ReturnsCopy(t *testing.T) {
	c := Default()
	steps := c.Steps()
	steps[0].Text = "tampered"

	first, _ := c.StepAt(0)
	assert.NotEqual(t, "tampered", first.Text)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	content := `
title: Example
completion: All done!
steps:
  - id: one
    text: "First **step**"
  - id: two
    text: "Run:\n\x60\x60\x60bash\nmake\n\x60\x60\x60"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Example", c.Title())
	assert.Equal(t, "All done!", c.Completion())
	assert.Equal(t, 2, c.Len())
	two, _ := c.StepAt(1)
	assert.Equal(t, "two", two.ID)
	assert.Contains(t, two.Text, "make")
	// Unset fields keep their defaults.
	assert.NotEmpty(t, c.PermissionPrompt())
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse([]byte("steps: []"))
	assert.Error(t, err)

	_, err = Parse([]byte("steps: [ {id: a}, {id: a} ]"))
	assert.Error(t, err)

	_, err = Parse([]byte(":::"))
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
