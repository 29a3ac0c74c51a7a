package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const brokenModule = `package ui

module: broken: {
	uri: "file:///proj/broken.pc"
	children: [{
		kind: "element"
		id:   "page"
		is:   "div"
		children: [
			{kind: "instance", id: "i1", is: "button"},
			{kind: "text", id: "page", value: "dup"},
		]
	}]
}
`

func TestValidate_Valid(t *testing.T) {
	dir := writeModules(t, map[string]string{"ui.cue": uiModule})

	out, err := execute(t, "validate", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ 1 module(s) valid")
}

func TestValidate_ValidJSON(t *testing.T) {
	dir := writeModules(t, map[string]string{"ui.cue": uiModule})

	out, err := execute(t, "--format", "json", "validate", dir)
	require.NoError(t, err)

	var resp struct {
		Status string           `json:"status"`
		Data   ValidationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Data.Valid)
	assert.Equal(t, []string{"ui"}, resp.Data.Modules)
}

func TestValidate_Failures(t *testing.T) {
	dir := writeModules(t, map[string]string{"broken.cue": brokenModule, "loop.cue": cycleModule})

	out, err := execute(t, "--format", "json", "validate", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp struct {
		Status string           `json:"status"`
		Data   ValidationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.False(t, resp.Data.Valid)

	codes := map[string]bool{}
	for _, e := range resp.Data.Errors {
		codes[e.Code] = true
	}
	assert.True(t, codes["E201"], "unresolved reference: %v", resp.Data.Errors)
	assert.True(t, codes["E203"], "duplicate node id: %v", resp.Data.Errors)
	assert.True(t, codes["E204"], "extension cycle: %v", resp.Data.Errors)
}

func TestValidate_FailuresText(t *testing.T) {
	dir := writeModules(t, map[string]string{"broken.cue": brokenModule})

	out, err := execute(t, "validate", dir)
	require.Error(t, err)
	assert.Contains(t, out, "✗ Validation failed")
	assert.Contains(t, out, "[E201] broken:")
}

func TestValidate_NonExistentDirectory(t *testing.T) {
	out, err := execute(t, "validate", "/nonexistent/directory/path")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), ErrCodeNotFound)
	assert.Contains(t, out, "not found")
}

func TestValidate_EmptyDirectory(t *testing.T) {
	_, err := execute(t, "validate", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrCodeNoFiles)
}
