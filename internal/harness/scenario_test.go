package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeScenario writes a scenario file and a placeholder spec next to it.
func writeScenario(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ui.cue"), []byte("// placeholder module"), 0644))
	path := filepath.Join(dir, "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadScenario_ValidFile(t *testing.T) {
	path := writeScenario(t, `
name: override
description: "Overrides replace text"
specs:
  - ui.cue
module: ui
assertions:
  - type: text_equals
    path: "1.0.0"
    value: Go
  - type: style_equals
    path: "1.0"
    property: padding
    value: 4
`)

	scenario, err := LoadScenario(path)
	require.NoError(t, err)

	assert.Equal(t, "override", scenario.Name)
	assert.Equal(t, "ui", scenario.Module)
	require.Len(t, scenario.Specs, 1)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "ui.cue"), scenario.Specs[0])
	require.Len(t, scenario.Assertions, 2)
	assert.Equal(t, AssertTextEquals, scenario.Assertions[0].Type)
	assert.Equal(t, "Go", scenario.Assertions[0].Value)
	assert.Equal(t, 4, scenario.Assertions[1].Value)
}

func TestLoadScenario_ExpectError(t *testing.T) {
	path := writeScenario(t, `
name: cycle
description: "Cycles fail"
specs: [ui.cue]
module: ui
expect_error: CYCLIC_EXTENSION
`)

	scenario, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, "CYCLIC_EXTENSION", scenario.ExpectError)
	assert.Empty(t, scenario.Assertions)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario("/nonexistent/scenario.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenario_UnknownField(t *testing.T) {
	path := writeScenario(t, `
name: typo
description: "Typo in assertions"
specs: [ui.cue]
module: ui
assertion:
  - type: children_count
    count: 1
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestLoadScenario_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "missing name",
			content: "description: d\nspecs: [ui.cue]\nmodule: ui\nassertions: [{type: children_count, count: 1}]\n",
			want:    "name is required",
		},
		{
			name:    "missing description",
			content: "name: n\nspecs: [ui.cue]\nmodule: ui\nassertions: [{type: children_count, count: 1}]\n",
			want:    "description is required",
		},
		{
			name:    "missing specs",
			content: "name: n\ndescription: d\nmodule: ui\nassertions: [{type: children_count, count: 1}]\n",
			want:    "specs list is required",
		},
		{
			name:    "missing module",
			content: "name: n\ndescription: d\nspecs: [ui.cue]\nassertions: [{type: children_count, count: 1}]\n",
			want:    "module is required",
		},
		{
			name:    "no assertions",
			content: "name: n\ndescription: d\nspecs: [ui.cue]\nmodule: ui\n",
			want:    "assertions list is required",
		},
		{
			name:    "assertions with expect_error",
			content: "name: n\ndescription: d\nspecs: [ui.cue]\nmodule: ui\nexpect_error: DEPTH_EXCEEDED\nassertions: [{type: children_count, count: 1}]\n",
			want:    "cannot be combined",
		},
		{
			name:    "spec not found",
			content: "name: n\ndescription: d\nspecs: [missing.cue]\nmodule: ui\nassertions: [{type: children_count, count: 1}]\n",
			want:    "spec file not found",
		},
		{
			name:    "unknown assertion type",
			content: "name: n\ndescription: d\nspecs: [ui.cue]\nmodule: ui\nassertions: [{type: trace_contains, path: \"0\"}]\n",
			want:    `unknown assertion type "trace_contains"`,
		},
		{
			name:    "element_is without is",
			content: "name: n\ndescription: d\nspecs: [ui.cue]\nmodule: ui\nassertions: [{type: element_is, path: \"0\"}]\n",
			want:    "is is required",
		},
		{
			name:    "text_equals without string",
			content: "name: n\ndescription: d\nspecs: [ui.cue]\nmodule: ui\nassertions: [{type: text_equals, path: \"0\", value: 3}]\n",
			want:    "value must be a string",
		},
		{
			name:    "style_equals without property",
			content: "name: n\ndescription: d\nspecs: [ui.cue]\nmodule: ui\nassertions: [{type: style_equals, path: \"0\", value: red}]\n",
			want:    "property is required",
		},
		{
			name:    "bad path",
			content: "name: n\ndescription: d\nspecs: [ui.cue]\nmodule: ui\nassertions: [{type: element_is, path: \"0.x\", is: div}]\n",
			want:    "is not a child index",
		},
		{
			name:    "empty path",
			content: "name: n\ndescription: d\nspecs: [ui.cue]\nmodule: ui\nassertions: [{type: element_is, is: div}]\n",
			want:    "path is required for element_is",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadScenario(writeScenario(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid scenario")
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadScenario_TestdataFiles(t *testing.T) {
	files, err := filepath.Glob("testdata/scenarios/*.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, file := range files {
		t.Run(filepath.Base(file), func(t *testing.T) {
			_, err := LoadScenario(file)
			require.NoError(t, err)
		})
	}
}
