package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadErrorCode(t *testing.T, err error) string {
	t.Helper()
	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr), "expected *LoadError, got %T", err)
	return loadErr.Code
}

func TestLoadModules_Valid(t *testing.T) {
	dir := writeModules(t, map[string]string{"ui.cue": uiModule, "loop.cue": cycleModule})

	result, err := LoadModules(dir)
	require.NoError(t, err)
	assert.Equal(t, 2, result.FileCount)
	assert.Equal(t, []string{"loop", "ui"}, result.Graph.ModuleIDs())
	assert.True(t, result.CUEValue.Exists())
}

func TestLoadModules_Errors(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		code  string
	}{
		{"no files", map[string]string{}, ErrCodeNoFiles},
		{"syntax error", map[string]string{"bad.cue": "package ui\nmodule: {"}, ErrCodeLoadFailed},
		{"conflict", map[string]string{"a.cue": "package ui\nx: 1\nx: 2\n"}, ErrCodeBuildFailed},
		{"no module field", map[string]string{"a.cue": "package ui\nx: 1\n"}, ErrCodeModule},
		{"empty module field", map[string]string{"a.cue": "package ui\nmodule: {}\n"}, ErrCodeNoModules},
		{"missing uri", map[string]string{"a.cue": "package ui\nmodule: m: children: []\n"}, ErrCodeModule},
		{"missing kind", map[string]string{"a.cue": "package ui\nmodule: m: {uri: \"file:///m.pc\", children: [{id: \"a\"}]}\n"}, ErrCodeNodeKind},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadModules(writeModules(t, tt.files))
			require.Error(t, err)
			assert.Equal(t, tt.code, loadErrorCode(t, err))
		})
	}
}

func TestLoadModules_NotFound(t *testing.T) {
	_, err := LoadModules("/nonexistent/modules")
	require.Error(t, err)
	assert.Equal(t, ErrCodeNotFound, loadErrorCode(t, err))
	assert.Contains(t, err.Error(), "not found")
}

func TestMapFieldToErrorCode(t *testing.T) {
	tests := map[string]string{
		"module":                        ErrCodeModule,
		"module.ui.uri":                 ErrCodeModule,
		"module.ui.children[0].kind":    ErrCodeNodeKind,
		"module.ui.children[0].id":      ErrCodeNodeID,
		"node.property":                 ErrCodeOverride,
		"node.target":                   ErrCodeOverride,
		"node.value":                    ErrCodeInvalidType,
		"module.ui.children[1].style":   ErrCodeInvalidType,
		"module.ui.children[1].unknown": ErrCodeGeneric,
		"cue":                           ErrCodeGeneric,
	}
	for field, want := range tests {
		assert.Equal(t, want, MapFieldToErrorCode(field), field)
	}
}
