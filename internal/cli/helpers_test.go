package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"
)

func init() {
	color.NoColor = true
}

const uiModule = `package ui

module: ui: {
	uri: "file:///proj/ui.pc"
	children: [{
		kind: "component"
		id:   "Button"
		is:   "button"
		style: color: "blue"
		children: [{kind: "text", id: "label", value: "Click"}]
	}, {
		kind: "element"
		id:   "page"
		is:   "div"
		children: [{
			kind: "instance"
			id:   "b1"
			is:   "Button"
			children: [{kind: "override", id: "o1", property: "text", target: ["label"], value: "Go"}]
		}]
	}]
}
`

const cycleModule = `package ui

module: loop: {
	uri: "file:///proj/loop.pc"
	children: [
		{kind: "component", id: "X", is: "Y", extends: true},
		{kind: "component", id: "Y", is: "X", extends: true},
	]
}
`

// writeModules writes each file into a fresh directory and returns it.
func writeModules(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	return dir
}

// execute runs the root command with args and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}
