package compiler

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/roach88/synth/internal/graph"
)

// LoadFiles compiles each CUE file and unifies them into one value.
// Every file keeps its own filename so compile errors point at it.
func LoadFiles(paths ...string) (cue.Value, error) {
	ctx := cuecontext.New()
	value := ctx.CompileString("{}")

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return cue.Value{}, fmt.Errorf("read %s: %w", path, err)
		}
		file := ctx.CompileBytes(data, cue.Filename(path))
		if err := file.Err(); err != nil {
			return cue.Value{}, formatCUEError(err)
		}
		value = value.Unify(file)
	}

	if err := value.Validate(); err != nil {
		return cue.Value{}, formatCUEError(err)
	}
	return value, nil
}

// LoadGraphFiles loads paths and compiles the resulting graph.
func LoadGraphFiles(paths ...string) (*graph.Graph, error) {
	v, err := LoadFiles(paths...)
	if err != nil {
		return nil, err
	}
	return CompileGraph(v)
}
