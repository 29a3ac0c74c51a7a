package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/synth/internal/compiler"
	"github.com/roach88/synth/internal/engine"
	"github.com/roach88/synth/internal/graph"
	"github.com/roach88/synth/internal/store"
	"github.com/roach88/synth/internal/testutil"
)

// Harness is the scenario execution environment: an evaluator, a fresh
// in-memory store and a deterministic run id sequence.
type Harness struct {
	store     *store.Store
	evaluator *engine.Evaluator
	logger    *slog.Logger
}

// Run executes a scenario and returns the result.
//
// Execution flow:
//  1. Load and compile the scenario's CUE specs into a graph
//  2. Evaluate the scenario's module
//  3. Record the document into an in-memory store
//  4. Evaluate assertions (or check the expected error)
//
// A returned error means the scenario could not be executed at all
// (unreadable specs, compile errors, store failures). Assertion failures
// and unexpected evaluation errors are reported through Result.
func Run(scenario *Scenario) (*Result, error) {
	g, err := compiler.LoadGraphFiles(scenario.Specs...)
	if err != nil {
		return nil, fmt.Errorf("failed to compile specs: %w", err)
	}

	st, err := store.Open(":memory:", store.WithRunIDs(testutil.NewSequentialRunIDs()))
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := &Harness{
		store:     st,
		evaluator: engine.New(engine.WithLogger(logger)),
		logger:    logger,
	}

	return h.run(context.Background(), scenario, g)
}

func (h *Harness) run(ctx context.Context, scenario *Scenario, g *graph.Graph) (*Result, error) {
	result := NewResult()

	doc, err := h.evaluator.EvaluateModuleID(scenario.Module, g)
	if err != nil {
		result.ErrorCode = string(engine.ErrorCode(err))
		switch {
		case scenario.ExpectError == "":
			result.AddError(fmt.Sprintf("evaluation failed: %v", err))
		case result.ErrorCode != scenario.ExpectError:
			result.AddError(fmt.Sprintf("expected error %s, got %v", scenario.ExpectError, err))
		}
		return result, nil
	}

	if scenario.ExpectError != "" {
		result.AddError(fmt.Sprintf("expected error %s, evaluation succeeded", scenario.ExpectError))
	}

	dep, err := g.ResolveModule(scenario.Module)
	if err != nil {
		return nil, err
	}
	run, err := h.store.RecordRun(ctx, store.Run{
		ModuleID:      scenario.Module,
		SourceURI:     dep.URI,
		Generation:    g.Generation(),
		EngineVersion: engine.Version,
	}, doc)
	if err != nil {
		return nil, fmt.Errorf("failed to record run: %w", err)
	}
	h.logger.Debug("scenario evaluated", "scenario", scenario.Name, "run", run.ID, "hash", run.DocumentHash)

	result.Document = doc
	result.Run = &run

	for _, msg := range EvaluateAssertions(doc, scenario.Assertions) {
		result.AddError(msg)
	}

	return result, nil
}
