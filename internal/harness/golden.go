package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/synth/internal/synthetic"
)

// Snapshot captures a scenario's evaluated document.
// All fields use canonical JSON serialization for deterministic comparison.
type Snapshot struct {
	ScenarioName string
	Module       string
	Result       *Result
}

// toCanonicalMap converts a Snapshot to a map[string]any for canonical JSON
// serialization.
func (s *Snapshot) toCanonicalMap() map[string]any {
	m := map[string]any{
		"scenario_name": s.ScenarioName,
		"module":        s.Module,
	}
	if s.Result.ErrorCode != "" {
		m["error_code"] = s.Result.ErrorCode
	}
	if s.Result.Run != nil {
		m["run_id"] = s.Result.Run.ID
		m["document_hash"] = s.Result.Run.DocumentHash
	}
	if s.Result.Document != nil {
		m["document"] = synthetic.ToCanonical(s.Result.Document)
	}
	return m
}

// MarshalCanonical returns the snapshot's golden file contents.
func (s *Snapshot) MarshalCanonical() ([]byte, error) {
	return synthetic.MarshalCanonical(s.toCanonicalMap())
}

// RunWithGolden executes a scenario and compares its snapshot against a
// golden file stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns the result so callers can also check Pass. Returns error if the
// scenario could not be executed. Test failure (via goldie) occurs if the
// snapshot doesn't match the golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}

	if err := AssertGolden(t, scenario.Name, scenario.Module, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result against a golden file without
// re-running the scenario.
func AssertGolden(t *testing.T, scenarioName, module string, result *Result) error {
	t.Helper()

	snapshot := Snapshot{ScenarioName: scenarioName, Module: module, Result: result}
	data, err := snapshot.MarshalCanonical()
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)

	return nil
}
