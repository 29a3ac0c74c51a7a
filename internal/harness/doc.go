// Package harness runs evaluation scenarios against the engine.
//
// A scenario names CUE spec files, the module to evaluate and a list of
// assertions over the resulting synthetic document:
//
//	name: button-override
//	description: instance overrides replace the component's text
//	specs: [specs/button.cue]
//	module: ui
//	assertions:
//	  - type: text_equals
//	    path: "1.0.0"
//	    value: Go
//
// Paths are dot-separated child indices from the document root. A
// scenario may instead expect evaluation to fail with expect_error, given
// as an engine error code (e.g. CYCLIC_EXTENSION).
//
// Each run records its document into a fresh in-memory store with
// sequential run ids so golden snapshots are byte-identical across runs.
// Golden files live in testdata/golden; regenerate them with
//
//	go test ./internal/harness -update
package harness
