package harness

import (
	"github.com/roach88/synth/internal/store"
	"github.com/roach88/synth/internal/synthetic"
)

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall scenario success.
	Pass bool `json:"pass"`

	// Document is the evaluated tree, nil when evaluation failed.
	Document *synthetic.Document `json:"-"`

	// Run is the recorded evaluation, nil when evaluation failed.
	Run *store.Run `json:"run,omitempty"`

	// ErrorCode is the engine error code when evaluation failed.
	ErrorCode string `json:"error_code,omitempty"`

	// Errors contains assertion failure messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Errors: []string{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
