package engine

import (
	"errors"
	"fmt"
	"strings"
)

// EvalError represents an error detected during evaluation.
//
// Evaluation errors include:
//   - Resolution: module id not found in the dependency graph
//   - Unresolved extension: a component reference is missing from the component map
//   - Cyclic extension: an extension chain revisits a component
//   - Depth exceeded: instancing nested deeper than the configured bound
type EvalError struct {
	// Code identifies the error category.
	Code EvalErrorCode

	// Message is a human-readable description.
	Message string

	// NodeID identifies the static node being evaluated, when known.
	NodeID string

	// Ref is the component reference that failed to resolve.
	Ref string

	// Chain lists component ids along an extension chain (cycle errors).
	Chain []string

	// Err is the underlying error, if any.
	Err error
}

// EvalErrorCode categorizes evaluation errors.
type EvalErrorCode string

const (
	// ErrCodeResolution indicates the module id is unknown to the graph.
	ErrCodeResolution EvalErrorCode = "RESOLUTION_FAILED"

	// ErrCodeUnresolvedExtension indicates a component reference is not in the component map.
	ErrCodeUnresolvedExtension EvalErrorCode = "UNRESOLVED_EXTENSION"

	// ErrCodeCyclicExtension indicates an extension chain loops back on itself.
	ErrCodeCyclicExtension EvalErrorCode = "CYCLIC_EXTENSION"

	// ErrCodeDepthExceeded indicates instancing exceeded Config.MaxDepth.
	ErrCodeDepthExceeded EvalErrorCode = "DEPTH_EXCEEDED"
)

// Error implements the error interface.
func (e *EvalError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", e.Code, e.Message)
	if e.NodeID != "" {
		fmt.Fprintf(&b, " (node=%s)", e.NodeID)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *EvalError) Unwrap() error {
	return e.Err
}

func hasCode(err error, code EvalErrorCode) bool {
	var ee *EvalError
	if errors.As(err, &ee) {
		return ee.Code == code
	}
	return false
}

// IsResolutionError returns true if the module could not be resolved.
func IsResolutionError(err error) bool { return hasCode(err, ErrCodeResolution) }

// IsUnresolvedExtensionError returns true if a component reference was missing.
func IsUnresolvedExtensionError(err error) bool { return hasCode(err, ErrCodeUnresolvedExtension) }

// IsCyclicExtensionError returns true if an extension cycle was detected.
func IsCyclicExtensionError(err error) bool { return hasCode(err, ErrCodeCyclicExtension) }

// IsDepthError returns true if the instancing depth bound was exceeded.
func IsDepthError(err error) bool { return hasCode(err, ErrCodeDepthExceeded) }

// ErrorCode extracts the code from an evaluation error, or "" if err is
// not an EvalError.
func ErrorCode(err error) EvalErrorCode {
	var ee *EvalError
	if errors.As(err, &ee) {
		return ee.Code
	}
	return ""
}

// NewResolutionError creates an EvalError for an unknown module.
func NewResolutionError(moduleID string, err error) *EvalError {
	return &EvalError{
		Code:    ErrCodeResolution,
		Message: fmt.Sprintf("cannot resolve module %q", moduleID),
		Err:     err,
	}
}

// NewUnresolvedExtensionError creates an EvalError for a missing reference.
func NewUnresolvedExtensionError(nodeID, ref string) *EvalError {
	return &EvalError{
		Code:    ErrCodeUnresolvedExtension,
		Message: fmt.Sprintf("component %q not found", ref),
		NodeID:  nodeID,
		Ref:     ref,
	}
}

// NewCyclicExtensionError creates an EvalError for an extension cycle.
// chain ends with the repeated component.
func NewCyclicExtensionError(chain []string) *EvalError {
	return &EvalError{
		Code:    ErrCodeCyclicExtension,
		Message: fmt.Sprintf("extension cycle: %s", strings.Join(chain, " → ")),
		NodeID:  chain[0],
		Chain:   chain,
	}
}

// NewDepthError creates an EvalError for exceeding the depth bound.
func NewDepthError(nodeID string, depth, maxDepth int) *EvalError {
	return &EvalError{
		Code:    ErrCodeDepthExceeded,
		Message: fmt.Sprintf("instancing depth exceeded (%d > %d)", depth, maxDepth),
		NodeID:  nodeID,
	}
}
