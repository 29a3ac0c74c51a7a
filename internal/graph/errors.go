package graph

import (
	"errors"
	"fmt"
)

// NotFoundError is returned when a module id is not part of the graph.
type NotFoundError struct {
	ModuleID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("module %q not found in dependency graph", e.ModuleID)
}

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
