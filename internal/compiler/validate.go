package compiler

import (
	"fmt"
	"strings"

	"github.com/roach88/synth/internal/graph"
	"github.com/roach88/synth/internal/pc"
)

// Validation error codes (E200-E299)
const (
	ErrUnresolvedReference = "E201" // instance or extension names an unknown component
	ErrDuplicateComponent  = "E202" // component id defined in more than one module
	ErrDuplicateNodeID     = "E203" // node id repeated within a module
	ErrExtensionCycle      = "E204" // extension chain loops
)

// ValidationError represents a graph validation error.
type ValidationError struct {
	Module  string `json:"module,omitempty"`
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Module != "" {
		return fmt.Sprintf("[%s] %s: %s: %s", e.Code, e.Module, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate checks a compiled graph for problems that would make
// evaluation fail or behave surprisingly.
// Returns all errors found (does not fail-fast), ordered by module.
func Validate(g *graph.Graph) []ValidationError {
	var errs []ValidationError

	owners := make(map[string][]string) // component id → defining modules
	for _, id := range g.ModuleIDs() {
		dep, err := g.ResolveModule(id)
		if err != nil {
			continue
		}
		for _, c := range dep.Module.Components() {
			owners[c.ID] = append(owners[c.ID], id)
		}
		errs = append(errs, validateModule(g, dep.Module)...)
	}

	for _, id := range g.ModuleIDs() {
		dep, _ := g.ResolveModule(id)
		for _, c := range dep.Module.Components() {
			modules := owners[c.ID]
			if len(modules) < 2 || modules[0] == id {
				continue
			}
			errs = append(errs, ValidationError{
				Module:  id,
				Field:   "component." + c.ID,
				Message: fmt.Sprintf("component %q is also defined in %s, which takes precedence", c.ID, modules[0]),
				Code:    ErrDuplicateComponent,
			})
		}
	}

	for _, cycle := range AnalyzeExtensions(g) {
		errs = append(errs, ValidationError{
			Field:   "component." + cycle.Path[0],
			Message: cycle.Message,
			Code:    ErrExtensionCycle,
		})
	}

	return errs
}

func validateModule(g *graph.Graph, module *pc.Module) []ValidationError {
	var errs []ValidationError
	seen := make(map[string]bool)

	for _, child := range module.Children {
		pc.Walk(child, func(n pc.Node) bool {
			id := n.NodeID()
			if seen[id] {
				errs = append(errs, ValidationError{
					Module:  module.ID,
					Field:   fmt.Sprintf("%s.%s", n.Kind(), id),
					Message: fmt.Sprintf("duplicate node id %q", id),
					Code:    ErrDuplicateNodeID,
				})
			}
			seen[id] = true

			if ref, ok := pc.Reference(n); ok {
				if _, found := g.Component(ref); !found {
					errs = append(errs, ValidationError{
						Module:  module.ID,
						Field:   fmt.Sprintf("%s.%s.is", n.Kind(), id),
						Message: fmt.Sprintf("unknown component %q%s", ref, suggest(g, ref)),
						Code:    ErrUnresolvedReference,
					})
				}
			}
			return true
		})
	}

	return errs
}

// suggest names a component whose id differs from ref only by case.
func suggest(g *graph.Graph, ref string) string {
	for _, id := range g.ModuleIDs() {
		dep, _ := g.ResolveModule(id)
		for _, c := range dep.Module.Components() {
			if strings.EqualFold(c.ID, ref) {
				return fmt.Sprintf(" (did you mean %q?)", c.ID)
			}
		}
	}
	return ""
}
