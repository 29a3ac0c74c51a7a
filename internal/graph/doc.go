// Package graph implements the dependency graph consumed by the evaluator.
//
// A Graph maps module ids to their canonical URI and parsed module, and
// resolves the component names used inside a node's subtree to the
// component definitions (and their owning module URIs) they refer to.
//
// Graphs carry a generation counter. Every Add advances it, which is the
// explicit invalidation signal for memoized evaluation results keyed on a
// graph: entries computed at an older generation are never served again.
// Mutating a *pc.Module in place after it has been added is not detected.
package graph
