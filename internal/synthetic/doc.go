// Package synthetic defines the renderer-agnostic output tree.
//
// A synthetic tree is produced by internal/engine and consumed read-only by
// renderers (DOM, native, string). Renderers dispatch purely on the node
// variant and never re-enter the evaluator.
//
// Constructors copy the maps and slices they are given; nodes are never
// mutated after construction and callers must not mutate the exported
// fields. Source values carry provenance (the originating static node id)
// for inspection tooling only.
//
// MarshalCanonical produces RFC 8785 canonical JSON so that an evaluated
// document has a stable content hash (see DocumentHash).
package synthetic
