// Package engine evaluates static component documents into synthetic trees.
//
// The evaluator walks the static tree top-down, expands component
// instances, substitutes extended components ("is-a") and merges override
// declarations keyed by instance path, emitting immutable synthetic nodes
// bottom-up.
//
// ARCHITECTURE:
//
// Evaluator: owns configuration and the evaluation Cache. It is safe for
// concurrent use; independent evaluations touch disjoint registries.
//
// Evaluation flow for one content node:
//  1. A fresh Registry (instance path -> pending override) is allocated
//  2. The extension table for the node's component map is resolved once:
//     every component's extension chain flattened and cycle-checked
//  3. evaluateComponentInstance walks a pre-validated chain, registering
//     overrides at each link before any child is evaluated
//  4. Children come from the registry when one was registered for the
//     path, otherwise from the terminal node's own children
//  5. The registry is discarded; the synthetic subtree is returned
//
// CRITICAL PATTERNS:
//
// Register-before-descend: override declarations reachable from a node are
// registered before its children are evaluated, so nested instances see
// overrides addressed to their own paths.
//
// Merge precedence: style and attributes merge with the existing entry
// winning per key; children, text and label are first-registration-wins.
// The asymmetry changes rendered output and is kept exactly.
//
// Bounded recursion: extension cycles are reported as CYCLIC_EXTENSION and
// instancing deeper than Config.MaxDepth as DEPTH_EXCEEDED, never as a
// stack overflow.
package engine
