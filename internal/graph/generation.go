package graph

import "sync/atomic"

// Generation is a monotonic counter identifying a graph revision.
//
// Thread-safety: Generation is safe for concurrent use (atomic operations).
type Generation struct {
	n atomic.Uint64
}

// Advance increments the generation and returns the new value.
func (g *Generation) Advance() uint64 {
	return g.n.Add(1)
}

// Current returns the current generation without advancing it.
func (g *Generation) Current() uint64 {
	return g.n.Load()
}
