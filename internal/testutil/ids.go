package testutil

import (
	"fmt"
	"sync"
)

// SequentialRunIDs hands out predictable run ids in UUID form.
//
// The n-th call to Generate returns
//
//	00000000-0000-7000-8000-<n as 12 hex digits>
//
// so golden output that embeds run ids stays byte-identical between runs.
//
// Thread-safety: safe for concurrent use.
type SequentialRunIDs struct {
	mu sync.Mutex
	n  uint64
}

// NewSequentialRunIDs creates a generator whose first id ends in ...0001.
func NewSequentialRunIDs() *SequentialRunIDs {
	return &SequentialRunIDs{}
}

// Generate returns the next id.
func (g *SequentialRunIDs) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("00000000-0000-7000-8000-%012x", g.n)
}

// Reset restarts the sequence.
func (g *SequentialRunIDs) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n = 0
}
