package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/synth/internal/synthetic"
	"github.com/roach88/synth/internal/testutil"
)

// createTestStore creates a new store in a temp directory with predictable
// run ids.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path, WithRunIDs(testutil.NewSequentialRunIDs()))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestDocument builds a one-element document whose tag varies the hash.
func createTestDocument(tag string) *synthetic.Document {
	el := synthetic.NewElement(tag, &synthetic.Source{NodeID: "e"}, nil, nil, nil, "", synthetic.Flags{IsContentNode: true}, nil)
	return synthetic.NewDocument(&synthetic.Source{NodeID: "m"}, []synthetic.VisibleNode{el})
}
