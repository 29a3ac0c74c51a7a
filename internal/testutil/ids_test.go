package testutil

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequentialRunIDs_Sequence(t *testing.T) {
	ids := NewSequentialRunIDs()

	assert.Equal(t, "00000000-0000-7000-8000-000000000001", ids.Generate())
	assert.Equal(t, "00000000-0000-7000-8000-000000000002", ids.Generate())

	ids.Reset()
	assert.Equal(t, "00000000-0000-7000-8000-000000000001", ids.Generate())
}

func TestSequentialRunIDs_ValidUUIDv7(t *testing.T) {
	id, err := uuid.Parse(NewSequentialRunIDs().Generate())
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), id.Version())
}

func TestSequentialRunIDs_ThreadSafe(t *testing.T) {
	ids := NewSequentialRunIDs()

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		seen = make(map[string]bool)
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := ids.Generate()
			mu.Lock()
			seen[id] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, seen, 50)
}
