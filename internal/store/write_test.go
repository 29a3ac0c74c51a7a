package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/synth/internal/synthetic"
)

func TestRecordRun_AssignsIDSeqAndHash(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	doc := createTestDocument("div")

	run, err := s.RecordRun(ctx, Run{ModuleID: "m", SourceURI: "file:///m.pc", Generation: 3}, doc)
	require.NoError(t, err)

	assert.Equal(t, "00000000-0000-7000-8000-000000000001", run.ID)
	assert.Equal(t, int64(1), run.Seq)
	assert.Equal(t, synthetic.MustDocumentHash(doc), run.DocumentHash)
	assert.Equal(t, uint64(3), run.Generation)
}

func TestRecordRun_DeduplicatesDocuments(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	first, err := s.RecordRun(ctx, Run{ModuleID: "m", SourceURI: "file:///m.pc"}, createTestDocument("div"))
	require.NoError(t, err)
	second, err := s.RecordRun(ctx, Run{ModuleID: "m", SourceURI: "file:///m.pc"}, createTestDocument("div"))
	require.NoError(t, err)

	assert.Equal(t, first.DocumentHash, second.DocumentHash)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, int64(2), second.Seq)

	n, err := s.CountDocuments(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRecordRun_IdempotentOnID(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	run := Run{ID: "run-1", ModuleID: "m", SourceURI: "file:///m.pc"}

	first, err := s.RecordRun(ctx, run, createTestDocument("div"))
	require.NoError(t, err)
	again, err := s.RecordRun(ctx, run, createTestDocument("div"))
	require.NoError(t, err)

	assert.Equal(t, first, again)

	runs, err := s.ListRuns(ctx, "")
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestRecordRun_NilDocument(t *testing.T) {
	s := createTestStore(t)

	_, err := s.RecordRun(context.Background(), Run{ModuleID: "m"}, nil)
	assert.Error(t, err)
}
