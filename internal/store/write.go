package store

import (
	"context"
	"fmt"

	"github.com/roach88/synth/internal/synthetic"
)

// Run is one recorded evaluation.
type Run struct {
	ID            string `json:"id"`
	Seq           int64  `json:"seq"`
	ModuleID      string `json:"module_id"`
	SourceURI     string `json:"source_uri"`
	Generation    uint64 `json:"generation"`
	DocumentHash  string `json:"document_hash"`
	EngineVersion string `json:"engine_version,omitempty"`
}

// RecordRun stores doc and appends a run pointing at it.
//
// The document is content-addressed: inserting an identical document is a
// no-op (ON CONFLICT DO NOTHING). ID, Seq and DocumentHash are assigned
// here; an ID already set on run is kept, which makes re-recording the same
// run idempotent.
func (s *Store) RecordRun(ctx context.Context, run Run, doc *synthetic.Document) (Run, error) {
	body, hash, err := marshalDocument(doc)
	if err != nil {
		return Run{}, fmt.Errorf("record run: %w", err)
	}
	if run.ID == "" {
		run.ID = s.ids.Generate()
	}
	run.DocumentHash = hash

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, fmt.Errorf("record run: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO documents (hash, body)
		VALUES (?, ?)
		ON CONFLICT(hash) DO NOTHING
	`, hash, body); err != nil {
		return Run{}, fmt.Errorf("record run: write document: %w", err)
	}

	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM runs`).Scan(&run.Seq); err != nil {
		return Run{}, fmt.Errorf("record run: next seq: %w", err)
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, seq, module_id, source_uri, generation, document_hash, engine_version)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		run.ID,
		run.Seq,
		run.ModuleID,
		run.SourceURI,
		int64(run.Generation),
		run.DocumentHash,
		run.EngineVersion,
	)
	if err != nil {
		return Run{}, fmt.Errorf("record run: write run: %w", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		// Already recorded; report the stored row.
		if err := tx.Commit(); err != nil {
			return Run{}, fmt.Errorf("record run: commit: %w", err)
		}
		return s.ReadRun(ctx, run.ID)
	}

	if err := tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("record run: commit: %w", err)
	}
	return run, nil
}
