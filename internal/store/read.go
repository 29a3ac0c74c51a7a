package store

import (
	"context"
	"database/sql"
	"fmt"
)

const runColumns = `id, seq, module_id, source_uri, generation, document_hash, engine_version`

// ReadRun retrieves a single run by id.
// Returns sql.ErrNoRows if not found.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+runColumns+`
		FROM runs
		WHERE id = ?
	`, id)
	return scanRun(row)
}

// ListRuns returns the runs for moduleID, or every run when moduleID is
// empty, in log order.
//
// Returns an empty slice (not nil) if no runs exist.
func (s *Store) ListRuns(ctx context.Context, moduleID string) ([]Run, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if moduleID == "" {
		rows, err = s.db.QueryContext(ctx, `
			SELECT `+runColumns+`
			FROM runs
			ORDER BY seq ASC, id COLLATE BINARY ASC
		`)
	} else {
		rows, err = s.db.QueryContext(ctx, `
			SELECT `+runColumns+`
			FROM runs
			WHERE module_id = ?
			ORDER BY seq ASC, id COLLATE BINARY ASC
		`, moduleID)
	}
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	return runs, nil
}

// LatestRun returns the most recent run for moduleID.
// Returns sql.ErrNoRows if the module was never recorded.
func (s *Store) LatestRun(ctx context.Context, moduleID string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+runColumns+`
		FROM runs
		WHERE module_id = ?
		ORDER BY seq DESC, id COLLATE BINARY DESC
		LIMIT 1
	`, moduleID)
	return scanRun(row)
}

// ReadDocument returns the canonical JSON stored under hash.
// Returns sql.ErrNoRows if not found.
func (s *Store) ReadDocument(ctx context.Context, hash string) ([]byte, error) {
	var body string
	err := s.db.QueryRowContext(ctx, `SELECT body FROM documents WHERE hash = ?`, hash).Scan(&body)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("read document: %w", err)
	}
	return []byte(body), nil
}

// CountDocuments returns the number of distinct stored documents.
func (s *Store) CountDocuments(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count documents: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var (
		run        Run
		generation int64
	)
	err := row.Scan(
		&run.ID,
		&run.Seq,
		&run.ModuleID,
		&run.SourceURI,
		&generation,
		&run.DocumentHash,
		&run.EngineVersion,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	run.Generation = uint64(generation)
	return run, nil
}
