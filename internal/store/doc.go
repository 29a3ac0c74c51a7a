// Package store provides SQLite-backed durable storage for evaluation runs.
//
// The store is an append-only log with two tables:
//   - documents: content-addressed canonical JSON of evaluated documents
//   - runs: one row per evaluation, pointing at the document it produced
//
// Identical documents are stored once; re-evaluating an unchanged module
// appends a run that references the existing document row.
//
// # Ordering
//
// Runs are ordered by seq, a per-database logical clock assigned inside
// the insert transaction, with id as a BINARY-collated tiebreak:
//
//	ORDER BY seq ASC, id COLLATE BINARY ASC
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Document hashes are computed by synthetic.HashCanonical over the
// RFC 8785 canonical form.
package store
