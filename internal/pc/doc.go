// Package pc provides the static node model for component documents.
//
// This package contains type definitions and read-only helpers only. The
// static tree is produced by internal/compiler (or any other front end) and
// is treated as immutable input by internal/engine; nothing in this module
// mutates a pc node after construction.
//
// Key design constraints:
//   - Node is a closed sum type; dispatch sites switch exhaustively and
//     panic on an unknown variant
//   - Node ids are unique within their owning module, not globally
//   - KeyValue values are limited to string, int64, bool, []any and
//     map[string]any so documents hash deterministically
package pc
