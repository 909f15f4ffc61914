// Package manifest persists batch-run history in SQLite.
//
// The Store records one row per batch run and one row per processed case so
// operators can audit prior invocations (`regbet runs`). It is deliberately
// an audit trail, not pipeline state: case completeness is always recomputed
// from output artifacts on disk, which keeps crashed runs resumable even if
// the database is deleted. Schema changes bump the version in schema.go;
// users clear the database to adopt the new schema.
package manifest
