// Package queue persists pipeline items in SQLite and exposes helpers for
// driving their lifecycle.
//
// The Store manages database connections, schema initialization, stats
// queries, stuck-item recovery, and stage transitions that mirror the
// pipeline state machine. Items capture source identity, artifact
// references, progress, and error state so stages can coordinate without
// additional shared state.
//
// Treat this package as the single source of truth for stage semantics; when
// you add new stages or fields, update schema.sql and bump schemaVersion.
package queue
