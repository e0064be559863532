// Package sqlite provides the SQLite-backed implementation of the driven
// store ports.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO, enabling easy cross-compilation. It implements both store
// interfaces through a single database connection:
//
//   - ShardStore: shard and metadata document persistence
//   - SchedulerStore: scheduled task state and history
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql
// files. Documents are stored as JSON bodies so the table layout mirrors the
// conceptual document paths referenceData/{domain} and
// referenceData/{domain}/shards/{shardId}.
//
// # Data Location
//
// By default, the database is stored at ~/.refsync/data/refdata.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking
// provided by SQLite in WAL mode.
package sqlite
