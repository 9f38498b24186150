// Package sqlite provides a SQLite-backed implementation of the chat
// session store.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO, enabling easy cross-compilation. The knowledge base itself
// is in-memory and rebuilt on startup; chat transcripts are the one thing
// worth keeping between runs.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory as .up.sql files.
//
// # Data Location
//
// By default, the database is stored at ~/.ragman/data/sessions.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking
// provided by SQLite in WAL mode.
package sqlite
