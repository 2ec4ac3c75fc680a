// Package sqlite provides the SQLite-backed case history record.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files;
// applied versions are recorded in schema_migrations.
//
// # Data Location
//
// There is no default location. The database file lives wherever the caller
// says, and nothing is written unless a caller opens a store.
package sqlite
