// Package keystore caches parsed PRISM key tables in SQLite so protocol
// commands can skip re-reading every key file.
//
// Imports replace the whole cache in a single transaction and are serialised
// across processes with a file lock next to the database. Each import is
// recorded with a run identifier, the databases it covered, and its
// duplicate and conflict counts. The schema is versioned; a cache written by
// a different schema version is rejected with ErrSchemaMismatch and must be
// re-imported.
package keystore
