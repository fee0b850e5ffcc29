// Package keys reads PRISM key files into typed records.
//
// A key file holds one segment per line with the sixteen columns of the
// FIELDS dictionary separated by whitespace. Records from several databases
// are merged into a Table keyed by unique segment name; exact duplicate rows
// collapse into one, and rows that reuse a name with different content are
// kept out of the table and reported as conflicts.
package keys
