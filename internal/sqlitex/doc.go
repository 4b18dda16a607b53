// Package sqlitex holds the SQLite plumbing shared by the Ombi request reader
// and the run history store: connection setup with pragmas on the pure-Go
// modernc driver, and retry with backoff on SQLITE_BUSY.
package sqlitex
