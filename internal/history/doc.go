// Package history keeps a SQLite log of check runs so each run can report
// which titles changed status since the previous one.
//
// Schema changes bump the version in store.go; users delete the database to
// adopt the new schema.
package history
