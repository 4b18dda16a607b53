// Package report renders resolved records as a terminal table, per-title
// summary lines, and a standalone HTML page with client-side status filters.
package report
