// Package engine resolves pending movie requests into release records.
//
// For each title it walks the search variants against a release site session,
// scores the suggestions, extracts dates from the chosen page, fills a missing
// digital date from the override table, and classifies availability. Metadata
// enrichment decorates the record but never changes its dates. Run processes a
// batch with one exclusive site session per worker and keeps input order.
package engine
