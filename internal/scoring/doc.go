// Package scoring ranks release-site search suggestions against a requested
// title. Year agreement dominates, then important-word hits and an exact title
// match. Search UI placeholders are never eligible.
package scoring
