// Package titles expands a requested movie title into the search strings tried
// against the release site, from the most specific form down to bare keywords.
package titles
