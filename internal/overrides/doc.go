// Package overrides reads the user-maintained digital release date file.
//
// Each line names a title and a date, for example "F1 August 26",
// "28 Years Later 30 july", or "Superman August 26, 2025". Every entry is
// registered under several lower-cased spellings of its title so one line
// covers colon and "The" variations. Lookups try exact keys before substring
// matches.
package overrides
