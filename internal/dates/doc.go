// Package dates turns the loosely formatted release dates found on tracking
// pages, request rows, and override files into a single calendar Date type.
//
// Normalize never fails loudly: anything it cannot read is reported as an
// unknown date so callers can fall through to their next source.
package dates
