package report

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/cases"

	"reelcheck/internal/dates"
	"reelcheck/internal/engine"
)

// SortMode orders report rows.
type SortMode string

const (
	SortTitle   SortMode = "title"
	SortTheater SortMode = "theater"
	SortDigital SortMode = "digital"
	SortStatus  SortMode = "status"
	SortNone    SortMode = "none"
)

// ParseSortMode accepts the names listed in config.SortModes. Empty means none.
func ParseSortMode(value string) (SortMode, error) {
	mode := SortMode(strings.ToLower(strings.TrimSpace(value)))
	switch mode {
	case SortTitle, SortTheater, SortDigital, SortStatus, SortNone:
		return mode, nil
	case "":
		return SortNone, nil
	}
	return "", fmt.Errorf("unknown sort mode %q", value)
}

// Sort returns a copy of records ordered by mode. Ties keep input order.
func Sort(records []engine.Record, mode SortMode) []engine.Record {
	out := slices.Clone(records)
	switch mode {
	case SortTitle:
		fold := cases.Fold()
		slices.SortStableFunc(out, func(a, b engine.Record) int {
			return strings.Compare(fold.String(a.Title), fold.String(b.Title))
		})
	case SortTheater:
		slices.SortStableFunc(out, func(a, b engine.Record) int {
			return compareKnownFirst(a.TheaterDate, b.TheaterDate)
		})
	case SortDigital:
		slices.SortStableFunc(out, func(a, b engine.Record) int {
			return compareKnownFirst(a.DigitalDate, b.DigitalDate)
		})
	case SortStatus:
		slices.SortStableFunc(out, func(a, b engine.Record) int {
			return a.Status.Rank() - b.Status.Rank()
		})
	}
	return out
}

// compareKnownFirst orders dates ascending with unknown dates last.
func compareKnownFirst(a, b dates.Date) int {
	switch {
	case a.IsZero() && b.IsZero():
		return 0
	case a.IsZero():
		return 1
	case b.IsZero():
		return -1
	}
	return a.Compare(b)
}
