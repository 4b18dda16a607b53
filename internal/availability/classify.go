package availability

import "reelcheck/internal/dates"

const (
	// DaysPerMonth converts elapsed days into months.
	DaysPerMonth = 30.44
	// PresumedAvailableMonths is how long after a theatrical-only release the
	// title is assumed to be out digitally.
	PresumedAvailableMonths = 4.0
	// PresumedSoonMonths is how long after a theatrical-only release a digital
	// release is assumed to be near.
	PresumedSoonMonths = 2.0
)

// Classify merges the known dates into a Status. A digital date decides on its
// own; a theatrical date alone is aged against the month thresholds.
func Classify(theater, digital, now dates.Date) Status {
	if !digital.IsZero() {
		if digital.Compare(now) <= 0 {
			return Yes
		}
		return Soon
	}
	if !theater.IsZero() {
		months := float64(dates.DaysBetween(theater, now)) / DaysPerMonth
		switch {
		case months >= PresumedAvailableMonths:
			return Yes
		case months >= PresumedSoonMonths:
			return Soon
		default:
			return No
		}
	}
	return TBD
}
