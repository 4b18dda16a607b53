package report

import (
	"fmt"

	"reelcheck/internal/availability"
	"reelcheck/internal/engine"
)

// Stats counts records per report bucket.
type Stats struct {
	Total       int `json:"total"`
	Available   int `json:"available"`
	Soon        int `json:"soon"`
	Unavailable int `json:"unavailable"`
}

// Count tallies records. No and TBD both count as unavailable.
func Count(records []engine.Record) Stats {
	stats := Stats{Total: len(records)}
	for _, rec := range records {
		switch rec.Status {
		case availability.Yes:
			stats.Available++
		case availability.Soon:
			stats.Soon++
		default:
			stats.Unavailable++
		}
	}
	return stats
}

// Summary is the one-line status of a resolved title.
func Summary(rec engine.Record) string {
	return fmt.Sprintf("%s: %s - Digital: %s", rec.Title, rec.Status, rec.DigitalDate.Or("TBD"))
}

// filterBucket is the HTML filter a record belongs to.
func filterBucket(status availability.Status) string {
	switch status {
	case availability.Yes:
		return "yes"
	case availability.Soon:
		return "soon"
	default:
		return "unavailable"
	}
}
