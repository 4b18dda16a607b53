package history

import (
	"reelcheck/internal/availability"
	"reelcheck/internal/engine"
)

// Change is a title whose status differs from the previous run.
type Change struct {
	Title string              `json:"title"`
	From  availability.Status `json:"from"`
	To    availability.Status `json:"to"`
}

// NewlyAvailable reports whether the title moved to Yes.
func (c Change) NewlyAvailable() bool {
	return c.To == availability.Yes && c.From != availability.Yes
}

// Changes lists records whose status changed since previous. Titles that were
// not seen before are not changes.
func Changes(previous map[string]availability.Status, records []engine.Record) []Change {
	var out []Change
	for _, rec := range records {
		before, ok := previous[rec.Title]
		if !ok || before == rec.Status {
			continue
		}
		out = append(out, Change{Title: rec.Title, From: before, To: rec.Status})
	}
	return out
}
