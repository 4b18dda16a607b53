package requests

import (
	"fmt"

	"reelcheck/internal/dates"
	"reelcheck/internal/engine"
)

// Request is one pending Ombi movie request.
type Request struct {
	ID          int64
	Title       string
	ReleaseDate dates.Date
	Status      string
	RequestedAt dates.Date
	RequestedBy string
}

// Line renders the request as the tab-separated row shown to operators:
// title with release date, requester, status, approval state, request date.
func (r Request) Line() string {
	release := "(?)"
	if !r.ReleaseDate.IsZero() {
		release = r.ReleaseDate.Time().Format("(01/02/2006)")
	}
	asked := "-"
	if !r.RequestedAt.IsZero() {
		asked = r.RequestedAt.Display()
	}
	return fmt.Sprintf("%s %s\t%s\t%s\t%s\t%s", r.Title, release, r.RequestedBy, r.Status, approvalStatus, asked)
}

// ExpectedYear derives the year used to bias candidate scoring.
func (r Request) ExpectedYear() int {
	return dates.ExpectedYear(r.Line())
}

// EngineRequest converts the row into engine input.
func (r Request) EngineRequest() engine.Request {
	return engine.Request{
		Title:        r.Title,
		ExpectedYear: r.ExpectedYear(),
		RequestedBy:  r.RequestedBy,
		RequestedAt:  r.RequestedAt,
	}
}

// EngineRequests converts a batch of rows.
func EngineRequests(rows []Request) []engine.Request {
	out := make([]engine.Request, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.EngineRequest())
	}
	return out
}
