package engine

import (
	"context"
	"errors"
	"time"

	"reelcheck/internal/availability"
	"reelcheck/internal/dates"
	"reelcheck/internal/extract"
	"reelcheck/internal/scoring"
)

var (
	// ErrCollaboratorUnavailable marks failures that abort the whole batch,
	// such as the release site being unreachable.
	ErrCollaboratorUnavailable = errors.New("collaborator unavailable")
	// ErrRequestSource marks a request source that could not be read.
	ErrRequestSource = errors.New("request source unavailable")
)

// Page is a loaded candidate page flattened into date fields.
type Page struct {
	URL    string
	Fields []extract.Field
}

// SiteSession is one stateful conversation with the release site. A session
// is used by a single goroutine at a time.
type SiteSession interface {
	Search(ctx context.Context, variant string) ([]scoring.Candidate, error)
	Open(ctx context.Context, candidate scoring.Candidate) (Page, error)
}

// SessionFactory opens release site sessions.
type SessionFactory interface {
	NewSession(ctx context.Context) (SiteSession, error)
}

// Metadata is the descriptive data used to decorate a record.
type Metadata struct {
	TMDBID     int64
	Title      string
	Overview   string
	PosterPath string
}

// MetadataLookup finds descriptive metadata for a title.
type MetadataLookup interface {
	Lookup(ctx context.Context, title, locale string) (Metadata, bool, error)
}

// OverrideSource supplies manual digital release dates.
type OverrideSource interface {
	Match(title string) (dates.Date, bool)
	MatchKeywords(important []string) (dates.Date, bool)
}

// Observer receives per-title progress. Calls may come from several
// goroutines when more than one worker is configured.
type Observer interface {
	TitleStarted(index, total int, title string)
	TitleFinished(index, total int, record Record)
}

// Request is one pending title to resolve.
type Request struct {
	// Title may carry a trailing "(YYYY)".
	Title string
	// ExpectedYear is used when the title has no embedded year. Zero means unknown.
	ExpectedYear int
	RequestedBy  string
	RequestedAt  dates.Date
}

// DigitalSource names where a record's digital date came from.
type DigitalSource string

const (
	SourceSite     DigitalSource = "site"
	SourceOverride DigitalSource = "override"
	SourceNone     DigitalSource = "none"
)

// Record is the resolved release state of one title.
type Record struct {
	Title         string              `json:"title"`
	TheaterDate   dates.Date          `json:"theater_date"`
	DigitalDate   dates.Date          `json:"digital_date"`
	Status        availability.Status `json:"status"`
	SourceURL     string              `json:"source_url,omitempty"`
	DigitalSource DigitalSource       `json:"digital_source"`
	TMDBID        int64               `json:"tmdb_id,omitempty"`
	PosterURL     string              `json:"poster_url,omitempty"`
	Overview      string              `json:"overview"`
	RequestedBy   string              `json:"requested_by,omitempty"`
	RequestedAt   dates.Date          `json:"requested_at"`
}

// Options configures a Resolver. It is copied at construction.
type Options struct {
	// Now supplies the run clock. Defaults to time.Now.
	Now func() time.Time
	// Locale is passed to metadata lookups.
	Locale string
	// CatalogYear is the year assumed by year-bearing page rules. Zero uses
	// the year of Now.
	CatalogYear int
	// Workers is the number of concurrent site sessions.
	Workers         int
	PosterBaseURL   string
	DefaultOverview string
	Observer        Observer
}
