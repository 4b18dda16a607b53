package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"reelcheck/internal/availability"
	"reelcheck/internal/dates"
	"reelcheck/internal/extract"
	"reelcheck/internal/logging"
	"reelcheck/internal/scoring"
	"reelcheck/internal/titles"
)

const maxWorkers = 8

// Resolver turns pending requests into release records.
type Resolver struct {
	sessions  SessionFactory
	metadata  MetadataLookup
	overrides OverrideSource
	logger    *slog.Logger
	opts      Options
}

// NewResolver builds a Resolver. metadata and overrides may be nil.
func NewResolver(sessions SessionFactory, metadata MetadataLookup, overrides OverrideSource, logger *slog.Logger, opts Options) *Resolver {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.Workers > maxWorkers {
		opts.Workers = maxWorkers
	}
	return &Resolver{
		sessions:  sessions,
		metadata:  metadata,
		overrides: overrides,
		logger:    logging.NewComponentLogger(logger, "engine"),
		opts:      opts,
	}
}

func (r *Resolver) catalogYear(today dates.Date) int {
	if r.opts.CatalogYear > 0 {
		return r.opts.CatalogYear
	}
	return today.Year
}

// Resolve looks up one request using session. Search and page errors count as
// misses for the current variant; errors wrapping ErrCollaboratorUnavailable
// and context cancellation are returned.
func (r *Resolver) Resolve(ctx context.Context, session SiteSession, req Request) (Record, error) {
	set := titles.Generate(req.Title)
	title := set.Clean
	if title == "" {
		title = strings.TrimSpace(req.Title)
	}
	expectedYear := validYear(set.EmbeddedYear)
	if expectedYear == 0 {
		expectedYear = validYear(req.ExpectedYear)
	}
	today := dates.Today(r.opts.Now())
	logger := r.logger.With(logging.String(logging.FieldTitle, title))

	record := Record{
		Title:         title,
		DigitalSource: SourceNone,
		Overview:      r.opts.DefaultOverview,
		RequestedBy:   req.RequestedBy,
		RequestedAt:   req.RequestedAt,
	}

	siteInfo := false
	for _, variant := range set.Variants {
		if err := ctx.Err(); err != nil {
			return Record{}, err
		}
		found, url, err := r.tryVariant(ctx, logger, session, set, expectedYear, variant, today)
		if err != nil {
			return Record{}, err
		}
		if found.Theater.IsZero() && found.Digital.IsZero() {
			continue
		}
		record.TheaterDate = found.Theater
		record.DigitalDate = found.Digital
		record.SourceURL = url
		if !found.Digital.IsZero() {
			record.DigitalSource = SourceSite
		}
		siteInfo = true
		logger.Info("release dates found",
			logging.String(logging.FieldVariant, variant),
			logging.Date("theater_date", found.Theater),
			logging.Date("digital_date", found.Digital),
			logging.String("source_url", url))
		break
	}

	r.applyOverrides(logger, &record, set, siteInfo)
	record.Status = availability.Classify(record.TheaterDate, record.DigitalDate, today)

	if err := r.enrich(ctx, logger, &record); err != nil {
		return Record{}, err
	}

	logger.Info("title resolved",
		logging.String("status", record.Status.String()),
		logging.Date("theater_date", record.TheaterDate),
		logging.Date("digital_date", record.DigitalDate),
		logging.String("digital_source", string(record.DigitalSource)))
	return record, nil
}

func (r *Resolver) tryVariant(ctx context.Context, logger *slog.Logger, session SiteSession, set titles.Set, expectedYear int, variant string, today dates.Date) (extract.Dates, string, error) {
	variantLogger := logger.With(logging.String(logging.FieldVariant, variant))

	candidates, err := session.Search(ctx, variant)
	if err != nil {
		if fatal(ctx, err) {
			return extract.Dates{}, "", err
		}
		variantLogger.Debug("search failed", logging.Error(err))
		return extract.Dates{}, "", nil
	}
	best, ok := scoring.Select(variantLogger, candidates, expectedYear, set.Important, set.Clean)
	if !ok {
		variantLogger.Debug("no usable candidates", logging.Int("candidates", len(candidates)))
		return extract.Dates{}, "", nil
	}
	page, err := session.Open(ctx, best)
	if err != nil {
		if fatal(ctx, err) {
			return extract.Dates{}, "", err
		}
		variantLogger.Debug("open candidate failed",
			logging.String("candidate", best.Text),
			logging.Error(err))
		return extract.Dates{}, "", nil
	}
	found := extract.Extract(page.Fields, r.catalogYear(today))
	if found.Theater.IsZero() && found.Digital.IsZero() {
		variantLogger.Debug("candidate page has no release dates",
			logging.String("candidate", best.Text),
			logging.Int("fields", len(page.Fields)))
	}
	return found, page.URL, nil
}

// validYear drops years outside the range scoring accepts as a release year.
func validYear(year int) int {
	if year < dates.MinExpectedYear || year > dates.MaxExpectedYear {
		return 0
	}
	return year
}

func fatal(ctx context.Context, err error) bool {
	if errors.Is(err, ErrCollaboratorUnavailable) {
		return true
	}
	return ctx.Err() != nil
}

func (r *Resolver) applyOverrides(logger *slog.Logger, record *Record, set titles.Set, siteInfo bool) {
	if r.overrides == nil || !record.DigitalDate.IsZero() {
		return
	}
	if d, ok := r.overrides.Match(record.Title); ok {
		record.DigitalDate = d
		record.DigitalSource = SourceOverride
		logger.Info("using override digital date",
			logging.Date("digital_date", d),
			logging.Bool("site_info", siteInfo))
		return
	}
	if siteInfo {
		return
	}
	if d, ok := r.overrides.MatchKeywords(set.Important); ok {
		record.DigitalDate = d
		record.DigitalSource = SourceOverride
		logger.Info("using override digital date by keyword",
			logging.Date("digital_date", d),
			logging.String("keywords", strings.Join(set.Important, " ")))
	}
}

func (r *Resolver) enrich(ctx context.Context, logger *slog.Logger, record *Record) error {
	if r.metadata == nil {
		return nil
	}
	meta, ok, err := r.metadata.Lookup(ctx, record.Title, r.opts.Locale)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		logging.WarnWithContext(logger, "metadata lookup failed", "metadata_lookup_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check the TMDB credential and network access"),
			logging.String(logging.FieldImpact, "report shows no poster or overview for this title"))
		return nil
	}
	if !ok {
		logger.Info("no metadata match")
		return nil
	}
	record.TMDBID = meta.TMDBID
	if meta.PosterPath != "" {
		record.PosterURL = r.opts.PosterBaseURL + meta.PosterPath
	}
	if strings.TrimSpace(meta.Overview) != "" {
		record.Overview = meta.Overview
	}
	return nil
}

// Unavailable wraps err as a batch-fatal collaborator failure.
func Unavailable(what string, err error) error {
	return fmt.Errorf("%s: %w: %w", what, ErrCollaboratorUnavailable, err)
}
