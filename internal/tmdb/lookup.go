package tmdb

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"reelcheck/internal/engine"
	"reelcheck/internal/logging"
)

const (
	defaultCacheTTL = 10 * time.Minute
	defaultPacing   = 250 * time.Millisecond
)

type cacheEntry struct {
	resp    *Response
	expires time.Time
}

// Lookup adapts a Searcher to engine.MetadataLookup. Responses are cached per
// query and language, and searches are paced.
type Lookup struct {
	client   Searcher
	limiter  *rate.Limiter
	cacheTTL time.Duration
	logger   *slog.Logger

	mu    sync.Mutex
	cache map[string]cacheEntry
}

var _ engine.MetadataLookup = (*Lookup)(nil)

// LookupOption configures a Lookup.
type LookupOption func(*Lookup)

// WithPacing sets the minimum gap between searches. Zero disables pacing.
func WithPacing(interval time.Duration) LookupOption {
	return func(l *Lookup) {
		if interval <= 0 {
			l.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		l.limiter = rate.NewLimiter(rate.Every(interval), 1)
	}
}

// WithCacheTTL sets how long a response is reused.
func WithCacheTTL(ttl time.Duration) LookupOption {
	return func(l *Lookup) {
		l.cacheTTL = ttl
	}
}

// NewLookup wraps client.
func NewLookup(client Searcher, logger *slog.Logger, opts ...LookupOption) *Lookup {
	if logger == nil {
		logger = logging.NewNop()
	}
	l := &Lookup{
		client:   client,
		limiter:  rate.NewLimiter(rate.Every(defaultPacing), 1),
		cacheTTL: defaultCacheTTL,
		logger:   logging.NewComponentLogger(logger, "tmdb"),
		cache:    make(map[string]cacheEntry),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Lookup returns the first movie result for title.
func (l *Lookup) Lookup(ctx context.Context, title, locale string) (engine.Metadata, bool, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return engine.Metadata{}, false, nil
	}
	resp, err := l.search(ctx, title, locale)
	if err != nil {
		return engine.Metadata{}, false, err
	}
	if resp == nil || len(resp.Results) == 0 {
		l.logger.Debug("no tmdb results", logging.String(logging.FieldTitle, title))
		return engine.Metadata{}, false, nil
	}
	first := resp.Results[0]
	l.logger.Debug("tmdb match",
		logging.String(logging.FieldTitle, title),
		logging.Int64("tmdb_id", first.ID),
		logging.String("tmdb_title", first.Title))
	return engine.Metadata{
		TMDBID:     first.ID,
		Title:      first.Title,
		Overview:   first.Overview,
		PosterPath: first.PosterPath,
	}, true, nil
}

func (l *Lookup) search(ctx context.Context, title, locale string) (*Response, error) {
	if l == nil || l.client == nil {
		return nil, errors.New("tmdb client unavailable")
	}
	key := strings.ToLower(title) + "|" + strings.ToLower(strings.TrimSpace(locale))

	l.mu.Lock()
	if entry, ok := l.cache[key]; ok && time.Now().Before(entry.expires) {
		l.mu.Unlock()
		return entry.resp, nil
	}
	l.mu.Unlock()

	if err := l.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	resp, err := l.client.SearchMovie(ctx, title, locale)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.cache[key] = cacheEntry{resp: resp, expires: time.Now().Add(l.cacheTTL)}
	l.mu.Unlock()
	return resp, nil
}
