package site

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"reelcheck/internal/engine"
	"reelcheck/internal/httpx"
	"reelcheck/internal/logging"
	"reelcheck/internal/scoring"
)

const maxPageBytes = 8 << 20

// Options configures a Client.
type Options struct {
	BaseURL string
	// RequestInterval is the minimum gap between requests across all sessions.
	RequestInterval time.Duration
	Timeout         time.Duration
	RetryMax        int
	UserAgent       string
	// Transport replaces the default network transport, mainly for tests.
	Transport http.RoundTripper
	Logger    *slog.Logger
}

// Client opens release site sessions. It implements engine.SessionFactory.
type Client struct {
	base    *url.URL
	opts    Options
	limiter *rate.Limiter
	logger  *slog.Logger
}

var _ engine.SessionFactory = (*Client)(nil)

// New validates the base URL and builds a Client.
func New(opts Options) (*Client, error) {
	raw := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if raw == "" {
		return nil, errors.New("site base url required")
	}
	base, err := url.Parse(raw)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid site base url %q", opts.BaseURL)
	}
	limit := rate.Inf
	if opts.RequestInterval > 0 {
		limit = rate.Every(opts.RequestInterval)
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Client{
		base:    base,
		opts:    opts,
		limiter: rate.NewLimiter(limit, 1),
		logger:  logging.NewComponentLogger(logger, "site"),
	}, nil
}

// BaseURL returns the normalized site root.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// NewSession starts a session with its own cookies by loading the site root.
func (c *Client) NewSession(ctx context.Context) (engine.SiteSession, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	session := &Session{
		client: c,
		http: httpx.NewClient(httpx.Options{
			Timeout:   c.opts.Timeout,
			RetryMax:  c.opts.RetryMax,
			UserAgent: c.opts.UserAgent,
			Jar:       jar,
			Base:      c.opts.Transport,
			Logger:    c.logger,
		}),
	}
	body, err := session.get(ctx, c.base.String()+"/")
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, engine.Unavailable("open release site", err)
	}
	_ = body.Close()
	c.logger.Debug("release site session opened", logging.String("url", c.base.String()))
	return session, nil
}

// Session is one cookie-carrying conversation with the site.
type Session struct {
	client *Client
	http   *http.Client
}

// Search returns the site's suggestions for variant.
func (s *Session) Search(ctx context.Context, variant string) ([]scoring.Candidate, error) {
	variant = strings.TrimSpace(variant)
	if variant == "" {
		return nil, errors.New("search text must not be empty")
	}
	searchURL := s.client.base.String() + "/search?q=" + url.QueryEscape(variant)
	body, err := s.get(ctx, searchURL)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", variant, err)
	}
	defer body.Close()
	candidates, err := ParseSearch(body, s.client.base)
	if err != nil {
		return nil, fmt.Errorf("parse search results: %w", err)
	}
	s.client.logger.Debug("search results",
		logging.String(logging.FieldVariant, variant),
		logging.Int("candidates", len(candidates)))
	return candidates, nil
}

// Open loads a candidate's page and flattens its date fields.
func (s *Session) Open(ctx context.Context, candidate scoring.Candidate) (engine.Page, error) {
	if strings.TrimSpace(candidate.Ref) == "" {
		return engine.Page{}, fmt.Errorf("candidate %q has no link", candidate.Text)
	}
	body, err := s.get(ctx, candidate.Ref)
	if err != nil {
		return engine.Page{}, fmt.Errorf("open %s: %w", candidate.Ref, err)
	}
	defer body.Close()
	fields, err := ParsePage(body)
	if err != nil {
		return engine.Page{}, fmt.Errorf("parse %s: %w", candidate.Ref, err)
	}
	return engine.Page{URL: candidate.Ref, Fields: fields}, nil
}

func (s *Session) get(ctx context.Context, target string) (io.ReadCloser, error) {
	if err := s.client.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	resp, err := s.http.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("%s returned %d", target, resp.StatusCode)
	}
	return struct {
		io.Reader
		io.Closer
	}{io.LimitReader(resp.Body, maxPageBytes), resp.Body}, nil
}
