package httpx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"

	"reelcheck/internal/logging"
)

const (
	defaultTimeout    = 20 * time.Second
	defaultBackoff    = 500 * time.Millisecond
	defaultMaxBackoff = 10 * time.Second
	defaultMaxWait    = 60 * time.Second
)

// Options configures NewClient.
type Options struct {
	Timeout   time.Duration
	RetryMax  int
	UserAgent string
	Jar       http.CookieJar
	// Base is the underlying transport. Defaults to http.DefaultTransport.
	Base http.RoundTripper
	// Backoff is the first retry delay; later delays double.
	Backoff time.Duration
	// MaxRetryAfter caps how long a 429 Retry-After may hold a request.
	MaxRetryAfter time.Duration
	Logger        *slog.Logger
}

// StatusError reports a retryable HTTP status.
type StatusError struct {
	Code       int
	RetryAfter time.Duration
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("http status %d", e.Code)
}

// Transport sets the User-Agent on every request and retries replayable
// requests on transport errors, 429 and 5xx.
type Transport struct {
	base       http.RoundTripper
	userAgent  string
	attempts   uint
	backoff    time.Duration
	maxBackoff time.Duration
	maxWait    time.Duration
	logger     *slog.Logger
}

// NewTransport wraps opts.Base.
func NewTransport(opts Options) *Transport {
	base := opts.Base
	if base == nil {
		base = http.DefaultTransport
	}
	retries := max(opts.RetryMax, 0)
	backoff := opts.Backoff
	if backoff <= 0 {
		backoff = defaultBackoff
	}
	maxWait := opts.MaxRetryAfter
	if maxWait <= 0 {
		maxWait = defaultMaxWait
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Transport{
		base:       base,
		userAgent:  strings.TrimSpace(opts.UserAgent),
		attempts:   uint(retries + 1),
		backoff:    backoff,
		maxBackoff: defaultMaxBackoff,
		maxWait:    maxWait,
		logger:     logging.NewComponentLogger(logger, "http"),
	}
}

// NewClient builds an http.Client around a retrying Transport.
func NewClient(opts Options) *http.Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: NewTransport(opts),
		Jar:       opts.Jar,
	}
}

// RoundTrip implements http.RoundTripper. The final response is returned even
// when its status was retryable so callers can report it.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.userAgent != "" && req.Header.Get("User-Agent") == "" {
		req = req.Clone(req.Context())
		req.Header.Set("User-Agent", t.userAgent)
	}
	if t.attempts <= 1 || !replayable(req) {
		return t.base.RoundTrip(req)
	}

	ctx := req.Context()
	var (
		resp    *http.Response
		attempt uint
	)
	err := retry.Do(
		func() error {
			attempt++
			r, err := t.base.RoundTrip(cloneForAttempt(ctx, req))
			if err != nil {
				if ctx.Err() != nil {
					return retry.Unrecoverable(ctx.Err())
				}
				return err
			}
			if !retryableStatus(r.StatusCode) || attempt >= t.attempts {
				resp = r
				return nil
			}
			statusErr := &StatusError{Code: r.StatusCode}
			if r.StatusCode == http.StatusTooManyRequests {
				statusErr.RetryAfter = parseRetryAfter(r.Header.Get("Retry-After"), t.maxWait)
			}
			drain(r)
			return statusErr
		},
		retry.Context(ctx),
		retry.Attempts(t.attempts),
		retry.Delay(t.backoff),
		retry.DelayType(t.delay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			t.logger.Debug("retrying request",
				logging.String("url", req.URL.String()),
				logging.Int("attempt", int(n)+1),
				logging.Error(err))
		}),
	)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (t *Transport) delay(n uint, err error, config *retry.Config) time.Duration {
	var statusErr *StatusError
	if errors.As(err, &statusErr) && statusErr.Code == http.StatusTooManyRequests {
		return statusErr.RetryAfter
	}
	return min(retry.BackOffDelay(n, err, config), t.maxBackoff)
}

func replayable(req *http.Request) bool {
	if req.Method != http.MethodGet && req.Method != http.MethodHead {
		return false
	}
	return req.Body == nil || req.Body == http.NoBody || req.GetBody != nil
}

func cloneForAttempt(ctx context.Context, req *http.Request) *http.Request {
	clone := req.Clone(ctx)
	if req.GetBody != nil {
		if body, err := req.GetBody(); err == nil {
			clone.Body = body
		}
	}
	return clone
}

func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= 500
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	_ = resp.Body.Close()
}

// parseRetryAfter reads a delay in seconds, falling back to one second when
// the header is missing or not numeric.
func parseRetryAfter(value string, maxWait time.Duration) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Second
	}
	secs, err := strconv.Atoi(value)
	if err != nil || secs < 0 {
		return time.Second
	}
	d := time.Duration(secs) * time.Second
	if d > maxWait {
		return maxWait
	}
	return d
}
