package testsupport

import (
	"path/filepath"
	"testing"

	"reelcheck/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp paths per test. It
// defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.TMDB.APIKey = "test"
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Ombi.DBPath = filepath.Join(base, "ombi.db")
	cfgVal.Overrides.Path = filepath.Join(base, "digital_dates.txt")
	cfgVal.Site.RequestIntervalMS = 0
	cfgVal.Site.RetryMax = 0
	cfgVal.Site.TimeoutSeconds = 5

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithTMDBKey sets the TMDB API key on the test config.
func WithTMDBKey(key string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.TMDB.APIKey = key
	}
}

// WithTMDBURL points the TMDB client at a test server.
func WithTMDBURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.TMDB.BaseURL = url
	}
}

// WithSiteURL points the release site client at a test server.
func WithSiteURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Site.BaseURL = url
	}
}

// WithOverrides writes an override file with the given contents.
func WithOverrides(contents string) ConfigOption {
	return func(b *configBuilder) {
		WriteFile(b.t, b.cfg.Overrides.Path, contents)
	}
}

// WithCatalogYear pins the year used for override lines without one.
func WithCatalogYear(year int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Catalog.Year = year
	}
}

// WithNtfyTopic enables notifications against a test server.
func WithNtfyTopic(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Notifications.NtfyTopic = url
	}
}
