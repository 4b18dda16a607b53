package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTMDB()
	c.normalizeSite()
	c.normalizeReport()
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Ombi.DBPath) == "" {
		c.Ombi.DBPath = defaultOmbiDBPath
	}
	if c.Ombi.DBPath, err = expandPath(c.Ombi.DBPath); err != nil {
		return fmt.Errorf("ombi.db_path: %w", err)
	}
	if strings.TrimSpace(c.Overrides.Path) == "" {
		c.Overrides.Path = defaultOverridesPath
	}
	if c.Overrides.Path, err = expandPath(c.Overrides.Path); err != nil {
		return fmt.Errorf("overrides.path: %w", err)
	}
	if c.Report.HTMLPath, err = expandPath(strings.TrimSpace(c.Report.HTMLPath)); err != nil {
		return fmt.Errorf("report.html_path: %w", err)
	}
	if c.Logging.File, err = expandPath(strings.TrimSpace(c.Logging.File)); err != nil {
		return fmt.Errorf("logging.file: %w", err)
	}
	return nil
}

func (c *Config) normalizeTMDB() {
	if c.TMDB.APIKey == "" {
		if value, ok := os.LookupEnv("TMDB_API_KEY"); ok {
			c.TMDB.APIKey = value
		}
	}
	if c.TMDB.BearerToken == "" {
		if value, ok := os.LookupEnv("TMDB_BEARER_TOKEN"); ok {
			c.TMDB.BearerToken = value
		}
	}
	c.TMDB.APIKey = strings.TrimSpace(c.TMDB.APIKey)
	c.TMDB.BearerToken = strings.TrimSpace(c.TMDB.BearerToken)
	c.TMDB.BaseURL = strings.TrimRight(strings.TrimSpace(c.TMDB.BaseURL), "/")
	if c.TMDB.BaseURL == "" {
		c.TMDB.BaseURL = defaultTMDBBaseURL
	}
	c.TMDB.Language = strings.TrimSpace(c.TMDB.Language)
	if c.TMDB.Language == "" {
		c.TMDB.Language = defaultTMDBLanguage
	}
	c.TMDB.ImageBaseURL = strings.TrimRight(strings.TrimSpace(c.TMDB.ImageBaseURL), "/")
	if c.TMDB.ImageBaseURL == "" {
		c.TMDB.ImageBaseURL = defaultTMDBImageBaseURL
	}
}

func (c *Config) normalizeSite() {
	c.Site.BaseURL = strings.TrimRight(strings.TrimSpace(c.Site.BaseURL), "/")
	if c.Site.BaseURL == "" {
		c.Site.BaseURL = defaultSiteBaseURL
	}
	if c.Site.RequestIntervalMS < 0 {
		c.Site.RequestIntervalMS = 0
	}
	if c.Site.TimeoutSeconds <= 0 {
		c.Site.TimeoutSeconds = defaultSiteTimeoutSeconds
	}
	if c.Site.RetryMax < 0 {
		c.Site.RetryMax = 0
	}
	c.Site.UserAgent = strings.TrimSpace(c.Site.UserAgent)
	if c.Site.UserAgent == "" {
		c.Site.UserAgent = defaultSiteUserAgent
	}
	c.Ombi.SiteURL = strings.TrimRight(strings.TrimSpace(c.Ombi.SiteURL), "/")
}

func (c *Config) normalizeReport() {
	c.Report.Sort = strings.ToLower(strings.TrimSpace(c.Report.Sort))
	if c.Report.Sort == "" {
		c.Report.Sort = defaultReportSort
	}
	if strings.TrimSpace(c.Report.Title) == "" {
		c.Report.Title = defaultReportTitle
	}
	if strings.TrimSpace(c.Report.DefaultOverview) == "" {
		c.Report.DefaultOverview = defaultReportOverview
	}
	c.Report.BackgroundURL = strings.TrimSpace(c.Report.BackgroundURL)
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.RequestTimeoutSeconds <= 0 {
		c.Notifications.RequestTimeoutSeconds = defaultNtfyTimeoutSeconds
	}
}

func (c *Config) normalizeLogging() {
	format := strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch format {
	case "", "console", "text":
		c.Logging.Format = "console"
	default:
		c.Logging.Format = format
	}
	level := strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if level == "" {
		level = defaultLogLevel
	}
	c.Logging.Level = level
	if c.Logging.MaxSizeMB <= 0 {
		c.Logging.MaxSizeMB = defaultLogMaxSizeMB
	}
	if c.Logging.MaxBackups < 0 {
		c.Logging.MaxBackups = 0
	}
	if c.Logging.MaxAgeDays < 0 {
		c.Logging.MaxAgeDays = 0
	}
}
