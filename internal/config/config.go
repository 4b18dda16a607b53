package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directories for run state and logs.
type Paths struct {
	StateDir string `toml:"state_dir"`
	LogDir   string `toml:"log_dir"`
}

// Ombi locates the request database and the web UI used for report links.
type Ombi struct {
	DBPath  string `toml:"db_path"`
	SiteURL string `toml:"site_url"`
}

// TMDB contains configuration for The Movie Database API.
type TMDB struct {
	APIKey       string `toml:"api_key"`
	BearerToken  string `toml:"bearer_token"`
	BaseURL      string `toml:"base_url"`
	Language     string `toml:"language"`
	ImageBaseURL string `toml:"image_base_url"`
}

// Site configures the release-tracking website client.
type Site struct {
	BaseURL           string `toml:"base_url"`
	RequestIntervalMS int    `toml:"request_interval_ms"`
	TimeoutSeconds    int    `toml:"timeout_seconds"`
	RetryMax          int    `toml:"retry_max"`
	UserAgent         string `toml:"user_agent"`
}

// Overrides points at the user-maintained digital date list.
type Overrides struct {
	Path string `toml:"path"`
}

// Catalog holds the year assumed when a date omits one. Zero means the
// current year of the run.
type Catalog struct {
	Year int `toml:"year"`
}

// Report contains HTML report and table settings.
type Report struct {
	HTMLPath        string `toml:"html_path"`
	Sort            string `toml:"sort"`
	Title           string `toml:"title"`
	BackgroundURL   string `toml:"background_url"`
	DefaultOverview string `toml:"default_overview"`
}

// Engine tunes batch processing.
type Engine struct {
	Workers int `toml:"workers"`
}

// History controls the run history database.
type History struct {
	Enabled bool `toml:"enabled"`
}

// Notifications configures ntfy alerts for titles that became available.
type Notifications struct {
	NtfyTopic             string `toml:"ntfy_topic"`
	RequestTimeoutSeconds int    `toml:"request_timeout_seconds"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format     string `toml:"format"`
	Level      string `toml:"level"`
	File       string `toml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days"`
}

// Config encapsulates all configuration values for reelcheck.
//
// Configuration sections by subsystem:
//   - Paths: state and log directories
//   - Ombi: request database and Ombi UI links
//   - TMDB: poster and overview enrichment
//   - Site: release-tracking website client
//   - Overrides: manual digital date list
//   - Catalog: default year for dates without one
//   - Report: HTML report and sort order
//   - Engine: worker count
//   - History: run history database
//   - Notifications: ntfy alerts on status changes
//   - Logging: log format, level, and rotation
type Config struct {
	Paths         Paths         `toml:"paths"`
	Ombi          Ombi          `toml:"ombi"`
	TMDB          TMDB          `toml:"tmdb"`
	Site          Site          `toml:"site"`
	Overrides     Overrides     `toml:"overrides"`
	Catalog       Catalog       `toml:"catalog"`
	Report        Report        `toml:"report"`
	Engine        Engine        `toml:"engine"`
	History       History       `toml:"history"`
	Notifications Notifications `toml:"notifications"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs("reelcheck.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

// EnsureDirectories creates the state directory used for the run lock and
// history database.
func (c *Config) EnsureDirectories() error {
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		return nil
	}
	if err := os.MkdirAll(c.Paths.StateDir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", c.Paths.StateDir, err)
	}
	return nil
}

// LockPath is the file guarding against concurrent runs.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.StateDir, "reelcheck.lock")
}

// HistoryPath is the run history database.
func (c *Config) HistoryPath() string {
	return filepath.Join(c.Paths.StateDir, "history.db")
}

// HasTMDBCredential reports whether either TMDB credential form is set.
func (c *Config) HasTMDBCredential() bool {
	return strings.TrimSpace(c.TMDB.APIKey) != "" || strings.TrimSpace(c.TMDB.BearerToken) != ""
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
