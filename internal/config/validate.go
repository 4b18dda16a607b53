package config

import (
	"errors"
	"fmt"
)

// SortModes lists the accepted report.sort values.
var SortModes = []string{"title", "theater", "digital", "status", "none"}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateEngine(); err != nil {
		return err
	}
	if err := c.validateReport(); err != nil {
		return err
	}
	if err := c.validateCatalog(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

// RequireTMDB reports a configuration error when no TMDB credential is set.
// It is separate from Validate so the check command can apply --tmdb-token
// first.
func (c *Config) RequireTMDB() error {
	if c.HasTMDBCredential() {
		return nil
	}
	defaultPath, err := DefaultConfigPath()
	if err != nil {
		defaultPath = defaultConfigPath
	}
	return fmt.Errorf("tmdb.api_key or tmdb.bearer_token is required. Set TMDB_API_KEY or TMDB_BEARER_TOKEN, pass --tmdb-token, or edit %s (create with 'reelcheck config init')", defaultPath)
}

func (c *Config) validateEngine() error {
	if c.Engine.Workers < 1 || c.Engine.Workers > maxEngineWorkers {
		return fmt.Errorf("engine.workers must be between 1 and %d", maxEngineWorkers)
	}
	return nil
}

func (c *Config) validateReport() error {
	for _, mode := range SortModes {
		if c.Report.Sort == mode {
			return nil
		}
	}
	return fmt.Errorf("report.sort %q is not one of %v", c.Report.Sort, SortModes)
}

func (c *Config) validateCatalog() error {
	if c.Catalog.Year == 0 {
		return nil
	}
	if c.Catalog.Year < minCatalogYear || c.Catalog.Year > maxCatalogYear {
		return fmt.Errorf("catalog.year must be 0 or between %d and %d", minCatalogYear, maxCatalogYear)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format %q is not supported", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return errors.New("logging.level must be one of debug, info, warn, error")
	}
	return nil
}
