// Package config loads, normalizes, and validates reelcheck configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// TMDB_API_KEY and TMDB_BEARER_TOKEN. The Config type centralizes every knob
// the check command needs: the Ombi database, the release site client, the
// override file, TMDB enrichment, reporting, and logging.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors. A
// loaded Config is treated as read-only; command flags are applied to a copy.
package config
