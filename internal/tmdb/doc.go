// Package tmdb provides the minimal TMDB API client used to decorate report
// entries with posters and overviews.
//
// Client authenticates with either a v3 api_key or a v4 bearer token. Lookup
// adapts it to the engine's metadata interface with a short-lived response
// cache and request pacing.
package tmdb
