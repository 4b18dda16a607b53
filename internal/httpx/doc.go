// Package httpx builds the HTTP clients used for the release site and TMDB.
//
// Transport stamps the configured User-Agent and retries GET requests on
// network errors, 429 and 5xx responses with exponential backoff. A 429 waits
// for its Retry-After value instead, capped by Options.MaxRetryAfter.
package httpx
