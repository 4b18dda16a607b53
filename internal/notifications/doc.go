// Package notifications sends ntfy alerts when requested titles become
// available.
//
// NewService returns a no-op implementation when no topic is configured, so
// callers can notify unconditionally.
package notifications
